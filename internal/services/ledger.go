package services

import (
	"errors"
	"fmt"
	"time"

	"localwire/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultDeliverableType is used when a sponsored post carries no explicit
// content type to match against a deliverable.
const DefaultDeliverableType = "sponsored_post"

// LedgerService owns sponsor deliverable counts and the fulfillment log. It
// validates every mutation against the owed quantity itself, independent of
// whatever the caller's UI allows.
type LedgerService struct {
	db *gorm.DB
}

// NewLedgerService creates a new ledger service
func NewLedgerService(db *gorm.DB) *LedgerService {
	return &LedgerService{db: db}
}

// DeliverableTypeFor maps a post to the deliverable type it fulfills
func DeliverableTypeFor(post *models.BlogPost) string {
	if post.ContentType != "" {
		return post.ContentType
	}
	return DefaultDeliverableType
}

// RecordFulfillment credits one delivered unit against the sponsor's matching
// deliverable and appends a fulfillment log entry referencing the post. It
// refuses to over-deliver: once delivered equals owed the call fails with a
// LedgerError and nothing changes.
func (ls *LedgerService) RecordFulfillment(sponsorID uuid.UUID, deliverableType string, post *models.BlogPost) error {
	return ls.db.Transaction(func(tx *gorm.DB) error {
		return ls.recordFulfillmentTx(tx, sponsorID, deliverableType, post)
	})
}

func (ls *LedgerService) recordFulfillmentTx(tx *gorm.DB, sponsorID uuid.UUID, deliverableType string, post *models.BlogPost) error {
	var deliverable models.SponsorDeliverable
	err := tx.Where("sponsor_id = ? AND deliverable_type = ?", sponsorID, deliverableType).
		First(&deliverable).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Entity: "sponsor deliverable", ID: sponsorID}
		}
		return fmt.Errorf("failed to load deliverable: %w", err)
	}

	// The quantity guard rides in the WHERE clause so a concurrent credit
	// cannot slip past the owed bound between read and write.
	res := tx.Model(&models.SponsorDeliverable{}).
		Where("id = ? AND quantity_delivered < quantity_owed", deliverable.ID).
		UpdateColumn("quantity_delivered", gorm.Expr("quantity_delivered + 1"))
	if res.Error != nil {
		return fmt.Errorf("failed to credit deliverable: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return &LedgerError{
			SponsorID:       sponsorID,
			DeliverableType: deliverableType,
			Reason:          "all owed units already delivered",
		}
	}

	postID := post.ID
	entry := models.FulfillmentLogEntry{
		ID:              uuid.New(),
		SponsorID:       sponsorID,
		DeliverableType: deliverableType,
		Title:           post.Title,
		ContentURL:      fmt.Sprintf("/api/posts/%s", post.ID),
		DeliveredAt:     time.Now(),
		BlogPostID:      &postID,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return fmt.Errorf("failed to append fulfillment log entry: %w", err)
	}

	return nil
}

// ReverseFulfillment undoes the credit recorded for a post: the matching log
// entry is removed and the deliverable decremented, floored at zero. If no
// entry exists for the post, the call is a no-op, so a retried reversal never
// double-decrements.
func (ls *LedgerService) ReverseFulfillment(sponsorID, postID uuid.UUID) error {
	return ls.db.Transaction(func(tx *gorm.DB) error {
		return ls.reverseFulfillmentTx(tx, sponsorID, postID)
	})
}

func (ls *LedgerService) reverseFulfillmentTx(tx *gorm.DB, sponsorID, postID uuid.UUID) error {
	var entry models.FulfillmentLogEntry
	err := tx.Where("sponsor_id = ? AND blog_post_id = ?", sponsorID, postID).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("failed to locate fulfillment log entry: %w", err)
	}

	if err := tx.Delete(&models.FulfillmentLogEntry{}, "id = ?", entry.ID).Error; err != nil {
		return fmt.Errorf("failed to remove fulfillment log entry: %w", err)
	}

	var deliverable models.SponsorDeliverable
	err = tx.Where("sponsor_id = ? AND deliverable_type = ?", sponsorID, entry.DeliverableType).
		First(&deliverable).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Entry existed without a backing deliverable; nothing to decrement.
			return nil
		}
		return fmt.Errorf("failed to load deliverable: %w", err)
	}

	res := tx.Model(&models.SponsorDeliverable{}).
		Where("id = ? AND quantity_delivered > 0", deliverable.ID).
		UpdateColumn("quantity_delivered", gorm.Expr("quantity_delivered - 1"))
	if res.Error != nil {
		return fmt.Errorf("failed to decrement deliverable: %w", res.Error)
	}

	return nil
}

// CreateDeliverable registers a contracted deliverable for a sponsor
func (ls *LedgerService) CreateDeliverable(sponsorID uuid.UUID, deliverableType string, quantityOwed int) (*models.SponsorDeliverable, error) {
	if deliverableType == "" {
		return nil, &ValidationError{Reason: "deliverable type is required"}
	}
	if quantityOwed < 1 {
		return nil, &ValidationError{Reason: "quantity owed must be at least 1"}
	}

	var sponsor models.Sponsor
	if err := ls.db.First(&sponsor, "id = ?", sponsorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "sponsor", ID: sponsorID}
		}
		return nil, fmt.Errorf("failed to load sponsor: %w", err)
	}

	deliverable := models.SponsorDeliverable{
		ID:              uuid.New(),
		SponsorID:       sponsorID,
		DeliverableType: deliverableType,
		QuantityOwed:    quantityOwed,
	}
	if err := ls.db.Create(&deliverable).Error; err != nil {
		return nil, fmt.Errorf("failed to create deliverable: %w", err)
	}

	return &deliverable, nil
}

// Deliverables lists a sponsor's deliverables
func (ls *LedgerService) Deliverables(sponsorID uuid.UUID) ([]models.SponsorDeliverable, error) {
	var deliverables []models.SponsorDeliverable
	err := ls.db.Where("sponsor_id = ?", sponsorID).
		Order("created_at ASC").
		Find(&deliverables).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list deliverables: %w", err)
	}
	return deliverables, nil
}

// History lists a sponsor's fulfillment log, newest first
func (ls *LedgerService) History(sponsorID uuid.UUID) ([]models.FulfillmentLogEntry, error) {
	var entries []models.FulfillmentLogEntry
	err := ls.db.Where("sponsor_id = ?", sponsorID).
		Order("delivered_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list fulfillment history: %w", err)
	}
	return entries, nil
}
