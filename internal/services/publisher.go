package services

import (
	"errors"
	"fmt"
	"time"

	"localwire/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreditFork is the operator's explicit choice when unpublishing sponsored
// content. There is no default: archiving sponsored content without deciding
// what happens to the credit is an error.
type CreditFork string

const (
	// CreditKeep archives the post and leaves the ledger untouched
	CreditKeep CreditFork = "keep"
	// CreditReverse archives the post and reverses the fulfillment credit in
	// the same transaction
	CreditReverse CreditFork = "reverse"
)

// PublisherService owns BlogPost status transitions and triggers the sponsor
// ledger and the story pipeline when content publishes or comes back down.
type PublisherService struct {
	db       *gorm.DB
	pipeline *PipelineService
	ledger   *LedgerService
}

// NewPublisherService creates a new publisher service
func NewPublisherService(db *gorm.DB, pipeline *PipelineService, ledger *LedgerService) *PublisherService {
	return &PublisherService{
		db:       db,
		pipeline: pipeline,
		ledger:   ledger,
	}
}

// CreateDraftInput holds the fields the authoring surface supplies for a new draft
type CreateDraftInput struct {
	Title                string
	Body                 string
	Type                 string
	ContentType          string
	CategoryID           *uuid.UUID
	NeighborhoodID       *uuid.UUID
	IsSponsored          bool
	SponsorBusinessID    *uuid.UUID
	ContentSourceStoryID *uuid.UUID
}

// CreateDraft registers a new draft, optionally referencing the story it was
// written from. Sponsored drafts must name their sponsor up front.
func (s *PublisherService) CreateDraft(input CreateDraftInput) (*models.BlogPost, error) {
	if input.Title == "" {
		return nil, &ValidationError{Reason: "title is required"}
	}
	if input.IsSponsored && input.SponsorBusinessID == nil {
		return nil, &ValidationError{Reason: "sponsored content requires a sponsor business"}
	}
	if input.ContentSourceStoryID != nil {
		if _, err := s.pipeline.GetStory(*input.ContentSourceStoryID); err != nil {
			return nil, err
		}
	}

	post := models.BlogPost{
		ID:                   uuid.New(),
		Title:                input.Title,
		Body:                 input.Body,
		Status:               models.PostStatusDraft,
		Type:                 input.Type,
		ContentType:          input.ContentType,
		CategoryID:           input.CategoryID,
		NeighborhoodID:       input.NeighborhoodID,
		IsSponsored:          input.IsSponsored,
		SponsorBusinessID:    input.SponsorBusinessID,
		ContentSourceStoryID: input.ContentSourceStoryID,
	}
	if err := s.db.Create(&post).Error; err != nil {
		return nil, fmt.Errorf("failed to create draft: %w", err)
	}

	return &post, nil
}

// AttachMedia sets the draft's featured image, satisfying the publishing gate
func (s *PublisherService) AttachMedia(postID uuid.UUID, url string) (*models.BlogPost, error) {
	if url == "" {
		return nil, &ValidationError{Reason: "media url is required"}
	}

	post, err := s.getPost(s.db, postID)
	if err != nil {
		return nil, err
	}
	if post.Status == models.PostStatusArchived {
		return nil, &ValidationError{Reason: "cannot attach media to an archived post"}
	}

	res := s.db.Model(&models.BlogPost{}).
		Where("id = ? AND status <> ?", postID, models.PostStatusArchived).
		Update("featured_image_url", url)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to attach media: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, &ConflictError{Entity: "post", ID: postID, Expected: string(post.Status)}
	}

	post.FeaturedImageURL = url
	return post, nil
}

// Submit moves a draft into review
func (s *PublisherService) Submit(postID uuid.UUID) (*models.BlogPost, error) {
	return s.transition(postID, []models.PostStatus{models.PostStatusDraft}, models.PostStatusReadyForReview, nil)
}

// Schedule parks a reviewed draft for a future slot
func (s *PublisherService) Schedule(postID uuid.UUID, at time.Time) (*models.BlogPost, error) {
	if at.Before(time.Now()) {
		return nil, &ValidationError{Reason: "scheduled time must be in the future"}
	}
	return s.transition(postID,
		[]models.PostStatus{models.PostStatusDraft, models.PostStatusReadyForReview},
		models.PostStatusScheduled,
		map[string]interface{}{"scheduled_for": at})
}

// Unschedule returns a scheduled post to review
func (s *PublisherService) Unschedule(postID uuid.UUID) (*models.BlogPost, error) {
	return s.transition(postID,
		[]models.PostStatus{models.PostStatusScheduled},
		models.PostStatusReadyForReview,
		map[string]interface{}{"scheduled_for": nil})
}

// Publish takes a draft live. Preconditions are rechecked here regardless of
// any client-side gating: the post must be in draft or ready_for_review and
// the publishing gate must report Ready. In a single transaction the post
// moves to published, a sponsored post's fulfillment is credited, and a
// story-linked post marks its source story used. Failure of any sub-step
// aborts the whole operation.
func (s *PublisherService) Publish(postID uuid.UUID) (*models.BlogPost, error) {
	var result *models.BlogPost
	err := s.db.Transaction(func(tx *gorm.DB) error {
		post, err := s.getPost(tx, postID)
		if err != nil {
			return err
		}

		if post.Status != models.PostStatusDraft && post.Status != models.PostStatusReadyForReview {
			return &ValidationError{Reason: fmt.Sprintf("cannot publish a post in status %q", post.Status)}
		}
		if Readiness(post) != Ready {
			return &ValidationError{Reason: string(NeedsMedia)}
		}

		now := time.Now()
		res := tx.Model(&models.BlogPost{}).
			Where("id = ? AND status = ?", postID, post.Status).
			Updates(map[string]interface{}{
				"status":       models.PostStatusPublished,
				"published_at": now,
			})
		if res.Error != nil {
			return fmt.Errorf("failed to publish post: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return &ConflictError{Entity: "post", ID: postID, Expected: string(post.Status)}
		}

		post.Status = models.PostStatusPublished
		post.PublishedAt = &now

		if post.IsSponsored {
			if post.SponsorBusinessID == nil {
				return &ValidationError{Reason: "sponsored post has no sponsor business"}
			}
			if err := s.ledger.recordFulfillmentTx(tx, *post.SponsorBusinessID, DeliverableTypeFor(post), post); err != nil {
				return err
			}
		}

		if post.ContentSourceStoryID != nil {
			if _, err := s.pipeline.markUsedTx(tx, *post.ContentSourceStoryID); err != nil {
				return err
			}
		}

		result = post
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Unpublish takes a published post back down into archived. For sponsored
// content the caller must pick a credit fork: keep the fulfillment credit, or
// reverse it inside the same transaction as the archive.
func (s *PublisherService) Unpublish(postID uuid.UUID, fork CreditFork) (*models.BlogPost, error) {
	var result *models.BlogPost
	err := s.db.Transaction(func(tx *gorm.DB) error {
		post, err := s.getPost(tx, postID)
		if err != nil {
			return err
		}

		if post.Status != models.PostStatusPublished {
			return &ValidationError{Reason: fmt.Sprintf("cannot unpublish a post in status %q", post.Status)}
		}
		if post.IsSponsored && fork != CreditKeep && fork != CreditReverse {
			return &ValidationError{Reason: "sponsored content requires an explicit credit fork (keep or reverse)"}
		}

		res := tx.Model(&models.BlogPost{}).
			Where("id = ? AND status = ?", postID, models.PostStatusPublished).
			Update("status", models.PostStatusArchived)
		if res.Error != nil {
			return fmt.Errorf("failed to unpublish post: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return &ConflictError{Entity: "post", ID: postID, Expected: string(models.PostStatusPublished)}
		}

		post.Status = models.PostStatusArchived

		if post.IsSponsored && fork == CreditReverse {
			if post.SponsorBusinessID == nil {
				return &ValidationError{Reason: "sponsored post has no sponsor business"}
			}
			if err := s.ledger.reverseFulfillmentTx(tx, *post.SponsorBusinessID, post.ID); err != nil {
				return err
			}
		}

		result = post
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Reject archives a pre-publication draft, leaving published_at nil so a
// rejected draft stays distinguishable from an unpublished post, and resets
// the linked story so it can re-enter the pipeline. Both mutations commit
// together or neither does. Rejecting an already-rejected draft returns the
// current state unchanged.
func (s *PublisherService) Reject(postID uuid.UUID) (*models.BlogPost, error) {
	var result *models.BlogPost
	err := s.db.Transaction(func(tx *gorm.DB) error {
		post, err := s.getPost(tx, postID)
		if err != nil {
			return err
		}

		if post.Status == models.PostStatusArchived && post.PublishedAt == nil {
			result = post
			return nil
		}
		if post.Status != models.PostStatusDraft && post.Status != models.PostStatusReadyForReview {
			return &ValidationError{Reason: fmt.Sprintf("cannot reject a post in status %q", post.Status)}
		}

		res := tx.Model(&models.BlogPost{}).
			Where("id = ? AND status = ?", postID, post.Status).
			Update("status", models.PostStatusArchived)
		if res.Error != nil {
			return fmt.Errorf("failed to reject post: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return &ConflictError{Entity: "post", ID: postID, Expected: string(post.Status)}
		}

		post.Status = models.PostStatusArchived

		if post.ContentSourceStoryID != nil {
			story, err := s.pipeline.getStory(tx, *post.ContentSourceStoryID)
			if err != nil {
				return err
			}
			// A story that already circled back to new, or that was used by
			// another publication, stays where it is.
			if story.Status != models.StoryStatusNew && story.Status != models.StoryStatusUsed {
				if _, err := s.pipeline.resetToNewTx(tx, story.ID); err != nil {
					return err
				}
			}
		}

		result = post
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetPost loads a single post
func (s *PublisherService) GetPost(postID uuid.UUID) (*models.BlogPost, error) {
	return s.getPost(s.db, postID)
}

func (s *PublisherService) getPost(tx *gorm.DB, postID uuid.UUID) (*models.BlogPost, error) {
	var post models.BlogPost
	if err := tx.First(&post, "id = ?", postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "post", ID: postID}
		}
		return nil, fmt.Errorf("failed to load post: %w", err)
	}
	return &post, nil
}

// ListPosts returns posts, optionally filtered by status, newest first
func (s *PublisherService) ListPosts(status models.PostStatus, limit, offset int) ([]models.BlogPost, error) {
	query := s.db.Order("created_at DESC").Limit(limit).Offset(offset)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var posts []models.BlogPost
	if err := query.Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

// transition performs a conditional single-field status move
func (s *PublisherService) transition(postID uuid.UUID, from []models.PostStatus, to models.PostStatus, extra map[string]interface{}) (*models.BlogPost, error) {
	post, err := s.getPost(s.db, postID)
	if err != nil {
		return nil, err
	}

	allowed := false
	for _, status := range from {
		if post.Status == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, &ValidationError{Reason: fmt.Sprintf("cannot move a post from %q to %q", post.Status, to)}
	}

	updates := map[string]interface{}{"status": to}
	for k, v := range extra {
		updates[k] = v
	}

	res := s.db.Model(&models.BlogPost{}).
		Where("id = ? AND status = ?", postID, post.Status).
		Updates(updates)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to move post to %s: %w", to, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, &ConflictError{Entity: "post", ID: postID, Expected: string(post.Status)}
	}

	return s.getPost(s.db, postID)
}
