package services

import (
	"fmt"
	"log"
	"time"

	"localwire/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WorkflowCoordinator fronts the operations that touch more than one
// aggregate. The happy path is a single store transaction; when an operation
// fails in a way that leaves the outcome unknown (the store erred outside the
// typed taxonomy, so the rollback cannot be trusted), the coordinator durably
// records the suspect operation for manual reconciliation instead of dropping
// it.
type WorkflowCoordinator struct {
	db        *gorm.DB
	pipeline  *PipelineService
	publisher *PublisherService
	ledger    *LedgerService
}

// NewWorkflowCoordinator creates a new workflow coordinator
func NewWorkflowCoordinator(db *gorm.DB, pipeline *PipelineService, publisher *PublisherService, ledger *LedgerService) *WorkflowCoordinator {
	return &WorkflowCoordinator{
		db:        db,
		pipeline:  pipeline,
		publisher: publisher,
		ledger:    ledger,
	}
}

// PublishDraft publishes a draft: post goes live, a sponsored post's credit is
// recorded, and the source story is marked used, all or nothing.
func (wc *WorkflowCoordinator) PublishDraft(postID uuid.UUID) (*models.BlogPost, error) {
	post, err := wc.publisher.Publish(postID)
	if err != nil {
		wc.recordIfUnknown("publish", postID, err)
		return nil, err
	}
	return post, nil
}

// RejectDraft archives a draft and sends its source story back to intake
func (wc *WorkflowCoordinator) RejectDraft(postID uuid.UUID) (*models.BlogPost, error) {
	post, err := wc.publisher.Reject(postID)
	if err != nil {
		wc.recordIfUnknown("reject", postID, err)
		return nil, err
	}
	return post, nil
}

// UnpublishWithFork archives a published post with the operator's explicit
// credit decision applied in the same transaction.
func (wc *WorkflowCoordinator) UnpublishWithFork(postID uuid.UUID, fork CreditFork) (*models.BlogPost, error) {
	post, err := wc.publisher.Unpublish(postID, fork)
	if err != nil {
		wc.recordIfUnknown("unpublish:"+string(fork), postID, err)
		return nil, err
	}
	return post, nil
}

// recordIfUnknown writes a reconciliation record when an error falls outside
// the typed taxonomy. Typed errors mean the transaction rolled back cleanly
// and the prior state stands; anything else is an infrastructure failure whose
// effect on the store is unknown and must not vanish into a log line.
func (wc *WorkflowCoordinator) recordIfUnknown(operation string, postID uuid.UUID, opErr error) {
	if IsValidation(opErr) || IsNotFound(opErr) || IsConflict(opErr) || IsLedger(opErr) {
		return
	}

	record := models.ReconciliationRecord{
		ID:         uuid.New(),
		Operation:  operation,
		EntityType: "blog_post",
		EntityID:   postID,
		Details:    fmt.Sprintf("operation failed at %s: %v", time.Now().Format(time.RFC3339), opErr),
	}
	if err := wc.db.Create(&record).Error; err != nil {
		// Last resort: the record itself could not be written.
		log.Printf("⚠️  failed to write reconciliation record for %s on post %s: %v (original error: %v)",
			operation, postID, err, opErr)
	}
}

// PendingReconciliations lists unresolved reconciliation records, oldest first
func (wc *WorkflowCoordinator) PendingReconciliations() ([]models.ReconciliationRecord, error) {
	var records []models.ReconciliationRecord
	err := wc.db.Where("resolved = ?", false).
		Order("created_at ASC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reconciliation records: %w", err)
	}
	return records, nil
}

// ResolveReconciliation marks a reconciliation record as manually worked off
func (wc *WorkflowCoordinator) ResolveReconciliation(recordID uuid.UUID) error {
	res := wc.db.Model(&models.ReconciliationRecord{}).
		Where("id = ? AND resolved = ?", recordID, false).
		Update("resolved", true)
	if res.Error != nil {
		return fmt.Errorf("failed to resolve reconciliation record: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return &NotFoundError{Entity: "reconciliation record", ID: recordID}
	}
	return nil
}
