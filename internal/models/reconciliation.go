package models

import (
	"time"

	"github.com/google/uuid"
)

// ReconciliationRecord is the durable trace of a multi-step operation that
// could not complete atomically (e.g. a post unpublished but its credit
// reversal failed). Operators work these off by hand; a partial effect is
// never dropped silently.
type ReconciliationRecord struct {
	ID         uuid.UUID `json:"id" db:"id" gorm:"primaryKey;type:uuid"`
	Operation  string    `json:"operation" db:"operation" gorm:"not null"`
	EntityType string    `json:"entity_type" db:"entity_type" gorm:"index;not null"`
	EntityID   uuid.UUID `json:"entity_id" db:"entity_id" gorm:"index;not null"`
	Details    string    `json:"details" db:"details" gorm:"type:text"`
	Resolved   bool      `json:"resolved" db:"resolved" gorm:"index;default:false"`

	CreatedAt time.Time `json:"created_at" db:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at" gorm:"autoUpdateTime"`
}

// TableName sets the table name for the ReconciliationRecord model
func (ReconciliationRecord) TableName() string {
	return "reconciliation_records"
}
