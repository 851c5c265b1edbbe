package models

import (
	"time"

	"github.com/google/uuid"
)

// Sponsor represents a local business with a sponsorship package
type Sponsor struct {
	ID           uuid.UUID `json:"id" db:"id" gorm:"primaryKey;type:uuid"`
	BusinessName string    `json:"business_name" db:"business_name" gorm:"not null"`
	Active       bool      `json:"active" db:"active" gorm:"default:true"`

	CreatedAt time.Time `json:"created_at" db:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	Deliverables []SponsorDeliverable `json:"deliverables,omitempty" gorm:"foreignKey:SponsorID"`
}

// TableName sets the table name for the Sponsor model
func (Sponsor) TableName() string {
	return "sponsors"
}

// SponsorDeliverable is a contracted unit of sponsored content owed under a
// package. 0 <= QuantityDelivered <= QuantityOwed holds at all times.
type SponsorDeliverable struct {
	ID                uuid.UUID `json:"id" db:"id" gorm:"primaryKey;type:uuid"`
	SponsorID         uuid.UUID `json:"sponsor_id" db:"sponsor_id" gorm:"index;not null"`
	DeliverableType   string    `json:"deliverable_type" db:"deliverable_type" gorm:"not null"`
	QuantityOwed      int       `json:"quantity_owed" db:"quantity_owed" gorm:"not null;default:0"`
	QuantityDelivered int       `json:"quantity_delivered" db:"quantity_delivered" gorm:"not null;default:0"`

	CreatedAt time.Time `json:"created_at" db:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at" gorm:"autoUpdateTime"`
}

// TableName sets the table name for the SponsorDeliverable model
func (SponsorDeliverable) TableName() string {
	return "sponsor_deliverables"
}

// FulfillmentLogEntry is the append-only record of delivered sponsor content
// backing the deliverable counters. Removal happens only through credit
// reversal, paired with a deliverable decrement.
type FulfillmentLogEntry struct {
	ID              uuid.UUID  `json:"id" db:"id" gorm:"primaryKey;type:uuid"`
	SponsorID       uuid.UUID  `json:"sponsor_id" db:"sponsor_id" gorm:"index;not null"`
	DeliverableType string     `json:"deliverable_type" db:"deliverable_type" gorm:"not null"`
	Title           string     `json:"title" db:"title"`
	ContentURL      string     `json:"content_url" db:"content_url"`
	DeliveredAt     time.Time  `json:"delivered_at" db:"delivered_at"`
	BlogPostID      *uuid.UUID `json:"blog_post_id,omitempty" db:"blog_post_id" gorm:"index"`

	CreatedAt time.Time `json:"created_at" db:"created_at" gorm:"autoCreateTime"`
}

// TableName sets the table name for the FulfillmentLogEntry model
func (FulfillmentLogEntry) TableName() string {
	return "fulfillment_log_entries"
}
