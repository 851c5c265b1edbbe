package models

import (
	"time"

	"github.com/google/uuid"
)

// Category is a taxonomy bucket for stories and posts
type Category struct {
	ID   uuid.UUID `json:"id" db:"id" gorm:"primaryKey;type:uuid"`
	Name string    `json:"name" db:"name" gorm:"not null"`
	Slug string    `json:"slug" db:"slug" gorm:"uniqueIndex;not null"`

	CreatedAt time.Time `json:"created_at" db:"created_at" gorm:"autoCreateTime"`
}

// TableName sets the table name for the Category model
func (Category) TableName() string {
	return "categories"
}

// Neighborhood is the geographic bucket content is filed under
type Neighborhood struct {
	ID   uuid.UUID `json:"id" db:"id" gorm:"primaryKey;type:uuid"`
	Name string    `json:"name" db:"name" gorm:"not null"`
	Slug string    `json:"slug" db:"slug" gorm:"uniqueIndex;not null"`

	CreatedAt time.Time `json:"created_at" db:"created_at" gorm:"autoCreateTime"`
}

// TableName sets the table name for the Neighborhood model
func (Neighborhood) TableName() string {
	return "neighborhoods"
}
