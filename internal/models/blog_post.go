package models

import (
	"time"

	"github.com/google/uuid"
)

// PostStatus tracks a blog post through drafting, review, and publication
type PostStatus string

const (
	PostStatusDraft          PostStatus = "draft"
	PostStatusReadyForReview PostStatus = "ready_for_review"
	PostStatusScheduled      PostStatus = "scheduled"
	PostStatusPublished      PostStatus = "published"
	PostStatusArchived       PostStatus = "archived"
)

// BlogPost represents a piece of site content derived from a story.
// Archived is the soft-delete terminal state; posts are never hard-deleted.
type BlogPost struct {
	ID     uuid.UUID  `json:"id" db:"id" gorm:"primaryKey;type:uuid"`
	Title  string     `json:"title" db:"title" gorm:"not null"`
	Body   string     `json:"body" db:"body" gorm:"type:text"` // markdown source
	Status PostStatus `json:"status" db:"status" gorm:"index;not null;default:'draft'"`

	Type        string `json:"type" db:"type"`
	ContentType string `json:"content_type" db:"content_type"`

	CategoryID     *uuid.UUID `json:"category_id,omitempty" db:"category_id"`
	NeighborhoodID *uuid.UUID `json:"neighborhood_id,omitempty" db:"neighborhood_id"`

	FeaturedImageURL string `json:"featured_image_url" db:"featured_image_url"`

	// Sponsorship: is_sponsored true requires a sponsor business
	IsSponsored       bool       `json:"is_sponsored" db:"is_sponsored" gorm:"default:false"`
	SponsorBusinessID *uuid.UUID `json:"sponsor_business_id,omitempty" db:"sponsor_business_id"`

	// Link back to the editorial pipeline (zero-or-one)
	ContentSourceStoryID *uuid.UUID `json:"content_source_story_id,omitempty" db:"content_source_story_id" gorm:"index"`

	// Non-null iff the post has been published at least once. A rejected
	// draft archives with this still nil, which is how it stays
	// distinguishable from a post that was published and later unpublished.
	PublishedAt  *time.Time `json:"published_at,omitempty" db:"published_at"`
	ScheduledFor *time.Time `json:"scheduled_for,omitempty" db:"scheduled_for"`

	CreatedAt time.Time `json:"created_at" db:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	ContentSourceStory *Story   `json:"content_source_story,omitempty" gorm:"foreignKey:ContentSourceStoryID"`
	SponsorBusiness    *Sponsor `json:"sponsor_business,omitempty" gorm:"foreignKey:SponsorBusinessID"`
}

// TableName sets the table name for the BlogPost model
func (BlogPost) TableName() string {
	return "blog_posts"
}
