package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// StoryStatus tracks a story's position in the editorial pipeline
type StoryStatus string

const (
	StoryStatusNew            StoryStatus = "new"
	StoryStatusScored         StoryStatus = "scored"
	StoryStatusReviewed       StoryStatus = "reviewed"
	StoryStatusQueued         StoryStatus = "queued"
	StoryStatusAssignedBlog   StoryStatus = "assigned_blog"
	StoryStatusAssignedScript StoryStatus = "assigned_script"
	StoryStatusAssignedDual   StoryStatus = "assigned_dual"
	StoryStatusAssignedSocial StoryStatus = "assigned_social"
	StoryStatusDraftScript    StoryStatus = "draft_script"
	StoryStatusDraftSocial    StoryStatus = "draft_social"
	StoryStatusBanked         StoryStatus = "banked"
	StoryStatusSkipped        StoryStatus = "skipped"
	StoryStatusUsed           StoryStatus = "used"
	StoryStatusDiscarded      StoryStatus = "discarded"
)

// Tier is the output channel a story is routed to
type Tier string

const (
	TierBlog   Tier = "blog"
	TierScript Tier = "script"
	TierSocial Tier = "social"
)

// Story represents a raw editorial lead moving through intake, scoring, and routing
type Story struct {
	ID       uuid.UUID   `json:"id" db:"id" gorm:"primaryKey;type:uuid"`
	Headline string      `json:"headline" db:"headline" gorm:"not null"`
	Summary  string      `json:"summary" db:"summary" gorm:"type:text"`
	Status   StoryStatus `json:"status" db:"status" gorm:"index;not null;default:'new'"`

	// Assigned by the external scorer (or a manual route override)
	Tier  *Tier    `json:"tier,omitempty" db:"tier"`
	Score *float64 `json:"score,omitempty" db:"score"`

	CategoryID     *uuid.UUID `json:"category_id,omitempty" db:"category_id"`
	NeighborhoodID *uuid.UUID `json:"neighborhood_id,omitempty" db:"neighborhood_id"`

	SourceName string         `json:"source_name" db:"source_name"`
	SourceURL  string         `json:"source_url" db:"source_url"`
	Tags       pq.StringArray `json:"tags" db:"tags" gorm:"type:text[]"`

	CreatedAt time.Time `json:"created_at" db:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at" gorm:"autoUpdateTime"`
}

// TableName sets the table name for the Story model
func (Story) TableName() string {
	return "stories"
}

// AssignedStatusForTier maps a routing tier to its assignment status
func AssignedStatusForTier(tier Tier) StoryStatus {
	switch tier {
	case TierBlog:
		return StoryStatusAssignedBlog
	case TierScript:
		return StoryStatusAssignedScript
	case TierSocial:
		return StoryStatusAssignedSocial
	}
	return ""
}

// TiersForStatus returns the tiers implied by an assignment or drafting status.
// assigned_dual implies simultaneous blog and script routing.
func TiersForStatus(status StoryStatus) []Tier {
	switch status {
	case StoryStatusAssignedBlog:
		return []Tier{TierBlog}
	case StoryStatusAssignedScript, StoryStatusDraftScript:
		return []Tier{TierScript}
	case StoryStatusAssignedSocial, StoryStatusDraftSocial:
		return []Tier{TierSocial}
	case StoryStatusAssignedDual:
		return []Tier{TierBlog, TierScript}
	}
	return nil
}

// StatusTierConsistent reports whether a status/tier pair satisfies the
// agreement invariant: an assigned_*/draft_* status requires a tier matching
// its suffix, and every other status carries no tier requirement.
func StatusTierConsistent(status StoryStatus, tier *Tier) bool {
	implied := TiersForStatus(status)
	if implied == nil {
		return true
	}
	if tier == nil {
		return false
	}
	for _, t := range implied {
		if *tier == t {
			return true
		}
	}
	return false
}
