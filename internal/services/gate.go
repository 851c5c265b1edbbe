package services

import (
	"localwire/internal/models"
)

// ReadinessState is the publishing gate's verdict on a draft
type ReadinessState string

const (
	// Ready means the draft may publish
	Ready ReadinessState = "ready"
	// NeedsMedia means the draft still lacks a featured image
	NeedsMedia ReadinessState = "needs_media"
)

// Readiness computes whether a post is publishable. It is recomputed on every
// read and never stored on the entity.
func Readiness(post *models.BlogPost) ReadinessState {
	if post.FeaturedImageURL == "" {
		return NeedsMedia
	}
	return Ready
}
