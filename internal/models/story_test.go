package models

import (
	"testing"
)

func tierPtr(t Tier) *Tier {
	return &t
}

func TestStatusTierConsistent(t *testing.T) {
	tests := []struct {
		name   string
		status StoryStatus
		tier   *Tier
		want   bool
	}{
		{"new without tier", StoryStatusNew, nil, true},
		{"assigned_blog with blog tier", StoryStatusAssignedBlog, tierPtr(TierBlog), true},
		{"assigned_blog without tier", StoryStatusAssignedBlog, nil, false},
		{"assigned_blog with social tier", StoryStatusAssignedBlog, tierPtr(TierSocial), false},
		{"assigned_script with script tier", StoryStatusAssignedScript, tierPtr(TierScript), true},
		{"draft_script with script tier", StoryStatusDraftScript, tierPtr(TierScript), true},
		{"draft_social with social tier", StoryStatusDraftSocial, tierPtr(TierSocial), true},
		{"assigned_dual with blog tier", StoryStatusAssignedDual, tierPtr(TierBlog), true},
		{"assigned_dual with script tier", StoryStatusAssignedDual, tierPtr(TierScript), true},
		{"assigned_dual with social tier", StoryStatusAssignedDual, tierPtr(TierSocial), false},
		{"used with stale tier", StoryStatusUsed, tierPtr(TierBlog), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusTierConsistent(tt.status, tt.tier); got != tt.want {
				t.Errorf("StatusTierConsistent(%q, %v) = %v, want %v", tt.status, tt.tier, got, tt.want)
			}
		})
	}
}

func TestAssignedStatusForTier(t *testing.T) {
	tests := []struct {
		tier Tier
		want StoryStatus
	}{
		{TierBlog, StoryStatusAssignedBlog},
		{TierScript, StoryStatusAssignedScript},
		{TierSocial, StoryStatusAssignedSocial},
		{Tier("podcast"), ""},
	}

	for _, tt := range tests {
		if got := AssignedStatusForTier(tt.tier); got != tt.want {
			t.Errorf("AssignedStatusForTier(%q) = %q, want %q", tt.tier, got, tt.want)
		}
	}
}
