package services

import (
	"errors"
	"fmt"

	"localwire/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PipelineService owns Story status transitions: intake, scoring/routing, and
// the terminal states. Every transition is a conditional write against the
// expected prior status so two concurrent operators cannot silently clobber
// each other.
type PipelineService struct {
	db *gorm.DB
}

// NewPipelineService creates a new pipeline service
func NewPipelineService(db *gorm.DB) *PipelineService {
	return &PipelineService{db: db}
}

// CreateStoryInput holds the fields accepted at story intake
type CreateStoryInput struct {
	Headline       string
	Summary        string
	SourceName     string
	SourceURL      string
	Tags           []string
	CategoryID     *uuid.UUID
	NeighborhoodID *uuid.UUID

	// RouteOverride skips scoring and creates the story directly in the
	// matching assigned_* status.
	RouteOverride *models.Tier
}

// CreateStory registers a new editorial lead. With a route override the story
// bypasses scoring entirely; otherwise it starts in "new" awaiting the scorer.
func (ps *PipelineService) CreateStory(input CreateStoryInput) (*models.Story, error) {
	if input.Headline == "" {
		return nil, &ValidationError{Reason: "headline is required"}
	}

	story := models.Story{
		ID:             uuid.New(),
		Headline:       input.Headline,
		Summary:        input.Summary,
		Status:         models.StoryStatusNew,
		SourceName:     input.SourceName,
		SourceURL:      input.SourceURL,
		Tags:           input.Tags,
		CategoryID:     input.CategoryID,
		NeighborhoodID: input.NeighborhoodID,
	}

	if input.RouteOverride != nil {
		assigned := models.AssignedStatusForTier(*input.RouteOverride)
		if assigned == "" {
			return nil, &ValidationError{Reason: fmt.Sprintf("unknown route override %q", *input.RouteOverride)}
		}
		story.Status = assigned
		story.Tier = input.RouteOverride
	}

	if err := ps.db.Create(&story).Error; err != nil {
		return nil, fmt.Errorf("failed to create story: %w", err)
	}

	return &story, nil
}

// ScoreAndRoute is the external scorer's callback: it assigns a score and a
// tier to a story still in "new" and routes it to the matching assigned_*
// status. The score-to-tier thresholds live with the scorer, not here.
func (ps *PipelineService) ScoreAndRoute(storyID uuid.UUID, score float64, tier models.Tier) (*models.Story, error) {
	assigned := models.AssignedStatusForTier(tier)
	if assigned == "" {
		return nil, &ValidationError{Reason: fmt.Sprintf("unknown tier %q", tier)}
	}

	res := ps.db.Model(&models.Story{}).
		Where("id = ? AND status = ?", storyID, models.StoryStatusNew).
		Updates(map[string]interface{}{
			"status": assigned,
			"tier":   tier,
			"score":  score,
		})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to route story: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		if _, err := ps.getStory(ps.db, storyID); err != nil {
			return nil, err
		}
		return nil, &ConflictError{Entity: "story", ID: storyID, Expected: string(models.StoryStatusNew)}
	}

	return ps.getStory(ps.db, storyID)
}

// ResetToNew sends a story back to the top of the pipeline, clearing its
// score, tier, and routing. Resetting a story that is already "new" or has
// been "used" is rejected; the story is left untouched.
func (ps *PipelineService) ResetToNew(storyID uuid.UUID) (*models.Story, error) {
	var story *models.Story
	err := ps.db.Transaction(func(tx *gorm.DB) error {
		var err error
		story, err = ps.resetToNewTx(tx, storyID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return story, nil
}

func (ps *PipelineService) resetToNewTx(tx *gorm.DB, storyID uuid.UUID) (*models.Story, error) {
	story, err := ps.getStory(tx, storyID)
	if err != nil {
		return nil, err
	}

	if story.Status == models.StoryStatusNew || story.Status == models.StoryStatusUsed {
		return nil, &ValidationError{Reason: fmt.Sprintf("cannot reset story in status %q", story.Status)}
	}

	res := tx.Model(&models.Story{}).
		Where("id = ? AND status = ?", storyID, story.Status).
		Updates(map[string]interface{}{
			"status": models.StoryStatusNew,
			"tier":   nil,
			"score":  nil,
		})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to reset story: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, &ConflictError{Entity: "story", ID: storyID, Expected: string(story.Status)}
	}

	story.Status = models.StoryStatusNew
	story.Tier = nil
	story.Score = nil
	return story, nil
}

// MarkUsed records that a story's derived content has published. Terminal;
// calling it again on a used story is a no-op.
func (ps *PipelineService) MarkUsed(storyID uuid.UUID) (*models.Story, error) {
	var story *models.Story
	err := ps.db.Transaction(func(tx *gorm.DB) error {
		var err error
		story, err = ps.markUsedTx(tx, storyID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return story, nil
}

func (ps *PipelineService) markUsedTx(tx *gorm.DB, storyID uuid.UUID) (*models.Story, error) {
	story, err := ps.getStory(tx, storyID)
	if err != nil {
		return nil, err
	}

	if story.Status == models.StoryStatusUsed {
		return story, nil
	}

	res := tx.Model(&models.Story{}).
		Where("id = ? AND status = ?", storyID, story.Status).
		Update("status", models.StoryStatusUsed)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to mark story used: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, &ConflictError{Entity: "story", ID: storyID, Expected: string(story.Status)}
	}

	story.Status = models.StoryStatusUsed
	return story, nil
}

// MarkSkipped parks a story as deliberately passed over
func (ps *PipelineService) MarkSkipped(storyID uuid.UUID) (*models.Story, error) {
	return ps.moveToSoftTerminal(storyID, models.StoryStatusSkipped)
}

// MarkDiscarded rejects a story outright
func (ps *PipelineService) MarkDiscarded(storyID uuid.UUID) (*models.Story, error) {
	return ps.moveToSoftTerminal(storyID, models.StoryStatusDiscarded)
}

// Bank shelves a story for a slow news day
func (ps *PipelineService) Bank(storyID uuid.UUID) (*models.Story, error) {
	return ps.moveToSoftTerminal(storyID, models.StoryStatusBanked)
}

func (ps *PipelineService) moveToSoftTerminal(storyID uuid.UUID, target models.StoryStatus) (*models.Story, error) {
	story, err := ps.getStory(ps.db, storyID)
	if err != nil {
		return nil, err
	}

	if story.Status == target {
		return story, nil
	}
	if story.Status == models.StoryStatusUsed {
		return nil, &ValidationError{Reason: fmt.Sprintf("cannot move a used story to %q", target)}
	}

	res := ps.db.Model(&models.Story{}).
		Where("id = ? AND status = ?", storyID, story.Status).
		Update("status", target)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to move story to %s: %w", target, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, &ConflictError{Entity: "story", ID: storyID, Expected: string(story.Status)}
	}

	story.Status = target
	return story, nil
}

// GetStory loads a single story
func (ps *PipelineService) GetStory(storyID uuid.UUID) (*models.Story, error) {
	return ps.getStory(ps.db, storyID)
}

func (ps *PipelineService) getStory(tx *gorm.DB, storyID uuid.UUID) (*models.Story, error) {
	var story models.Story
	if err := tx.First(&story, "id = ?", storyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "story", ID: storyID}
		}
		return nil, fmt.Errorf("failed to load story: %w", err)
	}
	return &story, nil
}

// ListStories returns stories, optionally filtered by status, newest first
func (ps *PipelineService) ListStories(status models.StoryStatus, limit, offset int) ([]models.Story, error) {
	query := ps.db.Order("created_at DESC").Limit(limit).Offset(offset)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var stories []models.Story
	if err := query.Find(&stories).Error; err != nil {
		return nil, fmt.Errorf("failed to list stories: %w", err)
	}
	return stories, nil
}
