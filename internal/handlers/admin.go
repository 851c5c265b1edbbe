package handlers

import (
	"net/http"
	"os"
	"strconv"
	"time"

	"localwire/internal/auth"
	"localwire/internal/models"
	"localwire/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AdminHandler exposes the operator actions of the editorial pipeline and the
// sponsor ledger as JSON endpoints. Every action returns a typed result; a
// rejected transition leaves the prior state untouched.
type AdminHandler struct {
	db          *gorm.DB
	pipeline    *services.PipelineService
	publisher   *services.PublisherService
	ledger      *services.LedgerService
	coordinator *services.WorkflowCoordinator
	verifier    *auth.TokenVerifier
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(db *gorm.DB, pipeline *services.PipelineService, publisher *services.PublisherService, ledger *services.LedgerService, coordinator *services.WorkflowCoordinator, verifier *auth.TokenVerifier) *AdminHandler {
	return &AdminHandler{
		db:          db,
		pipeline:    pipeline,
		publisher:   publisher,
		ledger:      ledger,
		coordinator: coordinator,
		verifier:    verifier,
	}
}

// AdminAuth middleware for basic password protection on the token mint
func (h *AdminHandler) AdminAuth() gin.HandlerFunc {
	return gin.BasicAuth(gin.Accounts{
		"admin": getAdminPassword(),
	})
}

// getAdminPassword returns the admin password from environment or default
func getAdminPassword() string {
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin123" // Default password for development
	}
	return password
}

// EditorAuth validates the editor bearer token on every operator action
func (h *AdminHandler) EditorAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		editor, ok := h.verifier.ValidateToken(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Valid editor token required",
			})
			return
		}
		c.Set("editor", editor)
		c.Next()
	}
}

// MintToken handles POST /api/admin/auth/token
func (h *AdminHandler) MintToken(c *gin.Context) {
	var req struct {
		Editor string `json:"editor" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "editor name required"})
		return
	}

	token, err := h.verifier.IssueToken(req.Editor)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// respondError maps the service error taxonomy onto HTTP statuses
func respondError(c *gin.Context, err error) {
	switch {
	case services.IsValidation(err):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "kind": "validation"})
	case services.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "kind": "not_found"})
	case services.IsConflict(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "kind": "conflict"})
	case services.IsLedger(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "kind": "ledger"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error", "details": err.Error()})
	}
}

// parseID pulls a uuid path parameter, responding 400 on garbage
func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id format"})
		return uuid.Nil, false
	}
	return id, true
}

// CreateStory handles POST /api/admin/stories
func (h *AdminHandler) CreateStory(c *gin.Context) {
	var req struct {
		Headline       string     `json:"headline"`
		Summary        string     `json:"summary"`
		SourceName     string     `json:"source_name"`
		SourceURL      string     `json:"source_url"`
		Tags           []string   `json:"tags"`
		CategoryID     *uuid.UUID `json:"category_id"`
		NeighborhoodID *uuid.UUID `json:"neighborhood_id"`
		RouteOverride  *string    `json:"route_override"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	input := services.CreateStoryInput{
		Headline:       req.Headline,
		Summary:        req.Summary,
		SourceName:     req.SourceName,
		SourceURL:      req.SourceURL,
		Tags:           req.Tags,
		CategoryID:     req.CategoryID,
		NeighborhoodID: req.NeighborhoodID,
	}
	if req.RouteOverride != nil {
		tier := models.Tier(*req.RouteOverride)
		input.RouteOverride = &tier
	}

	story, err := h.pipeline.CreateStory(input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, story)
}

// ScoreStory handles POST /api/admin/stories/:id/score (external scorer callback)
func (h *AdminHandler) ScoreStory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req struct {
		Score float64 `json:"score"`
		Tier  string  `json:"tier"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	story, err := h.pipeline.ScoreAndRoute(id, req.Score, models.Tier(req.Tier))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, story)
}

// ResetStory handles POST /api/admin/stories/:id/reset
func (h *AdminHandler) ResetStory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	story, err := h.pipeline.ResetToNew(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, story)
}

// SkipStory handles POST /api/admin/stories/:id/skip
func (h *AdminHandler) SkipStory(c *gin.Context) {
	h.storyAction(c, h.pipeline.MarkSkipped)
}

// BankStory handles POST /api/admin/stories/:id/bank
func (h *AdminHandler) BankStory(c *gin.Context) {
	h.storyAction(c, h.pipeline.Bank)
}

// DiscardStory handles POST /api/admin/stories/:id/discard
func (h *AdminHandler) DiscardStory(c *gin.Context) {
	h.storyAction(c, h.pipeline.MarkDiscarded)
}

func (h *AdminHandler) storyAction(c *gin.Context, action func(uuid.UUID) (*models.Story, error)) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	story, err := action(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, story)
}

// ListStories handles GET /api/admin/stories
func (h *AdminHandler) ListStories(c *gin.Context) {
	limit, offset := pagination(c)
	stories, err := h.pipeline.ListStories(models.StoryStatus(c.Query("status")), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"stories": stories})
}

// CreateDraft handles POST /api/admin/posts (authoring surface)
func (h *AdminHandler) CreateDraft(c *gin.Context) {
	var req struct {
		Title                string     `json:"title"`
		Body                 string     `json:"body"`
		Type                 string     `json:"type"`
		ContentType          string     `json:"content_type"`
		CategoryID           *uuid.UUID `json:"category_id"`
		NeighborhoodID       *uuid.UUID `json:"neighborhood_id"`
		IsSponsored          bool       `json:"is_sponsored"`
		SponsorBusinessID    *uuid.UUID `json:"sponsor_business_id"`
		ContentSourceStoryID *uuid.UUID `json:"content_source_story_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	post, err := h.publisher.CreateDraft(services.CreateDraftInput{
		Title:                req.Title,
		Body:                 req.Body,
		Type:                 req.Type,
		ContentType:          req.ContentType,
		CategoryID:           req.CategoryID,
		NeighborhoodID:       req.NeighborhoodID,
		IsSponsored:          req.IsSponsored,
		SponsorBusinessID:    req.SponsorBusinessID,
		ContentSourceStoryID: req.ContentSourceStoryID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, post)
}

// AttachMedia handles POST /api/admin/posts/:id/media
func (h *AdminHandler) AttachMedia(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req struct {
		URL string `json:"url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	post, err := h.publisher.AttachMedia(id, req.URL)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

// SubmitPost handles POST /api/admin/posts/:id/submit
func (h *AdminHandler) SubmitPost(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	post, err := h.publisher.Submit(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

// SchedulePost handles POST /api/admin/posts/:id/schedule
func (h *AdminHandler) SchedulePost(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req struct {
		At time.Time `json:"at"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	post, err := h.publisher.Schedule(id, req.At)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

// UnschedulePost handles POST /api/admin/posts/:id/unschedule
func (h *AdminHandler) UnschedulePost(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	post, err := h.publisher.Unschedule(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

// PublishPost handles POST /api/admin/posts/:id/publish
func (h *AdminHandler) PublishPost(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	post, err := h.coordinator.PublishDraft(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

// UnpublishPost handles POST /api/admin/posts/:id/unpublish. The request body
// carries the credit fork; sponsored content is refused without one.
func (h *AdminHandler) UnpublishPost(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	// An empty body is fine for non-sponsored posts; the publisher enforces
	// the explicit fork for sponsored content.
	var req struct {
		Credit string `json:"credit"`
	}
	_ = c.ShouldBindJSON(&req)

	post, err := h.coordinator.UnpublishWithFork(id, services.CreditFork(req.Credit))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

// RejectPost handles POST /api/admin/posts/:id/reject
func (h *AdminHandler) RejectPost(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	post, err := h.coordinator.RejectDraft(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

// ListPosts handles GET /api/admin/posts
func (h *AdminHandler) ListPosts(c *gin.Context) {
	limit, offset := pagination(c)
	posts, err := h.publisher.ListPosts(models.PostStatus(c.Query("status")), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// GetPost handles GET /api/admin/posts/:id, including the computed readiness
func (h *AdminHandler) GetPost(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	post, err := h.publisher.GetPost(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"post":      post,
		"readiness": services.Readiness(post),
	})
}

// CreateDeliverable handles POST /api/admin/sponsors/:id/deliverables
func (h *AdminHandler) CreateDeliverable(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req struct {
		DeliverableType string `json:"deliverable_type"`
		QuantityOwed    int    `json:"quantity_owed"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	deliverable, err := h.ledger.CreateDeliverable(id, req.DeliverableType, req.QuantityOwed)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, deliverable)
}

// ListDeliverables handles GET /api/admin/sponsors/:id/deliverables
func (h *AdminHandler) ListDeliverables(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	deliverables, err := h.ledger.Deliverables(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deliverables": deliverables})
}

// ListFulfillments handles GET /api/admin/sponsors/:id/fulfillments
func (h *AdminHandler) ListFulfillments(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	entries, err := h.ledger.History(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"fulfillments": entries})
}

// ListReconciliations handles GET /api/admin/reconciliations
func (h *AdminHandler) ListReconciliations(c *gin.Context) {
	records, err := h.coordinator.PendingReconciliations()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reconciliations": records})
}

// ResolveReconciliation handles POST /api/admin/reconciliations/:id/resolve
func (h *AdminHandler) ResolveReconciliation(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.coordinator.ResolveReconciliation(id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"resolved": true})
}

// Stats handles GET /api/admin/stats (dashboard counts)
func (h *AdminHandler) Stats(c *gin.Context) {
	var storyCount, postCount, publishedCount, pendingReconciliations int64
	counts := []*gorm.DB{
		h.db.Model(&models.Story{}).Count(&storyCount),
		h.db.Model(&models.BlogPost{}).Count(&postCount),
		h.db.Model(&models.BlogPost{}).Where("status = ?", models.PostStatusPublished).Count(&publishedCount),
		h.db.Model(&models.ReconciliationRecord{}).Where("resolved = ?", false).Count(&pendingReconciliations),
	}
	for _, res := range counts {
		if res.Error != nil {
			respondError(c, res.Error)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"stories":                 storyCount,
		"posts":                   postCount,
		"published_posts":         publishedCount,
		"pending_reconciliations": pendingReconciliations,
	})
}

// pagination parses limit/page query parameters with the usual clamps
func pagination(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	if limit > 100 {
		limit = 100
	}
	if limit < 1 {
		limit = 20
	}
	if page < 1 {
		page = 1
	}

	return limit, (page - 1) * limit
}
