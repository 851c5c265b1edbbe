package handlers

import (
	"net/http"

	"localwire/internal/models"
	"localwire/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// PublicHandler serves the read-only public surface: published content only
type PublicHandler struct {
	db        *gorm.DB
	publisher *services.PublisherService
}

// NewPublicHandler creates a new public handler
func NewPublicHandler(db *gorm.DB, publisher *services.PublisherService) *PublicHandler {
	return &PublicHandler{
		db:        db,
		publisher: publisher,
	}
}

// ListPublished handles GET /api/posts
func (h *PublicHandler) ListPublished(c *gin.Context) {
	limit, offset := pagination(c)

	posts, err := h.publisher.ListPosts(models.PostStatusPublished, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to retrieve posts",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// GetPublished handles GET /api/posts/:id; anything not currently published
// is invisible here.
func (h *PublicHandler) GetPublished(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	post, err := h.publisher.GetPost(id)
	if err != nil {
		respondError(c, err)
		return
	}
	if post.Status != models.PostStatusPublished {
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		return
	}

	c.JSON(http.StatusOK, post)
}

// Health handles GET /health
func (h *PublicHandler) Health(c *gin.Context) {
	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.Ping()
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
