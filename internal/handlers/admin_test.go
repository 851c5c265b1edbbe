package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"localwire/internal/auth"
	"localwire/internal/models"
	"localwire/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testEnv struct {
	db     *gorm.DB
	router *gin.Engine
	token  string
}

func setupTestEnv(t *testing.T) *testEnv {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	pipeline := services.NewPipelineService(db)
	ledger := services.NewLedgerService(db)
	publisher := services.NewPublisherService(db, pipeline, ledger)
	coordinator := services.NewWorkflowCoordinator(db, pipeline, publisher, ledger)
	verifier := auth.NewTokenVerifierWithSecret("test-secret", time.Hour)

	adminHandler := NewAdminHandler(db, pipeline, publisher, ledger, coordinator, verifier)
	publicHandler := NewPublicHandler(db, publisher)

	r := gin.New()
	r.GET("/api/posts", publicHandler.ListPublished)
	r.GET("/api/posts/:id", publicHandler.GetPublished)

	admin := r.Group("/api/admin", adminHandler.EditorAuth())
	admin.POST("/stories", adminHandler.CreateStory)
	admin.POST("/stories/:id/score", adminHandler.ScoreStory)
	admin.POST("/stories/:id/reset", adminHandler.ResetStory)
	admin.POST("/posts", adminHandler.CreateDraft)
	admin.POST("/posts/:id/media", adminHandler.AttachMedia)
	admin.POST("/posts/:id/publish", adminHandler.PublishPost)
	admin.POST("/posts/:id/unpublish", adminHandler.UnpublishPost)
	admin.POST("/posts/:id/reject", adminHandler.RejectPost)
	admin.GET("/posts/:id", adminHandler.GetPost)
	admin.GET("/stats", adminHandler.Stats)

	token, err := verifier.IssueToken("test-editor")
	require.NoError(t, err)

	return &testEnv{db: db, router: r, token: token}
}

func (e *testEnv) request(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.token)

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestEditorAuthRequired(t *testing.T) {
	env := setupTestEnv(t)

	req := httptest.NewRequest("POST", "/api/admin/stories", bytes.NewBufferString(`{"headline":"x"}`))
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateStoryEndpoint(t *testing.T) {
	env := setupTestEnv(t)

	t.Run("creates a story", func(t *testing.T) {
		w := env.request(t, "POST", "/api/admin/stories", gin.H{
			"headline":    "New mural downtown",
			"source_name": "tipline",
		})
		require.Equal(t, http.StatusCreated, w.Code)

		var story models.Story
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &story))
		assert.Equal(t, models.StoryStatusNew, story.Status)
	})

	t.Run("validation error maps to 422", func(t *testing.T) {
		w := env.request(t, "POST", "/api/admin/stories", gin.H{"source_name": "tipline"})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestOperatorActionStatusMapping(t *testing.T) {
	env := setupTestEnv(t)

	t.Run("unknown id maps to 404", func(t *testing.T) {
		w := env.request(t, "POST", fmt.Sprintf("/api/admin/stories/%s/reset", uuid.New()), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("malformed id maps to 400", func(t *testing.T) {
		w := env.request(t, "POST", "/api/admin/stories/not-a-uuid/reset", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("illegal transition maps to 422", func(t *testing.T) {
		story := &models.Story{ID: uuid.New(), Headline: "Fresh", Status: models.StoryStatusNew}
		require.NoError(t, env.db.Create(story).Error)

		w := env.request(t, "POST", fmt.Sprintf("/api/admin/stories/%s/reset", story.ID), nil)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("routing conflict maps to 409", func(t *testing.T) {
		tier := models.TierBlog
		story := &models.Story{ID: uuid.New(), Headline: "Routed", Status: models.StoryStatusAssignedBlog, Tier: &tier}
		require.NoError(t, env.db.Create(story).Error)

		w := env.request(t, "POST", fmt.Sprintf("/api/admin/stories/%s/score", story.ID), gin.H{
			"score": 6.0,
			"tier":  "blog",
		})
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestPublishEndpointFlow(t *testing.T) {
	env := setupTestEnv(t)

	// Draft without media: publish fails the gate.
	post := &models.BlogPost{ID: uuid.New(), Title: "Gate check", Status: models.PostStatusDraft}
	require.NoError(t, env.db.Create(post).Error)

	w := env.request(t, "POST", fmt.Sprintf("/api/admin/posts/%s/publish", post.ID), nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = env.request(t, "POST", fmt.Sprintf("/api/admin/posts/%s/media", post.ID), gin.H{
		"url": "https://cdn.example/img.jpg",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.request(t, "POST", fmt.Sprintf("/api/admin/posts/%s/publish", post.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Now visible on the public surface.
	w = env.request(t, "GET", fmt.Sprintf("/api/posts/%s", post.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUnpublishEndpointForks(t *testing.T) {
	env := setupTestEnv(t)

	sponsor := &models.Sponsor{ID: uuid.New(), BusinessName: "Cafe", Active: true}
	require.NoError(t, env.db.Create(sponsor).Error)
	deliverable := &models.SponsorDeliverable{
		ID:              uuid.New(),
		SponsorID:       sponsor.ID,
		DeliverableType: services.DefaultDeliverableType,
		QuantityOwed:    2,
	}
	require.NoError(t, env.db.Create(deliverable).Error)

	now := time.Now()
	post := &models.BlogPost{
		ID:                uuid.New(),
		Title:             "Sponsored brew",
		Status:            models.PostStatusPublished,
		FeaturedImageURL:  "https://cdn.example/brew.jpg",
		IsSponsored:       true,
		SponsorBusinessID: &sponsor.ID,
		PublishedAt:       &now,
	}
	require.NoError(t, env.db.Create(post).Error)

	t.Run("sponsored unpublish without a fork is refused", func(t *testing.T) {
		w := env.request(t, "POST", fmt.Sprintf("/api/admin/posts/%s/unpublish", post.ID), nil)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("explicit keep fork archives the post", func(t *testing.T) {
		w := env.request(t, "POST", fmt.Sprintf("/api/admin/posts/%s/unpublish", post.ID), gin.H{
			"credit": "keep",
		})
		require.Equal(t, http.StatusOK, w.Code)

		var reloaded models.BlogPost
		require.NoError(t, env.db.First(&reloaded, "id = ?", post.ID).Error)
		assert.Equal(t, models.PostStatusArchived, reloaded.Status)
	})
}

func TestGetPostIncludesReadiness(t *testing.T) {
	env := setupTestEnv(t)

	post := &models.BlogPost{ID: uuid.New(), Title: "No media yet", Status: models.PostStatusDraft}
	require.NoError(t, env.db.Create(post).Error)

	w := env.request(t, "GET", fmt.Sprintf("/api/admin/posts/%s", post.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Readiness string `json:"readiness"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, string(services.NeedsMedia), resp.Readiness)
}

func TestPublicSurfaceHidesUnpublished(t *testing.T) {
	env := setupTestEnv(t)

	draft := &models.BlogPost{ID: uuid.New(), Title: "Hidden", Status: models.PostStatusDraft}
	require.NoError(t, env.db.Create(draft).Error)

	req := httptest.NewRequest("GET", fmt.Sprintf("/api/posts/%s", draft.ID), nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStatsEndpoint(t *testing.T) {
	env := setupTestEnv(t)

	t.Run("reports dashboard counts", func(t *testing.T) {
		story := &models.Story{ID: uuid.New(), Headline: "Counted", Status: models.StoryStatusNew}
		require.NoError(t, env.db.Create(story).Error)
		now := time.Now()
		post := &models.BlogPost{ID: uuid.New(), Title: "Live", Status: models.PostStatusPublished, PublishedAt: &now}
		require.NoError(t, env.db.Create(post).Error)

		w := env.request(t, "GET", "/api/admin/stats", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Stories        int64 `json:"stories"`
			Posts          int64 `json:"posts"`
			PublishedPosts int64 `json:"published_posts"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, int64(1), resp.Stories)
		assert.Equal(t, int64(1), resp.Posts)
		assert.Equal(t, int64(1), resp.PublishedPosts)
	})

	t.Run("count failure maps to 500", func(t *testing.T) {
		require.NoError(t, env.db.Exec("DROP TABLE stories").Error)

		w := env.request(t, "GET", "/api/admin/stats", nil)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
