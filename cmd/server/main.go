package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"localwire/internal/auth"
	"localwire/internal/database"
	"localwire/internal/handlers"
	"localwire/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load database configuration
	dbConfig := database.LoadConfig()

	// Connect to database
	if err := database.Connect(dbConfig); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer database.Close()

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	// Setup graceful shutdown
	setupGracefulShutdown()

	// Setup HTTP server
	setupServer()
}

func setupGracefulShutdown() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("Received shutdown signal, gracefully shutting down...")

		database.Close()

		log.Println("Shutdown complete")
		os.Exit(0)
	}()
}

func setupServer() {
	// Set Gin mode based on environment
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create router
	r := gin.Default()

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Wire the workflow core
	db := database.DB
	pipeline := services.NewPipelineService(db)
	ledger := services.NewLedgerService(db)
	publisher := services.NewPublisherService(db, pipeline, ledger)
	coordinator := services.NewWorkflowCoordinator(db, pipeline, publisher, ledger)
	verifier := auth.NewTokenVerifier()

	adminHandler := handlers.NewAdminHandler(db, pipeline, publisher, ledger, coordinator, verifier)
	publicHandler := handlers.NewPublicHandler(db, publisher)

	// Public routes
	r.GET("/health", publicHandler.Health)
	r.GET("/api/posts", publicHandler.ListPublished)
	r.GET("/api/posts/:id", publicHandler.GetPublished)

	// Token mint behind basic auth
	tokenGroup := r.Group("/api/admin/auth", adminHandler.AdminAuth())
	tokenGroup.POST("/token", adminHandler.MintToken)

	// Operator actions behind editor tokens
	admin := r.Group("/api/admin", adminHandler.EditorAuth())
	{
		admin.POST("/stories", adminHandler.CreateStory)
		admin.GET("/stories", adminHandler.ListStories)
		admin.POST("/stories/:id/score", adminHandler.ScoreStory)
		admin.POST("/stories/:id/reset", adminHandler.ResetStory)
		admin.POST("/stories/:id/skip", adminHandler.SkipStory)
		admin.POST("/stories/:id/bank", adminHandler.BankStory)
		admin.POST("/stories/:id/discard", adminHandler.DiscardStory)

		admin.POST("/posts", adminHandler.CreateDraft)
		admin.GET("/posts", adminHandler.ListPosts)
		admin.GET("/posts/:id", adminHandler.GetPost)
		admin.GET("/posts/:id/preview", adminHandler.PreviewPost)
		admin.POST("/posts/:id/media", adminHandler.AttachMedia)
		admin.POST("/posts/:id/submit", adminHandler.SubmitPost)
		admin.POST("/posts/:id/schedule", adminHandler.SchedulePost)
		admin.POST("/posts/:id/unschedule", adminHandler.UnschedulePost)
		admin.POST("/posts/:id/publish", adminHandler.PublishPost)
		admin.POST("/posts/:id/unpublish", adminHandler.UnpublishPost)
		admin.POST("/posts/:id/reject", adminHandler.RejectPost)

		admin.POST("/sponsors/:id/deliverables", adminHandler.CreateDeliverable)
		admin.GET("/sponsors/:id/deliverables", adminHandler.ListDeliverables)
		admin.GET("/sponsors/:id/fulfillments", adminHandler.ListFulfillments)

		admin.GET("/reconciliations", adminHandler.ListReconciliations)
		admin.POST("/reconciliations/:id/resolve", adminHandler.ResolveReconciliation)
		admin.GET("/stats", adminHandler.Stats)
	}

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("🚀 Localwire server starting on port %s", port)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
