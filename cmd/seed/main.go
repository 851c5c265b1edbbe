package main

import (
	"flag"
	"log"

	"localwire/internal/database"
	"localwire/internal/models"
	"localwire/internal/services"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// This is a simple utility to seed the database with taxonomy rows, a couple
// of sponsors with deliverables, and a handful of stories. In a production
// system this would be done through the admin interface.

func main() {
	var storyCount = flag.Int("stories", 5, "Number of sample stories to create")
	var withSponsors = flag.Bool("sponsors", true, "Seed sponsors and deliverables")
	flag.Parse()

	log.Printf("🌱 Localwire Database Seeder")
	log.Printf("============================")

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Connect to database
	dbConfig := database.LoadConfig()
	if err := database.Connect(dbConfig); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer database.Close()

	if err := database.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	db := database.DB
	pipeline := services.NewPipelineService(db)

	// Taxonomy
	categories := []models.Category{
		{ID: uuid.New(), Name: "Food & Drink", Slug: "food-drink"},
		{ID: uuid.New(), Name: "Development", Slug: "development"},
		{ID: uuid.New(), Name: "Events", Slug: "events"},
	}
	for i := range categories {
		var existing models.Category
		if err := db.Where("slug = ?", categories[i].Slug).First(&existing).Error; err == nil {
			categories[i] = existing
			continue
		}
		if err := db.Create(&categories[i]).Error; err != nil {
			log.Printf("⚠️  Failed to create category %s: %v", categories[i].Slug, err)
		}
	}

	neighborhoods := []models.Neighborhood{
		{ID: uuid.New(), Name: "Riverside", Slug: "riverside"},
		{ID: uuid.New(), Name: "Old Town", Slug: "old-town"},
	}
	for i := range neighborhoods {
		var existing models.Neighborhood
		if err := db.Where("slug = ?", neighborhoods[i].Slug).First(&existing).Error; err == nil {
			neighborhoods[i] = existing
			continue
		}
		if err := db.Create(&neighborhoods[i]).Error; err != nil {
			log.Printf("⚠️  Failed to create neighborhood %s: %v", neighborhoods[i].Slug, err)
		}
	}

	// Sponsors with deliverables
	if *withSponsors {
		ledger := services.NewLedgerService(db)
		sponsors := []models.Sponsor{
			{ID: uuid.New(), BusinessName: "Riverside Hardware", Active: true},
			{ID: uuid.New(), BusinessName: "Old Town Coffee Roasters", Active: true},
		}
		for _, sponsor := range sponsors {
			var existing models.Sponsor
			if err := db.Where("business_name = ?", sponsor.BusinessName).First(&existing).Error; err == nil {
				log.Printf("📚 Sponsor already exists: %s", sponsor.BusinessName)
				continue
			}
			if err := db.Create(&sponsor).Error; err != nil {
				log.Printf("⚠️  Failed to create sponsor %s: %v", sponsor.BusinessName, err)
				continue
			}
			if _, err := ledger.CreateDeliverable(sponsor.ID, services.DefaultDeliverableType, 4); err != nil {
				log.Printf("⚠️  Failed to create deliverable for %s: %v", sponsor.BusinessName, err)
			}
			log.Printf("✅ Created sponsor with deliverables: %s", sponsor.BusinessName)
		}
	}

	// Sample stories
	headlines := []string{
		"New bakery opening on Main Street",
		"City council approves riverside bike path",
		"Local high school robotics team heads to nationals",
		"Farmers market extends season through November",
		"Historic theater begins restoration work",
	}
	created := 0
	for i := 0; i < *storyCount && i < len(headlines); i++ {
		story, err := pipeline.CreateStory(services.CreateStoryInput{
			Headline:   headlines[i],
			Summary:    "Seeded sample story for development.",
			SourceName: "seed",
			Tags:       []string{"sample"},
			CategoryID: &categories[i%len(categories)].ID,
		})
		if err != nil {
			log.Printf("⚠️  Failed to create story: %v", err)
			continue
		}
		created++
		log.Printf("✅ Created story: %s", story.Headline)
	}

	log.Printf("✅ Seeded %d stories", created)
}
