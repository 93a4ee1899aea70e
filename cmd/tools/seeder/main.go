package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/noah-isme/backend-bar/internal/db"
	"github.com/noah-isme/backend-bar/internal/repo"
)

type seedDrink struct {
	Name  string
	Price float64
}

var drinks = []seedDrink{
	{"Beer", 100},
	{"Wine", 200},
	{"Vodka", 300},
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	if err := db.Migrate(dbURL); err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := db.Connect(ctx, dbURL, "bar-seeder")
	if err != nil {
		log.Fatalf("Failed to connect DB: %v", err)
	}
	defer pool.Close()

	catalog := repo.Drinks{DB: pool}
	count, err := catalog.Count(ctx)
	if err != nil {
		log.Fatalf("Failed to count drinks: %v", err)
	}
	if count > 0 {
		log.Printf("Catalog already has %d drinks, nothing to seed", count)
		return
	}

	log.Println("Seeding drinks...")
	for _, d := range drinks {
		created, err := catalog.Create(ctx, d.Name, d.Price)
		if err != nil {
			log.Fatalf("Failed to seed drink %s: %v", d.Name, err)
		}
		log.Printf("Seeded %s at %.2f (id=%d)", created.Name, created.InitialPrice, created.ID)
	}
	log.Println("Seeding completed successfully!")
}
