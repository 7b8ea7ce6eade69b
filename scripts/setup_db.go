package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"card-service/internal/config"
	"card-service/internal/repository/postgres"

	"github.com/joho/godotenv"
)

const setupTimeout = time.Minute

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Error loading .env file: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Database.Driver != config.StoreDriverPostgres {
		log.Printf("STORE_DRIVER is %q, nothing to set up", cfg.Database.Driver)
		os.Exit(0)
	}

	fmt.Println("=== Setting Up Database ===")

	db, err := postgres.New(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), setupTimeout)
	defer cancel()

	if err := postgres.ApplySchema(ctx, db); err != nil {
		log.Fatalf("Failed to apply schema: %v", err)
	}
	fmt.Println("Schema applied")

	fmt.Println("=== Verifying Tables ===")
	missing := 0
	for _, table := range postgres.Tables {
		exists, err := postgres.TableExists(ctx, db, table)
		switch {
		case err != nil:
			fmt.Printf("Error checking table '%s': %v\n", table, err)
			missing++
		case exists:
			fmt.Printf("Table '%s' present\n", table)
		default:
			fmt.Printf("Table '%s' NOT created\n", table)
			missing++
		}
	}

	if missing > 0 {
		os.Exit(1)
	}
	fmt.Println("=== Database Setup Complete ===")
}
