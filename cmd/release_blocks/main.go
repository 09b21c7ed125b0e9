package main

import (
	"context"
	"log"

	"realtyflow/internal/config"
	"realtyflow/internal/database"
	"realtyflow/internal/modules/inventory"
	"realtyflow/internal/modules/payment"
	"realtyflow/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	db, err := database.Connect(cfg.Database.URL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	ctx := context.Background()
	repos := repository.New(db)

	units := inventory.NewService(repos, inventory.NewLifecycle(cfg.Inventory.BlockTTL), nil)
	released, err := units.ReleaseExpired(ctx)
	if err != nil {
		log.Fatalf("release expired blocks failed after %d units: %v", released, err)
	}

	overdue, err := payment.NewService(repos, log.Printf).MarkOverdue(ctx)
	if err != nil {
		log.Fatalf("overdue sweep failed: %v", err)
	}

	log.Printf("maintenance completed: blocks_released=%d payments_overdue=%d", released, overdue)
}
