package config

import (
	"context"
	"fmt"
	"log"
	"time"

	"tahfiz-portal/internal/adapters/persistence/models"
	"tahfiz-portal/internal/adapters/persistence/repositories"
)

// OpenStore builds the record store named by STORE_DRIVER
func OpenStore(cfg *Config) (*repositories.Store, error) {
	switch cfg.StoreDriver {
	case StoreMySQL:
		db, err := ConnectDatabase(cfg)
		if err != nil {
			return nil, err
		}
		if err := models.AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("failed to auto migrate: %w", err)
		}
		log.Println("✅ Database migration completed")
		return repositories.NewGormStore(db), nil
	default:
		log.Println("✅ Using in-memory record store")
		return repositories.NewMemoryStore(), nil
	}
}

// Seeder loads the demo fixture into a store
type Seeder struct {
	store *repositories.Store
	now   func() time.Time
}

// NewSeeder creates a new seeder instance
func NewSeeder(store *repositories.Store) *Seeder {
	return &Seeder{store: store, now: time.Now}
}

// Run seeds the demo records
func (s *Seeder) Run(ctx context.Context) error {
	log.Println("🌱 Running demo seeder...")

	if err := s.store.Seed(ctx, DemoFixture(s.now())); err != nil {
		return fmt.Errorf("seed demo fixture: %w", err)
	}

	log.Println("✅ Demo seeding completed")
	return nil
}
