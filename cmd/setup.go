package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/facegate/facegate/internal/config"
	"github.com/facegate/facegate/internal/database"
	"github.com/facegate/facegate/internal/database/mysql"
	"github.com/facegate/facegate/internal/database/postgres"
	"github.com/facegate/facegate/internal/detector"
	"github.com/facegate/facegate/internal/gallery"
)

// hnswRepository is implemented by backends that can serve similarity
// lookups from an in-memory index.
type hnswRepository interface {
	EnableHNSW(ctx context.Context, path string) error
	HNSWCount() int
}

// openRepository connects to the configured backend, runs migrations and
// returns the person repository plus a close function.
func openRepository(ctx context.Context, cfg *config.Config) (database.PersonWriter, func(), error) {
	if cfg.Database.URL == "" {
		return nil, nil, errors.New("DATABASE_URL environment variable is required")
	}

	switch cfg.Database.Backend {
	case "", "postgres":
		pool, err := postgres.NewPool(&cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to PostgreSQL: %w", err)
		}
		if err := pool.Migrate(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("running migrations: %w", err)
		}
		return postgres.NewPersonRepository(pool), func() { pool.Close() }, nil
	case "mysql":
		pool, err := mysql.NewPool(&cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to MySQL: %w", err)
		}
		if err := pool.Migrate(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("running migrations: %w", err)
		}
		return mysql.NewPersonRepository(pool), func() { pool.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown database backend %q", cfg.Database.Backend)
	}
}

// newGalleryService wires the repository, detector client and notifier into
// a gallery service.
func newGalleryService(ctx context.Context, cfg *config.Config) (*gallery.Service, *database.Notifier, func(), error) {
	repo, closeRepo, err := openRepository(ctx, cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	det := detector.NewClient(cfg.Detector.URL)
	notifier := database.NewNotifier()
	svc := gallery.NewService(repo, det, notifier, cfg.Thresholds)
	return svc, notifier, closeRepo, nil
}

// initHNSW builds or loads the in-memory landmark index for fast gallery
// lookups. Failure is not fatal, lookups fall back to the database.
func initHNSW(ctx context.Context, repo database.PersonWriter, indexPath string) {
	hr, ok := repo.(hnswRepository)
	if !ok {
		return
	}
	if indexPath != "" {
		fmt.Printf("Loading landmark HNSW index from %s...\n", indexPath)
	} else {
		fmt.Println("Building in-memory HNSW index for landmark lookups...")
	}
	if err := hr.EnableHNSW(ctx, indexPath); err != nil {
		fmt.Printf("Warning: failed to build HNSW index: %v\n", err)
		fmt.Println("Similarity lookups will use database queries (slower)")
		return
	}
	if indexPath != "" {
		fmt.Printf("HNSW index ready with %d people (persisted to %s)\n", hr.HNSWCount(), indexPath)
	} else {
		fmt.Printf("HNSW index built with %d people (in-memory only)\n", hr.HNSWCount())
	}
}
