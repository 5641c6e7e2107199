package main

import (
	"context"
	"fmt"
	"log"

	"github.com/jonathan/talent-search/internal/cache"
	"github.com/jonathan/talent-search/internal/config"
	"github.com/jonathan/talent-search/internal/db"
	"github.com/jonathan/talent-search/internal/kvstore"
	"github.com/jonathan/talent-search/internal/search"
	"github.com/jonathan/talent-search/internal/seed"
)

// store is what every subcommand needs from a backend.
type store interface {
	search.Store
	seed.Writer
	RefreshSearchableFields(ctx context.Context) (jobs, candidates int64, err error)
	Ping(ctx context.Context) error
}

// backend is an open store plus the function that releases it.
type backend struct {
	store
	kind  string
	pg    *db.DB // set only for the postgres backend
	close func()
}

// Close releases the store connection.
func (b *backend) Close() {
	if b.close != nil {
		b.close()
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// openBackend connects to the store selected by cfg.StoreBackend.
func openBackend(ctx context.Context, cfg *config.Config) (*backend, error) {
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		return &backend{store: database, kind: cfg.StoreBackend, pg: database, close: database.Close}, nil

	case config.BackendBadger:
		kv, err := kvstore.Open(cfg.BadgerPath, cfg.BadgerPath == "")
		if err != nil {
			return nil, fmt.Errorf("failed to open badger store: %w", err)
		}
		if cfg.BadgerPath == "" {
			log.Println("[kvstore] BADGER_PATH not set, using an in-memory store")
		}
		return &backend{store: kv, kind: cfg.StoreBackend, close: func() {
			if err := kv.Close(); err != nil {
				log.Printf("[kvstore] close failed: %v", err)
			}
		}}, nil

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

// newSearchService builds the search service over b, adding the Redis
// suggestion cache when REDIS_URL is configured. The returned func closes
// the Redis client.
func newSearchService(ctx context.Context, cfg *config.Config, b *backend) (*search.Service, func(), error) {
	var opts []search.Option
	cleanup := func() {}

	if cfg.RedisURL != "" {
		ttl, err := cfg.CacheTTL()
		if err != nil {
			return nil, nil, err
		}
		rdb, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		opts = append(opts, search.WithSuggestionCache(cache.NewSuggestionCache(rdb, ttl)))
		cleanup = func() {
			if err := rdb.Close(); err != nil {
				log.Printf("[cache] close failed: %v", err)
			}
		}
	}

	svc, err := search.NewService(b, opts...)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return svc, cleanup, nil
}

// withService loads config, opens the backend and search service, and runs fn.
func withService(ctx context.Context, fn func(cfg *config.Config, b *backend, svc *search.Service) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	b, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.Close()

	svc, cleanup, err := newSearchService(ctx, cfg, b)
	if err != nil {
		return err
	}
	defer cleanup()

	return fn(cfg, b, svc)
}
