package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mctflow/mct-tracker/internal/config"
	"github.com/mctflow/mct-tracker/internal/platform/filestore"
	"github.com/mctflow/mct-tracker/internal/platform/memory"
	"github.com/mctflow/mct-tracker/internal/platform/postgres"
	"github.com/mctflow/mct-tracker/internal/platform/redis"
	"github.com/mctflow/mct-tracker/internal/platform/sqlite"
	"github.com/mctflow/mct-tracker/internal/store"
	"github.com/spf13/afero"
)

// openStore creates the event store selected by cfg.Driver. The returned
// function releases the backend's connections, if any.
func openStore(ctx context.Context, cfg config.StoreConfig, log *slog.Logger) (store.EventStore, func() error, error) {
	log = log.With("store_driver", cfg.Driver)

	switch cfg.Driver {
	case "memory":
		log.Warn("using in-memory event store; records are lost on restart")
		return memory.NewEventStore(), nil, nil

	case "file":
		s, err := filestore.NewEventStore(afero.NewOsFs(), cfg.Dir)
		if err != nil {
			return nil, nil, err
		}
		log.Info("event store ready", "dir", cfg.Dir)
		return s, nil, nil

	case "postgres":
		db, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := postgres.Migrate(ctx, db, log); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		log.Info("event store ready")
		return postgres.NewPostgresEventStore(db, log), db.Close, nil

	case "sqlite":
		db, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		if err := sqlite.Migrate(ctx, db, log); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		log.Info("event store ready", "path", cfg.SQLitePath)
		return sqlite.NewEventStore(db), db.Close, nil

	case "redis":
		client, err := redis.Connect(ctx, redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, nil, err
		}
		log.Info("event store ready", "addr", cfg.RedisAddr)
		return redis.NewEventStore(client, cfg.RedisPrefix), client.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
