// Package app wires configuration into dataset backends and the HTTP router.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/phdstats-api/internal/repository"
	"github.com/noah-isme/phdstats-api/pkg/cache"
	"github.com/noah-isme/phdstats-api/pkg/config"
	"github.com/noah-isme/phdstats-api/pkg/database"
)

// Backend reads and publishes versioned datasets.
type Backend interface {
	repository.DatasetSource
	repository.DatasetPublisher
}

// CloseFunc releases connections held by a backend.
type CloseFunc func() error

func noopClose() error { return nil }

// OpenBackend connects the backend named by kind (file, postgres or redis).
// The Postgres schema is created when missing.
func OpenBackend(ctx context.Context, cfg *config.Config, kind string, logger *zap.Logger) (Backend, CloseFunc, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch kind {
	case config.SourceFile:
		return repository.NewFileSource(cfg.Dataset.Dir), noopClose, nil
	case config.SourceDatabase:
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		source := repository.NewPostgresSource(db)
		if err := source.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return source, db.Close, nil
	case config.SourceRedis:
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewRedisSource(client, logger), client.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown dataset source %q", kind)
	}
}
