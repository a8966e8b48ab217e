// Package db selects the DocumentStore backend once per process.
package db

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/lodgeroll/membership/internal/core/ports"
	"github.com/lodgeroll/membership/internal/infrastructure/db/memory"
	mongostore "github.com/lodgeroll/membership/internal/infrastructure/db/mongo"
	redisstore "github.com/lodgeroll/membership/internal/infrastructure/db/redis"
)

type Backend string

const (
	BackendMongo  Backend = "mongo"
	BackendRedis  Backend = "redis"
	BackendMemory Backend = "memory"
)

// Options carries the settings of every backend; only the selected one is read.
type Options struct {
	Backend Backend
	Mongo   mongostore.Config
	Redis   redisstore.Config
}

// Open connects the configured backend and wraps it with metrics and logging.
func Open(ctx context.Context, opts Options, log zerolog.Logger) (ports.DocumentStore, error) {
	var (
		store ports.DocumentStore
		err   error
	)

	switch opts.Backend {
	case BackendMongo, "":
		store, err = openMongo(ctx, opts.Mongo, log)
	case BackendRedis:
		store, err = redisstore.Open(ctx, opts.Redis)
	case BackendMemory:
		store = memory.New()
	default:
		return nil, fmt.Errorf("unknown store backend %q", opts.Backend)
	}
	if err != nil {
		return nil, err
	}

	backend := opts.Backend
	if backend == "" {
		backend = BackendMongo
	}
	log.Info().Str("backend", string(backend)).Msg("document store ready")
	return Instrument(store, string(backend), log), nil
}

func openMongo(ctx context.Context, cfg mongostore.Config, log zerolog.Logger) (ports.DocumentStore, error) {
	store, err := mongostore.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := store.EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to ensure mongo indexes")
	}
	return store, nil
}
