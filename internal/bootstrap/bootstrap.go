// Package bootstrap wires configuration into the engine, stores, cache and
// service shared by the server and the command line tools.
package bootstrap

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"cosmic-blueprint/internal/blueprint"
	"cosmic-blueprint/internal/cache"
	"cosmic-blueprint/internal/config"
	"cosmic-blueprint/internal/instant"
	"cosmic-blueprint/internal/observability"
	"cosmic-blueprint/internal/service"
	"cosmic-blueprint/internal/storage"
	chstore "cosmic-blueprint/internal/storage/clickhouse"
	"cosmic-blueprint/internal/storage/memory"
	"cosmic-blueprint/internal/storage/migrations"
	pgstore "cosmic-blueprint/internal/storage/postgres"
)

// Stores holds the snapshot and layer score stores plus the Blueprint cache.
// Snapshots and LayerScores are nil when persistence is not configured.
type Stores struct {
	Snapshots   storage.SnapshotStore
	LayerScores storage.LayerScoreStore
	Cache       cache.BlueprintCache

	closers []func()
}

// Close releases every connection in reverse order of opening.
func (s *Stores) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}

// OpenStores creates the stores selected by cfg:
//   - UseMemory: in-memory stores
//   - PostgresDSN and ClickhouseDSN: database stores, migrated on open
//   - otherwise: no persistence
//
// The cache is Redis when RedisURL is set, in-memory otherwise.
func OpenStores(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Stores, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Stores{}

	switch {
	case cfg.UseMemory:
		s.Snapshots = memory.NewSnapshotStore()
		s.LayerScores = memory.NewLayerScoreStore()
		logger.Info("using in-memory stores")

	case cfg.Persistent():
		pool, err := pgstore.NewPool(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		s.closers = append(s.closers, pool.Close)

		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			s.Close()
			return nil, fmt.Errorf("postgres migrations: %w", err)
		}

		chConn, err := migrations.RunClickhouseMigrations(ctx, cfg.ClickhouseDSN)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("clickhouse migrations: %w", err)
		}
		s.closers = append(s.closers, func() { chConn.Close() })

		s.Snapshots = pgstore.NewSnapshotStore(pool)
		s.LayerScores = chstore.NewLayerScoreStore(chConn)
		logger.Info("using database stores")

	default:
		logger.Warn("no stores configured, persistence disabled")
	}

	if cfg.RedisURL != "" {
		rc, err := cache.Connect(ctx, cfg.RedisURL, cfg.CacheTTL)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		s.closers = append(s.closers, func() { rc.Close() })
		s.Cache = rc
	} else {
		s.Cache = cache.NewMemoryCache(cfg.CacheTTL)
	}

	return s, nil
}

// newZoneLookup loads the timezone boundary data; replaced in tests.
var newZoneLookup = func() (instant.ZoneLookup, error) {
	return instant.NewTZFLookup()
}

// NewEngine creates the Blueprint assembler. With TimezoneLookup enabled,
// inputs without a timezone are resolved from their coordinates. When the
// boundary data cannot be loaded such inputs fall back to UTC.
func NewEngine(cfg config.Config, logger *zap.Logger, metrics *observability.Metrics) *blueprint.Assembler {
	if logger == nil {
		logger = zap.NewNop()
	}

	var lookup instant.ZoneLookup
	if cfg.TimezoneLookup {
		tz, err := newZoneLookup()
		if err != nil {
			logger.Warn("timezone lookup unavailable, inputs without timezone use UTC", zap.Error(err))
		} else {
			lookup = tz
		}
	}

	opts := blueprint.Options{
		Resolver: instant.NewResolver(lookup, logger),
		Logger:   logger,
	}
	if metrics != nil {
		opts.Anomalies = metrics
	}
	return blueprint.New(opts)
}

// NewService builds the engine and stores for cfg and returns a Service
// with a function releasing its connections.
func NewService(ctx context.Context, cfg config.Config, logger *zap.Logger, metrics *observability.Metrics) (*service.Service, func(), error) {
	engine := NewEngine(cfg, logger, metrics)

	stores, err := OpenStores(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	svc := service.New(service.Options{
		Engine:           engine,
		Snapshots:        stores.Snapshots,
		LayerScores:      stores.LayerScores,
		Cache:            stores.Cache,
		Metrics:          metrics,
		Logger:           logger,
		BatchConcurrency: cfg.BatchConcurrency,
	})
	return svc, stores.Close, nil
}
