package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/washline/washline/internal/app"
	"github.com/washline/washline/internal/customers"
	"github.com/washline/washline/internal/invoices"
	"github.com/washline/washline/internal/orders"
	"github.com/washline/washline/internal/platform/cache"
	"github.com/washline/washline/internal/platform/db"
	"github.com/washline/washline/internal/sequence"
)

// deps holds the shared runtime resources of one process.
type deps struct {
	cfg    *app.Config
	logger *slog.Logger
	pool   *pgxpool.Pool
	redis  *redis.Client
}

func loadDeps(ctx context.Context, needRedis bool) (*deps, error) {
	cfg, err := app.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN, db.PoolOptions{
		MaxConns:        cfg.PGMaxConns,
		MaxConnLifetime: cfg.PGMaxConnLife,
	})
	if err != nil {
		return nil, err
	}
	d := &deps{cfg: cfg, logger: logger, pool: pool}

	if needRedis || cfg.SequenceBackend == app.SequenceBackendRedis {
		client, err := cache.New(ctx, d.redisOptions())
		if err != nil {
			pool.Close()
			return nil, err
		}
		d.redis = client
	}
	return d, nil
}

func (d *deps) redisOptions() cache.Options {
	return cache.Options{Addr: d.cfg.RedisAddr, Password: d.cfg.RedisPassword, DB: d.cfg.RedisDB}
}

func (d *deps) Close() {
	if d.redis != nil {
		if err := d.redis.Close(); err != nil {
			d.logger.Warn("redis close", slog.Any("error", err))
		}
	}
	d.pool.Close()
}

func (d *deps) sequences() sequence.Generator {
	if d.cfg.SequenceBackend == app.SequenceBackendRedis && d.redis != nil {
		return sequence.NewRedisStore(d.redis, "")
	}
	return sequence.NewPostgresStore(d.pool)
}

type services struct {
	customers *customers.Service
	orders    *orders.Service
	invoices  *invoices.Service
}

func (d *deps) services(recorder invoices.Recorder) services {
	codes := d.sequences()
	customerSvc := customers.NewService(customers.NewRepository(d.pool), codes)
	return services{
		customers: customerSvc,
		orders:    orders.NewService(orders.NewRepository(d.pool), customerSvc, codes),
		invoices: invoices.NewService(invoices.NewRepository(d.pool), invoices.ServiceConfig{
			MaxAttempts: d.cfg.LedgerMaxRetries,
			Backoff:     d.cfg.LedgerRetryBackoff,
			Recorder:    recorder,
			Logger:      d.logger,
		}),
	}
}
