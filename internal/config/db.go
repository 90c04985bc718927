package config

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"treatment_tracker/internal/migrations"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// ConnectDB establishes a connection pool to PostgreSQL, retrying while the
// database comes up.
func ConnectDB(ctx context.Context, cfg *Config) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid DATABASE_URL: %w", err)
	}
	poolCfg.MaxConns = cfg.DBMaxConns

	for i := 1; i <= cfg.DBConnectRetries; i++ {
		var pool *pgxpool.Pool
		pool, err = pgxpool.NewWithConfig(ctx, poolCfg)
		if err == nil {
			err = pool.Ping(ctx)
			if err == nil {
				slog.InfoContext(ctx, "connected to PostgreSQL", "max_conns", cfg.DBMaxConns)
				return pool, nil
			}
			pool.Close()
		}
		if i == cfg.DBConnectRetries {
			break
		}
		slog.WarnContext(ctx, "failed to connect to database, retrying",
			"attempt", i, "max_attempts", cfg.DBConnectRetries, "retry_in", cfg.DBRetryInterval, "error", err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(cfg.DBRetryInterval):
		}
	}
	return nil, fmt.Errorf("unable to connect to database after %d attempts: %w", cfg.DBConnectRetries, err)
}

// RunMigrations applies the embedded schema migrations
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("unable to apply migrations: %w", err)
	}
	slog.InfoContext(ctx, "migrations applied")
	return nil
}
