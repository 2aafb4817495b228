package storage

import (
	"context"
	"fmt"

	"github.com/marcelsud/book-catalog/book"
	"github.com/marcelsud/book-catalog/book/postgres"
	"github.com/marcelsud/book-catalog/book/redis"
	"github.com/marcelsud/book-catalog/book/sqlite"
	"github.com/marcelsud/book-catalog/config"
)

/* Open picks the book.Repository named by DB_DRIVER and prepares its schema
 * The api and cli binaries share it so both talk to the same store
 */
func Open(ctx context.Context, cfg *config.Config) (book.Repository, error) {
	switch cfg.DBDriver {
	case config.DriverSQLite:
		// migrates on open
		repo, err := sqlite.NewRepository(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		return repo, nil

	case config.DriverPostgres:
		repo, err := postgres.NewRepositoryWithPoolConfig(
			cfg.PostgresConnectionString(),
			cfg.PostgresMaxOpenConns,
			cfg.PostgresMaxIdleConns,
			cfg.PostgresConnMaxLifeMinutes,
		)
		if err != nil {
			return nil, fmt.Errorf("opening postgres store: %w", err)
		}
		if err := repo.CreateTable(ctx); err != nil {
			_ = repo.Close(ctx)
			return nil, fmt.Errorf("migrating postgres store: %w", err)
		}
		return repo, nil

	case config.DriverRedis:
		repo, err := redis.NewRepository(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, fmt.Errorf("opening redis store: %w", err)
		}
		return repo, nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.DBDriver)
	}
}
