package store

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	pool    *pgxpool.Pool
	initErr error
	once    sync.Once
)

// InitDB initializes the shared Postgres pool using the DATABASE_URL
// environment variable. Open calls it for the bare "postgres:" registry DSN.
// Later calls return the outcome of the first.
func InitDB(ctx context.Context) error {
	once.Do(func() {
		dbURL := os.Getenv("DATABASE_URL")
		if dbURL == "" {
			initErr = fmt.Errorf("DATABASE_URL environment variable not set")
			return
		}
		pool, initErr = newPool(ctx, dbURL)
	})
	return initErr
}

func newPool(ctx context.Context, dbURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}
	return pgxpool.NewWithConfig(ctx, config)
}

// GetPool returns the shared Postgres pool
func GetPool() *pgxpool.Pool {
	return pool
}

// Close closes the shared Postgres pool
func Close() {
	if pool != nil {
		pool.Close()
	}
}
