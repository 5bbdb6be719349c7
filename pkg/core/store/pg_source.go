package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"pnl_projection/pkg/models"
)

// PostgresSource reads the registry from a Postgres mirror.
type PostgresSource struct {
	pool  *pgxpool.Pool
	table string
	owned bool
}

// OpenPostgres creates a dedicated pool for dbURL.
func OpenPostgres(ctx context.Context, dbURL, table string) (*PostgresSource, error) {
	p, err := newPool(ctx, dbURL)
	if err != nil {
		return nil, err
	}
	return &PostgresSource{pool: p, table: table, owned: true}, nil
}

// NewPostgresSource reads through the shared pool set up by InitDB.
func NewPostgresSource(table string) *PostgresSource {
	if table == "" {
		table = DefaultTable
	}
	return &PostgresSource{pool: GetPool(), table: table}
}

// LoadDeals reads every row of the deal table as strings.
func (s *PostgresSource) LoadDeals(ctx context.Context) (*models.RawTable, error) {
	if s.pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}
	query, args, err := selectAll(s.table, sq.Dollar)
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", s.table, err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	table := &models.RawTable{Header: make([]string, len(fields))}
	for i, f := range fields {
		table.Header[i] = f.Name
	}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", s.table, err)
		}
		record := make([]string, len(values))
		for i, v := range values {
			record[i] = cellString(v)
		}
		table.Records = append(table.Records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", s.table, err)
	}
	fmt.Printf("[REGISTRY] loaded %d rows (%d columns) from postgres %s\n", len(table.Records), len(fields), s.table)
	return table, nil
}

// Close releases the pool if this source created it.
func (s *PostgresSource) Close() error {
	if s.owned && s.pool != nil {
		s.pool.Close()
	}
	return nil
}
