package store

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"pnl_projection/pkg/models"
)

// SQLSource reads the registry through database/sql (SQLite or MySQL).
type SQLSource struct {
	db    *sqlx.DB
	table string
	ph    sq.PlaceholderFormat
}

// OpenSQLite opens a SQLite registry file in WAL mode.
func OpenSQLite(path, table string) (*SQLSource, error) {
	db, err := OpenSQLiteDB(path)
	if err != nil {
		return nil, err
	}
	return &SQLSource{db: db, table: table, ph: sq.Question}, nil
}

// OpenSQLiteDB opens a SQLite database file with a single writer connection.
func OpenSQLiteDB(path string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

// OpenMySQL opens a MySQL/MariaDB registry mirror.
func OpenMySQL(dsn, table string) (*SQLSource, error) {
	mysqlDSN, err := toMySQLDSN(dsn)
	if err != nil {
		return nil, err
	}
	db, err := sqlx.Open("mysql", mysqlDSN)
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	return &SQLSource{db: db, table: table, ph: sq.Question}, nil
}

// NewSQLSource wraps an existing handle (e.g., for testing).
func NewSQLSource(db *sqlx.DB, table string) *SQLSource {
	if table == "" {
		table = DefaultTable
	}
	return &SQLSource{db: db, table: table, ph: sq.Question}
}

// toMySQLDSN converts mysql:// or mariadb:// URLs into the driver format.
func toMySQLDSN(dsn string) (string, error) {
	if !strings.HasPrefix(dsn, "mariadb://") && !strings.HasPrefix(dsn, "mysql://") {
		return dsn, nil
	}
	u, err := url.Parse(dsn)
	if err != nil {
		return "", fmt.Errorf("parse dsn: %w", err)
	}
	user, pass := "", ""
	if u.User != nil {
		user = u.User.Username()
		pass, _ = u.User.Password()
	}
	host := u.Host
	db := strings.TrimPrefix(u.Path, "/")
	if user == "" || host == "" || db == "" {
		return "", fmt.Errorf("incomplete dsn (user/host/db)")
	}
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&loc=Local&interpolateParams=true",
		user, pass, host, db), nil
}

// LoadDeals reads every row of the deal table as strings.
func (s *SQLSource) LoadDeals(ctx context.Context) (*models.RawTable, error) {
	query, args, err := selectAll(s.table, s.ph)
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	table, err := s.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	fmt.Printf("[REGISTRY] loaded %d rows (%d columns) from %s\n", len(table.Records), len(table.Header), s.table)
	return table, nil
}

func (s *SQLSource) query(ctx context.Context, query string, args ...interface{}) (*models.RawTable, error) {
	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", s.table, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}
	table := &models.RawTable{Header: cols}
	for rows.Next() {
		values, err := rows.SliceScan()
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
	return table, nil
}

// DB exposes the underlying handle.
func (s *SQLSource) DB() *sqlx.DB {
	return s.db
}

func (s *SQLSource) Close() error {
	return s.db.Close()
}
