package store

import (
	"context"
	"database/sql/driver"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgtype"

	"pnl_projection/pkg/models"
)

// DefaultTable is the won-deal table of the registry.
const DefaultTable = "won_deal"

var tableNamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Source reads the historical deal table from a registry backend.
type Source interface {
	LoadDeals(ctx context.Context) (*models.RawTable, error)
	Close() error
}

// Open dispatches on the DSN scheme:
//   - sqlite://path or a bare *.db path → SQLite (modernc)
//   - postgres:// / postgresql://       → dedicated pgx pool
//   - postgres: (no host)               → shared pool from DATABASE_URL
//   - mysql:// / mariadb://             → MySQL driver
//   - *.csv / *.tsv / *.txt / *.xlsx    → flat file export
func Open(ctx context.Context, dsn, table string) (Source, error) {
	if table == "" {
		table = DefaultTable
	}
	if !tableNamePattern.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}

	switch {
	case strings.HasPrefix(dsn, "sqlite://"):
		return OpenSQLite(strings.TrimPrefix(dsn, "sqlite://"), table)
	case dsn == "postgres:", dsn == "postgresql:":
		if err := InitDB(ctx); err != nil {
			return nil, err
		}
		return NewPostgresSource(table), nil
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return OpenPostgres(ctx, dsn, table)
	case strings.HasPrefix(dsn, "mysql://"), strings.HasPrefix(dsn, "mariadb://"):
		return OpenMySQL(dsn, table)
	case strings.HasSuffix(dsn, ".db"), strings.HasSuffix(dsn, ".sqlite"):
		return OpenSQLite(dsn, table)
	case isFlatFile(dsn):
		return NewFileSource(dsn), nil
	}
	return nil, fmt.Errorf("unsupported registry dsn %q", redact(dsn))
}

// selectAll builds the registry query for a dialect.
func selectAll(table string, ph sq.PlaceholderFormat) (string, []interface{}, error) {
	return sq.Select("*").From(table).PlaceholderFormat(ph).ToSql()
}

// cellString renders a scanned driver value the way the preprocessor expects.
func cellString(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(x)
	case string:
		return x
	case time.Time:
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 {
			return x.Format("2006-01-02")
		}
		return x.Format("2006-01-02 15:04:05")
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case pgtype.Numeric:
		f, err := x.Float64Value()
		if err != nil || !f.Valid {
			return ""
		}
		return strconv.FormatFloat(f.Float64, 'f', -1, 64)
	case driver.Valuer:
		v, err := x.Value()
		if err != nil {
			return ""
		}
		return cellString(v)
	default:
		return fmt.Sprint(x)
	}
}

// redact hides credentials in a DSN for logging.
func redact(dsn string) string {
	at := strings.LastIndex(dsn, "@")
	scheme := strings.Index(dsn, "://")
	if at < 0 || scheme < 0 || at < scheme {
		return dsn
	}
	return dsn[:scheme+3] + "***" + dsn[at:]
}
