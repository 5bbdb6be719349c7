package store

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"pnl_projection/pkg/models"
)

// ColumnInfo is one column of a SQLite table.
type ColumnInfo struct {
	CID     int            `db:"cid" json:"-"`
	Name    string         `db:"name" json:"name"`
	Type    string         `db:"type" json:"type"`
	NotNull int            `db:"notnull" json:"-"`
	Default sql.NullString `db:"dflt_value" json:"-"`
	PK      int            `db:"pk" json:"-"`
}

// TableInfo summarizes one registry table.
type TableInfo struct {
	Name    string           `json:"name"`
	Rows    int              `json:"rows"`
	Columns []ColumnInfo     `json:"columns"`
	Sample  *models.RawTable `json:"-"`
}

// Inspect lists every table of a SQLite registry with its row count,
// columns and the first sampleRows rows.
func Inspect(ctx context.Context, db *sqlx.DB, sampleRows int) ([]TableInfo, error) {
	query, args, err := sq.Select("name").From("sqlite_master").
		Where(sq.Eq{"type": "table"}).OrderBy("name").ToSql()
	if err != nil {
		return nil, err
	}
	var names []string
	if err := db.SelectContext(ctx, &names, query, args...); err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}

	infos := make([]TableInfo, 0, len(names))
	for _, name := range names {
		info := TableInfo{Name: name}
		quoted := quoteIdent(name)

		countQ, _, err := sq.Select("COUNT(*)").From(quoted).ToSql()
		if err != nil {
			return nil, err
		}
		if err := db.GetContext(ctx, &info.Rows, countQ); err != nil {
			return nil, fmt.Errorf("count %s: %w", name, err)
		}
		if err := db.SelectContext(ctx, &info.Columns, fmt.Sprintf("PRAGMA table_info(%s)", quoted)); err != nil {
			return nil, fmt.Errorf("columns of %s: %w", name, err)
		}

		if sampleRows > 0 {
			sampleQ, _, err := sq.Select("*").From(quoted).Limit(uint64(sampleRows)).ToSql()
			if err != nil {
				return nil, err
			}
			src := &SQLSource{db: db, table: name}
			if info.Sample, err = src.query(ctx, sampleQ); err != nil {
				return nil, err
			}
		}
		infos = append(infos, info)
	}
	return infos, nil
}
