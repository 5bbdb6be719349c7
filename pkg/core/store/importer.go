package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

// ownerColumn is indexed on every imported deal table.
const ownerColumn = "담당자_name"

// ImportSpec maps one TSV export onto a registry table.
type ImportSpec struct {
	Table string
	Path  string
}

// DefaultImports lists the CRM exports expected in dir.
func DefaultImports(dir string) []ImportSpec {
	return []ImportSpec{
		{Table: "all_deal", Path: filepath.Join(dir, "all deal.txt")},
		{Table: "won_deal", Path: filepath.Join(dir, "won deal.txt")},
		{Table: "retention", Path: filepath.Join(dir, "retention corp.txt")},
	}
}

// ImportAll rebuilds each table from its TSV file. Missing files are skipped
// with a warning; the returned map holds inserted row counts.
func ImportAll(ctx context.Context, db *sqlx.DB, specs []ImportSpec) (map[string]int, error) {
	counts := make(map[string]int, len(specs))
	for _, spec := range specs {
		n, err := ImportTSV(ctx, db, spec)
		if errors.Is(err, os.ErrNotExist) {
			fmt.Printf("[WARN] %s not found, skipping %s\n", spec.Path, spec.Table)
			continue
		}
		if err != nil {
			return counts, err
		}
		counts[spec.Table] = n
	}
	return counts, nil
}

// ImportTSV replaces spec.Table with the contents of a tab-separated file.
// Every column is stored as TEXT.
func ImportTSV(ctx context.Context, db *sqlx.DB, spec ImportSpec) (int, error) {
	if !tableNamePattern.MatchString(spec.Table) {
		return 0, fmt.Errorf("invalid table name %q", spec.Table)
	}
	f, err := os.Open(spec.Path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	rows, err := readDelimited(f, '\t')
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", spec.Path, err)
	}
	table := TableFromRows(rows)
	if len(table.Header) == 0 {
		return 0, fmt.Errorf("%s has no header row", spec.Path)
	}
	header := cleanHeader(table.Header)

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	quotedTable := quoteIdent(spec.Table)
	cols := make([]string, len(header))
	defs := make([]string, len(header))
	for i, h := range header {
		cols[i] = quoteIdent(h)
		defs[i] = cols[i] + " TEXT"
	}
	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+quotedTable); err != nil {
		return 0, fmt.Errorf("drop %s: %w", spec.Table, err)
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("CREATE TABLE %s (%s)", quotedTable, strings.Join(defs, ", "))); err != nil {
		return 0, fmt.Errorf("create %s: %w", spec.Table, err)
	}

	for _, rec := range table.Records {
		values := make([]interface{}, len(header))
		for i := range header {
			if i < len(rec) && strings.TrimSpace(rec[i]) != "" {
				values[i] = rec[i]
			}
		}
		query, args, err := sq.Insert(quotedTable).Columns(cols...).Values(values...).ToSql()
		if err != nil {
			return 0, fmt.Errorf("build insert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return 0, fmt.Errorf("insert into %s: %w", spec.Table, err)
		}
	}

	for _, h := range header {
		if h == ownerColumn {
			idx := fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s (%s)",
				quoteIdent("idx_"+spec.Table+"_name"), quotedTable, quoteIdent(ownerColumn))
			if _, err := tx.ExecContext(ctx, idx); err != nil {
				return 0, fmt.Errorf("index %s: %w", spec.Table, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit %s: %w", spec.Table, err)
	}
	fmt.Printf("[IMPORT] %s: %d rows from %s\n", spec.Table, len(table.Records), spec.Path)
	return len(table.Records), nil
}

// cleanHeader strips BOMs and whitespace, names blank columns and
// de-duplicates repeated names with a numeric suffix.
func cleanHeader(header []string) []string {
	out := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.TrimSpace(strings.ReplaceAll(h, "\ufeff", ""))
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		if n := seen[name]; n > 0 {
			seen[name] = n + 1
			name = fmt.Sprintf("%s.%d", name, n)
		} else {
			seen[name] = 1
		}
		out[i] = name
	}
	return out
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
