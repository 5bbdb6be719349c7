package store

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"pnl_projection/pkg/models"
)

// FileSource reads a registry export from disk: tab-separated text (the
// registry's native export), CSV, or the first sheet of an XLSX workbook.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func isFlatFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".tsv", ".txt", ".xlsx":
		return true
	}
	return false
}

// LoadDeals parses the whole file.
func (s *FileSource) LoadDeals(ctx context.Context) (*models.RawTable, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.path, err)
	}
	defer f.Close()

	var rows [][]string
	switch strings.ToLower(filepath.Ext(s.path)) {
	case ".xlsx":
		rows, err = readXLSX(f)
	case ".csv":
		rows, err = readDelimited(f, ',')
	default:
		rows, err = readDelimited(f, '\t')
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}
	table := TableFromRows(rows)
	fmt.Printf("[REGISTRY] loaded %d rows from %s\n", table.Len(), s.path)
	return table, nil
}

func (s *FileSource) Close() error { return nil }

// TableFromRows splits a header row off and drops rows with no content.
func TableFromRows(rows [][]string) *models.RawTable {
	table := &models.RawTable{}
	if len(rows) == 0 {
		return table
	}
	table.Header = rows[0]
	for _, r := range rows[1:] {
		if blank(r) {
			continue
		}
		table.Records = append(table.Records, r)
	}
	return table
}

func blank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func readDelimited(r io.Reader, comma rune) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	return cr.ReadAll()
}

func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	sheet := f.GetSheetName(0)
	return f.GetRows(sheet)
}
