package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Sheet1"

// WriteXLSX writes each table to its own worksheet.
func WriteXLSX(w io.Writer, tables []Table) error {
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	for i, t := range tables {
		idx, err := f.NewSheet(t.Name)
		if err != nil {
			return fmt.Errorf("sheet %s: %w", t.Name, err)
		}
		if i == 0 {
			f.SetActiveSheet(idx)
		}

		header := make([]interface{}, len(t.Header))
		for j, h := range t.Header {
			header[j] = h
		}
		if err := f.SetSheetRow(t.Name, "A1", &header); err != nil {
			return fmt.Errorf("sheet %s header: %w", t.Name, err)
		}
		if len(t.Header) > 0 {
			last, _ := excelize.CoordinatesToCellName(len(t.Header), 1)
			if err := f.SetCellStyle(t.Name, "A1", last, bold); err != nil {
				return fmt.Errorf("sheet %s style: %w", t.Name, err)
			}
		}

		for r, row := range t.Rows {
			cell, _ := excelize.CoordinatesToCellName(1, r+2)
			values := row
			if err := f.SetSheetRow(t.Name, cell, &values); err != nil {
				return fmt.Errorf("sheet %s row %d: %w", t.Name, r+2, err)
			}
		}
	}

	if len(tables) > 0 {
		if err := f.DeleteSheet(defaultSheet); err != nil {
			return fmt.Errorf("drop default sheet: %w", err)
		}
	}
	return f.Write(w)
}
