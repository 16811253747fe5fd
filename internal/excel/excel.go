// Package excel converts workbook sheets to CSV so the rest of the toolkit
// only ever deals with tabular CSV data.
package excel

import (
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/mwhitworth/flowkit/internal/table"
)

// Options configures sheet extraction.
type Options struct {
	// IncludeHidden also converts sheets the workbook hides.
	IncludeHidden bool
	// MinRows drops sheets with fewer rows than this. 0 keeps everything.
	MinRows int
}

// Sheet is one converted worksheet.
type Sheet struct {
	Name string
	CSV  string
	Rows int
}

// SheetsToCSV opens a workbook and converts each visible sheet (or every
// sheet, per IncludeHidden) to an independent CSV string. Sheets below
// MinRows are dropped.
func SheetsToCSV(path string, opts Options) ([]Sheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer f.Close()

	var sheets []Sheet
	for _, name := range f.GetSheetList() {
		if !opts.IncludeHidden {
			visible, err := f.GetSheetVisible(name)
			if err != nil {
				return nil, fmt.Errorf("failed to read visibility of sheet %q: %w", name, err)
			}
			if !visible {
				continue
			}
		}

		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %q: %w", name, err)
		}
		if len(rows) < opts.MinRows {
			continue
		}

		csvText, err := rowsToCSV(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to render sheet %q: %w", name, err)
		}
		sheets = append(sheets, Sheet{Name: name, CSV: csvText, Rows: len(rows)})
	}
	return sheets, nil
}

// LoadTable converts one sheet and exposes it as a Table. An empty sheetName
// selects the first surviving sheet.
func LoadTable(path, sheetName string, opts Options) (*table.Table, error) {
	sheets, err := SheetsToCSV(path, opts)
	if err != nil {
		return nil, err
	}
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook %s has no usable sheets", path)
	}

	var chosen *Sheet
	if sheetName == "" {
		chosen = &sheets[0]
	} else {
		for i := range sheets {
			if strings.EqualFold(sheets[i].Name, sheetName) {
				chosen = &sheets[i]
				break
			}
		}
		if chosen == nil {
			return nil, fmt.Errorf("workbook %s has no sheet named %q", path, sheetName)
		}
	}

	records, err := csv.NewReader(strings.NewReader(chosen.CSV)).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to re-parse sheet %q: %w", chosen.Name, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", chosen.Name)
	}
	return table.New(records[0], records[1:]), nil
}

// rowsToCSV renders sheet rows as comma-separated text. Ragged rows are padded
// to the widest row so the result is rectangular.
func rowsToCSV(rows [][]string) (string, error) {
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}

	var sb strings.Builder
	w := csv.NewWriter(&sb)
	for _, row := range rows {
		for len(row) < width {
			row = append(row, "")
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return sb.String(), nil
}
