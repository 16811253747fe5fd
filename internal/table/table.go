// Package table provides an in-memory view of a delimited file: a header row
// plus data rows, with case-insensitive header lookup and atomic save-back.
//
// Cells are kept as the raw strings read from the file so a load/save
// round-trip preserves cell text; typed accessors perform numeric and
// boolean conversion on demand.
package table

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mwhitworth/flowkit/internal/filelock"
)

// Table is a loaded delimited file. Rows are mutated in place; Save writes the
// table back out.
type Table struct {
	// Headers is the first row of the source file.
	Headers []string
	// Rows holds the data rows in file order.
	Rows [][]string
	// RowsStartIndex is the 1-based line number of the first data row in the
	// source file, used for human-readable row reporting.
	RowsStartIndex int

	source string
}

// Load reads a comma-delimited file into a Table. The path must end in .csv;
// this is checked before the file is opened. The first row is taken as the
// header row.
func Load(path string) (*Table, error) {
	if !strings.EqualFold(filepath.Ext(path), ".csv") {
		return nil, fmt.Errorf("table path %q must end in .csv", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open table file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	// Ragged input is tolerated on read; rows are padded to header width.
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("table file %s is empty", path)
	}

	t := &Table{
		Headers:        records[0],
		Rows:           records[1:],
		RowsStartIndex: 2,
		source:         path,
	}
	t.padRows()
	return t, nil
}

// New builds a Table directly from headers and rows, for callers that already
// hold tabular data (Excel conversion, tests). RowsStartIndex defaults to 2 as
// if a header line preceded the data.
func New(headers []string, rows [][]string) *Table {
	t := &Table{
		Headers:        headers,
		Rows:           rows,
		RowsStartIndex: 2,
	}
	t.padRows()
	return t
}

// Source returns the path the table was loaded from, or empty for in-memory
// tables.
func (t *Table) Source() string {
	return t.source
}

// HeaderIndices returns the indices of every header equal to name
// (case-insensitive, whitespace-trimmed). Duplicate headers yield multiple
// indices; callers decide whether ambiguity is an error.
func (t *Table) HeaderIndices(name string) []int {
	want := strings.TrimSpace(name)
	var indices []int
	for i, h := range t.Headers {
		if strings.EqualFold(strings.TrimSpace(h), want) {
			indices = append(indices, i)
		}
	}
	return indices
}

// AppendColumn adds a header at the end and pads every row with an empty cell.
// Returns the new column's index.
func (t *Table) AppendColumn(name string) int {
	t.Headers = append(t.Headers, name)
	for i := range t.Rows {
		t.Rows[i] = append(t.Rows[i], "")
	}
	return len(t.Headers) - 1
}

// Cell returns the value at (row, col), or empty when the row is short.
func (t *Table) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) {
		return ""
	}
	r := t.Rows[row]
	if col < 0 || col >= len(r) {
		return ""
	}
	return r[col]
}

// SetCell writes value at (row, col), extending the row when short.
func (t *Table) SetCell(row, col int, value string) {
	if row < 0 || row >= len(t.Rows) || col < 0 {
		return
	}
	for len(t.Rows[row]) <= col {
		t.Rows[row] = append(t.Rows[row], "")
	}
	t.Rows[row][col] = value
}

// CellInt parses the cell as an integer.
func (t *Table) CellInt(row, col int) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(t.Cell(row, col)))
	return n, err == nil
}

// CellFloat parses the cell as a float.
func (t *Table) CellFloat(row, col int) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(t.Cell(row, col)), 64)
	return f, err == nil
}

// CellBool parses the cell as a boolean (true/false, case-insensitive).
func (t *Table) CellBool(row, col int) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(t.Cell(row, col))) {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	return false, false
}

// Save writes the table back to the file it was loaded from.
func (t *Table) Save() error {
	if t.source == "" {
		return fmt.Errorf("table has no source path; use SaveTo")
	}
	return t.SaveTo(t.source)
}

// SaveTo writes the table to path as comma-separated values. The write is
// atomic: content is staged to a temp file and renamed into place.
func (t *Table) SaveTo(path string) error {
	var sb strings.Builder
	w := csv.NewWriter(&sb)
	if err := w.Write(t.Headers); err != nil {
		return fmt.Errorf("failed to encode header row: %w", err)
	}
	for i, row := range t.Rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to encode row %d: %w", t.RowsStartIndex+i, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	if err := filelock.AtomicWrite(path, []byte(sb.String())); err != nil {
		return fmt.Errorf("failed to save table to %s: %w", path, err)
	}
	return nil
}

// padRows extends short rows with empty cells to header width.
func (t *Table) padRows() {
	width := len(t.Headers)
	for i := range t.Rows {
		for len(t.Rows[i]) < width {
			t.Rows[i] = append(t.Rows[i], "")
		}
	}
}
