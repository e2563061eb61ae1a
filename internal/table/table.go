// Package table implements the schema-less, row-oriented tables that back the
// movements and budgets stores.
//
// A Table keeps every column it was read with, in file order, so a restored
// backup with extra columns survives a later append or export untouched.
package table

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	ErrNoHeader        = errors.New("missing header row")
	ErrDuplicateColumn = errors.New("duplicate column")
)

// Table is a header plus string rows. Every row has exactly len(Columns) cells.
type Table struct {
	Columns []string
	Rows    [][]string
}

// New returns an empty table with the given columns.
func New(columns ...string) Table {
	return Table{Columns: append([]string(nil), columns...), Rows: [][]string{}}
}

// Len returns the number of data rows.
func (t Table) Len() int {
	return len(t.Rows)
}

// IsEmpty reports whether the table has no data rows.
func (t Table) IsEmpty() bool {
	return len(t.Rows) == 0
}

// Index returns the position of col, or -1.
func (t Table) Index(col string) int {
	for i, c := range t.Columns {
		if c == col {
			return i
		}
	}
	return -1
}

// Missing returns the columns of want that the table does not have, in order.
func (t Table) Missing(want ...string) []string {
	var missing []string
	for _, c := range want {
		if t.Index(c) < 0 {
			missing = append(missing, c)
		}
	}
	return missing
}

// Get returns the cell at row/col, or "" when the column is absent.
func (t Table) Get(row int, col string) string {
	i := t.Index(col)
	if i < 0 || row < 0 || row >= len(t.Rows) {
		return ""
	}
	return t.Rows[row][i]
}

// Set writes a cell, adding the column when needed.
func (t *Table) Set(row int, col, value string) {
	if row < 0 || row >= len(t.Rows) {
		return
	}
	i := t.ensureColumn(col)
	t.Rows[row][i] = value
}

// Append adds one row. Columns absent from values are left empty; keys that
// are not columns yet are added at the end and back-filled with "".
func (t *Table) Append(values map[string]string, order ...string) {
	// order fixes the position of new columns; map iteration would not.
	for _, col := range order {
		t.ensureColumn(col)
	}
	for col := range values {
		t.ensureColumn(col)
	}
	row := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		row[i] = values[c]
	}
	t.Rows = append(t.Rows, row)
}

// DropLast removes the last row in file order. It reports false on an empty table.
func (t *Table) DropLast() bool {
	if len(t.Rows) == 0 {
		return false
	}
	t.Rows = t.Rows[:len(t.Rows)-1]
	return true
}

// Clone returns a deep copy.
func (t Table) Clone() Table {
	out := Table{Columns: append([]string(nil), t.Columns...), Rows: make([][]string, len(t.Rows))}
	for i, r := range t.Rows {
		out.Rows[i] = append([]string(nil), r...)
	}
	return out
}

func (t *Table) ensureColumn(col string) int {
	if i := t.Index(col); i >= 0 {
		return i
	}
	t.Columns = append(t.Columns, col)
	for i := range t.Rows {
		t.Rows[i] = append(t.Rows[i], "")
	}
	return len(t.Columns) - 1
}

// Read parses CSV content with a header row. Short rows are padded with empty
// cells; rows longer than the header are rejected.
func Read(r io.Reader) (Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return Table{}, ErrNoHeader
	}
	if err != nil {
		return Table{}, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	seen := make(map[string]struct{}, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if _, dup := seen[h]; dup {
			return Table{}, fmt.Errorf("%w %q", ErrDuplicateColumn, h)
		}
		seen[h] = struct{}{}
		header[i] = h
	}
	if len(header) == 1 && header[0] == "" {
		return Table{}, ErrNoHeader
	}

	t := New(header...)
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Table{}, fmt.Errorf("read row: %w", err)
		}
		if len(rec) > len(header) {
			return Table{}, fmt.Errorf("row %d has %d fields, header has %d", line, len(rec), len(header))
		}
		row := make([]string, len(header))
		copy(row, rec)
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// Write serializes t as CSV with a header row.
func Write(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range t.Rows {
		if err := cw.Write(r); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Encode returns the CSV serialization of t.
func (t Table) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, t); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
