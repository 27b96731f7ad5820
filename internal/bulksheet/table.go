package bulksheet

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
)

// Options controls how a bulksheet export is read and how numbers in it are parsed.
type Options struct {
	// Delimiter for CSV. If 0, picked from the file extension ('\t' for .tsv, ',' otherwise).
	Delimiter rune
	// DecimalSeparator is mapped to '.' before parsing. 0 means '.'.
	DecimalSeparator rune
	// ThousandsSeparator is stripped before parsing. 0 means none.
	ThousandsSeparator rune
	// XLSX sheet selection. SheetName wins over SheetIndex (1-based).
	SheetName  string
	SheetIndex int
}

// DefaultOptions returns options matching a plain Amazon bulksheet CSV export.
func DefaultOptions() Options {
	return Options{}
}

// Table is an in-memory bulksheet: a header row and data rows of equal width.
type Table struct {
	Name   string
	Sheet  string // source worksheet for XLSX input
	Header []string
	Rows   [][]string

	exact   map[string]int
	folded  map[string]int
	numeric map[string]bool
}

// NewTable builds a table, padding or trimming every row to the header width.
func NewTable(name string, header []string, rows [][]string) *Table {
	t := &Table{Name: name, Header: header}
	for _, r := range rows {
		t.Rows = append(t.Rows, pad(r, len(header)))
	}
	t.reindex()
	return t
}

func (t *Table) reindex() {
	t.exact = make(map[string]int, len(t.Header))
	t.folded = make(map[string]int, len(t.Header))
	for i, h := range t.Header {
		if _, ok := t.exact[h]; !ok {
			t.exact[h] = i
		}
		k := strings.ToLower(strings.TrimSpace(h))
		if _, ok := t.folded[k]; !ok {
			t.folded[k] = i
		}
	}
}

// Index returns the position of the column with exactly this name.
func (t *Table) Index(name string) (int, bool) {
	i, ok := t.exact[name]
	return i, ok
}

// IndexFold returns the position of the column matching name case-insensitively.
func (t *Table) IndexFold(name string) (int, bool) {
	i, ok := t.folded[strings.ToLower(strings.TrimSpace(name))]
	return i, ok
}

// MarkNumeric flags columns whose values should be typed as numbers by writers
// that distinguish cell types.
func (t *Table) MarkNumeric(names ...string) {
	if t.numeric == nil {
		t.numeric = make(map[string]bool, len(names))
	}
	for _, n := range names {
		t.numeric[n] = true
	}
}

// IsNumeric reports whether the column was flagged with MarkNumeric.
func (t *Table) IsNumeric(name string) bool { return t.numeric[name] }

// Cell returns the value at row/col, or "" when out of range.
func (t *Table) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) || col < 0 || col >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][col]
}

// Set writes a value into an existing cell.
func (t *Table) Set(row, col int, val string) {
	t.Rows[row][col] = val
}

// EnsureColumn returns the index of name, appending an empty column if absent.
func (t *Table) EnsureColumn(name string) int {
	if i, ok := t.exact[name]; ok {
		return i
	}
	t.Header = append(t.Header, name)
	for i := range t.Rows {
		t.Rows[i] = append(t.Rows[i], "")
	}
	t.reindex()
	return len(t.Header) - 1
}

// MoveAfter repositions column name so it directly follows anchor.
func (t *Table) MoveAfter(name, anchor string) error {
	from, ok := t.exact[name]
	if !ok {
		return fmt.Errorf("move column: %q not found", name)
	}
	if _, ok := t.exact[anchor]; !ok {
		return fmt.Errorf("move column: anchor %q not found", anchor)
	}
	order := make([]int, 0, len(t.Header))
	for i := range t.Header {
		if i != from {
			order = append(order, i)
		}
	}
	pos := 0
	for k, i := range order {
		if t.Header[i] == anchor {
			pos = k + 1
			break
		}
	}
	order = append(order[:pos], append([]int{from}, order[pos:]...)...)

	header := make([]string, len(order))
	for k, i := range order {
		header[k] = t.Header[i]
	}
	for r, row := range t.Rows {
		moved := make([]string, len(order))
		for k, i := range order {
			moved[k] = row[i]
		}
		t.Rows[r] = moved
	}
	t.Header = header
	t.reindex()
	return nil
}

// maxExponent bounds the scale of a parsed cell; decimal arithmetic rescales
// both operands to the smaller exponent.
const maxExponent = 18

// ParseNumber parses a cell as a decimal using the configured separators.
// It reports false for empty or non-numeric text and for values whose
// exponent lies outside ±maxExponent.
func ParseNumber(s string, opt Options) (decimal.Decimal, bool) {
	raw := strings.TrimSpace(s)
	raw = strings.ReplaceAll(raw, " ", "")
	if raw == "" {
		return decimal.Zero, false
	}
	dec := opt.DecimalSeparator
	if dec == 0 {
		dec = '.'
	}
	if thou := opt.ThousandsSeparator; thou != 0 && thou != dec {
		raw = strings.ReplaceAll(raw, string(thou), "")
	}
	if dec != '.' {
		raw = strings.ReplaceAll(raw, string(dec), ".")
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false
	}
	if exp := d.Exponent(); exp > maxExponent || exp < -maxExponent {
		return decimal.Zero, false
	}
	return d, true
}

// Read loads a bulksheet choosing the reader by file extension.
func Read(path string, opt Options) (*Table, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return ReadXLSX(path, opt)
	}
	return ReadCSV(path, opt)
}

// Write saves a table choosing the writer by file extension.
func Write(path string, t *Table, opt Options) error {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return WriteXLSX(path, t, opt)
	}
	return WriteCSV(path, t, opt)
}

func pad(row []string, n int) []string {
	if len(row) == n {
		return row
	}
	if len(row) > n {
		return row[:n]
	}
	tmp := make([]string, n)
	copy(tmp, row)
	return tmp
}
