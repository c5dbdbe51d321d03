package workbook

import "strconv"

// CellKind tags the payload carried by a Cell.
type CellKind int

const (
	KindEmpty CellKind = iota
	KindNumber
	KindText
	KindBool
)

// Cell is one untyped spreadsheet value. Consumers switch on Kind rather than
// coercing: a Number stays a number (Excel date serials arrive this way), and
// an empty cell is distinguishable from the text "".
type Cell struct {
	Kind   CellKind
	Number float64
	Text   string
	Bool   bool
}

// EmptyCell is the zero-value cell for padding short rows.
var EmptyCell = Cell{Kind: KindEmpty}

// NumberCell wraps a float64.
func NumberCell(v float64) Cell { return Cell{Kind: KindNumber, Number: v} }

// TextCell wraps a string; an empty string becomes an Empty cell.
func TextCell(s string) Cell {
	if s == "" {
		return EmptyCell
	}
	return Cell{Kind: KindText, Text: s}
}

// BoolCell wraps a bool.
func BoolCell(b bool) Cell { return Cell{Kind: KindBool, Bool: b} }

// IsEmpty reports whether the cell carries no value.
func (c Cell) IsEmpty() bool { return c.Kind == KindEmpty }

// String renders the cell for summaries and logs.
func (c Cell) String() string {
	switch c.Kind {
	case KindNumber:
		return strconv.FormatFloat(c.Number, 'g', -1, 64)
	case KindText:
		return c.Text
	case KindBool:
		return strconv.FormatBool(c.Bool)
	default:
		return ""
	}
}

// Table is an in-memory spreadsheet: ordered column headers plus rows of
// cells. Rows are padded to the header width on read, so Rows[i][j] is always
// addressable for j < len(Headers).
type Table struct {
	Headers []string
	Rows    [][]Cell
}

// Column returns the index of the named header, or -1. The empty name never
// matches: blank headers (stray trailing columns in lab exports) are
// unaddressable, and an unset column role must not resolve to one of them.
func (t *Table) Column(name string) int {
	if name == "" {
		return -1
	}
	for i, h := range t.Headers {
		if h == name {
			return i
		}
	}
	return -1
}

// At returns the cell at (row, col name); Empty when the column is unknown.
func (t *Table) At(row int, name string) Cell {
	idx := t.Column(name)
	if idx < 0 || row < 0 || row >= len(t.Rows) || idx >= len(t.Rows[row]) {
		return EmptyCell
	}
	return t.Rows[row][idx]
}

// dropDuplicateColumns keeps the first occurrence of each header name.
// Lab export templates occasionally repeat a column; downstream role
// detection assumes unique names. Blank names are exempt since they are
// unaddressable anyway.
func dropDuplicateColumns(t *Table) {
	seen := make(map[string]bool, len(t.Headers))
	keep := make([]int, 0, len(t.Headers))
	for i, h := range t.Headers {
		if h != "" && seen[h] {
			continue
		}
		seen[h] = true
		keep = append(keep, i)
	}
	if len(keep) == len(t.Headers) {
		return
	}
	headers := make([]string, len(keep))
	for n, i := range keep {
		headers[n] = t.Headers[i]
	}
	rows := make([][]Cell, len(t.Rows))
	for r, row := range t.Rows {
		nr := make([]Cell, len(keep))
		for n, i := range keep {
			if i < len(row) {
				nr[n] = row[i]
			}
		}
		rows[r] = nr
	}
	t.Headers = headers
	t.Rows = rows
}
