package workbook

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

// ReadCSV parses delimiter-sniffed CSV bytes into a Table. All cells come
// through as Text (or Empty); typed interpretation happens downstream.
func ReadCSV(data []byte) (*Table, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = sniffDelimiter(data)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return &Table{}, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	t := &Table{Headers: header}
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", len(t.Rows)+1, err)
		}
		row := make([]Cell, len(header))
		for i := range header {
			if i < len(rec) {
				row[i] = TextCell(rec[i])
			}
		}
		t.Rows = append(t.Rows, row)
	}
	dropDuplicateColumns(t)
	return t, nil
}

// sniffDelimiter inspects the first line for ';' or '\t' before defaulting
// to a comma.
func sniffDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	switch {
	case bytes.ContainsRune(line, '\t'):
		return '\t'
	case bytes.ContainsRune(line, ';') && !bytes.ContainsRune(line, ','):
		return ';'
	default:
		return ','
	}
}
