package workbook

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"
)

// sheetPreference is the order in which result sheets are tried when a
// workbook has several. Lab trendline templates name the data sheet
// inconsistently; the first sheet is the fallback.
var sheetPreference = []string{"Results", "Sheet1", "Data", "Final", "Monthly", "Trends"}

// ReadXLSX extracts the preferred sheet of an .xlsx workbook into a Table.
// Cells keep their spreadsheet types: numeric cells (including date serials)
// come through as Number cells, shared and inline strings as Text.
func ReadXLSX(data []byte) (*Table, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}

	sheets := parseWorkbookSheets(readZipFile(zr, "xl/workbook.xml"))
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rels := parseRelationships(readZipFile(zr, "xl/_rels/workbook.xml.rels"))
	shared := parseSharedStrings(readZipFile(zr, "xl/sharedStrings.xml"))

	target := resolveSheetTarget(sheets, rels)
	sheetXML := readZipFile(zr, target)
	if len(sheetXML) == 0 {
		return nil, fmt.Errorf("sheet %q not found in workbook", target)
	}

	rr := newSheetRowReader(sheetXML, shared)
	headerCells, ok := rr.Next()
	if !ok {
		return &Table{}, nil
	}
	headers := make([]string, len(headerCells))
	for i, c := range headerCells {
		headers[i] = c.String()
	}

	t := &Table{Headers: headers}
	for {
		row, ok := rr.Next()
		if !ok {
			break
		}
		// A data row wider than the header row gains blank-named columns
		// rather than losing cells.
		for len(t.Headers) < len(row) {
			t.Headers = append(t.Headers, "")
		}
		t.Rows = append(t.Rows, row)
	}
	for i, row := range t.Rows {
		if len(row) < len(t.Headers) {
			padded := make([]Cell, len(t.Headers))
			copy(padded, row)
			t.Rows[i] = padded
		}
	}
	dropDuplicateColumns(t)
	return t, nil
}

// resolveSheetTarget picks the sheet archive path: preferred name first,
// then the workbook's first sheet, then the conventional sheet1 path.
func resolveSheetTarget(sheets []wbSheet, rels map[string]string) string {
	for _, want := range sheetPreference {
		for _, s := range sheets {
			if strings.EqualFold(s.Name, want) {
				if rel, ok := rels[s.RID]; ok {
					return normalizeRelPath(rel)
				}
			}
		}
	}
	if rel, ok := rels[sheets[0].RID]; ok {
		return normalizeRelPath(rel)
	}
	return "xl/worksheets/sheet1.xml"
}

type wbSheet struct {
	Name    string
	SheetID int
	RID     string
}

// parseWorkbookSheets extracts sheet entries with names and relationship ids.
func parseWorkbookSheets(data []byte) []wbSheet {
	if len(data) == 0 {
		return nil
	}
	dec := xml.NewDecoder(bytes.NewReader(data))
	var sheets []wbSheet
	for {
		tok, err := dec.Token()
		if err != nil {
			return sheets
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "sheet" {
			continue
		}
		var s wbSheet
		for _, a := range se.Attr {
			switch a.Name.Local {
			case "name":
				s.Name = a.Value
			case "sheetId":
				s.SheetID, _ = strconv.Atoi(a.Value)
			case "id": // r: namespace
				s.RID = a.Value
			}
		}
		sheets = append(sheets, s)
	}
}

// parseRelationships returns map[r:id]Target.
func parseRelationships(data []byte) map[string]string {
	out := map[string]string{}
	if len(data) == 0 {
		return out
	}
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err != nil {
			return out
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "Relationship" {
			continue
		}
		var id, target string
		for _, a := range se.Attr {
			switch a.Name.Local {
			case "Id":
				id = a.Value
			case "Target":
				target = a.Value
			}
		}
		if id != "" && target != "" {
			out[id] = target
		}
	}
}

func parseSharedStrings(data []byte) []string {
	if len(data) == 0 {
		return nil
	}
	dec := xml.NewDecoder(bytes.NewReader(data))
	var out []string
	var buf strings.Builder
	var inT bool
	for {
		tok, err := dec.Token()
		if err != nil {
			return out
		}
		switch se := tok.(type) {
		case xml.StartElement:
			if se.Name.Local == "si" {
				buf.Reset()
			}
			if se.Name.Local == "t" {
				inT = true
			}
		case xml.EndElement:
			if se.Name.Local == "t" {
				inT = false
			}
			if se.Name.Local == "si" {
				out = append(out, buf.String())
				buf.Reset()
			}
		case xml.CharData:
			if inT {
				buf.Write([]byte(se))
			}
		}
	}
}

func normalizeRelPath(rel string) string {
	rel = strings.TrimPrefix(rel, "/")
	if strings.HasPrefix(rel, "xl/") {
		return path.Clean(rel)
	}
	return path.Clean("xl/" + rel)
}

func readZipFile(zr *zip.Reader, name string) []byte {
	for _, f := range zr.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil
			}
			defer rc.Close()
			b, _ := io.ReadAll(rc)
			return b
		}
	}
	return nil
}

// sheetRowReader streams <row> elements out of a worksheet XML document,
// resolving shared string references and keeping cell types.
type sheetRowReader struct {
	dec    *xml.Decoder
	shared []string
	inRow  bool
	curRow []Cell
	maxCol int
	nexCol int
}

func newSheetRowReader(data []byte, shared []string) *sheetRowReader {
	return &sheetRowReader{dec: xml.NewDecoder(bytes.NewReader(data)), shared: shared}
}

// Next returns the next sheet row, padded to the widest column seen in it.
func (r *sheetRowReader) Next() ([]Cell, bool) {
	for {
		tok, err := r.dec.Token()
		if err != nil {
			return nil, false
		}
		switch se := tok.(type) {
		case xml.StartElement:
			if se.Name.Local == "row" {
				r.inRow = true
				r.curRow = nil
				r.maxCol = 0
				r.nexCol = 0
			}
			if r.inRow && se.Name.Local == "c" {
				var rAttr, tAttr string
				for _, a := range se.Attr {
					switch a.Name.Local {
					case "r":
						rAttr = a.Value
					case "t":
						tAttr = a.Value
					}
				}
				colIdx := colIndexFromRef(rAttr)
				if colIdx < 0 {
					// no reference attribute; cells arrive in order
					colIdx = r.nexCol
				}
				r.nexCol = colIdx + 1
				if colIdx+1 > r.maxCol {
					r.maxCol = colIdx + 1
				}
				cell := r.readCell(tAttr)
				if len(r.curRow) <= colIdx {
					tmp := make([]Cell, colIdx+1)
					copy(tmp, r.curRow)
					r.curRow = tmp
				}
				r.curRow[colIdx] = cell
			}
		case xml.EndElement:
			if se.Name.Local == "row" {
				if len(r.curRow) < r.maxCol {
					tmp := make([]Cell, r.maxCol)
					copy(tmp, r.curRow)
					r.curRow = tmp
				}
				r.inRow = false
				return r.curRow, true
			}
		}
	}
}

// readCell consumes tokens until </c>, capturing <v> or inline <is><t> text,
// and converts the raw value according to the cell's t attribute.
func (r *sheetRowReader) readCell(tAttr string) Cell {
	var raw string
	var haveRaw bool
	depth := 0
	for {
		tok, err := r.dec.Token()
		if err != nil {
			break
		}
		switch se := tok.(type) {
		case xml.StartElement:
			if se.Name.Local == "v" || se.Name.Local == "t" {
				var sb strings.Builder
				if err := r.collectText(se.Name.Local, &sb); err != nil {
					return EmptyCell
				}
				raw = sb.String()
				haveRaw = true
			} else {
				depth++
			}
		case xml.EndElement:
			if se.Name.Local == "c" && depth == 0 {
				return convertCell(tAttr, raw, haveRaw, r.shared)
			}
			if depth > 0 {
				depth--
			}
		}
	}
	return convertCell(tAttr, raw, haveRaw, r.shared)
}

func (r *sheetRowReader) collectText(name string, sb *strings.Builder) error {
	for {
		tok, err := r.dec.Token()
		if err != nil {
			return err
		}
		switch se := tok.(type) {
		case xml.EndElement:
			if se.Name.Local == name {
				return nil
			}
		case xml.CharData:
			sb.Write([]byte(se))
		}
	}
}

// convertCell maps a raw stored value plus the t attribute to a typed Cell.
// Untyped cells are numeric in the xlsx format; date cells carry serials.
func convertCell(tAttr, raw string, haveRaw bool, shared []string) Cell {
	if !haveRaw {
		return EmptyCell
	}
	switch tAttr {
	case "s":
		idx, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || idx < 0 || idx >= len(shared) {
			return EmptyCell
		}
		return TextCell(shared[idx])
	case "str", "inlineStr":
		return TextCell(raw)
	case "b":
		return BoolCell(strings.TrimSpace(raw) == "1")
	case "e":
		return EmptyCell
	default:
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return TextCell(raw)
		}
		return NumberCell(v)
	}
}

// colIndexFromRef converts an A1-style reference to a zero-based column
// index: "A3" -> 0, "AB12" -> 27. Returns -1 when the reference is missing.
func colIndexFromRef(ref string) int {
	if ref == "" {
		return -1
	}
	idx := 0
	seen := false
	for _, ch := range ref {
		if ch >= 'A' && ch <= 'Z' {
			idx = idx*26 + int(ch-'A') + 1
			seen = true
			continue
		}
		if ch >= 'a' && ch <= 'z' {
			idx = idx*26 + int(ch-'a') + 1
			seen = true
			continue
		}
		break
	}
	if !seen {
		return -1
	}
	return idx - 1
}
