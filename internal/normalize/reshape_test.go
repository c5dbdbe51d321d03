package normalize

import (
	"testing"
	"time"

	"github.com/cleanbrook/watertrend/internal/workbook"
)

func wideTable() *workbook.Table {
	return &workbook.Table{
		Headers: []string{"Site ID", "Date", "pH", "Iron", "Comments"},
		Rows: [][]workbook.Cell{
			{workbook.TextCell("BH-1"), workbook.TextCell("2024-01-05"), workbook.TextCell("7.1"), workbook.TextCell("0.3"), workbook.TextCell("ok")},
			{workbook.TextCell("BH-2"), workbook.TextCell("2024-01-10"), workbook.TextCell("ND"), workbook.TextCell("<0.1"), workbook.TextCell("resample")},
		},
	}
}

func TestReshapeCrossProduct(t *testing.T) {
	tbl := wideTable()
	ids := IDColumns{Site: "Site ID", Date: "Date"}
	params := ParameterColumns(tbl.Headers, ids)

	// "Comments" is not a known analyte; the whitelist keeps it out.
	if len(params) != 2 {
		t.Fatalf("ParameterColumns = %v, want [pH Iron]", params)
	}

	rows := Reshape(tbl, ids, params)
	if len(rows) != 4 { // 2 input rows x 2 parameter columns
		t.Fatalf("Reshape emitted %d rows, want 4", len(rows))
	}

	seen := map[string]int{}
	for _, r := range rows {
		seen[r.SiteID+"/"+r.Parameter]++
		if r.MonthStart.IsZero() {
			t.Fatalf("row %v missing month", r)
		}
	}
	for _, key := range []string{"BH-1/pH", "BH-1/Iron", "BH-2/pH", "BH-2/Iron"} {
		if seen[key] != 1 {
			t.Fatalf("pair %s appeared %d times, want exactly once", key, seen[key])
		}
	}
}

func TestReshapeNonDetectAndCensored(t *testing.T) {
	tbl := wideTable()
	ids := IDColumns{Site: "Site ID", Date: "Date"}
	rows := Reshape(tbl, ids, []string{"pH", "Iron"})

	var ndResult, censored *float64
	for _, r := range rows {
		if r.SiteID == "BH-2" && r.Parameter == "pH" {
			ndResult = r.Result
		}
		if r.SiteID == "BH-2" && r.Parameter == "Iron" {
			censored = r.Result
		}
	}
	if ndResult == nil || *ndResult != 0 {
		t.Fatalf("ND melted to %v, want 0", ndResult)
	}
	if censored == nil || *censored != 0.1 {
		t.Fatalf("<0.1 melted to %v, want 0.1", censored)
	}
}

func TestReshapeDropsIncompleteRows(t *testing.T) {
	tbl := &workbook.Table{
		Headers: []string{"Site ID", "Date", "pH"},
		Rows: [][]workbook.Cell{
			{workbook.TextCell("BH-1"), workbook.TextCell("garbage"), workbook.TextCell("7.0")}, // no month
			{workbook.EmptyCell, workbook.TextCell("2024-01-05"), workbook.TextCell("7.2")},     // no site
			{workbook.TextCell("BH-3"), workbook.TextCell("2024-01-06"), workbook.EmptyCell},    // kept: absent result is not a drop reason
		},
	}
	rows := Reshape(tbl, IDColumns{Site: "Site ID", Date: "Date"}, []string{"pH"})
	if len(rows) != 1 {
		t.Fatalf("Reshape emitted %d rows, want 1", len(rows))
	}
	if rows[0].SiteID != "BH-3" || rows[0].Result != nil {
		t.Fatalf("unexpected surviving row %+v", rows[0])
	}
}

func TestParameterColumnsWithoutWhitelistMatch(t *testing.T) {
	headers := []string{"Site ID", "Date", "Foo", "Bar"}
	params := ParameterColumns(headers, IDColumns{Site: "Site ID", Date: "Date"})
	if len(params) != 2 || params[0] != "Foo" || params[1] != "Bar" {
		t.Fatalf("ParameterColumns = %v, want every non-id column", params)
	}
}

func TestNormalizeLongFormat(t *testing.T) {
	tbl := &workbook.Table{
		Headers: []string{"Type", "Site ID", "Parameter", "Unit", "Result", "Date"},
		Rows: [][]workbook.Cell{
			{workbook.TextCell("Borehole"), workbook.TextCell("A"), workbook.TextCell(" pH "), workbook.TextCell(""), workbook.TextCell("7.4"), workbook.TextCell("2024-01-20")},
			{workbook.TextCell("Borehole"), workbook.TextCell("B"), workbook.TextCell("Iron"), workbook.TextCell("mg/L"), workbook.TextCell("BDL"), workbook.NumberCell(45311)}, // 2024-01-20 serial
			{workbook.TextCell("Borehole"), workbook.TextCell(""), workbook.TextCell("pH"), workbook.TextCell(""), workbook.TextCell("7.0"), workbook.TextCell("2024-01-21")},
		},
	}
	rows, err := Normalize(tbl)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Normalize emitted %d rows, want 2 (blank site dropped)", len(rows))
	}
	if rows[0].Parameter != "pH" {
		t.Fatalf("parameter not cleaned: %q", rows[0].Parameter)
	}
	if rows[1].Result == nil || *rows[1].Result != 0 {
		t.Fatalf("BDL row result = %v, want 0", rows[1].Result)
	}
	want := time.Date(2024, time.January, 20, 0, 0, 0, 0, time.UTC)
	if !rows[1].SampleDate.Equal(want) {
		t.Fatalf("serial date = %v, want %v", rows[1].SampleDate, want)
	}
	if !rows[1].MonthStart.Equal(time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("month start = %v", rows[1].MonthStart)
	}
}

func TestNormalizeBlankHeaderColumnIsNotADate(t *testing.T) {
	// A stray blank-named trailing column must not stand in for an undetected
	// role. Here no date column exists, and the blank column happens to hold a
	// date serial; every row must still drop for lack of a month.
	tbl := &workbook.Table{
		Headers: []string{"Site ID", "", "pH"},
		Rows: [][]workbook.Cell{
			{workbook.TextCell("BH-1"), workbook.NumberCell(44562), workbook.TextCell("7.1")},
		},
	}
	rows, err := Normalize(tbl)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("Normalize emitted %d rows with a fabricated month %v, want 0", len(rows), rows[0].MonthStart)
	}
}

func TestNormalizeNoSiteColumn(t *testing.T) {
	tbl := &workbook.Table{Headers: []string{"A", "B"}}
	if _, err := Normalize(tbl); err == nil {
		t.Fatal("Normalize accepted a table with no site column")
	}
}
