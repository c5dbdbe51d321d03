package target

import (
	"testing"
)

func TestLoadCSVCanonicalHeaders(t *testing.T) {
	data := []byte("Parameter,MaxTarget\npH,9\nIron,0.3\n")
	ths, err := LoadCSV(data)
	if err != nil {
		t.Fatalf("LoadCSV: %v", err)
	}
	if len(ths) != 2 || ths[0].Parameter != "pH" || ths[0].MaxTarget != 9 {
		t.Fatalf("thresholds = %+v", ths)
	}
}

func TestLoadCSVLooseHeaders(t *testing.T) {
	data := []byte("Param Name,max\nTurbidity,5\n")
	ths, err := LoadCSV(data)
	if err != nil {
		t.Fatalf("LoadCSV: %v", err)
	}
	if len(ths) != 1 || ths[0].Parameter != "Turbidity" || ths[0].MaxTarget != 5 {
		t.Fatalf("thresholds = %+v", ths)
	}
}

func TestLoadCSVSpacedMaxHeader(t *testing.T) {
	data := []byte("parameter,Max Target\npH,8.5\n")
	ths, err := LoadCSV(data)
	if err != nil {
		t.Fatalf("LoadCSV: %v", err)
	}
	if len(ths) != 1 || ths[0].MaxTarget != 8.5 {
		t.Fatalf("thresholds = %+v", ths)
	}
}

func TestLoadCSVMissingColumns(t *testing.T) {
	if _, err := LoadCSV([]byte("A,B\n1,2\n")); err == nil {
		t.Fatal("LoadCSV accepted a table without required columns")
	}
}

func TestParseThresholdCommaList(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"8.5,9", 9},      // comma list, max wins
		{"5,10,2", 10},    // longer list
		{"1,234", 1234},   // thousands grouping, not a list
		{"9", 9},
		{"0,5", 0.5},      // comma decimal via result parser
	}
	for _, c := range cases {
		got, ok := parseThreshold(c.in)
		if !ok || got != c.want {
			t.Fatalf("parseThreshold(%q) = %v, %v; want %v", c.in, got, ok, c.want)
		}
	}
	if got, ok := parseThreshold("none"); ok {
		t.Fatalf("parseThreshold(\"none\") = %v, true; want absent", got)
	}
}

func TestThresholdTableWithCommaList(t *testing.T) {
	data := []byte("Parameter,MaxTarget\npH,\"8.5,9\"\n")
	ths, err := LoadCSV(data)
	if err != nil {
		t.Fatalf("LoadCSV: %v", err)
	}
	if len(ths) != 1 || ths[0].MaxTarget != 9 {
		t.Fatalf("thresholds = %+v, want pH -> 9", ths)
	}
	if v, ok := Lookup(ths, " ph "); !ok || v != 9 {
		t.Fatalf("Lookup(\" ph \") = %v, %v; want 9, true", v, ok)
	}
}

func TestLookupCaseAndWhitespaceInsensitive(t *testing.T) {
	ths := []Threshold{{Parameter: "pH", MaxTarget: 9}, {Parameter: "pH", MaxTarget: 10}}
	a, okA := Lookup(ths, " ph ")
	b, okB := Lookup(ths, "PH")
	if !okA || !okB || a != b {
		t.Fatalf("Lookup mismatch: %v/%v vs %v/%v", a, okA, b, okB)
	}
	if a != 9 {
		t.Fatalf("Lookup = %v; first matching entry must win", a)
	}
	if _, ok := Lookup(ths, "Iron"); ok {
		t.Fatal("Lookup matched a missing parameter")
	}
}
