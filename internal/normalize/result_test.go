package normalize

import (
	"math"
	"testing"

	"github.com/cleanbrook/watertrend/internal/workbook"
)

func TestParseResultNumbers(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"7.1", 7.1},
		{"-3.5", -3.5},
		{"+2", 2},
		{".5", 0.5},
		{"1,234", 1234},          // thousands comma
		{"1,234,567", 1234567},   // repeated groups
		{"10 000", 10000},        // spaced thousands
		{"0,5", 0.5},             // comma decimal
		{"-0,75", -0.75},         // signed comma decimal
		{"<1", 1},                // censored: face value
		{">250", 250},
		{"7.2 mg/L", 7.2},        // embedded unit
		{"approx 12", 12},        // leading text
	}
	for _, c := range cases {
		got, ok := ParseResult(workbook.TextCell(c.in))
		if !ok || got != c.want {
			t.Fatalf("ParseResult(%q) = %v, %v; want %v", c.in, got, ok, c.want)
		}
	}
}

func TestParseResultNonDetect(t *testing.T) {
	for _, in := range []string{"ND", "nd", "N/D", "BDL", "Not Detected", "below detection", "NA", "n/a", "Result: ND", "value bdl"} {
		got, ok := ParseResult(workbook.TextCell(in))
		if !ok || got != 0 {
			t.Fatalf("ParseResult(%q) = %v, %v; want 0, true", in, got, ok)
		}
	}
}

func TestParseResultMissing(t *testing.T) {
	for _, in := range []string{"", "  ", "none", "NaN", "-", "--", "—", ".", "nil", "nill", "no number here"} {
		if got, ok := ParseResult(workbook.TextCell(in)); ok {
			t.Fatalf("ParseResult(%q) = %v, true; want absent", in, got)
		}
	}
	if got, ok := ParseResult(workbook.EmptyCell); ok {
		t.Fatalf("ParseResult(empty) = %v, true; want absent", got)
	}
}

func TestParseResultNumericCell(t *testing.T) {
	got, ok := ParseResult(workbook.NumberCell(6.5))
	if !ok || got != 6.5 {
		t.Fatalf("ParseResult(number 6.5) = %v, %v; want 6.5, true", got, ok)
	}
	// A confirmed zero is distinct from absent.
	got, ok = ParseResult(workbook.NumberCell(0))
	if !ok || got != 0 {
		t.Fatalf("ParseResult(number 0) = %v, %v; want 0, true", got, ok)
	}
}

func TestParseResultNonFiniteNumericCell(t *testing.T) {
	// xlsx numeric cells can carry NaN/Inf literals; they must not reach the
	// JSON encoder as results.
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if got, ok := ParseResult(workbook.NumberCell(v)); ok {
			t.Fatalf("ParseResult(number %v) = %v, true; want absent", v, got)
		}
	}
}

func TestParseResultAmbiguousTokensAreNonDetect(t *testing.T) {
	// "na"/"n/a" sit in both vocabularies; the non-detect check runs first.
	for _, in := range []string{"na", "N/A"} {
		got, ok := ParseResult(workbook.TextCell(in))
		if !ok || got != 0 {
			t.Fatalf("ParseResult(%q) = %v, %v; want 0, true", in, got, ok)
		}
	}
}

func TestParseResultCommaDecimalNotMangledByThousands(t *testing.T) {
	// "1,2345" is neither a thousands group nor left untouched: the comma
	// decimal rule requires exactly one comma and no other separators, which
	// holds here, so it parses as 1.2345.
	got, ok := ParseResult(workbook.TextCell("1,2345"))
	if !ok || got != 1.2345 {
		t.Fatalf("ParseResult(\"1,2345\") = %v, %v; want 1.2345", got, ok)
	}
}
