package normalize

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/cleanbrook/watertrend/internal/workbook"
)

// nonDetectTokens are lab shorthand for "analyte below detection limit".
// A non-detect is a real observation of zero, not a missing value.
var nonDetectTokens = map[string]bool{
	"nd":              true,
	"n/d":             true,
	"not detected":    true,
	"bdl":             true,
	"below detection": true,
	"na":              true,
	"n/a":             true,
}

// missingTokens mark a cell with no usable reading. "na"/"n/a" also appear in
// the non-detect set; the non-detect check runs first, so those resolve to 0.
var missingTokens = map[string]bool{
	"":     true,
	"none": true,
	"nan":  true,
	"na":   true,
	"n/a":  true,
	"-":    true,
	"--":   true,
	"—":    true,
	".":    true,
	"nill": true,
	"nil":  true,
}

var (
	// thousandsRe matches a comma at a digit,ddd group boundary. A comma used
	// as a decimal separator ("0,5") never matches.
	thousandsRe = regexp.MustCompile(`(\d),(\d{3})\b`)

	// commaDecimalRe matches a numeral using the comma-as-decimal convention
	// with no other separators present.
	commaDecimalRe = regexp.MustCompile(`^[-+]?\d+,\d+$`)

	// numberRe extracts the first signed, optionally fractional numeral.
	numberRe = regexp.MustCompile(`[-+]?\d*\.?\d+`)
)

// ParseResult extracts a float from a messy lab result cell. It handles
// censored values ("<1"), spaced and comma thousands grouping ("10 000",
// "1,234"), comma decimals ("0,5"), embedded units ("7.2 mg/L"), and
// non-detect tokens (ND/BDL -> 0). ok=false means "no usable number"; a
// returned 0 is a confirmed non-detect. Total: never panics or errors.
func ParseResult(cell workbook.Cell) (float64, bool) {
	switch cell.Kind {
	case workbook.KindEmpty:
		return 0, false
	case workbook.KindNumber:
		if math.IsNaN(cell.Number) || math.IsInf(cell.Number, 0) {
			return 0, false
		}
		return cell.Number, true
	}

	s := strings.TrimSpace(cell.String())
	if s == "" {
		return 0, false
	}

	lower := strings.ToLower(s)
	if nonDetectTokens[lower] || strings.Contains(lower, " nd") || strings.Contains(lower, " bdl") {
		return 0, true
	}
	if missingTokens[lower] {
		return 0, false
	}

	// "10 000" -> "10000"
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")

	// Strip thousands commas a group at a time: "1,234,567" -> "1234567".
	for {
		next := thousandsRe.ReplaceAllString(s, "${1}${2}")
		if next == s {
			break
		}
		s = next
	}

	// "0,5" -> "0.5"
	if commaDecimalRe.MatchString(s) {
		s = strings.Replace(s, ",", ".", 1)
	}

	// Censoring comparators are recorded at face value: "<1" -> 1.
	s = strings.TrimLeft(s, "<>")

	m := numberRe.FindString(s)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
