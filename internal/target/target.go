// Package target loads the parameter -> regulatory maximum table and matches
// it against selected parameters. Every failure path degrades to "no target
// line": a malformed or missing table is never fatal to a refresh.
package target

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/cleanbrook/watertrend/internal/normalize"
	"github.com/cleanbrook/watertrend/internal/workbook"
)

// Threshold is one reference ceiling for a parameter.
type Threshold struct {
	Parameter string  `json:"parameter"`
	MaxTarget float64 `json:"max_target"`
}

// LoadCSV parses a threshold CSV. The parameter column is located by exact
// name, case-insensitive equality, or a "param" substring; the threshold
// column by a lowercased space-stripped name of "maxtarget" or "max". Rows
// whose threshold cell yields no number are skipped.
func LoadCSV(data []byte) ([]Threshold, error) {
	t, err := workbook.ReadCSV(data)
	if err != nil {
		return nil, fmt.Errorf("parse targets csv: %w", err)
	}
	paramCol := findParameterColumn(t.Headers)
	maxCol := findMaxColumn(t.Headers)
	if paramCol < 0 || maxCol < 0 {
		return nil, fmt.Errorf("targets table needs a parameter and a max-target column, have %v", t.Headers)
	}

	out := make([]Threshold, 0, len(t.Rows))
	for _, row := range t.Rows {
		if paramCol >= len(row) || maxCol >= len(row) {
			continue
		}
		name := normalize.CleanHeader(row[paramCol].String())
		if name == "" {
			continue
		}
		v, ok := parseThreshold(row[maxCol].String())
		if !ok {
			continue
		}
		out = append(out, Threshold{Parameter: name, MaxTarget: v})
	}
	return out, nil
}

func findParameterColumn(headers []string) int {
	for i, h := range headers {
		if normalize.CleanHeader(h) == "Parameter" {
			return i
		}
	}
	for i, h := range headers {
		if strings.EqualFold(normalize.CleanHeader(h), "parameter") {
			return i
		}
	}
	for i, h := range headers {
		if strings.Contains(strings.ToLower(h), "param") {
			return i
		}
	}
	return -1
}

func findMaxColumn(headers []string) int {
	for i, h := range headers {
		key := strings.ReplaceAll(strings.ToLower(normalize.CleanHeader(h)), " ", "")
		if key == "maxtarget" || key == "max" {
			return i
		}
	}
	return -1
}

var (
	threeDigits  = regexp.MustCompile(`^\d{3}$`)
	commaDecimal = regexp.MustCompile(`^[-+]?\d+,\d+$`)
)

// parseThreshold reads a threshold cell. Some source tables list several
// ceilings separated by commas ("8.5,9"); the convention is to chart the
// maximum. Two shapes are exempt from list treatment and go through the
// ordinary result parser instead: a thousands-grouped number ("1,234") and a
// pure comma decimal ("0,5").
func parseThreshold(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	pieces := strings.Split(s, ",")
	isThousands := len(pieces) == 2 && threeDigits.MatchString(strings.TrimSpace(pieces[1]))
	if len(pieces) >= 2 && !isThousands && !commaDecimal.MatchString(s) {
		maxV := 0.0
		ok := true
		for i, p := range pieces {
			v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
			if err != nil {
				ok = false
				break
			}
			if i == 0 || v > maxV {
				maxV = v
			}
		}
		if ok {
			return maxV, true
		}
	}
	return normalize.ParseResult(workbook.TextCell(s))
}

// Lookup returns the first threshold whose parameter matches after header
// cleaning and case folding. ok=false when no entry matches.
func Lookup(thresholds []Threshold, parameter string) (float64, bool) {
	want := strings.ToLower(normalize.CleanHeader(parameter))
	for _, t := range thresholds {
		if strings.ToLower(normalize.CleanHeader(t.Parameter)) == want {
			return t.MaxTarget, true
		}
	}
	return 0, false
}
