// Package normalize turns an arbitrarily shaped lab results table into tidy
// per-measurement rows. It tolerates wide and long layouts, inconsistent
// headers, mixed date formats, and non-numeric result tokens; every cell-level
// failure degrades to an absent value instead of an error.
package normalize

import (
	"fmt"
	"strings"

	"github.com/cleanbrook/watertrend/internal/workbook"
)

// Column role candidates, in priority order. Lab sheets vary the site and
// date header spelling across organizations; the substring fallback keeps
// detection predictable without a fixed schema.
var (
	typeCandidates   = []string{"Type", "TYPE"}
	siteCandidates   = []string{"Site ID", "SiteID", "Site", "Site Id", "Borehole", "Plant", "Location"}
	paramCandidates  = []string{"Parameter", "PARAMETER"}
	unitCandidates   = []string{"Unit", "Units"}
	resultCandidates = []string{"Result", "Value", "RESULT"}
	dateCandidates   = []string{"Date", "Sample Date", "DateSampled", "DateClean", "DATE"}
)

// Roles records which source column serves each canonical role.
type Roles struct {
	Site      string
	Type      string
	Parameter string
	Unit      string
	Result    string
	Date      string
}

// Long reports whether the sheet is already in long/tidy layout
// (one row per measurement, with explicit Parameter and Result columns).
func (r Roles) Long() bool { return r.Parameter != "" && r.Result != "" }

// DetectRoles scans the table headers for the canonical column roles.
func DetectRoles(headers []string) Roles {
	var r Roles
	if c, ok := DetectColumn(headers, siteCandidates, "site"); ok {
		r.Site = c
	}
	if c, ok := DetectColumn(headers, typeCandidates, ""); ok {
		r.Type = c
	}
	if c, ok := DetectColumn(headers, paramCandidates, ""); ok {
		r.Parameter = c
	}
	if c, ok := DetectColumn(headers, unitCandidates, ""); ok {
		r.Unit = c
	}
	if c, ok := DetectColumn(headers, resultCandidates, ""); ok {
		r.Result = c
	}
	if c, ok := DetectColumn(headers, dateCandidates, "date"); ok {
		r.Date = c
	}
	return r
}

// Normalize derives the tidy measurement set from a loaded table. Long-layout
// sheets map one row to one measurement; wide sheets are melted through
// Reshape. The table is not mutated; calling Normalize twice on the same
// table yields the same rows.
func Normalize(t *workbook.Table) ([]MeasurementRow, error) {
	roles := DetectRoles(t.Headers)
	if roles.Site == "" {
		return nil, fmt.Errorf("no site column found among %d headers", len(t.Headers))
	}

	if roles.Long() {
		return normalizeLong(t, roles), nil
	}

	ids := IDColumns{Site: roles.Site, Type: roles.Type, Date: roles.Date, Unit: roles.Unit}
	params := ParameterColumns(t.Headers, ids)
	if len(params) == 0 {
		return nil, fmt.Errorf("no parameter columns found")
	}
	return Reshape(t, ids, params), nil
}

func normalizeLong(t *workbook.Table, roles Roles) []MeasurementRow {
	out := make([]MeasurementRow, 0, len(t.Rows))
	for i := range t.Rows {
		row := MeasurementRow{
			SiteID:    strings.TrimSpace(t.At(i, roles.Site).String()),
			Type:      strings.TrimSpace(t.At(i, roles.Type).String()),
			Parameter: CleanHeader(t.At(i, roles.Parameter).String()),
			Unit:      strings.TrimSpace(t.At(i, roles.Unit).String()),
		}
		if d, ok := ParseDate(t.At(i, roles.Date)); ok {
			row.SampleDate = d
			row.MonthStart = MonthFloor(d)
		}
		if v, ok := ParseResult(t.At(i, roles.Result)); ok {
			v := v
			row.Result = &v
		}
		if row.SiteID == "" || row.Parameter == "" || row.MonthStart.IsZero() {
			continue
		}
		out = append(out, row)
	}
	return out
}
