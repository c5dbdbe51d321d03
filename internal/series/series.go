// Package series filters normalized measurements and reduces them to one
// point per site per month for charting.
package series

import (
	"sort"
	"time"

	"github.com/cleanbrook/watertrend/internal/normalize"
)

// Selection is one dashboard filter state. Zero fields are wildcards: an
// empty Type matches all types, empty Sites all sites, zero Start/End leave
// that end of the interval open.
type Selection struct {
	Type      string
	Parameter string
	Sites     []string
	Start     time.Time
	End       time.Time
}

// Filter keeps rows matching the selection. The date interval is closed and
// runs on MonthStart, matching the month-range widget semantics.
func Filter(rows []normalize.MeasurementRow, sel Selection) []normalize.MeasurementRow {
	var siteSet map[string]bool
	if len(sel.Sites) > 0 {
		siteSet = make(map[string]bool, len(sel.Sites))
		for _, s := range sel.Sites {
			siteSet[s] = true
		}
	}
	out := make([]normalize.MeasurementRow, 0, len(rows))
	for _, r := range rows {
		if sel.Type != "" && r.Type != sel.Type {
			continue
		}
		if sel.Parameter != "" && r.Parameter != sel.Parameter {
			continue
		}
		if siteSet != nil && !siteSet[r.SiteID] {
			continue
		}
		if !sel.Start.IsZero() && r.MonthStart.Before(sel.Start) {
			continue
		}
		if !sel.End.IsZero() && r.MonthStart.After(sel.End) {
			continue
		}
		out = append(out, r)
	}
	return out
}

type monthKey struct {
	site  string
	month time.Time
}

// LastPerMonth reduces rows to one per (site, month): the row with the latest
// sample date, ties broken by later position in the input. A dated row always
// beats an undated one. Groups whose winner has no numeric result are still
// emitted so the chart shows a gap instead of silently dropping a site-month.
func LastPerMonth(rows []normalize.MeasurementRow) []normalize.MeasurementRow {
	best := make(map[monthKey]normalize.MeasurementRow, len(rows))
	order := make([]monthKey, 0, len(rows))
	for _, r := range rows {
		k := monthKey{site: r.SiteID, month: r.MonthStart}
		cur, seen := best[k]
		if !seen {
			best[k] = r
			order = append(order, k)
			continue
		}
		if wins(r, cur) {
			best[k] = r
		}
	}
	out := make([]normalize.MeasurementRow, 0, len(order))
	for _, k := range order {
		out = append(out, best[k])
	}
	return out
}

// wins reports whether the later-seen candidate replaces the current winner.
func wins(candidate, current normalize.MeasurementRow) bool {
	switch {
	case candidate.HasDate() && current.HasDate():
		return !candidate.SampleDate.Before(current.SampleDate)
	case candidate.HasDate():
		return true
	case current.HasDate():
		return false
	default:
		return true // both undated: last occurrence
	}
}

// Monthly is the full per-interaction reduction: filter, last-per-month,
// then a stable (month, site) sort so chart output is deterministic.
func Monthly(rows []normalize.MeasurementRow, sel Selection) []normalize.MeasurementRow {
	out := LastPerMonth(Filter(rows, sel))
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].MonthStart.Equal(out[j].MonthStart) {
			return out[i].MonthStart.Before(out[j].MonthStart)
		}
		return out[i].SiteID < out[j].SiteID
	})
	return out
}
