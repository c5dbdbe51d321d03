package normalize

import (
	"math"
	"strings"
	"time"

	"github.com/cleanbrook/watertrend/internal/workbook"
)

// serialEpoch is the spreadsheet day-zero. Excel's 1900 date system counts
// from 1899-12-30 once the phantom leap day is accounted for, which is the
// epoch every serial in the wild actually resolves against.
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// dateLayouts are tried in order for text cells. Day-first layouts come
// before month-first ones so ambiguous dates like 03/04/2024 resolve as
// DD/MM, matching the source data's convention.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2-1-2006",
	"02.01.2006",
	"2 January 2006",
	"2 Jan 2006",
	"02 Jan 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"01/02/2006",
	"1/2/2006",
}

// ParseDate extracts a calendar date from an arbitrary cell. Number cells are
// spreadsheet serial dates (floor(value) days past the epoch; fractional
// time-of-day is discarded). Text cells go through the day-first layout list.
// Bool and Empty cells, and unparseable text, yield ok=false. Never panics.
func ParseDate(cell workbook.Cell) (time.Time, bool) {
	switch cell.Kind {
	case workbook.KindNumber:
		return serialDate(cell.Number)
	case workbook.KindText:
		return parseDateString(cell.Text)
	default:
		return time.Time{}, false
	}
}

func serialDate(v float64) (time.Time, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return time.Time{}, false
	}
	days := math.Floor(v)
	// Guard absurd serials (year ~5000 is serial ~1.1M).
	if days < -1_000_000 || days > 10_000_000 {
		return time.Time{}, false
	}
	return serialEpoch.AddDate(0, 0, int(days)), true
}

func parseDateString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// MonthFloor returns the first day of t's calendar month.
func MonthFloor(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
