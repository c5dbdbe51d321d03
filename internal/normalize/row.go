package normalize

import "time"

// MeasurementRow is one parameter reading at one site on one date, the tidy
// per-measurement unit everything downstream consumes. SampleDate is zero when
// the source date was unparseable; Result is nil when the cell held no usable
// number (distinct from a non-detect, which is the number 0).
type MeasurementRow struct {
	SiteID     string    `json:"site_id"`
	Type       string    `json:"type,omitempty"`
	Parameter  string    `json:"parameter"`
	Unit       string    `json:"unit,omitempty"`
	SampleDate time.Time `json:"sample_date,omitempty"`
	MonthStart time.Time `json:"month_start"`
	Result     *float64  `json:"result"`
}

// HasDate reports whether the row carries a parseable sample date.
func (r MeasurementRow) HasDate() bool { return !r.SampleDate.IsZero() }
