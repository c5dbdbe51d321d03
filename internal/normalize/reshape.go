package normalize

import (
	"strings"

	"github.com/cleanbrook/watertrend/internal/workbook"
)

// IDColumns names the columns carried verbatim onto every melted row.
// Empty fields mean the role was not found in the sheet.
type IDColumns struct {
	Site string
	Type string
	Date string
	Unit string
}

// analyteWhitelist holds cleaned, case-folded header names of known lab
// analytes. When a wide sheet contains at least one of these, only
// whitelisted columns are melted, which keeps incidental columns like "Year"
// or "Comments" out of the parameter axis.
var analyteWhitelist = map[string]bool{}

func init() {
	for _, name := range []string{
		"pH", "Electrical Conductivity", "EC", "Conductivity",
		"Total Dissolved Solids", "TDS", "Turbidity", "Total Hardness",
		"Hardness", "Calcium", "Magnesium", "Sodium", "Potassium", "Iron",
		"Manganese", "Copper", "Zinc", "Lead", "Arsenic", "Mercury",
		"Cadmium", "Chromium", "Nickel", "Aluminium", "Aluminum", "Ammonia",
		"Ammonium", "Nitrate", "Nitrite", "Chloride", "Fluoride", "Sulphate",
		"Sulfate", "Phosphate", "Orthophosphate", "Alkalinity",
		"Free Chlorine", "Total Chlorine", "Residual Chlorine", "E. coli",
		"E coli", "Total Coliforms", "Faecal Coliforms", "Fecal Coliforms",
		"Heterotrophic Plate Count", "COD", "BOD", "Dissolved Oxygen", "DO",
		"Temperature", "Colour", "Color", "Odour", "Suspended Solids", "TSS",
		"Silica", "Boron", "Barium", "Selenium", "Antimony", "Cyanide",
		"Phenols", "Oil and Grease", "Bromide",
	} {
		analyteWhitelist[strings.ToLower(CleanHeader(name))] = true
	}
}

// ParameterColumns selects which non-id columns of a wide sheet become
// parameters. If any candidate matches the analyte whitelist, only matching
// columns are returned; otherwise every non-id column is a parameter column.
func ParameterColumns(headers []string, ids IDColumns) []string {
	idSet := map[string]bool{ids.Site: true, ids.Type: true, ids.Date: true, ids.Unit: true}
	var all, whitelisted []string
	for _, h := range headers {
		if h == "" || idSet[h] {
			continue
		}
		all = append(all, h)
		if analyteWhitelist[strings.ToLower(CleanHeader(h))] {
			whitelisted = append(whitelisted, h)
		}
	}
	if len(whitelisted) > 0 {
		return whitelisted
	}
	return all
}

// Reshape melts a wide table (one column per parameter) into tidy rows: the
// full cross product of input rows and parameter columns, with the id columns
// copied onto every emitted row. Rows missing a site, parameter name, or
// parseable month are dropped after melting.
func Reshape(t *workbook.Table, ids IDColumns, parameterColumns []string) []MeasurementRow {
	out := make([]MeasurementRow, 0, len(t.Rows)*len(parameterColumns))
	for i := range t.Rows {
		base := MeasurementRow{
			SiteID: strings.TrimSpace(t.At(i, ids.Site).String()),
			Type:   strings.TrimSpace(t.At(i, ids.Type).String()),
			Unit:   strings.TrimSpace(t.At(i, ids.Unit).String()),
		}
		if d, ok := ParseDate(t.At(i, ids.Date)); ok {
			base.SampleDate = d
			base.MonthStart = MonthFloor(d)
		}
		for _, col := range parameterColumns {
			row := base
			row.Parameter = CleanHeader(col)
			if v, ok := ParseResult(t.At(i, col)); ok {
				v := v
				row.Result = &v
			}
			if row.SiteID == "" || row.Parameter == "" || row.MonthStart.IsZero() {
				continue
			}
			out = append(out, row)
		}
	}
	return out
}
