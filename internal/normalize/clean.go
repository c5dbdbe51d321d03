package normalize

import "strings"

// CleanHeader canonicalizes a column label or parameter name: trims, strips a
// single leading '=' (formula-styled headers pasted from spreadsheets),
// re-trims, and collapses whitespace runs to single spaces. Total and
// idempotent; equality checks elsewhere always compare cleaned values.
func CleanHeader(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "=")
	s = strings.TrimSpace(s)
	return strings.Join(strings.Fields(s), " ")
}

// DetectColumn locates a column by role. Exact candidates are tried in their
// declared priority order against cleaned labels (case-sensitive), so the
// first candidate that matches any column wins even if a later candidate
// appears earlier in the sheet. When no exact candidate matches and a
// fallback substring is given, the first column (source order) whose cleaned,
// case-folded label contains it is returned.
func DetectColumn(columns []string, exact []string, fallbackSubstring string) (string, bool) {
	cleaned := make([]string, len(columns))
	for i, c := range columns {
		cleaned[i] = CleanHeader(c)
	}
	for _, cand := range exact {
		for i := range columns {
			if cleaned[i] == cand {
				return columns[i], true
			}
		}
	}
	if fallbackSubstring != "" {
		sub := strings.ToLower(fallbackSubstring)
		for i := range columns {
			if strings.Contains(strings.ToLower(cleaned[i]), sub) {
				return columns[i], true
			}
		}
	}
	return "", false
}
