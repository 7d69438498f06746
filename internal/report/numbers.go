package report

import (
	"strconv"
	"strings"

	"github.com/sells-group/ppc-cli/internal/model"
)

// parseNumber parses a bulksheet numeric cell, accepting both German
// ("1.234,56") and English ("1,234.56") formats plus currency symbols and a
// trailing percent sign. Unparseable or empty cells resolve to the missing
// sentinel, never to zero.
func parseNumber(cell string) model.Metric {
	s := strings.TrimSpace(cell)
	if s == "" {
		return model.Missing()
	}

	percent := strings.HasSuffix(s, "%")
	s = strings.TrimSuffix(s, "%")
	s = strings.NewReplacer("€", "", "$", "", " ", "", " ", "").Replace(s)
	if s == "" {
		return model.Missing()
	}

	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")
	switch {
	case lastComma > lastDot:
		// German: dot is a thousands separator, comma is decimal.
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case lastComma >= 0:
		// English: comma is a thousands separator.
		s = strings.ReplaceAll(s, ",", "")
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return model.Missing()
	}
	if percent {
		v /= 100
	}
	return model.Known(v)
}

// parseFloat returns the parsed value or 0 for raw amount columns where a
// blank cell means no recorded activity.
func parseFloat(cell string) float64 {
	return parseNumber(cell).Value()
}

// parseInt parses a count column, coercing blanks and junk to 0.
func parseInt(cell string) int {
	m := parseNumber(cell)
	if !m.IsKnown() {
		return 0
	}
	return int(m.Value())
}

// parseFraction parses a ratio column that bulk reports express as a
// percentage. A bare number above 1 is treated as percent even without the
// "%" suffix; the engine works in fractions throughout.
func parseFraction(cell string) model.Metric {
	m := parseNumber(cell)
	if !m.IsKnown() {
		return m
	}
	v := m.Value()
	if !strings.HasSuffix(strings.TrimSpace(cell), "%") && v > 1 {
		v /= 100
	}
	return model.Known(v)
}
