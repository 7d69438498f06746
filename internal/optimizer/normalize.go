package optimizer

import "github.com/sells-group/ppc-cli/internal/model"

// NormalizeKeywords derives missing ratio metrics from raw counts and
// returns a new slice; the input rows are never mutated.
//
// ACOS = spend/sales and conversion rate = orders/clicks. Division by a
// zero denominator yields the missing sentinel, not zero: a keyword with no
// sales has an undefined ACOS, and downstream rules treat it through their
// "known" guards rather than as a perfect performer.
func NormalizeKeywords(rows []model.KeywordRow) []model.KeywordRow {
	out := make([]model.KeywordRow, len(rows))
	for i, row := range rows {
		if !row.ACOS.IsKnown() {
			row.ACOS = model.Ratio(row.Spend, row.Sales)
		}
		if !row.ConversionRate.IsKnown() {
			row.ConversionRate = model.Ratio(float64(row.Orders), float64(row.Clicks))
		}
		if row.CPC == 0 && row.Clicks > 0 {
			row.CPC = row.Spend / float64(row.Clicks)
		}
		out[i] = row
	}
	return out
}
