package optimizer

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/sells-group/ppc-cli/internal/model"
)

// ClassifyKeywords labels every keyword row pause or keep. Rules are
// evaluated in fixed precedence order, first match wins:
//
//  1. no sales at all
//  2. enough clicks with zero orders
//  3. ACOS above target, or conversion rate below minimum
//  4. both metrics known and within thresholds
//  5. conservative fallback: incomplete signals pause the keyword
//
// The output order matches the input order; classification of a row depends
// only on that row and the config.
func ClassifyKeywords(rows []model.KeywordRow, cfg RuleConfig) []model.KeywordDecision {
	decisions := make([]model.KeywordDecision, 0, len(rows))

	for _, row := range rows {
		action, reason := classifyRow(row, cfg)
		decisions = append(decisions, model.KeywordDecision{
			CampaignID: row.CampaignID,
			Keyword:    row.Keyword,
			SearchTerm: row.SearchTerm,
			Action:     action,
			Reason:     reason,
			Metrics:    snapshotMetrics(row),
		})
	}

	paused := 0
	for _, d := range decisions {
		if d.Action == model.ActionPause {
			paused++
		}
	}
	zap.L().Info("optimizer: keywords classified",
		zap.Int("total", len(decisions)),
		zap.Int("paused", paused),
		zap.Int("kept", len(decisions)-paused),
	)

	return decisions
}

func classifyRow(row model.KeywordRow, cfg RuleConfig) (model.Action, string) {
	// Rule 1: nothing sold.
	if row.Sales == 0 {
		if row.Clicks > 0 {
			return model.ActionPause, fmt.Sprintf("no sales after %d clicks", row.Clicks)
		}
		return model.ActionPause, "no sales"
	}

	// Rule 2: plenty of clicks, zero conversions.
	if row.Clicks >= cfg.PauseClicks && row.Orders == 0 {
		return model.ActionPause, fmt.Sprintf("no conversions after %d clicks", row.Clicks)
	}

	// Rule 3: a known metric violates its threshold.
	highACOS := row.ACOS.IsKnown() && row.ACOS.Value() > cfg.TargetACOS
	lowCR := row.ConversionRate.IsKnown() && row.ConversionRate.Value() < cfg.MinConversionRate
	switch {
	case highACOS && lowCR:
		return model.ActionPause, fmt.Sprintf("high ACOS (%s) and low conversion rate (%s)",
			row.ACOS.FormatPct(), row.ConversionRate.FormatPct())
	case highACOS:
		return model.ActionPause, fmt.Sprintf("high ACOS (%s) above target (%.1f%%)",
			row.ACOS.FormatPct(), cfg.TargetACOS*100)
	case lowCR:
		return model.ActionPause, fmt.Sprintf("low conversion rate (%s) below minimum (%.1f%%)",
			row.ConversionRate.FormatPct(), cfg.MinConversionRate*100)
	}

	// Rule 4: both metrics known and healthy.
	if row.ACOS.IsKnown() && row.ConversionRate.IsKnown() {
		return model.ActionKeep, fmt.Sprintf("ACOS %s within target and conversion rate %s above minimum",
			row.ACOS.FormatPct(), row.ConversionRate.FormatPct())
	}

	// Rule 5: incomplete signals, pause conservatively.
	return model.ActionPause, "insufficient performance signals"
}

func snapshotMetrics(row model.KeywordRow) model.KeywordMetrics {
	return model.KeywordMetrics{
		Clicks:         row.Clicks,
		Orders:         row.Orders,
		Spend:          row.Spend,
		Sales:          row.Sales,
		ACOS:           row.ACOS,
		ConversionRate: row.ConversionRate,
	}
}
