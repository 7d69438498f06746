package optimizer

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/ppc-cli/internal/model"
)

func kwRow(keyword string, clicks, orders int, spend, sales float64) model.KeywordRow {
	return model.KeywordRow{
		CampaignID: "c1",
		Keyword:    keyword,
		SearchTerm: keyword,
		Clicks:     clicks,
		Orders:     orders,
		Spend:      spend,
		Sales:      sales,
	}
}

func TestClassify_NoSalesAlwaysPauses(t *testing.T) {
	cfg := DefaultRuleConfig()

	// clicks=30, orders=0, sales=0: pauses with the click count in the reason.
	rows := NormalizeKeywords([]model.KeywordRow{kwRow("widget", 30, 0, 15.0, 0)})
	decisions := ClassifyKeywords(rows, cfg)
	require.Len(t, decisions, 1)
	assert.Equal(t, model.ActionPause, decisions[0].Action)
	assert.Contains(t, decisions[0].Reason, "30 clicks")

	// No clicks at all: still paused, plain reason.
	rows = NormalizeKeywords([]model.KeywordRow{kwRow("idle", 0, 0, 0, 0)})
	decisions = ClassifyKeywords(rows, cfg)
	require.Len(t, decisions, 1)
	assert.Equal(t, model.ActionPause, decisions[0].Action)
	assert.Equal(t, "no sales", decisions[0].Reason)
}

func TestClassify_NoConversionsAfterClicks(t *testing.T) {
	cfg := DefaultRuleConfig()

	// Sales exist (so rule 1 passes) but 40 clicks brought zero orders.
	row := kwRow("drainer", 40, 0, 20.0, 5.0)
	decisions := ClassifyKeywords(NormalizeKeywords([]model.KeywordRow{row}), cfg)

	require.Len(t, decisions, 1)
	assert.Equal(t, model.ActionPause, decisions[0].Action)
	assert.Equal(t, "no conversions after 40 clicks", decisions[0].Reason)
}

func TestClassify_ZeroOrdersBelowClickThresholdNotRule2(t *testing.T) {
	cfg := DefaultRuleConfig()

	// 10 clicks is below the 25-click pause rule; the row falls through to
	// the threshold checks instead (CR = 0/10 = 0 < 10%).
	row := kwRow("early", 10, 0, 1.0, 50.0)
	decisions := ClassifyKeywords(NormalizeKeywords([]model.KeywordRow{row}), cfg)

	require.Len(t, decisions, 1)
	assert.Equal(t, model.ActionPause, decisions[0].Action)
	assert.NotContains(t, decisions[0].Reason, "no conversions")
	assert.Contains(t, decisions[0].Reason, "conversion rate")
}

func TestClassify_HealthyKeywordKept(t *testing.T) {
	cfg := DefaultRuleConfig()

	// ACOS = 20/200 = 10% <= 20% target, CR = 6/50 = 12% >= 10% minimum.
	row := kwRow("winner", 50, 6, 20.0, 200.0)
	decisions := ClassifyKeywords(NormalizeKeywords([]model.KeywordRow{row}), cfg)

	require.Len(t, decisions, 1)
	assert.Equal(t, model.ActionKeep, decisions[0].Action)
}

func TestClassify_ThresholdViolations(t *testing.T) {
	cfg := DefaultRuleConfig()

	tests := []struct {
		name   string
		row    model.KeywordRow
		reason string
	}{
		{
			// ACOS = 60/200 = 30% > 20%, CR = 30/100 = 30% is fine.
			name:   "high acos only",
			row:    kwRow("pricey", 100, 30, 60.0, 200.0),
			reason: "high ACOS",
		},
		{
			// ACOS = 10/200 = 5% is fine, CR = 1/100 = 1% < 10%.
			name:   "low conversion rate only",
			row:    kwRow("window-shopper", 100, 1, 10.0, 200.0),
			reason: "low conversion rate",
		},
		{
			// ACOS = 80/200 = 40% > 20% and CR = 2/100 = 2% < 10%.
			name:   "both violated",
			row:    kwRow("double-trouble", 100, 2, 80.0, 200.0),
			reason: "high ACOS",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			decisions := ClassifyKeywords(NormalizeKeywords([]model.KeywordRow{tc.row}), cfg)
			require.Len(t, decisions, 1)
			assert.Equal(t, model.ActionPause, decisions[0].Action)
			assert.Contains(t, decisions[0].Reason, tc.reason)
		})
	}
}

func TestClassify_IncompleteSignalsFallbackPause(t *testing.T) {
	cfg := DefaultRuleConfig()

	// Sales exist and orders exist, but zero clicks leave the conversion
	// rate undefined; neither the keep rule nor a threshold rule can fire.
	row := kwRow("phantom", 0, 1, 5.0, 50.0)
	decisions := ClassifyKeywords(NormalizeKeywords([]model.KeywordRow{row}), cfg)

	require.Len(t, decisions, 1)
	assert.Equal(t, model.ActionPause, decisions[0].Action)
	assert.Equal(t, "insufficient performance signals", decisions[0].Reason)
}

func TestClassify_OrderIndependentAndPreservesInput(t *testing.T) {
	cfg := DefaultRuleConfig()

	rows := NormalizeKeywords([]model.KeywordRow{
		kwRow("winner", 50, 6, 20.0, 200.0),
		kwRow("loser", 30, 0, 15.0, 0),
		kwRow("pricey", 100, 30, 60.0, 200.0),
	})

	forward := ClassifyKeywords(rows, cfg)
	reversed := ClassifyKeywords([]model.KeywordRow{rows[2], rows[1], rows[0]}, cfg)

	require.Len(t, forward, 3)
	require.Len(t, reversed, 3)
	for i := range forward {
		// Same row gets the same decision regardless of neighbors.
		assert.Equal(t, forward[i].Action, reversed[len(reversed)-1-i].Action,
			fmt.Sprintf("row %d", i))
		assert.Equal(t, forward[i].Reason, reversed[len(reversed)-1-i].Reason)
	}

	// Output order matches input order.
	assert.Equal(t, "winner", forward[0].Keyword)
	assert.Equal(t, "loser", forward[1].Keyword)
	assert.Equal(t, "pricey", forward[2].Keyword)
}

func TestClassify_DecisionCarriesMetrics(t *testing.T) {
	cfg := DefaultRuleConfig()

	row := kwRow("winner", 50, 6, 20.0, 200.0)
	decisions := ClassifyKeywords(NormalizeKeywords([]model.KeywordRow{row}), cfg)

	require.Len(t, decisions, 1)
	m := decisions[0].Metrics
	assert.Equal(t, 50, m.Clicks)
	assert.Equal(t, 6, m.Orders)
	require.True(t, m.ACOS.IsKnown())
	assert.InDelta(t, 0.10, m.ACOS.Value(), 1e-9)
	require.True(t, m.ConversionRate.IsKnown())
	assert.InDelta(t, 0.12, m.ConversionRate.Value(), 1e-9)
}
