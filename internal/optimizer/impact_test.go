package optimizer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/ppc-cli/internal/model"
)

func TestEstimateImpact_PausedSpendRemoved(t *testing.T) {
	rows := []model.KeywordRow{
		{Keyword: "keep", Spend: 50, Sales: 500, ACOS: model.Known(0.10)},
		{Keyword: "pause", Spend: 50, Sales: 0},
	}
	decisions := []model.KeywordDecision{
		{Keyword: "keep", Action: model.ActionKeep},
		{Keyword: "pause", Action: model.ActionPause},
	}

	impact := EstimateImpact(rows, decisions, nil)

	// Current blended ACOS = 100/500 = 20%; after removing the paused
	// keyword's spend it drops to 50/500 = 10%.
	assert.InDelta(t, 10.0, impact.ProjectedACOSReduction, 1e-9)
	assert.InDelta(t, 50.0, impact.CostSaving, 1e-9)
}

func TestEstimateImpact_BidDecreasesCounted(t *testing.T) {
	rows := []model.KeywordRow{
		{Keyword: "a", Spend: 100, Sales: 500, ACOS: model.Known(0.20)},
		{Keyword: "b", Spend: 100, Sales: 500, ACOS: model.Known(0.20)},
	}
	bids := []model.BidChange{
		{Keyword: "a", ChangePct: -40}, // saves 40% of $100
		{Keyword: "b", ChangePct: +30}, // increases are not netted
	}

	impact := EstimateImpact(rows, nil, bids)
	assert.InDelta(t, 40.0, impact.CostSaving, 1e-9)

	// New spend = 200 - 40 + 30 = 190 on unchanged sales of 1000:
	// ACOS goes from 20% to 19%.
	assert.InDelta(t, 1.0, impact.ProjectedACOSReduction, 1e-9)
}

func TestEstimateImpact_DegenerateAggregatesClampToZero(t *testing.T) {
	// Everything paused: no sales survive, reduction clamps to 0.
	rows := []model.KeywordRow{
		{Keyword: "pause", Spend: 50, Sales: 100, ACOS: model.Known(0.50)},
	}
	decisions := []model.KeywordDecision{
		{Keyword: "pause", Action: model.ActionPause},
	}

	impact := EstimateImpact(rows, decisions, nil)
	assert.Equal(t, 0.0, impact.ProjectedACOSReduction)
	// Cost saving is still real: the paused spend goes away.
	assert.InDelta(t, 50.0, impact.CostSaving, 1e-9)

	// No sales anywhere: nothing to project.
	impact = EstimateImpact([]model.KeywordRow{{Keyword: "x", Spend: 10}}, nil, nil)
	assert.Equal(t, 0.0, impact.ProjectedACOSReduction)
}

func TestEstimateEfficiency(t *testing.T) {
	rows := []model.KeywordRow{
		{ACOS: model.Known(0.30)},
		{ACOS: model.Known(0.10)},
		{ACOS: model.Missing()}, // ignored
	}

	// Average known ACOS = 20 points; a 5-point reduction is 25% of it.
	assert.InDelta(t, 25.0, estimateEfficiency(rows, 5.0), 1e-9)

	// No known ACOS at all.
	assert.Equal(t, 0.0, estimateEfficiency([]model.KeywordRow{{}}, 5.0))

	// Zero baseline with a positive reduction reports the flat 100.
	zeroRows := []model.KeywordRow{{ACOS: model.Known(0)}}
	assert.Equal(t, 100.0, estimateEfficiency(zeroRows, 5.0))
	assert.Equal(t, 0.0, estimateEfficiency(zeroRows, 0))
}
