package optimizer

import (
	"go.uber.org/zap"

	"github.com/sells-group/ppc-cli/internal/model"
)

// EstimateImpact projects the aggregate effect of the keyword and bid
// decisions. All three figures are best-effort display estimates; degenerate
// aggregates (no sales left, negative recomputed spend) fall back to 0
// rather than failing the run.
func EstimateImpact(rows []model.KeywordRow, decisions []model.KeywordDecision, bids []model.BidChange) model.Impact {
	impact := model.Impact{
		ProjectedACOSReduction: estimateACOSReduction(rows, decisions, bids),
		CostSaving:             estimateCostSaving(rows, decisions, bids),
	}
	impact.EfficiencyImprovement = estimateEfficiency(rows, impact.ProjectedACOSReduction)

	zap.L().Debug("optimizer: impact estimated",
		zap.Float64("acos_reduction_pts", impact.ProjectedACOSReduction),
		zap.Float64("cost_saving", impact.CostSaving),
		zap.Float64("efficiency_improvement", impact.EfficiencyImprovement),
	)
	return impact
}

// estimateACOSReduction returns current blended ACOS minus the blended ACOS
// after removing paused spend/sales and applying bid-change spend deltas, in
// percentage points.
func estimateACOSReduction(rows []model.KeywordRow, decisions []model.KeywordDecision, bids []model.BidChange) float64 {
	var currentSpend, currentSales float64
	spendByKeyword := make(map[string]float64, len(rows))
	for _, row := range rows {
		currentSpend += row.Spend
		currentSales += row.Sales
		spendByKeyword[row.Keyword] += row.Spend
	}

	pausedSpend, pausedSales := pausedTotals(rows, decisions)

	var bidDelta float64
	for _, change := range bids {
		bidDelta += spendByKeyword[change.Keyword] * change.ChangePct / 100
	}

	newSpend := currentSpend - pausedSpend + bidDelta
	newSales := currentSales - pausedSales

	// Degenerate aggregates: no basis for a ratio, or the recomputed spend
	// went negative (data error). Report no reduction.
	if currentSales == 0 || newSales == 0 || newSpend < 0 {
		return 0
	}

	currentACOS := currentSpend / currentSales * 100
	newACOS := newSpend / newSales * 100
	return currentACOS - newACOS
}

// estimateCostSaving sums spend attributable to paused keywords plus the
// spend reduction from bid decreases. Increases are not netted against it.
func estimateCostSaving(rows []model.KeywordRow, decisions []model.KeywordDecision, bids []model.BidChange) float64 {
	spendByKeyword := make(map[string]float64, len(rows))
	for _, row := range rows {
		spendByKeyword[row.Keyword] += row.Spend
	}

	pausedSpend, _ := pausedTotals(rows, decisions)

	var decreaseSaving float64
	for _, change := range bids {
		if change.ChangePct < 0 {
			decreaseSaving += spendByKeyword[change.Keyword] * (-change.ChangePct) / 100
		}
	}
	return pausedSpend + decreaseSaving
}

// estimateEfficiency expresses the ACOS reduction relative to the current
// average keyword ACOS, as a percentage. A zero baseline with a positive
// reduction returns a flat 100: a documented special case carried over from
// the business rules, not a general formula.
func estimateEfficiency(rows []model.KeywordRow, acosReductionPts float64) float64 {
	var sum float64
	var n int
	for _, row := range rows {
		if row.ACOS.IsKnown() {
			sum += row.ACOS.Value()
			n++
		}
	}

	if n == 0 {
		return 0
	}
	avgACOSPts := sum / float64(n) * 100
	if avgACOSPts == 0 {
		if acosReductionPts > 0 {
			return 100
		}
		return 0
	}
	return acosReductionPts / avgACOSPts * 100
}

func pausedTotals(rows []model.KeywordRow, decisions []model.KeywordDecision) (spend, sales float64) {
	paused := make(map[string]bool)
	for _, d := range decisions {
		if d.Action == model.ActionPause {
			paused[d.Keyword] = true
		}
	}
	for _, row := range rows {
		if paused[row.Keyword] {
			spend += row.Spend
			sales += row.Sales
		}
	}
	return spend, sales
}
