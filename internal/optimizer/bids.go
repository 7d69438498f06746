package optimizer

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/sells-group/ppc-cli/internal/model"
)

// Bid adjustment factors by performance band.
const (
	factorNoConversions  = 0.7
	factorAnomalousACOS  = 1.1 // ACOS reads 0 but orders exist
	factorWayOverTarget  = 0.6
	factorWellUnderLimit = 1.3
	factorSlightIncrease = 1.1
)

// AdjustBids computes a new bid for every keyword that is not being paused
// and has more than cfg.BidClicks clicks. The adjustment factor is a
// piecewise function of current ACOS vs target; changes within
// cfg.BidChangeThreshold of no-op are suppressed.
func AdjustBids(rows []model.KeywordRow, decisions []model.KeywordDecision, cfg RuleConfig) []model.BidChange {
	pauseSet := make(map[string]bool, len(decisions))
	for _, d := range decisions {
		if d.Action == model.ActionPause {
			pauseSet[d.Keyword] = true
		}
	}

	var changes []model.BidChange
	for _, row := range rows {
		if row.Clicks <= cfg.BidClicks {
			continue
		}
		if pauseSet[row.Keyword] {
			continue
		}

		// A missing ACOS is coerced to 0 here on purpose: together with the
		// order count it routes the row into the no-conversions or
		// anomalous-ACOS branch instead of the ratio branches.
		acos := row.ACOS.OrZero()
		factor := adjustmentFactor(acos, cfg.TargetACOS, row.Orders)

		if math.Abs(factor-1) <= cfg.BidChangeThreshold {
			continue
		}

		changes = append(changes, model.BidChange{
			Keyword:    row.Keyword,
			SearchTerm: row.SearchTerm,
			CurrentBid: row.CPC,
			NewBid:     row.CPC * factor,
			ChangePct:  (factor - 1) * 100,
			Reason:     bidChangeReason(acos, cfg.TargetACOS, row.Orders, row.Clicks),
			Metrics:    snapshotMetrics(row),
		})
	}

	zap.L().Info("optimizer: bids adjusted",
		zap.Int("changes", len(changes)),
	)
	return changes
}

// adjustmentFactor maps current ACOS (fraction, 0 when unknown) and order
// count to a multiplicative bid factor.
func adjustmentFactor(acos, target float64, orders int) float64 {
	switch {
	case acos == 0 && orders > 0:
		return factorAnomalousACOS
	case acos == 0 && orders == 0:
		return factorNoConversions
	case acos > target*1.5:
		return factorWayOverTarget
	case acos > target:
		return target / acos
	case acos < target*0.5 && orders > 0:
		return factorWellUnderLimit
	case acos < target && orders > 0:
		return factorSlightIncrease
	default:
		return 1.0
	}
}

// bidChangeReason names the triggering branch with its numeric values so
// every emitted change is auditable.
func bidChangeReason(acos, target float64, orders, clicks int) string {
	switch {
	case acos == 0 && orders == 0:
		return fmt.Sprintf("no conversions after %d clicks", clicks)
	case acos == 0 && orders > 0:
		return fmt.Sprintf("ACOS reads 0%% despite %d orders, probing with a slight increase", orders)
	case acos > target*1.5:
		return fmt.Sprintf("ACOS (%.1f%%) is much higher than target (%.1f%%)", acos*100, target*100)
	case acos > target:
		return fmt.Sprintf("ACOS (%.1f%%) is higher than target (%.1f%%)", acos*100, target*100)
	case acos < target*0.5 && orders > 0:
		return fmt.Sprintf("ACOS (%.1f%%) is much lower than target (%.1f%%), room to bid higher for more traffic", acos*100, target*100)
	case acos < target && orders > 0:
		return fmt.Sprintf("ACOS (%.1f%%) is below target (%.1f%%), slight increase to get more traffic", acos*100, target*100)
	default:
		return "current performance is acceptable"
	}
}
