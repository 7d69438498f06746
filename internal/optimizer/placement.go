package optimizer

import (
	"math"

	"go.uber.org/zap"

	"github.com/sells-group/ppc-cli/internal/model"
)

// TotalPlacement labels the synthetic per-campaign aggregate row. It is
// display-only and must be excluded from downstream aggregation.
const TotalPlacement = "total"

// AdjustPlacements reallocates bid modifiers across each campaign's
// placements. The placement with the lowest defined revenue-per-click gets a
// 0% modifier; every other placement is scaled up proportionally to its
// revenue advantage. Zero-click placements carry no signal and keep their
// current modifier. Campaigns where no placement has a defined RPC are
// skipped entirely.
//
// Campaign and row order follow the input, so output is deterministic.
func AdjustPlacements(rows []model.PlacementRow, targetACOS float64) []model.PlacementAdjustment {
	byCampaign := make(map[string][]model.PlacementRow)
	var order []string
	for _, row := range rows {
		if _, seen := byCampaign[row.CampaignID]; !seen {
			order = append(order, row.CampaignID)
		}
		byCampaign[row.CampaignID] = append(byCampaign[row.CampaignID], row)
	}

	var out []model.PlacementAdjustment
	skipped := 0
	for _, campaignID := range order {
		group := byCampaign[campaignID]

		minRPC, ok := minDefinedRPC(group)
		if !ok {
			skipped++
			continue
		}
		baseCPC := minRPC * targetACOS

		for _, row := range group {
			out = append(out, adjustPlacement(row, minRPC, baseCPC))
		}
		out = append(out, campaignTotal(campaignID, group, minRPC, targetACOS))
	}

	zap.L().Info("optimizer: placements adjusted",
		zap.Int("campaigns", len(order)-skipped),
		zap.Int("campaigns_skipped", skipped),
		zap.Int("adjustments", len(out)),
	)
	return out
}

func minDefinedRPC(group []model.PlacementRow) (float64, bool) {
	var min float64
	found := false
	for _, row := range group {
		rpc := row.RPC()
		if !rpc.IsKnown() {
			continue
		}
		if !found || rpc.Value() < min {
			min = rpc.Value()
			found = true
		}
	}
	return min, found
}

func adjustPlacement(row model.PlacementRow, minRPC, baseCPC float64) model.PlacementAdjustment {
	adj := model.PlacementAdjustment{
		CampaignID:       row.CampaignID,
		Placement:        row.Placement,
		PlacementLabel:   row.PlacementLabel,
		CurrentAdjustPct: row.CurrentAdjustPct,
		CPC:              row.CPC(),
		RPC:              row.RPC(),
		MinRPC:           minRPC,
		BaseCPC:          baseCPC,
		CurrentACOS:      model.Ratio(row.Spend, row.Sales),
		Clicks:           row.Clicks,
		Spend:            row.Spend,
		Sales:            row.Sales,
	}

	rpc := row.RPC()
	if !rpc.IsKnown() {
		// No click signal: echo the current modifier unchanged.
		adj.RecommendedAdjustPct = row.CurrentAdjustPct
		return adj
	}

	ratio := rpc.Value() / minRPC // >= 1 by construction
	adj.RecommendedAdjustPct = roundTo1(math.Max(ratio-1, 0) * 100)
	adj.HasRecommendation = true
	return adj
}

// campaignTotal builds the display-only aggregate row for one campaign.
func campaignTotal(campaignID string, group []model.PlacementRow, minRPC, targetACOS float64) model.PlacementAdjustment {
	var clicks int
	var spend, sales float64
	for _, row := range group {
		clicks += row.Clicks
		spend += row.Spend
		sales += row.Sales
	}

	totalRPC := model.Ratio(sales, float64(clicks))
	targetCPC := model.Missing()
	if totalRPC.IsKnown() {
		targetCPC = model.Known(totalRPC.Value() * targetACOS)
	}

	return model.PlacementAdjustment{
		CampaignID:  campaignID,
		Placement:   TotalPlacement,
		MinRPC:      minRPC,
		BaseCPC:     minRPC * targetACOS,
		CurrentACOS: model.Ratio(spend, sales),
		Clicks:      clicks,
		Spend:       spend,
		Sales:       sales,
		TotalRPC:    totalRPC,
		TargetCPC:   targetCPC,
		IsTotal:     true,
	}
}

func roundTo1(v float64) float64 {
	return math.Round(v*10) / 10
}
