package model

// Canonical placement labels. The report loader maps the localized bulksheet
// labels ("Platzierung Produktseite", "Placement Top", ...) onto these.
const (
	PlacementProductPage  = "product_page"
	PlacementRestOfSearch = "rest_of_search"
	PlacementTopOfSearch  = "top_of_search"
)

// KeywordRow is one performance record for a biddable keyword, immutable
// input to an optimization run. ACOS and ConversionRate are fractions (0–1);
// they are missing, never zero, when the denominator gives no signal.
type KeywordRow struct {
	CampaignID     string  `json:"campaign_id,omitempty"`
	Keyword        string  `json:"keyword"`
	SearchTerm     string  `json:"customer_search_term,omitempty"`
	MatchType      string  `json:"match_type,omitempty"`
	Clicks         int     `json:"clicks"`
	Impressions    int     `json:"impressions,omitempty"`
	Orders         int     `json:"orders"`
	Spend          float64 `json:"spend"`
	Sales          float64 `json:"sales"`
	CPC            float64 `json:"cpc"`
	ACOS           Metric  `json:"acos"`
	ConversionRate Metric  `json:"conversion_rate"`
}

// PlacementRow is one bid-modifier record for a campaign × placement pair.
// CurrentAdjustPct is the percentage modifier currently applied (0 = none).
type PlacementRow struct {
	CampaignID       string  `json:"campaign_id"`
	Placement        string  `json:"placement"`
	PlacementLabel   string  `json:"placement_label,omitempty"` // original bulksheet label, kept for export matching
	CurrentAdjustPct float64 `json:"current_adjust_pct"`
	Clicks           int     `json:"clicks"`
	Spend            float64 `json:"spend"`
	Sales            float64 `json:"sales"`
}

// CPC returns spend per click, 0 when the placement has no clicks.
func (p PlacementRow) CPC() float64 {
	if p.Clicks == 0 {
		return 0
	}
	return p.Spend / float64(p.Clicks)
}

// RPC returns sales per click. A zero-click placement carries no signal, so
// the result is missing rather than zero or infinite.
func (p PlacementRow) RPC() Metric {
	if p.Clicks == 0 {
		return Missing()
	}
	return Known(p.Sales / float64(p.Clicks))
}

// Snapshot is the column-normalized row-set a single run operates on.
// Each run owns its snapshot; the engine never mutates it.
type Snapshot struct {
	Keywords   []KeywordRow   `json:"keywords"`
	Placements []PlacementRow `json:"placements"`
}
