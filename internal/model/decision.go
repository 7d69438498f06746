package model

// Action is the recommended disposition for a keyword.
type Action string

const (
	ActionPause Action = "pause"
	ActionKeep  Action = "keep"
)

// KeywordMetrics is the source-metric snapshot attached to a decision for
// auditability.
type KeywordMetrics struct {
	Clicks         int     `json:"clicks"`
	Orders         int     `json:"orders"`
	Spend          float64 `json:"spend"`
	Sales          float64 `json:"sales"`
	ACOS           Metric  `json:"acos"`
	ConversionRate Metric  `json:"conversion_rate"`
}

// KeywordDecision is the classifier verdict for one keyword row.
type KeywordDecision struct {
	CampaignID string         `json:"campaign_id,omitempty"`
	Keyword    string         `json:"keyword"`
	SearchTerm string         `json:"customer_search_term,omitempty"`
	Action     Action         `json:"action"`
	Reason     string         `json:"reason"`
	Metrics    KeywordMetrics `json:"metrics"`
}

// BidChange is a recommended bid update for a keyword that stays active.
// ChangePct is the signed percentage difference between new and current bid.
type BidChange struct {
	Keyword    string         `json:"keyword"`
	SearchTerm string         `json:"customer_search_term,omitempty"`
	CurrentBid float64        `json:"current_bid"`
	NewBid     float64        `json:"new_bid"`
	ChangePct  float64        `json:"change_percentage"`
	Reason     string         `json:"reason"`
	Metrics    KeywordMetrics `json:"metrics"`
}

// PlacementAdjustment is the recommended bid-modifier percentage for one
// campaign × placement pair. Rows with IsTotal set aggregate a campaign for
// display and carry no recommendation.
type PlacementAdjustment struct {
	CampaignID           string  `json:"campaign_id"`
	Placement            string  `json:"placement"`
	PlacementLabel       string  `json:"placement_label,omitempty"`
	CurrentAdjustPct     float64 `json:"current_adjust_pct"`
	RecommendedAdjustPct float64 `json:"recommended_adjust_pct"`
	HasRecommendation    bool    `json:"has_recommendation"`
	CPC                  float64 `json:"cpc"`
	RPC                  Metric  `json:"rpc"`
	MinRPC               float64 `json:"min_rpc"`
	BaseCPC              float64 `json:"base_cpc"`
	CurrentACOS          Metric  `json:"current_acos"`
	Clicks               int     `json:"clicks"`
	Spend                float64 `json:"spend"`
	Sales                float64 `json:"sales"`
	IsTotal              bool    `json:"is_total"`

	// Total-row extras, display only.
	TotalRPC  Metric `json:"total_rpc,omitempty"`
	TargetCPC Metric `json:"target_cpc,omitempty"`
}

// Impact is the projected performance effect of the recommended changes.
// ProjectedACOSReduction and EfficiencyImprovement are percentage points;
// CostSaving is in the report currency.
type Impact struct {
	ProjectedACOSReduction float64 `json:"projected_acos_reduction"`
	CostSaving             float64 `json:"cost_saving"`
	EfficiencyImprovement  float64 `json:"efficiency_improvement"`
}

// Summary aggregates counts and averages over the run's decisions.
// Average fields are percentages for display.
type Summary struct {
	TotalKeywords   int     `json:"total_keywords_analyzed"`
	KeywordsToPause int     `json:"keywords_to_pause"`
	KeywordsToKeep  int     `json:"keywords_to_keep"`
	BidsToAdjust    int     `json:"bids_to_adjust"`
	BidsToIncrease  int     `json:"bids_to_increase"`
	BidsToDecrease  int     `json:"bids_to_decrease"`
	AvgPauseACOS    float64 `json:"avg_pause_acos"`
	AvgBidIncrease  float64 `json:"avg_bid_increase"`
	AvgBidDecrease  float64 `json:"avg_bid_decrease"`
	Impact          Impact  `json:"estimated_impact"`
}

// OptimizationResult is the complete, immutable output of one run.
type OptimizationResult struct {
	Keywords        []KeywordDecision     `json:"keyword_decisions"`
	Bids            []BidChange           `json:"bid_changes"`
	Placements      []PlacementAdjustment `json:"placement_adjustments"`
	Summary         Summary               `json:"summary"`
	Recommendations []string              `json:"recommendations,omitempty"`
}
