package model

// Default thresholds applied when ClientConfig leaves a field unset.
const (
	DefaultTargetACOS        = 0.20
	AggressiveTargetACOS     = 0.08 // market leaders and large-inventory clients
	DefaultMinConversionRate = 0.10
	DefaultPauseClicks       = 25
	DefaultBidClicks         = 10
)

// ClientConfig is run-scoped configuration supplied alongside a snapshot.
// All ratio fields are fractions (0–1). Zero values mean "use the default".
type ClientConfig struct {
	Name              string  `json:"name,omitempty" yaml:"name" mapstructure:"name"`
	TargetACOS        float64 `json:"target_acos,omitempty" yaml:"target_acos" mapstructure:"target_acos"`
	MinConversionRate float64 `json:"min_conversion_rate,omitempty" yaml:"min_conversion_rate" mapstructure:"min_conversion_rate"`
	MinClicksForPause int     `json:"min_clicks_for_pause,omitempty" yaml:"min_clicks_for_pause" mapstructure:"min_clicks_for_pause"`
	MinClicksForBid   int     `json:"min_clicks_for_bid,omitempty" yaml:"min_clicks_for_bid" mapstructure:"min_clicks_for_bid"`
	IsMarketLeader    bool    `json:"is_market_leader,omitempty" yaml:"is_market_leader" mapstructure:"is_market_leader"`
	HasLargeInventory bool    `json:"has_large_inventory,omitempty" yaml:"has_large_inventory" mapstructure:"has_large_inventory"`
}

// ResolvedTargetACOS returns the explicit target when set, otherwise the
// aggressive default for market leaders / large inventories, otherwise 20%.
func (c ClientConfig) ResolvedTargetACOS() float64 {
	if c.TargetACOS > 0 {
		return c.TargetACOS
	}
	if c.IsMarketLeader || c.HasLargeInventory {
		return AggressiveTargetACOS
	}
	return DefaultTargetACOS
}

// ResolvedMinConversionRate returns the minimum conversion rate threshold.
func (c ClientConfig) ResolvedMinConversionRate() float64 {
	if c.MinConversionRate > 0 {
		return c.MinConversionRate
	}
	return DefaultMinConversionRate
}

// ResolvedPauseClicks returns the click count above which a zero-order
// keyword is paused.
func (c ClientConfig) ResolvedPauseClicks() int {
	if c.MinClicksForPause > 0 {
		return c.MinClicksForPause
	}
	return DefaultPauseClicks
}

// ResolvedBidClicks returns the data-sufficiency threshold for bid
// adjustment. Rows need strictly more clicks than this to be adjusted.
func (c ClientConfig) ResolvedBidClicks() int {
	if c.MinClicksForBid > 0 {
		return c.MinClicksForBid
	}
	return DefaultBidClicks
}
