// Package optimizer implements the rule-based optimization engine: metric
// normalization, keyword classification, bid adjustment, placement modifier
// reallocation, and impact estimation over one report snapshot.
package optimizer

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/ppc-cli/internal/model"
)

// RuleConfig holds the resolved thresholds a run is evaluated against.
// Ratio fields are fractions (0–1).
type RuleConfig struct {
	TargetACOS        float64 `yaml:"target_acos" mapstructure:"target_acos"`
	MinConversionRate float64 `yaml:"min_conversion_rate" mapstructure:"min_conversion_rate"`

	// PauseClicks is the click count at or above which a zero-order keyword
	// is paused. BidClicks is the data-sufficiency floor for bid adjustment
	// (strictly greater than).
	PauseClicks int `yaml:"pause_clicks" mapstructure:"pause_clicks"`
	BidClicks   int `yaml:"bid_clicks" mapstructure:"bid_clicks"`

	// BidChangeThreshold suppresses bid changes with |factor−1| at or below
	// this value to avoid churn.
	BidChangeThreshold float64 `yaml:"bid_change_threshold" mapstructure:"bid_change_threshold"`
}

// DefaultRuleConfig returns a RuleConfig with the standard thresholds.
func DefaultRuleConfig() RuleConfig {
	return RuleConfig{
		TargetACOS:         model.DefaultTargetACOS,
		MinConversionRate:  model.DefaultMinConversionRate,
		PauseClicks:        model.DefaultPauseClicks,
		BidClicks:          model.DefaultBidClicks,
		BidChangeThreshold: 0.05,
	}
}

// RuleConfigFor resolves a RuleConfig from run-scoped client settings.
func RuleConfigFor(client model.ClientConfig) RuleConfig {
	cfg := DefaultRuleConfig()
	cfg.TargetACOS = client.ResolvedTargetACOS()
	cfg.MinConversionRate = client.ResolvedMinConversionRate()
	cfg.PauseClicks = client.ResolvedPauseClicks()
	cfg.BidClicks = client.ResolvedBidClicks()
	return cfg
}

// ValidateConfig checks that a RuleConfig is internally consistent.
func ValidateConfig(c RuleConfig) error {
	var errs []string

	if c.TargetACOS <= 0 || c.TargetACOS > 5 {
		errs = append(errs, fmt.Sprintf("target_acos must be a fraction in (0, 5], got %.4f", c.TargetACOS))
	}
	if c.MinConversionRate < 0 || c.MinConversionRate > 1 {
		errs = append(errs, fmt.Sprintf("min_conversion_rate must be a fraction in [0, 1], got %.4f", c.MinConversionRate))
	}
	if c.PauseClicks < 1 {
		errs = append(errs, "pause_clicks must be >= 1")
	}
	if c.BidClicks < 0 {
		errs = append(errs, "bid_clicks must be >= 0")
	}
	if c.BidChangeThreshold < 0 || c.BidChangeThreshold >= 1 {
		errs = append(errs, fmt.Sprintf("bid_change_threshold must be in [0, 1), got %.4f", c.BidChangeThreshold))
	}

	if len(errs) > 0 {
		return eris.Errorf("optimizer: config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
