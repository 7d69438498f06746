// Package advisor produces optional prose recommendations from a completed
// optimization result. The advisor is strictly presentational: it runs after
// the numeric pipeline, is bounded by a timeout, and degrades to a static
// recommendation set on any failure.
package advisor

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/ppc-cli/internal/model"
	"github.com/sells-group/ppc-cli/pkg/anthropic"
)

// Advisor generates prose recommendations for a result. Implementations
// must never return an error: a failed generation falls back to static text.
type Advisor interface {
	Recommend(ctx context.Context, result *model.OptimizationResult, client model.ClientConfig) []string
}

// fallbackRecommendations is served whenever generation is unavailable.
var fallbackRecommendations = []string{
	"Review keywords with high ACOS and low conversions for potential pausing or bid reduction.",
	"Monitor keywords with recent bid changes closely for performance shifts.",
	"Check search term reports of paused keywords for negative keyword candidates.",
	"Re-run the analysis after two weeks to verify the placement modifiers hold up.",
}

// Static always returns the fixed recommendation set.
type Static struct{}

// Recommend implements Advisor.
func (Static) Recommend(context.Context, *model.OptimizationResult, model.ClientConfig) []string {
	return fallbackRecommendations
}

// Anthropic generates recommendations with a Claude model.
type Anthropic struct {
	client  anthropic.Client
	model   string
	timeout time.Duration
}

// NewAnthropic creates an Anthropic-backed advisor.
func NewAnthropic(client anthropic.Client, modelID string, timeout time.Duration) *Anthropic {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Anthropic{client: client, model: modelID, timeout: timeout}
}

const systemPrompt = "You are an Amazon PPC optimization expert assistant, providing highly specific and data-driven recommendations based on automated changes."

// Recommend summarizes the result into a prompt and asks the model for
// actionable next steps. Any error logs a warning and yields the fallback
// set; the numeric result is never affected.
func (a *Anthropic) Recommend(ctx context.Context, result *model.OptimizationResult, client model.ClientConfig) []string {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	temp := 0.2
	resp, err := a.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       a.model,
		MaxTokens:   1024,
		System:      systemPrompt,
		Temperature: &temp,
		Messages: []anthropic.Message{
			{Role: "user", Content: buildPrompt(result, client)},
		},
	})
	if err != nil {
		zap.L().Warn("advisor: generation failed, using fallback recommendations", zap.Error(err))
		return fallbackRecommendations
	}

	recs := parseRecommendations(resp.Text)
	if len(recs) == 0 {
		zap.L().Warn("advisor: empty generation, using fallback recommendations")
		return fallbackRecommendations
	}
	return recs
}

// buildPrompt renders the run statistics and a few concrete examples of the
// automated changes into the instruction prompt.
func buildPrompt(result *model.OptimizationResult, client model.ClientConfig) string {
	var b strings.Builder

	s := result.Summary
	fmt.Fprintf(&b, "Client configuration:\n")
	fmt.Fprintf(&b, "- Market leader: %t\n", client.IsMarketLeader)
	fmt.Fprintf(&b, "- Large inventory: %t\n", client.HasLargeInventory)
	fmt.Fprintf(&b, "- Target ACOS: %.1f%%\n\n", client.ResolvedTargetACOS()*100)

	fmt.Fprintf(&b, "Automated optimization summary:\n")
	fmt.Fprintf(&b, "- Keywords analyzed: %d\n", s.TotalKeywords)
	fmt.Fprintf(&b, "- Keywords paused: %d\n", s.KeywordsToPause)
	fmt.Fprintf(&b, "- Keywords kept: %d\n", s.KeywordsToKeep)
	fmt.Fprintf(&b, "- Bids adjusted: %d (increased: %d avg %+.1f%%, decreased: %d avg %+.1f%%)\n",
		s.BidsToAdjust, s.BidsToIncrease, s.AvgBidIncrease, s.BidsToDecrease, s.AvgBidDecrease)
	fmt.Fprintf(&b, "- Estimated ACOS reduction: %.2f points\n", s.Impact.ProjectedACOSReduction)
	fmt.Fprintf(&b, "- Estimated cost saving: %.2f\n\n", s.Impact.CostSaving)

	if paused := pausedExamples(result.Keywords, 3); len(paused) > 0 {
		b.WriteString("Keywords paused (examples):\n")
		for _, line := range paused {
			b.WriteString(line + "\n")
		}
		b.WriteString("\n")
	}

	if changes := bidChangeExamples(result.Bids, 3); len(changes) > 0 {
		b.WriteString("Largest bid adjustments:\n")
		for _, line := range changes {
			b.WriteString(line + "\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("Based specifically on these automated changes, provide 3-5 highly specific, " +
		"actionable recommendations that build on them: what to review manually, what to monitor " +
		"after the bid changes, and how to leverage the best performers. Present the output as a " +
		"bulleted list without a generic introduction or conclusion.")

	return b.String()
}

func pausedExamples(decisions []model.KeywordDecision, limit int) []string {
	var out []string
	for _, d := range decisions {
		if d.Action != model.ActionPause {
			continue
		}
		out = append(out, fmt.Sprintf("- %q (ACOS %s, %d clicks): %s",
			d.Keyword, d.Metrics.ACOS.FormatPct(), d.Metrics.Clicks, d.Reason))
		if len(out) == limit {
			break
		}
	}
	return out
}

func bidChangeExamples(bids []model.BidChange, limit int) []string {
	sorted := make([]model.BidChange, len(bids))
	copy(sorted, bids)
	sort.SliceStable(sorted, func(i, j int) bool {
		return abs(sorted[i].ChangePct) > abs(sorted[j].ChangePct)
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}

	var out []string
	for _, bc := range sorted {
		direction := "increased"
		if bc.ChangePct < 0 {
			direction = "decreased"
		}
		out = append(out, fmt.Sprintf("- bid for %q %s by %.1f%% to %.2f: %s",
			bc.Keyword, direction, abs(bc.ChangePct), bc.NewBid, bc.Reason))
	}
	return out
}

// parseRecommendations splits the model output into one recommendation per
// line, stripping bullet markers.
func parseRecommendations(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimLeft(strings.TrimSpace(line), "•-* ")
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
