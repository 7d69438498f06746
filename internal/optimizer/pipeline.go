package optimizer

import (
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/ppc-cli/internal/model"
)

// Stage names the orchestrator states. Stages run strictly in order; a
// failure at any stage fails the whole run so partially-populated results
// are never returned.
type Stage string

const (
	StageStart            Stage = "start"
	StageKeywordsAnalyzed Stage = "keywords_analyzed"
	StageBidsAdjusted     Stage = "bids_adjusted"
	StageSummaryGenerated Stage = "summary_generated"
)

// Engine runs the optimization pipeline over one snapshot. An Engine holds
// no mutable state between runs, so a single Engine may serve concurrent
// runs as long as each run owns its snapshot.
type Engine struct {
	cfg RuleConfig
}

// New creates an Engine after validating the rule config.
func New(cfg RuleConfig) (*Engine, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg}, nil
}

// runState is the accumulating state threaded through the stages. Each stage
// reads only what prior stages produced and writes only its own output.
type runState struct {
	stage      Stage
	rows       []model.KeywordRow
	decisions  []model.KeywordDecision
	bids       []model.BidChange
	placements []model.PlacementAdjustment
	summary    model.Summary
}

// advance moves the state machine from one stage to the next, rejecting any
// out-of-order transition.
func (s *runState) advance(from, to Stage) error {
	if s.stage != from {
		return eris.Errorf("optimizer: illegal stage transition %s -> %s (current stage %s)", from, to, s.stage)
	}
	s.stage = to
	return nil
}

// Run executes the full pipeline: normalize -> classify -> adjust bids ->
// adjust placements -> estimate impact -> assemble result. The snapshot is
// treated as immutable input.
func (e *Engine) Run(snapshot model.Snapshot) (*model.OptimizationResult, error) {
	if len(snapshot.Keywords) == 0 {
		return nil, eris.New("optimizer: snapshot has no keyword rows")
	}

	state := &runState{stage: StageStart}

	// Stage 1: normalize metrics and classify keywords.
	state.rows = NormalizeKeywords(snapshot.Keywords)
	state.decisions = ClassifyKeywords(state.rows, e.cfg)
	if err := state.advance(StageStart, StageKeywordsAnalyzed); err != nil {
		return nil, err
	}

	// Stage 2: bid adjustment for surviving keywords.
	state.bids = AdjustBids(state.rows, state.decisions, e.cfg)
	if err := state.advance(StageKeywordsAnalyzed, StageBidsAdjusted); err != nil {
		return nil, err
	}

	// Stage 3: placement reallocation (independent of keyword decisions)
	// plus the summary and impact estimates.
	state.placements = AdjustPlacements(snapshot.Placements, e.cfg.TargetACOS)
	state.summary = buildSummary(state.rows, state.decisions, state.bids)
	if err := state.advance(StageBidsAdjusted, StageSummaryGenerated); err != nil {
		return nil, err
	}

	zap.L().Info("optimizer: run complete",
		zap.Int("keywords", state.summary.TotalKeywords),
		zap.Int("paused", state.summary.KeywordsToPause),
		zap.Int("bid_changes", state.summary.BidsToAdjust),
		zap.Int("placement_rows", len(state.placements)),
	)

	return &model.OptimizationResult{
		Keywords:   state.decisions,
		Bids:       state.bids,
		Placements: state.placements,
		Summary:    state.summary,
	}, nil
}

func buildSummary(rows []model.KeywordRow, decisions []model.KeywordDecision, bids []model.BidChange) model.Summary {
	s := model.Summary{
		TotalKeywords: len(rows),
		BidsToAdjust:  len(bids),
	}

	var pauseACOSSum float64
	var pauseACOSCount int
	for _, d := range decisions {
		switch d.Action {
		case model.ActionPause:
			s.KeywordsToPause++
			if d.Metrics.ACOS.IsKnown() {
				pauseACOSSum += d.Metrics.ACOS.Value() * 100
				pauseACOSCount++
			}
		case model.ActionKeep:
			s.KeywordsToKeep++
		}
	}
	if pauseACOSCount > 0 {
		s.AvgPauseACOS = pauseACOSSum / float64(pauseACOSCount)
	}

	var incSum, decSum float64
	for _, b := range bids {
		if b.ChangePct > 0 {
			s.BidsToIncrease++
			incSum += b.ChangePct
		} else if b.ChangePct < 0 {
			s.BidsToDecrease++
			decSum += b.ChangePct
		}
	}
	if s.BidsToIncrease > 0 {
		s.AvgBidIncrease = incSum / float64(s.BidsToIncrease)
	}
	if s.BidsToDecrease > 0 {
		s.AvgBidDecrease = decSum / float64(s.BidsToDecrease)
	}

	s.Impact = EstimateImpact(rows, decisions, bids)
	return s
}
