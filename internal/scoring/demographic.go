package scoring

import (
	"context"
	"math"

	"go.uber.org/zap"

	"github.com/donorlens/leverage-cli/internal/model"
)

// DemographicStrategy derives competitiveness from state-aggregated county
// partisan ratios: the closer the average Democratic share sits to 50%, the
// more contested the state. Abstains when the state has no records.
type DemographicStrategy struct {
	provider RatioProvider
}

// NewDemographicStrategy builds the strategy. A nil provider always
// abstains.
func NewDemographicStrategy(provider RatioProvider) *DemographicStrategy {
	return &DemographicStrategy{provider: provider}
}

func (*DemographicStrategy) Name() string { return "demographic_proxy" }

func (s *DemographicStrategy) Estimate(ctx context.Context, in Input) (model.FactorResult, bool) {
	if s.provider == nil || in.Identifier.State == "" {
		return model.FactorResult{}, false
	}

	avg, counties, err := s.provider.AverageDemRatio(ctx, in.Identifier.State, in.Race.ElectionYear(), in.Identifier.Office)
	if err != nil {
		zap.L().Warn("demographic lookup failed",
			zap.String("state", in.Identifier.State), zap.Error(err))
		return model.FactorResult{}, false
	}
	if counties == 0 {
		return model.FactorResult{}, false
	}

	return model.FactorResult{
		Score:   clamp01(1 - math.Abs(0.5-avg)/0.5),
		Method:  "demographic_proxy",
		Quality: model.QualityMedium,
		Warnings: []string{
			"using state-level demographic data (not district-specific)",
		},
	}, true
}

// DefaultStrategy is the terminal fallback: a flat moderate score flagged as
// data-free. Never abstains.
type DefaultStrategy struct{}

func (DefaultStrategy) Name() string { return "default" }

func (DefaultStrategy) Estimate(context.Context, Input) (model.FactorResult, bool) {
	return model.FactorResult{
		Score:    0.5,
		Method:   "default",
		Quality:  model.QualityLow,
		Warnings: []string{"no competitiveness data available"},
	}, true
}

// CompetitivenessEstimator runs strategies in priority order; the first
// non-abstaining result wins.
type CompetitivenessEstimator struct {
	strategies []Strategy
}

// NewCompetitivenessEstimator builds the cascade in the given order. The
// default strategy is always appended as a terminal catch-all.
func NewCompetitivenessEstimator(strategies ...Strategy) *CompetitivenessEstimator {
	return &CompetitivenessEstimator{strategies: append(strategies, DefaultStrategy{})}
}

// Estimate never fails: the terminal default guarantees a result.
func (e *CompetitivenessEstimator) Estimate(ctx context.Context, in Input) model.FactorResult {
	for _, s := range e.strategies {
		if res, ok := s.Estimate(ctx, in); ok {
			zap.L().Debug("competitiveness estimated",
				zap.String("race", in.Race.Name),
				zap.String("method", s.Name()),
				zap.Float64("score", res.Score),
				zap.String("quality", string(res.Quality)),
			)
			return res
		}
	}
	// Unreachable: DefaultStrategy never abstains.
	return model.FactorResult{Score: 0.5, Method: "default", Quality: model.QualityLow}
}
