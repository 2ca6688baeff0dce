package scoring

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/donorlens/leverage-cli/internal/model"
)

// neutralSaturation substitutes for races with no saturation signal. A
// neutral default keeps data-free races from outranking races with real
// signals.
const neutralSaturation = 0.5

// Aggregator combines per-race factor results into the final leverage score.
type Aggregator struct {
	weights Weights
}

// NewAggregator builds an aggregator with the given weights.
func NewAggregator(weights Weights) *Aggregator {
	return &Aggregator{weights: weights}
}

// Score assembles the final LeverageScore for one race:
//
//	leverage = competitiveness × saturation × impact × multiplier × boost
//
// Missing saturation (quality none) is replaced by a neutral default with a
// warning. Elections far in the future get no boost and have their
// competitiveness quality downgraded.
func (a *Aggregator) Score(in Input, comp, sat model.FactorResult, monetary *model.MonetaryEstimate) model.LeverageScore {
	impact := a.weights.Impact.Other
	if in.Race.Level == model.LevelFederal {
		impact = a.weights.Impact.Federal
	}

	satScore := sat.Score
	if sat.Quality == model.QualityNone {
		satScore = neutralSaturation
		sat.Warnings = append(sat.Warnings, "using default saturation (no data available)")
	}

	boost := 1.0
	priority := model.PriorityUnknown
	if days, known := in.Race.DaysUntil(in.Now); known && days >= 0 {
		switch {
		case days <= a.weights.Time.ImmediateDays:
			boost = a.weights.Time.ImmediateBoost
			priority = model.PriorityImmediate
		case days <= a.weights.Time.NearTermDays:
			boost = a.weights.Time.NearTermBoost
			priority = model.PriorityNearTerm
		case days > a.weights.Time.DistantDays:
			priority = model.PriorityLongTerm
			comp.Warnings = append(comp.Warnings,
				fmt.Sprintf("election is %d days away - data may be incomplete", days))
			if comp.Quality.Better(model.QualityLow) {
				comp.Quality = model.QualityLow
			}
		default:
			priority = model.PriorityMedium
		}
	}

	leverage := comp.Score * satScore * impact
	if monetary != nil {
		leverage *= monetary.Multiplier
	}
	leverage *= boost

	score := model.LeverageScore{
		Race:            in.Race,
		Identifier:      in.Identifier,
		Competitiveness: comp,
		Saturation:      sat,
		ImpactWeight:    impact,
		TimeBoost:       boost,
		TimePriority:    priority,
		Monetary:        monetary,
		MarketMatch:     in.Match,
		Leverage:        leverage,
	}

	zap.L().Debug("leverage scored",
		zap.String("race", in.Race.Name),
		zap.Float64("competitiveness", comp.Score),
		zap.Float64("saturation", satScore),
		zap.Float64("impact", impact),
		zap.Float64("boost", boost),
		zap.Float64("leverage", leverage),
	)
	return score
}

// Rank sorts scores by leverage descending. The sort is stable: ties keep
// their fetch order.
func Rank(scores []model.LeverageScore) {
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Leverage > scores[j].Leverage
	})
}
