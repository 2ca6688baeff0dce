package scoring

import (
	"context"

	"go.uber.org/zap"

	"github.com/donorlens/leverage-cli/internal/model"
)

// defaultYearsBack bounds the historical lookback window.
const defaultYearsBack = 6

// HistoricalStrategy derives competitiveness from party consistency across
// past general elections for the same seat. Abstains when no past elections
// can be found.
type HistoricalStrategy struct {
	provider  HistoryProvider
	weights   HistoricalWeights
	yearsBack int
}

// NewHistoricalStrategy builds the strategy. yearsBack <= 0 uses the default
// lookback window.
func NewHistoricalStrategy(provider HistoryProvider, weights HistoricalWeights, yearsBack int) *HistoricalStrategy {
	if yearsBack <= 0 {
		yearsBack = defaultYearsBack
	}
	return &HistoricalStrategy{provider: provider, weights: weights, yearsBack: yearsBack}
}

func (*HistoricalStrategy) Name() string { return "historical" }

func (s *HistoricalStrategy) Estimate(ctx context.Context, in Input) (model.FactorResult, bool) {
	if s.provider == nil || !in.Identifier.Parseable() {
		return model.FactorResult{}, false
	}
	if in.Race.Level != model.LevelFederal && in.Race.Level != model.LevelState {
		return model.FactorResult{}, false
	}

	winners, err := s.provider.PastWinners(ctx, in.Race, in.Identifier, s.yearsBack)
	if err != nil {
		zap.L().Warn("historical lookup failed",
			zap.String("race", in.Race.Name), zap.Error(err))
		return model.FactorResult{}, false
	}
	if len(winners) == 0 {
		return model.FactorResult{}, false
	}

	var parties []string
	for _, w := range winners {
		if w.Party != "" {
			parties = append(parties, w.Party)
		}
	}

	res := model.FactorResult{Method: "historical"}
	if len(parties) == 0 {
		res.Score = 0.5
		res.Quality = model.QualityLow
		res.Warnings = append(res.Warnings, "no party information in historical results")
		return res, true
	}

	res.Score = s.classifyParties(parties)
	switch {
	case len(parties) >= 3:
		res.Quality = model.QualityHigh
	case len(parties) == 2:
		res.Quality = model.QualityMedium
	default:
		res.Quality = model.QualityLow
		res.Warnings = append(res.Warnings, "limited historical data - only one election cycle")
	}

	zap.L().Debug("historical competitiveness",
		zap.String("race", in.Race.Name),
		zap.Int("elections", len(parties)),
		zap.Float64("score", res.Score),
	)
	return res, true
}

// classifyParties maps the winning-party sequence (most recent first) onto a
// competitiveness score.
func (s *HistoricalStrategy) classifyParties(parties []string) float64 {
	unique := make(map[string]struct{}, len(parties))
	for _, p := range parties {
		unique[p] = struct{}{}
	}

	switch {
	case len(unique) == 1:
		return s.weights.SafeSeat
	case len(unique) >= 3:
		return s.weights.MultiParty
	}

	// Two parties: frequent swings between consecutive elections mean a
	// genuinely contested seat.
	transitions := 0
	for i := 1; i < len(parties); i++ {
		if parties[i] != parties[i-1] {
			transitions++
		}
	}
	ratio := float64(transitions) / float64(len(parties)-1)
	if ratio > s.weights.TransitionThreshold {
		return s.weights.TwoPartyAlternating
	}
	return s.weights.TwoPartyMixed
}
