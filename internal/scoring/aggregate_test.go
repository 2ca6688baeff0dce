package scoring

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donorlens/leverage-cli/internal/model"
)

type fakeRatios struct {
	avg      float64
	counties int
	err      error
}

func (f fakeRatios) AverageDemRatio(context.Context, string, int, model.Office) (float64, int, error) {
	return f.avg, f.counties, f.err
}

func TestDemographic_ScoreFromRatio(t *testing.T) {
	s := NewDemographicStrategy(fakeRatios{avg: 0.5, counties: 88})
	res, ok := s.Estimate(context.Background(), federalInput())
	require.True(t, ok)
	assert.Equal(t, 1.0, res.Score)
	assert.Equal(t, "demographic_proxy", res.Method)
	assert.Equal(t, model.QualityMedium, res.Quality)

	lopsided := NewDemographicStrategy(fakeRatios{avg: 0.8, counties: 88})
	res, ok = lopsided.Estimate(context.Background(), federalInput())
	require.True(t, ok)
	assert.InDelta(t, 0.4, res.Score, 1e-9)
}

func TestDemographic_AbstainsWithoutData(t *testing.T) {
	_, ok := NewDemographicStrategy(fakeRatios{counties: 0}).Estimate(context.Background(), federalInput())
	assert.False(t, ok)

	_, ok = NewDemographicStrategy(nil).Estimate(context.Background(), federalInput())
	assert.False(t, ok)

	noState := federalInput()
	noState.Identifier.State = ""
	_, ok = NewDemographicStrategy(fakeRatios{avg: 0.5, counties: 10}).Estimate(context.Background(), noState)
	assert.False(t, ok)
}

func TestCompetitivenessCascade_FirstSuccessWins(t *testing.T) {
	e := NewCompetitivenessEstimator(
		MarketStrategy{},
		newHistorical([]PastWinner{{Year: 2024, Party: "DEM"}, {Year: 2022, Party: "REP"}}, nil),
	)

	// No market: historical wins.
	res := e.Estimate(context.Background(), federalInput())
	assert.Equal(t, "historical", res.Method)

	// Market present: market wins.
	in := federalInput()
	in.Market = &model.MarketCandidate{Volume: 500, Outcomes: []model.OutcomeQuote{{LastPrice: 50}}}
	res = e.Estimate(context.Background(), in)
	assert.Equal(t, "market_price", res.Method)
	assert.Equal(t, 1.0, res.Score)
}

func TestCompetitivenessCascade_FallsToDefault(t *testing.T) {
	e := NewCompetitivenessEstimator(
		MarketStrategy{},
		newHistorical(nil, nil),
		NewDemographicStrategy(fakeRatios{counties: 0}),
	)

	res := e.Estimate(context.Background(), federalInput())
	assert.Equal(t, "default", res.Method)
	assert.Equal(t, 0.5, res.Score)
	assert.Equal(t, model.QualityLow, res.Quality)
	assert.Contains(t, res.Warnings, "no competitiveness data available")
}

func aggNow() time.Time {
	return time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
}

func TestAggregate_FederalTossUpUnsaturated(t *testing.T) {
	// 50/50 market, $0 receipts: leverage = 1.0 × 1.0 × 1.0.
	a := NewAggregator(DefaultWeights())
	in := Input{
		Race:       model.Race{Name: "U.S. Senate - Ohio", Level: model.LevelFederal},
		Identifier: model.Identifier{Office: model.OfficeSenate, State: "OH"},
		Now:        aggNow(),
	}
	comp := model.FactorResult{Score: 1.0, Method: "market_price", Quality: model.QualityHigh}
	sat := model.FactorResult{Score: 1.0, Method: "fec", Quality: model.QualityHigh}

	score := a.Score(in, comp, sat, nil)
	assert.Equal(t, 1.0, score.Leverage)
	assert.Equal(t, 1.0, score.ImpactWeight)
	assert.Equal(t, 1.0, score.TimeBoost)
}

func TestAggregate_StateRaceAllDefaults(t *testing.T) {
	// No market, no history, no demographics: 0.5 × 0.5 × 0.8 = 0.2.
	a := NewAggregator(DefaultWeights())
	in := Input{
		Race: model.Race{Name: "State Senate - Ohio District 4", Level: model.LevelState},
		Now:  aggNow(),
	}
	comp := model.FactorResult{Score: 0.5, Method: "default", Quality: model.QualityLow}
	sat := model.FactorResult{Method: "none", Quality: model.QualityNone}

	score := a.Score(in, comp, sat, nil)
	assert.InDelta(t, 0.2, score.Leverage, 1e-9)
	assert.Equal(t, 0.8, score.ImpactWeight)
	assert.Contains(t, score.Saturation.Warnings, "using default saturation (no data available)")
}

func TestAggregate_TimeBoosts(t *testing.T) {
	a := NewAggregator(DefaultWeights())
	base := Input{
		Race: model.Race{Name: "U.S. Senate - Ohio", Level: model.LevelFederal},
		Now:  aggNow(),
	}
	comp := model.FactorResult{Score: 1.0, Quality: model.QualityHigh}
	sat := model.FactorResult{Score: 1.0, Quality: model.QualityHigh}

	within90 := base
	within90.Race.ElectionDay = aggNow().AddDate(0, 0, 60)
	s := a.Score(within90, comp, sat, nil)
	assert.InDelta(t, 1.10, s.Leverage, 1e-9)
	assert.Equal(t, model.PriorityImmediate, s.TimePriority)

	within180 := base
	within180.Race.ElectionDay = aggNow().AddDate(0, 0, 150)
	s = a.Score(within180, comp, sat, nil)
	assert.InDelta(t, 1.05, s.Leverage, 1e-9)
	assert.Equal(t, model.PriorityNearTerm, s.TimePriority)

	medium := base
	medium.Race.ElectionDay = aggNow().AddDate(0, 0, 400)
	s = a.Score(medium, comp, sat, nil)
	assert.InDelta(t, 1.0, s.Leverage, 1e-9)
	assert.Equal(t, model.PriorityMedium, s.TimePriority)
}

func TestAggregate_DistantElectionDowngraded(t *testing.T) {
	a := NewAggregator(DefaultWeights())
	in := Input{
		Race: model.Race{
			Name:        "U.S. Senate - Ohio",
			Level:       model.LevelFederal,
			ElectionDay: aggNow().AddDate(0, 0, 900),
		},
		Now: aggNow(),
	}
	comp := model.FactorResult{Score: 0.9, Quality: model.QualityHigh}
	sat := model.FactorResult{Score: 0.5, Quality: model.QualityHigh}

	s := a.Score(in, comp, sat, nil)
	assert.Equal(t, model.PriorityLongTerm, s.TimePriority)
	assert.Equal(t, 1.0, s.TimeBoost)
	assert.Equal(t, model.QualityLow, s.Competitiveness.Quality)
	require.NotEmpty(t, s.Competitiveness.Warnings)
	assert.Contains(t, s.Competitiveness.Warnings[0], "days away")
}

func TestAggregate_MonetaryMultiplierApplied(t *testing.T) {
	a := NewAggregator(DefaultWeights())
	in := Input{
		Race: model.Race{Name: "U.S. Senate - Ohio", Level: model.LevelFederal},
		Now:  aggNow(),
	}
	comp := model.FactorResult{Score: 0.5, Quality: model.QualityHigh}
	sat := model.FactorResult{Score: 0.5, Quality: model.QualityHigh}
	mon := &model.MonetaryEstimate{Category: "competitive_senate", Multiplier: 2.0}

	s := a.Score(in, comp, sat, mon)
	assert.InDelta(t, 0.5, s.Leverage, 1e-9)
	assert.Same(t, mon, s.Monetary)
}

func TestAggregate_PastElectionNoBoost(t *testing.T) {
	a := NewAggregator(DefaultWeights())
	in := Input{
		Race: model.Race{
			Name:        "U.S. Senate - Ohio",
			Level:       model.LevelFederal,
			ElectionDay: aggNow().AddDate(0, 0, -30),
		},
		Now: aggNow(),
	}
	s := a.Score(in, model.FactorResult{Score: 1, Quality: model.QualityHigh},
		model.FactorResult{Score: 1, Quality: model.QualityHigh}, nil)
	assert.Equal(t, 1.0, s.TimeBoost)
	assert.Equal(t, model.PriorityUnknown, s.TimePriority)
}

func TestRank_StableDescending(t *testing.T) {
	scores := []model.LeverageScore{
		{Race: model.Race{Name: "a"}, Leverage: 0.5},
		{Race: model.Race{Name: "b"}, Leverage: 0.9},
		{Race: model.Race{Name: "c"}, Leverage: 0.5},
		{Race: model.Race{Name: "d"}, Leverage: 0.2},
	}
	Rank(scores)

	assert.Equal(t, "b", scores[0].Race.Name)
	// Ties keep fetch order: a before c.
	assert.Equal(t, "a", scores[1].Race.Name)
	assert.Equal(t, "c", scores[2].Race.Name)
	assert.Equal(t, "d", scores[3].Race.Name)
}
