package scoring

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donorlens/leverage-cli/internal/model"
)

func TestBinaryCompetitiveness(t *testing.T) {
	assert.Equal(t, 1.0, BinaryCompetitiveness(50))

	// Monotonically decreasing away from 50, clamped at the extremes.
	assert.Greater(t, BinaryCompetitiveness(55), BinaryCompetitiveness(70))
	assert.Greater(t, BinaryCompetitiveness(45), BinaryCompetitiveness(30))
	assert.Equal(t, BinaryCompetitiveness(1), BinaryCompetitiveness(-20))
	assert.Equal(t, BinaryCompetitiveness(99), BinaryCompetitiveness(150))

	for p := 1.0; p <= 99; p++ {
		s := BinaryCompetitiveness(p)
		assert.GreaterOrEqual(t, s, 0.0)
		assert.LessOrEqual(t, s, 1.0)
	}
}

func marketInput(m *model.MarketCandidate) Input {
	return Input{
		Race:   model.Race{Name: "U.S. Senate - Ohio", Level: model.LevelFederal},
		Market: m,
	}
}

func TestMarketStrategy_AbstainsWithoutMarket(t *testing.T) {
	_, ok := MarketStrategy{}.Estimate(context.Background(), marketInput(nil))
	assert.False(t, ok)

	_, ok = MarketStrategy{}.Estimate(context.Background(), marketInput(&model.MarketCandidate{}))
	assert.False(t, ok)
}

func TestMarketStrategy_BinaryTossUp(t *testing.T) {
	res, ok := MarketStrategy{}.Estimate(context.Background(), marketInput(&model.MarketCandidate{
		Volume: 5000,
		Outcomes: []model.OutcomeQuote{
			{LastPrice: 50}, {LastPrice: 50},
		},
	}))
	require.True(t, ok)
	assert.Equal(t, 1.0, res.Score)
	assert.Equal(t, "market_price", res.Method)
	assert.Equal(t, model.QualityHigh, res.Quality)
}

func TestMarketStrategy_VolumeQualityTiers(t *testing.T) {
	low, _ := MarketStrategy{}.Estimate(context.Background(), marketInput(&model.MarketCandidate{
		Volume:   5,
		Outcomes: []model.OutcomeQuote{{LastPrice: 50}},
	}))
	assert.Equal(t, model.QualityLow, low.Quality)
	assert.NotEmpty(t, low.Warnings)

	med, _ := MarketStrategy{}.Estimate(context.Background(), marketInput(&model.MarketCandidate{
		Volume:   50,
		Outcomes: []model.OutcomeQuote{{LastPrice: 50}},
	}))
	assert.Equal(t, model.QualityMedium, med.Quality)
}

func TestMarketStrategy_BinaryNoPrice(t *testing.T) {
	res, ok := MarketStrategy{}.Estimate(context.Background(), marketInput(&model.MarketCandidate{
		Volume:   500,
		Outcomes: []model.OutcomeQuote{{Ticker: "X"}},
	}))
	require.True(t, ok)
	assert.Equal(t, 0.5, res.Score)
	assert.Contains(t, res.Warnings, "no usable market price")
}

func TestMultiOutcome_EqualPricesMaxEntropy(t *testing.T) {
	score, warnings := multiOutcomeCompetitiveness([]model.OutcomeQuote{
		{LastPrice: 33}, {LastPrice: 33}, {LastPrice: 33},
	})
	assert.Empty(t, warnings)
	// Equal prices: entropy 1.0, gap 1.0.
	assert.InDelta(t, 1.0, score, 1e-9)
}

func TestMultiOutcome_DominantPriceLowScore(t *testing.T) {
	balanced, _ := multiOutcomeCompetitiveness([]model.OutcomeQuote{
		{LastPrice: 40}, {LastPrice: 35}, {LastPrice: 25},
	})
	lopsided, _ := multiOutcomeCompetitiveness([]model.OutcomeQuote{
		{LastPrice: 95}, {LastPrice: 3}, {LastPrice: 2},
	})
	assert.Greater(t, balanced, lopsided)
	assert.GreaterOrEqual(t, lopsided, 0.0)
	assert.LessOrEqual(t, balanced, 1.0)
}

func TestMultiOutcome_CrowdedFieldBoost(t *testing.T) {
	three, _ := multiOutcomeCompetitiveness([]model.OutcomeQuote{
		{LastPrice: 30}, {LastPrice: 30}, {LastPrice: 30},
	})
	four, _ := multiOutcomeCompetitiveness([]model.OutcomeQuote{
		{LastPrice: 25}, {LastPrice: 25}, {LastPrice: 25}, {LastPrice: 25},
	})
	// Both are perfectly even; the larger field is capped at 1.0, never above.
	assert.LessOrEqual(t, four, 1.0)
	assert.InDelta(t, 1.0, three, 1e-9)
}

func TestMultiOutcome_SinglePrice(t *testing.T) {
	score, warnings := multiOutcomeCompetitiveness([]model.OutcomeQuote{
		{LastPrice: 90}, {Ticker: "noquote"}, {Ticker: "noquote2"},
	})
	assert.InDelta(t, 0.1, score, 1e-9)
	assert.NotEmpty(t, warnings)

	underdog, _ := multiOutcomeCompetitiveness([]model.OutcomeQuote{
		{LastPrice: 5}, {Ticker: "noquote"}, {Ticker: "noquote2"},
	})
	assert.InDelta(t, 0.9, underdog, 1e-9)
}

func TestMultiOutcome_NoPrices(t *testing.T) {
	score, warnings := multiOutcomeCompetitiveness([]model.OutcomeQuote{
		{Ticker: "a"}, {Ticker: "b"}, {Ticker: "c"},
	})
	assert.Equal(t, 0.5, score)
	assert.NotEmpty(t, warnings)
}

func TestMarketStrategy_CarriesMatchWarnings(t *testing.T) {
	in := marketInput(&model.MarketCandidate{
		Volume:   500,
		Outcomes: []model.OutcomeQuote{{LastPrice: 60}},
	})
	in.Match = &model.MatchResult{Valid: true, Score: 0.7, Warnings: []string{"year mismatch"}}

	res, ok := MarketStrategy{}.Estimate(context.Background(), in)
	require.True(t, ok)
	assert.Contains(t, res.Warnings, "year mismatch")
}
