package scoring

import (
	"context"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donorlens/leverage-cli/internal/model"
)

type fakeFinance struct {
	receipts float64
	err      error
	cycle    int
}

func (f *fakeFinance) TotalReceipts(_ context.Context, _ model.Identifier, cycle int) (float64, error) {
	f.cycle = cycle
	return f.receipts, f.err
}

func federalSatInput(day time.Time) Input {
	return Input{
		Race: model.Race{
			Name:        "U.S. Senate - Ohio",
			Level:       model.LevelFederal,
			ElectionDay: day,
		},
		Identifier: model.Identifier{Office: model.OfficeSenate, State: "OH"},
		Now:        time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestFECSaturation_Properties(t *testing.T) {
	assert.Equal(t, 1.0, FECSaturation(0))

	// Monotonically non-increasing, bounded to [0.05, 1.0].
	prev := 1.0
	for _, receipts := range []float64{1, 1000, 1_000_000, 10_000_000, 100_000_000} {
		s := FECSaturation(receipts)
		assert.LessOrEqual(t, s, prev)
		assert.GreaterOrEqual(t, s, 0.05)
		assert.LessOrEqual(t, s, 1.0)
		prev = s
	}
}

func TestSaturation_FederalUsesFEC(t *testing.T) {
	fin := &fakeFinance{receipts: 1_000_000}
	e := NewSaturationEstimator(fin)

	res := e.Estimate(context.Background(), federalSatInput(time.Date(2026, 11, 3, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "fec", res.Method)
	assert.Equal(t, model.QualityHigh, res.Quality)
	assert.InDelta(t, FECSaturation(1_000_000), res.Score, 1e-9)
	assert.Equal(t, 2026, fin.cycle)
}

func TestSaturation_ZeroReceiptsIsOpportunity(t *testing.T) {
	e := NewSaturationEstimator(&fakeFinance{receipts: 0})
	res := e.Estimate(context.Background(), federalSatInput(time.Date(2026, 11, 3, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 1.0, res.Score)
	assert.NotEmpty(t, res.Warnings)
	assert.Equal(t, model.QualityHigh, res.Quality)
}

func TestSaturation_ProviderErrorNeutral(t *testing.T) {
	e := NewSaturationEstimator(&fakeFinance{err: eris.New("rate limited")})
	res := e.Estimate(context.Background(), federalSatInput(time.Date(2026, 11, 3, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 0.5, res.Score)
	assert.Equal(t, model.QualityNone, res.Quality)
	assert.NotEmpty(t, res.Warnings)
}

func TestSaturation_UnparseableFederal(t *testing.T) {
	e := NewSaturationEstimator(&fakeFinance{receipts: 99})
	in := federalSatInput(time.Date(2026, 11, 3, 0, 0, 0, 0, time.UTC))
	in.Identifier = model.Identifier{}

	res := e.Estimate(context.Background(), in)
	assert.Equal(t, model.QualityLow, res.Quality)
	assert.Contains(t, res.Warnings, "could not parse race name")
	assert.InDelta(t, FECSaturation(assumedReceipts), res.Score, 1e-9)
}

func TestSaturation_StateWithMarketUsesProxy(t *testing.T) {
	e := NewSaturationEstimator(nil)
	in := Input{
		Race: model.Race{Name: "Governor - Texas", Level: model.LevelState},
		Market: &model.MarketCandidate{
			Volume:   500,
			Outcomes: []model.OutcomeQuote{{LastPrice: 60, YesBid: 58, YesAsk: 63}},
		},
	}

	res := e.Estimate(context.Background(), in)
	assert.Equal(t, "kalshi_proxy", res.Method)
	assert.Equal(t, model.QualityHigh, res.Quality)
	assert.InDelta(t, MarketProxySaturation(500, 5), res.Score, 1e-9)
}

func TestSaturation_ProxyQualityByVolume(t *testing.T) {
	e := NewSaturationEstimator(nil)
	mk := func(volume float64) Input {
		return Input{
			Race:   model.Race{Name: "Governor - Texas", Level: model.LevelState},
			Market: &model.MarketCandidate{Volume: volume, Outcomes: []model.OutcomeQuote{{LastPrice: 50}}},
		}
	}

	assert.Equal(t, model.QualityLow, e.Estimate(context.Background(), mk(5)).Quality)
	assert.Equal(t, model.QualityMedium, e.Estimate(context.Background(), mk(50)).Quality)
	assert.Equal(t, model.QualityHigh, e.Estimate(context.Background(), mk(5000)).Quality)
}

func TestSaturation_StateWithoutMarketNone(t *testing.T) {
	e := NewSaturationEstimator(nil)
	res := e.Estimate(context.Background(), Input{
		Race: model.Race{Name: "State Senate - Ohio District 4", Level: model.LevelState},
	})
	assert.Equal(t, model.QualityNone, res.Quality)
	assert.Equal(t, "none", res.Method)
	assert.NotEmpty(t, res.Warnings)
}

func TestMarketProxySaturation_Bounds(t *testing.T) {
	for _, volume := range []float64{0, 1, 10, 100, 1e6} {
		for _, spread := range []float64{0, 1, 10, 99} {
			s := MarketProxySaturation(volume, spread)
			assert.GreaterOrEqual(t, s, 0.05)
			assert.LessOrEqual(t, s, 1.0)
		}
	}
	// Thin, wide markets score higher than deep, tight ones.
	assert.Greater(t,
		MarketProxySaturation(10, 20),
		MarketProxySaturation(100_000, 2),
	)
}

func TestFECCycle(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		year int
		want int
	}{
		{2026, 2026},
		{2025, 2024},
		{2024, 2024},
		{0, 2026},    // unknown year uses the current cycle
		{2030, 2026}, // future clamps to the most recent completed cycle
		{2012, 2024}, // before reliable coverage
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FECCycle(tc.year, now), "year %d", tc.year)
	}

	oddNow := time.Date(2027, 3, 1, 0, 0, 0, 0, time.UTC)
	require.Equal(t, 2026, FECCycle(2030, oddNow))
}
