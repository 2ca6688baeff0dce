package scoring

import (
	"context"
	"math"
	"sort"

	"github.com/donorlens/leverage-cli/internal/model"
)

// Blend weights for the multi-outcome score. Entropy considers every
// candidate; the gap term only the top two.
const (
	entropyWeight = 0.6
	gapWeight     = 0.4

	// Markets with more than this many outcomes get a vote-splitting bonus.
	crowdedFieldSize  = 3
	crowdedFieldBoost = 1.1
)

// MarketStrategy derives competitiveness from validated prediction-market
// prices. Abstains when the race has no validated market.
type MarketStrategy struct{}

func (MarketStrategy) Name() string { return "market_price" }

func (MarketStrategy) Estimate(_ context.Context, in Input) (model.FactorResult, bool) {
	if in.Market == nil || !in.Market.HasOutcomes() {
		return model.FactorResult{}, false
	}

	res := model.FactorResult{
		Method:  "market_price",
		Quality: volumeQuality(in.Market.Volume),
	}
	if res.Quality == model.QualityLow {
		res.Warnings = append(res.Warnings, "low market volume - competitiveness may be unreliable")
	}
	if in.Match != nil {
		res.Warnings = append(res.Warnings, in.Match.Warnings...)
	}

	if len(in.Market.Outcomes) <= 2 {
		price, ok := in.Market.Outcomes[0].Price()
		if !ok {
			res.Score = 0.5
			res.Warnings = append(res.Warnings, "no usable market price")
			return res, true
		}
		res.Score = BinaryCompetitiveness(price)
		return res, true
	}

	score, warnings := multiOutcomeCompetitiveness(in.Market.Outcomes)
	res.Score = score
	res.Warnings = append(res.Warnings, warnings...)
	return res, true
}

// BinaryCompetitiveness scores a two-outcome market: maximal at a 50/50
// price, zero at the extremes. Price is in cents and clamped to [1,99].
func BinaryCompetitiveness(price float64) float64 {
	price = clamp(price, 1, 99)
	return 1 - math.Abs(price-50)/50
}

// multiOutcomeCompetitiveness blends normalized Shannon entropy of the
// price-derived probability vector with the gap between the top two prices.
func multiOutcomeCompetitiveness(outcomes []model.OutcomeQuote) (float64, []string) {
	var prices []float64
	for _, o := range outcomes {
		if p, ok := o.Price(); ok {
			prices = append(prices, clamp(p, 0.01, 99))
		}
	}

	switch len(prices) {
	case 0:
		return 0.5, []string{"no usable market prices"}
	case 1:
		// One quoted candidate: the more favored they are, the less
		// competitive the field.
		return clamp(1-prices[0]/100, 0.1, 0.9), []string{"single price quote - rough estimate"}
	}

	total := 0.0
	for _, p := range prices {
		total += p
	}

	entropy := 0.0
	for _, p := range prices {
		q := p / total
		if q > 0 {
			entropy -= q * math.Log(q)
		}
	}
	entropyScore := entropy / math.Log(float64(len(prices)))

	sorted := append([]float64(nil), prices...)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))
	gapScore := clamp01(1 - (sorted[0]-sorted[1])/100)

	score := entropyWeight*entropyScore + gapWeight*gapScore
	if len(outcomes) > crowdedFieldSize {
		score = math.Min(1.0, score*crowdedFieldBoost)
	}
	return clamp01(score), nil
}

func volumeQuality(volume float64) model.Quality {
	switch {
	case volume < 10:
		return model.QualityLow
	case volume < 100:
		return model.QualityMedium
	default:
		return model.QualityHigh
	}
}
