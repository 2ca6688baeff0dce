package scoring

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/donorlens/leverage-cli/internal/model"
)

const (
	saturationFloor = 0.05
	saturationCeil  = 1.0

	// Unparseable federal races assume a mid-size race's worth of money.
	assumedReceipts = 10_000_000

	// FEC coverage starts being reliable at the 2018 cycle.
	earliestCycle = 2018
	fallbackCycle = 2024
)

// SaturationEstimator scores how much money and attention a race has already
// absorbed. The branch is chosen by race level, not by fallback.
type SaturationEstimator struct {
	finance FinanceProvider
}

// NewSaturationEstimator builds the estimator. A nil finance provider makes
// every federal race take the provider-error path.
func NewSaturationEstimator(finance FinanceProvider) *SaturationEstimator {
	return &SaturationEstimator{finance: finance}
}

// Estimate returns a saturation result for the race. Quality `none` means no
// signal exists; the aggregator substitutes a neutral default.
func (e *SaturationEstimator) Estimate(ctx context.Context, in Input) model.FactorResult {
	if in.Race.Level == model.LevelFederal {
		return e.estimateFEC(ctx, in)
	}
	if in.Market != nil && in.Market.HasOutcomes() {
		return estimateMarketProxy(in.Market)
	}
	return model.FactorResult{
		Method:   "none",
		Quality:  model.QualityNone,
		Warnings: []string{"no saturation data available - market not found"},
	}
}

// estimateFEC computes saturation from total campaign receipts. More money
// raised means a more saturated race and a lower score.
func (e *SaturationEstimator) estimateFEC(ctx context.Context, in Input) model.FactorResult {
	res := model.FactorResult{Method: "fec", Quality: model.QualityHigh}

	if !in.Identifier.Parseable() {
		res.Quality = model.QualityLow
		res.Warnings = append(res.Warnings, "could not parse race name")
		res.Score = clamp(1/math.Log(1+assumedReceipts), saturationFloor, saturationCeil)
		return res
	}

	cycle := FECCycle(in.Race.ElectionYear(), in.Now)

	var receipts float64
	var err error
	if e.finance == nil {
		err = eris.New("no campaign finance provider configured")
	} else {
		receipts, err = e.finance.TotalReceipts(ctx, in.Identifier, cycle)
	}
	if err != nil {
		zap.L().Warn("campaign finance lookup failed",
			zap.String("race", in.Race.Name), zap.Int("cycle", cycle), zap.Error(err))
		res.Quality = model.QualityNone
		res.Warnings = append(res.Warnings, fmt.Sprintf("campaign finance provider error: %v", err))
		res.Score = 0.5
		return res
	}

	if receipts == 0 {
		// Legitimate "no fundraising yet", distinct from the error path.
		if cycle > in.Now.Year() {
			res.Quality = model.QualityLow
			res.Warnings = append(res.Warnings, fmt.Sprintf("future cycle %d - data may not exist yet", cycle))
		}
		res.Warnings = append(res.Warnings, "no fundraising data found - may indicate no candidates or incomplete data")
		res.Score = 1.0
		return res
	}

	res.Score = FECSaturation(receipts)
	zap.L().Debug("fec saturation",
		zap.String("race", in.Race.Name),
		zap.Int("cycle", cycle),
		zap.Float64("receipts", receipts),
		zap.Float64("score", res.Score),
	)
	return res
}

// FECSaturation maps total receipts to a saturation score: 1/ln(1+receipts),
// clamped to [0.05, 1.0]. Zero receipts returns exactly 1.0.
func FECSaturation(totalReceipts float64) float64 {
	if totalReceipts <= 0 {
		return 1.0
	}
	return clamp(1/math.Log(1+totalReceipts), saturationFloor, saturationCeil)
}

// estimateMarketProxy uses the leading outcome's bid-ask spread and series
// volume as a stand-in for campaign finance data: wide spreads on thin
// volume mean an under-attended race.
func estimateMarketProxy(market *model.MarketCandidate) model.FactorResult {
	res := model.FactorResult{
		Method: "kalshi_proxy",
		Warnings: []string{
			"market volume/spread used as proxy for campaign finance data",
		},
	}

	spread := leadingSpread(market.Outcomes)
	res.Score = MarketProxySaturation(market.Volume, spread)

	switch {
	case market.Volume < 10:
		res.Quality = model.QualityLow
		res.Warnings = append(res.Warnings, "very low market volume")
	case market.Volume < 100:
		res.Quality = model.QualityMedium
	default:
		res.Quality = model.QualityHigh
	}
	return res
}

// MarketProxySaturation computes ln(1+spread)/ln(1+volume) with both inputs
// floored to avoid degenerate logs, clamped to [0.05, 1.0].
func MarketProxySaturation(volume, spread float64) float64 {
	spread = math.Max(1, spread)
	volume = math.Max(2, volume)
	return clamp(math.Log(1+spread)/math.Log(1+volume), saturationFloor, saturationCeil)
}

// leadingSpread returns the bid-ask spread of the highest-priced outcome,
// floored at 1.
func leadingSpread(outcomes []model.OutcomeQuote) float64 {
	var quoted []model.OutcomeQuote
	for _, o := range outcomes {
		if _, ok := o.Price(); ok {
			quoted = append(quoted, o)
		}
	}
	if len(quoted) == 0 {
		return 1
	}
	sort.SliceStable(quoted, func(i, j int) bool {
		pi, _ := quoted[i].Price()
		pj, _ := quoted[j].Price()
		return pi > pj
	})
	return quoted[0].Spread()
}

// FECCycle derives the two-year reporting cycle for an election year. Cycles
// end in even years; a future cycle falls back to the most recent completed
// one, and anything before reliable coverage uses the fallback cycle.
func FECCycle(electionYear int, now time.Time) int {
	current := now.Year()
	y := electionYear
	if y == 0 {
		y = current
	}
	if y%2 == 1 {
		y--
	}
	if y > current {
		y = current
		if y%2 == 1 {
			y--
		}
	}
	if y < earliestCycle {
		y = fallbackCycle
	}
	return y
}
