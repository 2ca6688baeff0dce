// Package pipeline orchestrates the full scoring run: market lookup,
// competitiveness and saturation estimation, monetary classification, and
// final ranking.
package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/donorlens/leverage-cli/internal/match"
	"github.com/donorlens/leverage-cli/internal/model"
	"github.com/donorlens/leverage-cli/internal/monetary"
	"github.com/donorlens/leverage-cli/internal/parse"
	"github.com/donorlens/leverage-cli/internal/scoring"
	"github.com/donorlens/leverage-cli/internal/store"
)

const (
	defaultBatchSize = 10
	defaultWorkers   = 4
)

// MarketSearcher is the prediction-market search capability.
type MarketSearcher interface {
	SearchSeries(ctx context.Context, query string) ([]model.MarketCandidate, error)
}

// Options tune the monetary classification batching.
type Options struct {
	BatchSize int // races per classification request
	Workers   int // concurrent classification batches
}

// Pipeline wires the estimators together. Any collaborator may be nil; the
// affected strategies degrade or abstain.
type Pipeline struct {
	markets  MarketSearcher
	comp     *scoring.CompetitivenessEstimator
	sat      *scoring.SaturationEstimator
	agg      *scoring.Aggregator
	monetary *monetary.Estimator
	runs     store.Store
	opts     Options
	now      func() time.Time
}

// New builds a pipeline.
func New(markets MarketSearcher, comp *scoring.CompetitivenessEstimator, sat *scoring.SaturationEstimator, agg *scoring.Aggregator, mon *monetary.Estimator, runs store.Store, opts Options) *Pipeline {
	if opts.BatchSize <= 0 {
		opts.BatchSize = defaultBatchSize
	}
	if opts.Workers <= 0 {
		opts.Workers = defaultWorkers
	}
	return &Pipeline{
		markets:  markets,
		comp:     comp,
		sat:      sat,
		agg:      agg,
		monetary: mon,
		runs:     runs,
		opts:     opts,
		now:      time.Now,
	}
}

// WithNow sets a fixed clock for testing.
func (p *Pipeline) WithNow(t time.Time) *Pipeline {
	p.now = func() time.Time { return t }
	return p
}

// ScoreRaces scores every race and returns the list ranked by leverage
// descending, ties in fetch order. One race's provider failure never aborts
// the batch; degraded paths surface as warnings on that race's result.
func (p *Pipeline) ScoreRaces(ctx context.Context, races []model.Race, donationAmount float64) ([]model.LeverageScore, error) {
	now := p.now()
	runID := uuid.New().String()
	log := zap.L().With(zap.String("run_id", runID))
	log.Info("scoring run started",
		zap.Int("races", len(races)),
		zap.Float64("donation_amount", donationAmount),
	)

	var run *model.ScoringRun
	if p.runs != nil {
		var err error
		run, err = p.runs.CreateRun(ctx, donationAmount, len(races))
		if err != nil {
			log.Warn("run record not created", zap.Error(err))
			run = nil
		}
	}

	inputs := make([]scoring.Input, len(races))
	comps := make([]model.FactorResult, len(races))
	sats := make([]model.FactorResult, len(races))
	for i, race := range races {
		in := scoring.Input{
			Race:       race,
			Identifier: parse.RaceName(race.Name),
			Now:        now,
		}
		p.attachMarket(ctx, &in, log)
		inputs[i] = in
		comps[i] = p.comp.Estimate(ctx, in)
		sats[i] = p.sat.Estimate(ctx, in)
	}

	estimates := p.estimateMonetary(ctx, races, donationAmount)

	scores := make([]model.LeverageScore, len(races))
	for i := range races {
		var mon *model.MonetaryEstimate
		if estimates != nil {
			m := estimates[i]
			mon = &m
		}
		scores[i] = p.agg.Score(inputs[i], comps[i], sats[i], mon)
	}
	scoring.Rank(scores)

	if run != nil {
		if err := p.runs.CompleteRun(ctx, run.ID, scores); err != nil {
			log.Warn("run record not completed", zap.Error(err))
		}
	}
	log.Info("scoring run complete", zap.Int("scored", len(scores)))
	return scores, nil
}

// attachMarket searches the prediction market for the race and attaches the
// best validated series, if any. Failures leave the input market-less.
func (p *Pipeline) attachMarket(ctx context.Context, in *scoring.Input, log *zap.Logger) {
	if p.markets == nil || !in.Identifier.Parseable() {
		return
	}

	query := match.CleanQuery(in.Race.Name)
	candidates, err := p.markets.SearchSeries(ctx, query)
	if err != nil {
		log.Warn("market search failed",
			zap.String("race", in.Race.Name), zap.String("query", query), zap.Error(err))
		return
	}

	idx, result := match.Best(in.Identifier, in.Race.ElectionYear(), candidates)
	if idx < 0 || !result.Valid {
		return
	}
	mc := candidates[idx]
	in.Market = &mc
	in.Match = &result
}

// estimateMonetary classifies races in bounded concurrent batches. Returns
// nil when no estimator is configured.
func (p *Pipeline) estimateMonetary(ctx context.Context, races []model.Race, donationAmount float64) []model.MonetaryEstimate {
	if p.monetary == nil || len(races) == 0 {
		return nil
	}

	out := make([]model.MonetaryEstimate, len(races))
	var mu sync.Mutex

	var g errgroup.Group
	g.SetLimit(p.opts.Workers)
	for lo := 0; lo < len(races); lo += p.opts.BatchSize {
		hi := lo + p.opts.BatchSize
		if hi > len(races) {
			hi = len(races)
		}
		lo, hi := lo, hi
		g.Go(func() error {
			ests := p.monetary.EstimateBatch(ctx, races[lo:hi], donationAmount)
			mu.Lock()
			copy(out[lo:hi], ests)
			mu.Unlock()
			return nil
		})
	}
	// Batches never return errors; classification always degrades to rules.
	_ = g.Wait()
	return out
}
