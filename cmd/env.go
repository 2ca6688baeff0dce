package main

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/donorlens/leverage-cli/internal/demographics"
	"github.com/donorlens/leverage-cli/internal/monetary"
	"github.com/donorlens/leverage-cli/internal/pipeline"
	"github.com/donorlens/leverage-cli/internal/scoring"
	"github.com/donorlens/leverage-cli/internal/store"
	"github.com/donorlens/leverage-cli/pkg/anthropic"
	"github.com/donorlens/leverage-cli/pkg/civicengine"
	"github.com/donorlens/leverage-cli/pkg/fec"
	"github.com/donorlens/leverage-cli/pkg/kalshi"
)

// env bundles the wired pipeline and the clients commands need directly.
type env struct {
	Store     *store.SQLiteStore
	Pipeline  *pipeline.Pipeline
	Elections *civicengine.Client

	pg *pgxpool.Pool
}

// Close releases the env's connections.
func (e *env) Close() {
	if e.pg != nil {
		e.pg.Close()
	}
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

// initStore opens the local run/cache database.
func initStore(ctx context.Context) (*store.SQLiteStore, error) {
	st, err := store.NewSQLite(cfg.Store.Path)
	if err != nil {
		return nil, eris.Wrap(err, "open store")
	}
	return st, nil
}

// initPipeline wires every provider the configuration names. Missing
// optional keys leave the corresponding estimator degraded rather than
// failing startup; only the election data token is mandatory, and
// Validate enforces that before this runs.
func initPipeline(ctx context.Context) (*env, error) {
	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	e := &env{Store: st}

	e.Elections = civicengine.NewClient(cfg.CivicEngine.Token,
		civicengine.WithEndpoint(cfg.CivicEngine.Endpoint))

	markets := kalshi.NewClient(kalshi.WithBaseURL(cfg.Kalshi.BaseURL))

	// Interfaces stay nil unless a real client backs them, so strategies
	// see "no provider" instead of a typed-nil value.
	var fecClient *fec.Client
	var finance scoring.FinanceProvider
	if cfg.FEC.Key != "" {
		fecClient = fec.NewClient(cfg.FEC.Key, fec.WithBaseURL(cfg.FEC.BaseURL))
		finance = fecClient
	} else {
		zap.L().Info("no FEC key configured; federal saturation degrades to neutral")
	}

	weights := scoring.DefaultWeights()
	if cfg.Scoring.WeightsFile != "" {
		weights, err = scoring.LoadWeights(cfg.Scoring.WeightsFile)
		if err != nil {
			e.Close()
			return nil, eris.Wrap(err, "load weights")
		}
	}

	strategies := []scoring.Strategy{scoring.MarketStrategy{}}
	history := pipeline.NewHistorySource(e.Elections, fecClient)
	strategies = append(strategies, scoring.NewHistoricalStrategy(history, weights.Historical, cfg.Scoring.YearsBack))

	if cfg.Database.URL != "" {
		pool, err := pgxpool.New(ctx, cfg.Database.URL)
		if err != nil {
			e.Close()
			return nil, eris.Wrap(err, "connect demographics database")
		}
		e.pg = pool
		strategies = append(strategies, scoring.NewDemographicStrategy(demographics.NewStore(pool)))
	} else {
		zap.L().Info("no demographics database configured; proxy strategy disabled")
	}

	var llm anthropic.Client
	if cfg.Anthropic.Key != "" {
		llm = anthropic.NewClient(cfg.Anthropic.Key)
	} else {
		zap.L().Info("no Anthropic key configured; monetary classification uses rules only")
	}
	mon := monetary.NewEstimator(monetary.NewLLMClassifier(llm, cfg.Anthropic.Model), st)

	comp := scoring.NewCompetitivenessEstimator(strategies...)
	sat := scoring.NewSaturationEstimator(finance)
	agg := scoring.NewAggregator(weights)

	e.Pipeline = pipeline.New(markets, comp, sat, agg, mon, st, pipeline.Options{
		BatchSize: cfg.Scoring.BatchSize,
		Workers:   cfg.Scoring.Workers,
	})
	return e, nil
}
