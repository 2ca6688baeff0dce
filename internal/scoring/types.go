package scoring

import (
	"context"
	"time"

	"github.com/donorlens/leverage-cli/internal/model"
)

// Input is the per-race evidence available to the estimators. Market and
// Match are nil when no validated prediction market was found.
type Input struct {
	Race       model.Race
	Identifier model.Identifier
	Market     *model.MarketCandidate
	Match      *model.MatchResult
	Now        time.Time
}

// Strategy produces a competitiveness estimate or abstains. Abstaining
// (ok=false) hands the race to the next strategy in the cascade; it is not
// an error.
type Strategy interface {
	Name() string
	Estimate(ctx context.Context, in Input) (model.FactorResult, bool)
}

// PastWinner is one historical general-election result for a seat.
type PastWinner struct {
	Year  int
	Name  string
	Party string
}

// HistoryProvider supplies past general-election winners for a seat, most
// recent first.
type HistoryProvider interface {
	PastWinners(ctx context.Context, race model.Race, id model.Identifier, yearsBack int) ([]PastWinner, error)
}

// RatioProvider supplies state-aggregated Democratic vote-share ratios.
// counties == 0 signals no data for the state.
type RatioProvider interface {
	AverageDemRatio(ctx context.Context, state string, year int, office model.Office) (avg float64, counties int, err error)
}

// FinanceProvider supplies total campaign receipts for a parsed race and
// cycle.
type FinanceProvider interface {
	TotalReceipts(ctx context.Context, id model.Identifier, cycle int) (float64, error)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
