package pipeline

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/donorlens/leverage-cli/internal/model"
	"github.com/donorlens/leverage-cli/internal/scoring"
	"github.com/donorlens/leverage-cli/pkg/civicengine"
	"github.com/donorlens/leverage-cli/pkg/fec"
)

// HistorySource resolves past general-election winners from the election
// data provider, filling in winning parties from campaign-finance records
// for federal seats.
type HistorySource struct {
	elections *civicengine.Client
	finance   *fec.Client
	now       func() time.Time
}

// NewHistorySource builds a source. The finance client is optional; without
// it federal winners keep an empty party.
func NewHistorySource(elections *civicengine.Client, finance *fec.Client) *HistorySource {
	return &HistorySource{elections: elections, finance: finance, now: time.Now}
}

// WithNow sets a fixed clock for testing.
func (s *HistorySource) WithNow(t time.Time) *HistorySource {
	s.now = func() time.Time { return t }
	return s
}

// PastWinners implements scoring.HistoryProvider.
func (s *HistorySource) PastWinners(ctx context.Context, race model.Race, id model.Identifier, yearsBack int) ([]scoring.PastWinner, error) {
	if s.elections == nil {
		return nil, eris.New("pipeline: no election data provider configured")
	}

	winners, err := s.elections.HistoricalWinners(ctx, race.Name, race.Level, id, yearsBack, s.now())
	if err != nil {
		return nil, err
	}

	out := make([]scoring.PastWinner, 0, len(winners))
	for _, w := range winners {
		pw := scoring.PastWinner{Year: w.Year, Name: w.Name, Party: w.Party}
		if pw.Party == "" && s.finance != nil && race.Level == model.LevelFederal {
			cycle := scoring.FECCycle(w.Year, s.now())
			party, err := s.finance.CandidateParty(ctx, w.Name, id, cycle)
			if err != nil {
				zap.L().Debug("party lookup failed",
					zap.String("candidate", w.Name), zap.Int("year", w.Year), zap.Error(err))
			} else {
				pw.Party = party
			}
		}
		out = append(out, pw)
	}
	return out, nil
}
