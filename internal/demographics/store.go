// Package demographics serves county-level partisan ratios from Postgres.
// The data is the NANDA voting dataset keyed by county FIPS and year; the
// demographic-proxy competitiveness strategy reads state-level averages
// from it.
package demographics

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/donorlens/leverage-cli/internal/db"
	"github.com/donorlens/leverage-cli/internal/model"
	"github.com/donorlens/leverage-cli/internal/parse"
)

// Store reads partisan ratios for the demographic-proxy strategy.
type Store struct {
	pool db.Pool
}

// NewStore creates a Store. Returns nil if pool is nil so a missing
// database disables the strategy instead of crashing it.
func NewStore(pool db.Pool) *Store {
	if pool == nil {
		return nil
	}
	return &Store{pool: pool}
}

// Migrate creates the backing table.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS county_partisan (
			fips               TEXT NOT NULL,
			year               INT  NOT NULL,
			pres_dem_ratio     DOUBLE PRECISION,
			pres_rep_ratio     DOUBLE PRECISION,
			sen_dem_ratio      DOUBLE PRECISION,
			sen_rep_ratio      DOUBLE PRECISION,
			partisan_index_dem DOUBLE PRECISION,
			partisan_index_rep DOUBLE PRECISION,
			PRIMARY KEY (fips, year)
		)`)
	if err != nil {
		return eris.Wrap(err, "demographics: migrate")
	}
	return nil
}

// LatestYear returns the most recent data year, or 0 when the table is empty.
func (s *Store) LatestYear(ctx context.Context) (int, error) {
	var year int
	err := s.pool.QueryRow(ctx, `SELECT COALESCE(MAX(year), 0) FROM county_partisan`).Scan(&year)
	if err != nil {
		return 0, eris.Wrap(err, "demographics: latest year")
	}
	return year, nil
}

// AverageDemRatio averages the Democratic vote share across a state's
// counties for the given year (0 means most recent). Senate-type offices
// read the senate ratio column; everything else uses the presidential
// ratio as a proxy. counties == 0 means the state has no usable rows and
// the caller should abstain.
func (s *Store) AverageDemRatio(ctx context.Context, state string, year int, office model.Office) (avg float64, counties int, err error) {
	prefix, ok := parse.StateFIPS(state)
	if !ok {
		return 0, 0, nil
	}

	if year == 0 {
		year, err = s.LatestYear(ctx)
		if err != nil {
			return 0, 0, err
		}
		if year == 0 {
			return 0, 0, nil
		}
	}

	column := "pres_dem_ratio"
	if office == model.OfficeSenate || office == model.OfficeStateSenate {
		column = "sen_dem_ratio"
	}

	// column comes from the fixed whitelist above, never from input.
	query := `SELECT COALESCE(AVG(` + column + `), 0), COUNT(` + column + `)
		FROM county_partisan WHERE fips LIKE $1 AND year = $2`

	err = s.pool.QueryRow(ctx, query, prefix+"%", year).Scan(&avg, &counties)
	if err != nil {
		return 0, 0, eris.Wrap(err, "demographics: average dem ratio")
	}

	zap.L().Debug("demographics: state average",
		zap.String("state", state),
		zap.Int("year", year),
		zap.String("column", column),
		zap.Float64("avg_dem_ratio", avg),
		zap.Int("counties", counties),
	)
	return avg, counties, nil
}
