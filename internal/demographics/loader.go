package demographics

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/donorlens/leverage-cli/internal/db"
)

// Record is one county-year row from the partisan TSV.
type Record struct {
	FIPS             string
	Year             int
	PresDemRatio     *float64
	PresRepRatio     *float64
	SenDemRatio      *float64
	SenRepRatio      *float64
	PartisanIndexDem *float64
	PartisanIndexRep *float64
}

var loadColumns = []string{
	"fips", "year",
	"pres_dem_ratio", "pres_rep_ratio",
	"sen_dem_ratio", "sen_rep_ratio",
	"partisan_index_dem", "partisan_index_rep",
}

// ParseTSV reads the NANDA-format tab-separated file. Rows missing a FIPS
// or year are skipped; blank ratio cells become NULLs.
func ParseTSV(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, eris.Wrap(err, "demographics: read tsv header")
	}
	idx := map[string]int{}
	for i, name := range header {
		idx[strings.ToUpper(strings.TrimSpace(name))] = i
	}

	field := func(row []string, name string) string {
		i, ok := idx[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var records []Record
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "demographics: read tsv row")
		}

		fips := field(row, "STCOFIPS10")
		year, yearErr := strconv.Atoi(field(row, "YEAR"))
		if fips == "" || yearErr != nil {
			continue
		}

		records = append(records, Record{
			FIPS:             fips,
			Year:             year,
			PresDemRatio:     parseRatio(field(row, "PRES_DEM_RATIO")),
			PresRepRatio:     parseRatio(field(row, "PRES_REP_RATIO")),
			SenDemRatio:      parseRatio(field(row, "SEN_DEM_RATIO")),
			SenRepRatio:      parseRatio(field(row, "SEN_REP_RATIO")),
			PartisanIndexDem: parseRatio(field(row, "PARTISAN_INDEX_DEM")),
			PartisanIndexRep: parseRatio(field(row, "PARTISAN_INDEX_REP")),
		})
	}
	return records, nil
}

// Load upserts parsed records so re-importing a refreshed file is safe.
func (s *Store) Load(ctx context.Context, records []Record) (int64, error) {
	rows := make([][]any, len(records))
	for i, rec := range records {
		rows[i] = []any{
			rec.FIPS, rec.Year,
			rec.PresDemRatio, rec.PresRepRatio,
			rec.SenDemRatio, rec.SenRepRatio,
			rec.PartisanIndexDem, rec.PartisanIndexRep,
		}
	}

	n, err := db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table:        "county_partisan",
		Columns:      loadColumns,
		ConflictKeys: []string{"fips", "year"},
	}, rows)
	if err != nil {
		return 0, err
	}

	zap.L().Info("demographics: loaded county records", zap.Int64("rows", n))
	return n, nil
}

func parseRatio(s string) *float64 {
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}
