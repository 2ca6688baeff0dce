package demographics

import (
	"context"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donorlens/leverage-cli/internal/model"
)

func TestNewStore_NilPool(t *testing.T) {
	assert.Nil(t, NewStore(nil))
}

func TestAverageDemRatio_SenateColumn(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`AVG\(sen_dem_ratio\)`).
		WithArgs("39%", 2024).
		WillReturnRows(pgxmock.NewRows([]string{"avg", "count"}).AddRow(0.47, 88))

	s := NewStore(mock)
	avg, counties, err := s.AverageDemRatio(context.Background(), "OH", 2024, model.OfficeSenate)
	require.NoError(t, err)
	assert.Equal(t, 0.47, avg)
	assert.Equal(t, 88, counties)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAverageDemRatio_PresidentialProxyForHouse(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`AVG\(pres_dem_ratio\)`).
		WithArgs("37%", 2024).
		WillReturnRows(pgxmock.NewRows([]string{"avg", "count"}).AddRow(0.51, 100))

	s := NewStore(mock)
	avg, _, err := s.AverageDemRatio(context.Background(), "NC", 2024, model.OfficeHouse)
	require.NoError(t, err)
	assert.Equal(t, 0.51, avg)
}

func TestAverageDemRatio_ResolvesLatestYear(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`MAX\(year\)`).
		WillReturnRows(pgxmock.NewRows([]string{"year"}).AddRow(2022))
	mock.ExpectQuery(`AVG\(pres_dem_ratio\)`).
		WithArgs("06%", 2022).
		WillReturnRows(pgxmock.NewRows([]string{"avg", "count"}).AddRow(0.62, 58))

	s := NewStore(mock)
	avg, counties, err := s.AverageDemRatio(context.Background(), "CA", 0, model.OfficeGovernor)
	require.NoError(t, err)
	assert.Equal(t, 0.62, avg)
	assert.Equal(t, 58, counties)
}

func TestAverageDemRatio_NoRowsMeansAbstain(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`AVG\(sen_dem_ratio\)`).
		WithArgs("39%", 2024).
		WillReturnRows(pgxmock.NewRows([]string{"avg", "count"}).AddRow(0.0, 0))

	s := NewStore(mock)
	_, counties, err := s.AverageDemRatio(context.Background(), "OH", 2024, model.OfficeSenate)
	require.NoError(t, err)
	assert.Zero(t, counties)
}

func TestAverageDemRatio_UnknownState(t *testing.T) {
	s := NewStore(mustMock(t))
	_, counties, err := s.AverageDemRatio(context.Background(), "ZZ", 2024, model.OfficeSenate)
	require.NoError(t, err)
	assert.Zero(t, counties)
}

func mustMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func TestParseTSV(t *testing.T) {
	tsv := strings.Join([]string{
		"STCOFIPS10\tYEAR\tPRES_DEM_RATIO\tPRES_REP_RATIO\tSEN_DEM_RATIO\tSEN_REP_RATIO\tPARTISAN_INDEX_DEM\tPARTISAN_INDEX_REP",
		"39001\t2022\t0.31\t0.69\t0.33\t0.67\t0.32\t0.68",
		"39003\t2022\t0.42\t0.58\t\t\t0.42\t0.58",
		"\t2022\t0.5\t0.5\t0.5\t0.5\t0.5\t0.5",
		"39005\tnotayear\t0.5\t0.5\t0.5\t0.5\t0.5\t0.5",
	}, "\n")

	records, err := ParseTSV(strings.NewReader(tsv))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "39001", records[0].FIPS)
	assert.Equal(t, 2022, records[0].Year)
	require.NotNil(t, records[0].SenDemRatio)
	assert.Equal(t, 0.33, *records[0].SenDemRatio)

	// Blank ratio cells become NULLs, not zeros.
	assert.Nil(t, records[1].SenDemRatio)
	require.NotNil(t, records[1].PresDemRatio)
	assert.Equal(t, 0.42, *records[1].PresDemRatio)
}

func TestLoad_Upserts(t *testing.T) {
	mock := mustMock(t)

	mock.ExpectBegin()
	mock.ExpectExec("CREATE TEMP TABLE").WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectCopyFrom(pgx.Identifier{"_tmp_upsert_county_partisan"}, loadColumns).WillReturnResult(1)
	mock.ExpectExec(`INSERT INTO "county_partisan"`).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()
	mock.ExpectRollback()

	s := NewStore(mock)
	ratio := 0.4
	n, err := s.Load(context.Background(), []Record{{FIPS: "39001", Year: 2022, PresDemRatio: &ratio}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
