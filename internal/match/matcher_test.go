package match

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/donorlens/leverage-cli/internal/model"
)

func ohioSenate() model.Identifier {
	return model.Identifier{Office: model.OfficeSenate, State: "OH"}
}

func ncHouse9() model.Identifier {
	return model.Identifier{Office: model.OfficeHouse, State: "NC", District: 9, HasDistrict: true}
}

func quoted() []model.OutcomeQuote {
	return []model.OutcomeQuote{{Ticker: "X", LastPrice: 55}}
}

func TestCleanQuery(t *testing.T) {
	assert.Equal(t, "Ohio Senate", CleanQuery("U.S. Senate - Ohio"))
	assert.Equal(t, "North Carolina 9", CleanQuery("U.S. House of Representatives - North Carolina 9th Congressional District"))
	assert.Equal(t, "Minnesota District 60", CleanQuery("State Senate - Minnesota District 60"))
	assert.Equal(t, "Virginia 32nd District", CleanQuery("House of Representatives - Virginia 32nd District"))
	assert.Equal(t, "Governor - California", CleanQuery("Governor - California"))
}

func TestOne_FullMatch(t *testing.T) {
	m := model.MarketCandidate{
		Title:    "Ohio Senate Election Winner 2026",
		Ticker:   "SENATE-OH-26",
		Outcomes: quoted(),
	}
	r := One(ohioSenate(), 2026, m)
	assert.True(t, r.Valid)
	assert.InDelta(t, 0.8, r.Score, 1e-9)
	assert.Empty(t, r.Warnings)
}

func TestOne_WrongDistrictInvalid(t *testing.T) {
	// Correct state and office but district-carrying race with no district
	// evidence and no close year: rejected.
	m := model.MarketCandidate{
		Title:    "North Carolina House winner",
		Ticker:   "HOUSE-NC",
		Outcomes: quoted(),
	}
	r := One(ncHouse9(), 2026, m)
	assert.False(t, r.Valid)
}

func TestOne_LenientDowngrade(t *testing.T) {
	// State and office match, year close but district absent: accepted with
	// a warning rather than rejected.
	m := model.MarketCandidate{
		Title:    "North Carolina House winner 2025",
		Ticker:   "HOUSE-NC-25",
		Outcomes: quoted(),
	}
	r := One(ncHouse9(), 2026, m)
	assert.True(t, r.Valid)
	assert.Contains(t, r.Warnings, "using market despite some mismatches (state and office match)")
}

func TestOne_PaddedDistrict(t *testing.T) {
	m := model.MarketCandidate{
		Title:    "North Carolina House Winner 2026",
		Ticker:   "HOUSE-NC-09",
		Outcomes: quoted(),
	}
	r := One(ncHouse9(), 2026, m)
	assert.True(t, r.Valid)
	assert.InDelta(t, 1.0, r.Score, 1e-9)
}

func TestOne_NearYearWarning(t *testing.T) {
	m := model.MarketCandidate{
		Title:    "Ohio Senate winner 2028",
		Ticker:   "SENATE-OH-28",
		Outcomes: quoted(),
	}
	r := One(ohioSenate(), 2026, m)
	assert.True(t, r.Valid)
	assert.InDelta(t, 0.7, r.Score, 1e-9)
	assert.NotEmpty(t, r.Warnings)
}

func TestOne_WrongState(t *testing.T) {
	m := model.MarketCandidate{
		Title:    "Texas Senate winner 2026",
		Ticker:   "SENATE-TX-26",
		Outcomes: quoted(),
	}
	r := One(ohioSenate(), 2026, m)
	assert.False(t, r.Valid)
}

func TestBest_PrefersValidOverHigherScoreInvalid(t *testing.T) {
	candidates := []model.MarketCandidate{
		{Title: "Texas Senate winner 2026", Ticker: "SENATE-TX-26", Outcomes: quoted()},
		{Title: "Ohio Senate winner", Ticker: "SENATE-OH", Outcomes: quoted()},
	}
	idx, r := Best(ohioSenate(), 2026, candidates)
	assert.Equal(t, 1, idx)
	assert.True(t, r.Valid)
}

func TestBest_SkipsCandidatesWithoutOutcomes(t *testing.T) {
	candidates := []model.MarketCandidate{
		{Title: "Ohio Senate winner 2026", Ticker: "SENATE-OH-26"}, // no outcomes
		{Title: "Ohio Senate winner 2026", Ticker: "SENATE-OH-26B", Outcomes: quoted()},
	}
	idx, _ := Best(ohioSenate(), 2026, candidates)
	assert.Equal(t, 1, idx)
}

func TestBest_TieKeepsInputOrder(t *testing.T) {
	candidates := []model.MarketCandidate{
		{Title: "Ohio Senate winner 2026", Ticker: "SENATE-OH-26", Outcomes: quoted()},
		{Title: "Ohio Senate winner 2026", Ticker: "SENATE-OH-26-ALT", Outcomes: quoted()},
	}
	idx, _ := Best(ohioSenate(), 2026, candidates)
	assert.Equal(t, 0, idx)
}

func TestBest_NoneFound(t *testing.T) {
	idx, r := Best(ohioSenate(), 2026, nil)
	assert.Equal(t, -1, idx)
	assert.False(t, r.Valid)
}
