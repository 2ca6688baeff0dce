// Package match scores prediction-market search results against a parsed
// race identifier and selects the best genuine match.
package match

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/donorlens/leverage-cli/internal/model"
	"github.com/donorlens/leverage-cli/internal/parse"
)

// Score contributions for each matched facet. State and office dominate
// because validity requires both; district and year refine.
const (
	statePoints    = 0.3
	officePoints   = 0.3
	districtPoints = 0.2
	yearPoints     = 0.2
	nearYearPoints = 0.1
)

// nearYearWindow is how far a market's year may drift from the election
// year and still earn partial credit.
const nearYearWindow = 2

var (
	ordinalSuffixRe = regexp.MustCompile(`(\d+)(?:st|nd|rd|th) Congressional District`)
	marketYearRe    = regexp.MustCompile(`\b(20\d{2})\b`)
)

// CleanQuery strips provider boilerplate from a race name to build a market
// search query, e.g. "U.S. Senate - Ohio" becomes "Ohio Senate".
func CleanQuery(raceName string) string {
	switch {
	case strings.Contains(raceName, "U.S. Senate"):
		return strings.TrimSpace(strings.ReplaceAll(raceName, "U.S. Senate - ", "")) + " Senate"
	case strings.Contains(raceName, "U.S. House"):
		name := strings.ReplaceAll(raceName, "U.S. House of Representatives - ", "")
		name = ordinalSuffixRe.ReplaceAllString(name, "$1")
		return strings.TrimSpace(name)
	case strings.Contains(raceName, "State Senate"):
		return strings.TrimSpace(strings.ReplaceAll(raceName, "State Senate - ", ""))
	case strings.Contains(raceName, "House of Representatives"):
		return strings.TrimSpace(strings.ReplaceAll(raceName, "House of Representatives - ", ""))
	}
	return raceName
}

// One evaluates a single market candidate against an identifier.
//
// Validity requires state AND office to match, plus district when the
// office carries one. When state and office match but district or year do
// not, the candidate is downgraded to valid-with-warning rather than
// rejected outright, provided the year is either unknown or close.
func One(id model.Identifier, electionYear int, m model.MarketCandidate) model.MatchResult {
	res := model.MatchResult{}

	title := strings.ToLower(m.Title)
	ticker := strings.ToLower(m.Ticker)
	tickerUpper := strings.ToUpper(m.Ticker)

	stateMatch := false
	if id.State != "" {
		abbrev := strings.ToLower(id.State)
		full := strings.ToLower(parse.StateName(id.State))
		if strings.Contains(title, full) ||
			strings.Contains(title, abbrev) ||
			strings.Contains(ticker, abbrev) ||
			strings.Contains(tickerUpper, strings.ToUpper(id.State)) {
			stateMatch = true
			res.Score += statePoints
		} else {
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("state mismatch: wanted %s, market may cover a different state", id.State))
		}
	}

	officeMatch := false
	switch id.Office {
	case model.OfficeHouse, model.OfficeStateHouse:
		if strings.Contains(title, "house") || strings.Contains(tickerUpper, "HOUSE") || strings.Contains(ticker, "h-") {
			officeMatch = true
			res.Score += officePoints
		} else {
			res.Warnings = append(res.Warnings, "office mismatch: wanted House, market may cover a different office")
		}
	case model.OfficeSenate, model.OfficeStateSenate:
		if strings.Contains(title, "senate") || strings.Contains(tickerUpper, "SENATE") || strings.Contains(ticker, "s-") {
			officeMatch = true
			res.Score += officePoints
		} else {
			res.Warnings = append(res.Warnings, "office mismatch: wanted Senate, market may cover a different office")
		}
	case model.OfficeGovernor:
		if strings.Contains(title, "governor") || strings.Contains(tickerUpper, "GOV") {
			officeMatch = true
			res.Score += officePoints
		} else {
			res.Warnings = append(res.Warnings, "office mismatch: wanted Governor, market may cover a different office")
		}
	}

	districtExpected := id.Office.HasDistrict() && id.HasDistrict
	districtMatch := false
	if districtExpected {
		d := strconv.Itoa(id.District)
		padded := fmt.Sprintf("%02d", id.District)
		if strings.Contains(title, d) || strings.Contains(ticker, d) ||
			strings.Contains(ticker, "-"+padded) || strings.Contains(ticker, padded) {
			districtMatch = true
			res.Score += districtPoints
		} else {
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("district mismatch: wanted district %d, market may cover a different district", id.District))
		}
	}

	yearMatch := false
	yearClose := false
	if electionYear > 0 {
		want := strconv.Itoa(electionYear)
		if strings.Contains(title, want) || strings.Contains(ticker, want) {
			yearMatch = true
			res.Score += yearPoints
		} else if found := marketYearRe.FindString(title + " " + ticker); found != "" {
			marketYear, _ := strconv.Atoi(found)
			diff := marketYear - electionYear
			if diff < 0 {
				diff = -diff
			}
			if diff <= nearYearWindow {
				yearClose = true
				res.Score += nearYearPoints
				res.Warnings = append(res.Warnings,
					fmt.Sprintf("year mismatch: wanted %d, market is for %d (using anyway)", electionYear, marketYear))
			} else {
				res.Warnings = append(res.Warnings,
					fmt.Sprintf("year mismatch: wanted %d, market is for %d", electionYear, marketYear))
			}
		} else {
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("year not found in market: wanted %d", electionYear))
		}
	}

	res.Valid = stateMatch && officeMatch
	if districtExpected {
		res.Valid = res.Valid && districtMatch
	}

	// Lenient fallback: a state+office match with a close (or unspecified)
	// year is accepted with a warning rather than rejected.
	if !res.Valid && stateMatch && officeMatch {
		if yearMatch || yearClose || electionYear == 0 {
			res.Valid = true
			res.Warnings = append(res.Warnings, "using market despite some mismatches (state and office match)")
		}
	}

	return res
}

// Best selects the market candidate maximizing (valid, score)
// lexicographically among candidates with usable outcome data. Ties keep
// the provider's own relevance ordering. Returns (-1, zero result) when no
// candidate passes the filters; callers treat that as "no market found",
// not an error.
func Best(id model.Identifier, electionYear int, candidates []model.MarketCandidate) (int, model.MatchResult) {
	bestIdx := -1
	var best model.MatchResult

	for i, m := range candidates {
		if !m.HasOutcomes() {
			continue
		}
		r := One(id, electionYear, m)
		if bestIdx == -1 || betterMatch(r, best) {
			bestIdx = i
			best = r
		}
	}

	if bestIdx >= 0 {
		zap.L().Debug("match: selected market",
			zap.String("ticker", candidates[bestIdx].Ticker),
			zap.Bool("valid", best.Valid),
			zap.Float64("score", best.Score),
		)
	}
	return bestIdx, best
}

// betterMatch reports whether a strictly beats b: validity first, then score.
func betterMatch(a, b model.MatchResult) bool {
	if a.Valid != b.Valid {
		return a.Valid
	}
	return a.Score > b.Score
}
