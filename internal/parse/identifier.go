// Package parse extracts structured race identifiers from free-text race names.
package parse

import (
	"regexp"
	"sort"
	"strings"

	"github.com/donorlens/leverage-cli/internal/model"
)

// stateAbbrevs maps full state names to two-letter codes (50 states + DC).
var stateAbbrevs = map[string]string{
	"Alabama": "AL", "Alaska": "AK", "Arizona": "AZ", "Arkansas": "AR",
	"California": "CA", "Colorado": "CO", "Connecticut": "CT", "Delaware": "DE",
	"Florida": "FL", "Georgia": "GA", "Hawaii": "HI", "Idaho": "ID",
	"Illinois": "IL", "Indiana": "IN", "Iowa": "IA", "Kansas": "KS",
	"Kentucky": "KY", "Louisiana": "LA", "Maine": "ME", "Maryland": "MD",
	"Massachusetts": "MA", "Michigan": "MI", "Minnesota": "MN", "Mississippi": "MS",
	"Missouri": "MO", "Montana": "MT", "Nebraska": "NE", "Nevada": "NV",
	"New Hampshire": "NH", "New Jersey": "NJ", "New Mexico": "NM", "New York": "NY",
	"North Carolina": "NC", "North Dakota": "ND", "Ohio": "OH", "Oklahoma": "OK",
	"Oregon": "OR", "Pennsylvania": "PA", "Rhode Island": "RI", "South Carolina": "SC",
	"South Dakota": "SD", "Tennessee": "TN", "Texas": "TX", "Utah": "UT",
	"Vermont": "VT", "Virginia": "VA", "Washington": "WA", "West Virginia": "WV",
	"Wisconsin": "WI", "Wyoming": "WY", "District of Columbia": "DC",
}

// stateNames is the inverse of stateAbbrevs, keyed by two-letter code.
var stateNames = func() map[string]string {
	m := make(map[string]string, len(stateAbbrevs))
	for name, ab := range stateAbbrevs {
		m[ab] = name
	}
	return m
}()

// statesByLength lists state names longest-first so that "West Virginia"
// matches before "Virginia" and parsing stays deterministic.
var statesByLength = func() []string {
	names := make([]string, 0, len(stateAbbrevs))
	for name := range stateAbbrevs {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})
	return names
}()

// stateFIPS maps two-letter codes to state FIPS prefixes, used to aggregate
// county-level demographic records up to state level.
var stateFIPS = map[string]string{
	"AL": "01", "AK": "02", "AZ": "04", "AR": "05", "CA": "06", "CO": "08",
	"CT": "09", "DE": "10", "DC": "11", "FL": "12", "GA": "13", "HI": "15",
	"ID": "16", "IL": "17", "IN": "18", "IA": "19", "KS": "20", "KY": "21",
	"LA": "22", "ME": "23", "MD": "24", "MA": "25", "MI": "26", "MN": "27",
	"MS": "28", "MO": "29", "MT": "30", "NE": "31", "NV": "32", "NH": "33",
	"NJ": "34", "NM": "35", "NY": "36", "NC": "37", "ND": "38", "OH": "39",
	"OK": "40", "OR": "41", "PA": "42", "RI": "44", "SC": "45", "SD": "46",
	"TN": "47", "TX": "48", "UT": "49", "VT": "50", "VA": "51", "WA": "53",
	"WV": "54", "WI": "55", "WY": "56",
}

var (
	ordinalDistrictRe = regexp.MustCompile(`(\d+)(?:st|nd|rd|th)?\s+(?:Congressional\s+)?District`)
	plainDistrictRe   = regexp.MustCompile(`District\s+(\d+)`)
)

// StateName returns the full name for a two-letter state code, or "" when
// the code is unknown.
func StateName(abbrev string) string {
	return stateNames[strings.ToUpper(abbrev)]
}

// StateFIPS returns the FIPS prefix for a two-letter state code.
func StateFIPS(abbrev string) (string, bool) {
	fips, ok := stateFIPS[strings.ToUpper(abbrev)]
	return fips, ok
}

// RaceName parses a free-text race name into a structured identifier.
// No match on state or office is a valid outcome: callers must treat an
// unparseable identifier as a fallback branch, never an error.
func RaceName(name string) model.Identifier {
	var id model.Identifier

	for _, stateName := range statesByLength {
		if strings.Contains(name, stateName) {
			id.State = stateAbbrevs[stateName]
			break
		}
	}

	hasUS := strings.Contains(name, "U.S.")
	switch {
	case strings.Contains(name, "U.S. Senate"),
		hasUS && strings.Contains(name, "Senate"):
		id.Office = model.OfficeSenate
	case strings.Contains(name, "U.S. House"),
		hasUS && strings.Contains(name, "House of Representatives"):
		id.Office = model.OfficeHouse
	case strings.Contains(name, "State Senate"),
		strings.Contains(name, "Senate"):
		id.Office = model.OfficeStateSenate
	case strings.Contains(name, "State House"),
		strings.Contains(name, "House of Representatives"),
		strings.Contains(name, "House"), strings.Contains(name, "Assembly"):
		id.Office = model.OfficeStateHouse
	case strings.Contains(name, "Governor"):
		id.Office = model.OfficeGovernor
	default:
		if id.State != "" {
			id.Office = model.OfficeOther
		}
	}

	if id.Office.HasDistrict() {
		if m := ordinalDistrictRe.FindStringSubmatch(name); m != nil {
			id.District = atoiSafe(m[1])
			id.HasDistrict = id.District > 0
		} else if m := plainDistrictRe.FindStringSubmatch(name); m != nil {
			id.District = atoiSafe(m[1])
			id.HasDistrict = id.District > 0
		}
		// "At Large" seats carry no district number.
		if strings.Contains(name, "At Large") || strings.Contains(strings.ToLower(name), "at-large") {
			id.District = 0
			id.HasDistrict = false
		}
	}

	return id
}

func atoiSafe(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
	}
	return n
}
