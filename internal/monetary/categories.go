// Package monetary estimates the dollar scale of a race and the relative
// power of a donation within it. Races are classified into spending
// categories, each mapped to a per-candidate dollar range.
package monetary

import "strings"

// Range is the estimated per-candidate spending band for a category.
type Range struct {
	Min float64
	Max float64
}

// Mid returns the midpoint of the range.
func (r Range) Mid() float64 {
	return (r.Min + r.Max) / 2
}

// DefaultCategory is assumed when classification cannot place a race.
const DefaultCategory = "safe_house"

// unknownRange backs categories outside the table.
var unknownRange = Range{Min: 10_000, Max: 100_000}

// categoryRanges maps a classification to its per-candidate dollar band.
var categoryRanges = map[string]Range{
	// Federal
	"presidential":       {Min: 1_000_000_000, Max: 2_000_000_000},
	"competitive_senate": {Min: 10_000_000, Max: 100_000_000},
	"safe_senate":        {Min: 1_000_000, Max: 10_000_000},
	"competitive_house":  {Min: 1_000_000, Max: 10_000_000},
	"safe_house":         {Min: 100_000, Max: 1_000_000},

	// State
	"governor_large_state":     {Min: 10_000_000, Max: 100_000_000},
	"governor_small_state":     {Min: 1_000_000, Max: 10_000_000},
	"state_senate_competitive": {Min: 50_000, Max: 500_000},
	"state_house":              {Min: 10_000, Max: 100_000},

	// Local
	"mayor_major_city":         {Min: 5_000_000, Max: 50_000_000},
	"mayor_mid_size_city":      {Min: 100_000, Max: 5_000_000},
	"mayor_small_city":         {Min: 10_000, Max: 100_000},
	"city_council_major_city":  {Min: 100_000, Max: 1_000_000},
	"city_council_typical":     {Min: 5_000, Max: 50_000},
	"school_board":             {Min: 1_000, Max: 20_000},
	"county_commissioner":      {Min: 10_000, Max: 200_000},
}

// RangeFor returns the dollar band for a category, falling back to a modest
// default band for categories outside the table.
func RangeFor(category string) Range {
	if r, ok := categoryRanges[category]; ok {
		return r
	}
	return unknownRange
}

// KnownCategory reports whether the category is in the table.
func KnownCategory(category string) bool {
	_, ok := categoryRanges[category]
	return ok
}

// NormalizeCategory maps a free-form classification string onto a table
// category. Returns ("", false) when nothing matches.
func NormalizeCategory(raw string) (string, bool) {
	c := strings.ToLower(strings.TrimSpace(raw))
	if c == "" {
		return "", false
	}
	if KnownCategory(c) {
		return c, true
	}
	underscored := strings.ReplaceAll(c, " ", "_")
	if KnownCategory(underscored) {
		return underscored, true
	}
	spaced := strings.ReplaceAll(c, "_", " ")
	for cat := range categoryRanges {
		catSpaced := strings.ReplaceAll(cat, "_", " ")
		if strings.Contains(spaced, catSpaced) || strings.Contains(catSpaced, spaced) {
			return cat, true
		}
	}
	return "", false
}
