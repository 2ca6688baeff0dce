// Package model defines the core data types shared across the scoring pipeline.
package model

import "time"

// Level is the jurisdiction level of a race.
type Level string

const (
	LevelFederal Level = "FEDERAL"
	LevelState   Level = "STATE"
	LevelLocal   Level = "LOCAL"
	LevelCity    Level = "CITY"
)

// Office is the parsed office type of a race.
type Office string

const (
	OfficeSenate      Office = "S"
	OfficeHouse       Office = "H"
	OfficeStateSenate Office = "SS"
	OfficeStateHouse  Office = "SH"
	OfficeGovernor    Office = "G"
	OfficeOther       Office = "O"
)

// HasDistrict reports whether the office type carries a district number.
func (o Office) HasDistrict() bool {
	return o == OfficeHouse || o == OfficeStateHouse
}

// Candidacy is one candidate's participation in one race.
type Candidacy struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Party string `json:"party,omitempty"`
}

// Race identifies one electable seat in one election cycle. The display name
// is the only identifying field supplied by the election data provider.
type Race struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Level        Level       `json:"level"`
	ElectionDay  time.Time   `json:"election_day,omitzero"`
	ElectionName string      `json:"election_name,omitempty"`
	Candidacies  []Candidacy `json:"candidacies,omitempty"`
}

// ElectionYear returns the year of the election, or 0 if the date is unknown.
func (r Race) ElectionYear() int {
	if r.ElectionDay.IsZero() {
		return 0
	}
	return r.ElectionDay.Year()
}

// DaysUntil returns the number of whole days between now and election day.
// Negative for past elections. Returns (0, false) when the date is unknown.
func (r Race) DaysUntil(now time.Time) (int, bool) {
	if r.ElectionDay.IsZero() {
		return 0, false
	}
	return int(r.ElectionDay.Sub(now).Hours() / 24), true
}

// Identifier is the parsed view of a race name. Office and State must both
// resolve for any provider lookup to be attempted; a zero Identifier signals
// the unparseable path, which every estimator treats as a fallback branch
// rather than an error.
type Identifier struct {
	Office   Office `json:"office,omitempty"`
	State    string `json:"state,omitempty"` // two-letter code
	District int    `json:"district,omitempty"`

	// HasDistrict distinguishes "district 0 / at-large" from a parsed district.
	HasDistrict bool `json:"has_district,omitempty"`
}

// Parseable reports whether both office and state resolved.
func (id Identifier) Parseable() bool {
	return id.Office != "" && id.State != ""
}
