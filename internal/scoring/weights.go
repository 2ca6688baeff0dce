// Package scoring computes per-race competitiveness and saturation through
// ordered strategy cascades, then aggregates them into ranked leverage
// scores.
package scoring

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Weights holds the tunable scoring constants.
type Weights struct {
	Historical HistoricalWeights `yaml:"historical"`
	Impact     ImpactWeights     `yaml:"impact"`
	Time       TimeWeights       `yaml:"time"`
}

// HistoricalWeights map party-consistency patterns to competitiveness
// scores. Hand-tuned values carried from the original analysis.
type HistoricalWeights struct {
	SafeSeat            float64 `yaml:"safe_seat"`             // one party won everything
	TwoPartyMixed       float64 `yaml:"two_party_mixed"`       // two parties, rare swings
	TwoPartyAlternating float64 `yaml:"two_party_alternating"` // two parties, frequent swings
	MultiParty          float64 `yaml:"multi_party"`           // three or more parties
	TransitionThreshold float64 `yaml:"transition_threshold"`  // swing ratio separating mixed from alternating
}

// ImpactWeights scale leverage by jurisdiction level.
type ImpactWeights struct {
	Federal float64 `yaml:"federal"`
	Other   float64 `yaml:"other"`
}

// TimeWeights control the election-proximity boost.
type TimeWeights struct {
	ImmediateDays  int     `yaml:"immediate_days"`
	ImmediateBoost float64 `yaml:"immediate_boost"`
	NearTermDays   int     `yaml:"near_term_days"`
	NearTermBoost  float64 `yaml:"near_term_boost"`
	DistantDays    int     `yaml:"distant_days"` // beyond this, data quality is suspect
}

// DefaultWeights returns the tuned defaults.
func DefaultWeights() Weights {
	return Weights{
		Historical: HistoricalWeights{
			SafeSeat:            0.3,
			TwoPartyMixed:       0.5,
			TwoPartyAlternating: 0.8,
			MultiParty:          0.9,
			TransitionThreshold: 0.5,
		},
		Impact: ImpactWeights{
			Federal: 1.0,
			Other:   0.8,
		},
		Time: TimeWeights{
			ImmediateDays:  90,
			ImmediateBoost: 1.10,
			NearTermDays:   180,
			NearTermBoost:  1.05,
			DistantDays:    730,
		},
	}
}

// LoadWeights reads weights from a YAML file. Keys absent from the file keep
// their default values.
func LoadWeights(path string) (Weights, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Weights{}, eris.Wrapf(err, "scoring: read weights %s", path)
	}

	// The YAML has a top-level "scoring" key
	wrapper := struct {
		Scoring Weights `yaml:"scoring"`
	}{Scoring: DefaultWeights()}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return Weights{}, eris.Wrap(err, "scoring: parse weights")
	}
	return wrapper.Scoring, nil
}
