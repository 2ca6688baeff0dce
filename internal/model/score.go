package model

// Quality grades how trustworthy an estimator's underlying data was.
type Quality string

const (
	QualityNone   Quality = "none"
	QualityLow    Quality = "low"
	QualityMedium Quality = "medium"
	QualityHigh   Quality = "high"
)

// Better reports whether q ranks above other.
func (q Quality) Better(other Quality) bool {
	return q.rank() > other.rank()
}

func (q Quality) rank() int {
	switch q {
	case QualityHigh:
		return 3
	case QualityMedium:
		return 2
	case QualityLow:
		return 1
	default:
		return 0
	}
}

// FactorResult is the uniform output contract every estimator strategy
// produces: a score in [0,1] plus provenance metadata.
type FactorResult struct {
	Score    float64  `json:"score"`
	Method   string   `json:"method"`
	Quality  Quality  `json:"quality"`
	Warnings []string `json:"warnings,omitempty"`
}

// TimePriority labels how soon the election is.
type TimePriority string

const (
	PriorityImmediate TimePriority = "immediate"   // within 90 days
	PriorityNearTerm  TimePriority = "near-term"   // within 180 days
	PriorityMedium    TimePriority = "medium-term" // within 2 years
	PriorityLongTerm  TimePriority = "long-term"   // beyond 2 years
	PriorityUnknown   TimePriority = ""
)

// MonetaryEstimate is the Monetary Scale Estimator's output for one race.
type MonetaryEstimate struct {
	Category       string  `json:"category"`
	MinPerCand     float64 `json:"min_per_candidate"`
	MaxPerCand     float64 `json:"max_per_candidate"`
	MidPerCand     float64 `json:"mid_per_candidate"`
	TotalVolume    float64 `json:"total_volume"`
	Multiplier     float64 `json:"multiplier"`
	Method         string  `json:"method"` // "llm" or "rule_based"
	DonationAmount float64 `json:"donation_amount,omitempty"`
}

// LeverageScore is the final per-race output with its full provenance trail.
// Races are sorted by Leverage descending, ties broken by fetch order.
type LeverageScore struct {
	Race            Race              `json:"race"`
	Identifier      Identifier        `json:"identifier"`
	Competitiveness FactorResult      `json:"competitiveness"`
	Saturation      FactorResult      `json:"saturation"`
	ImpactWeight    float64           `json:"impact_weight"`
	TimeBoost       float64           `json:"time_boost"`
	TimePriority    TimePriority      `json:"time_priority,omitempty"`
	Monetary        *MonetaryEstimate `json:"monetary,omitempty"`
	MarketMatch     *MatchResult      `json:"market_match,omitempty"`
	Leverage        float64           `json:"leverage"`
}
