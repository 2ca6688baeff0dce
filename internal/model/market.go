package model

// OutcomeQuote is one outcome's price quotes within a market series.
// Prices are in cents (1-99) per Kalshi-style binary contracts.
type OutcomeQuote struct {
	Ticker    string  `json:"ticker,omitempty"`
	LastPrice float64 `json:"last_price,omitempty"`
	YesBid    float64 `json:"yes_bid,omitempty"`
	YesAsk    float64 `json:"yes_ask,omitempty"`
}

// Price returns the best available price signal for the outcome, preferring
// last trade over bid over ask. Returns (0, false) when no quote exists.
func (q OutcomeQuote) Price() (float64, bool) {
	switch {
	case q.LastPrice > 0:
		return q.LastPrice, true
	case q.YesBid > 0:
		return q.YesBid, true
	case q.YesAsk > 0:
		return q.YesAsk, true
	}
	return 0, false
}

// Spread returns the ask-bid spread floored at 1 to avoid degenerate logs.
func (q OutcomeQuote) Spread() float64 {
	s := q.YesAsk - q.YesBid
	if s < 1 {
		return 1
	}
	return s
}

// MarketCandidate is one prediction-market series returned by a text search.
// Ephemeral: fetched per race and discarded after best-match selection.
type MarketCandidate struct {
	Title    string         `json:"title"`
	Ticker   string         `json:"ticker"`
	Volume   float64        `json:"volume"`
	Outcomes []OutcomeQuote `json:"outcomes"`
}

// HasOutcomes reports whether the series carries usable outcome data.
func (m MarketCandidate) HasOutcomes() bool {
	return len(m.Outcomes) > 0
}

// MatchResult is the outcome of matching a race identifier against one
// market candidate.
type MatchResult struct {
	Valid    bool     `json:"valid"`
	Score    float64  `json:"score"` // 0-1 additive match quality
	Warnings []string `json:"warnings,omitempty"`
}
