// Package kalshi is a client for the Kalshi elections search API. The
// pipeline only needs free-text series search; trading endpoints are out
// of scope.
package kalshi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/donorlens/leverage-cli/internal/model"
	"github.com/donorlens/leverage-cli/internal/resilience"
)

const defaultBaseURL = "https://api.elections.kalshi.com/v1"

// Client searches Kalshi market series. The search endpoint is public;
// no API key is required.
type Client struct {
	httpClient *http.Client
	baseURL    string
	retry      resilience.Policy
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint, used by tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// NewClient builds a Client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    defaultBaseURL,
		retry: resilience.Policy{
			Attempts:  3,
			Base:      time.Second,
			Factor:    2,
			OnAttempt: resilience.LogAttempts("kalshi", "search_series"),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type seriesNode struct {
	SeriesTitle       string       `json:"series_title"`
	EventTitle        string       `json:"event_title"`
	SeriesTicker      string       `json:"series_ticker"`
	EventTicker       string       `json:"event_ticker"`
	TotalSeriesVolume float64      `json:"total_series_volume"`
	Markets           []marketNode `json:"markets"`
}

type marketNode struct {
	Ticker    string  `json:"ticker"`
	LastPrice float64 `json:"last_price"`
	YesBid    float64 `json:"yes_bid"`
	YesAsk    float64 `json:"yes_ask"`
}

// searchPage tolerates both response shapes the search endpoint returns.
type searchPage struct {
	CurrentPage []seriesNode `json:"current_page"`
	Series      []seriesNode `json:"series"`
}

// SearchSeries runs an embedding-assisted text search and returns candidate
// series in the provider's relevance order. An empty result is not an error.
func (c *Client) SearchSeries(ctx context.Context, query string) ([]model.MarketCandidate, error) {
	q := url.Values{
		"query":            {query},
		"embedding_search": {"true"},
		"order_by":         {"querymatch"},
	}

	page, err := resilience.Retry(ctx, c.retry, func(ctx context.Context) (searchPage, error) {
		var page searchPage
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search/series?"+q.Encode(), nil)
		if err != nil {
			return page, eris.Wrap(err, "kalshi: build request")
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return page, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
			return page, resilience.NewStatusError("kalshi", resp.StatusCode, string(body))
		}
		return page, json.NewDecoder(resp.Body).Decode(&page)
	})
	if err != nil {
		return nil, eris.Wrap(err, "kalshi: search series")
	}

	nodes := page.CurrentPage
	if len(nodes) == 0 {
		nodes = page.Series
	}

	out := make([]model.MarketCandidate, 0, len(nodes))
	for _, n := range nodes {
		title := n.SeriesTitle
		if title == "" {
			title = n.EventTitle
		}
		ticker := n.SeriesTicker
		if ticker == "" {
			ticker = n.EventTicker
		}
		cand := model.MarketCandidate{
			Title:  title,
			Ticker: ticker,
			Volume: n.TotalSeriesVolume,
		}
		for _, m := range n.Markets {
			cand.Outcomes = append(cand.Outcomes, model.OutcomeQuote{
				Ticker:    m.Ticker,
				LastPrice: m.LastPrice,
				YesBid:    m.YesBid,
				YesAsk:    m.YesAsk,
			})
		}
		out = append(out, cand)
	}

	zap.L().Debug("kalshi: search complete",
		zap.String("query", query),
		zap.Int("series", len(out)),
	)
	return out, nil
}
