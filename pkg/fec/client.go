// Package fec is a client for the OpenFEC campaign-finance API. Only the
// two endpoints the saturation estimator needs are covered: candidate
// listings per race and per-candidate fundraising totals.
package fec

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/donorlens/leverage-cli/internal/model"
	"github.com/donorlens/leverage-cli/internal/resilience"
)

const defaultBaseURL = "https://api.open.fec.gov/v1"

// Candidate is one filer for a race with their best reported total.
type Candidate struct {
	ID       string
	Name     string
	Party    string
	Receipts float64
}

// Client calls the OpenFEC API with rate limiting and bounded retries.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	limiter    *rate.Limiter
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

// WithRateLimit overrides the request rate limiter.
func WithRateLimit(l *rate.Limiter) Option {
	return func(c *Client) { c.limiter = l }
}

// NewClient builds a Client. The default limiter stays under the OpenFEC
// 1000 requests/hour key quota with headroom for bursts.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		limiter:    rate.NewLimiter(rate.Every(4*time.Second), 4),
		retry: resilience.Policy{
			Attempts:  3,
			Base:      time.Second,
			Factor:    2,
			OnAttempt: resilience.LogAttempts("fec", "get"),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type candidatesPage struct {
	Results []struct {
		CandidateID string `json:"candidate_id"`
		Name        string `json:"name"`
		PartyFull   string `json:"party_full"`
		Party       string `json:"party"`
	} `json:"results"`
}

type totalsPage struct {
	Results []struct {
		Receipts float64 `json:"receipts"`
	} `json:"results"`
}

// CandidatesForRace lists FEC filers for the given office/state/district.
// The current and prior two-year cycle are both checked so early filers in
// a new cycle and late filers in the old one are all captured; each
// candidate's receipts is their maximum total across those cycles.
func (c *Client) CandidatesForRace(ctx context.Context, id model.Identifier, cycle int) ([]Candidate, error) {
	cycles := cyclesToCheck(cycle)

	var out []Candidate
	seen := map[string]bool{}

	for _, check := range cycles {
		q := url.Values{
			"office":   {string(id.Office)},
			"state":    {id.State},
			"cycle":    {fmt.Sprint(check)},
			"per_page": {"100"},
		}
		if check == cycle {
			q.Set("election_year", fmt.Sprint(check))
		}
		if id.Office == model.OfficeHouse && id.HasDistrict {
			q.Set("district", fmt.Sprintf("%02d", id.District))
		}

		var page candidatesPage
		if err := c.get(ctx, "/candidates/", q, &page); err != nil {
			return nil, eris.Wrap(err, "fec: list candidates")
		}

		for _, r := range page.Results {
			if r.CandidateID == "" || seen[r.CandidateID] {
				continue
			}
			seen[r.CandidateID] = true

			receipts, err := c.maxReceipts(ctx, r.CandidateID, cycles)
			if err != nil {
				zap.L().Warn("fec: totals lookup failed, recording zero receipts",
					zap.String("candidate_id", r.CandidateID), zap.Error(err))
			}

			party := r.PartyFull
			if party == "" {
				party = r.Party
			}
			out = append(out, Candidate{
				ID:       r.CandidateID,
				Name:     r.Name,
				Party:    party,
				Receipts: receipts,
			})
		}
	}
	return out, nil
}

// TotalReceipts sums every candidate's best reported total for the race.
func (c *Client) TotalReceipts(ctx context.Context, id model.Identifier, cycle int) (float64, error) {
	cands, err := c.CandidatesForRace(ctx, id, cycle)
	if err != nil {
		return 0, err
	}
	var total float64
	for _, cand := range cands {
		total += cand.Receipts
	}
	return total, nil
}

func (c *Client) maxReceipts(ctx context.Context, candidateID string, cycles []int) (float64, error) {
	var maxR float64
	for _, cycle := range cycles {
		q := url.Values{
			"cycle":    {fmt.Sprint(cycle)},
			"per_page": {"100"},
		}
		var page totalsPage
		if err := c.get(ctx, "/candidate/"+candidateID+"/totals/", q, &page); err != nil {
			return maxR, err
		}
		for _, t := range page.Results {
			if t.Receipts > maxR {
				maxR = t.Receipts
			}
		}
	}
	return maxR, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, into any) error {
	return resilience.RetryErr(ctx, c.retry, func(ctx context.Context) error {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		q.Set("api_key", c.apiKey)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
		if err != nil {
			return eris.Wrap(err, "fec: build request")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
			return resilience.NewStatusError("fec", resp.StatusCode, string(body))
		}
		return json.NewDecoder(resp.Body).Decode(into)
	})
}

// cyclesToCheck returns the cycle plus the prior one for recent elections,
// most recent first.
func cyclesToCheck(cycle int) []int {
	cycles := []int{cycle}
	if cycle >= 2024 {
		cycles = append(cycles, cycle-2)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(cycles)))
	return cycles
}
