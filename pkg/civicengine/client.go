// Package civicengine is a GraphQL client for the CivicEngine ballot data
// API. It covers the two reads the pipeline needs: upcoming state/federal
// races and historical winners for a position.
package civicengine

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/donorlens/leverage-cli/internal/resilience"
)

const defaultEndpoint = "https://bpi.civicengine.com/graphql"

// Client posts GraphQL queries with bearer-token auth.
type Client struct {
	httpClient *http.Client
	endpoint   string
	token      string
	retry      resilience.Policy
}

// Option customizes a Client.
type Option func(*Client)

// WithEndpoint overrides the GraphQL endpoint, used by tests.
func WithEndpoint(u string) Option {
	return func(c *Client) { c.endpoint = u }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// NewClient builds a Client.
func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		endpoint:   defaultEndpoint,
		token:      token,
		retry: resilience.Policy{
			Attempts:  3,
			Base:      time.Second,
			Factor:    2,
			OnAttempt: resilience.LogAttempts("civicengine", "graphql"),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type gqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type gqlEnvelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// query posts one GraphQL document and decodes the data payload into out.
// GraphQL-level errors are returned as Go errors; partial data is dropped.
func (c *Client) query(ctx context.Context, doc string, vars map[string]any, out any) error {
	body, err := json.Marshal(gqlRequest{Query: doc, Variables: vars})
	if err != nil {
		return eris.Wrap(err, "civicengine: encode request")
	}

	env, err := resilience.Retry(ctx, c.retry, func(ctx context.Context) (gqlEnvelope, error) {
		var env gqlEnvelope
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
		if err != nil {
			return env, eris.Wrap(err, "civicengine: build request")
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.token)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return env, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
			return env, resilience.NewStatusError("civicengine", resp.StatusCode, string(b))
		}
		return env, json.NewDecoder(resp.Body).Decode(&env)
	})
	if err != nil {
		return eris.Wrap(err, "civicengine: query")
	}

	if len(env.Errors) > 0 {
		return eris.Errorf("civicengine: graphql error: %s", env.Errors[0].Message)
	}
	if out != nil && env.Data != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return eris.Wrap(err, "civicengine: decode data")
		}
	}
	return nil
}

func logQuery(op string, fields ...zap.Field) {
	zap.L().Debug("civicengine: "+op, fields...)
}
