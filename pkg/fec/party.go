package fec

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/donorlens/leverage-cli/internal/model"
)

// CandidateParty resolves a candidate's party abbreviation via the FEC
// name-search endpoint. Returns "" when nothing matches; callers treat an
// unknown party as missing data, not an error.
func (c *Client) CandidateParty(ctx context.Context, name string, id model.Identifier, cycle int) (string, error) {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "", nil
	}
	lastName := strings.ToUpper(parts[len(parts)-1])

	q := url.Values{
		"q":        {lastName},
		"cycle":    {fmt.Sprint(cycle)},
		"per_page": {"10"},
	}
	if id.State != "" {
		q.Set("state", id.State)
	}

	var page struct {
		Results []struct {
			Name      string `json:"name"`
			State     string `json:"state"`
			District  string `json:"district"`
			PartyFull string `json:"party_full"`
			Party     string `json:"party"`
		} `json:"results"`
	}
	if err := c.get(ctx, "/candidates/search/", q, &page); err != nil {
		return "", err
	}

	if len(page.Results) == 0 {
		// Older winners may only appear in an earlier cycle's filings.
		if cycle > 2020 {
			return c.CandidateParty(ctx, name, id, cycle-2)
		}
		return "", nil
	}

	best := -1
	for i, r := range page.Results {
		if !strings.Contains(strings.ToUpper(r.Name), lastName) {
			continue
		}
		if id.HasDistrict {
			if r.District == fmt.Sprintf("%02d", id.District) && r.State == id.State {
				best = i
				break
			}
		} else if id.State != "" && r.State == id.State {
			best = i
			break
		}
	}
	if best == -1 {
		best = 0
	}

	party := page.Results[best].PartyFull
	if party == "" {
		party = page.Results[best].Party
	}
	return normalizeParty(party), nil
}

func normalizeParty(party string) string {
	if party == "" {
		return ""
	}
	upper := strings.ToUpper(party)
	switch {
	case strings.Contains(upper, "DEMOCRAT"):
		return "DEM"
	case strings.Contains(upper, "REPUBLICAN"):
		return "REP"
	case strings.Contains(upper, "INDEPENDENT"), upper == "IND":
		return "IND"
	case strings.Contains(upper, "GREEN"):
		return "GRN"
	case strings.Contains(upper, "LIBERTARIAN"):
		return "LIB"
	}
	if len(party) > 3 {
		return party[:3]
	}
	return party
}
