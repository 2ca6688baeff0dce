package civicengine

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/donorlens/leverage-cli/internal/model"
)

const upcomingElectionsQuery = `
query UpcomingElections($from: ISO8601Date!, $first: Int!) {
  elections(filterBy: { electionDay: { gte: $from } }, first: $first) {
    nodes {
      id
      name
      electionDay
      races(first: 200) {
        nodes {
          id
          position {
            name
            level
          }
          candidacies {
            id
            candidate {
              fullName
            }
          }
        }
      }
    }
  }
}`

// ListOptions bounds the race listing window.
type ListOptions struct {
	// MonthsAhead drops races further out than this many months. 0 means
	// no limit.
	MonthsAhead int

	// IncludePast keeps races whose election day already passed.
	IncludePast bool

	// MaxElections caps how many elections the provider returns per query.
	MaxElections int
}

// DefaultListOptions mirrors the pipeline's standard 18-month forward window.
func DefaultListOptions() ListOptions {
	return ListOptions{MonthsAhead: 18, MaxElections: 100}
}

type electionsData struct {
	Elections struct {
		Nodes []struct {
			ID          string `json:"id"`
			Name        string `json:"name"`
			ElectionDay string `json:"electionDay"`
			Races       struct {
				Nodes []struct {
					ID       string `json:"id"`
					Position struct {
						Name  string `json:"name"`
						Level string `json:"level"`
					} `json:"position"`
					Candidacies []struct {
						ID        string `json:"id"`
						Candidate struct {
							FullName string `json:"fullName"`
						} `json:"candidate"`
					} `json:"candidacies"`
				} `json:"nodes"`
			} `json:"races"`
		} `json:"nodes"`
	} `json:"elections"`
}

// ListRaces fetches upcoming state and federal races within the window.
// Races at other levels, unnamed positions, and out-of-window elections are
// dropped; the provider's ordering is otherwise preserved.
func (c *Client) ListRaces(ctx context.Context, now time.Time, opts ListOptions) ([]model.Race, error) {
	if opts.MaxElections <= 0 {
		opts.MaxElections = 100
	}

	var data electionsData
	err := c.query(ctx, upcomingElectionsQuery, map[string]any{
		"from":  now.AddDate(0, 0, -14).Format("2006-01-02"),
		"first": opts.MaxElections,
	}, &data)
	if err != nil {
		return nil, err
	}

	today := now.Truncate(24 * time.Hour)
	var out []model.Race
	for _, election := range data.Elections.Nodes {
		day, dayErr := time.Parse("2006-01-02", election.ElectionDay)
		if dayErr == nil {
			if !opts.IncludePast && day.Before(today) {
				continue
			}
			if opts.MonthsAhead > 0 && monthsBetween(today, day) > opts.MonthsAhead {
				continue
			}
		}

		for _, race := range election.Races.Nodes {
			level := model.Level(race.Position.Level)
			if race.Position.Name == "" || (level != model.LevelState && level != model.LevelFederal) {
				continue
			}

			r := model.Race{
				ID:           race.ID,
				Name:         race.Position.Name,
				Level:        level,
				ElectionName: election.Name,
			}
			if dayErr == nil {
				r.ElectionDay = day
			}
			for _, cand := range race.Candidacies {
				if cand.Candidate.FullName == "" {
					continue
				}
				r.Candidacies = append(r.Candidacies, model.Candidacy{
					ID:   cand.ID,
					Name: cand.Candidate.FullName,
				})
			}
			out = append(out, r)
		}
	}

	logQuery("listed races", zap.Int("races", len(out)))
	return out, nil
}

func monthsBetween(from, to time.Time) int {
	return (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
}
