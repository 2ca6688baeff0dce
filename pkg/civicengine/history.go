package civicengine

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/donorlens/leverage-cli/internal/model"
	"github.com/donorlens/leverage-cli/internal/parse"
)

// Winner is one past general-election result for a position. Party is left
// blank here; the caller resolves it through the campaign-finance provider.
type Winner struct {
	Year        int    `json:"year"`
	Name        string `json:"name"`
	Party       string `json:"party,omitempty"`
	BioguideID  string `json:"bioguide_id,omitempty"`
	ElectionDay string `json:"election_day,omitempty"`
	General     bool   `json:"general"`
}

// The level enum must be inlined: the positions filter does not accept it
// as a variable.
const positionRacesQueryTmpl = `
query GetPositionAndRaces($positionName: String!) {
  positions(
    filterBy: {
      name: { contains: $positionName }
      level: %s
    }
    first: 20
  ) {
    nodes {
      id
      name
      level
      races(first: 100, orderBy: {field: ELECTION_DAY, direction: DESC}) {
        nodes {
          id
          election {
            name
            electionDay
          }
          candidacies {
            result
            candidate {
              fullName
              bioguideId
            }
          }
        }
      }
    }
  }
}`

type positionsData struct {
	Positions struct {
		Nodes []positionNode `json:"nodes"`
	} `json:"positions"`
}

type positionNode struct {
	Name  string `json:"name"`
	Races struct {
		Nodes []historicalRaceNode `json:"nodes"`
	} `json:"races"`
}

type historicalRaceNode struct {
	Election struct {
		Name        string `json:"name"`
		ElectionDay string `json:"electionDay"`
	} `json:"election"`
	Candidacies []struct {
		Result    string `json:"result"`
		Candidate struct {
			FullName   string `json:"fullName"`
			BioguideID string `json:"bioguideId"`
		} `json:"candidate"`
	} `json:"candidacies"`
}

var historyDistrictRe = regexp.MustCompile(`(?i)(\d+)(?:st|nd|rd|th)?\s+Congressional`)
var historyPlainDistrictRe = regexp.MustCompile(`(?i)District\s+(\d+)`)

// HistoricalWinners returns past general-election winners for the position
// behind raceName, most recent first, limited to yearsBack years. An empty
// result is a legitimate outcome for positions with no recorded history.
func (c *Client) HistoricalWinners(ctx context.Context, raceName string, level model.Level, id model.Identifier, yearsBack int, now time.Time) ([]Winner, error) {
	pattern := raceName
	if full := parse.StateName(id.State); full != "" && level != model.LevelCity {
		pattern = full
	}

	doc := fmt.Sprintf(positionRacesQueryTmpl, positionLevelEnum(level))
	var data positionsData
	if err := c.query(ctx, doc, map[string]any{"positionName": pattern}, &data); err != nil {
		return nil, err
	}

	position := matchPosition(data, id, raceName)
	if position == nil {
		logQuery("no matching position", zap.String("race", raceName))
		return nil, nil
	}

	today := now.Format("2006-01-02")
	byYear := map[int]Winner{}

	for _, race := range position.Races.Nodes {
		day := race.Election.ElectionDay
		if day == "" || day >= today || len(day) < 7 {
			continue
		}
		year := atoi4(day[:4])
		if year == 0 {
			continue
		}

		electionName := strings.ToLower(race.Election.Name)
		general := day[5:7] == "11" ||
			strings.Contains(electionName, "general") ||
			(!strings.Contains(electionName, "primary") && !strings.Contains(electionName, "special"))

		for _, cand := range race.Candidacies {
			result := strings.ToUpper(cand.Result)
			if result != "WON" && result != "WIN" {
				continue
			}
			if cand.Candidate.FullName == "" {
				continue
			}
			// Prefer the general-election result when a year has several races.
			if existing, ok := byYear[year]; ok && (existing.General || !general) {
				continue
			}
			byYear[year] = Winner{
				Year:        year,
				Name:        cand.Candidate.FullName,
				BioguideID:  cand.Candidate.BioguideID,
				ElectionDay: day,
				General:     general,
			}
		}
	}

	cutoff := now.Year() - yearsBack
	winners := make([]Winner, 0, len(byYear))
	for _, w := range byYear {
		if yearsBack > 0 && w.Year < cutoff {
			continue
		}
		winners = append(winners, w)
	}
	sort.Slice(winners, func(i, j int) bool { return winners[i].Year > winners[j].Year })

	logQuery("historical winners", zap.String("race", raceName), zap.Int("winners", len(winners)))
	return winners, nil
}

func positionLevelEnum(level model.Level) string {
	switch level {
	case model.LevelFederal:
		return "FEDERAL"
	case model.LevelCity, model.LevelLocal:
		return "CITY"
	default:
		return "STATE"
	}
}

// matchPosition picks the exact position among the name-contains results,
// using the parsed office and district the same way the race parser does.
func matchPosition(data positionsData, id model.Identifier, raceName string) *positionNode {
	stateFull := parse.StateName(id.State)

	for i := range data.Positions.Nodes {
		pos := &data.Positions.Nodes[i]
		name := pos.Name

		switch id.Office {
		case model.OfficeHouse:
			if stateFull != "" && strings.Contains(name, stateFull) && strings.Contains(name, "House of Representatives") {
				if id.HasDistrict {
					if districtOf(name) == id.District {
						return pos
					}
				} else if strings.Contains(name, "At Large") || strings.Contains(strings.ToLower(name), "at-large") {
					return pos
				}
			}
		case model.OfficeSenate:
			if stateFull != "" && strings.Contains(name, stateFull) && strings.Contains(name, "U.S. Senate") {
				return pos
			}
		case model.OfficeStateSenate:
			if stateFull != "" && strings.Contains(name, stateFull) && strings.Contains(name, "State Senate") && !strings.Contains(name, "U.S.") {
				if !id.HasDistrict || districtOf(name) == id.District {
					return pos
				}
			}
		case model.OfficeStateHouse:
			if stateFull != "" && strings.Contains(name, stateFull) &&
				(strings.Contains(name, "State House") || strings.Contains(name, "House of Representatives")) &&
				!strings.Contains(name, "U.S.") {
				if !id.HasDistrict || districtOf(name) == id.District {
					return pos
				}
			}
		case model.OfficeGovernor:
			if stateFull != "" && strings.Contains(name, stateFull) && strings.Contains(name, "Governor") {
				return pos
			}
		default:
			if stateFull == "" || !strings.Contains(name, stateFull) {
				continue
			}
			lower := strings.ToLower(name)
			for _, term := range strings.Fields(raceName) {
				t := strings.ToLower(term)
				if t == "-" || t == "of" || t == "the" || t == "and" {
					continue
				}
				if strings.Contains(lower, t) {
					return pos
				}
			}
		}
	}
	return nil
}

func districtOf(positionName string) int {
	if m := historyDistrictRe.FindStringSubmatch(positionName); m != nil {
		return atoi4(m[1])
	}
	if m := historyPlainDistrictRe.FindStringSubmatch(positionName); m != nil {
		return atoi4(m[1])
	}
	return 0
}

func atoi4(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
	}
	return n
}
