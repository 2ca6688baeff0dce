package monetary

import (
	"strings"

	"github.com/donorlens/leverage-cli/internal/model"
)

// Major cities where citywide races draw national-scale money.
var majorCities = []string{
	"NEW YORK", "NYC", "LOS ANGELES", "LA", "CHICAGO", "HOUSTON", "PHOENIX",
	"PHILADELPHIA", "SAN ANTONIO", "SAN DIEGO", "DALLAS", "SAN JOSE",
	"AUSTIN", "JACKSONVILLE", "SAN FRANCISCO", "COLUMBUS", "FORT WORTH",
	"CHARLOTTE", "INDIANAPOLIS", "SEATTLE", "DENVER", "WASHINGTON", "DC",
}

// States whose governor races routinely clear eight figures.
var largeStates = []string{
	"CALIFORNIA", "TEXAS", "FLORIDA", "NEW YORK", "PENNSYLVANIA",
	"ILLINOIS", "OHIO", "GEORGIA", "NORTH CAROLINA", "MICHIGAN",
	"NEW JERSEY", "VIRGINIA", "WASHINGTON", "ARIZONA", "MASSACHUSETTS",
	"TENNESSEE", "INDIANA", "MISSOURI",
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

// ClassifyRuleBased places a race into a spending category from its position
// name and level alone. It never fails; unplaceable races land in the
// default category.
func ClassifyRuleBased(race model.Race) string {
	name := strings.ToUpper(race.Name)

	switch race.Level {
	case model.LevelFederal:
		switch {
		case strings.Contains(name, "PRESIDENT"):
			return "presidential"
		case strings.Contains(name, "SENATE"):
			return "competitive_senate"
		case strings.Contains(name, "HOUSE") || strings.Contains(name, "REPRESENTATIVES"):
			return "competitive_house"
		}

	case model.LevelState:
		switch {
		case strings.Contains(name, "GOVERNOR"):
			if containsAny(name, largeStates) {
				return "governor_large_state"
			}
			return "governor_small_state"
		case strings.Contains(name, "SENATE"):
			return "state_senate_competitive"
		case strings.Contains(name, "HOUSE") || strings.Contains(name, "ASSEMBLY"):
			return "state_house"
		}

	case model.LevelLocal, model.LevelCity:
		switch {
		case strings.Contains(name, "MAYOR"):
			if containsAny(name, majorCities) {
				return "mayor_major_city"
			}
			return "mayor_mid_size_city"
		case strings.Contains(name, "COUNCIL"):
			if containsAny(name, majorCities) {
				return "city_council_major_city"
			}
			return "city_council_typical"
		case strings.Contains(name, "SCHOOL BOARD") || strings.Contains(name, "BOARD OF EDUCATION"):
			return "school_board"
		case strings.Contains(name, "COMMISSIONER") || strings.Contains(name, "COUNTY"):
			return "county_commissioner"
		}
	}

	return DefaultCategory
}
