package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/donorlens/leverage-cli/internal/model"
)

func TestRaceName_House(t *testing.T) {
	id := RaceName("U.S. House of Representatives - North Carolina 9th Congressional District")
	assert.Equal(t, model.OfficeHouse, id.Office)
	assert.Equal(t, "NC", id.State)
	assert.True(t, id.HasDistrict)
	assert.Equal(t, 9, id.District)
	assert.True(t, id.Parseable())
}

func TestRaceName_Senate(t *testing.T) {
	id := RaceName("U.S. Senate - Ohio")
	assert.Equal(t, model.OfficeSenate, id.Office)
	assert.Equal(t, "OH", id.State)
	assert.False(t, id.HasDistrict)
	assert.Zero(t, id.District)
}

func TestRaceName_StateSenateNotFederal(t *testing.T) {
	id := RaceName("State Senate - Minnesota District 60")
	assert.Equal(t, model.OfficeStateSenate, id.Office)
	assert.Equal(t, "MN", id.State)
}

func TestRaceName_StateHouseDistrict(t *testing.T) {
	id := RaceName("State House of Representatives - Virginia 32nd District")
	assert.Equal(t, model.OfficeStateHouse, id.Office)
	assert.Equal(t, "VA", id.State)
	assert.True(t, id.HasDistrict)
	assert.Equal(t, 32, id.District)
}

func TestRaceName_AtLarge(t *testing.T) {
	id := RaceName("U.S. House of Representatives - Wyoming At Large")
	assert.Equal(t, model.OfficeHouse, id.Office)
	assert.Equal(t, "WY", id.State)
	assert.False(t, id.HasDistrict)
	assert.Zero(t, id.District)
}

func TestRaceName_PlainDistrictPattern(t *testing.T) {
	id := RaceName("U.S. House of Representatives - Texas District 7")
	assert.Equal(t, 7, id.District)
	assert.True(t, id.HasDistrict)
}

func TestRaceName_Governor(t *testing.T) {
	id := RaceName("Governor - California")
	assert.Equal(t, model.OfficeGovernor, id.Office)
	assert.Equal(t, "CA", id.State)
}

func TestRaceName_Unparseable(t *testing.T) {
	id := RaceName("Mayor - Springfield")
	assert.False(t, id.Parseable())
}

func TestRaceName_NoState(t *testing.T) {
	// Office resolves but state does not: still not parseable.
	id := RaceName("U.S. Senate special election")
	assert.Equal(t, model.OfficeSenate, id.Office)
	assert.Empty(t, id.State)
	assert.False(t, id.Parseable())
}

func TestRaceName_WestVirginiaBeforeVirginia(t *testing.T) {
	id := RaceName("U.S. Senate - West Virginia")
	assert.Equal(t, "WV", id.State)
}

func TestStateName(t *testing.T) {
	assert.Equal(t, "North Carolina", StateName("NC"))
	assert.Equal(t, "North Carolina", StateName("nc"))
	assert.Empty(t, StateName("XX"))
}

func TestStateFIPS(t *testing.T) {
	fips, ok := StateFIPS("CA")
	assert.True(t, ok)
	assert.Equal(t, "06", fips)

	_, ok = StateFIPS("ZZ")
	assert.False(t, ok)
}
