package scoring

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultWeights(t *testing.T) {
	w := DefaultWeights()
	assert.Equal(t, 0.3, w.Historical.SafeSeat)
	assert.Equal(t, 0.9, w.Historical.MultiParty)
	assert.Equal(t, 1.0, w.Impact.Federal)
	assert.Equal(t, 0.8, w.Impact.Other)
	assert.Equal(t, 1.10, w.Time.ImmediateBoost)
	assert.Equal(t, 730, w.Time.DistantDays)
}

func TestLoadWeights_OverridesAndDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weights.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
scoring:
  historical:
    safe_seat: 0.25
  time:
    immediate_boost: 1.2
`), 0o644))

	w, err := LoadWeights(path)
	require.NoError(t, err)
	assert.Equal(t, 0.25, w.Historical.SafeSeat)
	assert.Equal(t, 1.2, w.Time.ImmediateBoost)

	// Keys absent from the file keep their defaults.
	assert.Equal(t, 0.8, w.Historical.TwoPartyAlternating)
	assert.Equal(t, 90, w.Time.ImmediateDays)
}

func TestLoadWeights_MissingFile(t *testing.T) {
	_, err := LoadWeights(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
