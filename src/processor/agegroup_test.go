package processor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAgeGroupsBijective(t *testing.T) {
	require.Len(t, AgeGroups, 19)

	labels := make(map[string]bool)
	midpoints := make(map[float64]bool)
	for _, g := range AgeGroups {
		labels[g.Label] = true
		midpoints[g.Midpoint] = true

		mid, ok := MidpointOf(g.Label)
		require.True(t, ok, g.Label)
		assert.Equal(t, g.Midpoint, mid)

		band, ok := BandOf(g.Midpoint)
		require.True(t, ok)
		assert.Equal(t, g.Label, band)
	}
	assert.Len(t, labels, len(AgeGroups))
	assert.Len(t, midpoints, len(AgeGroups))
}

func TestAgeGroupValues(t *testing.T) {
	assert.Equal(t, AgeGroup{Label: "00-04", Midpoint: 2.5}, AgeGroups[0])
	assert.Equal(t, AgeGroup{Label: "20-24", Midpoint: 22.5}, AgeGroups[4])
	assert.Equal(t, AgeGroup{Label: "85-89", Midpoint: 87.5}, AgeGroups[17])
	assert.Equal(t, AgeGroup{Label: "90+", Midpoint: 92.5}, AgeGroups[18])

	_, ok := MidpointOf("95-99")
	assert.False(t, ok)
	_, ok = BandOf(3)
	assert.False(t, ok)
}

func TestAgeGroupFrame(t *testing.T) {
	df := AgeGroupFrame()
	require.NoError(t, df.Err)
	assert.Equal(t, []string{ColAgeGroup, ColAge}, df.Names())
	assert.Equal(t, 19, df.Nrow())
	assert.Equal(t, 92.5, df.Col(ColAge).Float()[18])
}
