package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/llehouerou/duet/internal/catalog"
	"github.com/llehouerou/duet/internal/mix"
)

func TestUrgencyValues(t *testing.T) {
	assert.Equal(t, Urgency(0), UrgencyLow)
	assert.Equal(t, Urgency(1), UrgencyNormal)
	assert.Equal(t, Urgency(2), UrgencyCritical)
}

func TestForUnit(t *testing.T) {
	u := &mix.Unit{
		Key:   7,
		Tempo: 102,
		Tracks: [2]mix.Track{
			{Song: catalog.Song{Title: "Night Drive", Artist: "Kessel"}},
			{Song: catalog.Song{Title: "Glass"}},
		},
	}

	n := ForUnit(u, 12)

	assert.Equal(t, "Key 7 · 102 bpm", n.Title)
	assert.Equal(t, "Kessel - Night Drive\nGlass", n.Body)
	assert.Equal(t, uint32(12), n.ReplacesID)
	assert.Equal(t, UrgencyLow, n.Urgency)
	assert.Positive(t, n.Timeout)
}
