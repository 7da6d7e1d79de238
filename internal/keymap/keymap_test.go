package keymap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestByContext(t *testing.T) {
	tests := []struct {
		context string
		want    []Action
	}{
		{"global", []Action{ActionQuit, ActionHelp}},
		{"playback", []Action{ActionPlayPause, ActionStop, ActionNextUnit, ActionPrevUnit}},
		{"mix", []Action{ActionKeyUp, ActionTempoDown, ActionToggleAlternate, ActionToggleRecombine}},
		{"playlist", []Action{ActionExportPlaylist, ActionSavePlaylist}},
		{"unknown", nil},
	}

	for _, tt := range tests {
		t.Run(tt.context, func(t *testing.T) {
			result := ByContext(tt.context)
			actions := make([]Action, len(result))
			for i, b := range result {
				assert.Equal(t, tt.context, b.Context)
				actions[i] = b.Action
			}
			if tt.want == nil {
				assert.Empty(t, result)
				return
			}
			assert.Subset(t, actions, tt.want)
		})
	}
}

func TestBindingsHaveRequiredFields(t *testing.T) {
	valid := map[string]bool{"global": true, "playback": true, "mix": true, "playlist": true}
	for i, b := range Bindings {
		assert.NotEmpty(t, b.Action, "binding[%d]", i)
		assert.NotEmpty(t, b.Keys, "binding[%d] (%s)", i, b.Action)
		assert.NotEmpty(t, b.Description, "binding[%d] (%s)", i, b.Action)
		assert.True(t, valid[b.Context], "binding[%d] (%s) context %q", i, b.Action, b.Context)
	}
}

func TestBindingsHaveNoKeyConflicts(t *testing.T) {
	seen := make(map[string]Action)
	for _, b := range Bindings {
		for _, k := range b.Keys {
			if prev, ok := seen[k]; ok {
				t.Errorf("key %q bound to %s and %s", k, prev, b.Action)
			}
			seen[k] = b.Action
		}
	}
}

func TestHelp(t *testing.T) {
	help := Help(ByContext("playback"))
	assert.Len(t, help, 4)
	assert.Equal(t, "space", help[0].Help().Key)
	assert.Equal(t, "play/pause", help[0].Help().Desc)
	assert.Equal(t, []string{"n", "pgdown"}, help[2].Keys())
}
