// Package playerbar renders the now-playing panel of the mixer.
package playerbar

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/llehouerou/duet/internal/catalog"
	"github.com/llehouerou/duet/internal/icons"
	"github.com/llehouerou/duet/internal/mix"
	"github.com/llehouerou/duet/internal/modes"
	"github.com/llehouerou/duet/internal/playback"
	"github.com/llehouerou/duet/internal/ui/render"
	"github.com/llehouerou/duet/internal/ui/styles"
)

// Height is the panel height: three content rows plus the border.
const Height = 5

// State holds everything needed to render the player bar.
type State struct {
	Status  playback.State
	Loading bool

	Seq         int
	Pair        [2]string // "Artist - Title" of the primary tracks
	Next        [2]string
	Key         int
	Tempo       int
	TargetKey   int
	TargetTempo int

	Elapsed float64
	Intro   float64
	Total   float64

	Mode            modes.Mode
	AlternateVolume float64

	Played int
	Songs  int
	Wave   int
}

// NewState extracts the player bar state from a scheduler snapshot.
func NewState(snap playback.Snapshot) State {
	s := State{
		Status:          snap.State,
		Loading:         snap.Loading,
		Key:             snap.Key,
		Tempo:           snap.Tempo,
		TargetKey:       snap.TargetKey,
		TargetTempo:     snap.TargetTempo,
		Mode:            snap.Mode,
		AlternateVolume: snap.AlternateVolume,
		Played:          snap.Played,
		Songs:           snap.Songs,
		Wave:            snap.Wave,
	}
	if u := snap.Unit; u != nil {
		s.Seq = u.Seq
		s.Pair = pairNames(u)
		s.Elapsed = snap.Elapsed()
		s.Intro = snap.MainStart - snap.Start
		s.Total = snap.End - snap.Start
	}
	if snap.Next != nil {
		s.Next = pairNames(snap.Next)
	}
	return s
}

func pairNames(u *mix.Unit) [2]string {
	return [2]string{u.Tracks[0].Song.String(), u.Tracks[1].Song.String()}
}

// Render returns the player bar for the given width.
func Render(s State, width int) string {
	innerWidth := max(width-4, 10) // border and padding
	lines := []string{
		renderHeader(s, innerWidth),
		renderProgress(s, innerWidth),
		renderFooter(s, innerWidth),
	}
	return barStyle().Width(width - 2).Render(strings.Join(lines, "\n"))
}

func renderHeader(s State, width int) string {
	ic := icons.Current()
	status := ic.Stop
	switch s.Status {
	case playback.StatePlaying:
		status = ic.Play
	case playback.StatePaused:
		status = ic.Pause
	case playback.StateIdle:
	}
	if s.Loading && s.Seq == 0 {
		status = ic.Loading
	}

	right := renderTargets(s)

	var left string
	if s.Seq == 0 {
		left = status + "  " + artistStyle().Render("nothing playing")
	} else {
		pair := titleStyle().Render(render.Sanitize(s.Pair[0])) +
			artistStyle().Render("  ×  ") +
			titleStyle().Render(render.Sanitize(s.Pair[1]))
		left = status + " " + metaStyle().Render(fmt.Sprintf("#%d", s.Seq)) + "  " + pair
	}
	return render.Row(left, right, width)
}

// renderTargets shows key and tempo, with an arrow to the target when the next units
// are being built for a different one.
func renderTargets(s State) string {
	ic := icons.Current()
	key := styles.KeyStyle(s.Key, catalog.KeyCount).Render(fmt.Sprint(s.Key))
	if s.TargetKey != s.Key {
		key += metaStyle().Render(" → ") + styles.KeyStyle(s.TargetKey, catalog.KeyCount).Render(fmt.Sprint(s.TargetKey))
	}
	tempo := titleStyle().Render(fmt.Sprint(s.Tempo))
	if s.TargetTempo != s.Tempo {
		tempo += metaStyle().Render(" → ") + titleStyle().Render(fmt.Sprint(s.TargetTempo))
	}
	return icons.Labeled(ic.Key, key) + "   " + icons.Labeled(ic.Tempo, tempo)
}

func renderProgress(s State, width int) string {
	if s.Seq == 0 {
		return render.Separator(width)
	}
	return RenderProgressBar(s.Elapsed, s.Intro, s.Total, width)
}

func renderFooter(s State, width int) string {
	ic := icons.Current()

	var mode string
	switch s.Mode {
	case modes.Alternating:
		mode = modeStyle().Render(icons.Labeled(ic.Alternate, "alternate")) +
			artistStyle().Render(fmt.Sprintf("  %s %d%%", ic.Volume, int(s.AlternateVolume*100+0.5)))
	case modes.Recombining:
		mode = modeStyle().Render(icons.Labeled(ic.Recombine, "recombine"))
	case modes.None:
	}

	var next string
	if s.Next[0] != "" {
		next = metaStyle().Render("next ") + artistStyle().Render(render.Sanitize(s.Next[0])+" × "+render.Sanitize(s.Next[1]))
		if s.Loading {
			next += metaStyle().Render(" " + ic.Loading)
		}
	} else if s.Loading && s.Seq > 0 {
		next = metaStyle().Render("next " + ic.Loading)
	}

	left := strings.TrimSpace(strings.Join([]string{mode, next}, "   "))
	right := metaStyle().Render(coverage(s))
	return render.Row(left, right, width)
}

// coverage reads like "wave 2 · 37 of 1,204 songs".
func coverage(s State) string {
	return fmt.Sprintf("wave %d · %s of %s songs",
		s.Wave+1, humanize.Comma(int64(s.Played)), humanize.Comma(int64(s.Songs)))
}
