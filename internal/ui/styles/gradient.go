package styles

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rivo/uniseg"
)

// ApplyKeyGradient renders bold text that walks the key wheel from fromKey to
// toKey, one grapheme cluster per step, taking the shorter way round.
func ApplyKeyGradient(text string, fromKey, toKey, keyCount int) string {
	if text == "" {
		return ""
	}
	var clusters []string
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		clusters = append(clusters, gr.Str())
	}
	if keyCount <= 0 || len(clusters) < 2 {
		return KeyStyle(fromKey, keyCount).Render(text)
	}

	colors := keyGradient(len(clusters), fromKey, toKey, keyCount)
	var b strings.Builder
	for i, cluster := range clusters {
		b.WriteString(lipgloss.NewStyle().Foreground(colors[i]).Bold(true).Render(cluster))
	}
	return b.String()
}

// keyGradient returns size colours (size >= 2) evenly spaced in hue between
// the two keys' wheel colours.
func keyGradient(size, fromKey, toKey, keyCount int) []lipgloss.Color {
	from, to := keyHue(fromKey, keyCount), keyHue(toKey, keyCount)
	span := math.Mod(to-from+540, 360) - 180
	colors := make([]lipgloss.Color, size)
	for i := range size {
		t := float64(i) / float64(size-1)
		colors[i] = wheelColor(math.Mod(from+span*t+360, 360))
	}
	return colors
}

func keyHue(key, keyCount int) float64 {
	step := ((key-1)%keyCount + keyCount) % keyCount
	return float64(step) * 360 / float64(keyCount)
}

func wheelColor(hue float64) lipgloss.Color {
	return lipgloss.Color(colorful.Hcl(hue, 0.55, 0.72).Clamped().Hex())
}
