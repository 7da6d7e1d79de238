package playerbar

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

const (
	filledBlock = "━"
	emptyBlock  = "─"
	mainMarker  = "┃"
)

// RenderProgressBar renders the unit timeline. The intro part is drawn in the
// secondary colour, the main part in the accent colour, with a marker where main
// starts.
// Format:  0:12  ━━━━━━┃━━━━────────  0:50
func RenderProgressBar(elapsed, intro, total float64, width int) string {
	posStr := formatSeconds(elapsed)
	durStr := formatSeconds(total)

	fixedWidth := lipgloss.Width(posStr) + 2 + 2 + lipgloss.Width(durStr)
	barWidth := width - fixedWidth

	if barWidth < 4 {
		return progressTimeStyle().Render(posStr + " / " + durStr)
	}

	ratio := 0.0
	if total > 0 {
		ratio = min(max(elapsed/total, 0), 1)
	}
	filled := min(int(float64(barWidth)*ratio), barWidth)

	marker := -1
	if total > 0 && intro > 0 && intro < total {
		marker = min(int(float64(barWidth)*intro/total), barWidth-1)
	}

	var bar strings.Builder
	for i := range barWidth {
		switch {
		case i == marker:
			style := progressBarEmpty()
			if i < filled {
				style = mainBarStyle()
			}
			bar.WriteString(style.Render(mainMarker))
		case i >= filled:
			bar.WriteString(progressBarEmpty().Render(emptyBlock))
		case marker >= 0 && i < marker:
			bar.WriteString(introBarStyle().Render(filledBlock))
		default:
			bar.WriteString(mainBarStyle().Render(filledBlock))
		}
	}

	return progressTimeStyle().Render(posStr) + "  " + bar.String() + "  " + progressTimeStyle().Render(durStr)
}

func formatSeconds(s float64) string {
	d := time.Duration(max(s, 0) * float64(time.Second))
	m := int(d.Minutes())
	sec := int(d.Seconds()) % 60
	return fmt.Sprintf("%d:%02d", m, sec)
}
