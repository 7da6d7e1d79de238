package app

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/duet/internal/catalog"
	"github.com/llehouerou/duet/internal/keymap"
	"github.com/llehouerou/duet/internal/ui/playerbar"
	"github.com/llehouerou/duet/internal/ui/render"
	"github.com/llehouerou/duet/internal/ui/styles"
)

const defaultWidth = 80

var helpContexts = []string{"playback", "mix", "playlist", "global"}

// View renders the application UI.
func (m Model) View() string {
	width := m.Width
	if width <= 0 {
		width = defaultWidth
	}
	t := styles.T()

	title := styles.ApplyKeyGradient("duet", m.snap.Key, catalog.WrapKey(m.snap.Key+3), catalog.KeyCount)
	header := render.Row(" "+title, t.S().Subtle.Render("? help "), width)

	sections := []string{
		header,
		playerbar.Render(playerbar.NewState(m.snap), width),
		m.renderStatus(width),
	}

	if m.ShowHelp {
		sections = append(sections, m.renderFullHelp(width))
	} else {
		sections = append(sections, " "+m.Help.ShortHelpView(keymap.Help(keymap.ByContext("playback"))))
	}

	return strings.Join(sections, "\n")
}

func (m Model) renderStatus(width int) string {
	if m.Status == "" {
		return ""
	}
	style := styles.T().S().Success
	if m.StatusErr {
		style = styles.T().S().Error
	}
	return " " + render.Fit(style.Render(render.Sanitize(m.Status)), width-1)
}

func (m Model) renderFullHelp(width int) string {
	columns := make([]string, 0, len(helpContexts))
	for _, ctx := range helpContexts {
		bindings := keymap.ByContext(ctx)
		lines := []string{styles.T().S().Title.Render(ctx)}
		for _, b := range bindings {
			keys := strings.ReplaceAll(strings.Join(b.Keys, "/"), " ", "space")
			lines = append(lines, styles.T().S().Muted.Render(render.TruncateAndPad(keys, 12))+" "+b.Description)
		}
		columns = append(columns, lipgloss.NewStyle().MarginRight(3).Render(strings.Join(lines, "\n")))
	}
	lines := strings.Split(lipgloss.JoinHorizontal(lipgloss.Top, columns...), "\n")
	for i, l := range lines {
		lines[i] = render.Fit(l, width)
	}
	return strings.Join(lines, "\n")
}
