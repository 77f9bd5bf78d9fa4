package components

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/angristan/lifx-tui/internal/tui/styles"
)

// RenderHeader renders the application header. A zero lastPoll means no
// snapshot has arrived yet.
func RenderHeader(width int, status string, lastPoll time.Time) string {
	title := " LIFX "

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(styles.ColorText).
		Background(styles.ColorPrimary).
		Padding(0, 1)

	statusStyle := lipgloss.NewStyle().
		Foreground(styles.ColorSuccess).
		Padding(0, 1)

	if status == "" {
		status = "Disconnected"
		statusStyle = statusStyle.Foreground(styles.ColorError)
	}

	left := titleStyle.Render(title) + statusStyle.Render(status)

	right := ""
	if !lastPoll.IsZero() {
		right = styles.StyleTextMuted.Padding(0, 1).Render("updated " + lastPoll.Format("15:04:05"))
	}

	// Calculate spacing
	spacing := width - lipgloss.Width(left) - lipgloss.Width(right)
	if spacing < 0 {
		spacing = 0
	}

	return left + strings.Repeat(" ", spacing) + right
}
