package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/angristan/lifx-tui/internal/cards"
	"github.com/angristan/lifx-tui/internal/tui/styles"
)

// CardWidth returns the width of one card for the available space
func CardWidth(maxWidth int) int {
	cardWidth := maxWidth / 3
	if cardWidth < 26 {
		cardWidth = 26
	}
	if cardWidth > 40 {
		cardWidth = 40
	}
	return cardWidth
}

// RenderLightCard renders a single light card. When editor is non-empty
// it replaces the title line.
func RenderLightCard(card *cards.Card, selected bool, maxWidth int, editor string) string {
	cardWidth := CardWidth(maxWidth)
	inner := cardWidth - 4

	// Name styling based on state
	nameStyle := styles.StyleLightName
	if !card.On || card.Stale {
		nameStyle = styles.StyleLightNameDim
	}

	title := nameStyle.Render(truncate(card.Title(), inner))
	if editor != "" {
		title = editor
	}

	// Power control
	power := styles.StylePowerOff.Render("○ Off")
	if card.On {
		power = styles.StylePowerOn.Render("● On")
	}
	if card.Stale {
		power += " " + styles.StyleWarning.Render("offline")
	}

	// Color control
	swatch := lipgloss.NewStyle().
		Background(lipgloss.Color(card.Color)).
		Render("    ")
	color := fmt.Sprintf("%s %s", swatch, styles.StyleTextMuted.Render(card.Color))
	if card.Kelvin > 0 {
		color += styles.StyleTextMuted.Render(fmt.Sprintf("  %dK", card.Kelvin))
	}

	lines := []string{title, power, color}

	if card.Label != "" {
		lines = append(lines, styles.StyleHelp.Render(truncate(card.ID, inner)))
	}
	if card.Firmware != "" {
		lines = append(lines, styles.StyleHelp.Render(truncate("fw "+card.Firmware, inner)))
	}

	// Card style based on selection
	cardStyle := styles.StyleLightCard
	switch {
	case selected:
		cardStyle = styles.StyleLightCardSelected
	case card.Stale:
		cardStyle = styles.StyleLightCardStale
	}

	return cardStyle.Width(cardWidth).Render(strings.Join(lines, "\n"))
}

func truncate(s string, maxLen int) string {
	if maxLen <= 1 || lipgloss.Width(s) <= maxLen {
		return s
	}
	r := []rune(s)
	if len(r) > maxLen-1 {
		r = r[:maxLen-1]
	}
	return string(r) + "…"
}
