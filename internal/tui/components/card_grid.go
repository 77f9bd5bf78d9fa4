package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/angristan/lifx-tui/internal/cards"
)

// CardsPerRow returns how many cards fit side by side
func CardsPerRow(width int) int {
	// Border and margin add 3 columns to each card
	perRow := width / (CardWidth(width) + 3)
	if perRow < 1 {
		perRow = 1
	}
	return perRow
}

// RenderCardGrid renders every card in rows. editor is shown on the
// selected card while its label is being edited.
func RenderCardGrid(list []*cards.Card, selected int, width int, editor string) string {
	perRow := CardsPerRow(width)

	rendered := make([]string, len(list))
	for i, card := range list {
		var ed string
		if i == selected && card.Editing {
			ed = editor
		}
		rendered[i] = RenderLightCard(card, i == selected, width, ed)
	}

	// Arrange cards in rows
	var b strings.Builder
	for i := 0; i < len(rendered); i += perRow {
		end := i + perRow
		if end > len(rendered) {
			end = len(rendered)
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, rendered[i:end]...))
		b.WriteString("\n")
	}

	return b.String()
}
