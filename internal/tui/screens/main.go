package screens

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	"github.com/angristan/lifx-tui/internal/actions"
	"github.com/angristan/lifx-tui/internal/cards"
	"github.com/angristan/lifx-tui/internal/tui/components"
	"github.com/angristan/lifx-tui/internal/tui/messages"
	"github.com/angristan/lifx-tui/internal/tui/styles"
)

// Renamer sends label changes to the registry
type Renamer interface {
	SetName(lightID, label string) *actions.Task
}

// pickerState remembers the picker behind the hex a card last received
// from it, so hue survives round trips through gray.
type pickerState struct {
	picker components.ColorPicker
	hex    string
}

// MainModel is the card board screen model
type MainModel struct {
	board    *cards.Board
	selected int
	pickers  map[string]pickerState

	showPanel bool

	// Label editing. editGen counts edit sessions so a rename that
	// finishes late can tell whether its editor is still the open one.
	editingID  string
	editGen    int
	renaming   bool
	labelInput textinput.Model

	// Hex entry
	hexMode  bool
	hexInput textinput.Model

	registryName string
	lastPoll     time.Time
	lightsOn     int
	err          error

	// Loading state
	loading bool
	spinner spinner.Model

	width  int
	height int
}

// NewMainModel creates a new main screen model
func NewMainModel(board *cards.Board) MainModel {
	li := textinput.New()
	li.Placeholder = "Label"
	li.CharLimit = 32

	hi := textinput.New()
	hi.Placeholder = "#RRGGBB"
	hi.CharLimit = 7

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.StyleSpinner

	return MainModel{
		board:      board,
		pickers:    make(map[string]pickerState),
		showPanel:  true,
		labelInput: li,
		hexInput:   hi,
		loading:    true,
		spinner:    sp,
	}
}

// Init initializes the main screen
func (m MainModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// SetSize sets the terminal size
func (m *MainModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetRegistryName sets the name shown in the header
func (m *MainModel) SetRegistryName(name string) {
	m.registryName = name
}

// ApplySnapshot reconciles a polled snapshot into the board
func (m *MainModel) ApplySnapshot(msg messages.SnapshotMsg) cards.Result {
	res := m.board.Reconcile(msg.Snapshot)
	m.loading = false
	m.lastPoll = msg.At
	m.lightsOn = msg.Snapshot.CountOn()
	m.clampSelection()
	return res
}

// HandleActionDone reacts to a finished rename. Other action failures
// are only logged by the dispatcher.
func (m *MainModel) HandleActionDone(msg messages.ActionDoneMsg) {
	task := msg.Task
	if task == nil || task.Action != actions.ActionSetName {
		return
	}

	current := m.renaming && m.editingID == task.LightID && msg.Edit == m.editGen
	if current {
		m.renaming = false
	}

	if err := task.Err(); err != nil {
		if !current {
			log.Debug().Err(err).Str("light", task.LightID).Msg("Abandoned rename failed")
			return
		}
		// Keep the editor open so the label can be retried
		m.err = fmt.Errorf("rename failed: %w", err)
		return
	}

	if !current {
		// The registry took the label, but a newer edit may be open
		m.board.ApplyLabel(task.LightID, msg.Label)
		return
	}
	m.board.CommitLabel(task.LightID, msg.Label)
	m.editingID = ""
	m.labelInput.Blur()
}

// SetError shows an error in the status bar
func (m *MainModel) SetError(err error) {
	m.err = err
}

// Selected returns the selected card
func (m MainModel) Selected() *cards.Card {
	list := m.board.Cards()
	if m.selected >= 0 && m.selected < len(list) {
		return list[m.selected]
	}
	return nil
}

func (m *MainModel) clampSelection() {
	n := m.board.Len()
	if m.selected >= n {
		m.selected = n - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

// Editing reports whether a text field has the keyboard
func (m MainModel) Editing() bool {
	return m.editingID != "" || m.hexMode
}

// Update handles messages
func (m MainModel) Update(msg tea.Msg, renamer Renamer) (MainModel, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.editingID != "" {
			return m.updateLabelEditor(msg, renamer)
		}
		if m.hexMode {
			return m.updateHexEditor(msg)
		}

		card := m.Selected()

		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case "left", "h":
			if m.selected > 0 {
				m.selected--
			}

		case "right", "l":
			if m.selected < m.board.Len()-1 {
				m.selected++
			}

		case "up", "k":
			if m.selected-m.perRow() >= 0 {
				m.selected -= m.perRow()
			}

		case "down", "j":
			if m.selected+m.perRow() < m.board.Len() {
				m.selected += m.perRow()
			}

		case "home":
			m.selected = 0

		case "end":
			m.selected = m.board.Len() - 1
			m.clampSelection()

		case " ", "enter":
			if card != nil {
				if task := card.Toggle(); task != nil {
					cmds = append(cmds, waitTaskCmd(task))
				}
			}

		case "e":
			if card != nil && m.board.BeginEdit(card.ID) {
				m.editingID = card.ID
				m.editGen++
				m.labelInput.SetValue(card.Label)
				m.labelInput.CursorEnd()
				cmds = append(cmds, m.labelInput.Focus())
			}

		case "#":
			if card != nil {
				m.err = nil
				m.hexMode = true
				m.hexInput.SetValue(card.Color)
				m.hexInput.CursorEnd()
				cmds = append(cmds, m.hexInput.Focus())
			}

		case "[":
			cmds = append(cmds, m.nudge(card, components.ChannelHue, -components.HueStep))
		case "]":
			cmds = append(cmds, m.nudge(card, components.ChannelHue, components.HueStep))
		case "-":
			cmds = append(cmds, m.nudge(card, components.ChannelSaturation, -components.SatStep))
		case "=", "+":
			cmds = append(cmds, m.nudge(card, components.ChannelSaturation, components.SatStep))
		case ",":
			cmds = append(cmds, m.nudge(card, components.ChannelValue, -components.ValStep))
		case ".":
			cmds = append(cmds, m.nudge(card, components.ChannelValue, components.ValStep))

		case "o":
			return m, func() tea.Msg { return messages.ShowOnboardMsg{} }

		case "r":
			return m, func() tea.Msg { return messages.RefreshMsg{} }

		case "tab":
			m.showPanel = !m.showPanel
		}

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

func (m MainModel) updateLabelEditor(msg tea.KeyMsg, renamer Renamer) (MainModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.board.CancelEdit(m.editingID)
		m.editingID = ""
		m.renaming = false
		m.err = nil
		m.labelInput.Blur()
		return m, nil

	case "enter":
		if m.renaming || renamer == nil {
			return m, nil
		}
		label := strings.TrimSpace(m.labelInput.Value())
		if label == "" {
			return m, nil
		}
		m.renaming = true
		m.err = nil
		task := renamer.SetName(m.editingID, label)
		return m, renameCmd(task, label, m.editGen)
	}

	if m.renaming {
		return m, nil
	}

	var cmd tea.Cmd
	m.labelInput, cmd = m.labelInput.Update(msg)
	m.board.SetDraft(m.editingID, m.labelInput.Value())
	return m, cmd
}

func (m MainModel) updateHexEditor(msg tea.KeyMsg) (MainModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.hexMode = false
		m.hexInput.Blur()
		return m, nil

	case "enter":
		card := m.Selected()
		m.hexMode = false
		m.hexInput.Blur()
		if card == nil {
			return m, nil
		}
		hex := strings.TrimSpace(m.hexInput.Value())
		if !strings.HasPrefix(hex, "#") {
			hex = "#" + hex
		}
		task, err := m.board.PickColor(card.ID, hex)
		if err != nil {
			m.err = err
			return m, nil
		}
		delete(m.pickers, card.ID)
		return m, waitTaskCmd(task)
	}

	var cmd tea.Cmd
	m.hexInput, cmd = m.hexInput.Update(msg)
	return m, cmd
}

// pickerFor returns the picker for a card, starting over when the card's
// color no longer matches what the picker last produced.
func (m MainModel) pickerFor(card *cards.Card) components.ColorPicker {
	if st, ok := m.pickers[card.ID]; ok && st.hex == card.Color {
		return st.picker
	}
	return components.NewColorPicker(card.Color)
}

func (m MainModel) nudge(card *cards.Card, ch components.Channel, delta float64) tea.Cmd {
	if card == nil {
		return nil
	}

	picker := m.pickerFor(card).Nudge(ch, delta)
	hex := strings.ToUpper(picker.Hex())
	task, err := m.board.PickColor(card.ID, hex)
	if err != nil {
		log.Warn().Err(err).Str("light", card.ID).Msg("Color pick rejected")
		return nil
	}
	m.pickers[card.ID] = pickerState{picker: picker, hex: hex}
	return waitTaskCmd(task)
}

func (m MainModel) layout() (contentWidth, panelWidth int) {
	contentWidth = m.width
	// Auto-hide panel on narrow terminals
	if m.showPanel && m.width >= 80 {
		panelWidth = m.width * 30 / 100
		if panelWidth < 30 {
			panelWidth = 30
		}
		if panelWidth > 45 {
			panelWidth = 45
		}
		contentWidth = m.width - panelWidth - 3
	}
	return contentWidth, panelWidth
}

func (m MainModel) perRow() int {
	contentWidth, _ := m.layout()
	return components.CardsPerRow(contentWidth)
}

// View renders the main screen
func (m MainModel) View() string {
	var b strings.Builder

	// Header
	status := "● Connected"
	if m.registryName != "" {
		status += " · " + m.registryName
	}
	if m.loading {
		status = "⟳ Loading..."
	}
	b.WriteString(components.RenderHeader(m.width, status, m.lastPoll))
	b.WriteString("\n")

	// Editors
	switch {
	case m.hexMode:
		b.WriteString(styles.StylePrimary.Render("# ") + m.hexInput.View())
		b.WriteString("\n")
	case m.editingID != "" && m.renaming:
		b.WriteString(styles.StyleTextMuted.Render(fmt.Sprintf("%s Renaming...", m.spinner.View())))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	contentWidth, panelWidth := m.layout()

	var content string
	switch {
	case m.loading && !m.board.Loaded():
		content = fmt.Sprintf("  %s Loading lights...", m.spinner.View())
	case m.board.Placeholder() || m.board.Len() == 0:
		content = styles.StyleTextMuted.Render("  No lights found")
	default:
		content = components.RenderCardGrid(m.board.Cards(), m.selected, contentWidth, m.labelInput.View())
	}

	// Content height: header, editor line, blank, status, help
	contentHeight := m.height - 5
	if m.Editing() {
		contentHeight--
	}
	if contentHeight < 3 {
		contentHeight = 3
	}
	contentStyle := lipgloss.NewStyle().Height(contentHeight).MaxHeight(contentHeight)

	if panelWidth > 0 {
		contentStyle = contentStyle.Width(contentWidth)
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, contentStyle.Render(content), "  ", m.renderPanel(panelWidth)))
	} else {
		b.WriteString(contentStyle.Render(content))
	}

	// Status bar
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())

	// Help bar
	b.WriteString("\n")
	b.WriteString(m.renderHelp())

	return b.String()
}

func (m MainModel) renderPanel(panelWidth int) string {
	if m.loading {
		return styles.StylePanel.Width(panelWidth - 4).Render(m.spinner.View() + " Loading...")
	}

	card := m.Selected()
	if card == nil || m.board.Placeholder() {
		return styles.StylePanel.Width(panelWidth - 4).Render(styles.StyleTextMuted.Render("No selection"))
	}

	barWidth := panelWidth - 10
	if barWidth < 10 {
		barWidth = 10
	}
	if barWidth > 25 {
		barWidth = 25
	}

	var content strings.Builder

	content.WriteString(styles.StylePrimary.Render(card.Title()))
	content.WriteString("\n")
	content.WriteString(styles.StyleTextMuted.Render(card.ID))
	content.WriteString("\n\n")

	// Status
	status := styles.StyleLightNameDim.Render("○ Off")
	if card.On {
		status = lipgloss.NewStyle().Foreground(styles.ColorLightOn).Render("● On")
	}
	if card.Stale {
		status += "  " + styles.StyleWarning.Render("offline")
	}
	content.WriteString(status)
	content.WriteString("\n\n")

	content.WriteString(m.pickerFor(card).View(barWidth))
	content.WriteString("\n\n")

	swatch := lipgloss.NewStyle().Background(lipgloss.Color(card.Color)).Render("    ")
	content.WriteString(styles.StyleTextMuted.Render("Color: "))
	content.WriteString(swatch + " " + card.Color)

	if card.Kelvin > 0 {
		content.WriteString("\n")
		content.WriteString(styles.StyleTextMuted.Render("Kelvin: "))
		content.WriteString(fmt.Sprintf("%dK", card.Kelvin))
	}
	if card.Firmware != "" {
		content.WriteString("\n")
		content.WriteString(styles.StyleTextMuted.Render("Firmware: "))
		content.WriteString(card.Firmware)
	}

	return styles.StylePanel.Width(panelWidth - 4).Render(content.String())
}

func (m MainModel) renderStatusBar() string {
	if m.err != nil {
		return styles.StyleError.Render("✗ " + m.err.Error())
	}

	total := 0
	stale := 0
	for _, card := range m.board.Cards() {
		if card.Stale {
			stale++
			continue
		}
		total++
	}

	status := fmt.Sprintf("%d/%d lights on", m.lightsOn, total)
	if stale > 0 {
		status += fmt.Sprintf(" • %d offline", stale)
	}
	return styles.StyleTextMuted.Render(status)
}

func (m MainModel) renderHelp() string {
	key := styles.StyleHelpKey.Render

	if m.editingID != "" {
		return styles.StyleHelp.Render(key("enter") + " save  " + key("esc") + " cancel")
	}
	if m.hexMode {
		return styles.StyleHelp.Render(key("enter") + " apply  " + key("esc") + " cancel")
	}

	keys := []string{
		key("←↑↓→") + " nav",
		key("space") + " toggle",
		key("[]") + " hue",
		key("-/=") + " sat",
		key(",/.") + " bri",
		key("#") + " hex",
		key("e") + " rename",
		key("o") + " onboard",
		key("r") + " refresh",
		key("q") + " quit",
	}

	// For narrow terminals, show fewer keys
	if m.width < 60 {
		keys = []string{
			key("←↑↓→") + " nav",
			key("space") + " toggle",
			key("q") + " quit",
		}
	} else if m.width < 100 {
		keys = []string{
			key("←↑↓→") + " nav",
			key("space") + " toggle",
			key("[]") + " hue",
			key("e") + " rename",
			key("q") + " quit",
		}
	}

	return styles.StyleHelp.Render(strings.Join(keys, "  "))
}

// waitTaskCmd reports a task's completion back to the update loop
func waitTaskCmd(task *actions.Task) tea.Cmd {
	if task == nil {
		return nil
	}
	return func() tea.Msg {
		<-task.Done()
		return messages.ActionDoneMsg{Task: task}
	}
}

// renameCmd is waitTaskCmd for a rename sent from edit session edit
func renameCmd(task *actions.Task, label string, edit int) tea.Cmd {
	if task == nil {
		return nil
	}
	return func() tea.Msg {
		<-task.Done()
		return messages.ActionDoneMsg{Task: task, Label: label, Edit: edit}
	}
}
