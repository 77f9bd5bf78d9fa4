package screens

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/angristan/lifx-tui/internal/tui/messages"
	"github.com/angristan/lifx-tui/internal/tui/styles"
)

// OnboardState represents where the onboarding form is
type OnboardState int

const (
	OnboardEditing OnboardState = iota
	OnboardSending
	OnboardDone
	OnboardFailed
)

// OnboardModel is the modal that provisions a new bulb onto a network
type OnboardModel struct {
	ssid     textinput.Model
	password textinput.Model
	focused  int
	state    OnboardState
	err      error
	spinner  spinner.Model

	// Window size
	width  int
	height int
}

// NewOnboardModel creates a new onboarding modal model
func NewOnboardModel() OnboardModel {
	ssid := textinput.New()
	ssid.Placeholder = "Network name"
	ssid.CharLimit = 32

	password := textinput.New()
	password.Placeholder = "Password"
	password.CharLimit = 64
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.StyleSpinner

	return OnboardModel{
		ssid:     ssid,
		password: password,
		spinner:  sp,
	}
}

// SetSize sets the terminal size
func (m *OnboardModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Reset clears the form and focuses the network name
func (m *OnboardModel) Reset() tea.Cmd {
	m.ssid.SetValue("")
	m.password.SetValue("")
	m.password.Blur()
	m.focused = 0
	m.state = OnboardEditing
	m.err = nil
	return m.ssid.Focus()
}

// SetResult records the outcome of an onboarding request
func (m *OnboardModel) SetResult(err error) {
	m.err = err
	if err != nil {
		m.state = OnboardFailed
		return
	}
	m.state = OnboardDone
}

// State returns the form state
func (m OnboardModel) State() OnboardState {
	return m.state
}

// Update handles messages
func (m OnboardModel) Update(msg tea.Msg) (OnboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, func() tea.Msg { return messages.HideOnboardMsg{} }

		case "tab", "shift+tab", "up", "down":
			if m.state == OnboardEditing || m.state == OnboardFailed {
				return m, m.cycleFocus()
			}
			return m, nil

		case "enter":
			switch m.state {
			case OnboardDone:
				return m, func() tea.Msg { return messages.HideOnboardMsg{} }
			case OnboardSending:
				return m, nil
			}
			if m.focused == 0 {
				return m, m.cycleFocus()
			}
			ssid := strings.TrimSpace(m.ssid.Value())
			if ssid == "" {
				return m, nil
			}
			m.state = OnboardSending
			m.err = nil
			password := m.password.Value()
			return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
				return messages.OnboardRequestMsg{SSID: ssid, Password: password}
			})
		}

	case spinner.TickMsg:
		if m.state == OnboardSending {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	if m.state == OnboardSending || m.state == OnboardDone {
		return m, nil
	}

	// Update the focused input
	var cmd tea.Cmd
	if m.focused == 0 {
		m.ssid, cmd = m.ssid.Update(msg)
	} else {
		m.password, cmd = m.password.Update(msg)
	}
	return m, cmd
}

func (m *OnboardModel) cycleFocus() tea.Cmd {
	m.focused = (m.focused + 1) % 2
	if m.focused == 0 {
		m.password.Blur()
		return m.ssid.Focus()
	}
	m.ssid.Blur()
	return m.password.Focus()
}

// View renders the onboarding modal
func (m OnboardModel) View() string {
	var b strings.Builder

	b.WriteString(styles.StyleModalTitle.Render("Onboard a bulb"))
	b.WriteString("\n")
	b.WriteString(styles.StyleTextMuted.Render("Send network credentials to a bulb in setup mode"))
	b.WriteString("\n\n")

	ssidStyle, passStyle := styles.StyleInput, styles.StyleInput
	if m.focused == 0 {
		ssidStyle = styles.StyleInputFocused
	} else {
		passStyle = styles.StyleInputFocused
	}

	b.WriteString("SSID\n")
	b.WriteString(ssidStyle.Render(m.ssid.View()))
	b.WriteString("\n")
	b.WriteString("Password\n")
	b.WriteString(passStyle.Render(m.password.View()))
	b.WriteString("\n\n")

	switch m.state {
	case OnboardSending:
		b.WriteString(m.spinner.View() + " Sending credentials...")
		b.WriteString("\n\n")
	case OnboardDone:
		b.WriteString(styles.StyleSuccess.Render("✓ Credentials sent"))
		b.WriteString("\n\n")
	case OnboardFailed:
		b.WriteString(styles.StyleError.Render("✗ " + m.err.Error()))
		b.WriteString("\n\n")
	}

	b.WriteString(styles.StyleHelp.Render("tab switch • enter send • esc close"))

	// Wrap in modal style - responsive width (40-60 chars)
	content := b.String()
	modalWidth := m.width * 70 / 100
	if modalWidth < 40 {
		modalWidth = 40
	}
	if modalWidth > 60 {
		modalWidth = 60
	}
	modal := styles.StyleModal.Width(modalWidth).Render(content)

	// Center in screen
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)
}
