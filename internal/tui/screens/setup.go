package screens

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/angristan/lifx-tui/internal/api"
	"github.com/angristan/lifx-tui/internal/tui/messages"
	"github.com/angristan/lifx-tui/internal/tui/styles"
)

// SetupState represents the current setup state
type SetupState int

const (
	StateDiscovering SetupState = iota
	StateRegistryList
	StateManualEntry
	StateProbing
	StateSuccess
	StateError
)

const discoveryTimeout = 3 * time.Second

// SetupModel is the setup screen model
type SetupModel struct {
	state      SetupState
	registries []api.DiscoveredRegistry
	selected   int
	input      textinput.Model
	spinner    spinner.Model
	err        error
	message    string

	// Registry being probed
	probeURL  string
	probeName string

	// Window size
	width  int
	height int
}

// NewSetupModel creates a new setup screen model
func NewSetupModel() SetupModel {
	ti := textinput.New()
	ti.Placeholder = "http://192.168.1.x:8080"
	ti.CharLimit = 80

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.StyleSpinner

	return SetupModel{
		state:   StateDiscovering,
		input:   ti,
		spinner: sp,
	}
}

// Init initializes the setup screen
func (m SetupModel) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		discoverCmd(),
	)
}

// SetSize sets the terminal size
func (m *SetupModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles messages
func (m SetupModel) Update(msg tea.Msg) (SetupModel, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.state {
		case StateRegistryList:
			switch msg.String() {
			case "up", "k":
				if m.selected > 0 {
					m.selected--
				}
			case "down", "j":
				if m.selected < len(m.registries) {
					m.selected++
				}
			case "enter":
				if m.selected < len(m.registries) {
					reg := m.registries[m.selected]
					m.state = StateProbing
					m.probeURL = reg.URL
					m.probeName = reg.Name
					cmds = append(cmds, m.spinner.Tick, probeCmd(reg.URL, reg.Name))
				} else {
					// Manual entry selected
					m.state = StateManualEntry
					cmds = append(cmds, m.input.Focus())
				}
			case "m":
				m.state = StateManualEntry
				cmds = append(cmds, m.input.Focus())
			case "r":
				m.state = StateDiscovering
				m.err = nil
				cmds = append(cmds, m.spinner.Tick, discoverCmd())
			}

		case StateManualEntry:
			switch msg.String() {
			case "enter":
				url, err := api.NormalizeURL(m.input.Value())
				if err != nil {
					m.err = err
					break
				}
				m.err = nil
				m.state = StateProbing
				m.probeURL = url
				m.probeName = ""
				m.input.Blur()
				return m, tea.Batch(m.spinner.Tick, probeCmd(url, ""))
			case "esc":
				m.state = StateRegistryList
				m.err = nil
				m.input.Blur()
			}

		case StateError:
			switch msg.String() {
			case "enter", "esc":
				m.state = StateRegistryList
			case "r":
				m.state = StateDiscovering
				m.err = nil
				cmds = append(cmds, m.spinner.Tick, discoverCmd())
			}
		}

	case RegistriesDiscoveredMsg:
		m.registries = msg.Registries
		m.selected = 0
		m.state = StateRegistryList

	case DiscoveryErrorMsg:
		m.state = StateRegistryList
		m.err = msg.Err

	case ProbeSuccessMsg:
		m.state = StateSuccess
		m.message = fmt.Sprintf("Connected to %s (%d lights)", msg.URL, msg.Lights)
		return m, func() tea.Msg {
			return messages.RegistryConnectedMsg{
				URL:    msg.URL,
				Name:   msg.Name,
				Lights: msg.Lights,
			}
		}

	case ProbeErrorMsg:
		m.state = StateError
		m.err = msg.Err

	case spinner.TickMsg:
		if m.state == StateDiscovering || m.state == StateProbing {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	// Update text input
	if m.state == StateManualEntry {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// View renders the setup screen
func (m SetupModel) View() string {
	var b strings.Builder

	// Header
	header := styles.StyleHeaderGradient.Render("  LIFX Setup  ")
	b.WriteString(lipgloss.Place(m.width, 3, lipgloss.Center, lipgloss.Top, header))
	b.WriteString("\n\n")

	// Content based on state
	var content string
	switch m.state {
	case StateDiscovering:
		content = m.renderDiscovering()
	case StateRegistryList:
		content = m.renderRegistryList()
	case StateManualEntry:
		content = m.renderManualEntry()
	case StateProbing:
		content = m.renderProbing()
	case StateSuccess:
		content = m.renderSuccess()
	case StateError:
		content = m.renderError()
	}

	b.WriteString(lipgloss.Place(m.width, m.height-6, lipgloss.Center, lipgloss.Center, content))

	return b.String()
}

func (m SetupModel) renderDiscovering() string {
	return fmt.Sprintf("%s Searching for light registries...", m.spinner.View())
}

func (m SetupModel) renderRegistryList() string {
	var b strings.Builder

	if m.err != nil {
		b.WriteString(styles.StyleWarning.Render("Discovery failed: " + m.err.Error()))
		b.WriteString("\n\n")
	}

	if len(m.registries) == 0 {
		b.WriteString(styles.StyleTextMuted.Render("No registries found.\n\n"))
	} else {
		b.WriteString("Found registries:\n\n")
		for i, reg := range m.registries {
			cursor := "  "
			style := styles.StyleListItem
			if i == m.selected {
				cursor = "> "
				style = styles.StyleListItemSelected
			}
			name := reg.URL
			if reg.Name != "" {
				name = fmt.Sprintf("%s (%s)", reg.Name, reg.URL)
			}
			if reg.Lights >= 0 {
				name += fmt.Sprintf(" • %d lights", reg.Lights)
			}
			b.WriteString(cursor + style.Render(name) + "\n")
		}
	}

	// Manual entry option
	cursor := "  "
	style := styles.StyleListItem
	if m.selected >= len(m.registries) {
		cursor = "> "
		style = styles.StyleListItemSelected
	}
	b.WriteString("\n" + cursor + style.Render("Enter URL manually...") + "\n")

	b.WriteString("\n" + styles.StyleHelp.Render("↑/↓ navigate • enter select • r refresh • m manual"))

	return b.String()
}

func (m SetupModel) renderManualEntry() string {
	var b strings.Builder

	b.WriteString("Enter registry URL:\n\n")
	b.WriteString(styles.StyleInputFocused.Render(m.input.View()))
	if m.err != nil {
		b.WriteString("\n" + styles.StyleError.Render(m.err.Error()))
	}
	b.WriteString("\n\n" + styles.StyleHelp.Render("enter confirm • esc back"))

	return b.String()
}

func (m SetupModel) renderProbing() string {
	target := m.probeURL
	if m.probeName != "" {
		target = m.probeName
	}
	return fmt.Sprintf("%s Connecting to %s...", m.spinner.View(), target)
}

func (m SetupModel) renderSuccess() string {
	return styles.StyleSuccess.Render("✓ " + m.message)
}

func (m SetupModel) renderError() string {
	return styles.StyleError.Render("✗ Error: "+m.err.Error()) +
		"\n\n" + styles.StyleHelp.Render("enter back • r rediscover")
}

// Commands

func discoverCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), discoveryTimeout+time.Second)
		defer cancel()

		registries, err := api.DiscoverMDNS(ctx, discoveryTimeout)
		if err != nil {
			return DiscoveryErrorMsg{Err: err}
		}
		return RegistriesDiscoveredMsg{Registries: registries}
	}
}

func probeCmd(url, name string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), api.DefaultTimeout)
		defer cancel()

		lights, err := api.Probe(ctx, url)
		if err != nil {
			return ProbeErrorMsg{Err: err}
		}
		return ProbeSuccessMsg{URL: url, Name: name, Lights: lights}
	}
}

// Messages

type RegistriesDiscoveredMsg struct {
	Registries []api.DiscoveredRegistry
}

type DiscoveryErrorMsg struct {
	Err error
}

type ProbeSuccessMsg struct {
	URL    string
	Name   string
	Lights int
}

type ProbeErrorMsg struct {
	Err error
}
