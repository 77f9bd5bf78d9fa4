package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"github.com/angristan/lifx-tui/internal/actions"
	"github.com/angristan/lifx-tui/internal/api"
	"github.com/angristan/lifx-tui/internal/cards"
	"github.com/angristan/lifx-tui/internal/config"
	"github.com/angristan/lifx-tui/internal/poll"
	"github.com/angristan/lifx-tui/internal/tui/messages"
	"github.com/angristan/lifx-tui/internal/tui/screens"
)

// Screen represents the current screen state
type Screen int

const (
	ScreenSetup Screen = iota
	ScreenMain
	ScreenOnboard
)

// Model is the main application model
type Model struct {
	// Configuration
	config   *config.Config
	demoMode bool

	// Registry connection
	registry   api.LightRegistry
	dispatcher *actions.Dispatcher
	loop       *poll.Loop
	mailbox    *poll.Mailbox
	board      *cards.Board

	// Current screen
	screen Screen

	// Screen models
	setupScreen   screens.SetupModel
	mainScreen    screens.MainModel
	onboardScreen screens.OnboardModel

	// Window size
	width  int
	height int

	// Error state
	err error

	// Context for cancellation
	ctx    context.Context
	cancel context.CancelFunc

	// Scoped to the current registry connection
	connCtx    context.Context
	connCancel context.CancelFunc
}

// NewModel creates a new application model. Demo mode serves canned
// lights from memory instead of talking to a registry.
func NewModel(cfg *config.Config, demoMode bool) Model {
	switch {
	case demoMode:
		m := newModel(cfg, api.NewDemoRegistry(), "Demo")
		m.demoMode = true
		return m

	case cfg.HasRegistries():
		reg, err := cfg.GetLastRegistry()
		if err == nil {
			name := reg.Name
			if name == "" {
				name = reg.URL
			}
			return newModel(cfg, api.NewRegistryClient(reg.URL, cfg.RequestTimeout), name)
		}
	}

	return newModel(cfg, nil, "")
}

// newModel builds the model, connected to registry when it is non-nil
func newModel(cfg *config.Config, registry api.LightRegistry, name string) Model {
	ctx, cancel := context.WithCancel(context.Background())

	m := Model{
		config:        cfg,
		screen:        ScreenSetup,
		setupScreen:   screens.NewSetupModel(),
		onboardScreen: screens.NewOnboardModel(),
		ctx:           ctx,
		cancel:        cancel,
	}

	if registry != nil {
		m.connect(registry, name)
	}

	return m
}

// connect wires a registry into a dispatcher, a card board and a poll loop
func (m *Model) connect(registry api.LightRegistry, name string) {
	if m.loop != nil {
		m.loop.Stop()
	}
	if m.dispatcher != nil {
		m.dispatcher.Close()
	}
	if m.connCancel != nil {
		m.connCancel()
	}
	m.connCtx, m.connCancel = context.WithCancel(m.ctx)

	m.registry = registry
	m.dispatcher = actions.New(m.connCtx, registry,
		actions.WithRateLimit(m.config.Actions.RateLimitRPS),
		actions.WithTimeout(m.config.RequestTimeout),
	)
	m.board = cards.NewBoard(m.dispatcher, m.config.Scale(), cards.NewLabelHolds(cards.LabelHoldTTL))
	m.mailbox = poll.NewMailbox()
	m.loop = poll.New(registry, m.mailbox.Put, poll.WithTimeout(m.config.RequestTimeout))

	m.mainScreen = screens.NewMainModel(m.board)
	m.mainScreen.SetSize(m.width, m.height)
	m.mainScreen.SetRegistryName(name)
	m.screen = ScreenMain

	log.Info().Str("registry", registry.BaseURL()).Str("scale", m.config.Scale().String()).Msg("Connected to registry")
}

// Close stops polling and cancels outstanding actions
func (m Model) Close() {
	m.cancel()
	if m.loop != nil {
		m.loop.Stop()
	}
	if m.dispatcher != nil {
		m.dispatcher.Close()
	}
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.SetWindowTitle("LIFX"),
	}

	// Start with appropriate screen initialization
	switch m.screen {
	case ScreenSetup:
		cmds = append(cmds, m.setupScreen.Init())
	case ScreenMain:
		cmds = append(cmds, m.mainScreen.Init(), m.startPollingCmd(), m.waitForSnapshot())
	}

	return tea.Batch(cmds...)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.mainScreen.SetSize(msg.Width, msg.Height)
		m.setupScreen.SetSize(msg.Width, msg.Height)
		m.onboardScreen.SetSize(msg.Width, msg.Height)

	case tea.KeyMsg:
		// Global key handlers
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit
		}

	case messages.RegistryConnectedMsg:
		m.config.AddRegistry(config.RegistryConfig{URL: msg.URL, Name: msg.Name})
		m.config.LastRegistry = msg.URL
		if err := m.config.Save(); err != nil {
			log.Warn().Err(err).Msg("Failed to save config")
			m.err = err
		}

		name := msg.Name
		if name == "" {
			name = msg.URL
		}
		m.connect(api.NewRegistryClient(msg.URL, m.config.RequestTimeout), name)
		return m, tea.Batch(m.mainScreen.Init(), m.startPollingCmd(), m.waitForSnapshot())

	case messages.SnapshotMsg:
		res := m.mainScreen.ApplySnapshot(msg)
		if len(res.Created) > 0 {
			log.Debug().Strs("lights", res.Created).Msg("New lights")
		}
		return m, m.waitForSnapshot()

	case messages.ActionDoneMsg:
		if msg.Task != nil && msg.Task.Action == actions.ActionOnboard {
			m.onboardScreen.SetResult(msg.Task.Err())
		} else {
			m.mainScreen.HandleActionDone(msg)
		}
		return m, nil

	case messages.ErrorMsg:
		m.err = msg.Err
		m.mainScreen.SetError(msg.Err)

	case messages.ShowOnboardMsg:
		if m.dispatcher == nil {
			return m, nil
		}
		m.screen = ScreenOnboard
		return m, m.onboardScreen.Reset()

	case messages.HideOnboardMsg:
		m.screen = ScreenMain
		return m, nil

	case messages.OnboardRequestMsg:
		if m.dispatcher == nil {
			return m, nil
		}
		task := m.dispatcher.Onboard(msg.SSID, msg.Password)
		return m, waitTaskCmd(task)

	case messages.RefreshMsg:
		if m.loop != nil {
			m.loop.Tick(m.connCtx)
		}
		return m, nil
	}

	// Route to current screen
	switch m.screen {
	case ScreenSetup:
		var cmd tea.Cmd
		m.setupScreen, cmd = m.setupScreen.Update(msg)
		cmds = append(cmds, cmd)

	case ScreenMain:
		var renamer screens.Renamer
		if m.dispatcher != nil {
			renamer = m.dispatcher
		}
		var cmd tea.Cmd
		m.mainScreen, cmd = m.mainScreen.Update(msg, renamer)
		cmds = append(cmds, cmd)

	case ScreenOnboard:
		var cmd tea.Cmd
		m.onboardScreen, cmd = m.onboardScreen.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// View renders the current screen
func (m Model) View() string {
	switch m.screen {
	case ScreenSetup:
		return m.setupScreen.View()
	case ScreenMain:
		return m.mainScreen.View()
	case ScreenOnboard:
		return m.onboardScreen.View()
	default:
		return "Unknown screen"
	}
}

// startPollingCmd starts the poll loop; snapshots arrive via the mailbox
func (m Model) startPollingCmd() tea.Cmd {
	loop, ctx := m.loop, m.connCtx
	return func() tea.Msg {
		if loop == nil {
			return messages.ErrorMsg{Err: config.ErrNoRegistry}
		}
		loop.Start(ctx)
		return nil
	}
}

// waitForSnapshot blocks until the next snapshot is posted
func (m Model) waitForSnapshot() tea.Cmd {
	mailbox, ctx := m.mailbox, m.connCtx
	if mailbox == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case snapshot := <-mailbox.C():
			return messages.SnapshotMsg{Snapshot: snapshot, At: time.Now()}
		case <-ctx.Done():
			return nil
		}
	}
}

func waitTaskCmd(task *actions.Task) tea.Cmd {
	return func() tea.Msg {
		<-task.Done()
		return messages.ActionDoneMsg{Task: task}
	}
}
