package ui

import (
	"errors"
	"fmt"

	"zenchat/internal/models"
	"zenchat/internal/session"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
)

type FocusState int

const (
	FocusChat FocusState = iota
	FocusSidebar
	FocusSettings
)

const defaultSidebarWidth = 30

// Options configures the UI model
type Options struct {
	Logger *zerolog.Logger
	// DarkBackground reports whether the host terminal has a dark background.
	// It is asked every time the system mode is applied. Defaults to
	// lipgloss.HasDarkBackground.
	DarkBackground func() bool
}

// Model represents the main application state
type Model struct {
	session  *session.Manager
	log      zerolog.Logger
	darkHost func() bool

	viewport   viewport.Model
	textarea   textarea.Model
	threadList list.Model
	spinner    spinner.Model
	help       help.Model
	keys       keyMap
	styles     Styles
	markdown   *glamour.TermRenderer
	dark       bool

	focus          FocusState
	sidebarOpen    bool
	settingsCursor int
	err            error
	ready          bool
	width          int
	height         int
	sidebarWidth   int
}

// ReplyMsg carries a finished reply back into the update loop
type ReplyMsg struct {
	Reply session.Reply
}

// NewModel creates a new UI model
func NewModel(s *session.Manager, opts Options) *Model {
	ta := textarea.New()
	ta.Placeholder = "Type your message..."
	ta.Prompt = "┃ "
	ta.CharLimit = 2000
	ta.SetWidth(50)
	ta.SetHeight(3)
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.ShowLineNumbers = false
	// enter sends; the textarea must not turn it into a newline
	ta.KeyMap.InsertNewline.SetEnabled(false)
	ta.Focus()

	sp := spinner.New(spinner.WithSpinner(spinner.Points))

	m := &Model{
		session:      s,
		darkHost:     opts.DarkBackground,
		viewport:     viewport.New(50, 20),
		textarea:     ta,
		threadList:   newThreadList(defaultSidebarWidth-2, 20),
		spinner:      sp,
		help:         help.New(),
		keys:         defaultKeyMap(),
		focus:        FocusChat,
		sidebarOpen:  true,
		sidebarWidth: defaultSidebarWidth,
	}
	if m.darkHost == nil {
		m.darkHost = lipgloss.HasDarkBackground
	}
	if opts.Logger != nil {
		m.log = opts.Logger.With().Str("component", "ui").Logger()
	} else {
		m.log = zerolog.Nop()
	}

	m.applyMode()
	m.refreshThreadList()
	m.updateViewport()
	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update handles UI events and state changes
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resize()
		m.updateViewport()
		return m, nil

	case tea.KeyMsg:
		if m.focus == FocusSettings {
			return m.updateSettings(msg)
		}
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}

	case ReplyMsg:
		if _, err := m.session.Deliver(msg.Reply); err != nil {
			m.err = err
		}
		m.refreshThreadList()
		m.updateViewport()
		return m, nil

	case spinner.TickMsg:
		if !m.session.Pending() {
			// let the tick loop die out
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.updateViewport()
		return m, cmd
	}

	// Update child components
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		clCmd tea.Cmd
	)
	if m.focus == FocusChat {
		m.textarea, tiCmd = m.textarea.Update(msg)
	}
	if m.focus == FocusSidebar {
		m.threadList, clCmd = m.threadList.Update(msg)
	}
	m.viewport, vpCmd = m.viewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd, clCmd)
}

// handleKey runs the application-level bindings. Keys it does not claim go to
// the focused child component.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.session.Close()
		return tea.Quit, true

	case key.Matches(msg, m.keys.Stop):
		if m.session.Stop() {
			m.refreshThreadList()
			m.updateViewport()
		} else if m.focus == FocusSidebar {
			m.focusChat()
		}
		return nil, true

	case key.Matches(msg, m.keys.NewChat):
		if _, err := m.session.CreateThread(); err != nil {
			m.err = fmt.Errorf("failed to create thread: %w", err)
		}
		m.focusChat()
		m.refreshThreadList()
		m.updateViewport()
		return nil, true

	case key.Matches(msg, m.keys.ToggleSidebar):
		m.sidebarOpen = !m.sidebarOpen
		if !m.sidebarOpen && m.focus == FocusSidebar {
			m.focusChat()
		}
		m.resize()
		m.updateViewport()
		return nil, true

	case key.Matches(msg, m.keys.Clear):
		if err := m.session.ClearActiveThread(); err != nil {
			m.err = fmt.Errorf("failed to clear thread: %w", err)
		}
		m.refreshThreadList()
		m.updateViewport()
		return nil, true

	case key.Matches(msg, m.keys.Settings):
		m.openSettings()
		return nil, true

	case key.Matches(msg, m.keys.SwitchFocus):
		if m.focus == FocusSidebar {
			m.focusChat()
		} else if m.sidebarOpen {
			m.focus = FocusSidebar
			m.textarea.Blur()
		}
		return nil, true

	case key.Matches(msg, m.keys.Send):
		if m.focus == FocusSidebar {
			m.selectHighlighted()
			return nil, true
		}
		return m.send(), true
	}
	return nil, false
}

func (m *Model) focusChat() {
	m.focus = FocusChat
	m.textarea.Focus()
}

func (m *Model) selectHighlighted() {
	item, ok := m.threadList.SelectedItem().(threadItem)
	if !ok {
		return
	}
	if err := m.session.SelectThread(item.thread.ID); err != nil && !errors.Is(err, session.ErrThreadNotFound) {
		m.err = fmt.Errorf("failed to open thread: %w", err)
	}
	m.focusChat()
	m.refreshThreadList()
	m.updateViewport()
}

// send submits the input. Blank input and sends while a reply is pending are
// declined without feedback.
func (m *Model) send() tea.Cmd {
	req, err := m.session.Send(m.textarea.Value())
	switch {
	case errors.Is(err, session.ErrEmptyMessage), errors.Is(err, session.ErrReplyPending):
		return nil
	case err != nil:
		m.err = fmt.Errorf("failed to send message: %w", err)
		m.updateViewport()
		return nil
	}

	m.textarea.Reset()
	m.refreshThreadList()
	m.updateViewport()
	return tea.Batch(m.awaitReply(req), m.spinner.Tick)
}

func (m *Model) awaitReply(req session.Request) tea.Cmd {
	s := m.session
	return func() tea.Msg {
		return ReplyMsg{Reply: s.Await(req)}
	}
}

// applyMode resolves the display mode and rebuilds everything that depends on
// it. The system mode queries the host each time it is applied.
func (m *Model) applyMode() {
	switch m.session.Mode() {
	case models.ModeDark:
		m.dark = true
	case models.ModeLight:
		m.dark = false
	default:
		m.dark = m.darkHost()
	}
	m.styles = NewStyles(m.dark)
	m.applyListStyles()
	m.buildMarkdownRenderer()
	m.log.Debug().Str("mode", string(m.session.Mode())).Bool("dark", m.dark).Msg("appearance applied")
}

func (m *Model) buildMarkdownRenderer() {
	style := "light"
	if m.dark {
		style = "dark"
	}
	wrap := m.viewport.Width - 6
	if wrap < 20 {
		wrap = 20
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		m.log.Warn().Err(err).Msg("markdown renderer unavailable, using plain text")
		m.markdown = nil
		return
	}
	m.markdown = r
}

func (m *Model) resize() {
	sidebar := 0
	if m.sidebarOpen {
		sidebar = m.sidebarWidth
	}
	chatWidth := m.width - sidebar - 2
	if chatWidth < 20 {
		chatWidth = 20
	}
	chatHeight := m.height - 8
	if chatHeight < 3 {
		chatHeight = 3
	}

	m.viewport.Width = chatWidth
	m.viewport.Height = chatHeight
	m.textarea.SetWidth(chatWidth - 2)
	m.threadList.SetSize(m.sidebarWidth-2, m.height-3)
	m.help.Width = chatWidth
	m.buildMarkdownRenderer()
}
