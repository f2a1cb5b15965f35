package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/speedybites/bitechat/internal/actions"
	"github.com/speedybites/bitechat/internal/chat"
	apierrors "github.com/speedybites/bitechat/internal/errors"
	"github.com/speedybites/bitechat/internal/models"
)

// Message types for the TUI
type (
	// stateChangedMsg carries a store snapshot; the store's change
	// callback is wired to deliver one after every transition.
	stateChangedMsg struct {
		state chat.State
	}
	replyMsg struct {
		reply *models.Reply
	}
	failMsg struct {
		err error
	}
)

// Model represents the widget state
type Model struct {
	store   *chat.Store
	gateway chat.Exchanger

	// UI components
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model
	cache    *renderCache

	// Rendered state (refreshed from store snapshots)
	state chat.State

	// Quick-action bar selection; -1 means the text input has focus.
	actionCursor int

	lastErr error
	ready   bool

	// Dimensions
	width  int
	height int
}

// NewModel creates the widget over a store and gateway.
func NewModel(store *chat.Store, gateway chat.Exchanger) Model {
	ta := textarea.New()
	ta.Placeholder = "Ask about our menu, hours, branches..."
	ta.CharLimit = 500
	ta.ShowLineNumbers = false
	ta.SetHeight(1)
	ta.Focus()

	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextDim)
	ta.BlurredStyle = ta.FocusedStyle

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = loadingStyle

	return Model{
		store:        store,
		gateway:      gateway,
		textarea:     ta,
		spinner:      s,
		cache:        newRenderCache(),
		state:        store.Snapshot(),
		actionCursor: -1,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.spinner.Tick,
	)
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 3
		actionsHeight := 3
		inputHeight := 3
		statusHeight := 1
		padding := 2

		vpHeight := m.height - headerHeight - actionsHeight - inputHeight - statusHeight - padding
		if vpHeight < 5 {
			vpHeight = 5
		}
		contentWidth := m.width - 4

		if !m.ready {
			m.viewport = viewport.New(contentWidth, vpHeight)
			m.textarea.SetWidth(contentWidth - 4)
			m.ready = true
		} else {
			m.viewport.Width = contentWidth
			m.viewport.Height = vpHeight
			m.textarea.SetWidth(contentWidth - 4)
		}
		m.refreshViewport()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "esc":
			if m.actionCursor >= 0 {
				m.actionCursor = -1
				m.textarea.Focus()
			} else if !m.state.Loading {
				return m, tea.Quit
			}

		case "tab":
			if !m.state.Loading && len(m.visibleActions()) > 0 {
				m.actionCursor++
				if m.actionCursor >= len(m.visibleActions()) {
					m.actionCursor = -1
				}
				if m.actionCursor >= 0 {
					m.textarea.Blur()
				} else {
					m.textarea.Focus()
				}
			}

		case "left":
			if m.actionCursor > 0 {
				m.actionCursor--
			}

		case "right":
			if m.actionCursor >= 0 && m.actionCursor < len(m.visibleActions())-1 {
				m.actionCursor++
			}

		case "enter":
			if m.actionCursor >= 0 {
				visible := m.visibleActions()
				if m.actionCursor < len(visible) {
					cmd = m.submit(visible[m.actionCursor].ActionText)
					cmds = append(cmds, cmd)
				}
				m.actionCursor = -1
				m.textarea.Focus()
			} else {
				cmd = m.submit(m.textarea.Value())
				cmds = append(cmds, cmd)
			}
		}

	case stateChangedMsg:
		m.state = msg.state
		if m.actionCursor >= len(m.visibleActions()) {
			m.actionCursor = -1
			m.textarea.Focus()
		}
		m.refreshViewport()
		m.viewport.GotoBottom()

	case replyMsg:
		m.store.ApplyReply(msg.reply)
		m.state = m.store.Snapshot()
		m.refreshViewport()
		m.viewport.GotoBottom()

	case failMsg:
		m.lastErr = msg.err
		m.store.ApplyFailure()
		m.state = m.store.Snapshot()
		m.refreshViewport()
		m.viewport.GotoBottom()

	case spinner.TickMsg:
		if m.state.Loading {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	// Input is disabled while an exchange is in flight, and key events
	// go to the textarea only when it has focus. Enter is consumed above
	// so it never inserts a newline.
	if !m.state.Loading && m.actionCursor < 0 {
		if key, ok := msg.(tea.KeyMsg); ok && key.String() != "enter" {
			m.textarea, cmd = m.textarea.Update(msg)
			m.store.SetInput(m.textarea.Value())
			cmds = append(cmds, cmd)
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// submit routes both free text and quick-action text through the store's
// single entry point. An accepted submission starts exactly one exchange.
func (m *Model) submit(text string) tea.Cmd {
	if !m.store.SubmitUserText(text) {
		return nil
	}
	m.textarea.Reset()
	m.lastErr = nil
	m.state = m.store.Snapshot()
	m.refreshViewport()
	m.viewport.GotoBottom()

	gw := m.gateway
	return tea.Batch(
		func() tea.Msg {
			reply, err := gw.Exchange(context.Background(), text)
			if err != nil {
				return failMsg{err: err}
			}
			return replyMsg{reply: reply}
		},
		m.spinner.Tick,
	)
}

func (m Model) visibleActions() []actions.QuickAction {
	return actions.Visible(m.state.Flags)
}

// View renders the widget
func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	var sections []string
	contentWidth := m.width - 4

	// Header
	headerContent := lipgloss.JoinHorizontal(
		lipgloss.Center,
		titleStyle.Render("🍔 Speedy Bites"),
		hintStyle.Render("  •  "),
		subtitleStyle.Render("chat with us"),
	)
	sections = append(sections, headerStyle.Width(contentWidth).Render(headerContent))

	// Transcript
	sections = append(sections, messagesAreaStyle.
		Width(contentWidth).
		Height(m.viewport.Height).
		Render(m.viewport.View()))

	// Quick actions
	if bar := m.renderActionBar(); bar != "" {
		sections = append(sections, bar)
	}

	// Input area
	var inputContent string
	if m.state.Loading {
		inputContent = m.spinner.View() + loadingStyle.Render(" Speedy Bites is typing...")
	} else {
		inputContent = lipgloss.JoinVertical(
			lipgloss.Left,
			inputLabelStyle.Render("You"),
			m.textarea.View(),
		)
	}
	sections = append(sections, inputPanelStyle.Width(contentWidth).Render(inputContent))

	// Status bar
	sections = append(sections, m.renderStatusBar(contentWidth))

	if m.lastErr != nil {
		sections = append(sections, m.renderErrorDetail())
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderActionBar renders the quick actions still available this session.
func (m Model) renderActionBar() string {
	visible := m.visibleActions()
	if len(visible) == 0 {
		return ""
	}

	items := make([]string, 0, len(visible))
	for i, a := range visible {
		label := symbolGlyph(a.Symbol) + " " + a.Label
		if i == m.actionCursor {
			items = append(items, actionSelectedStyle.Render(label))
		} else {
			items = append(items, actionStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, items...)
}

// renderStatusBar renders the bottom shortcut hints.
func (m Model) renderStatusBar(width int) string {
	shortcuts := []struct {
		key  string
		desc string
	}{
		{"Enter", "Send"},
		{"Tab", "Quick actions"},
		{"↑↓", "Scroll"},
		{"Esc", "Quit"},
	}

	var items []string
	for _, s := range shortcuts {
		items = append(items, statusKeyStyle.Render(s.key)+statusDescStyle.Render(" "+s.desc))
	}

	bar := strings.Join(items, "  │  ")
	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(bar)
}

// renderErrorDetail shows gateway failure details under the status bar.
// The transcript already carries the user-facing error message.
func (m Model) renderErrorDetail() string {
	detail := fmt.Sprintf("⚠ %v", m.lastErr)
	if status := apierrors.GetHTTPStatus(m.lastErr); status > 0 {
		detail += fmt.Sprintf(" (HTTP %d)", status)
	}
	switch {
	case apierrors.IsTimeoutError(m.lastErr):
		detail += " (the responder took too long)"
	case apierrors.IsNetworkError(m.lastErr):
		detail += " (is the server running?)"
	}
	return errorStyle.Render(detail)
}

// refreshViewport rebuilds the transcript view from the current snapshot.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}

	bubbleWidth := m.viewport.Width - 6
	var content strings.Builder

	for i, msg := range m.state.Transcript {
		if i > 0 {
			content.WriteString("\n")
		}

		if msg.Sender == models.User {
			content.WriteString(userLabelStyle.Render("⬤ You"))
			content.WriteString("\n")
			content.WriteString(userBubbleStyle.Width(bubbleWidth).Render(msg.Text))
		} else {
			content.WriteString(botLabelStyle.Render("🍔 Speedy Bites"))
			content.WriteString("\n")
			content.WriteString(botBubbleStyle.Width(bubbleWidth).Render(
				m.cache.render(msg.Text, bubbleWidth-4)))
		}
		content.WriteString("\n")
	}

	m.viewport.SetContent(content.String())
}

// newWidgetProgram builds the program and subscribes it to store changes.
// Store transitions driven by Update fire the change callback while the
// event loop is mid-dispatch, and Program.Send blocks until the loop drains,
// so notifications must be delivered on their own goroutine.
func newWidgetProgram(store *chat.Store, gateway chat.Exchanger, opts ...tea.ProgramOption) *tea.Program {
	p := tea.NewProgram(NewModel(store, gateway), opts...)

	store.OnChange(func(st chat.State) {
		go p.Send(stateChangedMsg{state: st})
	})

	return p
}

// RunWidget starts the chat widget.
func RunWidget(store *chat.Store, gateway chat.Exchanger) error {
	p := newWidgetProgram(store, gateway, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
