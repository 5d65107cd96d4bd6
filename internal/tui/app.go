// Package tui renders the chat client: conversation history, input
// affordances and a settings surface, driven by the chat and settings
// stores. Store updates reach the event loop via program.Send.
package tui

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"adchat/internal/store"
	"adchat/pkg/chattypes"
)

type view int

const (
	viewChat view = iota
	viewSettings
)

// ProgramReady delivers the running program so store subscriptions can feed
// the event loop.
type ProgramReady struct{ Program *tea.Program }

type stateChanged struct{}

type connectResult struct{ err error }

// Model is the bubbletea model for the chat client.
type Model struct {
	chatStore     *store.ChatStore
	settingsStore *store.SettingsStore

	viewport viewport.Model
	input    textinput.Model
	spin     spinner.Model

	program *tea.Program
	view    view
	width   int
	height  int
	ready   bool

	unsubChat     func()
	unsubSettings func()
	connectErr    error
}

// New creates the TUI model over the two stores.
func New(chatStore *store.ChatStore, settingsStore *store.SettingsStore) Model {
	input := textinput.New()
	input.Placeholder = "Ask the analytics assistant..."
	input.Focus()
	input.CharLimit = 4000

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	return Model{
		chatStore:     chatStore,
		settingsStore: settingsStore,
		viewport:      viewport.New(80, 20),
		input:         input,
		spin:          spin,
		width:         80,
		height:        24,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spin.Tick)
}

// Update implements tea.Model.
func (m Model) Update(rawMsg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := rawMsg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = m.chatHeight()
		m.input.Width = msg.Width - 4
		m.ready = true
		m.refreshViewport()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case ProgramReady:
		m.program = msg.Program
		p := msg.Program
		m.unsubChat = m.chatStore.Subscribe(func() { p.Send(stateChanged{}) })
		m.unsubSettings = m.settingsStore.Subscribe(func() { p.Send(stateChanged{}) })
		return m, m.connectCmd()

	case stateChanged:
		m.refreshViewport()
		return m, nil

	case connectResult:
		m.connectErr = msg.err
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(rawMsg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.teardown()
		return m, tea.Quit

	case "ctrl+s":
		if m.view == viewSettings {
			m.view = viewChat
		} else {
			m.view = viewSettings
		}
		return m, nil

	case "esc":
		m.view = viewChat
		return m, nil

	case "ctrl+l":
		m.chatStore.ClearMessages()
		return m, nil

	case "enter":
		if m.view != viewChat {
			return m, nil
		}
		content := strings.TrimSpace(m.input.Value())
		if content == "" {
			return m, nil
		}
		m.chatStore.SendMessage(content)
		m.input.Reset()
		return m, nil
	}

	if m.view == viewChat {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) teardown() {
	if m.unsubChat != nil {
		m.unsubChat()
		m.unsubChat = nil
	}
	if m.unsubSettings != nil {
		m.unsubSettings()
		m.unsubSettings = nil
	}
	m.chatStore.DisconnectWebSocket()
}

func (m Model) connectCmd() tea.Cmd {
	chatStore := m.chatStore
	return func() tea.Msg {
		return connectResult{err: chatStore.ConnectWebSocket(context.Background())}
	}
}

func (m *Model) refreshViewport() {
	atBottom := m.viewport.AtBottom()
	m.viewport.SetContent(m.renderMessages())
	if atBottom {
		m.viewport.GotoBottom()
	}
}

func (m Model) chatHeight() int {
	// Header, typing line, input and help line take four rows.
	h := m.height - 4
	if h < 3 {
		h = 3
	}
	return h
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}
	if m.view == viewSettings {
		return m.settingsView()
	}
	return m.chatView()
}

func (m Model) chatView() string {
	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	if m.chatStore.IsTyping() {
		b.WriteString(typingStyle.Render(m.spin.View() + " assistant is typing..."))
	}
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter send · ctrl+s settings · ctrl+l clear · ctrl+c quit"))
	return b.String()
}

func (m Model) headerView() string {
	status := disconnectedStyle.Render("● offline")
	if m.chatStore.IsConnected() {
		status = connectedStyle.Render("● online")
	}
	title := headerStyle.Render("adchat")
	gap := m.width - lipgloss.Width(title) - lipgloss.Width(status)
	if gap < 1 {
		gap = 1
	}
	return title + strings.Repeat(" ", gap) + status
}

func (m Model) renderMessages() string {
	messages := m.chatStore.Messages()
	if len(messages) == 0 {
		return helpStyle.Render("No messages yet. Say hello!")
	}

	var b strings.Builder
	for i, msg := range messages {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.renderMessage(msg))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderMessage(msg chattypes.Message) string {
	label := userLabelStyle.Render("you")
	if msg.Role == chattypes.RoleAssistant {
		label = assistantLabelStyle.Render("assistant")
	}
	ts := timestampStyle.Render(msg.Timestamp.Format("15:04"))

	body := msg.Content
	if msg.Role == chattypes.RoleAssistant {
		body = renderMarkdown(msg.Content, m.width-2)
	}

	out := fmt.Sprintf("%s %s\n%s", label, ts, body)
	if msg.HasImage() {
		size := base64.StdEncoding.DecodedLen(len(msg.ImageData))
		out += "\n" + chartHintStyle.Render(fmt.Sprintf("[chart image · ~%d KB]", size/1024))
	}
	return out
}

func (m Model) settingsView() string {
	settings := m.settingsStore.ModelSettings()

	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteString("\n\n")
	b.WriteString(settingsTitleStyle.Render("Model settings"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  model:       %s\n", settings.ModelName))
	b.WriteString(fmt.Sprintf("  api key:     %s\n", maskedStyle.Render(chattypes.MaskSecret(settings.APIKey))))
	b.WriteString(fmt.Sprintf("  temperature: %.2f\n", settings.Temperature))
	b.WriteString(fmt.Sprintf("  max tokens:  %d\n", settings.MaxTokens))
	b.WriteString("\n")
	b.WriteString(settingsTitleStyle.Render("Linked accounts"))
	b.WriteString("\n")

	accounts := m.settingsStore.Accounts()
	if len(accounts) == 0 {
		b.WriteString(helpStyle.Render("  none linked — use `adchat accounts add`\n"))
	}
	for _, account := range accounts {
		marker := inactiveAccountStyle.Render("○")
		if account.IsActive {
			marker = activeAccountStyle.Render("●")
		}
		b.WriteString(fmt.Sprintf("  %s %s (client %s)\n", marker, account.Name, account.ClientID))
	}

	b.WriteString("\n")
	if m.settingsStore.IsConfigured() {
		b.WriteString(connectedStyle.Render("Fully configured."))
	} else {
		b.WriteString(disconnectedStyle.Render("Not fully configured: needs an API key and an active account."))
	}
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("esc back · ctrl+c quit"))
	return b.String()
}

// Run starts the TUI over the given stores and blocks until exit. The
// connection is torn down before returning.
func Run(chatStore *store.ChatStore, settingsStore *store.SettingsStore) error {
	m := New(chatStore, settingsStore)
	p := tea.NewProgram(m, tea.WithAltScreen())

	go func() {
		p.Send(ProgramReady{Program: p})
	}()

	_, err := p.Run()
	chatStore.DisconnectWebSocket()
	return err
}
