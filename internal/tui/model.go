package tui

import (
	"context"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/ragchat/internal/chat"
	"github.com/diogo/ragchat/internal/client"
	"github.com/diogo/ragchat/internal/config"
	"github.com/diogo/ragchat/internal/render"
)

// Message types for the TUI
type (
	// streamStartedMsg carries the chunk channel of a freshly opened reply.
	streamStartedMsg struct {
		ch <-chan client.Chunk
	}
	// chunkMsg is one unit of streamed reply text.
	chunkMsg struct {
		text string
		ch   <-chan client.Chunk
	}
	// streamDoneMsg signals the reply stream ended normally.
	streamDoneMsg struct{}
	// streamInterruptedMsg signals a mid-stream connection drop.
	streamInterruptedMsg struct {
		err error
	}
	// requestFailedMsg signals the request failed before any reply text.
	requestFailedMsg struct {
		err error
	}
)

// Streamer is the backend interface needed by the TUI.
type Streamer interface {
	Stream(ctx context.Context, prompt string) (<-chan client.Chunk, error)
}

// Model represents the chat TUI state
type Model struct {
	client     Streamer
	backendURL string

	// UI components
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model

	// State
	conv    *chat.Conversation
	loading bool
	ready   bool

	copyEnabled   bool
	markdownStyle string

	// Dimensions
	width  int
	height int
}

// NewChatModel creates a new chat TUI model
func NewChatModel(c Streamer, backendURL string, cfg config.Config) Model {
	ti := textinput.New()
	ti.Placeholder = "Ask a question..."
	ti.CharLimit = 4000
	ti.Prompt = ""
	ti.Focus()

	ti.TextStyle = lipgloss.NewStyle().Foreground(colorText)
	ti.PlaceholderStyle = lipgloss.NewStyle().Foreground(colorTextDim)

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = loadingStyle

	style := cfg.Markdown.Style
	if style == "" {
		style = config.DefaultMarkdownConfig().Style
	}

	return Model{
		client:        c,
		backendURL:    backendURL,
		input:         ti,
		spinner:       s,
		conv:          &chat.Conversation{},
		copyEnabled:   cfg.CopyToClipboard,
		markdownStyle: style,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
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

		headerHeight := 4
		inputHeight := 4
		statusHeight := 1
		padding := 2

		vpHeight := m.height - headerHeight - inputHeight - statusHeight - padding
		if vpHeight < 5 {
			vpHeight = 5
		}

		contentWidth := m.width - 4

		if !m.ready {
			m.viewport = viewport.New(contentWidth, vpHeight)
			m.input.Width = contentWidth - 4
			m.ready = true
		} else {
			m.viewport.Width = contentWidth
			m.viewport.Height = vpHeight
			m.input.Width = contentWidth - 4
		}
		m.updateViewport()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "ctrl+y":
			if m.copyEnabled {
				if reply := m.conv.LastReply(); reply != "" {
					_ = clipboard.WriteAll(reply)
				}
			}

		case "enter":
			input := m.input.Value()
			if m.loading || strings.TrimSpace(input) == "" {
				break
			}

			trimmed := strings.TrimSpace(input)
			if trimmed == "exit" || trimmed == "quit" || trimmed == "/exit" || trimmed == "/quit" {
				return m, tea.Quit
			}

			m.conv.AddUser(input)
			m.updateViewport()
			m.viewport.GotoBottom()

			m.loading = true
			m.input.Blur()

			return m, tea.Batch(
				m.sendMessage(input),
				m.spinner.Tick,
			)
		}

	case streamStartedMsg:
		cmds = append(cmds, waitForChunk(msg.ch))

	case chunkMsg:
		m.conv.AppendChunk(msg.text)
		m.updateViewport()
		m.viewport.GotoBottom()
		cmds = append(cmds, waitForChunk(msg.ch))

	case streamDoneMsg:
		m.conv.EndReply()
		m.finishExchange()
		m.updateViewport()
		m.viewport.GotoBottom()

	case streamInterruptedMsg:
		m.conv.Truncate()
		m.finishExchange()
		m.updateViewport()
		m.viewport.GotoBottom()

	case requestFailedMsg:
		m.conv.Fail()
		m.finishExchange()
		m.updateViewport()
		m.viewport.GotoBottom()

	case spinner.TickMsg:
		if m.loading {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	// Only feed key events to the input, and only while it is enabled.
	if !m.loading {
		if _, ok := msg.(tea.KeyMsg); ok {
			m.input, cmd = m.input.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// finishExchange resets the loading state and clears the input buffer.
func (m *Model) finishExchange() {
	m.loading = false
	m.input.Reset()
	m.input.Focus()
}

// sendMessage opens the reply stream for a prompt.
func (m Model) sendMessage(prompt string) tea.Cmd {
	return func() tea.Msg {
		ch, err := m.client.Stream(context.Background(), prompt)
		if err != nil {
			return requestFailedMsg{err: err}
		}
		return streamStartedMsg{ch: ch}
	}
}

// waitForChunk delivers the next chunk from the reply stream.
func waitForChunk(ch <-chan client.Chunk) tea.Cmd {
	return func() tea.Msg {
		chunk, ok := <-ch
		if !ok {
			return streamDoneMsg{}
		}
		if chunk.Err != nil {
			return streamInterruptedMsg{err: chunk.Err}
		}
		return chunkMsg{text: chunk.Text, ch: ch}
	}
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	var sections []string
	contentWidth := m.width - 4

	header := headerStyle.Width(contentWidth).Render(
		lipgloss.JoinHorizontal(
			lipgloss.Center,
			titleStyle.Render("✦ RAG Assistant"),
			subtitleStyle.Render("  •  "+m.backendURL),
		),
	)
	sections = append(sections, header)

	var messagesContent string
	if m.conv.Len() == 0 {
		messagesContent = m.renderWelcome()
	} else {
		messagesContent = m.viewport.View()
	}
	sections = append(sections, messagesAreaStyle.
		Width(contentWidth).
		Height(m.viewport.Height).
		Render(messagesContent))

	var inputContent string
	if m.loading {
		inputContent = m.spinner.View() + loadingStyle.Render(" Waiting for answer...")
	} else {
		inputContent = lipgloss.JoinHorizontal(
			lipgloss.Left,
			inputLabelStyle.Render("❯ "),
			m.input.View(),
		)
	}
	sections = append(sections, inputPanelStyle.Width(contentWidth).Render(inputContent))

	sections = append(sections, m.renderStatusBar(contentWidth))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderWelcome renders the welcome panel shown while the conversation is empty
func (m Model) renderWelcome() string {
	width := m.viewport.Width - 4

	icon := welcomeIconStyle.Width(width).Render("✦")
	title := welcomeTitleStyle.Width(width).Render("Welcome to RAG Assistant")
	subtitle := welcomeStyle.Width(width).Render("Ask a question about your documents to get started")

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		"",
		icon,
		"",
		title,
		"",
		subtitle,
		"",
	)

	contentHeight := lipgloss.Height(content)
	topPadding := (m.viewport.Height - contentHeight) / 2
	if topPadding < 0 {
		topPadding = 0
	}

	return strings.Repeat("\n", topPadding) + content
}

// renderStatusBar renders the bottom status bar with shortcuts
func (m Model) renderStatusBar(width int) string {
	shortcuts := []struct {
		key  string
		desc string
	}{
		{"Enter", "Send"},
		{"↑↓", "Scroll"},
	}
	if m.copyEnabled {
		shortcuts = append(shortcuts, struct {
			key  string
			desc string
		}{"Ctrl+Y", "Copy reply"})
	}
	shortcuts = append(shortcuts, struct {
		key  string
		desc string
	}{"Esc", "Quit"})

	var items []string
	for _, s := range shortcuts {
		items = append(items, statusKeyStyle.Render(s.key)+statusDescStyle.Render(" "+s.desc))
	}

	bar := strings.Join(items, "  │  ")
	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(bar)
}

// updateViewport refreshes the viewport content with styled messages
func (m *Model) updateViewport() {
	if !m.ready {
		return
	}

	var content strings.Builder
	blockWidth := m.viewport.Width - 6

	for i, msg := range m.conv.Messages() {
		if i > 0 {
			content.WriteString("\n")
		}

		if msg.Role == chat.RoleUser {
			// Literal text, pushed right with a highlight
			label := userLabelStyle.Render("You ⬤")
			bubble := userBubbleStyle.MaxWidth(blockWidth).Render(msg.Text)
			block := lipgloss.JoinVertical(lipgloss.Right, label, bubble)
			content.WriteString(lipgloss.NewStyle().Width(blockWidth).Align(lipgloss.Right).Render(block))
		} else {
			label := assistantLabelStyle.Render("✦ Assistant")

			if msg.Text == chat.FailureText {
				content.WriteString(label + "\n" + errorStyle.Render(msg.Text))
			} else {
				rendered, err := render.Markdown(msg.Text, render.DefaultOptions().
					WithWidth(blockWidth-4).
					WithStyle(m.markdownStyle))
				if err != nil {
					rendered = msg.Text
				}
				rendered = strings.TrimRight(rendered, "\n")
				content.WriteString(label + "\n" + assistantBubbleStyle.Render(rendered))
			}
		}
		content.WriteString("\n")
	}

	m.viewport.SetContent(content.String())
}

// RunChat starts the chat TUI against the given backend.
func RunChat(c *client.Client, cfg config.Config) error {
	m := NewChatModel(c, c.BaseURL(), cfg)

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
