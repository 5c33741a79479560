package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"bankdocs/internal/domain"
)

// SessionPort is the TUI-facing subset of the assistant session.
type SessionPort interface {
	Open(ctx context.Context) error
	Ask(ctx context.Context, question string) (domain.Answer, error)
	Reindex(ctx context.Context) error
}

type entry struct {
	question string
	answer   domain.Answer
}

// Model is the Bubble Tea model for the assistant TUI.
type Model struct {
	session SessionPort
	timeout time.Duration
	input   textinput.Model
	vp      viewport.Model
	entries []entry
	status  string
	busy    bool
	ready   bool
}

type askDoneMsg struct {
	question string
	answer   domain.Answer
	err      error
}

type reindexDoneMsg struct{ err error }

// New creates a new TUI model instance. timeout bounds each session call.
func New(session SessionPort, timeout time.Duration) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask about the documents and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{session: session, timeout: timeout, input: ti, vp: vp, status: "Ready. Ctrl+R rebuilds the index."}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, ch := chatBoxStyle.GetFrameSize()
		_, qh := inputBoxStyle.GetFrameSize()
		totalHeaderLines := 1
		totalFooterLines := 1
		reserved := totalHeaderLines + totalFooterLines + qh + 1
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.vp.Width = max(20, msg.Width)
		m.vp.Height = max(3, vh-ch)
		m.vp.SetContent(m.renderChat())
		m.vp.GotoBottom()
		return m, nil
	case askDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
		} else {
			m.entries = append(m.entries, entry{question: msg.question, answer: msg.answer})
			m.status = fmt.Sprintf("Answered from %d source(s)", len(msg.answer.Sources))
		}
		m.vp.SetContent(m.renderChat())
		m.vp.GotoBottom()
		return m, nil
	case reindexDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.status = "Reindex failed: " + msg.err.Error()
		} else {
			m.entries = nil
			m.status = "Index rebuilt."
		}
		m.vp.SetContent(m.renderChat())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q != "" && !m.busy {
				m.busy = true
				m.status = "Thinking..."
				m.input.SetValue("")
				return m, m.askCmd(q)
			}
		case "ctrl+r":
			if !m.busy {
				m.busy = true
				m.status = "Rebuilding index..."
				return m, m.reindexCmd()
			}
		case "up":
			m.vp.LineUp(1)
			return m, nil
		case "down":
			m.vp.LineDown(1)
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the TUI layout and chat history.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Bank Document Assistant")
	chat := chatBoxStyle.Render(m.vp.View())
	input := inputBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	return header + "\n" + chat + "\n" + input + "\n" + status
}

func (m Model) askCmd(question string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
		defer cancel()
		ans, err := m.session.Ask(ctx, question)
		return askDoneMsg{question: question, answer: ans, err: err}
	}
}

func (m Model) reindexCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
		defer cancel()
		if err := m.session.Reindex(ctx); err != nil {
			return reindexDoneMsg{err: err}
		}
		return reindexDoneMsg{err: m.session.Open(ctx)}
	}
}

func (m Model) renderChat() string {
	if len(m.entries) == 0 {
		return "No questions yet."
	}
	var b strings.Builder
	for i, e := range m.entries {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(questionStyle.Render("You: " + e.question))
		b.WriteString("\n")
		b.WriteString(e.answer.Text)
		if len(e.answer.Sources) > 0 {
			b.WriteString("\n")
			b.WriteString(sourceStyle.Render("Sources: " + strings.Join(e.answer.Sources, "; ")))
		}
	}
	return b.String()
}

var (
	chatBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	questionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	sourceStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
