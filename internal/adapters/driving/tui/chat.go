// Package tui provides the interactive chat interface. One chat
// program holds one session, so follow-up questions are reformulated
// against the conversation so far.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/scholia-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/scholia-cli/internal/core/ports/driving"
)

// answerReceived is emitted when an ask round-trip completes.
type answerReceived struct {
	text string
}

// answerFailed is emitted when an ask round-trip errors.
type answerFailed struct {
	err error
}

// ChatModel is the bubbletea model for the chat view.
type ChatModel struct {
	styles  *styles.Styles
	input   textinput.Model
	spinner spinner.Model
	history viewport.Model

	answers   driving.AnswerService
	ctx       context.Context
	sessionID string

	transcript []string
	waiting    bool
	err        error
	ready      bool
	width      int
	height     int
}

// NewChatModel creates a chat model over the given answer service.
// The session is created lazily on the first question.
func NewChatModel(ctx context.Context, answers driving.AnswerService, sessionID string) *ChatModel {
	s := styles.DefaultStyles()

	ti := textinput.New()
	ti.Placeholder = "Ask a question about the indexed papers..."
	ti.Prompt = "> "
	ti.CharLimit = 500
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &ChatModel{
		styles:    s,
		input:     ti,
		spinner:   sp,
		answers:   answers,
		ctx:       ctx,
		sessionID: sessionID,
		width:     80,
		height:    24,
	}
}

// Init initialises the chat model.
func (m *ChatModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the chat view.
func (m *ChatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			if m.waiting {
				return m, nil
			}
			question := strings.TrimSpace(m.input.Value())
			if question == "" {
				return m, nil
			}
			m.input.Reset()
			m.err = nil
			m.waiting = true
			m.appendTurn(m.styles.UserLabel.Render("You"), question)
			return m, tea.Batch(m.spinner.Tick, m.ask(question))
		}

	case answerReceived:
		m.waiting = false
		m.appendTurn(m.styles.AssistantLabel.Render("Scholia"), msg.text)
		return m, nil

	case answerFailed:
		m.waiting = false
		m.err = msg.err
		return m, nil

	case spinner.TickMsg:
		if !m.waiting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.history, cmd = m.history.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// View renders the chat view.
func (m *ChatModel) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("Scholia Chat"))
	b.WriteString("\n\n")
	b.WriteString(m.history.View())
	b.WriteString("\n")

	if m.waiting {
		b.WriteString(m.styles.Muted.Render(m.spinner.View() + " thinking..."))
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString(m.styles.Error.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString(m.styles.InputField.Width(m.width - 4).Render(m.input.View()))
	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render("enter: ask • esc: quit"))
	return b.String()
}

// ask issues the question to the answer service off the UI loop.
func (m *ChatModel) ask(question string) tea.Cmd {
	return func() tea.Msg {
		answer, err := m.answers.Ask(m.ctx, m.sessionID, question)
		if err != nil {
			return answerFailed{err: err}
		}
		return answerReceived{text: answer.Text}
	}
}

// appendTurn adds one labelled turn to the transcript and scrolls to
// the bottom.
func (m *ChatModel) appendTurn(label, text string) {
	m.transcript = append(m.transcript, fmt.Sprintf("%s\n%s\n", label, text))
	m.history.SetContent(strings.Join(m.transcript, "\n"))
	m.history.GotoBottom()
}

// layout resizes the history viewport to the available space.
func (m *ChatModel) layout() {
	// Title, spinner/error line, input box, help line.
	const chrome = 8
	height := m.height - chrome
	if height < 3 {
		height = 3
	}
	if !m.ready {
		m.history = viewport.New(m.width, height)
		m.ready = true
	} else {
		m.history.Width = m.width
		m.history.Height = height
	}
	m.history.SetContent(strings.Join(m.transcript, "\n"))
}

// Run starts the chat program and blocks until the user quits.
func Run(ctx context.Context, answers driving.AnswerService, sessionID string) error {
	model := NewChatModel(ctx, answers, sessionID)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}
