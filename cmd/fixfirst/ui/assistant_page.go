package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"fixfirst/internal/ai"
	"fixfirst/internal/types"
)

// exchange is one question/answer pair in the transcript.
type exchange struct {
	question string
	answer   string
}

// AssistantPageModel is the streaming Q&A pane. Answers are grounded in
// the snapshot the gateway was handed when the question was asked.
type AssistantPageModel struct {
	width  int
	height int

	gateway  ai.Gateway
	snapshot []types.Report

	input      textinput.Model
	transcript []exchange
	streaming  bool
	chunkCh    chan string
	errCh      chan error
	cancel     context.CancelFunc

	renderer *glamour.TermRenderer

	styles Styles
}

// chunkMsg carries one streamed answer fragment.
type chunkMsg string

// streamDoneMsg signals the end of a streamed answer.
type streamDoneMsg struct{}

// streamErrMsg carries a gateway failure.
type streamErrMsg struct{ err error }

// NewAssistantPageModel creates the assistant page.
func NewAssistantPageModel(gateway ai.Gateway, styles Styles) AssistantPageModel {
	ti := textinput.New()
	ti.Placeholder = "Ask about the current reports..."
	ti.CharLimit = 200
	ti.Width = 60
	ti.Focus()

	renderer, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)

	return AssistantPageModel{
		gateway:  gateway,
		input:    ti,
		renderer: renderer,
		styles:   styles,
	}
}

// Init initializes the model.
func (m AssistantPageModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages.
func (m AssistantPageModel) Update(msg tea.Msg) (AssistantPageModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "enter" && !m.streaming {
			question := strings.TrimSpace(m.input.Value())
			if question == "" {
				return m, nil
			}
			m.input.SetValue("")
			m.transcript = append(m.transcript, exchange{question: question})
			m.streaming = true
			m.chunkCh = make(chan string, 8)
			m.errCh = make(chan error, 1)
			ctx, cancel := context.WithCancel(context.Background())
			m.cancel = cancel
			return m, tea.Batch(m.startStream(ctx, question), m.waitChunk())
		}

	case chunkMsg:
		if len(m.transcript) > 0 {
			m.transcript[len(m.transcript)-1].answer += string(msg)
		}
		return m, m.waitChunk()

	case streamDoneMsg:
		m.streaming = false
		m.cancelStream()
		return m, nil

	case streamErrMsg:
		m.streaming = false
		m.cancelStream()
		if len(m.transcript) > 0 {
			m.transcript[len(m.transcript)-1].answer += "\n\n*" + msg.err.Error() + "*"
		}
		return m, nil
	}

	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// startStream runs the gateway call in the background, feeding the chunk
// channel. Cancelling the context unblocks the goroutine even when the
// program stops consuming chunks.
func (m AssistantPageModel) startStream(ctx context.Context, question string) tea.Cmd {
	gateway, snapshot := m.gateway, m.snapshot
	chunkCh, errCh := m.chunkCh, m.errCh
	return func() tea.Msg {
		go func() {
			err := gateway.StreamAnswer(ctx, snapshot, question, func(chunk string) error {
				select {
				case chunkCh <- chunk:
					return nil
				case <-ctx.Done():
					return ctx.Err()
				}
			})
			if err != nil {
				errCh <- err
			}
			close(chunkCh)
		}()
		return nil
	}
}

// cancelStream aborts any in-flight answer stream.
func (m *AssistantPageModel) cancelStream() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

// waitChunk blocks on the next chunk.
func (m AssistantPageModel) waitChunk() tea.Cmd {
	chunkCh, errCh := m.chunkCh, m.errCh
	return func() tea.Msg {
		chunk, ok := <-chunkCh
		if !ok {
			select {
			case err := <-errCh:
				return streamErrMsg{err: err}
			default:
				return streamDoneMsg{}
			}
		}
		return chunkMsg(chunk)
	}
}

// View renders the transcript and the input line.
func (m AssistantPageModel) View() string {
	var sb strings.Builder

	sb.WriteString(m.styles.Title.Render("Assistant"))
	if !m.gateway.Online() {
		sb.WriteString("  ")
		sb.WriteString(m.styles.Warning.Render("offline mode"))
	}
	sb.WriteString("\n")

	// Show the last few exchanges that fit
	start := 0
	if len(m.transcript) > 3 {
		start = len(m.transcript) - 3
	}
	for _, ex := range m.transcript[start:] {
		sb.WriteString(m.styles.Bold.Render("> " + ex.question))
		sb.WriteString("\n")
		answer := ex.answer
		if m.renderer != nil && answer != "" {
			if rendered, err := m.renderer.Render(answer); err == nil {
				answer = rendered
			}
		}
		sb.WriteString(answer)
		sb.WriteString("\n")
	}
	if m.streaming {
		sb.WriteString(m.styles.Muted.Render("..."))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(m.input.View())
	return sb.String()
}

// SetSize updates the size.
func (m *AssistantPageModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.input.Width = w - 8
	if renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(w-4),
	); err == nil {
		m.renderer = renderer
	}
}

// UpdateContent replaces the snapshot future questions are grounded in.
func (m *AssistantPageModel) UpdateContent(snapshot []types.Report) {
	m.snapshot = snapshot
}
