// Package tui implements the interactive chat interface.
package tui

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/docchat-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docchat-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driving"
)

// appState tracks where the chat session is in its lifecycle.
type appState int

const (
	// stateIngesting means the document is being indexed.
	stateIngesting appState = iota
	// stateReady means the session accepts questions.
	stateReady
	// stateAnswering means an answer stream is in flight.
	stateAnswering
	// stateFailed means ingestion failed; a retry or file change can
	// recover the session.
	stateFailed
)

// App is the chat TUI following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	chat      driving.ChatService
	sessionID string

	// load re-reads the document from disk. Called on start and again
	// whenever the watched file changes.
	load func() (*domain.RawDocument, error)

	ctx    context.Context
	styles *styles.Styles

	spinner  spinner.Model
	input    textinput.Model
	viewport viewport.Model

	state   appState
	docName string

	// transcript holds the rendered conversation, one block per entry.
	transcript []string

	// stream is the in-flight answer, nil outside stateAnswering.
	stream *driving.AnswerStream

	// answer accumulates the streamed fragments of the current answer.
	answer strings.Builder

	// reingest is set when the file changed while an answer was
	// streaming; the re-ingest runs once the stream ends.
	reingest bool

	err    error
	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates the chat TUI for one session. load supplies the
// document bytes; it is called asynchronously from Init.
func NewApp(chat driving.ChatService, sessionID string, load func() (*domain.RawDocument, error)) (*App, error) {
	if chat == nil {
		return nil, errors.New("creating app: chat service is required")
	}
	if load == nil {
		return nil, errors.New("creating app: document loader is required")
	}

	s := styles.DefaultStyles()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = s.Title

	ti := textinput.New()
	ti.Placeholder = "Ask a question about the document..."
	ti.CharLimit = 512

	return &App{
		chat:      chat,
		sessionID: sessionID,
		load:      load,
		ctx:       context.Background(),
		styles:    s,
		spinner:   sp,
		input:     ti,
		state:     stateIngesting,
	}, nil
}

// WithContext sets the context used for service calls.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("docchat"),
		a.spinner.Tick,
		a.ingestCmd(),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.input.Width = msg.Width - 6
		if !a.ready {
			a.viewport = viewport.New(msg.Width, a.viewportHeight())
			a.ready = true
		} else {
			a.viewport.Width = msg.Width
			a.viewport.Height = a.viewportHeight()
		}
		a.refreshViewport()
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case spinner.TickMsg:
		if a.state != stateIngesting && a.state != stateAnswering {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case messages.DocumentIngested:
		a.state = stateReady
		a.err = nil
		if msg.Session != nil && msg.Session.Document != nil {
			a.docName = msg.Session.Document.Name
		}
		a.appendBlock(a.styles.Success.Render(
			fmt.Sprintf("Processing completed: `%s`. Chat with your document now!", a.docName)))
		return a, a.input.Focus()

	case messages.IngestFailed:
		a.state = stateFailed
		a.err = msg.Err
		return a, nil

	case messages.AnswerStarted:
		a.stream = msg.Stream
		a.answer.Reset()
		a.refreshViewport()
		return a, waitForToken(msg.Stream)

	case messages.AnswerToken:
		a.answer.WriteString(msg.Content)
		a.refreshViewport()
		return a, waitForToken(a.stream)

	case messages.AnswerDone:
		a.finishAnswer()
		if a.reingest {
			a.reingest = false
			return a, a.startIngest()
		}
		return a, nil

	case messages.AnswerFailed:
		a.finishAnswer()
		a.err = msg.Err
		if a.reingest {
			a.reingest = false
			return a, a.startIngest()
		}
		return a, nil

	case messages.DocumentChanged:
		switch a.state {
		case stateAnswering:
			a.reingest = true
			return a, nil
		case stateIngesting:
			return a, nil
		default:
			return a, a.startIngest()
		}
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return a, tea.Quit

	case "ctrl+r":
		if a.state == stateReady || a.state == stateFailed {
			return a, a.startIngest()
		}
		return a, nil

	case "enter":
		if a.state != stateReady {
			return a, nil
		}
		question := strings.TrimSpace(a.input.Value())
		if question == "" {
			return a, nil
		}
		a.input.SetValue("")
		a.state = stateAnswering
		a.err = nil
		a.appendBlock(a.styles.Question.Render("You: ") + a.styles.Normal.Render(question))
		return a, tea.Batch(a.spinner.Tick, a.askCmd(question))

	case "up", "down", "pgup", "pgdown":
		var cmd tea.Cmd
		a.viewport, cmd = a.viewport.Update(msg)
		return a, cmd
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(a.titleBar())
	b.WriteString("\n")
	b.WriteString(a.viewport.View())
	b.WriteString("\n")

	switch a.state {
	case stateIngesting:
		b.WriteString(a.spinner.View())
		b.WriteString(a.styles.Muted.Render(" Indexing document..."))
	case stateAnswering:
		b.WriteString(a.spinner.View())
		b.WriteString(a.styles.Muted.Render(" Thinking..."))
	default:
		b.WriteString(a.styles.InputField.Render(a.input.View()))
	}
	b.WriteString("\n")

	if a.err != nil {
		b.WriteString(a.styles.Error.Render("Error: " + a.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString(a.styles.Help.Render("enter: ask • ctrl+r: reload document • esc: quit"))
	return b.String()
}

func (a *App) titleBar() string {
	title := "docchat"
	if a.docName != "" {
		title = "docchat · " + a.docName
	}
	return a.styles.Title.Render(title)
}

func (a *App) viewportHeight() int {
	// Title, input, error slot and help line around the transcript.
	h := a.height - 6
	if h < 3 {
		h = 3
	}
	return h
}

// appendBlock adds one entry to the transcript and scrolls to it.
func (a *App) appendBlock(block string) {
	a.transcript = append(a.transcript, block)
	a.refreshViewport()
}

// refreshViewport re-renders the transcript, including the answer
// currently streaming in.
func (a *App) refreshViewport() {
	if !a.ready {
		return
	}
	content := strings.Join(a.transcript, "\n\n")
	if a.state == stateAnswering && a.answer.Len() > 0 {
		if content != "" {
			content += "\n\n"
		}
		content += a.styles.Answer.Render(a.answer.String())
	}
	a.viewport.SetContent(content)
	a.viewport.GotoBottom()
}

// finishAnswer moves the streamed answer into the transcript together
// with its source attribution.
func (a *App) finishAnswer() {
	block := a.styles.Answer.Render(strings.TrimSpace(a.answer.String()))
	if a.stream != nil {
		if trailer := formatSources(a.stream.Passages); trailer != "" {
			block += "\n" + a.styles.Muted.Render(trailer)
		}
	}
	if strings.TrimSpace(a.answer.String()) != "" {
		a.appendBlock(block)
	}
	a.answer.Reset()
	a.stream = nil
	a.state = stateReady
	a.refreshViewport()
}

// startIngest transitions into indexing and kicks off the load.
func (a *App) startIngest() tea.Cmd {
	a.state = stateIngesting
	a.err = nil
	a.input.Blur()
	return tea.Batch(a.spinner.Tick, a.ingestCmd())
}

func (a *App) ingestCmd() tea.Cmd {
	return func() tea.Msg {
		raw, err := a.load()
		if err != nil {
			return messages.IngestFailed{Err: err}
		}
		if err := a.chat.Ingest(a.ctx, a.sessionID, raw); err != nil {
			return messages.IngestFailed{Err: err}
		}
		session, err := a.chat.Session(a.sessionID)
		if err != nil {
			return messages.IngestFailed{Err: err}
		}
		return messages.DocumentIngested{Session: session}
	}
}

func (a *App) askCmd(question string) tea.Cmd {
	return func() tea.Msg {
		stream, err := a.chat.Ask(a.ctx, a.sessionID, question)
		if err != nil {
			return messages.AnswerFailed{Err: err}
		}
		return messages.AnswerStarted{Stream: stream}
	}
}

// waitForToken pulls the next meaningful event off the answer stream.
func waitForToken(stream *driving.AnswerStream) tea.Cmd {
	return func() tea.Msg {
		for {
			tok, ok := <-stream.Tokens
			if !ok {
				return messages.AnswerDone{}
			}
			if tok.Err != nil {
				return messages.AnswerFailed{Err: tok.Err}
			}
			if tok.Content != "" {
				return messages.AnswerToken{Content: tok.Content}
			}
			// Done markers carry no content; keep reading until the
			// channel closes.
		}
	}
}

// formatSources renders the passages an answer was grounded on.
func formatSources(passages []domain.RetrievedPassage) string {
	if len(passages) == 0 {
		return ""
	}
	positions := make([]int, len(passages))
	for i, p := range passages {
		positions[i] = p.Chunk.Position
	}
	sort.Ints(positions)
	parts := make([]string, len(positions))
	for i, p := range positions {
		parts[i] = fmt.Sprintf("%d", p)
	}
	return "Sources: " + strings.Join(parts, ", ")
}
