// Package tui is the terminal surface of the viewer: it shows the current
// slide as text and forwards key presses to the session.
package tui

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fredcamaral/marpview/internal/domain/entities"
	"github.com/fredcamaral/marpview/internal/domain/ports"
)

// Session is the part of the viewer session the terminal drives
type Session interface {
	ports.InputHandler
	View() entities.View
}

// viewMsg carries a projection pushed by the session
type viewMsg entities.View

// loadedMsg is the result of opening a file from the prompt
type loadedMsg struct {
	view entities.View
	err  error
}

// Model is the bubbletea model of the terminal viewer
type Model struct {
	ctx      context.Context
	session  Session
	keys     keyMap
	help     help.Model
	viewport viewport.Model
	input    textinput.Model
	styles   styles
	view     entities.View
	open     func(path string) (io.ReadCloser, error)
	width    int
	height   int
	quitting bool
}

// NewModel creates a model showing the session's current view
func NewModel(ctx context.Context, session Session, extensions []string) Model {
	input := textinput.New()
	input.Placeholder = "path/to/deck.md"
	input.Prompt = "› "
	input.CharLimit = 4096
	input.Width = 60

	m := Model{
		ctx:      ctx,
		session:  session,
		keys:     defaultKeyMap(),
		help:     help.New(),
		viewport: viewport.New(80, 20),
		input:    input,
		open: func(path string) (io.ReadCloser, error) {
			return os.Open(path)
		},
		width:  80,
		height: 24,
	}
	if len(extensions) > 0 {
		m.input.Placeholder = "path/to/deck" + extensions[0]
	}
	m.apply(session.View())
	return m
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		if msg.Width > 8 && msg.Width-8 < 60 {
			m.input.Width = msg.Width - 8
		}
		m.layout()
		return m, nil

	case viewMsg:
		m.apply(entities.View(msg))
		return m, nil

	case loadedMsg:
		m.apply(msg.view)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	switch m.view.State {
	case entities.ViewStateFileSelect:
		m.input, cmd = m.input.Update(msg)
	case entities.ViewStateSlideView:
		m.viewport, cmd = m.viewport.Update(msg)
	}
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m.quit()
	}

	switch m.view.State {
	case entities.ViewStateFileSelect:
		switch msg.Type {
		case tea.KeyEsc:
			return m.quit()
		case tea.KeyEnter:
			path := strings.TrimSpace(m.input.Value())
			if path == "" {
				return m, nil
			}
			return m, m.openFile(path)
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	case entities.ViewStateError:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m.quit()
		case key.Matches(msg, m.keys.Retry):
			view, _ := m.session.HandleCommand(entities.Command{Action: entities.ActionRetry})
			m.apply(view)
		}
		return m, nil

	case entities.ViewStateSlideView:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m.quit()
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			m.layout()
			return m, nil
		}
		m.apply(m.session.HandleKey(msg.String()))
		return m, nil

	default:
		if key.Matches(msg, m.keys.Quit) {
			return m.quit()
		}
		return m, nil
	}
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	return m, tea.Quit
}

// openFile loads a deck off the event loop. An unreadable path still goes
// through the session so the extension check and error state apply.
func (m Model) openFile(path string) tea.Cmd {
	ctx, session, open := m.ctx, m.session, m.open
	return func() tea.Msg {
		var r io.Reader
		f, err := open(path)
		if err != nil {
			r = errReader{err: err}
		} else {
			defer func() { _ = f.Close() }()
			r = f
		}

		view, err := session.HandleFile(ctx, filepath.Base(path), r)
		return loadedMsg{view: view, err: err}
	}
}

type errReader struct {
	err error
}

func (r errReader) Read([]byte) (int, error) {
	return 0, r.err
}

func (m *Model) apply(view entities.View) {
	slideChanged := view.Current != m.view.Current || view.DeckName != m.view.DeckName
	m.view = view
	m.styles = stylesFor(view.Theme)

	if view.State == entities.ViewStateFileSelect {
		m.input.Focus()
	} else {
		m.input.Blur()
		m.input.SetValue("")
	}

	m.layout()
	if slideChanged {
		m.viewport.GotoTop()
	}
}

// layout sizes the viewport around the status and help bars and refills it
func (m *Model) layout() {
	chrome := lipgloss.Height(m.statusBar()) + lipgloss.Height(m.help.View(m.keys))
	height := m.height - chrome
	if height < 1 {
		height = 1
	}
	m.viewport.Width = m.width
	m.viewport.Height = height
	m.viewport.SetContent(m.slideContent())
}

func (m Model) slideContent() string {
	if m.view.State != entities.ViewStateSlideView {
		return ""
	}

	width := m.width - 4
	if width < 10 {
		width = 10
	}
	body := m.styles.Body.Width(width).Render(m.view.SlideText)
	return lipgloss.JoinVertical(lipgloss.Left, m.styles.Body.Render(m.styles.Title.Render(m.view.SlideTitle)), body)
}

func (m Model) statusBar() string {
	title := m.view.Title
	if title == "" {
		title = m.view.DeckName
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		m.styles.Indicator.Render(m.view.Indicator),
		m.styles.Status.Render(title),
	)
}

// View implements tea.Model
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	switch m.view.State {
	case entities.ViewStateFileSelect:
		return lipgloss.JoinVertical(lipgloss.Left,
			m.styles.Title.Render("marpview"),
			"Open a deck:",
			m.input.View(),
			"",
			m.styles.Muted.Render("enter: open  esc: quit"),
		)

	case entities.ViewStateProcessing:
		return m.styles.Muted.Render("Rendering deck…")

	case entities.ViewStateError:
		return lipgloss.JoinVertical(lipgloss.Left,
			m.styles.Error.Render(m.view.Error),
			"",
			m.styles.Muted.Render("r: retry  q: quit"),
		)

	default:
		return lipgloss.JoinVertical(lipgloss.Left,
			m.statusBar(),
			m.viewport.View(),
			m.help.View(m.keys),
		)
	}
}
