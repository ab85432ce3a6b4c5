// Package app implements the gridterm viewer: a Bubble Tea model that
// hosts one cell grid fed from a shell PTY and renders it with lipgloss
// styles. It is deliberately a thin collaborator around the grid - all
// terminal semantics live in pkg/grid.
package app

import (
	"fmt"
	"image/color"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/adrg/xdg"
	"github.com/charmbracelet/colorprofile"
	"github.com/google/uuid"

	"github.com/dodorz/gridterm/internal/feed"
	"github.com/dodorz/gridterm/internal/term"
	"github.com/dodorz/gridterm/pkg/grid"
)

// ptyOutputMsg signals that the shell produced output and the screen
// needs repainting.
type ptyOutputMsg struct{}

// shellExitedMsg signals that the shell process ended.
type shellExitedMsg struct{}

// snapshotMsg reports the result of a screen dump.
type snapshotMsg struct {
	path string
	err  error
}

// Options configures the viewer.
type Options struct {
	// Shell is the command to run; empty auto-detects.
	Shell string
	// Width and Height are the initial grid dimensions.
	Width, Height int
	// Scrollback is the scrollback line budget.
	Scrollback int
	// Palette is the 16-color palette used for rendering.
	Palette [16]color.Color
	// Profile is the color capability of the host terminal.
	Profile colorprofile.Profile
	// Logger receives unhandled-sequence notes from the feeder.
	Logger feed.Logger
}

// Model is the viewer's Bubble Tea model.
type Model struct {
	grid    *grid.Grid
	feeder  *feed.Feeder
	session *term.Session
	program *tea.Program

	opts Options

	// scrollOffset is how many lines the viewport is scrolled back
	// into scrollback; zero means live view.
	scrollOffset int

	styles map[grid.Attr]lipgloss.Style
	status string
	err    error
}

// New creates the viewer model. The session starts in Init.
func New(opts Options) *Model {
	g := grid.New(opts.Width, opts.Height, opts.Scrollback)
	f := feed.New(g)
	if opts.Logger != nil {
		f.SetLogger(opts.Logger)
	}
	return &Model{
		grid:   g,
		feeder: f,
		opts:   opts,
		styles: make(map[grid.Attr]lipgloss.Style),
	}
}

// SetProgram hands the model the program it runs under, so the PTY
// reader goroutine can push repaint messages. Must be called before
// the program runs.
func (m *Model) SetProgram(p *tea.Program) { m.program = p }

// Err returns the fatal error that ended the session, if any.
func (m *Model) Err() error { return m.err }

// Init starts the shell session.
func (m *Model) Init() tea.Cmd {
	return func() tea.Msg {
		s, err := term.Start(m.feeder, m.opts.Shell, func() {
			if m.program != nil {
				m.program.Send(ptyOutputMsg{})
			}
		})
		if err != nil {
			m.err = err
			return tea.Quit()
		}
		m.session = s
		return nil
	}
}

// Update handles input, resize and PTY events.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if msg.Width > 0 && msg.Height > 0 {
			if m.session != nil {
				_ = m.session.Resize(msg.Width, msg.Height)
			} else {
				m.grid.Resize(msg.Width, msg.Height)
			}
			m.scrollOffset = 0
		}
		return m, nil

	case ptyOutputMsg:
		if m.session != nil && m.session.Exited() {
			return m, func() tea.Msg { return shellExitedMsg{} }
		}
		return m, nil

	case shellExitedMsg:
		return m, tea.Quit

	case snapshotMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("snapshot failed: %v", msg.err)
		} else {
			m.status = "snapshot: " + msg.path
		}
		return m, nil

	case tea.KeyPressMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+q":
		if m.session != nil {
			_ = m.session.Close()
		}
		return m, tea.Quit
	case "pgup":
		m.scrollOffset = min(m.scrollOffset+m.grid.Height()/2, m.grid.ScrollbackLen())
		return m, nil
	case "pgdown":
		m.scrollOffset = max(m.scrollOffset-m.grid.Height()/2, 0)
		return m, nil
	case "ctrl+s":
		return m, m.snapshot()
	}

	// Anything else belongs to the shell. Input drops the viewport
	// back to the live screen.
	m.scrollOffset = 0
	m.status = ""
	if m.session != nil {
		if b := keyBytes(msg); len(b) > 0 {
			_ = m.session.SendInput(b)
		}
	}
	return m, nil
}

// snapshot dumps screen and scrollback to the XDG state directory.
func (m *Model) snapshot() tea.Cmd {
	dump := m.grid.ScreenAndScrollbackString()
	return func() tea.Msg {
		path, err := xdg.StateFile("gridterm/snapshot-" + uuid.NewString() + ".txt")
		if err != nil {
			return snapshotMsg{err: err}
		}
		if err := os.WriteFile(path, []byte(dump), 0o600); err != nil {
			return snapshotMsg{err: err}
		}
		return snapshotMsg{path: path}
	}
}

// View renders the grid, one styled run at a time.
func (m *Model) View() tea.View {
	var view tea.View
	view.AltScreen = true

	content := make([]byte, 0, m.grid.Height()*(m.grid.Width()+1))
	for row := range m.grid.Height() {
		line, err := m.grid.LineAt(row - m.scrollOffset)
		if err != nil {
			continue
		}
		content = append(content, m.renderLine(line)...)
		if row < m.grid.Height()-1 {
			content = append(content, '\n')
		}
	}
	view.SetContent(string(content))

	if m.scrollOffset == 0 {
		cur := m.grid.Cursor()
		view.Cursor = tea.NewCursor(cur.Col, cur.Row)
	}
	return view
}

// renderLine styles one line, batching adjacent cells that share an
// attribute word into a single lipgloss render call.
func (m *Model) renderLine(l *grid.Line) []byte {
	var out []byte
	runAttr := grid.Attr(0)
	var run []rune

	flush := func() {
		if len(run) == 0 {
			return
		}
		out = append(out, m.style(runAttr).Render(string(run))...)
		run = run[:0]
	}

	for i := range l.Width() {
		ch := l.CharAt(i)
		if ch == grid.WidePlaceholder {
			// The wide character before it already spans this cell.
			continue
		}
		attr := l.AttrAt(i)
		if len(run) == 0 || !attrEqualVisual(attr, runAttr) {
			flush()
			runAttr = attr
		}
		run = append(run, ch)
	}
	flush()
	return out
}

func attrEqualVisual(a, b grid.Attr) bool {
	return a.Fg() == b.Fg() && a.Bg() == b.Bg() && a.Styles() == b.Styles()
}

// style resolves an attribute word to a lipgloss style through the
// palette, degraded to the host terminal's color profile.
func (m *Model) style(a grid.Attr) lipgloss.Style {
	key := a
	if s, ok := m.styles[key]; ok {
		return s
	}
	s := lipgloss.NewStyle().
		Foreground(m.opts.Profile.Convert(m.opts.Palette[a.Fg()])).
		Background(m.opts.Profile.Convert(m.opts.Palette[a.Bg()]))
	if a.Styles()&grid.StyleBold != 0 {
		s = s.Bold(true)
	}
	if a.Styles()&grid.StyleItalic != 0 {
		s = s.Italic(true)
	}
	if a.Styles()&grid.StyleUnderline != 0 {
		s = s.Underline(true)
	}
	m.styles[key] = s
	return s
}

// keyBytes translates a key press into the byte sequence a shell
// expects on its PTY.
func keyBytes(msg tea.KeyPressMsg) []byte {
	switch msg.String() {
	case "enter":
		return []byte{'\r'}
	case "backspace":
		return []byte{0x7f}
	case "tab":
		return []byte{'\t'}
	case "esc":
		return []byte{0x1b}
	case "space":
		return []byte{' '}
	case "up":
		return []byte("\x1b[A")
	case "down":
		return []byte("\x1b[B")
	case "right":
		return []byte("\x1b[C")
	case "left":
		return []byte("\x1b[D")
	case "home":
		return []byte("\x1b[H")
	case "end":
		return []byte("\x1b[F")
	case "delete":
		return []byte("\x1b[3~")
	}
	if msg.Mod == tea.ModCtrl && msg.Code >= 'a' && msg.Code <= 'z' {
		return []byte{byte(msg.Code-'a') + 1}
	}
	if msg.Text != "" {
		return []byte(msg.Text)
	}
	return nil
}
