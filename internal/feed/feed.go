// Package feed translates ANSI-encoded terminal output into cell grid
// operations. It owns an escape parser and dispatches printable runs,
// control characters and the CSI subset the grid can express; anything
// else is consumed and dropped so partial sequences never leak into
// the grid as text.
package feed

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/ansi/parser"

	"github.com/dodorz/gridterm/pkg/grid"
)

// Logger represents a logger interface.
type Logger interface {
	Printf(format string, v ...any)
}

// Feeder drives a grid from a raw output stream. It implements
// io.Writer so it can sit directly under a PTY copy loop.
type Feeder struct {
	grid   *grid.Grid
	parser *ansi.Parser
	logger Logger

	// insertMode mirrors IRM (CSI 4 h/l): printable runs go through
	// the grid's insert engine instead of overwriting.
	insertMode bool

	// run batches printable runes between control events so narrow
	// text reaches the grid as few large writes.
	run []rune
}

// New creates a feeder for the given grid.
func New(g *grid.Grid) *Feeder {
	f := &Feeder{grid: g}
	p := ansi.NewParser()
	p.SetParamsSize(parser.MaxParamsSize)
	p.SetDataSize(64 * 1024)
	p.SetHandler(ansi.Handler{
		Print:     f.print,
		Execute:   f.execute,
		HandleCsi: f.handleCsi,
	})
	f.parser = p
	return f
}

// SetLogger sets the logger used for unhandled sequences.
func (f *Feeder) SetLogger(l Logger) { f.logger = l }

// Grid returns the grid this feeder drives.
func (f *Feeder) Grid() *grid.Grid { return f.grid }

// Write feeds a chunk of raw output through the parser. It never
// fails; the return values satisfy io.Writer.
func (f *Feeder) Write(p []byte) (int, error) {
	for i := range p {
		f.parser.Advance(p[i])
	}
	f.flush()
	return len(p), nil
}

// WriteString feeds a string through the parser.
func (f *Feeder) WriteString(s string) {
	_, _ = f.Write([]byte(s))
}

func (f *Feeder) print(r rune) {
	f.run = append(f.run, r)
}

// flush hands the batched printable run to the grid.
func (f *Feeder) flush() {
	if len(f.run) == 0 {
		return
	}
	text := string(f.run)
	f.run = f.run[:0]
	if f.insertMode {
		f.grid.Insert(text)
	} else {
		f.grid.Write(text)
	}
}

func (f *Feeder) execute(b byte) {
	f.flush()
	switch b {
	case '\r':
		f.grid.Write("\r")
	case '\n', '\v', '\f':
		f.grid.Write("\n")
	case '\b':
		f.grid.CursorLeft(1)
	case '\t':
		cur := f.grid.Cursor()
		next := (cur.Col/8 + 1) * 8
		if next > f.grid.Width()-1 {
			next = f.grid.Width() - 1
		}
		f.grid.SetCursor(cur.Row, next)
	case 0x07: // BEL
	default:
		f.logf("feed: unhandled control %#x", b)
	}
}

func (f *Feeder) handleCsi(cmd ansi.Cmd, params ansi.Params) {
	f.flush()
	if cmd.Prefix() == '?' {
		// Private modes (alt screen, cursor visibility, mouse
		// tracking) are outside the grid's scope.
		return
	}
	switch cmd.Final() {
	case 'A':
		f.grid.CursorUp(paramAt(params, 0, 1))
	case 'B':
		f.grid.CursorDown(paramAt(params, 0, 1))
	case 'C':
		f.grid.CursorRight(paramAt(params, 0, 1))
	case 'D':
		f.grid.CursorLeft(paramAt(params, 0, 1))
	case 'H', 'f':
		row := paramAt(params, 0, 1)
		col := paramAt(params, 1, 1)
		f.grid.SetCursor(row-1, col-1)
	case 'J':
		switch paramAt(params, 0, 0) {
		case 2:
			f.grid.ClearScreen()
		case 3:
			f.grid.ClearScreenAndScrollback()
		default:
			f.logf("feed: unhandled ED mode %d", paramAt(params, 0, 0))
		}
	case 'K':
		if paramAt(params, 0, 0) == 2 {
			cur := f.grid.Cursor()
			_ = f.grid.FillLine(cur.Row, ' ')
		} else {
			f.logf("feed: unhandled EL mode %d", paramAt(params, 0, 0))
		}
	case '@':
		// ICH inserts blanks without moving the cursor.
		n := paramAt(params, 0, 1)
		cur := f.grid.Cursor()
		f.grid.Insert(strings.Repeat(" ", n))
		f.grid.SetCursor(cur.Row, cur.Col)
	case 'm':
		f.handleSgr(params)
	case 'h':
		if paramAt(params, 0, 0) == 4 {
			f.insertMode = true
		}
	case 'l':
		if paramAt(params, 0, 0) == 4 {
			f.insertMode = false
		}
	default:
		f.logf("feed: unhandled CSI %q", cmd.Final())
	}
}

// handleSgr applies the SGR subset the attribute word can carry:
// reset, bold, italic, underline and the 16 palette colors.
func (f *Feeder) handleSgr(params ansi.Params) {
	a := f.grid.CurrentAttributes()
	fg, bg, style := a.Fg(), a.Bg(), a.Styles()

	if len(params) == 0 {
		f.grid.SetAttributes(grid.White, grid.Black, 0)
		return
	}
	for i := range params {
		switch p := params[i].Param(0); {
		case p == 0:
			fg, bg, style = grid.White, grid.Black, 0
		case p == 1:
			style |= grid.StyleBold
		case p == 3:
			style |= grid.StyleItalic
		case p == 4:
			style |= grid.StyleUnderline
		case p == 22:
			style &^= grid.StyleBold
		case p == 23:
			style &^= grid.StyleItalic
		case p == 24:
			style &^= grid.StyleUnderline
		case p >= 30 && p <= 37:
			fg = grid.Color(p - 30)
		case p == 39:
			fg = grid.White
		case p >= 40 && p <= 47:
			bg = grid.Color(p - 40)
		case p == 49:
			bg = grid.Black
		case p >= 90 && p <= 97:
			fg = grid.Color(p - 90 + 8)
		case p >= 100 && p <= 107:
			bg = grid.Color(p - 100 + 8)
		default:
			f.logf("feed: unhandled SGR %d", p)
		}
	}
	f.grid.SetAttributes(fg, bg, style)
}

func paramAt(params ansi.Params, i, def int) int {
	if i >= len(params) {
		return def
	}
	v := params[i].Param(def)
	if v == 0 && def > 0 {
		return def
	}
	return v
}

func (f *Feeder) logf(format string, v ...any) {
	if f.logger != nil {
		f.logger.Printf(format, v...)
	}
}
