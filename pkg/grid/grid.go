// Package grid implements the in-memory cell grid of a terminal
// emulator: a fixed-height screen over a bounded scrollback tail, with
// styled cells, VT100 pending-wrap cursor semantics, double-width
// characters and resize with content reflow.
//
// The package is a pure, single-threaded library. It performs no I/O
// and consumes character streams that are already decoded; escape
// parsing, PTY plumbing and rendering live with its callers (see the
// internal/feed and internal/app packages for the ones this repository
// ships).
package grid

// Grid is a visible screen plus scrollback. All mutation goes through
// its methods; callers must serialize access.
type Grid struct {
	width         int
	height        int
	maxScrollback int

	// screen always holds exactly height lines; scrollback holds up
	// to maxScrollback lines, oldest first.
	screen     *Ring[*Line]
	scrollback *Ring[*Line]

	attrs  Attr
	cursor Cursor
}

// New creates a grid. Width and height are clamped to at least 1;
// maxScrollback may be 0 to disable scrollback entirely.
func New(width, height, maxScrollback int) *Grid {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	if maxScrollback < 0 {
		maxScrollback = 0
	}
	g := &Grid{
		width:         width,
		height:        height,
		maxScrollback: maxScrollback,
		screen:        NewRing[*Line](height),
		scrollback:    NewRing[*Line](maxScrollback),
		attrs:         DefaultAttr,
	}
	for range height {
		_ = g.screen.Push(NewLine(width, g.attrs))
	}
	return g
}

// Width returns the current screen width in cells.
func (g *Grid) Width() int { return g.width }

// Height returns the current screen height in lines.
func (g *Grid) Height() int { return g.height }

// ScrollbackLen returns the number of lines currently in scrollback.
func (g *Grid) ScrollbackLen() int { return g.scrollback.Len() }

// MaxScrollback returns the scrollback capacity.
func (g *Grid) MaxScrollback() int { return g.maxScrollback }

// CurrentAttributes returns the attribute word new writes carry.
func (g *Grid) CurrentAttributes() Attr { return g.attrs }

// SetAttributes packs fg, bg and style into the attribute word used by
// subsequent writes and fills.
func (g *Grid) SetAttributes(fg, bg Color, style Style) {
	g.attrs = NewAttr(fg, bg, style)
}

// Cursor returns a copy of the cursor state.
func (g *Grid) Cursor() Cursor { return g.cursor }

// SetCursor moves the cursor to (row, col), clamped to the screen.
func (g *Grid) SetCursor(row, col int) { g.cursor.set(g, row, col) }

// CursorUp moves the cursor n rows up, clamped.
func (g *Grid) CursorUp(n int) { g.cursor.up(g, n) }

// CursorDown moves the cursor n rows down, clamped.
func (g *Grid) CursorDown(n int) { g.cursor.down(g, n) }

// CursorLeft moves the cursor n columns left, clamped.
func (g *Grid) CursorLeft(n int) { g.cursor.left(g, n) }

// CursorRight moves the cursor n columns right, clamped.
func (g *Grid) CursorRight(n int) { g.cursor.right(g, n) }

// line returns the screen line at row. Rows come from the cursor or
// from validated queries, so a miss is an internal inconsistency.
func (g *Grid) line(row int) *Line {
	l, err := g.screen.At(row)
	if err != nil {
		panic("grid: screen row out of range")
	}
	return l
}

// markWrapped is the cursor's callback for marking the row it wrapped
// onto as a soft-wrap continuation.
func (g *Grid) markWrapped(row int) { g.line(row).SetWrapped(true) }

// scroll moves the top screen line into scrollback (evicting the
// oldest scrollback line when full, or discarding the line when
// scrollback is disabled) and appends a fresh empty line at the bottom.
func (g *Grid) scroll() {
	front, err := g.screen.Pop()
	if err != nil {
		return
	}
	if g.maxScrollback > 0 {
		if g.scrollback.Len() == g.scrollback.Cap() {
			_, _ = g.scrollback.Pop()
		}
		_ = g.scrollback.Push(front)
	}
	_ = g.screen.Push(NewLine(g.width, g.attrs))
}

// Scroll scrolls the screen up one line. Exposed for feeders that
// implement index/linefeed style escapes.
func (g *Grid) Scroll() { g.scroll() }

// AddEmptyLine scrolls a fresh line in at the bottom and keeps the
// cursor over the same content by moving it one row up, clamped.
func (g *Grid) AddEmptyLine() {
	g.scroll()
	g.cursor.set(g, g.cursor.Row-1, g.cursor.Col)
}

// FillLine fills the given screen row with ch in the current
// attributes.
func (g *Grid) FillLine(row int, ch rune) error {
	if row < 0 || row >= g.height {
		return ErrOutOfRange
	}
	g.line(row).Fill(ch, g.attrs)
	return nil
}

// ClearScreen replaces every screen line with a fresh empty one and
// homes the cursor. Scrollback is untouched.
func (g *Grid) ClearScreen() {
	g.screen.Clear()
	for range g.height {
		_ = g.screen.Push(NewLine(g.width, g.attrs))
	}
	g.cursor.set(g, 0, 0)
}

// ClearScreenAndScrollback clears the screen and drops all scrollback.
func (g *Grid) ClearScreenAndScrollback() {
	g.ClearScreen()
	g.scrollback.Clear()
}

// isBoundary reports whether r interrupts a narrow run: control
// characters the cursor handles, wide characters, and the wide
// placeholder (which is skipped when it occurs in input).
func isBoundary(r rune) bool {
	return r == '\r' || r == '\n' || r == WidePlaceholder || IsWide(r)
}

// Write writes text at the cursor, overwriting existing cells. Narrow
// runs go through bulk block writes; CR, LF and wide characters are
// handled at run boundaries. Wide placeholders in the input are
// silently skipped.
func (g *Grid) Write(text string) {
	runes := []rune(text)
	i := 0
	for i < len(runes) {
		switch r := runes[i]; {
		case r == '\r' || r == '\n':
			g.cursor.handleControl(g, r)
			i++
		case r == WidePlaceholder:
			i++
		case IsWide(r):
			g.writeWide(r)
			i++
		default:
			j := i + 1
			for j < len(runes) && !isBoundary(runes[j]) {
				j++
			}
			g.writeRun(runes, i, j)
			i = j
		}
	}
}

// WriteAt positions the cursor and writes.
func (g *Grid) WriteAt(text string, row, col int) {
	g.cursor.set(g, row, col)
	g.Write(text)
}

// writeRun emits runes[start:end) (all narrow) in chunks bounded by the
// space remaining on the cursor's line.
func (g *Grid) writeRun(runes []rune, start, end int) {
	off := start
	for off < end {
		g.cursor.resolveWrap(g)
		avail := g.width - g.cursor.Col
		n := end - off
		if n > avail {
			n = avail
		}
		g.line(g.cursor.Row).WriteBlock(g.cursor.Col, runes, off, n, g.attrs)
		if n > 1 {
			g.cursor.right(g, n-1)
		}
		g.cursor.advance(g)
		off += n
	}
}

// writeWide places one double-width character. A wide character never
// straddles the right edge: from the last column the cursor wraps
// first, leaving that cell as it was.
func (g *Grid) writeWide(r rune) {
	if g.width < 2 {
		// A two-cell character cannot exist on a one-cell line.
		return
	}
	g.cursor.resolveWrap(g)
	if g.cursor.Col == g.width-1 {
		g.cursor.advance(g)
		g.cursor.resolveWrap(g)
	}
	g.line(g.cursor.Row).SetWide(g.cursor.Col, r, g.attrs)
	g.cursor.advanceForWide(g)
}

// LineAt returns the line at row. Non-negative rows index the screen
// from the top; negative rows index scrollback, -1 being the most
// recently scrolled line, -2 the next older, and so on.
func (g *Grid) LineAt(row int) (*Line, error) {
	if row >= 0 {
		if row >= g.height {
			return nil, ErrOutOfRange
		}
		return g.screen.At(row)
	}
	return g.scrollback.At(g.scrollback.Len() + row)
}

// CharAt returns the character at (row, col), with LineAt's row
// addressing.
func (g *Grid) CharAt(row, col int) (rune, error) {
	l, err := g.LineAt(row)
	if err != nil {
		return 0, err
	}
	if col < 0 || col >= l.Width() {
		return 0, ErrOutOfRange
	}
	return l.CharAt(col), nil
}

// AttrAt returns the attribute word at (row, col), with LineAt's row
// addressing.
func (g *Grid) AttrAt(row, col int) (Attr, error) {
	l, err := g.LineAt(row)
	if err != nil {
		return 0, err
	}
	if col < 0 || col >= l.Width() {
		return 0, ErrOutOfRange
	}
	return l.AttrAt(col), nil
}

// ScreenString renders the visible screen, one width-sized line per
// row, each terminated by a newline.
func (g *Grid) ScreenString() string {
	buf := make([]byte, 0, g.height*(g.width+1))
	for row := range g.height {
		buf = append(buf, g.line(row).String()...)
		buf = append(buf, '\n')
	}
	return string(buf)
}

// ScreenAndScrollbackString renders scrollback (oldest first) followed
// by the visible screen, in ScreenString's format.
func (g *Grid) ScreenAndScrollbackString() string {
	buf := make([]byte, 0, (g.scrollback.Len()+g.height)*(g.width+1))
	for i := range g.scrollback.Len() {
		l, _ := g.scrollback.At(i)
		buf = append(buf, l.String()...)
		buf = append(buf, '\n')
	}
	for row := range g.height {
		buf = append(buf, g.line(row).String()...)
		buf = append(buf, '\n')
	}
	return string(buf)
}
