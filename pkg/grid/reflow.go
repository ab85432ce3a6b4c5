package grid

// Resize reflows all content to the new width and redistributes the
// result between scrollback and screen. Paragraphs (a hard line plus
// its soft-wrap continuations) re-wrap as units; trailing blank cells
// are trimmed; the cursor stays anchored to its offset within its
// paragraph. Cells are copied straight into the emitted lines, with no
// per-cell intermediate buffer.
func (g *Grid) Resize(newWidth, newHeight int) {
	if newWidth < 1 {
		newWidth = 1
	}
	if newHeight < 1 {
		newHeight = 1
	}

	all, cursorIdx := g.collect()

	// Group into paragraphs and locate the cursor anchor: the
	// paragraph holding the cursor's line and the cell offset of the
	// cursor within it.
	var paras [][]*Line
	anchorPara, anchorOffset := 0, 0
	for i, l := range all {
		if len(paras) == 0 || !l.Wrapped() {
			paras = append(paras, []*Line{l})
		} else {
			n := len(paras) - 1
			paras[n] = append(paras[n], l)
		}
		if i == cursorIdx {
			anchorPara = len(paras) - 1
			anchorOffset = (len(paras[len(paras)-1])-1)*g.width + g.cursor.Col
		}
	}

	var emitted []*Line
	anchorRow, anchorCol := 0, 0
	for p, para := range paras {
		start := len(emitted)
		lines, starts := g.reflowParagraph(para, newWidth)
		emitted = append(emitted, lines...)
		if p != anchorPara {
			continue
		}
		row := 0
		for row+1 < len(starts) && anchorOffset >= starts[row+1] {
			row++
		}
		colOff := 0
		if len(starts) > 0 {
			colOff = anchorOffset - starts[row]
		}
		// The cursor may sit in blank space past the paragraph's
		// content; keep emitting continuation lines until its column
		// fits, so the position survives the reflow.
		for colOff >= newWidth {
			row++
			colOff -= newWidth
		}
		for len(emitted)-start <= row {
			nl := NewLine(newWidth, g.attrs)
			nl.SetWrapped(true)
			emitted = append(emitted, nl)
		}
		anchorRow = start + row
		anchorCol = colOff
	}

	// Rebuild the buffers: the latest newHeight lines become the
	// screen, anything older spills into scrollback oldest-first.
	g.width = newWidth
	g.height = newHeight
	g.screen.ResizeAndClear(newHeight)
	g.scrollback.ResizeAndClear(g.maxScrollback)
	spill := len(emitted) - newHeight
	if spill < 0 {
		spill = 0
	}
	for i, l := range emitted {
		if i < spill {
			if g.maxScrollback > 0 {
				if g.scrollback.Len() == g.scrollback.Cap() {
					_, _ = g.scrollback.Pop()
				}
				_ = g.scrollback.Push(l)
			}
			continue
		}
		_ = g.screen.Push(l)
	}
	for g.screen.Len() < newHeight {
		_ = g.screen.Push(NewLine(newWidth, g.attrs))
	}

	if anchorRow < spill {
		// The cursor's line left the screen; home the cursor.
		g.cursor = Cursor{}
		return
	}
	g.cursor = Cursor{
		Row: clampInt(anchorRow-spill, 0, newHeight-1),
		Col: clampInt(anchorCol, 0, newWidth-1),
	}
}

// collect concatenates scrollback and the meaningful screen prefix:
// every screen line up to the last non-empty one or the cursor's row,
// whichever is lower on the screen. Returns the lines and the index of
// the cursor's line within them, or -1 when the cursor row was not
// collected.
func (g *Grid) collect() (all []*Line, cursorIdx int) {
	all = make([]*Line, 0, g.scrollback.Len()+g.height)
	for i := range g.scrollback.Len() {
		l, _ := g.scrollback.At(i)
		all = append(all, l)
	}
	last := g.cursor.Row
	for r := g.height - 1; r > last; r-- {
		if !g.line(r).IsEmpty() {
			last = r
			break
		}
	}
	cursorIdx = len(all) + g.cursor.Row
	for r := 0; r <= last; r++ {
		all = append(all, g.line(r))
	}
	if g.cursor.Row > last {
		cursorIdx = -1
	}
	return all, cursorIdx
}

// effectiveLen returns the number of leading cells of the paragraph up
// to and including the last meaningful one: a cell that was written
// with something other than a plain space in the current attributes.
// Never-written cells never count as content, whatever their attribute.
func (g *Grid) effectiveLen(para []*Line) int {
	for i := len(para)*g.width - 1; i >= 0; i-- {
		l := para[i/g.width]
		c := i % g.width
		if l.IsEmptyCell(c) {
			continue
		}
		if l.CharAt(c) != ' ' || !l.AttrAt(c).sameVisual(g.attrs) {
			return i + 1
		}
	}
	return 0
}

// reflowParagraph copies one paragraph into fresh lines of the new
// width. Wide characters that would straddle the right edge roll over
// to the next line whole. Returns the emitted lines plus, for each,
// the source cell offset it started at (used for cursor anchoring).
func (g *Grid) reflowParagraph(para []*Line, newWidth int) ([]*Line, []int) {
	eff := g.effectiveLen(para)
	cellAt := func(i int) (rune, Attr) {
		l := para[i/g.width]
		c := i % g.width
		return l.CharAt(c), l.AttrAt(c)
	}

	var lines []*Line
	var starts []int
	srcPos := 0
	for srcPos < eff || len(lines) == 0 {
		nl := NewLine(newWidth, g.attrs)
		nl.SetWrapped(len(lines) > 0)
		starts = append(starts, srcPos)
		col := 0
		for col < newWidth && srcPos < eff {
			ch, at := cellAt(srcPos)
			if ch == WidePlaceholder {
				// Consumed with its wide character; a stray one
				// contributes nothing.
				srcPos++
				continue
			}
			if IsWide(ch) {
				if col+1 >= newWidth {
					break
				}
				nl.SetWide(col, ch, at)
				col += 2
				srcPos++
				if srcPos < eff {
					if c2, _ := cellAt(srcPos); c2 == WidePlaceholder {
						srcPos++
					}
				}
				continue
			}
			nl.Set(col, ch, at)
			col++
			srcPos++
		}
		if srcPos < eff && srcPos == starts[len(starts)-1] {
			// No cell fits (a wide character on a one-cell line);
			// drop it rather than loop.
			srcPos++
			if srcPos < eff {
				if c2, _ := cellAt(srcPos); c2 == WidePlaceholder {
					srcPos++
				}
			}
		}
		lines = append(lines, nl)
	}
	return lines, starts
}
