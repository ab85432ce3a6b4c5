package grid

// segment is one unit of pending insert work: characters with
// index-aligned attributes. The initial text becomes one segment with
// uniform current attributes; cascading overflows keep the attributes
// the displaced cells already carried.
type segment struct {
	chars []rune
	attrs []Attr
}

// Insert inserts text at the cursor, shifting existing content right
// and cascading whatever falls off each line onto the next. The cursor
// ends exactly where a plain Write of the same text would have left
// it; the motion during the cascade only drives overflow placement.
func (g *Grid) Insert(text string) {
	src := []rune(text)
	chars := make([]rune, 0, len(src))
	attrs := make([]Attr, 0, len(src))
	for _, r := range src {
		if r == WidePlaceholder {
			continue
		}
		chars = append(chars, r)
		attrs = append(attrs, g.attrs)
		if IsWide(r) {
			chars = append(chars, WidePlaceholder)
			attrs = append(attrs, g.attrs)
		}
	}
	if len(chars) == 0 {
		return
	}

	finalRow, finalCol, finalPending := g.simulateWrite(chars)

	// The work queue flattens the cascade: each overflow re-inserts at
	// column 0 of the line after the one that produced it, possibly
	// displacing more content in turn. Depth is bounded by the screen
	// height plus the segments the text itself spans.
	queue := []segment{{chars: chars, attrs: attrs}}
	for len(queue) > 0 {
		seg := queue[0]
		queue = queue[1:]
		g.insertSegment(seg, &queue)
	}

	g.cursor.set(g, finalRow, finalCol)
	if finalPending && finalCol == g.width-1 {
		g.cursor.pendingWrap = true
	}
}

// InsertAt positions the cursor and inserts.
func (g *Grid) InsertAt(text string, row, col int) {
	g.cursor.set(g, row, col)
	g.Insert(text)
}

// insertSegment walks one segment, splitting it at control and wide
// boundaries exactly as Write does.
func (g *Grid) insertSegment(seg segment, queue *[]segment) {
	i := 0
	for i < len(seg.chars) {
		switch r := seg.chars[i]; {
		case r == '\r' || r == '\n':
			g.cursor.handleControl(g, r)
			i++
		case r == WidePlaceholder:
			// Placeholders are consumed together with their wide
			// character; a stray one is dropped.
			i++
		case IsWide(r):
			g.insertWide(r, seg.attrs[i], queue)
			i++
			if i < len(seg.chars) && seg.chars[i] == WidePlaceholder {
				i++
			}
		default:
			j := i + 1
			for j < len(seg.chars) && !isBoundary(seg.chars[j]) {
				j++
			}
			g.insertNarrow(seg, i, j, queue)
			i = j
		}
	}
}

// insertNarrow inserts seg.chars[s:e) at the cursor. On overflow the
// cursor parks at the end of the line so the pending wrap carries the
// cascade onto the next row.
func (g *Grid) insertNarrow(seg segment, s, e int, queue *[]segment) {
	g.cursor.resolveWrap(g)
	line := g.line(g.cursor.Row)
	ov := line.InsertAt(g.cursor.Col, seg.chars, seg.attrs, s, e)
	if ov == nil {
		if n := e - s; n > 1 {
			g.cursor.right(g, n-1)
		}
	} else {
		g.cursor.right(g, g.width-1)
		*queue = append(*queue, segment{chars: ov.Chars, attrs: ov.Attrs})
	}
	g.cursor.advance(g)
}

// insertWide inserts one double-width character, wrapping first when
// it would straddle the right edge.
func (g *Grid) insertWide(r rune, attr Attr, queue *[]segment) {
	if g.width < 2 {
		return
	}
	g.cursor.resolveWrap(g)
	if g.cursor.Col == g.width-1 {
		g.cursor.advance(g)
		g.cursor.resolveWrap(g)
	}
	ov := g.line(g.cursor.Row).InsertWide(g.cursor.Col, r, attr)
	g.cursor.advanceForWide(g)
	if ov != nil {
		*queue = append(*queue, segment{chars: ov.Chars, attrs: ov.Attrs})
	}
}

// simulateWrite computes where the cursor ends up after writing chars
// (already wide-expanded) from its current position, without touching
// any cells. Rows saturate at the bottom: a real write scrolls there,
// which keeps the cursor on the last row.
func (g *Grid) simulateWrite(chars []rune) (row, col int, pending bool) {
	row, col, pending = g.cursor.Row, g.cursor.Col, g.cursor.pendingWrap
	w, h := g.width, g.height
	resolve := func() {
		if pending {
			if row < h-1 {
				row++
			}
			col = 0
			pending = false
		}
	}
	for i := 0; i < len(chars); i++ {
		switch r := chars[i]; {
		case r == '\n':
			if row < h-1 {
				row++
			}
			col = 0
			pending = false
		case r == '\r':
			col = 0
			pending = false
		case r == WidePlaceholder:
		case IsWide(r):
			if w < 2 {
				continue
			}
			resolve()
			if col == w-1 {
				pending = true
				resolve()
			}
			if col+2 < w {
				col += 2
			} else {
				col = w - 1
				pending = true
			}
			if i+1 < len(chars) && chars[i+1] == WidePlaceholder {
				i++
			}
		default:
			resolve()
			if col < w-1 {
				col++
			} else {
				pending = true
			}
		}
	}
	return row, col, pending
}
