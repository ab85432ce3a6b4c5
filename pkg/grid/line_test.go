package grid

import "testing"

func TestNewLineIsBlank(t *testing.T) {
	l := NewLine(5, DefaultAttr)
	if !l.IsEmpty() {
		t.Fatal("new line should be fully empty")
	}
	if got := l.String(); got != "     " {
		t.Errorf("String = %q, want five spaces", got)
	}
	if l.Wrapped() {
		t.Error("new line must start as a hard line")
	}
	for i := range 5 {
		if !l.IsEmptyCell(i) {
			t.Errorf("cell %d should carry the empty marker", i)
		}
	}
}

func TestLineSetClearsEmpty(t *testing.T) {
	l := NewLine(4, DefaultAttr)
	a := NewAttr(Red, Black, StyleBold)

	l.Set(1, 'x', a)
	if l.CharAt(1) != 'x' {
		t.Errorf("CharAt(1) = %q, want 'x'", l.CharAt(1))
	}
	if l.IsEmptyCell(1) {
		t.Error("written cell must not be empty")
	}
	if l.AttrAt(1).Fg() != Red || l.AttrAt(1).Styles() != StyleBold {
		t.Error("attributes not stored")
	}

	// An explicit space is meaningful content.
	l.Set(2, ' ', a)
	if l.IsEmptyCell(2) {
		t.Error("explicitly written space must clear the empty marker")
	}
	if l.IsEmpty() {
		t.Error("line with written cells is not empty")
	}
}

func TestLineSetWide(t *testing.T) {
	l := NewLine(4, DefaultAttr)
	a := NewAttr(Green, Black, 0)
	l.SetWide(1, '中', a)

	if l.CharAt(1) != '中' {
		t.Errorf("CharAt(1) = %q, want '中'", l.CharAt(1))
	}
	if l.CharAt(2) != WidePlaceholder {
		t.Errorf("CharAt(2) = %#x, want the wide placeholder", l.CharAt(2))
	}
	if l.AttrAt(1) != l.AttrAt(2) {
		t.Error("placeholder must share the base cell's attribute")
	}
	if l.IsEmptyCell(2) {
		t.Error("placeholder cell must not be empty")
	}
}

func TestLineSetWideLastColumnPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("SetWide in the last column must panic")
		}
	}()
	NewLine(3, DefaultAttr).SetWide(2, '中', DefaultAttr)
}

func TestLineWriteBlock(t *testing.T) {
	l := NewLine(6, DefaultAttr)
	src := []rune("hello!")
	a := NewAttr(Blue, Black, 0)
	l.WriteBlock(2, src, 1, 3, a)
	if got := l.String(); got != "  ell " {
		t.Errorf("String = %q, want %q", got, "  ell ")
	}
	for i := 2; i < 5; i++ {
		if l.IsEmptyCell(i) {
			t.Errorf("cell %d should be written", i)
		}
	}
	if !l.IsEmptyCell(5) {
		t.Error("cell past the block should stay empty")
	}
}

func TestLineFill(t *testing.T) {
	l := NewLine(3, DefaultAttr)
	a := NewAttr(Yellow, Black, 0)

	l.Fill('#', a)
	if l.String() != "###" {
		t.Errorf("String = %q after fill", l.String())
	}
	if l.IsEmpty() {
		t.Error("line filled with # is not empty")
	}

	// Filling with spaces blanks the line again.
	l.Fill(' ', a)
	if !l.IsEmpty() {
		t.Error("space fill should restore the empty markers")
	}
}

func TestLineInsertAt(t *testing.T) {
	w := func(s string) ([]rune, []Attr) {
		rs := []rune(s)
		as := make([]Attr, len(rs))
		for i := range as {
			as[i] = DefaultAttr
		}
		return rs, as
	}

	t.Run("empty line takes insert as a write", func(t *testing.T) {
		l := NewLine(5, DefaultAttr)
		chars, attrs := w("AB")
		if ov := l.InsertAt(1, chars, attrs, 0, 2); ov != nil {
			t.Fatalf("unexpected overflow %q", string(ov.Chars))
		}
		if l.String() != " AB  " {
			t.Errorf("String = %q", l.String())
		}
	})

	t.Run("empty line overflows only the tail", func(t *testing.T) {
		l := NewLine(5, DefaultAttr)
		chars, attrs := w("ABCDEFG")
		ov := l.InsertAt(0, chars, attrs, 0, 7)
		if l.String() != "ABCDE" {
			t.Errorf("String = %q", l.String())
		}
		if ov == nil || string(ov.Chars) != "FG" {
			t.Fatalf("overflow = %v, want FG", ov)
		}
	})

	t.Run("shift displaces rightmost cells", func(t *testing.T) {
		l := NewLine(5, DefaultAttr)
		fill, _ := w("ABCDE")
		l.WriteBlock(0, fill, 0, 5, DefaultAttr)

		chars, attrs := w("XY")
		ov := l.InsertAt(0, chars, attrs, 0, 2)
		if l.String() != "XYABC" {
			t.Errorf("String = %q, want XYABC", l.String())
		}
		if ov == nil || string(ov.Chars) != "DE" {
			t.Fatalf("overflow = %v, want DE", ov)
		}
	})

	t.Run("overflow orders new tail before displaced content", func(t *testing.T) {
		l := NewLine(5, DefaultAttr)
		fill, _ := w("AAAAA")
		l.WriteBlock(0, fill, 0, 5, DefaultAttr)

		chars, attrs := w("XYZPQRS")
		ov := l.InsertAt(2, chars, attrs, 0, 7)
		if l.String() != "AAXYZ" {
			t.Errorf("String = %q, want AAXYZ", l.String())
		}
		if ov == nil || string(ov.Chars) != "PQRSAAA" {
			t.Fatalf("overflow = %q, want PQRSAAA", string(ov.Chars))
		}
		if len(ov.Attrs) != len(ov.Chars) {
			t.Errorf("overflow attrs length %d != chars length %d", len(ov.Attrs), len(ov.Chars))
		}
	})

	t.Run("trailing blanks are not cascaded", func(t *testing.T) {
		l := NewLine(5, DefaultAttr)
		ab, _ := w("AB")
		l.WriteBlock(0, ab, 0, 2, DefaultAttr)

		chars, attrs := w("X")
		if ov := l.InsertAt(0, chars, attrs, 0, 1); ov != nil {
			t.Fatalf("short line insert overflowed: %q", string(ov.Chars))
		}
		if l.String() != "XAB  " {
			t.Errorf("String = %q, want XAB followed by blanks", l.String())
		}
	})
}

func TestLineInsertWide(t *testing.T) {
	l := NewLine(4, DefaultAttr)
	abc := []rune("ABC")
	attrs := []Attr{DefaultAttr, DefaultAttr, DefaultAttr}
	_ = l.InsertAt(0, abc, attrs, 0, 3)

	ov := l.InsertWide(0, '中', DefaultAttr)
	if l.CharAt(0) != '中' || l.CharAt(1) != WidePlaceholder {
		t.Errorf("line = %q, want wide pair at front", l.String())
	}
	if l.CharAt(2) != 'A' || l.CharAt(3) != 'B' {
		t.Errorf("shifted content = %q%q, want AB", l.CharAt(2), l.CharAt(3))
	}
	if ov == nil || string(ov.Chars) != "C" {
		t.Fatalf("overflow = %v, want C", ov)
	}
}
