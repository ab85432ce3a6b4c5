package grid

import "testing"

func TestIsWide(t *testing.T) {
	tests := []struct {
		name string
		r    rune
		want bool
	}{
		{"ascii letter", 'A', false},
		{"ascii digit", '7', false},
		{"space", ' ', false},
		{"latin accented", 'é', false},
		{"hangul jamo", 0x1100, true},
		{"misc symbol sun", 0x2600, true},
		{"dingbat scissors", 0x2702, true},
		{"hiragana a", 'あ', true},
		{"katakana ka", 'カ', true},
		{"cjk ext a", 0x3400, true},
		{"cjk unified", '中', true},
		{"hangul syllable", '한', true},
		{"cjk compatibility", 0xF900, true},
		{"emoji grinning face", 0x1F600, true},
		{"cjk ext b", 0x20000, true},
		{"past cjk ext b", 0x2A6E0, false},
		{"cyrillic", 'Ж', false},
		{"between blocks", 0x2800, false},
		{"fullwidth digit outside blocks", 0xFF10, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsWide(tt.r); got != tt.want {
				t.Errorf("IsWide(%#x) = %v, want %v", tt.r, got, tt.want)
			}
		})
	}
}

func TestIsWideRangeEdges(t *testing.T) {
	// Every range boundary, inclusive on both ends.
	for _, rg := range wideRanges {
		if !IsWide(rg[0]) {
			t.Errorf("IsWide(%#x) = false at range start", rg[0])
		}
		if !IsWide(rg[1]) {
			t.Errorf("IsWide(%#x) = false at range end", rg[1])
		}
		if rg[0] >= 0x80 && IsWide(rg[0]-1) {
			// Only meaningful when the previous code point is not
			// itself inside an adjacent range.
			prevInside := false
			for _, other := range wideRanges {
				if rg[0]-1 >= other[0] && rg[0]-1 <= other[1] {
					prevInside = true
				}
			}
			if !prevInside {
				t.Errorf("IsWide(%#x) = true just before range start", rg[0]-1)
			}
		}
	}
}
