package grid

// wideRanges lists the inclusive code point ranges rendered double-width,
// sorted by start for binary search. Coarse Unicode blocks only; East
// Asian Ambiguous handling is left to the consumer (see IsWide).
var wideRanges = [...][2]rune{
	{0x1100, 0x11FF},   // Hangul Jamo
	{0x2600, 0x26FF},   // Miscellaneous Symbols
	{0x2700, 0x27BF},   // Dingbats
	{0x3040, 0x309F},   // Hiragana
	{0x30A0, 0x30FF},   // Katakana
	{0x3400, 0x4DBF},   // CJK Unified Ideographs Extension A
	{0x4E00, 0x9FFF},   // CJK Unified Ideographs
	{0xAC00, 0xD7AF},   // Hangul Syllables
	{0xF900, 0xFAFF},   // CJK Compatibility Ideographs
	{0x1F300, 0x1F9FF}, // Misc Symbols and Pictographs .. Supplemental
	{0x20000, 0x2A6DF}, // CJK Unified Ideographs Extension B
}

// IsWide reports whether r occupies two cells. ASCII is rejected before
// the table lookup; everything outside the listed blocks is single-width.
func IsWide(r rune) bool {
	if r < 0x80 {
		return false
	}
	lo, hi := 0, len(wideRanges)
	for lo < hi {
		mid := (lo + hi) / 2
		if r > wideRanges[mid][1] {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo < len(wideRanges) && r >= wideRanges[lo][0]
}
