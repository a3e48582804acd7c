package highlight

import "unicode/utf8"

// Segments is a node's text cut around one highlighted stretch.
type Segments struct {
	Before string
	Marked string
	After  string
}

// Split cuts text at the rune offsets relStart and relEnd. Offsets are
// clamped to the text, and relEnd is never allowed below relStart, so the
// three parts always concatenate back to text byte for byte.
func Split(text string, relStart, relEnd int) Segments {
	start := byteOffset(text, max(relStart, 0))
	end := byteOffset(text, max(relEnd, relStart, 0))
	return Segments{
		Before: text[:start],
		Marked: text[start:end],
		After:  text[end:],
	}
}

// Empty reports whether there is nothing to mark.
func (s Segments) Empty() bool {
	return s.Marked == ""
}

// byteOffset returns the byte index of rune n in s, or len(s) past the end.
// Invalid bytes count as one rune each, as utf8.RuneCountInString does.
func byteOffset(s string, n int) int {
	i := 0
	for n > 0 && i < len(s) {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
		n--
	}
	return i
}
