package highlight

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		relStart int
		relEnd   int
		want     Segments
	}{
		{name: "prefix", text: "Hello ", relStart: 0, relEnd: 5, want: Segments{"", "Hello", " "}},
		{name: "suffix", text: "Hello ", relStart: 5, relEnd: 6, want: Segments{"Hello", " ", ""}},
		{name: "middle", text: "World", relStart: 1, relEnd: 4, want: Segments{"W", "orl", "d"}},
		{name: "whole", text: "World", relStart: 0, relEnd: 5, want: Segments{"", "World", ""}},
		{name: "end past text is clamped", text: "abc", relStart: 1, relEnd: 10, want: Segments{"a", "bc", ""}},
		{name: "negative start is clamped", text: "abc", relStart: -3, relEnd: 2, want: Segments{"", "ab", "c"}},
		{name: "inverted bounds mark nothing", text: "abc", relStart: 2, relEnd: 1, want: Segments{"ab", "", "c"}},
		{name: "runes not bytes", text: "héllo wörld", relStart: 1, relEnd: 4, want: Segments{"h", "éll", "o wörld"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Split(tt.text, tt.relStart, tt.relEnd)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.text, got.Before+got.Marked+got.After)
		})
	}
}

func TestSplit_InvalidUTF8RoundTrips(t *testing.T) {
	text := "a\xffb"
	got := Split(text, 1, 2)
	assert.Equal(t, "\xff", got.Marked)
	assert.Equal(t, text, got.Before+got.Marked+got.After)
}

func TestSegments_Empty(t *testing.T) {
	assert.True(t, Segments{Before: "x"}.Empty())
	assert.False(t, Segments{Marked: "x"}.Empty())
}
