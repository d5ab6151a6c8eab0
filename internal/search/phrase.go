package search

import (
	"strings"
	"unicode/utf8"
)

// Phrase is an ordered sequence of pairwise distinct words.
type Phrase []string

func (p Phrase) String() string {
	return strings.Join(p, "")
}

// Len returns the number of characters of the concatenated phrase.
func (p Phrase) Len() int {
	n := 0
	for _, w := range p {
		n += utf8.RuneCountInString(w)
	}
	return n
}
