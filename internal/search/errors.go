package search

import "github.com/kestfor/hexspeak/internal/wordtable"

// ErrInvalidInput is shared with the word table so that a bad alphabet and a
// negative target are reported the same way.
var ErrInvalidInput = wordtable.ErrInvalidInput
