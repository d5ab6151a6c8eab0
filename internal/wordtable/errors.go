package wordtable

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is the root of every input error surfaced before a search starts.
var ErrInvalidInput = errors.New("invalid input")

var ErrInvalidAlphabet = fmt.Errorf("%w: malformed alphabet", ErrInvalidInput)
var ErrInvalidTable = fmt.Errorf("%w: malformed word table", ErrInvalidInput)
