package wordtable

import (
	"fmt"
	"regexp"
	"strings"
)

const DefaultLetters = "abcdef01"

// digits stand in for the letters they resemble
var digitAliases = strings.NewReplacer("0", "o", "1", "il")

// Alphabet is a character class that admissible words must be composed of.
// Letters use regexp bracket syntax, so ranges such as "a-f" are allowed.
type Alphabet struct {
	raw     string
	letters string
	pattern *regexp.Regexp
}

func ParseAlphabet(raw string) (*Alphabet, error) {
	if raw == "" {
		return nil, fmt.Errorf("%w: alphabet is empty", ErrInvalidAlphabet)
	}

	letters := digitAliases.Replace(raw)

	pattern, err := regexp.Compile("^[" + letters + "]*$")
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidAlphabet, raw, err)
	}

	return &Alphabet{
		raw:     raw,
		letters: letters,
		pattern: pattern,
	}, nil
}

func DefaultAlphabet() *Alphabet {
	a, err := ParseAlphabet(DefaultLetters)
	if err != nil {
		panic(err)
	}
	return a
}

// Raw returns the alphabet as supplied, before digit aliasing.
func (a *Alphabet) Raw() string {
	return a.raw
}

func (a *Alphabet) Letters() string {
	return a.letters
}

func (a *Alphabet) Match(word string) bool {
	return a.pattern.MatchString(word)
}

func (a *Alphabet) String() string {
	return "[" + a.letters + "]"
}
