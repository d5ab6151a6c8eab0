package wordtable

import (
	"fmt"
	"iter"
	"maps"
	"slices"
	"unicode/utf8"

	"github.com/kestfor/hexspeak/pkg/set"
)

// Table maps a word length to the distinct words of exactly that length.
// It is immutable once built and safe to share between concurrent searches.
type Table struct {
	buckets map[int][]string
	lengths []int
	size    int
}

// New validates and copies a precomputed table. Empty buckets are dropped.
func New(buckets map[int][]string) (*Table, error) {
	t := &Table{buckets: make(map[int][]string, len(buckets))}

	for _, length := range slices.Sorted(maps.Keys(buckets)) {
		words := buckets[length]
		if length < 1 {
			return nil, fmt.Errorf("%w: bucket length %d must be positive", ErrInvalidTable, length)
		}

		seen := set.New[string]()
		for _, word := range words {
			if n := utf8.RuneCountInString(word); n != length {
				return nil, fmt.Errorf("%w: word %q has length %d, stored under %d", ErrInvalidTable, word, n, length)
			}
			if !seen.Add(word) {
				return nil, fmt.Errorf("%w: duplicate word %q in bucket %d", ErrInvalidTable, word, length)
			}
		}

		t.put(length, slices.Clone(words))
	}

	return t, nil
}

// MustNew is New for tables known to be valid, such as test fixtures.
func MustNew(buckets map[int][]string) *Table {
	t, err := New(buckets)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Table) put(length int, words []string) {
	if len(words) == 0 {
		return
	}
	t.buckets[length] = slices.Clip(words)
	t.lengths = append(t.lengths, length)
	t.size += len(words)
}

// Words returns the bucket for length in storage order, nil when absent.
// The returned slice is shared and must not be modified.
func (t *Table) Words(length int) []string {
	return t.buckets[length]
}

// Lengths returns the non-empty bucket lengths in ascending order.
func (t *Table) Lengths() []int {
	return slices.Clone(t.lengths)
}

// Len returns the total number of words over all buckets.
func (t *Table) Len() int {
	return t.size
}

func (t *Table) MaxLength() int {
	if len(t.lengths) == 0 {
		return 0
	}
	return t.lengths[len(t.lengths)-1]
}

// All iterates buckets in ascending length order.
func (t *Table) All() iter.Seq2[int, []string] {
	return func(yield func(int, []string) bool) {
		for _, length := range t.lengths {
			if !yield(length, t.buckets[length]) {
				return
			}
		}
	}
}

// Map returns a deep copy of the buckets.
func (t *Table) Map() map[int][]string {
	m := make(map[int][]string, len(t.buckets))
	for length, words := range t.buckets {
		m[length] = slices.Clone(words)
	}
	return m
}
