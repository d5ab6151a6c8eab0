package wordtable

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"maps"
	"os"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/kestfor/hexspeak/pkg/set"
)

const (
	DefaultDictionary = "/usr/share/dict/words"

	// dictionary words must be longer than this
	minWordLength = 2
	filler        = "a"
)

var blacklist = set.New("aaa", "aba", "abc")

// Build filters words through the alphabet and groups them by length.
// Bucket 1 is always exactly ["a"], whatever the source contains.
func Build(words iter.Seq[string], alphabet *Alphabet) *Table {
	buckets := make(map[int][]string)
	seen := make(map[int]set.Set[string])

	for word := range words {
		word = strings.TrimSpace(word)
		length := utf8.RuneCountInString(word)

		if length <= minWordLength || blacklist.Contains(word) || !alphabet.Match(word) {
			continue
		}

		if seen[length] == nil {
			seen[length] = set.New[string]()
		}
		if seen[length].Add(word) {
			buckets[length] = append(buckets[length], word)
		}
	}

	buckets[1] = []string{filler}

	t := &Table{buckets: make(map[int][]string, len(buckets))}
	for _, length := range slices.Sorted(maps.Keys(buckets)) {
		t.put(length, buckets[length])
	}

	return t
}

// ReadWords reads one candidate word per line.
func ReadWords(r io.Reader) ([]string, error) {
	var words []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			words = append(words, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read words: %w", err)
	}

	return words, nil
}

func LoadWords(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dictionary: %w", err)
	}
	defer file.Close()

	return ReadWords(file)
}

// Load builds a table from the dictionary file at path.
func Load(path string, alphabet *Alphabet) (*Table, error) {
	words, err := LoadWords(path)
	if err != nil {
		return nil, err
	}

	return Build(slices.Values(words), alphabet), nil
}
