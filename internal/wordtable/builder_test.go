package wordtable

import (
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	tests := []struct {
		name     string
		alphabet string
		words    []string
		want     map[int][]string
	}{
		{
			name:     "filler only from empty source",
			alphabet: "abcdef",
			words:    nil,
			want:     map[int][]string{1: {"a"}},
		},
		{
			name:     "short words are dropped and filler forced",
			alphabet: "abcdef",
			words:    []string{"b", "a", "e", "be", "ad", "bed"},
			want:     map[int][]string{1: {"a"}, 3: {"bed"}},
		},
		{
			name:     "blacklist applies even when the alphabet matches",
			alphabet: "abc",
			words:    []string{"aaa", "aba", "abc", "cab", "bab"},
			want:     map[int][]string{1: {"a"}, 3: {"cab", "bab"}},
		},
		{
			name:     "duplicates keep first position",
			alphabet: "abcdef",
			words:    []string{"fade", "bead", "fade", " bead", "face"},
			want:     map[int][]string{1: {"a"}, 4: {"fade", "bead", "face"}},
		},
		{
			name:     "case sensitive match",
			alphabet: "abcdef",
			words:    []string{"Dead", "dead", "DEAF"},
			want:     map[int][]string{1: {"a"}, 4: {"dead"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alphabet, err := ParseAlphabet(tt.alphabet)
			require.NoError(t, err)

			table := Build(slices.Values(tt.words), alphabet)
			assert.Equal(t, tt.want, table.Map())
		})
	}
}

func TestBuild_TableLaw(t *testing.T) {
	words, err := LoadWords("testdata/words.txt")
	require.NoError(t, err)

	for _, raw := range []string{"abcdef01", "abcdef", "a-f", "bdeo"} {
		t.Run(raw, func(t *testing.T) {
			alphabet, err := ParseAlphabet(raw)
			require.NoError(t, err)

			table := Build(slices.Values(words), alphabet)

			assert.Equal(t, []string{"a"}, table.Words(1))
			for length, bucket := range table.All() {
				if length == 1 {
					continue
				}
				assert.Greater(t, length, 2)
				assert.Len(t, bucket, len(uniq(bucket)), "bucket %d has duplicates", length)
				for _, word := range bucket {
					assert.Len(t, word, length)
					assert.True(t, alphabet.Match(word), "%q outside %s", word, alphabet)
					assert.False(t, blacklist.Contains(word), "%q is blacklisted", word)
				}
			}
		})
	}
}

func TestLoad(t *testing.T) {
	t.Run("default alphabet", func(t *testing.T) {
		table, err := Load("testdata/words.txt", DefaultAlphabet())
		require.NoError(t, err)

		assert.Equal(t, map[int][]string{
			1: {"a"},
			3: {"ace", "add", "bad", "oil", "lid"},
			4: {"bead", "beef", "cafe", "deaf", "fade", "feed", "boil", "fold", "abed"},
			6: {"coffee", "decade", "facade"},
		}, table.Map())
	})

	t.Run("hex letters only", func(t *testing.T) {
		alphabet, err := ParseAlphabet("abcdef")
		require.NoError(t, err)

		table, err := Load("testdata/words.txt", alphabet)
		require.NoError(t, err)

		assert.Equal(t, map[int][]string{
			1: {"a"},
			3: {"ace", "add", "bad"},
			4: {"bead", "beef", "cafe", "deaf", "fade", "feed", "abed"},
			6: {"decade", "facade"},
		}, table.Map())
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load("testdata/missing.txt", DefaultAlphabet())
		assert.Error(t, err)
	})
}

func TestReadWords(t *testing.T) {
	words, err := ReadWords(strings.NewReader("dead\n\n  beef  \r\ncafe"))
	require.NoError(t, err)
	assert.Equal(t, []string{"dead", "beef", "cafe"}, words)
}

func uniq(words []string) []string {
	out := slices.Clone(words)
	slices.Sort(out)
	return slices.Compact(out)
}
