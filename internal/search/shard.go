package search

import (
	"fmt"

	"github.com/kestfor/hexspeak/pkg"
)

// Shard selects a contiguous share of the admissible first words. Engines
// with shards 0..Total-1 of the same Total cover the whole search between
// them, and their phrases concatenated by Index follow sequential order.
// The zero Shard is the whole search.
type Shard struct {
	Index int `json:"index"`
	Total int `json:"total"`
}

func (s Shard) Validate() error {
	if s.Total < 0 || s.Index < 0 || (s.Total > 0 && s.Index >= s.Total) || (s.Total == 0 && s.Index != 0) {
		return fmt.Errorf("%w: shard %d of %d", ErrInvalidInput, s.Index, s.Total)
	}
	return nil
}

func (s Shard) whole() bool {
	return s.Total <= 1
}

func (s Shard) String() string {
	return fmt.Sprintf("%d/%d", s.Index, max(s.Total, 1))
}

// of returns the shard's range of n first words. When there are fewer words
// than shards the trailing shards are empty.
func (s Shard) of(n int) pkg.Range {
	if s.whole() {
		return pkg.Range{Start: 0, End: n}
	}

	ranges, err := pkg.SplitRange(n, min(n, s.Total))
	if err != nil || s.Index >= len(ranges) {
		return pkg.Range{}
	}
	return ranges[s.Index]
}
