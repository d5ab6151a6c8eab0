package pkg

import (
	"fmt"
)

// Range represents a half-open index range [Start, End)
type Range struct {
	Start int
	End   int
}

func (r Range) Len() int {
	return r.End - r.Start
}

// SplitRange splits [0, totalSize) into contiguous ranges of nearly equal size.
// The first totalSize%parts ranges are one element longer.
func SplitRange(totalSize int, parts int) ([]Range, error) {
	if parts <= 0 {
		return []Range{}, nil
	}

	if totalSize <= 0 {
		return nil, fmt.Errorf("split empty space")
	}

	if parts > totalSize {
		return nil, fmt.Errorf("parts (%d) exceed total size (%d)", parts, totalSize)
	}

	ranges := make([]Range, parts)
	baseSize := totalSize / parts
	remainder := totalSize % parts

	start := 0
	for i := 0; i < parts; i++ {
		size := baseSize
		if i < remainder {
			size++
		}

		ranges[i] = Range{
			Start: start,
			End:   start + size,
		}
		start += size
	}

	return ranges, nil
}
