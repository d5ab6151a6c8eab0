package stats

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

var ErrEmpty = errors.New("no samples")

// Summary describes a set of repeated measurements.
type Summary struct {
	N            int     `json:"n"`
	Mean         float64 `json:"mean"`
	StdDev       float64 `json:"std_dev"`
	SampleStdDev float64 `json:"sample_std_dev"`
	Median       float64 `json:"median"`
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
}

func Summarize(samples []float64) (Summary, error) {
	n := len(samples)
	if n == 0 {
		return Summary{}, ErrEmpty
	}

	var total, totalSq float64
	for _, s := range samples {
		total += s
		totalSq += s * s
	}

	// rounding can push the variance slightly below zero
	spread := max(totalSq-total*total/float64(n), 0)

	sampleVariance := 0.0
	if n > 1 {
		sampleVariance = spread / float64(n-1)
	}

	sortedSamples := slices.Sorted(slices.Values(samples))

	median := sortedSamples[n/2]
	if n%2 == 0 {
		median = (sortedSamples[n/2-1] + sortedSamples[n/2]) / 2
	}

	return Summary{
		N:            n,
		Mean:         total / float64(n),
		StdDev:       math.Sqrt(spread / float64(n)),
		SampleStdDev: math.Sqrt(sampleVariance),
		Median:       median,
		Min:          sortedSamples[0],
		Max:          sortedSamples[n-1],
	}, nil
}

// RelStdDev is the sample standard deviation as a percentage of the mean.
func (s Summary) RelStdDev() float64 {
	if s.Mean == 0 {
		return 0
	}
	return 100 * s.SampleStdDev / s.Mean
}

func (s Summary) String() string {
	return fmt.Sprintf("%6.2f +/- %6.2f%%", s.Mean, s.RelStdDev())
}
