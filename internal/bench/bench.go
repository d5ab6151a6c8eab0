package bench

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/kestfor/hexspeak/internal/stats"
)

var (
	ErrInvalidRuns   = errors.New("runs must be greater than 0")
	ErrUnstableCount = errors.New("count changed between runs")
)

type Counter interface {
	Count(ctx context.Context, target int) (uint64, error)
}

type Measurement struct {
	Count   uint64        `json:"count"`
	Elapsed time.Duration `json:"elapsed"`
}

func (m Measurement) Millis() float64 {
	return float64(m.Elapsed) / float64(time.Millisecond)
}

type Report struct {
	Target       int           `json:"target"`
	Count        uint64        `json:"count"`
	Measurements []Measurement `json:"measurements"`
	Millis       stats.Summary `json:"millis"`
	// MemorySys is the memory obtained from the OS by the end of the runs.
	MemorySys uint64 `json:"memory_sys"`
}

// Run counts target phrases runs times. observe, when set, sees every
// measurement as soon as it is taken.
func Run(ctx context.Context, counter Counter, target, runs int, observe func(Measurement)) (*Report, error) {
	if runs <= 0 {
		return nil, ErrInvalidRuns
	}

	report := &Report{
		Target:       target,
		Measurements: make([]Measurement, 0, runs),
	}
	samples := make([]float64, 0, runs)

	for i := range runs {
		start := time.Now()
		count, err := counter.Count(ctx, target)
		if err != nil {
			return nil, fmt.Errorf("run %d: %w", i+1, err)
		}

		m := Measurement{Count: count, Elapsed: time.Since(start)}
		if i > 0 && count != report.Count {
			return nil, fmt.Errorf("%w: run %d got %d, want %d", ErrUnstableCount, i+1, count, report.Count)
		}

		report.Count = count
		report.Measurements = append(report.Measurements, m)
		samples = append(samples, m.Millis())

		if observe != nil {
			observe(m)
		}
	}

	summary, err := stats.Summarize(samples)
	if err != nil {
		return nil, err
	}
	report.Millis = summary

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	report.MemorySys = mem.Sys

	return report, nil
}
