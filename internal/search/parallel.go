package search

import (
	"context"
	"fmt"

	"github.com/kestfor/hexspeak/pkg"
	"golang.org/x/sync/errgroup"
)

// Short first words own far larger subtrees than long ones, so the first
// level is cut finer than the worker count and the pool evens it out.
const partitionsPerWorker = 4

// partitions splits the admissible first words into contiguous groups.
// Concatenating the groups in order restores sequential candidate order.
func (e *Engine) partitions(target int) ([][]branch, error) {
	firsts := e.firsts(target)
	if len(firsts) == 0 {
		return nil, nil
	}

	// workers is clamped first so the product cannot overflow
	workers := min(e.workers, len(firsts))
	ranges, err := pkg.SplitRange(len(firsts), min(len(firsts), workers*partitionsPerWorker))
	if err != nil {
		return nil, fmt.Errorf("split first words: %w", err)
	}

	parts := make([][]branch, len(ranges))
	for i, r := range ranges {
		parts[i] = firsts[r.Start:r.End]
	}

	return parts, nil
}

func (e *Engine) countParallel(ctx context.Context, target int) (uint64, error) {
	parts, err := e.partitions(target)
	if err != nil {
		return 0, err
	}

	counts := make([]uint64, len(parts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for i, seeds := range parts {
		g.Go(func() error {
			w := e.newWalker(gctx, target)
			counts[i] = w.count(seeds)
			return w.err
		})
	}

	if err := g.Wait(); err != nil {
		return 0, err
	}

	var total uint64
	for _, c := range counts {
		total += c
	}

	return total, nil
}

// enumerateParallel buffers every partition and yields them in partition order.
func (e *Engine) enumerateParallel(ctx context.Context, target int, yield func(Phrase) bool) error {
	parts, err := e.partitions(target)
	if err != nil {
		return err
	}

	results := make([][]Phrase, len(parts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for i, seeds := range parts {
		g.Go(func() error {
			w := e.newWalker(gctx, target)
			w.walk(seeds, func(p Phrase) bool {
				results[i] = append(results[i], p)
				return true
			})
			return w.err
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	for _, phrases := range results {
		for _, p := range phrases {
			if !yield(p) {
				return nil
			}
		}
	}

	return nil
}
