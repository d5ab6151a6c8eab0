package search

import (
	"context"
	"fmt"
	"iter"

	"github.com/kestfor/hexspeak/internal/wordtable"
)

type Strategy string

const (
	// StrategyRecursive walks the phrase space depth first.
	StrategyRecursive Strategy = "recursive"
	// StrategyFrontier walks it level by level through an explicit FIFO
	// worklist. No call stack growth, but the worklist holds every open
	// branch of a level at once, so peak memory is much higher.
	StrategyFrontier Strategy = "frontier"
)

func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case "", StrategyRecursive:
		return StrategyRecursive, nil
	case StrategyFrontier:
		return StrategyFrontier, nil
	default:
		return "", fmt.Errorf("%w: unknown strategy %q", ErrInvalidInput, s)
	}
}

type Option func(*Engine)

func WithStrategy(strategy Strategy) Option {
	return func(e *Engine) {
		e.strategy = strategy
	}
}

// WithWorkers splits the search by first word over n goroutines.
// Values below 2 keep the search on the calling goroutine.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		e.workers = n
	}
}

// WithShard restricts the engine to one share of the first words.
func WithShard(shard Shard) Option {
	return func(e *Engine) {
		e.shard = shard
	}
}

// Engine counts and enumerates phrases over a fixed word table.
// An Engine holds no per-search state and may be used concurrently.
type Engine struct {
	table      *wordtable.Table
	candidates []candidate
	strategy   Strategy
	workers    int
	shard      Shard
}

func NewEngine(table *wordtable.Table, opts ...Option) *Engine {
	e := &Engine{
		table:      table,
		candidates: candidatesOf(table),
		strategy:   StrategyRecursive,
		workers:    1,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

func (e *Engine) Table() *wordtable.Table {
	return e.table
}

func (e *Engine) Strategy() Strategy {
	return e.strategy
}

func (e *Engine) Workers() int {
	return max(e.workers, 1)
}

func (e *Engine) Shard() Shard {
	return e.shard
}

// Count returns the number of phrases of exactly target characters.
func (e *Engine) Count(ctx context.Context, target int) (uint64, error) {
	if err := e.validate(target); err != nil {
		return 0, err
	}
	if target == 0 {
		return 0, nil
	}

	if e.workers > 1 {
		return e.countParallel(ctx, target)
	}

	w := e.newWalker(ctx, target)
	total := w.count(e.roots(target))
	return total, w.err
}

// Enumerate returns the phrases of exactly target characters. The sequence is
// computed on every iteration and stops early when ctx is done; callers that
// need to tell a cancelled run from a complete one use Collect.
func (e *Engine) Enumerate(ctx context.Context, target int) (iter.Seq[Phrase], error) {
	if err := e.validate(target); err != nil {
		return nil, err
	}

	return func(yield func(Phrase) bool) {
		_ = e.enumerate(ctx, target, yield)
	}, nil
}

// Collect materialises Enumerate and reports cancellation.
func (e *Engine) Collect(ctx context.Context, target int) ([]Phrase, error) {
	if err := e.validate(target); err != nil {
		return nil, err
	}

	var phrases []Phrase
	err := e.enumerate(ctx, target, func(p Phrase) bool {
		phrases = append(phrases, p)
		return true
	})
	if err != nil {
		return nil, err
	}

	return phrases, nil
}

func (e *Engine) enumerate(ctx context.Context, target int, yield func(Phrase) bool) error {
	if target == 0 {
		return nil
	}

	if e.workers > 1 {
		return e.enumerateParallel(ctx, target, yield)
	}

	w := e.newWalker(ctx, target)
	w.walk(e.roots(target), yield)
	return w.err
}

// roots returns the search's starting branches: the empty phrase, or the
// shard's first words when the engine is sharded.
func (e *Engine) roots(target int) []branch {
	if e.shard.whole() {
		return []branch{{}}
	}
	return e.firsts(target)
}

// firsts returns one branch per admissible first word of the engine's shard.
func (e *Engine) firsts(target int) []branch {
	var firsts []branch
	for _, c := range e.candidates {
		if c.length > target {
			break
		}
		firsts = append(firsts, branch{}.extend(c))
	}

	r := e.shard.of(len(firsts))
	return firsts[r.Start:r.End]
}

func (e *Engine) newWalker(ctx context.Context, target int) *walker {
	return &walker{
		ctx:        ctx,
		candidates: e.candidates,
		target:     target,
		frontier:   e.strategy == StrategyFrontier,
	}
}

// Count uses a depth-first Engine with a background context.
func Count(table *wordtable.Table, target int) (uint64, error) {
	return NewEngine(table).Count(context.Background(), target)
}

// Enumerate uses a depth-first Engine with a background context.
func Enumerate(table *wordtable.Table, target int) (iter.Seq[Phrase], error) {
	return NewEngine(table).Enumerate(context.Background(), target)
}

func (e *Engine) validate(target int) error {
	if target < 0 {
		return fmt.Errorf("%w: target length %d is negative", ErrInvalidInput, target)
	}
	return e.shard.Validate()
}
