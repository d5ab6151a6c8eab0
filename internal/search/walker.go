package search

import (
	"context"
	"slices"

	"github.com/kestfor/hexspeak/internal/wordtable"
)

// ctx is polled once per this many visited branches
const checkEvery = 1 << 12

type candidate struct {
	word   string
	length int
}

// candidatesOf flattens the table in ascending length, then storage order.
// Sorted lengths let a walk stop at the first word longer than its budget.
func candidatesOf(t *wordtable.Table) []candidate {
	if t == nil {
		return nil
	}

	out := make([]candidate, 0, t.Len())
	for _, length := range t.Lengths() {
		for _, word := range t.Words(length) {
			out = append(out, candidate{word: word, length: length})
		}
	}
	return out
}

// branch is one partial phrase. Extending a branch never touches the
// words slice of its parent, so siblings need no undo step.
type branch struct {
	words  []string
	length int
}

func (b branch) extend(c candidate) branch {
	n := len(b.words)
	return branch{
		words:  append(b.words[:n:n], c.word),
		length: b.length + c.length,
	}
}

func (b branch) uses(word string) bool {
	return slices.Contains(b.words, word)
}

// walker owns the state of a single search and must not be shared.
type walker struct {
	ctx        context.Context
	candidates []candidate
	target     int
	frontier   bool

	steps uint64
	err   error
}

func (w *walker) stopped() bool {
	if w.err != nil {
		return true
	}

	w.steps++
	if w.steps%checkEvery == 1 {
		if err := w.ctx.Err(); err != nil {
			w.err = err
			return true
		}
	}

	return false
}

func (w *walker) walk(seeds []branch, yield func(Phrase) bool) {
	if w.frontier {
		w.walkFrontier(seeds, yield)
		return
	}

	for _, b := range seeds {
		if !w.descend(b, yield) {
			return
		}
	}
}

func (w *walker) count(seeds []branch) uint64 {
	if w.frontier {
		return w.countFrontier(seeds)
	}

	var total uint64
	for _, b := range seeds {
		total += w.countFrom(b.words, w.target-b.length)
	}
	if w.err != nil {
		return 0
	}
	return total
}

func (w *walker) descend(b branch, yield func(Phrase) bool) bool {
	if w.stopped() {
		return false
	}

	remaining := w.target - b.length
	if remaining == 0 {
		return yield(Phrase(b.words))
	}

	for _, c := range w.candidates {
		if c.length > remaining {
			break
		}
		if b.uses(c.word) {
			continue
		}

		next := b.extend(c)
		if c.length == remaining {
			if !yield(Phrase(next.words)) {
				return false
			}
			continue
		}

		if !w.descend(next, yield) {
			return false
		}
	}

	return true
}

func (w *walker) countFrom(used []string, remaining int) uint64 {
	if w.stopped() {
		return 0
	}

	if remaining == 0 {
		return 1
	}

	var total uint64
	for _, c := range w.candidates {
		if c.length > remaining {
			break
		}
		if slices.Contains(used, c.word) {
			continue
		}

		if c.length == remaining {
			total++
			continue
		}

		n := len(used)
		total += w.countFrom(append(used[:n:n], c.word), remaining-c.length)
	}

	return total
}

func (w *walker) walkFrontier(seeds []branch, yield func(Phrase) bool) {
	queue := slices.Clone(seeds)

	for len(queue) > 0 {
		if w.stopped() {
			return
		}

		b := queue[0]
		queue[0] = branch{}
		queue = queue[1:]

		if b.length == w.target {
			if !yield(Phrase(b.words)) {
				return
			}
			continue
		}

		queue = w.expand(queue, b)
	}
}

func (w *walker) countFrontier(seeds []branch) uint64 {
	queue := slices.Clone(seeds)

	var total uint64
	for len(queue) > 0 {
		if w.stopped() {
			return 0
		}

		b := queue[0]
		queue[0] = branch{}
		queue = queue[1:]

		if b.length == w.target {
			total++
			continue
		}

		queue = w.expand(queue, b)
	}

	return total
}

func (w *walker) expand(queue []branch, b branch) []branch {
	remaining := w.target - b.length
	for _, c := range w.candidates {
		if c.length > remaining {
			break
		}
		if !b.uses(c.word) {
			queue = append(queue, b.extend(c))
		}
	}
	return queue
}
