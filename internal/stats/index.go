// Package stats builds the global phrase statistics a document is
// segmented against: how often every contiguous token window occurs, and
// which distinct tokens follow it.
package stats

import (
	"context"
	"sort"

	"github.com/ppiankov/refrain/internal/tokenize"
	"github.com/ppiankov/refrain/internal/worker"
)

// Index holds phrase occurrence counts and continuation sets for a whole
// document. It is read-only once built.
type Index struct {
	counts        map[string]int
	continuations map[string]map[string]struct{}
}

func newIndex() *Index {
	return &Index{
		counts:        make(map[string]int),
		continuations: make(map[string]map[string]struct{}),
	}
}

// Build scans every window of every segment once. Overlapping occurrences
// are all counted.
func Build(segments []tokenize.Segment) *Index {
	idx := newIndex()
	for _, seg := range segments {
		idx.addSegment(seg)
	}
	return idx
}

// BuildConcurrent counts contiguous chunks of segments on a worker pool and
// merges the partial indexes. The result is identical to Build.
func BuildConcurrent(ctx context.Context, segments []tokenize.Segment, workers int) (*Index, error) {
	if workers <= 1 || len(segments) < 2 {
		return Build(segments), nil
	}

	chunk := (len(segments) + workers - 1) / workers
	var tasks []worker.Task[*Index]
	for start := 0; start < len(segments); start += chunk {
		part := segments[start:min(start+chunk, len(segments))]
		tasks = append(tasks, func(ctx context.Context) *Index {
			return Build(part)
		})
	}

	partials := worker.Run(ctx, workers, tasks)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	merged := newIndex()
	for _, p := range partials {
		merged.merge(p)
	}
	return merged, nil
}

func (x *Index) addSegment(seg tokenize.Segment) {
	for i := range seg {
		for end := i + 1; end <= len(seg); end++ {
			phrase := seg.Phrase(i, end)
			x.counts[phrase]++

			if end < len(seg) {
				next, ok := x.continuations[phrase]
				if !ok {
					next = make(map[string]struct{})
					x.continuations[phrase] = next
				}
				next[seg[end]] = struct{}{}
			}
		}
	}
}

func (x *Index) merge(other *Index) {
	for phrase, n := range other.counts {
		x.counts[phrase] += n
	}
	for phrase, tokens := range other.continuations {
		next, ok := x.continuations[phrase]
		if !ok {
			next = make(map[string]struct{}, len(tokens))
			x.continuations[phrase] = next
		}
		for tok := range tokens {
			next[tok] = struct{}{}
		}
	}
}

// Count returns how often phrase occurs, or 0 if it never does.
func (x *Index) Count(phrase string) int {
	return x.counts[phrase]
}

// Continuations returns the number of distinct tokens seen right after
// phrase.
func (x *Index) Continuations(phrase string) int {
	return len(x.continuations[phrase])
}

// Next returns the distinct tokens seen right after phrase, sorted.
func (x *Index) Next(phrase string) []string {
	set := x.continuations[phrase]
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for tok := range set {
		out = append(out, tok)
	}
	sort.Strings(out)
	return out
}

// Phrases returns the number of distinct phrases in the index.
func (x *Index) Phrases() int {
	return len(x.counts)
}

// Builder assembles an Index by hand. It exists for callers that need an
// index with chosen statistics rather than one derived from text.
type Builder struct {
	idx *Index
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{idx: newIndex()}
}

// SetCount records the occurrence count of phrase.
func (b *Builder) SetCount(phrase string, n int) *Builder {
	b.idx.counts[phrase] = n
	return b
}

// AddNext records tokens as continuations of phrase.
func (b *Builder) AddNext(phrase string, tokens ...string) *Builder {
	next, ok := b.idx.continuations[phrase]
	if !ok {
		next = make(map[string]struct{})
		b.idx.continuations[phrase] = next
	}
	for _, tok := range tokens {
		next[tok] = struct{}{}
	}
	return b
}

// Index returns the assembled index. The Builder must not be used after.
func (b *Builder) Index() *Index {
	idx := b.idx
	b.idx = nil
	return idx
}
