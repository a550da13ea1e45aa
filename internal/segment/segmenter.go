// Package segment greedily partitions a segment into phrases, scoring each
// candidate window against the document-wide statistics index.
//
// At every cursor position the segmenter compares a single-token baseline
// with every longer window that reaches no further than the end of the
// segment. Longer, frequently repeated windows whose continuation is
// unique score highest. Windows made of one token repeated ("moo moo")
// are never candidates, so repeated interjections stay separate phrases.
package segment

import (
	"math"

	"github.com/ppiankov/refrain/internal/stats"
	"github.com/ppiankov/refrain/internal/tokenize"
)

// Scoring constants. They are tuned values and part of the output contract.
const (
	MinRepeat        = 2
	LengthExponent   = 1.6
	CountExponent    = 1.1
	BranchingPenalty = 0.7
	RepeatBoost      = 1.2
)

// Formula describes how a multi-token candidate is scored.
const Formula = "count^1.1 * len^1.6 * (0.7 if continuations > 1) * (1.2 if count >= 2)"

// Candidate is one scored window starting at a cursor position.
type Candidate struct {
	Phrase        string  `json:"phrase"`
	Length        int     `json:"length"`
	Count         int     `json:"count"`
	Continuations int     `json:"continuations"`
	CountBonus    float64 `json:"count_bonus,omitempty"`
	LengthBonus   float64 `json:"length_bonus,omitempty"`
	Branching     float64 `json:"branching,omitempty"`
	Repeat        float64 `json:"repeat,omitempty"`
	Score         float64 `json:"score"`
	Baseline      bool    `json:"baseline,omitempty"`
	PureRepeat    bool    `json:"pure_repeat,omitempty"`
}

// Decision records the window chosen at one cursor position.
type Decision struct {
	Start      int         `json:"start"`
	Chosen     Candidate   `json:"chosen"`
	Candidates []Candidate `json:"candidates,omitempty"`
}

// Baseline scores the single token at start: its count, or 1 when the
// index has never seen it. It gets none of the multi-token multipliers.
func Baseline(idx *stats.Index, seg tokenize.Segment, start int) Candidate {
	phrase := seg[start]
	count := idx.Count(phrase)
	score := float64(count)
	if count <= 0 {
		score = 1
	}
	return Candidate{
		Phrase:        phrase,
		Length:        1,
		Count:         count,
		Continuations: idx.Continuations(phrase),
		Score:         score,
		Baseline:      true,
	}
}

// Score applies the multi-token formula to phrase, which spans length
// tokens.
func Score(idx *stats.Index, phrase string, length int) Candidate {
	count := idx.Count(phrase)
	continuations := idx.Continuations(phrase)

	branching := 1.0
	if continuations > 1 {
		branching = BranchingPenalty
	}
	repeat := 1.0
	if count >= MinRepeat {
		repeat = RepeatBoost
	}
	lengthBonus := math.Pow(float64(length), LengthExponent)
	countBonus := math.Pow(float64(count), CountExponent)

	return Candidate{
		Phrase:        phrase,
		Length:        length,
		Count:         count,
		Continuations: continuations,
		CountBonus:    countBonus,
		LengthBonus:   lengthBonus,
		Branching:     branching,
		Repeat:        repeat,
		Score:         countBonus * lengthBonus * branching * repeat,
	}
}

// IsPureRepeat reports whether every token in window is the same.
func IsPureRepeat(window []string) bool {
	for _, tok := range window[1:] {
		if tok != window[0] {
			return false
		}
	}
	return true
}

// Segmenter splits segments against a fixed index.
type Segmenter struct {
	index *stats.Index
}

// New returns a Segmenter reading idx. idx must not change afterwards.
func New(idx *stats.Index) *Segmenter {
	return &Segmenter{index: idx}
}

// Choose picks the best window starting at start. On an exact score tie the
// longer window wins. When trace is set every candidate considered,
// including skipped pure repeats, is attached to the decision.
func (s *Segmenter) Choose(seg tokenize.Segment, start int, trace bool) Decision {
	best := Baseline(s.index, seg, start)

	var considered []Candidate
	if trace {
		considered = append(considered, best)
	}

	for end := start + 2; end <= len(seg); end++ {
		if IsPureRepeat(seg[start:end]) {
			if trace {
				considered = append(considered, Candidate{
					Phrase:     seg.Phrase(start, end),
					Length:     end - start,
					PureRepeat: true,
				})
			}
			continue
		}

		c := Score(s.index, seg.Phrase(start, end), end-start)
		if trace {
			considered = append(considered, c)
		}
		if outranks(c, best) {
			best = c
		}
	}

	return Decision{Start: start, Chosen: best, Candidates: considered}
}

// outranks reports whether c beats best: a strictly higher score, or the
// same score over more tokens.
func outranks(c, best Candidate) bool {
	return c.Score > best.Score || (c.Score == best.Score && c.Length > best.Length)
}

// Split partitions seg into phrases. Joining the phrases' tokens in order
// gives back seg exactly.
func (s *Segmenter) Split(seg tokenize.Segment) []string {
	var phrases []string
	for i := 0; i < len(seg); {
		d := s.Choose(seg, i, false)
		phrases = append(phrases, d.Chosen.Phrase)
		i += d.Chosen.Length
	}
	return phrases
}

// Trace partitions seg like Split but returns the full decision at every
// step.
func (s *Segmenter) Trace(seg tokenize.Segment) []Decision {
	var decisions []Decision
	for i := 0; i < len(seg); {
		d := s.Choose(seg, i, true)
		decisions = append(decisions, d)
		i += d.Chosen.Length
	}
	return decisions
}
