// Package tokenize splits lines of song-style text into segments of
// lowercased word tokens. A segment is a run of words that is not
// interrupted by punctuation; whitespace alone never ends a segment.
package tokenize

import (
	"iter"
	"strings"
	"unicode"
)

// Segment is an ordered, non-empty run of lowercased tokens taken from a
// single line.
type Segment []string

// Phrase returns the tokens in [start, end) joined by single spaces.
func (s Segment) Phrase(start, end int) string {
	return strings.Join(s[start:end], " ")
}

// Line yields the segments of one line, left to right. The sequence can be
// ranged over any number of times.
func Line(line string) iter.Seq[Segment] {
	return func(yield func(Segment) bool) {
		runes := []rune(line)

		var (
			current  Segment
			token    strings.Builder
			hasApost bool
		)

		pushToken := func() {
			if token.Len() == 0 {
				return
			}
			current = append(current, strings.ToLower(token.String()))
			token.Reset()
			hasApost = false
		}

		pushSegment := func() bool {
			if len(current) == 0 {
				return true
			}
			out := current
			current = nil
			return yield(out)
		}

		for i, r := range runes {
			if isWordRune(r) {
				token.WriteRune(r)
				continue
			}

			// A non-empty token always ends in a word rune, so only the
			// following rune needs checking.
			if r == '\'' && !hasApost && token.Len() > 0 && i+1 < len(runes) && isWordRune(runes[i+1]) {
				token.WriteRune(r)
				hasApost = true
				continue
			}

			pushToken()

			if !unicode.IsSpace(r) {
				if !pushSegment() {
					return
				}
			}
		}

		pushToken()
		pushSegment()
	}
}

// Document splits text on line breaks and returns every segment in
// document order. Blank lines and lines without words contribute nothing.
func Document(text string) []Segment {
	var segments []Segment
	for _, line := range strings.Split(text, "\n") {
		for seg := range Line(line) {
			segments = append(segments, seg)
		}
	}
	return segments
}

// CountTokens returns the total number of tokens across segments.
func CountTokens(segments []Segment) int {
	total := 0
	for _, seg := range segments {
		total += len(seg)
	}
	return total
}

func isWordRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
