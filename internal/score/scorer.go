package score

import (
	"fmt"
	"math"
	"strings"

	"github.com/ppiankov/refrain/internal/model"
)

// minTokens is the text size below which confidence is always low
const minTokens = 20

// Scorer calculates the repetition index and generates signals
type Scorer struct{}

// NewScorer creates a new scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// Calculate scores a phrase graph built from tokens words
func (s *Scorer) Calculate(g model.Graph, tokens int) model.Score {
	var signals []model.Signal

	// 1. Phrase coverage (0-40 points)
	coverageScore, coverageSignal := s.calculateCoverage(g, tokens)
	signals = append(signals, coverageSignal)

	// 2. Repetition (0-30 points)
	repetitionScore, repetitionSignal := s.calculateRepetition(g)
	signals = append(signals, repetitionSignal)

	// 3. Refrain strength (0-20 points)
	refrainScore, refrainSignal := s.calculateRefrain(g, tokens)
	signals = append(signals, refrainSignal)

	// 4. Flow (0-10 points)
	flowScore, flowSignal := s.calculateFlow(g)
	signals = append(signals, flowSignal)

	// 5. Fragmentation warning
	fragmented, fragmentedSignal := s.detectFragmented(g, tokens)
	if fragmented {
		signals = append(signals, fragmentedSignal)
	}

	total := coverageScore + repetitionScore + refrainScore + flowScore
	if total > 100 {
		total = 100
	}

	return model.Score{
		Index:      total,
		Confidence: s.determineConfidence(total, tokens),
		Signals:    signals,
	}
}

// wordCount returns the number of words in a phrase
func wordCount(phrase string) int {
	return strings.Count(phrase, " ") + 1
}

// calculateCoverage scores the share of tokens that sit inside multi-word
// phrases (0-40 points)
func (s *Scorer) calculateCoverage(g model.Graph, tokens int) (int, model.Signal) {
	if tokens == 0 {
		return 0, model.Signal{
			Type:        model.SignalPhraseCoverage,
			Severity:    model.SeverityInfo,
			Description: "No words to cover",
			Data: map[string]interface{}{
				"tokens": 0,
				"score":  0,
			},
		}
	}

	covered := 0
	for _, n := range g.Nodes {
		if words := wordCount(n.ID); words > 1 {
			covered += n.Count * words
		}
	}

	ratio := float64(covered) / float64(tokens)
	score := int(math.Round(ratio * 40))

	return score, model.Signal{
		Type:        model.SignalPhraseCoverage,
		Severity:    model.SeverityInfo,
		Description: fmt.Sprintf("%.0f%% of words sit inside multi-word phrases", ratio*100),
		Data: map[string]interface{}{
			"covered": covered,
			"tokens":  tokens,
			"ratio":   ratio,
			"score":   score,
			"formula": "(tokens_in_multiword_phrases / tokens) * 40",
		},
	}
}

// calculateRepetition scores how many phrase occurrences repeat an earlier
// phrase (0-30 points)
func (s *Scorer) calculateRepetition(g model.Graph) (int, model.Signal) {
	occurrences := g.TotalCount()
	if occurrences == 0 {
		return 0, model.Signal{
			Type:        model.SignalRepetition,
			Severity:    model.SeverityInfo,
			Description: "No phrases",
			Data: map[string]interface{}{
				"occurrences": 0,
				"score":       0,
			},
		}
	}

	repeats := occurrences - len(g.Nodes)
	ratio := float64(repeats) / float64(occurrences)
	score := int(math.Round(ratio * 30))

	return score, model.Signal{
		Type:        model.SignalRepetition,
		Severity:    model.SeverityInfo,
		Description: fmt.Sprintf("%d of %d phrase occurrences repeat an earlier phrase", repeats, occurrences),
		Data: map[string]interface{}{
			"occurrences": occurrences,
			"distinct":    len(g.Nodes),
			"ratio":       ratio,
			"score":       score,
			"formula":     "((occurrences - distinct) / occurrences) * 30",
		},
	}
}

// calculateRefrain scores the repeated multi-word phrase covering the most
// words (0-20 points)
func (s *Scorer) calculateRefrain(g model.Graph, tokens int) (int, model.Signal) {
	var (
		best    model.Node
		covered int
	)
	for _, n := range g.Nodes {
		words := wordCount(n.ID)
		if words < 2 || n.Count < 2 {
			continue
		}
		c := n.Count * words
		if c > covered || (c == covered && n.ID < best.ID) {
			best, covered = n, c
		}
	}

	if covered == 0 || tokens == 0 {
		return 0, model.Signal{
			Type:        model.SignalRefrain,
			Severity:    model.SeverityInfo,
			Description: "No multi-word phrase repeats",
			Data: map[string]interface{}{
				"score": 0,
			},
		}
	}

	ratio := float64(covered) / float64(tokens)
	score := int(math.Round(math.Min(1, 2*ratio) * 20))

	return score, model.Signal{
		Type:        model.SignalRefrain,
		Severity:    model.SeverityInfo,
		Description: fmt.Sprintf("Refrain %q repeats %d times", best.ID, best.Count),
		Data: map[string]interface{}{
			"phrase":  best.ID,
			"count":   best.Count,
			"covered": covered,
			"ratio":   ratio,
			"score":   score,
			"formula": "min(1, 2 * refrain_words / tokens) * 20",
		},
	}
}

// calculateFlow scores the share of phrases that always lead to the same
// next phrase (0-10 points)
func (s *Scorer) calculateFlow(g model.Graph) (int, model.Signal) {
	successors := make(map[string]int)
	for _, e := range g.Edges {
		successors[e.Source]++
	}

	if len(successors) == 0 {
		return 0, model.Signal{
			Type:        model.SignalFlow,
			Severity:    model.SeverityInfo,
			Description: "No transitions",
			Data: map[string]interface{}{
				"score": 0,
			},
		}
	}

	single := 0
	for _, n := range successors {
		if n == 1 {
			single++
		}
	}

	ratio := float64(single) / float64(len(successors))
	score := int(math.Round(ratio * 10))

	return score, model.Signal{
		Type:        model.SignalFlow,
		Severity:    model.SeverityInfo,
		Description: fmt.Sprintf("%d of %d phrases always lead to the same next phrase", single, len(successors)),
		Data: map[string]interface{}{
			"single_successor": single,
			"with_successor":   len(successors),
			"ratio":            ratio,
			"score":            score,
			"formula":          "(phrases_with_one_successor / phrases_with_successors) * 10",
		},
	}
}

// detectFragmented flags long texts where no multi-word phrase was chosen
func (s *Scorer) detectFragmented(g model.Graph, tokens int) (bool, model.Signal) {
	if tokens < minTokens {
		return false, model.Signal{}
	}

	for _, n := range g.Nodes {
		if wordCount(n.ID) > 1 {
			return false, model.Signal{}
		}
	}

	return true, model.Signal{
		Type:        model.SignalFragmented,
		Severity:    model.SeverityWarning,
		Description: "Text has no repeated word sequences; every phrase is a single word",
		Data: map[string]interface{}{
			"tokens": tokens,
			"nodes":  len(g.Nodes),
		},
	}
}

// determineConfidence determines the confidence level based on the score
func (s *Scorer) determineConfidence(score int, tokens int) string {
	if tokens < minTokens {
		return "low"
	}

	if score >= 60 {
		return "high"
	} else if score >= 30 {
		return "medium"
	} else {
		return "low"
	}
}
