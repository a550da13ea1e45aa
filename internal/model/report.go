package model

// Report is the complete analysis of one text
type Report struct {
	Source string         `json:"source"`          // File name, "stdin", "link" or "sample"
	Totals Totals         `json:"totals"`          // Size of each pipeline stage
	Graph  Graph          `json:"graph"`           // Phrase graph
	Score  Score          `json:"score"`           // Repetition index and signals
	Trace  []SegmentTrace `json:"trace,omitempty"` // Per-segment decisions, when requested
}

// Totals counts what each stage produced
type Totals struct {
	Lines          int `json:"lines"`
	Segments       int `json:"segments"`
	Tokens         int `json:"tokens"`
	IndexedPhrases int `json:"indexed_phrases"` // Distinct windows in the statistics index
	ChosenPhrases  int `json:"chosen_phrases"`  // Phrases emitted by segmentation
	Nodes          int `json:"nodes"`
	Edges          int `json:"edges"`
}

// SegmentTrace explains how one segment was split
type SegmentTrace struct {
	Segment int         `json:"segment"` // Segment index in document order
	Tokens  []string    `json:"tokens"`
	Steps   []TraceStep `json:"steps"`
}

// TraceStep is one greedy choice with transparent scoring data
type TraceStep struct {
	Start   int                    `json:"start"`
	Phrase  string                 `json:"phrase"`
	Length  int                    `json:"length"`
	Score   float64                `json:"score"`
	Data    map[string]interface{} `json:"data,omitempty"`    // Formula inputs and multipliers
	Skipped []string               `json:"skipped,omitempty"` // Pure-repeat windows never considered
}

// Score summarizes how repetitive a text is, from 0 (every phrase new) to
// 100 (one refrain throughout)
type Score struct {
	Index      int      `json:"index"`      // Repetition index (0-100)
	Confidence string   `json:"confidence"` // "low", "medium", "high"
	Signals    []Signal `json:"signals"`    // Diagnostic signals with transparent data
}

// Signal represents a diagnostic signal with transparent scoring data
type Signal struct {
	Type        SignalType             `json:"type"`           // Signal classification
	Severity    SignalSeverity         `json:"severity"`       // info, warning
	Description string                 `json:"description"`    // Human-readable description
	Data        map[string]interface{} `json:"data,omitempty"` // Formula and inputs
}

// SignalType classifies the type of diagnostic signal
type SignalType string

const (
	SignalPhraseCoverage SignalType = "phrase_coverage" // Tokens inside multi-word phrases
	SignalRepetition     SignalType = "repetition"      // Phrase occurrences that repeat an earlier phrase
	SignalRefrain        SignalType = "refrain"         // Strongest repeated multi-word phrase
	SignalFlow           SignalType = "flow"            // Phrases with a single successor
	SignalFragmented     SignalType = "fragmented"      // Long text without any multi-word phrase
)

// SignalSeverity indicates how notable a signal is
type SignalSeverity string

const (
	SeverityInfo    SignalSeverity = "info"
	SeverityWarning SignalSeverity = "warning"
)
