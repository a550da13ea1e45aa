package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/ppiankov/refrain/internal/model"
	"github.com/ppiankov/refrain/internal/segment"
)

// Renderer writes reports as JSON, Markdown and a one-line summary
type Renderer struct {
	includeFooter bool
	top           int
}

// NewRenderer creates a renderer. top limits the rows of Markdown tables;
// zero or less means all rows.
func NewRenderer(includeFooter bool, top int) *Renderer {
	return &Renderer{includeFooter: includeFooter, top: top}
}

// RenderJSON writes the full report to path ("-" for stdout)
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	return writeTo(path, func(w io.Writer) error {
		return writeJSON(w, report)
	})
}

// RenderGraphJSON writes only the graph value to path ("-" for stdout)
func (r *Renderer) RenderGraphJSON(g model.Graph, path string) error {
	return writeTo(path, func(w io.Writer) error {
		return writeJSON(w, g)
	})
}

// RenderMarkdown writes the Markdown report to path ("-" for stdout)
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	return writeTo(path, func(w io.Writer) error {
		return r.WriteMarkdown(w, report)
	})
}

// WriteMarkdown renders totals, the most frequent phrases and transitions,
// and the trace when present
func (r *Renderer) WriteMarkdown(w io.Writer, report *model.Report) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# Phrase graph: %s\n\n", report.Source)

	t := report.Totals
	b.WriteString("| Lines | Segments | Tokens | Phrases | Nodes | Edges |\n")
	b.WriteString("|------:|---------:|-------:|--------:|------:|------:|\n")
	fmt.Fprintf(&b, "| %d | %d | %d | %d | %d | %d |\n\n",
		t.Lines, t.Segments, t.Tokens, t.ChosenPhrases, t.Nodes, t.Edges)

	if len(report.Score.Signals) > 0 {
		fmt.Fprintf(&b, "## Repetition index: %d/100 (confidence: %s)\n\n", report.Score.Index, report.Score.Confidence)
		for _, sig := range report.Score.Signals {
			marker := ""
			if sig.Severity == model.SeverityWarning {
				marker = "**warning:** "
			}
			fmt.Fprintf(&b, "- %s%s (`%s`)\n", marker, sig.Description, sig.Type)
		}
		b.WriteString("\n")
	}

	if len(report.Graph.Nodes) == 0 {
		b.WriteString("_No words found._\n")
	} else {
		b.WriteString("## Top phrases\n\n")
		b.WriteString("| Phrase | Count |\n|--------|------:|\n")
		for _, n := range limitRows(TopNodes(report.Graph), r.top) {
			fmt.Fprintf(&b, "| %s | %d |\n", escapeCell(n.ID), n.Count)
		}
		b.WriteString("\n")
	}

	if len(report.Graph.Edges) > 0 {
		b.WriteString("## Top transitions\n\n")
		b.WriteString("| From | To | Count |\n|------|----|------:|\n")
		for _, e := range limitRows(TopEdges(report.Graph), r.top) {
			fmt.Fprintf(&b, "| %s | %s | %d |\n", escapeCell(e.Source), escapeCell(e.Target), e.Count)
		}
		b.WriteString("\n")
	}

	if len(report.Trace) > 0 {
		b.WriteString("## Segmentation trace\n\n")
		for _, st := range report.Trace {
			fmt.Fprintf(&b, "### Segment %d: %s\n\n", st.Segment, strings.Join(st.Tokens, " "))
			for _, step := range st.Steps {
				fmt.Fprintf(&b, "- `%s` (len %d, score %.3f)", step.Phrase, step.Length, step.Score)
				if len(step.Skipped) > 0 {
					fmt.Fprintf(&b, ", skipped repeats: %s", strings.Join(step.Skipped, "; "))
				}
				b.WriteString("\n")
			}
			b.WriteString("\n")
		}
	}

	if r.includeFooter {
		b.WriteString("---\n\n")
		fmt.Fprintf(&b, "_Generated by refrain. Phrase score: %s._\n", segment.Formula)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// RenderSummary prints the node and edge totals
func (r *Renderer) RenderSummary(w io.Writer, report *model.Report) {
	fmt.Fprintf(w, "%s: %d nodes · %d edges\n", report.Source, report.Totals.Nodes, report.Totals.Edges)
}

// limitRows returns the first top rows; top <= 0 keeps them all
func limitRows[T any](rows []T, top int) []T {
	if top > 0 && len(rows) > top {
		return rows[:top]
	}
	return rows
}

// TopNodes returns the nodes sorted by count, highest first, then by phrase
func TopNodes(g model.Graph) []model.Node {
	nodes := append([]model.Node(nil), g.Nodes...)
	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].Count != nodes[j].Count {
			return nodes[i].Count > nodes[j].Count
		}
		return nodes[i].ID < nodes[j].ID
	})
	return nodes
}

// TopEdges returns the edges sorted by count, highest first, then by
// source and target
func TopEdges(g model.Graph) []model.Edge {
	edges := append([]model.Edge(nil), g.Edges...)
	sort.SliceStable(edges, func(i, j int) bool {
		if edges[i].Count != edges[j].Count {
			return edges[i].Count > edges[j].Count
		}
		if edges[i].Source != edges[j].Source {
			return edges[i].Source < edges[j].Source
		}
		return edges[i].Target < edges[j].Target
	})
	return edges
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeTo opens path for writing, or uses stdout for "-"
func writeTo(path string, write func(io.Writer) error) (err error) {
	if path == "-" {
		return write(os.Stdout)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, closeErr)
		}
	}()

	return write(f)
}
