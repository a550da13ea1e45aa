// Package graph aggregates phrase sequences into a weighted phrase graph.
package graph

import "github.com/ppiankov/refrain/internal/model"

type edgeKey struct {
	source string
	target string
}

// Builder accumulates nodes and edges from phrase sequences fed in document
// order. The last phrase of one sequence is linked to the first phrase of
// the next, so transitions bridge punctuation and blank lines.
type Builder struct {
	nodes   []model.Node
	edges   []model.Edge
	nodeIdx map[string]int
	edgeIdx map[edgeKey]int
	last    string
	hasLast bool
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		nodeIdx: make(map[string]int),
		edgeIdx: make(map[edgeKey]int),
	}
}

// Add records one segment's phrases. Empty sequences are ignored and do
// not break the chain.
func (b *Builder) Add(phrases []string) {
	if len(phrases) == 0 {
		return
	}

	if b.hasLast {
		b.link(b.last, phrases[0])
	}

	for i, p := range phrases {
		b.visit(p)
		if i < len(phrases)-1 {
			b.link(p, phrases[i+1])
		}
	}

	b.last = phrases[len(phrases)-1]
	b.hasLast = true
}

// Graph returns a copy of the accumulated graph. Nodes and edges appear in
// first-seen order, so equal input always yields an identical value.
func (b *Builder) Graph() model.Graph {
	g := model.Graph{
		Nodes: make([]model.Node, len(b.nodes)),
		Edges: make([]model.Edge, len(b.edges)),
	}
	copy(g.Nodes, b.nodes)
	copy(g.Edges, b.edges)
	return g
}

func (b *Builder) visit(phrase string) {
	i, ok := b.nodeIdx[phrase]
	if !ok {
		i = len(b.nodes)
		b.nodeIdx[phrase] = i
		b.nodes = append(b.nodes, model.Node{ID: phrase})
	}
	b.nodes[i].Count++
}

func (b *Builder) link(source, target string) {
	key := edgeKey{source: source, target: target}
	i, ok := b.edgeIdx[key]
	if !ok {
		i = len(b.edges)
		b.edgeIdx[key] = i
		b.edges = append(b.edges, model.Edge{Source: source, Target: target})
	}
	b.edges[i].Count++
}
