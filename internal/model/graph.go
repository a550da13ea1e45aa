package model

// Node is a phrase vertex. Count is how many times the phrase was chosen
// while segmenting the whole document.
type Node struct {
	ID    string `json:"id"`    // Phrase text
	Count int    `json:"count"` // Occurrences as a chosen phrase
}

// Edge is a directed transition between two phrases
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Count  int    `json:"count"` // Times Target immediately followed Source
}

// Graph is the phrase graph handed to renderers. Consumers must not rely on
// the order of Nodes or Edges.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Node returns the node with the given phrase, if present
func (g Graph) Node(id string) (Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Edge returns the edge between source and target, if present
func (g Graph) Edge(source, target string) (Edge, bool) {
	for _, e := range g.Edges {
		if e.Source == source && e.Target == target {
			return e, true
		}
	}
	return Edge{}, false
}

// TotalCount sums all node counts, which equals the number of phrases
// emitted for the document
func (g Graph) TotalCount() int {
	total := 0
	for _, n := range g.Nodes {
		total += n.Count
	}
	return total
}
