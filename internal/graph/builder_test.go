package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/refrain/internal/model"
)

func TestBuilder_CountsAndIntraEdges(t *testing.T) {
	b := NewBuilder()
	b.Add([]string{"a", "a", "a"})

	g := b.Graph()

	assert.Equal(t, []model.Node{{ID: "a", Count: 3}}, g.Nodes)
	assert.Equal(t, []model.Edge{{Source: "a", Target: "a", Count: 2}}, g.Edges)
}

func TestBuilder_BridgesSequences(t *testing.T) {
	b := NewBuilder()
	b.Add([]string{"twinkle", "twinkle"})
	b.Add([]string{"little star"})
	b.Add(nil)
	b.Add([]string{"how i wonder", "what you are"})

	g := b.Graph()

	want := []model.Edge{
		{Source: "twinkle", Target: "twinkle", Count: 1},
		{Source: "twinkle", Target: "little star", Count: 1},
		{Source: "little star", Target: "how i wonder", Count: 1},
		{Source: "how i wonder", Target: "what you are", Count: 1},
	}
	assert.Equal(t, want, g.Edges)
	assert.Equal(t, 5, g.TotalCount())
}

func TestBuilder_FirstSequenceHasNoIncomingBridge(t *testing.T) {
	b := NewBuilder()
	b.Add([]string{"hello"})

	g := b.Graph()

	require.Len(t, g.Nodes, 1)
	assert.Empty(t, g.Edges)
}

func TestBuilder_Empty(t *testing.T) {
	g := NewBuilder().Graph()

	assert.Empty(t, g.Nodes)
	assert.Empty(t, g.Edges)
}

func TestBuilder_GraphIsACopy(t *testing.T) {
	b := NewBuilder()
	b.Add([]string{"la", "la"})
	first := b.Graph()

	b.Add([]string{"la"})
	second := b.Graph()

	n, _ := first.Node("la")
	assert.Equal(t, 2, n.Count)
	n, _ = second.Node("la")
	assert.Equal(t, 3, n.Count)

	e, ok := second.Edge("la", "la")
	require.True(t, ok)
	assert.Equal(t, 2, e.Count)
}
