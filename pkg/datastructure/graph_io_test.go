package datastructure

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraphSnapshotRoundTrip(t *testing.T) {
	g := buildTestGraph(t)

	var buf bytes.Buffer
	require.NoError(t, g.Encode(&buf))

	got, err := DecodeGraph(&buf)
	require.NoError(t, err)

	assert.Equal(t, g.NumberOfVertices(), got.NumberOfVertices())
	assert.Equal(t, g.NumberOfEdges(), got.NumberOfEdges())
	assert.Equal(t, g.NumberOfArcs(), got.NumberOfArcs())
	assert.Equal(t, g.NumberOfComponents(), got.NumberOfComponents())

	for i := 0; i < g.NumberOfEdges(); i++ {
		want := g.GetEdge(Index(i))
		e := got.GetEdge(Index(i))
		assert.Equal(t, want.GetTail(), e.GetTail())
		assert.Equal(t, want.GetHead(), e.GetHead())
		assert.Equal(t, want.GetLength(), e.GetLength())
		assert.Equal(t, want.IsTwoWay(), e.IsTwoWay())
		assert.Equal(t, want.GetGeometry(), e.GetGeometry())
	}
}
