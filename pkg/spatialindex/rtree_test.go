package spatialindex

import (
	"sort"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lintang-b-s/navigatorx-lastmile/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-lastmile/pkg/geo"
)

func TestRtreeSearchWithinRadius(t *testing.T) {
	b := datastructure.NewGraphBuilder()
	// ~111 m apart along the equator, vertex 3 isolated
	for _, lon := range []float64{0, 0.001, 0.002, 0.0005} {
		_, err := b.AddVertex(0, lon)
		require.NoError(t, err)
	}
	_, err := b.AddEdge(0, 1, 111, nil, true)
	require.NoError(t, err)
	_, err = b.AddEdge(1, 2, 111, nil, true)
	require.NoError(t, err)
	g := b.Build()

	rt := NewRtree()
	rt.Build(g, zap.NewNop())
	assert.Equal(t, 3, rt.Len())

	got := rt.SearchWithinRadius(0, 0.0011, 150)
	sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
	assert.Equal(t, []datastructure.Index{0, 1, 2}, got)

	got = rt.SearchWithinRadius(0, 0.0021, 20)
	assert.Equal(t, []datastructure.Index{2}, got)

	// a point north of a vertex by exactly the radius lies inside the box
	north, _ := geo.GetDestinationPoint(0, 0, 0, 0.1)
	got = rt.SearchWithinRadius(north, 0, 100.0)
	assert.Contains(t, got, datastructure.Index(0))
}

func TestInfrastructureIndex(t *testing.T) {
	layer := datastructure.NewInfrastructureLayer([]datastructure.InfrastructureFeature{
		{
			Name:     "cable-a",
			Geometry: orb.MultiLineString{{{0, 0}, {0.01, 0}}},
		},
	})
	idx := NewInfrastructureIndex(layer, 30, zap.NewNop())
	assert.Equal(t, 1, idx.Len())

	// ~22 m north of the cable
	near := orb.Point{0.005, 0.0002}
	// ~111 m north of the cable
	far := orb.Point{0.005, 0.001}

	assert.Len(t, idx.SearchSegment(near, orb.Point{0.006, 0.0002}), 1)
	assert.Empty(t, idx.SearchSegment(far, orb.Point{0.006, 0.001}))

	assert.True(t, idx.Covers(near))
	assert.False(t, idx.Covers(far))
	assert.InDelta(t, 22.24, idx.Distance(near), 0.1)

	// round cap around the end of the cable
	assert.True(t, idx.Covers(orb.Point{0.0102, 0}))
	assert.False(t, idx.Covers(orb.Point{0.0102, 0.0002}))
}
