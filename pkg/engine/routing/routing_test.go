package routing

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lintang-b-s/navigatorx-lastmile/pkg/costfunction"
	da "github.com/lintang-b-s/navigatorx-lastmile/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-lastmile/pkg/geo"
)

type testEdge struct {
	u, v   da.Index
	oneway bool
}

/*
	0 ----- 1 ----- 2
	|               |
	3 ------------- 4

	5 -> 6 (one way)

	7 ----- 8
*/
func buildTestSolver(t *testing.T, cacheSize int) *RouteSolver {
	t.Helper()
	coords := []geo.Coordinate{
		geo.NewCoordinate(0, 0),
		geo.NewCoordinate(0, 0.001),
		geo.NewCoordinate(0, 0.002),
		geo.NewCoordinate(-0.0005, 0),
		geo.NewCoordinate(-0.0005, 0.002),
		geo.NewCoordinate(1, 1),
		geo.NewCoordinate(1, 1.001),
		geo.NewCoordinate(2, 2),
		geo.NewCoordinate(2, 2.001),
	}
	edges := []testEdge{
		{0, 1, false},
		{1, 2, false},
		{0, 3, false},
		{3, 4, false},
		{4, 2, false},
		{5, 6, true},
		{7, 8, false},
	}

	b := da.NewGraphBuilder()
	for _, c := range coords {
		_, err := b.AddVertex(c.Lat, c.Lon)
		require.NoError(t, err)
	}
	for _, e := range edges {
		length := geo.HaversineMeters(coords[e.u], coords[e.v])
		_, err := b.AddEdge(e.u, e.v, length, nil, !e.oneway)
		require.NoError(t, err)
	}

	rs, err := NewRouteSolver(b.Build(), costfunction.NewLengthCostFunction(), cacheSize, zap.NewNop())
	require.NoError(t, err)
	return rs
}

func TestShortestPath(t *testing.T) {
	rs := buildTestSolver(t, 0)

	p, err := rs.ShortestPath(0, 2)
	require.NoError(t, err)

	assert.Equal(t, []da.Index{0, 1, 2}, p.GetVertices())
	assert.Len(t, p.GetArcs(), 2)
	assert.InDelta(t, 222.39, p.GetLength(), 0.01)
	assert.InDelta(t, p.GetLength(), p.GetCost(), 1e-6)
	require.Len(t, p.GetGeometry(), 3)
	assert.Equal(t, geo.NewCoordinate(0, 0).Point(), p.GetGeometry()[0])
	assert.Equal(t, geo.NewCoordinate(0, 0.002).Point(), p.GetGeometry()[2])

	// reverse direction walks the two way edges backwards
	back, err := rs.ShortestPath(2, 0)
	require.NoError(t, err)
	assert.Equal(t, []da.Index{2, 1, 0}, back.GetVertices())
	assert.Equal(t, geo.NewCoordinate(0, 0).Point(), back.GetGeometry()[2])
}

func TestShortestPathTerminalCases(t *testing.T) {
	rs := buildTestSolver(t, 0)

	testCases := []struct {
		name    string
		s, t    da.Index
		wantErr error
	}{
		{name: "different components", s: 0, t: 7, wantErr: da.ErrUnreachable},
		{name: "against one way", s: 6, t: 5, wantErr: da.ErrUnreachable},
		{name: "along one way", s: 5, t: 6},
		{name: "unknown vertex", s: 0, t: 100, wantErr: da.ErrInternal},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			p, err := rs.ShortestPath(tt.s, tt.t)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, p)
				return
			}
			require.NoError(t, err)
			assert.False(t, p.IsEmpty())
		})
	}
}

func TestShortestPathSelfLoop(t *testing.T) {
	rs := buildTestSolver(t, 0)

	p, err := rs.ShortestPath(3, 3)
	require.NoError(t, err)
	assert.True(t, p.IsEmpty())
	assert.Zero(t, p.GetLength())
	assert.Zero(t, p.GetCost())
	assert.Empty(t, p.GetGeometry())
	assert.Equal(t, []da.Index{3}, p.GetVertices())
}

func TestShortestPathCache(t *testing.T) {
	rs := buildTestSolver(t, 16)

	p1, err := rs.ShortestPath(3, 1)
	require.NoError(t, err)
	p2, err := rs.ShortestPath(3, 1)
	require.NoError(t, err)
	assert.Same(t, p1, p2)
}

func TestShortestPathConcurrent(t *testing.T) {
	rs := buildTestSolver(t, 0)
	want, err := rs.ShortestPath(3, 2)
	require.NoError(t, err)

	var wg sync.WaitGroup
	costs := make([]float64, 64)
	for i := range costs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, err := rs.ShortestPath(3, 2)
			if err != nil {
				costs[i] = -1
				return
			}
			costs[i] = p.GetCost()
		}(i)
	}
	wg.Wait()

	for _, c := range costs {
		assert.InDelta(t, want.GetCost(), c, 1e-9)
	}
}

func TestAlternativeRoutes(t *testing.T) {
	rs := buildTestSolver(t, 0)

	paths, err := rs.AlternativeRoutes(0, 2, AlternativeOptions{
		TargetCount:  3,
		WeightFactor: 1.6,
		ShareFactor:  0.6,
		Penalty:      1.4,
	})
	require.NoError(t, err)
	require.Len(t, paths, 2)
	assert.Equal(t, []da.Index{0, 1, 2}, paths[0].GetVertices())
	assert.Equal(t, []da.Index{0, 3, 4, 2}, paths[1].GetVertices())
	assert.InDelta(t, paths[1].GetLength(), paths[1].GetCost(), 1e-6)
	assert.Zero(t, paths[1].SharedLength(paths[0]))

	// the detour is too expensive
	paths, err = rs.AlternativeRoutes(0, 2, AlternativeOptions{
		TargetCount:  3,
		WeightFactor: 1.2,
		ShareFactor:  0.6,
		Penalty:      1.4,
	})
	require.NoError(t, err)
	assert.Len(t, paths, 1)

	_, err = rs.AlternativeRoutes(0, 8, AlternativeOptions{TargetCount: 3, WeightFactor: 2, ShareFactor: 1, Penalty: 2})
	assert.ErrorIs(t, err, da.ErrUnreachable)
}

func TestSearchStorageSparseReset(t *testing.T) {
	s := newSearchStorage(5)
	s.Label(2, 10, invalidVertexEdgePair())
	s.Label(4, 12, invalidVertexEdgePair())
	s.Get(2).Scan()
	assert.Equal(t, 2, s.NumberOfTouched())
	assert.True(t, s.Get(2).IsLabelled())
	assert.False(t, s.Get(3).IsLabelled())

	s.Reset()
	assert.Zero(t, s.NumberOfTouched())
	for v := da.Index(0); v < 5; v++ {
		assert.False(t, s.Get(v).IsLabelled())
		assert.False(t, s.Get(v).IsScanned())
	}
}
