package routing

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	da "github.com/lintang-b-s/navigatorx-lastmile/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-lastmile/pkg/util"
)

type PathCacheKey struct {
	s da.Index
	t da.Index
}

func NewPathCacheKey(s, t da.Index) PathCacheKey {
	return PathCacheKey{s: s, t: t}
}

// RouteSolver. shortest path queries over a shared read only graph. safe for concurrent use.
type RouteSolver struct {
	graph        *da.Graph
	costFunction CostFunction
	logger       *zap.Logger
	pathCache    *lru.Cache[PathCacheKey, *Path]
	storagePool  sync.Pool
}

// NewRouteSolver. cacheSize 0 disables the path cache
func NewRouteSolver(graph *da.Graph, costFunction CostFunction, cacheSize int,
	logger *zap.Logger) (*RouteSolver, error) {
	rs := &RouteSolver{
		graph:        graph,
		costFunction: costFunction,
		logger:       logger,
	}

	if cacheSize > 0 {
		cache, err := lru.New[PathCacheKey, *Path](cacheSize)
		if err != nil {
			return nil, err
		}
		rs.pathCache = cache
	}

	rs.BuildBufferPool()
	return rs, nil
}

func (rs *RouteSolver) BuildBufferPool() {
	numVertices := rs.graph.NumberOfVertices()
	rs.storagePool = sync.Pool{
		New: func() any {
			return newSearchStorage(numVertices)
		},
	}
}

func (rs *RouteSolver) GetGraph() *da.Graph {
	return rs.graph
}

func (rs *RouteSolver) getStorage() *searchStorage {
	return rs.storagePool.Get().(*searchStorage)
}

func (rs *RouteSolver) putStorage(s *searchStorage) {
	s.Reset()
	rs.storagePool.Put(s)
}

// ShortestPath. least cost path from s to t. start == end gives an empty zero length path.
func (rs *RouteSolver) ShortestPath(s, t da.Index) (*Path, error) {
	if !rs.graph.IsValidVertex(s) || !rs.graph.IsValidVertex(t) {
		return nil, util.WrapErrorf(nil, da.ErrInternal, "vertex (%d, %d) is not in the graph", s, t)
	}

	if s == t {
		return newPath(rs.graph, []da.Index{s}, []da.Arc{}, 0), nil
	}

	if !rs.graph.SameComponent(s, t) {
		return nil, util.WrapErrorf(nil, da.ErrUnreachable, "vertex %d and %d are in different components", s, t)
	}

	key := NewPathCacheKey(s, t)
	if rs.pathCache != nil {
		if p, ok := rs.pathCache.Get(key); ok {
			return p, nil
		}
	}

	storage := rs.getStorage()
	defer rs.putStorage(storage)

	dijkstra := NewDijkstra(rs.graph, rs.costFunction, storage)
	cost, vertices, arcs, found := dijkstra.ShortestPath(s, t)
	if !found {
		return nil, util.WrapErrorf(nil, da.ErrUnreachable, "no path from %d to %d", s, t)
	}

	rs.logger.Debug("shortest path found", zap.Uint32("s", uint32(s)), zap.Uint32("t", uint32(t)),
		zap.Float64("cost", cost), zap.Int("settled", dijkstra.GetNumSettledNodes()))

	p := newPath(rs.graph, vertices, arcs, cost)
	if rs.pathCache != nil {
		rs.pathCache.Add(key, p)
	}
	return p, nil
}

// realCost. cost of arcs under the solver cost function
func (rs *RouteSolver) realCost(arcs []da.Arc) float64 {
	cost := 0.0
	for _, arc := range arcs {
		cost += rs.costFunction.GetWeight(rs.graph.GetEdge(arc.GetEdgeId()))
	}
	return cost
}
