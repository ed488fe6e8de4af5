package routing

import (
	"github.com/lintang-b-s/navigatorx-lastmile/pkg/costfunction"
	da "github.com/lintang-b-s/navigatorx-lastmile/pkg/datastructure"
)

type AlternativeOptions struct {
	TargetCount  int     // maximum number of routes, shortest included
	WeightFactor float64 // accepted routes cost at most WeightFactor * shortest cost
	ShareFactor  float64 // accepted routes share at most ShareFactor of their length with any other accepted route
	Penalty      float64 // weight multiplier applied to the edges of every found route
}

// AlternativeRoutes. penalty method: after every search the edges of the found path get penalized and the search
// is repeated, candidates that are cheap enough and different enough from every accepted route are kept.
// the shortest path is always the first route.
func (rs *RouteSolver) AlternativeRoutes(s, t da.Index, opts AlternativeOptions) ([]*Path, error) {
	best, err := rs.ShortestPath(s, t)
	if err != nil {
		return nil, err
	}

	paths := []*Path{best}
	if opts.TargetCount <= 1 || best.IsEmpty() {
		return paths, nil
	}

	penalized := costfunction.NewPenaltyCostFunction(rs.costFunction, opts.Penalty)
	for _, arc := range best.GetArcs() {
		penalized.Penalize(arc.GetEdgeId())
	}

	storage := rs.getStorage()
	defer rs.putStorage(storage)

	maxIterations := opts.TargetCount * MAX_ALTERNATIVE_ITERATION_FACTOR
	for i := 0; len(paths) < opts.TargetCount && i < maxIterations; i++ {
		dijkstra := NewDijkstra(rs.graph, penalized, storage)
		_, vertices, arcs, found := dijkstra.ShortestPath(s, t)
		storage.Reset()
		if !found {
			break
		}

		for _, arc := range arcs {
			penalized.Penalize(arc.GetEdgeId())
		}

		candidate := newPath(rs.graph, vertices, arcs, rs.realCost(arcs))
		if rs.admissible(candidate, paths, best, opts) {
			paths = append(paths, candidate)
		}
	}

	return paths, nil
}

func (rs *RouteSolver) admissible(candidate *Path, accepted []*Path, best *Path, opts AlternativeOptions) bool {
	if candidate.GetCost() > opts.WeightFactor*best.GetCost() {
		return false
	}
	for _, p := range accepted {
		if candidate.sameArcs(p) {
			return false
		}
		if candidate.SharedLength(p) > opts.ShareFactor*candidate.GetLength() {
			return false
		}
	}
	return true
}
