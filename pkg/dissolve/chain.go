package dissolve

import (
	"sort"

	"github.com/paulmach/orb"

	da "github.com/lintang-b-s/navigatorx-lastmile/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-lastmile/pkg/geo"
	"github.com/lintang-b-s/navigatorx-lastmile/pkg/util"
)

// chainRuns. joins the runs of one group into maximal polylines. lines start at endpoints and junctions
// (degree != 2) in coordinate order, remaining cycles start at their smallest vertex.
func chainRuns(runs []*atomRun) (orb.MultiLineString, error) {
	type chainEdge struct {
		a, b orb.Point
	}

	edges := make([]chainEdge, 0, len(runs))
	adj := make(map[orb.Point][]int)
	for _, r := range runs {
		a, b := r.endpoints()
		if a == b {
			continue
		}
		adj[a] = append(adj[a], len(edges))
		adj[b] = append(adj[b], len(edges))
		edges = append(edges, chainEdge{a: a, b: b})
	}

	keys := make([]orb.Point, 0, len(adj))
	for k := range adj {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return geo.PointLess(keys[i], keys[j])
	})

	used := make([]bool, len(edges))
	numUsed := 0
	nextEdge := func(v orb.Point) int {
		for _, e := range adj[v] {
			if !used[e] {
				return e
			}
		}
		return -1
	}

	walk := func(start orb.Point) orb.LineString {
		line := orb.LineString{start}
		cur := start
		for {
			e := nextEdge(cur)
			if e == -1 {
				break
			}
			used[e] = true
			numUsed++
			if edges[e].a == cur {
				cur = edges[e].b
			} else {
				cur = edges[e].a
			}
			line = append(line, cur)
			if len(adj[cur]) != 2 {
				break
			}
		}
		return line
	}

	lines := make(orb.MultiLineString, 0)
	for _, k := range keys {
		if len(adj[k]) == 2 {
			continue
		}
		for nextEdge(k) != -1 {
			lines = append(lines, walk(k))
		}
	}
	for _, k := range keys {
		for nextEdge(k) != -1 {
			lines = append(lines, walk(k))
		}
	}

	if numUsed != len(edges) {
		return nil, util.WrapErrorf(nil, da.ErrInternal, "chained %d of %d dissolved runs", numUsed, len(edges))
	}
	return lines, nil
}
