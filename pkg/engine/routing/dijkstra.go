package routing

import (
	"github.com/lintang-b-s/navigatorx-lastmile/pkg"
	da "github.com/lintang-b-s/navigatorx-lastmile/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-lastmile/pkg/util"
)

// Dijkstra. point to point dijkstra over out arcs, stops as soon as the target is settled.
type Dijkstra struct {
	graph        *da.Graph
	costFunction CostFunction
	storage      *searchStorage

	numSettledNodes int
}

func NewDijkstra(graph *da.Graph, costFunction CostFunction, storage *searchStorage) *Dijkstra {
	return &Dijkstra{
		graph:        graph,
		costFunction: costFunction,
		storage:      storage,
	}
}

// ShortestPath. cost, vertex sequence s..t and arc sequence of a shortest s-t path. found is false when t is not reachable from s.
// the storage is left dirty, callers reset it.
func (us *Dijkstra) ShortestPath(s, t da.Index) (float64, []da.Index, []da.Arc, bool) {
	if s == t {
		return 0, []da.Index{s}, []da.Arc{}, true
	}

	sNode := us.storage.Label(s, 0, invalidVertexEdgePair())
	us.storage.pq.Insert(sNode)

	for !us.storage.pq.IsEmpty() {
		if us.graphSearchUni(t) {
			break
		}
	}

	tInfo := us.storage.Get(t)
	if !tInfo.IsScanned() {
		return pkg.INF_WEIGHT, nil, nil, false
	}

	vertices := make([]da.Index, 0)
	arcs := make([]da.Arc, 0)
	for v := t; v != s; {
		parent := us.storage.Get(v).GetParent()
		vertices = append(vertices, v)
		arcs = append(arcs, parent.getArc())
		v = parent.getVertex()
	}
	vertices = append(vertices, s)

	util.ReverseInPlace(vertices)
	util.ReverseInPlace(arcs)
	return tInfo.GetDist(), vertices, arcs, true
}

// graphSearchUni. settle the closest vertex and relax its out arcs. true when the target got settled.
func (us *Dijkstra) graphSearchUni(target da.Index) bool {
	queryKey, _ := us.storage.pq.ExtractMin()
	uId := queryKey.GetItem()
	uInfo := us.storage.Get(uId)
	uInfo.Scan()
	us.numSettledNodes++

	if uId == target {
		return true
	}

	uDist := uInfo.GetDist()
	us.graph.ForOutArcsOf(uId, func(arc da.Arc) {
		vId := arc.GetHead()
		vInfo := us.storage.Get(vId)
		if vInfo.IsScanned() {
			return
		}

		edgeWeight := us.costFunction.GetWeight(us.graph.GetEdge(arc.GetEdgeId()))
		newDist := uDist + edgeWeight
		if da.Ge(newDist, pkg.INF_WEIGHT) {
			return
		}

		if !vInfo.IsLabelled() {
			vhNode := us.storage.Label(vId, newDist, newVertexEdgePair(uId, arc))
			us.storage.pq.Insert(vhNode)
			return
		}

		if newDist >= vInfo.GetDist() {
			// not better
			return
		}

		vInfo.UpdateDist(newDist)
		vInfo.UpdateParent(newVertexEdgePair(uId, arc))
		us.storage.pq.DecreaseKey(vInfo.GetHeapNode(), newDist)
	})

	return false
}

func (us *Dijkstra) GetNumSettledNodes() int {
	return us.numSettledNodes
}
