package routing

import (
	"github.com/lintang-b-s/navigatorx-lastmile/pkg"
	da "github.com/lintang-b-s/navigatorx-lastmile/pkg/datastructure"
)

// vertexEdgePair. predecessor of a labelled vertex: the vertex we came from and the arc we used.
type vertexEdgePair struct {
	vertex da.Index
	arc    da.Arc
}

func (ve *vertexEdgePair) getVertex() da.Index {
	return ve.vertex
}

func (ve *vertexEdgePair) getArc() da.Arc {
	return ve.arc
}

func newVertexEdgePair(vertex da.Index, arc da.Arc) vertexEdgePair {
	return vertexEdgePair{
		vertex: vertex,
		arc:    arc,
	}
}

func invalidVertexEdgePair() vertexEdgePair {
	return newVertexEdgePair(da.INVALID_VERTEX_ID, da.NewArc(da.INVALID_EDGE_ID, da.INVALID_VERTEX_ID, false))
}

type VertexInfo[T comparable] struct {
	dist     float64
	parent   vertexEdgePair
	scanned  bool // settled, dist is the shortest path cost from s
	heapNode *da.PriorityQueueNode[T]
}

func NewVertexInfo[T comparable](dist float64, parent vertexEdgePair, hnode *da.PriorityQueueNode[T]) VertexInfo[T] {
	return VertexInfo[T]{
		dist:     dist,
		parent:   parent,
		heapNode: hnode,
	}
}

func (vi *VertexInfo[T]) GetDist() float64 {
	return vi.dist
}

func (vi *VertexInfo[T]) UpdateDist(d float64) {
	vi.dist = d
}

func (vi *VertexInfo[T]) UpdateParent(par vertexEdgePair) {
	vi.parent = par
}

func (vi *VertexInfo[T]) Scan() {
	vi.scanned = true
}

func (vi *VertexInfo[T]) IsScanned() bool {
	return vi.scanned
}

func (vi *VertexInfo[T]) IsLabelled() bool {
	return vi.dist < pkg.INF_WEIGHT
}

func (vi *VertexInfo[T]) GetParent() vertexEdgePair {
	return vi.parent
}

func (vi *VertexInfo[T]) GetHeapNode() *da.PriorityQueueNode[T] {
	return vi.heapNode
}

func (vi *VertexInfo[T]) reset() {
	*vi = NewVertexInfo[T](pkg.INF_WEIGHT, invalidVertexEdgePair(), nil)
}
