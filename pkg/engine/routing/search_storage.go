package routing

import (
	da "github.com/lintang-b-s/navigatorx-lastmile/pkg/datastructure"
)

// searchStorage. per query labels of a dijkstra search.
// allocated once per pooled query and reset sparsely: only the vertices a query touched are cleared,
// so a short query on a large graph doesn't pay for the whole label array.
type searchStorage struct {
	info    []VertexInfo[da.Index]
	touched []da.Index
	pq      *da.MinHeap[da.Index]
}

func newSearchStorage(numVertices int) *searchStorage {
	info := make([]VertexInfo[da.Index], numVertices)
	for i := range info {
		info[i].reset()
	}
	return &searchStorage{
		info:    info,
		touched: make([]da.Index, 0, 64),
		pq:      da.NewFourAryHeap[da.Index](),
	}
}

func (s *searchStorage) Get(v da.Index) *VertexInfo[da.Index] {
	return &s.info[v]
}

// Label. first time v gets a tentative distance
func (s *searchStorage) Label(v da.Index, dist float64, parent vertexEdgePair) *da.PriorityQueueNode[da.Index] {
	node := da.NewPriorityQueueNode(dist, v)
	s.info[v] = NewVertexInfo(dist, parent, node)
	s.touched = append(s.touched, v)
	return node
}

func (s *searchStorage) NumberOfTouched() int {
	return len(s.touched)
}

func (s *searchStorage) Reset() {
	for _, v := range s.touched {
		s.info[v].reset()
	}
	s.touched = s.touched[:0]
	s.pq.Clear()
}
