package datastructure

import (
	"fmt"

	"github.com/lintang-b-s/navigatorx-lastmile/pkg/geo"
	"github.com/lintang-b-s/navigatorx-lastmile/pkg/util"
)

type Index uint32

const (
	INVALID_VERTEX_ID Index = ^Index(0)
	INVALID_EDGE_ID   Index = ^Index(0)
)

type Vertex struct {
	lat float64
	lon float64
	id  Index
}

func NewVertex(lat, lon float64, id Index) Vertex {
	return Vertex{
		lat: lat,
		lon: lon,
		id:  id,
	}
}

func (v *Vertex) GetID() Index {
	return v.id
}

func (v *Vertex) GetLat() float64 {
	return v.lat
}

func (v *Vertex) GetLon() float64 {
	return v.lon
}

func (v *Vertex) GetCoordinate() geo.Coordinate {
	return geo.NewCoordinate(v.lat, v.lon)
}

// Edge. physical road/duct segment between tail and head.
// geometry always starts at tail and ends at head.
type Edge struct {
	edgeId   Index
	tail     Index
	head     Index
	length   float64 // meter
	twoWay   bool
	geometry []geo.Coordinate
}

func (e *Edge) GetEdgeId() Index {
	return e.edgeId
}

func (e *Edge) GetTail() Index {
	return e.tail
}

func (e *Edge) GetHead() Index {
	return e.head
}

func (e *Edge) GetLength() float64 {
	return e.length
}

func (e *Edge) IsTwoWay() bool {
	return e.twoWay
}

func (e *Edge) GetGeometry() []geo.Coordinate {
	return e.geometry
}

// Arc. outgoing arc of a vertex. a two-way edge produces two arcs, the reversed one walks the edge geometry backwards.
type Arc struct {
	edgeId   Index
	head     Index
	reversed bool
}

func NewArc(edgeId, head Index, reversed bool) Arc {
	return Arc{edgeId: edgeId, head: head, reversed: reversed}
}

func (a Arc) GetEdgeId() Index {
	return a.edgeId
}

func (a Arc) GetHead() Index {
	return a.head
}

func (a Arc) IsReversed() bool {
	return a.reversed
}

// Graph. immutable routable graph in compressed sparse row form. safe for concurrent reads.
type Graph struct {
	vertices []Vertex
	edges    []Edge
	firstOut []Index // firstOut[v]..firstOut[v+1] are the out arcs of v
	arcs     []Arc
	degree   []uint32 // number of incident arcs (in + out)

	components    []Index // weakly connected component label for each vertex
	numComponents int
}

func (g *Graph) NumberOfVertices() int {
	return len(g.vertices)
}

func (g *Graph) NumberOfEdges() int {
	return len(g.edges)
}

func (g *Graph) NumberOfArcs() int {
	return len(g.arcs)
}

func (g *Graph) GetVertex(v Index) *Vertex {
	return &g.vertices[v]
}

func (g *Graph) GetEdge(e Index) *Edge {
	return &g.edges[e]
}

func (g *Graph) GetOutDegree(v Index) int {
	return int(g.firstOut[v+1] - g.firstOut[v])
}

// GetDegree. number of arcs entering or leaving v. vertices with degree 0 can't be routed from.
func (g *Graph) GetDegree(v Index) int {
	return int(g.degree[v])
}

func (g *Graph) ForOutArcsOf(u Index, handle func(arc Arc)) {
	for i := g.firstOut[u]; i < g.firstOut[u+1]; i++ {
		handle(g.arcs[i])
	}
}

func (g *Graph) ForVertices(handle func(v *Vertex)) {
	for i := range g.vertices {
		handle(&g.vertices[i])
	}
}

// ArcGeometry. geometry of the edge behind arc in travel direction (tail of arc -> head of arc).
func (g *Graph) ArcGeometry(arc Arc) []geo.Coordinate {
	geom := g.edges[arc.edgeId].geometry
	if !arc.reversed {
		return geom
	}
	return util.ReverseG(geom)
}

func (g *Graph) GetComponent(v Index) Index {
	return g.components[v]
}

func (g *Graph) NumberOfComponents() int {
	return g.numComponents
}

// SameComponent. false means there is definitely no path between u and v
func (g *Graph) SameComponent(u, v Index) bool {
	return g.components[u] == g.components[v]
}

func (g *Graph) IsValidVertex(v Index) bool {
	return int(v) < len(g.vertices)
}

// GraphBuilder. collects vertices & edges and freezes them into a Graph.
type GraphBuilder struct {
	vertices []Vertex
	edges    []Edge
	numArcs  int
}

func NewGraphBuilder() *GraphBuilder {
	return &GraphBuilder{
		vertices: make([]Vertex, 0),
		edges:    make([]Edge, 0),
	}
}

func NewGraphBuilderWithSize(numVertices, numEdges int) *GraphBuilder {
	return &GraphBuilder{
		vertices: make([]Vertex, 0, numVertices),
		edges:    make([]Edge, 0, numEdges),
	}
}

func (b *GraphBuilder) AddVertex(lat, lon float64) (Index, error) {
	if !util.IsFinite(lat, lon) {
		return INVALID_VERTEX_ID, fmt.Errorf("vertex %d has non finite coordinate (%v, %v)", len(b.vertices), lat, lon)
	}
	id := Index(len(b.vertices))
	b.vertices = append(b.vertices, NewVertex(lat, lon, id))
	return id, nil
}

// AddEdge. adds an edge tail->head (and head->tail when twoWay) with a non negative length weight in meter.
// geometry may be empty (straight segment) and is extended so that it starts at tail and ends at head.
func (b *GraphBuilder) AddEdge(tail, head Index, length float64, geometry []geo.Coordinate, twoWay bool) (Index, error) {
	n := Index(len(b.vertices))
	if tail >= n || head >= n {
		return INVALID_EDGE_ID, fmt.Errorf("edge %d references unknown vertex (%d, %d), graph has %d vertices",
			len(b.edges), tail, head, n)
	}
	if !util.IsFinite(length) || length < 0 {
		return INVALID_EDGE_ID, fmt.Errorf("edge %d has invalid length %v", len(b.edges), length)
	}

	tailCoord := b.vertices[tail].GetCoordinate()
	headCoord := b.vertices[head].GetCoordinate()

	geom := make([]geo.Coordinate, 0, len(geometry)+2)
	if len(geometry) == 0 || geometry[0] != tailCoord {
		geom = append(geom, tailCoord)
	}
	for _, c := range geometry {
		if !util.IsFinite(c.Lat, c.Lon) {
			return INVALID_EDGE_ID, fmt.Errorf("edge %d has non finite geometry coordinate", len(b.edges))
		}
		geom = append(geom, c)
	}
	if geom[len(geom)-1] != headCoord || len(geom) == 1 {
		geom = append(geom, headCoord)
	}

	id := Index(len(b.edges))
	b.edges = append(b.edges, Edge{
		edgeId:   id,
		tail:     tail,
		head:     head,
		length:   length,
		twoWay:   twoWay,
		geometry: geom,
	})
	b.numArcs++
	if twoWay {
		b.numArcs++
	}
	return id, nil
}

func (b *GraphBuilder) NumberOfVertices() int {
	return len(b.vertices)
}

// Build. freeze into CSR adjacency & label connected components. the builder must not be used afterwards.
func (b *GraphBuilder) Build() *Graph {
	n := len(b.vertices)
	firstOut := make([]Index, n+1)
	degree := make([]uint32, n)

	for i := range b.edges {
		e := &b.edges[i]
		firstOut[e.tail+1]++
		degree[e.tail]++
		degree[e.head]++
		if e.twoWay {
			firstOut[e.head+1]++
			degree[e.tail]++
			degree[e.head]++
		}
	}

	for v := 0; v < n; v++ {
		firstOut[v+1] += firstOut[v]
	}

	arcs := make([]Arc, b.numArcs)
	next := make([]Index, n)
	copy(next, firstOut[:n])
	for i := range b.edges {
		e := &b.edges[i]
		arcs[next[e.tail]] = NewArc(e.edgeId, e.head, false)
		next[e.tail]++
		if e.twoWay {
			arcs[next[e.head]] = NewArc(e.edgeId, e.tail, true)
			next[e.head]++
		}
	}

	g := &Graph{
		vertices: b.vertices,
		edges:    b.edges,
		firstOut: firstOut,
		arcs:     arcs,
		degree:   degree,
	}
	g.labelComponents()
	return g
}
