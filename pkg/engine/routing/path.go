package routing

import (
	"github.com/paulmach/orb"

	da "github.com/lintang-b-s/navigatorx-lastmile/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-lastmile/pkg/geo"
)

// Path. solved route. shared through the path cache, must not be modified.
type Path struct {
	vertices   []da.Index
	arcs       []da.Arc
	arcLengths []float64 // measured geometry length of each arc, meter
	cost       float64
	length     float64
	geometry   orb.LineString
}

func newPath(graph *da.Graph, vertices []da.Index, arcs []da.Arc, cost float64) *Path {
	geometry := make(orb.LineString, 0, len(arcs)+1)
	arcLengths := make([]float64, len(arcs))
	length := 0.0

	for i, arc := range arcs {
		coords := graph.ArcGeometry(arc)
		arcLengths[i] = geo.LineStringLength(geo.LineStringFromCoords(coords))
		length += arcLengths[i]
		for j, c := range coords {
			p := c.Point()
			if j == 0 && len(geometry) > 0 && geometry[len(geometry)-1] == p {
				continue
			}
			geometry = append(geometry, p)
		}
	}

	return &Path{
		vertices:   vertices,
		arcs:       arcs,
		arcLengths: arcLengths,
		cost:       cost,
		length:     length,
		geometry:   geometry,
	}
}

func (p *Path) GetVertices() []da.Index {
	return p.vertices
}

func (p *Path) GetArcs() []da.Arc {
	return p.arcs
}

func (p *Path) GetEdgeIds() []da.Index {
	ids := make([]da.Index, len(p.arcs))
	for i, arc := range p.arcs {
		ids[i] = arc.GetEdgeId()
	}
	return ids
}

// GetCost. sum of edge weights under the solver cost function
func (p *Path) GetCost() float64 {
	return p.cost
}

// GetLength. haversine length of the geometry in meter
func (p *Path) GetLength() float64 {
	return p.length
}

func (p *Path) GetGeometry() orb.LineString {
	return p.geometry
}

func (p *Path) IsEmpty() bool {
	return len(p.arcs) == 0
}

// SharedLength. length of the edges p shares with other, in meter
func (p *Path) SharedLength(other *Path) float64 {
	edges := make(map[da.Index]struct{}, len(other.arcs))
	for _, arc := range other.arcs {
		edges[arc.GetEdgeId()] = struct{}{}
	}
	shared := 0.0
	for i, arc := range p.arcs {
		if _, ok := edges[arc.GetEdgeId()]; ok {
			shared += p.arcLengths[i]
		}
	}
	return shared
}

func (p *Path) sameArcs(other *Path) bool {
	if len(p.arcs) != len(other.arcs) {
		return false
	}
	for i := range p.arcs {
		if p.arcs[i] != other.arcs[i] {
			return false
		}
	}
	return true
}
