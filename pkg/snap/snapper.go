package snap

import (
	"github.com/lintang-b-s/navigatorx-lastmile/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-lastmile/pkg/geo"
	"github.com/lintang-b-s/navigatorx-lastmile/pkg/util"
)

type spatialIndex interface {
	SearchWithinRadius(qLat, qLon, radius float64) []datastructure.Index
}

// Snapper. maps a coordinate to the nearest usable graph vertex.
type Snapper struct {
	graph       *datastructure.Graph
	index       spatialIndex
	maxDistance float64 // meter
}

func NewSnapper(graph *datastructure.Graph, index spatialIndex, maxDistance float64) *Snapper {
	return &Snapper{
		graph:       graph,
		index:       index,
		maxDistance: maxDistance,
	}
}

// Snap. nearest vertex within maxDistance meter of coord and its haversine distance.
// equal distances resolve to the lowest vertex id. maxDistance <= 0 only matches coincident vertices.
func (s *Snapper) Snap(coord geo.Coordinate) (datastructure.Index, float64, error) {
	if !coord.IsValid() {
		return datastructure.INVALID_VERTEX_ID, 0, util.WrapErrorf(nil, datastructure.ErrSnapFailed,
			"coordinate (%v, %v) is not finite", coord.Lat, coord.Lon)
	}

	radius := s.maxDistance
	if radius < 0 {
		radius = 0
	}

	best := datastructure.INVALID_VERTEX_ID
	bestDist := 0.0
	for _, v := range s.index.SearchWithinRadius(coord.Lat, coord.Lon, radius) {
		d := geo.HaversineMeters(coord, s.graph.GetVertex(v).GetCoordinate())
		if d > radius {
			continue
		}
		if best == datastructure.INVALID_VERTEX_ID || d < bestDist || (d == bestDist && v < best) {
			best = v
			bestDist = d
		}
	}

	if best == datastructure.INVALID_VERTEX_ID {
		return best, 0, util.WrapErrorf(nil, datastructure.ErrSnapFailed,
			"no graph vertex within %.1f m of (%v, %v)", radius, coord.Lat, coord.Lon)
	}
	return best, bestDist, nil
}
