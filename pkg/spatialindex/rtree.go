package spatialindex

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/tidwall/rtree"
	"go.uber.org/zap"

	"github.com/lintang-b-s/navigatorx-lastmile/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-lastmile/pkg/geo"
)

// Rtree. point index over the routable vertices of a graph
type Rtree struct {
	tr *rtree.RTreeG[datastructure.Index]
}

func NewRtree() *Rtree {
	var tr rtree.RTreeG[datastructure.Index]
	return &Rtree{
		tr: &tr,
	}
}

// Build. index every vertex with at least one incident arc. isolated vertices can't start or end a route.
func (rt *Rtree) Build(graph *datastructure.Graph, log *zap.Logger) {
	log.Info("Building R-tree spatial index...", zap.Int("vertices", graph.NumberOfVertices()))
	n := graph.NumberOfVertices()
	indexed := 0
	graph.ForVertices(func(v *datastructure.Vertex) {
		if graph.GetDegree(v.GetID()) == 0 {
			return
		}
		p := [2]float64{v.GetLon(), v.GetLat()}
		rt.tr.Insert(p, p, v.GetID())
		indexed++
		if n >= 10 && indexed%(n/10) == 0 {
			log.Debug("Building R-tree spatial index...", zap.Int("indexed", indexed))
		}
	})

	log.Info("R-tree spatial index built.", zap.Int("indexed", indexed))
}

func (rt *Rtree) Len() int {
	return rt.tr.Len()
}

// SearchWithinRadius. candidate vertices whose coordinate lies in the bounding box of the circle of radius (in meter)
// around (qLat, qLon). callers filter by the exact distance.
func (rt *Rtree) SearchWithinRadius(qLat, qLon, radius float64) []datastructure.Index {
	lower, upper := geo.BoundingBox(qLat, qLon, radius)

	results := make([]datastructure.Index, 0, 10)
	rt.tr.Search(lower, upper,
		func(min, max [2]float64, data datastructure.Index) bool {
			results = append(results, data)
			return true
		})
	return results
}

// InfrastructureSegment. one consecutive coordinate pair of an infrastructure feature
type InfrastructureSegment struct {
	Feature int
	A, B    orb.Point
}

// InfrastructureIndex. infrastructure segments indexed by their bounding box grown by the buffer tolerance,
// so every segment whose buffer can touch a query box is returned.
type InfrastructureIndex struct {
	tr       *rtree.RTreeG[int]
	segments []InfrastructureSegment
	buffer   float64
	log      *zap.Logger
}

func NewInfrastructureIndex(layer *datastructure.InfrastructureLayer, buffer float64, log *zap.Logger) *InfrastructureIndex {
	var tr rtree.RTreeG[int]
	idx := &InfrastructureIndex{
		tr:       &tr,
		segments: make([]InfrastructureSegment, 0),
		buffer:   buffer,
		log:      log,
	}
	idx.build(layer)
	return idx
}

func (idx *InfrastructureIndex) build(layer *datastructure.InfrastructureLayer) {
	idx.log.Info("Building infrastructure spatial index...", zap.Int("features", layer.Len()),
		zap.Float64("buffer_m", idx.buffer))

	skipped := 0
	layer.ForSegments(func(featureIdx int, a, b orb.Point) {
		if !geo.ValidPoint(a) || !geo.ValidPoint(b) {
			skipped++
			return
		}
		min, max := segmentBox(a, b, idx.buffer)
		idx.tr.Insert(min, max, len(idx.segments))
		idx.segments = append(idx.segments, InfrastructureSegment{Feature: featureIdx, A: a, B: b})
	})

	if skipped > 0 {
		idx.log.Warn("skipped infrastructure segments with non finite coordinates", zap.Int("skipped", skipped))
	}
	idx.log.Info("Infrastructure spatial index built.", zap.Int("segments", len(idx.segments)))
}

func segmentBox(a, b orb.Point, radius float64) ([2]float64, [2]float64) {
	minA, maxA := geo.BoundingBox(a.Lat(), a.Lon(), radius)
	minB, maxB := geo.BoundingBox(b.Lat(), b.Lon(), radius)
	return [2]float64{math.Min(minA[0], minB[0]), math.Min(minA[1], minB[1])},
		[2]float64{math.Max(maxA[0], maxB[0]), math.Max(maxA[1], maxB[1])}
}

func (idx *InfrastructureIndex) Buffer() float64 {
	return idx.buffer
}

func (idx *InfrastructureIndex) Len() int {
	return len(idx.segments)
}

// SearchSegment. infrastructure segments whose buffered box intersects the bounding box of route segment ab
func (idx *InfrastructureIndex) SearchSegment(a, b orb.Point) []InfrastructureSegment {
	min := [2]float64{math.Min(a[0], b[0]), math.Min(a[1], b[1])}
	max := [2]float64{math.Max(a[0], b[0]), math.Max(a[1], b[1])}

	results := make([]InfrastructureSegment, 0)
	idx.tr.Search(min, max, func(_, _ [2]float64, i int) bool {
		results = append(results, idx.segments[i])
		return true
	})
	return results
}

// Distance. spherical distance (meter) from p to the nearest infrastructure segment within the buffer,
// +Inf when no segment is that close.
func (idx *InfrastructureIndex) Distance(p orb.Point) float64 {
	best := math.Inf(1)
	q := geo.FromPoint(p)
	for _, s := range idx.SearchSegment(p, p) {
		d := geo.PointLinePerpendicularDistance(geo.FromPoint(s.A), geo.FromPoint(s.B), q)
		best = math.Min(best, d)
	}
	return best
}

// Covers. whether p lies inside the buffered union of the layer
func (idx *InfrastructureIndex) Covers(p orb.Point) bool {
	return idx.Distance(p) <= idx.buffer
}
