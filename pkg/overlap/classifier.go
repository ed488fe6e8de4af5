package overlap

import (
	"sort"

	"github.com/paulmach/orb"
	"go.uber.org/zap"

	"github.com/lintang-b-s/navigatorx-lastmile/pkg"
	da "github.com/lintang-b-s/navigatorx-lastmile/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-lastmile/pkg/geo"
	"github.com/lintang-b-s/navigatorx-lastmile/pkg/spatialindex"
	"github.com/lintang-b-s/navigatorx-lastmile/pkg/util"
)

type infrastructureIndex interface {
	SearchSegment(a, b orb.Point) []spatialindex.InfrastructureSegment
	Covers(p orb.Point) bool
	Buffer() float64
}

// Classifier. splits route geometries into overlap / new build sub-segments against the buffered
// infrastructure union. safe for concurrent use.
type Classifier struct {
	index            infrastructureIndex
	minSegmentLength float64 // meter
	log              *zap.Logger
}

func NewClassifier(index infrastructureIndex, minSegmentLength float64, log *zap.Logger) *Classifier {
	return &Classifier{
		index:            index,
		minSegmentLength: minSegmentLength,
		log:              log,
	}
}

// piece. part of one route segment with a single tag
type piece struct {
	tag    pkg.SegmentTag
	from   orb.Point
	to     orb.Point
	length float64
	span   da.Span
}

// Classify. ordered sub-segments that exactly tile route. a route without length has no sub-segments.
func (c *Classifier) Classify(route orb.LineString) ([]da.SubSegment, error) {
	for i, p := range route {
		if !geo.ValidPoint(p) {
			return nil, util.WrapErrorf(nil, da.ErrClassification, "route point %d (%v, %v) is not finite", i, p[0], p[1])
		}
	}

	pieces := make([]piece, 0, len(route))
	for i := 1; i < len(route); i++ {
		pieces = append(pieces, c.splitSegment(route[i-1], route[i])...)
	}
	if len(pieces) == 0 {
		return []da.SubSegment{}, nil
	}

	runs := groupRuns(pieces)
	runs = c.absorbShortRuns(runs)
	return buildSubSegments(runs), nil
}

// splitSegment. cuts route segment a->b at every boundary of the buffered union.
// the cut parameters are computed on the canonical support so both traversal directions of a corridor cut alike.
func (c *Classifier) splitSegment(a, b orb.Point) []piece {
	segLength := geo.PointDistance(a, b)
	if segLength == 0 {
		return nil
	}

	support, reversed := da.CanonicalSupport(a, b)
	cuts := c.cutParameters(support[0], support[1])

	pieces := make([]piece, 0, len(cuts)-1)
	for k := 1; k < len(cuts); k++ {
		t0, t1 := cuts[k-1], cuts[k]
		mid := geo.Interpolate(support[0], support[1], (t0+t1)/2)
		tag := pkg.NEW_BUILD
		if c.index.Covers(mid) {
			tag = pkg.OVERLAP
		}
		pieces = append(pieces, piece{
			tag:    tag,
			length: (t1 - t0) * segLength,
			span:   da.Span{Support: support, T0: t0, T1: t1},
		})
	}

	if reversed {
		util.ReverseInPlace(pieces)
		for k := range pieces {
			pieces[k].from = geo.Interpolate(a, b, 1-pieces[k].span.T1)
			pieces[k].to = geo.Interpolate(a, b, 1-pieces[k].span.T0)
		}
	} else {
		for k := range pieces {
			pieces[k].from = geo.Interpolate(a, b, pieces[k].span.T0)
			pieces[k].to = geo.Interpolate(a, b, pieces[k].span.T1)
		}
	}
	return pieces
}

type interval struct {
	t0, t1 float64
}

// cutParameters. sorted parameters in [0, 1] of segment ab where it enters or leaves the buffered union, 0 and 1 included.
func (c *Classifier) cutParameters(a, b orb.Point) []float64 {
	frame := geo.NewLocalFrame(a)
	ax, ay := frame.ToXY(a)
	bx, by := frame.ToXY(b)
	pa, pb := da.NewPoint(ax, ay), da.NewPoint(bx, by)

	intervals := make([]interval, 0)
	for _, s := range c.index.SearchSegment(a, b) {
		px, py := frame.ToXY(s.A)
		qx, qy := frame.ToXY(s.B)
		t0, t1, ok := da.LineCapsuleInterval(pa, pb, da.NewPoint(px, py), da.NewPoint(qx, qy), c.index.Buffer())
		if ok {
			intervals = append(intervals, interval{t0, t1})
		}
	}

	sort.Slice(intervals, func(i, j int) bool {
		if intervals[i].t0 != intervals[j].t0 {
			return intervals[i].t0 < intervals[j].t0
		}
		return intervals[i].t1 < intervals[j].t1
	})

	cuts := []float64{0}
	addCut := func(t float64) {
		if t-cuts[len(cuts)-1] > pkg.PARAM_EPS && 1-t > pkg.PARAM_EPS {
			cuts = append(cuts, t)
		}
	}

	for i := 0; i < len(intervals); {
		cur := intervals[i]
		j := i + 1
		for ; j < len(intervals) && intervals[j].t0 <= cur.t1+pkg.PARAM_EPS; j++ {
			cur.t1 = util.MaxG(cur.t1, intervals[j].t1)
		}
		addCut(cur.t0)
		addCut(cur.t1)
		i = j
	}
	return append(cuts, 1)
}

// run. maximal sequence of consecutive pieces with the same tag
type run struct {
	tag    pkg.SegmentTag
	length float64
	pieces []piece
}

func groupRuns(pieces []piece) []run {
	runs := make([]run, 0)
	for _, p := range pieces {
		if n := len(runs); n > 0 && runs[n-1].tag == p.tag {
			runs[n-1].length += p.length
			runs[n-1].pieces = append(runs[n-1].pieces, p)
			continue
		}
		runs = append(runs, run{tag: p.tag, length: p.length, pieces: []piece{p}})
	}
	return runs
}

// absorbShortRuns. runs shorter than minSegmentLength take the tag of their longer neighbour (the only one at the ends),
// shortest first, until no short run is left or a single run remains.
func (c *Classifier) absorbShortRuns(runs []run) []run {
	for len(runs) > 1 {
		shortest := -1
		for i := range runs {
			if runs[i].length < c.minSegmentLength && (shortest == -1 || runs[i].length < runs[shortest].length) {
				shortest = i
			}
		}
		if shortest == -1 {
			break
		}

		var tag pkg.SegmentTag
		switch {
		case shortest == 0:
			tag = runs[1].tag
		case shortest == len(runs)-1:
			tag = runs[shortest-1].tag
		case runs[shortest+1].length > runs[shortest-1].length:
			tag = runs[shortest+1].tag
		default:
			tag = runs[shortest-1].tag
		}

		c.log.Debug("absorbing short sub-segment", zap.Float64("length", runs[shortest].length),
			zap.String("from", runs[shortest].tag.String()), zap.String("to", tag.String()))

		runs[shortest].tag = tag
		for k := range runs[shortest].pieces {
			runs[shortest].pieces[k].tag = tag
		}
		runs = coalesce(runs)
	}
	return runs
}

func coalesce(runs []run) []run {
	out := runs[:1]
	for _, r := range runs[1:] {
		last := &out[len(out)-1]
		if last.tag == r.tag {
			last.length += r.length
			last.pieces = append(last.pieces, r.pieces...)
			continue
		}
		out = append(out, r)
	}
	return out
}

func buildSubSegments(runs []run) []da.SubSegment {
	subs := make([]da.SubSegment, 0, len(runs))
	pos := 0.0
	for _, r := range runs {
		geometry := orb.LineString{r.pieces[0].from}
		spans := make([]da.Span, 0, len(r.pieces))
		for _, p := range r.pieces {
			if geometry[len(geometry)-1] != p.to {
				geometry = append(geometry, p.to)
			}
			spans = append(spans, p.span)
		}
		if len(geometry) == 1 {
			geometry = append(geometry, geometry[0])
		}

		subs = append(subs, da.SubSegment{
			Tag:      r.tag,
			Geometry: geometry,
			Length:   r.length,
			Start:    pos,
			End:      pos + r.length,
			Spans:    spans,
		})
		pos += r.length
	}
	return subs
}
