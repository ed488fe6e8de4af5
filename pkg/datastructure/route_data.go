package datastructure

import (
	"github.com/paulmach/orb"

	"github.com/lintang-b-s/navigatorx-lastmile/pkg"
	"github.com/lintang-b-s/navigatorx-lastmile/pkg/geo"
)

// EndpointRequest. one Far-End/Near-End pair, identified by Seq within its batch.
type EndpointRequest struct {
	Seq         int            `json:"seq"`
	FarEndName  string         `json:"fe_name"`
	FarEnd      geo.Coordinate `json:"fe"`
	NearEndName string         `json:"ne_name"`
	NearEnd     geo.Coordinate `json:"ne"`
}

func NewEndpointRequest(seq int, feName string, fe geo.Coordinate, neName string, ne geo.Coordinate) EndpointRequest {
	return EndpointRequest{
		Seq:         seq,
		FarEndName:  feName,
		FarEnd:      fe,
		NearEndName: neName,
		NearEnd:     ne,
	}
}

// Span. part [T0, T1] of a support segment. the support is one consecutive coordinate pair of an edge geometry,
// stored with quantised endpoints in lexicographic order so that every traversal of the same corridor
// (either direction, any request) maps to the same key and parameterisation.
type Span struct {
	Support [2]orb.Point `json:"support"`
	T0      float64      `json:"t0"`
	T1      float64      `json:"t1"`
}

// CanonicalSupport. quantised endpoints of segment ab in lexicographic order, reversed is true when b comes first.
func CanonicalSupport(a, b orb.Point) ([2]orb.Point, bool) {
	a = geo.QuantizePoint(a, pkg.COORD_PRECISION)
	b = geo.QuantizePoint(b, pkg.COORD_PRECISION)
	if geo.PointLess(b, a) {
		return [2]orb.Point{b, a}, true
	}
	return [2]orb.Point{a, b}, false
}

// NewSpan. span of segment a->b between parameters t0 <= t1 measured from a.
func NewSpan(a, b orb.Point, t0, t1 float64) Span {
	support, reversed := CanonicalSupport(a, b)
	if reversed {
		t0, t1 = 1-t1, 1-t0
	}
	return Span{Support: support, T0: t0, T1: t1}
}

func (s Span) SupportLength() float64 {
	return geo.PointDistance(s.Support[0], s.Support[1])
}

func (s Span) Length() float64 {
	return (s.T1 - s.T0) * s.SupportLength()
}

func (s Span) Start() orb.Point {
	return geo.Interpolate(s.Support[0], s.Support[1], s.T0)
}

func (s Span) End() orb.Point {
	return geo.Interpolate(s.Support[0], s.Support[1], s.T1)
}

func (s Span) Geometry() orb.LineString {
	return orb.LineString{s.Start(), s.End()}
}

// SubSegment. classified piece of a solved route. Start/End are distances along the route in meter.
type SubSegment struct {
	Tag      pkg.SegmentTag `json:"tag"`
	Geometry orb.LineString `json:"-"`
	Length   float64        `json:"length_m"`
	Start    float64        `json:"start_m"`
	End      float64        `json:"end_m"`
	Spans    []Span         `json:"-"`
}

// RouteResult. outcome of one EndpointRequest. immutable after the orchestrator creates it.
type RouteResult struct {
	Seq         int    `json:"seq"`
	FarEndName  string `json:"fe_name"`
	NearEndName string `json:"ne_name"`

	Status  Status `json:"status"`
	Err     error  `json:"-"`
	Message string `json:"message,omitempty"`

	FarEndVertex        Index   `json:"fe_vertex"`
	NearEndVertex       Index   `json:"ne_vertex"`
	FarEndSnapDistance  float64 `json:"fe_snap_distance_m"`
	NearEndSnapDistance float64 `json:"ne_snap_distance_m"`

	Geometry        orb.LineString `json:"-"`
	EncodedPolyline string         `json:"polyline,omitempty"`
	Length          float64        `json:"length_m"`
	Cost            float64        `json:"cost"`
	VertexPath      []Index        `json:"-"`
	EdgePath        []Index        `json:"-"`

	SubSegments    []SubSegment `json:"sub_segments,omitempty"`
	OverlapLength  float64      `json:"overlap_length_m"`
	NewBuildLength float64      `json:"new_build_length_m"`

	AlternativesConsidered int `json:"alternatives_considered"`
}

func NewFailedRouteResult(req EndpointRequest, err error) RouteResult {
	return RouteResult{
		Seq:           req.Seq,
		FarEndName:    req.FarEndName,
		NearEndName:   req.NearEndName,
		Status:        StatusFromError(err),
		Err:           err,
		Message:       err.Error(),
		FarEndVertex:  INVALID_VERTEX_ID,
		NearEndVertex: INVALID_VERTEX_ID,
	}
}

func (r *RouteResult) IsSolved() bool {
	return r.Status == StatusSolved
}

// TagLength. sum of sub-segment lengths with the given tag
func (r *RouteResult) TagLength(tag pkg.SegmentTag) float64 {
	total := 0.0
	for _, s := range r.SubSegments {
		if s.Tag == tag {
			total += s.Length
		}
	}
	return total
}
