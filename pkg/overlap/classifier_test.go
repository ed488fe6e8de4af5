package overlap

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lintang-b-s/navigatorx-lastmile/pkg"
	da "github.com/lintang-b-s/navigatorx-lastmile/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-lastmile/pkg/geo"
	"github.com/lintang-b-s/navigatorx-lastmile/pkg/spatialindex"
	"github.com/lintang-b-s/navigatorx-lastmile/pkg/util"
)

func newTestClassifier(t *testing.T, minSegmentLength float64, cables ...orb.LineString) *Classifier {
	t.Helper()
	features := make([]da.InfrastructureFeature, len(cables))
	for i, c := range cables {
		features[i] = da.InfrastructureFeature{Name: "cable", Geometry: orb.MultiLineString{c}}
	}
	index := spatialindex.NewInfrastructureIndex(da.NewInfrastructureLayer(features), 30, zap.NewNop())
	return NewClassifier(index, minSegmentLength, zap.NewNop())
}

// along the equator, lon 0 .. 0.005 (~556 m)
var equatorCable = orb.LineString{{0, 0}, {0.0025, 0}, {0.005, 0}}

func assertTiles(t *testing.T, route orb.LineString, subs []da.SubSegment) {
	t.Helper()
	total := geo.LineStringLength(route)
	sum := 0.0
	for i, s := range subs {
		sum += s.Length
		assert.InDelta(t, s.End-s.Start, s.Length, 1e-9)
		assert.InDelta(t, s.Length, geo.LineStringLength(s.Geometry), 1e-3)
		if i == 0 {
			assert.Zero(t, s.Start)
			assert.Equal(t, route[0], s.Geometry[0])
			continue
		}
		prev := subs[i-1]
		assert.InDelta(t, prev.End, s.Start, 1e-9)
		assert.Equal(t, prev.Geometry[len(prev.Geometry)-1], s.Geometry[0])
		assert.NotEqual(t, prev.Tag, s.Tag)
	}
	if len(subs) > 0 {
		last := subs[len(subs)-1]
		assert.Equal(t, route[len(route)-1], last.Geometry[len(last.Geometry)-1])
	}
	assert.InDelta(t, total, sum, 1e-6)
}

func TestClassifyPartialOverlap(t *testing.T) {
	c := newTestClassifier(t, 1, equatorCable)

	// ~10 m north of the cable, starting and ending ~333 m beyond its ends
	lat := 0.00009
	route := orb.LineString{{-0.003, lat}, {0.001, lat}, {0.004, lat}, {0.008, lat}}

	subs, err := c.Classify(route)
	require.NoError(t, err)
	require.Len(t, subs, 3)

	assert.Equal(t, pkg.NEW_BUILD, subs[0].Tag)
	assert.Equal(t, pkg.OVERLAP, subs[1].Tag)
	assert.Equal(t, pkg.NEW_BUILD, subs[2].Tag)

	// round caps: the route enters the buffer sqrt(30^2 - 10^2) before the cable end
	capReach := math.Sqrt(30*30 - 10.007*10.007)
	cableLength := geo.LineStringLength(equatorCable)
	assert.InDelta(t, cableLength+2*capReach, subs[1].Length, 0.5)
	assertTiles(t, route, subs)
}

func TestClassifyFullyInsideAndOutside(t *testing.T) {
	c := newTestClassifier(t, 1, equatorCable)

	inside := orb.LineString{{0.001, 0.0001}, {0.004, -0.0001}}
	subs, err := c.Classify(inside)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, pkg.OVERLAP, subs[0].Tag)
	assertTiles(t, inside, subs)

	outside := orb.LineString{{0.001, 0.001}, {0.004, 0.001}}
	subs, err = c.Classify(outside)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, pkg.NEW_BUILD, subs[0].Tag)
	assertTiles(t, outside, subs)
}

func TestClassifyAlternating(t *testing.T) {
	// two north-south cables crossed by an east-west route
	c := newTestClassifier(t, 1,
		orb.LineString{{0.002, -0.01}, {0.002, 0.01}},
		orb.LineString{{0.006, -0.01}, {0.006, 0.01}},
	)
	route := orb.LineString{{0, 0}, {0.004, 0}, {0.008, 0}}

	subs, err := c.Classify(route)
	require.NoError(t, err)
	require.Len(t, subs, 5)
	want := []pkg.SegmentTag{pkg.NEW_BUILD, pkg.OVERLAP, pkg.NEW_BUILD, pkg.OVERLAP, pkg.NEW_BUILD}
	for i, s := range subs {
		assert.Equal(t, want[i], s.Tag)
	}
	assert.InDelta(t, 60, subs[1].Length, 0.1)
	assert.InDelta(t, 60, subs[3].Length, 0.1)
	assertTiles(t, route, subs)
}

func TestClassifyAbsorbsShortRuns(t *testing.T) {
	c := newTestClassifier(t, 100, orb.LineString{{0.002, -0.01}, {0.002, 0.01}})
	route := orb.LineString{{0, 0}, {0.004, 0}}

	subs, err := c.Classify(route)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, pkg.NEW_BUILD, subs[0].Tag)
	assertTiles(t, route, subs)

	// a short run at the end of the route takes the tag of its only neighbour
	c = newTestClassifier(t, 50, equatorCable)
	route = orb.LineString{{0.004, 0}, {0.0056, 0}}
	subs, err = c.Classify(route)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, pkg.OVERLAP, subs[0].Tag)
}

func TestClassifyZeroLength(t *testing.T) {
	c := newTestClassifier(t, 1, equatorCable)

	subs, err := c.Classify(orb.LineString{})
	require.NoError(t, err)
	assert.Empty(t, subs)

	subs, err = c.Classify(orb.LineString{{0.001, 0}, {0.001, 0}})
	require.NoError(t, err)
	assert.Empty(t, subs)
}

func TestClassifyNonFinite(t *testing.T) {
	c := newTestClassifier(t, 1, equatorCable)

	_, err := c.Classify(orb.LineString{{0, 0}, {math.NaN(), 0}})
	assert.ErrorIs(t, err, da.ErrClassification)
}

func TestClassifyDirectionIndependentSpans(t *testing.T) {
	c := newTestClassifier(t, 1, equatorCable)
	lat := 0.00009
	route := orb.LineString{{-0.003, lat}, {0.001, lat}, {0.004, lat}, {0.008, lat}}

	reversed := make(orb.LineString, len(route))
	copy(reversed, route)
	util.ReverseInPlace(reversed)

	forward, err := c.Classify(route)
	require.NoError(t, err)
	backward, err := c.Classify(reversed)
	require.NoError(t, err)

	spans := func(subs []da.SubSegment) []da.Span {
		out := make([]da.Span, 0)
		for _, s := range subs {
			out = append(out, s.Spans...)
		}
		return out
	}

	f := spans(forward)
	b := spans(backward)
	util.ReverseInPlace(b)
	assert.Equal(t, f, b)
}

func TestClassifyBest(t *testing.T) {
	c := newTestClassifier(t, 1, equatorCable)

	candidates := []orb.LineString{
		{{0.001, 0.001}, {0.004, 0.001}},
		{{0.001, 0}, {0.004, 0}},
		{{0.001, 0}, {0.004, 0}},
	}
	best, subs, err := c.ClassifyBest(candidates)
	require.NoError(t, err)
	assert.Equal(t, 1, best)
	require.Len(t, subs, 1)
	assert.Equal(t, pkg.OVERLAP, subs[0].Tag)

	_, _, err = c.ClassifyBest(nil)
	assert.ErrorIs(t, err, da.ErrInternal)
}
