package dissolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lintang-b-s/navigatorx-lastmile/pkg"
	da "github.com/lintang-b-s/navigatorx-lastmile/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-lastmile/pkg/geo"
)

func solved(seq int, subs ...da.SubSegment) da.RouteResult {
	length := 0.0
	for _, s := range subs {
		length += s.Length
	}
	return da.RouteResult{Seq: seq, Status: da.StatusSolved, Length: length, SubSegments: subs}
}

func sub(tag pkg.SegmentTag, spans ...da.Span) da.SubSegment {
	length := 0.0
	for _, s := range spans {
		length += s.Length()
	}
	return da.SubSegment{Tag: tag, Length: length, Spans: spans}
}

func TestAggregateEmpty(t *testing.T) {
	summary, err := Aggregate(nil)
	require.NoError(t, err)

	assert.Zero(t, summary.TotalRequests)
	assert.Zero(t, summary.ProcessedRequests)
	assert.Zero(t, summary.FailedRequests)
	assert.Zero(t, summary.TotalDistance)
	assert.Zero(t, summary.OverlapPercentage)
	assert.Zero(t, summary.NewBuildPercentage)
	assert.Empty(t, summary.Groups)
	for _, s := range da.Statuses {
		assert.Zero(t, summary.StatusCounts[s])
	}
}

func TestAggregateAllFailed(t *testing.T) {
	results := []da.RouteResult{
		da.NewFailedRouteResult(da.EndpointRequest{Seq: 1}, da.ErrSnapFailed),
		da.NewFailedRouteResult(da.EndpointRequest{Seq: 2}, da.ErrUnreachable),
	}
	summary, err := Aggregate(results)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.TotalRequests)
	assert.Equal(t, 2, summary.FailedRequests)
	assert.Equal(t, 1, summary.StatusCounts[da.StatusSnapFailed])
	assert.Equal(t, 1, summary.StatusCounts[da.StatusUnreachable])
	assert.Zero(t, summary.TotalDistance)
	assert.Zero(t, summary.OverlapPercentage)
	assert.Empty(t, summary.Groups)
}

func TestAggregateDedupesSharedCorridor(t *testing.T) {
	results := []da.RouteResult{
		solved(1, sub(pkg.OVERLAP, full(pA, pB)), sub(pkg.NEW_BUILD, full(pB, pC))),
		solved(2, sub(pkg.NEW_BUILD, full(pC, pB)), sub(pkg.OVERLAP, full(pB, pA))),
		da.NewFailedRouteResult(da.EndpointRequest{Seq: 3}, da.ErrSnapFailed),
	}

	summary, err := Aggregate(results)
	require.NoError(t, err)

	ab := geo.PointDistance(pA, pB)
	bc := geo.PointDistance(pB, pC)
	assert.Equal(t, 3, summary.TotalRequests)
	assert.Equal(t, 2, summary.ProcessedRequests)
	assert.Equal(t, 1, summary.FailedRequests)
	assert.Equal(t, 4, summary.SegmentsBeforeDissolve)
	assert.Equal(t, 2, summary.GroupsAfterDissolve)
	assert.InDelta(t, ab, summary.OverlapDistance, 1e-6)
	assert.InDelta(t, bc, summary.NewBuildDistance, 1e-6)
	assert.InDelta(t, ab+bc, summary.TotalDistance, 1e-6)
	assert.InDelta(t, 100, summary.OverlapPercentage+summary.NewBuildPercentage, 0.01)
}

func TestPercentages(t *testing.T) {
	testCases := []struct {
		name                 string
		overlap, newBuild    float64
		wantOverlap, wantNew float64
	}{
		{name: "zero", overlap: 0, newBuild: 0, wantOverlap: 0, wantNew: 0},
		{name: "all overlap", overlap: 10, newBuild: 0, wantOverlap: 100, wantNew: 0},
		{name: "thirds", overlap: 1, newBuild: 2, wantOverlap: 33.33, wantNew: 66.67},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			o, n := Percentages(tt.overlap, tt.newBuild)
			assert.Equal(t, tt.wantOverlap, o)
			assert.Equal(t, tt.wantNew, n)
		})
	}
}
