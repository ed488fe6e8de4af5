package datastructure

import (
	"github.com/paulmach/orb"

	"github.com/lintang-b-s/navigatorx-lastmile/pkg"
)

// DissolvedGroup. maximal connected set of same-tag linework across the batch.
type DissolvedGroup struct {
	Tag          pkg.SegmentTag      `json:"type"`
	Label        string              `json:"label"`
	Geometry     orb.MultiLineString `json:"-"`
	Length       float64             `json:"total_distance_m"`
	SegmentCount int                 `json:"segment_count"`
	Requests     []int               `json:"requests"`
	Spans        []Span              `json:"-"`
}

type BatchSummary struct {
	TotalRequests     int            `json:"total_requests"`
	ProcessedRequests int            `json:"processed_requests"`
	FailedRequests    int            `json:"failed_requests"`
	StatusCounts      map[Status]int `json:"status_counts"`

	TotalDistance    float64 `json:"total_distance_m"`
	OverlapDistance  float64 `json:"overlapped_distance_m"`
	NewBuildDistance float64 `json:"new_build_distance_m"`

	OverlapPercentage  float64 `json:"overlapped_percentage"`
	NewBuildPercentage float64 `json:"new_build_percentage"`

	SegmentsBeforeDissolve int `json:"total_segments_before_dissolve"`
	GroupsAfterDissolve    int `json:"total_groups_after_dissolve"`

	Groups []DissolvedGroup `json:"dissolved_groups"`
}

func NewEmptySummary() BatchSummary {
	counts := make(map[Status]int, len(Statuses))
	for _, s := range Statuses {
		counts[s] = 0
	}
	return BatchSummary{
		StatusCounts: counts,
		Groups:       []DissolvedGroup{},
	}
}
