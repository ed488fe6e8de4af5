package dissolve

import (
	"github.com/lintang-b-s/navigatorx-lastmile/pkg"
	da "github.com/lintang-b-s/navigatorx-lastmile/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-lastmile/pkg/util"
)

// Aggregate. dissolves the sub-segments of every solved result and derives the batch summary.
// an empty or all failed batch gives a zero summary without groups.
func Aggregate(results []da.RouteResult) (da.BatchSummary, error) {
	summary := da.NewEmptySummary()
	summary.TotalRequests = len(results)
	for i := range results {
		summary.StatusCounts[results[i].Status]++
		if results[i].IsSolved() {
			summary.ProcessedRequests++
		}
	}
	summary.FailedRequests = summary.TotalRequests - summary.ProcessedRequests

	pieces := FromResults(results)
	summary.SegmentsBeforeDissolve = len(pieces)

	groups, err := Dissolve(pieces)
	if err != nil {
		return da.BatchSummary{}, err
	}
	summary.Groups = groups
	summary.GroupsAfterDissolve = len(groups)

	for _, g := range groups {
		switch g.Tag {
		case pkg.OVERLAP:
			summary.OverlapDistance += g.Length
		case pkg.NEW_BUILD:
			summary.NewBuildDistance += g.Length
		}
	}
	summary.TotalDistance = summary.OverlapDistance + summary.NewBuildDistance

	summary.OverlapPercentage, summary.NewBuildPercentage = Percentages(summary.OverlapDistance, summary.NewBuildDistance)
	return summary, nil
}

// Percentages. share of each tag in the total dissolved length, 0 for both when there is no length
func Percentages(overlap, newBuild float64) (float64, float64) {
	total := overlap + newBuild
	if total <= 0 {
		return 0, 0
	}
	return util.RoundFloat(100*overlap/total, pkg.PERCENTAGE_PRECISION),
		util.RoundFloat(100*newBuild/total, pkg.PERCENTAGE_PRECISION)
}
