package overlap

import (
	"github.com/paulmach/orb"

	"github.com/lintang-b-s/navigatorx-lastmile/pkg"
	da "github.com/lintang-b-s/navigatorx-lastmile/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-lastmile/pkg/util"
)

// ClassifyBest. classifies every candidate route and picks the one reusing the most infrastructure,
// ties by the smaller new build length, then by candidate order. candidates that fail to classify are skipped,
// when all of them fail the first error is returned.
func (c *Classifier) ClassifyBest(routes []orb.LineString) (int, []da.SubSegment, error) {
	if len(routes) == 0 {
		return -1, nil, util.WrapErrorf(nil, da.ErrInternal, "no candidate routes to classify")
	}

	best := -1
	var (
		bestSubs                  []da.SubSegment
		bestOverlap, bestNewBuild float64
		firstErr                  error
	)

	for i, route := range routes {
		subs, err := c.Classify(route)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		overlap, newBuild := tagLengths(subs)
		if best == -1 || overlap > bestOverlap || (overlap == bestOverlap && newBuild < bestNewBuild) {
			best = i
			bestSubs = subs
			bestOverlap = overlap
			bestNewBuild = newBuild
		}
	}

	if best == -1 {
		return -1, nil, firstErr
	}
	return best, bestSubs, nil
}

func tagLengths(subs []da.SubSegment) (float64, float64) {
	overlap, newBuild := 0.0, 0.0
	for _, s := range subs {
		if s.Tag == pkg.OVERLAP {
			overlap += s.Length
		} else {
			newBuild += s.Length
		}
	}
	return overlap, newBuild
}
