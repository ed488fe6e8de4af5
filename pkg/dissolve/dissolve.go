package dissolve

import (
	"sort"

	"github.com/paulmach/orb"
	"golang.org/x/sync/errgroup"

	"github.com/lintang-b-s/navigatorx-lastmile/pkg"
	da "github.com/lintang-b-s/navigatorx-lastmile/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-lastmile/pkg/geo"
)

// TaggedSpans. one classified piece of linework, a route sub-segment or an already dissolved group.
type TaggedSpans struct {
	Tag      pkg.SegmentTag
	Requests []int
	Spans    []da.Span
}

// FromResults. one TaggedSpans per sub-segment of every solved result
func FromResults(results []da.RouteResult) []TaggedSpans {
	pieces := make([]TaggedSpans, 0)
	for i := range results {
		r := &results[i]
		if !r.IsSolved() {
			continue
		}
		for _, s := range r.SubSegments {
			pieces = append(pieces, TaggedSpans{Tag: s.Tag, Requests: []int{r.Seq}, Spans: s.Spans})
		}
	}
	return pieces
}

// FromGroups. dissolved groups as input pieces, Dissolve(FromGroups(Dissolve(S))) == Dissolve(S)
func FromGroups(groups []da.DissolvedGroup) []TaggedSpans {
	pieces := make([]TaggedSpans, len(groups))
	for i, g := range groups {
		pieces[i] = TaggedSpans{Tag: g.Tag, Requests: g.Requests, Spans: g.Spans}
	}
	return pieces
}

// atomRun. maximal part [t0, t1] of a support segment with a single winning tag
type atomRun struct {
	support  [2]orb.Point
	t0, t1   float64
	tag      pkg.SegmentTag
	pieces   map[int]struct{} // input pieces of the winning tag covering the run
	requests map[int]struct{}
}

func (r *atomRun) span() da.Span {
	return da.Span{Support: r.support, T0: r.t0, T1: r.t1}
}

func (r *atomRun) endpoints() (orb.Point, orb.Point) {
	return endpointKey(r.support, r.t0), endpointKey(r.support, r.t1)
}

// endpointKey. quantised coordinate of parameter t on support, the same point from every support it lies on when t is 0 or 1
func endpointKey(support [2]orb.Point, t float64) orb.Point {
	if t <= 0 {
		return support[0]
	}
	if t >= 1 {
		return support[1]
	}
	return geo.QuantizePoint(geo.Interpolate(support[0], support[1], t), pkg.COORD_PRECISION)
}

// Dissolve. merges tagged linework into maximal connected non overlapping groups per tag.
// every elementary part of a corridor gets exactly one tag: the tag of the majority of pieces covering it, ties go to overlap.
// the result doesn't depend on the order of pieces.
func Dissolve(pieces []TaggedSpans) ([]da.DissolvedGroup, error) {
	runs := buildAtomRuns(pieces)

	perTag := make([][]da.DissolvedGroup, len(pkg.SegmentTags))
	var g errgroup.Group
	for i, tag := range pkg.SegmentTags {
		i, tag := i, tag
		tagRuns := make([]*atomRun, 0)
		for _, r := range runs {
			if r.tag == tag {
				tagRuns = append(tagRuns, r)
			}
		}
		g.Go(func() error {
			groups, err := groupRuns(tag, tagRuns)
			if err != nil {
				return err
			}
			perTag[i] = groups
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	groups := make([]da.DissolvedGroup, 0)
	for _, gs := range perTag {
		groups = append(groups, gs...)
	}
	return groups, nil
}

type supportSpan struct {
	piece int
	t0    float64
	t1    float64
}

// buildAtomRuns. cuts every support at all span breakpoints and votes a tag for each atom.
// runs come out sorted by support then t0.
func buildAtomRuns(pieces []TaggedSpans) []*atomRun {
	bySupport := make(map[[2]orb.Point][]supportSpan)
	for pi, p := range pieces {
		for _, s := range p.Spans {
			if s.T1-s.T0 <= pkg.PARAM_EPS {
				continue
			}
			bySupport[s.Support] = append(bySupport[s.Support], supportSpan{piece: pi, t0: s.T0, t1: s.T1})
		}
	}

	supports := make([][2]orb.Point, 0, len(bySupport))
	for s := range bySupport {
		supports = append(supports, s)
	}
	sort.Slice(supports, func(i, j int) bool {
		return supportLess(supports[i], supports[j])
	})

	runs := make([]*atomRun, 0)
	for _, support := range supports {
		runs = append(runs, atomizeSupport(support, bySupport[support], pieces)...)
	}
	return runs
}

func supportLess(a, b [2]orb.Point) bool {
	if a[0] != b[0] {
		return geo.PointLess(a[0], b[0])
	}
	return geo.PointLess(a[1], b[1])
}

func atomizeSupport(support [2]orb.Point, spans []supportSpan, pieces []TaggedSpans) []*atomRun {
	breakpoints := make([]float64, 0, 2*len(spans))
	for _, s := range spans {
		breakpoints = append(breakpoints, s.t0, s.t1)
	}
	sort.Float64s(breakpoints)
	bps := breakpoints[:1]
	for _, b := range breakpoints[1:] {
		if b-bps[len(bps)-1] > pkg.PARAM_EPS {
			bps = append(bps, b)
		}
	}
	if len(bps) < 2 {
		return nil
	}

	index := func(t float64) int {
		return sort.Search(len(bps), func(k int) bool { return bps[k] >= t-pkg.PARAM_EPS })
	}

	numAtoms := len(bps) - 1
	covering := make([][]int, numAtoms)
	for _, s := range spans {
		for k := index(s.t0); k < index(s.t1) && k < numAtoms; k++ {
			covering[k] = append(covering[k], s.piece)
		}
	}

	runs := make([]*atomRun, 0)
	for k := 0; k < numAtoms; k++ {
		if len(covering[k]) == 0 {
			continue
		}
		tag, winners := vote(covering[k], pieces)

		if n := len(runs); n > 0 && runs[n-1].tag == tag && runs[n-1].t1 == bps[k] {
			last := runs[n-1]
			last.t1 = bps[k+1]
			addWinners(last, winners, pieces)
			continue
		}

		r := &atomRun{
			support:  support,
			t0:       bps[k],
			t1:       bps[k+1],
			tag:      tag,
			pieces:   make(map[int]struct{}),
			requests: make(map[int]struct{}),
		}
		addWinners(r, winners, pieces)
		runs = append(runs, r)
	}
	return runs
}

// vote. majority tag among the distinct pieces covering an atom, ties resolved to overlap
func vote(covering []int, pieces []TaggedSpans) (pkg.SegmentTag, []int) {
	seen := make(map[int]struct{}, len(covering))
	overlap := make([]int, 0)
	newBuild := make([]int, 0)
	for _, pi := range covering {
		if _, ok := seen[pi]; ok {
			continue
		}
		seen[pi] = struct{}{}
		if pieces[pi].Tag == pkg.OVERLAP {
			overlap = append(overlap, pi)
		} else {
			newBuild = append(newBuild, pi)
		}
	}
	if len(overlap) >= len(newBuild) {
		return pkg.OVERLAP, overlap
	}
	return pkg.NEW_BUILD, newBuild
}

func addWinners(r *atomRun, winners []int, pieces []TaggedSpans) {
	for _, pi := range winners {
		r.pieces[pi] = struct{}{}
		for _, req := range pieces[pi].Requests {
			r.requests[req] = struct{}{}
		}
	}
}

// groupRuns. union-find over runs of one tag sharing an endpoint
func groupRuns(tag pkg.SegmentTag, runs []*atomRun) ([]da.DissolvedGroup, error) {
	parent := make([]int, len(runs))
	for i := range parent {
		parent[i] = i
	}
	find := func(x int) int {
		root := x
		for parent[root] != root {
			root = parent[root]
		}
		for parent[x] != root {
			next := parent[x]
			parent[x] = root
			x = next
		}
		return root
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra == rb {
			return
		}
		if ra < rb {
			parent[rb] = ra
		} else {
			parent[ra] = rb
		}
	}

	owner := make(map[orb.Point]int)
	for i, r := range runs {
		a, b := r.endpoints()
		for _, key := range []orb.Point{a, b} {
			if j, ok := owner[key]; ok {
				union(i, j)
			} else {
				owner[key] = i
			}
		}
	}

	// runs are sorted, so members of a component keep that order and components are ordered by their first run
	members := make(map[int][]*atomRun)
	roots := make([]int, 0)
	for i, r := range runs {
		root := find(i)
		if _, ok := members[root]; !ok {
			roots = append(roots, root)
		}
		members[root] = append(members[root], r)
	}

	groups := make([]da.DissolvedGroup, 0, len(roots))
	for _, root := range roots {
		group, err := newGroup(tag, members[root])
		if err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}
	return groups, nil
}

func newGroup(tag pkg.SegmentTag, runs []*atomRun) (da.DissolvedGroup, error) {
	spans := make([]da.Span, len(runs))
	length := 0.0
	pieceSet := make(map[int]struct{})
	requestSet := make(map[int]struct{})
	for i, r := range runs {
		spans[i] = r.span()
		length += spans[i].Length()
		for pi := range r.pieces {
			pieceSet[pi] = struct{}{}
		}
		for req := range r.requests {
			requestSet[req] = struct{}{}
		}
	}

	requests := make([]int, 0, len(requestSet))
	for req := range requestSet {
		requests = append(requests, req)
	}
	sort.Ints(requests)

	geometry, err := chainRuns(runs)
	if err != nil {
		return da.DissolvedGroup{}, err
	}

	return da.DissolvedGroup{
		Tag:          tag,
		Label:        tag.Label(),
		Geometry:     geometry,
		Length:       length,
		SegmentCount: len(pieceSet),
		Requests:     requests,
		Spans:        spans,
	}, nil
}
