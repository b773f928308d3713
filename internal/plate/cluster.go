package plate

import (
	"sort"
)

// MinGroupSize is the default minimum number of mutually matching
// candidates a plate hypothesis must contain.
const MinGroupSize = 3

// Partitioner splits a candidate set into maximal groups of mutually
// matching candidates.
//
// The algorithm is recursive and greedy-first: it expands a group from
// the first candidate that gathers at least MinGroupSize matches, then
// partitions the complement. It never tries alternative seeds at the
// same depth, so a different input ordering of the same contours can
// produce a different grouping. That order sensitivity is intentional
// and is pinned by tests; callers control the seed order through the
// order of the input slice.
type Partitioner struct {
	Match        MatchConfig
	MinGroupSize int
}

// NewPartitioner returns a partitioner with the given similarity
// tolerances and the default minimum group size.
func NewPartitioner(match MatchConfig) Partitioner {
	return Partitioner{Match: match, MinGroupSize: MinGroupSize}
}

// Partition splits candidates into disjoint groups. Every candidate
// appears in at most one group; candidates that never gather enough
// matches are dropped entirely. Each returned group is sorted left to
// right by bounding box x. An empty input yields no groups.
//
// Candidates are identified by their index in the input slice, not by
// value, so duplicate geometry partitions correctly.
func (p Partitioner) Partition(candidates []*Candidate) []Group {
	order := make([]int, len(candidates))
	for i := range order {
		order[i] = i
	}

	var groups []Group
	for _, set := range p.partition(candidates, order) {
		g := make(Group, len(set))
		for i, idx := range set {
			g[i] = candidates[idx]
		}
		sortByX(g)
		groups = append(groups, g)
	}
	return groups
}

// partition works on arena indices into candidates. order fixes both the
// seed order and the iteration order of the match scan.
func (p Partitioner) partition(candidates []*Candidate, order []int) [][]int {
	for _, seed := range order {
		var group []int
		for _, j := range order {
			if j == seed {
				continue
			}
			if p.Match.Matches(candidates[seed], candidates[j]) {
				group = append(group, j)
			}
		}
		group = append(group, seed)

		if len(group) < p.MinGroupSize {
			continue
		}

		taken := make(map[int]bool, len(group))
		for _, idx := range group {
			taken[idx] = true
		}
		var rest []int
		for _, idx := range order {
			if !taken[idx] {
				rest = append(rest, idx)
			}
		}

		return append([][]int{group}, p.partition(candidates, rest)...)
	}
	return nil
}

// sortByX orders a group left to right. The sort is stable so ties keep
// their seed order.
func sortByX(g Group) {
	sort.SliceStable(g, func(i, j int) bool {
		return g[i].Box.X < g[j].Box.X
	})
}
