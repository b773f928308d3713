package plate

import (
	"testing"
)

// plateRow returns n character-sized candidates arranged collinearly,
// spaced step pixels apart, starting at (x, y).
func plateRow(n, x, y, step int) []*Candidate {
	row := make([]*Candidate, n)
	for i := 0; i < n; i++ {
		row[i] = boxCandidate(x+i*step, y, 12, 30, 200)
	}
	return row
}

func TestPartitionSingleRow(t *testing.T) {
	p := NewPartitioner(DefaultMatchConfig())

	groups := p.Partition(plateRow(5, 0, 0, 20))
	if len(groups) != 1 {
		t.Fatalf("Partition() returned %d groups, want 1", len(groups))
	}
	if len(groups[0]) != 5 {
		t.Fatalf("group has %d members, want 5", len(groups[0]))
	}
	for i := 1; i < len(groups[0]); i++ {
		if groups[0][i].Box.X < groups[0][i-1].Box.X {
			t.Fatalf("group not sorted left to right at position %d", i)
		}
	}
}

func TestPartitionEmptyInput(t *testing.T) {
	p := NewPartitioner(DefaultMatchConfig())
	if groups := p.Partition(nil); len(groups) != 0 {
		t.Fatalf("Partition(nil) returned %d groups, want 0", len(groups))
	}
}

func TestPartitionDropsSmallGroups(t *testing.T) {
	p := NewPartitioner(DefaultMatchConfig())

	// Two matching candidates are below the minimum group size of 3.
	groups := p.Partition(plateRow(2, 0, 0, 20))
	if len(groups) != 0 {
		t.Fatalf("Partition() returned %d groups for a pair, want 0", len(groups))
	}
}

func TestPartitionCompleteness(t *testing.T) {
	p := NewPartitioner(DefaultMatchConfig())

	// Two well-separated rows plus an isolated outlier.
	var input []*Candidate
	input = append(input, plateRow(5, 0, 0, 20)...)
	input = append(input, plateRow(4, 2000, 1000, 20)...)
	input = append(input, boxCandidate(5000, 5000, 12, 30, 200))

	groups := p.Partition(input)

	seen := make(map[*Candidate]int)
	for _, g := range groups {
		for _, c := range g {
			seen[c]++
		}
	}
	for c, n := range seen {
		if n > 1 {
			t.Errorf("candidate %+v appears in %d groups, groups must be disjoint", c.Box, n)
		}
	}
	for _, c := range input {
		if _, ok := seen[c]; ok {
			continue
		}
		// Dropped candidates must not have enough matches to form a group.
		matches := 0
		for _, other := range input {
			if other != c && p.Match.Matches(c, other) {
				matches++
			}
		}
		if matches >= p.MinGroupSize-1 {
			t.Errorf("candidate %+v with %d matches was dropped", c.Box, matches)
		}
	}

	if len(groups) != 2 {
		t.Fatalf("Partition() returned %d groups, want 2", len(groups))
	}
	if len(groups[0]) != 5 || len(groups[1]) != 4 {
		t.Fatalf("group sizes = %d, %d, want 5, 4", len(groups[0]), len(groups[1]))
	}
}

// The partition always expands from the first viable seed, so the input
// order decides the grouping when a candidate is reachable from one side
// only. Here the tall bridge candidate matches the row (2/12 height
// change) but the row does not match it back (2/10 height change hits
// the bound exactly).
func TestPartitionSeedOrderDependence(t *testing.T) {
	row := func() []*Candidate {
		return []*Candidate{
			boxCandidate(0, 0, 10, 10, 50),
			boxCandidate(30, 0, 10, 10, 50),
			boxCandidate(60, 0, 10, 10, 50),
		}
	}
	bridge := func() *Candidate { return boxCandidate(90, 0, 10, 12, 55) }

	p := NewPartitioner(DefaultMatchConfig())

	rowFirst := p.Partition(append(row(), bridge()))
	if len(rowFirst) != 1 || len(rowFirst[0]) != 3 {
		t.Fatalf("row-first order: got %v, want 1 group of 3", groupSizes(rowFirst))
	}

	bridgeFirst := p.Partition(append([]*Candidate{bridge()}, row()...))
	if len(bridgeFirst) != 1 || len(bridgeFirst[0]) != 4 {
		t.Fatalf("bridge-first order: got %v, want 1 group of 4", groupSizes(bridgeFirst))
	}
}

func groupSizes(groups []Group) []int {
	sizes := make([]int, len(groups))
	for i, g := range groups {
		sizes[i] = len(g)
	}
	return sizes
}
