package plate

import (
	"testing"
)

func TestResolveOverlapsRemovesInnerContours(t *testing.T) {
	outer := boxCandidate(0, 0, 20, 30, 400)
	inner := boxCandidate(5, 5, 8, 10, 60) // the counter of an "O"
	edge := boxCandidate(0, 5, 10, 10, 80) // touches the outer's left edge
	apart := boxCandidate(40, 0, 20, 30, 400)

	group := Group{outer, inner, edge, apart}
	resolved := ResolveOverlaps(group)

	want := Group{outer, edge, apart}
	if len(resolved) != len(want) {
		t.Fatalf("ResolveOverlaps() kept %d candidates, want %d", len(resolved), len(want))
	}
	for i := range want {
		if resolved[i] != want[i] {
			t.Errorf("position %d = %+v, want %+v", i, resolved[i].Box, want[i].Box)
		}
	}
}

func TestResolveOverlapsIdempotent(t *testing.T) {
	group := Group{
		boxCandidate(0, 0, 20, 30, 400),
		boxCandidate(5, 5, 8, 10, 60),
		boxCandidate(25, 0, 20, 30, 400),
		boxCandidate(30, 4, 6, 12, 50),
		boxCandidate(50, 0, 20, 30, 400),
	}

	once := ResolveOverlaps(group)
	twice := ResolveOverlaps(once)

	if len(once) != len(twice) {
		t.Fatalf("second pass changed the group: %d -> %d members", len(once), len(twice))
	}
	for i := range once {
		if once[i] != twice[i] {
			t.Errorf("second pass changed position %d", i)
		}
	}
}

func TestResolveOverlapsNoNesting(t *testing.T) {
	group := Group{
		boxCandidate(0, 0, 12, 30, 200),
		boxCandidate(20, 0, 12, 30, 200),
		boxCandidate(40, 0, 12, 30, 200),
	}
	if got := ResolveOverlaps(group); len(got) != len(group) {
		t.Fatalf("ResolveOverlaps() removed %d members from a non-nested group", len(group)-len(got))
	}
}

func TestResolveOverlapsIdenticalBoxes(t *testing.T) {
	// Strict containment: identical boxes never remove each other.
	a := boxCandidate(0, 0, 12, 30, 200)
	b := boxCandidate(0, 0, 12, 30, 200)
	if got := ResolveOverlaps(Group{a, b}); len(got) != 2 {
		t.Fatalf("ResolveOverlaps() kept %d of two identical boxes, want both", len(got))
	}
}
