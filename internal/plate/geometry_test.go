package plate

import (
	"errors"
	"math"
	"testing"
)

func TestGroupGeometryPadding(t *testing.T) {
	group := Group{
		boxCandidate(0, 0, 10, 20, 150),
		boxCandidate(20, 0, 10, 20, 150),
		boxCandidate(40, 0, 10, 20, 150),
	}

	geo, err := GroupGeometry(group, DefaultWidthPadding, DefaultHeightPadding)
	if err != nil {
		t.Fatalf("GroupGeometry() error = %v", err)
	}

	if want := 65.0; math.Abs(geo.Size.Width-want) > 1e-9 {
		t.Errorf("width = %v, want %v", geo.Size.Width, want)
	}
	if want := 30.0; math.Abs(geo.Size.Height-want) > 1e-9 {
		t.Errorf("height = %v, want %v", geo.Size.Height, want)
	}
	if want := 25.0; math.Abs(geo.Center.X-want) > 1e-9 {
		t.Errorf("center x = %v, want %v", geo.Center.X, want)
	}
	if want := 10.0; math.Abs(geo.Center.Y-want) > 1e-9 {
		t.Errorf("center y = %v, want %v", geo.Center.Y, want)
	}
	if math.Abs(geo.RotationDeg) > 1e-9 {
		t.Errorf("rotation = %v, want 0", geo.RotationDeg)
	}
}

func TestGroupGeometrySkew(t *testing.T) {
	// The rightmost character sits 40 px lower across a 40 px horizontal
	// run: atan(40 / sqrt(40^2 + 40^2)) in degrees.
	group := Group{
		boxCandidate(0, 0, 10, 20, 150),
		boxCandidate(20, 20, 10, 20, 150),
		boxCandidate(40, 40, 10, 20, 150),
	}

	geo, err := GroupGeometry(group, DefaultWidthPadding, DefaultHeightPadding)
	if err != nil {
		t.Fatalf("GroupGeometry() error = %v", err)
	}

	want := math.Atan(40.0/math.Hypot(40, 40)) * 180.0 / math.Pi
	if math.Abs(geo.RotationDeg-want) > 1e-9 {
		t.Errorf("rotation = %v, want %v", geo.RotationDeg, want)
	}

	// Rising plates skew the other way.
	group = Group{
		boxCandidate(0, 40, 10, 20, 150),
		boxCandidate(20, 20, 10, 20, 150),
		boxCandidate(40, 0, 10, 20, 150),
	}
	geo, err = GroupGeometry(group, DefaultWidthPadding, DefaultHeightPadding)
	if err != nil {
		t.Fatalf("GroupGeometry() error = %v", err)
	}
	if math.Abs(geo.RotationDeg+want) > 1e-9 {
		t.Errorf("rotation = %v, want %v", geo.RotationDeg, -want)
	}
}

func TestGroupGeometryDegenerate(t *testing.T) {
	_, err := GroupGeometry(Group{boxCandidate(0, 0, 10, 20, 150)}, DefaultWidthPadding, DefaultHeightPadding)
	if !errors.Is(err, ErrDegenerateGroup) {
		t.Fatalf("GroupGeometry() error = %v, want ErrDegenerateGroup", err)
	}
	_, err = GroupGeometry(nil, DefaultWidthPadding, DefaultHeightPadding)
	if !errors.Is(err, ErrDegenerateGroup) {
		t.Fatalf("GroupGeometry(nil) error = %v, want ErrDegenerateGroup", err)
	}
}

// Five synthetic characters on one line: the partition keeps them
// together, overlap resolution removes nothing and the extracted
// geometry is level.
func TestCollinearRowEndToEnd(t *testing.T) {
	row := plateRow(5, 100, 50, 20)

	groups := NewPartitioner(DefaultMatchConfig()).Partition(row)
	if len(groups) != 1 {
		t.Fatalf("Partition() returned %v groups, want 1", groupSizes(groups))
	}
	if len(groups[0]) != 5 {
		t.Fatalf("group has %d members, want 5", len(groups[0]))
	}

	resolved := ResolveOverlaps(groups[0])
	if len(resolved) != 5 {
		t.Fatalf("ResolveOverlaps() removed %d members", 5-len(resolved))
	}

	geo, err := GroupGeometry(resolved, DefaultWidthPadding, DefaultHeightPadding)
	if err != nil {
		t.Fatalf("GroupGeometry() error = %v", err)
	}
	if math.Abs(geo.RotationDeg) > 1.0 {
		t.Errorf("rotation = %v, want within 1 degree of 0", geo.RotationDeg)
	}
}
