package plate

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/arsenicprojects/police-plate-gate/pkg/geometry"
)

// Padding factors applied beyond the raw character extent so a slightly
// skewed plate still fits inside the extracted region.
const (
	DefaultWidthPadding  = 1.3
	DefaultHeightPadding = 1.5
)

// ErrDegenerateGroup reports a group too small to define a plate region.
// The minimum group size upstream makes this an invariant violation, not
// an expected input.
var ErrDegenerateGroup = errors.New("plate: group has fewer than 2 members")

// RegionGeometry describes the oriented region a character group occupies:
// center, padded size and skew angle.
type RegionGeometry struct {
	Center      geometry.Point2D
	Size        geometry.Size
	RotationDeg float64
}

// GroupGeometry computes the oriented plate region for a group sorted left
// to right by bounding box x.
//
// The center x spans from the leftmost box to the right edge of the
// rightmost box. The center y uses the leftmost character's vertical
// extent as a proxy for the whole plate; the height padding absorbs the
// error under slight skew. The rotation comes from the vertical offset
// between the first and last character over their corner distance.
func GroupGeometry(group Group, widthPadding, heightPadding float64) (RegionGeometry, error) {
	if len(group) < 2 {
		return RegionGeometry{}, ErrDegenerateGroup
	}

	left := group.Leftmost()
	right := group.Rightmost()

	centerX := float64(left.Box.X+right.Box.X+right.Box.Width) / 2.0
	centerY := float64(left.Box.Y+left.Box.Height) / 2.0

	width := float64(right.Box.X+right.Box.Width-left.Box.X) * widthPadding

	heights := make([]float64, len(group))
	for i, c := range group {
		heights[i] = float64(c.Box.Height)
	}
	height := stat.Mean(heights, nil) * heightPadding

	opposite := float64(right.Box.Y - left.Box.Y)
	hypotenuse := distanceBetween(left, right)
	rotation := 0.0
	if hypotenuse > 0 {
		rotation = math.Atan(opposite/hypotenuse) * 180.0 / math.Pi
	}

	return RegionGeometry{
		Center:      geometry.Point2D{X: centerX, Y: centerY},
		Size:        geometry.Size{Width: width, Height: height},
		RotationDeg: rotation,
	}, nil
}
