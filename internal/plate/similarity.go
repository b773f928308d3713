package plate

import (
	"math"
)

// MatchConfig holds the tolerances for deciding whether two candidates
// look like sibling characters on the same plate.
type MatchConfig struct {
	// MaxDiagonalMultiple bounds the separation of two candidates as a
	// multiple of the reference candidate's area, so bigger characters
	// tolerate proportionally larger gaps.
	MaxDiagonalMultiple float64 `toml:"max_diagonal_multiple"`
	// MaxAngleDeg bounds the angle of the line through the two top-left
	// corners; characters on a plate are near-collinear.
	MaxAngleDeg float64 `toml:"max_angle_deg"`
	// MaxAreaChange, MaxWidthChange and MaxHeightChange bound the relative
	// size differences. Height is the tightest tolerance: plate fonts have
	// fixed height but variable glyph width.
	MaxAreaChange   float64 `toml:"max_area_change"`
	MaxWidthChange  float64 `toml:"max_width_change"`
	MaxHeightChange float64 `toml:"max_height_change"`
}

// DefaultMatchConfig returns the stock similarity tolerances.
func DefaultMatchConfig() MatchConfig {
	return MatchConfig{
		MaxDiagonalMultiple: 5.0,
		MaxAngleDeg:         12.0,
		MaxAreaChange:       0.5,
		MaxWidthChange:      0.8,
		MaxHeightChange:     0.2,
	}
}

// Matches reports whether b plausibly sits on the same plate as a.
// The test is directional: the distance bound and the relative size
// changes are scaled by a's own measurements, so Matches(a, b) and
// Matches(b, a) can disagree when the two areas differ a lot. The cluster
// pass compensates by unioning each seed's matches with the seed itself.
func (m MatchConfig) Matches(a, b *Candidate) bool {
	if distanceBetween(a, b) >= a.Area*m.MaxDiagonalMultiple {
		return false
	}
	if angleBetweenDeg(a, b) >= m.MaxAngleDeg {
		return false
	}
	areaChange := math.Abs(b.Area-a.Area) / a.Area
	widthChange := math.Abs(float64(b.Box.Width-a.Box.Width)) / float64(a.Box.Width)
	heightChange := math.Abs(float64(b.Box.Height-a.Box.Height)) / float64(a.Box.Height)
	return areaChange < m.MaxAreaChange &&
		widthChange < m.MaxWidthChange &&
		heightChange < m.MaxHeightChange
}

// distanceBetween returns the Euclidean distance between the two
// candidates' top-left corners.
func distanceBetween(a, b *Candidate) float64 {
	return a.Box.TopLeft().ToFloat().Distance(b.Box.TopLeft().ToFloat())
}

// angleBetweenDeg returns the absolute angle, in degrees, of the line
// through the two top-left corners. Two vertically stacked candidates
// (dx == 0) are treated as a right angle.
func angleBetweenDeg(a, b *Candidate) float64 {
	adjacent := math.Abs(float64(a.Box.X - b.Box.X))
	opposite := math.Abs(float64(a.Box.Y - b.Box.Y))
	if adjacent == 0 {
		return 90.0
	}
	return math.Atan(opposite/adjacent) * 180.0 / math.Pi
}
