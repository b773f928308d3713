package plate

// FilterConfig holds the thresholds that decide whether a contour is
// shaped like a single character. The scene pass and the in-plate pass
// run the same predicate with different thresholds.
type FilterConfig struct {
	MinArea   float64 `toml:"min_area"`
	MinWidth  int     `toml:"min_width"`
	MinHeight int     `toml:"min_height"`
	MinAspect float64 `toml:"min_aspect"`
	MaxAspect float64 `toml:"max_aspect"`
}

// SceneFilterConfig returns the thresholds for finding character-sized
// contours in a full scene.
func SceneFilterConfig() FilterConfig {
	return FilterConfig{
		MinArea:   100,
		MinWidth:  2,
		MinHeight: 8,
		MinAspect: 0.25,
		MaxAspect: 1.0,
	}
}

// PlateFilterConfig returns the thresholds for isolating individual
// character contours inside an extracted plate crop.
func PlateFilterConfig() FilterConfig {
	return FilterConfig{
		MinArea:   80,
		MinWidth:  2,
		MinHeight: 8,
		MinAspect: 0.25,
		MaxAspect: 1.0,
	}
}

// Accept reports whether the candidate passes every threshold. The height
// minimum is checked before the aspect ratio so the ratio never divides
// by zero.
func (f FilterConfig) Accept(c *Candidate) bool {
	if c.Area < f.MinArea {
		return false
	}
	if c.Box.Width < f.MinWidth {
		return false
	}
	if c.Box.Height < f.MinHeight {
		return false
	}
	aspect := c.Box.Aspect()
	return aspect >= f.MinAspect && aspect <= f.MaxAspect
}

// Filter returns the candidates accepted by the config, preserving input
// order. The returned order is the seed order of the cluster pass.
func (f FilterConfig) Filter(candidates []*Candidate) []*Candidate {
	var accepted []*Candidate
	for _, c := range candidates {
		if f.Accept(c) {
			accepted = append(accepted, c)
		}
	}
	return accepted
}
