package plate

// ResolveOverlaps removes every candidate whose bounding box lies strictly
// inside another candidate's box in the same group. Inner contours of a
// character (counters, holes) get traced as separate contours and would
// otherwise be read as extra characters. Survivors keep their order, and
// applying the pass twice yields the same result as applying it once.
func ResolveOverlaps(group Group) Group {
	var survivors Group
	for i, current := range group {
		inner := false
		for j, other := range group {
			if i == j {
				continue
			}
			if other.Box.StrictlyContains(current.Box) {
				inner = true
				break
			}
		}
		if !inner {
			survivors = append(survivors, current)
		}
	}
	return survivors
}
