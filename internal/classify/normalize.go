package classify

import (
	"errors"
	"image"

	"gocv.io/x/gocv"

	"github.com/arsenicprojects/police-plate-gate/pkg/geometry"
)

// Every glyph is scaled to this grid before classification, matching the
// dimensions the model was trained at.
const (
	GlyphWidth  = 20
	GlyphHeight = 30
)

// ErrEmptyGlyph reports a character box with no pixels inside the image.
var ErrEmptyGlyph = errors.New("classify: glyph box lies outside the image")

// NormalizeGlyph crops a character's bounding box out of the binarized
// plate image, scales it to the GlyphWidth x GlyphHeight grid and
// flattens it row-major into a feature vector.
func NormalizeGlyph(thresh gocv.Mat, box geometry.RectInt) ([]float64, error) {
	crop := image.Rect(box.X, box.Y, box.Right(), box.Bottom())
	crop = crop.Intersect(image.Rect(0, 0, thresh.Cols(), thresh.Rows()))
	if crop.Empty() {
		return nil, ErrEmptyGlyph
	}

	roi := thresh.Region(crop)
	defer roi.Close()

	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(roi, &resized, image.Pt(GlyphWidth, GlyphHeight), 0, 0, gocv.InterpolationLinear)

	vec := make([]float64, 0, GlyphWidth*GlyphHeight)
	for y := 0; y < GlyphHeight; y++ {
		for x := 0; x < GlyphWidth; x++ {
			vec = append(vec, float64(resized.GetUCharAt(y, x)))
		}
	}
	return vec, nil
}
