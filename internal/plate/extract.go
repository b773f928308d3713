package plate

import (
	"errors"
	"image"

	"gocv.io/x/gocv"
)

// ErrEmptyCrop reports a plate region that falls entirely outside the
// source image after clamping.
var ErrEmptyCrop = errors.New("plate: region lies outside the image")

// Region is the extracted, de-skewed image of one plate hypothesis. The
// pixel data is owned exclusively by the Region; Close releases it.
type Region struct {
	Geometry RegionGeometry
	Image    gocv.Mat
}

// Close releases the extracted pixels.
func (r *Region) Close() {
	if !r.Image.Empty() {
		r.Image.Close()
	}
}

// Extractor crops de-skewed plate regions out of source frames.
type Extractor struct {
	WidthPadding  float64
	HeightPadding float64
}

// NewExtractor returns an extractor with the default padding factors.
func NewExtractor() Extractor {
	return Extractor{WidthPadding: DefaultWidthPadding, HeightPadding: DefaultHeightPadding}
}

// Extract computes the oriented region of a sorted group, rotates the
// source about the region center to cancel the skew and crops the padded
// rectangle. A rectangle that sticks out of the frame is clamped to the
// frame bounds rather than failing; downstream stages tolerate a
// smaller-than-requested crop.
func (e Extractor) Extract(src gocv.Mat, group Group) (*Region, error) {
	geo, err := GroupGeometry(group, e.WidthPadding, e.HeightPadding)
	if err != nil {
		return nil, err
	}

	center := image.Pt(int(geo.Center.X), int(geo.Center.Y))

	rotation := gocv.GetRotationMatrix2D(center, geo.RotationDeg, 1.0)
	defer rotation.Close()

	rotated := gocv.NewMat()
	defer rotated.Close()
	gocv.WarpAffine(src, &rotated, rotation, image.Pt(src.Cols(), src.Rows()))

	w := int(geo.Size.Width)
	h := int(geo.Size.Height)
	crop := image.Rect(center.X-w/2, center.Y-h/2, center.X-w/2+w, center.Y-h/2+h)
	crop = crop.Intersect(image.Rect(0, 0, rotated.Cols(), rotated.Rows()))
	if crop.Empty() {
		return nil, ErrEmptyCrop
	}

	view := rotated.Region(crop)
	defer view.Close()

	return &Region{Geometry: geo, Image: view.Clone()}, nil
}
