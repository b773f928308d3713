// Package preprocess converts color frames into thresholded binary images
// and traced contours. The geometric core consumes its output and never
// touches raw pixels itself.
package preprocess

import (
	"errors"
	"image"

	"gocv.io/x/gocv"

	"github.com/arsenicprojects/police-plate-gate/pkg/geometry"
)

const (
	blurKernelSize     = 5
	thresholdBlockSize = 19
	thresholdWeight    = 9
)

// ErrEmptyImage reports an empty input frame.
var ErrEmptyImage = errors.New("preprocess: empty image")

// Binarized holds the grayscale and thresholded views of one frame.
// Close releases both.
type Binarized struct {
	Gray   gocv.Mat
	Thresh gocv.Mat
}

// Close releases the underlying mats.
func (b *Binarized) Close() {
	if !b.Gray.Empty() {
		b.Gray.Close()
	}
	if !b.Thresh.Empty() {
		b.Thresh.Close()
	}
}

// Binarize converts a BGR frame to grayscale, maximizes its contrast,
// blurs it and applies an adaptive inverse threshold, leaving characters
// white on black.
func Binarize(src gocv.Mat) (*Binarized, error) {
	if src.Empty() {
		return nil, ErrEmptyImage
	}

	gray := gocv.NewMat()
	if src.Channels() > 1 {
		gocv.CvtColor(src, &gray, gocv.ColorBGRToGray)
	} else {
		src.CopyTo(&gray)
	}

	contrast := maximizeContrast(gray)
	defer contrast.Close()

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(contrast, &blurred, image.Pt(blurKernelSize, blurKernelSize), 0, 0, gocv.BorderDefault)

	thresh := gocv.NewMat()
	gocv.AdaptiveThreshold(blurred, &thresh, 255,
		gocv.AdaptiveThresholdGaussian, gocv.ThresholdBinaryInv,
		thresholdBlockSize, thresholdWeight)

	return &Binarized{Gray: gray, Thresh: thresh}, nil
}

// maximizeContrast boosts light-on-dark structure by adding the top-hat
// and subtracting the black-hat of the grayscale image.
func maximizeContrast(gray gocv.Mat) gocv.Mat {
	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(3, 3))
	defer kernel.Close()

	topHat := gocv.NewMat()
	defer topHat.Close()
	gocv.MorphologyEx(gray, &topHat, gocv.MorphTophat, kernel)

	blackHat := gocv.NewMat()
	defer blackHat.Close()
	gocv.MorphologyEx(gray, &blackHat, gocv.MorphBlackhat, kernel)

	plusTopHat := gocv.NewMat()
	defer plusTopHat.Close()
	gocv.Add(gray, topHat, &plusTopHat)

	out := gocv.NewMat()
	gocv.Subtract(plusTopHat, blackHat, &out)
	return out
}

// Contour is one traced contour with the measurements the candidate
// filter needs.
type Contour struct {
	Points []geometry.PointInt
	Box    geometry.RectInt
	Area   float64
}

// RetrievalMode selects which contours the tracer reports.
type RetrievalMode int

const (
	// RetrieveAll reports every contour, nested ones included. The scene
	// pass uses it so characters inside a plate frame are still found.
	RetrieveAll RetrievalMode = iota
	// RetrieveExternal reports outermost contours only, for the in-plate
	// character pass.
	RetrieveExternal
)

// TraceContours traces the contours of a binary image. The input is
// cloned first because contour tracing consumes its scratch copy.
func TraceContours(binary gocv.Mat, mode RetrievalMode) []Contour {
	if binary.Empty() {
		return nil
	}

	scratch := binary.Clone()
	defer scratch.Close()

	retrieval := gocv.RetrievalList
	if mode == RetrieveExternal {
		retrieval = gocv.RetrievalExternal
	}

	contours := gocv.FindContours(scratch, retrieval, gocv.ChainApproxSimple)
	defer contours.Close()

	traced := make([]Contour, 0, contours.Size())
	for i := 0; i < contours.Size(); i++ {
		pv := contours.At(i)
		rect := gocv.BoundingRect(pv)
		area := gocv.ContourArea(pv)

		pts := pv.ToPoints()
		points := make([]geometry.PointInt, len(pts))
		for j, p := range pts {
			points[j] = geometry.PointInt{X: p.X, Y: p.Y}
		}

		traced = append(traced, Contour{
			Points: points,
			Box: geometry.RectInt{
				X:      rect.Min.X,
				Y:      rect.Min.Y,
				Width:  rect.Dx(),
				Height: rect.Dy(),
			},
			Area: area,
		})
	}
	return traced
}
