// Package capture provides the frame source: a live camera, a video file
// or a single still image, behind one Read loop.
package capture

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// Source yields frames from a camera, video file or still image.
type Source struct {
	capture *gocv.VideoCapture
	still   gocv.Mat
	served  bool
}

// OpenCamera opens a live camera by device index.
func OpenCamera(index int) (*Source, error) {
	vc, err := gocv.OpenVideoCapture(index)
	if err != nil {
		return nil, fmt.Errorf("open camera %d: %w", index, err)
	}
	return &Source{capture: vc}, nil
}

// OpenVideo opens a video file.
func OpenVideo(path string) (*Source, error) {
	vc, err := gocv.OpenVideoCapture(path)
	if err != nil {
		return nil, fmt.Errorf("open video %s: %w", path, err)
	}
	return &Source{capture: vc}, nil
}

// OpenImage loads a still image; the source serves it exactly once.
func OpenImage(path string) (*Source, error) {
	img := gocv.IMRead(path, gocv.IMReadColor)
	if img.Empty() {
		return nil, fmt.Errorf("open image %s: no readable image", path)
	}
	return &Source{still: img}, nil
}

// Read fetches the next frame into dst. It returns false when the source
// is exhausted.
func (s *Source) Read(dst *gocv.Mat) bool {
	if s.capture != nil {
		return s.capture.Read(dst) && !dst.Empty()
	}
	if s.served || s.still.Empty() {
		return false
	}
	s.served = true
	s.still.CopyTo(dst)
	return true
}

// Close releases the underlying device or image.
func (s *Source) Close() error {
	if s.capture != nil {
		return s.capture.Close()
	}
	if !s.still.Empty() {
		s.still.Close()
	}
	return nil
}

// ResizeToWidth scales a frame to the given width, preserving its aspect
// ratio. Frames at or below the width pass through untouched.
func ResizeToWidth(frame gocv.Mat, width int) gocv.Mat {
	if frame.Empty() || width <= 0 || frame.Cols() <= width {
		return frame
	}
	ratio := float64(width) / float64(frame.Cols())
	height := int(float64(frame.Rows()) * ratio)

	resized := gocv.NewMat()
	gocv.Resize(frame, &resized, image.Pt(width, height), 0, 0, gocv.InterpolationArea)
	frame.Close()
	return resized
}
