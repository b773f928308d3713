package gate

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"
	"gocv.io/x/gocv"
)

// snapshotWidth is the stored width of saved snapshots; the height
// follows the frame's aspect ratio.
const snapshotWidth = 320

// SaveSnapshot writes the frame behind an access decision to dir as a
// timestamped PNG and returns the file path.
func SaveSnapshot(dir, plate string, frame gocv.Mat) (string, error) {
	if frame.Empty() {
		return "", fmt.Errorf("save snapshot: empty frame")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	img, err := frame.ToImage()
	if err != nil {
		return "", fmt.Errorf("convert frame: %w", err)
	}

	scaled := imaging.Resize(img, snapshotWidth, 0, imaging.Lanczos)

	name := fmt.Sprintf("%s_%s.png", sanitize(plate), time.Now().UTC().Format("20060102T150405"))
	path := filepath.Join(dir, name)
	if err := imaging.Save(scaled, path); err != nil {
		return "", fmt.Errorf("save snapshot: %w", err)
	}
	return path, nil
}

func sanitize(plate string) string {
	if plate == "" {
		return "unknown"
	}
	out := make([]rune, 0, len(plate))
	for _, r := range plate {
		switch {
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			out = append(out, r)
		default:
			out = append(out, '_')
		}
	}
	return string(out)
}
