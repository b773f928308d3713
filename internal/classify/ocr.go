package classify

import (
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
	"gocv.io/x/gocv"
)

// PlateChars is the character set license plates can carry.
const PlateChars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// OCREngine reads a whole plate crop with Tesseract. It is an alternative
// to the per-glyph nearest-neighbor model for hosts that ship Tesseract.
type OCREngine struct {
	client *gosseract.Client
}

// NewOCREngine creates an engine restricted to the plate character set.
func NewOCREngine() (*OCREngine, error) {
	client := gosseract.NewClient()

	if err := client.SetLanguage("eng"); err != nil {
		client.Close()
		return nil, fmt.Errorf("set OCR language: %w", err)
	}
	if err := client.SetWhitelist(PlateChars); err != nil {
		client.Close()
		return nil, fmt.Errorf("set OCR whitelist: %w", err)
	}

	// Plate strings are not dictionary words; disable word correction.
	_ = client.SetVariable("load_system_dawg", "false")
	_ = client.SetVariable("load_freq_dawg", "false")

	return &OCREngine{client: client}, nil
}

// Close releases OCR resources.
func (e *OCREngine) Close() error {
	if e.client != nil {
		return e.client.Close()
	}
	return nil
}

// ReadPlate runs OCR over a binarized plate crop and returns the text
// stripped down to the plate character set.
func (e *OCREngine) ReadPlate(img gocv.Mat) (string, error) {
	if img.Empty() {
		return "", fmt.Errorf("read plate: empty image")
	}

	buf, err := gocv.IMEncode(gocv.PNGFileExt, img)
	if err != nil {
		return "", fmt.Errorf("encode plate image: %w", err)
	}
	defer buf.Close()

	if err := e.client.SetImageFromBytes(buf.GetBytes()); err != nil {
		return "", fmt.Errorf("set OCR image: %w", err)
	}
	text, err := e.client.Text()
	if err != nil {
		return "", fmt.Errorf("run OCR: %w", err)
	}

	var out strings.Builder
	for _, r := range strings.ToUpper(text) {
		if strings.ContainsRune(PlateChars, r) {
			out.WriteRune(r)
		}
	}
	return out.String(), nil
}
