// Command knntrain builds the glyph model the recognizer classifies with.
// It renders every plate character from a TTF/OTF font onto the
// recognizer's 20x30 grid and writes the flattened samples as the model
// file.
//
// Usage: knntrain -font <plate-font.ttf> -out data/training_data/model.json
package main

import (
	"flag"
	"fmt"
	"image"
	"log"
	"os"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/arsenicprojects/police-plate-gate/internal/classify"
)

// Glyphs render at this size before scaling down to the model grid;
// rendering large and scaling keeps thin strokes from vanishing.
const (
	renderSize   = 96.0
	renderCanvas = 160
)

func main() {
	var (
		fontPath = flag.String("font", "", "TTF/OTF font to render glyphs from")
		outPath  = flag.String("out", "data/training_data/model.json", "model output path")
		charset  = flag.String("chars", classify.PlateChars, "characters to train")
	)
	flag.Parse()

	if *fontPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	samples, labels, err := renderTrainingSet(*fontPath, *charset)
	if err != nil {
		log.Fatalf("Render training set: %v", err)
	}

	model := classify.NewKNN(1)
	if err := model.Train(samples, labels); err != nil {
		log.Fatalf("Train model: %v", err)
	}
	if err := model.Save(*outPath); err != nil {
		log.Fatalf("Save model: %v", err)
	}
	log.Printf("Wrote %d glyphs to %s", len(labels), *outPath)
}

// renderTrainingSet draws each character white on black, crops it to its
// ink and scales it to the model grid.
func renderTrainingSet(fontPath, charset string) ([][]float64, []rune, error) {
	data, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, nil, err
	}
	parsed, err := opentype.Parse(data)
	if err != nil {
		return nil, nil, fmt.Errorf("parse font %s: %w", fontPath, err)
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    renderSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create font face: %w", err)
	}
	defer face.Close()

	var samples [][]float64
	var labels []rune
	for _, ch := range charset {
		glyph, err := renderGlyph(face, ch)
		if err != nil {
			return nil, nil, fmt.Errorf("render %q: %w", ch, err)
		}
		samples = append(samples, flatten(glyph))
		labels = append(labels, ch)
	}
	return samples, labels, nil
}

func renderGlyph(face font.Face, ch rune) (*image.NRGBA, error) {
	canvas := image.NewGray(image.Rect(0, 0, renderCanvas, renderCanvas))

	drawer := &font.Drawer{
		Dst:  canvas,
		Src:  image.White,
		Face: face,
		Dot:  fixed.P(renderCanvas/4, renderCanvas*3/4),
	}
	drawer.DrawString(string(ch))

	ink := inkBounds(canvas)
	if ink.Empty() {
		return nil, fmt.Errorf("glyph rendered no pixels")
	}

	return imaging.Resize(canvas.SubImage(ink), classify.GlyphWidth, classify.GlyphHeight, imaging.NearestNeighbor), nil
}

// inkBounds finds the tight bounding box of non-black pixels.
func inkBounds(img *image.Gray) image.Rectangle {
	b := img.Bounds()
	minX, minY := b.Max.X, b.Max.Y
	maxX, maxY := b.Min.X-1, b.Min.Y-1
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.GrayAt(x, y).Y == 0 {
				continue
			}
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}
		}
	}
	if maxX < minX || maxY < minY {
		return image.Rectangle{}
	}
	return image.Rect(minX, minY, maxX+1, maxY+1)
}

// flatten converts the scaled glyph to the classifier's row-major
// feature vector, binarized the way the runtime threshold pass leaves
// plate pixels.
func flatten(glyph *image.NRGBA) []float64 {
	vec := make([]float64, 0, classify.GlyphWidth*classify.GlyphHeight)
	b := glyph.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := glyph.At(x, y).RGBA()
			gray := (r + g + bl) / 3
			if gray >= 0x8000 {
				vec = append(vec, 255)
			} else {
				vec = append(vec, 0)
			}
		}
	}
	return vec
}
