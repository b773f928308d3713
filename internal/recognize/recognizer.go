// Package recognize runs the two-pass plate recognition pipeline: a scene
// pass that locates plate-shaped character groups and an in-plate pass
// that isolates and classifies the characters of each extracted plate.
package recognize

import (
	"fmt"
	"regexp"

	"gocv.io/x/gocv"

	"github.com/arsenicprojects/police-plate-gate/internal/classify"
	"github.com/arsenicprojects/police-plate-gate/internal/plate"
	"github.com/arsenicprojects/police-plate-gate/internal/preprocess"
)

// ExpectedPlateLength scales the confidence heuristic: a plate that
// yields this many characters scores 1.0.
const ExpectedPlateLength = 7

// Config carries the thresholds of both detection passes and the text
// post-processing rules.
type Config struct {
	SceneFilter plate.FilterConfig
	PlateFilter plate.FilterConfig
	Match       plate.MatchConfig

	MinGroupSize  int
	WidthPadding  float64
	HeightPadding float64

	ExpectedLength int
	KnownPrefixes  map[string]string
	RepairPrefix   string
	Patterns       []*regexp.Regexp
}

// DefaultConfig returns the stock pipeline configuration.
func DefaultConfig() Config {
	return Config{
		SceneFilter:    plate.SceneFilterConfig(),
		PlateFilter:    plate.PlateFilterConfig(),
		Match:          plate.DefaultMatchConfig(),
		MinGroupSize:   plate.MinGroupSize,
		WidthPadding:   plate.DefaultWidthPadding,
		HeightPadding:  plate.DefaultHeightPadding,
		ExpectedLength: ExpectedPlateLength,
		Patterns:       DefaultValidationPatterns(),
	}
}

// Result is the recognition outcome for one frame.
type Result struct {
	RawText     string
	CleanedText string
	Valid       bool
	Confidence  float64
	Region      plate.RegionGeometry
}

// Recognizer holds the configuration and classifier for frame
// recognition. It keeps no other state between frames and is safe to
// call from a single processing goroutine.
type Recognizer struct {
	cfg         Config
	partitioner plate.Partitioner
	extractor   plate.Extractor
	classifier  classify.Classifier
	ocr         *classify.OCREngine
}

// New creates a recognizer. The classifier is the trained glyph model;
// it is used as-is and never retrained here.
func New(cfg Config, classifier classify.Classifier) *Recognizer {
	if cfg.MinGroupSize < 2 {
		cfg.MinGroupSize = plate.MinGroupSize
	}
	if cfg.ExpectedLength <= 0 {
		cfg.ExpectedLength = ExpectedPlateLength
	}
	return &Recognizer{
		cfg: cfg,
		partitioner: plate.Partitioner{
			Match:        cfg.Match,
			MinGroupSize: cfg.MinGroupSize,
		},
		extractor: plate.Extractor{
			WidthPadding:  cfg.WidthPadding,
			HeightPadding: cfg.HeightPadding,
		},
		classifier: classifier,
	}
}

// SetOCRFallback installs a Tesseract engine consulted when the glyph
// classifier reads fewer characters than a plausible plate holds. The
// recognizer takes no ownership; the caller closes the engine.
func (r *Recognizer) SetOCRFallback(e *classify.OCREngine) {
	r.ocr = e
}

// Recognize locates and reads the best license plate in a frame. A frame
// with no plate returns (nil, nil): that is the normal negative outcome,
// not an error. Errors report malformed input or internal invariant
// violations.
func (r *Recognizer) Recognize(frame gocv.Mat) (*Result, error) {
	if frame.Empty() {
		return nil, fmt.Errorf("recognize: empty frame")
	}

	regions, err := r.detectPlateRegions(frame)
	if err != nil {
		return nil, err
	}
	defer func() {
		for _, reg := range regions {
			reg.Close()
		}
	}()

	best := ""
	var bestRegion plate.RegionGeometry
	found := false
	for _, reg := range regions {
		text, err := r.readPlate(reg)
		if err != nil {
			continue
		}
		if !found || len(text) > len(best) {
			best = text
			bestRegion = reg.Geometry
			found = true
		}
	}
	if !found || best == "" {
		return nil, nil
	}

	cleaned := CleanText(best, r.cfg.KnownPrefixes, r.cfg.RepairPrefix)
	confidence := float64(len(best)) / float64(r.cfg.ExpectedLength)
	if confidence > 1 {
		confidence = 1
	}

	return &Result{
		RawText:     best,
		CleanedText: cleaned,
		Valid:       ValidateFormat(cleaned, r.cfg.Patterns),
		Confidence:  confidence,
		Region:      bestRegion,
	}, nil
}

// detectPlateRegions runs the scene pass: binarize, trace, filter,
// partition, resolve overlaps, and extract a de-skewed crop from the
// original frame for every surviving group.
func (r *Recognizer) detectPlateRegions(frame gocv.Mat) ([]*plate.Region, error) {
	binarized, err := preprocess.Binarize(frame)
	if err != nil {
		return nil, fmt.Errorf("binarize scene: %w", err)
	}
	defer binarized.Close()

	contours := preprocess.TraceContours(binarized.Thresh, preprocess.RetrieveAll)
	candidates := r.candidatesFrom(contours, r.cfg.SceneFilter)

	var regions []*plate.Region
	for _, group := range r.partitioner.Partition(candidates) {
		group = plate.ResolveOverlaps(group)
		if len(group) < r.cfg.MinGroupSize {
			continue
		}
		region, err := r.extractor.Extract(frame, group)
		if err != nil {
			// A group clamped away entirely is a miss, not a failure.
			continue
		}
		regions = append(regions, region)
	}
	return regions, nil
}

// readPlate runs the in-plate pass over one extracted region: binarize
// the crop, isolate character contours, keep the longest matching group
// and classify its glyphs left to right.
func (r *Recognizer) readPlate(region *plate.Region) (string, error) {
	binarized, err := preprocess.Binarize(region.Image)
	if err != nil {
		return "", fmt.Errorf("binarize plate: %w", err)
	}
	defer binarized.Close()

	contours := preprocess.TraceContours(binarized.Thresh, preprocess.RetrieveExternal)
	candidates := r.candidatesFrom(contours, r.cfg.PlateFilter)

	var longest plate.Group
	for _, group := range r.partitioner.Partition(candidates) {
		group = plate.ResolveOverlaps(group)
		if len(group) > len(longest) {
			longest = group
		}
	}
	if len(longest) == 0 {
		return "", nil
	}

	chars := make([]rune, 0, len(longest))
	for _, c := range longest {
		vec, err := classify.NormalizeGlyph(binarized.Thresh, c.Box)
		if err != nil {
			continue
		}
		if ch, ok := r.classifier.Classify(vec); ok {
			chars = append(chars, ch)
		}
	}

	if len(chars) < r.cfg.MinGroupSize && r.ocr != nil {
		if text, err := r.ocr.ReadPlate(binarized.Thresh); err == nil && len(text) > len(chars) {
			return text, nil
		}
	}
	return string(chars), nil
}

// candidatesFrom converts traced contours into filtered candidates,
// preserving trace order as the cluster seed order.
func (r *Recognizer) candidatesFrom(contours []preprocess.Contour, filter plate.FilterConfig) []*plate.Candidate {
	var candidates []*plate.Candidate
	for _, c := range contours {
		cand := plate.NewCandidate(c.Points, c.Box, c.Area)
		if filter.Accept(cand) {
			candidates = append(candidates, cand)
		}
	}
	return candidates
}
