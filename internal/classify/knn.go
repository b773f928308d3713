// Package classify maps normalized glyph images to characters.
package classify

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"gonum.org/v1/gonum/floats"
)

// Classifier maps one normalized glyph vector to a character. The second
// return value is false on a classification miss; a miss drops that
// single character, never the whole plate.
type Classifier interface {
	Classify(vec []float64) (rune, bool)
}

// KNN is a nearest-neighbor glyph model. It is an explicit object with a
// load/train lifecycle; nothing in the package holds a process-wide model.
type KNN struct {
	mu      sync.RWMutex
	samples [][]float64
	labels  []rune
	k       int
}

// NewKNN creates an untrained model that votes among the k nearest
// samples. k below 1 is treated as 1.
func NewKNN(k int) *KNN {
	if k < 1 {
		k = 1
	}
	return &KNN{k: k}
}

// Train replaces the model's samples. Every sample must have the same
// dimension and its own label.
func (m *KNN) Train(samples [][]float64, labels []rune) error {
	if len(samples) == 0 {
		return fmt.Errorf("knn: no training samples")
	}
	if len(samples) != len(labels) {
		return fmt.Errorf("knn: %d samples but %d labels", len(samples), len(labels))
	}
	dim := len(samples[0])
	for i, s := range samples {
		if len(s) != dim {
			return fmt.Errorf("knn: sample %d has dimension %d, want %d", i, len(s), dim)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.samples = samples
	m.labels = labels
	return nil
}

// Trained reports whether the model holds any samples.
func (m *KNN) Trained() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.samples) > 0
}

// Classify returns the majority label among the k nearest samples by
// Euclidean distance. It misses when the model is untrained or the
// vector dimension does not match the training data.
func (m *KNN) Classify(vec []float64) (rune, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.samples) == 0 || len(vec) != len(m.samples[0]) {
		return 0, false
	}

	k := m.k
	if k > len(m.samples) {
		k = len(m.samples)
	}

	// Track the k nearest by simple insertion; k is tiny.
	nearestDist := make([]float64, 0, k)
	nearestLabel := make([]rune, 0, k)
	for i, s := range m.samples {
		d := floats.Distance(vec, s, 2)
		pos := len(nearestDist)
		for pos > 0 && nearestDist[pos-1] > d {
			pos--
		}
		if pos >= k {
			continue
		}
		nearestDist = append(nearestDist, 0)
		nearestLabel = append(nearestLabel, 0)
		copy(nearestDist[pos+1:], nearestDist[pos:])
		copy(nearestLabel[pos+1:], nearestLabel[pos:])
		nearestDist[pos] = d
		nearestLabel[pos] = m.labels[i]
		if len(nearestDist) > k {
			nearestDist = nearestDist[:k]
			nearestLabel = nearestLabel[:k]
		}
	}

	votes := make(map[rune]int, k)
	best := nearestLabel[0]
	for _, l := range nearestLabel {
		votes[l]++
		if votes[l] > votes[best] {
			best = l
		}
	}
	return best, true
}

// modelFile is the on-disk form of a trained model.
type modelFile struct {
	GlyphWidth  int         `json:"glyph_width"`
	GlyphHeight int         `json:"glyph_height"`
	Labels      []string    `json:"labels"`
	Samples     [][]float64 `json:"samples"`
}

// Save writes the trained model to a JSON file.
func (m *KNN) Save(path string) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	mf := modelFile{
		GlyphWidth:  GlyphWidth,
		GlyphHeight: GlyphHeight,
		Samples:     m.samples,
		Labels:      make([]string, len(m.labels)),
	}
	for i, l := range m.labels {
		mf.Labels[i] = string(l)
	}

	data, err := json.MarshalIndent(mf, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal model: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// LoadKNN reads a trained model from a JSON file.
func LoadKNN(path string, k int) (*KNN, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var mf modelFile
	if err := json.Unmarshal(data, &mf); err != nil {
		return nil, fmt.Errorf("unmarshal model: %w", err)
	}

	labels := make([]rune, len(mf.Labels))
	for i, s := range mf.Labels {
		if s == "" {
			return nil, fmt.Errorf("model label %d is empty", i)
		}
		labels[i] = []rune(s)[0]
	}

	m := NewKNN(k)
	if err := m.Train(mf.Samples, labels); err != nil {
		return nil, fmt.Errorf("load model %s: %w", path, err)
	}
	return m, nil
}
