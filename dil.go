// Package dil identifies the language of a text by comparing word-frequency
// fingerprints with nearest-neighbour search.
//
// Training builds one frequency profile per language, a shared vocabulary,
// and a vector for every training document. Detection projects the query
// tokens onto the same vocabulary and votes among the closest documents.
//
//	d, _ := dil.Train(docs, nil)
//	p, _ := d.Detect([]string{"le", "chat", "dort"}, dil.DefaultDetectConfig())
//	fmt.Println(p.Label, p.Distance)
package dil

import (
	"fmt"

	"github.com/happyhackingspace/dil/classifier"
	"github.com/happyhackingspace/dil/internal/vectorizer"
	"github.com/happyhackingspace/dil/profile"
)

// ErrInvalidInput is returned for structurally invalid input anywhere in the
// pipeline. Test for it with errors.Is.
var ErrInvalidInput = profile.ErrInvalidInput

// Document is a tokenized training text and its language label.
type Document struct {
	Label  string
	Tokens []string
	Group  string // cross-validation group, optional
}

// Mode selects the prediction algorithm.
type Mode string

const (
	ModeNearest   Mode = "nearest"
	ModeKNN       Mode = "knn"
	ModeKNNSparse Mode = "knn-sparse"
)

// ParseMode converts a mode name to a Mode.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeNearest, ModeKNN, ModeKNNSparse:
		return m, nil
	}
	return "", fmt.Errorf("%w: unknown mode %q", ErrInvalidInput, s)
}

// DetectConfig holds prediction settings. K and Metric are ignored by
// ModeNearest; Metric is ignored by ModeKNNSparse.
type DetectConfig struct {
	Mode   Mode
	K      int
	Metric classifier.Metric
}

// DefaultDetectConfig returns k-NN with k=1 and the Manhattan metric.
func DefaultDetectConfig() DetectConfig {
	c := classifier.DefaultConfig()
	return DetectConfig{Mode: ModeKNN, K: c.K, Metric: c.Metric}
}

// Detector holds trained language profiles and the vectors of the training
// documents. It is read-only after Train and safe for concurrent use.
type Detector struct {
	profiles profile.Collection
	vec      *vectorizer.ProfileVectorizer
	labels   []string
	dense    [][]float64
	sparse   []vectorizer.SparseVector
}

// Profiles returns the language profile collection.
func (d *Detector) Profiles() profile.Collection {
	return d.profiles
}

// Languages returns the known language labels, sorted.
func (d *Detector) Languages() []string {
	return d.profiles.Labels()
}

// Vocabulary returns the shared vocabulary words.
func (d *Detector) Vocabulary() []string {
	return d.vec.Vocabulary().Words()
}

// TopWords returns up to n of the most frequent words of a language with
// their frequencies, most frequent first.
func (d *Detector) TopWords(label string, n int) ([]string, []float64, error) {
	p, ok := d.profiles[label]
	if !ok {
		return nil, nil, fmt.Errorf("dil: unknown language %q", label)
	}
	words := p.Words()
	if n > 0 && n < len(words) {
		words = words[:n]
	}
	freqs := make([]float64, len(words))
	for i, w := range words {
		freqs[i] = p[w]
	}
	return words, freqs, nil
}

// Coverage returns how many distinct words of tokens are in the vocabulary.
// A text with zero coverage is classified on an all-zero vector.
func (d *Detector) Coverage(tokens []string) int {
	return d.vec.Sparse(tokens).Nnz()
}

// Detect predicts the language of tokens.
func (d *Detector) Detect(tokens []string, config DetectConfig) (classifier.Prediction, error) {
	switch config.Mode {
	case ModeNearest:
		return classifier.PredictNearest(d.vec.Dense(tokens), d.dense, d.labels)
	case ModeKNN:
		return classifier.PredictKNN(d.vec.Dense(tokens), d.dense, d.labels, config.K, config.Metric)
	case ModeKNNSparse:
		return classifier.PredictKNNSparse(d.vec.Sparse(tokens), d.sparse, d.labels, config.K)
	}
	return classifier.Prediction{}, fmt.Errorf("%w: unknown mode %q", ErrInvalidInput, config.Mode)
}
