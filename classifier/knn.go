// Package classifier predicts the language of a text vector from labeled
// known vectors by nearest-neighbour search.
package classifier

import (
	"fmt"
	"math"
	"sort"

	"github.com/happyhackingspace/dil/internal/vectorizer"
	"github.com/happyhackingspace/dil/profile"
)

// Prediction is a predicted label and the distance to the closest neighbour
// that supported it.
type Prediction struct {
	Label    string  `json:"label"`
	Distance float64 `json:"distance"`
}

// Config holds the neighbour count and metric for k-NN prediction.
type Config struct {
	K      int
	Metric Metric
}

// DefaultConfig returns k=1 with the Manhattan metric.
func DefaultConfig() Config {
	return Config{K: 1, Metric: Manhattan}
}

// Validate checks that K is positive and Metric is known.
func (c Config) Validate() error {
	if c.K < 1 {
		return fmt.Errorf("%w: k must be positive, got %d", profile.ErrInvalidInput, c.K)
	}
	_, err := c.Metric.distanceFunc()
	return err
}

// neighbour is a known vector's label and its distance to the query.
type neighbour struct {
	label    string
	distance float64
}

// PredictNearest returns the label of the known vector closest to unknown by
// Euclidean distance. When several are equally close the first one wins.
// The search starts from an infinite distance, so a non-empty known set
// always yields a label even when every distance is 1 or more.
func PredictNearest(unknown []float64, known [][]float64, labels []string) (Prediction, error) {
	if err := checkKnown(len(known), labels); err != nil {
		return Prediction{}, err
	}

	best := Prediction{Distance: math.Inf(1)}
	for i, vec := range known {
		d, err := vectorizer.Euclidean(unknown, vec)
		if err != nil {
			return Prediction{}, err
		}
		if d < best.Distance {
			best = Prediction{Label: labels[i], Distance: d}
		}
	}
	return best, nil
}

// PredictKNN votes among the k known vectors closest to unknown under
// metric m. The most frequent label wins; ties go to the label that appears
// first among the neighbours. The returned distance is that of the closest
// neighbour.
func PredictKNN(unknown []float64, known [][]float64, labels []string, k int, m Metric) (Prediction, error) {
	if err := checkKnown(len(known), labels); err != nil {
		return Prediction{}, err
	}
	if err := (Config{K: k, Metric: m}).Validate(); err != nil {
		return Prediction{}, err
	}
	dist, _ := m.distanceFunc()

	neighbours := make([]neighbour, len(known))
	for i, vec := range known {
		d, err := dist(unknown, vec)
		if err != nil {
			return Prediction{}, err
		}
		neighbours[i] = neighbour{label: labels[i], distance: d}
	}
	return vote(neighbours, k), nil
}

// PredictKNNSparse is PredictKNN over sparse vectors with the sparse
// Euclidean distance.
func PredictKNNSparse(unknown vectorizer.SparseVector, known []vectorizer.SparseVector, labels []string, k int) (Prediction, error) {
	if err := checkKnown(len(known), labels); err != nil {
		return Prediction{}, err
	}
	if k < 1 {
		return Prediction{}, fmt.Errorf("%w: k must be positive, got %d", profile.ErrInvalidInput, k)
	}

	neighbours := make([]neighbour, len(known))
	for i, vec := range known {
		d, err := vectorizer.SparseEuclidean(unknown, vec)
		if err != nil {
			return Prediction{}, err
		}
		neighbours[i] = neighbour{label: labels[i], distance: d}
	}
	return vote(neighbours, k), nil
}

// vote sorts neighbours by distance (stable), keeps the first k and returns
// the majority label with the closest distance. neighbours must not be
// empty.
func vote(neighbours []neighbour, k int) Prediction {
	sort.SliceStable(neighbours, func(i, j int) bool {
		return neighbours[i].distance < neighbours[j].distance
	})
	if k < len(neighbours) {
		neighbours = neighbours[:k]
	}

	// order keeps first-insertion order for the tie-break.
	counts := make(map[string]int)
	var order []string
	for _, n := range neighbours {
		if _, ok := counts[n.label]; !ok {
			order = append(order, n.label)
		}
		counts[n.label]++
	}

	winner := order[0]
	for _, label := range order[1:] {
		if counts[label] > counts[winner] {
			winner = label
		}
	}
	return Prediction{Label: winner, Distance: neighbours[0].distance}
}

func checkKnown(n int, labels []string) error {
	if n != len(labels) {
		return fmt.Errorf("%w: %d known vectors but %d labels", profile.ErrInvalidInput, n, len(labels))
	}
	if n == 0 {
		return fmt.Errorf("%w: no known vectors", profile.ErrInvalidInput)
	}
	return nil
}
