package vectorizer

import (
	"fmt"
	"math"

	"github.com/happyhackingspace/dil/profile"
)

// Euclidean returns the rounded Euclidean distance between a and b. Elements
// are paired by position up to the shorter length.
func Euclidean(a, b []float64) (float64, error) {
	if err := checkDense(a, b); err != nil {
		return 0, err
	}
	var sum float64
	for i, n := 0, min(len(a), len(b)); i < n; i++ {
		d := a[i] - b[i]
		sum += d * d
	}
	return profile.Round(math.Sqrt(sum)), nil
}

// Manhattan returns the rounded sum of absolute positional differences,
// paired like Euclidean.
func Manhattan(a, b []float64) (float64, error) {
	if err := checkDense(a, b); err != nil {
		return 0, err
	}
	var sum float64
	for i, n := 0, min(len(a), len(b)); i < n; i++ {
		sum += math.Abs(a[i] - b[i])
	}
	return profile.Round(sum), nil
}

// SparseEuclidean returns the rounded Euclidean distance between two sparse
// vectors without materializing their zero entries. An index stored in only
// one vector contributes that vector's value.
func SparseEuclidean(a, b SparseVector) (float64, error) {
	if err := checkSparse(a); err != nil {
		return 0, err
	}
	if err := checkSparse(b); err != nil {
		return 0, err
	}

	// Merge walk; both index lists are ascending.
	var sum float64
	i, j := 0, 0
	for i < len(a.Indices) || j < len(b.Indices) {
		var d float64
		switch {
		case j >= len(b.Indices) || (i < len(a.Indices) && a.Indices[i] < b.Indices[j]):
			d = a.Values[i]
			i++
		case i >= len(a.Indices) || b.Indices[j] < a.Indices[i]:
			d = b.Values[j]
			j++
		default:
			d = a.Values[i] - b.Values[j]
			i++
			j++
		}
		sum += d * d
	}
	return profile.Round(math.Sqrt(sum)), nil
}

func checkDense(a, b []float64) error {
	for _, v := range a {
		if math.IsNaN(v) {
			return fmt.Errorf("%w: NaN element", profile.ErrInvalidInput)
		}
	}
	for _, v := range b {
		if math.IsNaN(v) {
			return fmt.Errorf("%w: NaN element", profile.ErrInvalidInput)
		}
	}
	return nil
}

func checkSparse(sv SparseVector) error {
	if len(sv.Indices) != len(sv.Values) {
		return fmt.Errorf("%w: %d indices but %d values", profile.ErrInvalidInput, len(sv.Indices), len(sv.Values))
	}
	for i, idx := range sv.Indices {
		if idx < 0 || (i > 0 && idx <= sv.Indices[i-1]) {
			return fmt.Errorf("%w: sparse indices must be non-negative and strictly increasing", profile.ErrInvalidInput)
		}
		if math.IsNaN(sv.Values[i]) {
			return fmt.Errorf("%w: NaN element", profile.ErrInvalidInput)
		}
	}
	return nil
}
