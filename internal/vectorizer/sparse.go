// Package vectorizer projects token sequences onto a language vocabulary and
// measures distances between the resulting vectors.
package vectorizer

import "sort"

// SparseVector represents a sparse float64 vector. Indices are kept in
// ascending order with no repeats.
type SparseVector struct {
	Indices []int
	Values  []float64
	Dim     int
}

// NewSparseVector creates a sparse vector with given dimension.
func NewSparseVector(dim int) SparseVector {
	return SparseVector{Dim: dim}
}

// Set adds or updates a value at the given index.
func (sv *SparseVector) Set(idx int, val float64) {
	i := sort.SearchInts(sv.Indices, idx)
	if i < len(sv.Indices) && sv.Indices[i] == idx {
		sv.Values[i] = val
		return
	}
	sv.Indices = append(sv.Indices, 0)
	sv.Values = append(sv.Values, 0)
	copy(sv.Indices[i+1:], sv.Indices[i:])
	copy(sv.Values[i+1:], sv.Values[i:])
	sv.Indices[i] = idx
	sv.Values[i] = val
}

// ToDense converts to a dense float64 slice.
func (sv SparseVector) ToDense() []float64 {
	dense := make([]float64, sv.Dim)
	for i, idx := range sv.Indices {
		if idx < sv.Dim {
			dense[idx] = sv.Values[i]
		}
	}
	return dense
}

// Nnz returns the number of non-zero entries.
func (sv SparseVector) Nnz() int {
	return len(sv.Indices)
}
