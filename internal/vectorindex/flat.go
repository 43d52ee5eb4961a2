// Package vectorindex implements an exact, in-memory nearest neighbour index
// over squared Euclidean distance.
package vectorindex

import (
	"errors"
	"fmt"

	"pdfsearch/internal/domain"
)

// ErrQueryDimension is returned when a query vector does not match the
// dimensionality of the indexed vectors.
var ErrQueryDimension = errors.New("query dimension mismatch")

var errZeroDimension = errors.New("vectors have zero dimension")

// Flat is a brute-force index. Row i holds the i-th vector passed to Build.
// It is immutable once built.
type Flat struct {
	dimension int
	vectors   [][]float32
}

// Build copies vectors into a new index. Every vector must have the length
// of the first one.
func Build(vectors [][]float32) (*Flat, error) {
	if len(vectors) == 0 {
		return &Flat{}, nil
	}
	dim := len(vectors[0])
	if dim == 0 {
		return nil, errZeroDimension
	}
	rows := make([][]float32, len(vectors))
	for i, v := range vectors {
		if len(v) != dim {
			return nil, &domain.DimensionMismatchError{Row: domain.RowID(i), Got: len(v), Want: dim}
		}
		rows[i] = append([]float32(nil), v...)
	}
	return &Flat{dimension: dim, vectors: rows}, nil
}

// Len returns the number of indexed vectors.
func (f *Flat) Len() int { return len(f.vectors) }

// Dimension returns the vector length, or 0 for an empty index.
func (f *Flat) Dimension() int { return f.dimension }

// Search returns the min(k, Len()) nearest rows to q, closest first. Equal
// distances are ordered by row.
func (f *Flat) Search(q []float32, k int) ([]domain.Neighbor, error) {
	if len(f.vectors) == 0 {
		return nil, domain.ErrEmptyIndex
	}
	if len(q) != f.dimension {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrQueryDimension, len(q), f.dimension)
	}
	if k <= 0 {
		return []domain.Neighbor{}, nil
	}

	dists := make([]float64, len(f.vectors))
	for i, v := range f.vectors {
		dists[i] = SquaredL2(v, q)
	}
	idxs := argsortAsc(dists)
	k = min(k, len(idxs))
	out := make([]domain.Neighbor, k)
	for i := 0; i < k; i++ {
		j := idxs[i]
		out[i] = domain.Neighbor{Row: domain.RowID(j), Distance: dists[j]}
	}
	return out, nil
}

// SquaredL2 returns the squared Euclidean distance between equal-length
// vectors, accumulated in float64.
func SquaredL2(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}

func argsortAsc(vals []float64) []int {
	idxs := make([]int, len(vals))
	for i := range vals {
		idxs[i] = i
	}
	quicksort(idxs, vals, 0, len(idxs)-1)
	return idxs
}

// less orders by value, then by row so that the order is total.
func less(vals []float64, a, b int) bool {
	if vals[a] != vals[b] {
		return vals[a] < vals[b]
	}
	return a < b
}

func quicksort(idxs []int, vals []float64, lo, hi int) {
	if lo >= hi {
		return
	}
	i, j := lo, hi
	pivot := idxs[(lo+hi)/2]
	for i <= j {
		for less(vals, idxs[i], pivot) {
			i++
		}
		for less(vals, pivot, idxs[j]) {
			j--
		}
		if i <= j {
			idxs[i], idxs[j] = idxs[j], idxs[i]
			i++
			j--
		}
	}
	if lo < j {
		quicksort(idxs, vals, lo, j)
	}
	if i < hi {
		quicksort(idxs, vals, i, hi)
	}
}
