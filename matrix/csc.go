// SPDX-License-Identifier: MIT

package matrix

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// CSC is an immutable compressed sparse column matrix produced by
// COO.Freeze. Column j stores its entries in rowIdx/vals between
// colPtr[j] and colPtr[j+1], rows ascending.
type CSC struct {
	r, c   int
	colPtr []int
	rowIdx []int
	vals   []float64
	eps    float64 // symmetry tolerance inherited from the builder
}

var _ mat.Matrix = (*CSC)(nil)

// Dims returns the number of rows and columns (mat.Matrix).
func (m *CSC) Dims() (r, c int) { return m.r, m.c }

// At returns the element at (i,j); unstored positions are zero. It panics
// with mat.ErrIndexOutOfRange on invalid indices, as mat.Matrix requires.
// Complexity: O(log z_j).
func (m *CSC) At(i, j int) float64 {
	if i < 0 || i >= m.r || j < 0 || j >= m.c {
		panic(mat.ErrIndexOutOfRange)
	}
	lo, hi := m.colPtr[j], m.colPtr[j+1]
	rows := m.rowIdx[lo:hi]
	k := sort.SearchInts(rows, i)
	if k < len(rows) && rows[k] == i {
		return m.vals[lo+k]
	}

	return 0
}

// T returns the implicit transpose (mat.Matrix).
func (m *CSC) T() mat.Matrix { return mat.Transpose{Matrix: m} }

// NNZ returns the number of stored entries, explicit zeros included.
func (m *CSC) NNZ() int { return len(m.vals) }

// Do calls fn for every stored entry in column-major order.
func (m *CSC) Do(fn func(i, j int, v float64)) {
	for j := 0; j < m.c; j++ {
		for p := m.colPtr[j]; p < m.colPtr[j+1]; p++ {
			fn(m.rowIdx[p], j, m.vals[p])
		}
	}
}

// Diagonal returns a fresh slice with the main diagonal.
// Complexity: O(n log z_j).
func (m *CSC) Diagonal() []float64 {
	n := min(m.r, m.c)
	d := make([]float64, n)
	for i := 0; i < n; i++ {
		d[i] = m.At(i, i)
	}

	return d
}

// Scale returns a new matrix with every stored value multiplied by f.
// The sparsity pattern is shared by value (copied), never aliased.
// Complexity: O(n + z).
func (m *CSC) Scale(f float64) *CSC {
	out := &CSC{
		r:      m.r,
		c:      m.c,
		colPtr: append([]int(nil), m.colPtr...),
		rowIdx: append([]int(nil), m.rowIdx...),
		vals:   make([]float64, len(m.vals)),
		eps:    m.eps,
	}
	for p, v := range m.vals {
		out.vals[p] = f * v
	}

	return out
}

// IsSymmetric reports whether m is square and every stored a_ij matches
// a_ji within the matrix epsilon.
// Complexity: O(z log z_j).
func (m *CSC) IsSymmetric() bool {
	return ValidateSymmetric(m) == nil
}

// MulVecTo computes dst = A·x, or dst = Aᵀ·x when trans is true.
// It matches gonum's MulVecTo contract: an empty dst is resized, a non-empty
// dst must already have the result length, and shape misuse panics with
// mat.ErrShape. dst must not alias x.
// Complexity: O(n + z).
func (m *CSC) MulVecTo(dst *mat.VecDense, trans bool, x mat.Vector) {
	r, c := m.r, m.c
	if trans {
		r, c = c, r
	}
	if x.Len() != c {
		panic(mat.ErrShape)
	}
	if dst.IsEmpty() {
		dst.ReuseAsVec(r)
	} else {
		if dst.Len() != r {
			panic(mat.ErrShape)
		}
		dst.Zero()
	}

	out := dst.RawVector()
	if trans {
		for j := 0; j < m.c; j++ {
			var sum float64
			for p := m.colPtr[j]; p < m.colPtr[j+1]; p++ {
				sum += m.vals[p] * x.AtVec(m.rowIdx[p])
			}
			out.Data[j*out.Inc] = sum
		}

		return
	}
	for j := 0; j < m.c; j++ {
		xj := x.AtVec(j)
		if xj == 0 {
			continue
		}
		for p := m.colPtr[j]; p < m.colPtr[j+1]; p++ {
			out.Data[m.rowIdx[p]*out.Inc] += m.vals[p] * xj
		}
	}
}

// MulVec returns A·x as a fresh slice; the slice form works for n == 0,
// which gonum vectors cannot represent.
// Errors: ErrNilMatrix, ErrDimensionMismatch.
// Complexity: O(n + z).
func (m *CSC) MulVec(x []float64) ([]float64, error) {
	if m == nil {
		return nil, matrixErrorf(opMulVec, ErrNilMatrix)
	}
	if err := ValidateVecLen(x, m.c); err != nil {
		return nil, matrixErrorf(opMulVec, err)
	}
	y := make([]float64, m.r)
	for j := 0; j < m.c; j++ {
		xj := x[j]
		for p := m.colPtr[j]; p < m.colPtr[j+1]; p++ {
			y[m.rowIdx[p]] += m.vals[p] * xj
		}
	}

	return y, nil
}

// ToDense materializes m as a gonum Dense matrix. Intended for inspection
// and tests on small systems; it returns nil for an empty matrix because
// gonum has no zero-sized Dense.
// Complexity: O(r·c).
func (m *CSC) ToDense() *mat.Dense {
	if m.r == 0 || m.c == 0 {
		return nil
	}
	d := mat.NewDense(m.r, m.c, nil)
	m.Do(func(i, j int, v float64) { d.Set(i, j, v) })

	return d
}

// String implements fmt.Stringer, listing stored entries.
func (m *CSC) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "CSC %dx%d nnz=%d", m.r, m.c, len(m.vals))
	m.Do(func(i, j int, v float64) {
		fmt.Fprintf(&sb, " (%d,%d)=%g", i, j, v)
	})

	return sb.String()
}

// Quadratic returns xᵀAx computed over stored entries only.
// Errors: ErrNilMatrix, ErrDimensionMismatch.
// Complexity: O(z).
func Quadratic(a *CSC, x []float64) (float64, error) {
	if a == nil {
		return 0, matrixErrorf(opQuadratic, ErrNilMatrix)
	}
	if a.r != a.c {
		return 0, matrixErrorf(opQuadratic, ErrDimensionMismatch)
	}
	if err := ValidateVecLen(x, a.c); err != nil {
		return 0, matrixErrorf(opQuadratic, err)
	}
	var sum float64
	for j := 0; j < a.c; j++ {
		xj := x[j]
		if xj == 0 {
			continue
		}
		for p := a.colPtr[j]; p < a.colPtr[j+1]; p++ {
			sum += x[a.rowIdx[p]] * a.vals[p] * xj
		}
	}

	return sum, nil
}

// MaxAbs returns the largest absolute stored value, 0 for an empty matrix.
func (m *CSC) MaxAbs() float64 {
	var best float64
	for _, v := range m.vals {
		best = math.Max(best, math.Abs(v))
	}

	return best
}
