// SPDX-License-Identifier: MIT

package matrix

import (
	"fmt"
	"sort"
)

// pairKey is an ordered (row, col) pair used to detect overwrites.
type pairKey struct {
	i, j int
}

// COO is an n×n coordinate-format builder. It is the mutable half of the
// mutate-then-freeze discipline: entries accumulate as triplets and are
// compacted exactly once by Freeze.
type COO struct {
	n      int
	rows   []int
	cols   []int
	vals   []float64
	pos    map[pairKey]int // (i,j) → index into rows/cols/vals
	frozen bool
	opts   Options
}

// NewCOO returns an empty n×n builder. n == 0 is allowed and yields an
// empty matrix on Freeze.
// Complexity: O(1).
func NewCOO(n int, opts ...Option) (*COO, error) {
	if n < 0 {
		return nil, matrixErrorf(opNewCOO, ErrBadShape)
	}

	return &COO{
		n:    n,
		pos:  make(map[pairKey]int),
		opts: gatherOptions(opts...),
	}, nil
}

// Dim returns the matrix dimension n.
func (c *COO) Dim() int { return c.n }

// NNZ returns the number of distinct stored (i,j) positions.
func (c *COO) NNZ() int { return len(c.vals) }

// Set stores v at (i,j), overwriting any previous value at that position.
// Stage 1 (Validate): frozen state, bounds, numeric policy.
// Stage 2 (Execute): overwrite in place or append a new triplet.
// Complexity: O(1) expected.
func (c *COO) Set(i, j int, v float64) error {
	if c == nil {
		return matrixErrorf(opSet, ErrNilMatrix)
	}
	if c.frozen {
		return matrixErrorf(opSet, ErrFrozen)
	}
	if i < 0 || i >= c.n || j < 0 || j >= c.n {
		return fmt.Errorf("%s(%d,%d): %w", opSet, i, j, ErrOutOfRange)
	}
	if c.opts.validateNaNInf && isNonFinite(v) {
		return fmt.Errorf("%s(%d,%d): %w", opSet, i, j, ErrNaNInf)
	}

	key := pairKey{i: i, j: j}
	if p, ok := c.pos[key]; ok {
		c.vals[p] = v

		return nil
	}
	c.pos[key] = len(c.vals)
	c.rows = append(c.rows, i)
	c.cols = append(c.cols, j)
	c.vals = append(c.vals, v)

	return nil
}

// SetSym stores v at both (i,j) and (j,i).
func (c *COO) SetSym(i, j int, v float64) error {
	if err := c.Set(i, j, v); err != nil {
		return matrixErrorf(opSetSym, err)
	}
	if i == j {
		return nil
	}
	if err := c.Set(j, i, v); err != nil {
		return matrixErrorf(opSetSym, err)
	}

	return nil
}

// Freeze compacts the triplets into a CSC matrix and seals the builder.
// Rows within each column are sorted ascending.
// Stage 1 (Prepare): count entries per column into colPtr.
// Stage 2 (Execute): scatter triplets into their column slots.
// Stage 3 (Finalize): sort each column by row index.
// Complexity: O(n + z log z).
func (c *COO) Freeze() *CSC {
	c.frozen = true
	z := len(c.vals)
	m := &CSC{
		r:      c.n,
		c:      c.n,
		colPtr: make([]int, c.n+1),
		rowIdx: make([]int, z),
		vals:   make([]float64, z),
		eps:    c.opts.eps,
	}
	for _, j := range c.cols {
		m.colPtr[j+1]++
	}
	for j := 0; j < c.n; j++ {
		m.colPtr[j+1] += m.colPtr[j]
	}

	next := make([]int, c.n)
	copy(next, m.colPtr[:c.n])
	for p := 0; p < z; p++ {
		j := c.cols[p]
		q := next[j]
		m.rowIdx[q] = c.rows[p]
		m.vals[q] = c.vals[p]
		next[j]++
	}

	for j := 0; j < c.n; j++ {
		sort.Sort(columnSorter{
			rows: m.rowIdx[m.colPtr[j]:m.colPtr[j+1]],
			vals: m.vals[m.colPtr[j]:m.colPtr[j+1]],
		})
	}

	return m
}

// columnSorter sorts one CSC column by row index, moving values alongside.
type columnSorter struct {
	rows []int
	vals []float64
}

func (s columnSorter) Len() int           { return len(s.rows) }
func (s columnSorter) Less(a, b int) bool { return s.rows[a] < s.rows[b] }
func (s columnSorter) Swap(a, b int) {
	s.rows[a], s.rows[b] = s.rows[b], s.rows[a]
	s.vals[a], s.vals[b] = s.vals[b], s.vals[a]
}
