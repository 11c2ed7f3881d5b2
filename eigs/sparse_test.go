// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eigs

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestSparseSymOpValidation(t *testing.T) {
	_, err := NewSparseSymOp(0, nil, nil, nil)
	require.Error(t, err)

	_, err = NewSparseSymOp(3, []int{0}, []int{1, 2}, []float64{1, 2})
	require.Error(t, err)

	_, err = NewSparseSymOp(3, []int{0}, []int{3}, []float64{1})
	require.Error(t, err)

	_, err = NewSparseSymOp(3, []int{-1}, []int{0}, []float64{1})
	require.Error(t, err)

	// Lower-triangle triplets are rejected, the mirror is implicit.
	_, err = NewSparseSymOp(3, []int{2}, []int{0}, []float64{1})
	require.Error(t, err)
}

func TestSparseSymOpMatchesDense(t *testing.T) {
	const n = 15
	rnd := rand.New(rand.NewSource(77))

	dense := mat.NewSymDense(n, nil)
	var rows, cols []int
	var vals []float64
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			if i != j && rnd.Float64() > 0.2 {
				continue // keep it sparse
			}
			v := rnd.NormFloat64()
			dense.SetSym(i, j, v)
			rows = append(rows, i)
			cols = append(cols, j)
			vals = append(vals, v)
		}
	}

	op, err := NewSparseSymOp(n, rows, cols, vals)
	require.NoError(t, err)
	require.Equal(t, len(vals), op.NNZ())
	require.Equal(t, n, op.Rows())

	x := make([]float64, n)
	for i := range x {
		x[i] = rnd.NormFloat64()
	}
	got := make([]float64, n)
	op.Apply(x, got)

	want := make([]float64, n)
	mat.NewVecDense(n, want).MulVec(dense, mat.NewVecDense(n, x))
	for i := range want {
		require.InDelta(t, want[i], got[i], 1e-12)
	}
}

func TestSparseSymOpDuplicatesSummed(t *testing.T) {
	op, err := NewSparseSymOp(2,
		[]int{0, 0, 0, 1},
		[]int{0, 1, 1, 1},
		[]float64{1, 2, 3, 4})
	require.NoError(t, err)
	require.Equal(t, 3, op.NNZ())

	// A = [1 5; 5 4]
	x := []float64{1, 1}
	y := make([]float64, 2)
	op.Apply(x, y)
	require.InDelta(t, 6, y[0], 1e-14)
	require.InDelta(t, 9, y[1], 1e-14)
}

func TestSparseSymOpUnorderedTriplets(t *testing.T) {
	// Triplet order must not matter.
	op1, err := NewSparseSymOp(3,
		[]int{2, 0, 1, 0},
		[]int{2, 0, 2, 1},
		[]float64{3, 1, 5, 4})
	require.NoError(t, err)

	op2, err := NewSparseSymOp(3,
		[]int{0, 0, 1, 2},
		[]int{0, 1, 2, 2},
		[]float64{1, 4, 5, 3})
	require.NoError(t, err)

	x := []float64{1, -2, 3}
	y1 := make([]float64, 3)
	y2 := make([]float64, 3)
	op1.Apply(x, y1)
	op2.Apply(x, y2)
	require.Equal(t, y2, y1)
}
