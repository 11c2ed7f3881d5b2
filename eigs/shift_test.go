// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eigs

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

func diagSymDense(d []float64) *mat.SymDense {
	a := mat.NewSymDense(len(d), nil)
	for i, v := range d {
		a.SetSym(i, i, v)
	}
	return a
}

func TestShiftInvertNearestPair(t *testing.T) {
	// A = diag(1, …, 10), σ = 5.5: the nearest eigenvalues are 5 and 6.
	d := make([]float64, 10)
	for i := range d {
		d[i] = float64(i + 1)
	}
	a := diagSymDense(d)

	op := NewDenseShiftOp(a)
	s, err := NewShift(op, 2, 6, 5.5, LargestMagnitude)
	require.NoError(t, err)
	require.NoError(t, s.Init(ones(10)))

	nconv, err := s.Compute(DefaultMaxIterations, DefaultTolerance)
	require.NoError(t, err)
	require.Equal(t, 2, nconv)

	// Untransformed and reported by magnitude: 6, 5.
	vals := s.Eigenvalues()
	require.InDelta(t, 6, vals[0], 1e-9)
	require.InDelta(t, 5, vals[1], 1e-9)

	// Eigenvectors belong to the original operator A.
	direct := NewDenseSymOp(a)
	requireEigenpairs(t, direct, s, 1e-7)
}

func TestShiftInvertInteriorCluster(t *testing.T) {
	// An interior cluster invisible to direct extremal iteration.
	d := []float64{-90, -60, -30, 0.9, 1.0, 1.1, 30, 60, 90}
	a := diagSymDense(d)

	op := NewDenseShiftOp(a)
	s, err := NewShift(op, 3, 7, 1.05, LargestMagnitude)
	require.NoError(t, err)
	require.NoError(t, s.Init(ones(len(d))))

	nconv, err := s.Compute(DefaultMaxIterations, DefaultTolerance)
	require.NoError(t, err)
	require.Equal(t, 3, nconv)

	vals := s.Eigenvalues()
	require.Len(t, vals, 3)
	// The cluster {0.9, 1.0, 1.1} by magnitude descending.
	require.InDelta(t, 1.1, vals[0], 1e-9)
	require.InDelta(t, 1.0, vals[1], 1e-9)
	require.InDelta(t, 0.9, vals[2], 1e-9)

	direct := NewDenseSymOp(a)
	requireEigenpairs(t, direct, s, 1e-7)
}

func TestShiftInvertValidation(t *testing.T) {
	a := diagSymDense(ones(5))
	_, err := NewShift(nil, 2, 4, 0.5, LargestMagnitude)
	require.Error(t, err)

	_, err = NewShift(NewDenseShiftOp(a), 0, 4, 0.5, LargestMagnitude)
	require.ErrorIs(t, err, ErrBadNev)
}

func TestDenseShiftOpSolve(t *testing.T) {
	// (A - σI)·y = x must hold for the wrapped solve.
	d := []float64{2, 4, 6, 8}
	a := diagSymDense(d)
	op := NewDenseShiftOp(a)
	op.SetShift(3)

	x := []float64{1, 2, 3, 4}
	y := make([]float64, 4)
	op.ShiftSolve(x, y)

	res := make([]float64, 4)
	for i := range res {
		res[i] = (d[i]-3)*y[i] - x[i]
	}
	require.InDelta(t, 0, floats.Norm(res, 2), 1e-12)
}
