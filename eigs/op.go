// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eigs

import (
	"gonum.org/v1/gonum/mat"
)

// MatProd is the linear operator y ← A·x for a real symmetric matrix A
// of order Rows. The solver calls Apply from a single call site and never
// copies the operator; Apply may parallelize internally but must not
// mutate solver state.
type MatProd interface {
	// Rows returns the order n of the matrix.
	Rows() int
	// Apply computes y ← A·x. Both slices have length Rows.
	Apply(x, y []float64)
}

// ShiftSolve is the operator backing shift-invert mode: y ← (A-σI)⁻¹·x.
// The linear solve itself is the implementer's concern; SetShift is called
// once at solver construction, before any ShiftSolve.
type ShiftSolve interface {
	// Rows returns the order n of the matrix.
	Rows() int
	// SetShift fixes the shift σ for subsequent solves.
	SetShift(sigma float64)
	// ShiftSolve computes y ← (A-σI)⁻¹·x. Both slices have length Rows.
	ShiftSolve(x, y []float64)
}

// DenseSymOp is a MatProd over an explicitly stored dense symmetric matrix.
type DenseSymOp struct {
	a *mat.SymDense
}

// NewDenseSymOp wraps a dense symmetric matrix as an operator.
// The matrix is referenced, not copied.
func NewDenseSymOp(a *mat.SymDense) *DenseSymOp {
	return &DenseSymOp{a: a}
}

func (op *DenseSymOp) Rows() int { return op.a.SymmetricDim() }

func (op *DenseSymOp) Apply(x, y []float64) {
	n := op.a.SymmetricDim()
	yv := mat.NewVecDense(n, y)
	yv.MulVec(op.a, mat.NewVecDense(n, x))
}

// DenseShiftOp is a ShiftSolve over an explicitly stored dense symmetric
// matrix, factorizing A-σI once per shift with an LU decomposition.
type DenseShiftOp struct {
	a  *mat.SymDense
	lu mat.LU
}

// NewDenseShiftOp wraps a dense symmetric matrix as a shifted-solve
// operator. The matrix is referenced, not copied; the factorization is
// formed on SetShift.
func NewDenseShiftOp(a *mat.SymDense) *DenseShiftOp {
	return &DenseShiftOp{a: a}
}

func (op *DenseShiftOp) Rows() int { return op.a.SymmetricDim() }

func (op *DenseShiftOp) SetShift(sigma float64) {
	n := op.a.SymmetricDim()
	shifted := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v := op.a.At(i, j)
			if i == j {
				v -= sigma
			}
			shifted.Set(i, j, v)
		}
	}
	op.lu.Factorize(shifted)
}

func (op *DenseShiftOp) ShiftSolve(x, y []float64) {
	n := op.a.SymmetricDim()
	yv := mat.NewVecDense(n, y)
	if err := op.lu.SolveVecTo(yv, false, mat.NewVecDense(n, x)); err != nil {
		panic(err) // singular A-σI: σ is an eigenvalue of A
	}
}
