// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eigs

import "math"

// UpperHessenbergQR holds the QR decomposition T = Q·R of an upper
// Hessenberg matrix of order n, with Q represented as a product of
// Givens rotations
//
//	Gᵢ = ⎡ cᵢ  sᵢ ⎤
//	     ⎣-sᵢ  cᵢ ⎦
//	Q  = G₁·G₂·…·G₍ₙ₋₁₎
//
// where Gᵢ acts on the (i, i+1) plane. The zero value is ready for use;
// queries before Compute fail with ErrNotComputed.
type UpperHessenbergQR struct {
	n        int
	matT     []float64 // n×n row-major working copy, overwritten with R
	rotCos   []float64 // n-1
	rotSin   []float64 // n-1
	computed bool
}

// givens returns the rotation (c, s) with c = a/r, s = -b/r and
// r = ±(a²+b²)¹ᐟ², branching on |a| ≥ |b| so neither quotient overflows.
func givens(a, b float64) (c, s float64) {
	if math.Abs(a) >= math.Abs(b) {
		t := b / a
		d := math.Sqrt(one + t*t) // sign(a·d) = sign(r)
		c = one / d
		s = -t / d
		return
	}
	t := a / b
	d := math.Sqrt(one + t*t)
	s = -one / d
	c = t / d
	return
}

// resize prepares the working buffers for order n and copies t in.
func (qr *UpperHessenbergQR) resize(t []float64, n int) {
	if n <= 0 || len(t) < n*n {
		panic("bound check error")
	}
	qr.n = n
	if cap(qr.matT) < n*n {
		qr.matT = make([]float64, n*n)
		qr.rotCos = make([]float64, n-1)
		qr.rotSin = make([]float64, n-1)
	}
	qr.matT = qr.matT[:n*n]
	qr.rotCos = qr.rotCos[:n-1]
	qr.rotSin = qr.rotSin[:n-1]
	copy(qr.matT, t[:n*n])
	qr.computed = false
}

// Compute factorizes the upper Hessenberg matrix t (n×n row-major).
// The rotation at step i zeroes t[i+1, i]; if both pivot elements are
// below machine epsilon the rotation is degenerate and Compute fails
// with ErrSingularRotation.
func (qr *UpperHessenbergQR) Compute(t []float64, n int) error {
	qr.resize(t, n)
	w := qr.matT
	for i := 0; i < n-1; i++ {
		xi, xj := w[i*n+i], w[(i+1)*n+i]
		if math.Abs(xi) <= eps && math.Abs(xj) <= eps {
			return ErrSingularRotation
		}
		c, s := givens(xi, xj)
		qr.rotCos[i], qr.rotSin[i] = c, s

		// Apply Gᵢᵀ from the left to rows (i, i+1).
		ri, rj := w[i*n:(i+1)*n], w[(i+1)*n:(i+2)*n]
		for j := i; j < n; j++ {
			tmp := ri[j]
			ri[j] = c*tmp - s*rj[j]
			rj[j] = s*tmp + c*rj[j]
		}
		rj[i] = zero
	}
	qr.computed = true
	return nil
}

// MatrixRQ writes R·Q into dst (n×n row-major). The result is upper
// Hessenberg: each rotation recombines a column pair of R from the right,
// filling one subdiagonal.
func (qr *UpperHessenbergQR) MatrixRQ(dst []float64) error {
	if !qr.computed {
		return ErrNotComputed
	}
	n := qr.n
	if len(dst) < n*n {
		panic("bound check error")
	}
	copy(dst[:n*n], qr.matT)
	for i := 0; i < n-1; i++ {
		// Column i of R has no entries below row i, column i+1 none
		// below row i+1, so rows 0..i+1 are the only ones touched.
		c, s := qr.rotCos[i], qr.rotSin[i]
		for r := 0; r <= i+1; r++ {
			tmp := dst[r*n+i]
			dst[r*n+i] = c*tmp - s*dst[r*n+i+1]
			dst[r*n+i+1] = s*tmp + c*dst[r*n+i+1]
		}
	}
	return nil
}

// ApplyYQ overwrites Y with Y·Q. Y is rows×n, stored column-major with
// each column contiguous, so one rotation streams over a column pair.
// Q is never materialized.
func (qr *UpperHessenbergQR) ApplyYQ(y []float64, rows int) error {
	if !qr.computed {
		return ErrNotComputed
	}
	n := qr.n
	if rows <= 0 || len(y) < rows*n {
		panic("bound check error")
	}
	for i := 0; i < n-1; i++ {
		c, s := qr.rotCos[i], qr.rotSin[i]
		ci := y[i*rows : (i+1)*rows]
		cj := y[(i+1)*rows : (i+2)*rows]
		for r := range ci {
			tmp := ci[r]
			ci[r] = c*tmp - s*cj[r]
			cj[r] = s*tmp + c*cj[r]
		}
	}
	return nil
}

// ApplyQtVec overwrites v with Qᵀ·v.
func (qr *UpperHessenbergQR) ApplyQtVec(v []float64) error {
	if !qr.computed {
		return ErrNotComputed
	}
	n := qr.n
	if len(v) < n {
		panic("bound check error")
	}
	// Qᵀ = G₍ₙ₋₁₎ᵀ·…·G₁ᵀ applied innermost first.
	for i := 0; i < n-1; i++ {
		c, s := qr.rotCos[i], qr.rotSin[i]
		tmp := v[i]
		v[i] = c*tmp - s*v[i+1]
		v[i+1] = s*tmp + c*v[i+1]
	}
	return nil
}

// TridiagQR specializes UpperHessenbergQR for symmetric tridiagonal
// matrices: each rotation reaches at most three columns, R carries at
// most two superdiagonals, and R·Q is tridiagonal again.
type TridiagQR struct {
	UpperHessenbergQR
}

// Compute factorizes the tridiagonal matrix t (n×n row-major). Entries
// outside the band are not referenced except t[i, i+2], which enters
// rotation i and must be zero.
func (qr *TridiagQR) Compute(t []float64, n int) error {
	qr.resize(t, n)
	w := qr.matT
	for i := 0; i < n-1; i++ {
		xi, xj := w[i*n+i], w[(i+1)*n+i]
		if math.Abs(xi) <= eps && math.Abs(xj) <= eps {
			return ErrSingularRotation
		}
		c, s := givens(xi, xj)
		qr.rotCos[i], qr.rotSin[i] = c, s

		ri, rj := w[i*n:(i+1)*n], w[(i+1)*n:(i+2)*n]
		last := min(i+2, n-1)
		for j := i; j <= last; j++ {
			tmp := ri[j]
			ri[j] = c*tmp - s*rj[j]
			rj[j] = s*tmp + c*rj[j]
		}
		rj[i] = zero
	}
	qr.computed = true
	return nil
}

// MatrixRQ writes the tridiagonal R·Q into dst (n×n row-major).
// Tracking the band through the column rotations gives
//
//	(RQ)ᵢᵢ     = cᵢ·cᵢ₋₁·Rᵢᵢ - sᵢ·Rᵢ,ᵢ₊₁
//	(RQ)ᵢ₊₁,ᵢ  = -sᵢ·Rᵢ₊₁,ᵢ₊₁
//
// with c₋₁ = 1; the superdiagonal mirrors the subdiagonal and everything
// outside the band is exactly zero.
func (qr *TridiagQR) MatrixRQ(dst []float64) error {
	if !qr.computed {
		return ErrNotComputed
	}
	n := qr.n
	if len(dst) < n*n {
		panic("bound check error")
	}
	for i := range dst[:n*n] {
		dst[i] = zero
	}
	w := qr.matT
	cPrev := one
	for i := 0; i < n-1; i++ {
		c, s := qr.rotCos[i], qr.rotSin[i]
		dst[i*n+i] = c*cPrev*w[i*n+i] - s*w[i*n+i+1]
		sub := -s * w[(i+1)*n+i+1]
		dst[(i+1)*n+i] = sub
		dst[i*n+i+1] = sub
		cPrev = c
	}
	dst[(n-1)*n+n-1] = cPrev * w[(n-1)*n+n-1]
	return nil
}
