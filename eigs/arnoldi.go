// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eigs

import (
	"errors"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// The Lanczos factorization maintained between restarts satisfies
//
//	A·V[:, :m] = V[:, :m]·H[:m, :m] + f·eₘ₋₁ᵀ
//
// with V orthonormal and H symmetric tridiagonal. H is kept as a full
// ncv×ncv matrix: the restart rotations smear its band and the dense
// eigendecomposition consumes it whole.

// vcol returns column i of the Lanczos basis.
func (s *SymEigsSolver) vcol(i int) []float64 {
	return s.facV[i*s.n : (i+1)*s.n]
}

// factorizeFrom extends the factorization from length fromK to length toM
// using fk as the residual at position fromK. Columns 0..fromK-1 of V and
// the top-left fromK×fromK block of H must be valid on entry.
func (s *SymEigsSolver) factorizeFrom(fromK, toM int, fk []float64) error {
	if toM <= fromK {
		return nil
	}

	n, ncv, h := s.n, s.ncv, s.facH
	copy(s.facF, fk[:n])

	// Keep the upper-left fromK×fromK submatrix of H and zero the
	// regions the extension overwrites.
	for i := 0; i < ncv; i++ {
		row := h[i*ncv : (i+1)*ncv]
		for j := fromK; j < ncv; j++ {
			row[j] = zero
		}
		if i >= fromK {
			for j := 0; j < fromK; j++ {
				row[j] = zero
			}
		}
	}

	for i := fromK; i < toM; i++ {
		beta := floats.Norm(s.facF, 2)
		if beta < s.prec {
			// The Krylov subspace is invariant before reaching toM.
			// Continue with a random direction orthogonal to the
			// current basis; the zero subdiagonal entry keeps the
			// factorization identity exact with a decoupled block.
			s.padResidual(i)
			beta = floats.Norm(s.facF, 2)
			h[i*ncv+i-1] = zero
			h[(i-1)*ncv+i] = zero
		} else {
			h[i*ncv+i-1] = beta
			h[(i-1)*ncv+i] = beta
		}

		v := s.vcol(i)
		floats.ScaleTo(v, one/beta, s.facF)

		if err := s.applyOp(v, s.w); err != nil {
			return err
		}

		hii := floats.Dot(v, s.w)
		h[i*ncv+i] = hii

		// Three-term recurrence: f = w - H[i,i-1]·vᵢ₋₁ - H[i,i]·vᵢ.
		copy(s.facF, s.w)
		floats.AddScaled(s.facF, -h[i*ncv+i-1], s.vcol(i-1))
		floats.AddScaled(s.facF, -hii, v)

		// Orthogonality of f degrades mostly against the first basis
		// vector, so ⟨v₀, f⟩ serves as a cheap sentinel; the full
		// projection is taken only when it trips. Single pass.
		v1f := floats.Dot(s.facF, s.vcol(0))
		if v1f > s.prec || v1f < -s.prec {
			s.coef[0] = v1f
			for j := 1; j <= i; j++ {
				s.coef[j] = floats.Dot(s.vcol(j), s.facF)
			}
			for j := 0; j <= i; j++ {
				floats.AddScaled(s.facF, -s.coef[j], s.vcol(j))
			}
		}
	}
	return nil
}

// padResidual replaces the exhausted residual with a random direction
// orthogonalized against columns 0..i-1 of V.
func (s *SymEigsSolver) padResidual(i int) {
	for {
		for r := range s.facF {
			s.facF[r] = rand.Float64() - half
		}
		for j := 0; j < i; j++ {
			s.coef[j] = floats.Dot(s.vcol(j), s.facF)
		}
		for j := 0; j < i; j++ {
			floats.AddScaled(s.facF, -s.coef[j], s.vcol(j))
		}
		if floats.Norm(s.facF, 2) >= s.prec {
			return
		}
	}
}

// restart compresses the length-ncv factorization to length k with one
// implicitly shifted QR sweep per unwanted Ritz value, then extends it
// back to length ncv and recomputes the Ritz pairs.
func (s *SymEigsSolver) restart(k int) error {
	if k >= s.ncv {
		return nil
	}

	n, ncv, h := s.n, s.ncv, s.facH
	for i := range s.em {
		s.em[i] = zero
	}
	s.em[ncv-1] = one

	for i := k; i < ncv; i++ {
		mu := s.ritzVal[i]
		// QR decomposition of H - μI, μ is the shift.
		for j := 0; j < ncv; j++ {
			h[j*ncv+j] -= mu
		}
		if err := s.tqr.Compute(h, ncv); err != nil {
			return err
		}
		// V -> VQ
		if err := s.tqr.ApplyYQ(s.facV, n); err != nil {
			return err
		}
		// Since QR = H - μI we have H = QR + μI,
		// therefore QᵀHQ = RQ + μI.
		if err := s.tqr.MatrixRQ(h); err != nil {
			return err
		}
		for j := 0; j < ncv; j++ {
			h[j*ncv+j] += mu
		}
		// em -> Qᵀem: the sentinel must follow every reorganization
		// of V, it carries the continuation coefficient.
		if err := s.tqr.ApplyQtVec(s.em); err != nil {
			return err
		}
	}

	// fₖ = f·em[k-1] + V[:, k]·H[k, k-1]
	ek, hk := s.em[k-1], h[k*ncv+k-1]
	vk := s.vcol(k)
	for r := 0; r < n; r++ {
		s.fk[r] = s.facF[r]*ek + vk[r]*hk
	}

	if err := s.factorizeFrom(k, ncv, s.fk); err != nil {
		return err
	}
	return s.retrieveRitzpair()
}

// numConverged flags the wanted Ritz pairs whose residual estimate
// |zᵢ[ncv-1]|·‖f‖ falls below tol·clamp(|θᵢ|, ε^(2/3), max|θ|) and
// returns their count.
func (s *SymEigsSolver) numConverged(tol float64) int {
	fnorm := floats.Norm(s.facF, 2)

	maxAbs := s.prec
	for i := 0; i < s.nev; i++ {
		if rv := math.Abs(s.ritzVal[i]); rv > maxAbs {
			maxAbs = rv
		}
	}

	nconv := 0
	for i := 0; i < s.nev; i++ {
		rv := math.Abs(s.ritzVal[i])
		thresh := tol * math.Min(math.Max(rv, s.prec), maxAbs)
		resid := math.Abs(s.ritzVec[i*s.ncv+s.ncv-1]) * fnorm
		s.ritzConv[i] = resid < thresh
		if s.ritzConv[i] {
			nconv++
		}
	}
	return nconv
}

// nevAdjusted inflates the restart size to resist stagnation,
// following dsaup2.f line 677~684 in ARPACK.
func (s *SymEigsSolver) nevAdjusted(nconv int) int {
	nevNew := s.nev + min(nconv, (s.ncv-s.nev)/2)
	if s.nev == 1 && s.ncv >= 6 {
		nevNew = s.ncv / 2
	} else if s.nev == 1 && s.ncv > 2 {
		nevNew = 2
	}
	return nevNew
}

// retrieveRitzpair eigendecomposes H, orders the eigenvalues under the
// selection rule and copies the wanted pairs into the Ritz state.
func (s *SymEigsSolver) retrieveRitzpair() error {
	ncv := s.ncv

	var es mat.EigenSym
	if !es.Factorize(mat.NewSymDense(ncv, s.facH), true) {
		return errors.New("eigs: eigendecomposition of the projected matrix failed")
	}
	evals := es.Values(s.evals)
	s.evals = evals
	es.VectorsTo(&s.evecs)

	for i := 0; i < ncv; i++ {
		s.pairs[i] = sortPair{val: evals[i], idx: i}
	}
	sortByRule(s.rule, s.pairs)

	for i := 0; i < ncv; i++ {
		s.ritzVal[i] = s.pairs[i].val
	}
	for i := 0; i < s.nev; i++ {
		src := s.pairs[i].idx
		col := s.ritzVec[i*ncv : (i+1)*ncv]
		for r := 0; r < ncv; r++ {
			col[r] = s.evecs.At(r, src)
		}
	}
	return nil
}

// sortRitzpair reorders the first nev Ritz pairs into the canonical
// decreasing-magnitude output order, regardless of the selection rule.
// In shift-invert mode the Ritz values are mapped back to the original
// spectrum first.
func (s *SymEigsSolver) sortRitzpair() {
	if s.shift != nil {
		for i := 0; i < s.nev; i++ {
			s.ritzVal[i] = one/s.ritzVal[i] + s.sigma
		}
	}

	pairs := s.pairs[:s.nev]
	for i := 0; i < s.nev; i++ {
		pairs[i] = sortPair{val: s.ritzVal[i], idx: i}
	}
	sortByRule(LargestMagnitude, pairs)

	ncv := s.ncv
	newVec := make([]float64, ncv*s.nev)
	newConv := make([]bool, s.nev)
	for i := 0; i < s.nev; i++ {
		src := pairs[i].idx
		s.ritzVal[i] = pairs[i].val
		copy(newVec[i*ncv:(i+1)*ncv], s.ritzVec[src*ncv:(src+1)*ncv])
		newConv[i] = s.ritzConv[src]
	}
	copy(s.ritzVec, newVec)
	copy(s.ritzConv, newConv)
}
