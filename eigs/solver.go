// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eigs

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// SymEigsSolver computes nev extremal eigenpairs of a real symmetric
// operator with the implicitly restarted Lanczos method, projecting onto
// a Krylov subspace of dimension ncv (nev < ncv ≤ n, typically 2·nev or
// larger).
//
// A solver instance is not thread-safe. Distinct instances are
// independent and may run concurrently provided their operators are too.
type SymEigsSolver struct {
	op    MatProd    // matrix product, direct mode
	shift ShiftSolve // shifted solve, shift-invert mode
	sigma float64

	n, nev, ncv int
	rule        Rule
	prec        float64 // ε^(2/3), precision floor of the convergence test
	logger      *Logger

	nmatop int // operator applications
	niter  int // restart iterations

	facV []float64 // n×ncv Lanczos basis, column-major
	facH []float64 // ncv×ncv projected matrix, row-major
	facF []float64 // length-n residual

	ritzVal  []float64 // ncv
	ritzVec  []float64 // ncv×nev, column-major
	ritzConv []bool    // nev

	tqr TridiagQR

	// restart and reorthogonalization scratch, sized at Init
	w     []float64 // n, operator output
	fk    []float64 // n, continuation residual
	em    []float64 // ncv, restart sentinel
	coef  []float64 // ncv, projection coefficients
	pairs []sortPair
	evals []float64
	evecs mat.Dense

	initialized bool
}

// New validates the problem sizes and prepares a solver in direct mode.
// ncv larger than the matrix order is clamped to it. Call Init before
// Compute.
func New(op MatProd, nev, ncv int, rule Rule) (*SymEigsSolver, error) {
	if op == nil {
		return nil, errors.New("eigs: matrix operator is required")
	}
	s, err := newSolver(op.Rows(), nev, ncv, rule)
	if err != nil {
		return nil, err
	}
	s.op = op
	return s, nil
}

func newSolver(n, nev, ncv int, rule Rule) (*SymEigsSolver, error) {
	if ncv > n {
		ncv = n
	}
	switch {
	case nev < 1 || nev >= n:
		return nil, ErrBadNev
	case ncv <= nev:
		return nil, ErrBadNcv
	case !realRule(rule):
		return nil, ErrBadRule
	}
	return &SymEigsSolver{
		n: n, nev: nev, ncv: ncv,
		rule: rule,
		prec: math.Pow(eps, 2.0/3),
	}, nil
}

// SetLogger attaches an iteration trace logger. A nil logger silences
// the solver, which is the default.
func (s *SymEigsSolver) SetLogger(l *Logger) { s.logger = l }

// applyOp runs one operator application, recovering a panicking user
// callback into ErrOperator.
func (s *SymEigsSolver) applyOp(x, y []float64) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrOperator, r)
		}
	}()
	if s.shift != nil {
		s.shift.ShiftSolve(x, y)
	} else {
		s.op.Apply(x, y)
	}
	s.nmatop++
	return
}

// Init resets all state, allocates the working storage reused across
// restarts and seeds the factorization with the residual r (length n).
// A nil r draws a random residual uniform on [-0.5, 0.5). Fails with
// ErrZeroResidual when ‖r‖ is below the precision floor.
func (s *SymEigsSolver) Init(r []float64) error {
	n, ncv, nev := s.n, s.ncv, s.nev

	alloc := func(buf []float64, size int) []float64 {
		if cap(buf) < size {
			return make([]float64, size)
		}
		buf = buf[:size]
		for i := range buf {
			buf[i] = zero
		}
		return buf
	}
	s.facV = alloc(s.facV, n*ncv)
	s.facH = alloc(s.facH, ncv*ncv)
	s.facF = alloc(s.facF, n)
	s.ritzVal = alloc(s.ritzVal, ncv)
	s.ritzVec = alloc(s.ritzVec, ncv*nev)
	s.w = alloc(s.w, n)
	s.fk = alloc(s.fk, n)
	s.em = alloc(s.em, ncv)
	s.coef = alloc(s.coef, ncv)
	if cap(s.ritzConv) < nev {
		s.ritzConv = make([]bool, nev)
	}
	s.ritzConv = s.ritzConv[:nev]
	for i := range s.ritzConv {
		s.ritzConv[i] = false
	}
	if cap(s.pairs) < ncv {
		s.pairs = make([]sortPair, ncv)
	}
	s.pairs = s.pairs[:ncv]

	s.nmatop = 0
	s.niter = 0
	s.initialized = false

	v := s.fk // borrow scratch for the normalized residual
	if r != nil {
		if len(r) != n {
			return errors.New("eigs: initial residual dimension not match operator")
		}
		copy(v, r)
	} else {
		for i := range v {
			v[i] = rand.Float64() - half
		}
	}

	vnorm := floats.Norm(v, 2)
	if vnorm < s.prec {
		return ErrZeroResidual
	}
	floats.Scale(one/vnorm, v)

	if err := s.applyOp(v, s.w); err != nil {
		return err
	}

	h00 := floats.Dot(v, s.w)
	s.facH[0] = h00
	copy(s.facF, s.w)
	floats.AddScaled(s.facF, -h00, v)
	copy(s.vcol(0), v)

	s.initialized = true
	return nil
}

// Compute runs the restarted iteration until nev Ritz pairs converge to
// tol or maxit restarts pass, whichever comes first. Non-positive maxit
// or tol select DefaultMaxIterations and DefaultTolerance. The returned
// count is min(nev, nconv); hitting maxit is not an error, the caller
// inspects the count.
//
// On return the converged pairs are sorted by decreasing magnitude
// regardless of the selection rule.
func (s *SymEigsSolver) Compute(maxit int, tol float64) (int, error) {
	if !s.initialized {
		return 0, ErrNotInitialized
	}
	if maxit <= 0 {
		maxit = DefaultMaxIterations
	}
	if tol <= 0 {
		tol = DefaultTolerance
	}

	s.printInit(maxit, tol)

	// The ncv-step Lanczos factorization.
	if err := s.factorizeFrom(1, s.ncv, s.facF); err != nil {
		return 0, err
	}
	if err := s.retrieveRitzpair(); err != nil {
		return 0, err
	}

	// Restarting.
	i, nconv := 0, 0
	for ; i < maxit; i++ {
		nconv = s.numConverged(tol)
		s.printIter(i, nconv)
		if nconv >= s.nev {
			break
		}
		if err := s.restart(s.nevAdjusted(nconv)); err != nil {
			return 0, err
		}
	}
	s.sortRitzpair()
	s.niter += min(i+1, maxit)

	nconv = min(s.nev, nconv)
	s.printExit(nconv)
	return nconv, nil
}

// Info reports the accumulated restart iteration and operator
// application counts.
func (s *SymEigsSolver) Info() (iters, matOps int) {
	return s.niter, s.nmatop
}

// Eigenvalues returns the converged eigenvalues in the canonical
// decreasing-magnitude order.
func (s *SymEigsSolver) Eigenvalues() []float64 {
	res := make([]float64, 0, s.nev)
	for i := 0; i < s.nev; i++ {
		if s.ritzConv[i] {
			res = append(res, s.ritzVal[i])
		}
	}
	return res
}

// Eigenvectors forms the converged eigenvectors V[:, :ncv]·Z as an
// n×nconv matrix, where Z holds the converged Ritz vectors. It returns
// nil when nothing converged.
func (s *SymEigsSolver) Eigenvectors() *mat.Dense {
	nconv := 0
	for i := 0; i < s.nev; i++ {
		if s.ritzConv[i] {
			nconv++
		}
	}
	if nconv == 0 {
		return nil
	}

	res := mat.NewDense(s.n, nconv, nil)
	col := make([]float64, s.n)
	j := 0
	for i := 0; i < s.nev; i++ {
		if !s.ritzConv[i] {
			continue
		}
		z := s.ritzVec[i*s.ncv : (i+1)*s.ncv]
		for r := range col {
			col[r] = zero
		}
		for k := 0; k < s.ncv; k++ {
			floats.AddScaled(col, z[k], s.vcol(k))
		}
		res.SetCol(j, col)
		j++
	}
	return res
}

func (s *SymEigsSolver) printInit(maxit int, tol float64) {
	log := s.logger
	if !log.enable(LogLast) {
		return
	}
	mode := "direct"
	if s.shift != nil {
		mode = fmt.Sprintf("shift-invert sigma= %g", s.sigma)
	}
	log.log("RUNNING THE IMPLICITLY RESTARTED LANCZOS CODE\n")
	log.log("           * * *\n")
	log.log("Precision floor = %10.3e\n", s.prec)
	log.log("N = %d    NEV = %d    NCV = %d    rule = %v    mode = %s\n", s.n, s.nev, s.ncv, s.rule, mode)
	log.log("maxit = %d    tol = %.3e\n", maxit, tol)
}

func (s *SymEigsSolver) printIter(iter, nconv int) {
	log := s.logger
	if !log.enable(LogIter) {
		return
	}
	log.log("At iterate %5d    nconv= %3d    |f|= %12.5e\n", iter, nconv, floats.Norm(s.facF, 2))
	if log.enable(LogDetail) {
		log.log("   ritz =")
		for i := 0; i < s.nev; i++ {
			log.log(" %12.5e", s.ritzVal[i])
		}
		log.log("\n")
	}
}

func (s *SymEigsSolver) printExit(nconv int) {
	log := s.logger
	if !log.enable(LogLast) {
		return
	}
	log.log("\n           * * *\n")
	log.log("Tit  = total number of restart iterations\n")
	log.log("Top  = total number of matrix operations\n")
	log.log("%6d %6d    nconv = %d\n", s.niter, s.nmatop, nconv)
}
