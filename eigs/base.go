// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package eigs computes a few extremal eigenvalues and eigenvectors of a
// large real symmetric matrix with the implicitly restarted Lanczos method.
//
// The matrix is never formed: the solver only requires an operator
// computing y ← A·x. Eigenvalues near a target σ are reachable through the
// shift-invert construction, which replaces the operator action with
// (A-σI)⁻¹·x and maps the Ritz values back on output.
package eigs

import (
	"errors"
	"fmt"
	"io"
)

const (
	zero = 0.0
	one  = 1.0
	half = 0.5
	eps  = float64(7)/3 - float64(4)/3 - 1.
)

const (
	// DefaultMaxIterations bounds the number of implicit restarts
	// when Compute is called with maxit ≤ 0.
	DefaultMaxIterations = 1000
	// DefaultTolerance is the convergence tolerance used
	// when Compute is called with tol ≤ 0.
	DefaultTolerance = 1e-10
)

var (
	// ErrBadNev reports an eigenvalue count outside 1 ≤ nev < n.
	ErrBadNev = errors.New("eigs: nev must be greater than zero and less than the matrix order")
	// ErrBadNcv reports a subspace dimension not greater than nev.
	ErrBadNcv = errors.New("eigs: ncv must be greater than nev")
	// ErrBadRule reports a selection rule not applicable to real symmetric problems.
	ErrBadRule = errors.New("eigs: selection rule not applicable to real eigenvalues")
	// ErrZeroResidual reports an initial residual below the precision floor.
	ErrZeroResidual = errors.New("eigs: initial residual vector cannot be zero")
	// ErrNotComputed reports a query on a QR decomposition before Compute.
	ErrNotComputed = errors.New("eigs: decomposition is not computed")
	// ErrSingularRotation reports a degenerate Givens pair during a QR sweep.
	// Callers treat this as a numerical stall of the restart.
	ErrSingularRotation = errors.New("eigs: degenerate Givens rotation")
	// ErrNotInitialized reports Compute called before Init.
	ErrNotInitialized = errors.New("eigs: solver is not initialized")
	// ErrOperator wraps a panic escaping the user matrix operator.
	ErrOperator = errors.New("eigs: matrix operator failed")
)

// LogLevel controls the frequency and type of logger output.
type LogLevel int

const (
	// LogNoop no output is generated.
	LogNoop LogLevel = -1
	// LogLast print only the exit summary.
	LogLast LogLevel = 0
	// LogIter print one line per restart iteration.
	LogIter LogLevel = 1
	// LogDetail print also the leading Ritz values of every iteration.
	LogDetail LogLevel = 2
)

// Logger handles iteration trace output for the solver.
// Note the writer must be thread-safe.
type Logger struct {
	Level LogLevel
	Msg   io.Writer
}

func (l *Logger) enable(level LogLevel) bool {
	return l != nil && l.Msg != nil && l.Level >= level
}

func (l *Logger) log(format string, a ...any) {
	if len(a) > 0 {
		_, _ = fmt.Fprintf(l.Msg, format, a...)
	} else {
		_, _ = fmt.Fprint(l.Msg, format)
	}
}
