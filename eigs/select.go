// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eigs

import (
	"cmp"
	"math"
	"slices"
)

// Rule selects which extremal eigenvalues are wanted: it defines the
// ordering that puts the wanted Ritz values first. The set is closed;
// rules acting on imaginary parts only apply to complex eigenvalues and
// are rejected by the symmetric-real solver.
type Rule int

const (
	// LargestMagnitude wants the eigenvalues of largest |λ|.
	LargestMagnitude Rule = iota
	// LargestReal wants the eigenvalues of largest real part.
	// For real eigenvalues this coincides with LargestAlgebraic.
	LargestReal
	// LargestImag wants the eigenvalues of largest |Im λ| (complex only).
	LargestImag
	// LargestAlgebraic wants the algebraically largest eigenvalues.
	LargestAlgebraic
	// SmallestMagnitude wants the eigenvalues of smallest |λ|.
	SmallestMagnitude
	// SmallestReal wants the eigenvalues of smallest real part.
	// For real eigenvalues this coincides with SmallestAlgebraic.
	SmallestReal
	// SmallestImag wants the eigenvalues of smallest |Im λ| (complex only).
	SmallestImag
	// SmallestAlgebraic wants the algebraically smallest eigenvalues.
	SmallestAlgebraic
	// BothEnds wants eigenvalues from both ends of the spectrum,
	// interleaved largest, smallest, 2nd largest, 2nd smallest, …
	BothEnds
)

func (r Rule) String() string {
	switch r {
	case LargestMagnitude:
		return "LM"
	case LargestReal:
		return "LR"
	case LargestImag:
		return "LI"
	case LargestAlgebraic:
		return "LA"
	case SmallestMagnitude:
		return "SM"
	case SmallestReal:
		return "SR"
	case SmallestImag:
		return "SI"
	case SmallestAlgebraic:
		return "SA"
	case BothEnds:
		return "BE"
	}
	return "??"
}

// realRule reports whether the rule orders real eigenvalues.
func realRule(r Rule) bool {
	switch r {
	case LargestMagnitude, LargestReal, LargestAlgebraic,
		SmallestMagnitude, SmallestReal, SmallestAlgebraic, BothEnds:
		return true
	}
	return false
}

// sortPair carries an eigenvalue estimate and its original index through
// the rule ordering.
type sortPair struct {
	val float64
	idx int
}

// ruleCompare returns the strict comparison of the rule for real scalars.
// A strict ordering keeps the stable sort well defined when duplicate
// eigenvalues occur.
func ruleCompare(rule Rule) func(a, b sortPair) int {
	switch rule {
	case LargestMagnitude:
		return func(a, b sortPair) int {
			return cmp.Compare(math.Abs(b.val), math.Abs(a.val))
		}
	case SmallestMagnitude:
		return func(a, b sortPair) int {
			return cmp.Compare(math.Abs(a.val), math.Abs(b.val))
		}
	case SmallestReal, SmallestAlgebraic:
		return func(a, b sortPair) int {
			return cmp.Compare(a.val, b.val)
		}
	default:
		// LargestReal, LargestAlgebraic and BothEnds order by
		// descending value; BothEnds interleaves afterwards.
		return func(a, b sortPair) int {
			return cmp.Compare(b.val, a.val)
		}
	}
}

// sortByRule stably orders the pairs so that the wanted values come first.
// For BothEnds the descending order is interleaved so positions
// 0, 2, 4, … hold the largest values and 1, 3, 5, … the smallest; any
// prefix of the result is then a wanted set balanced across both ends.
func sortByRule(rule Rule, pairs []sortPair) {
	slices.SortStableFunc(pairs, ruleCompare(rule))
	if rule != BothEnds {
		return
	}
	m := len(pairs)
	ordered := slices.Clone(pairs)
	for i := 0; i < m; i++ {
		if i%2 == 0 {
			pairs[i] = ordered[i/2]
		} else {
			pairs[i] = ordered[m-1-i/2]
		}
	}
}
