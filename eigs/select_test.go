// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eigs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func pairsOf(vals ...float64) []sortPair {
	p := make([]sortPair, len(vals))
	for i, v := range vals {
		p[i] = sortPair{val: v, idx: i}
	}
	return p
}

func valuesOf(p []sortPair) []float64 {
	v := make([]float64, len(p))
	for i := range p {
		v[i] = p[i].val
	}
	return v
}

func TestRuleOrderings(t *testing.T) {
	src := []float64{-3, 1, 4, -1, 0, 2, -4}

	cases := []struct {
		rule Rule
		want []float64
	}{
		{LargestMagnitude, []float64{4, -4, -3, 2, 1, -1, 0}},
		{SmallestMagnitude, []float64{0, 1, -1, 2, -3, 4, -4}},
		{LargestAlgebraic, []float64{4, 2, 1, 0, -1, -3, -4}},
		{LargestReal, []float64{4, 2, 1, 0, -1, -3, -4}},
		{SmallestAlgebraic, []float64{-4, -3, -1, 0, 1, 2, 4}},
		{SmallestReal, []float64{-4, -3, -1, 0, 1, 2, 4}},
	}
	for _, c := range cases {
		p := pairsOf(src...)
		sortByRule(c.rule, p)
		require.Equal(t, c.want, valuesOf(p), "rule %v", c.rule)
	}
}

func TestBothEndsInterleaving(t *testing.T) {
	p := pairsOf(3, 1, 6, 2, 5, 4)
	sortByRule(BothEnds, p)
	// Largest, smallest, 2nd largest, 2nd smallest, …
	require.Equal(t, []float64{6, 1, 5, 2, 4, 3}, valuesOf(p))

	// Any prefix is balanced across both ends.
	p = pairsOf(1, 2, 3, 4, 5)
	sortByRule(BothEnds, p)
	require.Equal(t, []float64{5, 1, 4, 2, 3}, valuesOf(p))
}

func TestRuleSortStability(t *testing.T) {
	// Duplicates keep their original relative order: the strict
	// comparison never swaps ties.
	p := []sortPair{
		{val: 2, idx: 0},
		{val: -2, idx: 1},
		{val: 2, idx: 2},
		{val: -2, idx: 3},
	}
	sortByRule(LargestMagnitude, p)
	require.Equal(t, []int{0, 1, 2, 3}, []int{p[0].idx, p[1].idx, p[2].idx, p[3].idx})

	sortByRule(SmallestMagnitude, p)
	require.Equal(t, []int{0, 1, 2, 3}, []int{p[0].idx, p[1].idx, p[2].idx, p[3].idx})

	p = []sortPair{
		{val: 1, idx: 0},
		{val: 1, idx: 1},
		{val: 0, idx: 2},
		{val: 1, idx: 3},
	}
	sortByRule(SmallestAlgebraic, p)
	require.Equal(t, 0.0, p[0].val)
	require.Equal(t, []int{0, 1, 3}, []int{p[1].idx, p[2].idx, p[3].idx})
}

func TestRealRules(t *testing.T) {
	require.True(t, realRule(LargestMagnitude))
	require.True(t, realRule(LargestReal))
	require.True(t, realRule(LargestAlgebraic))
	require.True(t, realRule(SmallestMagnitude))
	require.True(t, realRule(SmallestReal))
	require.True(t, realRule(SmallestAlgebraic))
	require.True(t, realRule(BothEnds))
	require.False(t, realRule(LargestImag))
	require.False(t, realRule(SmallestImag))
	require.False(t, realRule(Rule(99)))
}

func TestRuleString(t *testing.T) {
	require.Equal(t, "LM", LargestMagnitude.String())
	require.Equal(t, "SM", SmallestMagnitude.String())
	require.Equal(t, "LA", LargestAlgebraic.String())
	require.Equal(t, "SA", SmallestAlgebraic.String())
	require.Equal(t, "BE", BothEnds.String())
	require.Equal(t, "??", Rule(99).String())
}
