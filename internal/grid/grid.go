// Package grid builds discretized action-value grids and answers
// nearest-value queries against them.
package grid

import (
	"fmt"
	"sort"
)

// Nearest returns the element of values closest to query. values must be
// sorted ascending. An exact tie between the two straddling candidates
// resolves to the smaller one; queries at or beyond either end clamp to the
// first or last element.
func Nearest(values []float64, query float64) (float64, error) {
	if len(values) == 0 {
		return 0, fmt.Errorf("nearest: empty value grid")
	}

	idx := sort.SearchFloat64s(values, query)
	if idx == 0 {
		return values[0], nil
	}
	if idx == len(values) {
		return values[len(values)-1], nil
	}

	distLow := query - values[idx-1]
	distHigh := values[idx] - query
	if distLow <= distHigh {
		return values[idx-1], nil
	}
	return values[idx], nil
}

// Uniform returns n evenly spaced values covering [0,1].
func Uniform(n int) ([]float64, error) {
	if n < 2 {
		return nil, fmt.Errorf("uniform grid needs at least 2 values, got %d", n)
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i) / float64(n-1)
	}
	return out, nil
}

// ImportanceActions builds the aggregated action grid for the
// importance-weighted sigmoid setting. Dimension 0 contributes n evenly
// spaced values in [0,1]; every further dimension i contributes the centered
// values base^i * (j/(n-1) - 0.5). The returned grid is the deduplicated,
// ascending set of all Cartesian sums. Output size grows as n^maxDim before
// deduplication; the caller bounds maxDim.
func ImportanceActions(maxDim int, base float64, n int) ([]float64, error) {
	if maxDim < 1 {
		return nil, fmt.Errorf("importance grid needs maxDim >= 1, got %d", maxDim)
	}
	if n < 2 {
		return nil, fmt.Errorf("importance grid needs at least 2 values per dimension, got %d", n)
	}
	if base <= 0 || base > 1 {
		return nil, fmt.Errorf("importance base must be in (0,1], got %g", base)
	}

	perDim := make([][]float64, maxDim)
	first, err := Uniform(n)
	if err != nil {
		return nil, err
	}
	perDim[0] = first

	weight := 1.0
	for i := 1; i < maxDim; i++ {
		weight *= base
		vals := make([]float64, n)
		for j := 0; j < n; j++ {
			vals[j] = weight * (float64(j)/float64(n-1) - 0.5)
		}
		perDim[i] = vals
	}

	sums := []float64{0}
	for _, vals := range perDim {
		next := make([]float64, 0, len(sums)*len(vals))
		for _, s := range sums {
			for _, v := range vals {
				next = append(next, s+v)
			}
		}
		sums = next
	}

	sort.Float64s(sums)
	out := sums[:0]
	for i, v := range sums {
		if i == 0 || v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return append([]float64(nil), out...), nil
}
