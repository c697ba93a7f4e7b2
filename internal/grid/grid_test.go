package grid

import (
	"math"
	"testing"
)

func TestNearestPicksClosestCandidate(t *testing.T) {
	values := []float64{0, 0.25, 0.5, 0.75, 1}

	cases := []struct {
		query float64
		want  float64
	}{
		{0.1, 0},
		{0.2, 0.25},
		{0.49, 0.5},
		{0.74, 0.75},
		{0.9, 1},
	}
	for _, tc := range cases {
		got, err := Nearest(values, tc.query)
		if err != nil {
			t.Fatalf("nearest(%g): %v", tc.query, err)
		}
		if got != tc.want {
			t.Fatalf("nearest(%g) = %g, want %g", tc.query, got, tc.want)
		}
		best := math.Abs(tc.query - got)
		for _, v := range values {
			if math.Abs(tc.query-v) < best {
				t.Fatalf("nearest(%g) = %g but %g is strictly closer", tc.query, got, v)
			}
		}
	}
}

func TestNearestTieResolvesToSmallerCandidate(t *testing.T) {
	values := []float64{0, 0.5, 1}
	got, err := Nearest(values, 0.25)
	if err != nil {
		t.Fatalf("nearest: %v", err)
	}
	if got != 0 {
		t.Fatalf("tie at 0.25 should resolve to 0, got %g", got)
	}
	got, err = Nearest(values, 0.75)
	if err != nil {
		t.Fatalf("nearest: %v", err)
	}
	if got != 0.5 {
		t.Fatalf("tie at 0.75 should resolve to 0.5, got %g", got)
	}
}

func TestNearestClampsAtBounds(t *testing.T) {
	values := []float64{-0.25, 0, 0.25}
	if got, _ := Nearest(values, -3); got != -0.25 {
		t.Fatalf("query below grid should clamp to first element, got %g", got)
	}
	if got, _ := Nearest(values, -0.25); got != -0.25 {
		t.Fatalf("query equal to first element should return it, got %g", got)
	}
	if got, _ := Nearest(values, 7); got != 0.25 {
		t.Fatalf("query above grid should clamp to last element, got %g", got)
	}
}

func TestNearestExactHit(t *testing.T) {
	values := []float64{0, 0.5, 1}
	got, err := Nearest(values, 0.5)
	if err != nil {
		t.Fatalf("nearest: %v", err)
	}
	if got != 0.5 {
		t.Fatalf("exact grid value should be returned unchanged, got %g", got)
	}
}

func TestNearestEmptyGrid(t *testing.T) {
	if _, err := Nearest(nil, 0.5); err == nil {
		t.Fatal("expected error for empty grid")
	}
}

func TestUniform(t *testing.T) {
	got, err := Uniform(3)
	if err != nil {
		t.Fatalf("uniform: %v", err)
	}
	want := []float64{0, 0.5, 1}
	if len(got) != len(want) {
		t.Fatalf("uniform(3) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("uniform(3)[%d] = %g, want %g", i, got[i], want[i])
		}
	}
}

func TestImportanceActionsExample(t *testing.T) {
	got, err := ImportanceActions(2, 0.5, 3)
	if err != nil {
		t.Fatalf("importance actions: %v", err)
	}
	if len(got) > 9 {
		t.Fatalf("expected at most 9 aggregated values, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i] <= got[i-1] {
			t.Fatalf("grid not strictly increasing at %d: %v", i, got)
		}
	}
	// dim 0 is {0, 0.5, 1}, dim 1 is {-0.25, 0, 0.25}; the extremes of the
	// sum set must be -0.25 and 1.25.
	if got[0] != -0.25 || got[len(got)-1] != 1.25 {
		t.Fatalf("unexpected grid bounds: %v", got)
	}
}

func TestImportanceActionsSingleDimensionIsUniform(t *testing.T) {
	got, err := ImportanceActions(1, 0.5, 5)
	if err != nil {
		t.Fatalf("importance actions: %v", err)
	}
	want, _ := Uniform(5)
	if len(got) != len(want) {
		t.Fatalf("maxDim=1 grid should be the uniform grid, got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("maxDim=1 grid[%d] = %g, want %g", i, got[i], want[i])
		}
	}
}

func TestImportanceActionsRejectsBadArguments(t *testing.T) {
	if _, err := ImportanceActions(0, 0.5, 3); err == nil {
		t.Fatal("expected error for maxDim < 1")
	}
	if _, err := ImportanceActions(2, 0, 3); err == nil {
		t.Fatal("expected error for base outside (0,1]")
	}
	if _, err := ImportanceActions(2, 1.5, 3); err == nil {
		t.Fatal("expected error for base outside (0,1]")
	}
	if _, err := ImportanceActions(2, 0.5, 1); err == nil {
		t.Fatal("expected error for n < 2")
	}
}
