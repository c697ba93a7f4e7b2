package policy

import (
	"math/rand"
	"path/filepath"
	"testing"
)

func TestQNetworkForwardShapes(t *testing.T) {
	q, err := NewQNetwork(4, 3, 8, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("new q-network: %v", err)
	}
	values, err := q.Forward([]float64{0.1, 0.2, 0.3, 0.4})
	if err != nil {
		t.Fatalf("forward: %v", err)
	}
	if len(values) != 3 {
		t.Fatalf("forward returned %d values, want 3", len(values))
	}
	if _, err := q.Forward([]float64{0.1}); err == nil {
		t.Fatal("expected error for wrong observation size")
	}
}

func TestQNetworkGreedyDeterministic(t *testing.T) {
	q, err := NewQNetwork(3, 5, 8, rand.New(rand.NewSource(2)))
	if err != nil {
		t.Fatalf("new q-network: %v", err)
	}
	obs := []float64{0.5, -0.25, 1}
	a, err := q.Greedy(obs)
	if err != nil {
		t.Fatalf("greedy: %v", err)
	}
	b, err := q.Greedy(obs)
	if err != nil {
		t.Fatalf("greedy: %v", err)
	}
	if a != b {
		t.Fatalf("greedy action not deterministic: %d vs %d", a, b)
	}
	if a < 0 || a >= 5 {
		t.Fatalf("greedy action %d out of range", a)
	}
}

func TestCheckpointRoundTrip(t *testing.T) {
	dir := t.TempDir()
	q, err := NewQNetwork(4, 3, 6, rand.New(rand.NewSource(3)))
	if err != nil {
		t.Fatalf("new q-network: %v", err)
	}
	path := QNetworkFile(dir, FinalMarker, 0)
	if err := q.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := LoadQNetwork(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	obs := []float64{0.2, -0.7, 0.4, 0.9}
	want, err := q.Forward(obs)
	if err != nil {
		t.Fatalf("forward: %v", err)
	}
	got, err := loaded.Forward(obs)
	if err != nil {
		t.Fatalf("forward loaded: %v", err)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("loaded network output differs at %d: %g vs %g", i, got[i], want[i])
		}
	}
}

func TestCheckpointNaming(t *testing.T) {
	if got := EpisodeMarker(1000, false); got != "1000" {
		t.Fatalf("episode marker = %q, want 1000", got)
	}
	if got := EpisodeMarker(1000, true); got != "final" {
		t.Fatalf("final marker = %q, want final", got)
	}
	want := filepath.Join("ckpts", "final_q_network_2.pth")
	if got := QNetworkFile("ckpts", "final", 2); got != want {
		t.Fatalf("q-network file = %q, want %q", got, want)
	}
	want = filepath.Join("ckpts", "500_target_network_0.pth")
	if got := TargetNetworkFile("ckpts", "500", 0); got != want {
		t.Fatalf("target-network file = %q, want %q", got, want)
	}
}

func TestUnravelIndex(t *testing.T) {
	cases := []struct {
		flat int
		nvec []int
		want []int
	}{
		{0, []int{3, 3}, []int{0, 0}},
		{1, []int{3, 3}, []int{0, 1}},
		{3, []int{3, 3}, []int{1, 0}},
		{8, []int{3, 3}, []int{2, 2}},
		{5, []int{2, 3}, []int{1, 2}},
		{7, []int{2, 2, 2}, []int{1, 1, 1}},
	}
	for _, tc := range cases {
		got, err := UnravelIndex(tc.flat, tc.nvec)
		if err != nil {
			t.Fatalf("unravel(%d, %v): %v", tc.flat, tc.nvec, err)
		}
		for i := range tc.want {
			if got[i] != tc.want[i] {
				t.Fatalf("unravel(%d, %v) = %v, want %v", tc.flat, tc.nvec, got, tc.want)
			}
		}
	}
	if _, err := UnravelIndex(9, []int{3, 3}); err == nil {
		t.Fatal("expected error for out-of-range flat index")
	}
}

func TestAtomicActionStaysInBounds(t *testing.T) {
	p, err := NewAtomic(7, []int{3, 3}, rand.New(rand.NewSource(4)))
	if err != nil {
		t.Fatalf("new atomic: %v", err)
	}
	obs := make([]float64, 7)
	action, err := p.Action(obs)
	if err != nil {
		t.Fatalf("action: %v", err)
	}
	if len(action) != 2 {
		t.Fatalf("action has %d dimensions, want 2", len(action))
	}
	for i, a := range action {
		if a < 0 || a >= 3 {
			t.Fatalf("sub-action %d out of range in dimension %d", a, i)
		}
	}
}

func TestLoadAtomicValidatesShapes(t *testing.T) {
	dir := t.TempDir()
	p, err := NewAtomic(5, []int{3, 3}, rand.New(rand.NewSource(5)))
	if err != nil {
		t.Fatalf("new atomic: %v", err)
	}
	qPath := QNetworkFile(dir, "final", 0)
	targetPath := TargetNetworkFile(dir, "final", 0)
	if err := p.q.Save(qPath); err != nil {
		t.Fatalf("save q: %v", err)
	}
	if err := p.target.Save(targetPath); err != nil {
		t.Fatalf("save target: %v", err)
	}

	if _, err := LoadAtomic(5, []int{3, 3}, qPath, targetPath); err != nil {
		t.Fatalf("load atomic: %v", err)
	}
	if _, err := LoadAtomic(9, []int{3, 3}, qPath, targetPath); err == nil {
		t.Fatal("expected error for mismatched observation size")
	}
}

func TestFactorizedAutorecursiveInputSizes(t *testing.T) {
	p, err := NewFactorized(6, 3, 4, true, rand.New(rand.NewSource(6)))
	if err != nil {
		t.Fatalf("new factorized: %v", err)
	}
	for i, sub := range p.subs {
		if want := 6 + i; sub.InputSize() != want {
			t.Fatalf("autorecursive sub %d input size %d, want %d", i, sub.InputSize(), want)
		}
	}

	flat, err := NewFactorized(6, 3, 4, false, rand.New(rand.NewSource(6)))
	if err != nil {
		t.Fatalf("new factorized: %v", err)
	}
	for i, sub := range flat.subs {
		if sub.InputSize() != 6 {
			t.Fatalf("independent sub %d input size %d, want 6", i, sub.InputSize())
		}
	}
}

func TestFactorizedActionPerDimension(t *testing.T) {
	p, err := NewFactorized(4, 2, 3, true, rand.New(rand.NewSource(7)))
	if err != nil {
		t.Fatalf("new factorized: %v", err)
	}
	action, err := p.Action([]float64{0.1, 0.5, -0.3, 0.9})
	if err != nil {
		t.Fatalf("action: %v", err)
	}
	if len(action) != 2 {
		t.Fatalf("action has %d dimensions, want 2", len(action))
	}
	for i, a := range action {
		if a < 0 || a >= 3 {
			t.Fatalf("sub-action %d out of range in dimension %d", a, i)
		}
	}
}

func TestLoadFactorizedRoundTrip(t *testing.T) {
	dir := t.TempDir()
	p, err := NewFactorized(4, 2, 3, true, rand.New(rand.NewSource(8)))
	if err != nil {
		t.Fatalf("new factorized: %v", err)
	}
	paths := make([]string, len(p.subs))
	for i, sub := range p.subs {
		paths[i] = QNetworkFile(dir, "final", i)
		if err := sub.Save(paths[i]); err != nil {
			t.Fatalf("save sub %d: %v", i, err)
		}
	}

	loaded, err := LoadFactorized(4, 3, paths, true)
	if err != nil {
		t.Fatalf("load factorized: %v", err)
	}
	obs := []float64{0.2, 0.4, 0.6, 0.8}
	want, err := p.Action(obs)
	if err != nil {
		t.Fatalf("action: %v", err)
	}
	got, err := loaded.Action(obs)
	if err != nil {
		t.Fatalf("loaded action: %v", err)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("loaded policy action %v differs from original %v", got, want)
		}
	}

	if _, err := LoadFactorized(4, 3, paths, false); err == nil {
		t.Fatal("expected error when autorecursive flag does not match checkpoint shapes")
	}
}
