package policy

import (
	"fmt"
	"math/rand"
)

// Policy turns an observation into a per-dimension action tuple.
type Policy interface {
	Action(obs []float64) ([]int, error)
}

// Atomic is a policy over the flattened joint action space. Its raw output
// is an index that must be unravelled against the per-dimension action
// cardinalities before an environment can consume it.
type Atomic struct {
	q      *QNetwork
	target *QNetwork
	nvec   []int
}

// NewAtomic builds a randomly initialized atomic policy whose output covers
// the full joint action space.
func NewAtomic(obsSize int, nvec []int, rng *rand.Rand) (*Atomic, error) {
	total, err := jointActions(nvec)
	if err != nil {
		return nil, err
	}
	q, err := NewQNetwork(obsSize, total, 0, rng)
	if err != nil {
		return nil, err
	}
	target, err := NewQNetwork(obsSize, total, 0, rng)
	if err != nil {
		return nil, err
	}
	return &Atomic{q: q, target: target, nvec: append([]int(nil), nvec...)}, nil
}

// LoadAtomic restores an atomic policy from q- and target-network
// checkpoints.
func LoadAtomic(obsSize int, nvec []int, qPath, targetPath string) (*Atomic, error) {
	total, err := jointActions(nvec)
	if err != nil {
		return nil, err
	}
	q, err := LoadQNetwork(qPath)
	if err != nil {
		return nil, err
	}
	target, err := LoadQNetwork(targetPath)
	if err != nil {
		return nil, err
	}
	if q.InputSize() != obsSize || q.OutputSize() != total {
		return nil, fmt.Errorf("q-network checkpoint shape (%d,%d) does not match environment (%d,%d)",
			q.InputSize(), q.OutputSize(), obsSize, total)
	}
	return &Atomic{q: q, target: target, nvec: append([]int(nil), nvec...)}, nil
}

// FlatAction is the raw greedy index into the joint action space.
func (p *Atomic) FlatAction(obs []float64) (int, error) {
	return p.q.Greedy(obs)
}

func (p *Atomic) Action(obs []float64) ([]int, error) {
	flat, err := p.FlatAction(obs)
	if err != nil {
		return nil, err
	}
	return UnravelIndex(flat, p.nvec)
}

// UnravelIndex converts a flat joint-action index into the per-dimension
// action tuple, row-major with the first dimension most significant.
func UnravelIndex(flat int, nvec []int) ([]int, error) {
	total, err := jointActions(nvec)
	if err != nil {
		return nil, err
	}
	if flat < 0 || flat >= total {
		return nil, fmt.Errorf("flat action %d out of range [0,%d)", flat, total)
	}
	out := make([]int, len(nvec))
	for i := len(nvec) - 1; i >= 0; i-- {
		out[i] = flat % nvec[i]
		flat /= nvec[i]
	}
	return out, nil
}

func jointActions(nvec []int) (int, error) {
	if len(nvec) == 0 {
		return 0, fmt.Errorf("action space has no dimensions")
	}
	total := 1
	for i, n := range nvec {
		if n < 1 {
			return 0, fmt.Errorf("action cardinality %d in dimension %d", n, i)
		}
		total *= n
	}
	return total, nil
}
