package policy

import (
	"fmt"
	"math/rand"
)

// Factorized is a policy decomposed into one sub-network per action
// dimension. With autorecursive conditioning enabled, sub-network i also
// sees the sub-actions already chosen for dimensions 0..i-1.
type Factorized struct {
	subs          []*QNetwork
	obsSize       int
	numActions    int
	autorecursive bool
}

// NewFactorized builds a randomly initialized factorized policy.
func NewFactorized(obsSize, dims, numActions int, autorecursive bool, rng *rand.Rand) (*Factorized, error) {
	if dims < 1 {
		return nil, fmt.Errorf("factorized policy needs at least one dimension, got %d", dims)
	}
	if numActions < 2 {
		return nil, fmt.Errorf("factorized policy needs at least 2 actions per dimension, got %d", numActions)
	}
	subs := make([]*QNetwork, dims)
	for i := range subs {
		q, err := NewQNetwork(subInputSize(obsSize, i, autorecursive), numActions, 0, rng)
		if err != nil {
			return nil, err
		}
		subs[i] = q
	}
	return &Factorized{
		subs:          subs,
		obsSize:       obsSize,
		numActions:    numActions,
		autorecursive: autorecursive,
	}, nil
}

// LoadFactorized restores a factorized policy from one q-network checkpoint
// per dimension.
func LoadFactorized(obsSize, numActions int, qPaths []string, autorecursive bool) (*Factorized, error) {
	if len(qPaths) == 0 {
		return nil, fmt.Errorf("factorized policy needs at least one checkpoint path")
	}
	subs := make([]*QNetwork, len(qPaths))
	for i, path := range qPaths {
		q, err := LoadQNetwork(path)
		if err != nil {
			return nil, err
		}
		wantIn := subInputSize(obsSize, i, autorecursive)
		if q.InputSize() != wantIn || q.OutputSize() != numActions {
			return nil, fmt.Errorf("checkpoint %s shape (%d,%d) does not match expected (%d,%d)",
				path, q.InputSize(), q.OutputSize(), wantIn, numActions)
		}
		subs[i] = q
	}
	return &Factorized{
		subs:          subs,
		obsSize:       obsSize,
		numActions:    numActions,
		autorecursive: autorecursive,
	}, nil
}

func subInputSize(obsSize, dim int, autorecursive bool) int {
	if autorecursive {
		return obsSize + dim
	}
	return obsSize
}

func (p *Factorized) Dimensions() int     { return len(p.subs) }
func (p *Factorized) Autorecursive() bool { return p.autorecursive }

func (p *Factorized) Action(obs []float64) ([]int, error) {
	if len(obs) != p.obsSize {
		return nil, fmt.Errorf("observation has %d features, policy expects %d", len(obs), p.obsSize)
	}
	actions := make([]int, len(p.subs))
	for i, sub := range p.subs {
		input := obs
		if p.autorecursive && i > 0 {
			input = make([]float64, 0, p.obsSize+i)
			input = append(input, obs...)
			for _, a := range actions[:i] {
				input = append(input, float64(a))
			}
		}
		a, err := sub.Greedy(input)
		if err != nil {
			return nil, fmt.Errorf("sub-policy %d: %w", i, err)
		}
		actions[i] = a
	}
	return actions, nil
}
