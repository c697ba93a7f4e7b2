// Package policy holds the Q-network policies reconstructed from training
// checkpoints, plus their randomly initialized counterparts.
package policy

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// DefaultHiddenSize is the hidden-layer width used by all trained agents.
const DefaultHiddenSize = 64

// QNetwork is a single-hidden-layer MLP mapping an observation to one action
// value per discrete action.
type QNetwork struct {
	in     int
	hidden int
	out    int

	w1 *mat.Dense // hidden x in
	b1 []float64
	w2 *mat.Dense // out x hidden
	b2 []float64
}

// NewQNetwork builds a randomly initialized network. A zero hidden size
// falls back to DefaultHiddenSize; a nil rng gets a fixed seed so fresh
// policies stay reproducible.
func NewQNetwork(in, out, hidden int, rng *rand.Rand) (*QNetwork, error) {
	if in < 1 || out < 1 {
		return nil, fmt.Errorf("q-network needs in >= 1 and out >= 1, got %d, %d", in, out)
	}
	if hidden == 0 {
		hidden = DefaultHiddenSize
	}
	if hidden < 1 {
		return nil, fmt.Errorf("q-network needs hidden >= 1, got %d", hidden)
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}

	q := &QNetwork{
		in:     in,
		hidden: hidden,
		out:    out,
		w1:     mat.NewDense(hidden, in, nil),
		b1:     make([]float64, hidden),
		w2:     mat.NewDense(out, hidden, nil),
		b2:     make([]float64, out),
	}
	initUniform(q.w1, rng, 1/math.Sqrt(float64(in)))
	initUniform(q.w2, rng, 1/math.Sqrt(float64(hidden)))
	return q, nil
}

func initUniform(m *mat.Dense, rng *rand.Rand, bound float64) {
	r, c := m.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			m.Set(i, j, (2*rng.Float64()-1)*bound)
		}
	}
}

func (q *QNetwork) InputSize() int  { return q.in }
func (q *QNetwork) OutputSize() int { return q.out }
func (q *QNetwork) HiddenSize() int { return q.hidden }

// Forward returns the action values for an observation.
func (q *QNetwork) Forward(obs []float64) ([]float64, error) {
	if len(obs) != q.in {
		return nil, fmt.Errorf("observation has %d features, network expects %d", len(obs), q.in)
	}

	x := mat.NewVecDense(q.in, obs)
	var h mat.VecDense
	h.MulVec(q.w1, x)
	activated := mat.NewVecDense(q.hidden, nil)
	for i := 0; i < q.hidden; i++ {
		v := h.AtVec(i) + q.b1[i]
		if v < 0 {
			v = 0
		}
		activated.SetVec(i, v)
	}

	var out mat.VecDense
	out.MulVec(q.w2, activated)
	values := make([]float64, q.out)
	for i := range values {
		values[i] = out.AtVec(i) + q.b2[i]
	}
	return values, nil
}

// Greedy returns the argmax action; value ties resolve to the lowest index.
func (q *QNetwork) Greedy(obs []float64) (int, error) {
	values, err := q.Forward(obs)
	if err != nil {
		return 0, err
	}
	best := 0
	for i := 1; i < len(values); i++ {
		if values[i] > values[best] {
			best = i
		}
	}
	return best, nil
}
