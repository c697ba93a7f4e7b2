package env

import (
	"fmt"
	"math"
	"math/rand"
)

// SigmoidInstance fixes one episode's target signals: an independent
// slope/shift pair per action dimension.
type SigmoidInstance struct {
	Shifts []float64
	Slopes []float64
}

// SigmoidConfig configures the multi-action sigmoid benchmark.
type SigmoidConfig struct {
	Dimension  int
	NumActions int // discretization count per dimension
	NSteps     int
	Instances  int
	Seed       int64
}

func (c *SigmoidConfig) setDefaults() error {
	if c.Dimension < 1 {
		return fmt.Errorf("sigmoid benchmark needs dimension >= 1, got %d", c.Dimension)
	}
	if c.NumActions == 0 {
		c.NumActions = 3
	}
	if c.NumActions < 2 {
		return fmt.Errorf("sigmoid benchmark needs at least 2 actions per dimension, got %d", c.NumActions)
	}
	if c.NSteps == 0 {
		c.NSteps = 10
	}
	if c.Instances == 0 {
		c.Instances = 100
	}
	return nil
}

// Sigmoid is the multi-action sigmoid environment: every action dimension
// tracks its own sigmoid signal and the per-step reward is the product of
// the per-dimension accuracies.
type Sigmoid struct {
	instances []SigmoidInstance
	nvec      []int
	nSteps    int

	instIdx    int
	step       int
	cur        SigmoidInstance
	lastAction []int
}

// NewSigmoidBenchmark generates a deterministic instance set from the seed
// and returns a fresh environment positioned before the first instance.
func NewSigmoidBenchmark(cfg SigmoidConfig) (*Sigmoid, error) {
	if err := cfg.setDefaults(); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	instances := make([]SigmoidInstance, cfg.Instances)
	for i := range instances {
		instances[i] = sampleSigmoidInstance(rng, cfg.Dimension, cfg.NSteps)
	}

	nvec := make([]int, cfg.Dimension)
	for i := range nvec {
		nvec[i] = cfg.NumActions
	}

	return &Sigmoid{
		instances:  instances,
		nvec:       nvec,
		nSteps:     cfg.NSteps,
		instIdx:    -1,
		lastAction: make([]int, cfg.Dimension),
	}, nil
}

func sampleSigmoidInstance(rng *rand.Rand, dim, nSteps int) SigmoidInstance {
	shifts := make([]float64, dim)
	slopes := make([]float64, dim)
	for d := 0; d < dim; d++ {
		shifts[d] = rng.Float64() * float64(nSteps)
		slope := 0.5 + rng.Float64()*1.5
		if rng.Intn(2) == 0 {
			slope = -slope
		}
		slopes[d] = slope
	}
	return SigmoidInstance{Shifts: shifts, Slopes: slopes}
}

func (s *Sigmoid) Kind() Kind                 { return KindSigmoid }
func (s *Sigmoid) NSteps() int                { return s.nSteps }
func (s *Sigmoid) InstanceIDs() []int         { return instanceIDs(len(s.instances)) }
func (s *Sigmoid) InstanceID() int            { return s.instIdx }
func (s *Sigmoid) ActionCardinalities() []int { return append([]int(nil), s.nvec...) }
func (s *Sigmoid) ObservationSize() int       { return 1 + 3*len(s.nvec) }
func (s *Sigmoid) Dimensions() int            { return len(s.nvec) }

// Instance returns the active instance's slope/shift pairs.
func (s *Sigmoid) Instance() SigmoidInstance { return s.cur }

// DimTarget is the target signal of one action dimension at step t.
func (s *Sigmoid) DimTarget(t, dim int) float64 {
	return Sig(t, s.cur.Slopes[dim], s.cur.Shifts[dim])
}

func (s *Sigmoid) Reset() ([]float64, error) {
	if len(s.instances) == 0 {
		return nil, fmt.Errorf("sigmoid environment has no instances")
	}
	s.instIdx = (s.instIdx + 1) % len(s.instances)
	s.cur = s.instances[s.instIdx]
	s.step = 0
	for i := range s.lastAction {
		s.lastAction[i] = 0
	}
	return s.observation(), nil
}

func (s *Sigmoid) Step(action []int) ([]float64, float64, bool, bool, error) {
	if s.instIdx < 0 {
		return nil, 0, false, false, fmt.Errorf("step before first reset")
	}
	if err := checkAction(action, s.nvec); err != nil {
		return nil, 0, false, false, err
	}

	reward := 1.0
	for d, a := range action {
		pred := float64(a) / float64(s.nvec[d]-1)
		reward *= 1 - math.Abs(s.DimTarget(s.step, d)-pred)
	}
	copy(s.lastAction, action)
	s.step++
	truncated := s.step >= s.nSteps
	return s.observation(), reward, false, truncated, nil
}

func (s *Sigmoid) observation() []float64 {
	dim := len(s.nvec)
	obs := make([]float64, 0, 1+3*dim)
	obs = append(obs, float64(s.nSteps-s.step))
	obs = append(obs, s.cur.Shifts...)
	obs = append(obs, s.cur.Slopes...)
	for _, a := range s.lastAction {
		obs = append(obs, float64(a))
	}
	return obs
}
