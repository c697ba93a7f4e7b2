package env

import (
	"fmt"
	"math"
	"math/rand"
)

// ImportanceConfig configures the importance-weighted fine-tune sigmoid
// benchmark ("candid_sigmoid").
type ImportanceConfig struct {
	Dimension      int
	NumActions     int
	NSteps         int
	Instances      int
	Seed           int64
	ImportanceBase float64
	Shape          RewardShape
	Decay          float64 // exponential reward decay constant c
}

func (c *ImportanceConfig) setDefaults() error {
	if c.Dimension < 1 {
		return fmt.Errorf("importance sigmoid benchmark needs dimension >= 1, got %d", c.Dimension)
	}
	if c.NumActions == 0 {
		c.NumActions = 3
	}
	if c.NumActions < 2 {
		return fmt.Errorf("importance sigmoid benchmark needs at least 2 actions per dimension, got %d", c.NumActions)
	}
	if c.NSteps == 0 {
		c.NSteps = 10
	}
	if c.Instances == 0 {
		c.Instances = 100
	}
	if c.ImportanceBase == 0 {
		c.ImportanceBase = 0.5
	}
	if c.ImportanceBase < 0 || c.ImportanceBase > 1 {
		return fmt.Errorf("importance base must be in (0,1], got %g", c.ImportanceBase)
	}
	if c.Shape.IsExponential() && c.Decay <= 0 {
		return fmt.Errorf("exponential reward shape needs a positive decay constant")
	}
	return nil
}

// Importances expands a base into the per-dimension weight vector base^i.
func Importances(base float64, dim int) []float64 {
	out := make([]float64, dim)
	w := 1.0
	for i := range out {
		out[i] = w
		w *= base
	}
	return out
}

// aggregatePrediction folds a per-dimension action tuple into the single
// prediction value it encodes: dimension 0 contributes its fraction of [0,1],
// every further dimension a centered, importance-scaled correction.
func aggregatePrediction(action []int, nvec []int, importances []float64) float64 {
	pred := 0.0
	for i, a := range action {
		frac := float64(a) / float64(nvec[i]-1)
		if i == 0 {
			pred += frac
		} else {
			pred += importances[i] * (frac - 0.5)
		}
	}
	return pred
}

// ShapedReward maps a target/prediction pair to the per-step reward under
// the selected reward shape.
func ShapedReward(truth, pred float64, shape RewardShape, decay float64) float64 {
	if shape.IsExponential() {
		return math.Exp(-decay * math.Abs(truth-pred))
	}
	return 1 - math.Abs(truth-pred)
}

// ImportanceSigmoid tracks one sigmoid target with an importance-weighted
// aggregated action.
type ImportanceSigmoid struct {
	instances   []SigmoidInstance
	nvec        []int
	nSteps      int
	importances []float64
	shape       RewardShape
	decay       float64

	instIdx    int
	step       int
	cur        SigmoidInstance
	lastAction []int
}

func NewImportanceSigmoidBenchmark(cfg ImportanceConfig) (*ImportanceSigmoid, error) {
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

	return &ImportanceSigmoid{
		instances:   instances,
		nvec:        nvec,
		nSteps:      cfg.NSteps,
		importances: Importances(cfg.ImportanceBase, cfg.Dimension),
		shape:       cfg.Shape,
		decay:       cfg.Decay,
		instIdx:     -1,
		lastAction:  make([]int, cfg.Dimension),
	}, nil
}

func (s *ImportanceSigmoid) Kind() Kind                 { return KindImportanceSigmoid }
func (s *ImportanceSigmoid) NSteps() int                { return s.nSteps }
func (s *ImportanceSigmoid) InstanceIDs() []int         { return instanceIDs(len(s.instances)) }
func (s *ImportanceSigmoid) InstanceID() int            { return s.instIdx }
func (s *ImportanceSigmoid) ActionCardinalities() []int { return append([]int(nil), s.nvec...) }
func (s *ImportanceSigmoid) ObservationSize() int       { return 1 + 3*len(s.nvec) }
func (s *ImportanceSigmoid) Shape() RewardShape         { return s.shape }

// Decay is the exponential reward decay constant; meaningful only when the
// reward shape is exponential.
func (s *ImportanceSigmoid) Decay() float64 { return s.decay }

// Target is the tracked signal at step t; only the first dimension's
// slope/shift pair defines it.
func (s *ImportanceSigmoid) Target(t int) float64 {
	return Sig(t, s.cur.Slopes[0], s.cur.Shifts[0])
}

func (s *ImportanceSigmoid) Reset() ([]float64, error) {
	if len(s.instances) == 0 {
		return nil, fmt.Errorf("importance sigmoid environment has no instances")
	}
	s.instIdx = (s.instIdx + 1) % len(s.instances)
	s.cur = s.instances[s.instIdx]
	s.step = 0
	for i := range s.lastAction {
		s.lastAction[i] = 0
	}
	return s.observation(), nil
}

func (s *ImportanceSigmoid) Step(action []int) ([]float64, float64, bool, bool, error) {
	if s.instIdx < 0 {
		return nil, 0, false, false, fmt.Errorf("step before first reset")
	}
	if err := checkAction(action, s.nvec); err != nil {
		return nil, 0, false, false, err
	}

	pred := aggregatePrediction(action, s.nvec, s.importances)
	reward := ShapedReward(s.Target(s.step), pred, s.shape, s.decay)
	copy(s.lastAction, action)
	s.step++
	truncated := s.step >= s.nSteps
	return s.observation(), reward, false, truncated, nil
}

func (s *ImportanceSigmoid) observation() []float64 {
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
