package env

import (
	"fmt"
	"math/rand"
)

// PiecewiseInstance fixes one episode's two-segment target: linear from
// Start to InflValue over [0, InflStep], then linear from InflValue to End
// over [InflStep, nSteps-1]. All values live in [0,1].
type PiecewiseInstance struct {
	Start     float64
	InflStep  int
	InflValue float64
	End       float64
}

// PiecewiseConfig configures the piecewise-linear benchmark. Action
// aggregation and reward shapes match the importance sigmoid benchmark.
type PiecewiseConfig struct {
	Dimension      int
	NumActions     int
	NSteps         int
	Instances      int
	Seed           int64
	ImportanceBase float64
	Shape          RewardShape
	Decay          float64
}

func (c *PiecewiseConfig) setDefaults() error {
	if c.Dimension < 1 {
		return fmt.Errorf("piecewise linear benchmark needs dimension >= 1, got %d", c.Dimension)
	}
	if c.NumActions == 0 {
		c.NumActions = 3
	}
	if c.NumActions < 2 {
		return fmt.Errorf("piecewise linear benchmark needs at least 2 actions per dimension, got %d", c.NumActions)
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

// PiecewiseLinear tracks a piecewise-defined target with the aggregated
// importance-weighted action space.
type PiecewiseLinear struct {
	instances   []PiecewiseInstance
	nvec        []int
	nSteps      int
	importances []float64
	shape       RewardShape
	decay       float64

	instIdx    int
	step       int
	cur        PiecewiseInstance
	lastAction []int
}

func NewPiecewiseLinearBenchmark(cfg PiecewiseConfig) (*PiecewiseLinear, error) {
	if err := cfg.setDefaults(); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	instances := make([]PiecewiseInstance, cfg.Instances)
	for i := range instances {
		instances[i] = samplePiecewiseInstance(rng, cfg.NSteps)
	}

	nvec := make([]int, cfg.Dimension)
	for i := range nvec {
		nvec[i] = cfg.NumActions
	}

	return &PiecewiseLinear{
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

func samplePiecewiseInstance(rng *rand.Rand, nSteps int) PiecewiseInstance {
	inflStep := 0
	if nSteps > 2 {
		inflStep = 1 + rng.Intn(nSteps-2)
	}
	return PiecewiseInstance{
		Start:     rng.Float64(),
		InflStep:  inflStep,
		InflValue: rng.Float64(),
		End:       rng.Float64(),
	}
}

func (p *PiecewiseLinear) Kind() Kind                 { return KindPiecewiseLinear }
func (p *PiecewiseLinear) NSteps() int                { return p.nSteps }
func (p *PiecewiseLinear) InstanceIDs() []int         { return instanceIDs(len(p.instances)) }
func (p *PiecewiseLinear) InstanceID() int            { return p.instIdx }
func (p *PiecewiseLinear) ActionCardinalities() []int { return append([]int(nil), p.nvec...) }
func (p *PiecewiseLinear) ObservationSize() int       { return 4 + len(p.nvec) }
func (p *PiecewiseLinear) Shape() RewardShape         { return p.shape }
func (p *PiecewiseLinear) Decay() float64             { return p.decay }

// Instance returns the active instance's segment parameters.
func (p *PiecewiseLinear) Instance() PiecewiseInstance { return p.cur }

// Target interpolates the two-segment signal at step t.
func (p *PiecewiseLinear) Target(t int) float64 {
	inst := p.cur
	if t <= inst.InflStep {
		if inst.InflStep == 0 {
			return inst.InflValue
		}
		frac := float64(t) / float64(inst.InflStep)
		return inst.Start + frac*(inst.InflValue-inst.Start)
	}
	last := p.nSteps - 1
	if inst.InflStep >= last {
		return inst.InflValue
	}
	frac := float64(t-inst.InflStep) / float64(last-inst.InflStep)
	return inst.InflValue + frac*(inst.End-inst.InflValue)
}

func (p *PiecewiseLinear) Reset() ([]float64, error) {
	if len(p.instances) == 0 {
		return nil, fmt.Errorf("piecewise linear environment has no instances")
	}
	p.instIdx = (p.instIdx + 1) % len(p.instances)
	p.cur = p.instances[p.instIdx]
	p.step = 0
	for i := range p.lastAction {
		p.lastAction[i] = 0
	}
	return p.observation(), nil
}

func (p *PiecewiseLinear) Step(action []int) ([]float64, float64, bool, bool, error) {
	if p.instIdx < 0 {
		return nil, 0, false, false, fmt.Errorf("step before first reset")
	}
	if err := checkAction(action, p.nvec); err != nil {
		return nil, 0, false, false, err
	}

	pred := aggregatePrediction(action, p.nvec, p.importances)
	reward := ShapedReward(p.Target(p.step), pred, p.shape, p.decay)
	copy(p.lastAction, action)
	p.step++
	truncated := p.step >= p.nSteps
	return p.observation(), reward, false, truncated, nil
}

func (p *PiecewiseLinear) observation() []float64 {
	obs := make([]float64, 0, 4+len(p.nvec))
	obs = append(obs, float64(p.nSteps-p.step), p.cur.Start, p.cur.InflValue, p.cur.End)
	for _, a := range p.lastAction {
		obs = append(obs, float64(a))
	}
	return obs
}
