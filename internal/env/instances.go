package env

import "fmt"

// Explicit-instance constructors, used when an analysis has to replay a
// known episode rather than a sampled instance set.

func NewSigmoidFromInstances(instances []SigmoidInstance, numActions, nSteps int) (*Sigmoid, error) {
	if len(instances) == 0 {
		return nil, fmt.Errorf("sigmoid environment needs at least one instance")
	}
	dim := len(instances[0].Shifts)
	for i, inst := range instances {
		if len(inst.Shifts) != dim || len(inst.Slopes) != dim {
			return nil, fmt.Errorf("instance %d has inconsistent dimensionality", i)
		}
	}
	cfg := SigmoidConfig{Dimension: dim, NumActions: numActions, NSteps: nSteps, Instances: len(instances)}
	if err := cfg.setDefaults(); err != nil {
		return nil, err
	}
	nvec := make([]int, dim)
	for i := range nvec {
		nvec[i] = cfg.NumActions
	}
	return &Sigmoid{
		instances:  append([]SigmoidInstance(nil), instances...),
		nvec:       nvec,
		nSteps:     cfg.NSteps,
		instIdx:    -1,
		lastAction: make([]int, dim),
	}, nil
}

func NewImportanceSigmoidFromInstances(instances []SigmoidInstance, cfg ImportanceConfig) (*ImportanceSigmoid, error) {
	if len(instances) == 0 {
		return nil, fmt.Errorf("importance sigmoid environment needs at least one instance")
	}
	cfg.Dimension = len(instances[0].Shifts)
	cfg.Instances = len(instances)
	if err := cfg.setDefaults(); err != nil {
		return nil, err
	}
	nvec := make([]int, cfg.Dimension)
	for i := range nvec {
		nvec[i] = cfg.NumActions
	}
	return &ImportanceSigmoid{
		instances:   append([]SigmoidInstance(nil), instances...),
		nvec:        nvec,
		nSteps:      cfg.NSteps,
		importances: Importances(cfg.ImportanceBase, cfg.Dimension),
		shape:       cfg.Shape,
		decay:       cfg.Decay,
		instIdx:     -1,
		lastAction:  make([]int, cfg.Dimension),
	}, nil
}

func NewPiecewiseLinearFromInstances(instances []PiecewiseInstance, cfg PiecewiseConfig) (*PiecewiseLinear, error) {
	if len(instances) == 0 {
		return nil, fmt.Errorf("piecewise linear environment needs at least one instance")
	}
	if cfg.Dimension == 0 {
		cfg.Dimension = 1
	}
	cfg.Instances = len(instances)
	if err := cfg.setDefaults(); err != nil {
		return nil, err
	}
	nvec := make([]int, cfg.Dimension)
	for i := range nvec {
		nvec[i] = cfg.NumActions
	}
	return &PiecewiseLinear{
		instances:   append([]PiecewiseInstance(nil), instances...),
		nvec:        nvec,
		nSteps:      cfg.NSteps,
		importances: Importances(cfg.ImportanceBase, cfg.Dimension),
		shape:       cfg.Shape,
		decay:       cfg.Decay,
		instIdx:     -1,
		lastAction:  make([]int, cfg.Dimension),
	}, nil
}
