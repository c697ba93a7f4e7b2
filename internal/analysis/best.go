package analysis

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/PhilippBordne/candidDAC/internal/env"
	"github.com/PhilippBordne/candidDAC/internal/grid"
)

// BestRewardRequest selects the benchmark and shape parameters for a best
// possible average reward computation.
type BestRewardRequest struct {
	Dim       int
	Benchmark string

	Shape env.RewardShape
	Decay float64

	ImportanceBase float64 // defaults to 0.5
	NumActions     int     // defaults to 3
	MaxDim         int     // grid accumulation bound, defaults to Dim

	Seed      int64
	Instances int
}

// BestPossibleAvgReward constructs the selected benchmark environment,
// computes the optimal episode reward for every instance, and returns the
// mean. The importance-weighted benchmarks use the combinatorial aggregated
// grid; the plain sigmoid benchmark a uniformly spaced one.
func BestPossibleAvgReward(req BestRewardRequest) (float64, error) {
	if req.Dim < 1 {
		return 0, fmt.Errorf("best possible average reward needs dim >= 1, got %d", req.Dim)
	}
	if req.ImportanceBase == 0 {
		req.ImportanceBase = 0.5
	}
	if req.NumActions == 0 {
		req.NumActions = 3
	}
	if req.MaxDim == 0 {
		req.MaxDim = req.Dim
	}

	actions, e, err := benchmarkSetup(req)
	if err != nil {
		return 0, err
	}

	ids := e.InstanceIDs()
	totals := make([]float64, 0, len(ids))
	for range ids {
		if _, err := e.Reset(); err != nil {
			return 0, err
		}
		optimal, err := OptimalEpisodeReward(e, actions, req.Shape, req.Decay)
		if err != nil {
			return 0, err
		}
		totals = append(totals, optimal)
	}
	return stat.Mean(totals, nil), nil
}

func benchmarkSetup(req BestRewardRequest) ([]float64, env.Environment, error) {
	switch req.Benchmark {
	case env.BenchmarkCandidSigmoid:
		actions, err := grid.ImportanceActions(req.MaxDim, req.ImportanceBase, req.NumActions)
		if err != nil {
			return nil, nil, err
		}
		e, err := env.NewImportanceSigmoidBenchmark(env.ImportanceConfig{
			Dimension:      req.Dim,
			NumActions:     req.NumActions,
			Seed:           req.Seed,
			Instances:      req.Instances,
			ImportanceBase: req.ImportanceBase,
			Shape:          req.Shape,
			Decay:          req.Decay,
		})
		if err != nil {
			return nil, nil, err
		}
		return actions, e, nil

	case env.BenchmarkPiecewiseLinear:
		actions, err := grid.ImportanceActions(req.MaxDim, req.ImportanceBase, req.NumActions)
		if err != nil {
			return nil, nil, err
		}
		e, err := env.NewPiecewiseLinearBenchmark(env.PiecewiseConfig{
			Dimension:      req.Dim,
			NumActions:     req.NumActions,
			Seed:           req.Seed,
			Instances:      req.Instances,
			ImportanceBase: req.ImportanceBase,
			Shape:          req.Shape,
			Decay:          req.Decay,
		})
		if err != nil {
			return nil, nil, err
		}
		return actions, e, nil

	default:
		actions, err := grid.Uniform(req.NumActions)
		if err != nil {
			return nil, nil, err
		}
		e, err := env.NewSigmoidBenchmark(env.SigmoidConfig{
			Dimension:  req.Dim,
			NumActions: req.NumActions,
			Seed:       req.Seed,
			Instances:  req.Instances,
		})
		if err != nil {
			return nil, nil, err
		}
		return actions, e, nil
	}
}
