// Package analysis computes the reference quantities the plotting notebooks
// compare trained policies against: per-instance optimal episode rewards,
// policy evaluation traces, and best possible average rewards.
package analysis

import (
	"fmt"
	"math"

	"github.com/PhilippBordne/candidDAC/internal/env"
	"github.com/PhilippBordne/candidDAC/internal/grid"
)

// OptimalEpisodeReward computes the maximum cumulative reward achievable on
// the environment's current instance when every step's best achievable
// prediction is selected from the action grid independently. The reward law
// is dispatched on the environment kind; the multi-action sigmoid kind has
// no exponential counterpart and ignores the shape selector.
func OptimalEpisodeReward(e env.Environment, actions []float64, shape env.RewardShape, decay float64) (float64, error) {
	if len(actions) == 0 {
		return 0, fmt.Errorf("optimal episode reward: empty action grid")
	}
	if shape.IsExponential() && decay <= 0 {
		return 0, fmt.Errorf("exponential reward shape needs a positive decay constant")
	}

	switch e.Kind() {
	case env.KindImportanceSigmoid, env.KindPiecewiseLinear:
		target, ok := e.(env.SingleTarget)
		if !ok {
			return 0, fmt.Errorf("%s environment does not expose a single target signal", e.Kind())
		}
		total := 0.0
		for t := 0; t < e.NSteps(); t++ {
			truth := target.Target(t)
			best, err := grid.Nearest(actions, truth)
			if err != nil {
				return 0, err
			}
			total += env.ShapedReward(truth, best, shape, decay)
		}
		return total, nil

	case env.KindSigmoid:
		multi, ok := e.(env.MultiTarget)
		if !ok {
			return 0, fmt.Errorf("%s environment does not expose per-dimension targets", e.Kind())
		}
		total := 0.0
		for t := 0; t < e.NSteps(); t++ {
			stepReward := 1.0
			for d := 0; d < multi.Dimensions(); d++ {
				truth := multi.DimTarget(t, d)
				best, err := grid.Nearest(actions, truth)
				if err != nil {
					return 0, err
				}
				stepReward *= 1 - math.Abs(truth-best)
			}
			total += stepReward
		}
		return total, nil

	default:
		return 0, fmt.Errorf("unsupported environment kind: %s", e.Kind())
	}
}
