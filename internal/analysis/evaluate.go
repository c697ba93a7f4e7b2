package analysis

import (
	"fmt"
	"math"

	"github.com/PhilippBordne/candidDAC/internal/env"
	"github.com/PhilippBordne/candidDAC/internal/policy"
)

// EvalPolicy runs the policy for one full episode on every instance of the
// environment and returns the episodic reward totals indexed by instance ID.
// Episodes end on either the terminated or the truncated signal.
func EvalPolicy(p policy.Policy, e env.Environment) ([]float64, error) {
	ids := e.InstanceIDs()
	if len(ids) == 0 {
		return nil, fmt.Errorf("environment has no instances to evaluate")
	}

	totals := make([]float64, len(ids))
	for i := range totals {
		totals[i] = math.NaN()
	}

	for range ids {
		obs, err := e.Reset()
		if err != nil {
			return nil, err
		}

		episodic := 0.0
		done := false
		for !done {
			action, err := p.Action(obs)
			if err != nil {
				return nil, fmt.Errorf("instance %d: %w", e.InstanceID(), err)
			}
			next, reward, terminated, truncated, err := e.Step(action)
			if err != nil {
				return nil, fmt.Errorf("instance %d: %w", e.InstanceID(), err)
			}
			obs = next
			episodic += reward
			done = terminated || truncated
		}
		totals[e.InstanceID()] = episodic
	}
	return totals, nil
}
