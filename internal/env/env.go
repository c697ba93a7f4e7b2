// Package env implements the sigmoid and piecewise-linear benchmark
// environments the analysis helpers evaluate policies against. Environments
// cycle round-robin through a fixed, deterministically generated instance
// list; one episode runs the full step horizon of the current instance.
package env

import (
	"fmt"
	"math"
)

// Kind enumerates the closed set of environment variants. Reward law and
// target-signal accessor are dispatched on it.
type Kind int

const (
	// KindSigmoid is the multi-action sigmoid benchmark: one independent
	// sigmoid target per action dimension, product reward.
	KindSigmoid Kind = iota
	// KindImportanceSigmoid is the importance-weighted fine-tune sigmoid
	// benchmark: a single target tracked by the aggregated action.
	KindImportanceSigmoid
	// KindPiecewiseLinear tracks a two-segment piecewise linear target with
	// the same aggregated action space as KindImportanceSigmoid.
	KindPiecewiseLinear
)

func (k Kind) String() string {
	switch k {
	case KindSigmoid:
		return "sigmoid"
	case KindImportanceSigmoid:
		return "candid_sigmoid"
	case KindPiecewiseLinear:
		return "piecewise_linear"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Benchmark names as recorded in run configurations.
const (
	BenchmarkSigmoid         = "sigmoid"
	BenchmarkCandidSigmoid   = "candid_sigmoid"
	BenchmarkPiecewiseLinear = "piecewise_linear"
)

// RewardShape selects the functional form mapping prediction error to
// per-step reward.
type RewardShape string

const (
	// RewardLinear is 1 - |truth - prediction|, the default.
	RewardLinear RewardShape = ""
	// RewardExponential is exp(-c * |truth - prediction|) for a decay
	// constant c.
	RewardExponential RewardShape = "exp"
)

// IsExponential also accepts the long-form marker used in older run
// configurations.
func (s RewardShape) IsExponential() bool {
	return s == RewardExponential || s == "exponential"
}

// Environment is the surface the evaluation helpers need: a finite instance
// list advanced by Reset, and a bounded step loop.
type Environment interface {
	Kind() Kind
	// Reset advances to the next instance in the list and returns the
	// initial observation.
	Reset() ([]float64, error)
	// Step applies one per-dimension action tuple.
	Step(action []int) (obs []float64, reward float64, terminated, truncated bool, err error)
	NSteps() int
	InstanceIDs() []int
	InstanceID() int
	ActionCardinalities() []int
	ObservationSize() int
}

// SingleTarget is implemented by kinds whose reward tracks one scalar target
// signal per time step.
type SingleTarget interface {
	Target(t int) float64
	Shape() RewardShape
}

// MultiTarget is implemented by the multi-action sigmoid kind, which has one
// target signal per action dimension.
type MultiTarget interface {
	DimTarget(t, dim int) float64
	Dimensions() int
}

// Sig is the logistic target signal used by the sigmoid benchmarks.
func Sig(t int, slope, shift float64) float64 {
	return 1 / (1 + math.Exp(-slope*(float64(t)-shift)))
}

func checkAction(action []int, nvec []int) error {
	if len(action) != len(nvec) {
		return fmt.Errorf("action has %d dimensions, environment expects %d", len(action), len(nvec))
	}
	for i, a := range action {
		if a < 0 || a >= nvec[i] {
			return fmt.Errorf("action %d out of range [0,%d) in dimension %d", a, nvec[i], i)
		}
	}
	return nil
}

func instanceIDs(n int) []int {
	ids := make([]int, n)
	for i := range ids {
		ids[i] = i
	}
	return ids
}
