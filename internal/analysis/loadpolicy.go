package analysis

import (
	"math/rand"

	"github.com/PhilippBordne/candidDAC/internal/env"
	"github.com/PhilippBordne/candidDAC/internal/policy"
	"github.com/PhilippBordne/candidDAC/internal/runname"
)

// PolicyConfig is the slice of a run configuration that determines how a
// policy is reconstructed.
type PolicyConfig struct {
	RunName       string
	Factorized    bool
	Autorecursive bool
	Dim           int
}

// CheckpointRef points at a saved checkpoint set: a directory plus the
// episode marker (an episode count, or the final checkpoint).
type CheckpointRef struct {
	Dir     string
	Episode int
	Final   bool
}

// LoadPolicy reconstructs the policy for a run configuration against the
// given environment. With a nil checkpoint reference, a randomly initialized
// policy of the matching architecture is returned instead. Autorecursive
// conditioning is enabled by the explicit flag or an sdqn marker in the run
// name; either suffices.
func LoadPolicy(cfg PolicyConfig, e env.Environment, ckpt *CheckpointRef, rng *rand.Rand) (policy.Policy, error) {
	nvec := e.ActionCardinalities()
	obsSize := e.ObservationSize()
	dim := cfg.Dim
	if dim == 0 {
		dim = len(nvec)
	}

	if cfg.Factorized {
		autorecursive := cfg.Autorecursive || runname.Autorecursive(cfg.RunName)
		if ckpt == nil {
			return policy.NewFactorized(obsSize, dim, nvec[0], autorecursive, rng)
		}
		marker := policy.EpisodeMarker(ckpt.Episode, ckpt.Final)
		paths := make([]string, dim)
		for i := range paths {
			paths[i] = policy.QNetworkFile(ckpt.Dir, marker, i)
		}
		return policy.LoadFactorized(obsSize, nvec[0], paths, autorecursive)
	}

	if ckpt == nil {
		return policy.NewAtomic(obsSize, nvec, rng)
	}
	marker := policy.EpisodeMarker(ckpt.Episode, ckpt.Final)
	return policy.LoadAtomic(obsSize, nvec,
		policy.QNetworkFile(ckpt.Dir, marker, 0),
		policy.TargetNetworkFile(ckpt.Dir, marker, 0))
}
