// Package runname maps free-text experiment run identifiers onto the method
// labels used across plots.
package runname

import "strings"

// Method labels shared by all figures.
const (
	MethodDDQN    = "DDQN"
	MethodSAQL    = "SAQL"
	MethodIQL     = "IQL"
	MethodSimSDQN = "simSDQN"
)

// MethodColours is a colourblind-friendly palette keyed by the raw run-name
// markers, following https://gist.github.com/thriveth/8560036.
var MethodColours = map[string]string{
	"adqn":   "#377eb8",
	"fdqn":   "#ff7f00",
	"fdqn_a": "#4daf4a",
	"sdqn":   "#e41a1c",
	"ddqn":   "#377eb8",
	"iql":    "#ff7f00",
	"saql":   "#4daf4a",
}

// Canonical maps a run name to its method label. The factorized-autorecursive
// markers are checked before the plain factorized ones so that "fdqn_a" is
// not shadowed by "fdqn". Unrecognized names pass through unchanged.
func Canonical(runName string) string {
	switch {
	case strings.Contains(runName, "adqn") || strings.Contains(runName, "ddqn"):
		return MethodDDQN
	case strings.Contains(runName, "fdqn_a") || strings.Contains(runName, "saql"):
		return MethodSAQL
	case strings.Contains(runName, "fdqn") || strings.Contains(runName, "iql"):
		return MethodIQL
	case strings.Contains(runName, "sdqn"):
		return MethodSimSDQN
	default:
		return runName
	}
}

// Autorecursive reports whether the run name carries the simultaneous-SDQN
// marker, which implies autorecursive sub-policy conditioning.
func Autorecursive(runName string) bool {
	return strings.Contains(runName, "sdqn")
}
