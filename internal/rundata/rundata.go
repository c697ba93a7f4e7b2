// Package rundata loads the exported experiment tables and filters run
// configurations by their selector columns.
package rundata

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/emer/etable/etable"
)

// Paths locates the three exported run-data tables.
type Paths struct {
	Configs      string
	TrainRewards string
	CkptEval     string
}

// DefaultPaths matches the export layout of the training pipeline.
func DefaultPaths() Paths {
	return Paths{
		Configs:      "run_data/config_data.csv",
		TrainRewards: "run_data/avg_episodic_reward.csv",
		CkptEval:     "run_data/ckpt_eval.csv",
	}
}

// Tables bundles the loaded run-data tables.
type Tables struct {
	Configs      *etable.Table
	TrainRewards *etable.Table
	CkptEval     *etable.Table
}

// LoadTable reads one CSV export into a table.
func LoadTable(path string) (*etable.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dt := &etable.Table{}
	if err := dt.ReadCSV(f, etable.Comma); err != nil {
		return nil, fmt.Errorf("read table %s: %w", path, err)
	}
	return dt, nil
}

// Load reads all three run-data tables.
func Load(p Paths) (*Tables, error) {
	configs, err := LoadTable(p.Configs)
	if err != nil {
		return nil, err
	}
	train, err := LoadTable(p.TrainRewards)
	if err != nil {
		return nil, err
	}
	ckpt, err := LoadTable(p.CkptEval)
	if err != nil {
		return nil, err
	}
	return &Tables{Configs: configs, TrainRewards: train, CkptEval: ckpt}, nil
}

// BestConfigID selects every row whose config_id contains "best" instead of
// matching one ID exactly.
const BestConfigID = "best"

// ConfigFilter is the selector set applied to the run-configuration table.
// ImportanceBase and RewardShape apply only to the importance-weighted
// benchmarks, ExpReward additionally only when the reward shape is "exp".
type ConfigFilter struct {
	Dim           int
	Benchmark     string
	ConfigID      string
	ReverseAgents bool
	NAct          int

	ImportanceBase float64 // defaults to 0.5
	RewardShape    string  // defaults to "exp"
	ExpReward      float64 // defaults to 4.6
}

func (f *ConfigFilter) setDefaults() error {
	if f.NAct == 0 {
		return fmt.Errorf("config filter needs an explicit action count")
	}
	if f.ImportanceBase == 0 {
		f.ImportanceBase = 0.5
	}
	if f.RewardShape == "" {
		f.RewardShape = "exp"
	}
	if f.ExpReward == 0 {
		f.ExpReward = 4.6
	}
	return nil
}

func importanceWeighted(benchmark string) bool {
	return benchmark == "candid_sigmoid" || benchmark == "piecewise_linear"
}

var configColumns = []string{"config_id", "dim", "benchmark", "reverse_agents", "n_act"}

// FilterConfigs returns an index view of the rows matching every applicable
// selector. Rows are never mutated; an empty view is a valid result.
func FilterConfigs(dt *etable.Table, filter ConfigFilter) (*etable.IdxView, error) {
	if err := filter.setDefaults(); err != nil {
		return nil, err
	}
	required := configColumns
	if importanceWeighted(filter.Benchmark) {
		required = append(append([]string(nil), required...), "importance_base", "reward_shape")
		if filter.RewardShape == "exp" {
			required = append(required, "exp_reward")
		}
	}
	for _, col := range required {
		if _, err := dt.ColByNameTry(col); err != nil {
			return nil, fmt.Errorf("config table: %w", err)
		}
	}

	ix := etable.NewIdxView(dt)
	ix.Filter(func(et *etable.Table, row int) bool {
		if filter.ConfigID == BestConfigID {
			if !strings.Contains(et.CellString("config_id", row), BestConfigID) {
				return false
			}
		} else if et.CellString("config_id", row) != filter.ConfigID {
			return false
		}

		if !floatEq(et.CellFloat("dim", row), float64(filter.Dim)) ||
			et.CellString("benchmark", row) != filter.Benchmark ||
			cellBool(et, "reverse_agents", row) != filter.ReverseAgents ||
			!floatEq(et.CellFloat("n_act", row), float64(filter.NAct)) {
			return false
		}

		if importanceWeighted(filter.Benchmark) {
			if !floatEq(et.CellFloat("importance_base", row), filter.ImportanceBase) ||
				et.CellString("reward_shape", row) != filter.RewardShape {
				return false
			}
			if filter.RewardShape == "exp" &&
				!floatEq(et.CellFloat("exp_reward", row), filter.ExpReward) {
				return false
			}
		}
		return true
	})
	return ix, nil
}

// cellBool reads a flag column that may be stored numerically or as a
// True/False string.
func cellBool(et *etable.Table, col string, row int) bool {
	switch strings.ToLower(et.CellString(col, row)) {
	case "true", "1":
		return true
	case "false", "0", "":
		return false
	}
	v := et.CellFloat(col, row)
	return !math.IsNaN(v) && v != 0
}

func floatEq(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9
}
