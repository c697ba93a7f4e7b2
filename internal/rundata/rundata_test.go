package rundata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/emer/etable/etable"
	"github.com/emer/etable/etensor"
)

func configTable(t *testing.T) *etable.Table {
	t.Helper()
	sch := etable.Schema{
		{Name: "config_id", Type: etensor.STRING},
		{Name: "dim", Type: etensor.FLOAT64},
		{Name: "benchmark", Type: etensor.STRING},
		{Name: "reverse_agents", Type: etensor.STRING},
		{Name: "n_act", Type: etensor.FLOAT64},
		{Name: "importance_base", Type: etensor.FLOAT64},
		{Name: "reward_shape", Type: etensor.STRING},
		{Name: "exp_reward", Type: etensor.FLOAT64},
	}
	dt := &etable.Table{}
	dt.SetFromSchema(sch, 0)

	add := func(id string, dim float64, benchmark, reverse string, nAct, base float64, shape string, expReward float64) {
		row := dt.Rows
		dt.AddRows(1)
		dt.SetCellString("config_id", row, id)
		dt.SetCellFloat("dim", row, dim)
		dt.SetCellString("benchmark", row, benchmark)
		dt.SetCellString("reverse_agents", row, reverse)
		dt.SetCellFloat("n_act", row, nAct)
		dt.SetCellFloat("importance_base", row, base)
		dt.SetCellString("reward_shape", row, shape)
		dt.SetCellFloat("exp_reward", row, expReward)
	}
	add("best_5D", 5, "candid_sigmoid", "False", 3, 0.5, "exp", 4.6)
	add("best_5D_rev", 5, "candid_sigmoid", "True", 3, 0.5, "exp", 4.6)
	add("best_3D", 3, "candid_sigmoid", "False", 3, 0.5, "exp", 4.6)
	add("sweep_17", 5, "candid_sigmoid", "False", 3, 0.5, "exp", 4.6)
	add("best_5D_lin", 5, "candid_sigmoid", "False", 3, 0.5, "linear", 0)
	add("best_5D_c2", 5, "candid_sigmoid", "False", 3, 0.5, "exp", 2.0)
	add("best_5D_sig", 5, "sigmoid", "False", 3, 0.9, "other", 99)
	return dt
}

func TestFilterConfigsExactID(t *testing.T) {
	dt := configTable(t)
	ix, err := FilterConfigs(dt, ConfigFilter{
		Dim: 5, Benchmark: "candid_sigmoid", ConfigID: "sweep_17", NAct: 3,
	})
	if err != nil {
		t.Fatalf("filter configs: %v", err)
	}
	if ix.Len() != 1 {
		t.Fatalf("got %d rows, want 1", ix.Len())
	}
	if got := dt.CellString("config_id", ix.Idxs[0]); got != "sweep_17" {
		t.Fatalf("matched config_id %q, want sweep_17", got)
	}
}

func TestFilterConfigsBestWildcard(t *testing.T) {
	dt := configTable(t)
	ix, err := FilterConfigs(dt, ConfigFilter{
		Dim: 5, Benchmark: "candid_sigmoid", ConfigID: BestConfigID, NAct: 3,
	})
	if err != nil {
		t.Fatalf("filter configs: %v", err)
	}
	// best_5D only: the reversed, linear-shape, and other-decay rows fail
	// their respective selectors, sweep_17 fails the substring.
	if ix.Len() != 1 {
		t.Fatalf("got %d rows, want 1", ix.Len())
	}
	if got := dt.CellString("config_id", ix.Idxs[0]); got != "best_5D" {
		t.Fatalf("matched config_id %q, want best_5D", got)
	}
}

func TestFilterConfigsReverseAgents(t *testing.T) {
	dt := configTable(t)
	ix, err := FilterConfigs(dt, ConfigFilter{
		Dim: 5, Benchmark: "candid_sigmoid", ConfigID: BestConfigID, ReverseAgents: true, NAct: 3,
	})
	if err != nil {
		t.Fatalf("filter configs: %v", err)
	}
	if ix.Len() != 1 || dt.CellString("config_id", ix.Idxs[0]) != "best_5D_rev" {
		t.Fatalf("reverse_agents selector matched %d rows", ix.Len())
	}
}

func TestFilterConfigsExpRewardOnlyForExpShape(t *testing.T) {
	dt := configTable(t)
	// With a non-exp reward shape the exp_reward column must be ignored:
	// the linear row's decay constant of 0 never matches the default 4.6.
	ix, err := FilterConfigs(dt, ConfigFilter{
		Dim: 5, Benchmark: "candid_sigmoid", ConfigID: "best_5D_lin", NAct: 3, RewardShape: "linear",
	})
	if err != nil {
		t.Fatalf("filter configs: %v", err)
	}
	if ix.Len() != 1 {
		t.Fatalf("got %d rows, want 1 with exp_reward ignored", ix.Len())
	}

	// Under exp shape the decay constant participates.
	ix, err = FilterConfigs(dt, ConfigFilter{
		Dim: 5, Benchmark: "candid_sigmoid", ConfigID: "best_5D_c2", NAct: 3, ExpReward: 2.0,
	})
	if err != nil {
		t.Fatalf("filter configs: %v", err)
	}
	if ix.Len() != 1 {
		t.Fatalf("got %d rows, want 1 for exp_reward 2.0", ix.Len())
	}
	ix, err = FilterConfigs(dt, ConfigFilter{
		Dim: 5, Benchmark: "candid_sigmoid", ConfigID: "best_5D_c2", NAct: 3,
	})
	if err != nil {
		t.Fatalf("filter configs: %v", err)
	}
	if ix.Len() != 0 {
		t.Fatalf("default exp_reward 4.6 must not match the 2.0 row, got %d rows", ix.Len())
	}
}

func TestFilterConfigsIgnoresImportanceSelectorsOutsideWeightedBenchmarks(t *testing.T) {
	dt := configTable(t)
	// The sigmoid row carries mismatched importance_base, reward_shape and
	// exp_reward values; none of them may participate.
	ix, err := FilterConfigs(dt, ConfigFilter{
		Dim: 5, Benchmark: "sigmoid", ConfigID: BestConfigID, NAct: 3,
	})
	if err != nil {
		t.Fatalf("filter configs: %v", err)
	}
	if ix.Len() != 1 || dt.CellString("config_id", ix.Idxs[0]) != "best_5D_sig" {
		t.Fatalf("sigmoid benchmark filter matched %d rows", ix.Len())
	}
}

func TestFilterConfigsEmptyResult(t *testing.T) {
	dt := configTable(t)
	ix, err := FilterConfigs(dt, ConfigFilter{
		Dim: 99, Benchmark: "candid_sigmoid", ConfigID: BestConfigID, NAct: 3,
	})
	if err != nil {
		t.Fatalf("filter configs: %v", err)
	}
	if ix.Len() != 0 {
		t.Fatalf("got %d rows, want empty view", ix.Len())
	}
}

func TestFilterConfigsRequiresActionCount(t *testing.T) {
	dt := configTable(t)
	if _, err := FilterConfigs(dt, ConfigFilter{
		Dim: 5, Benchmark: "candid_sigmoid", ConfigID: BestConfigID,
	}); err == nil {
		t.Fatal("expected error for missing action count")
	}
}

func TestFilterConfigsMissingColumn(t *testing.T) {
	sch := etable.Schema{
		{Name: "config_id", Type: etensor.STRING},
		{Name: "dim", Type: etensor.FLOAT64},
	}
	dt := &etable.Table{}
	dt.SetFromSchema(sch, 0)
	if _, err := FilterConfigs(dt, ConfigFilter{
		Dim: 5, Benchmark: "candid_sigmoid", ConfigID: BestConfigID, NAct: 3,
	}); err == nil {
		t.Fatal("expected error for missing selector columns")
	}
}

func TestFilterConfigsNumericReverseAgents(t *testing.T) {
	sch := etable.Schema{
		{Name: "config_id", Type: etensor.STRING},
		{Name: "dim", Type: etensor.FLOAT64},
		{Name: "benchmark", Type: etensor.STRING},
		{Name: "reverse_agents", Type: etensor.FLOAT64},
		{Name: "n_act", Type: etensor.FLOAT64},
	}
	dt := &etable.Table{}
	dt.SetFromSchema(sch, 1)
	dt.SetCellString("config_id", 0, "best_1D")
	dt.SetCellFloat("dim", 0, 1)
	dt.SetCellString("benchmark", 0, "sigmoid")
	dt.SetCellFloat("reverse_agents", 0, 1)
	dt.SetCellFloat("n_act", 0, 3)

	ix, err := FilterConfigs(dt, ConfigFilter{
		Dim: 1, Benchmark: "sigmoid", ConfigID: BestConfigID, ReverseAgents: true, NAct: 3,
	})
	if err != nil {
		t.Fatalf("filter configs: %v", err)
	}
	if ix.Len() != 1 {
		t.Fatalf("numeric flag column: got %d rows, want 1", ix.Len())
	}
}

func TestLoadTableFromCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config_data.csv")
	csv := "config_id,dim,benchmark,reverse_agents,n_act,importance_base,reward_shape,exp_reward\n" +
		"best_5D,5,candid_sigmoid,False,3,0.5,exp,4.6\n" +
		"sweep_2,3,sigmoid,True,3,0.5,exp,4.6\n"
	if err := os.WriteFile(path, []byte(csv), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	dt, err := LoadTable(path)
	if err != nil {
		t.Fatalf("load table: %v", err)
	}
	if dt.Rows != 2 {
		t.Fatalf("loaded %d rows, want 2", dt.Rows)
	}

	ix, err := FilterConfigs(dt, ConfigFilter{
		Dim: 5, Benchmark: "candid_sigmoid", ConfigID: BestConfigID, NAct: 3,
	})
	if err != nil {
		t.Fatalf("filter configs: %v", err)
	}
	if ix.Len() != 1 || dt.CellString("config_id", ix.Idxs[0]) != "best_5D" {
		t.Fatalf("csv round trip filter matched %d rows", ix.Len())
	}
}

func TestLoadTableMissingFile(t *testing.T) {
	if _, err := LoadTable(filepath.Join(t.TempDir(), "absent.csv")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
