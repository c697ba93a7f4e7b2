package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PhilippBordne/candidDAC/internal/rundata"
)

func ConfigsCommand() *cobra.Command {
	var (
		path   string
		filter rundata.ConfigFilter
	)
	cmd := &cobra.Command{
		Use:   "configs",
		Short: "filter the exported run-configuration table",
		RunE: func(cmd *cobra.Command, args []string) error {
			dt, err := rundata.LoadTable(path)
			if err != nil {
				return err
			}
			ix, err := rundata.FilterConfigs(dt, filter)
			if err != nil {
				return err
			}
			if ix.Len() == 0 {
				fmt.Println("no matching configurations")
				return nil
			}
			for _, row := range ix.Idxs {
				fmt.Printf("%s  benchmark=%s dim=%g n_act=%g\n",
					dt.CellString("config_id", row),
					dt.CellString("benchmark", row),
					dt.CellFloat("dim", row),
					dt.CellFloat("n_act", row))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "table", rundata.DefaultPaths().Configs, "path to the config table CSV")
	cmd.Flags().StringVar(&filter.ConfigID, "config-id", rundata.BestConfigID, "config id to select (best matches every tuned configuration)")
	cmd.Flags().IntVar(&filter.Dim, "dim", 1, "benchmark dimensionality")
	cmd.Flags().StringVar(&filter.Benchmark, "benchmark", "candid_sigmoid", "benchmark name")
	cmd.Flags().BoolVar(&filter.ReverseAgents, "reverse-agents", false, "select runs with reversed agent ordering")
	cmd.Flags().IntVar(&filter.NAct, "n-act", 0, "actions per dimension (required)")
	cmd.Flags().Float64Var(&filter.ImportanceBase, "importance-base", 0, "importance base selector (0 = default 0.5)")
	cmd.Flags().StringVar(&filter.RewardShape, "reward-shape", "", "reward shape selector (empty = default exp)")
	cmd.Flags().Float64Var(&filter.ExpReward, "exp-reward", 0, "exponential decay selector (0 = default 4.6)")
	_ = cmd.MarkFlagRequired("n-act")
	return cmd
}
