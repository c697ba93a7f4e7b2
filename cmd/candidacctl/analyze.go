package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PhilippBordne/candidDAC/pkg/candiddac"
)

func BestRewardCommand() *cobra.Command {
	var req candiddac.BestRewardRequest
	cmd := &cobra.Command{
		Use:   "best-reward",
		Short: "compute the mean best possible episodic reward for a benchmark",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := candiddac.New(candiddac.Options{StoreKind: "memory"})
			if err != nil {
				return err
			}
			defer client.Close()

			mean, err := client.BestReward(req)
			if err != nil {
				return err
			}
			fmt.Printf("best possible average reward (%s, dim=%d): %.6f\n", req.Benchmark, req.Dim, mean)
			return nil
		},
	}
	cmd.Flags().IntVar(&req.Dim, "dim", 1, "benchmark dimensionality")
	cmd.Flags().StringVar(&req.Benchmark, "benchmark", "candid_sigmoid", "benchmark name (sigmoid, candid_sigmoid, piecewise_linear)")
	cmd.Flags().StringVar(&req.RewardShape, "reward-shape", "", "reward shaping (empty for linear, exp for exponential)")
	cmd.Flags().Float64Var(&req.ExpReward, "exp-reward", 0, "decay rate for exponential reward shaping")
	cmd.Flags().Float64Var(&req.ImportanceBase, "importance-base", 0.5, "geometric base of the dimension importances")
	cmd.Flags().IntVar(&req.NumActions, "n-act", 3, "actions per dimension")
	cmd.Flags().IntVar(&req.MaxDim, "max-dim", 0, "dimensions accumulated into the action grid (0 = dim)")
	cmd.Flags().Int64Var(&req.Seed, "seed", 0, "instance sampling seed")
	cmd.Flags().IntVar(&req.Instances, "instances", 0, "number of sampled instances (0 = benchmark default)")
	return cmd
}

func EvalCommand() *cobra.Command {
	var req candiddac.EvalRequest
	cmd := &cobra.Command{
		Use:   "eval",
		Short: "evaluate a run's policy on every benchmark instance",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := candiddac.New(candiddac.Options{StoreKind: "memory"})
			if err != nil {
				return err
			}
			defer client.Close()

			summary, err := client.EvalPolicy(req)
			if err != nil {
				return err
			}
			for i, r := range summary.EpisodicRewards {
				fmt.Printf("instance %d: %.6f\n", i, r)
			}
			fmt.Printf("mean episodic reward: %.6f\n", summary.Mean)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.RunName, "run-name", "", "run name encoding the agent configuration")
	cmd.Flags().BoolVar(&req.Factorized, "factorized", false, "use a factorized per-dimension policy")
	cmd.Flags().BoolVar(&req.Autorecursive, "autorecursive", false, "condition each sub-policy on earlier action selections")
	cmd.Flags().StringVar(&req.Benchmark, "benchmark", "candid_sigmoid", "benchmark name")
	cmd.Flags().IntVar(&req.Dim, "dim", 1, "benchmark dimensionality")
	cmd.Flags().IntVar(&req.NumActions, "n-act", 0, "actions per dimension (0 = benchmark default)")
	cmd.Flags().IntVar(&req.NSteps, "n-steps", 0, "episode horizon (0 = benchmark default)")
	cmd.Flags().IntVar(&req.Instances, "instances", 0, "number of sampled instances (0 = benchmark default)")
	cmd.Flags().Int64Var(&req.Seed, "seed", 0, "instance sampling seed")
	cmd.Flags().Float64Var(&req.ImportanceBase, "importance-base", 0.5, "geometric base of the dimension importances")
	cmd.Flags().StringVar(&req.RewardShape, "reward-shape", "", "reward shaping (empty for linear, exp for exponential)")
	cmd.Flags().Float64Var(&req.ExpReward, "exp-reward", 0, "decay rate for exponential reward shaping")
	cmd.Flags().StringVar(&req.CheckpointDir, "checkpoint-dir", "", "directory holding the run's checkpoints (empty evaluates a random policy)")
	cmd.Flags().IntVar(&req.Episode, "episode", 0, "checkpoint episode to load")
	cmd.Flags().BoolVar(&req.Final, "final", false, "load the final checkpoint instead of an episode checkpoint")
	cmd.Flags().Int64Var(&req.PolicySeed, "policy-seed", 0, "weight initialization seed for random policies")
	_ = cmd.MarkFlagRequired("run-name")
	return cmd
}
