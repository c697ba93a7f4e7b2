package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:           "candidacctl",
		Short:         "analysis toolkit for dimension-aware control experiments",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		DownloadCommand(),
		ManifestsCommand(),
		BestRewardCommand(),
		EvalCommand(),
		ConfigsCommand(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
