package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/PhilippBordne/candidDAC/pkg/candiddac"
)

type storeFlags struct {
	storeKind string
	dbPath    string
}

func (f *storeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.storeKind, "store", "memory", "manifest store backend (memory or sqlite)")
	cmd.Flags().StringVar(&f.dbPath, "db-path", "", "sqlite database path for the manifest store")
}

func DownloadCommand() *cobra.Command {
	var (
		store      storeFlags
		project    string
		runID      string
		trackerURL string
		apiKey     string
		modelsDir  string
	)
	cmd := &cobra.Command{
		Use:   "download",
		Short: "download a run's final checkpoints from the tracking service",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := candiddac.New(candiddac.Options{
				StoreKind:  store.storeKind,
				DBPath:     store.dbPath,
				ModelsDir:  modelsDir,
				TrackerURL: trackerURL,
				APIKey:     apiKey,
			})
			if err != nil {
				return err
			}
			defer client.Close()
			if err := client.Init(cmd.Context()); err != nil {
				return err
			}

			summary, err := client.DownloadFinalCheckpoints(cmd.Context(), candiddac.DownloadRequest{
				Project: project,
				RunID:   runID,
			})
			if err != nil {
				return err
			}

			if summary.Files == 0 {
				fmt.Printf("run %s/%s: benchmark %q has no final per-dimension checkpoints\n",
					project, runID, summary.Benchmark)
				return nil
			}
			fmt.Printf("downloaded %d checkpoints (%s) for %s/%s (benchmark=%s dim=%d)\n",
				summary.Files, humanize.Bytes(uint64(summary.TotalBytes)),
				project, runID, summary.Benchmark, summary.Dim)
			fmt.Printf("stored in %s (manifest %s)\n", summary.Directory, summary.ManifestID)
			return nil
		},
	}
	store.register(cmd)
	cmd.Flags().StringVar(&project, "project", "", "tracking project name")
	cmd.Flags().StringVar(&runID, "run", "", "run identifier")
	cmd.Flags().StringVar(&trackerURL, "tracker-url", "", "tracking service base URL")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "tracking service API key")
	cmd.Flags().StringVar(&modelsDir, "models-dir", "", "base directory for downloaded checkpoints")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("run")
	_ = cmd.MarkFlagRequired("tracker-url")
	return cmd
}

func ManifestsCommand() *cobra.Command {
	var (
		store   storeFlags
		project string
		limit   int
	)
	cmd := &cobra.Command{
		Use:   "manifests",
		Short: "list recorded checkpoint downloads",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := candiddac.New(candiddac.Options{
				StoreKind: store.storeKind,
				DBPath:    store.dbPath,
			})
			if err != nil {
				return err
			}
			defer client.Close()
			if err := client.Init(cmd.Context()); err != nil {
				return err
			}

			items, err := client.Manifests(cmd.Context(), candiddac.ManifestsRequest{
				Project: project,
				Limit:   limit,
			})
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Println("no manifests recorded")
				return nil
			}
			for _, item := range items {
				fmt.Printf("%s  %s/%s  benchmark=%s dim=%d files=%d size=%s  %s\n",
					item.ID, item.Project, item.RunID, item.Benchmark, item.Dim,
					item.Files, humanize.Bytes(uint64(item.TotalBytes)), item.CreatedAtUTC)
			}
			return nil
		},
	}
	store.register(cmd)
	cmd.Flags().StringVar(&project, "project", "", "restrict to one project")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of manifests to list")
	return cmd
}
