package trackio

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/PhilippBordne/candidDAC/internal/env"
	"github.com/PhilippBordne/candidDAC/internal/model"
	"github.com/PhilippBordne/candidDAC/internal/policy"
	"github.com/PhilippBordne/candidDAC/internal/storage"
)

// Downloader fetches final checkpoints for tracked runs and records a
// manifest per download in the store.
type Downloader struct {
	client  *Client
	store   storage.Store
	baseDir string
}

// NewDownloader wires a client to a manifest store. The store may be nil,
// in which case downloads are not recorded.
func NewDownloader(client *Client, store storage.Store, baseDir string) *Downloader {
	return &Downloader{client: client, store: store, baseDir: baseDir}
}

// RunDir is the project/run-scoped directory a run's files land in.
func (d *Downloader) RunDir(project, runID string) string {
	return filepath.Join(d.baseDir, project, runID)
}

func finalCheckpointBenchmark(benchmark string) bool {
	return benchmark == env.BenchmarkCandidSigmoid || benchmark == env.BenchmarkPiecewiseLinear
}

// FetchFinalCheckpoints looks up the run's configuration and, for the
// factorized-training benchmarks, downloads one final q-network checkpoint
// per action dimension. Other benchmarks yield an empty manifest; the
// lookup itself is still recorded.
func (d *Downloader) FetchFinalCheckpoints(ctx context.Context, project, runID string) (model.Manifest, error) {
	run, err := d.client.Run(ctx, project, runID)
	if err != nil {
		return model.Manifest{}, err
	}

	dir := d.RunDir(project, runID)
	var files []model.ManifestFile
	if finalCheckpointBenchmark(run.Config.Benchmark) {
		for i := 0; i < run.Config.Dim; i++ {
			name := fmt.Sprintf("%s_q_network_%d.pth", policy.FinalMarker, i)
			size, err := d.client.DownloadFile(ctx, project, runID, name, dir)
			if err != nil {
				return model.Manifest{}, err
			}
			files = append(files, model.ManifestFile{Name: name, Size: size})
		}
	}

	manifest := model.Manifest{
		VersionedRecord: model.VersionedRecord{
			SchemaVersion: storage.CurrentSchemaVersion,
			CodecVersion:  storage.CurrentCodecVersion,
		},
		ID:        uuid.NewString(),
		Project:   project,
		RunID:     runID,
		Benchmark: run.Config.Benchmark,
		Dim:       run.Config.Dim,
		Dir:       dir,
		Files:     files,
		CreatedAt: time.Now().UTC(),
	}
	if d.store != nil {
		if err := d.store.SaveManifest(ctx, manifest); err != nil {
			return model.Manifest{}, fmt.Errorf("record manifest for %s/%s: %w", project, runID, err)
		}
	}
	return manifest, nil
}
