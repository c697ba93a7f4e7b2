// Package candiddac is the public surface of the analysis toolkit: checkpoint
// downloads from the tracking service, manifest queries, and the reference
// reward computations the plotting notebooks consume.
package candiddac

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"path/filepath"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/PhilippBordne/candidDAC/internal/analysis"
	"github.com/PhilippBordne/candidDAC/internal/env"
	"github.com/PhilippBordne/candidDAC/internal/model"
	"github.com/PhilippBordne/candidDAC/internal/storage"
	"github.com/PhilippBordne/candidDAC/internal/trackio"
)

const (
	defaultModelsDir = "results/models"
	defaultDBPath    = "candiddac.db"
)

type Options struct {
	StoreKind  string
	DBPath     string
	ModelsDir  string
	TrackerURL string
	APIKey     string
}

type Client struct {
	store      storage.Store
	downloader *trackio.Downloader
	modelsDir  string
}

func New(opts Options) (*Client, error) {
	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}
	modelsDir := opts.ModelsDir
	if modelsDir == "" {
		modelsDir = defaultModelsDir
	}

	store, err := storage.NewStore(opts.StoreKind, dbPath)
	if err != nil {
		return nil, err
	}

	c := &Client{store: store, modelsDir: modelsDir}
	if opts.TrackerURL != "" {
		tracker, err := trackio.NewClient(trackio.Config{BaseURL: opts.TrackerURL, APIKey: opts.APIKey})
		if err != nil {
			return nil, err
		}
		c.downloader = trackio.NewDownloader(tracker, store, modelsDir)
	}
	return c, nil
}

func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

func (c *Client) Init(ctx context.Context) error {
	return c.store.Init(ctx)
}

type DownloadRequest struct {
	Project string
	RunID   string
}

type DownloadSummary struct {
	ManifestID string
	Directory  string
	Benchmark  string
	Dim        int
	Files      int
	TotalBytes int64
}

// DownloadFinalCheckpoints fetches a run's final per-dimension checkpoints
// and records the download manifest.
func (c *Client) DownloadFinalCheckpoints(ctx context.Context, req DownloadRequest) (DownloadSummary, error) {
	if c.downloader == nil {
		return DownloadSummary{}, errors.New("no tracker URL configured")
	}
	if req.Project == "" || req.RunID == "" {
		return DownloadSummary{}, errors.New("download requires project and run id")
	}

	manifest, err := c.downloader.FetchFinalCheckpoints(ctx, req.Project, req.RunID)
	if err != nil {
		return DownloadSummary{}, err
	}
	return DownloadSummary{
		ManifestID: manifest.ID,
		Directory:  filepath.Clean(manifest.Dir),
		Benchmark:  manifest.Benchmark,
		Dim:        manifest.Dim,
		Files:      len(manifest.Files),
		TotalBytes: manifest.TotalSize(),
	}, nil
}

type ManifestsRequest struct {
	Project string
	Limit   int
}

type ManifestItem struct {
	ID           string
	Project      string
	RunID        string
	Benchmark    string
	Dim          int
	Files        int
	TotalBytes   int64
	CreatedAtUTC string
}

// Manifests lists recorded downloads, newest first.
func (c *Client) Manifests(ctx context.Context, req ManifestsRequest) ([]ManifestItem, error) {
	if req.Limit <= 0 {
		req.Limit = 20
	}

	manifests, err := c.store.ListManifests(ctx, req.Project)
	if err != nil {
		return nil, err
	}
	if len(manifests) > req.Limit {
		manifests = manifests[:req.Limit]
	}

	out := make([]ManifestItem, 0, len(manifests))
	for _, m := range manifests {
		out = append(out, ManifestItem{
			ID:           m.ID,
			Project:      m.Project,
			RunID:        m.RunID,
			Benchmark:    m.Benchmark,
			Dim:          m.Dim,
			Files:        len(m.Files),
			TotalBytes:   m.TotalSize(),
			CreatedAtUTC: m.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return out, nil
}

// RunDir is the directory a run's downloaded checkpoints live in.
func (c *Client) RunDir(project, runID string) string {
	return filepath.Join(c.modelsDir, project, runID)
}

type BestRewardRequest struct {
	Dim            int
	Benchmark      string
	RewardShape    string
	ExpReward      float64
	ImportanceBase float64
	NumActions     int
	MaxDim         int
	Seed           int64
	Instances      int
}

// BestReward computes the mean best possible episodic reward over the
// benchmark's instance set.
func (c *Client) BestReward(req BestRewardRequest) (float64, error) {
	return analysis.BestPossibleAvgReward(analysis.BestRewardRequest{
		Dim:            req.Dim,
		Benchmark:      req.Benchmark,
		Shape:          env.RewardShape(req.RewardShape),
		Decay:          req.ExpReward,
		ImportanceBase: req.ImportanceBase,
		NumActions:     req.NumActions,
		MaxDim:         req.MaxDim,
		Seed:           req.Seed,
		Instances:      req.Instances,
	})
}

type EvalRequest struct {
	RunName       string
	Factorized    bool
	Autorecursive bool

	Benchmark      string
	Dim            int
	NumActions     int
	NSteps         int
	Instances      int
	Seed           int64
	ImportanceBase float64
	RewardShape    string
	ExpReward      float64

	// Checkpoint selection; an empty directory evaluates a randomly
	// initialized policy.
	CheckpointDir string
	Episode       int
	Final         bool
	PolicySeed    int64
}

type EvalSummary struct {
	EpisodicRewards []float64
	Mean            float64
}

// EvalPolicy reconstructs a policy for a run configuration and evaluates it
// on every instance of the benchmark.
func (c *Client) EvalPolicy(req EvalRequest) (EvalSummary, error) {
	if req.Dim < 1 {
		return EvalSummary{}, fmt.Errorf("evaluation needs dim >= 1, got %d", req.Dim)
	}

	e, err := benchmarkEnv(req)
	if err != nil {
		return EvalSummary{}, err
	}

	var ckpt *analysis.CheckpointRef
	if req.CheckpointDir != "" {
		ckpt = &analysis.CheckpointRef{Dir: req.CheckpointDir, Episode: req.Episode, Final: req.Final}
	}
	p, err := analysis.LoadPolicy(analysis.PolicyConfig{
		RunName:       req.RunName,
		Factorized:    req.Factorized,
		Autorecursive: req.Autorecursive,
		Dim:           req.Dim,
	}, e, ckpt, rand.New(rand.NewSource(req.PolicySeed)))
	if err != nil {
		return EvalSummary{}, err
	}

	totals, err := analysis.EvalPolicy(p, e)
	if err != nil {
		return EvalSummary{}, err
	}
	return EvalSummary{EpisodicRewards: totals, Mean: stat.Mean(totals, nil)}, nil
}

func benchmarkEnv(req EvalRequest) (env.Environment, error) {
	switch req.Benchmark {
	case env.BenchmarkCandidSigmoid:
		return env.NewImportanceSigmoidBenchmark(env.ImportanceConfig{
			Dimension:      req.Dim,
			NumActions:     req.NumActions,
			NSteps:         req.NSteps,
			Instances:      req.Instances,
			Seed:           req.Seed,
			ImportanceBase: req.ImportanceBase,
			Shape:          env.RewardShape(req.RewardShape),
			Decay:          req.ExpReward,
		})
	case env.BenchmarkPiecewiseLinear:
		return env.NewPiecewiseLinearBenchmark(env.PiecewiseConfig{
			Dimension:      req.Dim,
			NumActions:     req.NumActions,
			NSteps:         req.NSteps,
			Instances:      req.Instances,
			Seed:           req.Seed,
			ImportanceBase: req.ImportanceBase,
			Shape:          env.RewardShape(req.RewardShape),
			Decay:          req.ExpReward,
		})
	default:
		return env.NewSigmoidBenchmark(env.SigmoidConfig{
			Dimension:  req.Dim,
			NumActions: req.NumActions,
			NSteps:     req.NSteps,
			Instances:  req.Instances,
			Seed:       req.Seed,
		})
	}
}

// Manifest looks up one recorded download by its manifest ID.
func (c *Client) Manifest(ctx context.Context, id string) (model.Manifest, error) {
	manifest, ok, err := c.store.GetManifest(ctx, id)
	if err != nil {
		return model.Manifest{}, err
	}
	if !ok {
		return model.Manifest{}, fmt.Errorf("manifest not found: %s", id)
	}
	return manifest, nil
}
