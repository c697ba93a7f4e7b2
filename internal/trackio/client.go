// Package trackio is a minimal read-only client for the experiment
// tracking service: run configuration lookup and checkpoint file download.
package trackio

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config configures the tracking service client.
type Config struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

type Client struct {
	baseURL string
	apiKey  string
	hc      *http.Client
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("tracking client needs a base URL")
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		hc:      hc,
	}, nil
}

// RunConfig is the slice of a run's recorded configuration the downloader
// needs.
type RunConfig struct {
	Benchmark string `json:"benchmark"`
	Dim       int    `json:"dim"`
}

// Run is one tracked training run.
type Run struct {
	Project string
	ID      string
	Config  RunConfig
}

type runResponse struct {
	Config RunConfig `json:"config"`
}

// Run fetches the run record for a project/run pair.
func (c *Client) Run(ctx context.Context, project, runID string) (Run, error) {
	endpoint := fmt.Sprintf("%s/runs/%s/%s", c.baseURL, url.PathEscape(project), url.PathEscape(runID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Run{}, err
	}
	c.authorize(req)

	resp, err := c.hc.Do(req)
	if err != nil {
		return Run{}, fmt.Errorf("fetch run %s/%s: %w", project, runID, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Run{}, fmt.Errorf("fetch run %s/%s: unexpected status %s", project, runID, resp.Status)
	}

	var decoded runResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return Run{}, fmt.Errorf("decode run %s/%s: %w", project, runID, err)
	}
	return Run{Project: project, ID: runID, Config: decoded.Config}, nil
}

// DownloadFile fetches one of the run's files into destDir, creating the
// directory if absent and always replacing an existing file. It returns the
// number of bytes written.
func (c *Client) DownloadFile(ctx context.Context, project, runID, name, destDir string) (int64, error) {
	endpoint := fmt.Sprintf("%s/files/%s/%s/%s",
		c.baseURL, url.PathEscape(project), url.PathEscape(runID), url.PathEscape(name))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, err
	}
	c.authorize(req)

	resp, err := c.hc.Do(req)
	if err != nil {
		return 0, fmt.Errorf("download %s: %w", name, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("download %s: unexpected status %s", name, resp.Status)
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return 0, err
	}
	dest, err := os.Create(filepath.Join(destDir, name))
	if err != nil {
		return 0, err
	}
	written, err := io.Copy(dest, resp.Body)
	if closeErr := dest.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return 0, fmt.Errorf("write %s: %w", name, err)
	}
	return written, nil
}

func (c *Client) authorize(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}
