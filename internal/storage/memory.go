package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/PhilippBordne/candidDAC/internal/model"
)

type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	manifests   map[string]model.Manifest
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.manifests = make(map[string]model.Manifest)
	return nil
}

func (s *MemoryStore) SaveManifest(_ context.Context, manifest model.Manifest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := manifest
	copied.Files = append([]model.ManifestFile(nil), manifest.Files...)
	s.manifests[manifest.ID] = copied
	return nil
}

func (s *MemoryStore) GetManifest(_ context.Context, id string) (model.Manifest, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	manifest, ok := s.manifests[id]
	if !ok {
		return model.Manifest{}, false, nil
	}
	copied := manifest
	copied.Files = append([]model.ManifestFile(nil), manifest.Files...)
	return copied, true, nil
}

func (s *MemoryStore) GetRunManifest(ctx context.Context, project, runID string) (model.Manifest, bool, error) {
	manifests, err := s.ListManifests(ctx, project)
	if err != nil {
		return model.Manifest{}, false, err
	}
	for _, manifest := range manifests {
		if manifest.RunID == runID {
			return manifest, true, nil
		}
	}
	return model.Manifest{}, false, nil
}

func (s *MemoryStore) ListManifests(_ context.Context, project string) ([]model.Manifest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Manifest, 0, len(s.manifests))
	for _, manifest := range s.manifests {
		if project != "" && manifest.Project != project {
			continue
		}
		copied := manifest
		copied.Files = append([]model.ManifestFile(nil), manifest.Files...)
		out = append(out, copied)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
