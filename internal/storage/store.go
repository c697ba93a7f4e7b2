package storage

import (
	"context"

	"github.com/PhilippBordne/candidDAC/internal/model"
)

// Store defines persistence operations for checkpoint download manifests.
type Store interface {
	Init(ctx context.Context) error
	SaveManifest(ctx context.Context, manifest model.Manifest) error
	GetManifest(ctx context.Context, id string) (model.Manifest, bool, error)
	// GetRunManifest returns the most recent manifest for a project/run pair.
	GetRunManifest(ctx context.Context, project, runID string) (model.Manifest, bool, error)
	// ListManifests returns every manifest of a project, newest first. An
	// empty project lists everything.
	ListManifests(ctx context.Context, project string) ([]model.Manifest, error)
}
