//go:build sqlite

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/PhilippBordne/candidDAC/internal/model"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}

	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

func (s *SQLiteStore) SaveManifest(ctx context.Context, manifest model.Manifest) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	payload, err := EncodeManifest(manifest)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO manifests (id, project, run_id, created_at, schema_version, codec_version, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			project = excluded.project,
			run_id = excluded.run_id,
			created_at = excluded.created_at,
			schema_version = excluded.schema_version,
			codec_version = excluded.codec_version,
			payload = excluded.payload
	`, manifest.ID, manifest.Project, manifest.RunID, manifest.CreatedAt.UnixNano(),
		manifest.SchemaVersion, manifest.CodecVersion, payload)
	return err
}

func (s *SQLiteStore) GetManifest(ctx context.Context, id string) (model.Manifest, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return model.Manifest{}, false, err
	}

	var payload []byte
	err = db.QueryRowContext(ctx, `SELECT payload FROM manifests WHERE id = ?`, id).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Manifest{}, false, nil
		}
		return model.Manifest{}, false, err
	}

	manifest, err := DecodeManifest(payload)
	if err != nil {
		return model.Manifest{}, false, fmt.Errorf("decode manifest %s: %w", id, err)
	}
	return manifest, true, nil
}

func (s *SQLiteStore) GetRunManifest(ctx context.Context, project, runID string) (model.Manifest, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return model.Manifest{}, false, err
	}

	var payload []byte
	err = db.QueryRowContext(ctx, `
		SELECT payload FROM manifests
		WHERE project = ? AND run_id = ?
		ORDER BY created_at DESC, id
		LIMIT 1
	`, project, runID).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Manifest{}, false, nil
		}
		return model.Manifest{}, false, err
	}

	manifest, err := DecodeManifest(payload)
	if err != nil {
		return model.Manifest{}, false, fmt.Errorf("decode manifest %s/%s: %w", project, runID, err)
	}
	return manifest, true, nil
}

func (s *SQLiteStore) ListManifests(ctx context.Context, project string) ([]model.Manifest, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT payload FROM manifests
		WHERE ? = '' OR project = ?
		ORDER BY created_at DESC, id
	`, project, project)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Manifest
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		manifest, err := DecodeManifest(payload)
		if err != nil {
			return nil, fmt.Errorf("decode manifest: %w", err)
		}
		out = append(out, manifest)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errors.New("store is not initialized")
	}
	return s.db, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS manifests (
			id TEXT PRIMARY KEY,
			project TEXT NOT NULL,
			run_id TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			schema_version INTEGER NOT NULL,
			codec_version INTEGER NOT NULL,
			payload BLOB NOT NULL
		);
		CREATE INDEX IF NOT EXISTS manifests_project_run ON manifests (project, run_id);
	`)
	return err
}
