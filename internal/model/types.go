package model

import "time"

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// Manifest records one checkpoint download: which run it came from, what
// the run's configuration said, and which files landed on disk.
type Manifest struct {
	VersionedRecord
	ID        string         `json:"id"`
	Project   string         `json:"project"`
	RunID     string         `json:"run_id"`
	Benchmark string         `json:"benchmark"`
	Dim       int            `json:"dim"`
	Dir       string         `json:"dir"`
	Files     []ManifestFile `json:"files"`
	CreatedAt time.Time      `json:"created_at"`
}

type ManifestFile struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// TotalSize is the byte sum over the manifest's files.
func (m Manifest) TotalSize() int64 {
	var total int64
	for _, f := range m.Files {
		total += f.Size
	}
	return total
}
