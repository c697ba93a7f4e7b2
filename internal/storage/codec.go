package storage

import (
	"encoding/json"
	"errors"

	"github.com/PhilippBordne/candidDAC/internal/model"
)

const (
	CurrentSchemaVersion = 1
	CurrentCodecVersion  = 1
)

var ErrVersionMismatch = errors.New("record version mismatch")

func EncodeManifest(m model.Manifest) ([]byte, error) {
	return json.Marshal(m)
}

func DecodeManifest(data []byte) (model.Manifest, error) {
	var manifest model.Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return model.Manifest{}, err
	}
	if err := checkVersion(manifest.VersionedRecord); err != nil {
		return model.Manifest{}, err
	}
	return manifest, nil
}

func checkVersion(v model.VersionedRecord) error {
	if v.SchemaVersion != CurrentSchemaVersion || v.CodecVersion != CurrentCodecVersion {
		return ErrVersionMismatch
	}
	return nil
}
