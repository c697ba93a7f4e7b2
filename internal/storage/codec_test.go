package storage

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/PhilippBordne/candidDAC/internal/model"
)

func TestManifestCodecRoundTrip(t *testing.T) {
	input := model.Manifest{
		VersionedRecord: model.VersionedRecord{SchemaVersion: CurrentSchemaVersion, CodecVersion: CurrentCodecVersion},
		ID:              "m1",
		Project:         "CANDID_DAC",
		RunID:           "pflbflhn",
		Benchmark:       "piecewise_linear",
		Dim:             3,
		Dir:             "results/models/CANDID_DAC/pflbflhn",
		Files: []model.ManifestFile{
			{Name: "final_q_network_0.pth", Size: 1024},
		},
		CreatedAt: time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC),
	}

	encoded, err := EncodeManifest(input)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := DecodeManifest(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if !reflect.DeepEqual(decoded, input) {
		t.Fatalf("roundtrip mismatch\nactual=%+v\nexpected=%+v", decoded, input)
	}
}

func TestDecodeManifestVersionMismatch(t *testing.T) {
	input := model.Manifest{
		VersionedRecord: model.VersionedRecord{SchemaVersion: CurrentSchemaVersion, CodecVersion: CurrentCodecVersion + 1},
		ID:              "m1",
	}
	encoded, err := EncodeManifest(input)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	_, err = DecodeManifest(encoded)
	if !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("expected ErrVersionMismatch, got: %v", err)
	}
}

func TestDecodeManifestMalformed(t *testing.T) {
	if _, err := DecodeManifest([]byte("{not json")); err == nil {
		t.Fatal("expected decode error for malformed payload")
	}
}
