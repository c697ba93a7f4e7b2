package policy

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gonum.org/v1/gonum/mat"
)

// CurrentCheckpointVersion guards the on-disk weight layout.
const CurrentCheckpointVersion = 1

var ErrCheckpointVersion = errors.New("checkpoint version mismatch")

// FinalMarker is the episode marker of the checkpoint written at the end of
// training.
const FinalMarker = "final"

// EpisodeMarker renders the filename fragment identifying a checkpointed
// episode.
func EpisodeMarker(episode int, final bool) string {
	if final {
		return FinalMarker
	}
	return strconv.Itoa(episode)
}

// QNetworkFile is the conventional q-network checkpoint path for one action
// dimension.
func QNetworkFile(dir, marker string, dim int) string {
	return filepath.Join(dir, fmt.Sprintf("%s_q_network_%d.pth", marker, dim))
}

// TargetNetworkFile is the conventional target-network checkpoint path.
func TargetNetworkFile(dir, marker string, dim int) string {
	return filepath.Join(dir, fmt.Sprintf("%s_target_network_%d.pth", marker, dim))
}

type checkpointRecord struct {
	Version int       `json:"version"`
	In      int       `json:"in"`
	Hidden  int       `json:"hidden"`
	Out     int       `json:"out"`
	W1      []float64 `json:"w1"` // row-major hidden x in
	B1      []float64 `json:"b1"`
	W2      []float64 `json:"w2"` // row-major out x hidden
	B2      []float64 `json:"b2"`
}

// Save writes the network weights to path.
func (q *QNetwork) Save(path string) error {
	record := checkpointRecord{
		Version: CurrentCheckpointVersion,
		In:      q.in,
		Hidden:  q.hidden,
		Out:     q.out,
		W1:      flatten(q.w1),
		B1:      append([]float64(nil), q.b1...),
		W2:      flatten(q.w2),
		B2:      append([]float64(nil), q.b2...),
	}
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadQNetwork restores a network from a checkpoint file.
func LoadQNetwork(path string) (*QNetwork, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var record checkpointRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("decode checkpoint %s: %w", path, err)
	}
	if record.Version != CurrentCheckpointVersion {
		return nil, fmt.Errorf("checkpoint %s: %w", path, ErrCheckpointVersion)
	}
	if record.In < 1 || record.Hidden < 1 || record.Out < 1 {
		return nil, fmt.Errorf("checkpoint %s has invalid layer sizes", path)
	}
	if len(record.W1) != record.Hidden*record.In ||
		len(record.B1) != record.Hidden ||
		len(record.W2) != record.Out*record.Hidden ||
		len(record.B2) != record.Out {
		return nil, fmt.Errorf("checkpoint %s has inconsistent weight shapes", path)
	}

	return &QNetwork{
		in:     record.In,
		hidden: record.Hidden,
		out:    record.Out,
		w1:     mat.NewDense(record.Hidden, record.In, record.W1),
		b1:     record.B1,
		w2:     mat.NewDense(record.Out, record.Hidden, record.W2),
		b2:     record.B2,
	}, nil
}

func flatten(m *mat.Dense) []float64 {
	r, c := m.Dims()
	out := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		out = append(out, m.RawRowView(i)...)
	}
	return out
}
