package storage

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/san-kum/lorentz/internal/dynamo"
	"github.com/san-kum/lorentz/internal/metrics"
	"github.com/san-kum/lorentz/internal/vec"
)

const metadataFile = "metadata.json"

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Species    string             `json:"species"`
	Field      string             `json:"field"`
	Integrator string             `json:"integrator"`
	Timestamp  time.Time          `json:"timestamp"`
	Charge     float64            `json:"charge"`
	Mass       float64            `json:"mass"`
	Position   vec.Vector3        `json:"position"`
	Velocity   vec.Vector3        `json:"velocity"`
	Time       dynamo.TimeConfig  `json:"time"`
	TotalSteps int                `json:"total_steps"`
	Frames     int                `json:"frames"`
	Metrics    map[string]float64 `json:"metrics"`
	Summary    metrics.Summary    `json:"summary"`
}

// RunInfo names what produced a result.
type RunInfo struct {
	Field      string
	Integrator string
}

func (s *Store) Save(info RunInfo, result *dynamo.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%s", result.Species, now.Format("20060102-150405.000000"))
	runDir := filepath.Join(s.baseDir, runID)

	w, err := CreateFrameFiles(runDir)
	if err != nil {
		return "", err
	}
	for _, f := range result.Frames {
		if err := w.WriteFrame(f); err != nil {
			w.Close()
			return "", err
		}
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Species:    result.Species.String(),
		Field:      info.Field,
		Integrator: info.Integrator,
		Timestamp:  now,
		Charge:     result.Initial.Charge,
		Mass:       result.Initial.Mass,
		Position:   result.Initial.Position,
		Velocity:   result.Initial.Velocity,
		Time:       result.Time,
		TotalSteps: result.Time.TotalSteps(),
		Frames:     len(result.Frames),
		Metrics:    finiteMetrics(result.Metrics),
		Summary:    metrics.Summarize(result.Frames),
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}

	return runID, nil
}

// List returns the stored runs, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}

		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadFrames(runID string) ([]dynamo.Frame, error) {
	return LoadFrameFiles(filepath.Join(s.baseDir, runID))
}

// LoadFrameFiles reads output.txt and energy.txt from dir.
func LoadFrameFiles(dir string) ([]dynamo.Frame, error) {
	out, err := os.Open(filepath.Join(dir, OutputFile))
	if err != nil {
		return nil, err
	}
	defer out.Close()

	energy, err := os.Open(filepath.Join(dir, EnergyFile))
	if err != nil {
		return nil, err
	}
	defer energy.Close()

	return ReadFrames(out, energy)
}

// finiteMetrics drops NaN and Inf values, which JSON cannot encode. The
// summary still records the blow-up.
func finiteMetrics(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		out[k] = v
	}
	return out
}

func writeJSON(path string, v any) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
