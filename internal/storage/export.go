package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/lorentz/internal/dynamo"
)

type ExportData struct {
	Run       RunMetadata `json:"run"`
	Columns   []string    `json:"columns"`
	Rows      [][]float64 `json:"rows"`
	Energy    []float64   `json:"energy"`
	Truncated bool        `json:"truncated,omitempty"`
}

// ExportJSON writes the run metadata and its frames as one JSON document.
// JSON has no encoding for NaN or Inf, so frames from the first non-finite
// one onward are dropped and Truncated is set.
func ExportJSON(w io.Writer, meta RunMetadata, frames []dynamo.Frame) error {
	data := ExportData{
		Run:     meta,
		Columns: []string{"t", "x", "y", "z", "vx", "vy", "vz"},
		Rows:    make([][]float64, 0, len(frames)),
		Energy:  make([]float64, 0, len(frames)),
	}

	for _, f := range frames {
		if !f.IsValid() {
			data.Truncated = true
			break
		}
		row := f.Row()
		data.Rows = append(data.Rows, row[:])
		data.Energy = append(data.Energy, f.Energy)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
