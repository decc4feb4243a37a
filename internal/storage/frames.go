package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/san-kum/lorentz/internal/dynamo"
	"github.com/san-kum/lorentz/internal/vec"
)

const (
	OutputFile = "output.txt"
	EnergyFile = "energy.txt"

	precision = 6
)

// FrameWriter writes the two trajectory tables: one row of
// "t x y z vx vy vz" per frame to the output destination and one row of
// "t E" to the energy destination, space separated in fixed-point notation.
type FrameWriter struct {
	out    *csv.Writer
	energy *csv.Writer
	closer []io.Closer
	rows   int
}

func NewFrameWriter(out, energy io.Writer) *FrameWriter {
	return &FrameWriter{out: spaceWriter(out), energy: spaceWriter(energy)}
}

// CreateFrameFiles opens output.txt and energy.txt inside dir, creating dir if
// needed. Existing files are truncated.
func CreateFrameFiles(dir string) (*FrameWriter, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	out, err := os.Create(filepath.Join(dir, OutputFile))
	if err != nil {
		return nil, err
	}
	energy, err := os.Create(filepath.Join(dir, EnergyFile))
	if err != nil {
		out.Close()
		return nil, err
	}
	w := NewFrameWriter(out, energy)
	w.closer = []io.Closer{out, energy}
	return w, nil
}

func (w *FrameWriter) WriteFrame(f dynamo.Frame) error {
	row := f.Row()
	record := make([]string, len(row))
	for i, v := range row {
		record[i] = formatFloat(v)
	}
	if err := w.out.Write(record); err != nil {
		return err
	}
	if err := w.energy.Write([]string{formatFloat(f.Time), formatFloat(f.Energy)}); err != nil {
		return err
	}
	w.rows++
	return nil
}

// Rows returns the number of frames written so far.
func (w *FrameWriter) Rows() int { return w.rows }

func (w *FrameWriter) Flush() error {
	w.out.Flush()
	w.energy.Flush()
	if err := w.out.Error(); err != nil {
		return err
	}
	return w.energy.Error()
}

func (w *FrameWriter) Close() error {
	err := w.Flush()
	for _, c := range w.closer {
		if cerr := c.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// ReadFrames reads the output and energy tables back into frames. The energy
// table may be nil, in which case frame energies are left at zero.
func ReadFrames(out, energy io.Reader) ([]dynamo.Frame, error) {
	rows, err := readTable(out, 7)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", OutputFile, err)
	}

	frames := make([]dynamo.Frame, len(rows))
	for i, r := range rows {
		frames[i] = dynamo.Frame{
			Time:     r[0],
			Position: vec.New(r[1], r[2], r[3]),
			Velocity: vec.New(r[4], r[5], r[6]),
		}
	}

	if energy == nil {
		return frames, nil
	}
	erows, err := readTable(energy, 2)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", EnergyFile, err)
	}
	if len(erows) != len(frames) {
		return nil, fmt.Errorf("%s has %d rows, %s has %d", EnergyFile, len(erows), OutputFile, len(frames))
	}
	for i, r := range erows {
		frames[i].Energy = r[1]
	}
	return frames, nil
}

func readTable(r io.Reader, cols int) ([][]float64, error) {
	cr := csv.NewReader(r)
	cr.Comma = ' '
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}

	rows := make([][]float64, 0, len(records))
	for n, record := range records {
		row := make([]float64, 0, cols)
		for _, field := range record {
			if field == "" {
				continue
			}
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", n+1, err)
			}
			row = append(row, v)
		}
		if len(row) == 0 {
			continue
		}
		if len(row) != cols {
			return nil, fmt.Errorf("row %d: expected %d columns, got %d", n+1, cols, len(row))
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func spaceWriter(w io.Writer) *csv.Writer {
	cw := csv.NewWriter(w)
	cw.Comma = ' '
	return cw
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', precision, 64)
}
