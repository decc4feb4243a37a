package viz

import (
	"fmt"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/lorentz/internal/dynamo"
)

var columnNames = [7]string{"t", "x", "y", "z", "vx", "vy", "vz"}

// PlotFrames draws column col of each frame (0 = t ... 6 = vz) against the
// frame index. A column of -1 plots the energy. Plotting stops at the first
// non-finite frame since asciigraph cannot scale NaN.
func PlotFrames(frames []dynamo.Frame, col, width, height int) (string, error) {
	if col < -1 || col >= len(columnNames) {
		return "", fmt.Errorf("column %d out of range", col)
	}

	series := make([]float64, 0, len(frames))
	for _, f := range frames {
		if !f.IsValid() {
			break
		}
		if col == -1 {
			series = append(series, f.Energy)
			continue
		}
		series = append(series, f.Row()[col])
	}
	if len(series) == 0 {
		return "", fmt.Errorf("no finite frames to plot")
	}

	caption := "energy"
	if col >= 0 {
		caption = columnNames[col]
	}
	return asciigraph.Plot(series,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	), nil
}
