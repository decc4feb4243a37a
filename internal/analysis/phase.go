package analysis

import (
	"fmt"
	"strings"

	"github.com/san-kum/lorentz/internal/dynamo"
)

// Column indexes into dynamo.Frame.Row.
const (
	ColT = iota
	ColX
	ColY
	ColZ
	ColVX
	ColVY
	ColVZ
)

var columnNames = []string{"t", "x", "y", "z", "vx", "vy", "vz"}

// ParseColumn maps a column name such as "vx" to its index.
func ParseColumn(name string) (int, error) {
	for i, n := range columnNames {
		if n == strings.ToLower(name) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown column %q (want one of %s)", name, strings.Join(columnNames, ", "))
}

type Point struct{ X, Y float64 }

// PhasePortrait2D holds data for a 2D phase space plot
type PhasePortrait2D struct {
	XIndex, YIndex int
	Points         []Point
}

// Project records two columns of every finite frame.
func Project(frames []dynamo.Frame, xCol, yCol int) *PhasePortrait2D {
	if !validColumn(xCol) || !validColumn(yCol) {
		return nil
	}

	portrait := &PhasePortrait2D{
		XIndex: xCol,
		YIndex: yCol,
		Points: make([]Point, 0, len(frames)),
	}
	for _, f := range frames {
		if !f.IsValid() {
			break
		}
		row := f.Row()
		portrait.Points = append(portrait.Points, Point{X: row[xCol], Y: row[yCol]})
	}
	return portrait
}

// PhasePortraitToASCII converts phase portrait to ASCII art
func PhasePortraitToASCII(portrait *PhasePortrait2D, width, height int) string {
	if portrait == nil || len(portrait.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX := portrait.Points[0].X, portrait.Points[0].X
	minY, maxY := portrait.Points[0].Y, portrait.Points[0].Y

	for _, p := range portrait.Points {
		minX = min(minX, p.X)
		maxX = max(maxX, p.X)
		minY = min(minY, p.Y)
		maxY = max(maxY, p.Y)
	}

	// Add padding
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	for _, p := range portrait.Points {
		col := int((p.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((p.Y-minY)/rangeY*float64(height-1))

		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	// Draw axes if they cross the visible area
	if minX <= 0 && maxX >= 0 {
		col := int((0 - minX) / rangeX * float64(width-1))
		for row := 0; row < height; row++ {
			if col >= 0 && col < width && canvas[row][col] == ' ' {
				canvas[row][col] = '│'
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if row >= 0 && row < height && canvas[row][col] == ' ' {
				canvas[row][col] = '─'
			}
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}

// PoincareSection records points when a trajectory crosses a plane
type PoincareSection struct {
	CrossIndex int
	Threshold  float64
	Times      []float64
	Points     []Point
}

// Section records the recX and recY columns each time the crossCol column
// crosses threshold going upward. Values are linearly interpolated between
// the two frames that bracket the crossing. Sampling stops at the first
// non-finite frame.
func Section(frames []dynamo.Frame, crossCol int, threshold float64, recX, recY int) *PoincareSection {
	if !validColumn(crossCol) || !validColumn(recX) || !validColumn(recY) {
		return nil
	}

	section := &PoincareSection{CrossIndex: crossCol, Threshold: threshold}
	for i := 1; i < len(frames); i++ {
		if !frames[i].IsValid() || !frames[i-1].IsValid() {
			break
		}
		prev, curr := frames[i-1].Row(), frames[i].Row()
		if prev[crossCol] < threshold && curr[crossCol] >= threshold {
			frac := (threshold - prev[crossCol]) / (curr[crossCol] - prev[crossCol])
			section.Times = append(section.Times, lerp(prev[ColT], curr[ColT], frac))
			section.Points = append(section.Points, Point{
				X: lerp(prev[recX], curr[recX], frac),
				Y: lerp(prev[recY], curr[recY], frac),
			})
		}
	}
	return section
}

// PoincareSectionToASCII converts section data to ASCII plot
func PoincareSectionToASCII(section *PoincareSection, width, height int) string {
	if section == nil || len(section.Points) == 0 {
		return "No crossings detected"
	}

	portrait := &PhasePortrait2D{Points: section.Points}
	return PhasePortraitToASCII(portrait, width, height)
}

func validColumn(c int) bool {
	return c >= 0 && c < len(columnNames)
}

func lerp(a, b, frac float64) float64 {
	return a + frac*(b-a)
}
