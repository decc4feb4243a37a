package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/san-kum/lorentz/internal/analysis"
)

type bounds struct {
	minX, minY, rangeX, rangeY float64
}

// fit pads the extent of points by 10% on each side.
func fit(points []analysis.Point) bounds {
	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	return bounds{
		minX:   minX - rangeX*0.1,
		minY:   minY - rangeY*0.1,
		rangeX: rangeX * 1.2,
		rangeY: rangeY * 1.2,
	}
}

func (b bounds) screen(p analysis.Point, width, height int) (float64, float64) {
	x := (p.X - b.minX) / b.rangeX * float64(width)
	y := float64(height) - (p.Y-b.minY)/b.rangeY*float64(height)
	return x, y
}

func header(sb *strings.Builder, width, height int) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)
}

// TrajectoryToSVG draws a projected trajectory as a single polyline.
func TrajectoryToSVG(w io.Writer, portrait *analysis.PhasePortrait2D, width, height int, strokeColor string) error {
	if portrait == nil || len(portrait.Points) < 2 {
		return fmt.Errorf("need at least two points, got %d", pointCount(portrait))
	}
	b := fit(portrait.Points)

	var sb strings.Builder
	header(&sb, width, height)
	fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, strokeColor)
	for i, p := range portrait.Points {
		x, y := b.screen(p, width, height)
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}
	sb.WriteString("\"/>\n</svg>\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

// SectionToSVG draws Poincaré section points as dots.
func SectionToSVG(w io.Writer, section *analysis.PoincareSection, width, height int, fill string) error {
	if section == nil || len(section.Points) == 0 {
		return fmt.Errorf("no crossings to draw")
	}
	b := fit(section.Points)

	var sb strings.Builder
	header(&sb, width, height)
	fmt.Fprintf(&sb, "<g fill=\"%s\">\n", fill)
	for _, p := range section.Points {
		x, y := b.screen(p, width, height)
		fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"2\"/>\n", x, y)
	}
	sb.WriteString("</g>\n</svg>\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

func pointCount(p *analysis.PhasePortrait2D) int {
	if p == nil {
		return 0
	}
	return len(p.Points)
}
