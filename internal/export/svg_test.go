package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/san-kum/lorentz/internal/analysis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrajectoryToSVG(t *testing.T) {
	portrait := &analysis.PhasePortrait2D{Points: []analysis.Point{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 0}}}

	var buf bytes.Buffer
	require.NoError(t, TrajectoryToSVG(&buf, portrait, 200, 100, "#00ffff"))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "<?xml"))
	assert.Contains(t, out, `stroke="#00ffff"`)
	assert.Equal(t, 2, strings.Count(out, " L"))
	// first point sits 10% in from the lower left corner
	assert.Contains(t, out, "d=\"M16.7,91.7")

	assert.Error(t, TrajectoryToSVG(&buf, nil, 10, 10, "red"))
}

func TestSectionToSVG(t *testing.T) {
	section := &analysis.PoincareSection{Points: []analysis.Point{{X: 1, Y: 0}, {X: 1.1, Y: 0.1}}}

	var buf bytes.Buffer
	require.NoError(t, SectionToSVG(&buf, section, 100, 100, "#ff00ff"))
	assert.Equal(t, 2, strings.Count(buf.String(), "<circle"))

	assert.Error(t, SectionToSVG(&buf, &analysis.PoincareSection{}, 100, 100, "red"))
}
