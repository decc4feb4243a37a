package viz

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/lorentz/internal/dynamo"
	"github.com/san-kum/lorentz/internal/vec"
)

const (
	canvasWidth     = 60
	canvasHeight    = 22
	trailCapacity   = 2000
	historyCapacity = 600
	defaultPerTick  = 4
)

type TickMsg time.Time

// Live consumes frames from a channel and draws the trajectory as it grows.
// It never integrates; the producer blocks while the viewer is paused.
type Live struct {
	title   string
	total   int
	frames  <-chan dynamo.Frame
	errc    <-chan error
	perTick int

	received int
	latest   dynamo.Frame
	trail    []vec.Vector3
	energy   []float64

	canvas   *Canvas
	camera   *Camera
	paused   bool
	done     bool
	err      error
	showHelp bool
}

// NewLive builds a viewer for total frames arriving on frames. When frames
// is closed the producer's error, if any, is read from errc.
func NewLive(title string, total int, frames <-chan dynamo.Frame, errc <-chan error) Live {
	return Live{
		title:   title,
		total:   total,
		frames:  frames,
		errc:    errc,
		perTick: defaultPerTick,
		trail:   make([]vec.Vector3, 0, trailCapacity),
		energy:  make([]float64, 0, historyCapacity),
		canvas:  NewCanvas(canvasWidth, canvasHeight),
		camera:  NewCamera(),
	}
}

// RunLive runs stream in the background and shows its frames until the user
// quits. Quitting cancels the stream.
func RunLive(ctx context.Context, title string, total int, stream func(context.Context, func(dynamo.Frame) error) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	frames := make(chan dynamo.Frame, 256)
	errc := make(chan error, 1)
	go func() {
		errc <- stream(ctx, func(f dynamo.Frame) error {
			select {
			case frames <- f:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
		close(frames)
	}()

	final, err := tea.NewProgram(NewLive(title, total, frames, errc), tea.WithAltScreen()).Run()
	cancel()
	if err != nil {
		return err
	}
	if m, ok := final.(Live); ok && m.err != nil && !errors.Is(m.err, context.Canceled) {
		return m.err
	}
	return nil
}

func (m Live) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Live) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
		case "f":
			m.perTick = min(m.perTick*2, 1024)
		case "s":
			m.perTick = max(m.perTick/2, 1)
		case "x":
			m.camera.RotateX(0.1)
		case "X":
			m.camera.RotateX(-0.1)
		case "y":
			m.camera.RotateY(0.1)
		case "Y":
			m.camera.RotateY(-0.1)
		case "z":
			m.camera.RotateZ(0.1)
		case "Z":
			m.camera.RotateZ(-0.1)
		case "+", "=":
			m.camera.ZoomIn()
		case "-", "_":
			m.camera.ZoomOut()
		case "t":
			nextTheme()
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if !m.paused && !m.done {
			m.drain()
		}
		return m, tick()
	}
	return m, nil
}

// drain takes up to perTick frames without blocking.
func (m *Live) drain() {
	for i := 0; i < m.perTick; i++ {
		select {
		case f, ok := <-m.frames:
			if !ok {
				m.done = true
				select {
				case m.err = <-m.errc:
				default:
				}
				return
			}
			m.push(f)
		default:
			return
		}
	}
}

func (m *Live) push(f dynamo.Frame) {
	m.received++
	m.latest = f
	if !f.IsValid() {
		return
	}
	m.trail = append(m.trail, f.Position)
	if len(m.trail) > trailCapacity {
		m.trail = m.trail[1:]
	}
	m.energy = append(m.energy, f.Energy)
	if len(m.energy) > historyCapacity {
		m.energy = m.energy[1:]
	}
}

func (m Live) Received() int { return m.received }
func (m Live) Done() bool    { return m.done }
func (m Live) Err() error    { return m.err }

// draw fits the trail into a unit cube and renders it with the camera.
func (m *Live) draw() {
	m.canvas.Clear()
	if len(m.trail) == 0 {
		return
	}

	lo, hi := m.trail[0], m.trail[0]
	for _, p := range m.trail {
		lo = vec.New(min(lo.X, p.X), min(lo.Y, p.Y), min(lo.Z, p.Z))
		hi = vec.New(max(hi.X, p.X), max(hi.Y, p.Y), max(hi.Z, p.Z))
	}
	centre := lo.Add(hi).Scale(0.5)
	half := max(hi.X-lo.X, hi.Y-lo.Y, hi.Z-lo.Z) / 2
	if half == 0 {
		half = 1
	}

	points := make([]vec.Vector3, len(m.trail))
	for i, p := range m.trail {
		points[i] = p.Sub(centre).Scale(1 / half)
	}
	m.camera.DrawAxes(m.canvas, centre.Scale(-1/half), 0.3)
	m.camera.DrawPath(m.canvas, points)

	sw, sh := m.canvas.PixelSize()
	if x, y, ok := m.camera.Project(points[len(points)-1], sw, sh); ok {
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				m.canvas.Set(x+dx, y+dy)
			}
		}
	}
}

func (m Live) status() string {
	switch {
	case m.err != nil && !errors.Is(m.err, context.Canceled):
		return statusStyle(CurrentTheme.Error).Render("ERROR")
	case m.done:
		return statusStyle(CurrentTheme.Success).Render("DONE")
	case m.paused:
		return statusStyle(CurrentTheme.Warning).Render("PAUSED")
	}
	return statusStyle(CurrentTheme.Success).Render("RUNNING")
}

func (m Live) View() string {
	m.draw()
	canvasView := lipgloss.NewStyle().Padding(1, 2).Render(m.canvas.String())

	var s strings.Builder
	row := func(k, v string) {
		s.WriteString(label().Render(k) + value().Render(v) + "\n")
	}

	s.WriteString(title().Render(strings.ToUpper(m.title)) + "\n")
	s.WriteString(m.status() + "\n\n")
	s.WriteString(ProgressBar(m.received, m.total, 30) + fmt.Sprintf(" %d/%d\n\n", m.received, m.total))

	f := m.latest
	row("time", fmt.Sprintf("%.3f", f.Time))
	row("r", formatVec(f.Position))
	row("v", formatVec(f.Velocity))
	row("|v|", fmt.Sprintf("%.6f", f.Velocity.Norm()))
	row("energy", fmt.Sprintf("%.6g", f.Energy))
	row("speed", fmt.Sprintf("%d frames/tick", m.perTick))

	if len(m.energy) > 1 {
		chart := asciigraph.Plot(m.energy, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Energy"))
		s.WriteString("\n" + chart + "\n")
	}
	if m.err != nil && !errors.Is(m.err, context.Canceled) {
		s.WriteString("\n" + statusStyle(CurrentTheme.Error).Render(m.err.Error()) + "\n")
	}

	s.WriteString(lipgloss.NewStyle().Foreground(CurrentTheme.Muted).MarginTop(1).Render(
		"SP:Pause Q:Quit ?:Help\nXYZ:Rotate +-:Zoom F/S:Speed"))

	stats := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(CurrentTheme.Muted).
		Padding(1, 2).
		Width(48).
		Render(s.String())
	body := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, stats)

	if m.showHelp {
		help := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).Render(strings.Join([]string{
			"Space    pause or resume",
			"x y z    rotate (shift reverses)",
			"+ -      zoom",
			"f s      faster or slower playback",
			"t        cycle themes",
			"?        toggle this help",
			"q        quit",
		}, "\n"))
		return help + "\n\n" + body
	}
	return body
}
