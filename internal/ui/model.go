// ABOUTME: Bubbletea model for the waveform widget
// ABOUTME: Drives the per-frame render loop and the debug status surface
package ui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/mirrorwave/mirrorwave-go/internal/render"
	"github.com/mirrorwave/mirrorwave-go/internal/wave"
)

// FrameMsg requests one animation frame. The tick reschedules itself on
// every frame, so the loop is display-driven rather than a fixed timer.
type FrameMsg time.Time

// SampleMsg delivers an inbound amplitude sample to the render loop.
type SampleMsg struct {
	Amplitude float64
	Phase     float64
	At        time.Time
}

// StatusMsg updates the connection indicator.
type StatusMsg struct {
	Connected bool
}

// Config holds the presentation configuration.
type Config struct {
	// Width and Height cap the drawing surface in dots; zero means the
	// whole window.
	Width  int
	Height int

	WaveColor      colorful.Color
	GlowColor      colorful.Color
	IdleAmplitude  float64
	AnimationSpeed float64
	FrameInterval  time.Duration
	Debug          bool
	Colored        bool
	SessionID      string
}

var (
	connectedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	disconnectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dimStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Model represents the widget state
type Model struct {
	config   Config
	smoother *wave.Smoother

	// Connection
	connected bool

	// Debug meter (presentation only, spring-smoothed)
	spring   harmonica.Spring
	meterPos float64
	meterVel float64

	// Stats
	samples      int64
	backendPhase float64

	// Glow shade derived once from the configured glow color.
	glowShade colorful.Color

	// Dimensions (cells)
	width  int
	height int

	debug bool
	frame string
}

// NewModel creates the widget model.
func NewModel(config Config) Model {
	if config.FrameInterval <= 0 {
		config.FrameInterval = 16 * time.Millisecond
	}

	return Model{
		config:    config,
		smoother:  wave.NewSmoother(config.IdleAmplitude, config.AnimationSpeed),
		spring:    harmonica.NewSpring(harmonica.FPS(60), 5.0, 0.8),
		glowShade: config.GlowColor.BlendRgb(colorful.Color{}, 0.55),
		debug:     config.Debug,
	}
}

// Init starts the frame loop
func (m Model) Init() tea.Cmd {
	return m.frameTick()
}

// frameTick schedules the next animation frame.
func (m Model) frameTick() tea.Cmd {
	return tea.Tick(m.config.FrameInterval, func(t time.Time) tea.Msg {
		return FrameMsg(t)
	})
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "d":
			m.debug = !m.debug
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case SampleMsg:
		m.smoother.Ingest(msg.Amplitude, msg.At)
		m.backendPhase = msg.Phase
		m.samples++

	case StatusMsg:
		m.connected = msg.Connected

	case FrameMsg:
		m.renderFrame(time.Time(msg))
		return m, m.frameTick()
	}

	return m, nil
}

// renderFrame advances the smoother and redraws the canvas. A zero-size
// window just skips the draw; the tick keeps rescheduling regardless.
func (m *Model) renderFrame(now time.Time) {
	amplitude := m.smoother.Step(now)
	m.meterPos, m.meterVel = m.spring.Update(m.meterPos, m.meterVel, amplitude)

	cols, rows := m.surfaceSize()
	if cols < 1 || rows < 1 {
		return
	}

	canvas := render.NewCanvas(cols, rows)
	shape := wave.Polyline(amplitude, m.smoother.Phase(), canvas.DotWidth(), canvas.DotHeight())
	canvas.StrokeShape(shape)
	m.frame = canvas.Render(m.config.WaveColor, m.glowShade, m.config.Colored)
}

// surfaceSize returns the drawable cell area, reserving a status row in
// debug mode and honoring the configured dot caps.
func (m Model) surfaceSize() (cols, rows int) {
	cols = m.width
	rows = m.height
	if m.debug {
		rows--
	}

	if m.config.Width > 0 && cols > m.config.Width/2 {
		cols = m.config.Width / 2
	}
	if m.config.Height > 0 && rows > m.config.Height/4 {
		rows = m.config.Height / 4
	}
	return cols, rows
}

// View renders the widget
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	if !m.debug {
		return m.frame
	}
	return m.frame + "\n" + m.statusLine()
}

// statusLine renders the debug-only connection indicator and meter.
func (m Model) statusLine() string {
	var status string
	if m.connected {
		status = connectedStyle.Render("● connected")
	} else {
		status = disconnectedStyle.Render("○ disconnected")
	}

	meter := renderBar(m.meterPos, 10)
	info := fmt.Sprintf("amp [%s]  samples %d  phase %.2f", meter, m.samples, m.backendPhase)

	line := status + "  " + dimStyle.Render(info)
	if m.config.SessionID != "" {
		line += "  " + dimStyle.Render("session "+shortID(m.config.SessionID))
	}
	return line
}

// renderBar draws a unit-range meter of the given width.
func renderBar(value float64, width int) string {
	if value < 0 {
		value = 0
	}
	if value > 1 {
		value = 1
	}
	filled := int(value * float64(width))
	bar := ""
	for i := 0; i < width; i++ {
		if i < filled {
			bar += "█"
		} else {
			bar += "░"
		}
	}
	return bar
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
