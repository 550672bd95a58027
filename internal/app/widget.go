// ABOUTME: Main widget application orchestration
// ABOUTME: Coordinates the supervisor, bridge client, and render loop
package app

import (
	"fmt"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/mirrorwave/mirrorwave-go/internal/bridge"
	"github.com/mirrorwave/mirrorwave-go/internal/supervisor"
	"github.com/mirrorwave/mirrorwave-go/internal/ui"
	"github.com/mirrorwave/mirrorwave-go/internal/version"
)

// Config holds widget configuration
type Config struct {
	// Drawing surface caps in dots; zero means fill the window.
	Width  int
	Height int

	// Bridge endpoint.
	Host string
	Port int

	// Presentation.
	WaveColor      string
	GlowColor      string
	IdleAmplitude  float64
	AnimationSpeed float64
	UpdateInterval int // Milliseconds
	Debug          bool

	// Backend supervision. NoBackend skips it entirely when the operator
	// runs the backend by hand.
	BackendCommand []string
	CredentialFile string
	VideoMode      string
	CameraIndex    int
	NoBackend      bool
}

// Widget is the running application: one bridge, one optional supervised
// backend, one TUI program.
type Widget struct {
	config    Config
	sessionID string

	client *bridge.Client
	super  *supervisor.Supervisor
	prog   *tea.Program

	done chan struct{}
	stop chan struct{}
}

// New creates a widget.
func New(config Config) *Widget {
	return &Widget{
		config:    config,
		sessionID: uuid.New().String(),
		done:      make(chan struct{}),
		stop:      make(chan struct{}),
	}
}

// Start brings up all components. It returns once the UI is running;
// Done signals when the UI exits.
func (w *Widget) Start() error {
	waveColor, err := colorful.Hex(w.config.WaveColor)
	if err != nil {
		return fmt.Errorf("bad wave color %q: %w", w.config.WaveColor, err)
	}
	glowColor, err := colorful.Hex(w.config.GlowColor)
	if err != nil {
		return fmt.Errorf("bad glow color %q: %w", w.config.GlowColor, err)
	}

	log.Printf("%s %s session %s", version.Product, version.Version, w.sessionID)

	model := ui.NewModel(ui.Config{
		Width:          w.config.Width,
		Height:         w.config.Height,
		WaveColor:      waveColor,
		GlowColor:      glowColor,
		IdleAmplitude:  w.config.IdleAmplitude,
		AnimationSpeed: w.config.AnimationSpeed,
		FrameInterval:  time.Duration(w.config.UpdateInterval) * time.Millisecond,
		Debug:          w.config.Debug,
		Colored:        true,
		SessionID:      w.sessionID,
	})

	prog, err := ui.Run(model)
	if err != nil {
		return fmt.Errorf("failed to start TUI: %w", err)
	}
	w.prog = prog

	if !w.config.NoBackend {
		w.super = supervisor.New(supervisor.Config{
			Command:        w.config.BackendCommand,
			CredentialFile: w.config.CredentialFile,
			VideoMode:      w.config.VideoMode,
			CameraIndex:    w.config.CameraIndex,
		})
		// A failed launch is not fatal to the widget: it keeps breathing
		// idle and shows disconnected until the operator intervenes.
		if err := w.super.EnsureRunning(); err != nil {
			log.Printf("widget: backend unavailable: %v", err)
		}
	}

	w.client = bridge.NewClient(bridge.Config{
		Host:           w.config.Host,
		Port:           w.config.Port,
		UpdateInterval: w.config.UpdateInterval,
		AnimationSpeed: w.config.AnimationSpeed,
	})
	w.client.Start()

	go w.pumpSamples()
	go w.pumpStatus()

	go func() {
		if _, err := w.prog.Run(); err != nil {
			log.Printf("widget: TUI error: %v", err)
		}
		close(w.done)
	}()

	return nil
}

// pumpSamples forwards bridge samples into the render loop.
func (w *Widget) pumpSamples() {
	for {
		select {
		case sample := <-w.client.Samples:
			w.prog.Send(ui.SampleMsg{
				Amplitude: sample.Amplitude,
				Phase:     sample.Phase,
				At:        sample.ReceivedAt,
			})
		case <-w.stop:
			return
		}
	}
}

// pumpStatus forwards connection transitions into the status surface.
func (w *Widget) pumpStatus() {
	for {
		select {
		case status := <-w.client.Statuses:
			w.prog.Send(ui.StatusMsg{Connected: status == bridge.StatusConnected})
		case <-w.stop:
			return
		}
	}
}

// Done signals when the UI has exited (quit key or program error).
func (w *Widget) Done() <-chan struct{} {
	return w.done
}

// Stop releases the socket, the backend process, and the UI. Safe on
// every shutdown path.
func (w *Widget) Stop() {
	close(w.stop)

	if w.client != nil {
		w.client.Close()
	}
	if w.super != nil {
		w.super.Stop()
	}
	if w.prog != nil {
		w.prog.Quit()
	}

	log.Printf("widget: stopped")
}
