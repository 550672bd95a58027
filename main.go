// ABOUTME: Entry point for the waveform widget
// ABOUTME: Parses CLI flags and starts the widget application
package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mirrorwave/mirrorwave-go/internal/app"
)

var (
	host           = flag.String("host", "localhost", "Bridge host")
	port           = flag.Int("port", 8765, "Bridge port")
	width          = flag.Int("width", 0, "Max surface width in dots (0 = fill window)")
	height         = flag.Int("height", 0, "Max surface height in dots (0 = fill window)")
	waveColor      = flag.String("wave-color", "#9ad1ff", "Waveform stroke color")
	glowColor      = flag.String("glow-color", "#4a90d9", "Glow pass color")
	idleAmplitude  = flag.Float64("idle-amplitude", 0.06, "Breathing amplitude while idle")
	animationSpeed = flag.Float64("animation-speed", 0.35, "Phase advance per frame")
	updateInterval = flag.Int("update-interval", 16, "Frame interval in milliseconds")
	debug          = flag.Bool("debug", false, "Show the connection status surface")
	backendCmd     = flag.String("backend", "python3 python-backend/gemini_waveform_bridge.py", "Backend command line")
	credentials    = flag.String("credentials", "python-backend/.env", "Credential file required before launching the backend")
	videoMode      = flag.String("video-mode", "camera", "Backend video mode")
	cameraIndex    = flag.Int("camera-index", 0, "Backend camera index")
	noBackend      = flag.Bool("no-backend", false, "Do not supervise the backend process")
	logFile        = flag.String("log-file", "mirrorwave.log", "Log file path")
)

func main() {
	flag.Parse()

	// The TUI owns the terminal, so logs go to a file only.
	f, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer func() { _ = f.Close() }()
	log.SetOutput(f)

	widget := app.New(app.Config{
		Width:          *width,
		Height:         *height,
		Host:           *host,
		Port:           *port,
		WaveColor:      *waveColor,
		GlowColor:      *glowColor,
		IdleAmplitude:  *idleAmplitude,
		AnimationSpeed: *animationSpeed,
		UpdateInterval: *updateInterval,
		Debug:          *debug,
		BackendCommand: strings.Fields(*backendCmd),
		CredentialFile: *credentials,
		VideoMode:      *videoMode,
		CameraIndex:    *cameraIndex,
		NoBackend:      *noBackend,
	})

	if err := widget.Start(); err != nil {
		log.Fatalf("failed to start widget: %v", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigChan:
		log.Printf("shutdown signal received")
	case <-widget.Done():
		log.Printf("UI exited")
	}

	widget.Stop()
}
