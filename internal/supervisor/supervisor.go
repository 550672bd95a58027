// ABOUTME: Supervisor for the external amplitude-producing backend process
// ABOUTME: Validates credentials, spawns, relays output, and restarts on exit
package supervisor

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"
)

const (
	// restartDelay is the fixed pause before relaunching a dead backend.
	restartDelay = 5 * time.Second

	// stopGrace is how long Stop waits after SIGTERM before killing.
	stopGrace = 2 * time.Second
)

// Config holds supervisor configuration
type Config struct {
	// Command is the backend argv; Command[0] is the executable.
	Command []string

	// CredentialFile must exist before any launch is attempted.
	CredentialFile string

	// Environment contract passed to the backend.
	VideoMode   string
	CameraIndex int

	// RestartDelay overrides the default relaunch pause (tests).
	RestartDelay time.Duration
}

// Supervisor owns the backend process handle. It restarts the backend on
// any exit, without bound, until Stop is called. A missing credential file
// is the one fatal case: it aborts the launch and never retries.
type Supervisor struct {
	config Config

	mu  sync.Mutex
	cmd *exec.Cmd

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a supervisor for the given backend command.
func New(config Config) *Supervisor {
	if config.RestartDelay <= 0 {
		config.RestartDelay = restartDelay
	}
	ctx, cancel := context.WithCancel(context.Background())

	return &Supervisor{
		config: config,
		ctx:    ctx,
		cancel: cancel,
	}
}

// EnsureRunning launches the backend if it is not already running.
func (s *Supervisor) EnsureRunning() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cmd != nil {
		return nil
	}
	if s.ctx.Err() != nil {
		return fmt.Errorf("supervisor stopped")
	}
	if len(s.config.Command) == 0 {
		return fmt.Errorf("no backend command configured")
	}

	// Configuration gap, not a transient failure: the operator has to
	// provision credentials before the backend can ever start.
	if _, err := os.Stat(s.config.CredentialFile); err != nil {
		log.Printf("supervisor: fatal: credential file %s missing, backend launch aborted: %v",
			s.config.CredentialFile, err)
		return fmt.Errorf("credential file %s: %w", s.config.CredentialFile, err)
	}

	cmd := exec.Command(s.config.Command[0], s.config.Command[1:]...)
	cmd.Env = s.buildEnv(os.Environ())

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start backend: %w", err)
	}

	log.Printf("supervisor: backend started (pid %d)", cmd.Process.Pid)
	s.cmd = cmd

	s.wg.Add(3)
	go s.relay("backend", stdout)
	go s.relay("backend[err]", stderr)
	go s.waitProcess(cmd)

	return nil
}

// buildEnv appends the backend environment contract to a base environment.
func (s *Supervisor) buildEnv(base []string) []string {
	return append(base,
		"GEMINI_VIDEO_MODE="+s.config.VideoMode,
		fmt.Sprintf("GEMINI_CAMERA_INDEX=%d", s.config.CameraIndex),
		"GEMINI_HEADLESS=1",
	)
}

// relay copies a child stream into the log. Diagnostic only, never parsed.
func (s *Supervisor) relay(tag string, r io.Reader) {
	defer s.wg.Done()

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		log.Printf("%s: %s", tag, scanner.Text())
	}
}

// waitProcess reaps the backend and schedules a relaunch unless stopping.
func (s *Supervisor) waitProcess(cmd *exec.Cmd) {
	defer s.wg.Done()

	err := cmd.Wait()
	if err != nil {
		log.Printf("supervisor: backend exited: %v", err)
	} else {
		log.Printf("supervisor: backend exited cleanly")
	}

	s.mu.Lock()
	s.cmd = nil
	s.mu.Unlock()

	select {
	case <-s.ctx.Done():
		return
	case <-time.After(s.config.RestartDelay):
	}

	if err := s.EnsureRunning(); err != nil {
		// Fatal configuration errors stay down until the operator fixes
		// them; EnsureRunning already logged the reason.
		log.Printf("supervisor: relaunch aborted: %v", err)
	}
}

// Running reports whether a backend process is currently held.
func (s *Supervisor) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cmd != nil
}

// Stop terminates supervision and the backend process.
func (s *Supervisor) Stop() {
	s.cancel()

	s.mu.Lock()
	cmd := s.cmd
	s.mu.Unlock()

	if cmd != nil && cmd.Process != nil {
		if err := cmd.Process.Signal(syscall.SIGTERM); err != nil {
			log.Printf("supervisor: signal failed: %v", err)
		}
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(stopGrace):
		log.Printf("supervisor: backend ignored SIGTERM, killing")
		s.mu.Lock()
		if s.cmd != nil {
			cmd = s.cmd
		}
		s.mu.Unlock()
		if cmd != nil && cmd.Process != nil {
			cmd.Process.Kill()
		}
		<-done
	}

	log.Printf("supervisor: stopped")
}
