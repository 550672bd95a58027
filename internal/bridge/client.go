// ABOUTME: WebSocket client for the waveform bridge
// ABOUTME: Handles connect, handshake, message routing, and reconnection
package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mirrorwave/mirrorwave-go/internal/protocol"
)

// Status is the connection state observed by the UI surface.
type Status int

const (
	StatusDisconnected Status = iota
	StatusConnected
)

// String returns a human-readable status label.
func (s Status) String() string {
	if s == StatusConnected {
		return "connected"
	}
	return "disconnected"
}

// Sample is one inbound amplitude reading, timestamped at receipt.
type Sample struct {
	Amplitude  float64
	Phase      float64
	ReceivedAt time.Time
}

// Config holds bridge client configuration
type Config struct {
	Host           string
	Port           int
	UpdateInterval int // Milliseconds, sent in the handshake
	AnimationSpeed float64
}

// Client maintains a WebSocket connection to the amplitude backend. It
// reconnects with exponential backoff and never terminates on its own;
// only Close ends the lifecycle.
type Client struct {
	config Config

	mu        sync.RWMutex
	conn      *websocket.Conn
	connected bool
	attempts  int

	// Samples carries parsed waveform payloads to the render loop.
	Samples chan Sample
	// Statuses carries connection state transitions.
	Statuses chan Status

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewClient creates a bridge client.
func NewClient(config Config) *Client {
	ctx, cancel := context.WithCancel(context.Background())

	return &Client{
		config:   config,
		Samples:  make(chan Sample, 64),
		Statuses: make(chan Status, 8),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start launches the connect/reconnect loop.
func (c *Client) Start() {
	c.wg.Add(1)
	go c.run()
}

// run cycles through connect, read-until-failure, backoff.
func (c *Client) run() {
	defer c.wg.Done()

	for {
		err := c.connect()
		if err == nil {
			c.readMessages()
		} else {
			log.Printf("bridge: connect failed: %v", err)
		}

		// Dial failures and closed connections take the same path.
		c.closeConn()

		c.mu.Lock()
		c.attempts++
		attempt := c.attempts
		c.mu.Unlock()

		c.emitStatus(StatusDisconnected)

		delay := backoffDelay(attempt)
		log.Printf("bridge: reconnecting in %v (attempt %d)", delay, attempt)

		select {
		case <-time.After(delay):
		case <-c.ctx.Done():
			return
		}
	}
}

// connect dials the backend and performs the handshake. It is a no-op
// when a connection is already open.
func (c *Client) connect() error {
	c.mu.RLock()
	open := c.connected
	c.mu.RUnlock()
	if open {
		return nil
	}

	u := url.URL{Scheme: "ws", Host: fmt.Sprintf("%s:%d", c.config.Host, c.config.Port)}
	log.Printf("bridge: connecting to %s", u.String())

	conn, _, err := websocket.DefaultDialer.DialContext(c.ctx, u.String(), nil)
	if err != nil {
		return fmt.Errorf("dial failed: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.attempts = 0
	c.mu.Unlock()

	if err := c.sendHandshake(); err != nil {
		c.closeConn()
		return fmt.Errorf("handshake failed: %w", err)
	}

	log.Printf("bridge: connected")
	c.emitStatus(StatusConnected)

	return nil
}

// sendHandshake pushes the widget configuration to the backend. Sent once
// per connection; the backend resets per-connection state on accept.
func (c *Client) sendHandshake() error {
	payload, err := protocol.Encode(protocol.TypeConfig, protocol.ConfigData{
		UpdateInterval: c.config.UpdateInterval,
		AnimationSpeed: c.config.AnimationSpeed,
	})
	if err != nil {
		return err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.connected {
		return fmt.Errorf("not connected")
	}
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

// readMessages pumps inbound frames until the connection fails.
func (c *Client) readMessages() {
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()
	if conn == nil {
		return
	}

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		messageType, data, err := conn.ReadMessage()
		if err != nil {
			log.Printf("bridge: read error: %v", err)
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		c.handleMessage(data)
	}
}

// handleMessage parses one inbound frame. Malformed payloads are logged
// and dropped; they never tear down the connection.
func (c *Client) handleMessage(data []byte) {
	var msg protocol.Message
	if err := json.Unmarshal(data, &msg); err != nil {
		log.Printf("bridge: dropping malformed message: %v", err)
		return
	}

	switch msg.Type {
	case protocol.TypeWaveform:
		var wf protocol.WaveformData
		if err := json.Unmarshal(msg.Data, &wf); err != nil {
			log.Printf("bridge: dropping malformed waveform payload: %v", err)
			return
		}
		sample := Sample{
			Amplitude:  wf.Amplitude,
			Phase:      wf.Phase,
			ReceivedAt: time.Now(),
		}
		select {
		case c.Samples <- sample:
		default:
			// Render loop is behind; stale amplitude is worthless.
		}

	case protocol.TypePong:
		// Liveness reply, nothing to do.

	default:
		log.Printf("bridge: ignoring message type %q", msg.Type)
	}
}

// emitStatus reports a state transition without ever blocking shutdown.
func (c *Client) emitStatus(s Status) {
	select {
	case c.Statuses <- s:
	case <-c.ctx.Done():
	}
}

// closeConn tears down the socket and clears connection state.
func (c *Client) closeConn() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	c.connected = false
}

// IsConnected returns connection status
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// Close shuts the client down for good.
func (c *Client) Close() {
	c.cancel()
	c.closeConn()
	c.wg.Wait()
}
