// ABOUTME: Synthetic amplitude backend for widget development
// ABOUTME: Serves the bridge wire protocol with breathing waveform frames
package main

import (
	"encoding/json"
	"flag"
	"log"
	"math/rand"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mirrorwave/mirrorwave-go/internal/protocol"
	"github.com/mirrorwave/mirrorwave-go/internal/wave"
)

var (
	addr          = flag.String("addr", ":8765", "Listen address")
	idleAmplitude = flag.Float64("idle-amplitude", 0.06, "Breathing amplitude between bursts")
	speed         = flag.Float64("speed", 0.35, "Phase advance per frame")
	bursts        = flag.Bool("bursts", true, "Emit random speech-like amplitude bursts")
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// server broadcasts synthetic waveform frames to every connected widget.
type server struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool

	// intervalMs is adjustable via the config handshake.
	intervalMs atomic.Int64

	smoother *wave.Smoother
}

func newServer() *server {
	s := &server{
		clients:  make(map[*websocket.Conn]bool),
		smoother: wave.NewSmoother(*idleAmplitude, *speed),
	}
	s.intervalMs.Store(16)
	return s
}

func (s *server) register(conn *websocket.Conn) {
	s.mu.Lock()
	s.clients[conn] = true
	n := len(s.clients)
	s.mu.Unlock()
	log.Printf("client connected, total %d", n)
}

func (s *server) unregister(conn *websocket.Conn) {
	s.mu.Lock()
	delete(s.clients, conn)
	n := len(s.clients)
	s.mu.Unlock()
	conn.Close()
	log.Printf("client disconnected, total %d", n)
}

// handle upgrades one widget connection and services its messages.
func (s *server) handle(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("upgrade failed: %v", err)
		return
	}

	s.register(conn)
	defer s.unregister(conn)

	// Initial state so the widget draws something before the first tick.
	if err := s.send(conn, protocol.TypeWaveform, protocol.WaveformData{}); err != nil {
		return
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var msg protocol.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("invalid JSON from client: %v", err)
			continue
		}

		switch msg.Type {
		case protocol.TypeConfig:
			var cfg protocol.ConfigData
			if err := json.Unmarshal(msg.Data, &cfg); err != nil {
				log.Printf("invalid config payload: %v", err)
				continue
			}
			if cfg.UpdateInterval > 0 {
				s.intervalMs.Store(int64(cfg.UpdateInterval))
				log.Printf("update interval set to %dms", cfg.UpdateInterval)
			}

		case protocol.TypePing:
			if err := s.send(conn, protocol.TypePong, nil); err != nil {
				return
			}
		}
	}
}

func (s *server) send(conn *websocket.Conn, msgType string, payload interface{}) error {
	data, err := protocol.Encode(msgType, payload)
	if err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, data)
}

// run drives the synthetic amplitude and broadcasts each frame.
func (s *server) run() {
	now := time.Now()
	for {
		interval := time.Duration(s.intervalMs.Load()) * time.Millisecond
		time.Sleep(interval)
		now = now.Add(interval)

		// Occasional bursts stand in for the assistant speaking.
		if *bursts && rand.Float64() < 0.02 {
			s.smoother.Ingest(0.3+0.7*rand.Float64(), now)
		}
		amplitude := s.smoother.Step(now)

		frame, err := protocol.Encode(protocol.TypeWaveform, protocol.WaveformData{
			Amplitude: amplitude,
			Phase:     s.smoother.Phase(),
			Timestamp: float64(time.Now().UnixNano()) / 1e9,
		})
		if err != nil {
			log.Printf("encode failed: %v", err)
			continue
		}

		s.mu.Lock()
		for conn := range s.clients {
			if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				delete(s.clients, conn)
				conn.Close()
			}
		}
		s.mu.Unlock()
	}
}

func main() {
	flag.Parse()

	s := newServer()
	go s.run()

	http.HandleFunc("/", s.handle)
	log.Printf("waveform sim listening on %s", *addr)
	if err := http.ListenAndServe(*addr, nil); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
