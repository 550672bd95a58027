// ABOUTME: Waveform bridge message type definitions
// ABOUTME: Defines the JSON envelope and payloads for the wire protocol
package protocol

import "encoding/json"

// Message types carried on the bridge. Anything else is ignored.
const (
	TypeWaveform = "waveform"
	TypeConfig   = "config"
	TypePing     = "ping"
	TypePong     = "pong"
)

// Message is the top-level wrapper for all bridge messages
type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// WaveformData is the amplitude/phase payload streamed by the backend
type WaveformData struct {
	Amplitude float64 `json:"amplitude"`
	Phase     float64 `json:"phase"`
	Timestamp float64 `json:"timestamp,omitempty"` // Backend clock, seconds
}

// ConfigData is the one-time handshake sent after a connection opens
type ConfigData struct {
	UpdateInterval int     `json:"updateInterval"` // Milliseconds between backend frames
	AnimationSpeed float64 `json:"animationSpeed"`
}

// Encode wraps a payload in a Message envelope and marshals it
func Encode(msgType string, payload interface{}) ([]byte, error) {
	var data json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		data = b
	}
	return json.Marshal(Message{Type: msgType, Data: data})
}
