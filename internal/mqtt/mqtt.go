// Package mqtt publishes lock state to an MQTT broker, with an
// abstraction for testing.
package mqtt

import (
	"encoding/json"
	"time"
)

// Topic is the MQTT topic for lock state changes. Messages are
// retained so late subscribers see the last known state.
const Topic = "home/door/cff3000/state"

// TopicSystem is the MQTT topic for monitor lifecycle events.
const TopicSystem = "home/door/cff3000/system"

// Publisher publishes events to MQTT.
type Publisher interface {
	// PublishState sends a lock state event to the broker.
	PublishState(event StateEvent) error

	// PublishSystem sends a monitor lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// StateEvent is the result of one status query.
type StateEvent struct {
	Timestamp time.Time
	State     string // "locked", "unlocked", "manual", "out-of-range"
	Err       string // non-empty when the query failed
}

// SystemEvent is a monitor lifecycle event.
type SystemEvent struct {
	Timestamp time.Time
	Event     string // e.g. "STARTUP", "SHUTDOWN"
	Reason    string // e.g. "SIGTERM" (shutdown only)
	Retained  bool
}

// Payload is the MQTT message structure for state events.
type Payload struct {
	Lock LockPayload `json:"lock"`
}

// LockPayload contains the lock state details.
type LockPayload struct {
	Timestamp string `json:"timestamp"`
	State     string `json:"state,omitempty"`
	Error     string `json:"error,omitempty"`
}

// FormatStatePayload creates the JSON payload for a state event.
func FormatStatePayload(event StateEvent) ([]byte, error) {
	payload := Payload{
		Lock: LockPayload{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			State:     event.State,
			Error:     event.Err,
		},
	}
	return json.Marshal(payload)
}

// SystemPayload is the MQTT message structure for lifecycle events.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the lifecycle event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a lifecycle event.
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}
