// Package status provides a thread-safe status tracker for the monitor
// daemon. It is read by the HTTP status handlers.
package status

import (
	"sync"
	"time"
)

// Counts tracks how often each query outcome was seen since startup.
type Counts struct {
	Locked     int
	Unlocked   int
	Manual     int
	OutOfRange int
	Errors     int
}

// Config contains daemon configuration for display.
type Config struct {
	Chip       string
	Lines      [4]int
	IntervalMs int64
	Broker     string
	HTTPAddr   string
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type — safe to use after the lock is released.
type Snapshot struct {
	// State is the last decoded lock state ("locked", "unlocked",
	// "manual", "out-of-range"), empty until the first query finishes.
	State         string
	LastError     string
	LastQuery     time.Time
	Counts        Counts
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// RecordState notes a successful status query.
func (t *Tracker) RecordState(state string, at time.Time) {
	t.mu.Lock()
	t.snap.State = state
	t.snap.LastError = ""
	t.snap.LastQuery = at
	switch state {
	case "locked":
		t.snap.Counts.Locked++
	case "unlocked":
		t.snap.Counts.Unlocked++
	case "manual":
		t.snap.Counts.Manual++
	case "out-of-range":
		t.snap.Counts.OutOfRange++
	}
	t.mu.Unlock()
}

// RecordError notes a failed status query. The last known state is kept.
func (t *Tracker) RecordError(msg string, at time.Time) {
	t.mu.Lock()
	t.snap.LastError = msg
	t.snap.LastQuery = at
	t.snap.Counts.Errors++
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
