package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	State         string     `json:"state"`
	LastError     string     `json:"last_error,omitempty"`
	LastQuery     string     `json:"last_query,omitempty"`
	UptimeSeconds int64      `json:"uptime_seconds"`
	StartTime     string     `json:"start_time"`
	Timestamp     string     `json:"timestamp"`
	MQTT          MQTTStatus `json:"mqtt"`
	Counts        CountsJSON `json:"query_counts"`
	Config        ConfigJSON `json:"config"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of query counts.
type CountsJSON struct {
	Locked     int `json:"locked"`
	Unlocked   int `json:"unlocked"`
	Manual     int `json:"manual"`
	OutOfRange int `json:"out_of_range"`
	Errors     int `json:"errors"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	Chip       string `json:"chip"`
	Lines      [4]int `json:"lines"`
	IntervalMs int64  `json:"interval_ms"`
	Broker     string `json:"broker"`
	HTTPAddr   string `json:"http_addr"`
}

func buildInner(snap Snapshot) StatusInner {
	state := snap.State
	if state == "" {
		state = "unknown"
	}

	inner := StatusInner{
		State:         state,
		LastError:     snap.LastError,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			Locked:     snap.Counts.Locked,
			Unlocked:   snap.Counts.Unlocked,
			Manual:     snap.Counts.Manual,
			OutOfRange: snap.Counts.OutOfRange,
			Errors:     snap.Counts.Errors,
		},
		Config: ConfigJSON{
			Chip:       snap.Config.Chip,
			Lines:      snap.Config.Lines,
			IntervalMs: snap.Config.IntervalMs,
			Broker:     snap.Config.Broker,
			HTTPAddr:   snap.Config.HTTPAddr,
		},
	}
	if !snap.LastQuery.IsZero() {
		inner.LastQuery = snap.LastQuery.UTC().Format(time.RFC3339)
	}
	return inner
}

// FormatJSON returns the JSON status for the web endpoint.
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}
