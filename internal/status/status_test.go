package status

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func testConfig() Config {
	return Config{
		Chip:       "/dev/gpiochip2",
		Lines:      [4]int{2, 3, 4, 5},
		IntervalMs: 900000,
		Broker:     "tcp://192.168.1.200:1883",
		HTTPAddr:   ":8080",
	}
}

func TestTrackerInitialSnapshot(t *testing.T) {
	start := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	tr := NewTracker(start, testConfig())

	snap := tr.Snapshot()
	if snap.State != "" {
		t.Errorf("initial state = %q, want empty", snap.State)
	}
	if snap.StartTime != start {
		t.Errorf("start time = %v, want %v", snap.StartTime, start)
	}
	if snap.Config.Chip != "/dev/gpiochip2" {
		t.Errorf("config chip = %q", snap.Config.Chip)
	}
	if snap.Now.IsZero() {
		t.Error("Now not set on snapshot")
	}
}

func TestTrackerRecordState(t *testing.T) {
	tr := NewTracker(time.Now(), testConfig())
	at := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

	tr.RecordState("locked", at)
	tr.RecordState("locked", at.Add(time.Minute))
	tr.RecordState("unlocked", at.Add(2*time.Minute))

	snap := tr.Snapshot()
	if snap.State != "unlocked" {
		t.Errorf("state = %q, want unlocked", snap.State)
	}
	if snap.Counts.Locked != 2 || snap.Counts.Unlocked != 1 {
		t.Errorf("counts = %+v", snap.Counts)
	}
	if !snap.LastQuery.Equal(at.Add(2 * time.Minute)) {
		t.Errorf("last query = %v", snap.LastQuery)
	}
}

func TestTrackerRecordErrorKeepsState(t *testing.T) {
	tr := NewTracker(time.Now(), testConfig())
	at := time.Now()

	tr.RecordState("locked", at)
	tr.RecordError("decode status reply: ambiguous LED level", at.Add(time.Minute))

	snap := tr.Snapshot()
	if snap.State != "locked" {
		t.Errorf("state lost after error: %q", snap.State)
	}
	if snap.LastError == "" {
		t.Error("last error not recorded")
	}
	if snap.Counts.Errors != 1 {
		t.Errorf("error count = %d, want 1", snap.Counts.Errors)
	}
}

func TestTrackerErrorClearedOnSuccess(t *testing.T) {
	tr := NewTracker(time.Now(), testConfig())

	tr.RecordError("out of range", time.Now())
	tr.RecordState("locked", time.Now())

	if snap := tr.Snapshot(); snap.LastError != "" {
		t.Errorf("last error not cleared: %q", snap.LastError)
	}
}

func TestTrackerMQTTConnected(t *testing.T) {
	tr := NewTracker(time.Now(), testConfig())

	tr.SetMQTTConnected(true)
	if !tr.Snapshot().MQTTConnected {
		t.Error("MQTTConnected not set")
	}
	tr.SetMQTTConnected(false)
	if tr.Snapshot().MQTTConnected {
		t.Error("MQTTConnected not cleared")
	}
}

func TestUptime(t *testing.T) {
	start := time.Now().Add(-90 * time.Second)
	tr := NewTracker(start, testConfig())

	up := tr.Snapshot().Uptime()
	if up < 90*time.Second || up > 92*time.Second {
		t.Errorf("uptime = %v, want about 90s", up)
	}
}

func TestFormatJSON(t *testing.T) {
	start := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	tr := NewTracker(start, testConfig())
	tr.RecordState("locked", start.Add(time.Minute))
	tr.SetMQTTConnected(true)

	data := FormatJSON(tr.Snapshot())

	var decoded StatusJSON
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded.Status.State != "locked" {
		t.Errorf("state = %q, want locked", decoded.Status.State)
	}
	if !decoded.Status.MQTT.Connected {
		t.Error("mqtt connected flag missing")
	}
	if decoded.Status.Config.Lines != [4]int{2, 3, 4, 5} {
		t.Errorf("lines = %v", decoded.Status.Config.Lines)
	}
	if decoded.Status.Counts.Locked != 1 {
		t.Errorf("locked count = %d", decoded.Status.Counts.Locked)
	}
}

func TestFormatJSONUnknownState(t *testing.T) {
	tr := NewTracker(time.Now(), testConfig())

	data := FormatJSON(tr.Snapshot())
	if !strings.Contains(string(data), `"state": "unknown"`) {
		t.Errorf("empty state not rendered as unknown: %s", data)
	}
	if strings.Contains(string(data), "last_query") {
		t.Errorf("zero last_query should be omitted: %s", data)
	}
}
