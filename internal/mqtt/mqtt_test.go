package mqtt

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestFormatStatePayload(t *testing.T) {
	event := StateEvent{
		Timestamp: time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC),
		State:     "locked",
	}

	payload, err := FormatStatePayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := `{"lock":{"timestamp":"2025-03-14T09:26:53Z","state":"locked"}}`
	if string(payload) != want {
		t.Errorf("got %s, want %s", payload, want)
	}
}

func TestFormatStatePayloadError(t *testing.T) {
	event := StateEvent{
		Timestamp: time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC),
		Err:       "decode status reply: only 0 LED changes observed, need at least 3",
	}

	payload, err := FormatStatePayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded Payload
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded.Lock.State != "" {
		t.Errorf("state should be empty on error, got %q", decoded.Lock.State)
	}
	if decoded.Lock.Error == "" {
		t.Error("error field missing")
	}
}

func TestFormatStatePayloadLocalTime(t *testing.T) {
	// Non-UTC timestamps must be converted, not formatted with offset.
	loc := time.FixedZone("CET", 3600)
	event := StateEvent{
		Timestamp: time.Date(2025, 3, 14, 10, 26, 53, 0, loc),
		State:     "unlocked",
	}

	payload, err := FormatStatePayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded Payload
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded.Lock.Timestamp != "2025-03-14T09:26:53Z" {
		t.Errorf("timestamp not in UTC: %s", decoded.Lock.Timestamp)
	}
}

func TestFormatSystemPayload(t *testing.T) {
	event := SystemEvent{
		Timestamp: time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC),
		Event:     "SHUTDOWN",
		Reason:    "SIGTERM",
	}

	payload, err := FormatSystemPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := `{"system":{"timestamp":"2025-03-14T09:26:53Z","event":"SHUTDOWN","reason":"SIGTERM"}}`
	if string(payload) != want {
		t.Errorf("got %s, want %s", payload, want)
	}
}

func TestFormatSystemPayloadNoReason(t *testing.T) {
	event := SystemEvent{
		Timestamp: time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC),
		Event:     "STARTUP",
	}

	payload, err := FormatSystemPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := `{"system":{"timestamp":"2025-03-14T09:26:53Z","event":"STARTUP"}}`
	if string(payload) != want {
		t.Errorf("got %s, want %s", payload, want)
	}
}

func TestFakePublisherRecords(t *testing.T) {
	f := NewFakePublisher()

	event := StateEvent{Timestamp: time.Now(), State: "locked"}
	if err := f.PublishState(event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(f.StateEvents) != 1 {
		t.Fatalf("recorded %d events, want 1", len(f.StateEvents))
	}
	if f.StateEvents[0].State != "locked" {
		t.Errorf("got state %q, want locked", f.StateEvents[0].State)
	}
	if len(f.StatePayloads) != 1 {
		t.Errorf("recorded %d payloads, want 1", len(f.StatePayloads))
	}
}

func TestFakePublisherErrors(t *testing.T) {
	f := NewFakePublisher()
	f.PublishStateError = errors.New("simulated publish failure")

	if err := f.PublishState(StateEvent{State: "locked"}); err == nil {
		t.Error("expected error")
	}
	if len(f.StateEvents) != 0 {
		t.Error("failed publish should not be recorded")
	}
}

func TestFakePublisherClose(t *testing.T) {
	f := NewFakePublisher()
	if err := f.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !f.Closed {
		t.Error("should be closed after Close()")
	}
}
