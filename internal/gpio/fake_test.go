package gpio

import (
	"errors"
	"testing"
	"time"
)

func TestFakeLinesRecordsOps(t *testing.T) {
	f := NewFakeLines(nil)

	if err := f.SetButton(ButtonLock, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.SetButton(ButtonLock, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []ButtonOp{
		{Button: ButtonLock, Active: true},
		{Button: ButtonLock, Active: false},
	}
	if len(f.Ops) != len(want) {
		t.Fatalf("recorded %d ops, want %d", len(f.Ops), len(want))
	}
	for i, op := range want {
		if f.Ops[i] != op {
			t.Errorf("op %d: got %+v, want %+v", i, f.Ops[i], op)
		}
	}
}

func TestFakeLinesSetError(t *testing.T) {
	f := NewFakeLines(nil)
	f.SetError = errors.New("simulated error")

	if err := f.SetButton(ButtonUnlock, true); err == nil {
		t.Error("expected error to be returned")
	}
	if len(f.Ops) != 0 {
		t.Errorf("failed SetButton should not be recorded, got %d ops", len(f.Ops))
	}
}

func TestFakeLinesEdgeScript(t *testing.T) {
	script := []Edge{
		{LED: LEDRed, Rising: true, At: 100 * time.Millisecond},
		{LED: LEDRed, Rising: false, At: 2 * time.Second},
	}
	f := NewFakeLines(script)

	var got []Edge
	for e := range f.Edges() {
		got = append(got, e)
	}
	if len(got) != len(script) {
		t.Fatalf("got %d edges, want %d", len(got), len(script))
	}
	for i := range script {
		if got[i] != script[i] {
			t.Errorf("edge %d: got %+v, want %+v", i, got[i], script[i])
		}
	}
}

func TestFakeLinesClose(t *testing.T) {
	f := NewFakeLines(nil)

	if f.Closed {
		t.Error("should not be closed initially")
	}
	if err := f.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !f.Closed {
		t.Error("should be closed after Close()")
	}
}

func TestLabels(t *testing.T) {
	if ButtonLock.String() != "button-lock" || ButtonUnlock.String() != "button-unlock" {
		t.Errorf("button labels: %q, %q", ButtonLock, ButtonUnlock)
	}
	if LEDRed.String() != "led-red" || LEDGreen.String() != "led-green" {
		t.Errorf("led labels: %q, %q", LEDRed, LEDGreen)
	}
}
