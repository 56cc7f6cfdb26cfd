package gpio

// ButtonOp records a single output transition for test assertions.
type ButtonOp struct {
	Button Button
	Active bool
}

// FakeLines is a test double: it records button transitions and replays
// scripted LED edges.
type FakeLines struct {
	// Ops contains every SetButton call in order.
	Ops []ButtonOp

	// SetError, if set, will be returned by SetButton.
	SetError error

	// Closed tracks if Close was called.
	Closed bool

	edges chan Edge
}

// NewFakeLines creates a FakeLines whose Edges channel replays the given
// script and is then closed. A closed edge stream is how consumers
// observe "the device has stopped blinking", so most tests finish
// without waiting on wall-clock time.
func NewFakeLines(script []Edge) *FakeLines {
	ch := make(chan Edge, len(script)+1)
	for _, e := range script {
		ch <- e
	}
	close(ch)
	return &FakeLines{edges: ch}
}

// SetButton records the transition.
func (f *FakeLines) SetButton(b Button, active bool) error {
	if f.SetError != nil {
		return f.SetError
	}
	f.Ops = append(f.Ops, ButtonOp{Button: b, Active: active})
	return nil
}

// Edges returns the scripted edge stream.
func (f *FakeLines) Edges() <-chan Edge {
	return f.edges
}

// Close marks the lines as closed.
func (f *FakeLines) Close() error {
	f.Closed = true
	return nil
}
