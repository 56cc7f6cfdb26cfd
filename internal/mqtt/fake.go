package mqtt

// FakePublisher records published events for test assertions.
type FakePublisher struct {
	// StateEvents contains all state events that were published.
	StateEvents []StateEvent

	// StatePayloads contains the JSON payloads for state events.
	StatePayloads [][]byte

	// SystemEvents contains all lifecycle events that were published.
	SystemEvents []SystemEvent

	// SystemPayloads contains the JSON payloads for lifecycle events.
	SystemPayloads [][]byte

	// PublishStateError, if set, will be returned by PublishState.
	PublishStateError error

	// PublishSystemError, if set, will be returned by PublishSystem.
	PublishSystemError error

	// Closed tracks if Close was called.
	Closed bool

	// Connected controls the return value of IsConnected.
	Connected bool
}

// NewFakePublisher creates a FakePublisher for testing.
func NewFakePublisher() *FakePublisher {
	return &FakePublisher{}
}

// PublishState records the state event.
func (f *FakePublisher) PublishState(event StateEvent) error {
	if f.PublishStateError != nil {
		return f.PublishStateError
	}

	f.StateEvents = append(f.StateEvents, event)

	payload, err := FormatStatePayload(event)
	if err != nil {
		return err
	}
	f.StatePayloads = append(f.StatePayloads, payload)
	return nil
}

// PublishSystem records the lifecycle event.
func (f *FakePublisher) PublishSystem(event SystemEvent) error {
	if f.PublishSystemError != nil {
		return f.PublishSystemError
	}

	f.SystemEvents = append(f.SystemEvents, event)

	payload, err := FormatSystemPayload(event)
	if err != nil {
		return err
	}
	f.SystemPayloads = append(f.SystemPayloads, payload)
	return nil
}

// Close marks the publisher as closed.
func (f *FakePublisher) Close() error {
	f.Closed = true
	return nil
}

// IsConnected reports whether the fake publisher is "connected".
func (f *FakePublisher) IsConnected() bool {
	return f.Connected
}

// Reset clears recorded events.
func (f *FakePublisher) Reset() {
	f.StateEvents = nil
	f.StatePayloads = nil
	f.SystemEvents = nil
	f.SystemPayloads = nil
	f.Closed = false
	f.PublishStateError = nil
	f.PublishSystemError = nil
	f.Connected = false
}
