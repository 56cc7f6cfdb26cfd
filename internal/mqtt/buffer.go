package mqtt

import "log"

// bufferedMsg stores a serialized MQTT message for replay after
// reconnection.
type bufferedMsg struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
}

// backlog is a fixed-capacity FIFO holding messages while the broker is
// unreachable. When full, the oldest message is dropped. Not safe for
// concurrent use; the publisher synchronizes access.
type backlog struct {
	buf      []bufferedMsg
	capacity int
	head     int // next write position
	count    int
	dropped  bool // a message was dropped since the last drain
}

func newBacklog(capacity int) *backlog {
	return &backlog{
		buf:      make([]bufferedMsg, capacity),
		capacity: capacity,
	}
}

func (b *backlog) push(msg bufferedMsg) {
	if b.count == b.capacity {
		if !b.dropped {
			log.Printf("mqtt: backlog full (%d messages), dropping oldest", b.capacity)
			b.dropped = true
		}
		// head already points at the oldest entry
		b.buf[b.head] = msg
		b.head = (b.head + 1) % b.capacity
		return
	}
	b.buf[b.head] = msg
	b.head = (b.head + 1) % b.capacity
	b.count++
}

func (b *backlog) drain() []bufferedMsg {
	if b.count == 0 {
		return nil
	}

	result := make([]bufferedMsg, b.count)
	start := (b.head - b.count + b.capacity) % b.capacity
	for i := 0; i < b.count; i++ {
		result[i] = b.buf[(start+i)%b.capacity]
	}

	b.count = 0
	b.head = 0
	b.dropped = false
	return result
}

func (b *backlog) len() int {
	return b.count
}
