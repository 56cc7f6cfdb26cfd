package mqtt

import (
	"fmt"
	"log"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

const (
	connectRetryInterval = 5 * time.Second
	publishTimeout       = 5 * time.Second

	// backlogCapacity covers several hours of state polls while the
	// broker is down.
	backlogCapacity = 64
)

// RealPublisher publishes to an actual MQTT broker. It connects in the
// background and buffers messages while disconnected, replaying them
// once the connection is (re)established.
type RealPublisher struct {
	client paho.Client

	mu      sync.Mutex
	pending *backlog
}

// NewRealPublisher creates a publisher for the given broker. The
// connection is established asynchronously with automatic retry, so
// this never blocks; early messages land in the backlog.
func NewRealPublisher(broker string) *RealPublisher {
	p := &RealPublisher{pending: newBacklog(backlogCapacity)}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID("cff3000-monitor").
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(connectRetryInterval).
		SetOnConnectHandler(func(paho.Client) {
			p.replay()
		})

	p.client = paho.NewClient(opts)
	p.client.Connect()
	return p
}

// PublishState sends a lock state event, retained, QoS 1.
func (p *RealPublisher) PublishState(event StateEvent) error {
	payload, err := FormatStatePayload(event)
	if err != nil {
		return fmt.Errorf("format state payload: %w", err)
	}
	return p.publish(Topic, 1, true, payload)
}

// PublishSystem sends a monitor lifecycle event, QoS 1.
func (p *RealPublisher) PublishSystem(event SystemEvent) error {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}
	return p.publish(TopicSystem, 1, event.Retained, payload)
}

func (p *RealPublisher) publish(topic string, qos byte, retained bool, payload []byte) error {
	if !p.client.IsConnected() {
		p.mu.Lock()
		p.pending.push(bufferedMsg{topic: topic, payload: payload, qos: qos, retained: retained})
		n := p.pending.len()
		p.mu.Unlock()
		log.Printf("mqtt: broker unreachable, buffered message (%d pending)", n)
		return nil
	}

	token := p.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

// replay flushes the backlog after a (re)connect.
func (p *RealPublisher) replay() {
	p.mu.Lock()
	msgs := p.pending.drain()
	p.mu.Unlock()

	if len(msgs) == 0 {
		return
	}
	for _, m := range msgs {
		token := p.client.Publish(m.topic, m.qos, m.retained, m.payload)
		if !token.WaitTimeout(publishTimeout) {
			log.Printf("mqtt: replay timeout on %s", m.topic)
			continue
		}
		if err := token.Error(); err != nil {
			log.Printf("mqtt: replay on %s: %v", m.topic, err)
		}
	}
	log.Printf("mqtt: replayed %d buffered messages", len(msgs))
}

// IsConnected reports whether the broker connection is up.
func (p *RealPublisher) IsConnected() bool {
	return p.client.IsConnected()
}

// Close disconnects from the broker.
func (p *RealPublisher) Close() error {
	p.client.Disconnect(1000) // milliseconds to flush in-flight messages
	return nil
}
