package nats

import "github.com/nats-io/nats.go"

// Bus implements ports.MessageBus over a NATS connection.
type Bus struct {
	nc *nats.Conn
}

// NewBus creates a Bus.
func NewBus(nc *nats.Conn) *Bus {
	return &Bus{nc: nc}
}

// Publish sends data to the given subject.
func (b *Bus) Publish(topic string, data []byte) error {
	return b.nc.Publish(topic, data)
}
