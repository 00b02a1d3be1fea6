package nats

import (
	"context"
	"errors"

	"github.com/nats-io/nats.go"
)

// HealthCheck implements ports.HealthChecker for the NATS connection.
type HealthCheck struct {
	nc *nats.Conn
}

// NewHealthCheck creates a NATS health checker.
func NewHealthCheck(nc *nats.Conn) *HealthCheck {
	return &HealthCheck{nc: nc}
}

// Ping reports whether the connection is currently up.
func (h *HealthCheck) Ping(_ context.Context) error {
	if !h.nc.IsConnected() {
		return errors.New("nats connection is down")
	}
	return nil
}

// Name returns the dependency name.
func (h *HealthCheck) Name() string {
	return "nats"
}
