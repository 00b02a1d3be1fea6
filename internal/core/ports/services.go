package ports

import (
	"context"

	"rfid-wallet-backend/internal/core/domain"

	"github.com/google/uuid"
)

// BalanceAuthority is the single owner of balance truth per card. All
// transport events and API intents that can move a balance go through
// it; it serializes mutations per card and is the only writer of the
// ledger store.
type BalanceAuthority interface {
	// HandleStatusReport processes a hardware "card present" signal.
	// It materializes a zero-balance wallet on first contact and pushes
	// the backend's stored balance to dashboards. Any balance value the
	// hardware sent alongside is discarded.
	HandleStatusReport(ctx context.Context, uid string) error

	// HandleBalanceReport processes a hardware balance confirmation and
	// overwrites the stored balance with the reported value.
	HandleBalanceReport(ctx context.Context, uid string, balance int64) error

	// Topup credits a card and forwards the top-up command to hardware.
	Topup(ctx context.Context, req TopupRequest) (*TopupResult, error)

	// Pay debits a card against a catalog price.
	Pay(ctx context.Context, req PaymentRequest) (*PaymentResult, error)
}

// TopupRequest holds validated input for a top-up.
type TopupRequest struct {
	UID    string
	Amount int64
}

// TopupResult is the outcome of an accepted top-up.
type TopupResult struct {
	UID         string
	Balance     int64
	Transaction *domain.Transaction
}

// PaymentRequest holds validated input for a purchase.
type PaymentRequest struct {
	UID       string
	ProductID uuid.UUID
	Quantity  int // 0 means 1
}

// PaymentResult is the outcome of an accepted purchase.
type PaymentResult struct {
	Transaction *domain.Transaction
	NewBalance  int64
}

// Broadcaster fans canonical state out to all connected dashboard
// observers. Delivery is best-effort; callers log failures and move on.
type Broadcaster interface {
	Broadcast(ctx context.Context, event string, payload any) error
}

// MessageBus publishes raw messages to the hardware transport.
type MessageBus interface {
	Publish(topic string, data []byte) error
}
