package domain

import (
	"time"

	"github.com/google/uuid"
)

// TransactionKind represents the kind of balance movement.
type TransactionKind string

const (
	TransactionKindTopup   TransactionKind = "TOPUP"
	TransactionKindPayment TransactionKind = "PAYMENT"
)

// Transaction is an immutable ledger entry. Entries are appended by the
// balance authority at the moment a mutation is accepted and are never
// updated or deleted afterwards.
type Transaction struct {
	ID            uuid.UUID       `json:"id"`
	UID           string          `json:"uid"`
	Kind          TransactionKind `json:"type"`
	Amount        int64           `json:"amount"`
	BalanceBefore int64           `json:"balanceBefore"`
	BalanceAfter  int64           `json:"balanceAfter"`
	ProductID     *uuid.UUID      `json:"productId,omitempty"`
	Quantity      *int            `json:"quantity,omitempty"`
	Description   string          `json:"description"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// IsConsistent reports whether the before/after pair matches the amount
// for this kind of movement.
func (t *Transaction) IsConsistent() bool {
	switch t.Kind {
	case TransactionKindTopup:
		return t.BalanceAfter == t.BalanceBefore+t.Amount
	case TransactionKindPayment:
		return t.BalanceAfter == t.BalanceBefore-t.Amount
	default:
		return false
	}
}
