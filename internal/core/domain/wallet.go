package domain

import (
	"strings"
	"time"
)

// Wallet is the authoritative balance record for a single card.
// The balance is held in the smallest currency unit and never goes negative.
type Wallet struct {
	UID       string    `json:"uid"`
	Balance   int64     `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NormalizeUID canonicalizes a card identifier. All persistence and
// event processing key on the normalized form.
func NormalizeUID(uid string) string {
	return strings.ToUpper(strings.TrimSpace(uid))
}
