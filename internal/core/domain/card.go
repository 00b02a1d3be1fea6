package domain

import "time"

// DefaultCardName is assigned when a card is registered without a name.
const DefaultCardName = "Unknown Card"

// Card holds metadata for a registered RFID tag. Balance lives on the
// wallet record, not here.
type Card struct {
	UID       string    `json:"uid"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
