package domain

import (
	"time"

	"github.com/google/uuid"
)

// Product is a catalog item purchasable via payment requests.
// Price is in the smallest currency unit.
type Product struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Price     int64     `json:"price"`
	Category  string    `json:"category,omitempty"`
	Image     string    `json:"image,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
