package dto

import "rfid-wallet-backend/internal/core/domain"

// TopupRequest is the request body for crediting a card.
type TopupRequest struct {
	UID    string `json:"uid" binding:"required"`
	Amount int64  `json:"amount" binding:"required,gt=0"`
}

// TopupResponse is the response body for a successful topup.
type TopupResponse struct {
	Status  string `json:"status"`
	UID     string `json:"uid"`
	Balance int64  `json:"balance"`
}

// PaymentRequest is the request body for charging a card.
// Quantity defaults to 1 when omitted.
type PaymentRequest struct {
	UID       string `json:"uid" binding:"required"`
	ProductID string `json:"productId" binding:"required,uuid"`
	Quantity  *int   `json:"quantity,omitempty" binding:"omitempty,gt=0"`
}

// PaymentResponse is the response body for a successful payment.
type PaymentResponse struct {
	Status      string              `json:"status"`
	Transaction *domain.Transaction `json:"transaction"`
	NewBalance  int64               `json:"newBalance"`
}

// CreateCardRequest is the request body for registering a card.
type CreateCardRequest struct {
	UID  string `json:"uid" binding:"required"`
	Name string `json:"name,omitempty" binding:"max=100"`
}

// UpdateCardRequest is the request body for renaming a card.
type UpdateCardRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// CardResponse is the card representation with its wallet balance.
type CardResponse struct {
	UID     string `json:"uid"`
	Name    string `json:"name"`
	Balance int64  `json:"balance"`
}

// CreateProductRequest is the request body for adding a catalog item.
type CreateProductRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Price    int64  `json:"price" binding:"required,gt=0"`
	Category string `json:"category,omitempty" binding:"max=50"`
	Image    string `json:"image,omitempty" binding:"max=500"`
}

// UpdateProductRequest is the request body for editing a catalog item.
type UpdateProductRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Price    int64  `json:"price" binding:"required,gt=0"`
	Category string `json:"category,omitempty" binding:"max=50"`
	Image    string `json:"image,omitempty" binding:"max=500"`
}
