package handler

import (
	"rfid-wallet-backend/internal/adapter/http/dto"
	"rfid-wallet-backend/internal/core/ports"
	"rfid-wallet-backend/pkg/apperror"
	"rfid-wallet-backend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PaymentHandler handles the topup and payment endpoints.
type PaymentHandler struct {
	authority ports.BalanceAuthority
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(authority ports.BalanceAuthority) *PaymentHandler {
	return &PaymentHandler{authority: authority}
}

// Topup handles POST /api/topup.
func (h *PaymentHandler) Topup(c *gin.Context) {
	var req dto.TopupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	result, err := h.authority.Topup(c.Request.Context(), ports.TopupRequest{
		UID:    req.UID,
		Amount: req.Amount,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.TopupResponse{
		Status:  "Top-up sent",
		UID:     result.UID,
		Balance: result.Balance,
	})
}

// Pay handles POST /api/payment.
func (h *PaymentHandler) Pay(c *gin.Context) {
	var req dto.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		response.Error(c, apperror.Validation("productId must be a valid UUID"))
		return
	}

	quantity := 0
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	result, err := h.authority.Pay(c.Request.Context(), ports.PaymentRequest{
		UID:       req.UID,
		ProductID: productID,
		Quantity:  quantity,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.PaymentResponse{
		Status:      "Payment successful",
		Transaction: result.Transaction,
		NewBalance:  result.NewBalance,
	})
}
