package handler

import (
	"rfid-wallet-backend/internal/core/domain"
	"rfid-wallet-backend/internal/core/ports"
	"rfid-wallet-backend/pkg/apperror"
	"rfid-wallet-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// TransactionHandler exposes the append-only transaction log.
type TransactionHandler struct {
	transactions ports.TransactionRepository
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactions ports.TransactionRepository) *TransactionHandler {
	return &TransactionHandler{transactions: transactions}
}

// List handles GET /api/transactions?uid=&type=.
func (h *TransactionHandler) List(c *gin.Context) {
	filter := ports.TransactionFilter{}
	if uid := c.Query("uid"); uid != "" {
		filter.UID = domain.NormalizeUID(uid)
	}
	if t := c.Query("type"); t != "" {
		kind := domain.TransactionKind(t)
		if kind != domain.TransactionKindTopup && kind != domain.TransactionKindPayment {
			response.Error(c, apperror.Validation("type must be TOPUP or PAYMENT"))
			return
		}
		filter.Kind = &kind
	}

	h.list(c, filter)
}

// ListByUID handles GET /api/transactions/:uid.
func (h *TransactionHandler) ListByUID(c *gin.Context) {
	h.list(c, ports.TransactionFilter{UID: domain.NormalizeUID(c.Param("uid"))})
}

func (h *TransactionHandler) list(c *gin.Context, filter ports.TransactionFilter) {
	txns, err := h.transactions.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, apperror.ErrPersistence(err))
		return
	}
	if txns == nil {
		txns = []domain.Transaction{}
	}
	response.OK(c, txns)
}
