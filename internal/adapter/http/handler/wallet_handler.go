package handler

import (
	"rfid-wallet-backend/internal/core/domain"
	"rfid-wallet-backend/internal/core/ports"
	"rfid-wallet-backend/pkg/apperror"
	"rfid-wallet-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// WalletHandler exposes read-only views of card balances.
type WalletHandler struct {
	wallets ports.WalletRepository
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(wallets ports.WalletRepository) *WalletHandler {
	return &WalletHandler{wallets: wallets}
}

// List handles GET /api/wallets.
func (h *WalletHandler) List(c *gin.Context) {
	wallets, err := h.wallets.List(c.Request.Context())
	if err != nil {
		response.Error(c, apperror.ErrPersistence(err))
		return
	}
	if wallets == nil {
		wallets = []domain.Wallet{}
	}
	response.OK(c, wallets)
}

// Get handles GET /api/wallets/:uid.
func (h *WalletHandler) Get(c *gin.Context) {
	uid := domain.NormalizeUID(c.Param("uid"))

	wallet, err := h.wallets.GetByUID(c.Request.Context(), uid)
	if err != nil {
		response.Error(c, apperror.ErrPersistence(err))
		return
	}
	if wallet == nil {
		response.Error(c, apperror.ErrNotFound("Wallet"))
		return
	}

	response.OK(c, wallet)
}
