package handler

import (
	"errors"
	"time"

	"rfid-wallet-backend/internal/adapter/http/dto"
	"rfid-wallet-backend/internal/adapter/storage/postgres"
	"rfid-wallet-backend/internal/core/domain"
	"rfid-wallet-backend/internal/core/ports"
	"rfid-wallet-backend/pkg/apperror"
	"rfid-wallet-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// CardHandler handles card registry endpoints. A card's wallet is
// created alongside the card and removed with it.
type CardHandler struct {
	cards   ports.CardRepository
	wallets ports.WalletRepository
}

// NewCardHandler creates a new CardHandler.
func NewCardHandler(cards ports.CardRepository, wallets ports.WalletRepository) *CardHandler {
	return &CardHandler{cards: cards, wallets: wallets}
}

// List handles GET /api/cards.
func (h *CardHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	cards, err := h.cards.List(ctx)
	if err != nil {
		response.Error(c, apperror.ErrPersistence(err))
		return
	}
	wallets, err := h.wallets.List(ctx)
	if err != nil {
		response.Error(c, apperror.ErrPersistence(err))
		return
	}

	balances := make(map[string]int64, len(wallets))
	for _, w := range wallets {
		balances[w.UID] = w.Balance
	}

	out := make([]dto.CardResponse, 0, len(cards))
	for _, card := range cards {
		out = append(out, dto.CardResponse{
			UID:     card.UID,
			Name:    card.Name,
			Balance: balances[card.UID],
		})
	}
	response.OK(c, out)
}

// Create handles POST /api/cards.
func (h *CardHandler) Create(c *gin.Context) {
	var req dto.CreateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	ctx := c.Request.Context()
	uid := domain.NormalizeUID(req.UID)
	name := req.Name
	if name == "" {
		name = domain.DefaultCardName
	}

	now := time.Now().UTC()
	card := &domain.Card{UID: uid, Name: name, CreatedAt: now, UpdatedAt: now}
	if err := h.cards.Create(ctx, card); err != nil {
		if errors.Is(err, postgres.ErrDuplicateCard) {
			response.Error(c, apperror.ErrCardExists())
			return
		}
		response.Error(c, apperror.ErrPersistence(err))
		return
	}

	// Co-create the wallet unless a reader report already did.
	wallet, err := h.wallets.GetByUID(ctx, uid)
	if err != nil {
		response.Error(c, apperror.ErrPersistence(err))
		return
	}
	balance := int64(0)
	if wallet == nil {
		if err := h.wallets.Upsert(ctx, uid, 0); err != nil {
			response.Error(c, apperror.ErrPersistence(err))
			return
		}
	} else {
		balance = wallet.Balance
	}

	response.Created(c, dto.CardResponse{UID: uid, Name: name, Balance: balance})
}

// Get handles GET /api/cards/:uid.
func (h *CardHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()
	uid := domain.NormalizeUID(c.Param("uid"))

	card, err := h.cards.GetByUID(ctx, uid)
	if err != nil {
		response.Error(c, apperror.ErrPersistence(err))
		return
	}
	if card == nil {
		response.Error(c, apperror.ErrNotFound("Card"))
		return
	}

	balance := int64(0)
	if wallet, err := h.wallets.GetByUID(ctx, uid); err == nil && wallet != nil {
		balance = wallet.Balance
	}

	response.OK(c, dto.CardResponse{UID: card.UID, Name: card.Name, Balance: balance})
}

// Update handles PUT /api/cards/:uid.
func (h *CardHandler) Update(c *gin.Context) {
	var req dto.UpdateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	uid := domain.NormalizeUID(c.Param("uid"))
	card, err := h.cards.UpdateName(c.Request.Context(), uid, req.Name)
	if err != nil {
		response.Error(c, apperror.ErrPersistence(err))
		return
	}
	if card == nil {
		response.Error(c, apperror.ErrNotFound("Card"))
		return
	}

	response.OK(c, card)
}

// Delete handles DELETE /api/cards/:uid. The wallet goes with the card.
func (h *CardHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()
	uid := domain.NormalizeUID(c.Param("uid"))

	card, err := h.cards.GetByUID(ctx, uid)
	if err != nil {
		response.Error(c, apperror.ErrPersistence(err))
		return
	}
	if card == nil {
		response.Error(c, apperror.ErrNotFound("Card"))
		return
	}

	if err := h.cards.Delete(ctx, uid); err != nil {
		response.Error(c, apperror.ErrPersistence(err))
		return
	}
	if err := h.wallets.Delete(ctx, uid); err != nil {
		response.Error(c, apperror.ErrPersistence(err))
		return
	}

	response.Message(c, "Card deleted", gin.H{"uid": uid})
}
