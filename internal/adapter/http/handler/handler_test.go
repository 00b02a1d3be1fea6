package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"rfid-wallet-backend/internal/adapter/storage/postgres"
	"rfid-wallet-backend/internal/core/domain"
	"rfid-wallet-backend/internal/core/ports"
	"rfid-wallet-backend/internal/core/ports/mocks"
	"rfid-wallet-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func postJSON(t *testing.T, w *httptest.ResponseRecorder, path string, payload any) *gin.Context {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c
}

// --- Payment Handler Tests ---

func TestTopup_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuthority := mocks.NewMockBalanceAuthority(ctrl)
	h := NewPaymentHandler(mockAuthority)

	mockAuthority.EXPECT().
		Topup(gomock.Any(), ports.TopupRequest{UID: "ab12", Amount: 500}).
		Return(&ports.TopupResult{UID: "AB12", Balance: 600}, nil)

	w := httptest.NewRecorder()
	c := postJSON(t, w, "/api/topup", gin.H{"uid": "ab12", "amount": 500})

	h.Topup(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Top-up sent", resp["status"])
	assert.Equal(t, "AB12", resp["uid"])
	assert.Equal(t, float64(600), resp["balance"])
}

func TestTopup_ValidationError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuthority := mocks.NewMockBalanceAuthority(ctrl)
	h := NewPaymentHandler(mockAuthority)

	w := httptest.NewRecorder()
	c := postJSON(t, w, "/api/topup", gin.H{"uid": "AB12"}) // missing amount

	h.Topup(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp, "error")
}

func TestPay_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuthority := mocks.NewMockBalanceAuthority(ctrl)
	h := NewPaymentHandler(mockAuthority)

	productID := uuid.New()
	txn := &domain.Transaction{
		ID:            uuid.New(),
		UID:           "AB12",
		Kind:          domain.TransactionKindPayment,
		Amount:        300,
		BalanceBefore: 500,
		BalanceAfter:  200,
		CreatedAt:     time.Now().UTC(),
	}
	mockAuthority.EXPECT().
		Pay(gomock.Any(), ports.PaymentRequest{UID: "AB12", ProductID: productID, Quantity: 2}).
		Return(&ports.PaymentResult{Transaction: txn, NewBalance: 200}, nil)

	w := httptest.NewRecorder()
	c := postJSON(t, w, "/api/payment", gin.H{"uid": "AB12", "productId": productID.String(), "quantity": 2})

	h.Pay(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Payment successful", resp["status"])
	assert.Equal(t, float64(200), resp["newBalance"])
	assert.NotNil(t, resp["transaction"])
}

func TestPay_InsufficientFunds(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuthority := mocks.NewMockBalanceAuthority(ctrl)
	h := NewPaymentHandler(mockAuthority)

	productID := uuid.New()
	mockAuthority.EXPECT().
		Pay(gomock.Any(), gomock.Any()).
		Return(nil, apperror.ErrInsufficientFunds(200, 300))

	w := httptest.NewRecorder()
	c := postJSON(t, w, "/api/payment", gin.H{"uid": "AB12", "productId": productID.String()})

	h.Pay(c)

	// The rejection carries the current balance and the required amount.
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, float64(200), resp["balance"])
	assert.Equal(t, float64(300), resp["required"])
	assert.Contains(t, resp, "error")
}

func TestPay_InvalidProductID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuthority := mocks.NewMockBalanceAuthority(ctrl)
	h := NewPaymentHandler(mockAuthority)

	w := httptest.NewRecorder()
	c := postJSON(t, w, "/api/payment", gin.H{"uid": "AB12", "productId": "not-a-uuid"})

	h.Pay(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// --- Card Handler Tests ---

func TestCardCreate_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCards := mocks.NewMockCardRepository(ctrl)
	mockWallets := mocks.NewMockWalletRepository(ctrl)
	h := NewCardHandler(mockCards, mockWallets)

	mockCards.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ any, card *domain.Card) error {
			assert.Equal(t, "AB12", card.UID)
			assert.Equal(t, "Lunch Card", card.Name)
			return nil
		})
	mockWallets.EXPECT().GetByUID(gomock.Any(), "AB12").Return(nil, nil)
	mockWallets.EXPECT().Upsert(gomock.Any(), "AB12", int64(0)).Return(nil)

	w := httptest.NewRecorder()
	c := postJSON(t, w, "/api/cards", gin.H{"uid": "ab12", "name": "Lunch Card"})

	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "AB12", resp["uid"])
	assert.Equal(t, float64(0), resp["balance"])
}

func TestCardCreate_DefaultName(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCards := mocks.NewMockCardRepository(ctrl)
	mockWallets := mocks.NewMockWalletRepository(ctrl)
	h := NewCardHandler(mockCards, mockWallets)

	mockCards.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ any, card *domain.Card) error {
			assert.Equal(t, domain.DefaultCardName, card.Name)
			return nil
		})
	mockWallets.EXPECT().GetByUID(gomock.Any(), "AB12").Return(nil, nil)
	mockWallets.EXPECT().Upsert(gomock.Any(), "AB12", int64(0)).Return(nil)

	w := httptest.NewRecorder()
	c := postJSON(t, w, "/api/cards", gin.H{"uid": "AB12"})

	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestCardCreate_Duplicate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCards := mocks.NewMockCardRepository(ctrl)
	mockWallets := mocks.NewMockWalletRepository(ctrl)
	h := NewCardHandler(mockCards, mockWallets)

	mockCards.EXPECT().Create(gomock.Any(), gomock.Any()).Return(postgres.ErrDuplicateCard)

	w := httptest.NewRecorder()
	c := postJSON(t, w, "/api/cards", gin.H{"uid": "AB12"})

	h.Create(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCardCreate_KeepsExistingWalletBalance(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCards := mocks.NewMockCardRepository(ctrl)
	mockWallets := mocks.NewMockWalletRepository(ctrl)
	h := NewCardHandler(mockCards, mockWallets)

	// The card was seen by a reader before registration; its balance
	// must survive the card create.
	mockCards.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	mockWallets.EXPECT().GetByUID(gomock.Any(), "AB12").
		Return(&domain.Wallet{UID: "AB12", Balance: 500}, nil)

	w := httptest.NewRecorder()
	c := postJSON(t, w, "/api/cards", gin.H{"uid": "AB12"})

	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, float64(500), resp["balance"])
}

func TestCardDelete_RemovesWallet(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCards := mocks.NewMockCardRepository(ctrl)
	mockWallets := mocks.NewMockWalletRepository(ctrl)
	h := NewCardHandler(mockCards, mockWallets)

	mockCards.EXPECT().GetByUID(gomock.Any(), "AB12").
		Return(&domain.Card{UID: "AB12", Name: "Lunch Card"}, nil)
	mockCards.EXPECT().Delete(gomock.Any(), "AB12").Return(nil)
	mockWallets.EXPECT().Delete(gomock.Any(), "AB12").Return(nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodDelete, "/api/cards/AB12", nil)
	c.Params = gin.Params{{Key: "uid", Value: "AB12"}}

	h.Delete(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCardGet_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCards := mocks.NewMockCardRepository(ctrl)
	mockWallets := mocks.NewMockWalletRepository(ctrl)
	h := NewCardHandler(mockCards, mockWallets)

	mockCards.EXPECT().GetByUID(gomock.Any(), "FFFF").Return(nil, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/cards/FFFF", nil)
	c.Params = gin.Params{{Key: "uid", Value: "ffff"}}

	h.Get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

// --- Transaction Handler Tests ---

func TestTransactionList_FilterValidation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTxns := mocks.NewMockTransactionRepository(ctrl)
	h := NewTransactionHandler(mockTxns)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/transactions?type=REFUND", nil)

	h.List(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTransactionList_FiltersApplied(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTxns := mocks.NewMockTransactionRepository(ctrl)
	h := NewTransactionHandler(mockTxns)

	kind := domain.TransactionKindTopup
	mockTxns.EXPECT().
		List(gomock.Any(), ports.TransactionFilter{UID: "AB12", Kind: &kind}).
		Return([]domain.Transaction{}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/transactions?uid=ab12&type=TOPUP", nil)

	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())
}

// --- Health Handler Tests ---

type stubChecker struct {
	name string
	err  error
}

func (s stubChecker) Ping(context.Context) error { return s.err }
func (s stubChecker) Name() string               { return s.name }

func TestHealthCheck_Degraded(t *testing.T) {
	h := HealthCheck(
		stubChecker{name: "postgresql"},
		stubChecker{name: "nats", err: assert.AnError},
	)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

	h(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "degraded", resp["status"])
}
