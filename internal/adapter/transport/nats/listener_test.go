package nats

import (
	"context"
	"testing"

	"rfid-wallet-backend/internal/core/ports/mocks"
	"rfid-wallet-backend/pkg/apperror"

	"github.com/rs/zerolog"
	"go.uber.org/mock/gomock"
)

func newTestListener(t *testing.T) (*Listener, *mocks.MockBalanceAuthority) {
	ctrl := gomock.NewController(t)
	authority := mocks.NewMockBalanceAuthority(ctrl)
	l := NewListener(authority, nil, TopicsFor("team0125"), zerolog.Nop())
	return l, authority
}

func TestListener_HandleStatus(t *testing.T) {
	l, authority := newTestListener(t)

	authority.EXPECT().HandleStatusReport(gomock.Any(), "AB12").Return(nil)

	l.handleStatus(context.Background(), []byte(`{"status":"detected","uid":"AB12"}`))
}

func TestListener_HandleStatus_IgnoresHardwareBalance(t *testing.T) {
	l, authority := newTestListener(t)

	// The reader's balance claim must not reach the authority.
	authority.EXPECT().HandleStatusReport(gomock.Any(), "AB12").Return(nil)

	l.handleStatus(context.Background(), []byte(`{"status":"detected","uid":"AB12","balance":9999}`))
}

func TestListener_HandleStatus_DropsMalformed(t *testing.T) {
	l, _ := newTestListener(t)

	// No authority expectations: the message never reaches it.
	l.handleStatus(context.Background(), []byte(`{not json`))
	l.handleStatus(context.Background(), []byte(`{"status":"detected"}`))
}

func TestListener_HandleBalance(t *testing.T) {
	l, authority := newTestListener(t)

	authority.EXPECT().HandleBalanceReport(gomock.Any(), "AB12", int64(500)).Return(nil)

	l.handleBalance(context.Background(), []byte(`{"uid":"AB12","balance":500}`))
}

func TestListener_HandleBalance_NewBalanceFallback(t *testing.T) {
	l, authority := newTestListener(t)

	authority.EXPECT().HandleBalanceReport(gomock.Any(), "AB12", int64(300)).Return(nil)

	l.handleBalance(context.Background(), []byte(`{"uid":"AB12","new_balance":300}`))
}

func TestListener_HandleBalance_BalanceWinsOverNewBalance(t *testing.T) {
	l, authority := newTestListener(t)

	authority.EXPECT().HandleBalanceReport(gomock.Any(), "AB12", int64(500)).Return(nil)

	l.handleBalance(context.Background(), []byte(`{"uid":"AB12","balance":500,"new_balance":300}`))
}

func TestListener_HandleBalance_DropsWithoutBalanceField(t *testing.T) {
	l, _ := newTestListener(t)

	l.handleBalance(context.Background(), []byte(`{"uid":"AB12"}`))
}

func TestListener_HandleBalance_RetriesPersistenceFailure(t *testing.T) {
	l, authority := newTestListener(t)

	persistErr := apperror.ErrPersistence(context.DeadlineExceeded)
	gomock.InOrder(
		authority.EXPECT().HandleBalanceReport(gomock.Any(), "AB12", int64(500)).Return(persistErr),
		authority.EXPECT().HandleBalanceReport(gomock.Any(), "AB12", int64(500)).Return(persistErr),
		authority.EXPECT().HandleBalanceReport(gomock.Any(), "AB12", int64(500)).Return(nil),
	)

	l.handleBalance(context.Background(), []byte(`{"uid":"AB12","balance":500}`))
}

func TestListener_HandleBalance_ValidationErrorNotRetried(t *testing.T) {
	l, authority := newTestListener(t)

	authority.EXPECT().
		HandleBalanceReport(gomock.Any(), "AB12", int64(-5)).
		Return(apperror.ErrInvalidRequest("balance must not be negative")).
		Times(1)

	l.handleBalance(context.Background(), []byte(`{"uid":"AB12","balance":-5}`))
}

func TestTopicsFor(t *testing.T) {
	topics := TopicsFor("team0125")
	if topics.CardStatus != "rfid.team0125.card.status" {
		t.Errorf("unexpected status topic: %s", topics.CardStatus)
	}
	if topics.CardBalance != "rfid.team0125.card.balance" {
		t.Errorf("unexpected balance topic: %s", topics.CardBalance)
	}
	if topics.CardTopup != "rfid.team0125.card.topup" {
		t.Errorf("unexpected topup topic: %s", topics.CardTopup)
	}
}
