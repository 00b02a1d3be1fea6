package postgres

import (
	"context"
	"testing"
	"time"

	"rfid-wallet-backend/internal/core/domain"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWallet(uid string, balance int64) *domain.Wallet {
	return &domain.Wallet{
		UID:       uid,
		Balance:   balance,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
		UpdatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
}

func walletColumns() []string {
	return []string{"uid", "balance", "created_at", "updated_at"}
}

func walletRow(w *domain.Wallet) *pgxmock.Rows {
	return pgxmock.NewRows(walletColumns()).AddRow(
		w.UID, w.Balance, w.CreatedAt, w.UpdatedAt,
	)
}

func TestWalletRepo_GetByUID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWalletRepo(mock)
	w := newTestWallet("AB12", 500)

	mock.ExpectQuery("SELECT .+ FROM wallets WHERE uid").
		WithArgs("AB12").
		WillReturnRows(walletRow(w))

	result, err := repo.GetByUID(context.Background(), "AB12")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "AB12", result.UID)
	assert.Equal(t, int64(500), result.Balance)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletRepo_GetByUID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWalletRepo(mock)

	mock.ExpectQuery("SELECT .+ FROM wallets WHERE uid").
		WithArgs("FFFF").
		WillReturnRows(pgxmock.NewRows(walletColumns()))

	result, err := repo.GetByUID(context.Background(), "FFFF")
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletRepo_GetByUIDForUpdate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWalletRepo(mock)
	w := newTestWallet("AB12", 750)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .+ FROM wallets WHERE uid = .+ FOR UPDATE").
		WithArgs("AB12").
		WillReturnRows(walletRow(w))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	result, err := repo.GetByUIDForUpdate(context.Background(), tx, "AB12")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, int64(750), result.Balance)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletRepo_Upsert(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWalletRepo(mock)

	mock.ExpectExec("INSERT INTO wallets .+ ON CONFLICT").
		WithArgs("AB12", int64(500)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = repo.Upsert(context.Background(), "AB12", 500)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletRepo_UpsertTx(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWalletRepo(mock)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO wallets .+ ON CONFLICT").
		WithArgs("AB12", int64(600)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.UpsertTx(context.Background(), tx, "AB12", 600)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletRepo_List(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWalletRepo(mock)
	a := newTestWallet("AB12", 500)
	b := newTestWallet("CD34", 0)

	rows := pgxmock.NewRows(walletColumns()).
		AddRow(a.UID, a.Balance, a.CreatedAt, a.UpdatedAt).
		AddRow(b.UID, b.Balance, b.CreatedAt, b.UpdatedAt)

	mock.ExpectQuery("SELECT .+ FROM wallets ORDER BY uid").
		WillReturnRows(rows)

	wallets, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, wallets, 2)
	assert.Equal(t, "AB12", wallets[0].UID)
	assert.Equal(t, "CD34", wallets[1].UID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletRepo_Delete(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWalletRepo(mock)

	mock.ExpectExec("DELETE FROM wallets").
		WithArgs("AB12").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err = repo.Delete(context.Background(), "AB12")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
