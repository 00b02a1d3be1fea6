package postgres

import (
	"context"
	"errors"
	"fmt"

	"rfid-wallet-backend/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// WalletRepo implements ports.WalletRepository.
type WalletRepo struct {
	pool Pool
}

// NewWalletRepo creates a new WalletRepo.
func NewWalletRepo(pool Pool) *WalletRepo {
	return &WalletRepo{pool: pool}
}

// GetByUID fetches a wallet by card UID (non-locking read). Returns
// nil, nil when no wallet exists for the UID.
func (r *WalletRepo) GetByUID(ctx context.Context, uid string) (*domain.Wallet, error) {
	query := `SELECT uid, balance, created_at, updated_at
		FROM wallets WHERE uid = $1`

	w := &domain.Wallet{}
	err := r.pool.QueryRow(ctx, query, uid).Scan(
		&w.UID, &w.Balance, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get wallet by uid: %w", err)
	}
	return w, nil
}

// GetByUIDForUpdate fetches a wallet by card UID with pessimistic locking.
// This MUST be called within a transaction.
func (r *WalletRepo) GetByUIDForUpdate(ctx context.Context, tx pgx.Tx, uid string) (*domain.Wallet, error) {
	query := `SELECT uid, balance, created_at, updated_at
		FROM wallets WHERE uid = $1 FOR UPDATE`

	w := &domain.Wallet{}
	err := tx.QueryRow(ctx, query, uid).Scan(
		&w.UID, &w.Balance, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get wallet for update: %w", err)
	}
	return w, nil
}

// Upsert writes the wallet balance, creating the row when the card has
// never been seen before.
func (r *WalletRepo) Upsert(ctx context.Context, uid string, balance int64) error {
	query := `INSERT INTO wallets (uid, balance, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		ON CONFLICT (uid) DO UPDATE SET balance = EXCLUDED.balance, updated_at = NOW()`

	_, err := r.pool.Exec(ctx, query, uid, balance)
	if err != nil {
		return fmt.Errorf("upsert wallet: %w", err)
	}
	return nil
}

// UpsertTx is Upsert within an existing transaction.
func (r *WalletRepo) UpsertTx(ctx context.Context, tx pgx.Tx, uid string, balance int64) error {
	query := `INSERT INTO wallets (uid, balance, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		ON CONFLICT (uid) DO UPDATE SET balance = EXCLUDED.balance, updated_at = NOW()`

	_, err := tx.Exec(ctx, query, uid, balance)
	if err != nil {
		return fmt.Errorf("upsert wallet in tx: %w", err)
	}
	return nil
}

// List returns all wallets ordered by UID.
func (r *WalletRepo) List(ctx context.Context) ([]domain.Wallet, error) {
	query := `SELECT uid, balance, created_at, updated_at
		FROM wallets ORDER BY uid`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list wallets: %w", err)
	}
	defer rows.Close()

	var wallets []domain.Wallet
	for rows.Next() {
		var w domain.Wallet
		if err := rows.Scan(&w.UID, &w.Balance, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan wallet: %w", err)
		}
		wallets = append(wallets, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate wallets: %w", err)
	}
	return wallets, nil
}

// Delete removes a wallet row. Deleting a missing wallet is not an error.
func (r *WalletRepo) Delete(ctx context.Context, uid string) error {
	query := `DELETE FROM wallets WHERE uid = $1`

	_, err := r.pool.Exec(ctx, query, uid)
	if err != nil {
		return fmt.Errorf("delete wallet: %w", err)
	}
	return nil
}
