package ports

import (
	"context"

	"rfid-wallet-backend/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// WalletRepository defines persistence operations for card balances.
// Methods accepting pgx.Tx are used inside transaction blocks for
// pessimistic locking.
type WalletRepository interface {
	GetByUID(ctx context.Context, uid string) (*domain.Wallet, error)
	GetByUIDForUpdate(ctx context.Context, tx pgx.Tx, uid string) (*domain.Wallet, error)
	// Upsert writes the balance for uid, creating the record if absent.
	Upsert(ctx context.Context, uid string, balance int64) error
	// UpsertTx is Upsert inside a database transaction.
	UpsertTx(ctx context.Context, tx pgx.Tx, uid string, balance int64) error
	List(ctx context.Context) ([]domain.Wallet, error)
	Delete(ctx context.Context, uid string) error
}

// TransactionFilter holds optional filters for listing transactions.
type TransactionFilter struct {
	UID  string
	Kind *domain.TransactionKind
}

// TransactionRepository defines the append-only transaction log.
// Append failures must propagate to the caller; entries are never
// mutated after the insert.
type TransactionRepository interface {
	Append(ctx context.Context, tx pgx.Tx, t *domain.Transaction) error
	List(ctx context.Context, filter TransactionFilter) ([]domain.Transaction, error)
}

// CardRepository defines persistence operations for card metadata.
type CardRepository interface {
	Create(ctx context.Context, card *domain.Card) error
	GetByUID(ctx context.Context, uid string) (*domain.Card, error)
	List(ctx context.Context) ([]domain.Card, error)
	UpdateName(ctx context.Context, uid, name string) (*domain.Card, error)
	Delete(ctx context.Context, uid string) error
}

// ProductRepository defines persistence operations for the catalog.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
