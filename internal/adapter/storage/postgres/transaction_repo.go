package postgres

import (
	"context"
	"fmt"

	"rfid-wallet-backend/internal/core/domain"
	"rfid-wallet-backend/internal/core/ports"

	"github.com/jackc/pgx/v5"
)

// TransactionRepo implements ports.TransactionRepository. The table is
// append-only; no update or delete statements exist here.
type TransactionRepo struct {
	pool Pool
}

// NewTransactionRepo creates a new TransactionRepo.
func NewTransactionRepo(pool Pool) *TransactionRepo {
	return &TransactionRepo{pool: pool}
}

// Append inserts a ledger entry within the caller's transaction so the
// entry commits or rolls back together with the balance write.
func (r *TransactionRepo) Append(ctx context.Context, tx pgx.Tx, txn *domain.Transaction) error {
	query := `INSERT INTO transactions (id, uid, kind, amount, balance_before, balance_after, product_id, quantity, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := tx.Exec(ctx, query,
		txn.ID, txn.UID, txn.Kind, txn.Amount,
		txn.BalanceBefore, txn.BalanceAfter,
		txn.ProductID, txn.Quantity, txn.Description, txn.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append transaction: %w", err)
	}
	return nil
}

// List returns ledger entries newest first, optionally narrowed to one
// card and one transaction kind.
func (r *TransactionRepo) List(ctx context.Context, filter ports.TransactionFilter) ([]domain.Transaction, error) {
	query := `SELECT id, uid, kind, amount, balance_before, balance_after, product_id, quantity, description, created_at
		FROM transactions`

	var (
		conds []string
		args  []any
	)
	if filter.UID != "" {
		args = append(args, filter.UID)
		conds = append(conds, fmt.Sprintf("uid = $%d", len(args)))
	}
	if filter.Kind != nil {
		args = append(args, *filter.Kind)
		conds = append(conds, fmt.Sprintf("kind = $%d", len(args)))
	}
	for i, cond := range conds {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		var txn domain.Transaction
		if err := rows.Scan(
			&txn.ID, &txn.UID, &txn.Kind, &txn.Amount,
			&txn.BalanceBefore, &txn.BalanceAfter,
			&txn.ProductID, &txn.Quantity, &txn.Description, &txn.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return txns, nil
}
