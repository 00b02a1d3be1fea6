package postgres

import (
	"context"
	"errors"
	"fmt"

	"rfid-wallet-backend/internal/core/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// CardRepo implements ports.CardRepository.
type CardRepo struct {
	pool Pool
}

// NewCardRepo creates a new CardRepo.
func NewCardRepo(pool Pool) *CardRepo {
	return &CardRepo{pool: pool}
}

// ErrDuplicateCard is returned when a card UID is already registered.
var ErrDuplicateCard = errors.New("card already registered")

// Create inserts card metadata. A unique violation on the UID maps to
// ErrDuplicateCard so the handler can answer 409.
func (r *CardRepo) Create(ctx context.Context, card *domain.Card) error {
	query := `INSERT INTO cards (uid, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4)`

	_, err := r.pool.Exec(ctx, query, card.UID, card.Name, card.CreatedAt, card.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateCard
		}
		return fmt.Errorf("insert card: %w", err)
	}
	return nil
}

// GetByUID fetches a card by UID. Returns nil, nil when absent.
func (r *CardRepo) GetByUID(ctx context.Context, uid string) (*domain.Card, error) {
	query := `SELECT uid, name, created_at, updated_at FROM cards WHERE uid = $1`

	card := &domain.Card{}
	err := r.pool.QueryRow(ctx, query, uid).Scan(
		&card.UID, &card.Name, &card.CreatedAt, &card.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get card by uid: %w", err)
	}
	return card, nil
}

// List returns all registered cards ordered by UID.
func (r *CardRepo) List(ctx context.Context) ([]domain.Card, error) {
	query := `SELECT uid, name, created_at, updated_at FROM cards ORDER BY uid`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	defer rows.Close()

	var cards []domain.Card
	for rows.Next() {
		var card domain.Card
		if err := rows.Scan(&card.UID, &card.Name, &card.CreatedAt, &card.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cards: %w", err)
	}
	return cards, nil
}

// UpdateName renames a card and returns the updated record. Returns
// nil, nil when the card does not exist.
func (r *CardRepo) UpdateName(ctx context.Context, uid, name string) (*domain.Card, error) {
	query := `UPDATE cards SET name = $1, updated_at = NOW()
		WHERE uid = $2
		RETURNING uid, name, created_at, updated_at`

	card := &domain.Card{}
	err := r.pool.QueryRow(ctx, query, name, uid).Scan(
		&card.UID, &card.Name, &card.CreatedAt, &card.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("update card name: %w", err)
	}
	return card, nil
}

// Delete removes a card. Deleting a missing card is not an error.
func (r *CardRepo) Delete(ctx context.Context, uid string) error {
	query := `DELETE FROM cards WHERE uid = $1`

	_, err := r.pool.Exec(ctx, query, uid)
	if err != nil {
		return fmt.Errorf("delete card: %w", err)
	}
	return nil
}
