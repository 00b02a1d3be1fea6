package postgres

import (
	"context"
	"testing"
	"time"

	"rfid-wallet-backend/internal/core/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCard(uid string) *domain.Card {
	return &domain.Card{
		UID:       uid,
		Name:      "Lunch Card",
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
		UpdatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
}

func cardColumns() []string {
	return []string{"uid", "name", "created_at", "updated_at"}
}

func TestCardRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCardRepo(mock)
	card := newTestCard("AB12")

	mock.ExpectExec("INSERT INTO cards").
		WithArgs(card.UID, card.Name, card.CreatedAt, card.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = repo.Create(context.Background(), card)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCardRepo_Create_Duplicate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCardRepo(mock)
	card := newTestCard("AB12")

	mock.ExpectExec("INSERT INTO cards").
		WithArgs(card.UID, card.Name, card.CreatedAt, card.UpdatedAt).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err = repo.Create(context.Background(), card)
	assert.ErrorIs(t, err, ErrDuplicateCard)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCardRepo_GetByUID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCardRepo(mock)

	mock.ExpectQuery("SELECT .+ FROM cards WHERE uid").
		WithArgs("FFFF").
		WillReturnRows(pgxmock.NewRows(cardColumns()))

	card, err := repo.GetByUID(context.Background(), "FFFF")
	require.NoError(t, err)
	assert.Nil(t, card)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCardRepo_UpdateName(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCardRepo(mock)
	card := newTestCard("AB12")

	mock.ExpectQuery("UPDATE cards SET name").
		WithArgs("New Name", "AB12").
		WillReturnRows(pgxmock.NewRows(cardColumns()).
			AddRow(card.UID, "New Name", card.CreatedAt, card.UpdatedAt))

	updated, err := repo.UpdateName(context.Background(), "AB12", "New Name")
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "New Name", updated.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCardRepo_Delete(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCardRepo(mock)

	mock.ExpectExec("DELETE FROM cards").
		WithArgs("AB12").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err = repo.Delete(context.Background(), "AB12")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
