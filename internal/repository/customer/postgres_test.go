package customer

import (
	"context"
	"regexp"
	"testing"
	"time"

	"giftcard-store/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cols = []string{"id", "email", "password_hash", "first_name", "last_name", "created_at"}

func TestPostgres_CreateLowercasesEmail(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO customers`)).
		WithArgs("ana@example.com", "hash", "Ana", "").
		WillReturnRows(pgxmock.NewRows(cols).AddRow("cust-1", "ana@example.com", "hash", "Ana", "", time.Now().UTC()))

	repo := NewPostgres(mock, zerolog.Nop())
	got, err := repo.Create(context.Background(), domain.Customer{Email: "Ana@Example.com", PasswordHash: "hash", FirstName: "Ana"})
	require.NoError(t, err)
	assert.Equal(t, "cust-1", got.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_CreateDuplicate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO customers`)).
		WithArgs("dup@example.com", "x", "", "").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	repo := NewPostgres(mock, zerolog.Nop())
	_, err = repo.Create(context.Background(), domain.Customer{Email: "dup@example.com", PasswordHash: "x"})
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_GetByEmailNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE lower(email) = lower($1)`)).
		WithArgs("nobody@example.com").
		WillReturnError(pgx.ErrNoRows)

	repo := NewPostgres(mock, zerolog.Nop())
	_, err = repo.GetByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
