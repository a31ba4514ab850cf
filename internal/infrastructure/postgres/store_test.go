package postgres

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/oksasatya/pet-adoption-api/internal/domain/repository"
)

func TestMapErr(t *testing.T) {
	assert.NoError(t, mapErr(nil))
	assert.ErrorIs(t, mapErr(pgx.ErrNoRows), repository.ErrNotFound)

	dup := &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
	err := mapErr(dup)
	assert.ErrorIs(t, err, repository.ErrDuplicate)
	assert.Contains(t, err.Error(), "users_email_key")

	fk := &pgconn.PgError{Code: "23503", ConstraintName: "adoptions_animal_id_fkey"}
	assert.ErrorIs(t, mapErr(fk), repository.ErrNotFound)

	long := &pgconn.PgError{Code: "22001", Message: "value too long for type character varying(100)"}
	err = mapErr(long)
	assert.ErrorIs(t, err, repository.ErrInvalidValue)
	assert.Contains(t, err.Error(), "character varying(100)")

	check := &pgconn.PgError{Code: "23514", Message: "new row violates check constraint"}
	assert.ErrorIs(t, mapErr(check), repository.ErrInvalidValue)

	other := errors.New("connection refused")
	assert.Equal(t, other, mapErr(other))
}

func TestMustAffect(t *testing.T) {
	assert.ErrorIs(t, mustAffect(pgconn.NewCommandTag("UPDATE 0"), nil), repository.ErrNotFound)
	assert.NoError(t, mustAffect(pgconn.NewCommandTag("DELETE 1"), nil))
	assert.ErrorIs(t, mustAffect(pgconn.CommandTag{}, pgx.ErrNoRows), repository.ErrNotFound)
}

func TestLikeEscaper(t *testing.T) {
	assert.Equal(t, `50\% off\_now`, likeEscaper.Replace("50% off_now"))
}
