package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestMapErr(t *testing.T) {
	assert.NoError(t, mapErr(nil))
	assert.ErrorIs(t, mapErr(pgx.ErrNoRows), ErrNotFound)
	assert.ErrorIs(t, mapErr(fmt.Errorf("scan: %w", pgx.ErrNoRows)), ErrNotFound)

	dup := mapErr(&pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "voluntarios_asignados_voluntario_key"})
	assert.ErrorIs(t, dup, ErrDuplicate)
	assert.Contains(t, dup.Error(), "voluntarios_asignados_voluntario_key")

	fk := mapErr(&pgconn.PgError{Code: pgForeignKeyViolation, ConstraintName: "voluntariados_id_usuario_fkey"})
	assert.ErrorIs(t, fk, ErrReference)
	assert.NotErrorIs(t, fk, ErrNotFound)

	other := errors.New("connection reset")
	assert.Equal(t, other, mapErr(other))
}
