package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/stock-core/internal/domain"
)

func TestTranslatePgError(t *testing.T) {
	cases := []struct {
		code string
		want error
	}{
		{pgUniqueViolation, domain.ErrDuplicate},
		{pgLockNotAvailable, domain.ErrLockTimeout},
		{pgQueryCanceled, domain.ErrLockTimeout},
	}
	for _, tc := range cases {
		err := translatePgError(&pgconn.PgError{Code: tc.code})
		assert.ErrorIs(t, err, tc.want, "código %s", tc.code)
	}

	// Errores envueltos también se traducen.
	wrapped := fmt.Errorf("insert fracción: %w", &pgconn.PgError{Code: pgUniqueViolation})
	assert.ErrorIs(t, translatePgError(wrapped), domain.ErrDuplicate)

	// Cualquier otro error pasa intacto.
	plain := errors.New("conexión rechazada")
	assert.Equal(t, plain, translatePgError(plain))
	other := &pgconn.PgError{Code: "23503"}
	assert.Equal(t, error(other), translatePgError(other))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: pgUniqueViolation}))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("otro")))
}
