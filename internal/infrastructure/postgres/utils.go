package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/stock-core/internal/domain"
)

// Códigos de error PostgreSQL que el libro traduce a errores de dominio.
const (
	pgUniqueViolation  = "23505" // unique_violation
	pgLockNotAvailable = "55P03" // lock_not_available (lock_timeout vencido)
	pgQueryCanceled    = "57014" // statement_timeout vencido
)

// translatePgError mapea errores de PostgreSQL a sentinelas de dominio.
// 23505 -> ErrDuplicate; 55P03/57014 -> ErrLockTimeout (transitorio,
// reintenible). Cualquier otro error pasa intacto como falla de infraestructura.
func translatePgError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		return domain.ErrDuplicate
	case pgLockNotAvailable, pgQueryCanceled:
		return domain.ErrLockTimeout
	}
	return err
}

// isUniqueViolation verifica si un error es una violación de constraint único.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
