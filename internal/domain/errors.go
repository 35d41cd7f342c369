package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Los primeros son resultados de negocio esperados; ErrLockTimeout es
// transitorio (reintentar con backoff); el resto son fallas de validación
// o de estado.
var (
	ErrNotFound                = errors.New("recurso no encontrado")
	ErrInvalidInput            = errors.New("entrada inválida")
	ErrDuplicate               = errors.New("recurso duplicado")
	ErrConflict                = errors.New("conflicto con el estado actual")
	ErrInsufficientStock       = errors.New("stock insuficiente")
	ErrConversionNotConfigured = errors.New("conversión no configurada para el par de productos")
	ErrImmutableMovement       = errors.New("movimiento completado: inmutable, use un movimiento compensatorio")
	ErrLockTimeout             = errors.New("tiempo de espera agotado por bloqueo de fila")
)
