package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-core/internal/application/dto"
	"github.com/jhoicas/stock-core/internal/application/fractionation"
	"github.com/jhoicas/stock-core/internal/domain"
)

// respondDomainError traduce errores de dominio a respuestas HTTP.
// Los resultados de negocio (conversión no configurada, stock insuficiente)
// viajan con su código propio; lock_timeout se reporta como transitorio (503)
// para que el cliente reintente; todo lo demás es falla de infraestructura.
func respondDomainError(c *fiber.Ctx, err error) error {
	var insufficient *fractionation.InsufficientStockError
	if errors.As(err, &insufficient) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:      "insufficient_stock",
			Message:   "stock insuficiente",
			Available: &insufficient.Available,
			Required:  &insufficient.Required,
		})
	}
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "validation", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "not_found", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrConversionNotConfigured):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "conversion_not_configured", Message: "conversión no configurada para el par de productos"})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "insufficient_stock", Message: "stock insuficiente"})
	case errors.Is(err, domain.ErrImmutableMovement):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "immutable_movement", Message: "movimiento completado: inmutable"})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "duplicate", Message: "recurso duplicado"})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "conflict", Message: "conflicto con el estado actual"})
	case errors.Is(err, domain.ErrLockTimeout):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "lock_timeout", Message: "fila bloqueada por otra operación, reintente"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "internal", Message: err.Error()})
}
