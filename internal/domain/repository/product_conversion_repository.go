package repository

import (
	"context"

	"github.com/jhoicas/stock-core/internal/domain/entity"
)

// ProductConversionRepository define el puerto del catálogo de conversiones.
// Lookup devuelve domain.ErrConversionNotConfigured cuando no hay conversión
// activa para el par ordenado: es un resultado de negocio, no una falla.
type ProductConversionRepository interface {
	Lookup(ctx context.Context, sourceProductID, destinationProductID string) (*entity.ProductConversion, error)
	GetByID(ctx context.Context, id string) (*entity.ProductConversion, error)
	ListBySource(ctx context.Context, sourceProductID string) ([]*entity.ProductConversion, error)
	Create(ctx context.Context, conversion *entity.ProductConversion) error
	Deactivate(ctx context.Context, id string) error
}
