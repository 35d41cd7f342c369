package repository

import (
	"context"

	"github.com/jhoicas/stock-core/internal/domain/entity"
)

// FractionationFilter filtros para el histórico de fracciones.
type FractionationFilter struct {
	Status           string
	SourceProductID  string
	WarehouseID      string
	IncludeMovements bool
	Limit            int
	Offset           int
}

// FractionationRepository define el puerto de persistencia de fracciones.
// Create asigna el folio desde la secuencia dedicada dentro de la transacción
// del caller (estrictamente creciente, único, tolerante a huecos por rollback).
type FractionationRepository interface {
	Create(ctx context.Context, f *entity.Fractionation) error
	GetByID(ctx context.Context, id string, includeMovements bool) (*entity.Fractionation, error)
	GetByIdempotencyKey(ctx context.Context, key string) (*entity.Fractionation, error)
	List(ctx context.Context, filter FractionationFilter) ([]*entity.Fractionation, int, error)
}
