package repository

import (
	"context"

	"github.com/jhoicas/stock-core/internal/domain/entity"
)

// ProductRepository define el puerto de lectura de datos maestros de producto.
// El catálogo completo vive en otro subsistema; el libro solo resuelve existencia.
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
}

// WarehouseRepository define el puerto de lectura de bodegas y ubicaciones.
type WarehouseRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Warehouse, error)
	GetLocation(ctx context.Context, locationID string) (*entity.Location, error)
}
