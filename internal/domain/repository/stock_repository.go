package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-core/internal/domain/entity"
)

// StockRepository define el puerto para consultar/actualizar stock por
// producto+bodega+ubicación. Las mutaciones solo se usan dentro de
// transacciones, tras bloquear la fila con GetForUpdate.
type StockRepository interface {
	// Get devuelve la fila de stock; si no existe, una fila en cero (creación perezosa al primer movimiento).
	Get(ctx context.Context, productID, warehouseID, locationID string) (*entity.Stock, error)
	// GetForUpdate bloquea la fila (SELECT ... FOR UPDATE) para serializar movimientos concurrentes.
	GetForUpdate(ctx context.Context, productID, warehouseID, locationID string) (*entity.Stock, error)
	// ListForUpdateByWarehouse bloquea todas las filas del producto en la bodega,
	// en orden estable de ubicación, para consumos que abarcan varias ubicaciones.
	ListForUpdateByWarehouse(ctx context.Context, productID, warehouseID string) ([]*entity.Stock, error)
	Upsert(ctx context.Context, stock *entity.Stock) error
	// AvailableByWarehouse suma quantity - reserved_quantity en todas las ubicaciones de la bodega.
	AvailableByWarehouse(ctx context.Context, productID, warehouseID string) (decimal.Decimal, error)
	ListByProduct(ctx context.Context, productID, warehouseID string) ([]*entity.Stock, error)
}
