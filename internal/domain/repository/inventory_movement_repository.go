package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stock-core/internal/domain/entity"
)

// MovementFilter filtros para listar movimientos del libro.
type MovementFilter struct {
	WarehouseID   string
	ProductID     string
	MovementType  string
	ReferenceType string
	From          *time.Time
	To            *time.Time
	Limit         int
	Offset        int
}

// InventoryMovementRepository define el puerto de persistencia del libro de
// movimientos. Los movimientos completados nunca se actualizan ni eliminan;
// DeleteDraft solo elimina borradores que jamás tocaron el stock.
type InventoryMovementRepository interface {
	Create(ctx context.Context, movement *entity.InventoryMovement) error
	GetByID(ctx context.Context, id string) (*entity.InventoryMovement, error)
	List(ctx context.Context, filter MovementFilter) ([]*entity.InventoryMovement, error)
	DeleteDraft(ctx context.Context, id string) error
}
