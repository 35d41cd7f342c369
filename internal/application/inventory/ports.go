package inventory

import (
	"context"

	"github.com/jhoicas/stock-core/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el libro de
// movimientos: o se confirman movimiento y stock juntos, o ninguno.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.InventoryMovementRepository,
		stockRepo repository.StockRepository,
	) error) error

	// RunFractionation agrega el repositorio de fracciones a la misma tx
	// (salida + entrada + fila de fracción con folio, en un solo commit).
	RunFractionation(ctx context.Context, fn func(
		movRepo repository.InventoryMovementRepository,
		stockRepo repository.StockRepository,
		fracRepo repository.FractionationRepository,
	) error) error
}
