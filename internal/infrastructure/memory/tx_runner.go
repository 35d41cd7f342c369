package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/stock-core/internal/domain/repository"
)

// TxRunner ejecuta las funciones transaccionales sobre los repositorios en
// memoria. El mutex serializa transacciones (equivale al bloqueo de fila de
// Postgres) y un snapshot previo revierte todo si fn falla: todo o nada.
type TxRunner struct {
	mu        sync.Mutex
	movements *MovementRepository
	stock     *StockRepository
	fracs     *FractionationRepository
}

func NewTxRunner(movements *MovementRepository, stock *StockRepository, fracs *FractionationRepository) *TxRunner {
	return &TxRunner{movements: movements, stock: stock, fracs: fracs}
}

func (r *TxRunner) Run(_ context.Context, fn func(
	movRepo repository.InventoryMovementRepository,
	stockRepo repository.StockRepository,
) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	movSnap, stockSnap := r.movements.Snapshot(), r.stock.Snapshot()
	if err := fn(r.movements, r.stock); err != nil {
		r.movements.Restore(movSnap)
		r.stock.Restore(stockSnap)
		return err
	}
	return nil
}

func (r *TxRunner) RunFractionation(_ context.Context, fn func(
	movRepo repository.InventoryMovementRepository,
	stockRepo repository.StockRepository,
	fracRepo repository.FractionationRepository,
) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	movSnap, stockSnap := r.movements.Snapshot(), r.stock.Snapshot()
	fracSnap := r.fracs.Snapshot()
	if err := fn(r.movements, r.stock, r.fracs); err != nil {
		r.movements.Restore(movSnap)
		r.stock.Restore(stockSnap)
		r.fracs.Restore(fracSnap)
		return err
	}
	return nil
}
