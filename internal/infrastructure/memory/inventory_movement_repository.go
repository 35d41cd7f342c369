package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/stock-core/internal/domain"
	"github.com/jhoicas/stock-core/internal/domain/entity"
	"github.com/jhoicas/stock-core/internal/domain/repository"
)

// MovementRepository guarda el libro de movimientos en orden de inserción.
type MovementRepository struct {
	mu        sync.Mutex
	movements map[string]*entity.InventoryMovement
	order     []string
}

func NewMovementRepository() *MovementRepository {
	return &MovementRepository{movements: map[string]*entity.InventoryMovement{}}
}

func (r *MovementRepository) Create(_ context.Context, m *entity.InventoryMovement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *m
	r.movements[m.ID] = &copied
	r.order = append(r.order, m.ID)
	return nil
}

func (r *MovementRepository) GetByID(_ context.Context, id string) (*entity.InventoryMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.movements[id]; ok {
		copied := *m
		return &copied, nil
	}
	return nil, nil
}

func (r *MovementRepository) List(_ context.Context, filter repository.MovementFilter) ([]*entity.InventoryMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []*entity.InventoryMovement
	// Más reciente primero, igual que el ORDER BY de la implementación real.
	for i := len(r.order) - 1; i >= 0; i-- {
		m, ok := r.movements[r.order[i]]
		if !ok || !matchMovement(m, filter) {
			continue
		}
		copied := *m
		list = append(list, &copied)
	}
	if filter.Offset > 0 {
		if filter.Offset >= len(list) {
			return nil, nil
		}
		list = list[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(list) {
		list = list[:filter.Limit]
	}
	return list, nil
}

func matchMovement(m *entity.InventoryMovement, filter repository.MovementFilter) bool {
	if filter.WarehouseID != "" && m.WarehouseID != filter.WarehouseID {
		return false
	}
	if filter.ProductID != "" && m.ProductID != filter.ProductID {
		return false
	}
	if filter.MovementType != "" && m.MovementType != filter.MovementType {
		return false
	}
	if filter.ReferenceType != "" && m.ReferenceType != filter.ReferenceType {
		return false
	}
	if filter.From != nil && m.MovementDate.Before(*filter.From) {
		return false
	}
	if filter.To != nil && m.MovementDate.After(*filter.To) {
		return false
	}
	return true
}

func (r *MovementRepository) DeleteDraft(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.movements[id]
	if !ok {
		return domain.ErrNotFound
	}
	if m.Status != entity.MovementStatusDraft {
		return domain.ErrImmutableMovement
	}
	delete(r.movements, id)
	for i, mid := range r.order {
		if mid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// Len devuelve cuántos movimientos persisten (auxiliar de pruebas).
func (r *MovementRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.movements)
}

func (r *MovementRepository) Snapshot() map[string]*entity.InventoryMovement {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap := make(map[string]*entity.InventoryMovement, len(r.movements))
	for k, m := range r.movements {
		copied := *m
		snap[k] = &copied
	}
	return snap
}

func (r *MovementRepository) Restore(snap map[string]*entity.InventoryMovement) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.movements = snap
	kept := r.order[:0]
	for _, id := range r.order {
		if _, ok := snap[id]; ok {
			kept = append(kept, id)
		}
	}
	r.order = kept
}
