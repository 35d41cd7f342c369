package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/stock-core/internal/domain"
	"github.com/jhoicas/stock-core/internal/domain/entity"
	"github.com/jhoicas/stock-core/internal/domain/repository"
)

// FractionationRepository guarda fracciones y asigna folios con un contador
// (equivalente a la secuencia dedicada de Postgres: creciente y único).
type FractionationRepository struct {
	mu        sync.Mutex
	rows      map[string]*entity.Fractionation
	folio     int64
	movements *MovementRepository
}

// NewFractionationRepository recibe el repositorio de movimientos para poder
// poblar los movimientos ligados cuando se pide include=movements.
func NewFractionationRepository(movements *MovementRepository) *FractionationRepository {
	return &FractionationRepository{rows: map[string]*entity.Fractionation{}, movements: movements}
}

func (r *FractionationRepository) Create(_ context.Context, f *entity.Fractionation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if f.IdempotencyKey != "" {
		for _, existing := range r.rows {
			if existing.IdempotencyKey == f.IdempotencyKey {
				return domain.ErrDuplicate
			}
		}
	}
	r.folio++
	f.FolioNumber = r.folio
	copied := *f
	r.rows[f.ID] = &copied
	return nil
}

func (r *FractionationRepository) GetByID(ctx context.Context, id string, includeMovements bool) (*entity.Fractionation, error) {
	r.mu.Lock()
	f, ok := r.rows[id]
	if !ok {
		r.mu.Unlock()
		return nil, nil
	}
	copied := *f
	r.mu.Unlock()
	if includeMovements {
		r.attachMovements(ctx, &copied)
	}
	return &copied, nil
}

func (r *FractionationRepository) GetByIdempotencyKey(_ context.Context, key string) (*entity.Fractionation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.rows {
		if f.IdempotencyKey == key {
			copied := *f
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *FractionationRepository) List(ctx context.Context, filter repository.FractionationFilter) ([]*entity.Fractionation, int, error) {
	r.mu.Lock()
	var list []*entity.Fractionation
	for _, f := range r.rows {
		if filter.Status != "" && f.Status != filter.Status {
			continue
		}
		if filter.SourceProductID != "" && f.SourceProductID != filter.SourceProductID {
			continue
		}
		if filter.WarehouseID != "" && f.WarehouseID != filter.WarehouseID {
			continue
		}
		copied := *f
		list = append(list, &copied)
	}
	r.mu.Unlock()

	sort.Slice(list, func(i, j int) bool { return list[i].FolioNumber > list[j].FolioNumber })
	total := len(list)
	if filter.Offset > 0 {
		if filter.Offset >= len(list) {
			return nil, total, nil
		}
		list = list[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(list) {
		list = list[:filter.Limit]
	}
	if filter.IncludeMovements {
		for _, f := range list {
			r.attachMovements(ctx, f)
		}
	}
	return list, total, nil
}

func (r *FractionationRepository) attachMovements(ctx context.Context, f *entity.Fractionation) {
	if r.movements == nil {
		return
	}
	f.ExitMovement, _ = r.movements.GetByID(ctx, f.ExitMovementID)
	f.EntryMovement, _ = r.movements.GetByID(ctx, f.EntryMovementID)
}

func (r *FractionationRepository) Snapshot() map[string]*entity.Fractionation {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap := make(map[string]*entity.Fractionation, len(r.rows))
	for k, f := range r.rows {
		copied := *f
		snap[k] = &copied
	}
	return snap
}

// Restore repone las filas pero no el contador de folio: igual que la
// secuencia de Postgres, un rollback deja hueco.
func (r *FractionationRepository) Restore(snap map[string]*entity.Fractionation) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = snap
}
