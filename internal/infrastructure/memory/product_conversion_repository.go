package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/stock-core/internal/domain"
	"github.com/jhoicas/stock-core/internal/domain/entity"
)

// ConversionRepository guarda el catálogo de conversiones. Mantiene el mismo
// invariante que el índice único parcial de Postgres: a lo más una conversión
// activa por par ordenado origen->destino.
type ConversionRepository struct {
	mu   sync.Mutex
	rows map[string]*entity.ProductConversion
}

func NewConversionRepository() *ConversionRepository {
	return &ConversionRepository{rows: map[string]*entity.ProductConversion{}}
}

func (r *ConversionRepository) Lookup(_ context.Context, sourceProductID, destinationProductID string) (*entity.ProductConversion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.rows {
		if c.Active && c.SourceProductID == sourceProductID && c.DestinationProductID == destinationProductID {
			copied := *c
			return &copied, nil
		}
	}
	return nil, domain.ErrConversionNotConfigured
}

func (r *ConversionRepository) GetByID(_ context.Context, id string) (*entity.ProductConversion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.rows[id]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, nil
}

func (r *ConversionRepository) ListBySource(_ context.Context, sourceProductID string) ([]*entity.ProductConversion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []*entity.ProductConversion
	for _, c := range r.rows {
		if c.Active && c.SourceProductID == sourceProductID {
			copied := *c
			list = append(list, &copied)
		}
	}
	return list, nil
}

func (r *ConversionRepository) Create(_ context.Context, conversion *entity.ProductConversion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if conversion.Active {
		for _, c := range r.rows {
			if c.Active && c.SourceProductID == conversion.SourceProductID && c.DestinationProductID == conversion.DestinationProductID {
				return domain.ErrDuplicate
			}
		}
	}
	copied := *conversion
	r.rows[conversion.ID] = &copied
	return nil
}

func (r *ConversionRepository) Deactivate(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.rows[id]
	if !ok {
		return domain.ErrNotFound
	}
	c.Active = false
	c.UpdatedAt = time.Now()
	return nil
}
