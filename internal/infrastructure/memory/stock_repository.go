package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-core/internal/domain/entity"
)

func stockKey(productID, warehouseID, locationID string) string {
	return productID + "|" + warehouseID + "|" + locationID
}

// StockRepository guarda filas de stock indexadas por producto+bodega+ubicación.
type StockRepository struct {
	mu   sync.Mutex
	rows map[string]*entity.Stock
}

func NewStockRepository() *StockRepository {
	return &StockRepository{rows: map[string]*entity.Stock{}}
}

// Seed fija la cantidad de una fila (auxiliar de pruebas).
func (r *StockRepository) Seed(productID, warehouseID, locationID string, quantity decimal.Decimal) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[stockKey(productID, warehouseID, locationID)] = &entity.Stock{
		ProductID:        productID,
		WarehouseID:      warehouseID,
		LocationID:       locationID,
		Quantity:         quantity,
		ReservedQuantity: decimal.Zero,
		UpdatedAt:        time.Now(),
	}
}

func (r *StockRepository) get(productID, warehouseID, locationID string) *entity.Stock {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.rows[stockKey(productID, warehouseID, locationID)]; ok {
		copied := *s
		return &copied
	}
	// Fila en cero si aún no existe (creación perezosa).
	return &entity.Stock{
		ProductID:        productID,
		WarehouseID:      warehouseID,
		LocationID:       locationID,
		Quantity:         decimal.Zero,
		ReservedQuantity: decimal.Zero,
	}
}

func (r *StockRepository) Get(_ context.Context, productID, warehouseID, locationID string) (*entity.Stock, error) {
	return r.get(productID, warehouseID, locationID), nil
}

func (r *StockRepository) GetForUpdate(_ context.Context, productID, warehouseID, locationID string) (*entity.Stock, error) {
	return r.get(productID, warehouseID, locationID), nil
}

func (r *StockRepository) ListForUpdateByWarehouse(_ context.Context, productID, warehouseID string) ([]*entity.Stock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []*entity.Stock
	for _, s := range r.rows {
		if s.ProductID == productID && s.WarehouseID == warehouseID {
			copied := *s
			list = append(list, &copied)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].LocationID < list[j].LocationID })
	return list, nil
}

func (r *StockRepository) Upsert(_ context.Context, stock *entity.Stock) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *stock
	r.rows[stockKey(stock.ProductID, stock.WarehouseID, stock.LocationID)] = &copied
	return nil
}

func (r *StockRepository) AvailableByWarehouse(_ context.Context, productID, warehouseID string) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sum := decimal.Zero
	for _, s := range r.rows {
		if s.ProductID == productID && s.WarehouseID == warehouseID {
			sum = sum.Add(s.Available())
		}
	}
	return sum, nil
}

func (r *StockRepository) ListByProduct(_ context.Context, productID, warehouseID string) ([]*entity.Stock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []*entity.Stock
	for _, s := range r.rows {
		if s.ProductID != productID {
			continue
		}
		if warehouseID != "" && s.WarehouseID != warehouseID {
			continue
		}
		copied := *s
		list = append(list, &copied)
	}
	return list, nil
}

// Snapshot copia el estado actual; Restore lo repone (rollback).
func (r *StockRepository) Snapshot() map[string]*entity.Stock {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap := make(map[string]*entity.Stock, len(r.rows))
	for k, s := range r.rows {
		copied := *s
		snap[k] = &copied
	}
	return snap
}

func (r *StockRepository) Restore(snap map[string]*entity.Stock) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = snap
}
