package memory

import (
	"context"

	"github.com/jhoicas/stock-core/internal/domain/entity"
)

// ProductRepository datos maestros de producto, solo lectura.
type ProductRepository struct {
	products map[string]*entity.Product
}

func NewProductRepository(products ...*entity.Product) *ProductRepository {
	m := make(map[string]*entity.Product, len(products))
	for _, p := range products {
		m[p.ID] = p
	}
	return &ProductRepository{products: m}
}

func (r *ProductRepository) GetByID(_ context.Context, id string) (*entity.Product, error) {
	return r.products[id], nil
}

func (r *ProductRepository) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	for _, p := range r.products {
		if p.SKU == sku {
			return p, nil
		}
	}
	return nil, nil
}

// WarehouseRepository bodegas y ubicaciones, solo lectura.
type WarehouseRepository struct {
	warehouses map[string]*entity.Warehouse
	locations  map[string]*entity.Location
}

func NewWarehouseRepository(warehouses ...*entity.Warehouse) *WarehouseRepository {
	m := make(map[string]*entity.Warehouse, len(warehouses))
	for _, w := range warehouses {
		m[w.ID] = w
	}
	return &WarehouseRepository{warehouses: m, locations: map[string]*entity.Location{}}
}

// AddLocation registra una ubicación física dentro de una bodega.
func (r *WarehouseRepository) AddLocation(loc *entity.Location) {
	r.locations[loc.ID] = loc
}

func (r *WarehouseRepository) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	return r.warehouses[id], nil
}

func (r *WarehouseRepository) GetLocation(_ context.Context, id string) (*entity.Location, error) {
	return r.locations[id], nil
}
