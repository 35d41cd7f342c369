package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-core/internal/domain/entity"
	"github.com/jhoicas/stock-core/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con
// pool o tx). location_id se guarda como '' cuando no hay ubicación, para que
// la llave única (product, warehouse, location) y el FOR UPDATE sean estables.
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

const stockColumns = "product_id, warehouse_id, location_id, quantity, reserved_quantity, updated_at"

// Get obtiene la fila de stock; si no existe devuelve una fila en cero
// (la creación real ocurre al aplicar el primer movimiento).
func (r *StockRepo) Get(ctx context.Context, productID, warehouseID, locationID string) (*entity.Stock, error) {
	query := `
		SELECT ` + stockColumns + `
		FROM stock WHERE product_id = $1 AND warehouse_id = $2 AND location_id = $3`
	return r.scanOne(ctx, query, productID, warehouseID, locationID)
}

// GetForUpdate obtiene el stock y bloquea la fila (SELECT ... FOR UPDATE) para
// serializar movimientos concurrentes sobre la misma línea.
func (r *StockRepo) GetForUpdate(ctx context.Context, productID, warehouseID, locationID string) (*entity.Stock, error) {
	query := `
		SELECT ` + stockColumns + `
		FROM stock WHERE product_id = $1 AND warehouse_id = $2 AND location_id = $3
		FOR UPDATE`
	return r.scanOne(ctx, query, productID, warehouseID, locationID)
}

// ListForUpdateByWarehouse bloquea todas las filas del producto en la bodega.
// El ORDER BY fija un orden estable de adquisición de bloqueos para que dos
// transacciones concurrentes sobre el mismo producto no se interbloqueen.
func (r *StockRepo) ListForUpdateByWarehouse(ctx context.Context, productID, warehouseID string) ([]*entity.Stock, error) {
	query := `
		SELECT ` + stockColumns + `
		FROM stock WHERE product_id = $1 AND warehouse_id = $2
		ORDER BY location_id
		FOR UPDATE`
	rows, err := r.q.Query(ctx, query, productID, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("lock stock by warehouse: %w", err)
	}
	defer rows.Close()
	var list []*entity.Stock
	for rows.Next() {
		var s entity.Stock
		if err := rows.Scan(&s.ProductID, &s.WarehouseID, &s.LocationID, &s.Quantity, &s.ReservedQuantity, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

func (r *StockRepo) scanOne(ctx context.Context, query, productID, warehouseID, locationID string) (*entity.Stock, error) {
	var s entity.Stock
	err := r.q.QueryRow(ctx, query, productID, warehouseID, locationID).Scan(
		&s.ProductID, &s.WarehouseID, &s.LocationID, &s.Quantity, &s.ReservedQuantity, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.Stock{
				ProductID:        productID,
				WarehouseID:      warehouseID,
				LocationID:       locationID,
				Quantity:         decimal.Zero,
				ReservedQuantity: decimal.Zero,
			}, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return &s, nil
}

// Upsert inserta o actualiza la fila de stock. El CHECK de la tabla rechaza
// cantidades negativas como última línea de defensa.
func (r *StockRepo) Upsert(ctx context.Context, stock *entity.Stock) error {
	query := `
		INSERT INTO stock (product_id, warehouse_id, location_id, quantity, reserved_quantity, updated_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (product_id, warehouse_id, location_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, reserved_quantity = EXCLUDED.reserved_quantity, updated_at = now()`
	_, err := r.q.Exec(ctx, query,
		stock.ProductID, stock.WarehouseID, stock.LocationID, stock.Quantity, stock.ReservedQuantity,
	)
	if err != nil {
		return fmt.Errorf("upsert stock: %w", err)
	}
	return nil
}

// AvailableByWarehouse suma quantity - reserved_quantity en todas las
// ubicaciones de la bodega (la fracción consume stock a nivel bodega).
func (r *StockRepo) AvailableByWarehouse(ctx context.Context, productID, warehouseID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(quantity - reserved_quantity), 0)
		FROM stock WHERE product_id = $1 AND warehouse_id = $2`
	var available decimal.Decimal
	if err := r.q.QueryRow(ctx, query, productID, warehouseID).Scan(&available); err != nil {
		return decimal.Zero, fmt.Errorf("available by warehouse: %w", err)
	}
	return available, nil
}

// ListByProduct lista las filas de stock de un producto; warehouseID vacío
// devuelve todas las bodegas.
func (r *StockRepo) ListByProduct(ctx context.Context, productID, warehouseID string) ([]*entity.Stock, error) {
	query := `
		SELECT ` + stockColumns + `
		FROM stock WHERE product_id = $1`
	args := []any{productID}
	if warehouseID != "" {
		query += " AND warehouse_id = $2"
		args = append(args, warehouseID)
	}
	query += " ORDER BY warehouse_id, location_id"

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock by product: %w", err)
	}
	defer rows.Close()
	var list []*entity.Stock
	for rows.Next() {
		var s entity.Stock
		if err := rows.Scan(&s.ProductID, &s.WarehouseID, &s.LocationID, &s.Quantity, &s.ReservedQuantity, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
