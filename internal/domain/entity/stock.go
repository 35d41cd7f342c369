package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stock representa la existencia actual de un producto en una bodega y ubicación.
// LocationID vacío significa "sin ubicación específica" (bodega completa).
// Nunca se muta directamente: todo cambio pasa por un InventoryMovement aplicado
// en la misma transacción. Las filas en cero se conservan para auditoría.
type Stock struct {
	ProductID        string
	WarehouseID      string
	LocationID       string
	Quantity         decimal.Decimal // existencia física
	ReservedQuantity decimal.Decimal // apartado para órdenes en curso
	UpdatedAt        time.Time
}

// Available devuelve la cantidad disponible (existencia menos reservado).
func (s *Stock) Available() decimal.Decimal {
	return s.Quantity.Sub(s.ReservedQuantity)
}
