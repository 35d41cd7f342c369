package entity

import "time"

// Warehouse representa una bodega donde se almacena inventario.
type Warehouse struct {
	ID        string
	Name      string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Location representa una ubicación física dentro de una bodega (pasillo,
// estante, anaquel). Opcional: el stock puede vivir a nivel bodega.
type Location struct {
	ID          string
	WarehouseID string
	Code        string
	CreatedAt   time.Time
}
