package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del catálogo. El stock se maneja por
// bodega/ubicación en Stock; aquí solo viven los datos maestros que el libro
// de movimientos necesita resolver.
type Product struct {
	ID          string
	SKU         string
	Name        string
	UnitMeasure string
	Cost        decimal.Decimal // costo promedio, usado como costo por defecto en salidas
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
