package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario.
const (
	MovementTypeEntry      = "entry"      // entrada
	MovementTypeExit       = "exit"       // salida
	MovementTypeTransfer   = "transfer"   // traslado entre bodegas/ubicaciones
	MovementTypeAdjustment = "adjustment" // ajuste (requiere dirección)
)

// Dirección de un ajuste: incrementa o decrementa la existencia.
const (
	AdjustmentIncrease = "increase"
	AdjustmentDecrease = "decrease"
)

// Estados del movimiento. Solo completed afecta el stock; un draft puede
// eliminarse, un completed es inmutable (corrección = movimiento compensatorio).
const (
	MovementStatusDraft     = "draft"
	MovementStatusPending   = "pending"
	MovementStatusCompleted = "completed"
	MovementStatusCancelled = "cancelled"
)

// Referencias: qué flujo de negocio originó el movimiento.
const (
	ReferenceTypePurchase      = "purchase"
	ReferenceTypeSale          = "sale"
	ReferenceTypeFractionation = "fractionation"
	ReferenceTypeManual        = "manual"
)

// InventoryMovement es el registro inmutable del libro de movimientos.
// Quantity siempre es positiva; el tipo (y la dirección en ajustes) determina
// el signo del delta aplicado al stock.
type InventoryMovement struct {
	ID                     string
	MovementType           string
	AdjustmentDirection    string // solo para adjustment
	ProductID              string
	WarehouseID            string
	LocationID             string
	Quantity               decimal.Decimal
	UnitCost               *decimal.Decimal
	ReferenceType          string
	ReferenceID            string
	DestinationWarehouseID string // solo transfer
	DestinationLocationID  string // solo transfer
	Status                 string
	MovementDate           time.Time
	UserID                 string
	BatchInfo              string
	Metadata               map[string]any
	Notes                  string
	CreatedAt              time.Time
}

// IsImmutable indica si el movimiento ya no admite cambios ni borrado.
func (m *InventoryMovement) IsImmutable() bool {
	return m.Status == MovementStatusCompleted
}
