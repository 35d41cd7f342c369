package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una fracción. pending -> completed ocurre solo al confirmar la
// transacción del libro; cancelled solo es alcanzable antes de comprometer
// movimiento alguno.
const (
	FractionationStatusPending   = "pending"
	FractionationStatusCompleted = "completed"
	FractionationStatusCancelled = "cancelled"
)

// Fractionation es el registro de una fracción ejecutada: liga el movimiento
// de salida del producto origen con el de entrada del producto destino.
// ConversionFactorUsed y WastePercentage son una fotografía al momento de
// ejecutar; cambios posteriores al catálogo no la alteran.
type Fractionation struct {
	ID                   string
	FolioNumber          int64 // secuencia dedicada, estrictamente creciente
	SourceProductID      string
	DestinationProductID string
	ProductConversionID  string
	WarehouseID          string
	UserID               string
	SourceQuantity       decimal.Decimal
	ProducedQuantity     decimal.Decimal
	WastePercentage      decimal.Decimal
	WasteQuantity        decimal.Decimal
	ConversionFactorUsed decimal.Decimal
	ExitMovementID       string
	EntryMovementID      string
	Status               string
	Notes                string
	IdempotencyKey       string
	ExecutedAt           time.Time

	// Movimientos ligados, poblados solo cuando el listado pide include=movements.
	ExitMovement  *InventoryMovement
	EntryMovement *InventoryMovement
}
