package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-core/internal/domain/entity"
)

// RegisterMovementRequest body para POST /api/inventory/movements.
type RegisterMovementRequest struct {
	ProductID              string           `json:"product_id"`
	WarehouseID            string           `json:"warehouse_id"`
	LocationID             string           `json:"location_id,omitempty"`
	DestinationWarehouseID string           `json:"destination_warehouse_id,omitempty"`
	DestinationLocationID  string           `json:"destination_location_id,omitempty"`
	MovementType           string           `json:"movement_type"`
	AdjustmentDirection    string           `json:"adjustment_direction,omitempty"`
	Quantity               decimal.Decimal  `json:"quantity"`
	UnitCost               *decimal.Decimal `json:"unit_cost,omitempty"`
	ReferenceType          string           `json:"reference_type,omitempty"`
	ReferenceID            string           `json:"reference_id,omitempty"`
	BatchInfo              string           `json:"batch_info,omitempty"`
	Metadata               map[string]any   `json:"metadata,omitempty"`
	Notes                  string           `json:"notes,omitempty"`
	Draft                  bool             `json:"draft,omitempty"`
}

// MovementResponse representación de un movimiento del libro.
type MovementResponse struct {
	ID                     string           `json:"id"`
	MovementType           string           `json:"movement_type"`
	AdjustmentDirection    string           `json:"adjustment_direction,omitempty"`
	ProductID              string           `json:"product_id"`
	WarehouseID            string           `json:"warehouse_id"`
	LocationID             string           `json:"location_id,omitempty"`
	DestinationWarehouseID string           `json:"destination_warehouse_id,omitempty"`
	DestinationLocationID  string           `json:"destination_location_id,omitempty"`
	Quantity               decimal.Decimal  `json:"quantity"`
	UnitCost               *decimal.Decimal `json:"unit_cost,omitempty"`
	ReferenceType          string           `json:"reference_type"`
	ReferenceID            string           `json:"reference_id,omitempty"`
	Status                 string           `json:"status"`
	MovementDate           time.Time        `json:"movement_date"`
	UserID                 string           `json:"user_id,omitempty"`
	BatchInfo              string           `json:"batch_info,omitempty"`
	Notes                  string           `json:"notes,omitempty"`
}

// NewMovementResponse mapea la entidad al DTO de salida.
func NewMovementResponse(m *entity.InventoryMovement) MovementResponse {
	return MovementResponse{
		ID:                     m.ID,
		MovementType:           m.MovementType,
		AdjustmentDirection:    m.AdjustmentDirection,
		ProductID:              m.ProductID,
		WarehouseID:            m.WarehouseID,
		LocationID:             m.LocationID,
		DestinationWarehouseID: m.DestinationWarehouseID,
		DestinationLocationID:  m.DestinationLocationID,
		Quantity:               m.Quantity,
		UnitCost:               m.UnitCost,
		ReferenceType:          m.ReferenceType,
		ReferenceID:            m.ReferenceID,
		Status:                 m.Status,
		MovementDate:           m.MovementDate,
		UserID:                 m.UserID,
		BatchInfo:              m.BatchInfo,
		Notes:                  m.Notes,
	}
}

// StockResponse fila de stock por producto/bodega/ubicación.
type StockResponse struct {
	ProductID         string          `json:"product_id"`
	WarehouseID       string          `json:"warehouse_id"`
	LocationID        string          `json:"location_id,omitempty"`
	Quantity          decimal.Decimal `json:"quantity"`
	ReservedQuantity  decimal.Decimal `json:"reserved_quantity"`
	AvailableQuantity decimal.Decimal `json:"available_quantity"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// NewStockResponse mapea la entidad al DTO de salida.
func NewStockResponse(s *entity.Stock) StockResponse {
	return StockResponse{
		ProductID:         s.ProductID,
		WarehouseID:       s.WarehouseID,
		LocationID:        s.LocationID,
		Quantity:          s.Quantity,
		ReservedQuantity:  s.ReservedQuantity,
		AvailableQuantity: s.Available(),
		UpdatedAt:         s.UpdatedAt,
	}
}

// ReservationRequest body para POST /api/stock/reserve y /api/stock/release.
type ReservationRequest struct {
	ProductID   string          `json:"product_id"`
	WarehouseID string          `json:"warehouse_id"`
	LocationID  string          `json:"location_id,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
}
