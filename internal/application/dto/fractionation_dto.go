package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-core/internal/domain/entity"
)

// FractionationRequest body para POST /api/fractionation/calculate y /execute.
// Notes solo aplica a execute.
type FractionationRequest struct {
	SourceProductID      string          `json:"source_product_id"`
	DestinationProductID string          `json:"destination_product_id"`
	SourceQuantity       decimal.Decimal `json:"source_quantity"`
	WarehouseID          string          `json:"warehouse_id"`
	Notes                string          `json:"notes,omitempty"`
}

// CalculateResponse respuesta del preview (sin efectos).
type CalculateResponse struct {
	ProducedQuantity decimal.Decimal `json:"produced_quantity"`
	WasteQuantity    decimal.Decimal `json:"waste_quantity"`
	ConversionFactor decimal.Decimal `json:"conversion_factor"`
	WastePercentage  decimal.Decimal `json:"waste_percentage"`
	AvailableStock   decimal.Decimal `json:"available_stock"`
	HasEnoughStock   bool            `json:"has_enough_stock"`
}

// FractionationResponse representación de una fracción ejecutada.
type FractionationResponse struct {
	ID                   string          `json:"id"`
	FolioNumber          int64           `json:"folio_number"`
	SourceProductID      string          `json:"source_product_id"`
	DestinationProductID string          `json:"destination_product_id"`
	ProductConversionID  string          `json:"product_conversion_id"`
	WarehouseID          string          `json:"warehouse_id"`
	SourceQuantity       decimal.Decimal `json:"source_quantity"`
	ProducedQuantity     decimal.Decimal `json:"produced_quantity"`
	WastePercentage      decimal.Decimal `json:"waste_percentage"`
	WasteQuantity        decimal.Decimal `json:"waste_quantity"`
	ConversionFactorUsed decimal.Decimal `json:"conversion_factor_used"`
	ExitMovementID       string          `json:"exit_movement_id"`
	EntryMovementID      string          `json:"entry_movement_id"`
	Status               string          `json:"status"`
	Notes                string          `json:"notes,omitempty"`
	ExecutedAt           time.Time       `json:"executed_at"`

	ExitMovement  *MovementResponse `json:"exit_movement,omitempty"`
	EntryMovement *MovementResponse `json:"entry_movement,omitempty"`
}

// NewFractionationResponse mapea la entidad al DTO de salida.
func NewFractionationResponse(f *entity.Fractionation) FractionationResponse {
	resp := FractionationResponse{
		ID:                   f.ID,
		FolioNumber:          f.FolioNumber,
		SourceProductID:      f.SourceProductID,
		DestinationProductID: f.DestinationProductID,
		ProductConversionID:  f.ProductConversionID,
		WarehouseID:          f.WarehouseID,
		SourceQuantity:       f.SourceQuantity,
		ProducedQuantity:     f.ProducedQuantity,
		WastePercentage:      f.WastePercentage,
		WasteQuantity:        f.WasteQuantity,
		ConversionFactorUsed: f.ConversionFactorUsed,
		ExitMovementID:       f.ExitMovementID,
		EntryMovementID:      f.EntryMovementID,
		Status:               f.Status,
		Notes:                f.Notes,
		ExecutedAt:           f.ExecutedAt,
	}
	if f.ExitMovement != nil {
		m := NewMovementResponse(f.ExitMovement)
		resp.ExitMovement = &m
	}
	if f.EntryMovement != nil {
		m := NewMovementResponse(f.EntryMovement)
		resp.EntryMovement = &m
	}
	return resp
}

// CreateConversionRequest body para POST /api/conversions.
type CreateConversionRequest struct {
	SourceProductID      string          `json:"source_product_id"`
	DestinationProductID string          `json:"destination_product_id"`
	ConversionFactor     decimal.Decimal `json:"conversion_factor"`
	WastePercentage      decimal.Decimal `json:"waste_percentage"`
}

// ConversionResponse representación de una conversión del catálogo.
type ConversionResponse struct {
	ID                   string          `json:"id"`
	SourceProductID      string          `json:"source_product_id"`
	DestinationProductID string          `json:"destination_product_id"`
	ConversionFactor     decimal.Decimal `json:"conversion_factor"`
	WastePercentage      decimal.Decimal `json:"waste_percentage"`
	Active               bool            `json:"active"`
}

// NewConversionResponse mapea la entidad al DTO de salida.
func NewConversionResponse(c *entity.ProductConversion) ConversionResponse {
	return ConversionResponse{
		ID:                   c.ID,
		SourceProductID:      c.SourceProductID,
		DestinationProductID: c.DestinationProductID,
		ConversionFactor:     c.ConversionFactor,
		WastePercentage:      c.WastePercentage,
		Active:               c.Active,
	}
}
