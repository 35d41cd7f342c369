package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductConversion define una fracción permitida: producto origen -> producto
// destino, con factor de conversión y porcentaje de merma. A lo más una
// conversión activa por par ordenado; un origen puede tener varios destinos
// (distintas presentaciones).
type ProductConversion struct {
	ID                   string
	SourceProductID      string
	DestinationProductID string
	ConversionFactor     decimal.Decimal // > 0
	WastePercentage      decimal.Decimal // 0..100
	Active               bool
	CreatedAt            time.Time
	UpdatedAt            time.Time
}
