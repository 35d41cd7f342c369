package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-core/internal/domain"
)

// QuantityScale es la escala fija (decimales) de toda cantidad del libro.
const QuantityScale = 4

var hundred = decimal.NewFromInt(100)

// ConversionResult es el resultado aritmético de una fracción.
// Identidad garantizada tras el redondeo: Produced + Waste == Gross.
type ConversionResult struct {
	Gross    decimal.Decimal // cantidad bruta destino: origen * factor
	Produced decimal.Decimal // cantidad destino neta
	Waste    decimal.Decimal // merma
}

// Convert calcula la fracción de sourceQuantity con un factor de conversión y
// un porcentaje de merma (servicio de dominio puro, sin efectos).
//
// Política de redondeo: Gross se redondea half-up a la escala fija; Waste se
// trunca hacia abajo a la misma escala; Produced = Gross - Waste absorbe el
// residuo. Así la identidad Produced + Waste == Gross se cumple exacta y la
// merma nunca excede su valor teórico.
func Convert(sourceQuantity, conversionFactor, wastePercentage decimal.Decimal) (ConversionResult, error) {
	if !sourceQuantity.IsPositive() {
		return ConversionResult{}, domain.ErrInvalidInput
	}
	if !conversionFactor.IsPositive() {
		return ConversionResult{}, domain.ErrInvalidInput
	}
	if wastePercentage.IsNegative() || wastePercentage.GreaterThan(hundred) {
		return ConversionResult{}, domain.ErrInvalidInput
	}

	gross := sourceQuantity.Mul(conversionFactor).Round(QuantityScale)
	waste := gross.Mul(wastePercentage).Div(hundred).RoundDown(QuantityScale)
	produced := gross.Sub(waste)

	return ConversionResult{Gross: gross, Produced: produced, Waste: waste}, nil
}
