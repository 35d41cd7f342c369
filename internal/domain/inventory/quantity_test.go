package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-core/internal/domain"
	"github.com/jhoicas/stock-core/internal/domain/inventory"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

// Escenario de referencia: 100 unidades, factor 0.9, merma 10%.
// Bruto = 90, producido = 81, merma = 9.
func TestConvert_EscenarioBase(t *testing.T) {
	res, err := inventory.Convert(d("100"), d("0.9"), d("10"))
	require.NoError(t, err)

	assert.True(t, res.Gross.Equal(d("90")), "bruto: %s", res.Gross)
	assert.True(t, res.Produced.Equal(d("81")), "producido: %s", res.Produced)
	assert.True(t, res.Waste.Equal(d("9")), "merma: %s", res.Waste)
}

func TestConvert_SinMerma(t *testing.T) {
	res, err := inventory.Convert(d("12.5"), d("4"), decimal.Zero)
	require.NoError(t, err)

	assert.True(t, res.Waste.IsZero())
	assert.True(t, res.Produced.Equal(d("50")))
}

func TestConvert_MermaTotal(t *testing.T) {
	res, err := inventory.Convert(d("10"), d("2"), d("100"))
	require.NoError(t, err)

	assert.True(t, res.Produced.IsZero())
	assert.True(t, res.Waste.Equal(d("20")))
}

// Conservación: producido + merma == bruto, exacto tras el redondeo,
// incluso con factores y porcentajes que generan residuos periódicos.
func TestConvert_Conservacion(t *testing.T) {
	cases := []struct {
		name    string
		qty     string
		factor  string
		wastePc string
	}{
		{"enteros", "100", "0.9", "10"},
		{"factor periodico", "7", "0.3333", "15"},
		{"merma periodica", "13.7", "1.25", "33.33"},
		{"cantidades minimas", "0.0001", "1", "50"},
		{"factor grande", "999.9999", "144", "2.5"},
		{"tercios", "10", "3", "33.3333"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := inventory.Convert(d(tc.qty), d(tc.factor), d(tc.wastePc))
			require.NoError(t, err)

			assert.True(t, res.Produced.Add(res.Waste).Equal(res.Gross),
				"producido %s + merma %s != bruto %s", res.Produced, res.Waste, res.Gross)
			assert.False(t, res.Produced.IsNegative())
			assert.False(t, res.Waste.IsNegative())
			// La merma trunca hacia abajo: nunca excede su valor teórico.
			exactWaste := res.Gross.Mul(d(tc.wastePc)).Div(d("100"))
			assert.True(t, res.Waste.LessThanOrEqual(exactWaste))
		})
	}
}

func TestConvert_EntradasInvalidas(t *testing.T) {
	cases := []struct {
		name    string
		qty     string
		factor  string
		wastePc string
	}{
		{"cantidad cero", "0", "1", "0"},
		{"cantidad negativa", "-5", "1", "0"},
		{"factor cero", "10", "0", "0"},
		{"factor negativo", "10", "-0.5", "0"},
		{"merma negativa", "10", "1", "-1"},
		{"merma mayor a 100", "10", "1", "100.01"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := inventory.Convert(d(tc.qty), d(tc.factor), d(tc.wastePc))
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

// Determinismo: misma entrada, mismo resultado (respalda el preview en vivo).
func TestConvert_Deterministico(t *testing.T) {
	first, err := inventory.Convert(d("42.42"), d("0.77"), d("12.34"))
	require.NoError(t, err)
	for i := 0; i < 100; i++ {
		res, err := inventory.Convert(d("42.42"), d("0.77"), d("12.34"))
		require.NoError(t, err)
		assert.True(t, res.Produced.Equal(first.Produced))
		assert.True(t, res.Waste.Equal(first.Waste))
	}
}
