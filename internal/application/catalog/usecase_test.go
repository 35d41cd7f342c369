package catalog_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-core/internal/application/catalog"
	"github.com/jhoicas/stock-core/internal/domain"
	"github.com/jhoicas/stock-core/internal/domain/entity"
	"github.com/jhoicas/stock-core/internal/infrastructure/memory"
)

func newUseCase() (*catalog.ConversionUseCase, *memory.ConversionRepository) {
	convRepo := memory.NewConversionRepository()
	productRepo := memory.NewProductRepository(
		&entity.Product{ID: "prod-costal", SKU: "COSTAL-25", Name: "Costal 25kg", Active: true},
		&entity.Product{ID: "prod-bolsa", SKU: "BOLSA-1", Name: "Bolsa 1kg", Active: true},
		&entity.Product{ID: "prod-medio", SKU: "BOLSA-500", Name: "Bolsa 500g", Active: true},
	)
	return catalog.NewConversionUseCase(convRepo, productRepo), convRepo
}

func qty(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestCreateConversion(t *testing.T) {
	uc, _ := newUseCase()

	c, err := uc.Create(context.Background(), catalog.CreateInput{
		SourceProductID:      "prod-costal",
		DestinationProductID: "prod-bolsa",
		ConversionFactor:     qty("25"),
		WastePercentage:      qty("2.5"),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)
	assert.True(t, c.Active)
	assert.True(t, c.ConversionFactor.Equal(qty("25")))
}

func TestCreateConversion_Validaciones(t *testing.T) {
	uc, _ := newUseCase()

	cases := []catalog.CreateInput{
		{SourceProductID: "", DestinationProductID: "prod-bolsa", ConversionFactor: qty("1")},
		{SourceProductID: "prod-costal", DestinationProductID: "prod-costal", ConversionFactor: qty("1")},
		{SourceProductID: "prod-costal", DestinationProductID: "prod-bolsa", ConversionFactor: qty("0")},
		{SourceProductID: "prod-costal", DestinationProductID: "prod-bolsa", ConversionFactor: qty("-2")},
		{SourceProductID: "prod-costal", DestinationProductID: "prod-bolsa", ConversionFactor: qty("1"), WastePercentage: qty("-1")},
		{SourceProductID: "prod-costal", DestinationProductID: "prod-bolsa", ConversionFactor: qty("1"), WastePercentage: qty("100.01")},
	}
	for _, input := range cases {
		_, err := uc.Create(context.Background(), input)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}

	_, err := uc.Create(context.Background(), catalog.CreateInput{
		SourceProductID:      "prod-costal",
		DestinationProductID: "prod-999",
		ConversionFactor:     qty("1"),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateConversion_ParDuplicado(t *testing.T) {
	uc, _ := newUseCase()

	input := catalog.CreateInput{
		SourceProductID:      "prod-costal",
		DestinationProductID: "prod-bolsa",
		ConversionFactor:     qty("25"),
	}
	_, err := uc.Create(context.Background(), input)
	require.NoError(t, err)

	// A lo más una conversión activa por par ordenado.
	_, err = uc.Create(context.Background(), input)
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	// El par inverso sí se permite.
	_, err = uc.Create(context.Background(), catalog.CreateInput{
		SourceProductID:      "prod-bolsa",
		DestinationProductID: "prod-costal",
		ConversionFactor:     qty("0.04"),
	})
	assert.NoError(t, err)
}

func TestDeactivate_PermiteNuevoPar(t *testing.T) {
	uc, _ := newUseCase()

	input := catalog.CreateInput{
		SourceProductID:      "prod-costal",
		DestinationProductID: "prod-bolsa",
		ConversionFactor:     qty("25"),
	}
	created, err := uc.Create(context.Background(), input)
	require.NoError(t, err)

	require.NoError(t, uc.Deactivate(context.Background(), created.ID))

	list, err := uc.ListBySource(context.Background(), "prod-costal")
	require.NoError(t, err)
	assert.Empty(t, list)

	// Desactivada la anterior, el par vuelve a estar libre con otro factor.
	input.ConversionFactor = qty("24")
	_, err = uc.Create(context.Background(), input)
	assert.NoError(t, err)

	assert.ErrorIs(t, uc.Deactivate(context.Background(), "conv-999"), domain.ErrNotFound)
}

func TestListBySource(t *testing.T) {
	uc, _ := newUseCase()

	for _, dest := range []string{"prod-bolsa", "prod-medio"} {
		_, err := uc.Create(context.Background(), catalog.CreateInput{
			SourceProductID:      "prod-costal",
			DestinationProductID: dest,
			ConversionFactor:     qty("25"),
		})
		require.NoError(t, err)
	}

	list, err := uc.ListBySource(context.Background(), "prod-costal")
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = uc.ListBySource(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
