package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-core/internal/domain"
	"github.com/jhoicas/stock-core/internal/domain/entity"
	"github.com/jhoicas/stock-core/internal/domain/repository"
)

var hundred = decimal.NewFromInt(100)

// ConversionUseCase mantiene el catálogo de conversiones (consumido por el
// dashboard de administración). El orquestador de fracciones solo lo lee.
type ConversionUseCase struct {
	conversionRepo repository.ProductConversionRepository
	productRepo    repository.ProductRepository
}

// NewConversionUseCase construye el caso de uso.
func NewConversionUseCase(
	conversionRepo repository.ProductConversionRepository,
	productRepo repository.ProductRepository,
) *ConversionUseCase {
	return &ConversionUseCase{conversionRepo: conversionRepo, productRepo: productRepo}
}

// CreateInput datos para registrar una conversión origen -> destino.
type CreateInput struct {
	SourceProductID      string
	DestinationProductID string
	ConversionFactor     decimal.Decimal
	WastePercentage      decimal.Decimal
}

// Create valida y registra una conversión. A lo más una activa por par
// ordenado; el duplicado responde ErrDuplicate.
func (uc *ConversionUseCase) Create(ctx context.Context, input CreateInput) (*entity.ProductConversion, error) {
	if input.SourceProductID == "" || input.DestinationProductID == "" {
		return nil, domain.ErrInvalidInput
	}
	if input.SourceProductID == input.DestinationProductID {
		return nil, domain.ErrInvalidInput
	}
	if !input.ConversionFactor.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	if input.WastePercentage.IsNegative() || input.WastePercentage.GreaterThan(hundred) {
		return nil, domain.ErrInvalidInput
	}

	for _, id := range []string{input.SourceProductID, input.DestinationProductID} {
		p, err := uc.productRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, domain.ErrNotFound
		}
	}

	now := time.Now()
	conversion := &entity.ProductConversion{
		ID:                   uuid.New().String(),
		SourceProductID:      input.SourceProductID,
		DestinationProductID: input.DestinationProductID,
		ConversionFactor:     input.ConversionFactor,
		WastePercentage:      input.WastePercentage,
		Active:               true,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := uc.conversionRepo.Create(ctx, conversion); err != nil {
		return nil, err
	}
	return conversion, nil
}

// ListBySource devuelve las conversiones activas de un producto origen.
func (uc *ConversionUseCase) ListBySource(ctx context.Context, sourceProductID string) ([]*entity.ProductConversion, error) {
	if sourceProductID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.conversionRepo.ListBySource(ctx, sourceProductID)
}

// Deactivate retira una conversión del catálogo. Las fracciones ya ejecutadas
// no se ven afectadas: llevan su propia fotografía del factor.
func (uc *ConversionUseCase) Deactivate(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrInvalidInput
	}
	conversion, err := uc.conversionRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if conversion == nil {
		return domain.ErrNotFound
	}
	return uc.conversionRepo.Deactivate(ctx, id)
}
