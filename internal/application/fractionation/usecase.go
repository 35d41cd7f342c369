package fractionation

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-core/internal/application/inventory"
	"github.com/jhoicas/stock-core/internal/domain"
	"github.com/jhoicas/stock-core/internal/domain/entity"
	domaininv "github.com/jhoicas/stock-core/internal/domain/inventory"
	"github.com/jhoicas/stock-core/internal/domain/repository"
)

// UseCase orquesta el cálculo (preview de solo lectura) y la ejecución
// (transaccional) de una fracción: convertir cantidad de un producto origen
// en un producto destino según el catálogo de conversiones, registrando
// salida y entrada en el libro y la fila de fracción con folio, en un commit.
type UseCase struct {
	txRunner       inventory.TxRunner
	ledger         *inventory.LedgerUseCase
	conversionRepo repository.ProductConversionRepository
	fracRepo       repository.FractionationRepository
	stockRepo      repository.StockRepository
	productRepo    repository.ProductRepository
	warehouseRepo  repository.WarehouseRepository
}

// NewUseCase construye el orquestador.
func NewUseCase(
	txRunner inventory.TxRunner,
	ledger *inventory.LedgerUseCase,
	conversionRepo repository.ProductConversionRepository,
	fracRepo repository.FractionationRepository,
	stockRepo repository.StockRepository,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
) *UseCase {
	return &UseCase{
		txRunner:       txRunner,
		ledger:         ledger,
		conversionRepo: conversionRepo,
		fracRepo:       fracRepo,
		stockRepo:      stockRepo,
		productRepo:    productRepo,
		warehouseRepo:  warehouseRepo,
	}
}

// Input parámetros de una fracción (calculate y execute comparten forma).
type Input struct {
	SourceProductID      string
	DestinationProductID string
	WarehouseID          string
	SourceQuantity       decimal.Decimal
	UserID               string
	Notes                string
	IdempotencyKey       string
}

func (in *Input) validate() error {
	if in.SourceProductID == "" || in.DestinationProductID == "" || in.WarehouseID == "" {
		return domain.ErrInvalidInput
	}
	if in.SourceProductID == in.DestinationProductID {
		return domain.ErrInvalidInput
	}
	if !in.SourceQuantity.IsPositive() {
		return domain.ErrInvalidInput
	}
	return nil
}

// Preview resultado de Calculate: nunca muta estado.
type Preview struct {
	ProducedQuantity decimal.Decimal
	WasteQuantity    decimal.Decimal
	ConversionFactor decimal.Decimal
	WastePercentage  decimal.Decimal
	AvailableStock   decimal.Decimal
	HasEnoughStock   bool
}

// InsufficientStockError acompaña ErrInsufficientStock con el detalle
// disponible/requerido que la UI muestra al usuario.
type InsufficientStockError struct {
	Available decimal.Decimal
	Required  decimal.Decimal
}

func (e *InsufficientStockError) Error() string { return domain.ErrInsufficientStock.Error() }

// Unwrap permite errors.Is(err, domain.ErrInsufficientStock).
func (e *InsufficientStockError) Unwrap() error { return domain.ErrInsufficientStock }

// Calculate ejecuta el preview de una fracción: busca la conversión activa,
// aplica la aritmética y consulta el disponible a nivel bodega. Idempotente y
// sin efectos; respalda el preview en vivo de la UI.
func (uc *UseCase) Calculate(ctx context.Context, input Input) (*Preview, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	conversion, _, err := uc.resolve(ctx, input)
	if err != nil {
		return nil, err
	}
	result, err := domaininv.Convert(input.SourceQuantity, conversion.ConversionFactor, conversion.WastePercentage)
	if err != nil {
		return nil, err
	}
	available, err := uc.stockRepo.AvailableByWarehouse(ctx, input.SourceProductID, input.WarehouseID)
	if err != nil {
		return nil, err
	}
	return &Preview{
		ProducedQuantity: result.Produced,
		WasteQuantity:    result.Waste,
		ConversionFactor: conversion.ConversionFactor,
		WastePercentage:  conversion.WastePercentage,
		AvailableStock:   available,
		HasEnoughStock:   available.GreaterThanOrEqual(input.SourceQuantity),
	}, nil
}

// Execute ejecuta la fracción: re-resuelve conversión y suficiencia del lado
// del servidor (el preview del cliente no se confía), y dentro de una sola
// transacción registra el movimiento de salida del origen, el de entrada del
// destino y la fila de fracción con folio de la secuencia dedicada.
// Cualquier falla posterior al inicio revierte todo: no existen fracciones
// parciales.
func (uc *UseCase) Execute(ctx context.Context, input Input) (*entity.Fractionation, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	// Reintento con la misma llave: devolver la fracción ya confirmada.
	if input.IdempotencyKey != "" {
		existing, err := uc.fracRepo.GetByIdempotencyKey(ctx, input.IdempotencyKey)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return existing, nil
		}
	}

	conversion, _, err := uc.resolve(ctx, input)
	if err != nil {
		return nil, err
	}
	result, err := domaininv.Convert(input.SourceQuantity, conversion.ConversionFactor, conversion.WastePercentage)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	frac := &entity.Fractionation{
		ID:                   uuid.New().String(),
		SourceProductID:      input.SourceProductID,
		DestinationProductID: input.DestinationProductID,
		ProductConversionID:  conversion.ID,
		WarehouseID:          input.WarehouseID,
		UserID:               input.UserID,
		SourceQuantity:       input.SourceQuantity,
		ProducedQuantity:     result.Produced,
		WastePercentage:      conversion.WastePercentage,
		WasteQuantity:        result.Waste,
		ConversionFactorUsed: conversion.ConversionFactor,
		Status:               entity.FractionationStatusCompleted,
		Notes:                input.Notes,
		IdempotencyKey:       input.IdempotencyKey,
		ExecutedAt:           now,
	}

	err = uc.txRunner.RunFractionation(ctx, func(
		movRepo repository.InventoryMovementRepository,
		stockRepo repository.StockRepository,
		fracRepo repository.FractionationRepository,
	) error {
		// La fracción consume stock a nivel bodega: la salida bloquea todas
		// las filas del producto en la bodega, verifica suficiencia bajo el
		// bloqueo (el preview previo es solo consultivo) y descuenta ubicación
		// por ubicación hasta cubrir la cantidad.
		exit, available, err := uc.ledger.ApplyWarehouseDrawInTx(ctx, movRepo, stockRepo, inventory.MovementInput{
			UserID:        input.UserID,
			ProductID:     input.SourceProductID,
			WarehouseID:   input.WarehouseID,
			MovementType:  entity.MovementTypeExit,
			Quantity:      input.SourceQuantity,
			ReferenceType: entity.ReferenceTypeFractionation,
			ReferenceID:   frac.ID,
			Notes:         input.Notes,
		})
		if err != nil {
			if errors.Is(err, domain.ErrInsufficientStock) {
				return &InsufficientStockError{Available: available, Required: input.SourceQuantity}
			}
			return err
		}

		entry, err := uc.ledger.ApplyInTx(ctx, movRepo, stockRepo, inventory.MovementInput{
			UserID:        input.UserID,
			ProductID:     input.DestinationProductID,
			WarehouseID:   input.WarehouseID,
			MovementType:  entity.MovementTypeEntry,
			Quantity:      result.Produced,
			ReferenceType: entity.ReferenceTypeFractionation,
			ReferenceID:   frac.ID,
			Notes:         input.Notes,
		})
		if err != nil {
			return err
		}

		frac.ExitMovementID = exit.ID
		frac.EntryMovementID = entry.ID
		return fracRepo.Create(ctx, frac)
	})
	if err != nil {
		// Reintento que perdió la carrera contra su primer intento: la llave
		// única detecta el duplicado y devolvemos la fracción ya confirmada.
		if input.IdempotencyKey != "" && errors.Is(err, domain.ErrDuplicate) {
			existing, lookupErr := uc.fracRepo.GetByIdempotencyKey(ctx, input.IdempotencyKey)
			if lookupErr == nil && existing != nil {
				return existing, nil
			}
		}
		return nil, err
	}
	return frac, nil
}

// resolve verifica producto origen/destino y bodega, y busca la conversión
// activa del par. ErrConversionNotConfigured es un resultado esperado.
func (uc *UseCase) resolve(ctx context.Context, input Input) (*entity.ProductConversion, *entity.Warehouse, error) {
	source, err := uc.productRepo.GetByID(ctx, input.SourceProductID)
	if err != nil {
		return nil, nil, err
	}
	dest, err := uc.productRepo.GetByID(ctx, input.DestinationProductID)
	if err != nil {
		return nil, nil, err
	}
	if source == nil || dest == nil {
		return nil, nil, domain.ErrNotFound
	}
	wh, err := uc.warehouseRepo.GetByID(ctx, input.WarehouseID)
	if err != nil {
		return nil, nil, err
	}
	if wh == nil {
		return nil, nil, domain.ErrNotFound
	}
	conversion, err := uc.conversionRepo.Lookup(ctx, input.SourceProductID, input.DestinationProductID)
	if err != nil {
		return nil, nil, err
	}
	return conversion, wh, nil
}

// Get devuelve una fracción por ID, opcionalmente con sus movimientos ligados.
func (uc *UseCase) Get(ctx context.Context, id string, includeMovements bool) (*entity.Fractionation, error) {
	f, err := uc.fracRepo.GetByID(ctx, id, includeMovements)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, domain.ErrNotFound
	}
	return f, nil
}

// List devuelve el histórico paginado de fracciones.
func (uc *UseCase) List(ctx context.Context, filter repository.FractionationFilter) ([]*entity.Fractionation, int, error) {
	return uc.fracRepo.List(ctx, filter)
}

// ListDestinations devuelve las conversiones activas de un producto origen
// (puebla el combo de presentaciones destino en la UI).
func (uc *UseCase) ListDestinations(ctx context.Context, sourceProductID string) ([]*entity.ProductConversion, error) {
	if sourceProductID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.conversionRepo.ListBySource(ctx, sourceProductID)
}
