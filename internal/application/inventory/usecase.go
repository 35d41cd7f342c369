package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-core/internal/domain"
	"github.com/jhoicas/stock-core/internal/domain/entity"
	"github.com/jhoicas/stock-core/internal/domain/repository"
)

// LedgerUseCase registra movimientos de inventario de forma transaccional
// (entry, exit, adjustment, transfer) con bloqueo de fila (SELECT FOR UPDATE)
// y Commit/Rollback. Es el único escritor del stock: ningún flujo toca las
// filas de stock por fuera de este caso de uso.
type LedgerUseCase struct {
	txRunner      TxRunner
	movementRepo  repository.InventoryMovementRepository
	stockRepo     repository.StockRepository
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
}

// NewLedgerUseCase construye el caso de uso. movementRepo y stockRepo van
// atados al pool (lecturas); las escrituras siempre pasan por txRunner.
func NewLedgerUseCase(
	txRunner TxRunner,
	movementRepo repository.InventoryMovementRepository,
	stockRepo repository.StockRepository,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
) *LedgerUseCase {
	return &LedgerUseCase{
		txRunner:      txRunner,
		movementRepo:  movementRepo,
		stockRepo:     stockRepo,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
	}
}

// MovementInput entrada para registrar un movimiento.
// Quantity siempre positiva; para adjustment se requiere AdjustmentDirection.
// Para transfer se requieren DestinationWarehouseID (y opcionalmente
// DestinationLocationID).
type MovementInput struct {
	UserID                 string
	ProductID              string
	WarehouseID            string
	LocationID             string
	DestinationWarehouseID string
	DestinationLocationID  string
	MovementType           string
	AdjustmentDirection    string
	Quantity               decimal.Decimal
	UnitCost               *decimal.Decimal
	ReferenceType          string
	ReferenceID            string
	BatchInfo              string
	Metadata               map[string]any
	Notes                  string
	Draft                  bool // true: persiste como borrador sin tocar stock
}

func (in *MovementInput) validate() error {
	if in.ProductID == "" || in.WarehouseID == "" {
		return domain.ErrInvalidInput
	}
	if !in.Quantity.IsPositive() {
		return domain.ErrInvalidInput
	}
	switch in.MovementType {
	case entity.MovementTypeEntry, entity.MovementTypeExit:
	case entity.MovementTypeAdjustment:
		if in.AdjustmentDirection != entity.AdjustmentIncrease && in.AdjustmentDirection != entity.AdjustmentDecrease {
			return domain.ErrInvalidInput
		}
	case entity.MovementTypeTransfer:
		if in.DestinationWarehouseID == "" {
			return domain.ErrInvalidInput
		}
		if in.DestinationWarehouseID == in.WarehouseID && in.DestinationLocationID == in.LocationID {
			return domain.ErrInvalidInput
		}
	default:
		return domain.ErrInvalidInput
	}
	if in.UnitCost != nil && in.UnitCost.IsNegative() {
		return domain.ErrInvalidInput
	}
	return nil
}

// RecordMovement valida, resuelve producto/bodega/ubicación y aplica el
// movimiento dentro de una transacción. Si el delta dejaría el stock negativo,
// falla con ErrInsufficientStock y no persiste nada (todo o nada).
func (uc *LedgerUseCase) RecordMovement(ctx context.Context, input MovementInput) (*entity.InventoryMovement, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	if err := uc.resolveReferences(ctx, input); err != nil {
		return nil, err
	}

	movement := newMovementFromInput(input)

	if input.Draft {
		// Un borrador se persiste sin aplicar delta; el stock no cambia.
		movement.Status = entity.MovementStatusDraft
		if err := uc.movementRepo.Create(ctx, movement); err != nil {
			return nil, err
		}
		return movement, nil
	}

	err := uc.txRunner.Run(ctx, func(
		movRepo repository.InventoryMovementRepository,
		stockRepo repository.StockRepository,
	) error {
		return uc.applyAndInsert(ctx, movRepo, stockRepo, movement)
	})
	if err != nil {
		return nil, err
	}
	return movement, nil
}

// resolveReferences verifica que producto, bodega(s) y ubicación existan.
func (uc *LedgerUseCase) resolveReferences(ctx context.Context, input MovementInput) error {
	product, err := uc.productRepo.GetByID(ctx, input.ProductID)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	wh, err := uc.warehouseRepo.GetByID(ctx, input.WarehouseID)
	if err != nil {
		return err
	}
	if wh == nil {
		return domain.ErrNotFound
	}
	if input.LocationID != "" {
		loc, err := uc.warehouseRepo.GetLocation(ctx, input.LocationID)
		if err != nil {
			return err
		}
		if loc == nil || loc.WarehouseID != input.WarehouseID {
			return domain.ErrNotFound
		}
	}
	if input.MovementType == entity.MovementTypeTransfer {
		destWh, err := uc.warehouseRepo.GetByID(ctx, input.DestinationWarehouseID)
		if err != nil {
			return err
		}
		if destWh == nil {
			return domain.ErrNotFound
		}
		if input.DestinationLocationID != "" {
			loc, err := uc.warehouseRepo.GetLocation(ctx, input.DestinationLocationID)
			if err != nil {
				return err
			}
			if loc == nil || loc.WarehouseID != input.DestinationWarehouseID {
				return domain.ErrNotFound
			}
		}
	}
	return nil
}

func newMovementFromInput(input MovementInput) *entity.InventoryMovement {
	now := time.Now()
	refType := input.ReferenceType
	if refType == "" {
		refType = entity.ReferenceTypeManual
	}
	return &entity.InventoryMovement{
		ID:                     uuid.New().String(),
		MovementType:           input.MovementType,
		AdjustmentDirection:    input.AdjustmentDirection,
		ProductID:              input.ProductID,
		WarehouseID:            input.WarehouseID,
		LocationID:             input.LocationID,
		Quantity:               input.Quantity,
		UnitCost:               input.UnitCost,
		ReferenceType:          refType,
		ReferenceID:            input.ReferenceID,
		DestinationWarehouseID: input.DestinationWarehouseID,
		DestinationLocationID:  input.DestinationLocationID,
		Status:                 entity.MovementStatusCompleted,
		MovementDate:           now,
		UserID:                 input.UserID,
		BatchInfo:              input.BatchInfo,
		Metadata:               input.Metadata,
		Notes:                  input.Notes,
		CreatedAt:              now,
	}
}

// ApplyInTx aplica un movimiento usando los repositorios del caller (misma
// transacción). Lo usa el orquestador de fracciones para registrar la salida
// y la entrada dentro de su propio commit.
func (uc *LedgerUseCase) ApplyInTx(
	ctx context.Context,
	movRepo repository.InventoryMovementRepository,
	stockRepo repository.StockRepository,
	input MovementInput,
) (*entity.InventoryMovement, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	movement := newMovementFromInput(input)
	if err := uc.applyAndInsert(ctx, movRepo, stockRepo, movement); err != nil {
		return nil, err
	}
	return movement, nil
}

// ApplyWarehouseDrawInTx registra una salida que consume stock a nivel bodega:
// bloquea todas las filas del producto en la bodega en orden estable de
// ubicación, verifica bajo bloqueo que el disponible agregado cubra la
// cantidad y descuenta fila por fila hasta completarla. Devuelve el disponible
// observado bajo bloqueo para que el caller pueda informarlo cuando no alcanza.
func (uc *LedgerUseCase) ApplyWarehouseDrawInTx(
	ctx context.Context,
	movRepo repository.InventoryMovementRepository,
	stockRepo repository.StockRepository,
	input MovementInput,
) (*entity.InventoryMovement, decimal.Decimal, error) {
	if err := input.validate(); err != nil {
		return nil, decimal.Zero, err
	}
	// El consumo abarca la bodega completa: el movimiento no lleva ubicación.
	if input.MovementType != entity.MovementTypeExit || input.LocationID != "" {
		return nil, decimal.Zero, domain.ErrInvalidInput
	}

	stocks, err := stockRepo.ListForUpdateByWarehouse(ctx, input.ProductID, input.WarehouseID)
	if err != nil {
		return nil, decimal.Zero, err
	}
	available := decimal.Zero
	for _, stock := range stocks {
		available = available.Add(stock.Available())
	}
	if available.LessThan(input.Quantity) {
		return nil, available, domain.ErrInsufficientStock
	}

	movement := newMovementFromInput(input)
	remaining := input.Quantity
	for _, stock := range stocks {
		if !remaining.IsPositive() {
			break
		}
		take := decimal.Min(stock.Available(), remaining)
		if !take.IsPositive() {
			continue
		}
		stock.Quantity = stock.Quantity.Sub(take)
		stock.UpdatedAt = movement.MovementDate
		if err := stockRepo.Upsert(ctx, stock); err != nil {
			return nil, available, err
		}
		remaining = remaining.Sub(take)
	}

	if err := movRepo.Create(ctx, movement); err != nil {
		return nil, available, err
	}
	return movement, available, nil
}

// applyAndInsert bloquea la(s) fila(s) de stock, aplica el delta y persiste el
// movimiento como completed. La verificación de suficiencia ocurre aquí,
// después de adquirir el bloqueo: el segundo movimiento concurrente sobre la
// misma fila observa el decremento ya confirmado del primero.
func (uc *LedgerUseCase) applyAndInsert(
	ctx context.Context,
	movRepo repository.InventoryMovementRepository,
	stockRepo repository.StockRepository,
	movement *entity.InventoryMovement,
) error {
	now := movement.MovementDate

	switch movement.MovementType {
	case entity.MovementTypeEntry:
		if err := uc.addToStock(ctx, stockRepo, movement.ProductID, movement.WarehouseID, movement.LocationID, movement.Quantity, now); err != nil {
			return err
		}
	case entity.MovementTypeExit:
		if err := uc.subtractFromStock(ctx, stockRepo, movement.ProductID, movement.WarehouseID, movement.LocationID, movement.Quantity, now); err != nil {
			return err
		}
	case entity.MovementTypeAdjustment:
		if movement.AdjustmentDirection == entity.AdjustmentIncrease {
			if err := uc.addToStock(ctx, stockRepo, movement.ProductID, movement.WarehouseID, movement.LocationID, movement.Quantity, now); err != nil {
				return err
			}
		} else {
			if err := uc.subtractFromStock(ctx, stockRepo, movement.ProductID, movement.WarehouseID, movement.LocationID, movement.Quantity, now); err != nil {
				return err
			}
		}
	case entity.MovementTypeTransfer:
		// Resta en origen y suma en destino, misma transacción.
		if err := uc.subtractFromStock(ctx, stockRepo, movement.ProductID, movement.WarehouseID, movement.LocationID, movement.Quantity, now); err != nil {
			return err
		}
		if err := uc.addToStock(ctx, stockRepo, movement.ProductID, movement.DestinationWarehouseID, movement.DestinationLocationID, movement.Quantity, now); err != nil {
			return err
		}
	default:
		return domain.ErrInvalidInput
	}

	return movRepo.Create(ctx, movement)
}

func (uc *LedgerUseCase) addToStock(
	ctx context.Context,
	stockRepo repository.StockRepository,
	productID, warehouseID, locationID string,
	qty decimal.Decimal,
	now time.Time,
) error {
	stock, err := stockRepo.GetForUpdate(ctx, productID, warehouseID, locationID)
	if err != nil {
		return err
	}
	stock.Quantity = stock.Quantity.Add(qty)
	stock.UpdatedAt = now
	return stockRepo.Upsert(ctx, stock)
}

func (uc *LedgerUseCase) subtractFromStock(
	ctx context.Context,
	stockRepo repository.StockRepository,
	productID, warehouseID, locationID string,
	qty decimal.Decimal,
	now time.Time,
) error {
	stock, err := stockRepo.GetForUpdate(ctx, productID, warehouseID, locationID)
	if err != nil {
		return err
	}
	if stock.Quantity.LessThan(qty) {
		return domain.ErrInsufficientStock
	}
	newQty := stock.Quantity.Sub(qty)
	// La salida tampoco puede dejar el disponible negativo frente a lo reservado.
	if newQty.Sub(stock.ReservedQuantity).IsNegative() {
		return domain.ErrInsufficientStock
	}
	stock.Quantity = newQty
	stock.UpdatedAt = now
	return stockRepo.Upsert(ctx, stock)
}

// Reserve aparta cantidad disponible de una fila de stock (no mueve existencia,
// solo incrementa reserved_quantity bajo el mismo bloqueo de fila).
func (uc *LedgerUseCase) Reserve(ctx context.Context, productID, warehouseID, locationID string, qty decimal.Decimal) error {
	if productID == "" || warehouseID == "" || !qty.IsPositive() {
		return domain.ErrInvalidInput
	}
	return uc.txRunner.Run(ctx, func(
		_ repository.InventoryMovementRepository,
		stockRepo repository.StockRepository,
	) error {
		stock, err := stockRepo.GetForUpdate(ctx, productID, warehouseID, locationID)
		if err != nil {
			return err
		}
		if stock.Available().LessThan(qty) {
			return domain.ErrInsufficientStock
		}
		stock.ReservedQuantity = stock.ReservedQuantity.Add(qty)
		stock.UpdatedAt = time.Now()
		return stockRepo.Upsert(ctx, stock)
	})
}

// Release libera cantidad reservada previamente.
func (uc *LedgerUseCase) Release(ctx context.Context, productID, warehouseID, locationID string, qty decimal.Decimal) error {
	if productID == "" || warehouseID == "" || !qty.IsPositive() {
		return domain.ErrInvalidInput
	}
	return uc.txRunner.Run(ctx, func(
		_ repository.InventoryMovementRepository,
		stockRepo repository.StockRepository,
	) error {
		stock, err := stockRepo.GetForUpdate(ctx, productID, warehouseID, locationID)
		if err != nil {
			return err
		}
		if stock.ReservedQuantity.LessThan(qty) {
			return domain.ErrConflict
		}
		stock.ReservedQuantity = stock.ReservedQuantity.Sub(qty)
		stock.UpdatedAt = time.Now()
		return stockRepo.Upsert(ctx, stock)
	})
}

// GetMovement devuelve un movimiento por ID.
func (uc *LedgerUseCase) GetMovement(ctx context.Context, id string) (*entity.InventoryMovement, error) {
	m, err := uc.movementRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	return m, nil
}

// ListMovements lista movimientos con filtros y paginación.
func (uc *LedgerUseCase) ListMovements(ctx context.Context, filter repository.MovementFilter) ([]*entity.InventoryMovement, error) {
	return uc.movementRepo.List(ctx, filter)
}

// DeleteMovement elimina un movimiento solo si sigue en borrador; un movimiento
// completado es inmutable (auditoría): se responde ErrImmutableMovement.
func (uc *LedgerUseCase) DeleteMovement(ctx context.Context, id string) error {
	m, err := uc.movementRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if m == nil {
		return domain.ErrNotFound
	}
	if m.Status != entity.MovementStatusDraft {
		return domain.ErrImmutableMovement
	}
	return uc.movementRepo.DeleteDraft(ctx, id)
}

// GetStock devuelve la fila de stock (en cero si aún no existe).
func (uc *LedgerUseCase) GetStock(ctx context.Context, productID, warehouseID, locationID string) (*entity.Stock, error) {
	if productID == "" || warehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.stockRepo.Get(ctx, productID, warehouseID, locationID)
}

// ListStock devuelve las filas de stock de un producto (opcionalmente por bodega).
func (uc *LedgerUseCase) ListStock(ctx context.Context, productID, warehouseID string) ([]*entity.Stock, error) {
	if productID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.stockRepo.ListByProduct(ctx, productID, warehouseID)
}

// AvailableByWarehouse devuelve el disponible agregado de un producto en una bodega.
func (uc *LedgerUseCase) AvailableByWarehouse(ctx context.Context, productID, warehouseID string) (decimal.Decimal, error) {
	if productID == "" || warehouseID == "" {
		return decimal.Zero, domain.ErrInvalidInput
	}
	return uc.stockRepo.AvailableByWarehouse(ctx, productID, warehouseID)
}
