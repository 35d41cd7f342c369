package fractionation_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-core/internal/application/fractionation"
	"github.com/jhoicas/stock-core/internal/application/inventory"
	"github.com/jhoicas/stock-core/internal/domain"
	"github.com/jhoicas/stock-core/internal/domain/entity"
	"github.com/jhoicas/stock-core/internal/domain/repository"
	"github.com/jhoicas/stock-core/internal/infrastructure/memory"
)

type fixture struct {
	uc        *fractionation.UseCase
	stockRepo *memory.StockRepository
	movRepo   *memory.MovementRepository
	fracRepo  *memory.FractionationRepository
	convRepo  *memory.ConversionRepository
}

// newFixture arma el orquestador con una conversión activa costal -> bolsa:
// factor 0.9, merma 10%.
func newFixture(t *testing.T, txRunner inventory.TxRunner, repos fixtureRepos) *fixture {
	t.Helper()
	productRepo := memory.NewProductRepository(
		&entity.Product{ID: "prod-costal", SKU: "COSTAL-25", Name: "Costal 25kg", Active: true},
		&entity.Product{ID: "prod-bolsa", SKU: "BOLSA-1", Name: "Bolsa 1kg", Active: true},
	)
	warehouseRepo := memory.NewWarehouseRepository(
		&entity.Warehouse{ID: "wh-1", Name: "Central"},
	)
	require.NoError(t, repos.conv.Create(context.Background(), &entity.ProductConversion{
		ID:                   "conv-1",
		SourceProductID:      "prod-costal",
		DestinationProductID: "prod-bolsa",
		ConversionFactor:     qty("0.9"),
		WastePercentage:      qty("10"),
		Active:               true,
	}))

	ledger := inventory.NewLedgerUseCase(txRunner, repos.mov, repos.stock, productRepo, warehouseRepo)
	uc := fractionation.NewUseCase(txRunner, ledger, repos.conv, repos.frac, repos.stock, productRepo, warehouseRepo)
	return &fixture{uc: uc, stockRepo: repos.stock, movRepo: repos.mov, fracRepo: repos.frac, convRepo: repos.conv}
}

type fixtureRepos struct {
	stock *memory.StockRepository
	mov   *memory.MovementRepository
	frac  *memory.FractionationRepository
	conv  *memory.ConversionRepository
}

func newFixtureRepos() fixtureRepos {
	stock := memory.NewStockRepository()
	mov := memory.NewMovementRepository()
	return fixtureRepos{
		stock: stock,
		mov:   mov,
		frac:  memory.NewFractionationRepository(mov),
		conv:  memory.NewConversionRepository(),
	}
}

func newDefaultFixture(t *testing.T) *fixture {
	repos := newFixtureRepos()
	return newFixture(t, memory.NewTxRunner(repos.mov, repos.stock, repos.frac), repos)
}

func qty(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func defaultInput() fractionation.Input {
	return fractionation.Input{
		SourceProductID:      "prod-costal",
		DestinationProductID: "prod-bolsa",
		WarehouseID:          "wh-1",
		SourceQuantity:       qty("100"),
		UserID:               "user-1",
	}
}

func TestCalculate_EscenarioBase(t *testing.T) {
	f := newDefaultFixture(t)
	f.stockRepo.Seed("prod-costal", "wh-1", "", qty("150"))

	// 100 × 0.9 = 90 bruto; merma 10% = 9; producido 81.
	preview, err := f.uc.Calculate(context.Background(), defaultInput())
	require.NoError(t, err)
	assert.True(t, preview.ProducedQuantity.Equal(qty("81")), "producido = %s", preview.ProducedQuantity)
	assert.True(t, preview.WasteQuantity.Equal(qty("9")), "merma = %s", preview.WasteQuantity)
	assert.True(t, preview.ConversionFactor.Equal(qty("0.9")))
	assert.True(t, preview.WastePercentage.Equal(qty("10")))
	assert.True(t, preview.AvailableStock.Equal(qty("150")))
	assert.True(t, preview.HasEnoughStock)
}

func TestCalculate_SinEfectos(t *testing.T) {
	f := newDefaultFixture(t)
	f.stockRepo.Seed("prod-costal", "wh-1", "", qty("150"))

	first, err := f.uc.Calculate(context.Background(), defaultInput())
	require.NoError(t, err)
	second, err := f.uc.Calculate(context.Background(), defaultInput())
	require.NoError(t, err)

	// Mismo resultado, cero movimientos, stock intacto.
	assert.True(t, first.ProducedQuantity.Equal(second.ProducedQuantity))
	assert.True(t, first.WasteQuantity.Equal(second.WasteQuantity))
	assert.Equal(t, 0, f.movRepo.Len())
	stock, _ := f.stockRepo.Get(context.Background(), "prod-costal", "wh-1", "")
	assert.True(t, stock.Quantity.Equal(qty("150")))
}

func TestCalculate_StockInsuficienteSoloSeInforma(t *testing.T) {
	f := newDefaultFixture(t)
	f.stockRepo.Seed("prod-costal", "wh-1", "", qty("50"))

	// El preview no falla por stock: reporta disponible y la bandera en falso.
	preview, err := f.uc.Calculate(context.Background(), defaultInput())
	require.NoError(t, err)
	assert.True(t, preview.AvailableStock.Equal(qty("50")))
	assert.False(t, preview.HasEnoughStock)
}

func TestCalculate_ConversionNoConfigurada(t *testing.T) {
	f := newDefaultFixture(t)
	f.stockRepo.Seed("prod-bolsa", "wh-1", "", qty("100"))

	// El par inverso bolsa -> costal no está en el catálogo.
	input := defaultInput()
	input.SourceProductID = "prod-bolsa"
	input.DestinationProductID = "prod-costal"
	_, err := f.uc.Calculate(context.Background(), input)
	assert.ErrorIs(t, err, domain.ErrConversionNotConfigured)
}

func TestExecute_Completa(t *testing.T) {
	f := newDefaultFixture(t)
	f.stockRepo.Seed("prod-costal", "wh-1", "", qty("150"))

	frac, err := f.uc.Execute(context.Background(), defaultInput())
	require.NoError(t, err)

	assert.Equal(t, entity.FractionationStatusCompleted, frac.Status)
	assert.Equal(t, int64(1), frac.FolioNumber)
	assert.True(t, frac.SourceQuantity.Equal(qty("100")))
	assert.True(t, frac.ProducedQuantity.Equal(qty("81")))
	assert.True(t, frac.WasteQuantity.Equal(qty("9")))
	// Fotografía del factor y la merma al momento de ejecutar.
	assert.True(t, frac.ConversionFactorUsed.Equal(qty("0.9")))
	assert.True(t, frac.WastePercentage.Equal(qty("10")))
	assert.NotEmpty(t, frac.ExitMovementID)
	assert.NotEmpty(t, frac.EntryMovementID)

	source, _ := f.stockRepo.Get(context.Background(), "prod-costal", "wh-1", "")
	dest, _ := f.stockRepo.Get(context.Background(), "prod-bolsa", "wh-1", "")
	assert.True(t, source.Quantity.Equal(qty("50")))
	assert.True(t, dest.Quantity.Equal(qty("81")))

	// Salida y entrada ligadas a la fracción en el libro.
	movements, err := f.movRepo.List(context.Background(), repository.MovementFilter{
		ReferenceType: entity.ReferenceTypeFractionation,
	})
	require.NoError(t, err)
	require.Len(t, movements, 2)
	for _, m := range movements {
		assert.Equal(t, frac.ID, m.ReferenceID)
		assert.Equal(t, entity.MovementStatusCompleted, m.Status)
	}
}

// El consumo es a nivel bodega: el stock guardado en ubicaciones nombradas
// también respalda la fracción.
func TestExecute_ConsumeStockDeUbicacionNombrada(t *testing.T) {
	f := newDefaultFixture(t)
	f.stockRepo.Seed("prod-costal", "wh-1", "loc-A", qty("150"))

	frac, err := f.uc.Execute(context.Background(), defaultInput())
	require.NoError(t, err)
	assert.True(t, frac.ProducedQuantity.Equal(qty("81")))

	locA, _ := f.stockRepo.Get(context.Background(), "prod-costal", "wh-1", "loc-A")
	assert.True(t, locA.Quantity.Equal(qty("50")), "loc-A = %s", locA.Quantity)
	dest, _ := f.stockRepo.Get(context.Background(), "prod-bolsa", "wh-1", "")
	assert.True(t, dest.Quantity.Equal(qty("81")))
}

func TestExecute_ConsumeVariasUbicacionesEnOrden(t *testing.T) {
	f := newDefaultFixture(t)
	f.stockRepo.Seed("prod-costal", "wh-1", "loc-A", qty("60"))
	f.stockRepo.Seed("prod-costal", "wh-1", "loc-B", qty("60"))

	_, err := f.uc.Execute(context.Background(), defaultInput())
	require.NoError(t, err)

	// loc-A (primera en orden de ubicación) se agota; el resto sale de loc-B.
	locA, _ := f.stockRepo.Get(context.Background(), "prod-costal", "wh-1", "loc-A")
	locB, _ := f.stockRepo.Get(context.Background(), "prod-costal", "wh-1", "loc-B")
	assert.True(t, locA.Quantity.IsZero(), "loc-A = %s", locA.Quantity)
	assert.True(t, locB.Quantity.Equal(qty("20")), "loc-B = %s", locB.Quantity)
}

// Las reservas no se consumen: el disponible por fila es quantity - reserved.
func TestExecute_RespetaReservasEnElConsumo(t *testing.T) {
	f := newDefaultFixture(t)
	require.NoError(t, f.stockRepo.Upsert(context.Background(), &entity.Stock{
		ProductID: "prod-costal", WarehouseID: "wh-1", LocationID: "loc-A",
		Quantity: qty("100"), ReservedQuantity: qty("30"),
	}))
	f.stockRepo.Seed("prod-costal", "wh-1", "loc-B", qty("40"))

	// Disponible: 70 en loc-A + 40 en loc-B = 110 >= 100.
	_, err := f.uc.Execute(context.Background(), defaultInput())
	require.NoError(t, err)

	locA, _ := f.stockRepo.Get(context.Background(), "prod-costal", "wh-1", "loc-A")
	locB, _ := f.stockRepo.Get(context.Background(), "prod-costal", "wh-1", "loc-B")
	assert.True(t, locA.Quantity.Equal(qty("30")), "loc-A = %s", locA.Quantity)
	assert.True(t, locA.ReservedQuantity.Equal(qty("30")))
	assert.True(t, locB.Quantity.Equal(qty("10")), "loc-B = %s", locB.Quantity)
}

func TestExecute_StockInsuficienteConDetalle(t *testing.T) {
	f := newDefaultFixture(t)
	// El detalle reporta el agregado de la bodega, ubicaciones incluidas.
	f.stockRepo.Seed("prod-costal", "wh-1", "loc-A", qty("30"))
	f.stockRepo.Seed("prod-costal", "wh-1", "loc-B", qty("20"))

	input := defaultInput()
	input.SourceQuantity = qty("60")
	_, err := f.uc.Execute(context.Background(), input)

	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	var detail *fractionation.InsufficientStockError
	require.ErrorAs(t, err, &detail)
	assert.True(t, detail.Available.Equal(qty("50")))
	assert.True(t, detail.Required.Equal(qty("60")))

	// Nada cambió.
	assert.Equal(t, 0, f.movRepo.Len())
	locA, _ := f.stockRepo.Get(context.Background(), "prod-costal", "wh-1", "loc-A")
	locB, _ := f.stockRepo.Get(context.Background(), "prod-costal", "wh-1", "loc-B")
	assert.True(t, locA.Quantity.Equal(qty("30")))
	assert.True(t, locB.Quantity.Equal(qty("20")))
	_, total, err := f.fracRepo.List(context.Background(), repository.FractionationFilter{})
	require.NoError(t, err)
	assert.Equal(t, 0, total)
}

func TestExecute_ConversionNoConfigurada(t *testing.T) {
	f := newDefaultFixture(t)
	f.stockRepo.Seed("prod-bolsa", "wh-1", "", qty("100"))

	input := defaultInput()
	input.SourceProductID = "prod-bolsa"
	input.DestinationProductID = "prod-costal"
	_, err := f.uc.Execute(context.Background(), input)
	assert.ErrorIs(t, err, domain.ErrConversionNotConfigured)
	assert.Equal(t, 0, f.movRepo.Len())
}

func TestExecute_EntradasInvalidas(t *testing.T) {
	f := newDefaultFixture(t)

	cases := []func(*fractionation.Input){
		func(in *fractionation.Input) { in.SourceQuantity = qty("0") },
		func(in *fractionation.Input) { in.SourceQuantity = qty("-10") },
		func(in *fractionation.Input) { in.DestinationProductID = in.SourceProductID },
		func(in *fractionation.Input) { in.WarehouseID = "" },
	}
	for _, mutate := range cases {
		input := defaultInput()
		mutate(&input)
		_, err := f.uc.Execute(context.Background(), input)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
}

func TestExecute_FoliosCrecientes(t *testing.T) {
	f := newDefaultFixture(t)
	f.stockRepo.Seed("prod-costal", "wh-1", "", qty("1000"))

	var lastFolio int64
	for i := 0; i < 3; i++ {
		frac, err := f.uc.Execute(context.Background(), defaultInput())
		require.NoError(t, err)
		assert.Greater(t, frac.FolioNumber, lastFolio)
		lastFolio = frac.FolioNumber
	}

	// Una ejecución fallida deja hueco pero no rompe la monotonía.
	bad := defaultInput()
	bad.SourceQuantity = qty("100000")
	_, err := f.uc.Execute(context.Background(), bad)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	frac, err := f.uc.Execute(context.Background(), defaultInput())
	require.NoError(t, err)
	assert.Greater(t, frac.FolioNumber, lastFolio)
}

// Folios únicos bajo ejecuciones concurrentes sobre la misma bodega.
func TestExecute_FoliosUnicosBajoConcurrencia(t *testing.T) {
	f := newDefaultFixture(t)
	const n = 20
	f.stockRepo.Seed("prod-costal", "wh-1", "", qty("200"))

	input := defaultInput()
	input.SourceQuantity = qty("10")

	var wg sync.WaitGroup
	type result struct {
		folio int64
		err   error
	}
	results := make(chan result, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			frac, err := f.uc.Execute(context.Background(), input)
			if err != nil {
				results <- result{err: err}
				return
			}
			results <- result{folio: frac.FolioNumber}
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[int64]bool, n)
	for r := range results {
		require.NoError(t, r.err)
		assert.False(t, seen[r.folio], "folio %d repetido", r.folio)
		assert.GreaterOrEqual(t, r.folio, int64(1))
		assert.LessOrEqual(t, r.folio, int64(n))
		seen[r.folio] = true
	}
	assert.Len(t, seen, n)

	stock, _ := f.stockRepo.Get(context.Background(), "prod-costal", "wh-1", "")
	assert.True(t, stock.Quantity.IsZero())
}

func TestExecute_ReintentoConLlaveIdempotente(t *testing.T) {
	f := newDefaultFixture(t)
	f.stockRepo.Seed("prod-costal", "wh-1", "", qty("150"))

	input := defaultInput()
	input.IdempotencyKey = "req-abc"

	first, err := f.uc.Execute(context.Background(), input)
	require.NoError(t, err)
	second, err := f.uc.Execute(context.Background(), input)
	require.NoError(t, err)

	// El reintento devuelve la misma fracción sin ejecutar de nuevo.
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.FolioNumber, second.FolioNumber)
	assert.Equal(t, 2, f.movRepo.Len())
	stock, _ := f.stockRepo.Get(context.Background(), "prod-costal", "wh-1", "")
	assert.True(t, stock.Quantity.Equal(qty("50")))
}

// injectingTxRunner reproduce la semántica transaccional del runner en memoria
// pero envuelve el repositorio de movimientos con una falla inyectada, para
// verificar que una falla a mitad de la fracción revierte todo.
type injectingTxRunner struct {
	repos        fixtureRepos
	failOnCreate int
}

type failingMovementRepo struct {
	repository.InventoryMovementRepository
	failOn int
	calls  int
}

func (r *failingMovementRepo) Create(ctx context.Context, m *entity.InventoryMovement) error {
	r.calls++
	if r.calls == r.failOn {
		return errors.New("fallo inyectado")
	}
	return r.InventoryMovementRepository.Create(ctx, m)
}

func (r *injectingTxRunner) Run(ctx context.Context, fn func(
	movRepo repository.InventoryMovementRepository,
	stockRepo repository.StockRepository,
) error) error {
	movSnap, stockSnap := r.repos.mov.Snapshot(), r.repos.stock.Snapshot()
	if err := fn(r.repos.mov, r.repos.stock); err != nil {
		r.repos.mov.Restore(movSnap)
		r.repos.stock.Restore(stockSnap)
		return err
	}
	return nil
}

func (r *injectingTxRunner) RunFractionation(ctx context.Context, fn func(
	movRepo repository.InventoryMovementRepository,
	stockRepo repository.StockRepository,
	fracRepo repository.FractionationRepository,
) error) error {
	movSnap, stockSnap := r.repos.mov.Snapshot(), r.repos.stock.Snapshot()
	fracSnap := r.repos.frac.Snapshot()
	wrapped := &failingMovementRepo{InventoryMovementRepository: r.repos.mov, failOn: r.failOnCreate}
	if err := fn(wrapped, r.repos.stock, r.repos.frac); err != nil {
		r.repos.mov.Restore(movSnap)
		r.repos.stock.Restore(stockSnap)
		r.repos.frac.Restore(fracSnap)
		return err
	}
	return nil
}

func TestExecute_FallaEntreSalidaYEntradaRevierteTodo(t *testing.T) {
	repos := newFixtureRepos()
	// La salida (Create #1) se confirma; la entrada (Create #2) falla.
	f := newFixture(t, &injectingTxRunner{repos: repos, failOnCreate: 2}, repos)
	f.stockRepo.Seed("prod-costal", "wh-1", "", qty("150"))

	_, err := f.uc.Execute(context.Background(), defaultInput())
	require.Error(t, err)

	// Sin fracciones parciales: ni movimientos, ni fila de fracción, stock intacto.
	assert.Equal(t, 0, f.movRepo.Len())
	_, total, listErr := f.fracRepo.List(context.Background(), repository.FractionationFilter{})
	require.NoError(t, listErr)
	assert.Equal(t, 0, total)
	stock, _ := f.stockRepo.Get(context.Background(), "prod-costal", "wh-1", "")
	assert.True(t, stock.Quantity.Equal(qty("150")))
}

func TestGet_NoExiste(t *testing.T) {
	f := newDefaultFixture(t)

	_, err := f.uc.Get(context.Background(), "frac-999", false)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGet_ConMovimientosLigados(t *testing.T) {
	f := newDefaultFixture(t)
	f.stockRepo.Seed("prod-costal", "wh-1", "", qty("150"))

	created, err := f.uc.Execute(context.Background(), defaultInput())
	require.NoError(t, err)

	frac, err := f.uc.Get(context.Background(), created.ID, true)
	require.NoError(t, err)
	require.NotNil(t, frac.ExitMovement)
	require.NotNil(t, frac.EntryMovement)
	assert.Equal(t, entity.MovementTypeExit, frac.ExitMovement.MovementType)
	assert.Equal(t, entity.MovementTypeEntry, frac.EntryMovement.MovementType)
	assert.True(t, frac.EntryMovement.Quantity.Equal(qty("81")))
}

func TestList_FiltraPorEstadoYPagina(t *testing.T) {
	f := newDefaultFixture(t)
	f.stockRepo.Seed("prod-costal", "wh-1", "", qty("1000"))

	for i := 0; i < 5; i++ {
		_, err := f.uc.Execute(context.Background(), defaultInput())
		require.NoError(t, err)
	}

	list, total, err := f.uc.List(context.Background(), repository.FractionationFilter{
		Status: entity.FractionationStatusCompleted,
		Limit:  2,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, list, 2)
	// Folio descendente: lo más reciente primero.
	assert.Greater(t, list[0].FolioNumber, list[1].FolioNumber)
}

func TestListDestinations(t *testing.T) {
	f := newDefaultFixture(t)

	list, err := f.uc.ListDestinations(context.Background(), "prod-costal")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "prod-bolsa", list[0].DestinationProductID)

	list, err = f.uc.ListDestinations(context.Background(), "prod-bolsa")
	require.NoError(t, err)
	assert.Empty(t, list)
}
