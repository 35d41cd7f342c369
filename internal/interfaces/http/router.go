package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-core/internal/application/catalog"
	"github.com/jhoicas/stock-core/internal/application/fractionation"
	"github.com/jhoicas/stock-core/internal/application/inventory"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Ledger        *inventory.LedgerUseCase
	Fractionation *fractionation.UseCase
	Conversions   *catalog.ConversionUseCase
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Libro de movimientos y stock
	inventoryHandler := NewInventoryHandler(deps.Ledger)
	movements := api.Group("/inventory/movements")
	movements.Post("/", inventoryHandler.RegisterMovement)
	movements.Get("/", inventoryHandler.ListMovements)
	movements.Get("/:id", inventoryHandler.GetMovement)
	movements.Delete("/:id", inventoryHandler.DeleteMovement)

	stock := api.Group("/stock")
	stock.Get("/", inventoryHandler.GetStock)
	stock.Get("/available", inventoryHandler.AvailableStock)
	stock.Post("/reserve", inventoryHandler.Reserve)
	stock.Post("/release", inventoryHandler.Release)

	// Fraccionamiento
	fractionationHandler := NewFractionationHandler(deps.Fractionation)
	api.Post("/fractionation/calculate", fractionationHandler.Calculate)
	api.Post("/fractionation/execute", fractionationHandler.Execute)
	api.Get("/fractionation/destinations", fractionationHandler.ListDestinations)
	api.Get("/fractionations", fractionationHandler.List)
	api.Get("/fractionations/:id", fractionationHandler.GetByID)

	// Catálogo de conversiones
	conversionHandler := NewConversionHandler(deps.Conversions)
	conversions := api.Group("/conversions")
	conversions.Post("/", conversionHandler.Create)
	conversions.Get("/", conversionHandler.ListBySource)
	conversions.Patch("/:id/deactivate", conversionHandler.Deactivate)
}
