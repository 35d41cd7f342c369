package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-core/internal/application/dto"
	"github.com/jhoicas/stock-core/internal/application/inventory"
	"github.com/jhoicas/stock-core/internal/domain/repository"
)

// InventoryHandler maneja las peticiones HTTP del libro de movimientos y las
// consultas de stock. Lo consumen los demás flujos de negocio (compras,
// ventas, ajustes, traslados): nunca tocan las filas de stock directamente.
type InventoryHandler struct {
	ledger *inventory.LedgerUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(ledger *inventory.LedgerUseCase) *InventoryHandler {
	return &InventoryHandler{ledger: ledger}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de inventario
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "product_id, warehouse_id, movement_type, quantity; destination_* para transfer; adjustment_direction para adjustment"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "invalid_body", Message: "cuerpo inválido"})
	}
	movement, err := h.ledger.RecordMovement(c.Context(), inventory.MovementInput{
		UserID:                 c.Get("X-User-ID"),
		ProductID:              in.ProductID,
		WarehouseID:            in.WarehouseID,
		LocationID:             in.LocationID,
		DestinationWarehouseID: in.DestinationWarehouseID,
		DestinationLocationID:  in.DestinationLocationID,
		MovementType:           in.MovementType,
		AdjustmentDirection:    in.AdjustmentDirection,
		Quantity:               in.Quantity,
		UnitCost:               in.UnitCost,
		ReferenceType:          in.ReferenceType,
		ReferenceID:            in.ReferenceID,
		BatchInfo:              in.BatchInfo,
		Metadata:               in.Metadata,
		Notes:                  in.Notes,
		Draft:                  in.Draft,
	})
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewMovementResponse(movement))
}

// ListMovements godoc
// @Summary      Listar movimientos del libro
// @Tags         inventory
// @Produce      json
// @Param        warehouse_id   query  string  false  "Filtrar por bodega"
// @Param        product_id     query  string  false  "Filtrar por producto"
// @Param        movement_type  query  string  false  "entry, exit, transfer, adjustment"
// @Param        from           query  string  false  "Fecha inicial (RFC3339)"
// @Param        to             query  string  false  "Fecha final (RFC3339)"
// @Success      200  {array}  dto.MovementResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "validation", Message: "paginación inválida"})
	}
	page.DefaultPage()

	filter := repository.MovementFilter{
		WarehouseID:   c.Query("warehouse_id"),
		ProductID:     c.Query("product_id"),
		MovementType:  c.Query("movement_type"),
		ReferenceType: c.Query("reference_type"),
		Limit:         page.Limit,
		Offset:        page.Offset,
	}
	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "validation", Message: "fecha from inválida"})
		}
		filter.From = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "validation", Message: "fecha to inválida"})
		}
		filter.To = &t
	}

	list, err := h.ledger.ListMovements(c.Context(), filter)
	if err != nil {
		return respondDomainError(c, err)
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, dto.NewMovementResponse(m))
	}
	return c.JSON(fiber.Map{
		"movements": items,
		"page":      dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	})
}

// GetMovement godoc
// @Summary      Detalle de un movimiento
// @Tags         inventory
// @Produce      json
// @Param        id  path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements/{id} [get]
func (h *InventoryHandler) GetMovement(c *fiber.Ctx) error {
	m, err := h.ledger.GetMovement(c.Context(), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.NewMovementResponse(m))
}

// DeleteMovement godoc
// @Summary      Eliminar movimiento (solo borradores)
// @Description  Un movimiento completado es inmutable: la corrección es un movimiento compensatorio.
// @Tags         inventory
// @Param        id  path  string  true  "ID del movimiento"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements/{id} [delete]
func (h *InventoryHandler) DeleteMovement(c *fiber.Ctx) error {
	if err := h.ledger.DeleteMovement(c.Context(), c.Params("id")); err != nil {
		return respondDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetStock godoc
// @Summary      Filas de stock de un producto
// @Tags         stock
// @Produce      json
// @Param        product_id    query  string  true   "Producto"
// @Param        warehouse_id  query  string  false  "Bodega (vacío = todas)"
// @Success      200  {array}  dto.StockResponse
// @Router       /api/stock [get]
func (h *InventoryHandler) GetStock(c *fiber.Ctx) error {
	list, err := h.ledger.ListStock(c.Context(), c.Query("product_id"), c.Query("warehouse_id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	items := make([]dto.StockResponse, 0, len(list))
	for _, s := range list {
		items = append(items, dto.NewStockResponse(s))
	}
	return c.JSON(fiber.Map{"stock": items})
}

// AvailableStock godoc
// @Summary      Disponible agregado de un producto en una bodega
// @Tags         stock
// @Produce      json
// @Param        product_id    query  string  true  "Producto"
// @Param        warehouse_id  query  string  true  "Bodega"
// @Success      200  {object}  map[string]any
// @Router       /api/stock/available [get]
func (h *InventoryHandler) AvailableStock(c *fiber.Ctx) error {
	available, err := h.ledger.AvailableByWarehouse(c.Context(), c.Query("product_id"), c.Query("warehouse_id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(fiber.Map{
		"product_id":   c.Query("product_id"),
		"warehouse_id": c.Query("warehouse_id"),
		"available":    available,
	})
}

// Reserve godoc
// @Summary      Apartar cantidad disponible
// @Tags         stock
// @Accept       json
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/stock/reserve [post]
func (h *InventoryHandler) Reserve(c *fiber.Ctx) error {
	var in dto.ReservationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "invalid_body", Message: "cuerpo inválido"})
	}
	if err := h.ledger.Reserve(c.Context(), in.ProductID, in.WarehouseID, in.LocationID, in.Quantity); err != nil {
		return respondDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Release godoc
// @Summary      Liberar cantidad reservada
// @Tags         stock
// @Accept       json
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/stock/release [post]
func (h *InventoryHandler) Release(c *fiber.Ctx) error {
	var in dto.ReservationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "invalid_body", Message: "cuerpo inválido"})
	}
	if err := h.ledger.Release(c.Context(), in.ProductID, in.WarehouseID, in.LocationID, in.Quantity); err != nil {
		return respondDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
