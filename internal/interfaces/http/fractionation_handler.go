package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-core/internal/application/dto"
	"github.com/jhoicas/stock-core/internal/application/fractionation"
	"github.com/jhoicas/stock-core/internal/domain/repository"
)

// FractionationHandler maneja las peticiones HTTP de fraccionamiento.
type FractionationHandler struct {
	uc *fractionation.UseCase
}

// NewFractionationHandler construye el handler.
func NewFractionationHandler(uc *fractionation.UseCase) *FractionationHandler {
	return &FractionationHandler{uc: uc}
}

// Calculate godoc
// @Summary      Preview de fracción (sin efectos)
// @Tags         fractionation
// @Accept       json
// @Produce      json
// @Param        body  body  dto.FractionationRequest  true  "source_product_id, destination_product_id, source_quantity, warehouse_id"
// @Success      200   {object}  dto.CalculateResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/fractionation/calculate [post]
func (h *FractionationHandler) Calculate(c *fiber.Ctx) error {
	var in dto.FractionationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "invalid_body", Message: "cuerpo inválido"})
	}
	preview, err := h.uc.Calculate(c.Context(), fractionation.Input{
		SourceProductID:      in.SourceProductID,
		DestinationProductID: in.DestinationProductID,
		WarehouseID:          in.WarehouseID,
		SourceQuantity:       in.SourceQuantity,
	})
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.CalculateResponse{
		ProducedQuantity: preview.ProducedQuantity,
		WasteQuantity:    preview.WasteQuantity,
		ConversionFactor: preview.ConversionFactor,
		WastePercentage:  preview.WastePercentage,
		AvailableStock:   preview.AvailableStock,
		HasEnoughStock:   preview.HasEnoughStock,
	})
}

// Execute godoc
// @Summary      Ejecutar fracción (transaccional)
// @Tags         fractionation
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string  false  "Llave para reintentos seguros"
// @Param        body  body  dto.FractionationRequest  true  "mismo cuerpo de calculate más notes opcional"
// @Success      201   {object}  dto.FractionationResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/fractionation/execute [post]
func (h *FractionationHandler) Execute(c *fiber.Ctx) error {
	var in dto.FractionationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "invalid_body", Message: "cuerpo inválido"})
	}
	frac, err := h.uc.Execute(c.Context(), fractionation.Input{
		SourceProductID:      in.SourceProductID,
		DestinationProductID: in.DestinationProductID,
		WarehouseID:          in.WarehouseID,
		SourceQuantity:       in.SourceQuantity,
		UserID:               c.Get("X-User-ID"),
		Notes:                in.Notes,
		IdempotencyKey:       c.Get("Idempotency-Key"),
	})
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewFractionationResponse(frac))
}

// List godoc
// @Summary      Histórico de fracciones
// @Tags         fractionation
// @Produce      json
// @Param        status   query  string  false  "pending, completed o cancelled"
// @Param        include  query  string  false  "movements para incluir los movimientos ligados"
// @Param        limit    query  int     false  "Tamaño de página"
// @Param        offset   query  int     false  "Desplazamiento"
// @Success      200  {object}  map[string]any
// @Router       /api/fractionations [get]
func (h *FractionationHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "validation", Message: "paginación inválida"})
	}
	page.DefaultPage()

	list, total, err := h.uc.List(c.Context(), repository.FractionationFilter{
		Status:           c.Query("status"),
		SourceProductID:  c.Query("source_product_id"),
		WarehouseID:      c.Query("warehouse_id"),
		IncludeMovements: c.Query("include") == "movements",
		Limit:            page.Limit,
		Offset:           page.Offset,
	})
	if err != nil {
		return respondDomainError(c, err)
	}
	items := make([]dto.FractionationResponse, 0, len(list))
	for _, f := range list {
		items = append(items, dto.NewFractionationResponse(f))
	}
	return c.JSON(fiber.Map{
		"fractionations": items,
		"page":           dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	})
}

// GetByID godoc
// @Summary      Detalle de una fracción
// @Tags         fractionation
// @Produce      json
// @Param        id       path   string  true   "ID de la fracción"
// @Param        include  query  string  false  "movements"
// @Success      200  {object}  dto.FractionationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/fractionations/{id} [get]
func (h *FractionationHandler) GetByID(c *fiber.Ctx) error {
	frac, err := h.uc.Get(c.Context(), c.Params("id"), c.Query("include") == "movements")
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.NewFractionationResponse(frac))
}

// ListDestinations godoc
// @Summary      Presentaciones destino disponibles para un producto origen
// @Description  Puebla el combo de destinos en la pantalla de fraccionamiento.
// @Tags         fractionation
// @Produce      json
// @Param        source_product_id  query  string  true  "Producto origen"
// @Success      200  {array}  dto.ConversionResponse
// @Router       /api/fractionation/destinations [get]
func (h *FractionationHandler) ListDestinations(c *fiber.Ctx) error {
	list, err := h.uc.ListDestinations(c.Context(), c.Query("source_product_id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	items := make([]dto.ConversionResponse, 0, len(list))
	for _, conv := range list {
		items = append(items, dto.NewConversionResponse(conv))
	}
	return c.JSON(fiber.Map{"destinations": items})
}
