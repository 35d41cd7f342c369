package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-core/internal/application/catalog"
	"github.com/jhoicas/stock-core/internal/application/dto"
)

// ConversionHandler maneja el mantenimiento del catálogo de conversiones.
type ConversionHandler struct {
	uc *catalog.ConversionUseCase
}

// NewConversionHandler construye el handler.
func NewConversionHandler(uc *catalog.ConversionUseCase) *ConversionHandler {
	return &ConversionHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar conversión origen -> destino
// @Tags         conversions
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateConversionRequest  true  "par de productos, factor y merma"
// @Success      201   {object}  dto.ConversionResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/conversions [post]
func (h *ConversionHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateConversionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "invalid_body", Message: "cuerpo inválido"})
	}
	conversion, err := h.uc.Create(c.Context(), catalog.CreateInput{
		SourceProductID:      in.SourceProductID,
		DestinationProductID: in.DestinationProductID,
		ConversionFactor:     in.ConversionFactor,
		WastePercentage:      in.WastePercentage,
	})
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewConversionResponse(conversion))
}

// ListBySource godoc
// @Summary      Conversiones activas de un producto origen
// @Tags         conversions
// @Produce      json
// @Param        source_product_id  query  string  true  "Producto origen"
// @Success      200  {array}  dto.ConversionResponse
// @Router       /api/conversions [get]
func (h *ConversionHandler) ListBySource(c *fiber.Ctx) error {
	list, err := h.uc.ListBySource(c.Context(), c.Query("source_product_id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	items := make([]dto.ConversionResponse, 0, len(list))
	for _, conversion := range list {
		items = append(items, dto.NewConversionResponse(conversion))
	}
	return c.JSON(fiber.Map{"conversions": items})
}

// Deactivate godoc
// @Summary      Retirar conversión del catálogo
// @Description  Las fracciones ya ejecutadas conservan su fotografía del factor.
// @Tags         conversions
// @Param        id  path  string  true  "ID de la conversión"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/conversions/{id}/deactivate [patch]
func (h *ConversionHandler) Deactivate(c *fiber.Ctx) error {
	if err := h.uc.Deactivate(c.Context(), c.Params("id")); err != nil {
		return respondDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
