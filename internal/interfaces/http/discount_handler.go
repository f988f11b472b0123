package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/application/dto"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/application/pricing"
)

// DiscountHandler administra campañas de descuento y resuelve precios.
type DiscountHandler struct {
	uc *pricing.DiscountUseCase
}

// NewDiscountHandler construye el handler.
func NewDiscountHandler(uc *pricing.DiscountUseCase) *DiscountHandler {
	return &DiscountHandler{uc: uc}
}

// Create godoc
// @Summary      Crear descuento
// @Tags         discounts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SaveDiscountRequest  true  "Campaña"
// @Success      201   {object}  dto.DiscountResponse
// @Failure      422   {object}  dto.ErrorResponse  "INVALID_DISCOUNT"
// @Router       /api/discounts [post]
func (h *DiscountHandler) Create(c *fiber.Ctx) error {
	var in dto.SaveDiscountRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.SaveDiscount(c.Context(), "", in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update reemplaza la campaña :id.
func (h *DiscountHandler) Update(c *fiber.Ctx) error {
	var in dto.SaveDiscountRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.SaveDiscount(c.Context(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

func (h *DiscountHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetDiscount(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

func (h *DiscountHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.ListDiscounts(c.Context(), pageFromQuery(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Resolve godoc
// @Summary      Descuento vigente de un producto
// @Description  Prioridad PRODUCT > CATEGORY > APP_WIDE.
// @Tags         discounts
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.DiscountInfoResponse
// @Router       /api/products/{id}/discount [get]
func (h *DiscountHandler) Resolve(c *fiber.Ctx) error {
	out, err := h.uc.ResolveDiscount(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Price godoc
// @Summary      Precio con descuento de un producto
// @Tags         discounts
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.PriceResponse
// @Router       /api/products/{id}/price [get]
func (h *DiscountHandler) Price(c *fiber.Ctx) error {
	out, err := h.uc.PriceWithDiscount(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
