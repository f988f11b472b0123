package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/application/dto"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/application/inventory"
)

// InventoryHandler maneja los movimientos de stock y las alertas (protegido).
type InventoryHandler struct {
	ledger *inventory.StockLedgerUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(ledger *inventory.StockLedgerUseCase) *InventoryHandler {
	return &InventoryHandler{ledger: ledger}
}

// AddMovement godoc
// @Summary      Registrar movimiento de stock
// @Description  IN suma, OUT y GIFT restan, ADJ usa direction (increase | decrease).
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockMovementRequest  true  "product_id, variation_id, type, quantity"
// @Success      201   {object}  dto.StockMovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) AddMovement(c *fiber.Ctx) error {
	var in dto.StockMovementRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	out, err := h.ledger.AddStockMovement(c.Context(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListMovements historial del producto, más reciente primero.
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	out, err := h.ledger.ListMovements(c.Context(), c.Params("id"), pageFromQuery(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListAlerts godoc
// @Summary      Alertas de stock bajo o agotado
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "Límite"  default(50)
// @Success      200  {array}  dto.StockAlertResponse
// @Router       /api/inventory/alerts [get]
func (h *InventoryHandler) ListAlerts(c *fiber.Ctx) error {
	out, err := h.ledger.ListAlerts(c.Context(), c.QueryInt("limit", 50))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(out), "alerts": out})
}

// RecalculateStock reconcilia stock_quantity con la suma de variantes.
func (h *InventoryHandler) RecalculateStock(c *fiber.Ctx) error {
	productID := c.Params("id")
	stock, err := h.ledger.RecalculateProductStock(c.Context(), productID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"product_id": productID, "stock_quantity": stock})
}
