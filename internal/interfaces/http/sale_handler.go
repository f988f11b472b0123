package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/application/dto"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/application/receipt"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/application/sales"
)

// SaleHandler maneja ventas, pagos, devoluciones y el recibo PDF (protegido).
type SaleHandler struct {
	uc      *sales.SaleUseCase
	receipt *receipt.ReceiptUseCase
}

// NewSaleHandler construye el handler. receiptUC puede ser nil (sin recibo PDF).
func NewSaleHandler(uc *sales.SaleUseCase, receiptUC *receipt.ReceiptUseCase) *SaleHandler {
	return &SaleHandler{uc: uc, receipt: receiptUC}
}

// Create godoc
// @Summary      Crear venta
// @Description  Valida el carrito, descuenta stock por variante, registra pagos y la cuenta por cobrar
//
//	en una sola transacción.
//
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleRequest  true  "Carrito, impuestos, descuento y pagos"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.CreateSale(c.Context(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener venta
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetSale(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List ventas recientes paginadas.
func (h *SaleHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.ListSales(c.Context(), pageFromQuery(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar venta
// @Description  Cambia descuento, impuesto, notas o estado y recalcula totales. pending → completed descuenta stock una vez.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID de la venta"
// @Param        body  body  dto.UpdateSaleRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.SaleResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [patch]
func (h *SaleHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateSaleRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.UpdateSale(c.Context(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// AddPayment godoc
// @Summary      Registrar pagos adicionales
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID de la venta"
// @Param        body  body  dto.AddPaymentRequest  true  "Líneas de pago"
// @Success      200   {object}  dto.SaleResponse
// @Failure      409   {object}  dto.ErrorResponse  "OVER_PAYMENT"
// @Router       /api/sales/{id}/payments [post]
func (h *SaleHandler) AddPayment(c *fiber.Ctx) error {
	var in dto.AddPaymentRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.AddPayment(c.Context(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CompleteDuePayment abona a la cuenta por cobrar de la venta.
func (h *SaleHandler) CompleteDuePayment(c *fiber.Ctx) error {
	var in dto.CompleteDueRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.CompleteDuePayment(c.Context(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Cancel anula la venta y repone el stock.
func (h *SaleHandler) Cancel(c *fiber.Ctx) error {
	out, err := h.uc.CancelSale(c.Context(), GetUserID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ProcessReturn godoc
// @Summary      Registrar devolución
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string             true  "ID de la venta"
// @Param        body  body  dto.ReturnRequest  true  "Líneas devueltas"
// @Success      201   {object}  dto.ReturnResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/returns [post]
func (h *SaleHandler) ProcessReturn(c *fiber.Ctx) error {
	var in dto.ReturnRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.ProcessReturn(c.Context(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// DownloadReceipt godoc
// @Summary      Recibo PDF de la venta
// @Tags         sales
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/receipt [get]
func (h *SaleHandler) DownloadReceipt(c *fiber.Ctx) error {
	if h.receipt == nil {
		return c.Status(fiber.StatusNotImplemented).JSON(dto.ErrorResponse{Code: "NOT_AVAILABLE", Message: "recibo PDF no configurado"})
	}
	pdf, filename, err := h.receipt.DownloadReceipt(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(pdf)
}
