package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateSaleRequest body para POST /api/sales.
// Si Payments va vacío y PaymentMethod es cash/card/mobile/gift se registra un pago por el total;
// con credit no se registra ningún pago.
type CreateSaleRequest struct {
	CustomerID    string               `json:"customer_id,omitempty"`
	CustomerName  string               `json:"customer_name,omitempty" validate:"max=200"`
	CustomerPhone string               `json:"customer_phone,omitempty" validate:"max=30"`
	Items         []SaleItemRequest    `json:"items" validate:"required,min=1,dive"`
	Discount      decimal.Decimal      `json:"discount"`
	Tax           decimal.Decimal      `json:"tax"`
	PaymentMethod string               `json:"payment_method" validate:"required,oneof=cash card mobile gift credit"`
	Payments      []PaymentLineRequest `json:"payments,omitempty" validate:"omitempty,dive"`
	Status        string               `json:"status,omitempty" validate:"omitempty,oneof=pending completed"`
	Notes         string               `json:"notes,omitempty"`
	OrderID       string               `json:"-"` // solo lo fija la conversión de pedidos
}

// SaleItemRequest línea del carrito. La variante se identifica por VariationID o por (Size, Color).
// UnitPrice nil → precio de venta del producto con el descuento vigente.
type SaleItemRequest struct {
	ProductID   string           `json:"product_id" validate:"required"`
	VariationID string           `json:"variation_id,omitempty"`
	Size        string           `json:"size,omitempty"`
	Color       string           `json:"color,omitempty"`
	Quantity    int              `json:"quantity" validate:"required,gt=0"`
	UnitPrice   *decimal.Decimal `json:"unit_price,omitempty"`
	Discount    decimal.Decimal  `json:"discount"`
}

// PaymentLineRequest línea de pago.
type PaymentLineRequest struct {
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method" validate:"required,oneof=cash card mobile gift"`
	TransactionID string          `json:"transaction_id,omitempty"`
	Notes         string          `json:"notes,omitempty"`
}

// UpdateSaleRequest body para PATCH /api/sales/:id. Solo se modifican los campos presentes.
type UpdateSaleRequest struct {
	Discount *decimal.Decimal `json:"discount,omitempty"`
	Tax      *decimal.Decimal `json:"tax,omitempty"`
	Notes    *string          `json:"notes,omitempty"`
	Status   *string          `json:"status,omitempty" validate:"omitempty,oneof=pending completed"`
}

// AddPaymentRequest body para POST /api/sales/:id/payments.
type AddPaymentRequest struct {
	Payments []PaymentLineRequest `json:"payments" validate:"required,min=1,dive"`
}

// CompleteDueRequest body para POST /api/sales/:id/due-payments.
type CompleteDueRequest struct {
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method" validate:"required,oneof=cash card mobile gift"`
	Notes         string          `json:"notes,omitempty"`
}

// ReturnRequest body para POST /api/sales/:id/returns.
type ReturnRequest struct {
	Reason string              `json:"reason" validate:"max=500"`
	Items  []ReturnLineRequest `json:"items" validate:"required,min=1,dive"`
}

// ReturnLineRequest unidades devueltas de una línea de venta.
type ReturnLineRequest struct {
	SaleItemID string `json:"sale_item_id" validate:"required"`
	Quantity   int    `json:"quantity" validate:"required,gt=0"`
}

// SaleResponse venta con líneas, pagos y cuenta por cobrar.
type SaleResponse struct {
	ID            string             `json:"id"`
	InvoiceNumber string             `json:"invoice_number"`
	CustomerID    string             `json:"customer_id,omitempty"`
	OrderID       string             `json:"order_id,omitempty"`
	Date          time.Time          `json:"date"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	Discount      decimal.Decimal    `json:"discount"`
	Tax           decimal.Decimal    `json:"tax"`
	Total         decimal.Decimal    `json:"total"`
	TotalProfit   decimal.Decimal    `json:"total_profit"`
	TotalLoss     decimal.Decimal    `json:"total_loss"`
	PaymentMethod string             `json:"payment_method"`
	Status        string             `json:"status"`
	AmountPaid    decimal.Decimal    `json:"amount_paid"`
	AmountDue     decimal.Decimal    `json:"amount_due"`
	GiftAmount    decimal.Decimal    `json:"gift_amount"`
	IsFullyPaid   bool               `json:"is_fully_paid"`
	PaymentStatus string             `json:"payment_status"`
	Notes         string             `json:"notes,omitempty"`
	Items         []SaleItemResponse `json:"items"`
	Payments      []PaymentResponse  `json:"payments"`
	Due           *DueResponse       `json:"due,omitempty"`
}

// SaleItemResponse línea de venta.
type SaleItemResponse struct {
	ID               string          `json:"id"`
	ProductID        string          `json:"product_id"`
	VariationID      string          `json:"variation_id,omitempty"`
	Size             string          `json:"size,omitempty"`
	Color            string          `json:"color,omitempty"`
	Quantity         int             `json:"quantity"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	Discount         decimal.Decimal `json:"discount"`
	Total            decimal.Decimal `json:"total"`
	Profit           decimal.Decimal `json:"profit"`
	Loss             decimal.Decimal `json:"loss"`
	ReturnedQuantity int             `json:"returned_quantity"`
}

// PaymentResponse línea de pago registrada.
type PaymentResponse struct {
	ID            string          `json:"id"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method"`
	Status        string          `json:"status"`
	TransactionID string          `json:"transaction_id,omitempty"`
	IsGiftPayment bool            `json:"is_gift_payment"`
	PaymentDate   time.Time       `json:"payment_date"`
}

// DueResponse cuenta por cobrar de la venta.
type DueResponse struct {
	ID              string          `json:"id"`
	AmountDue       decimal.Decimal `json:"amount_due"`
	AmountPaid      decimal.Decimal `json:"amount_paid"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
	DueDate         time.Time       `json:"due_date"`
	Status          string          `json:"status"`
}

// ReturnResponse devolución registrada.
type ReturnResponse struct {
	ID           string               `json:"id"`
	ReturnNumber string               `json:"return_number"`
	SaleID       string               `json:"sale_id"`
	Reason       string               `json:"reason,omitempty"`
	RefundAmount decimal.Decimal      `json:"refund_amount"`
	Items        []ReturnItemResponse `json:"items"`
	SaleStatus   string               `json:"sale_status"`
	CreatedAt    time.Time            `json:"created_at"`
}

// ReturnItemResponse línea de la devolución.
type ReturnItemResponse struct {
	SaleItemID string          `json:"sale_item_id"`
	Quantity   int             `json:"quantity"`
	Amount     decimal.Decimal `json:"amount"`
}

// SaleListResponse lista paginada de ventas (sin líneas).
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
