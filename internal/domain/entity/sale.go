package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una venta.
const (
	SaleStatusPending   = "pending"
	SaleStatusCompleted = "completed"
	SaleStatusCancelled = "cancelled"
	SaleStatusRefunded  = "refunded"
)

// Métodos de pago. "split" solo aparece en la cabecera cuando hay más de una línea de pago;
// "credit" no genera pago sintético (venta a crédito).
const (
	PaymentMethodCash   = "cash"
	PaymentMethodCard   = "card"
	PaymentMethodMobile = "mobile"
	PaymentMethodGift   = "gift"
	PaymentMethodCredit = "credit"
	PaymentMethodSplit  = "split"
)

// Estado de pago derivado de la venta.
const (
	PaymentStatusUnpaid  = "unpaid"
	PaymentStatusPartial = "partial"
	PaymentStatusPaid    = "paid"
)

// Sale cabecera de venta. Es dueña de sus SaleItem (composición).
type Sale struct {
	ID            string
	InvoiceNumber string
	CustomerID    string // vacío = venta de mostrador
	OrderID       string // pedido online de origen; vacío si se vendió en tienda
	Date          time.Time
	Subtotal      decimal.Decimal // antes de cualquier descuento
	Tax           decimal.Decimal
	Discount      decimal.Decimal // descuento a nivel de orden
	Total         decimal.Decimal
	TotalProfit   decimal.Decimal
	TotalLoss     decimal.Decimal
	PaymentMethod string
	Status        string
	AmountPaid    decimal.Decimal
	AmountDue     decimal.Decimal
	GiftAmount    decimal.Decimal
	IsFullyPaid   bool
	PaymentStatus string
	Notes         string
	CreatedBy     string
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Items    []*SaleItem
	Payments []*SalePayment
	Due      *DuePayment
}

// SaleItem línea de venta. Total = Quantity*UnitPrice - Discount.
type SaleItem struct {
	ID               string
	SaleID           string
	ProductID        string
	VariationID      string
	Size             string
	Color            string
	Quantity         int
	UnitPrice        decimal.Decimal
	Discount         decimal.Decimal // descuento de línea
	Total            decimal.Decimal
	Profit           decimal.Decimal
	Loss             decimal.Decimal
	ReturnedQuantity int
	CreatedAt        time.Time
}

// Gross devuelve UnitPrice*Quantity (antes del descuento de línea).
func (i *SaleItem) Gross() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Net devuelve el valor de la línea después de su propio descuento.
func (i *SaleItem) Net() decimal.Decimal {
	return i.Gross().Sub(i.Discount)
}

// RemainingQuantity unidades vendidas que aún no se han devuelto.
func (i *SaleItem) RemainingQuantity() int {
	return i.Quantity - i.ReturnedQuantity
}
