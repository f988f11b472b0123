package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una línea de pago.
const (
	PaymentLineCompleted = "completed"
	PaymentLinePending   = "pending"
	PaymentLineFailed    = "failed"
)

// SalePayment una de las posibles líneas de pago de una venta (modelo de acumulación).
type SalePayment struct {
	ID            string
	SaleID        string
	Amount        decimal.Decimal
	PaymentMethod string // cash, card, mobile, gift
	Status        string
	TransactionID string
	IsGiftPayment bool
	Notes         string
	PaymentDate   time.Time
	CreatedAt     time.Time
}

// Estados de una cuenta por cobrar.
const (
	DueStatusPending = "pending"
	DueStatusPartial = "partial"
	DueStatusPaid    = "paid"
)

// DuePayment saldo pendiente de una venta con su propia fecha de vencimiento.
type DuePayment struct {
	ID         string
	SaleID     string
	CustomerID string
	AmountDue  decimal.Decimal
	AmountPaid decimal.Decimal
	DueDate    time.Time
	Status     string
	Notes      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// RemainingAmount = AmountDue - AmountPaid (derivado, solo lectura).
func (d *DuePayment) RemainingAmount() decimal.Decimal {
	return d.AmountDue.Sub(d.AmountPaid)
}
