package sales

import (
	"github.com/shopspring/decimal"

	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain/entity"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain/money"
)

// IsImmediateMethod indica si el método liquida la venta en el acto (se sintetiza un pago por el total).
func IsImmediateMethod(method string) bool {
	switch method {
	case entity.PaymentMethodCash, entity.PaymentMethodCard, entity.PaymentMethodMobile, entity.PaymentMethodGift:
		return true
	}
	return false
}

// IsValidSaleMethod métodos aceptados en la cabecera al crear una venta.
func IsValidSaleMethod(method string) bool {
	return IsImmediateMethod(method) || method == entity.PaymentMethodCredit
}

// HeaderMethod deriva el método de la cabecera a partir de las líneas de pago:
// una línea → su método; varias → split; ninguna → fallback.
func HeaderMethod(payments []*entity.SalePayment, fallback string) string {
	switch len(payments) {
	case 0:
		return fallback
	case 1:
		return payments[0].PaymentMethod
	default:
		return entity.PaymentMethodSplit
	}
}

// ApplyPaymentState recalcula amount_paid, amount_due, gift_amount, is_fully_paid y payment_status.
// Solo cuentan los pagos completados. Los pagos de regalo se acumulan en GiftAmount:
//
//	amount_paid = Σ pagos completados no-regalo + gift_amount
//	amount_due  = max(0, total - amount_paid)
func ApplyPaymentState(sale *entity.Sale, payments []*entity.SalePayment) {
	paid := decimal.Zero
	gift := decimal.Zero
	for _, p := range payments {
		if p.Status != entity.PaymentLineCompleted {
			continue
		}
		if p.IsGiftPayment {
			gift = gift.Add(p.Amount)
			continue
		}
		paid = paid.Add(p.Amount)
	}
	sale.GiftAmount = gift
	sale.AmountPaid = paid.Add(gift)
	sale.AmountDue = money.Max(decimal.Zero, sale.Total.Sub(sale.AmountPaid))
	sale.IsFullyPaid = sale.AmountDue.IsZero()
	sale.PaymentStatus = PaymentStatus(sale.Total, sale.AmountPaid)
}

// PaymentStatus unpaid / partial / paid según lo cobrado contra el total.
func PaymentStatus(total, paid decimal.Decimal) string {
	switch {
	case paid.GreaterThanOrEqual(total):
		return entity.PaymentStatusPaid
	case paid.GreaterThan(decimal.Zero):
		return entity.PaymentStatusPartial
	default:
		return entity.PaymentStatusUnpaid
	}
}

// DueStatus estado de la cuenta por cobrar según lo abonado.
func DueStatus(d *entity.DuePayment) string {
	switch {
	case !d.RemainingAmount().GreaterThan(decimal.Zero):
		return entity.DueStatusPaid
	case d.AmountPaid.GreaterThan(decimal.Zero):
		return entity.DueStatusPartial
	default:
		return entity.DueStatusPending
	}
}
