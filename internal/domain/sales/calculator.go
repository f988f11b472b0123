// Package sales contiene la lógica pura del agregado Venta: totales, reparto del descuento
// de orden entre líneas, ganancia/pérdida por línea y estado de pago.
package sales

import (
	"github.com/shopspring/decimal"

	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain/entity"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain/money"
)

// ItemAllocation detalle del reparto para una línea (misma posición que sale.Items).
type ItemAllocation struct {
	Proportion         decimal.Decimal
	OrderDiscountShare decimal.Decimal
	FinalRevenue       decimal.Decimal
	Cost               decimal.Decimal
	Profit             decimal.Decimal
	Loss               decimal.Decimal
}

// Totals resultado del cálculo; también se copia sobre la venta.
type Totals struct {
	Subtotal           decimal.Decimal
	ItemDiscountTotal  decimal.Decimal
	AfterItemDiscounts decimal.Decimal
	Total              decimal.Decimal
	TotalProfit        decimal.Decimal
	TotalLoss          decimal.Decimal
	Items              []ItemAllocation
}

// ApplySaleItem fija el total de la línea: Quantity*UnitPrice - Discount.
func ApplySaleItem(item *entity.SaleItem) {
	item.Total = money.Round2(item.Net())
}

// CalculateTotals recalcula subtotal, total y ganancia/pérdida de la venta a partir de sus líneas.
// costs mapea ProductID → precio de costo. No tiene efectos fuera de sale; llamarla dos veces con
// las mismas entradas produce los mismos valores.
//
//	subtotal = Σ unit_price*qty (antes de descuentos)
//	total    = subtotal - Σ descuentos de línea - descuento de orden + impuesto
//
// El descuento de orden se reparte entre líneas en proporción a su valor neto.
func CalculateTotals(sale *entity.Sale, costs map[string]decimal.Decimal) Totals {
	var t Totals
	t.Items = make([]ItemAllocation, len(sale.Items))

	for _, item := range sale.Items {
		ApplySaleItem(item)
		t.Subtotal = t.Subtotal.Add(item.Gross())
		t.ItemDiscountTotal = t.ItemDiscountTotal.Add(item.Discount)
	}
	t.AfterItemDiscounts = t.Subtotal.Sub(t.ItemDiscountTotal)
	t.Total = money.Round2(t.AfterItemDiscounts.Sub(sale.Discount).Add(sale.Tax))

	for i, item := range sale.Items {
		net := item.Net()
		a := ItemAllocation{Proportion: decimal.Zero}
		if !t.AfterItemDiscounts.IsZero() {
			a.Proportion = net.Div(t.AfterItemDiscounts)
		}
		a.OrderDiscountShare = sale.Discount.Mul(a.Proportion)
		a.FinalRevenue = net.Sub(a.OrderDiscountShare)
		a.Cost = costs[item.ProductID].Mul(decimal.NewFromInt(int64(item.Quantity)))

		delta := a.FinalRevenue.Sub(a.Cost)
		if delta.GreaterThanOrEqual(decimal.Zero) {
			a.Profit = money.Round2(delta)
			a.Loss = decimal.Zero
		} else {
			a.Profit = decimal.Zero
			a.Loss = money.Round2(delta.Abs())
		}
		item.Profit = a.Profit
		item.Loss = a.Loss

		t.TotalProfit = t.TotalProfit.Add(a.Profit)
		t.TotalLoss = t.TotalLoss.Add(a.Loss)
		t.Items[i] = a
	}

	sale.Subtotal = money.Round2(t.Subtotal)
	sale.Total = t.Total
	sale.TotalProfit = t.TotalProfit
	sale.TotalLoss = t.TotalLoss
	return t
}

// ReturnAmount importe a reembolsar por qty unidades de item: la parte proporcional del ingreso
// final de la línea (neto menos su cuota del descuento de orden).
func ReturnAmount(sale *entity.Sale, item *entity.SaleItem, qty int) decimal.Decimal {
	if item.Quantity <= 0 || qty <= 0 {
		return decimal.Zero
	}
	afterItem := decimal.Zero
	for _, it := range sale.Items {
		afterItem = afterItem.Add(it.Net())
	}
	revenue := item.Net()
	if !afterItem.IsZero() {
		revenue = revenue.Sub(sale.Discount.Mul(item.Net().Div(afterItem)))
	}
	return money.Round2(revenue.Mul(decimal.NewFromInt(int64(qty))).Div(decimal.NewFromInt(int64(item.Quantity))))
}
