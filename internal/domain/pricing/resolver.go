// Package pricing resuelve el descuento aplicable a un producto y el precio con descuento.
package pricing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain/entity"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain/money"
)

// IsApplicable: activo y now dentro de [StartDate, EndDate].
func IsApplicable(d *entity.Discount, now time.Time) bool {
	if d == nil || !d.IsActive {
		return false
	}
	return !now.Before(d.StartDate) && !now.After(d.EndDate)
}

// Resolve devuelve el único descuento aplicable a p, en orden estricto de prioridad:
//  1. PRODUCT que referencia al producto (primera coincidencia)
//  2. CATEGORY cuya categoría u online-categoría coincide (mayor valor)
//  3. APP_WIDE de mayor valor
//
// Devuelve nil si ninguno aplica.
func Resolve(p *entity.Product, discounts []*entity.Discount, now time.Time) *entity.Discount {
	if p == nil {
		return nil
	}
	var category, appWide *entity.Discount
	for _, d := range discounts {
		if !IsApplicable(d, now) {
			continue
		}
		switch d.Type {
		case entity.DiscountTypeProduct:
			if d.ProductID != "" && d.ProductID == p.ID {
				return d
			}
		case entity.DiscountTypeCategory:
			if matchesCategory(d, p) && (category == nil || d.Value.GreaterThan(category.Value)) {
				category = d
			}
		case entity.DiscountTypeAppWide:
			if appWide == nil || d.Value.GreaterThan(appWide.Value) {
				appWide = d
			}
		}
	}
	if category != nil {
		return category
	}
	return appWide
}

func matchesCategory(d *entity.Discount, p *entity.Product) bool {
	if d.CategoryID != "" && d.CategoryID == p.CategoryID {
		return true
	}
	return d.OnlineCategoryID != "" && d.OnlineCategoryID == p.OnlineCategoryID
}

// DiscountedPrice aplica pct sobre price una sola vez:
//
//	amount = round2(price * pct / 100)
//	final  = round2(price - amount)
func DiscountedPrice(price, pct decimal.Decimal) (amount, final decimal.Decimal) {
	amount = money.Round2(money.Percent(price, pct))
	final = money.Round2(price.Sub(amount))
	return amount, final
}
