// Package money concentra el redondeo monetario: decimal de punto fijo con 2 decimales.
package money

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Round2 redondea a 2 decimales, mitad hacia arriba (para montos positivos).
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Percent devuelve amount * pct / 100 sin redondear.
func Percent(amount, pct decimal.Decimal) decimal.Decimal {
	return amount.Mul(pct).Div(hundred)
}

// Max devuelve el mayor de a y b.
func Max(a, b decimal.Decimal) decimal.Decimal {
	if a.GreaterThan(b) {
		return a
	}
	return b
}

// Hundred 100.00, tope de los porcentajes.
func Hundred() decimal.Decimal { return hundred }
