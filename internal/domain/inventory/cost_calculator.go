package inventory

import "github.com/shopspring/decimal"

// WeightedAverageCost costo promedio ponderado tras una entrada de mercancía (servicio de dominio).
// nuevoCosto = ((stock * costo) + (cantEntrada * costoEntrada)) / (stock + cantEntrada)
// Con stock negativo o nulo el costo de la entrada reemplaza al anterior. Redondeo a 2 decimales.
func WeightedAverageCost(stock int, cost decimal.Decimal, qtyIn int, unitCostIn decimal.Decimal) decimal.Decimal {
	if qtyIn <= 0 {
		return cost
	}
	if stock <= 0 {
		return unitCostIn.Round(2)
	}
	current := decimal.NewFromInt(int64(stock))
	incoming := decimal.NewFromInt(int64(qtyIn))
	num := current.Mul(cost).Add(incoming.Mul(unitCostIn))
	return num.Div(current.Add(incoming)).Round(2)
}
