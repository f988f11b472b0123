package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo.
// StockQuantity es derivado: para productos con variantes se recalcula como la suma del stock
// de sus variantes después de cada movimiento; no es fuente de verdad.
type Product struct {
	ID               string
	Name             string
	SKU              string
	CategoryID       string // vacío si no tiene categoría de tienda
	OnlineCategoryID string // vacío si no tiene categoría online
	CostPrice        decimal.Decimal
	SellingPrice     decimal.Decimal
	StockQuantity    int
	MinimumStock     int // umbral para alertas de stock bajo
	IsActive         bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ProductVariation es la combinación (producto, talla, color); dueña del stock real de la variante.
// Invariante: Stock >= 0.
type ProductVariation struct {
	ID        string
	ProductID string
	Size      string
	Color     string
	Stock     int
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
