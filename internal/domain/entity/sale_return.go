package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleReturn devolución parcial o total de una venta; repone stock con movimientos IN.
type SaleReturn struct {
	ID           string
	ReturnNumber string // RET-XXXXXXXX
	SaleID       string
	Reason       string
	RefundAmount decimal.Decimal
	CreatedBy    string
	CreatedAt    time.Time
	Items        []*SaleReturnItem
}

// SaleReturnItem unidades devueltas de una línea de venta.
type SaleReturnItem struct {
	ID         string
	ReturnID   string
	SaleItemID string
	Quantity   int
	Amount     decimal.Decimal
}
