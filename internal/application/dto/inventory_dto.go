package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockMovementRequest body para POST /api/inventory/movements.
// Direction solo aplica a ADJ (increase | decrease). UnitCost solo aplica a IN: recalcula el
// costo del producto por promedio ponderado.
type StockMovementRequest struct {
	ProductID       string           `json:"product_id" validate:"required"`
	VariationID     string           `json:"variation_id,omitempty"`
	Type            string           `json:"type" validate:"required,oneof=IN OUT GIFT ADJ"`
	Quantity        int              `json:"quantity" validate:"required,gt=0"`
	Direction       string           `json:"direction,omitempty" validate:"omitempty,oneof=increase decrease"`
	ReferenceNumber string           `json:"reference_number,omitempty" validate:"max=100"`
	Notes           string           `json:"notes,omitempty"`
	UnitCost        *decimal.Decimal `json:"unit_cost,omitempty"`
}

// StockMovementResponse fila del libro de stock.
type StockMovementResponse struct {
	ID              string    `json:"id"`
	ProductID       string    `json:"product_id"`
	VariationID     string    `json:"variation_id,omitempty"`
	Type            string    `json:"type"`
	Quantity        int       `json:"quantity"`
	Delta           int       `json:"delta"`
	ReferenceNumber string    `json:"reference_number,omitempty"`
	Notes           string    `json:"notes,omitempty"`
	CreatedBy       string    `json:"created_by,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	// Stock resultante tras aplicar el movimiento.
	VariationStock *int `json:"variation_stock,omitempty"`
	ProductStock   int  `json:"product_stock"`
}

// StockAlertResponse alerta de stock bajo o agotado.
type StockAlertResponse struct {
	ID           string    `json:"id"`
	ProductID    string    `json:"product_id"`
	VariationID  string    `json:"variation_id,omitempty"`
	Level        string    `json:"level"`
	Stock        int       `json:"stock"`
	MinimumStock int       `json:"minimum_stock"`
	MovementID   string    `json:"movement_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
