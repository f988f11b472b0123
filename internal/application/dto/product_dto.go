package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
// Variations opcional: un producto sin variantes lleva su stock en InitialStock.
type CreateProductRequest struct {
	SKU              string                   `json:"sku" validate:"required,min=1,max=100"`
	Name             string                   `json:"name" validate:"required,min=1,max=200"`
	CategoryID       string                   `json:"category_id"`
	OnlineCategoryID string                   `json:"online_category_id"`
	CostPrice        decimal.Decimal          `json:"cost_price"`
	SellingPrice     decimal.Decimal          `json:"selling_price"`
	MinimumStock     int                      `json:"minimum_stock" validate:"min=0"`
	InitialStock     int                      `json:"initial_stock" validate:"min=0"`
	Variations       []CreateVariationRequest `json:"variations" validate:"omitempty,dive"`
}

// CreateVariationRequest variante (talla, color) con su stock inicial.
type CreateVariationRequest struct {
	Size  string `json:"size" validate:"required,max=50"`
	Color string `json:"color" validate:"required,max=50"`
	Stock int    `json:"stock" validate:"min=0"`
}

// ProductResponse salida de un producto con sus variantes.
type ProductResponse struct {
	ID               string              `json:"id"`
	SKU              string              `json:"sku"`
	Name             string              `json:"name"`
	CategoryID       string              `json:"category_id,omitempty"`
	OnlineCategoryID string              `json:"online_category_id,omitempty"`
	CostPrice        decimal.Decimal     `json:"cost_price"`
	SellingPrice     decimal.Decimal     `json:"selling_price"`
	StockQuantity    int                 `json:"stock_quantity"`
	MinimumStock     int                 `json:"minimum_stock"`
	IsActive         bool                `json:"is_active"`
	Variations       []VariationResponse `json:"variations"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

// VariationResponse variante en respuestas.
type VariationResponse struct {
	ID       string `json:"id"`
	Size     string `json:"size"`
	Color    string `json:"color"`
	Stock    int    `json:"stock"`
	IsActive bool   `json:"is_active"`
}
