package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaveDiscountRequest body para POST /api/discounts y PUT /api/discounts/:id.
type SaveDiscountRequest struct {
	Name             string          `json:"name" validate:"required,max=200"`
	Description      string          `json:"description"`
	Type             string          `json:"discount_type" validate:"required,oneof=APP_WIDE CATEGORY PRODUCT"`
	Value            decimal.Decimal `json:"value"`
	StartDate        time.Time       `json:"start_date" validate:"required"`
	EndDate          time.Time       `json:"end_date" validate:"required"`
	IsActive         *bool           `json:"is_active,omitempty"`
	CategoryID       string          `json:"category_id,omitempty"`
	OnlineCategoryID string          `json:"online_category_id,omitempty"`
	ProductID        string          `json:"product_id,omitempty"`
}

// DiscountResponse campaña de descuento.
type DiscountResponse struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Description      string          `json:"description,omitempty"`
	Type             string          `json:"discount_type"`
	Value            decimal.Decimal `json:"value"`
	StartDate        time.Time       `json:"start_date"`
	EndDate          time.Time       `json:"end_date"`
	IsActive         bool            `json:"is_active"`
	Status           string          `json:"status"`
	CategoryID       string          `json:"category_id,omitempty"`
	OnlineCategoryID string          `json:"online_category_id,omitempty"`
	ProductID        string          `json:"product_id,omitempty"`
}

// DiscountInfoResponse descuento aplicable a un producto (Discount nil si no hay).
type DiscountInfoResponse struct {
	ProductID string            `json:"product_id"`
	Discount  *DiscountResponse `json:"discount"`
}

// PriceResponse precio con descuento de un producto.
type PriceResponse struct {
	ProductID      string          `json:"product_id"`
	OriginalPrice  decimal.Decimal `json:"original_price"`
	DiscountPct    decimal.Decimal `json:"discount_pct"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	FinalPrice     decimal.Decimal `json:"final_price"`
	DiscountID     string          `json:"discount_id,omitempty"`
	DiscountType   string          `json:"discount_type,omitempty"`
}
