package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateOrderRequest body para POST /api/orders (preorden o pedido online).
type CreateOrderRequest struct {
	Source        string             `json:"source" validate:"required,oneof=preorder online"`
	CustomerName  string             `json:"customer_name" validate:"required,max=200"`
	CustomerPhone string             `json:"customer_phone" validate:"required,max=30"`
	CustomerEmail string             `json:"customer_email,omitempty" validate:"omitempty,email"`
	Items         []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	Notes         string             `json:"notes,omitempty"`
}

// OrderItemRequest línea del pedido; el precio queda congelado al crear el pedido.
type OrderItemRequest struct {
	ProductID   string           `json:"product_id" validate:"required"`
	VariationID string           `json:"variation_id,omitempty"`
	Size        string           `json:"size,omitempty"`
	Color       string           `json:"color,omitempty"`
	Quantity    int              `json:"quantity" validate:"required,gt=0"`
	UnitPrice   *decimal.Decimal `json:"unit_price,omitempty"`
	Discount    decimal.Decimal  `json:"discount"`
}

// UpdateOrderStatusRequest body para PATCH /api/orders/:id/status.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed processing completed cancelled"`
}

// OrderResponse pedido con su estado de conversión.
type OrderResponse struct {
	ID            string              `json:"id"`
	Source        string              `json:"source"`
	CustomerName  string              `json:"customer_name"`
	CustomerPhone string              `json:"customer_phone"`
	CustomerEmail string              `json:"customer_email,omitempty"`
	Status        string              `json:"status"`
	Items         []OrderItemResponse `json:"items"`
	TotalAmount   decimal.Decimal     `json:"total_amount"`
	Notes         string              `json:"notes,omitempty"`
	Conversion    *ConversionResponse `json:"conversion,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// OrderItemResponse línea congelada del pedido.
type OrderItemResponse struct {
	ProductID   string          `json:"product_id"`
	VariationID string          `json:"variation_id,omitempty"`
	Size        string          `json:"size,omitempty"`
	Color       string          `json:"color,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Discount    decimal.Decimal `json:"discount"`
}

// ConversionResponse estado de la conversión pedido → venta.
type ConversionResponse struct {
	Status       string    `json:"status"`
	SaleID       string    `json:"sale_id,omitempty"`
	ErrorMessage string    `json:"error_message,omitempty"`
	Attempts     int       `json:"attempts"`
	UpdatedAt    time.Time `json:"updated_at"`
}
