package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Origen del pedido.
const (
	OrderSourcePreorder = "preorder"
	OrderSourceOnline   = "online"
)

// Estados del pedido. OrderStatusCompleted es terminal y dispara la conversión a venta.
const (
	OrderStatusPending    = "pending"
	OrderStatusConfirmed  = "confirmed"
	OrderStatusProcessing = "processing"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

// Order preorden o pedido online. Items es una foto del pedido (precios del momento del pedido).
type Order struct {
	ID            string
	Source        string
	CustomerName  string
	CustomerPhone string
	CustomerEmail string
	Status        string
	Items         []OrderItem
	TotalAmount   decimal.Decimal
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// OrderItem línea congelada del pedido.
type OrderItem struct {
	ProductID   string          `json:"product_id"`
	VariationID string          `json:"variation_id,omitempty"`
	Size        string          `json:"size,omitempty"`
	Color       string          `json:"color,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Discount    decimal.Decimal `json:"discount"`
}

// Estados de la conversión pedido → venta.
const (
	ConversionPending = "PENDING"
	ConversionSuccess = "SUCCESS"
	ConversionFailed  = "FAILED"
)

// OnlineConversion registro uno-a-uno con el pedido; hace la conversión idempotente y reintentable.
type OnlineConversion struct {
	ID           string
	OrderID      string
	Status       string
	SaleID       string
	ErrorMessage string
	Attempts     int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
