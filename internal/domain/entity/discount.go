package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de descuento (prioridad PRODUCT > CATEGORY > APP_WIDE).
const (
	DiscountTypeAppWide  = "APP_WIDE"
	DiscountTypeCategory = "CATEGORY"
	DiscountTypeProduct  = "PRODUCT"
)

// Estado derivado de las fechas; se recalcula en cada guardado.
const (
	DiscountStatusScheduled = "SCHEDULED"
	DiscountStatusActive    = "ACTIVE"
	DiscountStatusExpired   = "EXPIRED"
)

// Discount campaña de descuento porcentual (0-100).
type Discount struct {
	ID               string
	Name             string
	Description      string
	Type             string
	Value            decimal.Decimal // porcentaje
	StartDate        time.Time
	EndDate          time.Time
	IsActive         bool
	Status           string
	CategoryID       string
	OnlineCategoryID string
	ProductID        string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
