package pricing

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain/entity"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain/money"
)

// Validate revisa la configuración de un descuento antes de guardarlo.
// Los errores envuelven domain.ErrInvalidDiscountConfiguration.
func Validate(d *entity.Discount) error {
	switch d.Type {
	case entity.DiscountTypeAppWide:
	case entity.DiscountTypeCategory:
		if d.CategoryID == "" && d.OnlineCategoryID == "" {
			return fmt.Errorf("%w: CATEGORY requiere categoría u online-categoría", domain.ErrInvalidDiscountConfiguration)
		}
	case entity.DiscountTypeProduct:
		if d.ProductID == "" {
			return fmt.Errorf("%w: PRODUCT requiere producto", domain.ErrInvalidDiscountConfiguration)
		}
	default:
		return fmt.Errorf("%w: tipo %q desconocido", domain.ErrInvalidDiscountConfiguration, d.Type)
	}
	if d.Value.LessThan(decimal.Zero) || d.Value.GreaterThan(money.Hundred()) {
		return fmt.Errorf("%w: el valor debe estar entre 0 y 100", domain.ErrInvalidDiscountConfiguration)
	}
	if !d.Value.Equal(d.Value.Round(2)) {
		return fmt.Errorf("%w: el porcentaje admite a lo sumo 2 decimales", domain.ErrInvalidDiscountConfiguration)
	}
	if !d.StartDate.Before(d.EndDate) {
		return fmt.Errorf("%w: start_date debe ser anterior a end_date", domain.ErrInvalidDiscountConfiguration)
	}
	return nil
}

// DeriveStatus calcula SCHEDULED/ACTIVE/EXPIRED a partir de las fechas.
func DeriveStatus(d *entity.Discount, now time.Time) string {
	switch {
	case now.Before(d.StartDate):
		return entity.DiscountStatusScheduled
	case now.After(d.EndDate):
		return entity.DiscountStatusExpired
	default:
		return entity.DiscountStatusActive
	}
}

// Overlaps indica si dos ventanas de fechas se solapan.
func Overlaps(a, b *entity.Discount) bool {
	return !a.EndDate.Before(b.StartDate) && !b.EndDate.Before(a.StartDate)
}
