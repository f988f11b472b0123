package repository

import (
	"context"
	"time"

	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain/entity"
)

// DiscountRepository define el puerto de persistencia para campañas de descuento.
type DiscountRepository interface {
	Create(ctx context.Context, d *entity.Discount) error
	Update(ctx context.Context, d *entity.Discount) error
	GetByID(ctx context.Context, id string) (*entity.Discount, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Discount, error)
	// ListActive devuelve los descuentos con is_active y end_date >= now (incluye programados).
	ListActive(ctx context.Context, now time.Time) ([]*entity.Discount, error)
	// ListActiveForProduct descuentos PRODUCT activos del producto, excluyendo excludeID.
	ListActiveForProduct(ctx context.Context, productID, excludeID string) ([]*entity.Discount, error)
}
