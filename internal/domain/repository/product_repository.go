package repository

import (
	"context"

	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	List(ctx context.Context, limit, offset int) ([]*entity.Product, error)
	// RecomputeStock fija stock_quantity = Σ stock de sus variantes y devuelve el nuevo valor.
	// Recalcula completo (no incremental) para tolerar ediciones fuera de banda.
	RecomputeStock(ctx context.Context, productID string) (int, error)
	// AdjustStock suma delta a stock_quantity de un producto sin variantes; falla con
	// ErrInsufficientStock si el resultado sería negativo. Devuelve el nuevo valor.
	AdjustStock(ctx context.Context, productID string, delta int) (int, error)
}

// VariationRepository define el puerto para las variantes (talla, color) y su stock.
type VariationRepository interface {
	Create(ctx context.Context, v *entity.ProductVariation) error
	GetByID(ctx context.Context, id string) (*entity.ProductVariation, error)
	// GetForUpdate bloquea la fila de la variante (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.ProductVariation, error)
	FindByAttributes(ctx context.Context, productID, size, color string) (*entity.ProductVariation, error)
	ListByProduct(ctx context.Context, productID string) ([]*entity.ProductVariation, error)
	CountByProduct(ctx context.Context, productID string) (int, error)
	// DecrementStock descuenta qty de forma atómica y condicional (stock >= qty);
	// si no alcanza devuelve ErrInsufficientStock sin modificar nada.
	DecrementStock(ctx context.Context, id string, qty int) (int, error)
	IncrementStock(ctx context.Context, id string, qty int) (int, error)
}
