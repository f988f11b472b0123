package repository

import (
	"context"

	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain/entity"
)

// StockMovementRepository libro de stock de solo anexado: no expone Update ni Delete.
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	// Exists detecta movimientos duplicados por (producto, variante, referencia, tipo).
	Exists(ctx context.Context, productID, variationID, referenceNumber, movementType string) (bool, error)
	ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.StockMovement, error)
	ListByReference(ctx context.Context, referenceNumber string) ([]*entity.StockMovement, error)
}

// StockAlertRepository alertas de stock bajo / agotado.
type StockAlertRepository interface {
	Create(ctx context.Context, alert *entity.StockAlert) error
	ListRecent(ctx context.Context, limit int) ([]*entity.StockAlert, error)
}
