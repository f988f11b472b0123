package repository

import (
	"context"

	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain/entity"
)

// OrderRepository preórdenes y pedidos online.
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	UpdateStatus(ctx context.Context, id, status string) error
	List(ctx context.Context, status string, limit, offset int) ([]*entity.Order, error)
}

// ConversionRepository registro uno-a-uno pedido → venta.
type ConversionRepository interface {
	GetByOrderID(ctx context.Context, orderID string) (*entity.OnlineConversion, error)
	// Save inserta o actualiza por order_id.
	Save(ctx context.Context, c *entity.OnlineConversion) error
}
