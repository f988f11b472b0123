package repository

import (
	"context"

	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain/entity"
)

// SaleRepository define el puerto de persistencia para Sale y sus líneas.
// GetByID devuelve la venta con Items cargados (sin pagos).
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	CreateItem(ctx context.Context, item *entity.SaleItem) error
	// Update persiste los campos calculados de la cabecera (totales, pagos, estado).
	Update(ctx context.Context, sale *entity.Sale) error
	// UpdateItem persiste total, profit, loss y returned_quantity de la línea.
	UpdateItem(ctx context.Context, item *entity.SaleItem) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	// GetForUpdate igual que GetByID pero bloquea la cabecera (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Sale, error)
	ExistsInvoiceNumber(ctx context.Context, invoiceNumber string) (bool, error)
	// GetByOrderID venta generada por el pedido, nil si no existe. order_id es único.
	GetByOrderID(ctx context.Context, orderID string) (*entity.Sale, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Sale, error)
}

// PaymentRepository pagos (SalePayment) y cuentas por cobrar (DuePayment).
type PaymentRepository interface {
	CreatePayment(ctx context.Context, payment *entity.SalePayment) error
	ListBySale(ctx context.Context, saleID string) ([]*entity.SalePayment, error)
	CreateDue(ctx context.Context, due *entity.DuePayment) error
	GetDueBySale(ctx context.Context, saleID string) (*entity.DuePayment, error)
	UpdateDue(ctx context.Context, due *entity.DuePayment) error
}

// ReturnRepository devoluciones de venta.
type ReturnRepository interface {
	Create(ctx context.Context, ret *entity.SaleReturn) error
	ExistsReturnNumber(ctx context.Context, returnNumber string) (bool, error)
	ListBySale(ctx context.Context, saleID string) ([]*entity.SaleReturn, error)
}
