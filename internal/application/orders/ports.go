package orders

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/application/dto"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain/entity"
)

// SaleCreationPort crea la venta a partir del pedido. La implementa el caso de uso de ventas;
// el pedido no conoce su tipo concreto.
type SaleCreationPort interface {
	CreateSale(ctx context.Context, userID string, in dto.CreateSaleRequest) (*dto.SaleResponse, error)
}

// PriceResolver precio vigente para congelar las líneas que llegan sin precio.
type PriceResolver interface {
	UnitPrice(ctx context.Context, product *entity.Product) (decimal.Decimal, error)
}

// PhoneNormalizer valida el teléfono del pedido antes de aceptarlo.
type PhoneNormalizer interface {
	Normalize(raw string) (string, error)
}

// Locker candado distribuido por clave.
type Locker interface {
	Lock(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, error)
}
