package sales

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/application/inventory"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain/entity"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain/repository"
)

// TxRunner ejecuta fn en una transacción con repositorios atados a ella.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos repository.Repositories) error) error
}

// StockLedger aplica movimientos de stock dentro de la transacción del caller.
type StockLedger interface {
	ApplyMovementOnce(ctx context.Context, repos repository.Repositories, in inventory.MovementInput) (*inventory.MovementResult, bool, error)
}

// PriceResolver precio unitario vigente (con descuento) cuando el carrito no trae precio.
type PriceResolver interface {
	UnitPrice(ctx context.Context, product *entity.Product) (decimal.Decimal, error)
}

// PhoneNormalizer lleva el teléfono del cliente a su forma canónica (clave natural).
type PhoneNormalizer interface {
	Normalize(raw string) (string, error)
}

// Locker candado distribuido por clave; evita dos cobros simultáneos sobre la misma venta.
type Locker interface {
	Lock(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, error)
}
