package pricing

import (
	"context"

	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain/entity"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain/repository"
)

// TxRunner ejecuta fn en una transacción con repositorios atados a ella.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos repository.Repositories) error) error
}

// DiscountCache guarda la lista de descuentos vigentes (lectura frecuente, escritura rara).
// ok=false indica que no hay entrada en caché.
type DiscountCache interface {
	GetActive(ctx context.Context) (list []*entity.Discount, ok bool, err error)
	SetActive(ctx context.Context, list []*entity.Discount) error
	Invalidate(ctx context.Context) error
}

// NoopCache desactiva la caché (sin Redis).
type NoopCache struct{}

func (NoopCache) GetActive(context.Context) ([]*entity.Discount, bool, error) { return nil, false, nil }
func (NoopCache) SetActive(context.Context, []*entity.Discount) error        { return nil }
func (NoopCache) Invalidate(context.Context) error                           { return nil }
