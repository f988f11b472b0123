package pricing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/application/dto"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain/entity"
	dpricing "github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain/pricing"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain/repository"
)

// DiscountUseCase resolución de descuentos (PRODUCT > CATEGORY > APP_WIDE) y su administración.
type DiscountUseCase struct {
	txRunner TxRunner
	repos    repository.Repositories
	cache    DiscountCache
	log      zerolog.Logger
	now      func() time.Time
}

// NewDiscountUseCase construye el caso de uso. cache nil equivale a NoopCache.
func NewDiscountUseCase(txRunner TxRunner, repos repository.Repositories, cache DiscountCache, log zerolog.Logger) *DiscountUseCase {
	if cache == nil {
		cache = NoopCache{}
	}
	return &DiscountUseCase{txRunner: txRunner, repos: repos, cache: cache, log: log, now: time.Now}
}

// WithClock fija el reloj (tests).
func (uc *DiscountUseCase) WithClock(now func() time.Time) *DiscountUseCase {
	uc.now = now
	return uc
}

// ResolveDiscount devuelve el descuento aplicable al producto; Discount nil si no hay.
func (uc *DiscountUseCase) ResolveDiscount(ctx context.Context, productID string) (*dto.DiscountInfoResponse, error) {
	product, err := uc.product(ctx, productID)
	if err != nil {
		return nil, err
	}
	d, err := uc.Resolve(ctx, product)
	if err != nil {
		return nil, err
	}
	out := &dto.DiscountInfoResponse{ProductID: product.ID}
	if d != nil {
		r := uc.toResponse(d)
		out.Discount = &r
	}
	return out, nil
}

// PriceWithDiscount precio de venta del producto con el descuento vigente aplicado una vez.
func (uc *DiscountUseCase) PriceWithDiscount(ctx context.Context, productID string) (*dto.PriceResponse, error) {
	product, err := uc.product(ctx, productID)
	if err != nil {
		return nil, err
	}
	d, err := uc.Resolve(ctx, product)
	if err != nil {
		return nil, err
	}
	out := &dto.PriceResponse{
		ProductID:      product.ID,
		OriginalPrice:  product.SellingPrice,
		DiscountPct:    decimal.Zero,
		DiscountAmount: decimal.Zero,
		FinalPrice:     product.SellingPrice,
	}
	if d != nil {
		out.DiscountPct = d.Value
		out.DiscountAmount, out.FinalPrice = dpricing.DiscountedPrice(product.SellingPrice, d.Value)
		out.DiscountID = d.ID
		out.DiscountType = d.Type
	}
	return out, nil
}

// UnitPrice precio final de una unidad del producto; lo usan ventas y pedidos cuando el
// payload no trae precio.
func (uc *DiscountUseCase) UnitPrice(ctx context.Context, product *entity.Product) (decimal.Decimal, error) {
	d, err := uc.Resolve(ctx, product)
	if err != nil {
		return decimal.Zero, err
	}
	if d == nil {
		return product.SellingPrice, nil
	}
	_, final := dpricing.DiscountedPrice(product.SellingPrice, d.Value)
	return final, nil
}

// Resolve aplica la prioridad sobre los descuentos vigentes.
func (uc *DiscountUseCase) Resolve(ctx context.Context, product *entity.Product) (*entity.Discount, error) {
	now := uc.now()
	active, err := uc.activeDiscounts(ctx, now)
	if err != nil {
		return nil, err
	}
	return dpricing.Resolve(product, active, now), nil
}

// activeDiscounts lee de caché; si falla o no hay entrada, va al repositorio y repuebla.
func (uc *DiscountUseCase) activeDiscounts(ctx context.Context, now time.Time) ([]*entity.Discount, error) {
	list, ok, err := uc.cache.GetActive(ctx)
	if err != nil {
		uc.log.Warn().Err(err).Msg("caché de descuentos no disponible; se consulta la base")
	}
	if ok && err == nil {
		return list, nil
	}
	list, err = uc.repos.Discounts.ListActive(ctx, now)
	if err != nil {
		return nil, err
	}
	if err := uc.cache.SetActive(ctx, list); err != nil {
		uc.log.Warn().Err(err).Msg("no se pudo poblar la caché de descuentos")
	}
	return list, nil
}

// SaveDiscount crea (id vacío) o actualiza un descuento. Valida la configuración, deriva el
// estado por fechas y exige a lo sumo un descuento PRODUCT activo por producto en la misma ventana.
func (uc *DiscountUseCase) SaveDiscount(ctx context.Context, id string, in dto.SaveDiscountRequest) (*dto.DiscountResponse, error) {
	now := uc.now()
	d := &entity.Discount{
		ID:               id,
		Name:             in.Name,
		Description:      in.Description,
		Type:             in.Type,
		Value:            in.Value,
		StartDate:        in.StartDate,
		EndDate:          in.EndDate,
		IsActive:         in.IsActive == nil || *in.IsActive,
		CategoryID:       in.CategoryID,
		OnlineCategoryID: in.OnlineCategoryID,
		ProductID:        in.ProductID,
		UpdatedAt:        now,
	}
	if err := dpricing.Validate(d); err != nil {
		return nil, err
	}
	d.Status = dpricing.DeriveStatus(d, now)

	err := uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		if d.Type == entity.DiscountTypeProduct {
			p, err := repos.Products.GetByID(ctx, d.ProductID)
			if err != nil {
				return err
			}
			if p == nil {
				return fmt.Errorf("%w: producto %s no existe", domain.ErrInvalidDiscountConfiguration, d.ProductID)
			}
			if d.IsActive {
				others, err := repos.Discounts.ListActiveForProduct(ctx, d.ProductID, d.ID)
				if err != nil {
					return err
				}
				for _, o := range others {
					if !o.EndDate.Before(now) && dpricing.Overlaps(o, d) {
						return fmt.Errorf("%w: el producto ya tiene el descuento activo %s", domain.ErrInvalidDiscountConfiguration, o.ID)
					}
				}
			}
		}

		if id == "" {
			d.ID = uuid.New().String()
			d.CreatedAt = now
			return repos.Discounts.Create(ctx, d)
		}
		cur, err := repos.Discounts.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if cur == nil {
			return domain.ErrNotFound
		}
		d.CreatedAt = cur.CreatedAt
		return repos.Discounts.Update(ctx, d)
	})
	if err != nil {
		return nil, err
	}

	if err := uc.cache.Invalidate(ctx); err != nil {
		uc.log.Warn().Err(err).Str("discount_id", d.ID).Msg("no se pudo invalidar la caché de descuentos")
	}
	out := uc.toResponse(d)
	return &out, nil
}

// GetDiscount devuelve un descuento por ID.
func (uc *DiscountUseCase) GetDiscount(ctx context.Context, id string) (*dto.DiscountResponse, error) {
	d, err := uc.repos.Discounts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, domain.ErrNotFound
	}
	out := uc.toResponse(d)
	return &out, nil
}

// ListDiscounts lista paginada en orden de creación.
func (uc *DiscountUseCase) ListDiscounts(ctx context.Context, page dto.PageRequest) ([]dto.DiscountResponse, error) {
	page.DefaultPage()
	list, err := uc.repos.Discounts.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DiscountResponse, 0, len(list))
	for _, d := range list {
		out = append(out, uc.toResponse(d))
	}
	return out, nil
}

func (uc *DiscountUseCase) product(ctx context.Context, id string) (*entity.Product, error) {
	p, err := uc.repos.Products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

// toResponse el estado se deriva al leer: el guardado puede haber quedado atrás en el tiempo.
func (uc *DiscountUseCase) toResponse(d *entity.Discount) dto.DiscountResponse {
	return dto.DiscountResponse{
		ID:               d.ID,
		Name:             d.Name,
		Description:      d.Description,
		Type:             d.Type,
		Value:            d.Value,
		StartDate:        d.StartDate,
		EndDate:          d.EndDate,
		IsActive:         d.IsActive,
		Status:           dpricing.DeriveStatus(d, uc.now()),
		CategoryID:       d.CategoryID,
		OnlineCategoryID: d.OnlineCategoryID,
		ProductID:        d.ProductID,
	}
}
