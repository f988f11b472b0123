package pricing_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/application/dto"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/application/pricing"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain/entity"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/infrastructure/memory"
)

var now = time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

// spyCache caché en memoria que cuenta accesos.
type spyCache struct {
	list        []*entity.Discount
	ok          bool
	failGet     bool
	hits        int
	sets        int
	invalidated int
}

func (c *spyCache) GetActive(context.Context) ([]*entity.Discount, bool, error) {
	if c.failGet {
		return nil, false, errors.New("redis caído")
	}
	if c.ok {
		c.hits++
	}
	return c.list, c.ok, nil
}

func (c *spyCache) SetActive(_ context.Context, list []*entity.Discount) error {
	c.list, c.ok = list, true
	c.sets++
	return nil
}

func (c *spyCache) Invalidate(context.Context) error {
	c.list, c.ok = nil, false
	c.invalidated++
	return nil
}

func setup(t *testing.T) (*pricing.DiscountUseCase, *spyCache, *entity.Product) {
	t.Helper()
	store := memory.New()
	product := &entity.Product{
		ID: "p-1", SKU: "JEAN", Name: "Jean", CategoryID: "pantalones",
		CostPrice: decimal.NewFromInt(30), SellingPrice: decimal.RequireFromString("80.00"), IsActive: true,
	}
	require.NoError(t, store.Repositories().Products.Create(context.Background(), product))
	cache := &spyCache{}
	uc := pricing.NewDiscountUseCase(store, store.Repositories(), cache, zerolog.Nop()).
		WithClock(func() time.Time { return now })
	return uc, cache, product
}

func window(typ, value string) dto.SaveDiscountRequest {
	return dto.SaveDiscountRequest{
		Name:      typ + " " + value,
		Type:      typ,
		Value:     decimal.RequireFromString(value),
		StartDate: now.Add(-time.Hour),
		EndDate:   now.Add(72 * time.Hour),
	}
}

func TestPriceWithDiscount_SinDescuento(t *testing.T) {
	uc, _, p := setup(t)
	got, err := uc.PriceWithDiscount(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "80.00", got.FinalPrice.StringFixed(2))
	assert.True(t, got.DiscountAmount.IsZero())
	assert.Empty(t, got.DiscountID)
}

func TestPriceWithDiscount_CategoriaAntesQueGlobal(t *testing.T) {
	uc, _, p := setup(t)
	ctx := context.Background()

	_, err := uc.SaveDiscount(ctx, "", window(entity.DiscountTypeAppWide, "40"))
	require.NoError(t, err)
	cat := window(entity.DiscountTypeCategory, "12.5")
	cat.CategoryID = "pantalones"
	saved, err := uc.SaveDiscount(ctx, "", cat)
	require.NoError(t, err)
	assert.Equal(t, entity.DiscountStatusActive, saved.Status)

	got, err := uc.PriceWithDiscount(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, got.DiscountID)
	assert.Equal(t, "10.00", got.DiscountAmount.StringFixed(2))
	assert.Equal(t, "70.00", got.FinalPrice.StringFixed(2))

	unit, err := uc.UnitPrice(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, "70.00", unit.StringFixed(2))
}

func TestResolveDiscount_UsaCacheYSeInvalidaAlGuardar(t *testing.T) {
	uc, cache, p := setup(t)
	ctx := context.Background()

	_, err := uc.ResolveDiscount(ctx, p.ID)
	require.NoError(t, err)
	_, err = uc.ResolveDiscount(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets, "la segunda lectura sale de caché")
	assert.Equal(t, 1, cache.hits)

	prod := window(entity.DiscountTypeProduct, "20")
	prod.ProductID = p.ID
	_, err = uc.SaveDiscount(ctx, "", prod)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.invalidated)

	info, err := uc.ResolveDiscount(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, info.Discount, "tras invalidar se ve el nuevo descuento")
	assert.Equal(t, entity.DiscountTypeProduct, info.Discount.Type)
}

func TestResolveDiscount_CacheCaidaNoBloquea(t *testing.T) {
	uc, cache, p := setup(t)
	cache.failGet = true
	info, err := uc.ResolveDiscount(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Nil(t, info.Discount)

	_, err = uc.ResolveDiscount(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSaveDiscount_UnSoloProductActivoPorProducto(t *testing.T) {
	uc, _, p := setup(t)
	ctx := context.Background()

	first := window(entity.DiscountTypeProduct, "10")
	first.ProductID = p.ID
	saved, err := uc.SaveDiscount(ctx, "", first)
	require.NoError(t, err)

	second := window(entity.DiscountTypeProduct, "15")
	second.ProductID = p.ID
	_, err = uc.SaveDiscount(ctx, "", second)
	assert.ErrorIs(t, err, domain.ErrInvalidDiscountConfiguration)

	// Editar el mismo descuento no choca consigo mismo.
	first.Value = decimal.NewFromInt(11)
	_, err = uc.SaveDiscount(ctx, saved.ID, first)
	require.NoError(t, err)

	// Un segundo inactivo sí se permite.
	off := false
	second.IsActive = &off
	_, err = uc.SaveDiscount(ctx, "", second)
	require.NoError(t, err)

	// Una ventana que no se solapa también.
	later := window(entity.DiscountTypeProduct, "30")
	later.ProductID = p.ID
	later.StartDate = now.Add(96 * time.Hour)
	later.EndDate = now.Add(120 * time.Hour)
	saved, err = uc.SaveDiscount(ctx, "", later)
	require.NoError(t, err)
	assert.Equal(t, entity.DiscountStatusScheduled, saved.Status)
}

func TestSaveDiscount_Configuracion(t *testing.T) {
	uc, _, _ := setup(t)
	ctx := context.Background()

	_, err := uc.SaveDiscount(ctx, "", window(entity.DiscountTypeCategory, "10"))
	assert.ErrorIs(t, err, domain.ErrInvalidDiscountConfiguration, "CATEGORY sin categoría")

	bad := window(entity.DiscountTypeAppWide, "10")
	bad.EndDate = bad.StartDate
	_, err = uc.SaveDiscount(ctx, "", bad)
	assert.ErrorIs(t, err, domain.ErrInvalidDiscountConfiguration, "inicio >= fin")

	ghost := window(entity.DiscountTypeProduct, "10")
	ghost.ProductID = "no-existe"
	_, err = uc.SaveDiscount(ctx, "", ghost)
	assert.ErrorIs(t, err, domain.ErrInvalidDiscountConfiguration)

	_, err = uc.SaveDiscount(ctx, "no-existe", window(entity.DiscountTypeAppWide, "10"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListDiscounts(t *testing.T) {
	uc, _, _ := setup(t)
	ctx := context.Background()
	for _, v := range []string{"5", "10"} {
		_, err := uc.SaveDiscount(ctx, "", window(entity.DiscountTypeAppWide, v))
		require.NoError(t, err)
	}
	list, err := uc.ListDiscounts(ctx, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
