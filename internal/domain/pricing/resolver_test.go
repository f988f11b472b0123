package pricing_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain/entity"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain/pricing"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func disc(id, typ, value string) *entity.Discount {
	return &entity.Discount{
		ID:        id,
		Type:      typ,
		Value:     decimal.RequireFromString(value),
		StartDate: now.Add(-24 * time.Hour),
		EndDate:   now.Add(24 * time.Hour),
		IsActive:  true,
	}
}

func product() *entity.Product {
	return &entity.Product{ID: "p-1", CategoryID: "cat-1", OnlineCategoryID: "web-1", SellingPrice: decimal.NewFromInt(100)}
}

func TestResolve_Prioridad(t *testing.T) {
	prod := disc("prod", entity.DiscountTypeProduct, "5")
	prod.ProductID = "p-1"
	cat := disc("cat", entity.DiscountTypeCategory, "10")
	cat.CategoryID = "cat-1"
	webCat := disc("web", entity.DiscountTypeCategory, "15")
	webCat.OnlineCategoryID = "web-1"
	app := disc("app", entity.DiscountTypeAppWide, "50")
	otherProd := disc("other", entity.DiscountTypeProduct, "90")
	otherProd.ProductID = "p-2"

	t.Run("PRODUCT gana a CATEGORY", func(t *testing.T) {
		got := pricing.Resolve(product(), []*entity.Discount{cat, app, prod}, now)
		require.NotNil(t, got)
		assert.Equal(t, "prod", got.ID)
	})
	t.Run("CATEGORY gana a APP_WIDE aunque valga menos", func(t *testing.T) {
		got := pricing.Resolve(product(), []*entity.Discount{app, cat}, now)
		require.NotNil(t, got)
		assert.Equal(t, "cat", got.ID)
	})
	t.Run("entre CATEGORY el de mayor valor, también por categoría online", func(t *testing.T) {
		got := pricing.Resolve(product(), []*entity.Discount{cat, webCat, otherProd}, now)
		require.NotNil(t, got)
		assert.Equal(t, "web", got.ID)
	})
	t.Run("solo APP_WIDE", func(t *testing.T) {
		low := disc("low", entity.DiscountTypeAppWide, "5")
		got := pricing.Resolve(product(), []*entity.Discount{low, app}, now)
		require.NotNil(t, got)
		assert.Equal(t, "app", got.ID)
	})
	t.Run("ninguno aplica", func(t *testing.T) {
		assert.Nil(t, pricing.Resolve(product(), []*entity.Discount{otherProd}, now))
		assert.Nil(t, pricing.Resolve(nil, []*entity.Discount{app}, now))
	})
}

func TestResolve_VentanaYActivo(t *testing.T) {
	inactive := disc("off", entity.DiscountTypeAppWide, "10")
	inactive.IsActive = false
	future := disc("future", entity.DiscountTypeAppWide, "10")
	future.StartDate = now.Add(time.Hour)
	past := disc("past", entity.DiscountTypeAppWide, "10")
	past.EndDate = now.Add(-time.Hour)
	edge := disc("edge", entity.DiscountTypeAppWide, "10")
	edge.StartDate = now
	edge.EndDate = now

	assert.Nil(t, pricing.Resolve(product(), []*entity.Discount{inactive, future, past}, now))
	got := pricing.Resolve(product(), []*entity.Discount{edge}, now)
	require.NotNil(t, got, "los extremos de la ventana son inclusivos")
}

func TestDiscountedPrice_RedondeoUnaVez(t *testing.T) {
	amount, final := pricing.DiscountedPrice(decimal.RequireFromString("19.99"), decimal.NewFromInt(15))
	assert.Equal(t, "3.00", amount.StringFixed(2))
	assert.Equal(t, "16.99", final.StringFixed(2))

	amount, final = pricing.DiscountedPrice(decimal.RequireFromString("0.10"), decimal.NewFromInt(25))
	assert.Equal(t, "0.03", amount.StringFixed(2), "0.025 redondea hacia arriba")
	assert.Equal(t, "0.07", final.StringFixed(2))
}

func TestValidate(t *testing.T) {
	okCat := disc("c", entity.DiscountTypeCategory, "10")
	okCat.OnlineCategoryID = "web"

	cases := []struct {
		name string
		edit func(*entity.Discount)
		ok   bool
	}{
		{"CATEGORY con categoría online", func(*entity.Discount) {}, true},
		{"CATEGORY sin vínculo", func(x *entity.Discount) { x.OnlineCategoryID = "" }, false},
		{"PRODUCT sin producto", func(x *entity.Discount) { x.Type = entity.DiscountTypeProduct }, false},
		{"valor mayor a 100", func(x *entity.Discount) { x.Value = decimal.NewFromInt(101) }, false},
		{"valor negativo", func(x *entity.Discount) { x.Value = decimal.NewFromInt(-1) }, false},
		{"dos decimales", func(x *entity.Discount) { x.Value = decimal.RequireFromString("12.25") }, true},
		{"ceros a la derecha", func(x *entity.Discount) { x.Value = decimal.RequireFromString("12.500") }, true},
		{"tres decimales", func(x *entity.Discount) { x.Value = decimal.RequireFromString("12.125") }, false},
		{"inicio igual a fin", func(x *entity.Discount) { x.EndDate = x.StartDate }, false},
		{"tipo desconocido", func(x *entity.Discount) { x.Type = "BOGO" }, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			x := *okCat
			tc.edit(&x)
			err := pricing.Validate(&x)
			if tc.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, domain.ErrInvalidDiscountConfiguration)
		})
	}
}

func TestDeriveStatus(t *testing.T) {
	x := disc("x", entity.DiscountTypeAppWide, "10")
	assert.Equal(t, entity.DiscountStatusActive, pricing.DeriveStatus(x, now))
	assert.Equal(t, entity.DiscountStatusScheduled, pricing.DeriveStatus(x, now.Add(-48*time.Hour)))
	assert.Equal(t, entity.DiscountStatusExpired, pricing.DeriveStatus(x, now.Add(48*time.Hour)))
}
