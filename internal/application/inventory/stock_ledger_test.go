package inventory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/application/dto"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/application/inventory"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain/entity"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain/repository"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/infrastructure/memory"
)

type fixture struct {
	store   *memory.Store
	ledger  *inventory.StockLedgerUseCase
	catalog *inventory.CatalogUseCase
}

func newFixture() fixture {
	store := memory.New()
	ledger := inventory.NewStockLedgerUseCase(store, store.Repositories(), zerolog.Nop())
	return fixture{
		store:   store,
		ledger:  ledger,
		catalog: inventory.NewCatalogUseCase(store, store.Repositories(), ledger),
	}
}

func (f fixture) shirt(t *testing.T, minimum int) *dto.ProductResponse {
	t.Helper()
	p, err := f.catalog.CreateProduct(context.Background(), "u-1", dto.CreateProductRequest{
		SKU:          "CAM-001",
		Name:         "Camisa",
		CostPrice:    decimal.NewFromInt(10),
		SellingPrice: decimal.NewFromInt(20),
		MinimumStock: minimum,
		Variations: []dto.CreateVariationRequest{
			{Size: "M", Color: "Azul", Stock: 5},
			{Size: "L", Color: "Azul", Stock: 3},
		},
	})
	require.NoError(t, err)
	return p
}

func variation(p *dto.ProductResponse, size string) dto.VariationResponse {
	for _, v := range p.Variations {
		if v.Size == size {
			return v
		}
	}
	return dto.VariationResponse{}
}

// ── Alta con stock inicial ─────────────────────────────────────────────────────

func TestCreateProduct_StockInicialEntraComoMovimientos(t *testing.T) {
	f := newFixture()
	p := f.shirt(t, 0)

	assert.Equal(t, 8, p.StockQuantity, "stock del producto = Σ variantes")
	assert.Equal(t, 5, variation(p, "M").Stock)

	movs, err := f.ledger.ListMovements(context.Background(), p.ID, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, movs, 2)
	for _, m := range movs {
		assert.Equal(t, entity.MovementTypeIN, m.Type)
		assert.Equal(t, inventory.OpeningReference, m.ReferenceNumber)
	}
}

func TestCreateProduct_TallaColorRepetido(t *testing.T) {
	f := newFixture()
	_, err := f.catalog.CreateProduct(context.Background(), "u-1", dto.CreateProductRequest{
		SKU: "X", Name: "X",
		Variations: []dto.CreateVariationRequest{{Size: "M", Color: "Rojo"}, {Size: "m", Color: "rojo"}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateProduct_SKUDuplicado(t *testing.T) {
	f := newFixture()
	f.shirt(t, 0)
	_, err := f.catalog.CreateProduct(context.Background(), "u-1", dto.CreateProductRequest{SKU: "CAM-001", Name: "Otra"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

// ── Movimientos ────────────────────────────────────────────────────────────────

func TestAddStockMovement_OUTMayorQueStockSeRechazaSinCambios(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p := f.shirt(t, 0)
	m := variation(p, "M")

	_, err := f.ledger.AddStockMovement(ctx, "u-1", dto.StockMovementRequest{
		ProductID: p.ID, VariationID: m.ID, Type: entity.MovementTypeOUT, Quantity: 6,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, 5, stockErr.Available)
	assert.Equal(t, 6, stockErr.Requested)

	after, err := f.catalog.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, variation(after, "M").Stock, "stock sin cambios")
	assert.Equal(t, 8, after.StockQuantity)

	movs, err := f.ledger.ListMovements(ctx, p.ID, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, movs, 2, "no se agrega fila al libro")
}

func TestAddStockMovement_TiposYRecalculo(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p := f.shirt(t, 0)
	m := variation(p, "M")

	cases := []struct {
		name      string
		req       dto.StockMovementRequest
		wantVar   int
		wantTotal int
		wantDelta int
	}{
		{"IN suma", dto.StockMovementRequest{Type: "IN", Quantity: 4}, 9, 12, 4},
		{"OUT resta", dto.StockMovementRequest{Type: "OUT", Quantity: 2}, 7, 10, -2},
		{"GIFT resta", dto.StockMovementRequest{Type: "GIFT", Quantity: 1}, 6, 9, -1},
		{"ADJ aumento", dto.StockMovementRequest{Type: "ADJ", Quantity: 3, Direction: "increase"}, 9, 12, 3},
		{"ADJ disminución", dto.StockMovementRequest{Type: "ADJ", Quantity: 9, Direction: "decrease"}, 0, 3, -9},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.req.ProductID = p.ID
			tc.req.VariationID = m.ID
			res, err := f.ledger.AddStockMovement(ctx, "u-1", tc.req)
			require.NoError(t, err)
			require.NotNil(t, res.VariationStock)
			assert.Equal(t, tc.wantVar, *res.VariationStock)
			assert.Equal(t, tc.wantTotal, res.ProductStock)
			assert.Equal(t, tc.wantDelta, res.Delta)
			assert.Equal(t, tc.req.Quantity, res.Quantity, "quantity siempre positiva")
		})
	}
}

func TestAddStockMovement_Validaciones(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p := f.shirt(t, 0)
	m := variation(p, "M")

	_, err := f.ledger.AddStockMovement(ctx, "u", dto.StockMovementRequest{ProductID: p.ID, VariationID: m.ID, Type: "IN", Quantity: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad cero")

	_, err = f.ledger.AddStockMovement(ctx, "u", dto.StockMovementRequest{ProductID: p.ID, VariationID: m.ID, Type: "ADJ", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "ADJ sin dirección")

	_, err = f.ledger.AddStockMovement(ctx, "u", dto.StockMovementRequest{ProductID: p.ID, Type: "IN", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "variante requerida")

	_, err = f.ledger.AddStockMovement(ctx, "u", dto.StockMovementRequest{ProductID: "nope", Type: "IN", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAddStockMovement_ProductoSinVariantes(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p, err := f.catalog.CreateProduct(ctx, "u", dto.CreateProductRequest{SKU: "GORRA", Name: "Gorra", InitialStock: 4})
	require.NoError(t, err)
	assert.Equal(t, 4, p.StockQuantity)

	res, err := f.ledger.AddStockMovement(ctx, "u", dto.StockMovementRequest{ProductID: p.ID, Type: "OUT", Quantity: 3})
	require.NoError(t, err)
	assert.Nil(t, res.VariationStock)
	assert.Equal(t, 1, res.ProductStock)

	_, err = f.ledger.AddStockMovement(ctx, "u", dto.StockMovementRequest{ProductID: p.ID, Type: "OUT", Quantity: 2})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestApplyMovementOnce_NoDuplicaPorReferencia(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p := f.shirt(t, 0)
	m := variation(p, "M")
	in := inventory.MovementInput{
		ProductID: p.ID, VariationID: m.ID, Type: entity.MovementTypeOUT, Quantity: 1, ReferenceNumber: "INV-AAAA0001",
	}

	for i, wantApplied := range []bool{true, false} {
		err := f.store.Run(ctx, func(repos repository.Repositories) error {
			_, applied, err := f.ledger.ApplyMovementOnce(ctx, repos, in)
			assert.Equal(t, wantApplied, applied, "intento %d", i+1)
			return err
		})
		require.NoError(t, err)
	}

	after, err := f.catalog.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, variation(after, "M").Stock)
}

// ── Alertas ────────────────────────────────────────────────────────────────────

func TestAlertas_StockBajoYAgotado(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p := f.shirt(t, 3)
	l := variation(p, "L")
	m := variation(p, "M")

	_, err := f.ledger.AddStockMovement(ctx, "u", dto.StockMovementRequest{ProductID: p.ID, VariationID: m.ID, Type: "OUT", Quantity: 5})
	require.NoError(t, err)
	_, err = f.ledger.AddStockMovement(ctx, "u", dto.StockMovementRequest{ProductID: p.ID, VariationID: l.ID, Type: "OUT", Quantity: 3})
	require.NoError(t, err)

	alerts, err := f.ledger.ListAlerts(ctx, 10)
	require.NoError(t, err)
	require.Len(t, alerts, 2)
	assert.Equal(t, entity.AlertLevelOut, alerts[0].Level, "la más reciente primero")
	assert.Equal(t, 0, alerts[0].Stock)
	assert.Equal(t, entity.AlertLevelLow, alerts[1].Level)
	assert.Equal(t, 3, alerts[1].Stock)
}

func TestRecalculateProductStock(t *testing.T) {
	f := newFixture()
	p := f.shirt(t, 0)
	stock, err := f.ledger.RecalculateProductStock(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, stock)

	_, err = f.ledger.RecalculateProductStock(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAddStockMovement_EntradaConCostoRecalculaPromedio(t *testing.T) {
	f := newFixture()
	p := f.shirt(t, 0)
	ctx := context.Background()
	cost := decimal.NewFromInt(16)

	_, err := f.ledger.AddStockMovement(ctx, "u-1", dto.StockMovementRequest{
		ProductID: p.ID, VariationID: variation(p, "M").ID, Type: entity.MovementTypeIN, Quantity: 2, UnitCost: &cost,
	})
	require.NoError(t, err)

	got, err := f.catalog.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	// (8*10 + 2*16) / 10
	assert.Equal(t, "11.20", got.CostPrice.StringFixed(2))
	assert.Equal(t, 10, got.StockQuantity)

	// Una salida con costo no toca el promedio.
	_, err = f.ledger.AddStockMovement(ctx, "u-1", dto.StockMovementRequest{
		ProductID: p.ID, VariationID: variation(p, "M").ID, Type: entity.MovementTypeOUT, Quantity: 1, UnitCost: &cost,
	})
	require.NoError(t, err)
	got, err = f.catalog.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "11.20", got.CostPrice.StringFixed(2))
}
