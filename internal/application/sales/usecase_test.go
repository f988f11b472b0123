package sales_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/application/dto"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/application/inventory"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/application/pricing"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/application/sales"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain/entity"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/infrastructure/memory"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/infrastructure/phone"
)

var clock = time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)

type env struct {
	store    *memory.Store
	sales    *sales.SaleUseCase
	ledger   *inventory.StockLedgerUseCase
	catalog  *inventory.CatalogUseCase
	discount *pricing.DiscountUseCase
	shirt    *dto.ProductResponse // variantes M(5) y L(3), costo 10, precio 20
	gadget   *dto.ProductResponse // sin variantes, stock 10, costo 60, precio 100
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store := memory.New()
	repos := store.Repositories()
	ledger := inventory.NewStockLedgerUseCase(store, repos, zerolog.Nop())
	catalog := inventory.NewCatalogUseCase(store, repos, ledger)
	discount := pricing.NewDiscountUseCase(store, repos, nil, zerolog.Nop())
	uc := sales.NewSaleUseCase(store, repos, ledger, discount, phone.NewNormalizer("US"), memory.NewLocalLocker(),
		sales.Config{DueDays: 30, InvoiceRetries: 3}, zerolog.Nop()).
		WithClock(func() time.Time { return clock })

	ctx := context.Background()
	shirt, err := catalog.CreateProduct(ctx, "u-1", dto.CreateProductRequest{
		SKU: "CAM", Name: "Camisa", CostPrice: dec("10"), SellingPrice: dec("20"),
		Variations: []dto.CreateVariationRequest{{Size: "M", Color: "Azul", Stock: 5}, {Size: "L", Color: "Azul", Stock: 3}},
	})
	require.NoError(t, err)
	gadget, err := catalog.CreateProduct(ctx, "u-1", dto.CreateProductRequest{
		SKU: "GAD", Name: "Parlante", CostPrice: dec("60"), SellingPrice: dec("100"), InitialStock: 10,
	})
	require.NoError(t, err)

	return &env{store: store, sales: uc, ledger: ledger, catalog: catalog, discount: discount, shirt: shirt, gadget: gadget}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func price(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func (e *env) variationID(size string) string {
	for _, v := range e.shirt.Variations {
		if v.Size == size {
			return v.ID
		}
	}
	return ""
}

func (e *env) stock(t *testing.T, productID, size string) (variation, total int) {
	t.Helper()
	p, err := e.catalog.GetProduct(context.Background(), productID)
	require.NoError(t, err)
	for _, v := range p.Variations {
		if v.Size == size {
			variation = v.Stock
		}
	}
	return variation, p.StockQuantity
}

func (e *env) gadgetSale(qty int, method string, payments ...dto.PaymentLineRequest) dto.CreateSaleRequest {
	return dto.CreateSaleRequest{
		Items:         []dto.SaleItemRequest{{ProductID: e.gadget.ID, Quantity: qty, UnitPrice: price("100")}},
		PaymentMethod: method,
		Payments:      payments,
	}
}

// ── Creación y pagos ───────────────────────────────────────────────────────────

func TestCreateSale_PagoParcialGeneraCuentaPorCobrar(t *testing.T) {
	e := newEnv(t)
	sale, err := e.sales.CreateSale(context.Background(), "u-1",
		e.gadgetSale(5, "cash", dto.PaymentLineRequest{Amount: dec("300"), PaymentMethod: "cash"}))
	require.NoError(t, err)

	assert.Equal(t, "500.00", sale.Total.StringFixed(2))
	assert.Equal(t, "300.00", sale.AmountPaid.StringFixed(2))
	assert.Equal(t, "200.00", sale.AmountDue.StringFixed(2))
	assert.Equal(t, entity.PaymentStatusPartial, sale.PaymentStatus)
	assert.False(t, sale.IsFullyPaid)
	assert.Equal(t, "cash", sale.PaymentMethod)
	assert.Regexp(t, `^INV-[0-9A-F]{8}$`, sale.InvoiceNumber)

	require.NotNil(t, sale.Due)
	assert.Equal(t, "200.00", sale.Due.AmountDue.StringFixed(2))
	assert.True(t, sale.Due.AmountPaid.IsZero())
	assert.Equal(t, clock.AddDate(0, 0, 30), sale.Due.DueDate)
	assert.Equal(t, entity.DueStatusPending, sale.Due.Status)

	// Profit por línea: 500 - 5*60.
	assert.Equal(t, "200.00", sale.TotalProfit.StringFixed(2))
	assert.True(t, sale.TotalLoss.IsZero())
}

func TestCreateSale_MetodoInmediatoSintetizaPago(t *testing.T) {
	e := newEnv(t)
	sale, err := e.sales.CreateSale(context.Background(), "u-1", e.gadgetSale(2, "card"))
	require.NoError(t, err)

	require.Len(t, sale.Payments, 1)
	assert.Equal(t, "200.00", sale.Payments[0].Amount.StringFixed(2))
	assert.Equal(t, "card", sale.Payments[0].PaymentMethod)
	assert.Equal(t, entity.PaymentStatusPaid, sale.PaymentStatus)
	assert.True(t, sale.IsFullyPaid)
	assert.Nil(t, sale.Due)
}

func TestCreateSale_CreditoNoGeneraPagoYSacaStock(t *testing.T) {
	e := newEnv(t)
	sale, err := e.sales.CreateSale(context.Background(), "u-1", e.gadgetSale(4, "credit"))
	require.NoError(t, err)

	assert.Empty(t, sale.Payments)
	assert.Equal(t, "credit", sale.PaymentMethod)
	assert.Equal(t, entity.PaymentStatusUnpaid, sale.PaymentStatus)
	require.NotNil(t, sale.Due)
	assert.Equal(t, "400.00", sale.Due.AmountDue.StringFixed(2))

	_, total := e.stock(t, e.gadget.ID, "")
	assert.Equal(t, 6, total, "la mercancía sale al crear la venta aunque no esté pagada")
}

func TestCreateSale_VariasLineasEsSplitYRegaloCuenta(t *testing.T) {
	e := newEnv(t)
	sale, err := e.sales.CreateSale(context.Background(), "u-1", e.gadgetSale(2, "cash",
		dto.PaymentLineRequest{Amount: dec("50"), PaymentMethod: "gift"},
		dto.PaymentLineRequest{Amount: dec("150"), PaymentMethod: "cash"},
	))
	require.NoError(t, err)

	assert.Equal(t, entity.PaymentMethodSplit, sale.PaymentMethod)
	assert.Equal(t, "50.00", sale.GiftAmount.StringFixed(2))
	assert.Equal(t, "200.00", sale.AmountPaid.StringFixed(2))
	assert.True(t, sale.AmountDue.IsZero())

	// Σ pagos completados no-regalo + gift_amount == amount_paid
	nonGift := decimal.Zero
	for _, p := range sale.Payments {
		if !p.IsGiftPayment {
			nonGift = nonGift.Add(p.Amount)
		}
	}
	assert.True(t, nonGift.Add(sale.GiftAmount).Equal(sale.AmountPaid))
}

func TestCreateSale_SobrepagoNoEscribeNada(t *testing.T) {
	e := newEnv(t)
	_, err := e.sales.CreateSale(context.Background(), "u-1",
		e.gadgetSale(1, "cash", dto.PaymentLineRequest{Amount: dec("150"), PaymentMethod: "cash"}))
	assert.ErrorIs(t, err, domain.ErrOverPayment)

	list, err := e.sales.ListSales(context.Background(), dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, list.Items)
	_, total := e.stock(t, e.gadget.ID, "")
	assert.Equal(t, 10, total)
}

func TestCreateSale_StockInsuficienteRevierteTodo(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	_, err := e.sales.CreateSale(ctx, "u-1", dto.CreateSaleRequest{
		CustomerPhone: "+1 650-253-0000",
		Items: []dto.SaleItemRequest{
			{ProductID: e.gadget.ID, Quantity: 1},
			{ProductID: e.shirt.ID, VariationID: e.variationID("M"), Quantity: 6},
		},
		PaymentMethod: "cash",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	m, total := e.stock(t, e.shirt.ID, "M")
	assert.Equal(t, 5, m, "stock sin cambios")
	assert.Equal(t, 8, total)
	_, gadgetTotal := e.stock(t, e.gadget.ID, "")
	assert.Equal(t, 10, gadgetTotal, "la primera línea también se revierte")

	customers, err := e.store.Repositories().Customers.List(ctx, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, customers, "el cliente creado al vuelo se revierte")
}

func TestCreateSale_MismaVariantePorIDYPorTallaColorSeRechaza(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	_, err := e.sales.CreateSale(ctx, "u-1", dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{
			{ProductID: e.shirt.ID, VariationID: e.variationID("M"), Quantity: 2, UnitPrice: price("20")},
			{ProductID: e.shirt.ID, Size: "M", Color: "Azul", Quantity: 2, UnitPrice: price("20")},
		},
		PaymentMethod: "cash",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	m, total := e.stock(t, e.shirt.ID, "M")
	assert.Equal(t, 5, m, "stock sin cambios")
	assert.Equal(t, 8, total)

	// Variantes distintas, una por ID y otra por talla/color, siguen siendo válidas.
	sale, err := e.sales.CreateSale(ctx, "u-1", dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{
			{ProductID: e.shirt.ID, VariationID: e.variationID("M"), Quantity: 2, UnitPrice: price("20")},
			{ProductID: e.shirt.ID, Size: "L", Color: "Azul", Quantity: 1, UnitPrice: price("20")},
		},
		PaymentMethod: "cash",
	})
	require.NoError(t, err)
	assert.Len(t, sale.Items, 2)
	m, total = e.stock(t, e.shirt.ID, "M")
	assert.Equal(t, 3, m)
	assert.Equal(t, 5, total)
}

func TestCreateSale_PrecioVigenteConDescuentoYVariantePorTallaColor(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	_, err := e.discount.SaveDiscount(ctx, "", dto.SaveDiscountRequest{
		Name: "Temporada", Type: entity.DiscountTypeAppWide, Value: dec("10"),
		StartDate: time.Now().Add(-time.Hour), EndDate: time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)

	sale, err := e.sales.CreateSale(ctx, "u-1", dto.CreateSaleRequest{
		Items:         []dto.SaleItemRequest{{ProductID: e.shirt.ID, Size: "L", Color: "Azul", Quantity: 2}},
		PaymentMethod: "mobile",
	})
	require.NoError(t, err)
	require.Len(t, sale.Items, 1)
	assert.Equal(t, "18.00", sale.Items[0].UnitPrice.StringFixed(2))
	assert.Equal(t, e.variationID("L"), sale.Items[0].VariationID)
	assert.Equal(t, "36.00", sale.Total.StringFixed(2))
	assert.Equal(t, "16.00", sale.TotalProfit.StringFixed(2))

	l, total := e.stock(t, e.shirt.ID, "L")
	assert.Equal(t, 1, l)
	assert.Equal(t, 6, total)
}

func TestCreateSale_ClientePorTelefonoNormalizado(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	req := e.gadgetSale(1, "cash")
	req.CustomerPhone = "+1 650-253-0000"
	req.CustomerName = "Ana"
	first, err := e.sales.CreateSale(ctx, "u-1", req)
	require.NoError(t, err)

	req.CustomerPhone = "(650) 253-0000"
	req.CustomerName = ""
	second, err := e.sales.CreateSale(ctx, "u-1", req)
	require.NoError(t, err)

	require.NotEmpty(t, first.CustomerID)
	assert.Equal(t, first.CustomerID, second.CustomerID)
	c, err := e.store.Repositories().Customers.GetByID(ctx, first.CustomerID)
	require.NoError(t, err)
	assert.Equal(t, "+16502530000", c.Phone)
	assert.Equal(t, "Ana", c.Name)

	req.CustomerPhone = "123"
	_, err = e.sales.CreateSale(ctx, "u-1", req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateSale_Validaciones(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	m := e.variationID("M")

	cases := map[string]dto.CreateSaleRequest{
		"sin líneas":       {PaymentMethod: "cash"},
		"método inválido":  {Items: []dto.SaleItemRequest{{ProductID: e.gadget.ID, Quantity: 1}}, PaymentMethod: "split"},
		"cantidad cero":    {Items: []dto.SaleItemRequest{{ProductID: e.gadget.ID, Quantity: 0}}, PaymentMethod: "cash"},
		"descuento negativo": {Items: []dto.SaleItemRequest{{ProductID: e.gadget.ID, Quantity: 1}}, Discount: dec("-1"), PaymentMethod: "cash"},
		"variante repetida": {Items: []dto.SaleItemRequest{
			{ProductID: e.shirt.ID, VariationID: m, Quantity: 1},
			{ProductID: e.shirt.ID, VariationID: m, Quantity: 1},
		}, PaymentMethod: "cash"},
		"falta variante":   {Items: []dto.SaleItemRequest{{ProductID: e.shirt.ID, Quantity: 1}}, PaymentMethod: "cash"},
		"descuento de orden excesivo": {Items: []dto.SaleItemRequest{{ProductID: e.gadget.ID, Quantity: 1}}, Discount: dec("101"), PaymentMethod: "credit"},
		"pago en cero": {Items: []dto.SaleItemRequest{{ProductID: e.gadget.ID, Quantity: 1}}, PaymentMethod: "cash",
			Payments: []dto.PaymentLineRequest{{Amount: dec("0"), PaymentMethod: "cash"}}},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := e.sales.CreateSale(ctx, "u-1", req)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}

	_, err := e.sales.CreateSale(ctx, "u-1", dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{{ProductID: "nope", Quantity: 1}}, PaymentMethod: "cash",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateSale_ReintentaNumeroDeFactura(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	seq := []string{"INV-AAAAAAAA", "INV-AAAAAAAA", "INV-BBBBBBBB"}
	e.sales.WithNumberGenerator(func(string) string {
		n := seq[0]
		if len(seq) > 1 {
			seq = seq[1:]
		}
		return n
	})

	first, err := e.sales.CreateSale(ctx, "u-1", e.gadgetSale(1, "cash"))
	require.NoError(t, err)
	second, err := e.sales.CreateSale(ctx, "u-1", e.gadgetSale(1, "cash"))
	require.NoError(t, err)
	assert.Equal(t, "INV-AAAAAAAA", first.InvoiceNumber)
	assert.Equal(t, "INV-BBBBBBBB", second.InvoiceNumber)

	_, err = e.sales.CreateSale(ctx, "u-1", e.gadgetSale(1, "cash"))
	assert.ErrorIs(t, err, domain.ErrConflict, "todas las candidatas ocupadas")
}

// ── Cobros posteriores ─────────────────────────────────────────────────────────

func TestCompleteDuePayment(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	sale, err := e.sales.CreateSale(ctx, "u-1",
		e.gadgetSale(5, "cash", dto.PaymentLineRequest{Amount: dec("300"), PaymentMethod: "cash"}))
	require.NoError(t, err)

	due, err := e.sales.CompleteDuePayment(ctx, sale.ID, dto.CompleteDueRequest{Amount: dec("150"), PaymentMethod: "card"})
	require.NoError(t, err)
	assert.Equal(t, "50.00", due.RemainingAmount.StringFixed(2))
	assert.Equal(t, entity.DueStatusPartial, due.Status)

	_, err = e.sales.CompleteDuePayment(ctx, sale.ID, dto.CompleteDueRequest{Amount: dec("60"), PaymentMethod: "cash"})
	assert.ErrorIs(t, err, domain.ErrOverPayment)

	due, err = e.sales.CompleteDuePayment(ctx, sale.ID, dto.CompleteDueRequest{Amount: dec("50"), PaymentMethod: "cash"})
	require.NoError(t, err)
	assert.True(t, due.RemainingAmount.IsZero())
	assert.Equal(t, entity.DueStatusPaid, due.Status)

	got, err := e.sales.GetSale(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusPaid, got.PaymentStatus)
	assert.True(t, got.IsFullyPaid)
	assert.Equal(t, entity.PaymentMethodSplit, got.PaymentMethod)
	assert.Len(t, got.Payments, 3)

	_, err = e.sales.CompleteDuePayment(ctx, sale.ID, dto.CompleteDueRequest{Amount: dec("1"), PaymentMethod: "cash"})
	assert.ErrorIs(t, err, domain.ErrOverPayment, "sin saldo pendiente")
}

func TestAddPayment(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	sale, err := e.sales.CreateSale(ctx, "u-1", e.gadgetSale(3, "credit"))
	require.NoError(t, err)

	got, err := e.sales.AddPayment(ctx, sale.ID, dto.AddPaymentRequest{Payments: []dto.PaymentLineRequest{
		{Amount: dec("100"), PaymentMethod: "cash"},
	}})
	require.NoError(t, err)
	assert.Equal(t, "200.00", got.AmountDue.StringFixed(2))
	assert.Equal(t, "cash", got.PaymentMethod)
	require.NotNil(t, got.Due)
	assert.Equal(t, "300.00", got.Due.AmountDue.StringFixed(2))
	assert.Equal(t, "100.00", got.Due.AmountPaid.StringFixed(2))
	assert.True(t, got.Due.RemainingAmount.Equal(got.AmountDue), "saldo de la cuenta = saldo de la venta")

	_, err = e.sales.AddPayment(ctx, sale.ID, dto.AddPaymentRequest{Payments: []dto.PaymentLineRequest{
		{Amount: dec("150"), PaymentMethod: "cash"},
		{Amount: dec("60"), PaymentMethod: "card"},
	}})
	assert.ErrorIs(t, err, domain.ErrOverPayment)

	_, err = e.sales.AddPayment(ctx, "nope", dto.AddPaymentRequest{Payments: []dto.PaymentLineRequest{
		{Amount: dec("1"), PaymentMethod: "cash"},
	}})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ── Actualización ──────────────────────────────────────────────────────────────

func TestUpdateSale_PendienteACompletadaDescuentaUnaVez(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	req := dto.CreateSaleRequest{
		Items:         []dto.SaleItemRequest{{ProductID: e.shirt.ID, VariationID: e.variationID("M"), Quantity: 2, UnitPrice: price("20")}},
		PaymentMethod: "credit",
		Status:        entity.SaleStatusPending,
	}
	sale, err := e.sales.CreateSale(ctx, "u-1", req)
	require.NoError(t, err)
	m, _ := e.stock(t, e.shirt.ID, "M")
	assert.Equal(t, 5, m, "pendiente no toca stock")

	completed := entity.SaleStatusCompleted
	got, err := e.sales.UpdateSale(ctx, "u-1", sale.ID, dto.UpdateSaleRequest{Status: &completed})
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusCompleted, got.Status)
	m, total := e.stock(t, e.shirt.ID, "M")
	assert.Equal(t, 3, m)
	assert.Equal(t, 6, total)

	_, err = e.sales.UpdateSale(ctx, "u-1", sale.ID, dto.UpdateSaleRequest{Status: &completed})
	require.NoError(t, err)
	m, _ = e.stock(t, e.shirt.ID, "M")
	assert.Equal(t, 3, m, "repetir el estado no vuelve a descontar")

	pending := entity.SaleStatusPending
	_, err = e.sales.UpdateSale(ctx, "u-1", sale.ID, dto.UpdateSaleRequest{Status: &pending})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestUpdateSale_RecalculaSinEfectosEnElLibro(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	sale, err := e.sales.CreateSale(ctx, "u-1", e.gadgetSale(2, "credit"))
	require.NoError(t, err)
	before, err := e.ledger.ListMovements(ctx, e.gadget.ID, dto.PageRequest{})
	require.NoError(t, err)

	discount := dec("20")
	tax := dec("5.50")
	got, err := e.sales.UpdateSale(ctx, "u-1", sale.ID, dto.UpdateSaleRequest{Discount: &discount, Tax: &tax})
	require.NoError(t, err)
	assert.Equal(t, "185.50", got.Total.StringFixed(2))
	assert.Equal(t, "200.00", got.Subtotal.StringFixed(2))
	assert.Equal(t, "60.00", got.TotalProfit.StringFixed(2))
	require.NotNil(t, got.Due)
	assert.Equal(t, "185.50", got.Due.AmountDue.StringFixed(2))

	again, err := e.sales.UpdateSale(ctx, "u-1", sale.ID, dto.UpdateSaleRequest{})
	require.NoError(t, err)
	assert.Equal(t, got.Total.String(), again.Total.String())
	assert.Equal(t, got.TotalProfit.String(), again.TotalProfit.String())

	after, err := e.ledger.ListMovements(ctx, e.gadget.ID, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, after, len(before), "recalcular no agrega movimientos")
}

func TestUpdateSale_TotalPorDebajoDeLoCobrado(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	sale, err := e.sales.CreateSale(ctx, "u-1", e.gadgetSale(1, "cash"))
	require.NoError(t, err)

	discount := dec("10")
	_, err = e.sales.UpdateSale(ctx, "u-1", sale.ID, dto.UpdateSaleRequest{Discount: &discount})
	assert.ErrorIs(t, err, domain.ErrOverPayment)

	tax := dec("19")
	got, err := e.sales.UpdateSale(ctx, "u-1", sale.ID, dto.UpdateSaleRequest{Tax: &tax})
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusPartial, got.PaymentStatus)
	require.NotNil(t, got.Due, "subir el total abre cuenta por cobrar")
	assert.Equal(t, "19.00", got.Due.RemainingAmount.StringFixed(2))
}

// ── Anulación y devoluciones ───────────────────────────────────────────────────

func TestCancelSale_ReponeUnaSolaVez(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	sale, err := e.sales.CreateSale(ctx, "u-1", dto.CreateSaleRequest{
		Items:         []dto.SaleItemRequest{{ProductID: e.shirt.ID, VariationID: e.variationID("L"), Quantity: 3, UnitPrice: price("20")}},
		PaymentMethod: "cash",
	})
	require.NoError(t, err)
	l, _ := e.stock(t, e.shirt.ID, "L")
	require.Equal(t, 0, l)

	for i := 0; i < 2; i++ {
		got, err := e.sales.CancelSale(ctx, "u-1", sale.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.SaleStatusCancelled, got.Status)
	}
	l, total := e.stock(t, e.shirt.ID, "L")
	assert.Equal(t, 3, l)
	assert.Equal(t, 8, total)

	_, err = e.sales.AddPayment(ctx, sale.ID, dto.AddPaymentRequest{Payments: []dto.PaymentLineRequest{{Amount: dec("1"), PaymentMethod: "cash"}}})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestProcessReturn_ParcialLuegoTotal(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	sale, err := e.sales.CreateSale(ctx, "u-1", dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{
			{ProductID: e.gadget.ID, Quantity: 2, UnitPrice: price("100")},
			{ProductID: e.shirt.ID, VariationID: e.variationID("M"), Quantity: 1, UnitPrice: price("50"), Discount: dec("10")},
		},
		Discount:      dec("20"),
		PaymentMethod: "cash",
	})
	require.NoError(t, err)
	gadgetLine, shirtLine := sale.Items[0], sale.Items[1]
	require.Equal(t, e.gadget.ID, gadgetLine.ProductID)

	ret, err := e.sales.ProcessReturn(ctx, "u-1", sale.ID, dto.ReturnRequest{
		Reason: "talla",
		Items:  []dto.ReturnLineRequest{{SaleItemID: gadgetLine.ID, Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Regexp(t, `^RET-[0-9A-F]{8}$`, ret.ReturnNumber)
	assert.Equal(t, "91.67", ret.RefundAmount.StringFixed(2))
	assert.Equal(t, entity.SaleStatusCompleted, ret.SaleStatus)
	_, gadgetStock := e.stock(t, e.gadget.ID, "")
	assert.Equal(t, 9, gadgetStock)

	_, err = e.sales.ProcessReturn(ctx, "u-1", sale.ID, dto.ReturnRequest{
		Items: []dto.ReturnLineRequest{{SaleItemID: gadgetLine.ID, Quantity: 2}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "no se devuelve más de lo vendido")

	ret, err = e.sales.ProcessReturn(ctx, "u-1", sale.ID, dto.ReturnRequest{
		Items: []dto.ReturnLineRequest{
			{SaleItemID: gadgetLine.ID, Quantity: 1},
			{SaleItemID: shirtLine.ID, Quantity: 1},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusRefunded, ret.SaleStatus)
	m, _ := e.stock(t, e.shirt.ID, "M")
	assert.Equal(t, 5, m)

	got, err := e.sales.GetSale(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Items[0].ReturnedQuantity)

	_, err = e.sales.CancelSale(ctx, "u-1", sale.ID)
	assert.ErrorIs(t, err, domain.ErrConflict, "una venta devuelta no se anula")
}
