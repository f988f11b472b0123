package sales

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/application/dto"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/application/inventory"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain/entity"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain/repository"
	dsales "github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain/sales"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/pkg/docnumber"
)

// WalkInCustomerName nombre provisional del cliente creado al vuelo por teléfono.
const WalkInCustomerName = "Cliente mostrador"

// CreateSale crea la venta de forma atómica:
//  1. valida el carrito y fija precios (los que faltan se resuelven con el descuento vigente)
//  2. resuelve el cliente por teléfono o lo crea
//  3. calcula totales y ganancia/pérdida por línea
//  4. descuenta stock con un movimiento OUT por línea (solo si la venta nace completed)
//  5. registra pagos y, si falta cobrar, la cuenta por cobrar a DueDays
//
// Si algo falla no queda nada escrito.
func (uc *SaleUseCase) CreateSale(ctx context.Context, userID string, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if err := validateCreate(in); err != nil {
		return nil, err
	}
	status := in.Status
	if status == "" {
		status = entity.SaleStatusCompleted
	}

	// Precios y teléfono se resuelven antes de abrir la transacción (lecturas sin bloqueo).
	prices, err := uc.resolvePrices(ctx, in.Items)
	if err != nil {
		return nil, err
	}
	phone := ""
	if in.CustomerID == "" && strings.TrimSpace(in.CustomerPhone) != "" {
		if phone, err = uc.phones.Normalize(in.CustomerPhone); err != nil {
			return nil, domain.NewValidationError("customer_phone", err.Error())
		}
	}

	now := uc.now()
	sale := &entity.Sale{
		ID:        uuid.New().String(),
		Date:      now,
		Discount:  in.Discount,
		Tax:       in.Tax,
		Status:    status,
		Notes:     in.Notes,
		OrderID:   in.OrderID,
		CreatedBy: userID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		customerID, err := uc.resolveCustomer(ctx, repos, in, phone)
		if err != nil {
			return err
		}
		sale.CustomerID = customerID

		costs := make(map[string]decimal.Decimal, len(in.Items))
		resolved := make(map[string]struct{}, len(in.Items))
		for i, line := range in.Items {
			item, cost, err := uc.buildItem(ctx, repos, sale.ID, line, prices[i])
			if err != nil {
				return err
			}
			// Una variante puede nombrarse por ID o por talla/color: se compara ya resuelta.
			key := item.ProductID + "|" + item.VariationID
			if _, dup := resolved[key]; dup {
				return domain.NewValidationError(fmt.Sprintf("items[%d]", i), "variante repetida en la misma venta")
			}
			resolved[key] = struct{}{}
			item.CreatedAt = now.Add(timeOffset(i))
			costs[item.ProductID] = cost
			sale.Items = append(sale.Items, item)
		}

		totals := dsales.CalculateTotals(sale, costs)
		if sale.Total.IsNegative() {
			return domain.NewValidationError("discount", fmt.Sprintf("el descuento supera el valor de la venta (%s)", totals.AfterItemDiscounts.StringFixed(2)))
		}

		payments, err := uc.buildPayments(sale, in, now)
		if err != nil {
			return err
		}
		sale.PaymentMethod = dsales.HeaderMethod(payments, in.PaymentMethod)
		dsales.ApplyPaymentState(sale, payments)

		if sale.InvoiceNumber, err = uc.nextNumber(docnumber.PrefixInvoice, func(n string) (bool, error) {
			return repos.Sales.ExistsInvoiceNumber(ctx, n)
		}); err != nil {
			return err
		}

		if err := repos.Sales.Create(ctx, sale); err != nil {
			return err
		}
		for _, item := range sale.Items {
			if err := repos.Sales.CreateItem(ctx, item); err != nil {
				return err
			}
		}
		if sale.Status == entity.SaleStatusCompleted {
			if err := uc.issueStock(ctx, repos, sale, userID); err != nil {
				return err
			}
		}
		for _, p := range payments {
			if err := repos.Payments.CreatePayment(ctx, p); err != nil {
				return err
			}
		}
		if sale.AmountDue.IsPositive() {
			due := &entity.DuePayment{
				ID:         uuid.New().String(),
				SaleID:     sale.ID,
				CustomerID: sale.CustomerID,
				AmountDue:  sale.AmountDue,
				AmountPaid: decimal.Zero,
				DueDate:    now.AddDate(0, 0, uc.cfg.DueDays),
				Status:     entity.DueStatusPending,
				CreatedAt:  now,
				UpdatedAt:  now,
			}
			if err := repos.Payments.CreateDue(ctx, due); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("sale_id", sale.ID).
		Str("invoice", sale.InvoiceNumber).
		Str("total", sale.Total.StringFixed(2)).
		Str("payment_status", sale.PaymentStatus).
		Msg("venta creada")
	return uc.GetSale(ctx, sale.ID)
}

// timeOffset conserva el orden de las líneas al releerlas (resolución de microsegundos en Postgres).
func timeOffset(i int) time.Duration { return time.Duration(i) * time.Microsecond }

func validateCreate(in dto.CreateSaleRequest) error {
	if len(in.Items) == 0 {
		return domain.NewValidationError("items", "la venta necesita al menos una línea")
	}
	if !dsales.IsValidSaleMethod(in.PaymentMethod) {
		return domain.NewValidationError("payment_method", "método no válido: "+in.PaymentMethod)
	}
	if in.Status != "" && in.Status != entity.SaleStatusPending && in.Status != entity.SaleStatusCompleted {
		return domain.NewValidationError("status", "solo pending o completed al crear")
	}
	if in.Discount.IsNegative() {
		return domain.NewValidationError("discount", "no puede ser negativo")
	}
	if in.Tax.IsNegative() {
		return domain.NewValidationError("tax", "no puede ser negativo")
	}
	seen := make(map[string]struct{}, len(in.Items))
	for i, it := range in.Items {
		field := fmt.Sprintf("items[%d]", i)
		if it.ProductID == "" {
			return domain.NewValidationError(field+".product_id", "requerido")
		}
		if it.Quantity <= 0 {
			return domain.NewValidationError(field+".quantity", "debe ser mayor que cero")
		}
		if it.Discount.IsNegative() {
			return domain.NewValidationError(field+".discount", "no puede ser negativo")
		}
		if it.UnitPrice != nil && it.UnitPrice.IsNegative() {
			return domain.NewValidationError(field+".unit_price", "no puede ser negativo")
		}
		key := it.ProductID + "|" + it.VariationID + "|" + strings.ToLower(it.Size) + "|" + strings.ToLower(it.Color)
		if _, dup := seen[key]; dup {
			return domain.NewValidationError(field, "variante repetida en la misma venta")
		}
		seen[key] = struct{}{}
	}
	for i, p := range in.Payments {
		field := fmt.Sprintf("payments[%d]", i)
		if !p.Amount.IsPositive() {
			return domain.NewValidationError(field+".amount", "debe ser mayor que cero")
		}
		if !dsales.IsImmediateMethod(p.PaymentMethod) {
			return domain.NewValidationError(field+".payment_method", "método no válido: "+p.PaymentMethod)
		}
	}
	return nil
}

// resolvePrices devuelve el precio unitario por línea: el del payload o el vigente del catálogo.
func (uc *SaleUseCase) resolvePrices(ctx context.Context, items []dto.SaleItemRequest) ([]decimal.Decimal, error) {
	out := make([]decimal.Decimal, len(items))
	for i, it := range items {
		if it.UnitPrice != nil {
			out[i] = *it.UnitPrice
			continue
		}
		product, err := uc.repos.Products.GetByID(ctx, it.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, it.ProductID)
		}
		if out[i], err = uc.prices.UnitPrice(ctx, product); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// resolveCustomer: por ID, por teléfono normalizado o creado al vuelo con datos provisionales.
// Sin ID ni teléfono la venta queda sin cliente (mostrador).
func (uc *SaleUseCase) resolveCustomer(ctx context.Context, repos repository.Repositories, in dto.CreateSaleRequest, phone string) (string, error) {
	if in.CustomerID != "" {
		c, err := repos.Customers.GetByID(ctx, in.CustomerID)
		if err != nil {
			return "", err
		}
		if c == nil {
			return "", fmt.Errorf("%w: cliente %s", domain.ErrNotFound, in.CustomerID)
		}
		return c.ID, nil
	}
	if phone == "" {
		return "", nil
	}
	c, err := repos.Customers.GetByPhone(ctx, phone)
	if err != nil {
		return "", err
	}
	if c != nil {
		return c.ID, nil
	}
	name := strings.TrimSpace(in.CustomerName)
	if name == "" {
		name = WalkInCustomerName
	}
	now := uc.now()
	c = &entity.Customer{
		ID:        uuid.New().String(),
		Name:      name,
		Phone:     phone,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := repos.Customers.Create(ctx, c); err != nil {
		return "", err
	}
	return c.ID, nil
}

// buildItem arma la línea y devuelve el costo unitario del producto.
func (uc *SaleUseCase) buildItem(ctx context.Context, repos repository.Repositories, saleID string, line dto.SaleItemRequest, price decimal.Decimal) (*entity.SaleItem, decimal.Decimal, error) {
	product, err := repos.Products.GetByID(ctx, line.ProductID)
	if err != nil {
		return nil, decimal.Zero, err
	}
	if product == nil {
		return nil, decimal.Zero, fmt.Errorf("%w: producto %s", domain.ErrNotFound, line.ProductID)
	}
	item := &entity.SaleItem{
		ID:        uuid.New().String(),
		SaleID:    saleID,
		ProductID: product.ID,
		Quantity:  line.Quantity,
		UnitPrice: price,
		Discount:  line.Discount,
	}

	variation, err := uc.findVariation(ctx, repos, product.ID, line.VariationID, line.Size, line.Color)
	if err != nil {
		return nil, decimal.Zero, err
	}
	if variation != nil {
		item.VariationID = variation.ID
		item.Size = variation.Size
		item.Color = variation.Color
	}
	if item.Discount.GreaterThan(item.Gross()) {
		return nil, decimal.Zero, domain.NewValidationError("discount", "el descuento de línea supera su valor")
	}
	return item, product.CostPrice, nil
}

// findVariation por ID o por (talla, color). Un producto con variantes exige una.
func (uc *SaleUseCase) findVariation(ctx context.Context, repos repository.Repositories, productID, variationID, size, color string) (*entity.ProductVariation, error) {
	switch {
	case variationID != "":
		v, err := repos.Variations.GetByID(ctx, variationID)
		if err != nil {
			return nil, err
		}
		if v == nil || v.ProductID != productID {
			return nil, fmt.Errorf("%w: variante %s", domain.ErrNotFound, variationID)
		}
		return v, nil
	case size != "" || color != "":
		v, err := repos.Variations.FindByAttributes(ctx, productID, size, color)
		if err != nil {
			return nil, err
		}
		if v == nil {
			return nil, fmt.Errorf("%w: variante %s/%s", domain.ErrNotFound, size, color)
		}
		return v, nil
	}
	n, err := repos.Variations.CountByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, domain.NewValidationError("variation_id", "el producto tiene variantes: indique variante o talla/color")
	}
	return nil, nil
}

// buildPayments líneas del payload o, si no hay y el método liquida en el acto, una por el total.
// credit no genera pago. La suma no puede superar el total.
func (uc *SaleUseCase) buildPayments(sale *entity.Sale, in dto.CreateSaleRequest, now time.Time) ([]*entity.SalePayment, error) {
	lines := in.Payments
	if len(lines) == 0 && dsales.IsImmediateMethod(in.PaymentMethod) && sale.Total.IsPositive() {
		lines = []dto.PaymentLineRequest{{Amount: sale.Total, PaymentMethod: in.PaymentMethod}}
	}
	sum := decimal.Zero
	out := make([]*entity.SalePayment, 0, len(lines))
	for _, l := range lines {
		sum = sum.Add(l.Amount)
		out = append(out, newPayment(sale.ID, l, now))
	}
	if sum.GreaterThan(sale.Total) {
		return nil, fmt.Errorf("%w: pagos %s sobre total %s", domain.ErrOverPayment, sum.StringFixed(2), sale.Total.StringFixed(2))
	}
	return out, nil
}

func newPayment(saleID string, l dto.PaymentLineRequest, now time.Time) *entity.SalePayment {
	return &entity.SalePayment{
		ID:            uuid.New().String(),
		SaleID:        saleID,
		Amount:        l.Amount,
		PaymentMethod: l.PaymentMethod,
		Status:        entity.PaymentLineCompleted,
		TransactionID: l.TransactionID,
		IsGiftPayment: l.PaymentMethod == entity.PaymentMethodGift,
		Notes:         l.Notes,
		PaymentDate:   now,
		CreatedAt:     now,
	}
}

// issueStock un OUT por línea con la factura como referencia; idempotente por libro.
func (uc *SaleUseCase) issueStock(ctx context.Context, repos repository.Repositories, sale *entity.Sale, userID string) error {
	for _, item := range sale.Items {
		if _, _, err := uc.ledger.ApplyMovementOnce(ctx, repos, inventory.MovementInput{
			ProductID:       item.ProductID,
			VariationID:     item.VariationID,
			Type:            entity.MovementTypeOUT,
			Quantity:        item.Quantity,
			ReferenceNumber: sale.InvoiceNumber,
			Notes:           "venta " + sale.InvoiceNumber,
			UserID:          userID,
		}); err != nil {
			return err
		}
	}
	return nil
}
