package sales

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/application/dto"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/application/inventory"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain/entity"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain/money"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain/repository"
	dsales "github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain/sales"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/pkg/docnumber"
)

// UpdateSale modifica la cabecera (descuento, impuesto, notas, estado) y recalcula totales.
// pending → completed descuenta el stock una sola vez; completed no vuelve a pending.
// Recalcular sin cambios no escribe movimientos.
func (uc *SaleUseCase) UpdateSale(ctx context.Context, userID, saleID string, in dto.UpdateSaleRequest) (*dto.SaleResponse, error) {
	if in.Discount != nil && in.Discount.IsNegative() {
		return nil, domain.NewValidationError("discount", "no puede ser negativo")
	}
	if in.Tax != nil && in.Tax.IsNegative() {
		return nil, domain.NewValidationError("tax", "no puede ser negativo")
	}

	err := uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		sale, err := payableSale(ctx, repos, saleID)
		if err != nil {
			return err
		}
		completing := false
		if in.Status != nil && *in.Status != sale.Status {
			switch {
			case sale.Status == entity.SaleStatusPending && *in.Status == entity.SaleStatusCompleted:
				completing = true
			default:
				return fmt.Errorf("%w: transición %s → %s no permitida", domain.ErrConflict, sale.Status, *in.Status)
			}
		}
		if in.Discount != nil {
			sale.Discount = *in.Discount
		}
		if in.Tax != nil {
			sale.Tax = *in.Tax
		}
		if in.Notes != nil {
			sale.Notes = *in.Notes
		}

		if err := uc.recalculate(ctx, repos, sale); err != nil {
			return err
		}
		if completing {
			sale.Status = entity.SaleStatusCompleted
			if err := uc.issueStock(ctx, repos, sale, userID); err != nil {
				return err
			}
		}

		payments, err := repos.Payments.ListBySale(ctx, sale.ID)
		if err != nil {
			return err
		}
		dsales.ApplyPaymentState(sale, payments)
		if sale.AmountPaid.GreaterThan(sale.Total) {
			return fmt.Errorf("%w: lo cobrado (%s) supera el nuevo total (%s)", domain.ErrOverPayment,
				sale.AmountPaid.StringFixed(2), sale.Total.StringFixed(2))
		}
		now := uc.now()
		sale.UpdatedAt = now
		if err := repos.Sales.Update(ctx, sale); err != nil {
			return err
		}
		return uc.syncDue(ctx, repos, sale, decimal.Zero, now)
	})
	if err != nil {
		return nil, err
	}
	return uc.GetSale(ctx, saleID)
}

// recalculate aplica CalculateTotals con los costos vigentes y persiste las líneas.
func (uc *SaleUseCase) recalculate(ctx context.Context, repos repository.Repositories, sale *entity.Sale) error {
	costs := make(map[string]decimal.Decimal, len(sale.Items))
	for _, item := range sale.Items {
		if _, ok := costs[item.ProductID]; ok {
			continue
		}
		p, err := repos.Products.GetByID(ctx, item.ProductID)
		if err != nil {
			return err
		}
		if p != nil {
			costs[item.ProductID] = p.CostPrice
		}
	}
	dsales.CalculateTotals(sale, costs)
	if sale.Total.IsNegative() {
		return domain.NewValidationError("discount", "el descuento supera el valor de la venta")
	}
	for _, item := range sale.Items {
		if err := repos.Sales.UpdateItem(ctx, item); err != nil {
			return err
		}
	}
	return nil
}

// CancelSale anula la venta y repone con IN lo que sigue fuera (vendido menos devuelto).
// Anular dos veces no repone dos veces.
func (uc *SaleUseCase) CancelSale(ctx context.Context, userID, saleID string) (*dto.SaleResponse, error) {
	err := uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		sale, err := repos.Sales.GetForUpdate(ctx, saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		switch sale.Status {
		case entity.SaleStatusCancelled:
			return nil
		case entity.SaleStatusRefunded:
			return fmt.Errorf("%w: la venta ya fue devuelta", domain.ErrConflict)
		}
		if sale.Status == entity.SaleStatusCompleted {
			ref := docnumber.PrefixCancel + sale.InvoiceNumber
			for _, item := range sale.Items {
				qty := item.RemainingQuantity()
				if qty <= 0 {
					continue
				}
				if _, _, err := uc.ledger.ApplyMovementOnce(ctx, repos, inventory.MovementInput{
					ProductID:       item.ProductID,
					VariationID:     item.VariationID,
					Type:            entity.MovementTypeIN,
					Quantity:        qty,
					ReferenceNumber: ref,
					Notes:           "anulación " + sale.InvoiceNumber,
					UserID:          userID,
				}); err != nil {
					return err
				}
			}
		}
		sale.Status = entity.SaleStatusCancelled
		sale.UpdatedAt = uc.now()
		return repos.Sales.Update(ctx, sale)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("sale_id", saleID).Msg("venta anulada")
	return uc.GetSale(ctx, saleID)
}

// ProcessReturn devuelve unidades de una venta completada: número RET-, movimientos IN con esa
// referencia y registro de la devolución. Nunca se devuelve más de lo vendido; si todo quedó
// devuelto la venta pasa a refunded.
func (uc *SaleUseCase) ProcessReturn(ctx context.Context, userID, saleID string, in dto.ReturnRequest) (*dto.ReturnResponse, error) {
	if len(in.Items) == 0 {
		return nil, domain.NewValidationError("items", "al menos una línea")
	}
	seen := make(map[string]struct{}, len(in.Items))
	for i, l := range in.Items {
		if l.Quantity <= 0 {
			return nil, domain.NewValidationError(fmt.Sprintf("items[%d].quantity", i), "debe ser mayor que cero")
		}
		if _, dup := seen[l.SaleItemID]; dup {
			return nil, domain.NewValidationError(fmt.Sprintf("items[%d].sale_item_id", i), "línea repetida")
		}
		seen[l.SaleItemID] = struct{}{}
	}

	var ret *entity.SaleReturn
	var saleStatus string
	err := uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		sale, err := repos.Sales.GetForUpdate(ctx, saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		if sale.Status != entity.SaleStatusCompleted {
			return fmt.Errorf("%w: solo se devuelven ventas completadas (estado %s)", domain.ErrConflict, sale.Status)
		}
		items := make(map[string]*entity.SaleItem, len(sale.Items))
		for _, it := range sale.Items {
			items[it.ID] = it
		}

		number, err := uc.nextNumber(docnumber.PrefixReturn, func(n string) (bool, error) {
			return repos.Returns.ExistsReturnNumber(ctx, n)
		})
		if err != nil {
			return err
		}
		now := uc.now()
		ret = &entity.SaleReturn{
			ID:           uuid.New().String(),
			ReturnNumber: number,
			SaleID:       sale.ID,
			Reason:       in.Reason,
			RefundAmount: decimal.Zero,
			CreatedBy:    userID,
			CreatedAt:    now,
		}

		for i, l := range in.Items {
			item, ok := items[l.SaleItemID]
			if !ok {
				return fmt.Errorf("%w: línea %s no pertenece a la venta", domain.ErrNotFound, l.SaleItemID)
			}
			if l.Quantity > item.RemainingQuantity() {
				return domain.NewValidationError(fmt.Sprintf("items[%d].quantity", i),
					fmt.Sprintf("excede lo pendiente de devolver (%d)", item.RemainingQuantity()))
			}
			if _, _, err := uc.ledger.ApplyMovementOnce(ctx, repos, inventory.MovementInput{
				ProductID:       item.ProductID,
				VariationID:     item.VariationID,
				Type:            entity.MovementTypeIN,
				Quantity:        l.Quantity,
				ReferenceNumber: number,
				Notes:           "devolución de " + sale.InvoiceNumber,
				UserID:          userID,
			}); err != nil {
				return err
			}
			amount := dsales.ReturnAmount(sale, item, l.Quantity)
			item.ReturnedQuantity += l.Quantity
			if err := repos.Sales.UpdateItem(ctx, item); err != nil {
				return err
			}
			ret.Items = append(ret.Items, &entity.SaleReturnItem{
				ID:         uuid.New().String(),
				ReturnID:   ret.ID,
				SaleItemID: item.ID,
				Quantity:   l.Quantity,
				Amount:     amount,
			})
			ret.RefundAmount = ret.RefundAmount.Add(amount)
		}
		ret.RefundAmount = money.Round2(ret.RefundAmount)
		if err := repos.Returns.Create(ctx, ret); err != nil {
			return err
		}

		fully := true
		for _, it := range sale.Items {
			if it.RemainingQuantity() > 0 {
				fully = false
				break
			}
		}
		if fully {
			sale.Status = entity.SaleStatusRefunded
			sale.UpdatedAt = now
			if err := repos.Sales.Update(ctx, sale); err != nil {
				return err
			}
		}
		saleStatus = sale.Status
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("sale_id", saleID).Str("return_number", ret.ReturnNumber).
		Str("refund", ret.RefundAmount.StringFixed(2)).Msg("devolución registrada")
	out := &dto.ReturnResponse{
		ID:           ret.ID,
		ReturnNumber: ret.ReturnNumber,
		SaleID:       ret.SaleID,
		Reason:       ret.Reason,
		RefundAmount: ret.RefundAmount,
		SaleStatus:   saleStatus,
		CreatedAt:    ret.CreatedAt,
		Items:        make([]dto.ReturnItemResponse, 0, len(ret.Items)),
	}
	for _, it := range ret.Items {
		out.Items = append(out.Items, dto.ReturnItemResponse{SaleItemID: it.SaleItemID, Quantity: it.Quantity, Amount: it.Amount})
	}
	return out, nil
}
