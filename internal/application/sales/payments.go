package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/application/dto"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain/entity"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain/repository"
	dsales "github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain/sales"
)

// AddPayment registra nuevas líneas de pago sobre una venta. La suma no puede superar amount_due.
func (uc *SaleUseCase) AddPayment(ctx context.Context, saleID string, in dto.AddPaymentRequest) (*dto.SaleResponse, error) {
	if len(in.Payments) == 0 {
		return nil, domain.NewValidationError("payments", "al menos una línea")
	}
	sum := decimal.Zero
	for i, p := range in.Payments {
		if !p.Amount.IsPositive() {
			return nil, domain.NewValidationError(fmt.Sprintf("payments[%d].amount", i), "debe ser mayor que cero")
		}
		if !dsales.IsImmediateMethod(p.PaymentMethod) {
			return nil, domain.NewValidationError(fmt.Sprintf("payments[%d].payment_method", i), "método no válido: "+p.PaymentMethod)
		}
		sum = sum.Add(p.Amount)
	}

	err := uc.withSaleLock(ctx, saleID, func() error {
		return uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
			sale, err := payableSale(ctx, repos, saleID)
			if err != nil {
				return err
			}
			if sum.GreaterThan(sale.AmountDue) {
				return fmt.Errorf("%w: pago %s sobre saldo %s", domain.ErrOverPayment, sum.StringFixed(2), sale.AmountDue.StringFixed(2))
			}
			return uc.recordPayments(ctx, repos, sale, in.Payments)
		})
	})
	if err != nil {
		return nil, err
	}
	return uc.GetSale(ctx, saleID)
}

// CompleteDuePayment abona a la cuenta por cobrar de la venta: crea el SalePayment, reduce el
// saldo y actualiza el estado de pago. Falla con ErrOverPayment si amount supera lo pendiente.
func (uc *SaleUseCase) CompleteDuePayment(ctx context.Context, saleID string, in dto.CompleteDueRequest) (*dto.DueResponse, error) {
	if !in.Amount.IsPositive() {
		return nil, domain.NewValidationError("amount", "debe ser mayor que cero")
	}
	if !dsales.IsImmediateMethod(in.PaymentMethod) {
		return nil, domain.NewValidationError("payment_method", "método no válido: "+in.PaymentMethod)
	}

	var due *entity.DuePayment
	err := uc.withSaleLock(ctx, saleID, func() error {
		return uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
			sale, err := payableSale(ctx, repos, saleID)
			if err != nil {
				return err
			}
			current, err := repos.Payments.GetDueBySale(ctx, saleID)
			if err != nil {
				return err
			}
			if current == nil || !current.RemainingAmount().IsPositive() {
				return fmt.Errorf("%w: la venta no tiene saldo pendiente", domain.ErrOverPayment)
			}
			if in.Amount.GreaterThan(current.RemainingAmount()) {
				return fmt.Errorf("%w: abono %s sobre saldo %s", domain.ErrOverPayment,
					in.Amount.StringFixed(2), current.RemainingAmount().StringFixed(2))
			}
			notes := in.Notes
			if notes == "" {
				notes = "abono a cuenta por cobrar"
			}
			line := dto.PaymentLineRequest{Amount: in.Amount, PaymentMethod: in.PaymentMethod, Notes: notes}
			if err := uc.recordPayments(ctx, repos, sale, []dto.PaymentLineRequest{line}); err != nil {
				return err
			}
			due, err = repos.Payments.GetDueBySale(ctx, saleID)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("sale_id", saleID).Str("amount", in.Amount.StringFixed(2)).Str("due_status", due.Status).Msg("abono registrado")
	out := toDueResponse(due)
	return out, nil
}

func payableSale(ctx context.Context, repos repository.Repositories, saleID string) (*entity.Sale, error) {
	sale, err := repos.Sales.GetForUpdate(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	if sale.Status == entity.SaleStatusCancelled || sale.Status == entity.SaleStatusRefunded {
		return nil, fmt.Errorf("%w: la venta está %s", domain.ErrConflict, sale.Status)
	}
	return sale, nil
}

// recordPayments crea los pagos, recalcula el estado de pago de la venta y sincroniza la cuenta por cobrar.
func (uc *SaleUseCase) recordPayments(ctx context.Context, repos repository.Repositories, sale *entity.Sale, lines []dto.PaymentLineRequest) error {
	now := uc.now()
	sum := decimal.Zero
	for _, l := range lines {
		if err := repos.Payments.CreatePayment(ctx, newPayment(sale.ID, l, now)); err != nil {
			return err
		}
		sum = sum.Add(l.Amount)
	}
	payments, err := repos.Payments.ListBySale(ctx, sale.ID)
	if err != nil {
		return err
	}
	sale.PaymentMethod = dsales.HeaderMethod(payments, sale.PaymentMethod)
	dsales.ApplyPaymentState(sale, payments)
	sale.UpdatedAt = now
	if err := repos.Sales.Update(ctx, sale); err != nil {
		return err
	}
	return uc.syncDue(ctx, repos, sale, sum, now)
}

// syncDue mantiene due.amount_due - due.amount_paid == sale.amount_due.
// paid es lo cobrado en este evento, que se abona a la cuenta si existe.
func (uc *SaleUseCase) syncDue(ctx context.Context, repos repository.Repositories, sale *entity.Sale, paid decimal.Decimal, now time.Time) error {
	due, err := repos.Payments.GetDueBySale(ctx, sale.ID)
	if err != nil {
		return err
	}
	if due == nil {
		if !sale.AmountDue.IsPositive() {
			return nil
		}
		due = &entity.DuePayment{
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
		return repos.Payments.CreateDue(ctx, due)
	}
	due.AmountPaid = due.AmountPaid.Add(paid)
	due.AmountDue = due.AmountPaid.Add(sale.AmountDue)
	due.Status = dsales.DueStatus(due)
	due.UpdatedAt = now
	return repos.Payments.UpdateDue(ctx, due)
}
