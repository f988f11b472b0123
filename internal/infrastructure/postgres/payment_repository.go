package postgres

import (
	"context"
	"fmt"

	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain/entity"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain/repository"
)

var (
	_ repository.PaymentRepository = (*PaymentRepo)(nil)
	_ repository.ReturnRepository  = (*ReturnRepo)(nil)
)

// PaymentRepo pagos y cuentas por cobrar sobre PostgreSQL (usable con pool o tx).
type PaymentRepo struct {
	q Querier
}

// NewPaymentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPaymentRepository(q Querier) *PaymentRepo {
	return &PaymentRepo{q: q}
}

// CreatePayment persiste una línea de pago.
func (r *PaymentRepo) CreatePayment(ctx context.Context, p *entity.SalePayment) error {
	query := `
		INSERT INTO sale_payments (id, sale_id, amount, payment_method, status, transaction_id,
			is_gift_payment, notes, payment_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.SaleID, p.Amount, p.PaymentMethod, p.Status, p.TransactionID,
		p.IsGiftPayment, p.Notes, p.PaymentDate, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert sale payment: %w", err)
	}
	return nil
}

// ListBySale pagos de la venta en orden cronológico.
func (r *PaymentRepo) ListBySale(ctx context.Context, saleID string) ([]*entity.SalePayment, error) {
	query := `
		SELECT id, sale_id, amount, payment_method, status, transaction_id, is_gift_payment, notes, payment_date, created_at
		FROM sale_payments WHERE sale_id = $1 ORDER BY payment_date, created_at, id`
	rows, err := r.q.Query(ctx, query, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale payments: %w", err)
	}
	defer rows.Close()
	var list []*entity.SalePayment
	for rows.Next() {
		var p entity.SalePayment
		if err := rows.Scan(&p.ID, &p.SaleID, &p.Amount, &p.PaymentMethod, &p.Status, &p.TransactionID,
			&p.IsGiftPayment, &p.Notes, &p.PaymentDate, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan sale payment: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// CreateDue crea la cuenta por cobrar; hay una como máximo por venta.
func (r *PaymentRepo) CreateDue(ctx context.Context, d *entity.DuePayment) error {
	query := `
		INSERT INTO due_payments (id, sale_id, customer_id, amount_due, amount_paid, due_date, status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		d.ID, d.SaleID, nullIfEmpty(d.CustomerID), d.AmountDue, d.AmountPaid, d.DueDate, d.Status, d.Notes, d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert due payment: %w", err)
	}
	return nil
}

// GetDueBySale cuenta por cobrar de la venta o nil.
func (r *PaymentRepo) GetDueBySale(ctx context.Context, saleID string) (*entity.DuePayment, error) {
	query := `
		SELECT id, sale_id, COALESCE(customer_id, ''), amount_due, amount_paid, due_date, status, notes, created_at, updated_at
		FROM due_payments WHERE sale_id = $1`
	var d entity.DuePayment
	err := r.q.QueryRow(ctx, query, saleID).Scan(
		&d.ID, &d.SaleID, &d.CustomerID, &d.AmountDue, &d.AmountPaid, &d.DueDate, &d.Status, &d.Notes, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get due payment: %w", err)
	}
	return &d, nil
}

// UpdateDue persiste montos y estado de la cuenta por cobrar.
func (r *PaymentRepo) UpdateDue(ctx context.Context, d *entity.DuePayment) error {
	query := `
		UPDATE due_payments SET amount_due = $2, amount_paid = $3, status = $4, notes = $5, updated_at = $6
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, d.ID, d.AmountDue, d.AmountPaid, d.Status, d.Notes, d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update due payment: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ReturnRepo devoluciones de venta.
type ReturnRepo struct {
	q Querier
}

// NewReturnRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReturnRepository(q Querier) *ReturnRepo {
	return &ReturnRepo{q: q}
}

// Create persiste la devolución y sus líneas.
func (r *ReturnRepo) Create(ctx context.Context, ret *entity.SaleReturn) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO sale_returns (id, return_number, sale_id, reason, refund_amount, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		ret.ID, ret.ReturnNumber, ret.SaleID, ret.Reason, ret.RefundAmount, ret.CreatedBy, ret.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: devolución %s", domain.ErrDuplicate, ret.ReturnNumber)
		}
		return fmt.Errorf("insert sale return: %w", err)
	}
	for _, it := range ret.Items {
		_, err := r.q.Exec(ctx, `
			INSERT INTO sale_return_items (id, return_id, sale_item_id, quantity, amount)
			VALUES ($1, $2, $3, $4, $5)`,
			it.ID, ret.ID, it.SaleItemID, it.Quantity, it.Amount,
		)
		if err != nil {
			return fmt.Errorf("insert sale return item: %w", err)
		}
	}
	return nil
}

// ExistsReturnNumber indica si el número de devolución ya está tomado.
func (r *ReturnRepo) ExistsReturnNumber(ctx context.Context, returnNumber string) (bool, error) {
	var ok bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM sale_returns WHERE return_number = $1)`, returnNumber).Scan(&ok); err != nil {
		return false, fmt.Errorf("exists return number: %w", err)
	}
	return ok, nil
}

// ListBySale devoluciones de la venta con sus líneas.
func (r *ReturnRepo) ListBySale(ctx context.Context, saleID string) ([]*entity.SaleReturn, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, return_number, sale_id, reason, refund_amount, created_by, created_at
		FROM sale_returns WHERE sale_id = $1 ORDER BY created_at, id`, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale returns: %w", err)
	}
	var list []*entity.SaleReturn
	byID := make(map[string]*entity.SaleReturn)
	for rows.Next() {
		var ret entity.SaleReturn
		if err := rows.Scan(&ret.ID, &ret.ReturnNumber, &ret.SaleID, &ret.Reason, &ret.RefundAmount, &ret.CreatedBy, &ret.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan sale return: %w", err)
		}
		list = append(list, &ret)
		byID[ret.ID] = &ret
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return list, nil
	}

	items, err := r.q.Query(ctx, `
		SELECT ri.id, ri.return_id, ri.sale_item_id, ri.quantity, ri.amount
		FROM sale_return_items ri JOIN sale_returns sr ON sr.id = ri.return_id
		WHERE sr.sale_id = $1 ORDER BY ri.id`, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale return items: %w", err)
	}
	defer items.Close()
	for items.Next() {
		var it entity.SaleReturnItem
		if err := items.Scan(&it.ID, &it.ReturnID, &it.SaleItemID, &it.Quantity, &it.Amount); err != nil {
			return nil, fmt.Errorf("scan sale return item: %w", err)
		}
		if ret, ok := byID[it.ReturnID]; ok {
			ret.Items = append(ret.Items, &it)
		}
	}
	return list, items.Err()
}
