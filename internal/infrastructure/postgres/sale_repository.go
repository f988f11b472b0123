package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain/entity"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

const saleColumns = `id, invoice_number, COALESCE(customer_id, ''), COALESCE(order_id, ''), date, subtotal, tax, discount, total,
	total_profit, total_loss, payment_method, status, amount_paid, amount_due, gift_amount,
	is_fully_paid, payment_status, notes, created_by, created_at, updated_at`

const saleItemColumns = `id, sale_id, product_id, COALESCE(variation_id, ''), size, color, quantity,
	unit_price, discount, total, profit, loss, returned_quantity, created_at`

// SaleRepo cabeceras y líneas de venta sobre PostgreSQL (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador de ventas. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	err := row.Scan(&s.ID, &s.InvoiceNumber, &s.CustomerID, &s.OrderID, &s.Date, &s.Subtotal, &s.Tax, &s.Discount, &s.Total,
		&s.TotalProfit, &s.TotalLoss, &s.PaymentMethod, &s.Status, &s.AmountPaid, &s.AmountDue, &s.GiftAmount,
		&s.IsFullyPaid, &s.PaymentStatus, &s.Notes, &s.CreatedBy, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create persiste la cabecera. invoice_number es único: una colisión devuelve ErrDuplicate.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	query := `
		INSERT INTO sales (id, invoice_number, customer_id, order_id, date, subtotal, tax, discount, total,
			total_profit, total_loss, payment_method, status, amount_paid, amount_due, gift_amount,
			is_fully_paid, payment_status, notes, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.InvoiceNumber, nullIfEmpty(s.CustomerID), nullIfEmpty(s.OrderID), s.Date, s.Subtotal, s.Tax, s.Discount, s.Total,
		s.TotalProfit, s.TotalLoss, s.PaymentMethod, s.Status, s.AmountPaid, s.AmountDue, s.GiftAmount,
		s.IsFullyPaid, s.PaymentStatus, s.Notes, s.CreatedBy, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: factura %s o pedido %s ya facturado", domain.ErrDuplicate, s.InvoiceNumber, s.OrderID)
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// CreateItem persiste una línea.
func (r *SaleRepo) CreateItem(ctx context.Context, it *entity.SaleItem) error {
	query := `
		INSERT INTO sale_items (id, sale_id, product_id, variation_id, size, color, quantity,
			unit_price, discount, total, profit, loss, returned_quantity, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		it.ID, it.SaleID, it.ProductID, nullIfEmpty(it.VariationID), it.Size, it.Color, it.Quantity,
		it.UnitPrice, it.Discount, it.Total, it.Profit, it.Loss, it.ReturnedQuantity, it.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert sale item: %w", err)
	}
	return nil
}

// Update persiste totales, estado de pago, estado y notas de la cabecera.
func (r *SaleRepo) Update(ctx context.Context, s *entity.Sale) error {
	query := `
		UPDATE sales SET subtotal = $2, tax = $3, discount = $4, total = $5, total_profit = $6, total_loss = $7,
			payment_method = $8, status = $9, amount_paid = $10, amount_due = $11, gift_amount = $12,
			is_fully_paid = $13, payment_status = $14, notes = $15, updated_at = $16
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		s.ID, s.Subtotal, s.Tax, s.Discount, s.Total, s.TotalProfit, s.TotalLoss,
		s.PaymentMethod, s.Status, s.AmountPaid, s.AmountDue, s.GiftAmount,
		s.IsFullyPaid, s.PaymentStatus, s.Notes, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update sale: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateItem persiste los campos calculados de la línea y lo devuelto.
func (r *SaleRepo) UpdateItem(ctx context.Context, it *entity.SaleItem) error {
	query := `
		UPDATE sale_items SET total = $2, profit = $3, loss = $4, returned_quantity = $5
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, it.ID, it.Total, it.Profit, it.Loss, it.ReturnedQuantity)
	if err != nil {
		return fmt.Errorf("update sale item: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetByID venta con sus líneas en orden de captura.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	return r.load(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1`, id)
}

// GetForUpdate igual que GetByID pero bloquea la cabecera hasta el fin de la transacción.
func (r *SaleRepo) GetForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	return r.load(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1 FOR UPDATE`, id)
}

func (r *SaleRepo) load(ctx context.Context, query, id string) (*entity.Sale, error) {
	s, err := scanSale(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	rows, err := r.q.Query(ctx, `SELECT `+saleItemColumns+` FROM sale_items WHERE sale_id = $1 ORDER BY created_at, id`, id)
	if err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.SaleItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.VariationID, &it.Size, &it.Color, &it.Quantity,
			&it.UnitPrice, &it.Discount, &it.Total, &it.Profit, &it.Loss, &it.ReturnedQuantity, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		s.Items = append(s.Items, &it)
	}
	return s, rows.Err()
}

// ExistsInvoiceNumber indica si el número ya está tomado.
func (r *SaleRepo) ExistsInvoiceNumber(ctx context.Context, invoiceNumber string) (bool, error) {
	var ok bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM sales WHERE invoice_number = $1)`, invoiceNumber).Scan(&ok); err != nil {
		return false, fmt.Errorf("exists invoice number: %w", err)
	}
	return ok, nil
}

// GetByOrderID venta generada por el pedido (con líneas), nil si no existe.
func (r *SaleRepo) GetByOrderID(ctx context.Context, orderID string) (*entity.Sale, error) {
	var id string
	if err := r.q.QueryRow(ctx, `SELECT id FROM sales WHERE order_id = $1`, orderID).Scan(&id); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale by order: %w", err)
	}
	return r.GetByID(ctx, id)
}

// List cabeceras, más reciente primero (sin líneas).
func (r *SaleRepo) List(ctx context.Context, limit, offset int) ([]*entity.Sale, error) {
	rows, err := r.q.Query(ctx, `SELECT `+saleColumns+` FROM sales ORDER BY created_at DESC, id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}
