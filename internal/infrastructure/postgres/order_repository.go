package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain/entity"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain/repository"
)

var (
	_ repository.OrderRepository      = (*OrderRepo)(nil)
	_ repository.ConversionRepository = (*ConversionRepo)(nil)
)

// Las líneas del pedido son una foto inmutable: se guardan como JSONB.
const orderColumns = `id, source, customer_name, customer_phone, customer_email, status, items, total_amount, notes, created_at, updated_at`

// OrderRepo preórdenes y pedidos online sobre PostgreSQL (usable con pool o tx).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var o entity.Order
	err := row.Scan(&o.ID, &o.Source, &o.CustomerName, &o.CustomerPhone, &o.CustomerEmail, &o.Status,
		&o.Items, &o.TotalAmount, &o.Notes, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// Create persiste el pedido con sus líneas.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	query := `
		INSERT INTO orders (id, source, customer_name, customer_phone, customer_email, status, items, total_amount, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	items := o.Items
	if items == nil {
		items = []entity.OrderItem{}
	}
	_, err := r.q.Exec(ctx, query,
		o.ID, o.Source, o.CustomerName, o.CustomerPhone, o.CustomerEmail, o.Status, items, o.TotalAmount, o.Notes, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// GetByID obtiene un pedido por ID.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	o, err := scanOrder(r.q.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

// UpdateStatus cambia el estado del pedido.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id, status string) error {
	cmd, err := r.q.Exec(ctx, `UPDATE orders SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List pedidos, más reciente primero; status vacío no filtra.
func (r *OrderRepo) List(ctx context.Context, status string, limit, offset int) ([]*entity.Order, error) {
	query := `
		SELECT ` + orderColumns + ` FROM orders
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC, id LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

// ConversionRepo registro uno-a-uno pedido → venta.
type ConversionRepo struct {
	q Querier
}

// NewConversionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewConversionRepository(q Querier) *ConversionRepo {
	return &ConversionRepo{q: q}
}

// GetByOrderID registro de conversión del pedido o nil.
func (r *ConversionRepo) GetByOrderID(ctx context.Context, orderID string) (*entity.OnlineConversion, error) {
	query := `
		SELECT id, order_id, status, COALESCE(sale_id, ''), error_message, attempts, created_at, updated_at
		FROM online_conversions WHERE order_id = $1`
	var c entity.OnlineConversion
	err := r.q.QueryRow(ctx, query, orderID).Scan(
		&c.ID, &c.OrderID, &c.Status, &c.SaleID, &c.ErrorMessage, &c.Attempts, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get conversion: %w", err)
	}
	return &c, nil
}

// Save inserta o actualiza el registro por order_id.
func (r *ConversionRepo) Save(ctx context.Context, c *entity.OnlineConversion) error {
	query := `
		INSERT INTO online_conversions (id, order_id, status, sale_id, error_message, attempts, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (order_id) DO UPDATE SET
			status = EXCLUDED.status, sale_id = EXCLUDED.sale_id, error_message = EXCLUDED.error_message,
			attempts = EXCLUDED.attempts, updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.OrderID, c.Status, nullIfEmpty(c.SaleID), c.ErrorMessage, c.Attempts, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save conversion: %w", err)
	}
	return nil
}
