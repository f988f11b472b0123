package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain/entity"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain/repository"
)

var (
	_ repository.StockMovementRepository = (*StockMovementRepo)(nil)
	_ repository.StockAlertRepository    = (*StockAlertRepo)(nil)
)

const movementColumns = `id, product_id, COALESCE(variation_id, ''), type, quantity, delta,
	reference_number, notes, created_at, created_by`

// StockMovementRepo libro de stock; solo INSERT y SELECT.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create anexa un movimiento al libro.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, product_id, variation_id, type, quantity, delta, reference_number, notes, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.ProductID, nullIfEmpty(m.VariationID), m.Type, m.Quantity, m.Delta,
		m.ReferenceNumber, m.Notes, m.CreatedAt, m.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// Exists detecta un movimiento previo con la misma (producto, variante, referencia, tipo).
func (r *StockMovementRepo) Exists(ctx context.Context, productID, variationID, referenceNumber, movementType string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM stock_movements
			WHERE product_id = $1 AND COALESCE(variation_id, '') = $2 AND reference_number = $3 AND type = $4
		)`
	var ok bool
	if err := r.q.QueryRow(ctx, query, productID, variationID, referenceNumber, movementType).Scan(&ok); err != nil {
		return false, fmt.Errorf("exists stock movement: %w", err)
	}
	return ok, nil
}

// ListByProduct historial del producto, más reciente primero.
func (r *StockMovementRepo) ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.StockMovement, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+movementColumns+` FROM stock_movements WHERE product_id = $1 ORDER BY created_at DESC, id LIMIT $2 OFFSET $3`,
		productID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	return collectMovements(rows)
}

// ListByReference movimientos de un documento (factura, devolución, anulación).
func (r *StockMovementRepo) ListByReference(ctx context.Context, referenceNumber string) ([]*entity.StockMovement, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+movementColumns+` FROM stock_movements WHERE reference_number = $1 ORDER BY created_at, id`,
		referenceNumber)
	if err != nil {
		return nil, fmt.Errorf("list stock movements by reference: %w", err)
	}
	return collectMovements(rows)
}

func collectMovements(rows pgx.Rows) ([]*entity.StockMovement, error) {
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(&m.ID, &m.ProductID, &m.VariationID, &m.Type, &m.Quantity, &m.Delta,
			&m.ReferenceNumber, &m.Notes, &m.CreatedAt, &m.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// StockAlertRepo alertas de stock bajo.
type StockAlertRepo struct {
	q Querier
}

// NewStockAlertRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockAlertRepository(q Querier) *StockAlertRepo {
	return &StockAlertRepo{q: q}
}

// Create registra una alerta.
func (r *StockAlertRepo) Create(ctx context.Context, a *entity.StockAlert) error {
	query := `
		INSERT INTO stock_alerts (id, product_id, variation_id, level, stock, minimum_stock, movement_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		a.ID, a.ProductID, nullIfEmpty(a.VariationID), a.Level, a.Stock, a.MinimumStock, nullIfEmpty(a.MovementID), a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create stock alert: %w", err)
	}
	return nil
}

// ListRecent últimas alertas, más reciente primero.
func (r *StockAlertRepo) ListRecent(ctx context.Context, limit int) ([]*entity.StockAlert, error) {
	query := `
		SELECT id, product_id, COALESCE(variation_id, ''), level, stock, minimum_stock, COALESCE(movement_id, ''), created_at
		FROM stock_alerts ORDER BY created_at DESC, id LIMIT $1`
	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list stock alerts: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockAlert
	for rows.Next() {
		var a entity.StockAlert
		if err := rows.Scan(&a.ID, &a.ProductID, &a.VariationID, &a.Level, &a.Stock, &a.MinimumStock, &a.MovementID, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stock alert: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}
