package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain/entity"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain/repository"
)

var _ repository.DiscountRepository = (*DiscountRepo)(nil)

const discountColumns = `id, name, description, discount_type, value, start_date, end_date, is_active, status,
	COALESCE(category_id, ''), COALESCE(online_category_id, ''), COALESCE(product_id, ''), created_at, updated_at`

// DiscountRepo campañas de descuento sobre PostgreSQL (usable con pool o tx).
type DiscountRepo struct {
	q Querier
}

// NewDiscountRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDiscountRepository(q Querier) *DiscountRepo {
	return &DiscountRepo{q: q}
}

func scanDiscount(row pgx.Row) (*entity.Discount, error) {
	var d entity.Discount
	err := row.Scan(&d.ID, &d.Name, &d.Description, &d.Type, &d.Value, &d.StartDate, &d.EndDate, &d.IsActive, &d.Status,
		&d.CategoryID, &d.OnlineCategoryID, &d.ProductID, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Create persiste una campaña.
func (r *DiscountRepo) Create(ctx context.Context, d *entity.Discount) error {
	query := `
		INSERT INTO discounts (id, name, description, discount_type, value, start_date, end_date, is_active, status,
			category_id, online_category_id, product_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		d.ID, d.Name, d.Description, d.Type, d.Value, d.StartDate, d.EndDate, d.IsActive, d.Status,
		nullIfEmpty(d.CategoryID), nullIfEmpty(d.OnlineCategoryID), nullIfEmpty(d.ProductID), d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert discount: %w", err)
	}
	return nil
}

// Update reemplaza la configuración de la campaña.
func (r *DiscountRepo) Update(ctx context.Context, d *entity.Discount) error {
	query := `
		UPDATE discounts SET name = $2, description = $3, discount_type = $4, value = $5, start_date = $6,
			end_date = $7, is_active = $8, status = $9, category_id = $10, online_category_id = $11,
			product_id = $12, updated_at = $13
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		d.ID, d.Name, d.Description, d.Type, d.Value, d.StartDate, d.EndDate, d.IsActive, d.Status,
		nullIfEmpty(d.CategoryID), nullIfEmpty(d.OnlineCategoryID), nullIfEmpty(d.ProductID), d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update discount: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetByID obtiene una campaña por ID.
func (r *DiscountRepo) GetByID(ctx context.Context, id string) (*entity.Discount, error) {
	d, err := scanDiscount(r.q.QueryRow(ctx, `SELECT `+discountColumns+` FROM discounts WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get discount: %w", err)
	}
	return d, nil
}

// List campañas en orden de creación.
func (r *DiscountRepo) List(ctx context.Context, limit, offset int) ([]*entity.Discount, error) {
	return r.list(ctx, `SELECT `+discountColumns+` FROM discounts ORDER BY created_at, id LIMIT $1 OFFSET $2`, limit, offset)
}

// ListActive campañas habilitadas que no han vencido a now (incluye programadas).
func (r *DiscountRepo) ListActive(ctx context.Context, now time.Time) ([]*entity.Discount, error) {
	return r.list(ctx, `SELECT `+discountColumns+` FROM discounts WHERE is_active AND end_date >= $1 ORDER BY created_at, id`, now)
}

// ListActiveForProduct campañas PRODUCT habilitadas del producto, excepto excludeID.
func (r *DiscountRepo) ListActiveForProduct(ctx context.Context, productID, excludeID string) ([]*entity.Discount, error) {
	return r.list(ctx, `
		SELECT `+discountColumns+` FROM discounts
		WHERE is_active AND discount_type = 'PRODUCT' AND product_id = $1 AND id <> $2
		ORDER BY created_at, id`, productID, excludeID)
}

func (r *DiscountRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Discount, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list discounts: %w", err)
	}
	defer rows.Close()
	var list []*entity.Discount
	for rows.Next() {
		d, err := scanDiscount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan discount: %w", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}
