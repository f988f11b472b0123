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
	_ repository.ProductRepository   = (*ProductRepo)(nil)
	_ repository.VariationRepository = (*VariationRepo)(nil)
)

const productColumns = `id, sku, name, COALESCE(category_id, ''), COALESCE(online_category_id, ''),
	cost_price, selling_price, stock_quantity, minimum_stock, is_active, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.ID, &p.SKU, &p.Name, &p.CategoryID, &p.OnlineCategoryID,
		&p.CostPrice, &p.SellingPrice, &p.StockQuantity, &p.MinimumStock, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (id, sku, name, category_id, online_category_id, cost_price, selling_price,
			stock_quantity, minimum_stock, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.SKU, p.Name, nullIfEmpty(p.CategoryID), nullIfEmpty(p.OnlineCategoryID), p.CostPrice, p.SellingPrice,
		p.StockQuantity, p.MinimumStock, p.IsActive, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetBySKU obtiene un producto por SKU.
func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE sku = $1`, sku))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product by sku: %w", err)
	}
	return p, nil
}

// Update actualiza datos de catálogo. No toca stock_quantity (se maneja vía movimientos).
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products SET name = $2, category_id = $3, online_category_id = $4, cost_price = $5,
			selling_price = $6, minimum_stock = $7, is_active = $8, updated_at = $9
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		p.ID, p.Name, nullIfEmpty(p.CategoryID), nullIfEmpty(p.OnlineCategoryID), p.CostPrice,
		p.SellingPrice, p.MinimumStock, p.IsActive, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List productos por nombre con paginación.
func (r *ProductRepo) List(ctx context.Context, limit, offset int) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, `SELECT `+productColumns+` FROM products ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// RecomputeStock fija stock_quantity como la suma completa del stock de las variantes.
func (r *ProductRepo) RecomputeStock(ctx context.Context, productID string) (int, error) {
	query := `
		UPDATE products SET
			stock_quantity = (SELECT COALESCE(SUM(stock), 0) FROM product_variations WHERE product_id = $1),
			updated_at = now()
		WHERE id = $1
		RETURNING stock_quantity`
	var total int
	if err := r.q.QueryRow(ctx, query, productID).Scan(&total); err != nil {
		if isNoRows(err) {
			return 0, domain.ErrNotFound
		}
		return 0, fmt.Errorf("recompute stock: %w", err)
	}
	return total, nil
}

// AdjustStock suma delta en un producto sin variantes; el WHERE impide dejarlo negativo.
func (r *ProductRepo) AdjustStock(ctx context.Context, productID string, delta int) (int, error) {
	query := `
		UPDATE products SET stock_quantity = stock_quantity + $2, updated_at = now()
		WHERE id = $1 AND stock_quantity + $2 >= 0
		RETURNING stock_quantity`
	var stock int
	err := r.q.QueryRow(ctx, query, productID, delta).Scan(&stock)
	if err == nil {
		return stock, nil
	}
	if !isNoRows(err) {
		return 0, fmt.Errorf("adjust stock: %w", err)
	}
	if err := r.q.QueryRow(ctx, `SELECT stock_quantity FROM products WHERE id = $1`, productID).Scan(&stock); err != nil {
		if isNoRows(err) {
			return 0, domain.ErrNotFound
		}
		return 0, fmt.Errorf("adjust stock: %w", err)
	}
	return stock, domain.ErrInsufficientStock
}

const variationColumns = `id, product_id, size, color, stock, is_active, created_at, updated_at`

// VariationRepo variantes (talla, color) con su stock.
type VariationRepo struct {
	q Querier
}

// NewVariationRepository construye el adaptador de variantes. Pasar pool o tx (Querier).
func NewVariationRepository(q Querier) *VariationRepo {
	return &VariationRepo{q: q}
}

func scanVariation(row pgx.Row) (*entity.ProductVariation, error) {
	var v entity.ProductVariation
	if err := row.Scan(&v.ID, &v.ProductID, &v.Size, &v.Color, &v.Stock, &v.IsActive, &v.CreatedAt, &v.UpdatedAt); err != nil {
		return nil, err
	}
	return &v, nil
}

// Create persiste una variante; (producto, talla, color) es único.
func (r *VariationRepo) Create(ctx context.Context, v *entity.ProductVariation) error {
	query := `
		INSERT INTO product_variations (id, product_id, size, color, stock, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query, v.ID, v.ProductID, v.Size, v.Color, v.Stock, v.IsActive, v.CreatedAt, v.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert variation: %w", err)
	}
	return nil
}

func (r *VariationRepo) get(ctx context.Context, query string, args ...any) (*entity.ProductVariation, error) {
	v, err := scanVariation(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get variation: %w", err)
	}
	return v, nil
}

// GetByID obtiene una variante por ID.
func (r *VariationRepo) GetByID(ctx context.Context, id string) (*entity.ProductVariation, error) {
	return r.get(ctx, `SELECT `+variationColumns+` FROM product_variations WHERE id = $1`, id)
}

// GetForUpdate obtiene la variante y bloquea la fila (SELECT FOR UPDATE).
func (r *VariationRepo) GetForUpdate(ctx context.Context, id string) (*entity.ProductVariation, error) {
	return r.get(ctx, `SELECT `+variationColumns+` FROM product_variations WHERE id = $1 FOR UPDATE`, id)
}

// FindByAttributes busca la variante del producto por talla y color.
func (r *VariationRepo) FindByAttributes(ctx context.Context, productID, size, color string) (*entity.ProductVariation, error) {
	return r.get(ctx, `SELECT `+variationColumns+` FROM product_variations WHERE product_id = $1 AND size = $2 AND color = $3`,
		productID, size, color)
}

// ListByProduct variantes del producto ordenadas por talla y color.
func (r *VariationRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.ProductVariation, error) {
	rows, err := r.q.Query(ctx, `SELECT `+variationColumns+` FROM product_variations WHERE product_id = $1 ORDER BY size, color`, productID)
	if err != nil {
		return nil, fmt.Errorf("list variations: %w", err)
	}
	defer rows.Close()
	var list []*entity.ProductVariation
	for rows.Next() {
		v, err := scanVariation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan variation: %w", err)
		}
		list = append(list, v)
	}
	return list, rows.Err()
}

// CountByProduct cantidad de variantes del producto.
func (r *VariationRepo) CountByProduct(ctx context.Context, productID string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM product_variations WHERE product_id = $1`, productID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count variations: %w", err)
	}
	return n, nil
}

// DecrementStock descuenta qty solo si alcanza. Dos ventas concurrentes sobre la misma variante
// se serializan en la fila; la segunda ve el stock ya descontado y falla si no alcanza.
func (r *VariationRepo) DecrementStock(ctx context.Context, id string, qty int) (int, error) {
	query := `
		UPDATE product_variations SET stock = stock - $2, updated_at = now()
		WHERE id = $1 AND stock >= $2
		RETURNING stock`
	var stock int
	err := r.q.QueryRow(ctx, query, id, qty).Scan(&stock)
	if err == nil {
		return stock, nil
	}
	if !isNoRows(err) {
		return 0, fmt.Errorf("decrement stock: %w", err)
	}
	if err := r.q.QueryRow(ctx, `SELECT stock FROM product_variations WHERE id = $1`, id).Scan(&stock); err != nil {
		if isNoRows(err) {
			return 0, domain.ErrNotFound
		}
		return 0, fmt.Errorf("decrement stock: %w", err)
	}
	return stock, domain.ErrInsufficientStock
}

// IncrementStock suma qty al stock de la variante.
func (r *VariationRepo) IncrementStock(ctx context.Context, id string, qty int) (int, error) {
	var stock int
	err := r.q.QueryRow(ctx,
		`UPDATE product_variations SET stock = stock + $2, updated_at = now() WHERE id = $1 RETURNING stock`,
		id, qty,
	).Scan(&stock)
	if err != nil {
		if isNoRows(err) {
			return 0, domain.ErrNotFound
		}
		return 0, fmt.Errorf("increment stock: %w", err)
	}
	return stock, nil
}
