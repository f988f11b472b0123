package memory

import (
	"context"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain/entity"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain/repository"
)

var (
	_ repository.ProductRepository   = (*productRepo)(nil)
	_ repository.VariationRepository = (*variationRepo)(nil)
)

type productRepo struct{ v *view }

func (r *productRepo) Create(_ context.Context, p *entity.Product) error {
	defer r.v.write()()
	st := r.v.s.st
	if _, ok := st.products[p.ID]; ok {
		return domain.ErrDuplicate
	}
	for _, existing := range st.products {
		if existing.SKU == p.SKU {
			return domain.ErrDuplicate
		}
	}
	cp := *p
	st.products[p.ID] = &cp
	return nil
}

func (r *productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	defer r.v.read()()
	p, ok := r.v.s.st.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *productRepo) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	defer r.v.read()()
	for _, p := range r.v.s.st.products {
		if p.SKU == sku {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *productRepo) Update(_ context.Context, p *entity.Product) error {
	defer r.v.write()()
	cur, ok := r.v.s.st.products[p.ID]
	if !ok {
		return domain.ErrNotFound
	}
	// El stock solo cambia vía RecomputeStock/AdjustStock.
	stock := cur.StockQuantity
	*cur = *p
	cur.StockQuantity = stock
	return nil
}

func (r *productRepo) List(_ context.Context, limit, offset int) ([]*entity.Product, error) {
	defer r.v.read()()
	out := make([]*entity.Product, 0, len(r.v.s.st.products))
	for _, p := range r.v.s.st.products {
		cp := *p
		out = append(out, &cp)
	}
	// Orden alfabético en español (Á junto a A, Ñ después de N), como la collation de la base.
	coll := collate.New(language.Spanish, collate.IgnoreCase)
	sort.SliceStable(out, func(i, j int) bool { return coll.CompareString(out[i].Name, out[j].Name) < 0 })
	return paginate(out, limit, offset), nil
}

func (r *productRepo) RecomputeStock(_ context.Context, productID string) (int, error) {
	defer r.v.write()()
	st := r.v.s.st
	p, ok := st.products[productID]
	if !ok {
		return 0, domain.ErrNotFound
	}
	total := 0
	for _, v := range st.variations {
		if v.ProductID == productID {
			total += v.Stock
		}
	}
	p.StockQuantity = total
	return total, nil
}

func (r *productRepo) AdjustStock(_ context.Context, productID string, delta int) (int, error) {
	defer r.v.write()()
	p, ok := r.v.s.st.products[productID]
	if !ok {
		return 0, domain.ErrNotFound
	}
	if p.StockQuantity+delta < 0 {
		return p.StockQuantity, domain.ErrInsufficientStock
	}
	p.StockQuantity += delta
	return p.StockQuantity, nil
}

type variationRepo struct{ v *view }

func (r *variationRepo) Create(_ context.Context, pv *entity.ProductVariation) error {
	defer r.v.write()()
	st := r.v.s.st
	for _, existing := range st.variations {
		if existing.ProductID == pv.ProductID && existing.Size == pv.Size && existing.Color == pv.Color {
			return domain.ErrDuplicate
		}
	}
	cp := *pv
	st.variations[pv.ID] = &cp
	return nil
}

func (r *variationRepo) GetByID(_ context.Context, id string) (*entity.ProductVariation, error) {
	defer r.v.read()()
	pv, ok := r.v.s.st.variations[id]
	if !ok {
		return nil, nil
	}
	cp := *pv
	return &cp, nil
}

// GetForUpdate en memoria equivale a GetByID: Run ya serializa las transacciones.
func (r *variationRepo) GetForUpdate(ctx context.Context, id string) (*entity.ProductVariation, error) {
	return r.GetByID(ctx, id)
}

func (r *variationRepo) FindByAttributes(_ context.Context, productID, size, color string) (*entity.ProductVariation, error) {
	defer r.v.read()()
	for _, pv := range r.v.s.st.variations {
		if pv.ProductID == productID && pv.Size == size && pv.Color == color {
			cp := *pv
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *variationRepo) ListByProduct(_ context.Context, productID string) ([]*entity.ProductVariation, error) {
	defer r.v.read()()
	out := make([]*entity.ProductVariation, 0)
	for _, pv := range r.v.s.st.variations {
		if pv.ProductID == productID {
			cp := *pv
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Size != out[j].Size {
			return out[i].Size < out[j].Size
		}
		return out[i].Color < out[j].Color
	})
	return out, nil
}

func (r *variationRepo) CountByProduct(_ context.Context, productID string) (int, error) {
	defer r.v.read()()
	n := 0
	for _, pv := range r.v.s.st.variations {
		if pv.ProductID == productID {
			n++
		}
	}
	return n, nil
}

func (r *variationRepo) DecrementStock(_ context.Context, id string, qty int) (int, error) {
	defer r.v.write()()
	pv, ok := r.v.s.st.variations[id]
	if !ok {
		return 0, domain.ErrNotFound
	}
	if pv.Stock < qty {
		return pv.Stock, domain.ErrInsufficientStock
	}
	pv.Stock -= qty
	return pv.Stock, nil
}

func (r *variationRepo) IncrementStock(_ context.Context, id string, qty int) (int, error) {
	defer r.v.write()()
	pv, ok := r.v.s.st.variations[id]
	if !ok {
		return 0, domain.ErrNotFound
	}
	pv.Stock += qty
	return pv.Stock, nil
}
