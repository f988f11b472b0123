package memory

import (
	"context"
	"sort"
	"time"

	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain/entity"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain/repository"
)

var _ repository.DiscountRepository = (*discountRepo)(nil)

type discountRepo struct{ v *view }

func (r *discountRepo) Create(_ context.Context, d *entity.Discount) error {
	defer r.v.write()()
	if _, ok := r.v.s.st.discounts[d.ID]; ok {
		return domain.ErrDuplicate
	}
	cp := *d
	r.v.s.st.discounts[d.ID] = &cp
	return nil
}

func (r *discountRepo) Update(_ context.Context, d *entity.Discount) error {
	defer r.v.write()()
	cur, ok := r.v.s.st.discounts[d.ID]
	if !ok {
		return domain.ErrNotFound
	}
	*cur = *d
	return nil
}

func (r *discountRepo) GetByID(_ context.Context, id string) (*entity.Discount, error) {
	defer r.v.read()()
	d, ok := r.v.s.st.discounts[id]
	if !ok {
		return nil, nil
	}
	cp := *d
	return &cp, nil
}

func (r *discountRepo) List(_ context.Context, limit, offset int) ([]*entity.Discount, error) {
	defer r.v.read()()
	return paginate(r.sorted(func(*entity.Discount) bool { return true }), limit, offset), nil
}

func (r *discountRepo) ListActive(_ context.Context, now time.Time) ([]*entity.Discount, error) {
	defer r.v.read()()
	return r.sorted(func(d *entity.Discount) bool {
		return d.IsActive && !d.EndDate.Before(now)
	}), nil
}

func (r *discountRepo) ListActiveForProduct(_ context.Context, productID, excludeID string) ([]*entity.Discount, error) {
	defer r.v.read()()
	return r.sorted(func(d *entity.Discount) bool {
		return d.IsActive && d.Type == entity.DiscountTypeProduct && d.ProductID == productID && d.ID != excludeID
	}), nil
}

// sorted orden de creación, como la consulta SQL.
func (r *discountRepo) sorted(keep func(*entity.Discount) bool) []*entity.Discount {
	out := make([]*entity.Discount, 0)
	for _, d := range r.v.s.st.discounts {
		if keep(d) {
			cp := *d
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
