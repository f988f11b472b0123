package memory

import (
	"context"
	"sort"
	"time"

	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain/entity"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain/repository"
)

var (
	_ repository.OrderRepository      = (*orderRepo)(nil)
	_ repository.ConversionRepository = (*conversionRepo)(nil)
)

type orderRepo struct{ v *view }

func copyOrder(o *entity.Order) *entity.Order {
	cp := *o
	cp.Items = append([]entity.OrderItem(nil), o.Items...)
	return &cp
}

func (r *orderRepo) Create(_ context.Context, o *entity.Order) error {
	defer r.v.write()()
	if _, ok := r.v.s.st.orders[o.ID]; ok {
		return domain.ErrDuplicate
	}
	r.v.s.st.orders[o.ID] = copyOrder(o)
	return nil
}

func (r *orderRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	defer r.v.read()()
	o, ok := r.v.s.st.orders[id]
	if !ok {
		return nil, nil
	}
	return copyOrder(o), nil
}

func (r *orderRepo) UpdateStatus(_ context.Context, id, status string) error {
	defer r.v.write()()
	o, ok := r.v.s.st.orders[id]
	if !ok {
		return domain.ErrNotFound
	}
	o.Status = status
	o.UpdatedAt = time.Now()
	return nil
}

func (r *orderRepo) List(_ context.Context, status string, limit, offset int) ([]*entity.Order, error) {
	defer r.v.read()()
	out := make([]*entity.Order, 0)
	for _, o := range r.v.s.st.orders {
		if status == "" || o.Status == status {
			out = append(out, copyOrder(o))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return paginate(out, limit, offset), nil
}

type conversionRepo struct{ v *view }

func (r *conversionRepo) GetByOrderID(_ context.Context, orderID string) (*entity.OnlineConversion, error) {
	defer r.v.read()()
	c, ok := r.v.s.st.conversions[orderID]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *conversionRepo) Save(_ context.Context, c *entity.OnlineConversion) error {
	defer r.v.write()()
	cp := *c
	r.v.s.st.conversions[c.OrderID] = &cp
	return nil
}
