package memory

import (
	"context"
	"sort"

	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain/entity"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain/repository"
)

var (
	_ repository.CustomerRepository = (*customerRepo)(nil)
	_ repository.SaleRepository     = (*saleRepo)(nil)
	_ repository.PaymentRepository  = (*paymentRepo)(nil)
	_ repository.ReturnRepository   = (*returnRepo)(nil)
)

type customerRepo struct{ v *view }

func (r *customerRepo) Create(_ context.Context, c *entity.Customer) error {
	defer r.v.write()()
	st := r.v.s.st
	for _, existing := range st.customers {
		if c.Phone != "" && existing.Phone == c.Phone {
			return domain.ErrDuplicate
		}
	}
	cp := *c
	st.customers[c.ID] = &cp
	return nil
}

func (r *customerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	defer r.v.read()()
	c, ok := r.v.s.st.customers[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *customerRepo) GetByPhone(_ context.Context, phone string) (*entity.Customer, error) {
	defer r.v.read()()
	for _, c := range r.v.s.st.customers {
		if c.Phone == phone {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *customerRepo) List(_ context.Context, limit, offset int) ([]*entity.Customer, error) {
	defer r.v.read()()
	out := make([]*entity.Customer, 0, len(r.v.s.st.customers))
	for _, c := range r.v.s.st.customers {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return paginate(out, limit, offset), nil
}

type saleRepo struct{ v *view }

func (r *saleRepo) Create(_ context.Context, s *entity.Sale) error {
	defer r.v.write()()
	st := r.v.s.st
	for _, existing := range st.sales {
		if existing.InvoiceNumber == s.InvoiceNumber {
			return domain.ErrDuplicate
		}
		if s.OrderID != "" && existing.OrderID == s.OrderID {
			return domain.ErrDuplicate
		}
	}
	cp := *s
	cp.Items, cp.Payments, cp.Due = nil, nil, nil
	st.sales[s.ID] = &cp
	return nil
}

func (r *saleRepo) CreateItem(_ context.Context, item *entity.SaleItem) error {
	defer r.v.write()()
	st := r.v.s.st
	if _, ok := st.sales[item.SaleID]; !ok {
		return domain.ErrNotFound
	}
	cp := *item
	st.saleItems[item.ID] = &cp
	return nil
}

func (r *saleRepo) Update(_ context.Context, s *entity.Sale) error {
	defer r.v.write()()
	cur, ok := r.v.s.st.sales[s.ID]
	if !ok {
		return domain.ErrNotFound
	}
	*cur = *s
	cur.Items, cur.Payments, cur.Due = nil, nil, nil
	return nil
}

func (r *saleRepo) UpdateItem(_ context.Context, item *entity.SaleItem) error {
	defer r.v.write()()
	cur, ok := r.v.s.st.saleItems[item.ID]
	if !ok {
		return domain.ErrNotFound
	}
	*cur = *item
	return nil
}

func (r *saleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	defer r.v.read()()
	return r.load(id), nil
}

func (r *saleRepo) GetForUpdate(_ context.Context, id string) (*entity.Sale, error) {
	defer r.v.read()()
	return r.load(id), nil
}

func (r *saleRepo) load(id string) *entity.Sale {
	st := r.v.s.st
	s, ok := st.sales[id]
	if !ok {
		return nil
	}
	cp := *s
	cp.Items = make([]*entity.SaleItem, 0)
	for _, item := range st.saleItems {
		if item.SaleID == id {
			ic := *item
			cp.Items = append(cp.Items, &ic)
		}
	}
	sort.SliceStable(cp.Items, func(i, j int) bool {
		if !cp.Items[i].CreatedAt.Equal(cp.Items[j].CreatedAt) {
			return cp.Items[i].CreatedAt.Before(cp.Items[j].CreatedAt)
		}
		return cp.Items[i].ID < cp.Items[j].ID
	})
	return &cp
}

func (r *saleRepo) ExistsInvoiceNumber(_ context.Context, invoiceNumber string) (bool, error) {
	defer r.v.read()()
	for _, s := range r.v.s.st.sales {
		if s.InvoiceNumber == invoiceNumber {
			return true, nil
		}
	}
	return false, nil
}

func (r *saleRepo) GetByOrderID(_ context.Context, orderID string) (*entity.Sale, error) {
	defer r.v.read()()
	for id, s := range r.v.s.st.sales {
		if s.OrderID == orderID {
			return r.load(id), nil
		}
	}
	return nil, nil
}

// List más reciente primero, sin líneas.
func (r *saleRepo) List(_ context.Context, limit, offset int) ([]*entity.Sale, error) {
	defer r.v.read()()
	out := make([]*entity.Sale, 0, len(r.v.s.st.sales))
	for _, s := range r.v.s.st.sales {
		cp := *s
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].InvoiceNumber < out[j].InvoiceNumber
	})
	return paginate(out, limit, offset), nil
}

type paymentRepo struct{ v *view }

func (r *paymentRepo) CreatePayment(_ context.Context, p *entity.SalePayment) error {
	defer r.v.write()()
	if _, ok := r.v.s.st.sales[p.SaleID]; !ok {
		return domain.ErrNotFound
	}
	cp := *p
	r.v.s.st.payments = append(r.v.s.st.payments, &cp)
	return nil
}

func (r *paymentRepo) ListBySale(_ context.Context, saleID string) ([]*entity.SalePayment, error) {
	defer r.v.read()()
	out := make([]*entity.SalePayment, 0)
	for _, p := range r.v.s.st.payments {
		if p.SaleID == saleID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *paymentRepo) CreateDue(_ context.Context, d *entity.DuePayment) error {
	defer r.v.write()()
	for _, existing := range r.v.s.st.dues {
		if existing.SaleID == d.SaleID {
			return domain.ErrDuplicate
		}
	}
	cp := *d
	r.v.s.st.dues[d.ID] = &cp
	return nil
}

func (r *paymentRepo) GetDueBySale(_ context.Context, saleID string) (*entity.DuePayment, error) {
	defer r.v.read()()
	for _, d := range r.v.s.st.dues {
		if d.SaleID == saleID {
			cp := *d
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *paymentRepo) UpdateDue(_ context.Context, d *entity.DuePayment) error {
	defer r.v.write()()
	cur, ok := r.v.s.st.dues[d.ID]
	if !ok {
		return domain.ErrNotFound
	}
	*cur = *d
	return nil
}

type returnRepo struct{ v *view }

func (r *returnRepo) Create(_ context.Context, ret *entity.SaleReturn) error {
	defer r.v.write()()
	for _, existing := range r.v.s.st.returns {
		if existing.ReturnNumber == ret.ReturnNumber {
			return domain.ErrDuplicate
		}
	}
	r.v.s.st.returns = append(r.v.s.st.returns, copyReturn(ret))
	return nil
}

func (r *returnRepo) ExistsReturnNumber(_ context.Context, returnNumber string) (bool, error) {
	defer r.v.read()()
	for _, ret := range r.v.s.st.returns {
		if ret.ReturnNumber == returnNumber {
			return true, nil
		}
	}
	return false, nil
}

func (r *returnRepo) ListBySale(_ context.Context, saleID string) ([]*entity.SaleReturn, error) {
	defer r.v.read()()
	out := make([]*entity.SaleReturn, 0)
	for _, ret := range r.v.s.st.returns {
		if ret.SaleID == saleID {
			out = append(out, copyReturn(ret))
		}
	}
	return out, nil
}

func copyReturn(ret *entity.SaleReturn) *entity.SaleReturn {
	cp := *ret
	cp.Items = cloneSlice(ret.Items)
	return &cp
}
