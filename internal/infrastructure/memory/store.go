// Package memory implementa los repositorios en memoria de proceso. Se usa en modo desarrollo
// (sin DATABASE_URL) y en los tests de casos de uso. Run serializa las transacciones y
// restaura una copia del estado si fn devuelve error.
package memory

import (
	"context"
	"sync"

	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain/entity"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain/repository"
)

type state struct {
	products    map[string]*entity.Product
	variations  map[string]*entity.ProductVariation
	movements   []*entity.StockMovement
	alerts      []*entity.StockAlert
	customers   map[string]*entity.Customer
	sales       map[string]*entity.Sale
	saleItems   map[string]*entity.SaleItem
	payments    []*entity.SalePayment
	dues        map[string]*entity.DuePayment
	returns     []*entity.SaleReturn
	discounts   map[string]*entity.Discount
	orders      map[string]*entity.Order
	conversions map[string]*entity.OnlineConversion // por order_id
}

func newState() *state {
	return &state{
		products:    make(map[string]*entity.Product),
		variations:  make(map[string]*entity.ProductVariation),
		customers:   make(map[string]*entity.Customer),
		sales:       make(map[string]*entity.Sale),
		saleItems:   make(map[string]*entity.SaleItem),
		dues:        make(map[string]*entity.DuePayment),
		discounts:   make(map[string]*entity.Discount),
		orders:      make(map[string]*entity.Order),
		conversions: make(map[string]*entity.OnlineConversion),
	}
}

func (st *state) clone() *state {
	c := &state{
		products:    cloneMap(st.products),
		variations:  cloneMap(st.variations),
		movements:   cloneSlice(st.movements),
		alerts:      cloneSlice(st.alerts),
		customers:   cloneMap(st.customers),
		sales:       cloneMap(st.sales),
		saleItems:   cloneMap(st.saleItems),
		payments:    cloneSlice(st.payments),
		dues:        cloneMap(st.dues),
		discounts:   cloneMap(st.discounts),
		conversions: cloneMap(st.conversions),
		orders:      make(map[string]*entity.Order, len(st.orders)),
		returns:     make([]*entity.SaleReturn, 0, len(st.returns)),
	}
	for k, o := range st.orders {
		c.orders[k] = copyOrder(o)
	}
	for _, r := range st.returns {
		c.returns = append(c.returns, copyReturn(r))
	}
	return c
}

func cloneMap[T any](m map[string]*T) map[string]*T {
	out := make(map[string]*T, len(m))
	for k, v := range m {
		cp := *v
		out[k] = &cp
	}
	return out
}

func cloneSlice[T any](s []*T) []*T {
	out := make([]*T, 0, len(s))
	for _, v := range s {
		cp := *v
		out = append(out, &cp)
	}
	return out
}

// Store almacén en memoria protegido por un RWMutex.
type Store struct {
	mu sync.RWMutex
	st *state
}

// New crea un almacén vacío.
func New() *Store {
	return &Store{st: newState()}
}

// view liga los repositorios al almacén; inTx indica que el lock ya lo tiene Run.
type view struct {
	s    *Store
	inTx bool
}

func (v *view) read() func() {
	if v.inTx {
		return func() {}
	}
	v.s.mu.RLock()
	return v.s.mu.RUnlock
}

func (v *view) write() func() {
	if v.inTx {
		return func() {}
	}
	v.s.mu.Lock()
	return v.s.mu.Unlock
}

func (v *view) repositories() repository.Repositories {
	return repository.Repositories{
		Products:    &productRepo{v},
		Variations:  &variationRepo{v},
		Movements:   &movementRepo{v},
		Alerts:      &alertRepo{v},
		Customers:   &customerRepo{v},
		Sales:       &saleRepo{v},
		Payments:    &paymentRepo{v},
		Returns:     &returnRepo{v},
		Discounts:   &discountRepo{v},
		Orders:      &orderRepo{v},
		Conversions: &conversionRepo{v},
	}
}

// Repositories repositorios fuera de transacción (cada llamada toma el lock por su cuenta).
// No deben usarse dentro de fn en Run: el lock no es reentrante.
func (s *Store) Repositories() repository.Repositories {
	return (&view{s: s}).repositories()
}

// Run ejecuta fn con acceso exclusivo. Si fn falla se descarta todo lo escrito.
func (s *Store) Run(ctx context.Context, fn func(repos repository.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()
	if err := fn((&view{s: s, inTx: true}).repositories()); err != nil {
		s.st = snapshot
		return err
	}
	return nil
}

func paginate[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return []T{}
	}
	end := len(list)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return list[offset:end]
}
