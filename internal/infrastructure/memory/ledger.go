package memory

import (
	"context"
	"sort"

	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain/entity"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain/repository"
)

var (
	_ repository.StockMovementRepository = (*movementRepo)(nil)
	_ repository.StockAlertRepository    = (*alertRepo)(nil)
)

type movementRepo struct{ v *view }

func (r *movementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	defer r.v.write()()
	for _, existing := range r.v.s.st.movements {
		if existing.ID == m.ID {
			return domain.ErrDuplicate
		}
	}
	cp := *m
	r.v.s.st.movements = append(r.v.s.st.movements, &cp)
	return nil
}

func (r *movementRepo) Exists(_ context.Context, productID, variationID, referenceNumber, movementType string) (bool, error) {
	defer r.v.read()()
	for _, m := range r.v.s.st.movements {
		if m.ProductID == productID && m.VariationID == variationID &&
			m.ReferenceNumber == referenceNumber && m.Type == movementType {
			return true, nil
		}
	}
	return false, nil
}

// ListByProduct más reciente primero; el orden de inserción desempata.
func (r *movementRepo) ListByProduct(_ context.Context, productID string, limit, offset int) ([]*entity.StockMovement, error) {
	defer r.v.read()()
	out := make([]*entity.StockMovement, 0)
	all := r.v.s.st.movements
	for i := len(all) - 1; i >= 0; i-- {
		if all[i].ProductID == productID {
			cp := *all[i]
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return paginate(out, limit, offset), nil
}

func (r *movementRepo) ListByReference(_ context.Context, referenceNumber string) ([]*entity.StockMovement, error) {
	defer r.v.read()()
	out := make([]*entity.StockMovement, 0)
	for _, m := range r.v.s.st.movements {
		if m.ReferenceNumber == referenceNumber {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

type alertRepo struct{ v *view }

func (r *alertRepo) Create(_ context.Context, a *entity.StockAlert) error {
	defer r.v.write()()
	cp := *a
	r.v.s.st.alerts = append(r.v.s.st.alerts, &cp)
	return nil
}

func (r *alertRepo) ListRecent(_ context.Context, limit int) ([]*entity.StockAlert, error) {
	defer r.v.read()()
	all := r.v.s.st.alerts
	out := make([]*entity.StockAlert, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		cp := *all[i]
		out = append(out, &cp)
	}
	return paginate(out, limit, 0), nil
}
