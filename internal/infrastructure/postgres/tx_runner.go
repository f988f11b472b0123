package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/application/inventory"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/application/pricing"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/application/sales"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain/repository"
)

var (
	_ inventory.TxRunner = (*TxRunner)(nil)
	_ sales.TxRunner     = (*TxRunner)(nil)
	_ pricing.TxRunner   = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// NewRepositories arma todos los repositorios sobre q (pool o tx).
func NewRepositories(q Querier) repository.Repositories {
	return repository.Repositories{
		Products:    NewProductRepository(q),
		Variations:  NewVariationRepository(q),
		Movements:   NewStockMovementRepository(q),
		Alerts:      NewStockAlertRepository(q),
		Customers:   NewCustomerRepository(q),
		Sales:       NewSaleRepository(q),
		Payments:    NewPaymentRepository(q),
		Returns:     NewReturnRepository(q),
		Discounts:   NewDiscountRepository(q),
		Orders:      NewOrderRepository(q),
		Conversions: NewConversionRepository(q),
	}
}

// Repositories repositorios fuera de transacción (lecturas y escrituras sueltas).
func (r *TxRunner) Repositories() repository.Repositories {
	return NewRepositories(r.pool)
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(repos repository.Repositories) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewRepositories(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
