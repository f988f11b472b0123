// Package sales coordina la transacción de venta: líneas, totales, movimientos de stock,
// pagos y cuenta por cobrar se confirman o se descartan juntos.
package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain/repository"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/pkg/docnumber"
)

// Config parámetros de negocio de ventas.
type Config struct {
	DueDays        int // vencimiento por defecto de la cuenta por cobrar
	InvoiceRetries int // intentos ante colisión del número de factura/devolución
}

const paymentLockTTL = 15 * time.Second

// SaleUseCase casos de uso de venta, pago, anulación y devolución.
type SaleUseCase struct {
	txRunner  TxRunner
	repos     repository.Repositories
	ledger    StockLedger
	prices    PriceResolver
	phones    PhoneNormalizer
	locker    Locker
	cfg       Config
	log       zerolog.Logger
	now       func() time.Time
	newNumber docnumber.Generator
}

// NewSaleUseCase construye el caso de uso. locker puede ser nil (sin candado distribuido).
func NewSaleUseCase(
	txRunner TxRunner,
	repos repository.Repositories,
	ledger StockLedger,
	prices PriceResolver,
	phones PhoneNormalizer,
	locker Locker,
	cfg Config,
	log zerolog.Logger,
) *SaleUseCase {
	if cfg.DueDays <= 0 {
		cfg.DueDays = 30
	}
	if cfg.InvoiceRetries <= 0 {
		cfg.InvoiceRetries = 5
	}
	return &SaleUseCase{
		txRunner:  txRunner,
		repos:     repos,
		ledger:    ledger,
		prices:    prices,
		phones:    phones,
		locker:    locker,
		cfg:       cfg,
		log:       log,
		now:       time.Now,
		newNumber: docnumber.New,
	}
}

// WithClock fija el reloj (tests).
func (uc *SaleUseCase) WithClock(now func() time.Time) *SaleUseCase {
	uc.now = now
	return uc
}

// WithNumberGenerator reemplaza el generador de números de documento (tests).
func (uc *SaleUseCase) WithNumberGenerator(g docnumber.Generator) *SaleUseCase {
	uc.newNumber = g
	return uc
}

// nextNumber genera un número libre; la unicidad la decide el store.
func (uc *SaleUseCase) nextNumber(prefix string, exists func(string) (bool, error)) (string, error) {
	for i := 0; i < uc.cfg.InvoiceRetries; i++ {
		n := uc.newNumber(prefix)
		taken, err := exists(n)
		if err != nil {
			return "", err
		}
		if !taken {
			return n, nil
		}
		uc.log.Warn().Str("number", n).Int("attempt", i+1).Msg("colisión de número de documento")
	}
	return "", fmt.Errorf("%w: no se pudo generar un número %s libre", domain.ErrConflict, prefix)
}

// withSaleLock serializa los cobros sobre una venta cuando hay candado distribuido.
func (uc *SaleUseCase) withSaleLock(ctx context.Context, saleID string, fn func() error) error {
	if uc.locker == nil {
		return fn()
	}
	unlock, err := uc.locker.Lock(ctx, "sale:payment:"+saleID, paymentLockTTL)
	if err != nil {
		return err
	}
	defer func() {
		if err := unlock(ctx); err != nil {
			uc.log.Warn().Err(err).Str("sale_id", saleID).Msg("no se pudo liberar el candado de la venta")
		}
	}()
	return fn()
}
