package postgres_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/application/dto"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/application/inventory"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain/entity"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain/repository"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/infrastructure/postgres"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/pkg/config"
)

// openTestPool abre la base de integración y aplica el esquema. Sin RETAIL_TEST_DATABASE_URL se omite.
func openTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	databaseURL := os.Getenv("RETAIL_TEST_DATABASE_URL")
	if databaseURL == "" {
		t.Skip("set RETAIL_TEST_DATABASE_URL to run postgres integration test")
	}
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: databaseURL})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, postgres.Migrate(ctx, pool))
	return pool
}

// seedProduct crea un producto con una variante M/Azul o, con withVariant=false, sin variantes y stock propio.
func seedProduct(t *testing.T, pool *pgxpool.Pool, runner *postgres.TxRunner, stock int, withVariant bool) (productID, variationID string) {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC()
	productID = uuid.New().String()
	product := &entity.Product{
		ID:           productID,
		Name:         "Camisa concurrencia",
		SKU:          fmt.Sprintf("SKU-CONC-IT-%d", now.UnixNano()),
		CostPrice:    decimal.NewFromInt(10),
		SellingPrice: decimal.NewFromInt(20),
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if !withVariant {
		product.StockQuantity = stock
	}
	err := runner.Run(ctx, func(repos repository.Repositories) error {
		if err := repos.Products.Create(ctx, product); err != nil {
			return err
		}
		if !withVariant {
			return nil
		}
		variationID = uuid.New().String()
		if err := repos.Variations.Create(ctx, &entity.ProductVariation{
			ID: variationID, ProductID: productID, Size: "M", Color: "Azul", Stock: stock,
			IsActive: true, CreatedAt: now, UpdatedAt: now,
		}); err != nil {
			return err
		}
		_, err := repos.Products.RecomputeStock(ctx, productID)
		return err
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		_, _ = pool.Exec(ctx, `DELETE FROM stock_alerts WHERE product_id = $1`, productID)
		_, _ = pool.Exec(ctx, `DELETE FROM stock_movements WHERE product_id = $1`, productID)
		_, _ = pool.Exec(ctx, `DELETE FROM product_variations WHERE product_id = $1`, productID)
		_, _ = pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, productID)
	})
	return productID, variationID
}

// concurrentOut lanza dos salidas a la vez y devuelve sus errores.
func concurrentOut(ledger *inventory.StockLedgerUseCase, productID, variationID string, qty int) []error {
	var wg sync.WaitGroup
	errs := make([]error, 2)
	start := make(chan struct{})
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = ledger.AddStockMovement(context.Background(), "u-it", dto.StockMovementRequest{
				ProductID:       productID,
				VariationID:     variationID,
				Type:            entity.MovementTypeOUT,
				Quantity:        qty,
				ReferenceNumber: fmt.Sprintf("CONC-%d", i),
			})
		}(i)
	}
	close(start)
	wg.Wait()
	return errs
}

func countRejected(t *testing.T, errs []error) int {
	t.Helper()
	rejected := 0
	for _, err := range errs {
		if err == nil {
			continue
		}
		require.True(t, errors.Is(err, domain.ErrInsufficientStock), "error inesperado: %v", err)
		rejected++
	}
	return rejected
}

func TestSalidasConcurrentesNoDejanStockNegativo_Variante(t *testing.T) {
	pool := openTestPool(t)
	runner := postgres.NewTxRunner(pool)
	ledger := inventory.NewStockLedgerUseCase(runner, runner.Repositories(), zerolog.Nop())
	productID, variationID := seedProduct(t, pool, runner, 5, true)

	errs := concurrentOut(ledger, productID, variationID, 3)
	assert.Equal(t, 1, countRejected(t, errs), "exactamente una salida se rechaza")

	ctx := context.Background()
	var variationStock, productStock, movements int
	require.NoError(t, pool.QueryRow(ctx, `SELECT stock FROM product_variations WHERE id = $1`, variationID).Scan(&variationStock))
	require.NoError(t, pool.QueryRow(ctx, `SELECT stock_quantity FROM products WHERE id = $1`, productID).Scan(&productStock))
	require.NoError(t, pool.QueryRow(ctx, `SELECT count(*) FROM stock_movements WHERE product_id = $1`, productID).Scan(&movements))
	assert.Equal(t, 2, variationStock)
	assert.Equal(t, 2, productStock)
	assert.Equal(t, 1, movements, "la salida rechazada no deja fila en el libro")
}

func TestSalidasConcurrentesNoDejanStockNegativo_SinVariantes(t *testing.T) {
	pool := openTestPool(t)
	runner := postgres.NewTxRunner(pool)
	ledger := inventory.NewStockLedgerUseCase(runner, runner.Repositories(), zerolog.Nop())
	productID, _ := seedProduct(t, pool, runner, 5, false)

	errs := concurrentOut(ledger, productID, "", 3)
	assert.Equal(t, 1, countRejected(t, errs))

	var stock int
	require.NoError(t, pool.QueryRow(context.Background(), `SELECT stock_quantity FROM products WHERE id = $1`, productID).Scan(&stock))
	assert.Equal(t, 2, stock)
}

func TestDecrementStock_CondicionalEnLaFila(t *testing.T) {
	pool := openTestPool(t)
	runner := postgres.NewTxRunner(pool)
	_, variationID := seedProduct(t, pool, runner, 4, true)
	repo := postgres.NewVariationRepository(pool)
	ctx := context.Background()

	stock, err := repo.DecrementStock(ctx, variationID, 4)
	require.NoError(t, err)
	assert.Equal(t, 0, stock)

	stock, err = repo.DecrementStock(ctx, variationID, 1)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 0, stock)

	_, err = repo.DecrementStock(ctx, uuid.New().String(), 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
