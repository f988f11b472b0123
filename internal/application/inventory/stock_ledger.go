package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/application/dto"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain/entity"
	dinventory "github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain/inventory"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain/repository"
)

// StockLedgerUseCase aplica movimientos de stock: un registro inmutable por cambio, stock de la
// variante con decremento atómico condicional y stock del producto recalculado como suma completa.
type StockLedgerUseCase struct {
	txRunner TxRunner
	repos    repository.Repositories
	log      zerolog.Logger
	now      func() time.Time
}

// NewStockLedgerUseCase construye el caso de uso. repos se usa para lecturas fuera de transacción.
func NewStockLedgerUseCase(txRunner TxRunner, repos repository.Repositories, log zerolog.Logger) *StockLedgerUseCase {
	return &StockLedgerUseCase{
		txRunner: txRunner,
		repos:    repos,
		log:      log,
		now:      time.Now,
	}
}

// MovementInput entrada interna de un movimiento (la usan también ventas, devoluciones y anulaciones).
type MovementInput struct {
	ProductID       string
	VariationID     string
	Type            string
	Quantity        int
	Direction       string           // solo ADJ
	UnitCost        *decimal.Decimal // solo IN; recalcula el costo promedio
	ReferenceNumber string
	Notes           string
	UserID          string
}

// MovementResult movimiento registrado y stock resultante.
type MovementResult struct {
	Movement       *entity.StockMovement
	VariationStock *int
	ProductStock   int
}

// AddStockMovement registra un movimiento manual en su propia transacción.
func (uc *StockLedgerUseCase) AddStockMovement(ctx context.Context, userID string, in dto.StockMovementRequest) (*dto.StockMovementResponse, error) {
	input := MovementInput{
		ProductID:       in.ProductID,
		VariationID:     in.VariationID,
		Type:            in.Type,
		Quantity:        in.Quantity,
		Direction:       in.Direction,
		UnitCost:        in.UnitCost,
		ReferenceNumber: in.ReferenceNumber,
		Notes:           in.Notes,
		UserID:          userID,
	}
	var res *MovementResult
	err := uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		var err error
		res, err = uc.ApplyMovementInTx(ctx, repos, input)
		return err
	})
	if err != nil {
		return nil, err
	}
	out := toMovementResponse(res.Movement)
	out.VariationStock = res.VariationStock
	out.ProductStock = res.ProductStock
	return &out, nil
}

// ApplyMovementOnce igual que ApplyMovementInTx pero no hace nada si ya existe un movimiento con
// el mismo (producto, variante, referencia, tipo). applied=false indica que se omitió.
func (uc *StockLedgerUseCase) ApplyMovementOnce(ctx context.Context, repos repository.Repositories, in MovementInput) (*MovementResult, bool, error) {
	if in.ReferenceNumber != "" {
		exists, err := repos.Movements.Exists(ctx, in.ProductID, in.VariationID, in.ReferenceNumber, in.Type)
		if err != nil {
			return nil, false, err
		}
		if exists {
			return nil, false, nil
		}
	}
	res, err := uc.ApplyMovementInTx(ctx, repos, in)
	if err != nil {
		return nil, false, err
	}
	return res, true, nil
}

// ApplyMovementInTx aplica el movimiento con los repositorios de la transacción del caller.
//   - IN suma; OUT y GIFT restan y fallan con ErrInsufficientStock si no alcanza.
//   - ADJ suma o resta según Direction.
//   - Producto con variantes: exige variante; el stock del producto se recalcula como Σ variantes.
//   - Producto sin variantes: el stock del producto es el propio contador.
func (uc *StockLedgerUseCase) ApplyMovementInTx(ctx context.Context, repos repository.Repositories, in MovementInput) (*MovementResult, error) {
	delta, err := signedDelta(in)
	if err != nil {
		return nil, err
	}

	product, err := repos.Products.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	count, err := repos.Variations.CountByProduct(ctx, product.ID)
	if err != nil {
		return nil, err
	}
	if err := uc.reaverageCost(ctx, repos, product, in); err != nil {
		return nil, err
	}

	res := &MovementResult{}
	if count > 0 {
		if in.VariationID == "" {
			return nil, domain.NewValidationError("variation_id", "requerido para productos con variantes")
		}
		variation, err := repos.Variations.GetByID(ctx, in.VariationID)
		if err != nil {
			return nil, err
		}
		if variation == nil || variation.ProductID != product.ID {
			return nil, domain.ErrNotFound
		}
		var stock int
		if delta < 0 {
			stock, err = repos.Variations.DecrementStock(ctx, variation.ID, -delta)
			if errors.Is(err, domain.ErrInsufficientStock) {
				return nil, &domain.InsufficientStockError{
					ProductID: product.ID, VariationID: variation.ID, Requested: in.Quantity, Available: variation.Stock,
				}
			}
		} else {
			stock, err = repos.Variations.IncrementStock(ctx, variation.ID, delta)
		}
		if err != nil {
			return nil, err
		}
		res.VariationStock = &stock
		if res.ProductStock, err = repos.Products.RecomputeStock(ctx, product.ID); err != nil {
			return nil, err
		}
	} else {
		if in.VariationID != "" {
			return nil, domain.ErrNotFound
		}
		res.ProductStock, err = repos.Products.AdjustStock(ctx, product.ID, delta)
		if errors.Is(err, domain.ErrInsufficientStock) {
			return nil, &domain.InsufficientStockError{
				ProductID: product.ID, Requested: in.Quantity, Available: product.StockQuantity,
			}
		}
		if err != nil {
			return nil, err
		}
	}

	now := uc.now()
	mov := &entity.StockMovement{
		ID:              uuid.New().String(),
		ProductID:       product.ID,
		VariationID:     in.VariationID,
		Type:            in.Type,
		Quantity:        in.Quantity,
		Delta:           delta,
		ReferenceNumber: in.ReferenceNumber,
		Notes:           in.Notes,
		CreatedAt:       now,
		CreatedBy:       in.UserID,
	}
	if err := repos.Movements.Create(ctx, mov); err != nil {
		return nil, err
	}
	res.Movement = mov

	if res.ProductStock <= product.MinimumStock {
		if err := uc.raiseAlert(ctx, repos, product, mov, res.ProductStock, now); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// reaverageCost actualiza cost_price con el promedio ponderado cuando una entrada trae costo.
// Usa el stock previo al movimiento.
func (uc *StockLedgerUseCase) reaverageCost(ctx context.Context, repos repository.Repositories, product *entity.Product, in MovementInput) error {
	if in.Type != entity.MovementTypeIN || in.UnitCost == nil {
		return nil
	}
	if in.UnitCost.IsNegative() {
		return domain.NewValidationError("unit_cost", "no puede ser negativo")
	}
	updated := *product
	updated.CostPrice = dinventory.WeightedAverageCost(product.StockQuantity, product.CostPrice, in.Quantity, *in.UnitCost)
	updated.UpdatedAt = uc.now()
	if err := repos.Products.Update(ctx, &updated); err != nil {
		return err
	}
	uc.log.Debug().Str("product_id", product.ID).
		Str("cost_before", product.CostPrice.StringFixed(2)).
		Str("cost_after", updated.CostPrice.StringFixed(2)).
		Msg("costo promedio actualizado")
	return nil
}

func (uc *StockLedgerUseCase) raiseAlert(ctx context.Context, repos repository.Repositories, product *entity.Product, mov *entity.StockMovement, stock int, now time.Time) error {
	level := entity.AlertLevelLow
	if stock == 0 {
		level = entity.AlertLevelOut
	}
	alert := &entity.StockAlert{
		ID:           uuid.New().String(),
		ProductID:    product.ID,
		VariationID:  mov.VariationID,
		Level:        level,
		Stock:        stock,
		MinimumStock: product.MinimumStock,
		MovementID:   mov.ID,
		CreatedAt:    now,
	}
	if err := repos.Alerts.Create(ctx, alert); err != nil {
		return err
	}
	uc.log.Warn().
		Str("product_id", product.ID).
		Str("variation_id", mov.VariationID).
		Str("level", level).
		Int("stock", stock).
		Int("minimum_stock", product.MinimumStock).
		Msg("stock bajo")
	return nil
}

func signedDelta(in MovementInput) (int, error) {
	if in.ProductID == "" {
		return 0, domain.NewValidationError("product_id", "requerido")
	}
	if in.Quantity <= 0 {
		return 0, domain.NewValidationError("quantity", "debe ser mayor que cero")
	}
	switch in.Type {
	case entity.MovementTypeIN:
		return in.Quantity, nil
	case entity.MovementTypeOUT, entity.MovementTypeGIFT:
		return -in.Quantity, nil
	case entity.MovementTypeADJ:
		switch in.Direction {
		case entity.AdjustIncrease:
			return in.Quantity, nil
		case entity.AdjustDecrease:
			return -in.Quantity, nil
		}
		return 0, domain.NewValidationError("direction", "ADJ requiere increase o decrease")
	}
	return 0, domain.NewValidationError("type", "tipo de movimiento desconocido")
}

// ListMovements historial de movimientos de un producto, más reciente primero.
func (uc *StockLedgerUseCase) ListMovements(ctx context.Context, productID string, page dto.PageRequest) ([]dto.StockMovementResponse, error) {
	page.DefaultPage()
	product, err := uc.repos.Products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	list, err := uc.repos.Movements.ListByProduct(ctx, productID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockMovementResponse, 0, len(list))
	for _, m := range list {
		r := toMovementResponse(m)
		r.ProductStock = product.StockQuantity
		out = append(out, r)
	}
	return out, nil
}

// ListAlerts alertas de stock más recientes.
func (uc *StockLedgerUseCase) ListAlerts(ctx context.Context, limit int) ([]dto.StockAlertResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	list, err := uc.repos.Alerts.ListRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockAlertResponse, 0, len(list))
	for _, a := range list {
		out = append(out, dto.StockAlertResponse{
			ID:           a.ID,
			ProductID:    a.ProductID,
			VariationID:  a.VariationID,
			Level:        a.Level,
			Stock:        a.Stock,
			MinimumStock: a.MinimumStock,
			MovementID:   a.MovementID,
			CreatedAt:    a.CreatedAt,
		})
	}
	return out, nil
}

// RecalculateProductStock fuerza stock_quantity = Σ stock de variantes (reconciliación manual).
// Un producto sin variantes conserva su contador.
func (uc *StockLedgerUseCase) RecalculateProductStock(ctx context.Context, productID string) (int, error) {
	var stock int
	err := uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		product, err := repos.Products.GetByID(ctx, productID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		count, err := repos.Variations.CountByProduct(ctx, productID)
		if err != nil {
			return err
		}
		if count == 0 {
			stock = product.StockQuantity
			return nil
		}
		stock, err = repos.Products.RecomputeStock(ctx, productID)
		return err
	})
	return stock, err
}

func toMovementResponse(m *entity.StockMovement) dto.StockMovementResponse {
	return dto.StockMovementResponse{
		ID:              m.ID,
		ProductID:       m.ProductID,
		VariationID:     m.VariationID,
		Type:            m.Type,
		Quantity:        m.Quantity,
		Delta:           m.Delta,
		ReferenceNumber: m.ReferenceNumber,
		Notes:           m.Notes,
		CreatedBy:       m.CreatedBy,
		CreatedAt:       m.CreatedAt,
	}
}
