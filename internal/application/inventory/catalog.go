package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/application/dto"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain/entity"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain/repository"
)

// OpeningReference referencia de los movimientos IN del stock inicial.
const OpeningReference = "OPENING"

// CatalogUseCase alta y consulta de productos y variantes. El stock nunca se escribe directo:
// el inicial entra como movimientos IN en la misma transacción del alta.
type CatalogUseCase struct {
	txRunner TxRunner
	repos    repository.Repositories
	ledger   *StockLedgerUseCase
}

// NewCatalogUseCase construye el caso de uso.
func NewCatalogUseCase(txRunner TxRunner, repos repository.Repositories, ledger *StockLedgerUseCase) *CatalogUseCase {
	return &CatalogUseCase{txRunner: txRunner, repos: repos, ledger: ledger}
}

// CreateProduct crea el producto, sus variantes y el stock inicial.
func (uc *CatalogUseCase) CreateProduct(ctx context.Context, userID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.CostPrice.LessThan(decimal.Zero) {
		return nil, domain.NewValidationError("cost_price", "no puede ser negativo")
	}
	if in.SellingPrice.LessThan(decimal.Zero) {
		return nil, domain.NewValidationError("selling_price", "no puede ser negativo")
	}
	seen := make(map[string]struct{}, len(in.Variations))
	for _, v := range in.Variations {
		key := strings.ToLower(v.Size) + "|" + strings.ToLower(v.Color)
		if _, dup := seen[key]; dup {
			return nil, domain.NewValidationError("variations", "talla/color repetido: "+v.Size+"/"+v.Color)
		}
		seen[key] = struct{}{}
	}
	if len(in.Variations) > 0 && in.InitialStock > 0 {
		return nil, domain.NewValidationError("initial_stock", "con variantes el stock va en cada variante")
	}

	var productID string
	err := uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		existing, err := repos.Products.GetBySKU(ctx, in.SKU)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrDuplicate
		}
		now := time.Now()
		product := &entity.Product{
			ID:               uuid.New().String(),
			Name:             in.Name,
			SKU:              in.SKU,
			CategoryID:       in.CategoryID,
			OnlineCategoryID: in.OnlineCategoryID,
			CostPrice:        in.CostPrice,
			SellingPrice:     in.SellingPrice,
			MinimumStock:     in.MinimumStock,
			IsActive:         true,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		if err := repos.Products.Create(ctx, product); err != nil {
			return err
		}
		productID = product.ID

		for _, vr := range in.Variations {
			v := &entity.ProductVariation{
				ID:        uuid.New().String(),
				ProductID: product.ID,
				Size:      vr.Size,
				Color:     vr.Color,
				IsActive:  true,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := repos.Variations.Create(ctx, v); err != nil {
				return err
			}
			if vr.Stock > 0 {
				if _, err := uc.ledger.ApplyMovementInTx(ctx, repos, MovementInput{
					ProductID: product.ID, VariationID: v.ID, Type: entity.MovementTypeIN,
					Quantity: vr.Stock, ReferenceNumber: OpeningReference, Notes: "stock inicial", UserID: userID,
				}); err != nil {
					return err
				}
			}
		}
		if len(in.Variations) == 0 && in.InitialStock > 0 {
			if _, err := uc.ledger.ApplyMovementInTx(ctx, repos, MovementInput{
				ProductID: product.ID, Type: entity.MovementTypeIN,
				Quantity: in.InitialStock, ReferenceNumber: OpeningReference, Notes: "stock inicial", UserID: userID,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uc.GetProduct(ctx, productID)
}

// GetProduct devuelve el producto con sus variantes.
func (uc *CatalogUseCase) GetProduct(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repos.Products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	variations, err := uc.repos.Variations.ListByProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product, variations), nil
}

// ListProducts lista productos paginados (sin variantes).
func (uc *CatalogUseCase) ListProducts(ctx context.Context, page dto.PageRequest) ([]dto.ProductResponse, error) {
	page.DefaultPage()
	list, err := uc.repos.Products.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, *toProductResponse(p, nil))
	}
	return out, nil
}

func toProductResponse(p *entity.Product, variations []*entity.ProductVariation) *dto.ProductResponse {
	out := &dto.ProductResponse{
		ID:               p.ID,
		SKU:              p.SKU,
		Name:             p.Name,
		CategoryID:       p.CategoryID,
		OnlineCategoryID: p.OnlineCategoryID,
		CostPrice:        p.CostPrice,
		SellingPrice:     p.SellingPrice,
		StockQuantity:    p.StockQuantity,
		MinimumStock:     p.MinimumStock,
		IsActive:         p.IsActive,
		Variations:       make([]dto.VariationResponse, 0, len(variations)),
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
	for _, v := range variations {
		out.Variations = append(out.Variations, dto.VariationResponse{
			ID: v.ID, Size: v.Size, Color: v.Color, Stock: v.Stock, IsActive: v.IsActive,
		})
	}
	return out
}
