// Package orders gestiona preórdenes y pedidos online y su conversión a venta.
package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/application/dto"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain/entity"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain/money"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain/repository"
)

const convertLockTTL = 30 * time.Second

// rank orden del ciclo de vida; cancelled queda fuera porque se alcanza desde cualquier estado abierto.
var rank = map[string]int{
	entity.OrderStatusPending:    0,
	entity.OrderStatusConfirmed:  1,
	entity.OrderStatusProcessing: 2,
	entity.OrderStatusCompleted:  3,
}

// OrderUseCase casos de uso de pedidos.
type OrderUseCase struct {
	repos  repository.Repositories
	sales  SaleCreationPort
	prices PriceResolver
	phones PhoneNormalizer
	locker Locker
	log    zerolog.Logger
	now    func() time.Time
}

// NewOrderUseCase construye el caso de uso. locker puede ser nil.
func NewOrderUseCase(repos repository.Repositories, sales SaleCreationPort, prices PriceResolver, phones PhoneNormalizer, locker Locker, log zerolog.Logger) *OrderUseCase {
	return &OrderUseCase{
		repos:  repos,
		sales:  sales,
		prices: prices,
		phones: phones,
		locker: locker,
		log:    log,
		now:    time.Now,
	}
}

// CreateOrder registra el pedido con sus precios congelados.
func (uc *OrderUseCase) CreateOrder(ctx context.Context, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if in.Source != entity.OrderSourcePreorder && in.Source != entity.OrderSourceOnline {
		return nil, domain.NewValidationError("source", "preorder u online")
	}
	if in.CustomerName == "" {
		return nil, domain.NewValidationError("customer_name", "requerido")
	}
	if _, err := uc.phones.Normalize(in.CustomerPhone); err != nil {
		return nil, domain.NewValidationError("customer_phone", err.Error())
	}
	if len(in.Items) == 0 {
		return nil, domain.NewValidationError("items", "el pedido necesita al menos una línea")
	}

	now := uc.now()
	order := &entity.Order{
		ID:            uuid.New().String(),
		Source:        in.Source,
		CustomerName:  in.CustomerName,
		CustomerPhone: in.CustomerPhone,
		CustomerEmail: in.CustomerEmail,
		Status:        entity.OrderStatusPending,
		TotalAmount:   decimal.Zero,
		Notes:         in.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for i, it := range in.Items {
		field := fmt.Sprintf("items[%d]", i)
		if it.Quantity <= 0 {
			return nil, domain.NewValidationError(field+".quantity", "debe ser mayor que cero")
		}
		if it.Discount.IsNegative() {
			return nil, domain.NewValidationError(field+".discount", "no puede ser negativo")
		}
		product, err := uc.repos.Products.GetByID(ctx, it.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, it.ProductID)
		}
		price := decimal.Zero
		if it.UnitPrice != nil {
			price = *it.UnitPrice
		} else if price, err = uc.prices.UnitPrice(ctx, product); err != nil {
			return nil, err
		}
		line := entity.OrderItem{
			ProductID:   product.ID,
			VariationID: it.VariationID,
			Size:        it.Size,
			Color:       it.Color,
			Quantity:    it.Quantity,
			UnitPrice:   price,
			Discount:    it.Discount,
		}
		order.Items = append(order.Items, line)
		order.TotalAmount = order.TotalAmount.Add(price.Mul(decimal.NewFromInt(int64(it.Quantity))).Sub(it.Discount))
	}
	order.TotalAmount = money.Round2(order.TotalAmount)

	if err := uc.repos.Orders.Create(ctx, order); err != nil {
		return nil, err
	}
	uc.log.Info().Str("order_id", order.ID).Str("source", order.Source).Msg("pedido registrado")
	return toOrderResponse(order, nil), nil
}

// GetOrder pedido con el estado de su conversión.
func (uc *OrderUseCase) GetOrder(ctx context.Context, id string) (*dto.OrderResponse, error) {
	order, err := uc.repos.Orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	conv, err := uc.repos.Conversions.GetByOrderID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toOrderResponse(order, conv), nil
}

// ListOrders pedidos paginados, filtro opcional por estado.
func (uc *OrderUseCase) ListOrders(ctx context.Context, status string, page dto.PageRequest) ([]dto.OrderResponse, error) {
	page.DefaultPage()
	list, err := uc.repos.Orders.List(ctx, status, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		out = append(out, *toOrderResponse(o, nil))
	}
	return out, nil
}

// UpdateOrderStatus avanza el pedido. Al entrar en completed se convierte a venta; un fallo de
// conversión queda registrado en el pedido y no revierte el cambio de estado.
func (uc *OrderUseCase) UpdateOrderStatus(ctx context.Context, userID, id string, in dto.UpdateOrderStatusRequest) (*dto.OrderResponse, error) {
	order, err := uc.repos.Orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if err := checkTransition(order.Status, in.Status); err != nil {
		return nil, err
	}
	if in.Status != order.Status {
		if err := uc.repos.Orders.UpdateStatus(ctx, id, in.Status); err != nil {
			return nil, err
		}
		uc.log.Info().Str("order_id", id).Str("from", order.Status).Str("to", in.Status).Msg("estado de pedido actualizado")
	}
	if in.Status == entity.OrderStatusCompleted {
		if _, err := uc.ConvertOrderToSale(ctx, userID, id); err != nil {
			uc.log.Error().Err(err).Str("order_id", id).Msg("conversión de pedido a venta fallida")
		}
	}
	return uc.GetOrder(ctx, id)
}

func checkTransition(from, to string) error {
	if from == to {
		return nil
	}
	if from == entity.OrderStatusCompleted || from == entity.OrderStatusCancelled {
		return fmt.Errorf("%w: el pedido ya está %s", domain.ErrConflict, from)
	}
	if to == entity.OrderStatusCancelled {
		return nil
	}
	next, ok := rank[to]
	if !ok {
		return domain.NewValidationError("status", "estado no válido: "+to)
	}
	if next < rank[from] {
		return fmt.Errorf("%w: transición %s → %s no permitida", domain.ErrConflict, from, to)
	}
	return nil
}

// ConvertOrderToSale crea la venta de un pedido completado exactamente una vez. Si la conversión
// ya fue exitosa no hace nada; si falla, el error queda en el registro de conversión para reintentar.
func (uc *OrderUseCase) ConvertOrderToSale(ctx context.Context, userID, orderID string) (*dto.ConversionResponse, error) {
	if uc.locker != nil {
		unlock, err := uc.locker.Lock(ctx, "order:convert:"+orderID, convertLockTTL)
		if err != nil {
			return nil, err
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				uc.log.Warn().Err(err).Str("order_id", orderID).Msg("no se pudo liberar el candado del pedido")
			}
		}()
	}

	order, err := uc.repos.Orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if order.Status != entity.OrderStatusCompleted {
		return nil, fmt.Errorf("%w: solo se convierten pedidos completados (estado %s)", domain.ErrConflict, order.Status)
	}

	conv, err := uc.repos.Conversions.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	if conv == nil {
		conv = &entity.OnlineConversion{ID: uuid.New().String(), OrderID: orderID, CreatedAt: now}
	}
	if conv.Status == entity.ConversionSuccess {
		return toConversionResponse(conv), nil
	}

	// Un intento anterior pudo crear la venta sin llegar a marcar SUCCESS.
	existing, err := uc.repos.Sales.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return uc.markConverted(ctx, conv, existing.ID, existing.InvoiceNumber, now)
	}

	conv.Status = entity.ConversionPending
	conv.Attempts++
	conv.UpdatedAt = now
	if err := uc.repos.Conversions.Save(ctx, conv); err != nil {
		return nil, err
	}

	sale, saleErr := uc.sales.CreateSale(ctx, userID, saleRequest(order))
	if saleErr == nil {
		return uc.markConverted(ctx, conv, sale.ID, sale.InvoiceNumber, now)
	}
	if errors.Is(saleErr, domain.ErrDuplicate) {
		// Otro proceso ganó la carrera sobre order_id.
		if existing, err := uc.repos.Sales.GetByOrderID(ctx, orderID); err == nil && existing != nil {
			return uc.markConverted(ctx, conv, existing.ID, existing.InvoiceNumber, now)
		}
	}
	conv.Status = entity.ConversionFailed
	conv.ErrorMessage = saleErr.Error()
	if err := uc.repos.Conversions.Save(ctx, conv); err != nil {
		return nil, err
	}
	return toConversionResponse(conv), fmt.Errorf("%w: %w", domain.ErrConversionFailure, saleErr)
}

// markConverted deja el registro en SUCCESS. Si no se puede guardar queda PENDING y el próximo
// intento encuentra la venta por order_id en lugar de crear otra.
func (uc *OrderUseCase) markConverted(ctx context.Context, conv *entity.OnlineConversion, saleID, invoice string, now time.Time) (*dto.ConversionResponse, error) {
	conv.Status = entity.ConversionSuccess
	conv.SaleID = saleID
	conv.ErrorMessage = ""
	conv.UpdatedAt = now
	if err := uc.repos.Conversions.Save(ctx, conv); err != nil {
		uc.log.Error().Err(err).Str("order_id", conv.OrderID).Str("sale_id", saleID).
			Msg("venta creada pero no se pudo registrar la conversión")
		return nil, err
	}
	uc.log.Info().Str("order_id", conv.OrderID).Str("sale_id", saleID).Str("invoice", invoice).Msg("pedido convertido a venta")
	return toConversionResponse(conv), nil
}

// saleRequest venta en efectivo, completada, con los precios congelados del pedido.
func saleRequest(o *entity.Order) dto.CreateSaleRequest {
	items := make([]dto.SaleItemRequest, 0, len(o.Items))
	for _, it := range o.Items {
		price := it.UnitPrice
		items = append(items, dto.SaleItemRequest{
			ProductID:   it.ProductID,
			VariationID: it.VariationID,
			Size:        it.Size,
			Color:       it.Color,
			Quantity:    it.Quantity,
			UnitPrice:   &price,
			Discount:    it.Discount,
		})
	}
	return dto.CreateSaleRequest{
		CustomerName:  o.CustomerName,
		CustomerPhone: o.CustomerPhone,
		Items:         items,
		PaymentMethod: entity.PaymentMethodCash,
		Status:        entity.SaleStatusCompleted,
		Notes:         fmt.Sprintf("Pedido %s %s", o.Source, o.ID),
		OrderID:       o.ID,
	}
}

func toOrderResponse(o *entity.Order, c *entity.OnlineConversion) *dto.OrderResponse {
	out := &dto.OrderResponse{
		ID:            o.ID,
		Source:        o.Source,
		CustomerName:  o.CustomerName,
		CustomerPhone: o.CustomerPhone,
		CustomerEmail: o.CustomerEmail,
		Status:        o.Status,
		Items:         make([]dto.OrderItemResponse, 0, len(o.Items)),
		TotalAmount:   o.TotalAmount,
		Notes:         o.Notes,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
	for _, it := range o.Items {
		out.Items = append(out.Items, dto.OrderItemResponse(it))
	}
	if c != nil {
		out.Conversion = toConversionResponse(c)
	}
	return out
}

func toConversionResponse(c *entity.OnlineConversion) *dto.ConversionResponse {
	return &dto.ConversionResponse{
		Status:       c.Status,
		SaleID:       c.SaleID,
		ErrorMessage: c.ErrorMessage,
		Attempts:     c.Attempts,
		UpdatedAt:    c.UpdatedAt,
	}
}
