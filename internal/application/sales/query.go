package sales

import (
	"context"

	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/application/dto"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain/entity"
)

// LoadSale devuelve la entidad completa (líneas, pagos y cuenta por cobrar); la usa el recibo PDF.
func (uc *SaleUseCase) LoadSale(ctx context.Context, id string) (*entity.Sale, error) {
	sale, err := uc.repos.Sales.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	if sale.Payments, err = uc.repos.Payments.ListBySale(ctx, id); err != nil {
		return nil, err
	}
	if sale.Due, err = uc.repos.Payments.GetDueBySale(ctx, id); err != nil {
		return nil, err
	}
	return sale, nil
}

// GetSale venta con líneas, pagos y cuenta por cobrar.
func (uc *SaleUseCase) GetSale(ctx context.Context, id string) (*dto.SaleResponse, error) {
	sale, err := uc.LoadSale(ctx, id)
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale), nil
}

// ListSales ventas paginadas, más reciente primero, sin líneas.
func (uc *SaleUseCase) ListSales(ctx context.Context, page dto.PageRequest) (*dto.SaleListResponse, error) {
	page.DefaultPage()
	list, err := uc.repos.Sales.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := &dto.SaleListResponse{
		Items: make([]dto.SaleResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, s := range list {
		out.Items = append(out.Items, *toSaleResponse(s))
	}
	return out, nil
}

func toSaleResponse(s *entity.Sale) *dto.SaleResponse {
	out := &dto.SaleResponse{
		ID:            s.ID,
		InvoiceNumber: s.InvoiceNumber,
		CustomerID:    s.CustomerID,
		OrderID:       s.OrderID,
		Date:          s.Date,
		Subtotal:      s.Subtotal,
		Discount:      s.Discount,
		Tax:           s.Tax,
		Total:         s.Total,
		TotalProfit:   s.TotalProfit,
		TotalLoss:     s.TotalLoss,
		PaymentMethod: s.PaymentMethod,
		Status:        s.Status,
		AmountPaid:    s.AmountPaid,
		AmountDue:     s.AmountDue,
		GiftAmount:    s.GiftAmount,
		IsFullyPaid:   s.IsFullyPaid,
		PaymentStatus: s.PaymentStatus,
		Notes:         s.Notes,
		Items:         make([]dto.SaleItemResponse, 0, len(s.Items)),
		Payments:      make([]dto.PaymentResponse, 0, len(s.Payments)),
	}
	for _, it := range s.Items {
		out.Items = append(out.Items, dto.SaleItemResponse{
			ID:               it.ID,
			ProductID:        it.ProductID,
			VariationID:      it.VariationID,
			Size:             it.Size,
			Color:            it.Color,
			Quantity:         it.Quantity,
			UnitPrice:        it.UnitPrice,
			Discount:         it.Discount,
			Total:            it.Total,
			Profit:           it.Profit,
			Loss:             it.Loss,
			ReturnedQuantity: it.ReturnedQuantity,
		})
	}
	for _, p := range s.Payments {
		out.Payments = append(out.Payments, dto.PaymentResponse{
			ID:            p.ID,
			Amount:        p.Amount,
			PaymentMethod: p.PaymentMethod,
			Status:        p.Status,
			TransactionID: p.TransactionID,
			IsGiftPayment: p.IsGiftPayment,
			PaymentDate:   p.PaymentDate,
		})
	}
	if s.Due != nil {
		out.Due = toDueResponse(s.Due)
	}
	return out
}

func toDueResponse(d *entity.DuePayment) *dto.DueResponse {
	return &dto.DueResponse{
		ID:              d.ID,
		AmountDue:       d.AmountDue,
		AmountPaid:      d.AmountPaid,
		RemainingAmount: d.RemainingAmount(),
		DueDate:         d.DueDate,
		Status:          d.Status,
	}
}
