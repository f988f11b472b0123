// Package receipt arma el recibo imprimible de una venta.
package receipt

import (
	"context"
	"fmt"

	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain/entity"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain/repository"
)

// ReceiptUseCase genera el PDF del recibo de venta.
type ReceiptUseCase struct {
	sales     SaleLoader
	customers repository.CustomerRepository
	products  repository.ProductRepository
	generator Generator
	storeName string
}

// NewReceiptUseCase construye el caso de uso.
func NewReceiptUseCase(sales SaleLoader, customers repository.CustomerRepository, products repository.ProductRepository, generator Generator, storeName string) *ReceiptUseCase {
	return &ReceiptUseCase{
		sales:     sales,
		customers: customers,
		products:  products,
		generator: generator,
		storeName: storeName,
	}
}

// DownloadReceipt devuelve los bytes del PDF y el nombre de archivo sugerido.
// Una venta pendiente aún no tiene recibo.
func (uc *ReceiptUseCase) DownloadReceipt(ctx context.Context, saleID string) (pdfBytes []byte, filename string, err error) {
	sale, err := uc.sales.LoadSale(ctx, saleID)
	if err != nil {
		return nil, "", err
	}
	if sale.Status == entity.SaleStatusPending {
		return nil, "", fmt.Errorf("%w: la venta %s está pendiente", domain.ErrConflict, sale.InvoiceNumber)
	}

	r := &Receipt{StoreName: uc.storeName, Sale: sale}
	if sale.CustomerID != "" {
		if r.Customer, err = uc.customers.GetByID(ctx, sale.CustomerID); err != nil {
			return nil, "", fmt.Errorf("recibo: obtener cliente: %w", err)
		}
	}

	names := make(map[string]string, len(sale.Items))
	r.Lines = make([]Line, 0, len(sale.Items))
	for _, it := range sale.Items {
		name, ok := names[it.ProductID]
		if !ok {
			name = "Producto " + it.ProductID
			if p, pErr := uc.products.GetByID(ctx, it.ProductID); pErr == nil && p != nil {
				name = p.Name
			}
			names[it.ProductID] = name
		}
		r.Lines = append(r.Lines, Line{SaleItem: *it, ProductName: name})
	}

	pdfBytes, err = uc.generator.GenerateReceipt(ctx, r)
	if err != nil {
		return nil, "", fmt.Errorf("recibo: generación fallida: %w", err)
	}
	return pdfBytes, fmt.Sprintf("recibo_%s.pdf", sale.InvoiceNumber), nil
}
