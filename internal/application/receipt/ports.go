package receipt

import (
	"context"

	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain/entity"
)

// SaleLoader carga la venta completa (líneas, pagos, cuenta por cobrar).
type SaleLoader interface {
	LoadSale(ctx context.Context, id string) (*entity.Sale, error)
}

// Generator genera la representación imprimible del recibo.
type Generator interface {
	GenerateReceipt(ctx context.Context, r *Receipt) ([]byte, error)
}

// Receipt datos ya resueltos que necesita el generador.
type Receipt struct {
	StoreName string
	Sale      *entity.Sale
	Customer  *entity.Customer // nil en ventas de mostrador
	Lines     []Line
}

// Line línea de la venta enriquecida con el nombre del producto.
type Line struct {
	entity.SaleItem
	ProductName string
}
