package entity

import "time"

// Tipos de movimiento de stock.
const (
	MovementTypeIN   = "IN"   // entrada
	MovementTypeOUT  = "OUT"  // salida por venta
	MovementTypeGIFT = "GIFT" // salida por obsequio
	MovementTypeADJ  = "ADJ"  // ajuste manual (aumento o disminución)
)

// Dirección de un ajuste (solo aplica a ADJ).
const (
	AdjustIncrease = "increase"
	AdjustDecrease = "decrease"
)

// StockMovement fila inmutable del libro de stock. Nunca se actualiza ni se borra.
// Quantity siempre es positiva; Delta es el efecto con signo sobre el stock.
type StockMovement struct {
	ID              string
	ProductID       string
	VariationID     string // vacío si el producto no maneja variantes
	Type            string // IN, OUT, GIFT, ADJ
	Quantity        int
	Delta           int
	ReferenceNumber string // factura, devolución o ajuste (INV-..., RET-..., CANCEL-...)
	Notes           string
	CreatedAt       time.Time
	CreatedBy       string
}

// IsValidMovementType indica si t es un tipo de movimiento conocido.
func IsValidMovementType(t string) bool {
	switch t {
	case MovementTypeIN, MovementTypeOUT, MovementTypeGIFT, MovementTypeADJ:
		return true
	}
	return false
}

// Niveles de alerta de stock.
const (
	AlertLevelLow = "LOW"
	AlertLevelOut = "OUT"
)

// StockAlert registro observacional emitido cuando el stock de un producto cae al mínimo o por debajo.
type StockAlert struct {
	ID           string
	ProductID    string
	VariationID  string
	Level        string
	Stock        int
	MinimumStock int
	MovementID   string
	CreatedAt    time.Time
}
