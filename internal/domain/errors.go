package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound                     = errors.New("recurso no encontrado")
	ErrInvalidInput                 = errors.New("entrada inválida")
	ErrDuplicate                    = errors.New("recurso duplicado")
	ErrUnauthorized                 = errors.New("no autorizado")
	ErrForbidden                    = errors.New("acceso denegado")
	ErrConflict                     = errors.New("conflicto con el estado actual")
	ErrInsufficientStock            = errors.New("stock insuficiente")
	ErrInvalidDiscountConfiguration = errors.New("configuración de descuento inválida")
	ErrOverPayment                  = errors.New("el pago excede el saldo")
	ErrConversionFailure            = errors.New("falló la conversión del pedido a venta")
)

// ValidationError describe un campo inválido del payload. errors.Is(err, ErrInvalidInput) es true.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrInvalidInput, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", ErrInvalidInput, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// NewValidationError atajo para construir un ValidationError.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// InsufficientStockError detalla la variante sin stock. errors.Is(err, ErrInsufficientStock) es true.
type InsufficientStockError struct {
	ProductID   string
	VariationID string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("%s: producto %s variante %s (solicitado %d, disponible %d)",
		ErrInsufficientStock, e.ProductID, e.VariationID, e.Requested, e.Available)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }
