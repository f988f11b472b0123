// Package phone normaliza teléfonos de clientes a E.164 con libphonenumber.
package phone

import (
	"fmt"
	"strings"

	"github.com/ttacon/libphonenumber"
)

// Normalizer convierte números locales o internacionales a E.164. DefaultRegion se usa cuando el
// número no trae prefijo internacional.
type Normalizer struct {
	DefaultRegion string
}

// NewNormalizer crea el normalizador para la región por defecto (código ISO, p. ej. "BD").
func NewNormalizer(region string) *Normalizer {
	return &Normalizer{DefaultRegion: strings.ToUpper(strings.TrimSpace(region))}
}

// Normalize devuelve el número en E.164 o error si no es un número válido.
func (n *Normalizer) Normalize(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("teléfono vacío")
	}
	p, err := libphonenumber.Parse(raw, n.DefaultRegion)
	if err != nil {
		return "", fmt.Errorf("teléfono %q: %w", raw, err)
	}
	if !libphonenumber.IsValidNumber(p) {
		return "", fmt.Errorf("teléfono %q no es válido", raw)
	}
	return libphonenumber.Format(p, libphonenumber.E164), nil
}
