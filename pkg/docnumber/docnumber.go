// Package docnumber genera números de documento cortos (INV-XXXXXXXX, RET-XXXXXXXX).
// La unicidad la garantiza el store; ante colisión el caller reintenta.
package docnumber

import (
	"strings"

	"github.com/google/uuid"
)

// Prefijos de documento.
const (
	PrefixInvoice = "INV-"
	PrefixReturn  = "RET-"
	PrefixCancel  = "CANCEL-"
)

const tokenLen = 8

// Generator produce un número nuevo con el prefijo dado.
type Generator func(prefix string) string

// New devuelve prefix + 8 caracteres alfanuméricos en mayúscula.
func New(prefix string) string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + strings.ToUpper(raw[:tokenLen])
}
