package docnumber

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_Formato(t *testing.T) {
	re := regexp.MustCompile(`^INV-[0-9A-F]{8}$`)
	for i := 0; i < 50; i++ {
		assert.Regexp(t, re, New(PrefixInvoice))
	}
	assert.Regexp(t, `^RET-[0-9A-F]{8}$`, New(PrefixReturn))
}

func TestNew_NoRepiteEnRafaga(t *testing.T) {
	seen := make(map[string]struct{}, 200)
	for i := 0; i < 200; i++ {
		n := New(PrefixInvoice)
		_, dup := seen[n]
		assert.False(t, dup, "número repetido: %s", n)
		seen[n] = struct{}{}
	}
}
