package redis

import (
	"errors"
	"testing"
	"time"

	"github.com/bsm/redislock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain/entity"
)

func TestMapLockError(t *testing.T) {
	err := mapLockError("order:convert:1", redislock.ErrNotObtained)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Contains(t, err.Error(), "order:convert:1")

	other := errors.New("dial tcp: connection refused")
	err = mapLockError("sale:pay:1", other)
	assert.ErrorIs(t, err, other)
	assert.NotErrorIs(t, err, domain.ErrConflict)
}

func TestDiscountsEncoding(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	in := []*entity.Discount{{
		ID:        "d1",
		Name:      "Temporada",
		Type:      entity.DiscountTypeProduct,
		Value:     decimal.RequireFromString("12.5"),
		StartDate: start,
		EndDate:   start.AddDate(0, 1, 0),
		IsActive:  true,
		Status:    entity.DiscountStatusActive,
		ProductID: "p1",
	}}

	payload, err := encodeDiscounts(in)
	require.NoError(t, err)
	out, err := decodeDiscounts(payload)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.True(t, out[0].Value.Equal(in[0].Value))
	assert.True(t, out[0].EndDate.Equal(in[0].EndDate))
	assert.Equal(t, "p1", out[0].ProductID)

	empty, err := encodeDiscounts(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(empty))

	_, err = decodeDiscounts([]byte("{"))
	assert.Error(t, err)
}
