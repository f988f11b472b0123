package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/application/pricing"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain/entity"
)

// ActiveDiscountsKey clave de la lista de descuentos vigentes.
const ActiveDiscountsKey = "discounts:active"

var _ pricing.DiscountCache = (*DiscountCache)(nil)

// DiscountCache guarda en Redis la lista de descuentos vigentes como JSON con TTL.
type DiscountCache struct {
	client *goredis.Client
	ttl    time.Duration
}

// NewDiscountCache crea la caché; ttl <= 0 deja la clave sin expiración.
func NewDiscountCache(client *goredis.Client, ttl time.Duration) *DiscountCache {
	return &DiscountCache{client: client, ttl: ttl}
}

func (c *DiscountCache) GetActive(ctx context.Context) ([]*entity.Discount, bool, error) {
	val, err := c.client.Get(ctx, ActiveDiscountsKey).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %s: %w", ActiveDiscountsKey, err)
	}
	list, err := decodeDiscounts(val)
	if err != nil {
		return nil, false, err
	}
	return list, true, nil
}

func (c *DiscountCache) SetActive(ctx context.Context, list []*entity.Discount) error {
	payload, err := encodeDiscounts(list)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, ActiveDiscountsKey, payload, c.ttl).Err()
}

func (c *DiscountCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, ActiveDiscountsKey).Err()
}

func encodeDiscounts(list []*entity.Discount) ([]byte, error) {
	if list == nil {
		list = []*entity.Discount{}
	}
	payload, err := json.Marshal(list)
	if err != nil {
		return nil, fmt.Errorf("encode discounts: %w", err)
	}
	return payload, nil
}

func decodeDiscounts(payload []byte) ([]*entity.Discount, error) {
	var list []*entity.Discount
	if err := json.Unmarshal(payload, &list); err != nil {
		return nil, fmt.Errorf("decode discounts: %w", err)
	}
	return list, nil
}
