package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	goredis "github.com/redis/go-redis/v9"

	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain"
)

// Locker candado distribuido sobre bsm/redislock. Una clave tomada devuelve domain.ErrConflict.
type Locker struct {
	client *redislock.Client
	prefix string
}

// NewLocker crea el candado; las claves se guardan como "lock:<key>".
func NewLocker(client *goredis.Client) *Locker {
	return &Locker{client: redislock.New(client), prefix: "lock:"}
}

// Lock intenta tomar la clave una sola vez, sin reintentos. Devuelve la función que la libera.
func (l *Locker) Lock(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, error) {
	lock, err := l.client.Obtain(ctx, l.prefix+key, ttl, nil)
	if err != nil {
		return nil, mapLockError(key, err)
	}
	return func(ctx context.Context) error {
		if err := lock.Release(ctx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			return fmt.Errorf("release lock %s: %w", key, err)
		}
		return nil
	}, nil
}

func mapLockError(key string, err error) error {
	if errors.Is(err, redislock.ErrNotObtained) {
		return fmt.Errorf("%w: recurso %s en uso", domain.ErrConflict, key)
	}
	return fmt.Errorf("obtain lock %s: %w", key, err)
}
