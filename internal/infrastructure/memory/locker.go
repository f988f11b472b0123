package memory

import (
	"context"
	"sync"
	"time"

	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain"
)

// LocalLocker candado por clave dentro del proceso; sustituye a redislock cuando no hay Redis.
// El TTL se respeta: un candado vencido se puede volver a tomar.
type LocalLocker struct {
	mu    sync.Mutex
	held  map[string]lease
	clock func() time.Time
}

type lease struct {
	token   int64
	expires time.Time
}

// NewLocalLocker crea el candado en memoria.
func NewLocalLocker() *LocalLocker {
	return &LocalLocker{held: make(map[string]lease), clock: time.Now}
}

// Lock toma la clave o devuelve domain.ErrConflict si otro la tiene vigente.
func (l *LocalLocker) Lock(_ context.Context, key string, ttl time.Duration) (func(context.Context) error, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock()
	if cur, ok := l.held[key]; ok && now.Before(cur.expires) {
		return nil, domain.ErrConflict
	}
	token := now.UnixNano()
	l.held[key] = lease{token: token, expires: now.Add(ttl)}

	return func(context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		if cur, ok := l.held[key]; ok && cur.token == token {
			delete(l.held, key)
		}
		return nil
	}, nil
}
