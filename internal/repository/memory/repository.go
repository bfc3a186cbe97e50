package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"scoring-api/internal/repository"
)

// ErrClosed возвращается после Close
var ErrClosed = errors.New("memory store is closed")

var _ repository.Store = (*repo)(nil)

type entry struct {
	value     []byte
	expiresAt time.Time // нулевое значение - без срока жизни
}

type repo struct {
	mu     sync.RWMutex
	items  map[string]entry
	now    func() time.Time
	closed bool
}

// Option настраивает in-memory хранилище
type Option func(*repo)

// WithClock подменяет источник времени для проверки срока жизни
func WithClock(now func() time.Time) Option {
	return func(r *repo) { r.now = now }
}

// NewRepository создает in-memory хранилище на основе map.
// Подходит для локального запуска и тестов; данные не переживают рестарт.
func NewRepository(opts ...Option) repository.Store {
	r := &repo{
		items: make(map[string]entry),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Get возвращает значение по ключу; просроченные записи считаются отсутствующими
func (r *repo) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return nil, ErrClosed
	}
	e, ok := r.items[key]
	if !ok || (!e.expiresAt.IsZero() && !r.now().Before(e.expiresAt)) {
		return nil, nil
	}
	return append([]byte(nil), e.value...), nil
}

// Set сохраняет копию значения
func (r *repo) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrClosed
	}
	e := entry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expiresAt = r.now().Add(ttl)
	}
	r.items[key] = e
	return nil
}

func (r *repo) CacheGet(ctx context.Context, key string) []byte {
	value, err := r.Get(ctx, key)
	if err != nil {
		return nil
	}
	return value
}

func (r *repo) CacheSet(ctx context.Context, key string, value []byte, ttl time.Duration) {
	_ = r.Set(ctx, key, value, ttl)
}

func (r *repo) Ping(ctx context.Context) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return ErrClosed
	}
	return ctx.Err()
}

func (r *repo) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	r.items = make(map[string]entry)
	return nil
}
