package repository

import (
	"context"
	"time"
)

// Store интерфейс key-value хранилища, которое используют скоринг и интересы
type Store interface {
	// Get возвращает значение по ключу; nil без ошибки, если ключа нет.
	// Ошибки соединения пробрасываются вызывающему после исчерпания попыток.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set сохраняет значение; ttl == 0 - без срока жизни
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// CacheGet - Get для кэша: любая ошибка превращается в промах (nil)
	CacheGet(ctx context.Context, key string) []byte

	// CacheSet - Set для кэша: ошибки записи проглатываются
	CacheSet(ctx context.Context, key string, value []byte, ttl time.Duration)

	// Ping проверяет доступность хранилища
	Ping(ctx context.Context) error

	// Close освобождает соединения
	Close() error
}
