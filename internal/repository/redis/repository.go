package redis

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"scoring-api/internal/repository"
)

// Config - параметры подключения к Redis и политика повторов
type Config struct {
	Addr             string
	Password         string
	DB               int
	SocketTimeout    time.Duration
	ConnectTimeout   time.Duration
	MaxRetryAttempts int
	RetryBackoff     time.Duration
}

var _ repository.Store = (*repo)(nil)

type repo struct {
	client *goredis.Client
	policy repository.RetryPolicy
	log    *zap.Logger
}

// NewRepository создает хранилище поверх go-redis.
// Соединение устанавливается лениво, при первой операции.
func NewRepository(cfg Config, logger *zap.Logger) repository.Store {
	client := goredis.NewClient(&goredis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.ConnectTimeout,
		ReadTimeout:  cfg.SocketTimeout,
		WriteTimeout: cfg.SocketTimeout,
		// Повторами управляет WithRetries
		MaxRetries: -1,
	})
	return newRepository(client, cfg, logger)
}

func newRepository(client *goredis.Client, cfg Config, logger *zap.Logger) *repo {
	if logger == nil {
		logger = zap.NewNop()
	}
	log := logger.With(zap.String("component", "redis"), zap.String("addr", cfg.Addr))

	return &repo{
		client: client,
		log:    log,
		policy: repository.RetryPolicy{
			Attempts:  cfg.MaxRetryAttempts,
			Backoff:   cfg.RetryBackoff,
			Retryable: isTransient,
			OnRetry: func(attempt int, err error) {
				log.Warn("redis operation failed, retrying", zap.Int("attempt", attempt), zap.Error(err))
			},
		},
	}
}

// Get возвращает значение по ключу; отсутствие ключа - не ошибка
func (r *repo) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := repository.WithRetries(ctx, r.policy, func(ctx context.Context) ([]byte, error) {
		value, err := r.client.Get(ctx, key).Bytes()
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return value, err
	})
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return value, nil
}

// Set сохраняет значение с ttl (0 - бессрочно)
func (r *repo) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	_, err := repository.WithRetries(ctx, r.policy, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, r.client.Set(ctx, key, value, ttl).Err()
	})
	if err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (r *repo) CacheGet(ctx context.Context, key string) []byte {
	value, err := r.Get(ctx, key)
	if err != nil {
		r.log.Warn("cache read failed, treating as miss", zap.String("key", key), zap.Error(err))
		return nil
	}
	return value
}

func (r *repo) CacheSet(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if err := r.Set(ctx, key, value, ttl); err != nil {
		r.log.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (r *repo) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *repo) Close() error {
	return r.client.Close()
}

// isTransient - ошибки соединения и таймауты, после которых имеет смысл повторить
func isTransient(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
