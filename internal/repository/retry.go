package repository

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// RetryPolicy - фиксированное число попыток с фиксированной паузой между ними
type RetryPolicy struct {
	Attempts int
	Backoff  time.Duration

	// Retryable решает, стоит ли повторять операцию после ошибки.
	// nil - повторяются любые ошибки.
	Retryable func(error) bool

	// OnRetry вызывается перед каждой повторной попыткой
	OnRetry func(attempt int, err error)
}

// WithRetries выполняет op не более policy.Attempts раз.
// Если все попытки неудачны, возвращается последняя ошибка.
func WithRetries[T any](ctx context.Context, policy RetryPolicy, op func(ctx context.Context) (T, error)) (T, error) {
	attempts := policy.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var zero T
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if policy.Retryable != nil && !policy.Retryable(err) {
			return zero, err
		}
		if attempt == attempts {
			break
		}
		if policy.OnRetry != nil {
			policy.OnRetry(attempt, err)
		}

		// Пауза прерывается отменой контекста
		timer := time.NewTimer(policy.Backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, errors.Join(lastErr, ctx.Err())
		case <-timer.C:
		}
	}

	return zero, fmt.Errorf("after %d attempts: %w", attempts, lastErr)
}
