package service

import (
	"context"

	"scoring-api/internal/model"
)

// ScoringService интерфейс бизнес-логики скоринга и интересов клиентов
type ScoringService interface {
	// GetScore возвращает скоринг профиля. Кэш используется по возможности:
	// недоступность хранилища не приводит к ошибке.
	GetScore(ctx context.Context, in model.ScoreInput) float64

	// GetInterests возвращает интересы клиента; ошибки хранилища пробрасываются
	GetInterests(ctx context.Context, clientID int64) ([]string, error)
}
