package scoring

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"scoring-api/internal/metrics"
	"scoring-api/internal/model"
	"scoring-api/internal/repository"
	svc "scoring-api/internal/service"
)

const (
	// ScoreTTL - время жизни закэшированного скоринга
	ScoreTTL = 60 * time.Minute

	scoreKeyPrefix     = "uid:"
	interestsKeyPrefix = "i:"
	birthdayKeyLayout  = "20060102"
)

var _ svc.ScoringService = (*service)(nil)

type service struct {
	store   repository.Store
	metrics *metrics.Metrics
	log     *zap.Logger
}

// NewScoringService создает сервис скоринга поверх хранилища.
// metrics может быть nil.
func NewScoringService(store repository.Store, m *metrics.Metrics, logger *zap.Logger) svc.ScoringService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{
		store:   store,
		metrics: m,
		log:     logger.With(zap.String("component", "scoring")),
	}
}

// GetScore считает скоринг профиля, сначала заглядывая в кэш
func (s *service) GetScore(ctx context.Context, in model.ScoreInput) float64 {
	key := ScoreKey(in)

	if cached := s.store.CacheGet(ctx, key); cached != nil {
		score, err := strconv.ParseFloat(string(cached), 64)
		if err == nil && score != 0 {
			s.metrics.RecordCacheLookup(true)
			return score
		}
		if err != nil {
			s.log.Warn("unparsable cached score", zap.String("key", key), zap.Error(err))
		}
	}
	s.metrics.RecordCacheLookup(false)

	score := Compute(in)
	s.store.CacheSet(ctx, key, []byte(strconv.FormatFloat(score, 'f', -1, 64)), ScoreTTL)
	return score
}

// GetInterests читает интересы клиента из хранилища по ключу i:<id>
func (s *service) GetInterests(ctx context.Context, clientID int64) ([]string, error) {
	key := InterestsKey(clientID)

	raw, err := s.store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("get interests for client %d: %w", clientID, err)
	}
	if raw == nil {
		return []string{}, nil
	}

	var interests []string
	if err := json.Unmarshal(raw, &interests); err != nil {
		return nil, fmt.Errorf("decode interests for client %d: %w", clientID, err)
	}
	if interests == nil {
		interests = []string{}
	}
	return interests, nil
}

// Compute - расчет скоринга без кэша
func Compute(in model.ScoreInput) float64 {
	var score float64
	if in.Phone != "" {
		score += 1.5
	}
	if in.Email != "" {
		score += 1.5
	}
	// пол 0 (не указан) не дает баллов, как и отсутствующий
	if in.Birthday != nil && in.Gender != nil && *in.Gender != 0 {
		score += 1.5
	}
	if in.FirstName != "" && in.LastName != "" {
		score += 0.5
	}
	return score
}

// ScoreKey - ключ кэша: uid:<md5(first+last+phone+YYYYMMDD)>
func ScoreKey(in model.ScoreInput) string {
	var b strings.Builder
	b.WriteString(in.FirstName)
	b.WriteString(in.LastName)
	b.WriteString(in.Phone)
	if in.Birthday != nil {
		b.WriteString(in.Birthday.Format(birthdayKeyLayout))
	}
	sum := md5.Sum([]byte(b.String()))
	return scoreKeyPrefix + hex.EncodeToString(sum[:])
}

// InterestsKey - ключ списка интересов клиента
func InterestsKey(clientID int64) string {
	return interestsKeyPrefix + strconv.FormatInt(clientID, 10)
}
