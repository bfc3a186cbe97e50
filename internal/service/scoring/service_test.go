package scoring

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scoring-api/internal/metrics"
	"scoring-api/internal/model"
	"scoring-api/internal/repository"
	"scoring-api/internal/repository/memory"
)

// mockStore - mock хранилища; незаданные функции ведут себя как пустое хранилище
type mockStore struct {
	getFunc      func(ctx context.Context, key string) ([]byte, error)
	cacheGetFunc func(ctx context.Context, key string) []byte

	cacheSets map[string][]byte
}

var _ repository.Store = (*mockStore)(nil)

func (m *mockStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, key)
	}
	return nil, nil
}

func (m *mockStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return nil
}

func (m *mockStore) CacheGet(ctx context.Context, key string) []byte {
	if m.cacheGetFunc != nil {
		return m.cacheGetFunc(ctx, key)
	}
	return nil
}

func (m *mockStore) CacheSet(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if m.cacheSets == nil {
		m.cacheSets = make(map[string][]byte)
	}
	m.cacheSets[key] = value
}

func (m *mockStore) Ping(ctx context.Context) error { return nil }
func (m *mockStore) Close() error                   { return nil }

func ptrTime(t time.Time) *time.Time { return &t }
func ptrInt(v int64) *int64          { return &v }

func TestCompute(t *testing.T) {
	birthday := ptrTime(time.Date(1990, 1, 15, 0, 0, 0, 0, time.UTC))

	tests := []struct {
		name string
		in   model.ScoreInput
		want float64
	}{
		{name: "empty", in: model.ScoreInput{}, want: 0},
		{name: "phone and email", in: model.ScoreInput{Phone: "79175002040", Email: "a@b.com"}, want: 3},
		{name: "only phone", in: model.ScoreInput{Phone: "79175002040"}, want: 1.5},
		{name: "birthday and gender", in: model.ScoreInput{Birthday: birthday, Gender: ptrInt(1)}, want: 1.5},
		{name: "birthday and unknown gender", in: model.ScoreInput{Birthday: birthday, Gender: ptrInt(0)}, want: 0},
		{name: "gender without birthday", in: model.ScoreInput{Gender: ptrInt(2)}, want: 0},
		{name: "names", in: model.ScoreInput{FirstName: "Ivan", LastName: "Petrov"}, want: 0.5},
		{name: "only first name", in: model.ScoreInput{FirstName: "Ivan"}, want: 0},
		{
			name: "everything",
			in: model.ScoreInput{
				Phone: "79175002040", Email: "a@b.com",
				Birthday: birthday, Gender: ptrInt(2),
				FirstName: "Ivan", LastName: "Petrov",
			},
			want: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Compute(tt.in))
		})
	}
}

func TestScoreKey(t *testing.T) {
	in := model.ScoreInput{
		FirstName: "Ivan",
		LastName:  "Petrov",
		Phone:     "79175002040",
		Birthday:  ptrTime(time.Date(1990, 1, 15, 0, 0, 0, 0, time.UTC)),
	}
	assert.Equal(t, "uid:9c51d787c645386733d7ca560193b68d", ScoreKey(in))

	// email и пол в ключ не входят
	in.Email = "a@b.com"
	in.Gender = ptrInt(1)
	assert.Equal(t, "uid:9c51d787c645386733d7ca560193b68d", ScoreKey(in))

	assert.Equal(t, "uid:d41d8cd98f00b204e9800998ecf8427e", ScoreKey(model.ScoreInput{}))
}

func TestGetScore_CachesResult(t *testing.T) {
	ctx := context.Background()
	store := memory.NewRepository()
	m := metrics.New()
	s := NewScoringService(store, m, nil)

	in := model.ScoreInput{Phone: "79175002040", Email: "a@b.com"}

	assert.Equal(t, 3.0, s.GetScore(ctx, in))
	assert.Equal(t, []byte("3"), store.CacheGet(ctx, ScoreKey(in)))

	assert.Equal(t, 3.0, s.GetScore(ctx, in), "repeated call returns the same score")

	expected := `
# HELP scoring_api_score_cache_lookups_total Score cache lookups by result.
# TYPE scoring_api_score_cache_lookups_total counter
scoring_api_score_cache_lookups_total{result="hit"} 1
scoring_api_score_cache_lookups_total{result="miss"} 1
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected),
		"scoring_api_score_cache_lookups_total"))
}

func TestGetScore_UsesCachedValue(t *testing.T) {
	store := &mockStore{
		cacheGetFunc: func(ctx context.Context, key string) []byte { return []byte("4.5") },
	}
	s := NewScoringService(store, nil, nil)

	got := s.GetScore(context.Background(), model.ScoreInput{Phone: "79175002040"})
	assert.Equal(t, 4.5, got)
	assert.Empty(t, store.cacheSets, "cache hit must not rewrite the value")
}

func TestGetScore_ZeroOrBrokenCacheIsRecomputed(t *testing.T) {
	for _, cached := range []string{"0", "0.0", "not-a-number"} {
		t.Run(cached, func(t *testing.T) {
			store := &mockStore{
				cacheGetFunc: func(ctx context.Context, key string) []byte { return []byte(cached) },
			}
			s := NewScoringService(store, nil, nil)

			in := model.ScoreInput{Phone: "79175002040"}
			assert.Equal(t, 1.5, s.GetScore(context.Background(), in))
			assert.Equal(t, []byte("1.5"), store.cacheSets[ScoreKey(in)])
		})
	}
}

func TestGetScore_StoreUnavailable(t *testing.T) {
	store := memory.NewRepository()
	require.NoError(t, store.Close())

	s := NewScoringService(store, nil, nil)
	got := s.GetScore(context.Background(), model.ScoreInput{FirstName: "Ivan", LastName: "Petrov"})
	assert.Equal(t, 0.5, got, "score is computed even when the store is down")
}

func TestGetInterests(t *testing.T) {
	ctx := context.Background()
	store := memory.NewRepository()
	require.NoError(t, store.Set(ctx, "i:1", []byte(`["cars","pets"]`), 0))
	require.NoError(t, store.Set(ctx, "i:2", []byte(`[]`), 0))
	require.NoError(t, store.Set(ctx, "i:3", []byte(`null`), 0))
	require.NoError(t, store.Set(ctx, "i:4", []byte(`{"broken"`), 0))

	s := NewScoringService(store, nil, nil)

	got, err := s.GetInterests(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"cars", "pets"}, got)

	got, err = s.GetInterests(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{}, got)

	got, err = s.GetInterests(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{}, got)

	got, err = s.GetInterests(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, []string{}, got, "missing key yields an empty list")

	_, err = s.GetInterests(ctx, 4)
	require.Error(t, err)
}

func TestGetInterests_StoreErrorPropagates(t *testing.T) {
	storeErr := errors.New("connection refused")
	var requested string
	store := &mockStore{
		getFunc: func(ctx context.Context, key string) ([]byte, error) {
			requested = key
			return nil, storeErr
		},
	}
	s := NewScoringService(store, nil, nil)

	_, err := s.GetInterests(context.Background(), 42)
	require.ErrorIs(t, err, storeErr)
	assert.Equal(t, "i:42", requested)
}
