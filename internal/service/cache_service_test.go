package service

import (
	"context"
	"encoding/json"
	"errors"
	"path"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/fixlab-academy-api/pkg/errors"
)

type memCache struct {
	mu    sync.Mutex
	items map[string][]byte
	err   error
}

func newMemCache() *memCache {
	return &memCache{items: map[string][]byte{}}
}

func (m *memCache) Get(ctx context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	raw, ok := m.items[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.items[key] = raw
	return nil
}

func (m *memCache) DeleteByPattern(ctx context.Context, pattern string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key := range m.items {
		if ok, _ := path.Match(pattern, key); ok {
			delete(m.items, key)
		}
	}
	return nil
}

func TestCacheServiceRemember(t *testing.T) {
	svc := NewCacheService(newMemCache(), NewMetricsService(), time.Minute, nil, true)
	ctx := context.Background()
	loads := 0
	load := func(dest *[]string) func() error {
		return func() error {
			loads++
			*dest = []string{"a", "b"}
			return nil
		}
	}

	var first []string
	require.NoError(t, svc.Remember(ctx, "k", 0, &first, load(&first)))
	var second []string
	require.NoError(t, svc.Remember(ctx, "k", 0, &second, load(&second)))
	assert.Equal(t, []string{"a", "b"}, second)
	assert.Equal(t, 1, loads)

	require.NoError(t, svc.Invalidate(ctx, "k*"))
	var third []string
	require.NoError(t, svc.Remember(ctx, "k", 0, &third, load(&third)))
	assert.Equal(t, 2, loads)
}

func TestCacheServiceFailuresFallBackToLoad(t *testing.T) {
	repo := newMemCache()
	repo.err = errors.New("redis down")
	svc := NewCacheService(repo, nil, time.Minute, nil, true)

	var out string
	err := svc.Remember(context.Background(), "k", 0, &out, func() error {
		out = "fresh"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "fresh", out)

	loadErr := errors.New("db down")
	err = svc.Remember(context.Background(), "k", 0, &out, func() error { return loadErr })
	assert.ErrorIs(t, err, loadErr)
}

func TestCacheServiceDisabled(t *testing.T) {
	repo := newMemCache()
	svc := NewCacheService(repo, nil, time.Minute, nil, false)
	assert.False(t, svc.Enabled())
	require.NoError(t, svc.Set(context.Background(), "k", "v", 0))
	assert.Empty(t, repo.items)

	var nilSvc *CacheService
	hit, err := nilSvc.Get(context.Background(), "k", new(string))
	require.NoError(t, err)
	assert.False(t, hit)
}
