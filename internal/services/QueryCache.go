package services

import (
	"context"
	json "github.com/goccy/go-json"
	"golang.org/x/sync/singleflight"
	"sync"
	"tourvisto/internal/providers"
)

// QueryCache memoizes the results of expensive zero-argument queries by key.
// Entries expire after the cache provider's TTL.
type QueryCache struct {
	cache  providers.CacheProviderInterface
	logger providers.Logger
	group  singleflight.Group

	genMu       sync.Mutex
	generations map[string]uint64
}

func NewQueryCache(cache providers.CacheProviderInterface, logger providers.Logger) *QueryCache {
	return &QueryCache{
		cache:       cache,
		logger:      logger,
		generations: make(map[string]uint64),
	}
}

// Invalidate drops the entry for key. A producer already running for key
// keeps its result to its own callers and does not store it.
func (qc *QueryCache) Invalidate(key string) {
	qc.genMu.Lock()
	qc.generations[key]++
	qc.genMu.Unlock()

	qc.group.Forget(key)
	qc.cache.Delete(key)
}

func (qc *QueryCache) generation(key string) uint64 {
	qc.genMu.Lock()
	defer qc.genMu.Unlock()
	return qc.generations[key]
}

// storeIfCurrent stores data unless key was invalidated since gen was read.
func (qc *QueryCache) storeIfCurrent(key string, gen uint64, data []byte) {
	qc.genMu.Lock()
	defer qc.genMu.Unlock()
	if qc.generations[key] != gen {
		qc.logger.Debugf(providers.TypeApp, "Discarding stale result for %s", key)
		return
	}
	qc.cache.Set(key, data)
}

// CachedQuery returns the cached value for key, or runs producer once, caches
// its encoded result and returns it. Concurrent misses on the same key share
// one producer call. Producer errors are returned and never cached.
//
// Each caller receives its own decoded copy.
func CachedQuery[T any](ctx context.Context, qc *QueryCache, key string, producer func(ctx context.Context) (T, error)) (T, error) {
	var out T

	if data, ok := qc.cache.Get(key); ok {
		if err := json.Unmarshal(data, &out); err == nil {
			return out, nil
		}
		qc.logger.Warnf(providers.TypeApp, "Dropping undecodable cache entry %s", key)
		qc.cache.Delete(key)
	}

	res, err, _ := qc.group.Do(key, func() (interface{}, error) {
		gen := qc.generation(key)
		// The shared call must not be cut short by whichever caller started it.
		v, err := producer(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		data, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		qc.storeIfCurrent(key, gen, data)
		return data, nil
	})
	if err != nil {
		return out, err
	}

	if err = json.Unmarshal(res.([]byte), &out); err != nil {
		return out, err
	}
	return out, nil
}
