package providers

import "tourvisto/internal/structures"

// MetricsCacheProvider wraps a CacheProviderInterface and increments
// hit/miss counters on every Get call.
type MetricsCacheProvider struct {
	inner   CacheProviderInterface
	metrics MetricsProviderInterface
}

func (c *MetricsCacheProvider) Get(key string) ([]byte, bool) {
	val, ok := c.inner.Get(key)
	if ok {
		c.metrics.IncCacheHits()
	} else {
		c.metrics.IncCacheMisses()
	}
	return val, ok
}

func (c *MetricsCacheProvider) Set(key string, value []byte) {
	c.inner.Set(key, value)
}

func (c *MetricsCacheProvider) Delete(key string) {
	c.inner.Delete(key)
}

// NewInstrumentedCacheProvider creates a cache provider wrapped with metrics instrumentation,
// and with zstd compression when cache.compress is set.
// When cache is disabled, returns the plain noopCache without metrics wrapping
// to avoid counting phantom cache misses.
func NewInstrumentedCacheProvider(conf *structures.Config, logger Logger, metrics MetricsProviderInterface) (CacheProviderInterface, error) {
	inner := NewCacheProvider(conf, logger)
	if _, ok := inner.(*noopCache); ok {
		return inner, nil
	}
	if conf.Cache.Compress {
		compressor, err := NewZstdCompressor()
		if err != nil {
			return nil, err
		}
		inner = NewCompressedCacheProvider(inner, compressor, logger)
	}
	return &MetricsCacheProvider{
		inner:   inner,
		metrics: metrics,
	}, nil
}
