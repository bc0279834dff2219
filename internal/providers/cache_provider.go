package providers

import (
	"github.com/coocood/freecache"
	gocache "github.com/patrickmn/go-cache"
	"time"
	"tourvisto/internal/structures"
	"unsafe"
)

const (
	CacheBackendFreecache = "freecache"
	CacheBackendMemory    = "memory"
)

type CacheProviderInterface interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
	Delete(key string)
}

type CacheProvider struct {
	cache *freecache.Cache
	ttl   int
}

func NewCacheProvider(conf *structures.Config, logger Logger) CacheProviderInterface {
	if !conf.Cache.Enabled {
		logger.Infof(TypeApp, "Cache disabled")
		return &noopCache{}
	}

	ttl := max(conf.Cache.TTL, time.Second)

	if conf.Cache.Backend == CacheBackendMemory {
		logger.Infof(TypeApp, "Cache initialized: memory, TTL=%s", ttl)
		return &MemoryCacheProvider{cache: gocache.New(ttl, 2*ttl)}
	}

	if conf.Cache.Size <= 0 {
		logger.Infof(TypeApp, "Cache disabled")
		return &noopCache{}
	}

	sizeBytes := conf.Cache.Size * 1024 * 1024
	logger.Infof(TypeApp, "Cache initialized: freecache %dMB, TTL=%s", conf.Cache.Size, ttl)

	return &CacheProvider{
		cache: freecache.NewCache(sizeBytes),
		ttl:   int(ttl.Seconds()),
	}
}

// unsafeStringToBytes converts string to []byte without allocation.
// Safe when the result is only read (not modified), which is the case
// for freecache: it copies keys internally.
func unsafeStringToBytes(s string) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice(unsafe.StringData(s), len(s))
}

func (c *CacheProvider) Get(key string) ([]byte, bool) {
	val, err := c.cache.Get(unsafeStringToBytes(key))
	if err != nil {
		return nil, false
	}
	return val, true
}

func (c *CacheProvider) Set(key string, value []byte) {
	_ = c.cache.Set(unsafeStringToBytes(key), value, c.ttl)
}

func (c *CacheProvider) Delete(key string) {
	c.cache.Del(unsafeStringToBytes(key))
}

// MemoryCacheProvider keeps entries on the heap with per-entry expiry and a
// background janitor. Suited to a handful of named dashboard keys.
type MemoryCacheProvider struct {
	cache *gocache.Cache
}

func (c *MemoryCacheProvider) Get(key string) ([]byte, bool) {
	val, ok := c.cache.Get(key)
	if !ok {
		return nil, false
	}
	return val.([]byte), true
}

func (c *MemoryCacheProvider) Set(key string, value []byte) {
	c.cache.SetDefault(key, value)
}

func (c *MemoryCacheProvider) Delete(key string) {
	c.cache.Delete(key)
}

type noopCache struct{}

func (n *noopCache) Get(_ string) ([]byte, bool) { return nil, false }
func (n *noopCache) Set(_ string, _ []byte)      {}
func (n *noopCache) Delete(_ string)             {}
