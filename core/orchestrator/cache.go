package orchestrator

import (
	"sync"
	"time"

	"github.com/dgraph-io/ristretto"
)

const (
	cacheNumCounters = 1e5
	cacheBufferItems = 64
	defaultCacheTTL  = 5 * time.Minute
)

// ResponseCache memoizes final responses for repeated queries. Jokes and
// empty-input replies are never stored; the orchestrator decides that.
type ResponseCache struct {
	cache  *ristretto.Cache
	ttl    time.Duration
	mu     sync.RWMutex
	closed bool
}

func NewResponseCache(maxEntries int64, ttl time.Duration) (*ResponseCache, error) {
	if maxEntries <= 0 {
		maxEntries = 1024
	}
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}

	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: cacheNumCounters,
		MaxCost:     maxEntries,
		BufferItems: cacheBufferItems,
	})
	if err != nil {
		return nil, err
	}

	return &ResponseCache{cache: cache, ttl: ttl}, nil
}

func (rc *ResponseCache) Get(key string) (string, bool) {
	rc.mu.RLock()
	if rc.closed {
		rc.mu.RUnlock()
		return "", false
	}
	rc.mu.RUnlock()

	value, found := rc.cache.Get(key)
	if !found {
		return "", false
	}
	text, ok := value.(string)
	return text, ok
}

func (rc *ResponseCache) Set(key, text string) bool {
	rc.mu.RLock()
	if rc.closed {
		rc.mu.RUnlock()
		return false
	}
	rc.mu.RUnlock()

	return rc.cache.SetWithTTL(key, text, 1, rc.ttl)
}

// Wait blocks until pending writes are visible. Tests need this because
// writes are applied asynchronously.
func (rc *ResponseCache) Wait() {
	rc.cache.Wait()
}

func (rc *ResponseCache) Close() {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	if rc.closed {
		return
	}
	rc.closed = true
	rc.cache.Close()
}
