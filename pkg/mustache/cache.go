package mustache

import (
	"container/list"
	"sync"
	"time"
)

// CacheConfig contains configuration options for the token cache
type CacheConfig struct {
	// MaxSize is the maximum number of token streams to cache. 0 disables caching.
	MaxSize int
	// TTL is the time-to-live for cached token streams. 0 means no expiration.
	TTL time.Duration
}

// TokenCache caches tokenized templates. Tokenization is a pure function
// of the template text and the initial delimiter pair, so entries are
// keyed by all three. Safe for concurrent use.
type TokenCache struct {
	mu     sync.RWMutex
	cache  map[string]*tokenCacheEntry
	lru    *list.List
	config CacheConfig
}

type tokenCacheEntry struct {
	key     string
	tokens  []Token
	expiry  time.Time
	element *list.Element
}

// NewTokenCache creates a new token cache sized from the global configuration
func NewTokenCache() *TokenCache {
	config := GetGlobalConfig()
	return NewTokenCacheWithConfig(CacheConfig{
		MaxSize: config.CacheMaxSize,
		TTL:     config.CacheTTL,
	})
}

// NewTokenCacheWithConfig creates a new token cache with the given configuration
func NewTokenCacheWithConfig(config CacheConfig) *TokenCache {
	return &TokenCache{
		cache:  make(map[string]*tokenCacheEntry),
		lru:    list.New(),
		config: config,
	}
}

// cacheKey builds the composite key. The separator cannot occur in
// delimiters or template text read as UTF-8.
func cacheKey(template, leftDelim, rightDelim string) string {
	return leftDelim + "\x00" + rightDelim + "\x00" + template
}

// Get retrieves a cached token stream
func (tc *TokenCache) Get(template, leftDelim, rightDelim string) ([]Token, bool) {
	if tc == nil || tc.config.MaxSize == 0 {
		return nil, false
	}

	key := cacheKey(template, leftDelim, rightDelim)

	tc.mu.RLock()
	entry, exists := tc.cache[key]
	tc.mu.RUnlock()

	if !exists {
		return nil, false
	}

	// Check expiry
	if tc.config.TTL > 0 && time.Now().After(entry.expiry) {
		tc.remove(key)
		return nil, false
	}

	// Move to front of LRU
	tc.mu.Lock()
	tc.lru.MoveToFront(entry.element)
	tc.mu.Unlock()

	return entry.tokens, true
}

// Put adds a token stream to the cache
func (tc *TokenCache) Put(template, leftDelim, rightDelim string, tokens []Token) {
	if tc == nil || tc.config.MaxSize == 0 {
		return
	}

	key := cacheKey(template, leftDelim, rightDelim)

	tc.mu.Lock()
	defer tc.mu.Unlock()

	if existing, exists := tc.cache[key]; exists {
		existing.tokens = tokens
		if tc.config.TTL > 0 {
			existing.expiry = time.Now().Add(tc.config.TTL)
		}
		tc.lru.MoveToFront(existing.element)
		return
	}

	// Evict least recently used
	if tc.lru.Len() >= tc.config.MaxSize {
		oldest := tc.lru.Back()
		if oldest != nil {
			oldEntry := oldest.Value.(*tokenCacheEntry)
			delete(tc.cache, oldEntry.key)
			tc.lru.Remove(oldest)
		}
	}

	expiry := time.Time{}
	if tc.config.TTL > 0 {
		expiry = time.Now().Add(tc.config.TTL)
	}

	entry := &tokenCacheEntry{
		key:    key,
		tokens: tokens,
		expiry: expiry,
	}
	entry.element = tc.lru.PushFront(entry)
	tc.cache[key] = entry
}

func (tc *TokenCache) remove(key string) {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	entry, exists := tc.cache[key]
	if !exists {
		return
	}

	delete(tc.cache, key)
	tc.lru.Remove(entry.element)
}

// Clear removes all token streams from the cache
func (tc *TokenCache) Clear() {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	tc.cache = make(map[string]*tokenCacheEntry)
	tc.lru = list.New()
}

// Size returns the current number of cached token streams
func (tc *TokenCache) Size() int {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return len(tc.cache)
}

// defaultCache is a global cache instance for convenience
var defaultCache = NewTokenCache()
