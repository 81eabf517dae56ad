package mustache

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenCache_basic(t *testing.T) {
	t.Parallel()

	tc := NewTokenCacheWithConfig(CacheConfig{MaxSize: 10})

	_, ok := tc.Get("{{a}}", "{{", "}}")
	assert.False(t, ok)

	tokens, err := Tokenize("{{a}}", "{{", "}}")
	require.NoError(t, err)
	tc.Put("{{a}}", "{{", "}}", tokens)

	got, ok := tc.Get("{{a}}", "{{", "}}")
	require.True(t, ok)
	assert.Equal(t, tokens, got)
	assert.Equal(t, 1, tc.Size())
}

func TestTokenCache_keyed_by_delimiters(t *testing.T) {
	t.Parallel()

	tc := NewTokenCacheWithConfig(CacheConfig{MaxSize: 10})

	tokens := []Token{{Type: TokenVariable, Value: "a"}}
	tc.Put("<%a%>", "<%", "%>", tokens)

	// the same text with different delimiters tokenizes differently
	_, ok := tc.Get("<%a%>", "{{", "}}")
	assert.False(t, ok)

	got, ok := tc.Get("<%a%>", "<%", "%>")
	require.True(t, ok)
	assert.Equal(t, tokens, got)
}

func TestTokenCache_lru_eviction(t *testing.T) {
	t.Parallel()

	tc := NewTokenCacheWithConfig(CacheConfig{MaxSize: 2})

	tc.Put("a", "{{", "}}", []Token{{Type: TokenLiteral, Value: "a"}})
	tc.Put("b", "{{", "}}", []Token{{Type: TokenLiteral, Value: "b"}})

	// touch "a" so "b" becomes the eviction candidate
	_, ok := tc.Get("a", "{{", "}}")
	require.True(t, ok)

	tc.Put("c", "{{", "}}", []Token{{Type: TokenLiteral, Value: "c"}})
	assert.Equal(t, 2, tc.Size())

	_, ok = tc.Get("b", "{{", "}}")
	assert.False(t, ok)
	_, ok = tc.Get("a", "{{", "}}")
	assert.True(t, ok)
	_, ok = tc.Get("c", "{{", "}}")
	assert.True(t, ok)
}

func TestTokenCache_disabled(t *testing.T) {
	t.Parallel()

	tc := NewTokenCacheWithConfig(CacheConfig{MaxSize: 0})

	tc.Put("a", "{{", "}}", []Token{{Type: TokenLiteral, Value: "a"}})
	_, ok := tc.Get("a", "{{", "}}")
	assert.False(t, ok)
	assert.Equal(t, 0, tc.Size())
}

func TestTokenCache_ttl_expiry(t *testing.T) {
	t.Parallel()

	tc := NewTokenCacheWithConfig(CacheConfig{MaxSize: 10, TTL: time.Millisecond})

	tc.Put("a", "{{", "}}", []Token{{Type: TokenLiteral, Value: "a"}})
	time.Sleep(5 * time.Millisecond)

	_, ok := tc.Get("a", "{{", "}}")
	assert.False(t, ok)
	assert.Equal(t, 0, tc.Size())
}

func TestTokenCache_clear(t *testing.T) {
	t.Parallel()

	tc := NewTokenCacheWithConfig(CacheConfig{MaxSize: 10})
	for i := 0; i < 5; i++ {
		tc.Put(fmt.Sprintf("t%d", i), "{{", "}}", nil)
	}
	require.Equal(t, 5, tc.Size())

	tc.Clear()
	assert.Equal(t, 0, tc.Size())
}

func TestTokenCache_concurrent_access(t *testing.T) {
	t.Parallel()

	tc := NewTokenCacheWithConfig(CacheConfig{MaxSize: 4})
	done := make(chan struct{})

	for i := 0; i < 4; i++ {
		go func(n int) {
			defer func() { done <- struct{}{} }()
			key := fmt.Sprintf("t%d", n)
			for j := 0; j < 100; j++ {
				tc.Put(key, "{{", "}}", []Token{{Type: TokenLiteral, Value: key}})
				tc.Get(key, "{{", "}}")
			}
		}(i)
	}

	for i := 0; i < 4; i++ {
		<-done
	}
}
