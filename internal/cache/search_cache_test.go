package cache

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRedisSearchCache_Key(t *testing.T) {
	c := NewRedisSearchCache(nil, "search_cache:", 0)

	key := c.Key("Heat  Pumps", 5)
	assert.True(t, strings.HasPrefix(key, "search_cache:"))
	assert.Len(t, strings.TrimPrefix(key, "search_cache:"), 64)

	assert.Equal(t, key, c.Key("heat pumps", 5))
	assert.NotEqual(t, key, c.Key("heat pumps", 3))
	assert.NotEqual(t, key, c.Key("solar", 5))
}

func TestNewRedisSearchCache_DefaultTTL(t *testing.T) {
	c := NewRedisSearchCache(nil, "p:", 0)
	assert.Equal(t, 30*time.Minute, c.ttl)

	c = NewRedisSearchCache(nil, "p:", time.Minute)
	assert.Equal(t, time.Minute, c.ttl)
}
