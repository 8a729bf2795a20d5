package utils

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CacheItem 包装实际的数据，增加过期时间
type CacheItem[T any] struct {
	Value     T
	ExpiredAt time.Time
}

// TTLCache 带过期时间的 LRU 缓存
type TTLCache[T any] struct {
	storage *lru.Cache[string, CacheItem[T]]
	ttl     time.Duration
}

// NewTTLCache 初始化，size 是最大缓存条数，ttl 是数据有效期
func NewTTLCache[T any](size int, ttl time.Duration) *TTLCache[T] {
	// lru.New 是线程安全的，size <= 0 时才会返回错误
	if size <= 0 {
		size = 128
	}
	c, _ := lru.New[string, CacheItem[T]](size)
	return &TTLCache[T]{
		storage: c,
		ttl:     ttl,
	}
}

// Set 写入（LRU 中 Add 会自动处理更新）
func (c *TTLCache[T]) Set(key string, value T) {
	c.storage.Add(key, CacheItem[T]{
		Value:     value,
		ExpiredAt: time.Now().Add(c.ttl),
	})
}

// Get 读取（带过期检查）
func (c *TTLCache[T]) Get(key string) (T, bool) {
	var zero T
	item, ok := c.storage.Get(key)
	if !ok {
		return zero, false
	}

	if time.Now().After(item.ExpiredAt) {
		c.storage.Remove(key)
		return zero, false
	}

	return item.Value, true
}
