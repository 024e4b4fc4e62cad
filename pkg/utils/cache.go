package utils

import (
	"sync"
	"time"
)

// TTLCache 进程内 TTL 缓存，使用 sync.Map 保证并发安全
type TTLCache[V any] struct {
	items sync.Map
	ttl   time.Duration
	now   func() time.Time
}

// cacheItem 内部结构，包含值和过期时间
type cacheItem[V any] struct {
	value      V
	expiration time.Time
}

// NewTTLCache 创建缓存，ttl <= 0 时写入即过期
func NewTTLCache[V any](ttl time.Duration) *TTLCache[V] {
	return &TTLCache[V]{ttl: ttl, now: time.Now}
}

// Set 设置缓存
func (c *TTLCache[V]) Set(key string, value V) {
	c.items.Store(key, cacheItem[V]{
		value:      value,
		expiration: c.now().Add(c.ttl),
	})
}

// Get 获取缓存并验证是否过期
func (c *TTLCache[V]) Get(key string) (V, bool) {
	var zero V
	val, ok := c.items.Load(key)
	if !ok {
		return zero, false
	}

	item := val.(cacheItem[V])
	if !c.now().Before(item.expiration) {
		c.items.Delete(key) // 懒删除
		return zero, false
	}
	return item.value, true
}

// Delete 删除缓存
func (c *TTLCache[V]) Delete(key string) {
	c.items.Delete(key)
}
