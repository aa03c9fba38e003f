package cache

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"xsmb-bot/internal/logger"
)

// entry 缓存项
type entry struct {
	value     interface{}
	expiresAt time.Time
	createdAt time.Time
}

func (e *entry) expired() bool {
	return time.Now().After(e.expiresAt)
}

// MemoryCache 内存缓存实现
type MemoryCache struct {
	mu      sync.RWMutex
	items   map[string]*entry
	maxSize int
}

// NewMemoryCache 创建新的内存缓存
func NewMemoryCache(maxSize int) *MemoryCache {
	cache := &MemoryCache{
		items:   make(map[string]*entry),
		maxSize: maxSize,
	}

	// 启动清理协程
	go cache.startCleanup()

	return cache
}

// Set 设置缓存值
func (m *MemoryCache) Set(key string, value interface{}, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.items) >= m.maxSize {
		m.evictOldestLocked()
	}

	m.items[key] = &entry{
		value:     value,
		expiresAt: time.Now().Add(ttl),
		createdAt: time.Now(),
	}
}

// Get 获取缓存值，通过JSON序列化复制数据避免引用问题
func (m *MemoryCache) Get(key string, dest interface{}) error {
	m.mu.RLock()
	item, exists := m.items[key]
	m.mu.RUnlock()

	if !exists {
		return fmt.Errorf("cache miss: %s", key)
	}
	if item.expired() {
		m.Delete(key)
		return fmt.Errorf("cache expired: %s", key)
	}

	data, err := json.Marshal(item.value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %v", err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to unmarshal cache value: %v", err)
	}

	return nil
}

// Delete 删除缓存
func (m *MemoryCache) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
}

// DeletePrefix 删除指定前缀的所有缓存项
func (m *MemoryCache) DeletePrefix(prefix string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	count := 0
	for key := range m.items {
		if strings.HasPrefix(key, prefix) {
			delete(m.items, key)
			count++
		}
	}

	if count > 0 {
		logger.Debugf("Cache invalidated by prefix %s: %d items", prefix, count)
	}
}

// Clear 清空所有缓存
func (m *MemoryCache) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = make(map[string]*entry)
}

// Size 获取缓存大小
func (m *MemoryCache) Size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// Stats 获取缓存统计信息
func (m *MemoryCache) Stats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var valid, expired int
	for _, item := range m.items {
		if item.expired() {
			expired++
		} else {
			valid++
		}
	}

	return map[string]interface{}{
		"total_size":    len(m.items),
		"valid_items":   valid,
		"expired_items": expired,
		"max_size":      m.maxSize,
	}
}

// startCleanup 定期清理过期缓存
func (m *MemoryCache) startCleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		m.mu.Lock()
		count := 0
		for key, item := range m.items {
			if item.expired() {
				delete(m.items, key)
				count++
			}
		}
		m.mu.Unlock()

		if count > 0 {
			logger.Debugf("Memory cache cleanup: removed %d expired items", count)
		}
	}
}

// evictOldestLocked 淘汰最旧的缓存项，调用方必须持有写锁
func (m *MemoryCache) evictOldestLocked() {
	var oldestKey string
	var oldestTime time.Time

	for key, item := range m.items {
		if oldestKey == "" || item.createdAt.Before(oldestTime) {
			oldestKey = key
			oldestTime = item.createdAt
		}
	}

	if oldestKey != "" {
		delete(m.items, oldestKey)
	}
}
