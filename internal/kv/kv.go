// Package kv 提供字符串键值的快照存储抽象和Redis实现。
// 购物车与心愿单的状态快照以会话为键写入该存储，写穿策略，尽力而为。
package kv

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"
)

// ErrNotFound 键不存在或已过期
var ErrNotFound = errors.New("kv: key not found")

// Store 定义快照存储接口
type Store interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Del(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error)
	Ping(ctx context.Context) error
	Close() error
}

// MemoryStore 内存实现（用于开发和测试）
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]*memoryItem
}

type memoryItem struct {
	value      []byte
	expiration time.Time // 零值表示永不过期
}

// NewMemoryStore 创建内存存储实例
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]*memoryItem),
	}
}

// Get 读取并反序列化键值
func (m *MemoryStore) Get(ctx context.Context, key string, dest interface{}) error {
	m.mu.RLock()
	item, exists := m.data[key]
	m.mu.RUnlock()

	if !exists {
		return ErrNotFound
	}
	if !item.expiration.IsZero() && time.Now().After(item.expiration) {
		m.mu.Lock()
		delete(m.data, key)
		m.mu.Unlock()
		return ErrNotFound
	}

	return json.Unmarshal(item.value, dest)
}

// Set 序列化并写入键值，expiration 为 0 表示永不过期
func (m *MemoryStore) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	item := &memoryItem{value: data}
	if expiration > 0 {
		item.expiration = time.Now().Add(expiration)
	}

	m.mu.Lock()
	m.data[key] = item
	m.mu.Unlock()
	return nil
}

// Del 删除键
func (m *MemoryStore) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	for _, key := range keys {
		delete(m.data, key)
	}
	m.mu.Unlock()
	return nil
}

// Exists 检查键是否存在
func (m *MemoryStore) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.RLock()
	item, exists := m.data[key]
	m.mu.RUnlock()

	if !exists {
		return false, nil
	}
	if !item.expiration.IsZero() && time.Now().After(item.expiration) {
		m.mu.Lock()
		delete(m.data, key)
		m.mu.Unlock()
		return false, nil
	}
	return true, nil
}

// SetNX 仅当键不存在时写入
func (m *MemoryStore) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error) {
	exists, err := m.Exists(ctx, key)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}
	return true, m.Set(ctx, key, value, expiration)
}

// Ping 检查连接
func (m *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

// Close 关闭存储
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	m.data = make(map[string]*memoryItem)
	m.mu.Unlock()
	return nil
}

// NullStore 空实现（禁用持久化时使用）。
// 写入全部丢弃，读取一律视为无数据，引擎据此退化为纯内存状态。
type NullStore struct{}

// NewNullStore 创建空存储实例
func NewNullStore() *NullStore {
	return &NullStore{}
}

func (n *NullStore) Get(ctx context.Context, key string, dest interface{}) error {
	return ErrNotFound
}

func (n *NullStore) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return nil
}

func (n *NullStore) Del(ctx context.Context, keys ...string) error {
	return nil
}

func (n *NullStore) Exists(ctx context.Context, key string) (bool, error) {
	return false, nil
}

func (n *NullStore) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error) {
	return false, nil
}

func (n *NullStore) Ping(ctx context.Context) error {
	return nil
}

func (n *NullStore) Close() error {
	return nil
}
