package wishlist

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/RuiQin/stride_store/internal/kv"
)

// Manager 按会话管理心愿单引擎实例
type Manager struct {
	mu      sync.Mutex
	engines map[string]*Engine
	store   kv.Store
	ttl     time.Duration
	logger  *zap.Logger
}

// NewManager 创建心愿单引擎管理器
func NewManager(store kv.Store, ttl time.Duration, logger *zap.Logger) *Manager {
	return &Manager{
		engines: make(map[string]*Engine),
		store:   store,
		ttl:     ttl,
		logger:  logger,
	}
}

// Session 返回指定会话的心愿单引擎，不存在时创建
func (m *Manager) Session(sessionID string) *Engine {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.engines[sessionID]; ok {
		return e
	}
	e := NewEngine(m.store, "wishlist:"+sessionID, m.ttl, m.logger)
	m.engines[sessionID] = e
	return e
}
