package limiter

import (
	"context"
	"math"
	"sync"
	"time"
)

// memoryBucketState 单个key的桶状态
type memoryBucketState struct {
	tokens     float64
	lastRefill time.Time
}

// MemoryTokenBucket 进程内令牌桶限流器。
// 补充逻辑与Redis脚本一致，配额仅对当前进程有效。
type MemoryTokenBucket struct {
	mu      sync.Mutex
	buckets map[string]*memoryBucketState
	config  *Config
	now     func() time.Time
}

// NewMemoryTokenBucket 创建进程内令牌桶限流器
func NewMemoryTokenBucket(config *Config) (*MemoryTokenBucket, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}
	return &MemoryTokenBucket{
		buckets: make(map[string]*memoryBucketState),
		config:  config,
		now:     time.Now,
	}, nil
}

// Allow 检查是否允许一个请求通过
func (tb *MemoryTokenBucket) Allow(ctx context.Context, key string) (*LimitResult, error) {
	return tb.AllowN(ctx, key, 1)
}

// AllowN 检查是否允许N个请求通过
func (tb *MemoryTokenBucket) AllowN(ctx context.Context, key string, n int64) (*LimitResult, error) {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := tb.now()
	state, ok := tb.buckets[key]
	if !ok {
		state = &memoryBucketState{
			tokens:     float64(tb.config.Burst),
			lastRefill: now,
		}
		tb.buckets[key] = state
	}

	elapsed := now.Sub(state.lastRefill)
	if elapsed > 0 {
		refill := elapsed.Seconds() * float64(tb.config.Rate) / tb.config.Window.Seconds()
		state.tokens = math.Min(float64(tb.config.Burst), state.tokens+refill)
		state.lastRefill = now
	}

	requested := float64(n)
	if state.tokens >= requested {
		state.tokens -= requested
		return &LimitResult{
			Allowed:   true,
			Remaining: int64(state.tokens),
		}, nil
	}

	needed := requested - state.tokens
	retryAfter := time.Duration(math.Ceil(needed*tb.config.Window.Seconds()/float64(tb.config.Rate))) * time.Second
	return &LimitResult{
		Allowed:    false,
		Remaining:  int64(state.tokens),
		RetryAfter: retryAfter,
	}, nil
}

// Reset 重置指定key的桶
func (tb *MemoryTokenBucket) Reset(ctx context.Context, key string) error {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	delete(tb.buckets, key)
	return nil
}
