// Package limiter 提供令牌桶限流实现。
// 多实例部署时使用Redis后端共享配额，单实例或降级时使用进程内后端。
package limiter

import (
	"context"
	"errors"
	"time"
)

// LimitResult 限流结果
type LimitResult struct {
	Allowed    bool          `json:"allowed"`     // 是否允许通过
	Remaining  int64         `json:"remaining"`   // 剩余配额
	RetryAfter time.Duration `json:"retry_after"` // 建议重试时间
}

// Limiter 限流器接口
type Limiter interface {
	// Allow 检查是否允许一个请求通过
	Allow(ctx context.Context, key string) (*LimitResult, error)

	// AllowN 检查是否允许N个请求通过
	AllowN(ctx context.Context, key string, n int64) (*LimitResult, error)

	// Reset 重置指定key的限流状态
	Reset(ctx context.Context, key string) error
}

// Config 令牌桶配置
type Config struct {
	Rate      int64         `json:"rate"`       // 补充速率（令牌数/时间窗口）
	Window    time.Duration `json:"window"`     // 时间窗口
	Burst     int64         `json:"burst"`      // 桶容量（突发上限）
	KeyPrefix string        `json:"key_prefix"` // Redis key前缀
}

// validate 校验配置并补全默认值
func (c *Config) validate() error {
	if c == nil {
		return errors.New("limiter config is nil")
	}
	if c.Rate <= 0 {
		return errors.New("limiter rate must be positive")
	}
	if c.Window <= 0 {
		return errors.New("limiter window must be positive")
	}
	if c.Burst <= 0 {
		c.Burst = c.Rate
	}
	if c.KeyPrefix == "" {
		c.KeyPrefix = "limiter:tb"
	}
	return nil
}
