package middleware

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/RuiQin/stride_store/internal/limiter"
	"github.com/RuiQin/stride_store/internal/resp"
)

// RateLimit 令牌桶限流中间件。
// 限流key优先取认证用户ID，匿名请求退化为会话ID；
// 限流器故障时放行请求，限流属于保护机制而非正确性依赖。
func RateLimit(lim limiter.Limiter, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := RequestIDFromContext(r.Context())

			key := SessionIDFromContext(r.Context())
			if user := UserFromContext(r.Context()); user != nil {
				key = "user:" + strconv.FormatInt(user.ID, 10)
			}
			if key == "" {
				key = r.RemoteAddr
			}

			result, err := lim.Allow(r.Context(), key)
			if err != nil {
				logger.Warn("rate limiter unavailable, allowing request",
					zap.String("request_id", reqID),
					zap.Error(err),
				)
				next.ServeHTTP(w, r)
				return
			}

			if !result.Allowed {
				w.Header().Set("Retry-After", strconv.FormatInt(int64(result.RetryAfter.Seconds()), 10))
				logger.Warn("request rate limited",
					zap.String("request_id", reqID),
					zap.String("key", key),
					zap.Duration("retry_after", result.RetryAfter),
				)
				resp.Error(w, http.StatusTooManyRequests, resp.CodeTooManyRequests, "too many requests", reqID, "")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
