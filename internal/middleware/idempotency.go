package middleware

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/RuiQin/stride_store/internal/kv"
	"github.com/RuiQin/stride_store/internal/resp"
)

// HeaderIdempotencyKey 幂等键请求头
const HeaderIdempotencyKey = "X-Idempotency-Key"

// Idempotency 幂等性中间件。
// 客户端在变更请求上携带 X-Idempotency-Key 时，同一会话内的重复键被拒绝；
// 未携带键的请求直接放行（幂等保护是可选的）。
// 存储故障时放行，幂等是保护措施而非正确性前提。
func Idempotency(store kv.Store, ttl time.Duration, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}

			key := r.Header.Get(HeaderIdempotencyKey)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			reqID := RequestIDFromContext(r.Context())
			storeKey := "idem:" + SessionIDFromContext(r.Context()) + ":" + key

			fresh, err := store.SetNX(r.Context(), storeKey, true, ttl)
			if err != nil {
				logger.Warn("idempotency check failed, allowing request",
					zap.String("request_id", reqID),
					zap.Error(err),
				)
				next.ServeHTTP(w, r)
				return
			}
			if !fresh {
				logger.Info("duplicate request rejected",
					zap.String("request_id", reqID),
					zap.String("idempotency_key", key),
				)
				resp.Error(w, http.StatusConflict, resp.CodeConflict, "duplicate request", reqID, "")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
