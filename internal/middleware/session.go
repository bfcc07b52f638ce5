package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

const (
	HeaderSessionID = "X-Session-ID"

	contextKeySessionID contextKey = "session_id"
)

// Session 确保每个请求都有会话 ID：
// 1) 优先读取请求头 X-Session-ID；
// 2) 若为空则生成 UUID（匿名会话）；
// 3) 将该 ID 写入响应头与请求上下文，客户端应保存并在后续请求中回传。
func Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sid := r.Header.Get(HeaderSessionID)
		if strings.TrimSpace(sid) == "" {
			sid = uuid.New().String()
		}
		w.Header().Set(HeaderSessionID, sid)
		next.ServeHTTP(w, r.WithContext(withSessionID(r.Context(), sid)))
	})
}

// withSessionID 将会话 ID 写入上下文。
func withSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKeySessionID, id)
}

// SessionIDFromContext 从上下文中读取会话 ID（可能为空）。
func SessionIDFromContext(ctx context.Context) string {
	if v := ctx.Value(contextKeySessionID); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
