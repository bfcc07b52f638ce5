package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/RuiQin/stride_store/internal/kv"
)

func doIdempotent(t *testing.T, handler http.Handler, method, sessionID, key string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, "/api/v1/cart/items", nil)
	if key != "" {
		req.Header.Set(HeaderIdempotencyKey, key)
	}
	req = req.WithContext(withSessionID(req.Context(), sessionID))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func TestIdempotency_RejectsDuplicateKey(t *testing.T) {
	store := kv.NewMemoryStore()
	calls := 0
	handler := Idempotency(store, time.Hour, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))

	if rr := doIdempotent(t, handler, "POST", "s1", "key-1"); rr.Code != http.StatusOK {
		t.Fatalf("Expected first request to pass, got %d", rr.Code)
	}
	if rr := doIdempotent(t, handler, "POST", "s1", "key-1"); rr.Code != http.StatusConflict {
		t.Fatalf("Expected duplicate to be rejected with 409, got %d", rr.Code)
	}
	if calls != 1 {
		t.Errorf("Expected handler called once, got %d", calls)
	}
}

func TestIdempotency_KeysAreSessionScoped(t *testing.T) {
	store := kv.NewMemoryStore()
	handler := Idempotency(store, time.Hour, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	doIdempotent(t, handler, "POST", "s1", "key-1")
	if rr := doIdempotent(t, handler, "POST", "s2", "key-1"); rr.Code != http.StatusOK {
		t.Errorf("Expected same key in another session to pass, got %d", rr.Code)
	}
}

func TestIdempotency_NoKeyPassesThrough(t *testing.T) {
	store := kv.NewMemoryStore()
	calls := 0
	handler := Idempotency(store, time.Hour, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))

	doIdempotent(t, handler, "POST", "s1", "")
	doIdempotent(t, handler, "POST", "s1", "")
	if calls != 2 {
		t.Errorf("Expected both keyless requests to pass, got %d calls", calls)
	}
}

func TestIdempotency_SkipsReadMethods(t *testing.T) {
	store := kv.NewMemoryStore()
	calls := 0
	handler := Idempotency(store, time.Hour, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))

	doIdempotent(t, handler, "GET", "s1", "key-1")
	doIdempotent(t, handler, "GET", "s1", "key-1")
	if calls != 2 {
		t.Errorf("Expected GET requests to bypass idempotency, got %d calls", calls)
	}
}
