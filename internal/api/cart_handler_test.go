package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/RuiQin/stride_store/internal/cart"
	"github.com/RuiQin/stride_store/internal/catalog"
	"github.com/RuiQin/stride_store/internal/domain"
	"github.com/RuiQin/stride_store/internal/kv"
	"github.com/RuiQin/stride_store/internal/middleware"
	"github.com/RuiQin/stride_store/internal/resp"
)

// envelope 测试用的响应封装解码结构
type envelope struct {
	Code    resp.Code       `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// newTestCatalog 在临时目录写入目录数据并加载Store
func newTestCatalog(t *testing.T) *catalog.Store {
	t.Helper()

	products := []domain.Product{
		{
			ID:         "prod-1",
			Title:      "Essential Training Tee",
			Slug:       "essential-training-tee",
			PriceCents: 3200,
			Currency:   "USD",
			Categories: []string{"tops"},
			Variants: []domain.ProductVariant{
				{ID: "prod-1-black", SKU: "ETT-BLK", ColorName: "Black", PriceCents: 3200},
			},
		},
		{
			ID:             "prod-2",
			Title:          "Seamless High-Rise Leggings",
			Slug:           "seamless-high-rise-leggings",
			PriceCents:     6800,
			CompareAtCents: 8800,
			Currency:       "USD",
			Gender:         "female",
			Categories:     []string{"leggings"},
			Variants: []domain.ProductVariant{
				{ID: "prod-2-sage", SKU: "SHL-SGE", ColorName: "Sage", PriceCents: 6800},
			},
		},
	}

	dir := t.TempDir()
	files := map[string]interface{}{
		"products.json":       products,
		"categories.json":     []domain.Category{},
		"collections.json":    []domain.Collection{},
		"content-blocks.json": []domain.ContentBlock{},
	}
	for name, v := range files {
		data, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("marshal %s: %v", name, err)
		}
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	store, err := catalog.Load(dir, zap.NewNop())
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	return store
}

func newTestCartHandler(t *testing.T) *CartHandler {
	t.Helper()
	store := newTestCatalog(t)
	carts := cart.NewManager(kv.NewMemoryStore(), 0, zap.NewNop())
	return NewCartHandler(carts, store, zap.NewNop())
}

// doCart 通过会话中间件发起请求，返回响应记录器
func doCart(h http.HandlerFunc, method, path, sessionID string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if sessionID != "" {
		req.Header.Set(middleware.HeaderSessionID, sessionID)
	}

	rr := httptest.NewRecorder()
	middleware.Session(h).ServeHTTP(rr, req)
	return rr
}

func decodeCartState(t *testing.T, rr *httptest.ResponseRecorder) domain.CartState {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	var state domain.CartState
	if err := json.Unmarshal(env.Data, &state); err != nil {
		t.Fatalf("decode cart state: %v", err)
	}
	return state
}

func TestCartHandler_AddAndGet(t *testing.T) {
	h := newTestCartHandler(t)

	rr := doCart(h.AddItem, "POST", "/api/v1/cart/items", "s1", domain.AddCartItemRequest{
		ProductID: "prod-1",
		Quantity:  2,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}

	state := decodeCartState(t, rr)
	if len(state.Items) != 1 {
		t.Fatalf("Expected 1 item, got %d", len(state.Items))
	}
	if state.TotalItems != 2 {
		t.Errorf("Expected 2 total items, got %d", state.TotalItems)
	}
	if state.SubtotalCents != 6400 {
		t.Errorf("Expected subtotal 6400, got %d", state.SubtotalCents)
	}

	// 同一会话读取到相同状态
	rr = doCart(h.GetCart, "GET", "/api/v1/cart", "s1", nil)
	state = decodeCartState(t, rr)
	if len(state.Items) != 1 || state.TotalItems != 2 {
		t.Errorf("Expected persisted cart for session s1, got %+v", state)
	}

	// 不同会话互相隔离
	rr = doCart(h.GetCart, "GET", "/api/v1/cart", "s2", nil)
	state = decodeCartState(t, rr)
	if len(state.Items) != 0 {
		t.Errorf("Expected empty cart for session s2, got %d items", len(state.Items))
	}
}

func TestCartHandler_AddUnknownProduct(t *testing.T) {
	h := newTestCartHandler(t)

	rr := doCart(h.AddItem, "POST", "/api/v1/cart/items", "s1", domain.AddCartItemRequest{
		ProductID: "prod-missing",
	})
	if rr.Code != http.StatusNotFound {
		t.Fatalf("Expected status 404, got %d", rr.Code)
	}

	var env envelope
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if env.Code != resp.CodeNotFound {
		t.Errorf("Expected code %d, got %d", resp.CodeNotFound, env.Code)
	}
}

func TestCartHandler_AddMissingProductID(t *testing.T) {
	h := newTestCartHandler(t)

	rr := doCart(h.AddItem, "POST", "/api/v1/cart/items", "s1", domain.AddCartItemRequest{})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", rr.Code)
	}
}

func TestCartHandler_UpdateAndRemove(t *testing.T) {
	h := newTestCartHandler(t)

	rr := doCart(h.AddItem, "POST", "/api/v1/cart/items", "s1", domain.AddCartItemRequest{
		ProductID: "prod-1",
		Quantity:  1,
	})
	state := decodeCartState(t, rr)
	itemID := state.Items[0].ID

	// 设置语义：数量改为3
	rr = doCart(h.UpdateItem, "PUT", "/api/v1/cart/items/"+itemID, "s1", domain.UpdateCartItemRequest{Quantity: 3})
	state = decodeCartState(t, rr)
	if state.TotalItems != 3 {
		t.Errorf("Expected 3 total items after update, got %d", state.TotalItems)
	}

	// 数量0等价于删除
	rr = doCart(h.UpdateItem, "PUT", "/api/v1/cart/items/"+itemID, "s1", domain.UpdateCartItemRequest{Quantity: 0})
	state = decodeCartState(t, rr)
	if len(state.Items) != 0 {
		t.Errorf("Expected empty cart after zero-quantity update, got %d items", len(state.Items))
	}
}

func TestCartHandler_RemoveItem(t *testing.T) {
	h := newTestCartHandler(t)

	rr := doCart(h.AddItem, "POST", "/api/v1/cart/items", "s1", domain.AddCartItemRequest{
		ProductID: "prod-2",
		Quantity:  1,
	})
	state := decodeCartState(t, rr)
	itemID := state.Items[0].ID

	rr = doCart(h.RemoveItem, "DELETE", "/api/v1/cart/items/"+itemID, "s1", nil)
	state = decodeCartState(t, rr)
	if len(state.Items) != 0 {
		t.Errorf("Expected empty cart after remove, got %d items", len(state.Items))
	}
}

func TestCartHandler_Clear(t *testing.T) {
	h := newTestCartHandler(t)

	doCart(h.AddItem, "POST", "/api/v1/cart/items", "s1", domain.AddCartItemRequest{ProductID: "prod-1", Quantity: 1})
	doCart(h.AddItem, "POST", "/api/v1/cart/items", "s1", domain.AddCartItemRequest{ProductID: "prod-2", Quantity: 1})

	rr := doCart(h.ClearCart, "DELETE", "/api/v1/cart", "s1", nil)
	state := decodeCartState(t, rr)
	if len(state.Items) != 0 || state.TotalCents != 0 {
		t.Errorf("Expected cleared cart, got %+v", state)
	}
}

func TestCartHandler_Quote(t *testing.T) {
	h := newTestCartHandler(t)

	// 两件商品触发捆绑折扣：小计 3200+6800=10000，折扣 1500
	doCart(h.AddItem, "POST", "/api/v1/cart/items", "s1", domain.AddCartItemRequest{ProductID: "prod-1", Quantity: 1})
	doCart(h.AddItem, "POST", "/api/v1/cart/items", "s1", domain.AddCartItemRequest{ProductID: "prod-2", Quantity: 1})

	rr := doCart(h.Quote, "GET", "/api/v1/cart/quote", "s1", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}

	var env envelope
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	var quote domain.OrderQuote
	if err := json.Unmarshal(env.Data, &quote); err != nil {
		t.Fatalf("decode quote: %v", err)
	}

	if quote.SubtotalCents != 10000 {
		t.Errorf("Expected subtotal 10000, got %d", quote.SubtotalCents)
	}
	if quote.BundleDiscountCents != 1500 {
		t.Errorf("Expected discount 1500, got %d", quote.BundleDiscountCents)
	}
	if !quote.FreeShipping || quote.ShippingCents != 0 {
		t.Errorf("Expected free shipping above threshold, got %+v", quote)
	}
	// 税基为折后小计8500，8%为680
	if quote.TaxCents != 680 {
		t.Errorf("Expected tax 680, got %d", quote.TaxCents)
	}
	if quote.TotalCents != 9180 {
		t.Errorf("Expected total 9180, got %d", quote.TotalCents)
	}
}
