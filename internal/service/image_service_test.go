package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/RuiQin/stride_store/internal/config"
)

func TestImageService_GatewaySuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("gateway got method %s, want POST", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q, want Bearer test-key", got)
		}
		var req gatewayRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if !req.GenerateImage {
			t.Error("generateImage flag not set")
		}
		json.NewEncoder(w).Encode(gatewayResponse{ImageURL: "https://cdn.example.com/img.jpg"})
	}))
	defer server.Close()

	svc := NewImageService(config.AIConfig{
		GatewayURL: server.URL,
		APIKey:     "test-key",
		Timeout:    5 * time.Second,
	}, zap.NewNop())

	result := svc.GenerateForCategory(context.Background(), "leggings")
	if result.Fallback {
		t.Error("expected gateway result, got fallback")
	}
	if result.ImageURL != "https://cdn.example.com/img.jpg" {
		t.Errorf("ImageURL = %q", result.ImageURL)
	}
}

func TestImageService_FallsBackToGradient(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "gateway error status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
		},
		{
			name: "gateway returns no image",
			handler: func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(gatewayResponse{})
			},
		},
		{
			name: "gateway returns malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("{not json"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			svc := NewImageService(config.AIConfig{
				GatewayURL: server.URL,
				Timeout:    5 * time.Second,
			}, zap.NewNop())

			result := svc.GenerateForCategory(context.Background(), "leggings")
			if !result.Fallback {
				t.Error("expected fallback result")
			}
			if !strings.HasPrefix(result.ImageURL, "linear-gradient(") {
				t.Errorf("ImageURL = %q, want gradient", result.ImageURL)
			}
		})
	}
}

func TestImageService_NoGatewayConfigured(t *testing.T) {
	svc := NewImageService(config.AIConfig{}, zap.NewNop())

	result := svc.GenerateForCategory(context.Background(), "shorts")
	if !result.Fallback {
		t.Error("expected fallback when gateway is unconfigured")
	}
}

func TestImageService_UnknownCategoryUsesDefault(t *testing.T) {
	svc := NewImageService(config.AIConfig{}, zap.NewNop())

	result := svc.GenerateForCategory(context.Background(), "no-such-category")
	if result.ImageURL != categoryGradients[fallbackCategory] {
		t.Errorf("ImageURL = %q, want default gradient", result.ImageURL)
	}
}
