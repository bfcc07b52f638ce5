package service

import (
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/RuiQin/stride_store/internal/config"
	"github.com/RuiQin/stride_store/internal/domain"
)

func newTestJWTConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "stride-store-test"},
		JWT: config.JWTConfig{
			Secret:          "test-secret-key",
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: 24 * time.Hour,
		},
	}
}

func testUser() *domain.User {
	return &domain.User{
		ID:       7,
		Username: "runner42",
		Role:     domain.UserRoleUser,
		IsActive: true,
	}
}

func TestJWTService_GenerateAndValidate(t *testing.T) {
	svc := NewJWTService(newTestJWTConfig(), zap.NewNop())

	pair, err := svc.GenerateTokenPair(testUser())
	if err != nil {
		t.Fatalf("GenerateTokenPair() error = %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("GenerateTokenPair() returned empty tokens")
	}

	claims, err := svc.ValidateAccessToken(pair.AccessToken)
	if err != nil {
		t.Fatalf("ValidateAccessToken() error = %v", err)
	}
	if claims.UserID != 7 || claims.Username != "runner42" {
		t.Errorf("claims = %+v, want user 7 runner42", claims)
	}
	if claims.Type != "access" {
		t.Errorf("claims.Type = %q, want access", claims.Type)
	}

	refreshClaims, err := svc.ValidateRefreshToken(pair.RefreshToken)
	if err != nil {
		t.Fatalf("ValidateRefreshToken() error = %v", err)
	}
	if refreshClaims.Type != "refresh" {
		t.Errorf("refresh claims.Type = %q, want refresh", refreshClaims.Type)
	}
}

func TestJWTService_TokenTypeMismatch(t *testing.T) {
	svc := NewJWTService(newTestJWTConfig(), zap.NewNop())

	pair, err := svc.GenerateTokenPair(testUser())
	if err != nil {
		t.Fatalf("GenerateTokenPair() error = %v", err)
	}

	// Access tokens must not pass refresh validation, and vice versa.
	if _, err := svc.ValidateRefreshToken(pair.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("ValidateRefreshToken(access) error = %v, want ErrInvalidToken", err)
	}
	if _, err := svc.ValidateAccessToken(pair.RefreshToken); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("ValidateAccessToken(refresh) error = %v, want ErrInvalidToken", err)
	}
}

func TestJWTService_InvalidToken(t *testing.T) {
	svc := NewJWTService(newTestJWTConfig(), zap.NewNop())

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-token"},
		{name: "empty", token: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.ValidateAccessToken(tt.token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("ValidateAccessToken() error = %v, want ErrInvalidToken", err)
			}
		})
	}
}

func TestJWTService_WrongSecret(t *testing.T) {
	svc := NewJWTService(newTestJWTConfig(), zap.NewNop())
	pair, err := svc.GenerateTokenPair(testUser())
	if err != nil {
		t.Fatalf("GenerateTokenPair() error = %v", err)
	}

	otherCfg := newTestJWTConfig()
	otherCfg.JWT.Secret = "different-secret"
	other := NewJWTService(otherCfg, zap.NewNop())

	if _, err := other.ValidateAccessToken(pair.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("ValidateAccessToken() with wrong secret error = %v, want ErrInvalidToken", err)
	}
}

func TestJWTService_ExpiredToken(t *testing.T) {
	cfg := newTestJWTConfig()
	cfg.JWT.AccessTokenTTL = -time.Minute
	svc := NewJWTService(cfg, zap.NewNop())

	pair, err := svc.GenerateTokenPair(testUser())
	if err != nil {
		t.Fatalf("GenerateTokenPair() error = %v", err)
	}

	if _, err := svc.ValidateAccessToken(pair.AccessToken); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("ValidateAccessToken() error = %v, want ErrTokenExpired", err)
	}
}

func TestJWTService_RefreshTokenPair(t *testing.T) {
	svc := NewJWTService(newTestJWTConfig(), zap.NewNop())

	pair, err := svc.GenerateTokenPair(testUser())
	if err != nil {
		t.Fatalf("GenerateTokenPair() error = %v", err)
	}

	newPair, err := svc.RefreshTokenPair(pair.RefreshToken)
	if err != nil {
		t.Fatalf("RefreshTokenPair() error = %v", err)
	}

	claims, err := svc.ValidateAccessToken(newPair.AccessToken)
	if err != nil {
		t.Fatalf("ValidateAccessToken() on refreshed token error = %v", err)
	}
	if claims.UserID != 7 {
		t.Errorf("refreshed claims.UserID = %d, want 7", claims.UserID)
	}

	// Refreshing with an access token must fail.
	if _, err := svc.RefreshTokenPair(pair.AccessToken); err == nil {
		t.Error("RefreshTokenPair(access token) succeeded, want error")
	}
}
