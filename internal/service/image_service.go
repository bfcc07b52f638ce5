package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/RuiQin/stride_store/internal/config"
)

// categoryPrompts 各分类的图片生成提示词
var categoryPrompts = map[string]string{
	"leggings":    "Professional fitness photography of athletic woman in black high-waisted leggings, modern gym setting, natural lighting, premium activewear brand aesthetic, full body shot",
	"sports-bras": "High-end athletic photography of confident woman wearing supportive sports bra, studio lighting, premium fitness brand style, upper body focus",
	"tops":        "Clean athletic photography of woman wearing breathable tank top during workout, modern gym environment, professional fitness brand photography, active pose",
	"seamless":    "Premium lifestyle photography of woman in seamless activewear set, minimalist studio, soft professional lighting, luxury fitness brand aesthetic, elegant pose",
	"shorts":      "Professional athletic photography of fit man wearing performance shorts in premium gym setting, modern lighting, high-end activewear brand style, action pose",
	"sport":       "High-quality fitness photography of athletic man in complete sportswear outfit, contemporary training environment, professional brand photography aesthetic, dynamic movement",
	"arrivals":    "Fresh athletic photography of man in latest performance apparel, bright modern gym, contemporary activewear brand aesthetic, confident stance",
}

// categoryGradients 网关不可用时各分类的降级渐变
var categoryGradients = map[string]string{
	"leggings":    "linear-gradient(135deg, #667eea 0%, #764ba2 100%)",
	"sports-bras": "linear-gradient(135deg, #f093fb 0%, #f5576c 100%)",
	"tops":        "linear-gradient(135deg, #4facfe 0%, #00f2fe 100%)",
	"seamless":    "linear-gradient(135deg, #43e97b 0%, #38f9d7 100%)",
	"shorts":      "linear-gradient(135deg, #667eea 0%, #764ba2 100%)",
	"sport":       "linear-gradient(135deg, #f093fb 0%, #f5576c 100%)",
	"arrivals":    "linear-gradient(135deg, #4facfe 0%, #00f2fe 100%)",
}

const fallbackCategory = "seamless"

// ImageResult 图片生成结果
type ImageResult struct {
	ImageURL string `json:"image_url"`
	Fallback bool   `json:"fallback"` // true 表示返回的是降级渐变而非生成图
}

// ImageService 定义图片生成服务接口。
// 生成失败不向调用方暴露错误，统一降级为渐变占位，保证页面始终可渲染。
type ImageService interface {
	GenerateForCategory(ctx context.Context, category string) *ImageResult
	Generate(ctx context.Context, prompt, category string) *ImageResult
}

// imageService 是 ImageService 接口的实现
type imageService struct {
	cfg    config.AIConfig
	client *http.Client
	logger *zap.Logger
}

// NewImageService 创建图片生成服务实例
func NewImageService(cfg config.AIConfig, logger *zap.Logger) ImageService {
	return &imageService{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

// GenerateForCategory 为分类生成展示图，未知分类使用兜底提示词
func (s *imageService) GenerateForCategory(ctx context.Context, category string) *ImageResult {
	prompt, ok := categoryPrompts[category]
	if !ok {
		prompt = categoryPrompts[fallbackCategory]
	}
	return s.Generate(ctx, prompt, category)
}

// gatewayRequest AI 网关请求体
type gatewayRequest struct {
	Message       string `json:"message"`
	GenerateImage bool   `json:"generateImage"`
}

// gatewayResponse AI 网关响应体
type gatewayResponse struct {
	ImageURL string `json:"imageUrl"`
	Error    string `json:"error,omitempty"`
}

// Generate 调用 AI 网关生成图片。
// 网关未配置、请求失败、响应异常或无图片URL时一律返回分类渐变。
func (s *imageService) Generate(ctx context.Context, prompt, category string) *ImageResult {
	if s.cfg.GatewayURL == "" {
		return s.gradient(category)
	}

	body, err := json.Marshal(gatewayRequest{Message: prompt, GenerateImage: true})
	if err != nil {
		s.logger.Error("failed to marshal gateway request", zap.Error(err))
		return s.gradient(category)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.GatewayURL, bytes.NewReader(body))
	if err != nil {
		s.logger.Error("failed to build gateway request", zap.Error(err))
		return s.gradient(category)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.cfg.APIKey != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.cfg.APIKey))
	}

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Warn("image gateway call failed", zap.Error(err))
		return s.gradient(category)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.logger.Warn("image gateway returned non-200", zap.Int("status", resp.StatusCode))
		return s.gradient(category)
	}

	var gw gatewayResponse
	if err := json.NewDecoder(resp.Body).Decode(&gw); err != nil {
		s.logger.Warn("failed to decode gateway response", zap.Error(err))
		return s.gradient(category)
	}
	if gw.ImageURL == "" {
		return s.gradient(category)
	}

	return &ImageResult{ImageURL: gw.ImageURL}
}

// gradient 返回分类的降级渐变，未知分类使用兜底渐变
func (s *imageService) gradient(category string) *ImageResult {
	g, ok := categoryGradients[category]
	if !ok {
		g = categoryGradients[fallbackCategory]
	}
	return &ImageResult{ImageURL: g, Fallback: true}
}
