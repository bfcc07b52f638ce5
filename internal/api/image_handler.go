package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/RuiQin/stride_store/internal/middleware"
	"github.com/RuiQin/stride_store/internal/resp"
	"github.com/RuiQin/stride_store/internal/service"
)

// ImageHandler 图片生成相关的HTTP处理器
type ImageHandler struct {
	imageService service.ImageService
	logger       *zap.Logger
}

// NewImageHandler 创建图片生成处理器实例
func NewImageHandler(imageService service.ImageService, logger *zap.Logger) *ImageHandler {
	return &ImageHandler{
		imageService: imageService,
		logger:       logger,
	}
}

// generateImageRequest 图片生成请求，prompt 为空时按分类取内置提示词
type generateImageRequest struct {
	Prompt   string `json:"prompt"`
	Category string `json:"category"`
}

// Generate 生成分类展示图
// POST /api/v1/images/generate
func (h *ImageHandler) Generate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())

	var req generateImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "invalid request body", reqID, "")
		return
	}

	req.Prompt = strings.TrimSpace(req.Prompt)
	if req.Prompt == "" && req.Category == "" {
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "prompt or category is required", reqID, "")
		return
	}

	var result *service.ImageResult
	if req.Prompt == "" {
		result = h.imageService.GenerateForCategory(r.Context(), req.Category)
	} else {
		result = h.imageService.Generate(r.Context(), req.Prompt, req.Category)
	}
	resp.OK(w, result, reqID, "")
}
