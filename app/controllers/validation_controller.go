package controllers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/aihub/citeguard-go/internal/services"
)

// ValidationController 引用校验控制器
type ValidationController struct {
	BaseController
	validationService *services.ValidationService
}

// NewValidationController 创建引用校验控制器
func NewValidationController(validationService *services.ValidationService) *ValidationController {
	return &ValidationController{
		validationService: validationService,
	}
}

// ValidateRequest 校验请求体
type ValidateRequest struct {
	ResponseText  string `json:"response_text"`
	OriginalQuery string `json:"original_query"`
}

// Validate 校验响应文本中的引用
func (c *ValidationController) Validate() {
	var req ValidateRequest
	if err := json.Unmarshal(c.Ctx.Input.RequestBody, &req); err != nil {
		c.JSONError(http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.ResponseText) == "" {
		c.JSONError(http.StatusBadRequest, "response_text is required")
		return
	}
	if strings.TrimSpace(req.OriginalQuery) == "" {
		c.JSONError(http.StatusBadRequest, "original_query is required")
		return
	}

	result := c.validationService.ValidateCitations(c.Ctx.Request.Context(), req.ResponseText, req.OriginalQuery)
	c.JSONSuccess(result)
}
