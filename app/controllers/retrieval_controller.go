package controllers

import (
	"net/http"
	"strconv"

	"github.com/aihub/citeguard-go/internal/errors"
	"github.com/aihub/citeguard-go/internal/services"
)

// RetrievalController 相关文档检索控制器
type RetrievalController struct {
	BaseController
	retrievalService *services.RetrievalService
}

// NewRetrievalController 创建检索控制器
func NewRetrievalController(retrievalService *services.RetrievalService) *RetrievalController {
	return &RetrievalController{
		retrievalService: retrievalService,
	}
}

// Retrieve 检索与query最相关的分块
func (c *RetrievalController) Retrieve() {
	query := c.GetString("query")
	if query == "" {
		c.JSONError(http.StatusBadRequest, "query parameter is required")
		return
	}

	k, _ := strconv.Atoi(c.GetString("k", "0"))

	chunks, err := c.retrievalService.RetrieveRelevant(c.Ctx.Request.Context(), query, k)
	if err != nil {
		appErr := errors.GetAppError(err)
		c.JSONError(appErr.HTTPCode, appErr.Message)
		return
	}

	c.JSONSuccess(map[string]interface{}{
		"query":     query,
		"chunks":    chunks,
		"formatted": services.FormatChunks(chunks),
	})
}
