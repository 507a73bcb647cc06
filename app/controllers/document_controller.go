package controllers

import (
	"net/http"

	"github.com/aihub/citeguard-go/internal/errors"
	"github.com/aihub/citeguard-go/internal/services"
)

// DocumentController 文档查询控制器
type DocumentController struct {
	BaseController
	documentService *services.DocumentService
}

// NewDocumentController 创建文档查询控制器
func NewDocumentController(documentService *services.DocumentService) *DocumentController {
	return &DocumentController{
		documentService: documentService,
	}
}

// List 列出全部文档元数据
func (c *DocumentController) List() {
	docs, err := c.documentService.ListDocuments(c.Ctx.Request.Context())
	if err != nil {
		c.JSONError(http.StatusInternalServerError, "failed to list documents")
		return
	}

	c.JSONSuccess(map[string]interface{}{
		"documents": docs,
		"total":     len(docs),
	})
}

// Content 获取文档完整内容
func (c *DocumentController) Content() {
	fileID := c.Ctx.Input.Param(":id")
	if fileID == "" {
		c.JSONError(http.StatusBadRequest, "document id is required")
		return
	}

	content, err := c.documentService.GetDocumentContent(c.Ctx.Request.Context(), fileID)
	if err != nil {
		if errors.IsNotFound(err) {
			c.JSONError(http.StatusNotFound, "document not found")
			return
		}
		c.JSONError(http.StatusInternalServerError, "failed to fetch document content")
		return
	}

	c.JSONSuccess(map[string]interface{}{
		"file_id": fileID,
		"content": content,
	})
}
