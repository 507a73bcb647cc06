package services

import (
	"context"

	"github.com/aihub/citeguard-go/internal/models"
	"github.com/aihub/citeguard-go/internal/repository"
)

// DocumentService 文档查询服务
type DocumentService struct {
	repo      repository.DocumentRepository
	charLimit int
}

// NewDocumentService 创建文档查询服务
// charLimit限制单个文档返回的最大字符数，防止超大文档拖垮调用方
func NewDocumentService(repo repository.DocumentRepository, charLimit int) *DocumentService {
	if charLimit <= 0 {
		charLimit = 20000
	}
	return &DocumentService{
		repo:      repo,
		charLimit: charLimit,
	}
}

// ListDocuments 列出全部文档元数据
func (s *DocumentService) ListDocuments(ctx context.Context) ([]models.DocumentMetadata, error) {
	return s.repo.ListDocuments(ctx)
}

// GetDocumentContent 获取文档完整内容（截断到charLimit）
func (s *DocumentService) GetDocumentContent(ctx context.Context, fileID string) (string, error) {
	content, err := s.repo.FetchContent(ctx, fileID)
	if err != nil {
		return "", err
	}

	runes := []rune(content)
	if len(runes) > s.charLimit {
		return string(runes[:s.charLimit]), nil
	}
	return content, nil
}
