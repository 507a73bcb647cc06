package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aihub/citeguard-go/internal/errors"
	"github.com/aihub/citeguard-go/internal/models"
	"gorm.io/gorm"
)

// documentRepository 文档仓库实现
type documentRepository struct {
	db *gorm.DB
}

// NewDocumentRepository 创建文档仓库
func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db: db}
}

// Exists 按主键检查文档是否存在
func (r *documentRepository) Exists(ctx context.Context, fileID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.DocumentMetadata{}).
		Where("id = ?", fileID).
		Limit(1).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("existence check failed: %w", err)
	}
	return count > 0, nil
}

// FetchContent 拼接文档全部分块
// 首块标题取" - "前的主标题作为文档标题行
func (r *documentRepository) FetchContent(ctx context.Context, fileID string) (string, error) {
	var chunks []models.DocumentChunk
	err := r.db.WithContext(ctx).
		Where("file_id = ?", fileID).
		Order("id").
		Find(&chunks).Error
	if err != nil {
		return "", fmt.Errorf("content fetch failed: %w", err)
	}
	if len(chunks) == 0 {
		return "", errors.NewNotFoundError("document content")
	}

	title := chunks[0].FileTitle
	if idx := strings.Index(title, " - "); idx >= 0 {
		title = title[:idx]
	}

	parts := make([]string, 0, len(chunks)+1)
	parts = append(parts, fmt.Sprintf("# %s\n", title))
	for _, chunk := range chunks {
		parts = append(parts, chunk.Content)
	}

	return strings.Join(parts, "\n\n"), nil
}

// ListDocuments 列出全部文档元数据
func (r *documentRepository) ListDocuments(ctx context.Context) ([]models.DocumentMetadata, error) {
	var docs []models.DocumentMetadata
	err := r.db.WithContext(ctx).
		Select("id", "title", "schema", "url", "created_at").
		Order("created_at DESC").
		Find(&docs).Error
	if err != nil {
		return nil, fmt.Errorf("list documents failed: %w", err)
	}
	return docs, nil
}

// ChunkCandidates 取出带向量的候选分块
func (r *documentRepository) ChunkCandidates(ctx context.Context, limit int) ([]ChunkEmbedding, error) {
	if limit <= 0 {
		limit = 200
	}

	var rows []models.DocumentChunk
	err := r.db.WithContext(ctx).
		Where("embedding IS NOT NULL AND embedding::text <> ''").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("chunk candidates query failed: %w", err)
	}

	candidates := make([]ChunkEmbedding, 0, len(rows))
	for _, row := range rows {
		var embedding []float32
		if err := json.Unmarshal([]byte(row.Embedding), &embedding); err != nil {
			// 跳过损坏的向量记录
			continue
		}
		candidates = append(candidates, ChunkEmbedding{
			ChunkID:   row.ID,
			FileID:    row.FileID,
			FileTitle: row.FileTitle,
			FileURL:   row.FileURL,
			Content:   row.Content,
			Embedding: embedding,
		})
	}

	return candidates, nil
}
