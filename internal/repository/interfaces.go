package repository

import (
	"context"

	"github.com/aihub/citeguard-go/internal/models"
)

// ChunkEmbedding 带向量的分块记录，用于相关性检索
type ChunkEmbedding struct {
	ChunkID   uint
	FileID    string
	FileTitle string
	FileURL   string
	Content   string
	Embedding []float32
}

// DocumentRepository 文档仓库接口
type DocumentRepository interface {
	// Exists 按主键检查文档是否存在于知识库
	Exists(ctx context.Context, fileID string) (bool, error)
	// FetchContent 按入库顺序拼接文档全部分块内容
	FetchContent(ctx context.Context, fileID string) (string, error)
	// ListDocuments 列出全部文档元数据
	ListDocuments(ctx context.Context) ([]models.DocumentMetadata, error)
	// ChunkCandidates 取出带向量的候选分块
	ChunkCandidates(ctx context.Context, limit int) ([]ChunkEmbedding, error)
}
