package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/aihub/citeguard-go/internal/config"
	"github.com/aihub/citeguard-go/internal/errors"
	"github.com/aihub/citeguard-go/internal/knowledge"
	"github.com/aihub/citeguard-go/internal/logger"
	"github.com/aihub/citeguard-go/internal/repository"
	"go.uber.org/zap"
)

// RetrievalService 相关文档检索服务
// 对候选分块做余弦相似度排序，返回带引用元数据的格式化文本
type RetrievalService struct {
	repo     repository.DocumentRepository
	embedder knowledge.Embedder
	cfg      config.RetrievalConfig
}

// RetrievedChunk 检索命中的分块
type RetrievedChunk struct {
	FileID    string  `json:"file_id"`
	FileTitle string  `json:"file_title"`
	FileURL   string  `json:"file_url"`
	Content   string  `json:"content"`
	Score     float64 `json:"score"`
}

// NewRetrievalService 创建检索服务
func NewRetrievalService(repo repository.DocumentRepository, embedder knowledge.Embedder, cfg config.RetrievalConfig) *RetrievalService {
	if cfg.MatchCount <= 0 {
		cfg.MatchCount = 4
	}
	if cfg.CandidateLimit <= 0 {
		cfg.CandidateLimit = 200
	}
	return &RetrievalService{
		repo:     repo,
		embedder: embedder,
		cfg:      cfg,
	}
}

// RetrieveRelevant 检索与query最相关的k个分块
func (s *RetrievalService) RetrieveRelevant(ctx context.Context, query string, k int) ([]RetrievedChunk, error) {
	if strings.TrimSpace(query) == "" {
		return nil, errors.NewValidationError("query cannot be empty")
	}
	if k <= 0 {
		k = s.cfg.MatchCount
	}

	queryVec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, errors.NewExternalError(errors.ErrCodeExternalService, "query embedding failed").WithCause(err)
	}

	candidates, err := s.repo.ChunkCandidates(ctx, s.cfg.CandidateLimit)
	if err != nil {
		return nil, errors.NewSystemError(errors.ErrCodeDatabaseError, "chunk candidates unavailable").WithCause(err)
	}

	scored := make([]RetrievedChunk, 0, len(candidates))
	for _, candidate := range candidates {
		score := knowledge.CosineSimilarity(queryVec, candidate.Embedding)
		scored = append(scored, RetrievedChunk{
			FileID:    candidate.FileID,
			FileTitle: candidate.FileTitle,
			FileURL:   candidate.FileURL,
			Content:   candidate.Content,
			Score:     score,
		})
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score == scored[j].Score {
			return scored[i].FileID < scored[j].FileID
		}
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > k {
		scored = scored[:k]
	}

	logger.Debug("Retrieval completed",
		zap.Int("candidates", len(candidates)),
		zap.Int("returned", len(scored)))

	return scored, nil
}

// FormatChunks 将检索结果格式化为带引用头的文本块
// 每块携带Document ID/Title/URL，供下游生成引用链接
func FormatChunks(chunks []RetrievedChunk) string {
	if len(chunks) == 0 {
		return "No relevant documents found."
	}

	parts := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		parts = append(parts, fmt.Sprintf(
			"# Document ID: %s\n# Document Title: %s\n# Document URL: %s\n\n%s",
			chunk.FileID, chunk.FileTitle, chunk.FileURL, chunk.Content))
	}

	return strings.Join(parts, "\n\n---\n\n")
}
