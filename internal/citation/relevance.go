package citation

import (
	"context"
	"strings"

	"github.com/aihub/citeguard-go/internal/knowledge"
	"github.com/aihub/citeguard-go/internal/logger"
	"go.uber.org/zap"
)

// RelevanceScorer 基于嵌入相似度判定引用文档是否切题
// 任何环节失败都判定为不相关，只记日志不向上抛
type RelevanceScorer struct {
	store    DocumentStore
	embedder knowledge.Embedder
	cfg      Config
}

// NewRelevanceScorer 创建相关性评分器
func NewRelevanceScorer(store DocumentStore, embedder knowledge.Embedder, cfg Config) *RelevanceScorer {
	return &RelevanceScorer{
		store:    store,
		embedder: embedder,
		cfg:      cfg.withDefaults(),
	}
}

// Relevant 判定文档对query和response是否都切题
// 两个相似度都严格大于阈值才算相关
func (s *RelevanceScorer) Relevant(ctx context.Context, fileID, query, response string) bool {
	content, err := s.store.FetchContent(ctx, fileID)
	if err != nil {
		logger.Warn("Document content fetch failed during relevance check",
			zap.String("file_id", fileID), zap.Error(err))
		return false
	}
	if strings.TrimSpace(content) == "" {
		return false
	}

	queryVec, err := s.embedder.Embed(ctx, truncate(query, s.cfg.ContentCharLimit))
	if err != nil {
		logger.Warn("Query embedding failed", zap.String("file_id", fileID), zap.Error(err))
		return false
	}
	responseVec, err := s.embedder.Embed(ctx, truncate(response, s.cfg.ContentCharLimit))
	if err != nil {
		logger.Warn("Response embedding failed", zap.String("file_id", fileID), zap.Error(err))
		return false
	}
	documentVec, err := s.embedder.Embed(ctx, truncate(content, s.cfg.ContentCharLimit))
	if err != nil {
		logger.Warn("Document embedding failed", zap.String("file_id", fileID), zap.Error(err))
		return false
	}

	querySim := knowledge.CosineSimilarity(queryVec, documentVec)
	responseSim := knowledge.CosineSimilarity(responseVec, documentVec)

	logger.Debug("Relevance similarity computed",
		zap.String("file_id", fileID),
		zap.Float64("query_similarity", querySim),
		zap.Float64("response_similarity", responseSim),
		zap.Float64("threshold", s.cfg.RelevanceThreshold))

	return querySim > s.cfg.RelevanceThreshold && responseSim > s.cfg.RelevanceThreshold
}

// truncate 按rune截断，避免切断多字节字符
func truncate(text string, limit int) string {
	if limit <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
