package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/aihub/citeguard-go/internal/citation"
	"github.com/aihub/citeguard-go/internal/kafka"
	"github.com/aihub/citeguard-go/internal/knowledge"
	"github.com/aihub/citeguard-go/internal/logger"
	"github.com/aihub/citeguard-go/internal/repository"
	"go.uber.org/zap"
)

// ValidationService 引用校验服务
// 在核心校验器之上叠加日志、指标与审计事件
type ValidationService struct {
	validator *citation.Validator
}

// NewValidationService 创建引用校验服务
func NewValidationService(repo repository.DocumentRepository, embedder knowledge.Embedder, cfg citation.Config) *ValidationService {
	return &ValidationService{
		validator: citation.NewValidator(repo, embedder, cfg),
	}
}

// ValidateCitations 校验响应文本中的全部引用
func (s *ValidationService) ValidateCitations(ctx context.Context, responseText, originalQuery string) citation.ValidationResult {
	start := time.Now()
	requestID := fmt.Sprintf("val-%d", start.UnixNano())

	result := s.validator.Validate(ctx, responseText, originalQuery)
	duration := time.Since(start)

	invalidCount := 0
	for _, verdict := range result.Verdicts {
		RecordVerdict(verdict.Reason)
		if verdict.Status == citation.StatusInvalid {
			invalidCount++
		}
	}
	RecordValidation(string(result.Status), duration)

	kafka.EmitValidationEvent(&kafka.ValidationEvent{
		RequestID:     requestID,
		QueryHash:     hashQuery(originalQuery),
		Status:        string(result.Status),
		CitationCount: len(result.Verdicts),
		InvalidCount:  invalidCount,
		DurationMs:    duration.Milliseconds(),
		Timestamp:     start,
	})

	logger.Info("Citation validation completed",
		zap.String("request_id", requestID),
		zap.String("status", string(result.Status)),
		zap.Int("citations", len(result.Verdicts)),
		zap.Int("invalid", invalidCount),
		zap.Duration("duration", duration))

	return result
}

// hashQuery 审计事件中只携带查询哈希，不落原文
func hashQuery(query string) string {
	sum := sha256.Sum256([]byte(query))
	return hex.EncodeToString(sum[:8])
}
