package citation

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/aihub/citeguard-go/internal/knowledge"
	"github.com/aihub/citeguard-go/internal/logger"
	"go.uber.org/zap"
)

// Validator 引用校验器
// 无持久状态，单次调用内完成提取、存在性与相关性校验
type Validator struct {
	store  DocumentStore
	scorer *RelevanceScorer
	cfg    Config
}

// NewValidator 创建引用校验器
func NewValidator(store DocumentStore, embedder knowledge.Embedder, cfg Config) *Validator {
	cfg = cfg.withDefaults()
	return &Validator{
		store:  store,
		scorer: NewRelevanceScorer(store, embedder, cfg),
		cfg:    cfg,
	}
}

// Validate 校验响应文本中的全部引用
// 对调用方永不panic、永不返回error，任何内部异常降级为invalid结果
func (v *Validator) Validate(ctx context.Context, responseText, originalQuery string) (result ValidationResult) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Citation validation panicked", zap.Any("panic", r))
			result = ValidationResult{
				Status:   StatusInvalid,
				Feedback: fmt.Sprintf("Error during validation: %v", r),
			}
		}
	}()

	citations := ExtractCitations(responseText)
	if len(citations) == 0 {
		return ValidationResult{
			Status:   StatusInvalid,
			Feedback: feedbackNoCitations,
		}
	}

	// 每条引用独立校验，无共享状态，按下标写入保持提取顺序
	verdicts := make([]CitationVerdict, len(citations))
	sem := make(chan struct{}, v.cfg.MaxParallel)
	var wg sync.WaitGroup

	for i, c := range citations {
		wg.Add(1)
		go func(idx int, cit Citation) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				verdicts[idx] = CitationVerdict{FileID: cit.FileID, Status: StatusInvalid, Reason: "validation cancelled"}
				return
			}
			verdicts[idx] = v.checkCitation(ctx, cit.FileID, originalQuery, responseText)
		}(i, c)
	}
	wg.Wait()

	// 上层取消时丢弃部分结果，整体按invalid处理
	if err := ctx.Err(); err != nil {
		return ValidationResult{
			Status:   StatusInvalid,
			Feedback: fmt.Sprintf("Error during validation: %v", err),
		}
	}

	return aggregate(verdicts)
}

// checkCitation 校验单条引用：先存在性，后相关性
func (v *Validator) checkCitation(ctx context.Context, fileID, query, response string) CitationVerdict {
	ctx, cancel := context.WithTimeout(ctx, v.cfg.CheckTimeout)
	defer cancel()

	exists, err := v.store.Exists(ctx, fileID)
	if err != nil {
		// 查询失败按不存在处理，绝不误判为已验证
		logger.Warn("Existence check failed, treating as not found",
			zap.String("file_id", fileID), zap.Error(err))
		exists = false
	}
	if !exists {
		return CitationVerdict{FileID: fileID, Status: StatusInvalid, Reason: reasonNotFound}
	}

	if !v.scorer.Relevant(ctx, fileID, query, response) {
		return CitationVerdict{FileID: fileID, Status: StatusInvalid, Reason: reasonNotRelevant}
	}

	return CitationVerdict{FileID: fileID, Status: StatusValid, Reason: reasonValid}
}

// aggregate 汇总单条结论为整体结果
func aggregate(verdicts []CitationVerdict) ValidationResult {
	var invalidParts []string
	for _, verdict := range verdicts {
		if verdict.Status == StatusInvalid {
			invalidParts = append(invalidParts, fmt.Sprintf("File ID %s: %s", verdict.FileID, verdict.Reason))
		}
	}

	if len(invalidParts) > 0 {
		return ValidationResult{
			Status:   StatusInvalid,
			Feedback: fmt.Sprintf("Invalid citations found: %s. Please provide accurate citations from the knowledge base.", strings.Join(invalidParts, "; ")),
			Verdicts: verdicts,
		}
	}

	return ValidationResult{
		Status:   StatusValid,
		Feedback: feedbackAllValid,
		Verdicts: verdicts,
	}
}
