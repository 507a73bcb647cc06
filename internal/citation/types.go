package citation

import (
	"context"
	"time"
)

// Status 校验状态
type Status string

const (
	StatusValid   Status = "valid"
	StatusInvalid Status = "invalid"
)

// 固定反馈文案，调用方会将其拼入重试提示词，保持确定性
const (
	reasonNotFound    = "Document not found in knowledge base"
	reasonNotRelevant = "Document not relevant to query or response content"
	reasonValid       = "Citation is valid and relevant"

	feedbackNoCitations = "No Google Drive citations found in response. Please include proper citations in the format: https://docs.google.com/document/d/[file_id]/"
	feedbackAllValid    = "All citations are valid and relevant"
)

// CitationVerdict 单条引用的校验结论
type CitationVerdict struct {
	FileID string `json:"file_id"`
	Status Status `json:"status"`
	Reason string `json:"reason"`
}

// ValidationResult 整体校验结果
type ValidationResult struct {
	Status   Status            `json:"status"`
	Feedback string            `json:"feedback"`
	Verdicts []CitationVerdict `json:"verdicts,omitempty"`
}

// Valid 整体校验是否通过
func (r ValidationResult) Valid() bool {
	return r.Status == StatusValid
}

// DocumentStore 知识库查询接口
type DocumentStore interface {
	Exists(ctx context.Context, fileID string) (bool, error)
	FetchContent(ctx context.Context, fileID string) (string, error)
}

// Config 校验参数
type Config struct {
	// RelevanceThreshold 相似度阈值，严格大于才判定相关
	RelevanceThreshold float64
	// ContentCharLimit 送入嵌入服务前的文本截断长度
	ContentCharLimit int
	// MaxParallel 并发校验的引用数上限
	MaxParallel int
	// CheckTimeout 单条引用校验超时
	CheckTimeout time.Duration
}

// DefaultConfig 返回默认校验参数
func DefaultConfig() Config {
	return Config{
		RelevanceThreshold: 0.6,
		ContentCharLimit:   2000,
		MaxParallel:        4,
		CheckTimeout:       15 * time.Second,
	}
}

func (c Config) withDefaults() Config {
	if c.RelevanceThreshold <= 0 {
		c.RelevanceThreshold = 0.6
	}
	if c.ContentCharLimit <= 0 {
		c.ContentCharLimit = 2000
	}
	if c.MaxParallel <= 0 {
		c.MaxParallel = 4
	}
	if c.CheckTimeout <= 0 {
		c.CheckTimeout = 15 * time.Second
	}
	return c
}
