package guardrail

import (
	"context"
	"fmt"

	"github.com/aihub/citeguard-go/internal/citation"
	"github.com/aihub/citeguard-go/internal/logger"
	"go.uber.org/zap"
)

// Generator 响应生成器接口
// feedback非空时表示上一轮校验未通过，生成方应据此修正引用
type Generator interface {
	Generate(ctx context.Context, query, feedback string) (string, error)
}

// CitationValidator 引用校验接口
type CitationValidator interface {
	Validate(ctx context.Context, responseText, originalQuery string) citation.ValidationResult
}

// Outcome 循环最终结果
type Outcome struct {
	FinalOutput       string `json:"final_output"`
	Valid             bool   `json:"valid"`
	Iterations        int    `json:"iterations"`
	FallbackTriggered bool   `json:"fallback_triggered"`
	Feedback          string `json:"feedback,omitempty"`
}

// Loop 生成-校验-重试循环
// 校验未通过时带反馈重新生成，直到通过或达到迭代上限
type Loop struct {
	generator     Generator
	validator     CitationValidator
	maxIterations int
}

// NewLoop 创建校验循环，maxIterations<=0时取默认值3
func NewLoop(generator Generator, validator CitationValidator, maxIterations int) *Loop {
	if maxIterations <= 0 {
		maxIterations = 3
	}
	return &Loop{
		generator:     generator,
		validator:     validator,
		maxIterations: maxIterations,
	}
}

// Run 执行循环
// 达到迭代上限时返回最后一次响应并标记FallbackTriggered
func (l *Loop) Run(ctx context.Context, query string) (Outcome, error) {
	var (
		response string
		feedback string
	)

	for iteration := 1; iteration <= l.maxIterations; iteration++ {
		if err := ctx.Err(); err != nil {
			return Outcome{}, err
		}

		var err error
		response, err = l.generator.Generate(ctx, query, feedback)
		if err != nil {
			return Outcome{}, fmt.Errorf("response generation failed: %w", err)
		}

		result := l.validator.Validate(ctx, response, query)
		if result.Valid() {
			logger.Info("Guardrail validation passed",
				zap.Int("iteration", iteration))
			return Outcome{
				FinalOutput: response,
				Valid:       true,
				Iterations:  iteration,
			}, nil
		}

		feedback = result.Feedback
		logger.Info("Guardrail validation failed, requesting revised response",
			zap.Int("iteration", iteration),
			zap.String("feedback", feedback))
	}

	// 迭代耗尽，返回最后一次响应但不标记为已验证
	logger.Warn("Guardrail max iterations reached, falling back to last response",
		zap.Int("max_iterations", l.maxIterations))
	return Outcome{
		FinalOutput:       response,
		Valid:             false,
		Iterations:        l.maxIterations,
		FallbackTriggered: true,
		Feedback:          feedback,
	}, nil
}
