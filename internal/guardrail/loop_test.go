package guardrail

import (
	"context"
	"errors"
	"testing"

	"github.com/aihub/citeguard-go/internal/citation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedGenerator 按调用次数返回预设响应，记录收到的反馈
type scriptedGenerator struct {
	responses []string
	feedbacks []string
	err       error
}

func (g *scriptedGenerator) Generate(ctx context.Context, query, feedback string) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	g.feedbacks = append(g.feedbacks, feedback)
	idx := len(g.feedbacks) - 1
	if idx >= len(g.responses) {
		idx = len(g.responses) - 1
	}
	return g.responses[idx], nil
}

// scriptedValidator 按调用次数返回预设校验结果
type scriptedValidator struct {
	results []citation.ValidationResult
	calls   int
}

func (v *scriptedValidator) Validate(ctx context.Context, responseText, originalQuery string) citation.ValidationResult {
	idx := v.calls
	if idx >= len(v.results) {
		idx = len(v.results) - 1
	}
	v.calls++
	return v.results[idx]
}

func validResult() citation.ValidationResult {
	return citation.ValidationResult{Status: citation.StatusValid, Feedback: "All citations are valid and relevant"}
}

func invalidResult(feedback string) citation.ValidationResult {
	return citation.ValidationResult{Status: citation.StatusInvalid, Feedback: feedback}
}

func TestLoop_PassesFirstIteration(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{"good answer"}}
	val := &scriptedValidator{results: []citation.ValidationResult{validResult()}}

	outcome, err := NewLoop(gen, val, 3).Run(context.Background(), "query")

	require.NoError(t, err)
	assert.True(t, outcome.Valid)
	assert.Equal(t, "good answer", outcome.FinalOutput)
	assert.Equal(t, 1, outcome.Iterations)
	assert.False(t, outcome.FallbackTriggered)
	// 第一轮不带反馈
	assert.Equal(t, []string{""}, gen.feedbacks)
}

func TestLoop_FeedsBackAndRecovers(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{"bad answer", "fixed answer"}}
	val := &scriptedValidator{results: []citation.ValidationResult{
		invalidResult("File ID abc123: Document not found in knowledge base"),
		validResult(),
	}}

	outcome, err := NewLoop(gen, val, 3).Run(context.Background(), "query")

	require.NoError(t, err)
	assert.True(t, outcome.Valid)
	assert.Equal(t, "fixed answer", outcome.FinalOutput)
	assert.Equal(t, 2, outcome.Iterations)
	// 第二轮携带上一轮反馈
	require.Len(t, gen.feedbacks, 2)
	assert.Contains(t, gen.feedbacks[1], "abc123")
}

func TestLoop_MaxIterationsFallback(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{"always bad"}}
	val := &scriptedValidator{results: []citation.ValidationResult{
		invalidResult("still invalid"),
	}}

	outcome, err := NewLoop(gen, val, 3).Run(context.Background(), "query")

	require.NoError(t, err)
	assert.False(t, outcome.Valid)
	assert.True(t, outcome.FallbackTriggered)
	assert.Equal(t, "always bad", outcome.FinalOutput)
	assert.Equal(t, 3, outcome.Iterations)
	assert.Equal(t, "still invalid", outcome.Feedback)
	assert.Equal(t, 3, val.calls)
}

func TestLoop_GeneratorError(t *testing.T) {
	gen := &scriptedGenerator{err: errors.New("model unavailable")}
	val := &scriptedValidator{results: []citation.ValidationResult{validResult()}}

	_, err := NewLoop(gen, val, 3).Run(context.Background(), "query")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "response generation failed")
}

func TestLoop_CancelledContext(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{"answer"}}
	val := &scriptedValidator{results: []citation.ValidationResult{validResult()}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLoop(gen, val, 3).Run(ctx, "query")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoop_DefaultMaxIterations(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{"bad"}}
	val := &scriptedValidator{results: []citation.ValidationResult{invalidResult("nope")}}

	outcome, err := NewLoop(gen, val, 0).Run(context.Background(), "query")

	require.NoError(t, err)
	assert.Equal(t, 3, outcome.Iterations)
}
