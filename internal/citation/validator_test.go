package citation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockDocumentStore 模拟知识库查询
type MockDocumentStore struct {
	mock.Mock
}

func (m *MockDocumentStore) Exists(ctx context.Context, fileID string) (bool, error) {
	args := m.Called(ctx, fileID)
	return args.Bool(0), args.Error(1)
}

func (m *MockDocumentStore) FetchContent(ctx context.Context, fileID string) (string, error) {
	args := m.Called(ctx, fileID)
	return args.String(0), args.Error(1)
}

// stubEmbedder 固定向量的嵌入打桩
type stubEmbedder struct {
	mu      sync.Mutex
	vectors map[string][]float32
	err     error
	calls   int
}

func (s *stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	vec, ok := s.vectors[text]
	if !ok {
		return nil, fmt.Errorf("no stub vector for %q", text)
	}
	return vec, nil
}

func (s *stubEmbedder) Dimensions() int { return 2 }
func (s *stubEmbedder) Ready() bool     { return true }

func (s *stubEmbedder) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func citationURL(id string) string {
	return "https://docs.google.com/document/d/" + id + "/"
}

func TestValidate_NoCitations(t *testing.T) {
	store := new(MockDocumentStore)
	validator := NewValidator(store, &stubEmbedder{}, DefaultConfig())

	result := validator.Validate(context.Background(), "plain text, no links", "any query")

	assert.Equal(t, StatusInvalid, result.Status)
	assert.Contains(t, result.Feedback, "No Google Drive citations found")
	store.AssertNotCalled(t, "Exists", mock.Anything, mock.Anything)
}

func TestValidate_DocumentNotFound(t *testing.T) {
	store := new(MockDocumentStore)
	store.On("Exists", mock.Anything, "abc123").Return(false, nil)

	validator := NewValidator(store, &stubEmbedder{}, DefaultConfig())
	result := validator.Validate(context.Background(), "see "+citationURL("abc123"), "query")

	assert.Equal(t, StatusInvalid, result.Status)
	assert.Contains(t, result.Feedback, "File ID abc123: Document not found in knowledge base")
	// 不存在的文档不应触发相关性检查
	store.AssertNotCalled(t, "FetchContent", mock.Anything, mock.Anything)
}

func TestValidate_ExistenceCheckErrorFailsClosed(t *testing.T) {
	store := new(MockDocumentStore)
	store.On("Exists", mock.Anything, "abc123").Return(false, errors.New("connection refused"))

	validator := NewValidator(store, &stubEmbedder{}, DefaultConfig())
	result := validator.Validate(context.Background(), citationURL("abc123"), "query")

	assert.Equal(t, StatusInvalid, result.Status)
	assert.Contains(t, result.Feedback, "Document not found in knowledge base")
}

func TestValidate_AllValid(t *testing.T) {
	response := "answer with " + citationURL("abc123")
	query := "what is the answer"

	store := new(MockDocumentStore)
	store.On("Exists", mock.Anything, "abc123").Return(true, nil)
	store.On("FetchContent", mock.Anything, "abc123").Return("document body", nil)

	embedder := &stubEmbedder{vectors: map[string][]float32{
		query:           {0.8, 0.6},
		response:        {0.9, 0.436},
		"document body": {1, 0},
	}}

	validator := NewValidator(store, embedder, DefaultConfig())
	result := validator.Validate(context.Background(), response, query)

	assert.Equal(t, StatusValid, result.Status)
	assert.Equal(t, "All citations are valid and relevant", result.Feedback)
	assert.Len(t, result.Verdicts, 1)
	assert.Equal(t, StatusValid, result.Verdicts[0].Status)
}

func TestValidate_ThresholdBoundaryIsStrict(t *testing.T) {
	response := "answer with " + citationURL("abc123")
	query := "boundary query"

	store := new(MockDocumentStore)
	store.On("Exists", mock.Anything, "abc123").Return(true, nil)
	store.On("FetchContent", mock.Anything, "abc123").Return("document body", nil)

	// query与文档的余弦为3/5，与阈值0.6是同一个float64，严格大于不成立
	embedder := &stubEmbedder{vectors: map[string][]float32{
		query:           {3, 4},
		response:        {0.9, 0.436},
		"document body": {1, 0},
	}}

	validator := NewValidator(store, embedder, DefaultConfig())
	result := validator.Validate(context.Background(), response, query)

	assert.Equal(t, StatusInvalid, result.Status)
	assert.Contains(t, result.Feedback, "File ID abc123: Document not relevant to query or response content")
}

func TestValidate_EmbeddingFailureFailsClosed(t *testing.T) {
	store := new(MockDocumentStore)
	store.On("Exists", mock.Anything, "abc123").Return(true, nil)
	store.On("FetchContent", mock.Anything, "abc123").Return("document body", nil)

	embedder := &stubEmbedder{err: errors.New("embedding service down")}

	validator := NewValidator(store, embedder, DefaultConfig())
	result := validator.Validate(context.Background(), citationURL("abc123"), "query")

	assert.Equal(t, StatusInvalid, result.Status)
	assert.Contains(t, result.Feedback, "Document not relevant to query or response content")
}

func TestValidate_EmptyContentSkipsEmbedding(t *testing.T) {
	store := new(MockDocumentStore)
	store.On("Exists", mock.Anything, "abc123").Return(true, nil)
	store.On("FetchContent", mock.Anything, "abc123").Return("   ", nil)

	embedder := &stubEmbedder{}

	validator := NewValidator(store, embedder, DefaultConfig())
	result := validator.Validate(context.Background(), citationURL("abc123"), "query")

	assert.Equal(t, StatusInvalid, result.Status)
	assert.Zero(t, embedder.callCount())
}

func TestValidate_AggregateFeedbackFormat(t *testing.T) {
	response := citationURL("abc123") + " and " + citationURL("def456")
	query := "query"

	store := new(MockDocumentStore)
	store.On("Exists", mock.Anything, "abc123").Return(false, nil)
	store.On("Exists", mock.Anything, "def456").Return(true, nil)
	store.On("FetchContent", mock.Anything, "def456").Return("unrelated body", nil)

	// def456内容与query/response正交，不相关
	embedder := &stubEmbedder{vectors: map[string][]float32{
		query:            {1, 0},
		response:         {1, 0},
		"unrelated body": {0, 1},
	}}

	validator := NewValidator(store, embedder, DefaultConfig())
	result := validator.Validate(context.Background(), response, query)

	assert.Equal(t, StatusInvalid, result.Status)
	assert.Contains(t, result.Feedback, "File ID abc123: Document not found in knowledge base")
	assert.Contains(t, result.Feedback, "File ID def456: Document not relevant to query or response content")
	assert.Contains(t, result.Feedback, "; ")
	assert.Contains(t, result.Feedback, "Invalid citations found:")
}

func TestValidate_DuplicateCitationsCheckedIndependently(t *testing.T) {
	response := citationURL("abc123") + " again " + citationURL("abc123")

	store := new(MockDocumentStore)
	store.On("Exists", mock.Anything, "abc123").Return(false, nil)

	validator := NewValidator(store, &stubEmbedder{}, DefaultConfig())
	result := validator.Validate(context.Background(), response, "query")

	assert.Len(t, result.Verdicts, 2)
	store.AssertNumberOfCalls(t, "Exists", 2)
}

func TestValidate_Idempotent(t *testing.T) {
	response := citationURL("abc123")
	store := new(MockDocumentStore)
	store.On("Exists", mock.Anything, "abc123").Return(false, nil)

	validator := NewValidator(store, &stubEmbedder{}, DefaultConfig())

	first := validator.Validate(context.Background(), response, "query")
	second := validator.Validate(context.Background(), response, "query")

	assert.Equal(t, first, second)
}

func TestValidate_CancelledContext(t *testing.T) {
	store := new(MockDocumentStore)
	store.On("Exists", mock.Anything, mock.Anything).Return(false, nil).Maybe()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	validator := NewValidator(store, &stubEmbedder{}, DefaultConfig())
	result := validator.Validate(ctx, citationURL("abc123"), "query")

	assert.Equal(t, StatusInvalid, result.Status)
	assert.Contains(t, result.Feedback, "Error during validation")
}
