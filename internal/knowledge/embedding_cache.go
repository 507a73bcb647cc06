package knowledge

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aihub/citeguard-go/internal/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// CachingEmbedder Redis缓存包装器
// 缓存读写失败只记日志，不影响嵌入调用本身
type CachingEmbedder struct {
	inner  Embedder
	client *redis.Client
	model  string
	ttl    time.Duration
}

// NewCachingEmbedder 创建带Redis缓存的Embedder
// client为nil时直接透传
func NewCachingEmbedder(inner Embedder, client *redis.Client, model string, ttl time.Duration) Embedder {
	if client == nil {
		return inner
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &CachingEmbedder{
		inner:  inner,
		client: client,
		model:  model,
		ttl:    ttl,
	}
}

func (c *CachingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	key := c.cacheKey(text)

	if data, err := c.client.Get(ctx, key).Bytes(); err == nil {
		var vec []float32
		if err := json.Unmarshal(data, &vec); err == nil && len(vec) > 0 {
			return vec, nil
		}
	} else if err != redis.Nil {
		logger.Warn("Embedding cache read failed", zap.Error(err))
	}

	vec, err := c.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(vec); err == nil {
		if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
			logger.Warn("Embedding cache write failed", zap.Error(err))
		}
	}

	return vec, nil
}

func (c *CachingEmbedder) Dimensions() int {
	return c.inner.Dimensions()
}

func (c *CachingEmbedder) Ready() bool {
	return c.inner.Ready()
}

func (c *CachingEmbedder) cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return fmt.Sprintf("citeguard:embedding:%s:%s", c.model, hex.EncodeToString(sum[:]))
}
