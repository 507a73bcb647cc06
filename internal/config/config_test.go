package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	viper.Reset()

	err := LoadConfig()
	require.NoError(t, err)
	require.NotNil(t, AppConfig)

	assert.Equal(t, "8002", AppConfig.Server.Port)
	assert.Equal(t, "development", AppConfig.Server.Env)

	assert.Equal(t, 0.6, AppConfig.Validation.RelevanceThreshold)
	assert.Equal(t, 2000, AppConfig.Validation.ContentCharLimit)
	assert.Equal(t, 20000, AppConfig.Validation.DocumentCharLimit)
	assert.Equal(t, 4, AppConfig.Validation.MaxParallel)
	assert.Equal(t, 15, AppConfig.Validation.TimeoutSeconds)

	assert.Equal(t, "text-embedding-3-small", AppConfig.Embedding.Model)
	assert.Equal(t, 15, AppConfig.Embedding.TimeoutSeconds)

	assert.Equal(t, 4, AppConfig.Retrieval.MatchCount)
	assert.Equal(t, 200, AppConfig.Retrieval.CandidateLimit)

	// Redis和Kafka默认关闭
	assert.False(t, AppConfig.Redis.Enabled)
	assert.False(t, AppConfig.Kafka.Enabled)
	assert.Equal(t, []string{"localhost:9092"}, AppConfig.Kafka.Brokers)
	assert.Equal(t, "citation-validations", AppConfig.Kafka.Topic)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	viper.Reset()

	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_URL", "postgresql://user:pass@db:5432/app")
	t.Setenv("REDIS_HOST", "redis.internal")
	t.Setenv("KAFKA_BROKERS", "broker1:9092, broker2:9092")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("EMBEDDING_MODEL_CHOICE", "text-embedding-3-large")

	err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", AppConfig.Server.Port)
	assert.Equal(t, "postgresql://user:pass@db:5432/app", AppConfig.Database.URL)

	// 设置REDIS_HOST会同时启用缓存
	assert.Equal(t, "redis.internal", AppConfig.Redis.Host)
	assert.True(t, AppConfig.Redis.Enabled)

	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, AppConfig.Kafka.Brokers)
	assert.True(t, AppConfig.Kafka.Enabled)

	assert.Equal(t, "sk-test", AppConfig.Embedding.APIKey)
	assert.Equal(t, "text-embedding-3-large", AppConfig.Embedding.Model)
}
