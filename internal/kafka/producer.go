package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/aihub/citeguard-go/internal/logger"
	"go.uber.org/zap"
)

// Producer Kafka生产者
type Producer struct {
	producer sarama.SyncProducer
	topic    string
}

// ValidationEvent 引用校验审计事件
type ValidationEvent struct {
	RequestID     string    `json:"request_id"`
	QueryHash     string    `json:"query_hash"`
	Status        string    `json:"status"`
	CitationCount int       `json:"citation_count"`
	InvalidCount  int       `json:"invalid_count"`
	DurationMs    int64     `json:"duration_ms"`
	Timestamp     time.Time `json:"timestamp"`
}

var globalProducer *Producer

// InitProducer 初始化Kafka生产者
func InitProducer(brokers []string, topic string) error {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Timeout = 10 * time.Second

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return fmt.Errorf("创建Kafka生产者失败: %w", err)
	}

	globalProducer = &Producer{
		producer: producer,
		topic:    topic,
	}

	logger.Info("Kafka生产者初始化成功", zap.Strings("brokers", brokers), zap.String("topic", topic))
	return nil
}

// GetProducer 获取全局生产者实例
func GetProducer() *Producer {
	return globalProducer
}

// SendValidationEvent 发送校验审计事件
func (p *Producer) SendValidationEvent(event *ValidationEvent) error {
	if p == nil || p.producer == nil {
		return fmt.Errorf("Kafka生产者未初始化")
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("序列化事件失败: %w", err)
	}

	kafkaMsg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.RequestID),
		Value: sarama.ByteEncoder(data),
		Headers: []sarama.RecordHeader{
			{
				Key:   []byte("status"),
				Value: []byte(event.Status),
			},
		},
	}

	partition, offset, err := p.producer.SendMessage(kafkaMsg)
	if err != nil {
		logger.Error("发送Kafka消息失败", zap.Error(err))
		return fmt.Errorf("发送消息失败: %w", err)
	}

	logger.Debug("校验审计事件发送成功",
		zap.Int32("partition", partition),
		zap.Int64("offset", offset),
		zap.String("request_id", event.RequestID))

	return nil
}

// Close 关闭生产者
func (p *Producer) Close() error {
	if p != nil && p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

// EmitValidationEvent 发送校验事件（便捷方法）
// Kafka未配置时静默跳过，不影响主流程
func EmitValidationEvent(event *ValidationEvent) {
	producer := GetProducer()
	if producer == nil {
		return
	}
	if err := producer.SendValidationEvent(event); err != nil {
		logger.Warn("校验审计事件发送失败", zap.Error(err))
	}
}
