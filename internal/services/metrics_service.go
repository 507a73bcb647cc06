package services

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	validationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "citeguard_validations_total",
		Help: "Total citation validation runs by overall status",
	}, []string{"status"})

	verdictsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "citeguard_citation_verdicts_total",
		Help: "Per-citation verdicts by reason",
	}, []string{"reason"})

	validationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "citeguard_validation_duration_seconds",
		Help:    "Validation pipeline latency",
		Buckets: prometheus.DefBuckets,
	})
)

// MetricsService 指标服务
type MetricsService struct{}

// NewMetricsService 创建指标服务
func NewMetricsService() *MetricsService {
	return &MetricsService{}
}

// Handler 返回Prometheus指标的HTTP处理器
func (ms *MetricsService) Handler() http.Handler {
	return promhttp.Handler()
}

// ServeHTTP 实现http.Handler接口
func (ms *MetricsService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ms.Handler().ServeHTTP(w, r)
}

// RecordValidation 记录一次整体校验
func RecordValidation(status string, duration time.Duration) {
	validationsTotal.WithLabelValues(status).Inc()
	validationDuration.Observe(duration.Seconds())
}

// RecordVerdict 记录单条引用结论
func RecordVerdict(reason string) {
	verdictsTotal.WithLabelValues(reason).Inc()
}
