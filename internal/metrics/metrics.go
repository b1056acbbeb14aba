package metrics

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/push"
	"go.uber.org/zap"
)

const (
	namespace = "content_generator"
	jobName   = "content_generator"
)

// Исходы генерации изображения.
const (
	ImageOutcomeGenerated   = "generated"
	ImageOutcomePlaceholder = "placeholder"
	ImageOutcomeNoAsset     = "no_asset"
)

// Metrics - коллекторы генератора в локальном реестре (не DefaultRegistry).
type Metrics struct {
	Registry *prometheus.Registry

	RecordsCreated   prometheus.Counter
	RecordsFailed    *prometheus.CounterVec
	RecordsSkipped   prometheus.Counter
	RecordDuration   prometheus.Histogram
	ImageOutcomes    *prometheus.CounterVec
	ServiceRequests  *prometheus.CounterVec
	ServiceDuration  *prometheus.HistogramVec
	BatchesCompleted prometheus.Counter
}

// New создает реестр и регистрирует в нем все коллекторы.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(registry)

	return &Metrics{
		Registry: registry,
		RecordsCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_created_total",
			Help:      "Total number of committed content records.",
		}),
		RecordsFailed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_failed_total",
			Help:      "Total number of rolled back records, partitioned by error kind.",
		}, []string{"reason"}),
		RecordsSkipped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_skipped_total",
			Help:      "Total number of batch indices skipped without attempting a record.",
		}),
		RecordDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "record_duration_seconds",
			Help:      "Time spent generating a single record.",
			Buckets:   prometheus.ExponentialBuckets(0.5, 2, 10),
		}),
		ImageOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "image_outcomes_total",
			Help:      "Image synthesis outcomes: generated, placeholder or no_asset.",
		}, []string{"outcome"}),
		ServiceRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "service_requests_total",
			Help:      "Requests to generation services.",
		}, []string{"service", "provider", "status"}),
		ServiceDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "service_request_duration_seconds",
			Help:      "Duration of generation service requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"service", "provider"}),
		BatchesCompleted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batches_completed_total",
			Help:      "Total number of finished batches.",
		}),
	}
}

// ObserveServiceCall записывает статус и длительность запроса к сервису генерации.
func (m *Metrics) ObserveServiceCall(service, provider string, started time.Time, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.ServiceRequests.WithLabelValues(service, provider, status).Inc()
	m.ServiceDuration.WithLabelValues(service, provider).Observe(time.Since(started).Seconds())
}

// ObserveImageOutcome увеличивает счетчик исходов генерации изображения.
func (m *Metrics) ObserveImageOutcome(outcome string) {
	if m == nil {
		return
	}
	m.ImageOutcomes.WithLabelValues(outcome).Inc()
}

// Handler отдает метрики реестра для /metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

// Pusher отправляет метрики в Pushgateway после каждого пакета.
type Pusher struct {
	pusher *push.Pusher
	logger *zap.Logger
}

// NewPusher возвращает nil, если url пуст.
func NewPusher(url string, m *Metrics, logger *zap.Logger) *Pusher {
	if url == "" {
		return nil
	}
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	instance := fmt.Sprintf("%s-%d", hostname, os.Getpid())
	return &Pusher{
		pusher: push.New(url, jobName).Gatherer(m.Registry).Grouping("instance", instance),
		logger: logger.Named("MetricsPusher").With(zap.String("instance", instance)),
	}
}

// Push не возвращает ошибку: сбой Pushgateway не влияет на генерацию.
func (p *Pusher) Push() {
	if p == nil {
		return
	}
	if err := p.pusher.Push(); err != nil {
		p.logger.Warn("Failed to push metrics to Pushgateway", zap.Error(err))
		return
	}
	p.logger.Debug("Metrics pushed to Pushgateway")
}
