package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор Prometheus-метрик сервиса
// Все методы безопасны для nil-получателя: при выключенных метриках можно передавать nil.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration     *prometheus.HistogramVec
	DBQueryErrors       *prometheus.CounterVec
	DBOpenConnections   prometheus.Gauge
	DBInUseConnections  prometheus.Gauge
	DBIdleConnections   prometheus.Gauge
	DBWaitCount         prometheus.Gauge

	SlotsOffered    *prometheus.HistogramVec
	SlotRejections  *prometheus.CounterVec
	DateRejections  *prometheus.CounterVec
	BookingsCreated *prometheus.CounterVec
	CacheRequests   *prometheus.CounterVec
}

// New создает метрики и регистрирует их в глобальном реестре
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer создает метрики в указанном реестре (в тестах - prometheus.NewRegistry())
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	ns := namespace(serviceName)
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: ns,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: ns,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		DBQueryDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: ns,
				Name:      "db_query_duration_seconds",
				Help:      "Database query latency",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"operation"},
		),
		DBQueryErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: ns,
				Name:      "db_query_errors_total",
				Help:      "Total number of failed database queries",
			},
			[]string{"operation"},
		),
		DBOpenConnections: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "db_open_connections",
			Help:      "Number of established connections",
		}),
		DBInUseConnections: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "db_in_use_connections",
			Help:      "Number of connections currently in use",
		}),
		DBIdleConnections: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "db_idle_connections",
			Help:      "Number of idle connections",
		}),
		DBWaitCount: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "db_wait_count",
			Help:      "Total number of connections waited for",
		}),
		SlotsOffered: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: ns,
				Name:      "slots_offered",
				Help:      "Number of bookable slots returned per resolution",
				Buckets:   []float64{0, 1, 2, 4, 8, 16, 32, 64},
			},
			[]string{"mode"},
		),
		SlotRejections: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: ns,
				Name:      "slot_rejections_total",
				Help:      "Candidate slots rejected by the admission filter",
			},
			[]string{"reason"},
		),
		DateRejections: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: ns,
				Name:      "date_rejections_total",
				Help:      "Dates rejected by the date gate",
			},
			[]string{"reason"},
		),
		BookingsCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: ns,
				Name:      "bookings_created_total",
				Help:      "Booking commit attempts by result",
			},
			[]string{"result"},
		),
		CacheRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: ns,
				Name:      "snapshot_cache_requests_total",
				Help:      "Snapshot cache lookups by result",
			},
			[]string{"result"},
		),
	}
}

// ObserveSlotsOffered фиксирует количество отданных слотов
func (m *Metrics) ObserveSlotsOffered(mode string, count int) {
	if m == nil {
		return
	}
	m.SlotsOffered.WithLabelValues(mode).Observe(float64(count))
}

// AddSlotRejections увеличивает счетчик отклоненных слотов по причине
func (m *Metrics) AddSlotRejections(reason string, count int) {
	if m == nil || count <= 0 {
		return
	}
	m.SlotRejections.WithLabelValues(reason).Add(float64(count))
}

// IncDateRejection увеличивает счетчик отклоненных дат по причине
func (m *Metrics) IncDateRejection(reason string) {
	if m == nil {
		return
	}
	m.DateRejections.WithLabelValues(reason).Inc()
}

// IncBookingResult фиксирует результат попытки бронирования
func (m *Metrics) IncBookingResult(result string) {
	if m == nil {
		return
	}
	m.BookingsCreated.WithLabelValues(result).Inc()
}

// IncCacheResult фиксирует hit/miss/error кэша снимков
func (m *Metrics) IncCacheResult(result string) {
	if m == nil {
		return
	}
	m.CacheRequests.WithLabelValues(result).Inc()
}

func namespace(serviceName string) string {
	return strings.NewReplacer("-", "_", ".", "_", " ", "_").Replace(strings.ToLower(serviceName))
}
