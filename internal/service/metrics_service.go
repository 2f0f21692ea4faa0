package service

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/noah-isme/sma-course-patterns/internal/models"
)

// MetricsSnapshot is a lightweight summary of notification activity.
type MetricsSnapshot struct {
	Events           uint64 `json:"events"`
	Deliveries       uint64 `json:"deliveries"`
	DeliveryFailures uint64 `json:"delivery_failures"`
	Observers        int64  `json:"observers"`
	Exports          uint64 `json:"exports"`
}

// MetricsService encapsulates Prometheus instrumentation for the schedule manager and exports.
type MetricsService struct {
	registry         *prometheus.Registry
	eventsTotal      *prometheus.CounterVec
	deliveriesTotal  *prometheus.CounterVec
	deliveryFailures *prometheus.CounterVec
	observers        prometheus.Gauge
	exportsTotal     *prometheus.CounterVec

	eventCount    uint64
	deliveryCount uint64
	failureCount  uint64
	observerCount int64
	exportCount   uint64
}

// NewMetricsService registers the schedule collectors on a private registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	eventsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "schedule_events_total",
		Help: "Total number of schedule events published",
	}, []string{"kind"})

	deliveriesTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "schedule_notifications_total",
		Help: "Total number of notifications handed to observers",
	}, []string{"kind"})

	deliveryFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "schedule_notification_failures_total",
		Help: "Total number of observer notifications that panicked",
	}, []string{"kind"})

	observers := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "schedule_observers",
		Help: "Number of observers currently attached",
	})

	exportsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "timetable_exports_total",
		Help: "Total number of timetable exports by format",
	}, []string{"format"})

	registry.MustRegister(eventsTotal, deliveriesTotal, deliveryFailures, observers, exportsTotal)

	return &MetricsService{
		registry:         registry,
		eventsTotal:      eventsTotal,
		deliveriesTotal:  deliveriesTotal,
		deliveryFailures: deliveryFailures,
		observers:        observers,
		exportsTotal:     exportsTotal,
	}
}

// WriteTextfile dumps every collector in the Prometheus text format, for the node exporter
// textfile collector. The file is replaced atomically.
func (m *MetricsService) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}

// ObserveEvent records one published event and its fan-out size.
func (m *MetricsService) ObserveEvent(kind models.ScheduleEventKind, recipients int) {
	if m == nil {
		return
	}
	m.eventsTotal.WithLabelValues(string(kind)).Inc()
	m.deliveriesTotal.WithLabelValues(string(kind)).Add(float64(recipients))
	atomic.AddUint64(&m.eventCount, 1)
	atomic.AddUint64(&m.deliveryCount, uint64(recipients))
}

// ObserveDeliveryFailure records an observer that failed to handle an event.
func (m *MetricsService) ObserveDeliveryFailure(kind models.ScheduleEventKind) {
	if m == nil {
		return
	}
	m.deliveryFailures.WithLabelValues(string(kind)).Inc()
	atomic.AddUint64(&m.failureCount, 1)
}

// SetObservers tracks the current registry size.
func (m *MetricsService) SetObservers(count int) {
	if m == nil {
		return
	}
	m.observers.Set(float64(count))
	atomic.StoreInt64(&m.observerCount, int64(count))
}

// ObserveExport records a rendered timetable export.
func (m *MetricsService) ObserveExport(format models.ExportFormat) {
	if m == nil {
		return
	}
	m.exportsTotal.WithLabelValues(string(format)).Inc()
	atomic.AddUint64(&m.exportCount, 1)
}

// Snapshot returns aggregated counters.
func (m *MetricsService) Snapshot() MetricsSnapshot {
	if m == nil {
		return MetricsSnapshot{}
	}
	return MetricsSnapshot{
		Events:           atomic.LoadUint64(&m.eventCount),
		Deliveries:       atomic.LoadUint64(&m.deliveryCount),
		DeliveryFailures: atomic.LoadUint64(&m.failureCount),
		Observers:        atomic.LoadInt64(&m.observerCount),
		Exports:          atomic.LoadUint64(&m.exportCount),
	}
}
