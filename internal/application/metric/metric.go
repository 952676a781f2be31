package metric

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP метрики - количество запросов
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Общее количество HTTP запросов",
		},
		[]string{"method", "endpoint", "status"},
	)

	// HTTP метрики - время обработки запросов
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Время обработки HTTP запросов в секундах",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint", "status"},
	)

	// HTTP метрики - количество ошибок
	httpErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_errors_total",
			Help: "Общее количество HTTP ошибок",
		},
		[]string{"method", "endpoint", "status"},
	)

	// WS метрики - количество активных соединений
	wsActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ws_active_connections",
			Help: "Количество активных WebSocket соединений",
		},
	)

	wsDroppedMessages = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ws_dropped_messages_total",
			Help: "Сообщения, не поместившиеся в очередь отправки клиента",
		},
	)

	liveRooms = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "live_rooms",
			Help: "Количество комнат с активной сессией",
		},
	)

	sessionEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_events_total",
			Help: "Обработанные события протокола комнаты",
		},
		[]string{"type", "outcome"},
	)

	writeThroughTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_write_through_total",
			Help: "Записи состояния комнаты в базу",
		},
		[]string{"kind", "outcome"},
	)
)

// RecordHTTPMetrics записывает метрики HTTP запроса
func RecordHTTPMetrics(method, endpoint string, status int, duration time.Duration) {
	strStatus := strconv.Itoa(status)

	httpRequestsTotal.WithLabelValues(method, endpoint, strStatus).Inc()
	httpRequestDuration.WithLabelValues(method, endpoint, strStatus).Observe(duration.Seconds())

	// Записываем ошибки (статус >= 400)
	if status >= 400 {
		httpErrorsTotal.WithLabelValues(method, endpoint, strStatus).Inc()
	}
}

func IncrementWSActiveConnections() {
	wsActiveConnections.Inc()
}

func DecrementWSActiveConnections() {
	wsActiveConnections.Dec()
}

func IncrementWSDroppedMessages() {
	wsDroppedMessages.Inc()
}

func SetLiveRooms(count int) {
	liveRooms.Set(float64(count))
}

// RecordSessionEvent исходы: ok, not_found, forbidden, invalid_argument, conflict, internal
func RecordSessionEvent(eventType, outcome string) {
	sessionEventsTotal.WithLabelValues(eventType, outcome).Inc()
}

// RecordWriteThrough исходы: ok, failed, dropped
func RecordWriteThrough(kind, outcome string) {
	writeThroughTotal.WithLabelValues(kind, outcome).Inc()
}
