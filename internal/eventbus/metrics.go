package eventbus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	publishedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "eventbus",
		Name:      "messages_published_total",
		Help:      "Общее число опубликованных сообщений.",
	})
	consumedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "eventbus",
		Name:      "messages_consumed_total",
		Help:      "Общее число доставленных сообщений подписчикам.",
	})
	droppedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "eventbus",
		Name:      "messages_dropped_total",
		Help:      "Сообщений, отброшенных из-за ошибок или отписки.",
	})
	inflight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "eventbus",
		Name:      "messages_inflight",
		Help:      "Количество сообщений, находящихся в очереди (не доставленных).",
	})
)

func init() {
	prometheus.MustRegister(publishedTotal, consumedTotal, droppedTotal, inflight)
}

// MetricsExporter периодически переносит Stats шины в метрики Prometheus.
// HTTP-эндпоинт /metrics поднимает вызывающая сторона.
type MetricsExporter struct {
	bus  EventBus
	prev Stats
	quit chan struct{}
	done chan struct{}
}

// NewMetricsExporter создаёт экспортер и запускает обновление раз в interval.
func NewMetricsExporter(bus EventBus, interval time.Duration) *MetricsExporter {
	m := &MetricsExporter{
		bus:  bus,
		quit: make(chan struct{}),
		done: make(chan struct{}),
	}
	go m.loop(interval)
	return m
}

// Stop делает последнее обновление и останавливает экспортер.
func (m *MetricsExporter) Stop() {
	close(m.quit)
	<-m.done
}

func (m *MetricsExporter) loop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	defer close(m.done)

	for {
		select {
		case <-ticker.C:
			m.collect()
		case <-m.quit:
			m.collect()
			return
		}
	}
}

// collect прибавляет к счётчикам дельту с прошлого вызова
func (m *MetricsExporter) collect() {
	stats := m.bus.Metrics()

	if d := stats.Published - m.prev.Published; d > 0 {
		publishedTotal.Add(float64(d))
	}
	if d := stats.Consumed - m.prev.Consumed; d > 0 {
		consumedTotal.Add(float64(d))
	}
	if d := stats.Dropped - m.prev.Dropped; d > 0 {
		droppedTotal.Add(float64(d))
	}
	inflight.Set(float64(stats.InFlight))

	m.prev = stats
}
