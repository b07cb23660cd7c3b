package content

import "github.com/prometheus/client_golang/prometheus"

// Метрики контейнеров по ролям
var (
	deserializeTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "content",
		Name:      "deserialize_total",
		Help:      "Попытки десериализации по роли и результату (ok, unknown_id, missing_role).",
	}, []string{"role", "result"})

	serializeTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "content",
		Name:      "serialize_total",
		Help:      "Сериализованные контейнеры.",
	}, []string{"role"})

	destroyTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "content",
		Name:      "destroy_total",
		Help:      "Уничтоженные данные контейнеров.",
	}, []string{"role"})

	leakedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "content",
		Name:      "leaked_total",
		Help:      "Контейнеры, уничтоженные сборщиком мусора без Close.",
	}, []string{"role"})

	liveValues = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "content",
		Name:      "live_values",
		Help:      "Количество живых контейнеров.",
	}, []string{"role"})
)

func init() {
	prometheus.MustRegister(deserializeTotal, serializeTotal, destroyTotal, leakedTotal, liveValues)
}
