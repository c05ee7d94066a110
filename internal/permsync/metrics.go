package permsync

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	metricsOnce sync.Once

	eventsTotal   *prometheus.CounterVec
	eventDuration *prometheus.HistogramVec
	fanoutSize    prometheus.Histogram
	userFailures  *prometheus.CounterVec
)

// RegisterMetrics registra las métricas del synchronizer. Idempotente;
// si registry es nil usa el default.
func RegisterMetrics(registry prometheus.Registerer) {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	metricsOnce.Do(func() {
		eventsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "permsync_events_total",
			Help: "Eventos de rol procesados, por tipo y resultado",
		}, []string{"kind", "result"})

		eventDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "permsync_event_duration_seconds",
			Help:    "Duración del procesamiento de un evento de rol",
			Buckets: prometheus.DefBuckets,
		}, []string{"kind"})

		fanoutSize = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "permsync_fanout_users",
			Help:    "Cantidad de usuarios afectados por fan-out",
			Buckets: []float64{0, 1, 5, 10, 50, 100, 500, 1000},
		})

		userFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "permsync_user_failures_total",
			Help: "Fallos de sincronización por usuario, por operación",
		}, []string{"op"})

		registry.MustRegister(eventsTotal, eventDuration, fanoutSize, userFailures)
	})
}

func observeEvent(kind string, err error, d time.Duration) {
	if eventsTotal == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	eventsTotal.WithLabelValues(kind, result).Inc()
	eventDuration.WithLabelValues(kind).Observe(d.Seconds())
}

func observeFanout(n int) {
	if fanoutSize == nil {
		return
	}
	fanoutSize.Observe(float64(n))
}

func observeUserFailure(op string) {
	if userFailures == nil {
		return
	}
	userFailures.WithLabelValues(op).Inc()
}
