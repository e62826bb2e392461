package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce           sync.Once
	httpDurationHistogram  *prometheus.HistogramVec
	walletImbalanceCounter *prometheus.CounterVec
	idempotencyCounter     *prometheus.CounterVec
	reviewQueueGauge       *prometheus.GaugeVec
	caseTransitionCounter  *prometheus.CounterVec
	workerRunCounter       *prometheus.CounterVec
)

// Init registers all Prometheus collectors.
func Init() {
	registerOnce.Do(func() {
		httpDurationHistogram = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"})

		walletImbalanceCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wallet_imbalance_total",
			Help: "Number of times a wallet diverged from its recovery ledger",
		}, []string{"currency"})

		idempotencyCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "idempotency_events_total",
			Help: "Idempotency middleware outcomes",
		}, []string{"outcome"})

		reviewQueueGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "review_queue_size",
			Help: "Current number of items waiting for staff review",
		}, []string{"queue"})

		caseTransitionCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "case_transitions_total",
			Help: "Case pipeline transitions by target stage",
		}, []string{"status"})

		workerRunCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_runs_total",
			Help: "Background worker run outcomes",
		}, []string{"worker", "result"})

		prometheus.MustRegister(
			httpDurationHistogram,
			walletImbalanceCounter,
			idempotencyCounter,
			reviewQueueGauge,
			caseTransitionCounter,
			workerRunCounter,
		)
	})
}

func ObserveHTTP(method, path string, status int, duration time.Duration) {
	if httpDurationHistogram == nil {
		return
	}
	httpDurationHistogram.WithLabelValues(method, path, strconv.Itoa(status)).Observe(duration.Seconds())
}

func IncrementWalletImbalance(currency string) {
	if walletImbalanceCounter == nil {
		return
	}
	walletImbalanceCounter.WithLabelValues(currency).Inc()
}

func IncrementIdempotencyEvent(outcome string) {
	if idempotencyCounter == nil {
		return
	}
	idempotencyCounter.WithLabelValues(outcome).Inc()
}

func SetReviewQueueSize(queue string, size int64) {
	if reviewQueueGauge == nil {
		return
	}
	reviewQueueGauge.WithLabelValues(queue).Set(float64(size))
}

func IncrementCaseTransition(status string) {
	if caseTransitionCounter == nil {
		return
	}
	caseTransitionCounter.WithLabelValues(status).Inc()
}

func IncrementWorkerRun(worker, result string) {
	if workerRunCounter == nil {
		return
	}
	workerRunCounter.WithLabelValues(worker, result).Inc()
}
