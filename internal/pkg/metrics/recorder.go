package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Operation label values.
const (
	OperationGenerate = "generate"
	OperationEncrypt  = "encrypt"
	OperationDecrypt  = "decrypt"
	OperationSign     = "sign"
	OperationVerify   = "verify"
)

// Outcome label values. OutcomeInvalid marks a verification that ran to completion and rejected the signature.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeInvalid = "invalid"
)

// Recorder receives one observation per engine operation.
type Recorder interface {
	ObserveOperation(operation, outcome string, elapsed time.Duration)
	ObserveKeyGenAttempts(attempts int)
}

// PrometheusRecorder is a Recorder backed by Prometheus collectors.
type PrometheusRecorder struct {
	operations *prometheus.CounterVec
	durations  *prometheus.HistogramVec
	attempts   prometheus.Histogram
}

// NewPrometheusRecorder creates the engine collectors and registers them with reg.
// It panics if a collector with the same name is already registered with reg.
func NewPrometheusRecorder(reg prometheus.Registerer) *PrometheusRecorder {
	factory := promauto.With(reg)
	return &PrometheusRecorder{
		operations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rsa_engine_operations_total",
			Help: "RSA engine operations by outcome",
		}, []string{"operation", "outcome"}),
		durations: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "rsa_engine_operation_duration_seconds",
			Help:    "RSA engine operation duration (seconds)",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
		}, []string{"operation"}),
		attempts: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "rsa_engine_keygen_attempts",
			Help:    "Prime candidates drawn per generated key",
			Buckets: []float64{10, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 20000},
		}),
	}
}

// ObserveOperation counts the operation and records its duration.
func (r *PrometheusRecorder) ObserveOperation(operation, outcome string, elapsed time.Duration) {
	r.operations.WithLabelValues(operation, outcome).Inc()
	r.durations.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// ObserveKeyGenAttempts records how many prime candidates one key generation drew.
func (r *PrometheusRecorder) ObserveKeyGenAttempts(attempts int) {
	r.attempts.Observe(float64(attempts))
}

type noopRecorder struct{}

// NewNoopRecorder returns a Recorder that discards everything.
func NewNoopRecorder() Recorder {
	return noopRecorder{}
}

func (noopRecorder) ObserveOperation(string, string, time.Duration) {}

func (noopRecorder) ObserveKeyGenAttempts(int) {}
