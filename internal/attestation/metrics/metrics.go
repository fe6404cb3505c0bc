package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for attestation operations.
type Metrics struct {
	AttestationsCreated   prometheus.Counter
	ValidationFailures    *prometheus.CounterVec
	DuplicateNonces       prometheus.Counter
	ReplaysRejected       prometheus.Counter
	VerificationResults   *prometheus.CounterVec
	ProofInputsExported   prometheus.Counter
	ExpiredExports        prometheus.Counter
	NullifierConflicts    prometheus.Counter
	CreateLatency         prometheus.Histogram
	StoreOperationLatency *prometheus.HistogramVec
}

// New registers and returns attestation metrics collectors.
func New() *Metrics {
	return &Metrics{
		AttestationsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "wagebridge_attestations_created_total",
			Help: "Total number of wage attestations created and signed",
		}),
		ValidationFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "wagebridge_attestation_validation_failures_total",
			Help: "Total number of validation failures, labeled by rule",
		}, []string{"rule"}),
		DuplicateNonces: promauto.NewCounter(prometheus.CounterOpts{
			Name: "wagebridge_attestation_duplicate_nonces_total",
			Help: "Total number of create attempts rejected for an existing period nonce",
		}),
		ReplaysRejected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "wagebridge_attestation_replays_rejected_total",
			Help: "Total number of requests rejected by the replay guard",
		}),
		VerificationResults: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "wagebridge_attestation_verifications_total",
			Help: "Total number of attestation verifications, labeled by outcome",
		}, []string{"outcome"}),
		ProofInputsExported: promauto.NewCounter(prometheus.CounterOpts{
			Name: "wagebridge_proof_inputs_exported_total",
			Help: "Total number of proof input bundles exported",
		}),
		ExpiredExports: promauto.NewCounter(prometheus.CounterOpts{
			Name: "wagebridge_proof_input_expired_rejections_total",
			Help: "Total number of proof input exports rejected for expired attestations",
		}),
		NullifierConflicts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "wagebridge_nullifier_conflicts_total",
			Help: "Total number of nullify attempts on an already spent nullifier",
		}),
		CreateLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "wagebridge_attestation_create_latency_seconds",
			Help:    "Latency of attestation create operations in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		StoreOperationLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "wagebridge_attestation_store_operation_latency_seconds",
			Help:    "Latency of attestation store operations in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{"operation"}),
	}
}

func (m *Metrics) IncrementCreated() {
	m.AttestationsCreated.Inc()
}

func (m *Metrics) IncrementValidationFailure(rule string) {
	m.ValidationFailures.WithLabelValues(rule).Inc()
}

func (m *Metrics) IncrementDuplicateNonce() {
	m.DuplicateNonces.Inc()
}

func (m *Metrics) IncrementReplayRejected() {
	m.ReplaysRejected.Inc()
}

func (m *Metrics) IncrementVerification(outcome string) {
	m.VerificationResults.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncrementProofInputExported() {
	m.ProofInputsExported.Inc()
}

func (m *Metrics) IncrementExpiredExport() {
	m.ExpiredExports.Inc()
}

func (m *Metrics) IncrementNullifierConflict() {
	m.NullifierConflicts.Inc()
}

// ObserveCreateLatency records the latency of a create operation.
func (m *Metrics) ObserveCreateLatency(durationSeconds float64) {
	m.CreateLatency.Observe(durationSeconds)
}

// ObserveStoreOperationLatency records the latency of a store operation.
func (m *Metrics) ObserveStoreOperationLatency(operation string, durationSeconds float64) {
	m.StoreOperationLatency.WithLabelValues(operation).Observe(durationSeconds)
}
