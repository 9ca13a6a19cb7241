package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// OutcomeSuccess labels requests that produced an estimate.
	OutcomeSuccess = "success"
	// OutcomeInvalid labels requests rejected by validation.
	OutcomeInvalid = "invalid"
	// OutcomeError labels requests that failed inside the predictor.
	OutcomeError = "error"
)

var (
	predictionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "queue_eta",
			Name:      "predictions_total",
			Help:      "Total number of prediction requests, partitioned by outcome.",
		},
		[]string{"outcome"},
	)

	predictionDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "queue_eta",
			Name:      "prediction_seconds",
			Help:      "Time spent validating and scoring a request.",
			Buckets:   []float64{0.00005, 0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01},
		},
	)

	estimatedWaitMinutes = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "queue_eta",
			Name:      "estimated_wait_minutes",
			Help:      "Distribution of served wait time estimates.",
			Buckets:   []float64{1, 2, 5, 10, 15, 30, 45, 60, 90, 120, 180},
		},
	)

	violationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "queue_eta",
			Name:      "validation_violations_total",
			Help:      "Rejected request fields, partitioned by field and reason.",
		},
		[]string{"field", "reason"},
	)

	modelInfo = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "queue_eta",
			Name:      "model_info",
			Help:      "Constant 1 labelled with the served model version and artifact kind.",
		},
		[]string{"version", "kind"},
	)
)

// Register attaches queue-eta collectors to the supplied Prometheus registerer.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		predictionsTotal,
		predictionDurationSeconds,
		estimatedWaitMinutes,
		violationsTotal,
		modelInfo,
	}

	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

// ObservePrediction records a request duration and outcome label.
func ObservePrediction(duration time.Duration, outcome string) {
	switch outcome {
	case OutcomeSuccess, OutcomeInvalid:
	default:
		outcome = OutcomeError
	}
	predictionsTotal.WithLabelValues(outcome).Inc()
	if duration < 0 {
		duration = 0
	}
	predictionDurationSeconds.Observe(duration.Seconds())
}

// ObserveEstimate records a served estimate.
func ObserveEstimate(minutes float64) {
	estimatedWaitMinutes.Observe(minutes)
}

// ObserveViolation counts one rejected field.
func ObserveViolation(field, reason string) {
	violationsTotal.WithLabelValues(field, reason).Inc()
}

// SetModelInfo publishes the served model identity.
func SetModelInfo(version, kind string) {
	modelInfo.Reset()
	modelInfo.WithLabelValues(version, kind).Set(1)
}
