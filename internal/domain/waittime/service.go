package waittime

import (
	"context"
	"errors"
	"log/slog"
	"time"

	apperrors "github.com/yanqian/queue-eta/pkg/errors"
	"github.com/yanqian/queue-eta/pkg/features"
	"github.com/yanqian/queue-eta/pkg/metrics"
)

// Error codes surfaced to the transport layer.
const (
	CodeValidationFailed = "validation_failed"
	CodePredictionFailed = "prediction_failed"
)

// Service exposes wait time estimation.
type Service interface {
	Predict(ctx context.Context, raw map[string]any) (Response, error)
	Model() ModelInfo
}

type service struct {
	predictor *Predictor
	logger    *slog.Logger
	now       func() time.Time
}

// NewService wires the validator and predictor into a request pipeline.
func NewService(predictor *Predictor, logger *slog.Logger) Service {
	return &service{
		predictor: predictor,
		logger:    logger.With("component", "waittime.service"),
		now:       time.Now,
	}
}

func (s *service) Predict(ctx context.Context, raw map[string]any) (Response, error) {
	start := s.now()

	vector, err := features.Validate(raw)
	if err != nil {
		var verr *features.ValidationError
		if errors.As(err, &verr) {
			for _, v := range verr.Violations {
				metrics.ObserveViolation(v.Field, string(v.Reason))
			}
		}
		metrics.ObservePrediction(s.now().Sub(start), metrics.OutcomeInvalid)
		return Response{}, apperrors.Wrap(CodeValidationFailed, "request failed validation", err)
	}

	minutes, err := s.predictor.Predict(vector)
	if err != nil {
		s.logger.ErrorContext(ctx, "prediction failed", "error", err)
		metrics.ObservePrediction(s.now().Sub(start), metrics.OutcomeError)
		return Response{}, apperrors.Wrap(CodePredictionFailed, "prediction failed", err)
	}

	metrics.ObservePrediction(s.now().Sub(start), metrics.OutcomeSuccess)
	metrics.ObserveEstimate(minutes)
	s.logger.DebugContext(ctx, "prediction served", "minutes", minutes, "model_version", s.predictor.Version())

	return Response{
		EstimatedWaitMinutes: minutes,
		ModelVersion:         s.predictor.Version(),
	}, nil
}

func (s *service) Model() ModelInfo {
	return s.predictor.Info()
}
