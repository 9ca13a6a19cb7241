package waittime

import (
	"errors"
	"fmt"
	"math"

	"github.com/yanqian/queue-eta/pkg/features"
)

// Scorer evaluates one ordered feature row. Implementations must be safe for
// concurrent use and must not mutate themselves while scoring.
type Scorer interface {
	Score(row []float64) (float64, error)
}

// ShapeError reports a feature vector whose length differs from the contract.
type ShapeError struct {
	Got  int
	Want int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("feature vector has %d values, want %d", e.Got, e.Want)
}

// ErrNonFiniteScore is returned when the model yields NaN or Inf.
var ErrNonFiniteScore = errors.New("model returned a non-finite score")

// Predictor owns a loaded scorer and the deploy-time version tag it is served under.
// The tag is not derived from the scorer; keeping them in sync is a deployment concern.
type Predictor struct {
	scorer  Scorer
	version string
}

// NewPredictor binds a scorer to its version tag.
func NewPredictor(scorer Scorer, version string) (*Predictor, error) {
	if scorer == nil {
		return nil, errors.New("predictor requires a scorer")
	}
	if version == "" {
		return nil, errors.New("predictor requires a model version")
	}
	return &Predictor{scorer: scorer, version: version}, nil
}

// Version returns the configured model version tag.
func (p *Predictor) Version() string {
	return p.version
}

// Predict scores vector and returns the wait in minutes, clamped at zero and
// rounded to two decimals.
func (p *Predictor) Predict(vector []float64) (float64, error) {
	if len(vector) != features.Len {
		return 0, &ShapeError{Got: len(vector), Want: features.Len}
	}
	row := make([]float64, len(vector))
	copy(row, vector)

	raw, err := p.scorer.Score(row)
	if err != nil {
		return 0, fmt.Errorf("score features: %w", err)
	}
	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		return 0, ErrNonFiniteScore
	}
	return round2(math.Max(0, raw)), nil
}

// Info describes the served model. Scorers without metadata report kind "unknown".
func (p *Predictor) Info() ModelInfo {
	info := ModelInfo{
		ModelVersion: p.version,
		Kind:         "unknown",
		Features:     contractInfo(),
	}
	if d, ok := p.scorer.(Describer); ok {
		info.Kind = d.Kind()
		info.ModelType = d.ModelType()
		info.ArtifactVersion = d.DeclaredVersion()
		info.Metrics = d.TrainingMetrics()
	}
	return info
}

// roundLimit is past the point where float64 carries any fractional digits.
const roundLimit = 1e15

func round2(v float64) float64 {
	if math.Abs(v) >= roundLimit {
		return v
	}
	r := math.Round(v*100) / 100
	if r == 0 {
		return 0
	}
	return r
}
