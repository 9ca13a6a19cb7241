package waittime

import "github.com/yanqian/queue-eta/pkg/features"

// Response is serialized back to API consumers.
type Response struct {
	EstimatedWaitMinutes float64 `json:"estimatedWaitMinutes"`
	ModelVersion         string  `json:"modelVersion"`
}

// ModelInfo describes the artifact currently served.
type ModelInfo struct {
	ModelVersion    string          `json:"modelVersion"`
	ArtifactVersion string          `json:"artifactVersion,omitempty"`
	Kind            string          `json:"kind"`
	ModelType       string          `json:"modelType,omitempty"`
	Features        []FeatureInfo   `json:"features"`
	Metrics         *TrainingMetric `json:"metrics,omitempty"`
}

// FeatureInfo is the JSON view of a contract field.
type FeatureInfo struct {
	Name string   `json:"name"`
	Type string   `json:"type"`
	Min  float64  `json:"min"`
	Max  *float64 `json:"max,omitempty"`
}

// TrainingMetric holds the offline evaluation recorded alongside an artifact.
type TrainingMetric struct {
	MAE  float64 `json:"mae"`
	RMSE float64 `json:"rmse"`
	R2   float64 `json:"r2"`
}

// Describer is implemented by scorers that carry artifact metadata.
type Describer interface {
	Kind() string
	ModelType() string
	DeclaredVersion() string
	TrainingMetrics() *TrainingMetric
}

func contractInfo() []FeatureInfo {
	fields := features.Fields()
	out := make([]FeatureInfo, 0, len(fields))
	for _, f := range fields {
		info := FeatureInfo{Name: f.Name, Type: string(f.Kind), Min: f.Min}
		if f.Bounded() {
			max := f.Max
			info.Max = &max
		}
		out = append(out, info)
	}
	return out
}

// HealthStatus is the liveness payload; it is only served once a model is loaded.
type HealthStatus struct {
	Status string `json:"status"`
}
