package artifact

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/yanqian/queue-eta/internal/domain/waittime"
	"github.com/yanqian/queue-eta/pkg/features"
)

const (
	KindLinear = "linear"
	KindForest = "forest"
)

// LoadError is fatal at startup: the service must not serve without a model.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load model artifact %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Fetcher materialises the artifact at a local path before it is read.
type Fetcher interface {
	Fetch(ctx context.Context, dest string) error
}

// model is the scoring half of an artifact.
type model interface {
	score(row []float64) float64
}

// Artifact is a decoded regression model plus the metadata it was exported with.
// It is immutable after Decode and safe for concurrent Score calls.
type Artifact struct {
	kind      string
	version   string
	modelType string
	metrics   *waittime.TrainingMetric
	model     model
}

type document struct {
	Kind         string                   `json:"kind"`
	Version      string                   `json:"version"`
	ModelType    string                   `json:"modelType"`
	Features     []string                 `json:"features"`
	Metrics      *waittime.TrainingMetric `json:"metrics"`
	Intercept    float64                  `json:"intercept"`
	Coefficients []float64                `json:"coefficients"`
	Trees        []treeDocument           `json:"trees"`
}

// Open fetches the artifact when fetcher is non-nil, then loads it from path.
func Open(ctx context.Context, path string, fetcher Fetcher) (*Artifact, error) {
	if fetcher != nil {
		if err := fetcher.Fetch(ctx, path); err != nil {
			return nil, &LoadError{Path: path, Err: fmt.Errorf("fetch: %w", err)}
		}
	}
	return Load(path)
}

// Load reads and decodes the artifact file at path.
func Load(path string) (*Artifact, error) {
	if path == "" {
		return nil, &LoadError{Path: path, Err: errors.New("path is empty")}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	a, err := Decode(data)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return a, nil
}

// Decode parses an artifact document and checks it against the feature contract.
func Decode(data []byte) (*Artifact, error) {
	var doc document
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode artifact: %w", err)
	}

	if len(doc.Features) > 0 && !features.MatchesNames(doc.Features) {
		return nil, fmt.Errorf("artifact features %v do not match contract %v", doc.Features, features.Names())
	}

	a := &Artifact{
		kind:      doc.Kind,
		version:   doc.Version,
		modelType: doc.ModelType,
		metrics:   doc.Metrics,
	}

	switch doc.Kind {
	case KindLinear:
		m, err := newLinear(doc.Intercept, doc.Coefficients)
		if err != nil {
			return nil, err
		}
		a.model = m
	case KindForest:
		m, err := newForest(doc.Trees)
		if err != nil {
			return nil, err
		}
		a.model = m
	case "":
		return nil, errors.New("artifact kind is required")
	default:
		return nil, fmt.Errorf("unsupported artifact kind %q", doc.Kind)
	}
	return a, nil
}

// Score evaluates one ordered feature row.
func (a *Artifact) Score(row []float64) (float64, error) {
	if len(row) != features.Len {
		return 0, fmt.Errorf("row has %d values, want %d", len(row), features.Len)
	}
	return a.model.score(row), nil
}

func (a *Artifact) Kind() string { return a.kind }

func (a *Artifact) ModelType() string { return a.modelType }

// DeclaredVersion is the version written into the artifact by the trainer, if any.
func (a *Artifact) DeclaredVersion() string { return a.version }

func (a *Artifact) TrainingMetrics() *waittime.TrainingMetric {
	if a.metrics == nil {
		return nil
	}
	m := *a.metrics
	return &m
}

var (
	_ waittime.Scorer    = (*Artifact)(nil)
	_ waittime.Describer = (*Artifact)(nil)
)
