package features

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
)

// Vector is an ordered feature row matching Fields().
type Vector []float64

// Reason classifies a single violation.
type Reason string

const (
	ReasonMissing Reason = "missing"
	ReasonType    Reason = "type"
	ReasonRange   Reason = "range"
)

// Violation describes why one field was rejected.
type Violation struct {
	Field   string `json:"field"`
	Reason  Reason `json:"reason"`
	Message string `json:"message"`
}

// ValidationError lists every violated field of a request, in contract order.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Field+" "+v.Message)
	}
	return "invalid features: " + strings.Join(parts, "; ")
}

// Fields returns the names of the violated fields.
func (e *ValidationError) Fields() []string {
	names := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		names = append(names, v.Field)
	}
	return names
}

// Request is the typed form of a prediction request.
type Request struct {
	TokensAhead    int     `json:"tokensAhead"`
	ActiveCounters int     `json:"activeCounters"`
	HourOfDay      int     `json:"hourOfDay"`
	DayOfWeek      int     `json:"dayOfWeek"`
	AvgServiceTime float64 `json:"avgServiceTime"`
}

// Raw returns the request keyed by contract names so it can go through Validate.
func (r Request) Raw() map[string]any {
	return map[string]any{
		TokensAhead:    r.TokensAhead,
		ActiveCounters: r.ActiveCounters,
		HourOfDay:      r.HourOfDay,
		DayOfWeek:      r.DayOfWeek,
		AvgServiceTime: r.AvgServiceTime,
	}
}

// Validate checks raw against the contract and assembles the feature vector.
// All fields are inspected; the returned *ValidationError holds every violation.
func Validate(raw map[string]any) (Vector, error) {
	vec := make(Vector, Len)
	var violations []Violation

	for i, field := range contract {
		value, ok := raw[field.Name]
		if !ok || value == nil {
			violations = append(violations, Violation{Field: field.Name, Reason: ReasonMissing, Message: "is required"})
			continue
		}
		num, err := toNumber(value)
		if err != nil {
			violations = append(violations, Violation{Field: field.Name, Reason: ReasonType, Message: err.Error()})
			continue
		}
		if field.Kind == KindInteger && math.Trunc(num) != num {
			violations = append(violations, Violation{Field: field.Name, Reason: ReasonType, Message: "must be an integer"})
			continue
		}
		if !field.inRange(num) {
			violations = append(violations, Violation{Field: field.Name, Reason: ReasonRange, Message: rangeMessage(field)})
			continue
		}
		vec[i] = num
	}

	if len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}
	return vec, nil
}

var errNotFinite = errors.New("must be a finite number")

func toNumber(value any) (float64, error) {
	var num float64
	switch v := value.(type) {
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, errNotFinite
		}
		num = parsed
	case float64:
		num = v
	case float32:
		num = float64(v)
	case int:
		num = float64(v)
	case int32:
		num = float64(v)
	case int64:
		num = float64(v)
	default:
		return 0, fmt.Errorf("must be a number, got %T", value)
	}
	if math.IsNaN(num) || math.IsInf(num, 0) {
		return 0, errNotFinite
	}
	return num, nil
}

func rangeMessage(f Field) string {
	if f.Bounded() {
		return fmt.Sprintf("must be between %g and %g", f.Min, f.Max)
	}
	return fmt.Sprintf("must be >= %g", f.Min)
}
