// Package features is the single definition of the model inputs: their names,
// order, types and valid ranges. Serving validates against it and artifact
// exports are checked against it when loaded.
package features

import "math"

// Kind describes the numeric type a field accepts.
type Kind string

const (
	KindInteger Kind = "integer"
	KindFloat   Kind = "float"
)

// Canonical field names. Training exports and clients must use these exact spellings.
const (
	TokensAhead    = "tokensAhead"
	ActiveCounters = "activeCounters"
	HourOfDay      = "hourOfDay"
	DayOfWeek      = "dayOfWeek"
	AvgServiceTime = "avgServiceTime"
)

// Len is the number of entries in every feature vector.
const Len = 5

// Field is one entry of the feature contract. Max is +Inf when unbounded.
type Field struct {
	Name string
	Kind Kind
	Min  float64
	Max  float64
}

// Bounded reports whether the field has an upper bound.
func (f Field) Bounded() bool {
	return !math.IsInf(f.Max, 1)
}

func (f Field) inRange(v float64) bool {
	return v >= f.Min && v <= f.Max
}

var contract = [Len]Field{
	{Name: TokensAhead, Kind: KindInteger, Min: 0, Max: math.Inf(1)},
	{Name: ActiveCounters, Kind: KindInteger, Min: 1, Max: math.Inf(1)},
	{Name: HourOfDay, Kind: KindInteger, Min: 0, Max: 23},
	{Name: DayOfWeek, Kind: KindInteger, Min: 0, Max: 6},
	{Name: AvgServiceTime, Kind: KindFloat, Min: 0, Max: math.Inf(1)},
}

// Fields returns the ordered feature contract. The slice is a copy.
func Fields() []Field {
	out := make([]Field, Len)
	copy(out, contract[:])
	return out
}

// Names returns the field names in vector order.
func Names() []string {
	names := make([]string, Len)
	for i, f := range contract {
		names[i] = f.Name
	}
	return names
}

// Index returns the vector position of the named field, or -1.
func Index(name string) int {
	for i, f := range contract {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// MatchesNames reports whether names lists exactly the contract fields in order.
func MatchesNames(names []string) bool {
	if len(names) != Len {
		return false
	}
	for i, f := range contract {
		if names[i] != f.Name {
			return false
		}
	}
	return true
}
