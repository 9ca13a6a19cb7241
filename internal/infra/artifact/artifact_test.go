package artifact

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadForest(t *testing.T) {
	a, err := Load(filepath.Join("testdata", "forest.json"))
	require.NoError(t, err)
	require.Equal(t, KindForest, a.Kind())
	require.Equal(t, "rf-test", a.DeclaredVersion())
	require.Equal(t, "RandomForestRegressor", a.ModelType())
	require.Equal(t, 0.95, a.TrainingMetrics().R2)

	tests := []struct {
		row  []float64
		want float64
	}{
		{[]float64{10, 2, 9, 1, 3}, 11},    // (10 + 12) / 2
		{[]float64{10, 1, 9, 1, 5}, 25},    // (20 + 30) / 2
		{[]float64{40, 2, 12, 4, 3}, 28.5}, // (45 + 12) / 2
		{[]float64{40, 4, 12, 4, 3}, 18.5}, // (25 + 12) / 2
		{[]float64{20, 2, 0, 0, 3.5}, 11},  // thresholds are inclusive on the left
	}
	for _, tc := range tests {
		got, err := a.Score(tc.row)
		require.NoError(t, err)
		require.Equal(t, tc.want, got, "row %v", tc.row)
	}
}

func TestLoadLinear(t *testing.T) {
	a, err := Load(filepath.Join("testdata", "linear.json"))
	require.NoError(t, err)
	require.Equal(t, KindLinear, a.Kind())
	require.Nil(t, a.TrainingMetrics())

	got, err := a.Score([]float64{10, 2, 10, 3, 3})
	require.NoError(t, err)
	// -4 + 15 - 6 + 1 + 0 + 6
	require.InDelta(t, 12.0, got, 1e-9)
}

func TestScoreRejectsWrongRowLength(t *testing.T) {
	a, err := Load(filepath.Join("testdata", "linear.json"))
	require.NoError(t, err)
	_, err = a.Score([]float64{1, 2})
	require.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	require.ErrorIs(t, err, fs.ErrNotExist)

	_, err = Load("")
	require.True(t, errors.As(err, &loadErr))
}

func TestLoadCorruptFile(t *testing.T) {
	path := writeArtifact(t, `{"kind": "forest", "trees": [`)
	_, err := Load(path)
	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	require.Equal(t, path, loadErr.Path)
}

func TestDecodeRejectsInvalidArtifacts(t *testing.T) {
	tests := map[string]string{
		"missing kind":       `{"coefficients":[1,1,1,1,1]}`,
		"unknown kind":       `{"kind":"svm"}`,
		"feature drift":      `{"kind":"linear","features":["tokensAhead","activeCounters","hoursOfDay","dayOfWeek","avgServiceTime"],"coefficients":[1,1,1,1,1]}`,
		"feature order":      `{"kind":"linear","features":["activeCounters","tokensAhead","hourOfDay","dayOfWeek","avgServiceTime"],"coefficients":[1,1,1,1,1]}`,
		"short linear":       `{"kind":"linear","coefficients":[1,1,1]}`,
		"empty forest":       `{"kind":"forest","trees":[]}`,
		"empty tree":         `{"kind":"forest","trees":[{"nodes":[]}]}`,
		"bad feature index":  `{"kind":"forest","trees":[{"nodes":[{"feature":5,"threshold":1,"left":1,"right":2},{"leaf":true},{"leaf":true}]}]}`,
		"child out of range": `{"kind":"forest","trees":[{"nodes":[{"feature":0,"threshold":1,"left":1,"right":3},{"leaf":true},{"leaf":true}]}]}`,
		"cycle":              `{"kind":"forest","trees":[{"nodes":[{"feature":0,"threshold":1,"left":1,"right":2},{"feature":0,"threshold":1,"left":0,"right":2},{"leaf":true}]}]}`,
	}
	for name, doc := range tests {
		_, err := Decode([]byte(doc))
		require.Error(t, err, name)
	}
}

func TestDecodeAcceptsMatchingFeatureList(t *testing.T) {
	_, err := Decode([]byte(`{"kind":"linear","features":["tokensAhead","activeCounters","hourOfDay","dayOfWeek","avgServiceTime"],"coefficients":[1,1,1,1,1]}`))
	require.NoError(t, err)
}

type stubFetcher struct {
	payload string
	err     error
	dest    string
}

func (s *stubFetcher) Fetch(_ context.Context, dest string) error {
	s.dest = dest
	if s.err != nil {
		return s.err
	}
	return os.WriteFile(dest, []byte(s.payload), 0o600)
}

func TestOpenFetchesBeforeLoading(t *testing.T) {
	raw, err := os.ReadFile(filepath.Join("testdata", "linear.json"))
	require.NoError(t, err)
	fetcher := &stubFetcher{payload: string(raw)}
	dest := filepath.Join(t.TempDir(), "model.json")

	a, err := Open(context.Background(), dest, fetcher)
	require.NoError(t, err)
	require.Equal(t, dest, fetcher.dest)
	require.Equal(t, KindLinear, a.Kind())
}

func TestOpenFetchFailureIsLoadError(t *testing.T) {
	fetcher := &stubFetcher{err: errors.New("access denied")}
	_, err := Open(context.Background(), filepath.Join(t.TempDir(), "model.json"), fetcher)
	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	require.True(t, strings.Contains(err.Error(), "access denied"))
}

func TestOpenWithoutFetcherReadsLocalFile(t *testing.T) {
	a, err := Open(context.Background(), filepath.Join("testdata", "forest.json"), nil)
	require.NoError(t, err)
	require.Equal(t, KindForest, a.Kind())
}

func writeArtifact(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}
