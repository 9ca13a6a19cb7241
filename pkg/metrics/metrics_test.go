package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRegisterIsIdempotent(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, Register(reg))
	require.NoError(t, Register(reg))
}

func TestObservePredictionNormalisesOutcome(t *testing.T) {
	before := testutil.ToFloat64(predictionsTotal.WithLabelValues(OutcomeError))
	ObservePrediction(-time.Second, "something-else")
	after := testutil.ToFloat64(predictionsTotal.WithLabelValues(OutcomeError))
	require.Equal(t, before+1, after)
}

func TestSetModelInfoKeepsSingleSeries(t *testing.T) {
	SetModelInfo("v1", "forest")
	SetModelInfo("v2", "linear")
	require.Equal(t, 1, testutil.CollectAndCount(modelInfo))
	require.Equal(t, 1.0, testutil.ToFloat64(modelInfo.WithLabelValues("v2", "linear")))
}
