package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap("prediction_failed", "prediction failed", cause)

	require.EqualError(t, err, "prediction failed: boom")
	require.ErrorIs(t, err, cause)
	require.True(t, IsCode(err, "prediction_failed"))
}

func TestCodeOfFindsWrappedAppError(t *testing.T) {
	err := fmt.Errorf("handler: %w", Wrap("validation_failed", "bad input", nil))
	require.Equal(t, "validation_failed", CodeOf(err))
	require.Equal(t, "", CodeOf(errors.New("plain")))
	require.EqualError(t, Wrap("x", "only message", nil), "only message")
}
