package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/queue-eta/internal/domain/waittime"
	apperrors "github.com/yanqian/queue-eta/pkg/errors"
	"github.com/yanqian/queue-eta/pkg/features"
)

const maxBodyBytes = 64 << 10

// Handler wires the HTTP transport to the wait time service.
type Handler struct {
	svc    waittime.Service
	logger *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(svc waittime.Service, logger *slog.Logger) *Handler {
	return &Handler{
		svc:    svc,
		logger: logger.With("component", "http.handler"),
	}
}

// Health is a liveness probe. The router is only built after the model loads.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, waittime.HealthStatus{Status: "ok"})
}

// Predict validates the body against the feature contract and returns an estimate.
func (h *Handler) Predict(c *gin.Context) {
	raw, err := decodeObject(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			abortWithError(c, NewHTTPError(http.StatusRequestEntityTooLarge, "request_too_large",
				fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit), err))
			return
		}
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	resp, err := h.svc.Predict(c.Request.Context(), raw)
	if err != nil {
		abortWithError(c, predictError(err))
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Model describes the served artifact and the feature contract it expects.
func (h *Handler) Model(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Model())
}

func predictError(err error) *HTTPError {
	switch {
	case apperrors.IsCode(err, waittime.CodeValidationFailed):
		httpErr := NewHTTPError(http.StatusUnprocessableEntity, waittime.CodeValidationFailed, errMessage(err), err)
		var verr *features.ValidationError
		if errors.As(err, &verr) {
			httpErr.Violations = verr.Violations
		}
		return httpErr
	case apperrors.IsCode(err, waittime.CodePredictionFailed):
		return NewHTTPError(http.StatusBadRequest, waittime.CodePredictionFailed, errMessage(err), err)
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal_error", "something went wrong", err)
	}
}

// decodeObject reads exactly one JSON object, keeping numbers as json.Number so
// integer fields can be told apart from fractional input.
func decodeObject(body io.Reader) (map[string]any, error) {
	if body == nil {
		return nil, errors.New("request body is required")
	}
	dec := json.NewDecoder(body)
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("request body is required")
		}
		return nil, err
	}
	if raw == nil {
		return nil, errors.New("request body must be a JSON object")
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("request body must contain a single JSON object")
	}
	return raw, nil
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
