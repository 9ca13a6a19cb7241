// Package client is a small Go client for the wait time estimation API, meant
// for queue backends that want an ETA next to each issued token.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yanqian/queue-eta/pkg/features"
)

const (
	defaultTimeout = 2 * time.Second
	errorBodyLimit = 16 << 10
)

// APIError is returned for any non-2xx response.
type APIError struct {
	Status     int
	Code       string
	Message    string
	Violations []features.Violation
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("wait time api: status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("wait time api: status %d %s: %s", e.Status, e.Code, e.Message)
}

// Estimate is a served wait time prediction.
type Estimate struct {
	EstimatedWaitMinutes float64 `json:"estimatedWaitMinutes"`
	ModelVersion         string  `json:"modelVersion"`
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the per-request timeout. A client supplied through
// WithHTTPClient is copied first, never modified.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			hc := *c.httpClient
			hc.Timeout = d
			c.httpClient = &hc
		}
	}
}

// Client talks to a running inference service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New builds a client for the service at baseURL, e.g. http://localhost:8001.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Estimate requests a wait time for req. The request is validated locally
// first so obviously bad input never leaves the process.
func (c *Client) Estimate(ctx context.Context, req features.Request) (Estimate, error) {
	if _, err := features.Validate(req.Raw()); err != nil {
		return Estimate{}, err
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return Estimate{}, fmt.Errorf("encode predict request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(payload))
	if err != nil {
		return Estimate{}, fmt.Errorf("build predict request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	var out Estimate
	if err := c.do(httpReq, &out); err != nil {
		return Estimate{}, err
	}
	return out, nil
}

// Health returns nil when the service reports {"status":"ok"}.
func (c *Client) Health(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("build health request: %w", err)
	}
	var out struct {
		Status string `json:"status"`
	}
	if err := c.do(httpReq, &out); err != nil {
		return err
	}
	if out.Status != "ok" {
		return fmt.Errorf("wait time api unhealthy: status %q", out.Status)
	}
	return nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("wait time api request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode wait time response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
	apiErr := &APIError{Status: resp.StatusCode}

	var envelope struct {
		Error struct {
			Code       string               `json:"code"`
			Message    string               `json:"message"`
			Violations []features.Violation `json:"violations"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Error.Code != "" {
		apiErr.Code = envelope.Error.Code
		apiErr.Message = envelope.Error.Message
		apiErr.Violations = envelope.Error.Violations
		return apiErr
	}
	apiErr.Message = strings.TrimSpace(string(raw))
	return apiErr
}
