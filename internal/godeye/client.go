package godeye

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/binaryshield/godeye-console/internal/models"
	"github.com/sirupsen/logrus"
)

// DefaultTimeout is the hard cap on a single analysis request.
const DefaultTimeout = 60 * time.Second

// ErrRequestTimeout marks requests aborted by the timeout window, distinct
// from other network failures so callers can surface a timeout-specific
// message.
var ErrRequestTimeout = errors.New("analysis request timed out")

// HTTPError carries a non-2xx response from the backend.
type HTTPError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Status)
}

// Client talks to the GodEye analysis API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	retry      RetryConfig
	logger     *logrus.Logger
}

func NewClient(baseURL, apiKey string, logger *logrus.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		retry:  DefaultRetryConfig(),
		logger: logger,
	}
}

// WithTimeout overrides the per-request timeout.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	c.httpClient.Timeout = timeout
	return c
}

// WithRetry overrides the retry policy.
func (c *Client) WithRetry(retry RetryConfig) *Client {
	c.retry = retry
	return c
}

// Search submits a query for analysis and returns the structured result.
// Retries transient failures per the client's retry policy.
func (c *Client) Search(ctx context.Context, query, qtype string) (*models.AnalysisResult, error) {
	req := models.QueryRequest{Query: query, Type: qtype}

	var result models.AnalysisResult
	err := c.retryOperation(ctx, "search", func() error {
		result = models.AnalysisResult{}
		return c.makeRequest(ctx, http.MethodPost, "/api/search", req, &result)
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// HealthCheck probes the backend's health endpoint. Failures are non-fatal:
// any error collapses into a synthetic "unhealthy" status and is only logged.
func (c *Client) HealthCheck(ctx context.Context) models.HealthResponse {
	var health models.HealthResponse
	if err := c.makeRequest(ctx, http.MethodGet, "/health", nil, &health); err != nil {
		c.logger.WithError(err).Warn("Backend health check failed")
		return models.HealthResponse{Status: "unhealthy"}
	}
	return health
}

func (c *Client) makeRequest(ctx context.Context, method, endpoint string, payload interface{}, result interface{}) error {
	reqURL := c.baseURL + endpoint

	var body io.Reader
	var contentLength int

	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal payload: %w", err)
		}
		body = bytes.NewBuffer(jsonData)
		contentLength = len(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.WithFields(logrus.Fields{
		"method":   method,
		"url":      reqURL,
		"has_body": payload != nil,
		"size":     contentLength,
	}).Debug("Making GodEye API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return fmt.Errorf("%w after %s", ErrRequestTimeout, c.httpClient.Timeout)
		}
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"status_code":   resp.StatusCode,
		"method":        method,
		"url":           reqURL,
		"response_size": len(responseBody),
	}).Debug("GodEye API response received")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.errorFromResponse(resp, responseBody)
	}

	if result != nil && len(responseBody) > 0 {
		if err := json.Unmarshal(responseBody, result); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}

	return nil
}

// errorFromResponse extracts a message from an error body when the backend
// sent one, falling back to the HTTP status line.
func (c *Client) errorFromResponse(resp *http.Response, body []byte) error {
	httpErr := &HTTPError{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
	}

	var errBody struct {
		Message string `json:"message"`
		Detail  string `json:"detail"`
	}
	if err := json.Unmarshal(body, &errBody); err == nil {
		if errBody.Message != "" {
			httpErr.Message = errBody.Message
		} else if errBody.Detail != "" {
			httpErr.Message = errBody.Detail
		}
	}

	return httpErr
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Timeout()
	}
	return false
}
