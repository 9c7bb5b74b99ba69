package godeye

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"
)

type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 3,
		BaseDelay:  2 * time.Second,
		MaxDelay:   15 * time.Second,
	}
}

// isRetryable reports whether an error is worth another attempt. Client-side
// errors (4xx) and exhausted timeout windows are terminal.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrRequestTimeout) {
		return false
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode >= 500
	}
	// A 2xx body that fails to decode will fail the same way every time
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return false
	}
	// Connection-level failures
	return true
}

func (c *Client) retryOperation(ctx context.Context, name string, operation func() error) error {
	for attempt := 0; attempt <= c.retry.MaxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		err := operation()
		if err == nil {
			return nil
		}

		if !isRetryable(err) {
			return err
		}

		if attempt == c.retry.MaxRetries {
			return fmt.Errorf("operation failed after %d retries: %w", c.retry.MaxRetries, err)
		}

		delay := time.Duration(float64(c.retry.BaseDelay) * math.Pow(1.5, float64(attempt)))
		if delay > c.retry.MaxDelay {
			delay = c.retry.MaxDelay
		}

		c.logger.WithFields(logrus.Fields{
			"operation": name,
			"attempt":   attempt + 1,
			"delay":     delay,
			"error":     err.Error(),
		}).Warn("Retrying GodEye operation")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	return nil
}
