package godeye

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/binaryshield/godeye-console/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noRetry() RetryConfig {
	return RetryConfig{MaxRetries: 0, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond}
}

func TestClient_Search(t *testing.T) {
	expected := models.AnalysisResult{
		Status:  models.StatusSuccess,
		Summary: "Analysis completed for example.com",
		Analytics: &models.Analytics{
			TotalEntities: 2,
			AvgConfidence: 0.7,
			SourceCount:   1,
		},
		Results: []models.Indicator{
			{Indicator: "example.com", Type: "domain", Confidence: 0.9, Connections: 3, Source: "whois"},
			{Indicator: "1.2.3.4", Type: "ip", Confidence: 0.5, Connections: 1, Source: "whois"},
		},
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/api/search", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req models.QueryRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "example.com", req.Query)
		assert.Equal(t, "domain", req.Type)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(expected)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", logrus.New())

	result, err := client.Search(context.Background(), "example.com", "domain")
	require.NoError(t, err)
	assert.Equal(t, expected.Summary, result.Summary)
	require.Len(t, result.Results, 2)
	assert.Equal(t, "example.com", result.Results[0].Indicator)
	assert.True(t, result.Renderable())
}

func TestClient_ErrorMessageFromBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"message": "Query cannot be empty"})
	}))
	defer server.Close()

	client := NewClient(server.URL, "", logrus.New()).WithRetry(noRetry())

	_, err := client.Search(context.Background(), "", "auto")
	require.Error(t, err)

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.StatusCode)
	assert.Contains(t, err.Error(), "Query cannot be empty")
}

func TestClient_ErrorWithoutMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := NewClient(server.URL, "", logrus.New()).WithRetry(noRetry())

	_, err := client.Search(context.Background(), "example.com", "auto")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestClient_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", logrus.New()).
		WithTimeout(20 * time.Millisecond).
		WithRetry(noRetry())

	_, err := client.Search(context.Background(), "example.com", "auto")
	require.Error(t, err)
	// Timeouts surface as the timeout sentinel, not a generic network error.
	assert.ErrorIs(t, err, ErrRequestTimeout)
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(models.AnalysisResult{
			Status:    models.StatusSuccess,
			Analytics: &models.Analytics{},
			Results:   []models.Indicator{},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "", logrus.New()).WithRetry(RetryConfig{
		MaxRetries: 3,
		BaseDelay:  time.Millisecond,
		MaxDelay:   5 * time.Millisecond,
	})

	result, err := client.Search(context.Background(), "example.com", "auto")
	require.NoError(t, err)
	assert.True(t, result.Renderable())
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestClient_NoRetryOnClientErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", logrus.New()).WithRetry(RetryConfig{
		MaxRetries: 3,
		BaseDelay:  time.Millisecond,
		MaxDelay:   5 * time.Millisecond,
	})

	_, err := client.Search(context.Background(), "example.com", "auto")
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClient_NoRetryOnMalformedBody(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("{not json"))
	}))
	defer server.Close()

	client := NewClient(server.URL, "", logrus.New()).WithRetry(RetryConfig{
		MaxRetries: 3,
		BaseDelay:  time.Millisecond,
		MaxDelay:   5 * time.Millisecond,
	})

	// Decoding fails the same way every time, so a single attempt suffices
	_, err := client.Search(context.Background(), "example.com", "auto")
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClient_HealthCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(models.HealthResponse{Status: "healthy", Service: "GodEye OSINT API"})
	}))
	defer server.Close()

	client := NewClient(server.URL, "", logrus.New())
	health := client.HealthCheck(context.Background())
	assert.Equal(t, "healthy", health.Status)
}

func TestClient_HealthCheckFailureIsSynthetic(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", "", logrus.New()).WithRetry(noRetry())

	health := client.HealthCheck(context.Background())
	assert.Equal(t, "unhealthy", health.Status)
}
