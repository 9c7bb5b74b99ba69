package results

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/binaryshield/godeye-console/internal/models"
	"github.com/binaryshield/godeye-console/internal/store"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*store.RedisStore, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return store.NewRedisStore(client, logrus.New()), client
}

func storedResult() *models.AnalysisResult {
	return &models.AnalysisResult{
		Status:    models.StatusSuccess,
		Summary:   "Analysis completed for example.com",
		Timestamp: "2026-08-30T12:00:00Z",
		QueryInfo: &models.QueryInfo{Query: "example.com", Type: "domain"},
		Analytics: &models.Analytics{TotalEntities: 2, AvgConfidence: 0.85, SourceCount: 2},
		Results: []models.Indicator{
			{Indicator: "example.com", Type: "domain", Confidence: 0.9, Connections: 3, Source: "whois"},
			{Indicator: "", Type: "", Confidence: 0.4, Connections: 0, Source: ""},
		},
	}
}

func TestRiskLevel(t *testing.T) {
	assert.Equal(t, RiskMedium, RiskLevel(0.79))
	assert.Equal(t, RiskHigh, RiskLevel(0.8))
	assert.Equal(t, RiskLow, RiskLevel(0.49))
	assert.Equal(t, RiskMedium, RiskLevel(0.5))
	assert.Equal(t, RiskHigh, RiskLevel(1.0))
	assert.Equal(t, RiskLow, RiskLevel(0))
}

func TestConfidenceTier(t *testing.T) {
	assert.Equal(t, "high", ConfidenceTier(0.8))
	assert.Equal(t, "medium", ConfidenceTier(0.79))
	assert.Equal(t, "low", ConfidenceTier(0.49))
}

func TestLoad_NoStoredResult(t *testing.T) {
	st, _ := newTestStore(t)
	c := NewController(st, nil, logrus.New())

	_, err := c.Load(context.Background())
	assert.ErrorIs(t, err, store.ErrNoStoredResult)
}

func TestLoad_MalformedPayload(t *testing.T) {
	st, client := newTestStore(t)
	require.NoError(t, client.Set(context.Background(), store.ResultKey, "{not json", 0).Err())

	c := NewController(st, nil, logrus.New())
	_, err := c.Load(context.Background())
	assert.ErrorIs(t, err, ErrMalformedResult)
}

func TestLoad_ErrorStatusRoutesToErrorPath(t *testing.T) {
	st, _ := newTestStore(t)
	require.NoError(t, st.SaveResult(context.Background(), &models.AnalysisResult{
		Status:  models.StatusError,
		Message: "analysis engine offline",
	}))

	c := NewController(st, nil, logrus.New())
	_, err := c.Load(context.Background())
	require.ErrorIs(t, err, ErrMalformedResult)
	assert.Contains(t, err.Error(), "analysis engine offline")
}

func TestLoad_MissingAnalyticsIsNotRenderable(t *testing.T) {
	st, _ := newTestStore(t)
	require.NoError(t, st.SaveResult(context.Background(), &models.AnalysisResult{
		Status:  models.StatusSuccess,
		Results: []models.Indicator{},
	}))

	c := NewController(st, nil, logrus.New())
	_, err := c.Load(context.Background())
	assert.ErrorIs(t, err, ErrMalformedResult)
}

func TestLoad_RendersViewModel(t *testing.T) {
	st, _ := newTestStore(t)
	require.NoError(t, st.SaveResult(context.Background(), storedResult()))

	c := NewController(st, TypeDistribution{}, logrus.New())
	vm, err := c.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "example.com", vm.Header.Query)
	assert.Equal(t, "domain", vm.Header.Type)
	assert.Equal(t, "Aug 30, 2026 12:00 UTC", vm.Header.Timestamp)

	assert.Equal(t, 2, vm.Stats.TotalEntities)
	assert.Equal(t, 85, vm.Stats.AvgConfidencePct)
	assert.Equal(t, RiskHigh, vm.Stats.RiskLevel)
	assert.Equal(t, CountUpDurationMs, vm.Stats.CountUpDurationMs)

	require.Len(t, vm.Rows, 2)
	first := vm.Rows[0]
	assert.Equal(t, "example.com", first.Indicator)
	assert.Equal(t, 90, first.ConfidencePct)
	assert.Equal(t, "high", first.ConfidenceTier)
	assert.Equal(t, 0, first.FadeDelayMs)

	// Absent fields default to "unknown"/0
	second := vm.Rows[1]
	assert.Equal(t, "unknown", second.Indicator)
	assert.Equal(t, "unknown", second.Type)
	assert.Equal(t, "unknown", second.Source)
	assert.Equal(t, "low", second.ConfidenceTier)
	assert.Equal(t, RowStaggerMs, second.FadeDelayMs)

	require.NotNil(t, vm.Chart)
	assert.Equal(t, []string{"domain", "unknown"}, vm.Chart.Labels)
	assert.Equal(t, []int{1, 1}, vm.Chart.Values)
}

func TestLoad_EmptyResultsRenderPlaceholder(t *testing.T) {
	st, _ := newTestStore(t)
	result := storedResult()
	result.Results = []models.Indicator{}
	result.Analytics = &models.Analytics{}
	require.NoError(t, st.SaveResult(context.Background(), result))

	c := NewController(st, TypeDistribution{}, logrus.New())
	vm, err := c.Load(context.Background())
	require.NoError(t, err)

	require.Len(t, vm.Rows, 1)
	assert.True(t, vm.Rows[0].Placeholder)
	assert.Nil(t, vm.Chart)
}

func TestLoad_ChartCapabilityAbsent(t *testing.T) {
	st, _ := newTestStore(t)
	require.NoError(t, st.SaveResult(context.Background(), storedResult()))

	c := NewController(st, nil, logrus.New())
	vm, err := c.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, vm.Chart)
}

func TestLoad_HeaderFallsBackToQueryMeta(t *testing.T) {
	st, _ := newTestStore(t)
	result := storedResult()
	result.QueryInfo = nil
	require.NoError(t, st.SaveResult(context.Background(), result))
	require.NoError(t, st.SaveQueryMeta(context.Background(), store.QueryMeta{
		Query:     "fallback.org",
		Type:      "domain",
		Timestamp: "2026-08-30T09:30:00Z",
	}))

	c := NewController(st, nil, logrus.New())
	vm, err := c.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fallback.org", vm.Header.Query)
}

func TestNewErrorView(t *testing.T) {
	view := NewErrorView("boom")
	assert.Equal(t, "boom", view.Message)
	assert.Equal(t, "/", view.RedirectTo)
	assert.Equal(t, 3, view.CountdownSeconds)
}
