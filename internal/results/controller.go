package results

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/binaryshield/godeye-console/internal/models"
	"github.com/binaryshield/godeye-console/internal/store"
	"github.com/sirupsen/logrus"
)

// ErrMalformedResult marks a stored payload that does not decode or fails the
// renderable shape invariant. The only recovery is restarting the flow.
var ErrMalformedResult = errors.New("stored analysis result is malformed")

const timestampDisplayLayout = "Jan 2, 2006 15:04 UTC"

// Controller reads the persisted result and derives the results view.
type Controller struct {
	store  store.Store
	chart  ChartBuilder
	logger *logrus.Logger
}

// NewController builds a results controller. chart may be nil; the chart
// section is skipped when no builder is available.
func NewController(st store.Store, chart ChartBuilder, logger *logrus.Logger) *Controller {
	return &Controller{
		store:  st,
		chart:  chart,
		logger: logger,
	}
}

// Load reads the stored payload, validates it, and renders the view-model.
// Rendering either fully succeeds or fails; there is no partial view.
func (c *Controller) Load(ctx context.Context) (*ViewModel, error) {
	raw, err := c.store.LoadRawResult(ctx)
	if err != nil {
		return nil, err
	}

	var result models.AnalysisResult
	if err := json.Unmarshal(raw, &result); err != nil {
		c.logger.WithError(err).Error("Stored result failed to decode")
		return nil, fmt.Errorf("%w: %v", ErrMalformedResult, err)
	}

	if !result.Renderable() {
		if result.Status == models.StatusError && result.Message != "" {
			return nil, fmt.Errorf("%w: %s", ErrMalformedResult, result.Message)
		}
		return nil, ErrMalformedResult
	}

	vm := c.render(ctx, &result)

	c.logger.WithFields(logrus.Fields{
		"query":      vm.Header.Query,
		"rows":       len(vm.Rows),
		"risk_level": vm.Stats.RiskLevel,
	}).Debug("Results view rendered")

	return vm, nil
}

func (c *Controller) render(ctx context.Context, result *models.AnalysisResult) *ViewModel {
	vm := &ViewModel{
		Header: c.buildHeader(ctx, result),
		Stats: Stats{
			TotalEntities:     result.Analytics.TotalEntities,
			AvgConfidence:     result.Analytics.AvgConfidence,
			AvgConfidencePct:  int(result.Analytics.AvgConfidence*100 + 0.5),
			SourceCount:       result.Analytics.SourceCount,
			RiskLevel:         RiskLevel(result.Analytics.AvgConfidence),
			CountUpDurationMs: CountUpDurationMs,
		},
	}

	if len(result.Results) == 0 {
		vm.Rows = []TableRow{placeholderRow()}
	} else {
		vm.Rows = make([]TableRow, 0, len(result.Results))
		for i, ind := range result.Results {
			vm.Rows = append(vm.Rows, rowFromIndicator(ind, i))
		}
	}

	if c.chart != nil {
		vm.Chart = c.chart.Build(result.Results)
	}

	return vm
}

// buildHeader prefers the payload's own query info and falls back to the
// metadata keys written at submit time.
func (c *Controller) buildHeader(ctx context.Context, result *models.AnalysisResult) Header {
	header := Header{
		Summary:   result.Summary,
		Timestamp: formatTimestamp(result.Timestamp),
	}

	if result.QueryInfo != nil {
		header.Query = result.QueryInfo.Query
		header.Type = result.QueryInfo.Type
	}

	if header.Query == "" || header.Timestamp == "" {
		meta, err := c.store.LoadQueryMeta(ctx)
		if err != nil {
			c.logger.WithError(err).Warn("Query metadata fallback unavailable")
			return header
		}
		if header.Query == "" {
			header.Query = meta.Query
			header.Type = meta.Type
		}
		if header.Timestamp == "" {
			header.Timestamp = formatTimestamp(meta.Timestamp)
		}
	}

	return header
}

func formatTimestamp(value string) string {
	if value == "" {
		return ""
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC().Format(timestampDisplayLayout)
		}
	}
	// Unparseable timestamps display as-is rather than erroring the view.
	return value
}
