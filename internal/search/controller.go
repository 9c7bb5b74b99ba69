package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/binaryshield/godeye-console/internal/models"
	"github.com/binaryshield/godeye-console/internal/store"
	"github.com/binaryshield/godeye-console/internal/validate"
	"github.com/sirupsen/logrus"
)

var (
	ErrInvalidResponseShape = errors.New("backend response is not a well-formed analysis result")
	ErrAnalysisFailed       = errors.New("analysis failed")
)

// Searcher is the slice of the API client the controller needs.
type Searcher interface {
	Search(ctx context.Context, query, qtype string) (*models.AnalysisResult, error)
}

// Options tune the controller's perceived-latency behavior.
type Options struct {
	// MinLoading is the minimum time a submission takes from the caller's
	// perspective. Responses that arrive faster wait out the remainder.
	MinLoading time.Duration
	// RedirectDelay is passed through to the UI as a hint for how long to
	// show the success notification before navigating to results.
	RedirectDelay time.Duration
}

// Session identifies the submitting client for history tracking.
type Session struct {
	ID        string
	UserAgent string
	IPAddress string
}

// Outcome is what a successful submission hands back to the caller.
type Outcome struct {
	Result          *models.AnalysisResult
	Query           string
	Type            string
	ResponseTime    time.Duration
	RedirectDelayMs int
}

// Controller drives one search submission end to end: validate, persist query
// metadata, call the backend, shape-check, persist the result, record history.
// The caller guarantees at most one submission in flight per client.
type Controller struct {
	searcher Searcher
	store    store.Store
	records  models.SearchRecordRepository
	opts     Options
	logger   *logrus.Logger
}

func NewController(searcher Searcher, st store.Store, records models.SearchRecordRepository, opts Options, logger *logrus.Logger) *Controller {
	return &Controller{
		searcher: searcher,
		store:    st,
		records:  records,
		opts:     opts,
		logger:   logger,
	}
}

// Submit runs the pipeline for a single query.
func (c *Controller) Submit(ctx context.Context, req models.QueryRequest, session Session) (*Outcome, error) {
	qtype := req.Type
	if qtype == "" {
		qtype = models.QueryTypeAuto
	}

	query, err := validate.Query(req.Query, qtype)
	if err != nil {
		return nil, err
	}

	started := time.Now()

	meta := store.QueryMeta{
		Query:     query,
		Type:      qtype,
		Timestamp: started.UTC().Format(time.RFC3339),
	}
	if err := c.store.SaveQueryMeta(ctx, meta); err != nil {
		return nil, err
	}

	c.logger.WithFields(logrus.Fields{
		"query":   query,
		"type":    qtype,
		"session": session.ID,
	}).Info("Submitting analysis request")

	result, err := c.searcher.Search(ctx, query, qtype)
	elapsed := time.Since(started)
	if err != nil {
		c.recordHistory(query, qtype, nil, elapsed, session, false)
		return nil, c.classifyError(err)
	}

	if result == nil {
		c.recordHistory(query, qtype, nil, elapsed, session, false)
		return nil, ErrInvalidResponseShape
	}

	if result.Status != models.StatusSuccess {
		c.recordHistory(query, qtype, result, elapsed, session, false)
		if result.Message != "" {
			return nil, fmt.Errorf("%w: %s", ErrAnalysisFailed, result.Message)
		}
		return nil, ErrAnalysisFailed
	}

	if err := c.store.SaveResult(ctx, result); err != nil {
		c.recordHistory(query, qtype, result, elapsed, session, false)
		return nil, err
	}

	if err := c.waitMinimum(ctx, elapsed); err != nil {
		return nil, err
	}

	c.recordHistory(query, qtype, result, elapsed, session, true)

	c.logger.WithFields(logrus.Fields{
		"query":         query,
		"results_count": len(result.Results),
		"response_time": elapsed.Milliseconds(),
	}).Info("Search completed successfully")

	return &Outcome{
		Result:          result,
		Query:           query,
		Type:            qtype,
		ResponseTime:    elapsed,
		RedirectDelayMs: int(c.opts.RedirectDelay.Milliseconds()),
	}, nil
}

// classifyError maps decode failures onto the shape-error sentinel so the
// handler can distinguish them from network failures.
func (c *Controller) classifyError(err error) error {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return fmt.Errorf("%w: %v", ErrInvalidResponseShape, err)
	}
	return err
}

// waitMinimum holds the submission open until MinLoading has elapsed, so a
// fast backend response does not flash past the caller.
func (c *Controller) waitMinimum(ctx context.Context, elapsed time.Duration) error {
	remaining := c.opts.MinLoading - elapsed
	if remaining <= 0 {
		return nil
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(remaining):
		return nil
	}
}

// recordHistory writes the durable trace row. Failures are logged, never
// surfaced: history is observability, not part of the search contract.
func (c *Controller) recordHistory(query, qtype string, result *models.AnalysisResult, elapsed time.Duration, session Session, succeeded bool) {
	if c.records == nil {
		return
	}

	record := &models.SearchRecord{
		QueryText:       query,
		QueryType:       qtype,
		UserSession:     session.ID,
		SearchTimestamp: time.Now(),
		ResponseTimeMs:  int(elapsed.Milliseconds()),
		Succeeded:       succeeded,
		UserAgent:       session.UserAgent,
		IPAddress:       session.IPAddress,
	}
	if result != nil && result.Analytics != nil {
		record.ResultsCount = result.Analytics.TotalEntities
		record.AvgConfidence = result.Analytics.AvgConfidence
		record.SourceCount = result.Analytics.SourceCount
	} else if result != nil {
		record.ResultsCount = len(result.Results)
	}

	if err := c.records.Create(record); err != nil {
		c.logger.WithError(err).Error("Failed to record search history")
	}
}
