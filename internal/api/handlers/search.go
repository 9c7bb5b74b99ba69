package handlers

import (
	"errors"
	"net/http"

	"github.com/binaryshield/godeye-console/internal/godeye"
	"github.com/binaryshield/godeye-console/internal/models"
	"github.com/binaryshield/godeye-console/internal/search"
	"github.com/binaryshield/godeye-console/internal/store"
	"github.com/binaryshield/godeye-console/internal/validate"
	"github.com/binaryshield/godeye-console/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type SearchHandler struct {
	controller *search.Controller
	logger     *logrus.Logger
}

func NewSearchHandler(controller *search.Controller, logger *logrus.Logger) *SearchHandler {
	return &SearchHandler{
		controller: controller,
		logger:     logger,
	}
}

// SearchResponse is the success payload for a submitted query.
type SearchResponse struct {
	Result          *models.AnalysisResult `json:"result"`
	Query           string                 `json:"query"`
	Type            string                 `json:"type"`
	ResponseTimeMs  int                    `json:"response_time_ms"`
	RedirectDelayMs int                    `json:"redirect_delay_ms"`
}

// HandleSearch processes search requests
func (h *SearchHandler) HandleSearch(c *gin.Context) {
	var req models.QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Error("Invalid search request")
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	session := search.Session{
		ID:        h.getUserSession(c),
		UserAgent: c.GetHeader("User-Agent"),
		IPAddress: c.ClientIP(),
	}

	h.logger.WithFields(logrus.Fields{
		"query":        req.Query,
		"type":         req.Type,
		"user_session": session.ID,
	}).Info("Processing search request")

	outcome, err := h.controller.Submit(c.Request.Context(), req, session)
	if err != nil {
		h.respondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Analysis completed", SearchResponse{
		Result:          outcome.Result,
		Query:           outcome.Query,
		Type:            outcome.Type,
		ResponseTimeMs:  int(outcome.ResponseTime.Milliseconds()),
		RedirectDelayMs: outcome.RedirectDelayMs,
	})
}

// HandleDetectType classifies a raw query without submitting it.
func (h *SearchHandler) HandleDetectType(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "Query parameter 'q' is required", nil)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Query classified", gin.H{
		"query": query,
		"type":  validate.DetectType(query),
	})
}

// respondError maps the error taxonomy onto HTTP statuses: validation errors
// are the client's to fix, backend and shape failures are upstream problems,
// storage failures are ours.
func (h *SearchHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, validate.ErrEmptyQuery),
		errors.Is(err, validate.ErrQueryTooLong),
		errors.Is(err, validate.ErrFormatMismatch):
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid query", err)

	case errors.Is(err, godeye.ErrRequestTimeout):
		h.logger.WithError(err).Error("Analysis request timed out")
		utils.ErrorResponse(c, http.StatusGatewayTimeout, "Analysis request timed out. Please try again.", err)

	case errors.Is(err, search.ErrAnalysisFailed),
		errors.Is(err, search.ErrInvalidResponseShape):
		h.logger.WithError(err).Error("Analysis failed")
		utils.ErrorResponse(c, http.StatusBadGateway, "Analysis failed", err)

	case errors.Is(err, store.ErrStorageWrite):
		h.logger.WithError(err).Error("Failed to persist analysis result")
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to save results", err)

	default:
		var httpErr *godeye.HTTPError
		if errors.As(err, &httpErr) {
			h.logger.WithError(err).Error("Backend request failed")
			utils.ErrorResponse(c, http.StatusBadGateway, "Analysis service error", err)
			return
		}
		h.logger.WithError(err).Error("Search failed")
		utils.ErrorResponse(c, http.StatusInternalServerError, "Search failed", err)
	}
}

func (h *SearchHandler) getUserSession(c *gin.Context) string {
	if session := c.GetHeader("X-Session-ID"); session != "" {
		return session
	}

	// Basic fingerprinting from IP + User-Agent
	return utils.GenerateSessionID(c.ClientIP() + c.GetHeader("User-Agent"))
}
