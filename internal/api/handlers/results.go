package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/binaryshield/godeye-console/internal/export"
	"github.com/binaryshield/godeye-console/internal/models"
	"github.com/binaryshield/godeye-console/internal/results"
	"github.com/binaryshield/godeye-console/internal/store"
	"github.com/binaryshield/godeye-console/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type ResultsHandler struct {
	controller *results.Controller
	store      store.Store
	records    models.SearchRecordRepository
	logger     *logrus.Logger
}

func NewResultsHandler(controller *results.Controller, st store.Store, records models.SearchRecordRepository, logger *logrus.Logger) *ResultsHandler {
	return &ResultsHandler{
		controller: controller,
		store:      st,
		records:    records,
		logger:     logger,
	}
}

// HandleResults renders the stored analysis result as a view-model.
func (h *ResultsHandler) HandleResults(c *gin.Context) {
	vm, err := h.controller.Load(c.Request.Context())
	if err != nil {
		h.respondErrorView(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Results loaded", vm)
}

// HandleChart returns only the chart series for the stored result. Responds
// 204 when no chart builder is configured or the result has no indicators.
func (h *ResultsHandler) HandleChart(c *gin.Context) {
	vm, err := h.controller.Load(c.Request.Context())
	if err != nil {
		h.respondErrorView(c, err)
		return
	}

	if vm.Chart == nil {
		c.Status(http.StatusNoContent)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Chart data", vm.Chart)
}

// HandleExportJSON downloads the stored payload verbatim.
func (h *ResultsHandler) HandleExportJSON(c *gin.Context) {
	raw, err := h.store.LoadRawResult(c.Request.Context())
	if err != nil {
		h.respondErrorView(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename("json")))
	c.Data(http.StatusOK, "application/json", export.JSON(raw))
}

// HandleExportCSV downloads the indicator table as CSV. An empty indicator
// list yields a "no data" error instead of a header-only file.
func (h *ResultsHandler) HandleExportCSV(c *gin.Context) {
	raw, err := h.store.LoadRawResult(c.Request.Context())
	if err != nil {
		h.respondErrorView(c, err)
		return
	}

	var result models.AnalysisResult
	if err := json.Unmarshal(raw, &result); err != nil {
		h.respondErrorView(c, fmt.Errorf("%w: %v", results.ErrMalformedResult, err))
		return
	}

	data, err := export.CSV(&result)
	if err != nil {
		if errors.Is(err, export.ErrNoIndicators) {
			utils.ErrorResponse(c, http.StatusConflict, "No data to export", err)
			return
		}
		h.logger.WithError(err).Error("CSV export failed")
		utils.ErrorResponse(c, http.StatusInternalServerError, "Export failed", err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename("csv")))
	c.Data(http.StatusOK, "text/csv", data)
}

// HandleHistory returns the most recent search records.
func (h *ResultsHandler) HandleHistory(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	records, err := h.records.GetRecent(limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load search history")
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to load history", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "History retrieved", records)
}

// HandleClear wipes the stored result and its metadata, restarting the flow.
func (h *ResultsHandler) HandleClear(c *gin.Context) {
	if err := h.store.Clear(c.Request.Context()); err != nil {
		h.logger.WithError(err).Error("Failed to clear result store")
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to clear stored results", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Stored results cleared", nil)
}

// respondErrorView renders the full-page error state: no stored payload and
// malformed payloads both send the user back to the search page.
func (h *ResultsHandler) respondErrorView(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNoStoredResult):
		c.JSON(http.StatusNotFound, results.NewErrorView("No analysis results found. Run a search first."))

	case errors.Is(err, results.ErrMalformedResult):
		h.logger.WithError(err).Error("Stored result is malformed")
		c.JSON(http.StatusUnprocessableEntity, results.NewErrorView("Stored results are corrupted. Redirecting to search."))

	default:
		h.logger.WithError(err).Error("Failed to load results")
		c.JSON(http.StatusInternalServerError, results.NewErrorView("Failed to load results."))
	}
}
