package handlers

import (
	"net/http"
	"time"

	"github.com/binaryshield/godeye-console/internal/health"
	"github.com/binaryshield/godeye-console/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type HealthHandler struct {
	checker *health.HealthChecker
	logger  *logrus.Logger
}

func NewHealthHandler(checker *health.HealthChecker, logger *logrus.Logger) *HealthHandler {
	return &HealthHandler{
		checker: checker,
		logger:  logger,
	}
}

// HandleHealth reports overall service health.
func (h *HealthHandler) HandleHealth(c *gin.Context) {
	overall := h.checker.CheckAll(c.Request.Context())

	status := http.StatusOK
	if overall.Status == "unhealthy" {
		status = http.StatusServiceUnavailable
	}

	services := make(map[string]string, len(overall.Services))
	for _, svc := range overall.Services {
		services[svc.Name] = svc.Status
	}

	c.JSON(status, models.HealthResponse{
		Status:    overall.Status,
		Service:   "GodEye Console",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Services:  services,
	})
}

// HandleStatus reports per-component status detail.
func (h *HealthHandler) HandleStatus(c *gin.Context) {
	overall := h.checker.CheckAll(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{
		"status":    overall.Status,
		"uptime":    overall.Uptime,
		"services":  overall.Services,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
