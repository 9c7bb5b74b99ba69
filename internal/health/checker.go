package health

import (
	"context"
	"fmt"
	"time"

	"github.com/binaryshield/godeye-console/internal/database"
	"github.com/binaryshield/godeye-console/internal/godeye"
	"github.com/binaryshield/godeye-console/internal/models"
	"github.com/sirupsen/logrus"
)

// HealthChecker manages health checks for all services
type HealthChecker struct {
	dbManager  *database.Manager
	client     *godeye.Client
	healthRepo models.SystemHealthRepository
	logger     *logrus.Logger
}

func NewHealthChecker(dbManager *database.Manager, client *godeye.Client, healthRepo models.SystemHealthRepository, logger *logrus.Logger) *HealthChecker {
	return &HealthChecker{
		dbManager:  dbManager,
		client:     client,
		healthRepo: healthRepo,
		logger:     logger,
	}
}

// ServiceHealth represents the health status of a service
type ServiceHealth struct {
	Name         string `json:"name"`
	Status       string `json:"status"`
	ResponseTime int    `json:"response_time_ms"`
	Error        string `json:"error,omitempty"`
	LastChecked  string `json:"last_checked"`
}

// OverallHealth represents the overall system health
type OverallHealth struct {
	Status   string          `json:"status"`
	Services []ServiceHealth `json:"services"`
	Uptime   string          `json:"uptime"`
}

// CheckPostgreSQL checks PostgreSQL database health
func (h *HealthChecker) CheckPostgreSQL() ServiceHealth {
	start := time.Now()
	err := h.dbManager.PingDatabase()
	responseTime := int(time.Since(start).Milliseconds())

	status := "healthy"
	errorMsg := ""
	if err != nil {
		status = "unhealthy"
		errorMsg = err.Error()
		h.logger.WithError(err).Error("PostgreSQL health check failed")
	}

	h.healthRepo.UpdateServiceHealth("postgresql", status, responseTime, errorMsg)

	return ServiceHealth{
		Name:         "postgresql",
		Status:       status,
		ResponseTime: responseTime,
		Error:        errorMsg,
		LastChecked:  time.Now().Format(time.RFC3339),
	}
}

// CheckRedis checks the result store health
func (h *HealthChecker) CheckRedis() ServiceHealth {
	start := time.Now()
	err := h.dbManager.PingRedis()
	responseTime := int(time.Since(start).Milliseconds())

	status := "healthy"
	errorMsg := ""
	if err != nil {
		status = "unhealthy"
		errorMsg = err.Error()
		h.logger.WithError(err).Error("Redis health check failed")
	}

	h.healthRepo.UpdateServiceHealth("redis", status, responseTime, errorMsg)

	return ServiceHealth{
		Name:         "redis",
		Status:       status,
		ResponseTime: responseTime,
		Error:        errorMsg,
		LastChecked:  time.Now().Format(time.RFC3339),
	}
}

// CheckBackend checks the GodEye analysis API. The client already collapses
// failures into a synthetic unhealthy status, so this never errors.
func (h *HealthChecker) CheckBackend(ctx context.Context) ServiceHealth {
	start := time.Now()

	probeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	resp := h.client.HealthCheck(probeCtx)
	responseTime := int(time.Since(start).Milliseconds())

	status := "healthy"
	errorMsg := ""
	if resp.Status != "healthy" {
		status = "unhealthy"
		errorMsg = fmt.Sprintf("backend reported %q", resp.Status)
	}

	h.healthRepo.UpdateServiceHealth("godeye_api", status, responseTime, errorMsg)

	return ServiceHealth{
		Name:         "godeye_api",
		Status:       status,
		ResponseTime: responseTime,
		Error:        errorMsg,
		LastChecked:  time.Now().Format(time.RFC3339),
	}
}

// CheckAll performs health checks on all services
func (h *HealthChecker) CheckAll(ctx context.Context) OverallHealth {
	services := []ServiceHealth{
		h.CheckPostgreSQL(),
		h.CheckRedis(),
		h.CheckBackend(ctx),
	}

	overallStatus := "healthy"
	for _, service := range services {
		if service.Status == "unhealthy" {
			overallStatus = "unhealthy"
			break
		}
		if service.Status == "degraded" && overallStatus == "healthy" {
			overallStatus = "degraded"
		}
	}

	return OverallHealth{
		Status:   overallStatus,
		Services: services,
		Uptime:   h.getUptime(),
	}
}

var startTime = time.Now()

func (h *HealthChecker) getUptime() string {
	return time.Since(startTime).Round(time.Second).String()
}
