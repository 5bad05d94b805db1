// Package handler provides HTTP handlers for the StrideLoop API.
package handler

import (
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/strideloop/strideloop/internal/api/models"
	"github.com/strideloop/strideloop/internal/api/response"
	"github.com/strideloop/strideloop/internal/provider/resilience"
)

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	registry  *resilience.Registry
	pool      *pgxpool.Pool
}

// NewOpsHandler creates a new OpsHandler. The pool may be nil when the
// service runs with in-memory storage.
func NewOpsHandler(version, buildTime string, registry *resilience.Registry, pool *pgxpool.Pool) *OpsHandler {
	return &OpsHandler{
		version:   version,
		buildTime: buildTime,
		registry:  registry,
		pool:      pool,
	}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]interface{}{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /v1/ops/ready - readiness check.
// Fails when the database is unreachable or the directions provider's
// circuit is open.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	status := models.HealthStatusOK

	if h.pool != nil {
		if err := h.pool.Ping(r.Context()); err != nil {
			health := models.Health{
				Status: models.HealthStatusFail,
				Time:   models.Timestamp(time.Now()),
				Details: map[string]interface{}{
					"database": err.Error(),
				},
			}
			response.JSON(w, r, http.StatusServiceUnavailable, health)
			return
		}
	}

	if h.registry != nil {
		for _, provider := range h.registry.GetAllHealth() {
			if provider.IsUnhealthy() {
				status = models.HealthStatusDegraded
			}
		}
	}

	health := models.Health{
		Status: status,
		Time:   models.Timestamp(time.Now()),
	}
	response.JSON(w, r, http.StatusOK, health)
}

// SystemStatus handles GET /v1/ops/status - provider and subsystem status.
func (h *OpsHandler) SystemStatus(w http.ResponseWriter, r *http.Request) {
	now := models.Timestamp(time.Now())
	overall := models.HealthStatusOK

	var subsystems []models.SubsystemStatus
	dbStatus := models.HealthStatusOK
	if h.pool != nil {
		if err := h.pool.Ping(r.Context()); err != nil {
			dbStatus = models.HealthStatusFail
			overall = models.HealthStatusDegraded
			detail := err.Error()
			subsystems = append(subsystems, models.SubsystemStatus{Name: "postgres", Status: dbStatus, Detail: &detail})
		} else {
			subsystems = append(subsystems, models.SubsystemStatus{Name: "postgres", Status: dbStatus})
		}
	} else {
		detail := "in-memory storage"
		subsystems = append(subsystems, models.SubsystemStatus{Name: "storage", Status: models.HealthStatusOK, Detail: &detail})
	}

	var providers []models.ProviderStatus
	if h.registry != nil {
		for _, health := range h.registry.GetAllHealth() {
			providerStatus := models.HealthStatusOK
			switch {
			case health.IsUnhealthy():
				providerStatus = models.HealthStatusFail
				overall = models.HealthStatusDegraded
			case health.IsDegraded():
				providerStatus = models.HealthStatusDegraded
			}

			status := models.ProviderStatus{
				Provider: health.Name,
				Status:   providerStatus,
			}
			if health.LastSuccessAt != nil {
				ts := models.Timestamp(*health.LastSuccessAt)
				status.LastSuccessAt = &ts
			}
			if health.LastFailureAt != nil {
				ts := models.Timestamp(*health.LastFailureAt)
				status.LastFailureAt = &ts
			}
			if health.LastError != "" {
				msg := health.LastError
				status.Message = &msg
			}
			providers = append(providers, status)
		}
	}

	systemStatus := models.SystemStatus{
		Status:     overall,
		Time:       now,
		Subsystems: subsystems,
		Providers:  providers,
	}
	response.JSON(w, r, http.StatusOK, systemStatus)
}
