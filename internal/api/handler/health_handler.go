package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lodgeroll/membership/internal/core/ports"
)

// HealthHandler serves GET /health (liveness) and GET /health/ready
// (readiness against the active document store).
type HealthHandler struct {
	store   ports.DocumentStore
	backend string
}

func NewHealthHandler(store ports.DocumentStore, backend string) *HealthHandler {
	return &HealthHandler{store: store, backend: backend}
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

// Liveness returns 200 immediately; it confirms the process is alive.
func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// Readiness pings the document store before declaring the service ready.
func (h *HealthHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	deps := make(map[string]dependencyStatus)
	status, httpStatus := "ok", http.StatusOK

	if err := h.store.Ping(ctx); err != nil {
		deps[h.backend] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
		status, httpStatus = "degraded", http.StatusServiceUnavailable
	} else {
		deps[h.backend] = dependencyStatus{Status: "ok"}
	}

	return c.JSON(httpStatus, readinessResponse{
		Status:       status,
		Dependencies: deps,
	})
}
