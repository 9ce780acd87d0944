// Package handlers implements HTTP handlers for the airbuds-price-predictor API.
package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Readiness reports whether the price model is loaded.
type Readiness interface {
	Ready() bool
	Backend() string
}

// HealthHandler provides health and readiness endpoints.
type HealthHandler struct {
	model Readiness
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(r Readiness) *HealthHandler {
	return &HealthHandler{model: r}
}

// Healthz returns 200 if the process is running.
//
// @Summary Liveness check
// @Description Returns 200 if the process is running.
// @Tags health
// @Produce json
// @Success 200 {object} StatusResponse
// @Router /healthz [get]
func (*HealthHandler) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, StatusResponse{Status: "ok"})
}

// Readyz returns 200 if the price model loaded at startup, 503 otherwise.
//
// @Summary Readiness check
// @Description Returns 200 if the price model is loaded, 503 otherwise.
// @Tags health
// @Produce json
// @Success 200 {object} StatusResponse
// @Failure 503 {object} StatusResponse
// @Router /readyz [get]
func (h *HealthHandler) Readyz(c echo.Context) error {
	if !h.model.Ready() {
		return c.JSON(http.StatusServiceUnavailable, StatusResponse{Status: "unavailable"})
	}
	return c.JSON(http.StatusOK, StatusResponse{Status: "ready", Backend: h.model.Backend()})
}
