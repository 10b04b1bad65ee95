package handlers

import (
	"encoding/json"
	"net/http"
)

// RootResponse represents the root endpoint response
// swagger:model RootResponse
type RootResponse struct {
	// Service banner
	// example: Registration API is running
	Message string `json:"message"`

	// Health indicator
	// example: healthy
	Status string `json:"status"`
}

// HealthResponse represents the health check response
// swagger:model HealthResponse
type HealthResponse struct {
	// Health indicator
	// example: healthy
	Status string `json:"status"`

	// Service name
	// example: registration-api
	Service string `json:"service"`
}

// NewRootHandler returns the root banner handler.
// @Summary Service banner
// @Tags health
// @Produce json
// @Success 200 {object} handlers.RootResponse
// @Router / [get]
func NewRootHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(RootResponse{
			Message: "Registration API is running",
			Status:  "healthy",
		})
	}
}

// NewHealthHandler returns the health check handler. It reports healthy
// regardless of datastore or message-service availability.
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} handlers.HealthResponse
// @Router /health [get]
func NewHealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(HealthResponse{
			Status:  "healthy",
			Service: "registration-api",
		})
	}
}
