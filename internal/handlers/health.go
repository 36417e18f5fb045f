package handlers

import (
	"net/http"
	"time"
)

// HealthResponse reports liveness plus coarse deployment context.
type HealthResponse struct {
	Message     string    `json:"message"`
	Timestamp   time.Time `json:"timestamp"`
	Environment string    `json:"environment"`
}

// Healthz answers liveness probes.
func Healthz(environment string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, HealthResponse{
			Message:     "Recruitment Platform API is running!",
			Timestamp:   time.Now().UTC(),
			Environment: environment,
		})
	}
}

// NotFound answers unknown routes with a JSON body instead of the
// default plain-text 404.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "Route not found")
}
