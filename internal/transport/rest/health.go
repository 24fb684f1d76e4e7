package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// DBPinger defines the minimal interface for journal DB health checks.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves health check endpoints. The journal database is
// optional; without it the service is always ready.
type HealthHandler struct {
	db      DBPinger
	version string
}

// NewHealthHandler creates a HealthHandler. db may be nil.
func NewHealthHandler(db DBPinger, version string) *HealthHandler {
	return &HealthHandler{db: db, version: version}
}

// HealthResponse is the JSON response for /health and /ready.
type HealthResponse struct {
	Status     string                `json:"status"`
	Version    string                `json:"version,omitempty"`
	Components map[string]CompStatus `json:"components,omitempty"`
	Timestamp  time.Time             `json:"timestamp"`
}

// CompStatus is the status of an individual component.
type CompStatus struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
}

// Live is the liveness probe. Always returns 200.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Timestamp: time.Now()})
}

// Ready is the readiness probe: 503 only when a configured journal is down.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	status, comp := h.checkJournal(r.Context())
	code := http.StatusOK
	if comp.Status == "down" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, HealthResponse{Status: status, Timestamp: time.Now()})
}

// Health reports the version and per-component status with latency.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	status, comp := h.checkJournal(r.Context())
	code := http.StatusOK
	if comp.Status == "down" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, HealthResponse{
		Status:     status,
		Version:    h.version,
		Components: map[string]CompStatus{"journal": comp},
		Timestamp:  time.Now(),
	})
}

func (h *HealthHandler) checkJournal(ctx context.Context) (string, CompStatus) {
	if h.db == nil {
		return "ok", CompStatus{Status: "disabled"}
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	start := time.Now()
	if err := h.db.Ping(ctx); err != nil {
		return "down", CompStatus{Status: "down"}
	}
	return "ok", CompStatus{Status: "ok", Latency: time.Since(start).String()}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
