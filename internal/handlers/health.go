package handlers

import (
	"encoding/json"
	"net/http"
)

// HealthHandler reports liveness for load balancers and the kid-device
// frontend's connectivity check. It carries no dependencies on purpose: a
// degraded storage backend still answers here.
type HealthHandler struct{}

// Handle implements GET /healthz.
func (HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	payload := map[string]string{
		"status":  "ok",
		"service": "kiddotube",
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}
