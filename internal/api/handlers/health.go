package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"securehook/internal/platform/config"
)

type HealthHandler struct {
	secrets config.Secrets
}

func NewHealthHandler(secrets config.Secrets) *HealthHandler {
	return &HealthHandler{secrets: secrets}
}

// Check reports whether every secret is configured. Values are never echoed.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{
		"WEBHOOK_TOKEN": "configured",
		"PASSWORD":      "configured",
		"SECRET":        "configured",
	}
	missing := h.secrets.Missing()
	for _, name := range missing {
		checks[name] = "missing"
	}

	status := "healthy"
	statusCode := http.StatusOK
	if len(missing) > 0 {
		status = "degraded"
		statusCode = http.StatusServiceUnavailable
	}

	response := struct {
		Status    string            `json:"status"`
		Timestamp int64             `json:"timestamp"`
		Checks    map[string]string `json:"checks"`
	}{
		Status:    status,
		Timestamp: time.Now().Unix(),
		Checks:    checks,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(response)
}
