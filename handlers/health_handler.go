package handlers

import (
	"net/http"
	"sort"
)

type HealthResponse struct {
	Status   string            `json:"status"`
	Backends map[string]string `json:"backends"`
	Errors   []string          `json:"errors,omitempty"`
}

// HealthCheck pings every configured backend.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.withTimeout(r)
	defer cancel()

	response := HealthResponse{Status: "ok", Backends: map[string]string{}}

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			response.Status = "error"
			response.Backends[name] = "connection_error"
			response.Errors = append(response.Errors, err.Error())
			continue
		}
		response.Backends[name] = "connected"
	}

	code := http.StatusOK
	if response.Status != "ok" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, response)
}
