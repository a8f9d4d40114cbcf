package api

import (
	"encoding/json"
	"net/http"
	"time"

	apperrors "github.com/scaife-viewer/ctsresolver/core/errors"
)

// APIResponse is the standard API response wrapper.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *APIMeta    `json:"meta,omitempty"`
}

// APIError represents an API error.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// APIMeta contains response metadata.
type APIMeta struct {
	Timestamp string `json:"timestamp"`
}

// HealthInfo is the health check response.
type HealthInfo struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}

var startTime = time.Now()

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Endpoint not found")
		return
	}

	respond(w, http.StatusOK, map[string]interface{}{
		"name": "CTS Resolver API",
		"endpoints": []string{
			"GET /health",
			"GET /api/v1/resolve?urn=...",
			"GET /api/v1/cache/stats",
			"WS /ws",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, HealthInfo{
		Status:  "ok",
		Version: "0.1.0",
		Uptime:  time.Since(startTime).Round(time.Second).String(),
	})
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Use GET")
		return
	}

	raw := r.URL.Query().Get("urn")
	if raw == "" {
		respondError(w, http.StatusBadRequest, "MISSING_URN", "Query parameter 'urn' is required")
		return
	}

	entity, err := s.resolver.Resolve(r.Context(), raw)
	if err != nil {
		code, status := classifyResolveError(err)
		respondError(w, status, code, err.Error())
		s.hub.BroadcastResolution(raw, "error", map[string]interface{}{"code": code})
		return
	}

	respond(w, http.StatusOK, entity)
	s.hub.BroadcastResolution(entity.URN, "resolved", map[string]interface{}{
		"kind":  entity.Kind,
		"depth": entity.Depth,
	})
}

func (s *Server) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Use GET")
		return
	}
	respond(w, http.StatusOK, s.resolver.CacheStats())
}

// classifyResolveError maps resolution errors onto API error codes and HTTP
// statuses. Client-side URN problems are 400, unknown references 404, and a
// broken hookset configuration 500.
func classifyResolveError(err error) (code string, status int) {
	switch {
	case apperrors.Is(err, apperrors.ErrEmptyURN):
		return "EMPTY_URN", http.StatusBadRequest
	case apperrors.Is(err, apperrors.ErrMalformedURN):
		return "MALFORMED_URN", http.StatusBadRequest
	case apperrors.Is(err, apperrors.ErrNotFound):
		return "NOT_FOUND", http.StatusNotFound
	case apperrors.Is(err, apperrors.ErrHooksetLoad):
		return "HOOKSET_UNAVAILABLE", http.StatusInternalServerError
	default:
		return "INTERNAL", http.StatusInternalServerError
	}
}

func respond(w http.ResponseWriter, status int, data interface{}) {
	response := APIResponse{
		Success: true,
		Data:    data,
		Meta: &APIMeta{
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	response := APIResponse{
		Success: false,
		Error: &APIError{
			Code:    code,
			Message: message,
		},
		Meta: &APIMeta{
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}
