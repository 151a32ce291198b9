package gateway

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/nikoq/switchboard/internal/registry"
)

// handleHealth is the unauthenticated liveness probe.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StatusResponse{
		Status:    "ok",
		Version:   s.Version(),
		Agents:    len(s.reg.List()),
		Clients:   s.clients.Count(),
		CacheSize: s.reg.CacheSize(),
		UptimeSec: int64(time.Since(s.startedAt).Seconds()),
	})
}

func (s *Server) handleAgents(w http.ResponseWriter, r *http.Request) {
	infos := s.reg.Describe()
	out := make([]AgentSummary, 0, len(infos))
	for _, info := range infos {
		out = append(out, AgentSummary{
			Name:         info.Name,
			Capabilities: info.Capabilities,
			Total:        info.Performance.Total,
			Successful:   info.Performance.Successful,
			Failed:       info.Performance.Failed,
			SuccessRate:  info.Performance.SuccessRate(),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"agents": out})
}

func (s *Server) handleRoute(w http.ResponseWriter, r *http.Request) {
	var req RouteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	result := s.rt.Route(r.Context(), req.Query, req.Context)
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleConsult(w http.ResponseWriter, r *http.Request) {
	var req ConsultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Agent == "" || req.Query == "" {
		writeError(w, http.StatusBadRequest, "agent and query are required")
		return
	}

	opts := registry.ConsultOptions{
		Timeout: time.Duration(req.TimeoutSeconds) * time.Second,
		NoCache: req.NoCache,
		From:    "gateway",
	}
	result := s.reg.Consult(r.Context(), req.Agent, req.Query, req.Context, opts)
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"consultations": s.reg.History(limit),
		"routing":       s.rt.History(limit),
	})
}

// handleNotFound returns a JSON 404 for unknown routes.
func handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]string{
		"error": "not found",
		"path":  r.URL.Path,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}
