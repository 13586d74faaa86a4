package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/nerrad567/gray-logic-node/internal/auth"
	"github.com/nerrad567/gray-logic-node/internal/handler"
)

// healthCheckTimeout bounds each dependency check.
const healthCheckTimeout = 2 * time.Second

// handleGetValues returns the values document split into data and config.
func (s *Server) handleGetValues(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.graph.Values(auth.ReadMask(roleFrom(r.Context()))))
}

// handlePostValues applies a values document and answers with the
// values after the write.
func (s *Server) handlePostValues(w http.ResponseWriter, r *http.Request) {
	var doc handler.ValuesDoc
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		writeBadRequest(w, "invalid values document: "+err.Error())
		return
	}

	role := roleFrom(r.Context())
	n := s.graph.SetValues(doc, auth.WriteMask(role))
	s.logger.Debug("values set over http", "tags", n, "request_id", r.Context().Value(ctxKeyRequestID))

	w.Header().Set("X-Tags-Written", strconv.Itoa(n))
	writeJSON(w, http.StatusOK, s.graph.Values(auth.ReadMask(role)))
}

// PatchResponse is the body returned by PATCH /handler.
type PatchResponse struct {
	Command string         `json:"command"`
	Result  handler.Result `json:"result"`
}

// handlePatchHandler runs one lifecycle command. The body is the bare
// command string, optionally JSON quoted.
func (s *Server) handlePatchHandler(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeBadRequest(w, "reading body: "+err.Error())
		return
	}
	cmd := strings.Trim(strings.TrimSpace(string(body)), `"`)

	res := s.graph.Patch(r.Context(), cmd)
	s.logger.Info("lifecycle command over http", "command", cmd, "result", res.String(),
		"subject", r.Context().Value(ctxKeySubject))

	// modeUndef is the caller's fault: an unknown command or one the
	// current graph state does not allow.
	status := http.StatusOK
	switch {
	case res == handler.ModeUndef:
		status = http.StatusBadRequest
	case res < 0:
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, PatchResponse{Command: cmd, Result: res})
}

func (s *Server) handleGetSchema(w http.ResponseWriter, _ *http.Request) {
	data, err := s.graph.Schema()
	if err != nil {
		s.logger.Error("encoding schema failed", "error", err)
		writeInternalError(w, "encoding schema failed")
		return
	}
	writeRawJSON(w, http.StatusOK, data)
}

func (s *Server) handleGetLog(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.graph.LastLog())
}

// handleHealth reports liveness and the state of each optional client.
// Dependency failures degrade the status but keep 200; the node still
// runs its graph without them.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]string, len(s.checks))
	status := "ok"
	for name, c := range s.checks {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		err := c.HealthCheck(ctx)
		cancel()
		if err != nil {
			checks[name] = err.Error()
			status = "degraded"
			continue
		}
		checks[name] = "ok"
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  status,
		"node":    s.nodeID,
		"version": s.version,
		"checks":  checks,
		"clients": s.hub.ClientCount(),
	})
}
