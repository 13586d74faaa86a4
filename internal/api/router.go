package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/gray-logic-node/internal/auth"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			r.With(s.require(auth.PermValuesRead)).Get("/values", s.handleGetValues)
			r.With(s.require(auth.PermValuesWrite)).Post("/values", s.handlePostValues)
			r.With(s.require(auth.PermHandlerRun)).Patch("/handler", s.handlePatchHandler)
			r.With(s.require(auth.PermSchemaRead)).Get("/schema", s.handleGetSchema)
			r.With(s.require(auth.PermLogRead)).Get("/log", s.handleGetLog)
			r.With(s.require(auth.PermValuesRead)).Get(s.wsPath(), s.handleWebSocket)
		})
	})

	if s.panel != nil {
		r.Handle("/*", s.panel)
	}

	return r
}

// wsPath is the WebSocket route below /api/v1.
func (s *Server) wsPath() string {
	if s.wsCfg.Path == "" {
		return "/ws"
	}
	return s.wsCfg.Path
}
