// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	service "github.com/okian/vitrine/internal/app"
	"github.com/okian/vitrine/internal/domain/profile"
	"github.com/okian/vitrine/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the page service.
type Dependencies interface {
	StatsProvider

	Render(ctx context.Context, req service.PageRequest) (*service.Page, error)
	Preview(ctx context.Context, req service.PageRequest) (*service.Preview, error)
	Link(rec profile.Record, base, skinName string) (encoded, link string, err error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	pageHandler    *PageHandler
	profileHandler *ProfileHandler
	payloadHandler *PayloadHandler
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler

	maxBody int64
	logger  logger.Logger
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{maxBody: defaultMaxBody}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logger.OrGlobal(s.logger).Named("api")

	s.pageHandler = NewPageHandler(deps, s.logger)
	s.profileHandler = NewProfileHandler(deps)
	s.payloadHandler = NewPayloadHandler(deps, s.maxBody)
	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(deps)
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", s.wrap(s.healthHandler.HandleHealth, "healthz"))
	mux.Handle("/metrics", s.healthHandler.MetricsHandler())
	mux.HandleFunc("/stats", s.wrap(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/api/v1/profile", s.wrap(s.profileHandler.HandleGetProfile, "profile"))
	mux.HandleFunc("/api/v1/payload", s.wrap(s.payloadHandler.HandlePostPayload, "payload"))
	mux.HandleFunc("/p/", s.wrap(s.pageHandler.HandleSkinPage, "page"))
	mux.HandleFunc("/", s.wrap(s.pageHandler.HandleRootPage, "page"))
}

func (s *Server) wrap(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	return RequestIDMiddleware(MetricsMiddleware(next, endpoint))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// pageRequest collects the page inputs shared by the HTML and JSON routes.
func pageRequest(r *http.Request, skin string) service.PageRequest {
	q := r.URL.Query()
	if skin == "" {
		skin = q.Get("skin")
	}
	return service.PageRequest{
		Query:     q,
		Skin:      skin,
		Lang:      q.Get("lang"),
		ID:        q.Get("id"),
		RequestID: RequestIDFromContext(r.Context()),
	}
}
