// Package server exposes the conflict engine and the traffic simulation
// over HTTP: a JSON evaluation API for pairwise queries and a WebSocket
// stream for live scenario traffic.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sepwatch/conflict-probe/internal/sim"
	"github.com/sepwatch/conflict-probe/pkg/airspace"
	"github.com/sepwatch/conflict-probe/pkg/config"
	"github.com/sepwatch/conflict-probe/pkg/conflict"
	"github.com/sepwatch/conflict-probe/pkg/separation"
)

// Server holds the HTTP router and its dependencies.
type Server struct {
	router *chi.Mux
	cfg    *config.Config
	log    *slog.Logger
	sim    *sim.Simulator
	hub    *Hub
}

// New builds a server over the given simulator.
func New(cfg *config.Config, log *slog.Logger, simulator *sim.Simulator) *Server {
	s := &Server{
		router: chi.NewRouter(),
		cfg:    cfg,
		log:    log,
		sim:    simulator,
		hub:    NewHub(simulator, log, time.Duration(cfg.Simulation.UpdateRateSeconds*float64(time.Second))),
	}
	s.setupRoutes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Hub returns the WebSocket hub so the caller can drive its run loop.
func (s *Server) Hub() *Hub { return s.hub }

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	r := s.router

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	origins := s.cfg.Server.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/scenarios", s.handleScenarios)
		r.Get("/config", s.handleConfig)
		r.Get("/state", s.handleState)

		r.Post("/separation", s.handleSeparation)
		r.Post("/conflict", s.handleConflict)
		r.Post("/avoidance", s.handleAvoidance)
		r.Post("/distance", s.handleDistance)
	})

	r.Get("/ws", s.hub.ServeWS)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"service": "conflict-probe",
		"endpoints": []string{
			"/health",
			"/api/v1/scenarios",
			"/api/v1/config",
			"/api/v1/state",
			"/api/v1/separation",
			"/api/v1/conflict",
			"/api/v1/avoidance",
			"/api/v1/distance",
			"/ws",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	snap := s.sim.Snapshot()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"running":  snap.Running,
		"aircraft": len(snap.Aircraft),
		"simTime":  snap.SimTime,
	})
}

func (s *Server) handleScenarios(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, sim.Scenarios())
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"separation": s.cfg.Separation,
		"simulation": s.cfg.Simulation,
		"weather":    s.cfg.Weather,
	})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.sim.Snapshot())
}

// pairRequest is the shared request body for the evaluation endpoints.
// Minima and lookahead fall back to the configured standards when omitted.
type pairRequest struct {
	First         airspace.State `json:"first"`
	Second        airspace.State `json:"second"`
	MinHorizontal *float64       `json:"minHorizontal,omitempty"`
	MinVertical   *float64       `json:"minVertical,omitempty"`
	Lookahead     *float64       `json:"lookahead,omitempty"`
}

// decode parses and validates a pair request, writing the error response
// itself when the input is unusable.
func (s *Server) decode(w http.ResponseWriter, r *http.Request) (pairRequest, bool) {
	var req pairRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return req, false
	}
	if !airspace.ValidateState(req.First) {
		respondError(w, http.StatusBadRequest, "first aircraft state is out of range")
		return req, false
	}
	if !airspace.ValidateState(req.Second) {
		respondError(w, http.StatusBadRequest, "second aircraft state is out of range")
		return req, false
	}
	if (req.MinHorizontal == nil) != (req.MinVertical == nil) {
		respondError(w, http.StatusBadRequest, "minHorizontal and minVertical must be given together")
		return req, false
	}
	if req.MinHorizontal != nil && !airspace.ValidateMinima(*req.MinHorizontal, *req.MinVertical) {
		respondError(w, http.StatusBadRequest, "separation minima are out of range")
		return req, false
	}
	if req.Lookahead != nil && (*req.Lookahead < 1 || *req.Lookahead > 3600) {
		respondError(w, http.StatusBadRequest, "lookahead must be between 1 and 3600 seconds")
		return req, false
	}
	return req, true
}

func (req pairRequest) minima(cfg *config.Config) (float64, float64) {
	if req.MinHorizontal != nil {
		return *req.MinHorizontal, *req.MinVertical
	}
	return cfg.Separation.HorizontalNM, cfg.Separation.VerticalFt
}

func (req pairRequest) window(cfg *config.Config) float64 {
	if req.Lookahead != nil {
		return *req.Lookahead
	}
	return cfg.Separation.LookaheadSeconds
}

// handleSeparation evaluates the instantaneous separation standard for a
// pair of aircraft states.
func (s *Server) handleSeparation(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decode(w, r)
	if !ok {
		return
	}
	minH, minV := req.minima(s.cfg)
	respondJSON(w, http.StatusOK, separation.Check(req.First, req.Second, minH, minV))
}

// handleConflict runs the predictive sweep for a pair of aircraft states.
func (s *Server) handleConflict(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decode(w, r)
	if !ok {
		return
	}
	minH, minV := req.minima(s.cfg)
	c := conflict.Detect(req.First, req.Second, minH, minV, req.window(s.cfg))
	respondJSON(w, http.StatusOK, c)
}

// handleAvoidance suggests a divergent heading for the first aircraft and
// reports whether flying it clears the conflict.
func (s *Server) handleAvoidance(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decode(w, r)
	if !ok {
		return
	}
	minH, minV := req.minima(s.cfg)
	heading := conflict.AvoidanceHeading(req.First, req.Second)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"avoidanceHeading": heading,
		"effective":        conflict.ResolutionEffective(req.First, req.Second, heading, minH, minV),
	})
}

// handleDistance reports current distances and the closed-form closest
// approach for a pair of aircraft states.
func (s *Server) handleDistance(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decode(w, r)
	if !ok {
		return
	}
	resp := map[string]interface{}{
		"horizontalDistance": separation.Horizontal(req.First, req.Second),
		"verticalDistance":   separation.Vertical(req.First, req.Second),
	}
	if t, ok := separation.TimeToClosestApproach(req.First, req.Second); ok {
		resp["timeToClosestApproach"] = t
	}
	respondJSON(w, http.StatusOK, resp)
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]interface{}{
		"error": message,
	})
}
