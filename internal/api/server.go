// Package api provides the local HTTP API the TrailForge mobile UI talks to:
// progress reads, stat recording, pedometer updates, reset, and the live
// celebration feed.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/trailforge/trailforge/internal/app/gamify"
	"github.com/trailforge/trailforge/internal/app/pedometer"
	"github.com/trailforge/trailforge/internal/app/stats"
	"github.com/trailforge/trailforge/internal/health"
)

// Server is the TrailForge HTTP API server.
type Server struct {
	engine         *gamify.Engine
	recorder       *stats.Recorder
	pedometer      *pedometer.Validator
	celebrations   *gamify.CelebrationQueue
	hub            *CelebrationHub
	health         *health.Checker
	metricsEnabled bool
}

// NewServer creates a new API server.
func NewServer(engine *gamify.Engine, recorder *stats.Recorder, ped *pedometer.Validator) *Server {
	return &Server{engine: engine, recorder: recorder, pedometer: ped}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// SetCelebrations sets the celebration queue exposed over the API.
func (s *Server) SetCelebrations(q *gamify.CelebrationQueue) { s.celebrations = q }

// SetHub sets the websocket celebration hub.
func (s *Server) SetHub(h *CelebrationHub) { s.hub = h }

// SetHealth sets the self-check reporter behind /health.
func (s *Server) SetHealth(c *health.Checker) { s.health = c }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(time.Minute))
	r.Use(corsMiddleware)

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		// Derived state
		r.Get("/progress", s.handleProgress)
		r.Get("/achievements", s.handleAchievements)
		r.Get("/stats", s.handleStats)

		// Activity recording
		r.Post("/registrations", s.handleRecordRegistration)
		r.Post("/activities", s.handleRecordActivity)
		r.Post("/reflections", s.handleRecordReflection)
		r.Post("/moments", s.handleRecordMoment)
		r.Post("/skills", s.handleRecordSkill)
		r.Post("/trips", s.handleRecordTrip)
		r.Post("/expeditions", s.handleRecordExpedition)
		r.Post("/environment", s.handleRecordEnvironment)

		// Pedometer
		r.Get("/pedometer", s.handlePedometerState)
		r.Get("/pedometer/history", s.handlePedometerHistory)
		r.Post("/pedometer/steps", s.handlePedometerSteps)

		// Celebrations
		r.Get("/celebrations", s.handleCelebrations)
		r.Post("/celebrations/next", s.handleCelebrationNext)

		// Full data reset
		r.Post("/reset", s.handleReset)
	})

	// Live celebration feed
	if s.hub != nil {
		r.Get("/ws/celebrations", s.hub.HandleWS)
	}

	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": msg,
			"type":    "error",
		},
	})
}

// corsMiddleware adds CORS headers for the local app webview.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
