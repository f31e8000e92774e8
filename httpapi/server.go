package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/jonwraymond/healthops/auth"
	"github.com/jonwraymond/healthops/monitor"
	"github.com/jonwraymond/healthops/observe"
)

// Config wires the HTTP layer.
type Config struct {
	Monitor *monitor.Monitor

	// Verifier enables Bearer token actor identity. Nil means every
	// request acts as the anonymous actor.
	Verifier *auth.Verifier

	Logger observe.Logger
}

// Server serves the monitoring API.
type Server struct {
	config  Config
	router  *mux.Router
	monitor *monitor.Monitor
	logger  observe.Logger
}

// NewServer creates the API server and builds its routes.
func NewServer(config Config) *Server {
	logger := config.Logger
	if logger == nil {
		logger = observe.NoopLogger()
	}

	s := &Server{
		config:  config,
		router:  mux.NewRouter(),
		monitor: config.Monitor,
		logger:  logger,
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(s.logRequests)
	s.router.Use(s.withActor)

	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/health/report", s.handleReport).Methods(http.MethodGet)
	s.router.HandleFunc("/health/metrics", s.handleMetrics).Methods(http.MethodGet)
	s.router.HandleFunc("/health/history", s.handleHistory).Methods(http.MethodGet)
	s.router.HandleFunc("/health/stats", s.handleStats).Methods(http.MethodGet)
	s.router.HandleFunc("/readyz", s.handleReadiness).Methods(http.MethodGet)
	s.router.HandleFunc("/livez", s.handleLiveness).Methods(http.MethodGet)
	s.router.HandleFunc("/alerts", s.handleAlerts).Methods(http.MethodGet)
	s.router.HandleFunc("/alerts/{id}/acknowledge", s.handleAcknowledge).Methods(http.MethodPost)
	s.router.HandleFunc("/alerts/{id}/resolve", s.handleResolve).Methods(http.MethodPost)
	s.router.HandleFunc("/checks/{name}/run", s.handleRunCheck).Methods(http.MethodPost)
}

// logRequests logs every request with its outcome.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		s.logger.Info(r.Context(), "request handled",
			observe.Field{Key: "method", Value: r.Method},
			observe.Field{Key: "path", Value: r.URL.Path},
			observe.Field{Key: "status", Value: rec.status},
			observe.Field{Key: "duration_ms", Value: float64(time.Since(start).Milliseconds())},
		)
	})
}

// withActor establishes the request actor. A missing Authorization header
// is the anonymous actor; a present but invalid token is a 401.
func (s *Server) withActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor := auth.Anonymous()

		if header := r.Header.Get("Authorization"); header != "" && s.config.Verifier != nil {
			token, err := auth.ExtractBearer(header)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid authorization header")
				return
			}
			actor, err = s.config.Verifier.Verify(r.Context(), token)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid token")
				return
			}
		}

		next.ServeHTTP(w, r.WithContext(auth.WithActor(r.Context(), actor)))
	})
}

// statusRecorder captures the response code for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, map[string]string{"error": message})
}
