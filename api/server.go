// Package api - Thin HTTP layer over the service-charge calculator and quote ledger
// The API never performs charge arithmetic itself.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"escrow-charge/adapters/storage"
	"escrow-charge/core/charge"
	"escrow-charge/core/types"
	"escrow-charge/internal/errors"
)

const maxBodyBytes = 1 << 20

// Server is the API server
type Server struct {
	router   chi.Router
	version  string
	calc     *charge.Calculator
	store    storage.Store
	currency types.Currency
	logger   *zap.Logger
	started  time.Time
}

// Option customises the server before routes are registered
type Option func(*Server)

// WithStore enables the quote endpoints
func WithStore(store storage.Store) Option {
	return func(s *Server) { s.store = store }
}

// WithCalculator replaces the default calculator
func WithCalculator(calc *charge.Calculator) Option {
	return func(s *Server) { s.calc = calc }
}

// WithCurrency sets the currency used when a request names none
func WithCurrency(c types.Currency) Option {
	return func(s *Server) { s.currency = c }
}

// WithLogger sets the request logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// NewServer creates a new API server
func NewServer(version string, opts ...Option) *Server {
	s := &Server{
		version:  version,
		calc:     charge.Default(),
		currency: types.CurrencyUSD,
		logger:   zap.NewNop(),
		started:  time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.registerRoutes()
	return s
}

// registerRoutes registers all API routes
func (s *Server) registerRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.logger))

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		s.writeError(w, "ROUTE_NOT_FOUND", "no route for "+req.URL.Path, http.StatusNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		s.writeError(w, "METHOD_NOT_ALLOWED", "method "+req.Method+" not allowed on "+req.URL.Path, http.StatusMethodNotAllowed)
	})

	r.Route("/service-charge", func(r chi.Router) {
		r.Post("/", s.handleServiceCharge)
		r.Get("/tiers", s.handleTiers)
		r.Post("/projects", s.handleProjectQuote)
	})

	r.Post("/quotes", s.handleCreateQuote)
	r.Get("/quotes/{quoteID}", s.handleGetQuote)
	r.Get("/projects/{projectID}/quotes", s.handleListQuotes)

	r.Get("/health", s.handleHealth)
	r.Get("/version", s.handleVersion)

	s.router = r
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]interface{}{
		"status":  "healthy",
		"version": s.version,
		"uptime":  time.Since(s.started).Round(time.Second).String(),
		"storage": s.store != nil,
		"time":    time.Now().UTC().Format(time.RFC3339),
	}, http.StatusOK)
}

// handleVersion handles GET /version
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{
		"version":     s.version,
		"engine":      "escrow-charge",
		"api_version": "v1",
	}, http.StatusOK)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		s.writeError(w, "INVALID_JSON", err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func (s *Server) writeJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("write response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, code, message string, status int) {
	s.writeJSON(w, ErrorBody{Error: ErrorDetail{Code: code, Message: message}}, status)
}

// writeDomainError maps a typed error onto the error envelope
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	status := errors.HTTPStatus(err)
	code := string(errors.TypeInternal)
	message := err.Error()
	if t, ok := errors.TypeOf(err); ok {
		code = string(t)
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.Error(err))
		message = "internal error"
		if status == http.StatusServiceUnavailable {
			message = "storage unavailable"
		}
	}
	s.writeError(w, code, message, status)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
