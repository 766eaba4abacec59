package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"github.com/pbandrade/fiimonitor-backend/internal/domain"
)

// Server exposes the portfolio dashboard API over HTTP/JSON
type Server struct {
	sessions       *SessionStore
	provider       domain.MarketDataProvider
	clock          func() time.Time
	maxUploadBytes int64
	limiter        *rate.Limiter
}

// NewServer creates the API server. The clock is injectable so handlers that
// depend on "the current month" stay deterministic in tests.
func NewServer(sessions *SessionStore, provider domain.MarketDataProvider, maxUploadBytes int64) *Server {
	return &Server{
		sessions:       sessions,
		provider:       provider,
		clock:          time.Now,
		maxUploadBytes: maxUploadBytes,
		limiter:        rate.NewLimiter(rate.Every(100*time.Millisecond), 30),
	}
}

// Routes builds the router with the full middleware chain
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(s.rateLimitMiddleware)
	r.Use(enableCORS)
	r.Use(requestLogger)

	r.Get("/api/health", s.handleHealth)
	r.Post("/api/portfolio", s.handleUpload)
	r.Get("/api/portfolio/{sessionID}", s.handlePortfolio)
	r.Get("/api/portfolio/{sessionID}/assets/{code}", s.handleAsset)
	r.Get("/api/examples/ledger", s.handleExampleLedger)
	r.Get("/api/examples/watchlist", s.handleExampleWatchlist)

	return r
}

func (s *Server) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			writeError(w, http.StatusTooManyRequests, http.StatusText(http.StatusTooManyRequests))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		slog.Info("request handled",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).String(),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
