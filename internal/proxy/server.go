package proxy

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jayantasamaddar/go-acssigner/client"
)

// SearchPath is the route browsers post full-text search bodies to.
const SearchPath = "/search/case/fulltext"

// Searcher runs a signed full-text case search. *client.Client implements it.
type Searcher interface {
	RunSearchCaseFullText(ctx context.Context, workspaceID string, body []byte) (*client.Response, error)
}

type Server struct {
	cfg     Config
	search  Searcher
	logger  *slog.Logger
	limiter *RateLimiter
	obs     *Observability
}

// New wires the routes. obs may be nil, in which case a fresh registry is used.
func New(cfg Config, search Searcher, obs *Observability, logger *slog.Logger) (*Server, error) {
	if search == nil {
		return nil, errors.New("proxy: searcher is required")
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	if obs == nil {
		obs = NewObservability()
	}
	return &Server{
		cfg:    cfg,
		search: search,
		logger: logger,
		limiter: NewRateLimiter(RateLimit{
			RequestsPerMinute: cfg.RequestsPerMinute,
			Burst:             cfg.Burst,
		}, logger),
		obs: obs,
	}, nil
}

// Serve listens on the configured address until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.cfg.Address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()
	s.logger.Info("proxy listening",
		slog.String("address", s.cfg.Address),
		slog.String("endpoint", s.cfg.Endpoint),
	)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(CORS(CORSConfig{AllowedOrigins: s.cfg.AllowedOrigins}))
	if s.cfg.LogRequests {
		r.Use(s.logRequests)
	}

	r.With(s.obs.Middleware("healthz")).Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", s.obs.MetricsHandler())

	r.Group(func(sr chi.Router) {
		sr.Use(s.obs.Middleware("search"))
		sr.Use(s.limiter.Middleware)
		sr.Post(SearchPath, s.handleSearch)
	})
	return r
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "unable to read request body")
		return
	}
	if !json.Valid(body) {
		writeError(w, http.StatusBadRequest, "request body must be JSON")
		return
	}

	resp, err := s.search.RunSearchCaseFullText(r.Context(), s.cfg.WorkspaceID, body)
	if err != nil {
		var serr *client.ServiceError
		if errors.As(err, &serr) {
			s.logger.Warn("upstream rejected search",
				slog.Int("status", serr.StatusCode),
				slog.String("code", serr.Code),
				slog.String("request_id", serr.RequestID),
			)
			relay(w, serr.StatusCode, serr.RequestID, serr.Snapshot)
			return
		}
		s.logger.Error("search failed", slog.String("error", err.Error()))
		writeError(w, http.StatusBadGateway, "upstream unavailable")
		return
	}
	relay(w, resp.StatusCode, resp.RequestID, resp.Body)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		s.logger.Info("request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", recorder.status),
			slog.Duration("duration", time.Since(start)),
		)
	})
}

func relay(w http.ResponseWriter, status int, requestID string, body []byte) {
	if requestID != "" {
		w.Header().Set("X-Acs-Request-Id", requestID)
	}
	if json.Valid(body) {
		w.Header().Set("Content-Type", "application/json")
	} else {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	}
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
