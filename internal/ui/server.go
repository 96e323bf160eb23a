package ui

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/thep200/xsmb-analyzer/api"
	"github.com/thep200/xsmb-analyzer/cfg"
	"github.com/thep200/xsmb-analyzer/pkg/log"
)

// Server represents the JSON HTTP server
type Server struct {
	Logger log.Logger
	Config *cfg.Config
	API    *api.XsmbAPI
	server *http.Server
	port   int
}

// NewServer creates a new server, port <= 0 uses config.Server.Port
func NewServer(logger log.Logger, config *cfg.Config, xsmbAPI *api.XsmbAPI, port int) (*Server, error) {
	if xsmbAPI == nil {
		return nil, errors.New("[ERROR][UI] api is required")
	}
	if port <= 0 {
		port = config.Server.Port
	}
	return &Server{
		Logger: logger,
		Config: config,
		API:    xsmbAPI,
		port:   port,
	}, nil
}

// Router builds the chi router with every route registered
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	NewHandler(s.Logger, s.Config, s.API).RegisterRoutes(r)
	return r
}

// Start initializes and starts the HTTP server
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.Logger.Info(context.Background(), "Starting server on port %d", s.port)
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		s.Logger.Info(ctx, "Shutting down server")
		return s.server.Shutdown(ctx)
	}
	return nil
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.Logger.Info(r.Context(), "[HTTP] %s %s %d %v", r.Method, r.URL.RequestURI(), ww.Status(), time.Since(start))
	})
}
