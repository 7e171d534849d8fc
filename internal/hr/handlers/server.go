package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/mazta/hr-master/internal/hr/auth"
	"github.com/mazta/hr-master/internal/hr/filters"
)

// Server serves the master-data API over HTTP.
type Server struct {
	httpServer *http.Server
	router     chi.Router
	master     chi.Router
	schemas    map[string][]filters.ParamDoc
	logger     *zap.Logger
}

// NewServer builds the router with the shared middleware stack. Entity
// resources are mounted under /api/hr/master and require authentication; the
// schema endpoint stays open.
func NewServer(port int, verifier auth.Verifier, logger *zap.Logger) *Server {
	s := &Server{
		schemas: make(map[string][]filters.ParamDoc),
		logger:  logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/api/hr/schema", s.schemaIndex)

	master := chi.NewRouter()
	master.Use(auth.Middleware(verifier, logger))
	r.Mount("/api/hr/master", master)
	s.master = master

	s.router = r
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Mount attaches one entity resource at /api/hr/master/<path>.
func (s *Server) Mount(path string, res *Resource) {
	s.master.Mount("/"+path, res.Routes())
	s.schemas[path] = res.svc.FilterParams()
}

// Handler exposes the composed router, used by tests.
func (s *Server) Handler() http.Handler { return s.router }

// Start blocks serving HTTP until the listener fails or Stop is called.
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("HTTP serve error: %w", err)
	}
	return nil
}

// Stop gracefully shuts the server down.
func (s *Server) Stop() {
	s.logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", zap.Error(err))
	}
	s.logger.Info("Server stopped")
}

// schemaIndex lists, per mounted entity, every filter parameter its list
// endpoint accepts.
func (s *Server) schemaIndex(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.schemas)
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}
