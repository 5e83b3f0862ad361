// Package web provides the HTTP server and handlers for the attribute extractor.
package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/JonMunkholm/AttrExtract/internal/config"
	"github.com/JonMunkholm/AttrExtract/internal/metrics"
	"github.com/JonMunkholm/AttrExtract/internal/service"
	appmw "github.com/JonMunkholm/AttrExtract/internal/web/middleware"
)

// Server is the HTTP server of the extractor.
type Server struct {
	cfg     *config.Config
	service *service.Service
	router  *chi.Mux
	server  *http.Server
	uploads *uploadLimiter
}

// NewServer creates a new Server instance.
func NewServer(svc *service.Service, cfg *config.Config) *Server {
	s := &Server{
		cfg:     cfg,
		service: svc,
		router:  chi.NewRouter(),
		uploads: newUploadLimiter(cfg.Upload.MaxConcurrent, cfg.Upload.MaxWait),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(appmw.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(appmw.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(metrics.Middleware)

	// Security hardening
	s.router.Use(securityHeaders(s.cfg.Security.EnableCSP))

	if s.cfg.Rate.Enabled {
		s.router.Use(newRateLimiter(s.cfg.Rate.RequestsPerMinute).middleware)
	}
}

// setupRoutes configures all HTTP routes.
//
// Job submission is exempt from the request timeout: it is bounded by the
// server read timeout and the upload size limit instead. The progress
// stream is exempt from both the timeout and compression.
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)
	s.router.Handle("/metrics", metrics.Handler())

	uploadLimit := func(next http.Handler) http.Handler { return next }
	if s.cfg.Rate.Enabled {
		uploadLimit = newRateLimiter(s.cfg.Rate.UploadLimit).middleware
	}
	auth := appmw.APIKeyAuth(&s.cfg.Security)

	// Pages
	s.router.Group(func(r chi.Router) {
		r.Use(middleware.Compress(5))
		r.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))
		r.Get("/", s.handleIndex)
	})

	// API routes
	s.router.Route("/api", func(r chi.Router) {
		r.Use(auth)
		r.Use(render.SetContentType(render.ContentTypeJSON))

		r.With(uploadLimit, s.uploads.middleware).Post("/jobs", s.handleStartJob)
		r.Get("/jobs/progress/stream", s.handleJobProgressStream)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Compress(5))
			r.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))

			r.Get("/jobs/progress", s.handleJobProgress)
			r.Get("/jobs/result", s.handleDownloadResult)
			r.Get("/templates/products", s.handleDownloadTemplate(service.TemplateProducts))
			r.Get("/templates/config", s.handleDownloadTemplate(service.TemplateConfig))
		})
	})

	// Routes of the first version of the tool, kept for existing scripts.
	s.router.Group(func(r chi.Router) {
		r.Use(auth)
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Use(legacyReplies)

		r.With(uploadLimit, s.uploads.middleware).Post("/processar", s.handleStartJob)
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))
			r.Get("/progresso", s.handleJobProgress)
			r.Get("/download_resultado", s.handleDownloadResult)
			r.Get("/download_modelo_produtos", s.handleDownloadTemplate(service.TemplateProducts))
			r.Get("/download_modelo_config", s.handleDownloadTemplate(service.TemplateConfig))
		})
	})
}

// Start begins listening for HTTP requests. It returns nil after Shutdown.
func (s *Server) Start(addr string) error {
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	slog.Info("starting server", "addr", addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests, lets in-flight requests finish and
// then waits for a running extraction job, all bounded by ctx.
func (s *Server) Shutdown(ctx context.Context) error {
	var errs []error
	if n := s.uploads.activeCount(); n > 0 {
		slog.Info("waiting for uploads to complete", "active", n)
	}
	if s.server != nil {
		if err := s.server.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if s.service.Status().Running() {
		slog.Info("waiting for running job to finish")
	}
	if err := s.service.Wait(ctx); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}

// securityHeaders adds security headers to all responses.
func securityHeaders(enableCSP bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

			// The index page carries its script and styles inline.
			if enableCSP {
				w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'; img-src 'self' data:")
			}

			next.ServeHTTP(w, r)
		})
	}
}
