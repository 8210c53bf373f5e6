package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"pico-editor/internal/auth"
	"pico-editor/internal/content"
	"pico-editor/internal/logging"
)

// Deps are the collaborators a Server routes requests to.
type Deps struct {
	Gate     *auth.Gate
	Store    *content.Store
	Renderer *content.Renderer
	Logs     *logging.Provider
	// Components are probed by /health and /ready, keyed by display name.
	Components map[string]Pinger
}

type Server struct {
	httpServer *http.Server
	handler    http.Handler

	gate     *auth.Gate
	store    *content.Store
	renderer *content.Renderer
	cookies  *sessionCookies
	limiter  *rateLimiter
	metrics  *Metrics
	log      logging.Logger
	audit    auditor

	components   map[string]Pinger
	adminPath    string
	entryURL     string
	maxBodyBytes int64
}

func New(cfg Config, deps Deps) (*Server, error) {
	if deps.Gate == nil || deps.Store == nil {
		return nil, errors.New("server: gate and store are required")
	}
	if len(cfg.SessionSecret) < 32 {
		return nil, errors.New("server: session secret must be at least 32 characters")
	}
	if cfg.AdminURL == "" {
		cfg.AdminURL = defaultAdminURL
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = defaultMaxBodyBytes
	}
	renderer := deps.Renderer
	if renderer == nil {
		renderer = content.NewRenderer()
	}
	components := deps.Components
	if components == nil {
		components = map[string]Pinger{"content": deps.Store.Backend()}
	}

	s := &Server{
		gate:         deps.Gate,
		store:        deps.Store,
		renderer:     renderer,
		cookies:      newSessionCookies(cfg.SessionSecret, cfg.CookieSecure),
		limiter:      newRateLimiter(cfg.RateLimit),
		metrics:      NewMetrics(),
		log:          deps.Logs.Get("http"),
		audit:        auditor{log: deps.Logs.Get("audit")},
		components:   components,
		adminPath:    "/" + cfg.AdminURL,
		entryURL:     cfg.EntryURL(),
		maxBodyBytes: cfg.MaxBodyBytes,
	}
	s.handler = s.routes(cfg)

	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s, nil
}

// routes builds the route table. With URL rewriting off the host CMS
// addresses the editor as "/?admin/new", which queryRoute folds into the
// same paths.
func (s *Server) routes(cfg Config) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	if cfg.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(accessLog(s.log, s.metrics))
	r.Use(middleware.Recoverer)
	r.Use(securityHeadersMiddleware)
	if !cfg.RewriteURL {
		r.Use(queryRoute(cfg.AdminURL))
	}
	r.Use(middleware.StripSlashes)

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)
	if cfg.Metrics {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Group(func(r chi.Router) {
		r.Use(s.limiter.middleware)
		r.Use(s.parseForm)
		r.Use(s.sessionMiddleware)

		r.Get(s.adminPath, s.handleEntry)
		r.Post(s.adminPath, s.handleEntry)
		r.Get(s.adminPath+"/logout", s.handleLogout)
		r.Post(s.adminPath+"/logout", s.handleLogout)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Post(s.adminPath+"/new", s.handleNew)
			r.Post(s.adminPath+"/open", s.handleOpen)
			r.Post(s.adminPath+"/save", s.handleSave)
			r.Post(s.adminPath+"/delete", s.handleDelete)
			r.Post(s.adminPath+"/preview", s.handlePreview)
		})
	})

	return compressionMiddleware(r)
}

// Handler exposes the full middleware chain, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.handler }

func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	return s.httpServer.Serve(ln)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// RunMaintenance sweeps idle rate limiter entries until ctx is done.
func (s *Server) RunMaintenance(ctx context.Context) {
	s.limiter.run(ctx, time.Minute)
}
