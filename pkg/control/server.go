package control

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/surface-dev/surface/pkg/host"
)

// Server is the controller-facing HTTP/WebSocket server. It owns no
// registry state of its own; everything is delegated to the Host.
type Server struct {
	config *Config
	host   *host.Host
	logger *slog.Logger

	router  chi.Router
	httpSrv *http.Server

	metrics *apiMetrics
	promReg *prometheus.Registry
}

// New creates a Server for the given host.
func New(h *host.Host, config *Config) *Server {
	if config == nil {
		config = DefaultConfig()
	}
	config.withDefaults()

	s := &Server{
		config:  config,
		host:    h,
		logger:  config.Logger.With("component", "control"),
		promReg: prometheus.NewRegistry(),
	}
	s.metrics = newAPIMetrics(s.promReg)
	s.router = s.routes()
	return s
}

// routes builds the chi router.
func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(s.instrument)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.promReg, promhttp.HandlerOpts{}))

	r.Route("/v1/sessions", func(r chi.Router) {
		r.Post("/", s.handleOpenSession)
		r.Route("/{sid}", func(r chi.Router) {
			r.Delete("/", s.handleCloseSession)
			r.Get("/watch", s.handleWatch)
			r.Route("/components", func(r chi.Router) {
				r.Post("/", s.handleRegister)
				r.Get("/", s.handleList)
				r.Route("/{cid}", func(r chi.Router) {
					r.Get("/", s.handleGetComponent)
					r.Delete("/", s.handleRemoveComponent)
					r.Patch("/props", s.handleUpdate)
				})
			})
		})
	})

	return r
}

// ServeHTTP implements http.Handler so the server can be mounted or
// driven by httptest.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run listens on the configured address until ctx is cancelled, then
// drains within the shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	s.httpSrv = &http.Server{
		Addr:         s.config.Address,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("control server listening", "addr", s.config.Address)
		errCh <- s.httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return ErrServerClosed
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer cancel()
		if err := s.httpSrv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ErrServerClosed
	}
}

// sessionFromRequest resolves the {sid} route parameter. On failure it
// writes the error response and returns nil.
func (s *Server) sessionFromRequest(w http.ResponseWriter, r *http.Request) *host.Session {
	sid := chi.URLParam(r, "sid")
	sess := s.host.Get(sid)
	if sess == nil {
		writeError(w, http.StatusNotFound, "session not found")
		return nil
	}
	return sess
}
