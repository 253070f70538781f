// ABOUTME: Site server that wires store, page cache and content service to HTTP
// ABOUTME: Manages the TCP and optional tailnet listeners, health endpoints and shutdown

package site

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"tailscale.com/ipn/ipnstate"
	"tailscale.com/tsnet"

	"github.com/2389/folio/internal/auth"
	"github.com/2389/folio/internal/config"
	"github.com/2389/folio/internal/content"
	"github.com/2389/folio/internal/pagecache"
	"github.com/2389/folio/internal/store"
)

// Server serves the public site, the JSON API and the revalidation endpoint.
type Server struct {
	config      *config.Config
	store       store.Store
	cache       *pagecache.Cache
	content     *content.Service
	views       *views
	verifier    auth.TokenVerifier // nil when auth.jwt_secret is unset
	handler     http.Handler
	httpServer  *http.Server
	tsnetServer *tsnet.Server
	hookClient  *http.Client
	logger      *slog.Logger
}

// initStore opens the SQLite store named by the config.
func initStore(cfg *config.Config) (store.Store, error) {
	s, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("initializing store: %w", err)
	}
	return s, nil
}

// New creates a Server backed by the SQLite database in cfg.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	s, err := initStore(cfg)
	if err != nil {
		return nil, err
	}
	srv, err := NewWithStore(cfg, s, logger)
	if err != nil {
		_ = s.Close()
		return nil, err
	}
	return srv, nil
}

// NewWithStore creates a Server on an already opened store. The server owns
// the store and closes it on Shutdown.
func NewWithStore(cfg *config.Config, st store.Store, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}

	v, err := newViews()
	if err != nil {
		return nil, err
	}

	cache := pagecache.New(pagecache.Options{
		TTL:        cfg.Cache.TTL,
		MaxEntries: cfg.Cache.MaxEntries,
		Logger:     logger,
	})

	srv := &Server{
		config:     cfg,
		store:      st,
		cache:      cache,
		content:    content.New(st, cache, logger),
		views:      v,
		hookClient: &http.Client{Timeout: deployHookTimeout},
		logger:     logger.With("component", "site"),
	}

	if cfg.Auth.JWTSecret != "" {
		verifier, err := auth.NewJWTVerifier([]byte(cfg.Auth.JWTSecret))
		if err != nil {
			cache.Close()
			return nil, fmt.Errorf("creating JWT verifier: %w", err)
		}
		srv.verifier = verifier
		srv.logger.Info("HTTP auth middleware enabled")
	} else {
		srv.logger.Warn("admin API disabled - no jwt_secret configured")
	}

	mux := http.NewServeMux()

	// Health endpoints - no auth required
	mux.HandleFunc("GET /health", srv.handleHealth)
	mux.HandleFunc("GET /health/ready", srv.handleReady)

	if cfg.Metrics.Enabled {
		mux.Handle("GET "+cfg.Metrics.Path, promhttp.Handler())
		srv.logger.Info("metrics enabled", "path", cfg.Metrics.Path)
	}

	srv.registerAPIRoutes(mux)
	srv.registerPageRoutes(mux)

	srv.handler = instrument(mux)
	srv.httpServer = &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           srv.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return srv, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Content returns the content service used by the admin API.
func (s *Server) Content() *content.Service {
	return s.content
}

// optionalAuth attaches the bearer's identity when a valid token is present.
func (s *Server) optionalAuth(h http.Handler) http.Handler {
	if s.verifier == nil {
		return h
	}
	return auth.OptionalAuthMiddleware(s.verifier)(h)
}

// requireEditor rejects requests without an editor or admin token.
func (s *Server) requireEditor(h http.Handler) http.Handler {
	return s.requireRole(auth.RequireEditorHTTP(), h)
}

// requireAdmin rejects requests without an admin token.
func (s *Server) requireAdmin(h http.Handler) http.Handler {
	return s.requireRole(auth.RequireAdminHTTP(), h)
}

func (s *Server) requireRole(gate func(http.Handler) http.Handler, h http.Handler) http.Handler {
	if s.verifier == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s.sendJSONError(w, http.StatusServiceUnavailable, "admin API disabled: auth.jwt_secret is not configured")
		})
	}
	return auth.HTTPAuthMiddleware(s.verifier, s.logger)(gate(h))
}

// setupListeners creates the TCP listener and, when enabled, the tailnet listener.
func (s *Server) setupListeners(ctx context.Context) ([]net.Listener, error) {
	var listeners []net.Listener

	if s.config.Server.HTTPAddr != "" {
		ln, err := net.Listen("tcp", s.config.Server.HTTPAddr)
		if err != nil {
			return nil, fmt.Errorf("listening on HTTP address: %w", err)
		}
		listeners = append(listeners, ln)
	}

	if s.config.Tailscale.Enabled {
		ln, err := s.setupTailscaleListener(ctx)
		if err != nil {
			for _, l := range listeners {
				_ = l.Close()
			}
			return nil, err
		}
		listeners = append(listeners, ln)
	}

	if len(listeners) == 0 {
		return nil, errors.New("no listeners configured")
	}
	return listeners, nil
}

// startServers serves on every listener in its own goroutine, returning error channel.
func (s *Server) startServers(listeners []net.Listener) chan error {
	errCh := make(chan error, len(listeners))

	for _, ln := range listeners {
		go func() {
			s.logger.Info("HTTP server listening", "addr", ln.Addr().String())
			if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
				errCh <- fmt.Errorf("HTTP server: %w", err)
			}
		}()
	}

	return errCh
}

// waitForShutdownSignal waits for context cancellation or server error.
func (s *Server) waitForShutdownSignal(ctx context.Context, errCh chan error) error {
	select {
	case <-ctx.Done():
		s.logger.Info("context canceled, initiating shutdown")
		return nil
	case err := <-errCh:
		s.logger.Error("server error", "error", err)
		s.drainErrors(errCh)
		return err
	}
}

// drainErrors drains any remaining errors from the channel.
func (s *Server) drainErrors(errCh chan error) {
	select {
	case additionalErr := <-errCh:
		s.logger.Error("additional server error", "error", additionalErr)
	default:
	}
}

// Run starts the listeners and blocks until the context is canceled.
// Returns nil on graceful shutdown (context canceled), or an error if a server fails.
func (s *Server) Run(ctx context.Context) error {
	listeners, err := s.setupListeners(ctx)
	if err != nil {
		return err
	}

	errCh := s.startServers(listeners)
	serverErr := s.waitForShutdownSignal(ctx, errCh)

	shutdownErr := s.gracefulShutdown()

	if serverErr != nil {
		return serverErr
	}
	return shutdownErr
}

// gracefulShutdown performs shutdown with a fresh context and timeout.
// Uses context.Background() since the original context is already canceled.
func (s *Server) gracefulShutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.Shutdown(ctx)
}

// resolveTailscaleStateDir returns the state directory, using default if not configured.
func resolveTailscaleStateDir(configured string) (string, error) {
	if configured != "" {
		return configured, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory for tailscale state (set tailscale.state_dir explicitly): %w", err)
	}
	return filepath.Join(homeDir, ".local", "share", "folio", "tailscale"), nil
}

// resolveTailscaleAuthKey returns the auth key from config or environment.
func resolveTailscaleAuthKey(configured string) (string, error) {
	authKey := configured
	if authKey == "" {
		authKey = os.Getenv("TS_AUTHKEY")
	}
	if authKey == "" {
		return "", errors.New("tailscale auth key required: set auth_key in config or TS_AUTHKEY environment variable")
	}
	return authKey, nil
}

// setupTailscaleListener starts a tsnet node and listens on its port 80.
func (s *Server) setupTailscaleListener(ctx context.Context) (net.Listener, error) {
	tsCfg := s.config.Tailscale

	stateDir, err := resolveTailscaleStateDir(tsCfg.StateDir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(stateDir, 0700); err != nil {
		return nil, fmt.Errorf("creating tailscale state dir: %w", err)
	}

	authKey, err := resolveTailscaleAuthKey(tsCfg.AuthKey)
	if err != nil {
		return nil, err
	}

	s.tsnetServer = &tsnet.Server{
		Hostname:  tsCfg.Hostname,
		Dir:       stateDir,
		Ephemeral: tsCfg.Ephemeral,
		AuthKey:   authKey,
	}

	s.logger.Info("starting tailscale node", "hostname", tsCfg.Hostname, "state_dir", stateDir, "ephemeral", tsCfg.Ephemeral)
	status, err := s.tsnetServer.Up(ctx)
	if err != nil {
		_ = s.tsnetServer.Close()
		return nil, fmt.Errorf("starting tailscale: %w", err)
	}
	s.logTailscaleStatus(tsCfg.Hostname, status)

	ln, err := s.tsnetServer.Listen("tcp", ":80")
	if err != nil {
		_ = s.tsnetServer.Close()
		return nil, fmt.Errorf("listening on tailscale HTTP port: %w", err)
	}
	return ln, nil
}

// logTailscaleStatus logs info about the tailscale node status.
func (s *Server) logTailscaleStatus(hostname string, status *ipnstate.Status) {
	var tsAddr, dnsName string
	if len(status.TailscaleIPs) > 0 {
		tsAddr = status.TailscaleIPs[0].String()
	} else {
		s.logger.Warn("tailscale node has no IP addresses assigned")
	}
	if status.Self != nil {
		dnsName = strings.TrimSuffix(status.Self.DNSName, ".")
	}
	s.logger.Info("tailscale node ready", "hostname", hostname, "tailscale_ip", tsAddr, "dns_name", dnsName)
}

// appendCloseError appends an error with label if err is non-nil.
func appendCloseError(errs []error, label string, err error) []error {
	if err != nil {
		return append(errs, fmt.Errorf("%s: %w", label, err))
	}
	return errs
}

// Shutdown stops the HTTP server and releases the tailnet node, cache and store.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down site server")

	var errs []error
	errs = appendCloseError(errs, "HTTP shutdown", s.httpServer.Shutdown(ctx))

	if s.tsnetServer != nil {
		errs = appendCloseError(errs, "tailscale shutdown", s.tsnetServer.Close())
	}
	s.cache.Close()
	errs = appendCloseError(errs, "store close", s.store.Close())

	return errors.Join(errs...)
}

// Close releases the cache and store without touching listeners.
func (s *Server) Close() error {
	s.cache.Close()
	return s.store.Close()
}

// pinger is implemented by stores that can check their connection.
type pinger interface {
	Ping(ctx context.Context) error
}

// handleHealth returns 200 OK if the server is alive.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// handleReady returns 200 OK if the database answers.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if p, ok := s.store.(pinger); ok {
		if err := p.Ping(r.Context()); err != nil {
			s.logger.Error("readiness check failed", "error", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("database unavailable"))
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "ready (%d cached pages)", s.cache.Len())
}
