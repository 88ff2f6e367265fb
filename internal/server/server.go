package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"connecthub/internal/auth"
	"connecthub/internal/config"
	"connecthub/internal/connector"
	"connecthub/internal/credential"
	"connecthub/internal/oauth"
	"connecthub/pkg/logging"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// Server is the local dashboard HTTP server: JSON endpoints over the
// credential store and auth aggregator, plus the OAuth start/callback pages.
type Server struct {
	cfg   config.DashboardConfig
	root  string
	dist  string
	docs  *connector.DocCache
	store *credential.Store
	agg   *auth.Aggregator
	flow  *oauth.Flow
	ref   *oauth.Refresher

	httpServer *http.Server
}

// Options wires the server's collaborators.
type Options struct {
	Dashboard     config.DashboardConfig
	ConnectorRoot string
	// DistDir is an optional built static dashboard served for unknown
	// non-API paths.
	DistDir   string
	Docs      *connector.DocCache
	Store     *credential.Store
	Agg       *auth.Aggregator
	Flow      *oauth.Flow
	Refresher *oauth.Refresher
}

// New creates a dashboard server.
func New(opts Options) *Server {
	return &Server{
		cfg:   opts.Dashboard,
		root:  opts.ConnectorRoot,
		dist:  opts.DistDir,
		docs:  opts.Docs,
		store: opts.Store,
		agg:   opts.Agg,
		flow:  opts.Flow,
		ref:   opts.Refresher,
	}
}

// Handler returns the full HTTP handler, middleware included. Exposed for
// tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/connectors", s.handleListConnectors)
	mux.HandleFunc("GET /api/connectors/{name}", s.handleGetConnector)
	mux.HandleFunc("POST /api/connectors/{name}/key", s.handleSaveKey)
	mux.HandleFunc("POST /api/connectors/{name}/refresh", s.handleRefresh)

	mux.HandleFunc("GET /oauth/{name}/start", s.handleOAuthStart)
	mux.HandleFunc("GET /oauth/{name}/callback", s.handleOAuthCallback)

	mux.HandleFunc("/", s.handleFallback)

	return s.middleware(mux)
}

// Start runs the server until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info("Dashboard", "Listening on %s", s.cfg.BaseURL())
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}

// middleware applies the security and CORS headers every response carries and
// answers OPTIONS preflight requests. The allowed origin is pinned to the
// serving host/port; the dashboard is a local tool and no other origin has
// business calling it.
func (s *Server) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.cfg.BaseURL())
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")

		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.WriteHeader(http.StatusOK)
			return
		}

		requestID := uuid.NewString()
		w.Header().Set("X-Request-ID", requestID)
		logging.Debug("Dashboard", "%s %s request_id=%s", r.Method, r.URL.Path, requestID)

		next.ServeHTTP(w, r)
	})
}

// connectorName validates the {name} path segment. Invalid names are
// rejected before any other logic runs.
func (s *Server) connectorName(w http.ResponseWriter, r *http.Request) (string, bool) {
	name := r.PathValue("name")
	if !connector.ValidName(name) {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "Invalid connector name",
		})
		return "", false
	}
	return name, true
}

// known reports whether a connector exists from the dashboard's perspective:
// either a registry entry or credential state on disk.
func (s *Server) known(name string) bool {
	if _, ok := connector.Get(name); ok {
		return true
	}
	return connector.Installed(s.root, name)
}

// handleFallback serves the built dashboard for unknown non-API paths when
// one exists, and a JSON 404 otherwise.
func (s *Server) handleFallback(w http.ResponseWriter, r *http.Request) {
	isAPI := strings.HasPrefix(r.URL.Path, "/api/") || strings.HasPrefix(r.URL.Path, "/oauth/")
	if !isAPI && s.dist != "" && r.Method == http.MethodGet {
		requested := filepath.Join(s.dist, filepath.Clean("/"+r.URL.Path))
		if info, err := os.Stat(requested); err == nil && !info.IsDir() {
			http.ServeFile(w, r, requested)
			return
		}
		index := filepath.Join(s.dist, "index.html")
		if _, err := os.Stat(index); err == nil {
			http.ServeFile(w, r, index)
			return
		}
	}

	writeJSON(w, http.StatusNotFound, map[string]string{"error": "Not found"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("Dashboard", err, "Failed to encode response")
	}
}
