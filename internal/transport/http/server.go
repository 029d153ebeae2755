package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	feedDomain "github.com/reshetovitsme/transfer-pulse/internal/modules/feed/domain"
	feedService "github.com/reshetovitsme/transfer-pulse/internal/modules/feed/service"
	socialDomain "github.com/reshetovitsme/transfer-pulse/internal/modules/social/domain"
	sourceDomain "github.com/reshetovitsme/transfer-pulse/internal/modules/source/domain"
	"github.com/reshetovitsme/transfer-pulse/internal/shared/config"
	sloghttp "github.com/samber/slog-http"
)

// Feed is the aggregator as seen by readers
type Feed interface {
	Snapshot() feedDomain.State
	Trigger() error
}

// Sources exposes the registry and the active flags
type Sources interface {
	All() []sourceDomain.Source
	IsActive(id string) bool
	Toggle(id string) (bool, error)
	ByEndpoint(path string) (sourceDomain.Source, error)
}

// RSSProxy returns a converted feed body verbatim
type RSSProxy interface {
	Fetch(ctx context.Context, feedURL string) ([]byte, error)
}

// PostReader runs the social lookup for an account
type PostReader interface {
	Posts(ctx context.Context, username string) ([]socialDomain.Post, error)
}

// Server serves the proxy endpoints, the JSON view and the re-published feeds
type Server struct {
	cfg     *config.Config
	feed    Feed
	sources Sources
	rss     RSSProxy
	posts   PostReader
	metrics http.Handler
	logger  *slog.Logger
	server  *http.Server
}

// New creates a new HTTP server
func New(cfg *config.Config, feed Feed, sources Sources, rss RSSProxy, posts PostReader, metrics http.Handler) *Server {
	return &Server{
		cfg:     cfg,
		feed:    feed,
		sources: sources,
		rss:     rss,
		posts:   posts,
		metrics: metrics,
		logger:  slog.Default(),
	}
}

// SetLogger sets the logger
func (s *Server) SetLogger(logger *slog.Logger) {
	s.logger = logger
}

// Handler builds the routed handler wrapped in logging and recovery
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Proxy endpoints
	mux.HandleFunc("GET /api/rss", s.handleRSSProxy)
	mux.HandleFunc("GET /api/x/{alias}", s.handleSocialProxy)

	// Aggregated view
	mux.HandleFunc("GET /api/feed", s.handleFeed)
	mux.HandleFunc("POST /api/refresh", s.handleRefresh)
	mux.HandleFunc("GET /api/sources", s.handleSources)
	mux.HandleFunc("POST /api/sources/{id}/toggle", s.handleToggle)

	// Re-published feeds
	mux.HandleFunc("GET /feed.rss", s.handlePublished(formatRSS))
	mux.HandleFunc("GET /feed.atom", s.handlePublished(formatAtom))
	mux.HandleFunc("GET /feed.json", s.handlePublished(formatJSON))

	mux.HandleFunc("GET /health", s.handleHealth)
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics)
	}
	mux.HandleFunc("GET /{$}", s.handleRoot)

	handler := sloghttp.Recovery(mux)
	return sloghttp.New(s.logger)(handler)
}

// Start starts the HTTP server and blocks until it stops
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%s", s.cfg.HTTPPort)
	s.logger.Info("HTTP server starting", "addr", addr)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: s.cfg.FetchDeadline() + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	html := `<!DOCTYPE html>
<html>
<head>
    <title>Transfer Pulse</title>
    <style>
        body { font-family: Arial, sans-serif; max-width: 800px; margin: 50px auto; padding: 20px; }
        h1 { color: #333; }
        .info { background: #f5f5f5; padding: 15px; border-radius: 5px; margin: 20px 0; }
        code { background: #e8e8e8; padding: 2px 6px; border-radius: 3px; }
    </style>
</head>
<body>
    <h1>Transfer Pulse</h1>
    <div class="info">
        <p>Football transfer news from official outlets and trusted reporters.</p>
        <p>Latest items: <code>/api/feed?q=&amp;official=1</code></p>
        <p>Subscribe: <a href="/feed.rss">RSS</a>, <a href="/feed.atom">Atom</a>, <a href="/feed.json">JSON Feed</a></p>
    </div>
    <p><a href="/api/sources">Sources</a> | <a href="/health">Health Check</a></p>
</body>
</html>`
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(html))
}

func queryFrom(r *http.Request) feedService.Query {
	official, _ := strconv.ParseBool(r.URL.Query().Get("official"))
	return feedService.Query{
		Text:         r.URL.Query().Get("q"),
		OfficialOnly: official,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message, detail string) {
	body := map[string]string{"error": message}
	if detail != "" {
		body["detail"] = detail
	}
	writeJSON(w, status, body)
}

func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
