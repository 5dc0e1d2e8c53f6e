// Package server assembles the HTTP surface: Connect services, metrics,
// health and the static menu page.
package server

import (
	"encoding/json"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/orderwidget/internal/auth"
	"github.com/mmynk/orderwidget/internal/middleware"
	"github.com/mmynk/orderwidget/internal/service"
	"github.com/mmynk/orderwidget/internal/zones"
)

// Deps are the parts the router mounts.
type Deps struct {
	Profiles *service.ProfileService
	Orders   *service.OrderService
	Issuer   *auth.Issuer
	Catalog  *zones.Catalog

	// Gatherer serves /metrics. Nil disables the endpoint.
	Gatherer prometheus.Gatherer

	// StaticDir holds the menu page. Empty disables static serving.
	StaticDir string
}

// Routes builds the router.
func Routes(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(loggingMiddleware, corsMiddleware)

	profilePath, profileHandler := service.NewProfileServiceHandler(d.Profiles,
		connect.WithInterceptors(middleware.LoggingInterceptor()))
	r.Handle(profilePath+"*", profileHandler)

	orderPath, orderHandler := service.NewOrderServiceHandler(d.Orders,
		connect.WithInterceptors(middleware.LoggingInterceptor(), middleware.RequireProfile(d.Issuer)))
	r.Handle(orderPath+"*", orderHandler)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/zones", zonesHandler(d.Catalog))

	if d.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}
	if d.StaticDir != "" {
		r.Handle("/*", staticHandler(d.StaticDir))
	}
	return r
}

// H2C wraps h for HTTP/2 without TLS, which Connect's gRPC protocol needs.
func H2C(h http.Handler) http.Handler {
	return h2c.NewHandler(h, &http2.Server{})
}

type zoneJSON struct {
	ID    string   `json:"id"`
	Fee   int      `json:"fee"`
	Areas []string `json:"areas"`
}

// zonesHandler lists the zone selectors and their areas.
func zonesHandler(catalog *zones.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		var out []zoneJSON
		for _, z := range catalog.Zones() {
			areas, _ := catalog.Areas(z.ID)
			out = append(out, zoneJSON{ID: z.ID, Fee: z.Fee, Areas: areas})
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(out); err != nil {
			slog.Error("Failed to encode zones", "error", err)
		}
	}
}

// staticHandler serves the menu page and its assets, falling back to
// index.html for unknown paths.
func staticHandler(staticDir string) http.Handler {
	fsys := os.DirFS(staticDir)
	files := http.FileServer(http.FS(fsys))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		path := strings.TrimPrefix(r.URL.Path, "/")
		if path == "" {
			path = "index.html"
		}
		if _, err := fs.Stat(fsys, path); err != nil {
			r.URL.Path = "/"
		}
		files.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs all incoming requests
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		slog.Debug("Request received",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"user_agent", r.UserAgent(),
		)

		next.ServeHTTP(w, r)

		slog.Info("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
