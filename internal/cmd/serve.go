package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/mmynk/orderwidget/internal/auth"
	"github.com/mmynk/orderwidget/internal/config"
	"github.com/mmynk/orderwidget/internal/menu"
	"github.com/mmynk/orderwidget/internal/metrics"
	"github.com/mmynk/orderwidget/internal/server"
	"github.com/mmynk/orderwidget/internal/service"
	"github.com/mmynk/orderwidget/internal/storage"
	"github.com/mmynk/orderwidget/internal/storage/memory"
	"github.com/mmynk/orderwidget/internal/storage/sqlite"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the order server",
	Long: `Serve the menu page, the Connect profile and order services, /metrics
and /healthz. Flags override the matching environment variables.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (ADDR)")
	serveCmd.Flags().String("db", "", "SQLite database path, empty for in-memory (DB_PATH)")
	serveCmd.Flags().String("menu", "", "page the menu is parsed from (MENU_PATH)")
	serveCmd.Flags().String("static", "", "static files directory (STATIC_PATH)")
	serveCmd.Flags().String("zones", "", "YAML zone catalog (ZONES_PATH)")
	rootCmd.AddCommand(serveCmd)
}

// openBackend opens the SQLite store at dbPath, or an in-memory one when
// dbPath is empty.
func openBackend(dbPath string) (storage.Backend, error) {
	if dbPath == "" {
		slog.Warn("No database path configured, profiles will not survive a restart")
		return memory.New(), nil
	}
	store, err := sqlite.New(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	slog.Info("Storage initialized", "database", dbPath)
	return store, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := loaded
	cfg.Addr = stringFlag(cmd, "addr", cfg.Addr)
	cfg.DBPath = stringFlag(cmd, "db", cfg.DBPath)
	cfg.MenuPath = stringFlag(cmd, "menu", cfg.MenuPath)
	cfg.StaticPath = stringFlag(cmd, "static", cfg.StaticPath)
	cfg.ZonesPath = stringFlag(cmd, "zones", cfg.ZonesPath)
	if err := cfg.Validate(); err != nil {
		return err
	}

	h, cleanup, err := buildServer(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.H2C(h),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		slog.Info("Connect server starting", "address", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// buildServer wires storage, services and metrics into the router.
func buildServer(cfg config.Config) (http.Handler, func(), error) {
	m, err := menu.Load(cfg.MenuPath)
	if err != nil {
		return nil, nil, err
	}
	catalog, err := cfg.Catalog()
	if err != nil {
		return nil, nil, err
	}
	backend, err := openBackend(cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	issuer := auth.NewIssuer(backend, auth.NewJWTManager(cfg.JWTSecret, cfg.ProfileTTL))

	staticDir := ""
	if cfg.StaticPath != "" {
		staticDir, err = filepath.Abs(cfg.StaticPath)
		if err != nil {
			backend.Close()
			return nil, nil, fmt.Errorf("failed to resolve static path: %w", err)
		}
		slog.Info("Serving static files", "path", staticDir)
	}

	h := server.Routes(server.Deps{
		Profiles:  service.NewProfileService(issuer),
		Orders:    service.NewOrderService(m, catalog, backend, cfg.Order, metrics.New(reg)),
		Issuer:    issuer,
		Catalog:   catalog,
		Gatherer:  reg,
		StaticDir: staticDir,
	})
	cleanup := func() {
		if err := backend.Close(); err != nil {
			slog.Error("Failed to close storage", "error", err)
		}
	}
	return h, cleanup, nil
}
