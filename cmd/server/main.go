package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"customer-insights/internal/config"
	"customer-insights/internal/dashboard"
	"customer-insights/internal/handler"
	"customer-insights/internal/logger"
	"customer-insights/internal/service"
	"customer-insights/internal/session"

	"github.com/gin-gonic/gin"
)

func main() {
	configFile := flag.String("config", "", "config file path (e.g. etc/config-dev.yaml)")
	ephemeral := flag.Bool("ephemeral", false, "keep the session in memory only")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}
	logger.Init(cfg.Log, nil)
	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	var store session.Store = session.NewFileStore(cfg.Session.Path)
	if *ephemeral {
		store = session.NewMemoryStore()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend := service.NewBackend(cfg.Backend, nil)
	app := dashboard.NewApp(backend, store, cfg.Dashboard.CategoryField)
	if err := app.Start(ctx); err != nil {
		slog.Warn("saved session ignored", "path", cfg.Session.Path, "err", err)
	}

	h := handler.NewDashboardHandler(app, cfg.Dashboard, backend.BaseURL())
	r, err := handler.NewRouter(h, cfg.Server)
	if err != nil {
		slog.Error("router init failed", "err", err)
		os.Exit(1)
	}

	srv := &http.Server{Addr: cfg.Addr(), Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", cfg.Addr(), "backend", backend.BaseURL())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "err", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
