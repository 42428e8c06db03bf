package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/cwrk-planet/epanel/config"
	"github.com/cwrk-planet/epanel/internal/catalog"
	"github.com/cwrk-planet/epanel/internal/qr"
	httpserver "github.com/cwrk-planet/epanel/internal/server/http"
	"github.com/cwrk-planet/epanel/internal/shell"
	transport "github.com/cwrk-planet/epanel/internal/transport/http"
	"github.com/cwrk-planet/epanel/internal/transport/ws"
	"github.com/cwrk-planet/epanel/pkg/logger"
)

func main() {
	// --- config ---
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger.Init(logger.Config{
		Env:       logger.ParseEnv(cfg.Logging.Env),
		Service:   cfg.Logging.Service,
		Version:   cfg.Logging.Version,
		Backend:   logger.Backend(cfg.Logging.Backend),
		AddSource: cfg.Logging.AddSource,
		Debug:     cfg.Logging.Debug,
	})
	slog.Info("starting epanel",
		"env", cfg.Logging.Env, "version", cfg.Logging.Version, "origin", cfg.Site.Origin)

	// --- catalog ---
	store, err := catalog.New(catalog.Seed())
	if err != nil {
		slog.Error("catalog init failed", "err", err)
		os.Exit(1)
	}

	sh, err := shell.New(store, cfg.Site.HandoffTTL, slog.Default())
	if err != nil {
		slog.Error("shell init failed", "err", err)
		os.Exit(1)
	}
	defer sh.Close()

	// --- qr ---
	enc, err := qr.NewCachedEncoder(qr.NewPNGEncoder(), cfg.QR.CacheMaxBytes)
	if err != nil {
		slog.Error("qr cache init failed", "err", err)
		os.Exit(1)
	}
	defer enc.Close()

	// --- WS Hub & Server ---
	hub := ws.NewHub()
	wsServer := ws.NewServer(hub, ws.Deps{
		Shell:             sh,
		Encoder:           enc,
		Origin:            cfg.Site.Origin,
		PanelPeriod:       cfg.Site.PanelPeriod,
		ParticipantPeriod: cfg.Site.ParticipantPeriod,
		Foreground:        cfg.QR.Foreground,
		Background:        cfg.QR.Background,
	})

	// --- HTTP ---
	router, err := transport.NewRouter(transport.Deps{
		Shell:          sh,
		Encoder:        enc,
		Origin:         cfg.Site.Origin,
		Foreground:     cfg.QR.Foreground,
		Background:     cfg.QR.Background,
		Hub:            hub,
		WS:             wsServer,
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
	})
	if err != nil {
		slog.Error("router init failed", "err", err)
		os.Exit(1)
	}

	srv := httpserver.New(httpserver.Config{
		Addr:         cfg.HTTP.Addr,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}, router)
	srv.OnShutdown(hub.CloseAll)

	// --- graceful shutdown ---
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-srv.Ready()
		slog.Info("http listen", "addr", srv.Addr().String())
	}()

	if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("server stopped with error", "err", err)
		os.Exit(1)
	}

	slog.Info("epanel stopped")
}
