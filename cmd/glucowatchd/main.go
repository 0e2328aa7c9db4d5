package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/glucowatch/glucowatch/internal/alert"
	"github.com/glucowatch/glucowatch/internal/api"
	"github.com/glucowatch/glucowatch/internal/config"
	"github.com/glucowatch/glucowatch/internal/fetch"
	"github.com/glucowatch/glucowatch/internal/metrics"
	"github.com/glucowatch/glucowatch/internal/sched"
	"github.com/glucowatch/glucowatch/internal/ws"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	slog.Info("glucowatchd starting", "config", *configPath)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	slog.Info("config loaded",
		"endpoint", cfg.Source.Endpoint,
		"poll_interval", cfg.Source.PollInterval,
		"policy", cfg.Alerts.Policy,
		"link_candidates", len(cfg.Link.Candidates),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Link management only engages when candidate networks are configured.
	var link fetch.Link
	if len(cfg.Link.Candidates) > 0 {
		link = fetch.NewWirelessLink(cfg.Link, cfg.ProbeAddress())
	}
	client := fetch.New(cfg.Source, link)

	machine := alert.NewMachine(cfg.Alerts)
	var deliverer sched.Deliverer
	if len(cfg.Alerts.Webhooks) > 0 {
		deliverer = alert.NewNotifier(cfg.Alerts)
	}

	collector := metrics.NewCollector()
	scheduler := sched.New(cfg, client, machine, deliverer, collector)

	// WebSocket display clients get every cycle's frames.
	hub := ws.New()
	scheduler.AddSink(hub)

	// Hot-reload retunes thresholds only; endpoint or auth changes need a
	// restart.
	go func() {
		if err := config.Watch(ctx, *configPath, func(updated *config.Config) {
			scheduler.SetThresholds(updated.Thresholds)
		}); err != nil {
			slog.Error("config watcher stopped", "err", err)
		}
	}()

	go scheduler.Run(ctx)

	// Combined HTTP server: REST API + WebSocket hub + metrics on HTTPPort.
	// The exit command cancels the same context the signals do.
	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler: api.New(scheduler, hub, collector, cancel),
	}
	go func() {
		slog.Info("HTTP server listening", "port", cfg.Server.HTTPPort)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server stopped", "err", err)
		}
	}()

	<-ctx.Done()
	slog.Info("glucowatchd shutting down")
	hub.Close()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	httpSrv.Shutdown(shutdownCtx) //nolint:errcheck
}
