package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os/signal"
	"syscall"

	"ratewatch/internal/catalog"
	"ratewatch/internal/config"
	"ratewatch/internal/daemon"
	"ratewatch/internal/kodi"
	"ratewatch/internal/logging"
	"ratewatch/internal/providers/registry"
	"ratewatch/internal/schedule"
	"ratewatch/internal/updater"
)

func main() {
	configFlag := flag.String("config", "", "configuration file path")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, configPath, _, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	store, err := schedule.Open(cfg)
	if err != nil {
		logger.Error("open state database", logging.Error(err))
		return
	}

	client := kodi.NewClient(cfg.Kodi)
	runner := updater.NewRunner(
		catalog.NewSelector(client, cfg.Selection, logger),
		registry.Build(cfg, logger),
		catalog.NewWriter(client, logger),
		cfg.Selection,
		logger,
	)

	d, err := daemon.New(cfg, store, runner, logger)
	if err != nil {
		logger.Error("create daemon", logging.Error(err))
		_ = store.Close()
		return
	}
	defer d.Close()

	if err := d.Start(ctx); err != nil {
		logger.Error("daemon start", logging.Error(err))
		return
	}
	logger.Info("ratewatchd running", slog.String("config", configPath))

	<-ctx.Done()
	logger.Info("ratewatchd shutting down")
}
