package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/yourorg/wallboard/internal/api"
	"github.com/yourorg/wallboard/internal/auth"
	"github.com/yourorg/wallboard/internal/config"
	"github.com/yourorg/wallboard/internal/handlers"
	"github.com/yourorg/wallboard/internal/hub"
	"github.com/yourorg/wallboard/internal/store"
	"github.com/yourorg/wallboard/internal/sweeper"
	"github.com/yourorg/wallboard/internal/utils"
	"github.com/yourorg/wallboard/internal/ws"
)

func main() {
	path := os.Getenv("WALLBOARD_CONFIG")
	if path == "" {
		path = "config/config.yaml"
	}
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load: %v", err)
	}

	logger, err := utils.NewLogger(cfg.App.Env == "development")
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	for _, dir := range []string{cfg.Media.UploadsDir, cfg.Media.SoundsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logger.Fatalf("create media dir %s: %v", dir, err)
		}
	}

	st := store.New()
	hb := hub.New(cfg.WS.QueueSize, logger)

	sw := sweeper.New(st, cfg.Media.UploadsDir, cfg.Media.SoundsDir, cfg.Retention, cfg.SweepInterval, logger)
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	go sw.Run(sweepCtx)

	h := handlers.New(st, hb, cfg, logger)
	wsrv := ws.NewServer(hb, cfg.PingInterval, cfg.WriteDeadline, logger)
	app := api.New(cfg, h, wsrv, auth.NewValidator(cfg.JWT.Secret))

	errs := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.App.Port)
		logger.Infof("starting wallboard on %s", addr)
		errs <- app.Listen(addr)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case e := <-errs:
		logger.Fatalf("server error: %v", e)
	case s := <-sig:
		logger.Infof("signal received: %v", s)
	}

	stopSweep()
	if err := app.ShutdownWithTimeout(cfg.ShutdownTimeout); err != nil {
		logger.Warnf("shutdown: %v", err)
	}
	logger.Info("shutdown completed")
}
