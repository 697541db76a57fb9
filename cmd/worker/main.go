package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"larry/internal/engine/codes"
	"larry/internal/pkg/logger"
	"larry/internal/platform/config"
	"larry/internal/platform/database"
	"larry/internal/workers"
)

func main() {
	configPath := pflag.String("config", "configs/config.yaml", "Path to config file")
	once := pflag.Bool("once", false, "Run a single purge pass and exit")
	pflag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if closer := logger.Init(cfg.Logging, "worker"); closer != nil {
		defer closer.Close()
	}

	db, err := database.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	svc, err := codes.NewService(codes.NewRepository(db), nil, codes.Options{Encoder: cfg.QRCode.Encoder})
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid qrcode configuration")
	}

	if cfg.Worker.PurgeInterval <= 0 {
		log.Fatal().Dur("purge_interval", cfg.Worker.PurgeInterval).Msg("worker.purge_interval must be positive")
	}

	if *once {
		if _, err := workers.PurgeExpiredCodes(svc, time.Now()); err != nil {
			os.Exit(1)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().Dur("interval", cfg.Worker.PurgeInterval).Msg("Starting background workers")
	workers.Run(ctx, svc, cfg.Worker.PurgeInterval)
}
