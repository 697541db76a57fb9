package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"larry/internal/api"
	"larry/internal/api/handlers"
	"larry/internal/api/middleware"
	"larry/internal/engine/codes"
	"larry/internal/pkg/logger"
	"larry/internal/platform/audit"
	"larry/internal/platform/auth"
	"larry/internal/platform/config"
	"larry/internal/platform/database"
	"larry/internal/platform/repositories"
	"larry/migrations"
)

func main() {
	configPath := pflag.String("config", "configs/config.yaml", "Path to config file")
	pflag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if closer := logger.Init(cfg.Logging, "server"); closer != nil {
		defer closer.Close()
	}

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("jwt.secret must be set (JWT_SECRET)")
	}

	db, err := database.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if _, err := database.Migrate(db, migrations.FS); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply migrations")
	}

	// Services
	codeSvc, err := codes.NewService(
		codes.NewRepository(db),
		codes.NewRenderCache(cfg.Cache.RenderTTL, cfg.Cache.MaxEntries),
		codes.Options{
			DefaultLabel: cfg.QRCode.DefaultLabel,
			FontFile:     cfg.QRCode.FontFile,
			FontSize:     cfg.QRCode.FontSize,
			Encoder:      cfg.QRCode.Encoder,
			Retention:    cfg.QRCode.Retention,
		},
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid qrcode configuration")
	}
	tokenSvc := auth.NewTokenService(cfg.JWT)
	clientRepo := repositories.NewClientRepository(db)
	auditLog := audit.NewLogger(db)

	renderLimiter := middleware.NewRateLimiter(cfg.RateLimit.RenderPerMinute)
	defer renderLimiter.Stop()
	apiLimiter := middleware.NewRateLimiter(cfg.RateLimit.APIPerMinute)
	defer apiLimiter.Stop()

	router := api.NewRouter(&api.Dependencies{
		AuthHandler:    handlers.NewAuthHandler(clientRepo, tokenSvc, auditLog),
		CodeHandler:    handlers.NewCodeHandler(codeSvc, auditLog),
		AuditHandler:   handlers.NewAuditHandler(auditLog),
		RenderHandler:  handlers.NewRenderHandler(codeSvc),
		HealthHandler:  handlers.NewHealthHandler(db),
		MetricsHandler: handlers.NewMetricsHandler(codeSvc),
		AuthMiddleware: middleware.NewAuthMiddleware(tokenSvc),
		RenderLimiter:  renderLimiter,
		APILimiter:     apiLimiter,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      middleware.RequestLogger(router),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}
}
