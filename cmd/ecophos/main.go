package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ecophos-dev/ecophos/db"
	"github.com/ecophos-dev/ecophos/internal/auth"
	"github.com/ecophos-dev/ecophos/internal/config"
	"github.com/ecophos-dev/ecophos/internal/handlers"
	"github.com/ecophos-dev/ecophos/internal/logging"
	"github.com/ecophos-dev/ecophos/internal/media"
	"github.com/ecophos-dev/ecophos/internal/realtime"
	"github.com/ecophos-dev/ecophos/internal/router"
	"github.com/ecophos-dev/ecophos/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

const shutdownTimeout = 10 * time.Second

func main() {
	envErr := godotenv.Load()

	configPath := pflag.String("config", os.Getenv("ECOPHOS_CONFIG"), "path to a YAML config file")
	port := pflag.String("port", "", "port to listen on (overrides PORT)")
	dataDir := pflag.String("data-dir", "", "directory holding the JSON documents (overrides DATA_DIR)")
	pflag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	if *port != "" {
		cfg.Port = *port
	}
	if *dataDir != "" {
		cfg.SetDataDir(*dataDir)
	}

	logger := logging.New(cfg.Log, os.Stdout)
	slog.SetDefault(logger)

	if envErr != nil {
		logger.Debug("no .env file loaded", "error", envErr)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	if cfg.UsingDefaultSecret {
		logger.Warn("JWT_SECRET not set, using the development secret")
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	store, err := db.Open(db.Options{
		Driver:      cfg.Storage.Driver,
		DataDir:     cfg.DataDir,
		DatabaseURL: cfg.Storage.DatabaseURL,
		Logger:      logger,
	})
	if err != nil {
		return err
	}
	defer store.Close()

	mediaStore, err := media.NewStore(cfg.MediaDir)
	if err != nil {
		return err
	}

	allowOrigin := router.OriginAllowed(cfg.AllowedOrigins)
	hub := realtime.NewHub(logger, func(r *http.Request) bool {
		return allowOrigin(r.Header.Get("Origin"))
	})
	defer hub.Close()

	opts := services.Options{
		Logger:     logger,
		Events:     hub,
		BcryptCost: cfg.BcryptCost,
	}

	var notifier services.ContactNotifier
	if webhooks := services.NewWebhookNotifier(cfg.Webhooks.DiscordURL, cfg.Webhooks.SlackURL); webhooks.Enabled() {
		notifier = webhooks
		logger.Info("contact notifications enabled")
	}

	sessions := auth.NewSessions(auth.NewIssuer(cfg.JWTSecret, cfg.SessionTTL), auth.CookieConfig{
		Name:   cfg.Cookie.Name,
		Domain: cfg.Cookie.Domain,
		Secure: cfg.Cookie.Secure,
	})

	h := &handlers.Handler{
		Store:    store,
		Sessions: sessions,
		Auth:     services.NewAuthService(store, opts),
		Admin:    services.NewAdminService(store, opts),
		Projects: services.NewProjectService(store, opts),
		News:     services.NewNewsService(store, mediaStore, opts),
		Contacts: services.NewContactService(store, notifier, opts),
		Hub:      hub,
		Logger:   logger,
	}

	if _, err := h.Admin.EnsureSeedAdmin(services.SeedAdmin{
		Username: cfg.SeedAdmin.Username,
		Password: cfg.SeedAdmin.Password,
		Email:    cfg.SeedAdmin.Email,
		Name:     cfg.SeedAdmin.Name,
	}); err != nil {
		return err
	}

	r := router.NewRouter(router.Options{
		Handler:        h,
		Sessions:       sessions,
		AllowedOrigins: cfg.AllowedOrigins,
		MediaDir:       cfg.MediaDir,
		FrontendDir:    cfg.FrontendDir,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			"port", cfg.Port,
			"storage", cfg.Storage.Driver,
			"data_dir", cfg.DataDir)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
